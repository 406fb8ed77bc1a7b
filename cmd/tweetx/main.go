// Command tweetx fetches a tweet from the X GraphQL API and writes the raw
// response together with a flattened tweet/user record.
//
//	tweetx [flags] [run] [tweet_id]
//	tweetx [flags] extract <input_file> <output_filename> [tweet_id]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/anatolykoptev/go-tweetx"
)

const (
	exitOK = iota
	exitFailure
	exitUsage
	exitFetch
	exitExtract
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	envErr := godotenv.Load()

	fs := flag.NewFlagSet("tweetx", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", envOr(tweetx.EnvConfigPath, tweetx.DefaultConfigPath), "path to config.json")
	outputDir := fs.String("output", "", "output directory (overrides config)")
	endpoint := fs.String("endpoint", "", "TweetDetail or TweetResultByRestId (overrides config)")
	logLevel := fs.String("log-level", envOr(tweetx.EnvLogLevel, "info"), "debug, info, warn or error")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(*logLevel)})))
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		slog.Warn("error loading .env file", slog.Any("error", envErr))
	}

	o := options{configPath: *configPath, outputDir: *outputDir, endpoint: *endpoint}
	rest := fs.Args()
	if len(rest) > 0 && rest[0] == "extract" {
		return report(stderr, runExtract(rest[1:], o, stdout))
	}
	if len(rest) > 0 && rest[0] == "run" {
		rest = rest[1:]
	}
	if len(rest) > 1 {
		usage(stderr)
		return exitUsage
	}
	return report(stderr, runFetch(rest, o, stdout))
}

type options struct {
	configPath string
	outputDir  string
	endpoint   string
}

// loadConfig reads the config file and applies environment and flag overrides.
// A missing file is tolerated only when optional is set.
func loadConfig(o options, optional bool) (*tweetx.Config, error) {
	cfg, err := tweetx.LoadConfig(o.configPath)
	if err != nil {
		if !optional || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		slog.Debug("config not loaded, using defaults", slog.Any("error", err))
		cfg = tweetx.DefaultConfig()
	}
	cfg.ApplyEnv()
	if o.outputDir != "" {
		cfg.OutputDir = o.outputDir
	}
	if o.endpoint != "" {
		cfg.DefaultEndpoint = o.endpoint
	}
	return cfg, nil
}

func runFetch(args []string, o options, stdout io.Writer) error {
	cfg, err := loadConfig(o, false)
	if err != nil {
		return err
	}

	tweetID := cfg.DefaultTweetID
	if len(args) == 1 {
		tweetID = args[0]
	}
	if tweetID == "" {
		return &tweetx.ConfigError{Field: "tweet_id", Reason: "no tweet id given and no default_tweet_id configured"}
	}
	if !tweetx.ValidTweetID(tweetID) {
		return &tweetx.ConfigError{Field: "tweet_id", Reason: fmt.Sprintf("%q is not a numeric id", tweetID)}
	}

	client, err := tweetx.NewClient(cfg)
	if err != nil {
		return err
	}
	slog.Info("using tweet id", slog.String("tweet_id", tweetID), slog.String("endpoint", cfg.DefaultEndpoint))

	res, err := tweetx.FetchAndExtract(context.Background(), client, tweetx.NewStore(cfg.OutputDir), tweetID, tweetx.PipelineOptions{
		Endpoint: cfg.DefaultEndpoint,
		Fallback: cfg.Fallback,
	})
	if err != nil {
		return err
	}
	printSummary(stdout, res.Record, true)
	return nil
}

func runExtract(args []string, o options, stdout io.Writer) error {
	if len(args) < 2 || len(args) > 3 {
		return &tweetx.ConfigError{Reason: "usage: tweetx extract <input_file> <output_filename> [tweet_id]"}
	}
	inputFile, outputName := args[0], args[1]
	opts := tweetx.ExtractOptions{Endpoint: o.endpoint}
	if len(args) == 3 {
		opts.TweetID = args[2]
	}

	data, err := tweetx.LoadDocument(inputFile)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o, true)
	if err != nil {
		return err
	}

	rec, err := tweetx.Extract(data, opts)
	if err != nil {
		return err
	}
	if _, err := tweetx.NewStore(cfg.OutputDir).SaveRecordAs(outputName, rec); err != nil {
		return err
	}
	printSummary(stdout, rec, false)
	return nil
}

// report logs err and maps it to an exit code.
func report(stderr io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	code := exitCode(err)
	slog.Error("failed", slog.Any("error", err), slog.Int("exit_code", code))
	fmt.Fprintln(stderr, "error:", err)
	if code == exitUsage {
		usage(stderr)
	}
	return code
}

func exitCode(err error) int {
	var (
		cfgErr       *tweetx.ConfigError
		extractErr   *tweetx.ExtractionError
		transportErr *tweetx.TransportError
		httpErr      *tweetx.HTTPError
		parseErr     *tweetx.ParseError
	)
	switch {
	case errors.As(err, &cfgErr):
		return exitUsage
	case errors.As(err, &extractErr):
		return exitExtract
	case errors.As(err, &transportErr), errors.As(err, &httpErr), errors.As(err, &parseErr):
		return exitFetch
	}
	return exitFailure
}

func printSummary(w io.Writer, rec *tweetx.Record, engagement bool) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "Tweet: @%s - %s\n", rec.User.ScreenName, truncateRunes(rec.Tweet.Text, 100))
	p.Fprintf(w, "User: %s (%d followers)\n", rec.User.Name, rec.User.Followers)
	if engagement {
		p.Fprintf(w, "Engagement: %d likes, %d retweets\n", rec.Tweet.Likes, rec.Tweet.Retweets)
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  tweetx [flags] [run] [tweet_id]
  tweetx [flags] extract <input_file> <output_filename> [tweet_id]

Examples:
  tweetx 1975583212085932341
  tweetx                      # uses default_tweet_id from the config
  tweetx extract output/tweet_detail_123.json extracted_123.json

Flags:
  -config string     path to config.json (default "settings/config.json")
  -output string     output directory
  -endpoint string   TweetDetail or TweetResultByRestId
  -log-level string  debug, info, warn or error (default "info")
`)
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
