package tweetx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultConfigPath is where the CLI looks for the configuration file.
const DefaultConfigPath = "settings/config.json"

// Auth carries the session cookies of a logged-in web session.
// CSRFToken is sent both as the ct0 cookie and the x-csrf-token header.
type Auth struct {
	AuthToken string `json:"auth_token"`
	CSRFToken string `json:"csrf_token"`
}

// Config is loaded once at startup and treated as read-only afterwards.
type Config struct {
	Auth Auth `json:"auth"`

	// DefaultTweetID is used by the run command when no id is given.
	DefaultTweetID string `json:"default_tweet_id,omitempty"`

	// DefaultEndpoint is the first operation tried. Default: TweetResultByRestId.
	DefaultEndpoint string `json:"default_endpoint,omitempty"`

	// Fallback enables one attempt against the other endpoint when the
	// default one returns an unusable response.
	Fallback bool `json:"fallback,omitempty"`

	// Headers are sent with every request, below per-endpoint headers.
	Headers map[string]string `json:"headers,omitempty"`

	Endpoints map[string]Endpoint `json:"endpoints"`

	// TimeoutSeconds bounds a single request. Default: 30.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	Proxy     string `json:"proxy,omitempty"`
	OutputDir string `json:"output_dir,omitempty"`
}

// Environment variables that override file values.
const (
	EnvConfigPath = "TWEETX_CONFIG"
	EnvOutputDir  = "TWEETX_OUTPUT_DIR"
	EnvAuthToken  = "TWEETX_AUTH_TOKEN"
	EnvCSRFToken  = "TWEETX_CSRF_TOKEN"
	EnvLogLevel   = "TWEETX_LOG_LEVEL"
)

// LoadConfig reads a JSON configuration file and fills in defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Field: path, Reason: "file not found", Err: err}
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a configuration document and fills in defaults.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Reason: "malformed JSON", Err: err}
	}
	cfg.defaults()
	return &cfg, nil
}

// DefaultConfig returns a configuration with only built-in values.
// Extraction from saved files works with it; fetching needs auth.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

// ApplyEnv overrides file values with non-empty environment variables.
func (cfg *Config) ApplyEnv() {
	if v := os.Getenv(EnvAuthToken); v != "" {
		cfg.Auth.AuthToken = v
	}
	if v := os.Getenv(EnvCSRFToken); v != "" {
		cfg.Auth.CSRFToken = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.OutputDir = v
	}
}

// defaults fills in zero-value config fields with sensible defaults and
// layers configured endpoints over the built-in templates.
func (cfg *Config) defaults() {
	if cfg.DefaultEndpoint == "" {
		cfg.DefaultEndpoint = TweetResultByRestID
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}

	merged := defaultEndpoints()
	for name, ep := range cfg.Endpoints {
		base, ok := merged[name]
		if !ok {
			merged[name] = ep
			continue
		}
		if ep.URL != "" {
			base.URL = ep.URL
		}
		if ep.QueryID != "" {
			base.QueryID = ep.QueryID
		}
		base.Headers = mergeMap(base.Headers, ep.Headers)
		base.Variables = mergeMap(base.Variables, ep.Variables)
		base.Features = mergeMap(base.Features, ep.Features)
		base.FieldToggles = mergeMap(base.FieldToggles, ep.FieldToggles)
		merged[name] = base
	}
	cfg.Endpoints = merged
}

// Timeout returns the per-request timeout.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutSeconds) * time.Second
}

// Validate checks everything a fetch needs.
func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Auth.AuthToken) == "" {
		return &ConfigError{Field: "auth.auth_token", Reason: "missing"}
	}
	if strings.TrimSpace(cfg.Auth.CSRFToken) == "" {
		return &ConfigError{Field: "auth.csrf_token", Reason: "missing"}
	}
	if !IsSupportedEndpoint(cfg.DefaultEndpoint) {
		return &ConfigError{Field: "default_endpoint", Reason: fmt.Sprintf("unsupported operation %q", cfg.DefaultEndpoint)}
	}
	for _, name := range []string{TweetDetail, TweetResultByRestID} {
		if _, err := cfg.Endpoints[name].RequestURL(name); err != nil {
			return err
		}
	}
	return nil
}

// Endpoint returns the request template for a supported operation.
func (cfg *Config) Endpoint(name string) (Endpoint, error) {
	if !IsSupportedEndpoint(name) {
		return Endpoint{}, &ConfigError{Field: "endpoint", Reason: fmt.Sprintf("unsupported operation %q", name)}
	}
	return cfg.Endpoints[name], nil
}

func mergeMap[V any](base, over map[string]V) map[string]V {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]V, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
