package tweetx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store writes raw and extracted documents into one output directory.
// Writes overwrite existing files and are not atomic.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (s *Store) Dir() string { return s.dir }

// RawFileName returns the file name used for a raw response.
func RawFileName(endpoint, tweetID string) string {
	return fmt.Sprintf("%s_%s.json", rawFilePrefix(endpoint), tweetID)
}

// ExtractedFileName returns the file name used for an extracted record.
func ExtractedFileName(tweetID string) string {
	return "extracted_" + tweetID + ".json"
}

// SaveResponse writes a raw response as tweet_detail_<id>.json or tweet_result_<id>.json.
func (s *Store) SaveResponse(resp *Response) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Body, "", "  "); err != nil {
		return "", fmt.Errorf("indent %s response: %w", resp.Endpoint, err)
	}
	buf.WriteByte('\n')
	return s.write(RawFileName(resp.Endpoint, resp.TweetID), buf.Bytes())
}

// SaveRecord writes rec as extracted_<id>.json.
func (s *Store) SaveRecord(tweetID string, rec *Record) (string, error) {
	return s.SaveRecordAs(ExtractedFileName(tweetID), rec)
}

// SaveRecordAs writes rec under name inside the output directory, stamping
// extracted_at when it is unset. name must be a bare file name.
func (s *Store) SaveRecordAs(name string, rec *Record) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", &ConfigError{Field: "output_filename", Reason: fmt.Sprintf("%q is not a plain file name", name)}
	}
	out := *rec
	if out.ExtractedAt == nil {
		now := s.now()
		out.ExtractedAt = &now
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return s.write(name, buf.Bytes())
}

// LoadDocument reads a previously saved raw response.
func LoadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !json.Valid(data) {
		return nil, &ParseError{Endpoint: "file", TweetID: filepath.Base(path), Err: fmt.Errorf("%s is not valid JSON", path)}
	}
	return data, nil
}

func (s *Store) write(name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("saved", slog.String("path", path), slog.Int("bytes", len(data)))
	return path, nil
}
