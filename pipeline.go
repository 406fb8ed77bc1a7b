package tweetx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Fetcher returns the raw document for a tweet from one endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, tweetID, endpoint string) (*Response, error)
}

// PipelineOptions controls FetchAndExtract.
type PipelineOptions struct {
	// Endpoint is tried first. Default: TweetResultByRestId.
	Endpoint string
	// Fallback allows one attempt against the other endpoint after an HTTP,
	// parse or extraction failure. Transport failures never fall back.
	Fallback bool
}

// Result describes one completed fetch-and-extract cycle.
type Result struct {
	Endpoint      string
	Record        *Record
	RawPath       string
	ExtractedPath string
}

// FetchAndExtract fetches tweetID, saves the raw document, extracts it and
// saves the flattened record. No extracted file is written on failure.
func FetchAndExtract(ctx context.Context, f Fetcher, store *Store, tweetID string, opts PipelineOptions) (*Result, error) {
	primary := opts.Endpoint
	if primary == "" {
		primary = TweetResultByRestID
	}
	if !IsSupportedEndpoint(primary) {
		return nil, &ConfigError{Field: "endpoint", Reason: "unsupported operation " + primary}
	}
	endpoints := []string{primary}
	if opts.Fallback {
		endpoints = append(endpoints, otherEndpoint(primary))
	}

	var lastErr error
	for i, endpoint := range endpoints {
		res, err := fetchAndExtractOnce(ctx, f, store, tweetID, endpoint)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if !canFallBack(err) || i == len(endpoints)-1 {
			break
		}
		slog.Warn("endpoint failed, trying fallback",
			slog.String("endpoint", endpoint),
			slog.String("fallback", endpoints[i+1]),
			slog.Any("error", err))
	}
	return nil, lastErr
}

func fetchAndExtractOnce(ctx context.Context, f Fetcher, store *Store, tweetID, endpoint string) (*Result, error) {
	resp, err := f.Fetch(ctx, tweetID, endpoint)
	if err != nil {
		return nil, err
	}
	rawPath, err := store.SaveResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("save raw response: %w", err)
	}

	rec, err := Extract(resp.Body, ExtractOptions{Endpoint: endpoint, TweetID: tweetID})
	if err != nil {
		return nil, err
	}
	extractedPath, err := store.SaveRecord(tweetID, rec)
	if err != nil {
		return nil, fmt.Errorf("save extracted record: %w", err)
	}
	return &Result{Endpoint: endpoint, Record: rec, RawPath: rawPath, ExtractedPath: extractedPath}, nil
}

func canFallBack(err error) bool {
	var (
		httpErr    *HTTPError
		parseErr   *ParseError
		extractErr *ExtractionError
	)
	return errors.As(err, &httpErr) || errors.As(err, &parseErr) || errors.As(err, &extractErr)
}
