package tweetx

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Fetch issues one request for tweetID against the named operation and
// returns the raw JSON document. Failures are *TransportError, *HTTPError,
// *ParseError or *ConfigError. Nothing is retried.
func (c *Client) Fetch(ctx context.Context, tweetID, endpoint string) (*Response, error) {
	if !ValidTweetID(tweetID) {
		return nil, &ConfigError{Field: "tweet_id", Reason: fmt.Sprintf("%q is not a numeric id", tweetID)}
	}
	ep, err := c.cfg.Endpoint(endpoint)
	if err != nil {
		return nil, err
	}
	url, err := ep.RequestURL(endpoint)
	if err != nil {
		return nil, err
	}
	url = addGraphQLParams(url, tweetVariables(endpoint, tweetID, ep.Variables), ep.Features, ep.FieldToggles)
	headers := requestHeaders(c.cfg.Headers, ep.Headers, c.cfg.Auth)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	start := time.Now()
	slog.Info("fetching tweet", slog.String("endpoint", endpoint), slog.String("tweet_id", tweetID))
	body, respHdrs, status, err := c.doGET(ctx, url, headers)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, TweetID: tweetID, Err: err}
	}
	slog.Debug("response received",
		slog.String("endpoint", endpoint),
		slog.Int("status", status),
		slog.Int("bytes", len(body)),
		slog.Duration("elapsed", time.Since(start)))

	warnCT0Rotation(respHdrs, c.cfg.Auth.CSRFToken)
	if err := checkResponse(endpoint, tweetID, body, status); err != nil {
		return nil, err
	}
	return &Response{Endpoint: endpoint, TweetID: tweetID, Body: body}, nil
}

// tweetVariables returns a copy of the configured variables with the tweet id
// set under the key the operation expects.
func tweetVariables(endpoint, tweetID string, defaults map[string]any) map[string]any {
	variables := make(map[string]any, len(defaults)+4)
	for k, v := range defaults {
		variables[k] = v
	}
	switch endpoint {
	case TweetDetail:
		variables["focalTweetId"] = tweetID
		for k, v := range map[string]any{
			"with_rux_injections":    false,
			"includePromotedContent": true,
			"withVoice":              true,
		} {
			if _, ok := variables[k]; !ok {
				variables[k] = v
			}
		}
	case TweetResultByRestID:
		variables["tweetId"] = tweetID
	}
	return variables
}

// ValidTweetID reports whether id is a non-empty decimal string.
func ValidTweetID(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
