package tweetx

import (
	"fmt"
	"io"
	"log/slog"

	stealth "github.com/anatolykoptev/go-stealth"
)

// doer is the part of the browser client the fetcher needs.
type doer interface {
	DoWithHeaderOrder(method, urlStr string, headers map[string]string, body io.Reader, order []string) ([]byte, map[string]string, int, error)
}

// Client fetches raw tweet documents from the GraphQL API.
type Client struct {
	client doer
	cfg    *Config
}

// NewClient validates cfg and creates a client backed by a stealth browser client.
func NewClient(cfg *Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []stealth.ClientOption{
		stealth.WithHeaderOrder(twitterHeaderOrder),
	}
	if cfg.Proxy != "" {
		opts = append(opts, stealth.WithProxy(cfg.Proxy))
		slog.Debug("using proxy", slog.String("proxy", stealth.MaskProxy(cfg.Proxy)))
	}
	bc, err := stealth.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("stealth client: %w", err)
	}
	return &Client{client: bc, cfg: cfg}, nil
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *Config {
	return c.cfg
}
