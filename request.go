package tweetx

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"unicode/utf8"
)

const bodyExcerptLen = 200

type rawResult struct {
	body    []byte
	headers map[string]string
	status  int
	err     error
}

// doGET executes a single GET request. The call is abandoned when ctx is done.
func (c *Client) doGET(ctx context.Context, url string, headers map[string]string) ([]byte, map[string]string, int, error) {
	done := make(chan rawResult, 1)
	go func() {
		body, respHdrs, status, err := c.client.DoWithHeaderOrder("GET", url, headers, nil, twitterHeaderOrder)
		done <- rawResult{body: body, headers: respHdrs, status: status, err: err}
	}()

	select {
	case r := <-done:
		return r.body, r.headers, r.status, r.err
	case <-ctx.Done():
		return nil, nil, 0, ctx.Err()
	}
}

// checkResponse turns a completed exchange into a typed outcome.
func checkResponse(endpoint, tweetID string, body []byte, status int) error {
	if status < 200 || status > 299 {
		code, _ := firstAPIError(body)
		slog.Warn("non-2xx response",
			slog.String("endpoint", endpoint),
			slog.String("tweet_id", tweetID),
			slog.Int("status", status),
			slog.String("body", truncateBytes(body, 500)))
		return &HTTPError{
			Endpoint:    endpoint,
			TweetID:     tweetID,
			Status:      status,
			BodyExcerpt: truncateBytes(body, bodyExcerptLen),
			APICode:     code,
		}
	}

	var probe json.RawMessage
	if err := json.Unmarshal(body, &probe); err != nil {
		return &ParseError{Endpoint: endpoint, TweetID: tweetID, Err: err}
	}

	// Partial errors are common (code 131 with usable data); extraction decides.
	if code, msg := firstAPIError(body); code != 0 || msg != "" {
		slog.Warn("response carries API errors",
			slog.String("endpoint", endpoint),
			slog.String("tweet_id", tweetID),
			slog.Int("code", code),
			slog.String("class", classifyError(body).String()),
			slog.String("message", msg),
			slog.Bool("has_data", hasResponseData(body)))
	}
	return nil
}

// truncateBytes cuts b to at most n bytes without splitting a UTF-8 sequence.
func truncateBytes(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return string(b[:n]) + "..."
}

// hasResponseData returns true if the JSON body contains a non-null "data" field.
func hasResponseData(body []byte) bool {
	var probe struct {
		Data json.RawMessage `json:"data"`
	}
	if json.Unmarshal(body, &probe) != nil {
		return false
	}
	return len(probe.Data) > 0 && string(probe.Data) != "null"
}

// addGraphQLParams builds the full URL with variables, features, and optional fieldToggles.
func addGraphQLParams(url string, variables, features map[string]any, fieldToggles ...map[string]any) string {
	v, _ := json.Marshal(variables)
	f, _ := json.Marshal(features)
	sep := "?"
	if strings.Contains(url, "?") {
		sep = "&"
	}
	result := url + sep + "variables=" + jsonEscape(v) + "&features=" + jsonEscape(f)
	if len(fieldToggles) > 0 && len(fieldToggles[0]) > 0 {
		ft, _ := json.Marshal(fieldToggles[0])
		result += "&fieldToggles=" + jsonEscape(ft)
	}
	return result
}

// jsonEscape percent-encodes the characters a JSON query value needs escaped.
func jsonEscape(b []byte) string {
	var result strings.Builder
	for _, ch := range string(b) {
		switch ch {
		case ' ':
			result.WriteString("%20")
		case '"':
			result.WriteString("%22")
		case '{':
			result.WriteString("%7B")
		case '}':
			result.WriteString("%7D")
		case '[':
			result.WriteString("%5B")
		case ']':
			result.WriteString("%5D")
		case ':':
			result.WriteString("%3A")
		case ',':
			result.WriteString("%2C")
		case '\'':
			result.WriteString("%27")
		case '|':
			result.WriteString("%7C")
		case '&':
			result.WriteString("%26")
		case '#':
			result.WriteString("%23")
		case '+':
			result.WriteString("%2B")
		case '%':
			result.WriteString("%25")
		default:
			result.WriteRune(ch)
		}
	}
	return result.String()
}
