package tweetx

import (
	"fmt"

	"github.com/buger/jsonparser"
)

// Extraction failure reasons.
const (
	ReasonUnrecognizedShape = "unrecognized shape"
	ReasonTweetUnavailable  = "tweet_unavailable"
	ReasonTweetNotFound     = "tweet_not_found"
)

// ConfigError reports a missing or malformed configuration value.
// It is always raised before any network call.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// TransportError wraps a network-level failure (dial, TLS, timeout).
type TransportError struct {
	Endpoint string
	TweetID  string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: transport: %v", e.Endpoint, e.TweetID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Endpoint    string
	TweetID     string
	Status      int
	BodyExcerpt string
	APICode     int // first GraphQL error code in the body, 0 if none
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: HTTP %d", e.Endpoint, e.TweetID, e.Status)
	if e.APICode != 0 {
		msg += fmt.Sprintf(" (%s, code %d)", classifyCode(e.APICode), e.APICode)
	}
	if e.BodyExcerpt != "" {
		msg += ": " + e.BodyExcerpt
	}
	return msg
}

// ParseError reports a response body that is not valid JSON.
type ParseError struct {
	Endpoint string
	TweetID  string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: invalid JSON body: %v", e.Endpoint, e.TweetID, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractionError means the API was reached but the document holds no usable tweet.
type ExtractionError struct {
	Reason string
	Detail string
}

func (e *ExtractionError) Error() string {
	if e.Detail == "" {
		return "extract: " + e.Reason
	}
	return fmt.Sprintf("extract: %s: %s", e.Reason, e.Detail)
}

// errorClass categorizes Twitter API error codes.
type errorClass int

const (
	errNone          errorClass = iota
	errBanned                   // 88
	errSuspended                // 64
	errLocked                   // 326
	errCSRF                     // 353
	errAuthExpired              // 32
	errBlocked                  // 161
	errNotAuthorized            // 179, 219
	errInternal                 // 131
	errNotFound                 // 144
)

var errorClassNames = map[errorClass]string{
	errNone:          "unknown error",
	errBanned:        "rate limit exceeded",
	errSuspended:     "account suspended",
	errLocked:        "account locked",
	errCSRF:          "csrf token mismatch",
	errAuthExpired:   "could not authenticate",
	errBlocked:       "blocked",
	errNotAuthorized: "not authorized",
	errInternal:      "internal error",
	errNotFound:      "no status found",
}

func (c errorClass) String() string { return errorClassNames[c] }

func codeClass(code int) errorClass {
	switch code {
	case 88:
		return errBanned
	case 64:
		return errSuspended
	case 326:
		return errLocked
	case 353:
		return errCSRF
	case 32:
		return errAuthExpired
	case 161:
		return errBlocked
	case 179, 219:
		return errNotAuthorized
	case 131:
		return errInternal
	case 144:
		return errNotFound
	}
	return errNone
}

func classifyCode(code int) string { return codeClass(code).String() }

// firstAPIError returns the first error code and message in a response body's
// "errors" array. Code is 0 when the body carries no errors.
func firstAPIError(body []byte) (code int, message string) {
	found := false
	_, _ = jsonparser.ArrayEach(body, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if found || err != nil {
			return
		}
		if c, cErr := jsonparser.GetInt(value, "code"); cErr == nil {
			code = int(c)
			found = true
		}
		if m, mErr := jsonparser.GetString(value, "message"); mErr == nil {
			message = m
			found = true
		}
	}, "errors")
	return code, message
}

// classifyError inspects a response body for known Twitter error codes.
func classifyError(body []byte) errorClass {
	code, _ := firstAPIError(body)
	if code == 0 {
		return errNone
	}
	return codeClass(code)
}
