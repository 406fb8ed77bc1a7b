package tweetx

import (
	"strings"

	stealth "github.com/anatolykoptev/go-stealth"
)

// defaultUserAgent is the fallback User-Agent when the configuration sets none.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// baseHeaders returns the headers the web client sends with every GraphQL read.
func baseHeaders() map[string]string {
	return map[string]string{
		"authorization":             "Bearer " + BearerToken,
		"x-twitter-active-user":     "yes",
		"x-twitter-auth-type":       "OAuth2Session",
		"x-twitter-client-language": "en",
		"content-type":              "application/json",
		"user-agent":                defaultUserAgent,
		"accept":                    "*/*",
		"accept-language":           "en-US,en;q=0.9",
		"accept-encoding":           "gzip, deflate, br",
		"referer":                   "https://x.com/",
		"origin":                    "https://x.com",
		"sec-fetch-dest":            "empty",
		"sec-fetch-mode":            "cors",
		"sec-fetch-site":            "same-origin",
	}
}

// requestHeaders layers built-in, shared and per-endpoint headers, then the
// auth values. Keys are lower-cased so later layers replace earlier ones.
func requestHeaders(shared, endpoint map[string]string, auth Auth) map[string]string {
	h := baseHeaders()
	for _, layer := range []map[string]string{shared, endpoint} {
		for k, v := range layer {
			h[strings.ToLower(k)] = v
		}
	}

	h["x-csrf-token"] = auth.CSRFToken
	h["cookie"] = "auth_token=" + auth.AuthToken + "; ct0=" + auth.CSRFToken

	if ch := stealth.ClientHintsHeaders(h["user-agent"]); ch != nil {
		for k, v := range ch {
			h[k] = v
		}
	}
	return h
}

// twitterHeaderOrder is the Twitter-specific header order for TLS fingerprint consistency.
var twitterHeaderOrder = []string{
	"authorization",
	"content-type",
	"x-csrf-token",
	"x-twitter-active-user",
	"x-twitter-auth-type",
	"x-twitter-client-language",
	"sec-ch-ua",
	"sec-ch-ua-mobile",
	"sec-ch-ua-platform",
	"sec-fetch-dest",
	"sec-fetch-mode",
	"sec-fetch-site",
	"cookie",
	"user-agent",
	"accept",
	"accept-language",
	"accept-encoding",
	"referer",
	"origin",
}
