package tweetx

import (
	"log/slog"
	"strings"
)

// extractCT0FromHeaders parses the ct0 value from a set-cookie response header.
func extractCT0FromHeaders(headers map[string]string) string {
	cookie := headers["set-cookie"]
	if cookie == "" {
		return ""
	}
	for _, part := range strings.Split(cookie, ";") {
		part = strings.TrimSpace(part)
		if val, ok := strings.CutPrefix(part, "ct0="); ok && val != "" {
			return val
		}
	}
	return ""
}

// warnCT0Rotation logs when the server hands out a ct0 different from the
// configured csrf_token. The configuration is never rewritten.
func warnCT0Rotation(respHeaders map[string]string, configured string) bool {
	issued := extractCT0FromHeaders(respHeaders)
	if issued == "" || issued == configured {
		return false
	}
	slog.Warn("server issued a new ct0, update auth.csrf_token",
		slog.String("prefix", issued[:min(8, len(issued))]))
	return true
}
