package tweetx

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"
)

// ExtractOptions narrows how a raw document is read.
type ExtractOptions struct {
	// Endpoint names the operation that produced the document. Empty means
	// detect the shape from the document itself.
	Endpoint string

	// TweetID selects the focal entry in a TweetDetail timeline. Empty means
	// the first tweet entry.
	TweetID string
}

// shapeKind is the closed set of outcomes of classify.
type shapeKind int

const (
	shapeUnrecognized shapeKind = iota
	shapeDetailTimeline
	shapeDirectResult
	shapeTombstone
	shapeMissing
)

var shapeNames = [...]string{"unrecognized", "detail-timeline", "direct-result", "tombstone", "missing"}

func (k shapeKind) String() string { return shapeNames[k] }

// classification is the result of locating the tweet entry in a document.
// tweet is only set for shapeDetailTimeline and shapeDirectResult.
type classification struct {
	kind   shapeKind
	tweet  gjson.Result
	detail string
}

const (
	detailInstructionsPath = "data.threaded_conversation_with_injections_v2.instructions"
	directResultPath       = "data.tweetResult"
)

// Extract locates the tweet entry in a raw GraphQL document and flattens it.
// Only an unrecognized shape, an unavailable tweet, or a TweetDetail document
// without the requested tweet are errors; missing fields take defaults.
func Extract(raw []byte, opts ExtractOptions) (*Record, error) {
	if opts.Endpoint != "" && !IsSupportedEndpoint(opts.Endpoint) {
		return nil, &ConfigError{Field: "endpoint", Reason: "unsupported operation " + opts.Endpoint}
	}
	if !gjson.ValidBytes(raw) {
		return nil, &ParseError{Endpoint: opts.Endpoint, TweetID: opts.TweetID, Err: errors.New("document is not valid JSON")}
	}

	c := classify(gjson.ParseBytes(raw), opts)
	slog.Debug("classified document", slog.String("shape", c.kind.String()), slog.String("tweet_id", opts.TweetID))

	switch c.kind {
	case shapeDetailTimeline, shapeDirectResult:
		rec := &Record{
			Tweet: flattenTweet(c.tweet),
			User:  flattenUser(c.tweet),
		}
		if opts.TweetID != "" && rec.Tweet.ID != opts.TweetID {
			slog.Warn("document holds a different tweet than requested",
				slog.String("requested", opts.TweetID), slog.String("found", rec.Tweet.ID))
		}
		return rec, nil
	case shapeTombstone:
		return nil, &ExtractionError{Reason: ReasonTweetUnavailable, Detail: c.detail}
	case shapeMissing:
		return nil, &ExtractionError{Reason: ReasonTweetNotFound, Detail: c.detail}
	default:
		return nil, &ExtractionError{Reason: ReasonUnrecognizedShape, Detail: c.detail}
	}
}

// classify decides which shape a document has and locates its tweet entry.
func classify(doc gjson.Result, opts ExtractOptions) classification {
	instructions := doc.Get(detailInstructionsPath)
	direct := doc.Get(directResultPath)

	endpoint := opts.Endpoint
	if endpoint == "" {
		switch {
		case instructions.IsArray():
			endpoint = TweetDetail
		case direct.Exists():
			endpoint = TweetResultByRestID
		}
	}

	switch endpoint {
	case TweetDetail:
		if !instructions.IsArray() {
			return classification{kind: shapeUnrecognized, detail: "no timeline instructions"}
		}
		entry, ok := findDetailEntry(instructions, opts.TweetID)
		if !ok {
			if opts.TweetID != "" {
				return classification{kind: shapeMissing, detail: "no entry for tweet " + opts.TweetID}
			}
			return classification{kind: shapeMissing, detail: "timeline has no tweet entries"}
		}
		return settle(shapeDetailTimeline, entry)
	case TweetResultByRestID:
		if !direct.Exists() {
			return classification{kind: shapeUnrecognized, detail: "no tweetResult"}
		}
		return settle(shapeDirectResult, direct.Get("result"))
	}
	return classification{kind: shapeUnrecognized}
}

// settle unwraps a located result and checks for placeholder variants.
func settle(kind shapeKind, result gjson.Result) classification {
	tweet := unwrapTweet(result)
	if reason, unavailable := tombstoneReason(tweet); unavailable {
		return classification{kind: shapeTombstone, detail: reason}
	}
	return classification{kind: kind, tweet: tweet}
}

// unwrapTweet peels visibility and bare {"tweet": ...} wrappers.
func unwrapTweet(r gjson.Result) gjson.Result {
	for range 3 {
		inner := r.Get("tweet")
		if !inner.IsObject() {
			return r
		}
		if r.Get("__typename").String() == "TweetWithVisibilityResults" || !r.Get("legacy").Exists() {
			r = inner
			continue
		}
		return r
	}
	return r
}

// tombstoneReason reports whether r is a placeholder instead of tweet data.
func tombstoneReason(r gjson.Result) (string, bool) {
	if !r.IsObject() || len(r.Map()) == 0 {
		return "empty result", true
	}
	switch r.Get("__typename").String() {
	case "TweetTombstone":
		if text := r.Get("tombstone.text.text").String(); text != "" {
			return text, true
		}
		return "tombstone", true
	case "TweetUnavailable":
		if reason := r.Get("reason").String(); reason != "" {
			return reason, true
		}
		return "unavailable", true
	}
	if !r.Get("legacy").Exists() && !r.Get("rest_id").Exists() {
		return "no tweet data", true
	}
	return "", false
}

// timelineCandidate is one tweet-bearing item found in a TweetDetail timeline.
type timelineCandidate struct {
	entryID string
	result  gjson.Result
}

// findDetailEntry scans every instruction for the focal tweet.
func findDetailEntry(instructions gjson.Result, tweetID string) (gjson.Result, bool) {
	var candidates []timelineCandidate
	instructions.ForEach(func(_, instruction gjson.Result) bool {
		instruction.Get("entries").ForEach(func(_, entry gjson.Result) bool {
			candidates = appendEntry(candidates, entry)
			return true
		})
		if entry := instruction.Get("entry"); entry.IsObject() {
			candidates = appendEntry(candidates, entry)
		}
		return true
	})

	if tweetID == "" {
		if len(candidates) == 0 {
			return gjson.Result{}, false
		}
		for _, c := range candidates {
			if _, placeholder := tombstoneReason(unwrapTweet(c.result)); !placeholder {
				return c.result, true
			}
		}
		// Only placeholders: report the first one as unavailable.
		return candidates[0].result, true
	}
	for _, c := range candidates {
		if c.entryID == "tweet-"+tweetID || strings.HasSuffix(c.entryID, "-tweet-"+tweetID) {
			return c.result, true
		}
		if unwrapTweet(c.result).Get("rest_id").String() == tweetID {
			return c.result, true
		}
	}
	return gjson.Result{}, false
}

// appendEntry adds the tweet results of a timeline entry, including the
// items of conversation modules. Cursors and promoted entries are skipped.
func appendEntry(candidates []timelineCandidate, entry gjson.Result) []timelineCandidate {
	entryID := entry.Get("entryId").String()
	if skipEntry(entryID) {
		return candidates
	}
	content := entry.Get("content")
	if result := content.Get("itemContent.tweet_results.result"); result.Exists() {
		candidates = append(candidates, timelineCandidate{entryID: entryID, result: result})
	}
	content.Get("items").ForEach(func(_, item gjson.Result) bool {
		itemID := item.Get("entryId").String()
		if skipEntry(itemID) {
			return true
		}
		if result := item.Get("item.itemContent.tweet_results.result"); result.Exists() {
			candidates = append(candidates, timelineCandidate{entryID: itemID, result: result})
		}
		return true
	})
	return candidates
}

func skipEntry(entryID string) bool {
	return strings.HasPrefix(entryID, "cursor-") ||
		strings.Contains(entryID, "promoted-") ||
		strings.Contains(entryID, "-cursor-")
}
