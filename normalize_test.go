package tweetx

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const fixtureTweetID = "1975583212085932341"

func loadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func requireExtractionError(t *testing.T, err error, reason string) *ExtractionError {
	t.Helper()
	var extractErr *ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Equal(t, reason, extractErr.Reason)
	return extractErr
}

func TestExtract_TweetResultByRestID(t *testing.T) {
	rec, err := Extract(loadFixture(t, "tweet_result.json"), ExtractOptions{})
	require.NoError(t, err)

	quoted := "1975000000000000000"
	want := &Record{
		Tweet: TweetRecord{
			ID:             fixtureTweetID,
			Text:           "hello world",
			CreatedAt:      "Tue Oct 07 15:04:05 +0000 2025",
			Likes:          42,
			Retweets:       10,
			Replies:        5,
			Quotes:         2,
			Bookmarks:      7,
			Views:          1234,
			Lang:           "en",
			Source:         `<a href="https://mobile.twitter.com" rel="nofollow">Twitter Web App</a>`,
			ConversationID: fixtureTweetID,
			Media: []Media{
				{Type: "photo", URL: "https://pbs.twimg.com/media/abc.jpg", AltText: "a cat", DisplayURL: "pic.x.com/abc"},
				{Type: "video", URL: "https://pbs.twimg.com/ext_tw_video_thumb/1/pu/img/def.jpg", DisplayURL: "pic.x.com/def"},
			},
			QuotedTweetID: &quoted,
		},
		User: UserRecord{
			ID:               "44196397",
			ScreenName:       "alice",
			Name:             "Alice",
			Description:      "just alice",
			Location:         "Wonderland",
			Followers:        12345,
			Following:        321,
			Statuses:         999,
			CreatedAt:        "Tue Jun 02 20:12:29 +0000 2009",
			BlueVerified:     true,
			ProfileImageURL:  "https://pbs.twimg.com/profile_images/1/alice_normal.jpg",
			ProfileBannerURL: "https://pbs.twimg.com/profile_banners/44196397/1",
			URL:              "https://t.co/alice",
		},
	}
	assert.Equal(t, want, rec)
}

func TestExtract_OutputShape(t *testing.T) {
	rec, err := Extract(loadFixture(t, "tweet_result.json"), ExtractOptions{Endpoint: TweetResultByRestID})
	require.NoError(t, err)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	doc := gjson.ParseBytes(out)
	assert.Equal(t, fixtureTweetID, doc.Get("tweet.id").String())
	assert.Equal(t, "hello world", doc.Get("tweet.text").String())
	assert.Equal(t, int64(42), doc.Get("tweet.likes").Int())
	assert.Equal(t, "alice", doc.Get("user.screen_name").String())
	assert.Equal(t, gjson.Null, doc.Get("tweet.retweeted_tweet_id").Type)
	assert.False(t, doc.Get("extracted_at").Exists())
}

func TestExtract_TweetDetailRequestedID(t *testing.T) {
	raw := loadFixture(t, "tweet_detail.json")

	rec, err := Extract(raw, ExtractOptions{TweetID: fixtureTweetID})
	require.NoError(t, err)

	assert.Equal(t, fixtureTweetID, rec.Tweet.ID)
	assert.Equal(t, "hello world, but the long version", rec.Tweet.Text)
	assert.Equal(t, int64(42), rec.Tweet.Likes, "numeric string count")
	assert.Equal(t, int64(0), rec.Tweet.Retweets, "negative count")
	assert.Equal(t, int64(0), rec.Tweet.Views, "non-numeric count")
	assert.Equal(t, int64(5), rec.Tweet.Replies)
	assert.NotNil(t, rec.Tweet.Media)
	assert.Empty(t, rec.Tweet.Media)
	assert.Nil(t, rec.Tweet.QuotedTweetID)
	require.NotNil(t, rec.Tweet.RetweetedTweetID)
	assert.Equal(t, "1974000000000000000", *rec.Tweet.RetweetedTweetID)

	assert.Equal(t, "44196397", rec.User.ID)
	assert.Equal(t, "alice", rec.User.ScreenName)
	assert.Equal(t, "Alice", rec.User.Name)
	assert.Equal(t, "Wonderland", rec.User.Location)
	assert.Equal(t, "Tue Jun 02 20:12:29 +0000 2009", rec.User.CreatedAt)
	assert.True(t, rec.User.Verified)
	assert.False(t, rec.User.BlueVerified)
	assert.Equal(t, "https://pbs.twimg.com/profile_images/1/alice_normal.jpg", rec.User.ProfileImageURL)
	assert.Equal(t, int64(12345), rec.User.Followers)
}

func TestExtract_TweetDetailSelection(t *testing.T) {
	raw := loadFixture(t, "tweet_detail.json")

	tests := []struct {
		name     string
		opts     ExtractOptions
		wantID   string
		wantText string
	}{
		{"first tweet entry without id", ExtractOptions{}, "1975500000000000000", "parent tweet"},
		{"explicit hint without id", ExtractOptions{Endpoint: TweetDetail}, "1975500000000000000", "parent tweet"},
		{"conversation module item", ExtractOptions{TweetID: "1975700000000000000"}, "1975700000000000000", "a reply"},
		{"focal tweet with hint", ExtractOptions{Endpoint: TweetDetail, TweetID: fixtureTweetID}, fixtureTweetID, "hello world, but the long version"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract(raw, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, rec.Tweet.ID)
			assert.Equal(t, tt.wantText, rec.Tweet.Text)
		})
	}
}

func TestExtract_TweetDetailSkipsPlaceholdersWithoutID(t *testing.T) {
	raw := `{"data":{"threaded_conversation_with_injections_v2":{"instructions":[{"type":"TimelineAddEntries","entries":[
		{"entryId":"tweet-100","content":{"itemContent":{"tweet_results":{"result":{"__typename":"TweetTombstone","tombstone":{"text":{"text":"This Post was deleted"}}}}}}},
		{"entryId":"tweet-150","content":{"itemContent":{"tweet_results":{"result":{"__typename":"TweetUnavailable","reason":"Protected"}}}}},
		{"entryId":"tweet-200","content":{"itemContent":{"tweet_results":{"result":{"__typename":"Tweet","rest_id":"200","legacy":{"full_text":"still here"}}}}}}
	]}]}}}`

	rec, err := Extract([]byte(raw), ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, "200", rec.Tweet.ID)
	assert.Equal(t, "still here", rec.Tweet.Text)

	_, err = Extract([]byte(raw), ExtractOptions{TweetID: "100"})
	extractErr := requireExtractionError(t, err, ReasonTweetUnavailable)
	assert.Equal(t, "This Post was deleted", extractErr.Detail)

	onlyPlaceholders := `{"data":{"threaded_conversation_with_injections_v2":{"instructions":[{"type":"TimelineAddEntries","entries":[
		{"entryId":"tweet-100","content":{"itemContent":{"tweet_results":{"result":{"__typename":"TweetTombstone"}}}}}
	]}]}}}`
	_, err = Extract([]byte(onlyPlaceholders), ExtractOptions{})
	requireExtractionError(t, err, ReasonTweetUnavailable)
}

func TestExtract_TweetDetailUnknownAuthor(t *testing.T) {
	rec, err := Extract(loadFixture(t, "tweet_detail.json"), ExtractOptions{TweetID: "1975700000000000000"})
	require.NoError(t, err)
	assert.Equal(t, UserRecord{}, rec.User)
	assert.Equal(t, int64(3), rec.Tweet.Likes)
}

func TestExtract_TweetDetailNotFound(t *testing.T) {
	raw := loadFixture(t, "tweet_detail.json")

	for _, id := range []string{"42", "1975600000000000000"} {
		_, err := Extract(raw, ExtractOptions{TweetID: id})
		requireExtractionError(t, err, ReasonTweetNotFound)
	}

	empty := `{"data":{"threaded_conversation_with_injections_v2":{"instructions":[{"type":"TimelineAddEntries","entries":[
		{"entryId":"cursor-top-1","content":{"entryType":"TimelineTimelineCursor","value":"x"}}]}]}}}`
	_, err := Extract([]byte(empty), ExtractOptions{})
	requireExtractionError(t, err, ReasonTweetNotFound)
}

func TestExtract_MissingFieldsDefault(t *testing.T) {
	body := `{"data":{"tweetResult":{"result":{"__typename":"Tweet","rest_id":"7","legacy":{"full_text":"x"}}}}}`

	rec, err := Extract([]byte(body), ExtractOptions{})
	require.NoError(t, err)
	assert.Equal(t, "7", rec.Tweet.ID)
	assert.Equal(t, int64(0), rec.Tweet.Likes)
	assert.Equal(t, int64(0), rec.Tweet.Views)
	assert.Equal(t, "", rec.Tweet.CreatedAt)
	assert.Equal(t, []Media{}, rec.Tweet.Media)
	assert.Nil(t, rec.Tweet.QuotedTweetID)
	assert.Equal(t, UserRecord{}, rec.User)
}

func TestExtract_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
	}{
		{
			name:       "unavailable result",
			body:       `{"data":{"tweetResult":{"result":{"__typename":"TweetUnavailable","reason":"Protected"}}}}`,
			wantDetail: "Protected",
		},
		{
			name:       "empty tweetResult",
			body:       `{"data":{"tweetResult":{}}}`,
			wantDetail: "empty result",
		},
		{
			name:       "wrapped tombstone",
			body:       `{"data":{"tweetResult":{"result":{"__typename":"TweetWithVisibilityResults","tweet":{"__typename":"TweetTombstone","tombstone":{"text":{"text":"This Post is from a suspended account."}}}}}}}`,
			wantDetail: "This Post is from a suspended account.",
		},
		{
			name: "tombstone timeline entry",
			body: `{"data":{"threaded_conversation_with_injections_v2":{"instructions":[{"type":"TimelineAddEntries","entries":[
				{"entryId":"tweet-5","content":{"itemContent":{"tweet_results":{"result":{"__typename":"TweetTombstone"}}}}}]}]}}}`,
			wantDetail: "tombstone",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := Extract([]byte(tt.body), ExtractOptions{TweetID: "5"})
			assert.Nil(t, rec)
			extractErr := requireExtractionError(t, err, ReasonTweetUnavailable)
			assert.Equal(t, tt.wantDetail, extractErr.Detail)
		})
	}
}

func TestExtract_UnrecognizedShape(t *testing.T) {
	tests := []struct {
		name string
		body string
		opts ExtractOptions
	}{
		{"empty object", `{}`, ExtractOptions{}},
		{"user document", `{"data":{"user":{"result":{"__typename":"User"}}}}`, ExtractOptions{}},
		{"array", `[1,2,3]`, ExtractOptions{}},
		{"errors only", `{"errors":[{"code":144,"message":"No status found with that ID."}]}`, ExtractOptions{}},
		{"hint disagrees with shape", `{"data":{"tweetResult":{"result":{"rest_id":"1"}}}}`, ExtractOptions{Endpoint: TweetDetail}},
		{"instructions not a list", `{"data":{"threaded_conversation_with_injections_v2":{"instructions":{}}}}`, ExtractOptions{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.body), tt.opts)
			requireExtractionError(t, err, ReasonUnrecognizedShape)
		})
	}
}

func TestExtract_InvalidInput(t *testing.T) {
	_, err := Extract([]byte(`{"data":`), ExtractOptions{})
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	_, err = Extract([]byte(`{}`), ExtractOptions{Endpoint: "UserByScreenName"})
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestExtract_Idempotent(t *testing.T) {
	for _, name := range []string{"tweet_result.json", "tweet_detail.json"} {
		t.Run(name, func(t *testing.T) {
			raw := loadFixture(t, name)
			first, err := Extract(raw, ExtractOptions{TweetID: fixtureTweetID})
			require.NoError(t, err)

			store := NewStore(t.TempDir())
			path, err := store.SaveResponse(&Response{Endpoint: TweetDetail, TweetID: fixtureTweetID, Body: raw})
			require.NoError(t, err)
			reloaded, err := LoadDocument(path)
			require.NoError(t, err)

			second, err := Extract(reloaded, ExtractOptions{TweetID: fixtureTweetID})
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		body string
		want shapeKind
	}{
		{`{"data":{"tweetResult":{"result":{"__typename":"Tweet","rest_id":"1","legacy":{}}}}}`, shapeDirectResult},
		{`{"data":{"threaded_conversation_with_injections_v2":{"instructions":[{"entries":[{"entryId":"tweet-1","content":{"itemContent":{"tweet_results":{"result":{"rest_id":"1","legacy":{}}}}}}]}]}}}`, shapeDetailTimeline},
		{`{"data":{"tweetResult":{"result":{"__typename":"TweetTombstone"}}}}`, shapeTombstone},
		{`{"data":{"threaded_conversation_with_injections_v2":{"instructions":[]}}}`, shapeMissing},
		{`{"data":null}`, shapeUnrecognized},
	}
	for _, tt := range tests {
		got := classify(gjson.Parse(tt.body), ExtractOptions{})
		if got.kind != tt.want {
			t.Fatalf("classify(%s) = %s, want %s", tt.body, got.kind, tt.want)
		}
	}
}
