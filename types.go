package tweetx

import (
	"encoding/json"
	"time"
)

// Response is a raw GraphQL document as returned by one endpoint.
type Response struct {
	Endpoint string
	TweetID  string
	Body     json.RawMessage
}

// Record is the flattened tweet + author output.
type Record struct {
	ExtractedAt *time.Time  `json:"extracted_at,omitempty"`
	Tweet       TweetRecord `json:"tweet"`
	User        UserRecord  `json:"user"`
}

// TweetRecord holds the tweet half of a Record.
type TweetRecord struct {
	ID               string  `json:"id"`
	Text             string  `json:"text"`
	CreatedAt        string  `json:"created_at"`
	Likes            int64   `json:"likes"`
	Retweets         int64   `json:"retweets"`
	Replies          int64   `json:"replies"`
	Quotes           int64   `json:"quotes"`
	Bookmarks        int64   `json:"bookmarks"`
	Views            int64   `json:"views"`
	Lang             string  `json:"lang"`
	Source           string  `json:"source"`
	ConversationID   string  `json:"conversation_id"`
	Media            []Media `json:"media"`
	QuotedTweetID    *string `json:"quoted_tweet_id"`
	RetweetedTweetID *string `json:"retweeted_tweet_id"`
}

// Media is one attached photo, video or GIF.
type Media struct {
	Type       string `json:"type"`
	URL        string `json:"url"`
	AltText    string `json:"alt_text,omitempty"`
	DisplayURL string `json:"display_url,omitempty"`
}

// UserRecord holds the author half of a Record.
type UserRecord struct {
	ID               string `json:"id"`
	ScreenName       string `json:"screen_name"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Followers        int64  `json:"followers"`
	Following        int64  `json:"following"`
	Statuses         int64  `json:"statuses"`
	CreatedAt        string `json:"created_at"`
	Verified         bool   `json:"verified"`
	BlueVerified     bool   `json:"blue_verified"`
	ProfileImageURL  string `json:"profile_image_url"`
	ProfileBannerURL string `json:"profile_banner_url"`
	URL              string `json:"url"`
}
