package tweetx

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// flattenTweet reads the declared tweet fields from a located tweet entry.
func flattenTweet(t gjson.Result) TweetRecord {
	legacy := t.Get("legacy")

	text := str(t.Get("note_tweet.note_tweet_results.result.text"))
	if text == "" {
		text = str(legacy.Get("full_text"))
	}

	rec := TweetRecord{
		ID:             firstString(t.Get("rest_id"), legacy.Get("id_str")),
		Text:           text,
		CreatedAt:      str(legacy.Get("created_at")),
		Likes:          count(legacy.Get("favorite_count")),
		Retweets:       count(legacy.Get("retweet_count")),
		Replies:        count(legacy.Get("reply_count")),
		Quotes:         count(legacy.Get("quote_count")),
		Bookmarks:      count(legacy.Get("bookmark_count")),
		Views:          count(t.Get("views.count")),
		Lang:           str(legacy.Get("lang")),
		Source:         firstString(t.Get("source"), legacy.Get("source")),
		ConversationID: str(legacy.Get("conversation_id_str")),
		Media:          flattenMedia(legacy),
	}

	quoted := unwrapTweet(t.Get("quoted_status_result.result"))
	rec.QuotedTweetID = optional(firstString(quoted.Get("rest_id"), legacy.Get("quoted_status_id_str")))

	retweeted := unwrapTweet(legacy.Get("retweeted_status_result.result"))
	rec.RetweetedTweetID = optional(firstString(retweeted.Get("rest_id"), legacy.Get("retweeted_status_id_str")))

	return rec
}

// flattenMedia reduces each media item to type, url and alt text.
func flattenMedia(legacy gjson.Result) []Media {
	items := legacy.Get("extended_entities.media")
	if len(items.Array()) == 0 {
		items = legacy.Get("entities.media")
	}
	media := []Media{}
	items.ForEach(func(_, m gjson.Result) bool {
		media = append(media, Media{
			Type:       str(m.Get("type")),
			URL:        firstString(m.Get("media_url_https"), m.Get("media_url")),
			AltText:    str(m.Get("ext_alt_text")),
			DisplayURL: str(m.Get("display_url")),
		})
		return true
	})
	return media
}

// flattenUser reads the author of a located tweet entry. An absent or
// unavailable author yields default fields.
func flattenUser(t gjson.Result) UserRecord {
	var rec UserRecord
	u := t.Get("core.user_results.result")
	if inner := u.Get("user"); inner.IsObject() && !u.Get("legacy").Exists() {
		u = inner
	}
	if !u.IsObject() || u.Get("__typename").String() == "UserUnavailable" {
		rec.ID = str(t.Get("legacy.user_id_str"))
		return rec
	}

	legacy := u.Get("legacy")
	rec = UserRecord{
		ID:               firstString(u.Get("rest_id"), legacy.Get("id_str"), t.Get("legacy.user_id_str")),
		ScreenName:       firstString(legacy.Get("screen_name"), u.Get("core.screen_name")),
		Name:             firstString(legacy.Get("name"), u.Get("core.name")),
		Description:      firstString(legacy.Get("description"), u.Get("profile_bio.description")),
		Location:         firstString(legacy.Get("location"), u.Get("location.location")),
		Followers:        count(legacy.Get("followers_count")),
		Following:        count(legacy.Get("friends_count")),
		Statuses:         count(legacy.Get("statuses_count")),
		CreatedAt:        firstString(legacy.Get("created_at"), u.Get("core.created_at")),
		Verified:         legacy.Get("verified").Type == gjson.True || u.Get("verification.verified").Type == gjson.True,
		BlueVerified:     u.Get("is_blue_verified").Type == gjson.True,
		ProfileImageURL:  firstString(legacy.Get("profile_image_url_https"), u.Get("avatar.image_url")),
		ProfileBannerURL: str(legacy.Get("profile_banner_url")),
		URL:              str(legacy.Get("url")),
	}
	return rec
}

// str returns the value of a JSON string, or "" for anything else.
func str(r gjson.Result) string {
	if r.Type != gjson.String {
		return ""
	}
	return r.Str
}

// firstString returns the first non-empty string or number among rs.
func firstString(rs ...gjson.Result) string {
	for _, r := range rs {
		switch r.Type {
		case gjson.String:
			if r.Str != "" {
				return r.Str
			}
		case gjson.Number:
			return r.Raw
		}
	}
	return ""
}

// count coerces an engagement counter. Missing, negative and non-numeric
// values become 0; numeric strings such as views.count are parsed.
func count(r gjson.Result) int64 {
	var n int64
	switch r.Type {
	case gjson.Number:
		n = r.Int()
	case gjson.String:
		v, err := strconv.ParseInt(strings.TrimSpace(r.Str), 10, 64)
		if err != nil {
			return 0
		}
		n = v
	}
	return max(n, 0)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
