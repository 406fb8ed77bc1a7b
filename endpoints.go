package tweetx

import (
	"fmt"
	"strings"
)

const twitterBase = "https://x.com/i/api/graphql"

// Supported GraphQL operations.
const (
	TweetDetail         = "TweetDetail"
	TweetResultByRestID = "TweetResultByRestId"
)

// BearerToken is the public bearer token of the Twitter web app.
const BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

// queryIDPlaceholder is substituted with the endpoint's query id in URL templates.
const queryIDPlaceholder = "{query_id}"

// Endpoint holds the request template for one GraphQL operation.
type Endpoint struct {
	URL          string            `json:"url"`
	QueryID      string            `json:"query_id"`
	Headers      map[string]string `json:"headers,omitempty"`
	Variables    map[string]any    `json:"variables,omitempty"`
	Features     map[string]any    `json:"features,omitempty"`
	FieldToggles map[string]any    `json:"field_toggles,omitempty"`
}

// RequestURL resolves the URL template for the named operation.
func (e Endpoint) RequestURL(name string) (string, error) {
	switch {
	case e.URL == "" && e.QueryID == "":
		return "", &ConfigError{Field: "endpoints." + name, Reason: "url or query_id required"}
	case e.URL == "":
		return fmt.Sprintf("%s/%s/%s", twitterBase, e.QueryID, name), nil
	case strings.Contains(e.URL, queryIDPlaceholder):
		if e.QueryID == "" {
			return "", &ConfigError{Field: "endpoints." + name + ".query_id", Reason: "url template needs a query_id"}
		}
		return strings.ReplaceAll(e.URL, queryIDPlaceholder, e.QueryID), nil
	}
	return e.URL, nil
}

// IsSupportedEndpoint reports whether name is one of the two tweet operations.
func IsSupportedEndpoint(name string) bool {
	return name == TweetDetail || name == TweetResultByRestID
}

// otherEndpoint returns the fallback operation for name.
func otherEndpoint(name string) string {
	if name == TweetDetail {
		return TweetResultByRestID
	}
	return TweetDetail
}

// rawFilePrefix is the file name prefix for saved raw responses.
func rawFilePrefix(name string) string {
	if name == TweetDetail {
		return "tweet_detail"
	}
	return "tweet_result"
}

// defaultEndpoints returns the built-in request templates. Values from the
// configuration file are layered on top.
func defaultEndpoints() map[string]Endpoint {
	return map[string]Endpoint{
		TweetDetail: {
			QueryID: "_8aYOgEDz35BrBcBal1-_w",
			Variables: map[string]any{
				"with_rux_injections":                    false,
				"rankingMode":                            "Relevance",
				"includePromotedContent":                 true,
				"withCommunity":                          true,
				"withQuickPromoteEligibilityTweetFields": true,
				"withBirdwatchNotes":                     true,
				"withVoice":                              true,
			},
			Features: gqlFeatures(),
			FieldToggles: map[string]any{
				"withArticleRichContentState": true,
				"withArticlePlainText":        false,
				"withGrokAnalyze":             false,
				"withDisallowedReplyControls": false,
			},
		},
		TweetResultByRestID: {
			QueryID: "2ICDjqPd81tulZcYrtpTuQ",
			Variables: map[string]any{
				"withCommunity":          false,
				"includePromotedContent": false,
				"withVoice":              false,
			},
			Features: gqlFeatures(),
			FieldToggles: map[string]any{
				"withArticleRichContentState": true,
				"withArticlePlainText":        false,
			},
		},
	}
}

// gqlFeatures returns the canonical Twitter GraphQL feature flags.
func gqlFeatures() map[string]any {
	return map[string]any{
		"articles_preview_enabled":                                                true,
		"c9s_tweet_anatomy_moderator_badge_enabled":                               true,
		"communities_web_enable_tweet_community_results_fetch":                    true,
		"creator_subscriptions_quote_tweet_preview_enabled":                       false,
		"creator_subscriptions_tweet_preview_api_enabled":                         true,
		"freedom_of_speech_not_reach_fetch_enabled":                               true,
		"graphql_is_translatable_rweb_tweet_is_translatable_enabled":              true,
		"longform_notetweets_consumption_enabled":                                 true,
		"longform_notetweets_inline_media_enabled":                                true,
		"longform_notetweets_rich_text_read_enabled":                              true,
		"premium_content_api_read_enabled":                                        false,
		"profile_label_improvements_pcf_label_in_post_enabled":                   true,
		"responsive_web_edit_tweet_api_enabled":                                   true,
		"responsive_web_enhance_cards_enabled":                                    false,
		"responsive_web_graphql_exclude_directive_enabled":                        true,
		"responsive_web_graphql_skip_user_profile_image_extensions_enabled":       false,
		"responsive_web_graphql_timeline_navigation_enabled":                      true,
		"responsive_web_grok_analyze_button_fetch_trends_enabled":                 false,
		"responsive_web_grok_analyze_post_followups_enabled":                      false,
		"responsive_web_grok_share_attachment_enabled":                            true,
		"responsive_web_twitter_article_tweet_consumption_enabled":                true,
		"rweb_tipjar_consumption_enabled":                                         true,
		"rweb_video_screen_enabled":                                               false,
		"standardized_nudges_misinfo":                                             true,
		"tweet_awards_web_tipping_enabled":                                        false,
		"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
		"verified_phone_label_enabled":                                            false,
		"view_counts_everywhere_api_enabled":                                      true,
	}
}
