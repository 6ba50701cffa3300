package model

import "time"

// CategoryUnknown is the sentinel used when a trending record carries no
// parseable category id.
const CategoryUnknown = 0

// TrendingRecord is a cleaned row from the trending-videos dataset. One row
// per (video, collection date, country).
type TrendingRecord struct {
	VideoID          string     `json:"videoId"`
	CollectionDate   time.Time  `json:"collectionDate"`
	TrendingPosition int        `json:"trendingPosition"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	Title            string     `json:"title"`
	ChannelTitle     string     `json:"channelTitle"`
	CategoryID       int        `json:"categoryId"`
	CategoryDescr    string     `json:"categoryDescr"`
	ViewCount        int64      `json:"viewCount"`
	LikeCount        int64      `json:"likeCount"`
	CommentCount     int64      `json:"commentCount"`
	AudioLanguage    string     `json:"audioLanguage,omitempty"`
	CountryCode      string     `json:"countryCode,omitempty"`
	Description      string     `json:"description,omitempty"`
	ThumbnailURL     string     `json:"thumbnailUrl,omitempty"`
	Tags             string     `json:"tags,omitempty"`
}

// StatSnapshot is a cleaned per-day statistics row for a tracked video.
// The three Daily*Growth fields are zero until the growth pass fills them in;
// after that the snapshot is never mutated.
type StatSnapshot struct {
	VideoID             string     `json:"videoId"`
	ChannelID           string     `json:"channelId"`
	Title               string     `json:"title,omitempty"`
	Description         string     `json:"description,omitempty"`
	PublishedAt         *time.Time `json:"publishedAt,omitempty"`
	Tags                string     `json:"tags,omitempty"`
	ViewCount           int64      `json:"viewCount"`
	LikeCount           int64      `json:"likeCount"`
	CommentCount        int64      `json:"commentCount"`
	Duration            string     `json:"duration,omitempty"`
	DurationMinutes     float64    `json:"durationInMinutes"`
	Caption             bool       `json:"caption"`
	LicensedContent     bool       `json:"licensedContent"`
	Embeddable          bool       `json:"embeddable"`
	PublicStatsViewable bool       `json:"publicStatsViewable"`
	PrivacyStatus       string     `json:"privacyStatus,omitempty"`
	CollectionDay       time.Time  `json:"collectionDay"`
	CountryCode         string     `json:"countryCode,omitempty"`

	DailyViewGrowth    int64 `json:"dailyViewGrowth"`
	DailyLikeGrowth    int64 `json:"dailyLikeGrowth"`
	DailyCommentGrowth int64 `json:"dailyCommentGrowth"`
}

// ScoredVideo is the external view of one trending video with its virality
// breakdown. Built fresh on every scoring pass and never mutated afterwards.
type ScoredVideo struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Description  string `json:"description"`
	CategoryID   string `json:"categoryId"`
	Tags         string `json:"tags,omitempty"`
	Views        int64  `json:"views"`
	Likes        int64  `json:"likes"`
	Comments     int64  `json:"comments"`
	Country      string `json:"country"`
	PublishedAt  string `json:"publishedAt"`

	Category string `json:"category"`

	ViralityScore    float64 `json:"viralityScore"`
	GrowthVelocity   float64 `json:"growthVelocity"`
	EngagementRate   float64 `json:"engagementRate"`
	TrendingDuration float64 `json:"trendingDuration"`
	AudienceReach    float64 `json:"audienceReach"`
}
