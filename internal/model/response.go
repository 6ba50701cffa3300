package model

// ScoreComponents is the virality breakdown for a single video. Every field
// lies in [0,100]; ViralityScore is the weighted combination of the other four.
type ScoreComponents struct {
	ViralityScore    float64 `json:"viralityScore"`
	GrowthVelocity   float64 `json:"growthVelocity"`
	EngagementRate   float64 `json:"engagementRate"`
	TrendingDuration float64 `json:"trendingDuration"`
	AudienceReach    float64 `json:"audienceReach"`
}

// HistoryResponse is the API response for per-video view history.
type HistoryResponse struct {
	VideoID    string   `json:"videoId"`
	Timestamps []string `json:"timestamps"`
	Views      []int64  `json:"views"`
}

// StatsResponse is the API response for dataset-level aggregates.
type StatsResponse struct {
	TotalVideos    int   `json:"total_videos"`
	TrendingVideos int   `json:"trending_videos"`
	TotalViews     int64 `json:"total_views"`
	TotalLikes     int64 `json:"total_likes"`
	AverageViews   int64 `json:"average_views"`
	Countries      int   `json:"countries"`
	DataPoints     int   `json:"data_points"`
}

// AnalysisResponse is the API response for single-video AI analysis.
type AnalysisResponse struct {
	VideoID    string `json:"videoId"`
	Analysis   string `json:"analysis"`
	Success    bool   `json:"success"`
	TokensUsed int    `json:"tokens_used"`
}

// TitleSuggestion is one AI-generated title with its predicted virality.
type TitleSuggestion struct {
	Title             string `json:"title"`
	PredictedVirality int    `json:"predicted_virality"`
}

// TitlesResponse is the API response for AI title generation.
type TitlesResponse struct {
	Topic       string            `json:"topic"`
	Suggestions []TitleSuggestion `json:"suggestions"`
	Success     bool              `json:"success"`
	TokensUsed  int               `json:"tokens_used"`
}

// TrendingTopic is one topic extracted by the AI from trending titles.
type TrendingTopic struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Reason     string  `json:"reason"`
}

// TopicsResponse is the API response for AI topic extraction.
type TopicsResponse struct {
	Topics         []TrendingTopic `json:"topics"`
	AnalyzedVideos int             `json:"analyzed_videos"`
	Success        bool            `json:"success"`
	TokensUsed     int             `json:"tokens_used"`
}

// DatasetSummary feeds the AI insights prompt.
type DatasetSummary struct {
	TotalVideos   int      `json:"total_videos"`
	AvgViews      int64    `json:"avg_views"`
	TopCountries  []string `json:"top_countries"`
	DateRange     string   `json:"date_range"`
	AvgEngagement float64  `json:"avg_engagement"`
}

// InsightsResponse is the API response for AI dataset insights.
type InsightsResponse struct {
	Insights       string         `json:"insights"`
	Success        bool           `json:"success"`
	TokensUsed     int            `json:"tokens_used"`
	DatasetSummary DatasetSummary `json:"dataset_summary"`
}

// ExplanationResponse is the API response for AI score explanations.
type ExplanationResponse struct {
	VideoID     string `json:"videoId"`
	Explanation string `json:"explanation"`
	Success     bool   `json:"success"`
	TokensUsed  int    `json:"tokens_used"`
}
