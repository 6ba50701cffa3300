package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
	"github.com/aladinbajra/youtube-trending-ai/pkg/llm"
)

// InsightService generates natural-language insights about scored videos via
// the LLM collaborator. Every method degrades to a "success: false" payload
// instead of failing the request when the model call errors.
type InsightService struct {
	llm   *llm.Client
	cache *AnalysisCache
	log   zerolog.Logger
}

func NewInsightService(client *llm.Client, cache *AnalysisCache, log zerolog.Logger) *InsightService {
	return &InsightService{
		llm:   client,
		cache: cache,
		log:   log.With().Str("component", "insight_svc").Logger(),
	}
}

// Available reports whether the LLM collaborator is configured.
func (s *InsightService) Available() bool {
	return s.llm.Configured()
}

// AnalyzeVideo asks the model why one video is performing the way it is.
func (s *InsightService) AnalyzeVideo(ctx context.Context, video model.ScoredVideo) model.AnalysisResponse {
	var cached model.AnalysisResponse
	if s.cache.Get(ctx, "analyze", video.VideoID, &cached) {
		return cached
	}

	prompt := fmt.Sprintf(`Analyze this YouTube video and provide insights:

Title: %s
Views: %s
Likes: %s
Comments: %s
Virality Score: %.2f/100
Country: %s

Provide a brief analysis (2-3 sentences) covering:
1. Why this video is performing well (or not)
2. Key success factors
3. One specific improvement suggestion

Be concise, actionable, and data-driven.`,
		video.Title, humanInt(video.Views), humanInt(video.Likes), humanInt(video.Comments),
		video.ViralityScore, video.Country)

	res, err := s.llm.Chat(ctx, llm.Request{
		System:      "You are a YouTube analytics expert. Provide concise, data-driven insights.",
		Prompt:      prompt,
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("video_id", video.VideoID).Msg("video analysis failed")
		return model.AnalysisResponse{VideoID: video.VideoID, Analysis: "AI analysis unavailable"}
	}

	resp := model.AnalysisResponse{
		VideoID:    video.VideoID,
		Analysis:   res.Text,
		Success:    true,
		TokensUsed: res.TokensUsed,
	}
	s.cache.Set(ctx, "analyze", video.VideoID, resp)
	return resp
}

// GenerateTitles asks the model for viral title suggestions on a topic and
// parses the "Title | Score" lines it returns.
func (s *InsightService) GenerateTitles(ctx context.Context, topic string, count int) model.TitlesResponse {
	prompt := fmt.Sprintf(`Generate %d viral YouTube video title suggestions for the topic: "%s"

Requirements:
- Each title should be 40-60 characters
- Include emotional hooks or curiosity gaps
- Be specific and actionable
- Avoid excessive clickbait

For each title, estimate viral potential (0-100) based on:
- Emotional appeal
- Specificity
- Trend alignment
- CTR potential

Format:
Title | Score

Example:
I Survived 100 Days in Minecraft Hardcore | 88`, count, topic)

	res, err := s.llm.Chat(ctx, llm.Request{
		System:      "You are a viral content strategist specializing in YouTube optimization.",
		Prompt:      prompt,
		MaxTokens:   400,
		Temperature: 0.8,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("topic", topic).Msg("title generation failed")
		return model.TitlesResponse{Topic: topic, Suggestions: []model.TitleSuggestion{}}
	}

	suggestions := parseTitleSuggestions(res.Text)
	if len(suggestions) == 0 {
		s.log.Info().Str("topic", topic).Msg("title parsing produced nothing, using fallbacks")
		suggestions = fallbackTitles(topic)
	}
	if len(suggestions) > 5 {
		suggestions = suggestions[:5]
	}

	return model.TitlesResponse{
		Topic:       topic,
		Suggestions: suggestions,
		Success:     true,
		TokensUsed:  res.TokensUsed,
	}
}

// TrendingTopics asks the model to extract the dominant themes from a batch
// of trending titles.
func (s *InsightService) TrendingTopics(ctx context.Context, videos []model.ScoredVideo, topN int) model.TopicsResponse {
	var titles []string
	for i, v := range videos {
		if i == 50 {
			break
		}
		if v.Title != "" {
			titles = append(titles, "- "+v.Title)
		}
	}

	prompt := fmt.Sprintf(`Analyze these %d YouTube video titles and identify the top %d trending topics/themes:

%s

Provide:
1. Top %d topics (one word or short phrase each)
2. Brief explanation why each is trending
3. Estimated percentage of videos for each topic

Format as JSON:
{
  "topics": [
    {"name": "Music Videos", "percentage": 35, "reason": "High engagement, emotional content"},
    ...
  ]
}`, len(titles), topN, strings.Join(titles, "\n"), topN)

	res, err := s.llm.Chat(ctx, llm.Request{
		System:      "You are a data analyst specializing in content trends. Return valid JSON only.",
		Prompt:      prompt,
		MaxTokens:   500,
		Temperature: 0.5,
		JSONOnly:    true,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("topic extraction failed")
		return model.TopicsResponse{Topics: []model.TrendingTopic{}, AnalyzedVideos: len(titles)}
	}

	var parsed struct {
		Topics []model.TrendingTopic `json:"topics"`
	}
	if err := json.Unmarshal([]byte(res.Text), &parsed); err != nil {
		s.log.Warn().Err(err).Msg("topic response was not valid JSON")
		return model.TopicsResponse{Topics: []model.TrendingTopic{}, AnalyzedVideos: len(titles)}
	}

	return model.TopicsResponse{
		Topics:         parsed.Topics,
		AnalyzedVideos: len(titles),
		Success:        true,
		TokensUsed:     res.TokensUsed,
	}
}

// Insights asks the model for dataset-level findings based on the summary.
func (s *InsightService) Insights(ctx context.Context, summary model.DatasetSummary) model.InsightsResponse {
	cacheKey := fmt.Sprintf("%s:%d", summary.DateRange, summary.TotalVideos)
	var cached model.InsightsResponse
	if s.cache.Get(ctx, "insights", cacheKey, &cached) {
		return cached
	}

	prompt := fmt.Sprintf(`Analyze this YouTube dataset and provide 3-5 key insights:

Dataset Stats:
- Total Videos: %s
- Average Views: %s
- Top Countries: %s
- Date Range: %s
- Avg Engagement: %.2f%%

Provide insights in this format:
• Insight 1 (one sentence with specific number/percentage)
• Insight 2 (one sentence with specific number/percentage)
• Insight 3 (one sentence with specific number/percentage - when mentioning countries, use their FULL NAMES, not codes)
• Insight 4 (one sentence with specific number/percentage)

IMPORTANT: When mentioning countries in insights, always use their FULL NAMES (e.g., "Japan, Indonesia, Malaysia" NOT "JP, ID, MY").

Focus on actionable patterns and surprising findings.`,
		humanInt(int64(summary.TotalVideos)), humanInt(summary.AvgViews),
		strings.Join(summary.TopCountries, ", "), summary.DateRange, summary.AvgEngagement)

	res, err := s.llm.Chat(ctx, llm.Request{
		System:      "You are a data scientist. Provide concise, numbered insights with specific metrics.",
		Prompt:      prompt,
		MaxTokens:   300,
		Temperature: 0.6,
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("insight generation failed")
		return model.InsightsResponse{Insights: "AI insights unavailable", DatasetSummary: summary}
	}

	resp := model.InsightsResponse{
		Insights:       res.Text,
		Success:        true,
		TokensUsed:     res.TokensUsed,
		DatasetSummary: summary,
	}
	s.cache.Set(ctx, "insights", cacheKey, resp)
	return resp
}

// ExplainScore asks the model to explain one video's virality breakdown.
func (s *InsightService) ExplainScore(ctx context.Context, video model.ScoredVideo) model.ExplanationResponse {
	var cached model.ExplanationResponse
	if s.cache.Get(ctx, "explain", video.VideoID, &cached) {
		return cached
	}

	views := video.Views
	if views == 0 {
		views = 1
	}
	engagement := float64(video.Likes+video.Comments) / float64(views) * 100

	prompt := fmt.Sprintf(`Explain why this video has a virality score of %.2f/100:

Video: %s
Views: %s
Likes: %s
Comments: %s
Engagement Rate: %.2f%%
Growth Velocity: %.2f/100
Audience Reach: %.2f/100
Trending Duration: %.2f/100

Provide a 2-3 sentence explanation covering:
1. Main strength (what's working well)
2. Main weakness (what could improve)
3. One specific actionable tip

Be encouraging but honest.`,
		video.ViralityScore, video.Title, humanInt(video.Views), humanInt(video.Likes),
		humanInt(video.Comments), engagement, video.GrowthVelocity, video.AudienceReach,
		video.TrendingDuration)

	res, err := s.llm.Chat(ctx, llm.Request{
		System:      "You are a YouTube growth consultant. Explain virality scores in simple terms.",
		Prompt:      prompt,
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("video_id", video.VideoID).Msg("score explanation failed")
		return model.ExplanationResponse{VideoID: video.VideoID, Explanation: "AI explanation unavailable"}
	}

	resp := model.ExplanationResponse{
		VideoID:     video.VideoID,
		Explanation: res.Text,
		Success:     true,
		TokensUsed:  res.TokensUsed,
	}
	s.cache.Set(ctx, "explain", video.VideoID, resp)
	return resp
}

var (
	listPrefixRe = regexp.MustCompile(`^\d+[.)]\s*`)
	digitsRe     = regexp.MustCompile(`\d+`)
	parenScoreRe = regexp.MustCompile(`^(.+?)\s*\((\d+)`)
)

// parseTitleSuggestions extracts "Title | Score" lines from a completion.
// Models drift between pipe, dash and parenthesis formats, so all three are
// tolerated.
func parseTitleSuggestions(content string) []model.TitleSuggestion {
	var suggestions []model.TitleSuggestion
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = listPrefixRe.ReplaceAllString(line, "")

		switch {
		case strings.Contains(line, "|"):
			parts := strings.SplitN(line, "|", 2)
			title := strings.TrimSpace(parts[0])
			score, ok := firstInt(parts[1])
			if ok && title != "" {
				suggestions = append(suggestions, model.TitleSuggestion{Title: title, PredictedVirality: score})
			}
		case strings.Contains(line, "-") && len(strings.Split(line, "-")) >= 2:
			idx := strings.LastIndex(line, "-")
			title := strings.TrimSpace(line[:idx])
			score, ok := firstInt(line[idx+1:])
			if ok && len(title) > 10 && score >= 0 && score <= 100 {
				suggestions = append(suggestions, model.TitleSuggestion{Title: title, PredictedVirality: score})
			}
		case strings.Contains(line, "(") && strings.Contains(line, ")"):
			if m := parenScoreRe.FindStringSubmatch(line); m != nil {
				title := strings.TrimSpace(m[1])
				score, _ := strconv.Atoi(m[2])
				if len(title) > 10 {
					suggestions = append(suggestions, model.TitleSuggestion{Title: title, PredictedVirality: score})
				}
			}
		}
	}
	return suggestions
}

func firstInt(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}

func fallbackTitles(topic string) []model.TitleSuggestion {
	t := titleCase(topic)
	return []model.TitleSuggestion{
		{Title: t + " - Complete Guide for Beginners", PredictedVirality: 75},
		{Title: "How to Master " + t + " in 2025", PredictedVirality: 80},
		{Title: t + " Tips You NEED to Know", PredictedVirality: 72},
		{Title: "I Tried " + t + " for 30 Days - Results!", PredictedVirality: 85},
		{Title: t + " Explained in 5 Minutes", PredictedVirality: 78},
	}
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// humanInt renders an integer with thousands separators for prompts.
func humanInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, digit := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
