package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/aladinbajra/youtube-trending-ai/internal/middleware"
	"github.com/aladinbajra/youtube-trending-ai/internal/service"
)

type AIHandler struct {
	insights *service.InsightService
	videos   *service.VideoService
}

func NewAIHandler(insights *service.InsightService, videos *service.VideoService) *AIHandler {
	return &AIHandler{insights: insights, videos: videos}
}

// AnalyzeVideo handles POST /api/ai/analyze-video?video_id=X
func (h *AIHandler) AnalyzeVideo(c fiber.Ctx) error {
	if !h.insights.Available() {
		return aiUnavailable(c)
	}
	videoID, errMsg := middleware.ValidateVideoID(fiber.Query[string](c, "video_id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	video, found, err := h.videos.Find(videoID)
	if err != nil {
		return dataError(c, err)
	}
	if !found {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Video not found")
	}

	resp := h.insights.AnalyzeVideo(c.Context(), video)
	observeAI("analyze_video", resp.TokensUsed)
	return c.JSON(resp)
}

// GenerateTitles handles POST /api/ai/generate-titles?topic=X&count=5
func (h *AIHandler) GenerateTitles(c fiber.Ctx) error {
	if !h.insights.Available() {
		return aiUnavailable(c)
	}
	topic, errMsg := middleware.ValidateTopic(fiber.Query[string](c, "topic"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_TOPIC", errMsg)
	}
	count := fiber.Query[int](c, "count", 5)
	if count > 10 {
		count = 10
	}
	if count < 1 {
		count = 1
	}

	resp := h.insights.GenerateTitles(c.Context(), topic, count)
	observeAI("generate_titles", resp.TokensUsed)
	return c.JSON(resp)
}

// TrendingTopics handles GET /api/ai/trending-topics?limit=100
func (h *AIHandler) TrendingTopics(c fiber.Ctx) error {
	if !h.insights.Available() {
		return aiUnavailable(c)
	}
	limit := fiber.Query[int](c, "limit", 100)
	if limit > 200 {
		limit = 200
	}

	videos, _, err := h.videos.LoadScored(0)
	if err != nil {
		return dataError(c, err)
	}
	if limit < len(videos) {
		videos = videos[:limit]
	}

	resp := h.insights.TrendingTopics(c.Context(), videos, 10)
	observeAI("trending_topics", resp.TokensUsed)
	return c.JSON(resp)
}

// Insights handles GET /api/ai/insights
func (h *AIHandler) Insights(c fiber.Ctx) error {
	if !h.insights.Available() {
		return aiUnavailable(c)
	}
	videos, _, err := h.videos.LoadScored(0)
	if err != nil {
		return dataError(c, err)
	}

	resp := h.insights.Insights(c.Context(), h.videos.Summary(videos))
	observeAI("insights", resp.TokensUsed)
	return c.JSON(resp)
}

// ExplainScore handles POST /api/ai/explain-score?video_id=X
func (h *AIHandler) ExplainScore(c fiber.Ctx) error {
	if !h.insights.Available() {
		return aiUnavailable(c)
	}
	videoID, errMsg := middleware.ValidateVideoID(fiber.Query[string](c, "video_id"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}

	video, found, err := h.videos.Find(videoID)
	if err != nil {
		return dataError(c, err)
	}
	if !found {
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Video not found")
	}

	resp := h.insights.ExplainScore(c.Context(), video)
	observeAI("explain_score", resp.TokensUsed)
	return c.JSON(resp)
}

func aiUnavailable(c fiber.Ctx) error {
	return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "AI_UNAVAILABLE", "AI service unavailable")
}

func dataError(c fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNoData) {
		return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "NO_DATA", "Video data not available")
	}
	return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load videos")
}

func observeAI(kind string, tokens int) {
	Metrics.AIRequestsTotal.WithLabelValues(kind).Inc()
	Metrics.AITokensTotal.Add(float64(tokens))
}
