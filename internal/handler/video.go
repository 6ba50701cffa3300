package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/aladinbajra/youtube-trending-ai/internal/middleware"
	"github.com/aladinbajra/youtube-trending-ai/internal/service"
)

// HeaderCategoryFilter reports which category filter was actually applied;
// unknown keys fall back to "all" here instead of failing the request.
const HeaderCategoryFilter = "X-Category-Filter"

type VideoHandler struct {
	svc *service.VideoService
}

func NewVideoHandler(svc *service.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// GetVideos handles GET /api/videos?limit=&offset=&days=&published_days=&category=
func (h *VideoHandler) GetVideos(c fiber.Ctx) error {
	limit := middleware.ClampLimit(fiber.Query[int](c, "limit"), 50)
	offset := fiber.Query[int](c, "offset")
	if offset < 0 {
		offset = 0
	}
	days := fiber.Query[int](c, "days")
	publishedDays := fiber.Query[int](c, "published_days")

	categoryKey, errMsg := middleware.ValidateCategoryKey(fiber.Query[string](c, "category"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_CATEGORY", errMsg)
	}

	start := time.Now()
	videos, fromCache, err := h.svc.LoadScored(days)
	if err != nil {
		if errors.Is(err, service.ErrNoData) {
			return middleware.ErrorResponse(c, fiber.StatusServiceUnavailable, "NO_DATA", "Video data not available")
		}
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load videos")
	}
	if fromCache {
		Metrics.ResultCacheHits.Inc()
	} else {
		Metrics.ResultCacheMisses.Inc()
		Metrics.ScorePassDuration.Observe(time.Since(start).Seconds())
	}

	videos, applied := h.svc.FilterByCategory(videos, categoryKey)
	if publishedDays > 0 {
		videos = service.FilterByPublished(videos, publishedDays)
	}

	end := offset + limit
	if offset > len(videos) {
		offset = len(videos)
	}
	if end > len(videos) {
		end = len(videos)
	}

	c.Set(HeaderCategoryFilter, applied)
	return c.JSON(videos[offset:end])
}

// GetHistory handles GET /api/videos/:videoId/history
func (h *VideoHandler) GetHistory(c fiber.Ctx) error {
	videoID, errMsg := middleware.ValidateVideoID(c.Params("videoId"))
	if errMsg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "INVALID_VIDEO_ID", errMsg)
	}
	return c.JSON(h.svc.History(videoID))
}

// Refresh handles POST /api/refresh — invalidates the result cache so the
// next unfiltered request re-reads the datasets.
func (h *VideoHandler) Refresh(c fiber.Ctx) error {
	h.svc.Refresh()
	return c.JSON(fiber.Map{"status": "refreshed"})
}
