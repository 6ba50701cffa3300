package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/aladinbajra/youtube-trending-ai/internal/handler"
	"github.com/aladinbajra/youtube-trending-ai/internal/middleware"
)

// Handlers holds all handler instances needed by the router.
type Handlers struct {
	Video  *handler.VideoHandler
	Stats  *handler.StatsHandler
	Health *handler.HealthHandler
	AI     *handler.AIHandler
}

// Setup configures the middleware stack and all API routes on the given Fiber app.
func Setup(app *fiber.App, h *Handlers, corsOrigins string) {
	// Middleware stack (order matters)
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestID())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(corsOrigins))
	app.Use(handler.MetricsMiddleware())

	videoLimiter := middleware.NewVideoRateLimiter()
	statsLimiter := middleware.NewStatsRateLimiter()
	aiLimiter := middleware.NewAIRateLimiter()

	// Index and health (no rate limiting)
	app.Get("/", index)
	app.Get("/health", h.Health.Live)
	app.Get("/health/live", h.Health.Live)
	app.Get("/health/ready", h.Health.Ready)
	app.Get("/metrics", handler.MetricsHandler())

	// API routes
	api := app.Group("/api")

	// Video routes
	api.Get("/videos", h.Video.GetVideos, videoLimiter.Handler())
	api.Get("/videos/:videoId/history", h.Video.GetHistory, videoLimiter.Handler())
	api.Post("/refresh", h.Video.Refresh, statsLimiter.Handler())

	// Stats routes
	api.Get("/stats", h.Stats.GetStats, statsLimiter.Handler())

	// AI routes
	ai := api.Group("/ai", aiLimiter.Handler())
	ai.Post("/analyze-video", h.AI.AnalyzeVideo)
	ai.Post("/generate-titles", h.AI.GenerateTitles)
	ai.Get("/trending-topics", h.AI.TrendingTopics)
	ai.Get("/insights", h.AI.Insights)
	ai.Post("/explain-score", h.AI.ExplainScore)
}

func index(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Tube Virality API",
		"version": "1.0.0",
		"endpoints": fiber.Map{
			"videos":        "/api/videos",
			"video_history": "/api/videos/{videoId}/history",
			"stats":         "/api/stats",
			"health":        "/health",
		},
	})
}
