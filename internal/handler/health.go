package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"

	"github.com/aladinbajra/youtube-trending-ai/internal/store"
)

type HealthHandler struct {
	store   *store.CSVStore
	rdb     *redis.Client
	startAt time.Time
}

func NewHealthHandler(st *store.CSVStore, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		store:   st,
		rdb:     rdb,
		startAt: time.Now(),
	}
}

// Live handles GET /health/live — liveness probe.
func (h *HealthHandler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Ready handles GET /health/ready — readiness probe checking the datasets
// and the optional Redis dependency.
func (h *HealthHandler) Ready(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
	defer cancel()

	overallStatus := "healthy"

	dataCheck := fiber.Map{
		"trending_videos": h.store.HasTrending(),
		"video_stats":     h.store.HasStats(),
	}
	if !h.store.HasTrending() {
		overallStatus = "degraded"
	}

	redisCheck := checkRedis(ctx, h.rdb)
	if redisCheck["status"] == "down" && overallStatus == "healthy" {
		overallStatus = "degraded"
	}

	resp := fiber.Map{
		"status":         overallStatus,
		"data_available": dataCheck,
		"redis":          redisCheck,
		"uptime_seconds": int(time.Since(h.startAt).Seconds()),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	status := fiber.StatusOK
	if overallStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(resp)
}

func checkRedis(ctx context.Context, rdb *redis.Client) fiber.Map {
	if rdb == nil {
		return fiber.Map{"status": "disabled"}
	}

	start := time.Now()
	err := rdb.Ping(ctx).Err()
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return fiber.Map{
			"status":     "down",
			"latency_ms": latency,
			"error":      "connection failed",
		}
	}
	return fiber.Map{
		"status":     "up",
		"latency_ms": latency,
	}
}
