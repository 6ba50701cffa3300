package main

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/aladinbajra/youtube-trending-ai/internal/category"
	"github.com/aladinbajra/youtube-trending-ai/internal/config"
	"github.com/aladinbajra/youtube-trending-ai/internal/handler"
	"github.com/aladinbajra/youtube-trending-ai/internal/middleware"
	"github.com/aladinbajra/youtube-trending-ai/internal/router"
	"github.com/aladinbajra/youtube-trending-ai/internal/service"
	"github.com/aladinbajra/youtube-trending-ai/internal/stage"
	"github.com/aladinbajra/youtube-trending-ai/internal/store"
	"github.com/aladinbajra/youtube-trending-ai/internal/virality"
	"github.com/aladinbajra/youtube-trending-ai/pkg/llm"
)

func main() {
	cfg := config.Load()

	middleware.InitLogger(cfg.LogLevel, "virality-api")
	logger := middleware.Logger

	classifier, err := category.Load(cfg.RulesPath)
	if err != nil {
		log.Fatalf("failed to load category rules: %v", err)
	}

	handler.InitMetrics()

	csvStore := store.NewCSVStore(cfg.TrendingCSV, cfg.StatsCSV)
	normalizer := stage.NewNormalizer(logger)
	scorer := virality.NewScorer()
	resultCache := service.NewResultCache()

	videoSvc := service.NewVideoService(csvStore, normalizer, classifier, scorer, resultCache, logger)

	llmClient := llm.New(cfg.LLMProvider, cfg.LLMModel, cfg.LLMAPIKey, cfg.LLMBaseURL)
	aiCache := service.NewAnalysisCache(cfg.RedisURL, logger)
	defer aiCache.Close()

	insightSvc := service.NewInsightService(llmClient, aiCache, logger)

	app := fiber.New(fiber.Config{
		AppName:      "Tube Virality API",
		ServerHeader: "TubeVirality",
	})

	router.Setup(app, &router.Handlers{
		Video:  handler.NewVideoHandler(videoSvc),
		Stats:  handler.NewStatsHandler(videoSvc),
		Health: handler.NewHealthHandler(csvStore, aiCache.Client()),
		AI:     handler.NewAIHandler(insightSvc, videoSvc),
	}, cfg.CORSOrigins)

	logger.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Environment).
		Str("trending_csv", cfg.TrendingCSV).
		Str("stats_csv", cfg.StatsCSV).
		Msg("virality API starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
