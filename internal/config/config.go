package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	CORSOrigins string

	DataDir     string
	TrendingCSV string
	StatsCSV    string
	RulesPath   string

	RedisURL string

	LLMProvider string
	LLMModel    string
	LLMBaseURL  string
	LLMAPIKey   string

	YouTubeAPIKey     string
	TrendingCountries []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present, so local development does not need
// exported variables.
func Load() *Config {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "db")

	cfg := &Config{
		Port:        getEnv("PORT", "8001"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DataDir:     dataDir,
		TrendingCSV: getEnv("TRENDING_CSV", filepath.Join(dataDir, "ods", "trending_videos.csv")),
		StatsCSV:    getEnv("STATS_CSV", filepath.Join(dataDir, "ods", "merged_video_stats.csv")),
		RulesPath:   getEnv("CATEGORY_RULES", ""),

		RedisURL: getEnv("REDIS_URL", ""),

		LLMProvider: getEnv("LLM_PROVIDER", "openai"),
		LLMModel:    getEnv("LLM_MODEL", ""),
		LLMBaseURL:  getEnv("LLM_BASE_URL", ""),

		YouTubeAPIKey: getEnv("YOUTUBE_API_KEY", ""),
	}

	cfg.LLMAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.LLMProvider == "anthropic" {
		cfg.LLMAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	countries := getEnv("TRENDING_COUNTRIES", "US,GB,IN,BR,JP")
	for _, code := range strings.Split(countries, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			cfg.TrendingCountries = append(cfg.TrendingCountries, code)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
