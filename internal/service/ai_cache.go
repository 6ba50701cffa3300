package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AnalysisCacheTTL bounds how long an AI response is reused before the model
// is asked again.
const AnalysisCacheTTL = 30 * time.Minute

// AnalysisCache is a Redis cache-aside layer for AI responses. LLM calls are
// slow and metered, so identical requests within the TTL are served from
// cache. With no Redis configured every operation is a no-op.
type AnalysisCache struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAnalysisCache connects to Redis. If redisURL is empty or the connection
// fails, caching is disabled rather than fatal.
func NewAnalysisCache(redisURL string, log zerolog.Logger) *AnalysisCache {
	log = log.With().Str("component", "ai_cache").Logger()

	if redisURL == "" {
		log.Info().Msg("no redis URL configured, AI response caching disabled")
		return &AnalysisCache{log: log}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("invalid redis URL, AI response caching disabled")
		return &AnalysisCache{log: log}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis connection failed, AI response caching disabled")
		return &AnalysisCache{log: log}
	}

	log.Info().Msg("redis connected, AI response caching enabled")
	return &AnalysisCache{rdb: rdb, log: log}
}

// Client returns the underlying Redis client for health checks. May be nil.
func (c *AnalysisCache) Client() *redis.Client {
	return c.rdb
}

// Get unmarshals a cached response into dest. The boolean reports a hit.
func (c *AnalysisCache) Get(ctx context.Context, kind, key string, dest any) bool {
	if c.rdb == nil {
		return false
	}
	data, err := c.rdb.Get(ctx, aiKey(kind, key)).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("corrupt cache entry dropped")
		c.rdb.Del(ctx, aiKey(kind, key))
		return false
	}
	return true
}

// Set stores a response under (kind, key) with the analysis TTL.
func (c *AnalysisCache) Set(ctx context.Context, kind, key string, value any) {
	if c.rdb == nil {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, aiKey(kind, key), b, AnalysisCacheTTL).Err(); err != nil {
		c.log.Warn().Err(err).Str("kind", kind).Msg("cache write failed")
	}
}

// Close shuts down the Redis connection.
func (c *AnalysisCache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func aiKey(kind, key string) string {
	return fmt.Sprintf("ai:%s:%s", kind, key)
}
