package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the virality API.
var Metrics = struct {
	RequestDuration   *prometheus.HistogramVec
	RequestsInFlight  prometheus.Gauge
	ResultCacheHits   prometheus.Counter
	ResultCacheMisses prometheus.Counter
	ScorePassDuration prometheus.Histogram
	AIRequestsTotal   *prometheus.CounterVec
	AITokensTotal     prometheus.Counter
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
func InitMetrics() {
	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "virality_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "virality_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.ResultCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "virality_result_cache_hits_total",
			Help: "Scoring passes served from the in-process result cache.",
		},
	)

	Metrics.ResultCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "virality_result_cache_misses_total",
			Help: "Scoring passes that had to recompute from the datasets.",
		},
	)

	Metrics.ScorePassDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "virality_score_pass_duration_seconds",
			Help:    "Duration of full normalize-classify-score passes.",
			Buckets: prometheus.DefBuckets,
		},
	)

	Metrics.AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "virality_ai_requests_total",
			Help: "AI endpoint invocations, by kind.",
		},
		[]string{"kind"},
	)

	Metrics.AITokensTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "virality_ai_tokens_total",
			Help: "Total LLM tokens consumed.",
		},
	)

	prometheus.MustRegister(
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.ResultCacheHits,
		Metrics.ResultCacheMisses,
		Metrics.ScorePassDuration,
		Metrics.AIRequestsTotal,
		Metrics.AITokensTotal,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	if strings.HasPrefix(path, "/api/videos/") && strings.HasSuffix(path, "/history") {
		return "/api/videos/:videoId/history"
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.Context())
		return nil
	}
}
