package middleware

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v3"
)

// Field limits for request parameters.
const (
	MaxVideoIDLen  = 16
	MaxCategoryLen = 32
	MaxTopicLen    = 120
	MaxLimit       = 100
)

var (
	// videoIDRe matches YouTube video IDs: alphanumeric, dash, underscore.
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	// categoryRe matches category filter keys.
	categoryRe = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// ErrorResponse is a helper that returns a standard API error response.
func ErrorResponse(c fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
		},
	})
}

// ValidateVideoID checks that a video ID is well-formed.
func ValidateVideoID(id string) (string, string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", "videoId is required"
	}
	if len(id) > MaxVideoIDLen {
		return "", "videoId must be at most 16 characters"
	}
	if !videoIDRe.MatchString(id) {
		return "", "videoId contains invalid characters"
	}
	return id, ""
}

// ValidateCategoryKey lowercases and checks a category filter key. An empty
// key normalizes to "all".
func ValidateCategoryKey(key string) (string, string) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return "all", ""
	}
	if len(key) > MaxCategoryLen {
		return "", "category must be at most 32 characters"
	}
	if !categoryRe.MatchString(key) {
		return "", "category contains invalid characters"
	}
	return key, ""
}

// ValidateTopic trims and bounds a free-text topic for title generation.
func ValidateTopic(topic string) (string, string) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", "topic is required"
	}
	if len(topic) > MaxTopicLen {
		return "", "topic must be at most 120 characters"
	}
	return topic, ""
}

// ClampLimit bounds a page size to [1, MaxLimit], defaulting when zero or
// negative.
func ClampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
