package stage

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one untyped row as received from the collection layer. CSV
// ingestion yields string values; JSON dumps may carry numbers, booleans and
// tag lists.
type RawRecord map[string]any

// field returns the first present, non-empty value among the given aliases.
// Legacy exports used different column names for the same field, so every
// lookup goes through the alias chain.
func field(row RawRecord, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := row[name]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v, true
		}
	}
	return nil, false
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// coerceCount converts a metric value to a non-negative integer. Unparsable,
// missing or negative values coerce to 0.
func coerceCount(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, nil
	case int:
		return clampCount(int64(n)), nil
	case int64:
		return clampCount(n), nil
	case float64:
		if math.IsNaN(n) {
			return 0, nil
		}
		return clampCount(int64(n)), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return clampCount(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return clampCount(int64(f)), nil
		}
		return 0, fmt.Errorf("not numeric: %q", s)
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func clampCount(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}

// coerceInt is like coerceCount but preserves sign, for positional fields.
func coerceInt(v any) (int, error) {
	n, err := coerceCount(v)
	return int(n), err
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// coerceTime parses a timestamp permissively. Unparsable values yield nil
// rather than an error so a bad timestamp never drops a record.
func coerceTime(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	s := strings.TrimSpace(asString(v))
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

func coerceBool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "t", "1", "yes":
			return true
		}
		return false
	case int:
		return b != 0
	case float64:
		return b != 0
	default:
		return false
	}
}

// joinTags flattens a tag value that may arrive as an actual list or as a
// scalar into a single comma-joined string.
func joinTags(v any) string {
	switch tags := v.(type) {
	case nil:
		return ""
	case []string:
		return strings.Join(tags, ", ")
	case []any:
		parts := make([]string, 0, len(tags))
		for _, t := range tags {
			parts = append(parts, asString(t))
		}
		return strings.Join(parts, ", ")
	default:
		return asString(v)
	}
}

var ptDurationRe = regexp.MustCompile(`^PT(\d+H)?(\d+M)?(\d+S)?$`)

// PTToMinutes converts a restricted ISO-8601 duration of the form
// PT[nH][nM][nS] to minutes, rounded to 3 decimal places. Anything that does
// not match the exact grammar, including a missing PT prefix, yields 0.0.
// There is deliberately no partial recovery beyond the three optional groups.
func PTToMinutes(pt string) float64 {
	m := ptDurationRe.FindStringSubmatch(pt)
	if m == nil {
		return 0.0
	}
	hours := groupInt(m[1], "H")
	minutes := groupInt(m[2], "M")
	seconds := groupInt(m[3], "S")
	return round3(float64(hours)*60 + float64(minutes) + float64(seconds)/60)
}

func groupInt(group, suffix string) int {
	if group == "" {
		return 0
	}
	n, _ := strconv.Atoi(strings.TrimSuffix(group, suffix))
	return n
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
