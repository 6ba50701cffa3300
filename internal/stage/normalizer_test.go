package stage

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNormalizeTrending_LegacyAliases(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	rows := []RawRecord{{
		"id":        "vid001",
		"position":  "3",
		"title":     "Some Video",
		"category_id": "10",
		"view_count":  "150000",
		"like_count":  "9000",
		"audio_language": "en",
		"published_at":   "2025-06-10T08:00:00Z",
	}}

	out := n.NormalizeTrending(rows)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}

	rec := out[0]
	if rec.VideoID != "vid001" {
		t.Errorf("video id = %q, want vid001", rec.VideoID)
	}
	if rec.TrendingPosition != 3 {
		t.Errorf("position = %d, want 3", rec.TrendingPosition)
	}
	if rec.CategoryID != 10 || rec.CategoryDescr != "Music" {
		t.Errorf("category = %d/%q, want 10/Music", rec.CategoryID, rec.CategoryDescr)
	}
	if rec.ViewCount != 150000 || rec.LikeCount != 9000 {
		t.Errorf("counts = %d/%d, want 150000/9000", rec.ViewCount, rec.LikeCount)
	}
	if rec.AudioLanguage != "EN" {
		t.Errorf("audio language = %q, want EN", rec.AudioLanguage)
	}
	if rec.PublishedAt == nil {
		t.Errorf("publishedAt = nil, want parsed time")
	}
}

func TestNormalizeTrending_BadFieldsKeepDefaults(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	rows := []RawRecord{{
		"video_id":  "vid002",
		"viewCount": "not-a-number",
		"categoryId": "garbage",
		"publishedAt": "15/06/2025", // unsupported layout
	}}

	out := n.NormalizeTrending(rows)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1 (bad fields never drop the record)", len(out))
	}

	rec := out[0]
	if rec.ViewCount != 0 {
		t.Errorf("view count = %d, want 0 default", rec.ViewCount)
	}
	if rec.CategoryID != 0 || rec.CategoryDescr != "Unknown" {
		t.Errorf("category = %d/%q, want 0/Unknown", rec.CategoryID, rec.CategoryDescr)
	}
	if rec.PublishedAt != nil {
		t.Errorf("publishedAt = %v, want nil", rec.PublishedAt)
	}
}

func TestNormalizeTrending_CanonicalNamesIdempotent(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	rows := []RawRecord{{
		"video_id":          "vid003",
		"trending_position": "1",
		"viewCount":         "500",
	}}

	first := n.NormalizeTrending(rows)
	second := n.NormalizeTrending(rows)
	if first[0] != second[0] {
		t.Errorf("normalization not idempotent: %+v vs %+v", first[0], second[0])
	}
}

func TestNormalizeStats_DurationAndDedupe(t *testing.T) {
	n := NewNormalizer(zerolog.Nop())

	rows := []RawRecord{
		{
			"video_id":       "vid010",
			"collection_day": "2025-06-10",
			"view_count":     "100",
			"duration":       "PT1H2M3S",
		},
		{
			// duplicate (video, day) pair, must be dropped
			"video_id":       "vid010",
			"collection_day": "2025-06-10",
			"view_count":     "999",
		},
		{
			"video_id":       "vid010",
			"collection_day": "2025-06-11",
			"view_count":     "150",
		},
	}

	out := n.NormalizeStats(rows)
	if len(out) != 2 {
		t.Fatalf("got %d snapshots, want 2 after dedupe", len(out))
	}
	if out[0].DurationMinutes != 62.05 {
		t.Errorf("duration = %v, want 62.05", out[0].DurationMinutes)
	}
	if out[0].ViewCount != 100 {
		t.Errorf("kept snapshot views = %d, want 100 (first wins)", out[0].ViewCount)
	}
	wantDay := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !out[1].CollectionDay.Equal(wantDay) {
		t.Errorf("second day = %v, want %v", out[1].CollectionDay, wantDay)
	}
}
