package collector

import (
	"encoding/json"
	"testing"
	"time"
)

const samplePage = `{
  "items": [
    {
      "id": "vid001",
      "snippet": {
        "publishedAt": "2025-06-10T08:00:00Z",
        "title": "First Video",
        "channelTitle": "Some Channel",
        "categoryId": "10",
        "tags": ["music", "live"],
        "defaultAudioLanguage": "en",
        "thumbnails": {"high": {"url": "https://img.example/1.jpg"}}
      },
      "statistics": {"viewCount": "150000", "likeCount": "9000", "commentCount": "420"}
    },
    {
      "id": "vid002",
      "snippet": {"title": "Second Video", "categoryId": "20"},
      "statistics": {"viewCount": "50"}
    }
  ],
  "pageInfo": {"totalResults": 2, "resultsPerPage": 50}
}`

func TestFlattenItems(t *testing.T) {
	var page trendingPage
	if err := json.Unmarshal([]byte(samplePage), &page); err != nil {
		t.Fatalf("decode sample: %v", err)
	}

	collected := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	rows := flattenItems(page.Items, "US", collected)

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if len(rows[0]) != len(trendingHeader) {
		t.Fatalf("row width %d, want %d columns", len(rows[0]), len(trendingHeader))
	}

	first := rows[0]
	if first[0] != "vid001" {
		t.Errorf("video_id = %q", first[0])
	}
	if first[1] != "2025-06-15" {
		t.Errorf("collection_date = %q, want 2025-06-15", first[1])
	}
	if first[2] != "1" {
		t.Errorf("trending_position = %q, want 1 (1-based chart position)", first[2])
	}
	if first[7] != "150000" || first[8] != "9000" {
		t.Errorf("counts = %q/%q", first[7], first[8])
	}
	if first[11] != "US" {
		t.Errorf("country_code = %q", first[11])
	}
	if first[14] != "music, live" {
		t.Errorf("tags = %q, want comma-joined", first[14])
	}

	second := rows[1]
	if second[2] != "2" {
		t.Errorf("second position = %q, want 2", second[2])
	}
	// Absent optional fields flatten to empty strings, never panic
	if second[8] != "" || second[14] != "" {
		t.Errorf("missing fields should be empty, got likes=%q tags=%q", second[8], second[14])
	}
}
