package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/aladinbajra/youtube-trending-ai/internal/category"
	"github.com/aladinbajra/youtube-trending-ai/internal/model"
	"github.com/aladinbajra/youtube-trending-ai/internal/stage"
	"github.com/aladinbajra/youtube-trending-ai/internal/store"
	"github.com/aladinbajra/youtube-trending-ai/internal/virality"
)

const trendingFixture = `video_id,collection_date,trending_position,publishedAt,title,channelTitle,categoryId,viewCount,likeCount,commentCount,country_code
vid1,2025-06-10,1,2025-06-08T10:00:00Z,Minecraft gameplay walkthrough,GameChan,20,500000,40000,2000,US
vid1,2025-06-11,2,2025-06-08T10:00:00Z,Minecraft gameplay walkthrough,GameChan,20,800000,60000,3000,US
vid2,2025-06-11,1,2025-06-09T12:00:00Z,New single official video,MusicChan,10,1200000,90000,4000,GB
vid3,2025-06-11,3,2025-06-10T09:00:00Z,Morning routine vlog,LifeChan,22,90000,3000,150,US
`

const statsFixture = `video_id,collection_day,view_count,like_count,comment_count
vid1,2025-06-10,500000,40000,2000
vid1,2025-06-11,800000,60000,3000
`

func newTestService(t *testing.T, trending, stats string) *VideoService {
	t.Helper()
	dir := t.TempDir()

	trendingPath := filepath.Join(dir, "trending.csv")
	if trending != "" {
		if err := os.WriteFile(trendingPath, []byte(trending), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	statsPath := filepath.Join(dir, "stats.csv")
	if stats != "" {
		if err := os.WriteFile(statsPath, []byte(stats), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	classifier, err := category.Load("")
	if err != nil {
		t.Fatalf("load rules: %v", err)
	}

	return NewVideoService(
		store.NewCSVStore(trendingPath, statsPath),
		stage.NewNormalizer(zerolog.Nop()),
		classifier,
		virality.NewScorer(),
		NewResultCache(),
		zerolog.Nop(),
	)
}

func TestLoadScored_Pipeline(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	videos, fromCache, err := svc.LoadScored(0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if fromCache {
		t.Errorf("first call should not be a cache hit")
	}
	// vid1 appears twice in the fixture but only its latest snapshot survives
	if len(videos) != 3 {
		t.Fatalf("got %d videos, want 3", len(videos))
	}

	byID := make(map[string]model.ScoredVideo)
	for _, v := range videos {
		if v.ViralityScore < 0 || v.ViralityScore > 100 {
			t.Errorf("%s score = %.2f, want within [0,100]", v.VideoID, v.ViralityScore)
		}
		byID[v.VideoID] = v
	}

	vid1 := byID["vid1"]
	if vid1.Views != 800000 {
		t.Errorf("vid1 views = %d, want latest snapshot 800000", vid1.Views)
	}
	if vid1.Category != "gaming" {
		t.Errorf("vid1 category = %q, want gaming", vid1.Category)
	}
	if byID["vid2"].Category != "music" {
		t.Errorf("vid2 category = %q, want music", byID["vid2"].Category)
	}
	if byID["vid3"].Category != "lifestyle" {
		t.Errorf("vid3 category = %q, want lifestyle", byID["vid3"].Category)
	}

	// vid1 has two trending days, so its duration beats single-day vid2
	if vid1.TrendingDuration <= byID["vid2"].TrendingDuration {
		t.Errorf("vid1 duration %.2f should exceed vid2 %.2f",
			vid1.TrendingDuration, byID["vid2"].TrendingDuration)
	}
}

func TestLoadScored_CacheRoundTrip(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	if _, _, err := svc.LoadScored(0); err != nil {
		t.Fatal(err)
	}
	_, fromCache, err := svc.LoadScored(0)
	if err != nil {
		t.Fatal(err)
	}
	if !fromCache {
		t.Errorf("second unfiltered call should hit the cache")
	}

	// Day-windowed requests always bypass the cache
	_, fromCache, err = svc.LoadScored(1)
	if err != nil {
		t.Fatal(err)
	}
	if fromCache {
		t.Errorf("windowed call must not be served from cache")
	}

	svc.Refresh()
	_, fromCache, err = svc.LoadScored(0)
	if err != nil {
		t.Fatal(err)
	}
	if fromCache {
		t.Errorf("call after Refresh should recompute")
	}
}

func TestLoadScored_DayWindow(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	// Window of 1 day from the newest collection date (2025-06-11) still
	// includes 2025-06-10, so all three videos survive; their view counts
	// come from the windowed rows
	videos, _, err := svc.LoadScored(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(videos) != 3 {
		t.Errorf("got %d videos in window, want 3", len(videos))
	}
}

func TestLoadScored_MissingData(t *testing.T) {
	svc := newTestService(t, "", "")

	_, _, err := svc.LoadScored(0)
	if err == nil {
		t.Fatalf("expected error for missing dataset")
	}
}

func TestFilterByCategory(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)
	videos, _, err := svc.LoadScored(0)
	if err != nil {
		t.Fatal(err)
	}

	gaming, applied := svc.FilterByCategory(videos, "gaming")
	if applied != "gaming" {
		t.Errorf("applied = %q, want gaming", applied)
	}
	if len(gaming) != 1 || gaming[0].VideoID != "vid1" {
		t.Errorf("gaming filter = %v", gaming)
	}

	// Unknown keys fall back to the unfiltered set
	all, applied := svc.FilterByCategory(videos, "astrology")
	if applied != category.AllCategories {
		t.Errorf("unknown key applied = %q, want all", applied)
	}
	if len(all) != len(videos) {
		t.Errorf("unknown key should not filter, got %d of %d", len(all), len(videos))
	}
}

func TestFilterByPublished(t *testing.T) {
	recent := time.Now().UTC().AddDate(0, 0, -2).Format(time.RFC3339)
	old := time.Now().UTC().AddDate(0, 0, -40).Format(time.RFC3339)

	videos := []model.ScoredVideo{
		{VideoID: "new", PublishedAt: recent},
		{VideoID: "old", PublishedAt: old},
		{VideoID: "broken", PublishedAt: "not-a-time"},
		{VideoID: "missing"},
	}

	out := FilterByPublished(videos, 7)
	if len(out) != 1 || out[0].VideoID != "new" {
		t.Errorf("published filter = %v, want only the recent video", out)
	}
}

func TestHistory_FromStats(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	resp := svc.History("vid1")
	if len(resp.Views) != 2 {
		t.Fatalf("got %d points, want 2 from stats", len(resp.Views))
	}
	if resp.Views[0] != 500000 || resp.Views[1] != 800000 {
		t.Errorf("views = %v", resp.Views)
	}
	if resp.Timestamps[0] != "2025-06-10" {
		t.Errorf("first timestamp = %q", resp.Timestamps[0])
	}
}

func TestHistory_SyntheticDeterministic(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	first := svc.History("untracked-video")
	second := svc.History("untracked-video")

	if len(first.Views) != 30 {
		t.Fatalf("synthetic series length = %d, want 30", len(first.Views))
	}
	for i := range first.Views {
		if first.Views[i] != second.Views[i] {
			t.Fatalf("synthetic history not deterministic at %d: %d vs %d",
				i, first.Views[i], second.Views[i])
		}
		if first.Views[i] < 0 {
			t.Errorf("negative synthetic views at %d", i)
		}
	}

	other := svc.History("different-video")
	same := true
	for i := range first.Views {
		if first.Views[i] != other.Views[i] {
			same = false
			break
		}
	}
	if same {
		t.Errorf("different videos should get different synthetic curves")
	}
}

func TestStats_Aggregates(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	stats, err := svc.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalVideos != 3 {
		t.Errorf("total videos = %d, want 3 unique", stats.TotalVideos)
	}
	if stats.Countries != 2 {
		t.Errorf("countries = %d, want 2", stats.Countries)
	}
	if stats.DataPoints != 4 {
		t.Errorf("data points = %d, want 4 raw rows", stats.DataPoints)
	}
	wantViews := int64(800000 + 1200000 + 90000)
	if stats.TotalViews != wantViews {
		t.Errorf("total views = %d, want %d", stats.TotalViews, wantViews)
	}
}

func TestSummary(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)
	videos, _, err := svc.LoadScored(0)
	if err != nil {
		t.Fatal(err)
	}

	sum := svc.Summary(videos)
	if sum.TotalVideos != 3 {
		t.Errorf("total = %d, want 3", sum.TotalVideos)
	}
	// US hosts two of the three videos and must lead, resolved to full name
	if len(sum.TopCountries) == 0 || sum.TopCountries[0] != "United States" {
		t.Errorf("top countries = %v, want United States first", sum.TopCountries)
	}
	if sum.DateRange != "Jun 2025" {
		t.Errorf("date range = %q, want Jun 2025", sum.DateRange)
	}
}

func TestFind(t *testing.T) {
	svc := newTestService(t, trendingFixture, statsFixture)

	v, found, err := svc.Find("vid2")
	if err != nil || !found {
		t.Fatalf("find vid2: found=%v err=%v", found, err)
	}
	if v.Title != "New single official video" {
		t.Errorf("title = %q", v.Title)
	}

	if _, found, _ := svc.Find("nope"); found {
		t.Errorf("nonexistent id should not be found")
	}
}
