package service

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aladinbajra/youtube-trending-ai/internal/category"
	"github.com/aladinbajra/youtube-trending-ai/internal/model"
	"github.com/aladinbajra/youtube-trending-ai/internal/stage"
	"github.com/aladinbajra/youtube-trending-ai/internal/store"
	"github.com/aladinbajra/youtube-trending-ai/internal/virality"
)

// ErrNoData is returned when the source datasets are missing or empty.
var ErrNoData = errors.New("video data not available")

// maxScoredVideos caps a scoring pass at the newest trending videos.
const maxScoredVideos = 100

// VideoService runs the scoring pipeline: load raw CSV batches, normalize,
// derive growth series, classify, score, cache.
type VideoService struct {
	store      *store.CSVStore
	normalizer *stage.Normalizer
	classifier *category.Classifier
	scorer     *virality.Scorer
	cache      *ResultCache
	log        zerolog.Logger

	statsMu     sync.Mutex
	statsLoaded bool
	stats       []model.StatSnapshot
}

func NewVideoService(st *store.CSVStore, normalizer *stage.Normalizer, classifier *category.Classifier, scorer *virality.Scorer, cache *ResultCache, log zerolog.Logger) *VideoService {
	return &VideoService{
		store:      st,
		normalizer: normalizer,
		classifier: classifier,
		scorer:     scorer,
		cache:      cache,
		log:        log.With().Str("component", "video_svc").Logger(),
	}
}

// LoadScored returns the scored trending list. An unfiltered call (days=0)
// is served from the result cache when populated; a day-window filter always
// bypasses the cache and recomputes. The boolean reports a cache hit.
func (s *VideoService) LoadScored(days int) ([]model.ScoredVideo, bool, error) {
	if days <= 0 {
		if videos, ok := s.cache.Get(); ok {
			return videos, true, nil
		}
	}

	videos, err := s.scorePass(days)
	if err != nil {
		return nil, false, err
	}

	if days <= 0 {
		s.cache.Set(videos)
	}
	return videos, false, nil
}

// Refresh invalidates the result cache and drops the in-memory stats batch so
// the next request re-reads the datasets.
func (s *VideoService) Refresh() {
	s.cache.Invalidate()
	s.statsMu.Lock()
	s.statsLoaded = false
	s.stats = nil
	s.statsMu.Unlock()
}

func (s *VideoService) scorePass(days int) ([]model.ScoredVideo, error) {
	start := time.Now()

	rows, err := s.store.LoadTrending()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	records := s.normalizer.NormalizeTrending(rows)
	if len(records) == 0 {
		return nil, ErrNoData
	}

	if days > 0 {
		records = filterByWindow(records, days)
		s.log.Info().Int("days", days).Int("rows", len(records)).Msg("applied collection-date window")
	}

	latest := latestPerVideo(records)

	// Newest collections first, capped at the top of the list.
	sort.SliceStable(latest, func(i, j int) bool {
		return latest[i].CollectionDate.After(latest[j].CollectionDate)
	})
	if len(latest) > maxScoredVideos {
		latest = latest[:maxScoredVideos]
	}

	collectionDates := collectionDatesPerVideo(records)
	snaps := s.loadStats()

	videos := make([]model.ScoredVideo, 0, len(latest))
	for _, rec := range latest {
		categoryID := strconv.Itoa(rec.CategoryID)
		label := s.classifier.Classify(categoryID, rec.Title, rec.Description, rec.Tags, "general")

		history := viewHistory(snaps, rec.VideoID)
		comps := s.scorer.Score(
			virality.Metrics{Views: rec.ViewCount, Likes: rec.LikeCount, Comments: rec.CommentCount},
			history,
			collectionDates[rec.VideoID],
			label,
		)

		published := ""
		if rec.PublishedAt != nil {
			published = rec.PublishedAt.UTC().Format(time.RFC3339)
		}

		videos = append(videos, model.ScoredVideo{
			VideoID:          rec.VideoID,
			Title:            rec.Title,
			ChannelTitle:     rec.ChannelTitle,
			ThumbnailURL:     rec.ThumbnailURL,
			Description:      rec.Description,
			CategoryID:       categoryID,
			Tags:             rec.Tags,
			Views:            rec.ViewCount,
			Likes:            rec.LikeCount,
			Comments:         rec.CommentCount,
			Country:          rec.CountryCode,
			PublishedAt:      published,
			Category:         label,
			ViralityScore:    comps.ViralityScore,
			GrowthVelocity:   comps.GrowthVelocity,
			EngagementRate:   comps.EngagementRate,
			TrendingDuration: comps.TrendingDuration,
			AudienceReach:    comps.AudienceReach,
		})
	}

	s.log.Info().
		Int("videos", len(videos)).
		Dur("elapsed", time.Since(start)).
		Msg("scoring pass complete")
	return videos, nil
}

// FilterByCategory applies a category rule to a scored list. Unknown keys
// fall back to the unfiltered "all" set; the returned key is the filter that
// was actually applied.
func (s *VideoService) FilterByCategory(videos []model.ScoredVideo, key string) ([]model.ScoredVideo, string) {
	if key == "" || key == category.AllCategories {
		return videos, category.AllCategories
	}
	if !s.classifier.Known(key) {
		s.log.Info().Str("category", key).Msg("category filter skipped, unknown key")
		return videos, category.AllCategories
	}

	pre := len(videos)
	filtered := make([]model.ScoredVideo, 0, len(videos))
	for _, v := range videos {
		if s.classifier.Matches(key, v.CategoryID, v.Title, v.Description, v.Tags) {
			filtered = append(filtered, v)
		}
	}
	s.log.Info().
		Str("category", key).
		Int("count_pre", pre).
		Int("count_post", len(filtered)).
		Msg("filtered videos by category")
	return filtered, key
}

// FilterByPublished keeps videos published within the last n days. Records
// with unparsable publish timestamps are dropped from the filtered view.
func FilterByPublished(videos []model.ScoredVideo, days int) []model.ScoredVideo {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	out := make([]model.ScoredVideo, 0, len(videos))
	for _, v := range videos {
		if v.PublishedAt == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v.PublishedAt)
		if err != nil {
			continue
		}
		if !t.Before(cutoff) {
			out = append(out, v)
		}
	}
	return out
}

// History returns the per-day view series for one video. Untracked videos
// get a deterministic synthetic series so the chart layer always has data.
func (s *VideoService) History(videoID string) model.HistoryResponse {
	series := stage.SeriesFor(s.loadStats(), videoID)
	if len(series) == 0 {
		return syntheticHistory(videoID, 30)
	}

	resp := model.HistoryResponse{VideoID: videoID}
	for _, snap := range series {
		resp.Timestamps = append(resp.Timestamps, snap.CollectionDay.Format("2006-01-02"))
		resp.Views = append(resp.Views, snap.ViewCount)
	}
	return resp
}

// Stats aggregates dataset-level numbers for the stats endpoint.
func (s *VideoService) Stats() (model.StatsResponse, error) {
	rows, err := s.store.LoadTrending()
	if err != nil {
		return model.StatsResponse{}, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	records := s.normalizer.NormalizeTrending(rows)

	uniqueVideos := make(map[string]struct{})
	uniqueCountries := make(map[string]struct{})
	for _, rec := range records {
		uniqueVideos[rec.VideoID] = struct{}{}
		if rec.CountryCode != "" {
			uniqueCountries[rec.CountryCode] = struct{}{}
		}
	}

	videos, _, err := s.LoadScored(0)
	if err != nil {
		return model.StatsResponse{}, err
	}

	var totalViews, totalLikes int64
	for _, v := range videos {
		totalViews += v.Views
		totalLikes += v.Likes
	}
	var avgViews int64
	if len(videos) > 0 {
		avgViews = totalViews / int64(len(videos))
	}

	return model.StatsResponse{
		TotalVideos:    len(uniqueVideos),
		TrendingVideos: len(videos),
		TotalViews:     totalViews,
		TotalLikes:     totalLikes,
		AverageViews:   avgViews,
		Countries:      len(uniqueCountries),
		DataPoints:     len(records),
	}, nil
}

// Summary builds the dataset summary that feeds the AI insights prompt.
// Country codes are resolved to full names.
func (s *VideoService) Summary(videos []model.ScoredVideo) model.DatasetSummary {
	var totalViews int64
	var engagementSum float64
	countryCounts := make(map[string]int)
	for _, v := range videos {
		totalViews += v.Views
		views := v.Views
		if views == 0 {
			views = 1
		}
		engagementSum += float64(v.Likes+v.Comments) / float64(views) * 100
		if v.Country != "" {
			countryCounts[v.Country]++
		}
	}

	summary := model.DatasetSummary{TotalVideos: len(videos)}
	if len(videos) > 0 {
		summary.AvgViews = totalViews / int64(len(videos))
		summary.AvgEngagement = engagementSum / float64(len(videos))
	}

	type countryCount struct {
		code  string
		count int
	}
	counts := make([]countryCount, 0, len(countryCounts))
	for code, n := range countryCounts {
		counts = append(counts, countryCount{code, n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].code < counts[j].code
	})
	for i, c := range counts {
		if i == 5 {
			break
		}
		summary.TopCountries = append(summary.TopCountries, CountryName(c.code))
	}

	summary.DateRange = s.dateRange()
	return summary
}

func (s *VideoService) dateRange() string {
	rows, err := s.store.LoadTrending()
	if err != nil {
		return "unknown"
	}
	var earliest, latest time.Time
	for _, rec := range s.normalizer.NormalizeTrending(rows) {
		if rec.CollectionDate.IsZero() {
			continue
		}
		if earliest.IsZero() || rec.CollectionDate.Before(earliest) {
			earliest = rec.CollectionDate
		}
		if latest.IsZero() || rec.CollectionDate.After(latest) {
			latest = rec.CollectionDate
		}
	}
	if earliest.IsZero() {
		return "unknown"
	}
	from, to := earliest.Format("Jan 2006"), latest.Format("Jan 2006")
	if from == to {
		return to
	}
	return from + " - " + to
}

// Find locates one scored video in the unfiltered list.
func (s *VideoService) Find(videoID string) (model.ScoredVideo, bool, error) {
	videos, _, err := s.LoadScored(0)
	if err != nil {
		return model.ScoredVideo{}, false, err
	}
	for _, v := range videos {
		if v.VideoID == videoID {
			return v, true, nil
		}
	}
	return model.ScoredVideo{}, false, nil
}

// loadStats reads and normalizes the statistics dataset once, with the
// growth pass applied. A missing stats file is not an error: scoring simply
// proceeds without view history.
func (s *VideoService) loadStats() []model.StatSnapshot {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	if s.statsLoaded {
		return s.stats
	}
	s.statsLoaded = true

	rows, err := s.store.LoadStats()
	if err != nil {
		s.log.Warn().Err(err).Msg("stats dataset unavailable, scoring without history")
		return nil
	}
	s.stats = stage.ComputeGrowth(s.normalizer.NormalizeStats(rows))
	return s.stats
}

func filterByWindow(records []model.TrendingRecord, days int) []model.TrendingRecord {
	var last time.Time
	for _, rec := range records {
		if rec.CollectionDate.After(last) {
			last = rec.CollectionDate
		}
	}
	if last.IsZero() {
		return records
	}
	cutoff := last.AddDate(0, 0, -days)

	out := make([]model.TrendingRecord, 0, len(records))
	for _, rec := range records {
		if !rec.CollectionDate.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}

func latestPerVideo(records []model.TrendingRecord) []model.TrendingRecord {
	latest := make(map[string]model.TrendingRecord)
	for _, rec := range records {
		if rec.VideoID == "" {
			continue
		}
		if prev, ok := latest[rec.VideoID]; !ok || rec.CollectionDate.After(prev.CollectionDate) {
			latest[rec.VideoID] = rec
		}
	}
	out := make([]model.TrendingRecord, 0, len(latest))
	for _, rec := range latest {
		out = append(out, rec)
	}
	return out
}

func collectionDatesPerVideo(records []model.TrendingRecord) map[string][]time.Time {
	seen := make(map[string]map[time.Time]struct{})
	for _, rec := range records {
		if rec.VideoID == "" || rec.CollectionDate.IsZero() {
			continue
		}
		if seen[rec.VideoID] == nil {
			seen[rec.VideoID] = make(map[time.Time]struct{})
		}
		seen[rec.VideoID][rec.CollectionDate] = struct{}{}
	}

	out := make(map[string][]time.Time, len(seen))
	for id, dates := range seen {
		list := make([]time.Time, 0, len(dates))
		for d := range dates {
			list = append(list, d)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
		out[id] = list
	}
	return out
}

func viewHistory(snaps []model.StatSnapshot, videoID string) []virality.HistoryPoint {
	series := stage.SeriesFor(snaps, videoID)
	points := make([]virality.HistoryPoint, 0, len(series))
	for _, snap := range series {
		points = append(points, virality.HistoryPoint{Timestamp: snap.CollectionDay, Views: snap.ViewCount})
	}
	return points
}

// syntheticHistory produces a stable pseudo-random 30-day view series for
// videos absent from the stats dataset, seeded from the video id so repeated
// requests return the same curve.
func syntheticHistory(videoID string, days int) model.HistoryResponse {
	h := fnv.New64a()
	h.Write([]byte(videoID))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	base := int64(100_000 + rng.Intn(9_900_000))
	resp := model.HistoryResponse{VideoID: videoID}
	now := time.Now().UTC()
	for i := 0; i < days; i++ {
		date := now.AddDate(0, 0, -(days - i))
		resp.Timestamps = append(resp.Timestamps, date.Format("2006-01-02"))

		growth := float64(base)*0.1*float64(i)/float64(days) + float64(rng.Intn(150_000)-50_000)
		views := base + int64(growth)
		if views < 0 {
			views = 0
		}
		resp.Views = append(resp.Views, views)
	}
	return resp
}
