package stage

import (
	"sort"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

// ComputeGrowth fills in the day-over-day growth fields for every snapshot.
// Rows are grouped by video, ordered by collection day, and each metric gets
// a strict first difference: growth[i] = m[i] - m[i-1], growth[0] = 0.
// Growth never crosses a video boundary. The returned slice is ordered by
// (video_id, collection_day); input order does not matter.
func ComputeGrowth(snaps []model.StatSnapshot) []model.StatSnapshot {
	byVideo := make(map[string][]model.StatSnapshot)
	order := make([]string, 0)
	for _, s := range snaps {
		if _, seen := byVideo[s.VideoID]; !seen {
			order = append(order, s.VideoID)
		}
		byVideo[s.VideoID] = append(byVideo[s.VideoID], s)
	}
	sort.Strings(order)

	out := make([]model.StatSnapshot, 0, len(snaps))
	for _, videoID := range order {
		series := byVideo[videoID]
		sort.SliceStable(series, func(i, j int) bool {
			return series[i].CollectionDay.Before(series[j].CollectionDay)
		})

		for i := range series {
			if i == 0 {
				series[i].DailyViewGrowth = 0
				series[i].DailyLikeGrowth = 0
				series[i].DailyCommentGrowth = 0
				continue
			}
			series[i].DailyViewGrowth = series[i].ViewCount - series[i-1].ViewCount
			series[i].DailyLikeGrowth = series[i].LikeCount - series[i-1].LikeCount
			series[i].DailyCommentGrowth = series[i].CommentCount - series[i-1].CommentCount
		}
		out = append(out, series...)
	}
	return out
}

// SeriesFor returns the time-ordered snapshots for one video from an
// already-normalized batch.
func SeriesFor(snaps []model.StatSnapshot, videoID string) []model.StatSnapshot {
	var series []model.StatSnapshot
	for _, s := range snaps {
		if s.VideoID == videoID {
			series = append(series, s)
		}
	}
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].CollectionDay.Before(series[j].CollectionDay)
	})
	return series
}
