package stage

import (
	"testing"
	"time"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

func snap(videoID string, dayOffset int, views, likes, comments int64) model.StatSnapshot {
	return model.StatSnapshot{
		VideoID:       videoID,
		CollectionDay: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, dayOffset),
		ViewCount:     views,
		LikeCount:     likes,
		CommentCount:  comments,
	}
}

func TestComputeGrowth_FirstDifferences(t *testing.T) {
	snaps := []model.StatSnapshot{
		snap("vid1", 0, 100, 10, 1),
		snap("vid1", 1, 150, 12, 4),
		snap("vid1", 2, 120, 20, 4),
	}

	out := ComputeGrowth(snaps)
	if len(out) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(out))
	}

	wantViews := []int64{0, 50, -30}
	wantLikes := []int64{0, 2, 8}
	wantComments := []int64{0, 3, 0}
	for i := range out {
		if out[i].DailyViewGrowth != wantViews[i] {
			t.Errorf("view growth[%d] = %d, want %d", i, out[i].DailyViewGrowth, wantViews[i])
		}
		if out[i].DailyLikeGrowth != wantLikes[i] {
			t.Errorf("like growth[%d] = %d, want %d", i, out[i].DailyLikeGrowth, wantLikes[i])
		}
		if out[i].DailyCommentGrowth != wantComments[i] {
			t.Errorf("comment growth[%d] = %d, want %d", i, out[i].DailyCommentGrowth, wantComments[i])
		}
	}
}

func TestComputeGrowth_NoCrossVideoLeak(t *testing.T) {
	snaps := []model.StatSnapshot{
		snap("vidA", 0, 1000, 0, 0),
		snap("vidA", 1, 2000, 0, 0),
		snap("vidB", 0, 50, 0, 0),
		snap("vidB", 1, 75, 0, 0),
	}

	out := ComputeGrowth(snaps)

	// Each video's first snapshot is a zero row regardless of what the
	// previous video ended on
	for _, s := range out {
		if s.CollectionDay.Day() == 1 && s.DailyViewGrowth != 0 {
			t.Errorf("%s first-day growth = %d, want 0", s.VideoID, s.DailyViewGrowth)
		}
	}

	series := SeriesFor(out, "vidB")
	if len(series) != 2 {
		t.Fatalf("vidB series length = %d, want 2", len(series))
	}
	if series[1].DailyViewGrowth != 25 {
		t.Errorf("vidB growth = %d, want 25", series[1].DailyViewGrowth)
	}
}

func TestComputeGrowth_SingleSnapshot(t *testing.T) {
	out := ComputeGrowth([]model.StatSnapshot{snap("vid1", 0, 500, 50, 5)})
	if len(out) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(out))
	}
	s := out[0]
	if s.DailyViewGrowth != 0 || s.DailyLikeGrowth != 0 || s.DailyCommentGrowth != 0 {
		t.Errorf("single snapshot growth = %d/%d/%d, want all zero",
			s.DailyViewGrowth, s.DailyLikeGrowth, s.DailyCommentGrowth)
	}
}

func TestComputeGrowth_UnorderedInput(t *testing.T) {
	snaps := []model.StatSnapshot{
		snap("vid1", 2, 120, 0, 0),
		snap("vid1", 0, 100, 0, 0),
		snap("vid1", 1, 150, 0, 0),
	}

	out := ComputeGrowth(snaps)

	// Output is reordered by collection day before differencing
	wantViews := []int64{0, 50, -30}
	for i := range out {
		if out[i].DailyViewGrowth != wantViews[i] {
			t.Errorf("view growth[%d] = %d, want %d", i, out[i].DailyViewGrowth, wantViews[i])
		}
	}
}
