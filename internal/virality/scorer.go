// Package virality computes the composite 0-100 virality score from four
// weighted sub-scores: growth velocity, engagement rate, trending duration
// and audience reach.
package virality

import (
	"math"
	"sort"
	"time"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

// Sub-score weights. They sum to 1.0, so the weighted combination of clamped
// components stays inside [0,100] by construction.
const (
	weightGrowthVelocity   = 0.40
	weightEngagementRate   = 0.30
	weightTrendingDuration = 0.20
	weightAudienceReach    = 0.10
)

// reachBenchmarks holds the expected view/subscriber ratio per category.
// Categories outside the table use the general benchmark.
var reachBenchmarks = map[string]float64{
	"music":         0.15,
	"gaming":        0.08,
	"entertainment": 0.10,
	"news":          0.05,
	"education":     0.06,
	"general":       0.07,
}

const defaultBenchmark = 0.07

// HistoryPoint is one observation of a video's view count.
type HistoryPoint struct {
	Timestamp time.Time
	Views     int64
}

// Metrics are the current counters for the video being scored.
type Metrics struct {
	Views       int64
	Likes       int64
	Comments    int64
	Subscribers int64 // 0 means unknown
}

// Scorer computes virality scores. It is stateless and safe for concurrent
// use.
type Scorer struct{}

func NewScorer() *Scorer {
	return &Scorer{}
}

// GrowthVelocity scores how fast the video accumulates views. It needs at
// least two history points; with fewer there is no signal and the neutral
// midpoint 50.0 is returned. Steps whose previous view count is zero
// contribute no rate.
//
// acceleration divides by (avg_growth + 1), which is not a true zero guard
// at avg_growth = -1. The formula is kept as-is for behavioral fidelity; see
// the edge-case test.
func (s *Scorer) GrowthVelocity(history []HistoryPoint) float64 {
	if len(history) < 2 {
		return 50.0
	}

	sorted := make([]HistoryPoint, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var rates []float64
	for i := 1; i < len(sorted); i++ {
		prev := sorted[i-1].Views
		curr := sorted[i].Views
		if prev > 0 {
			rates = append(rates, float64(curr-prev)/float64(prev)*100)
		}
	}
	if len(rates) == 0 {
		return 50.0
	}

	avgGrowth := mean(rates)
	recentGrowth := avgGrowth
	if len(rates) >= 3 {
		recentGrowth = mean(rates[len(rates)-3:])
	}
	acceleration := recentGrowth / (avgGrowth + 1)

	return round2(clamp(50+avgGrowth*2+acceleration*10, 0, 100))
}

// EngagementRate maps (likes+comments)/views onto a four-band piecewise
// linear curve. Zero views score 0 by definition, never a division error.
func (s *Scorer) EngagementRate(views, likes, comments int64) float64 {
	if views == 0 {
		return 0.0
	}
	rate := float64(likes+comments) / float64(views) * 100

	var score float64
	switch {
	case rate < 3:
		score = rate / 3 * 50
	case rate < 6:
		score = 50 + (rate-3)/3*25
	case rate < 10:
		score = 75 + (rate-6)/4*15
	default:
		score = 90 + math.Min(10, (rate-10)/2)
	}
	return round2(score)
}

// TrendingDuration scores how long the video stayed on trending lists, from
// the inclusive day span between the earliest and latest collection
// timestamp. No history scores 0.
func (s *Scorer) TrendingDuration(collectionDates []time.Time) float64 {
	if len(collectionDates) == 0 {
		return 0.0
	}

	sorted := make([]time.Time, len(collectionDates))
	copy(sorted, collectionDates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	daysTrending := 1
	if len(sorted) > 1 {
		span := int(sorted[len(sorted)-1].Sub(sorted[0]).Hours() / 24)
		daysTrending = span + 1
	}

	var score float64
	d := float64(daysTrending)
	switch {
	case daysTrending < 7:
		score = 30 + d/7*30
	case daysTrending < 14:
		score = 60 + (d-7)/7*20
	default:
		score = 80 + math.Min(20, (d-14)/30*20)
	}
	return round2(score)
}

// AudienceReach scores views relative to the category's expected
// view/subscriber ratio. With unknown subscribers it falls back to an
// absolute-views heuristic anchored at 100K and 1M views. Zero views score 0.
func (s *Scorer) AudienceReach(views, subscribers int64, category string) float64 {
	if views == 0 {
		return 0.0
	}

	benchmark, ok := reachBenchmarks[category]
	if !ok {
		benchmark = defaultBenchmark
	}

	var score float64
	if subscribers > 0 {
		reachRatio := float64(views) / float64(subscribers)
		score = reachRatio / benchmark * 50
		if reachRatio > 1.0 {
			score += math.Min(30, (reachRatio-1.0)*10)
		}
	} else {
		v := float64(views)
		switch {
		case views >= 1_000_000:
			score = 80 + math.Min(20, v/10_000_000*20)
		case views >= 100_000:
			score = 60 + (v-100_000)/900_000*20
		default:
			score = v / 100_000 * 60
		}
	}
	return round2(math.Min(100, score))
}

// Score combines the four sub-scores into the weighted composite. history
// and collectionDates are optional; a missing signal degrades only the
// affected sub-score.
func (s *Scorer) Score(m Metrics, history []HistoryPoint, collectionDates []time.Time, category string) model.ScoreComponents {
	growth := s.GrowthVelocity(history)
	engagement := s.EngagementRate(m.Views, m.Likes, m.Comments)
	duration := s.TrendingDuration(collectionDates)
	reach := s.AudienceReach(m.Views, m.Subscribers, category)

	composite := growth*weightGrowthVelocity +
		engagement*weightEngagementRate +
		duration*weightTrendingDuration +
		reach*weightAudienceReach

	return model.ScoreComponents{
		ViralityScore:    round2(composite),
		GrowthVelocity:   growth,
		EngagementRate:   engagement,
		TrendingDuration: duration,
		AudienceReach:    reach,
	}
}

// Level buckets a virality score into its human-readable label.
func Level(score float64) string {
	switch {
	case score >= 90:
		return "Highly Viral"
	case score >= 75:
		return "Viral"
	case score >= 60:
		return "Trending"
	case score >= 40:
		return "Growing"
	default:
		return "Normal"
	}
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
