package service

import (
	"sync"
	"testing"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

func TestResultCache_EmptyUntilSet(t *testing.T) {
	c := NewResultCache()

	if _, ok := c.Get(); ok {
		t.Errorf("fresh cache should not report populated")
	}

	c.Set([]model.ScoredVideo{{VideoID: "vid1"}})

	videos, ok := c.Get()
	if !ok {
		t.Fatalf("cache should be populated after Set")
	}
	if len(videos) != 1 || videos[0].VideoID != "vid1" {
		t.Errorf("got %v, want vid1", videos)
	}
}

func TestResultCache_InvalidateDrops(t *testing.T) {
	c := NewResultCache()
	c.Set([]model.ScoredVideo{{VideoID: "vid1"}})

	c.Invalidate()

	if videos, ok := c.Get(); ok || videos != nil {
		t.Errorf("invalidated cache should be empty, got %v", videos)
	}
}

func TestResultCache_GenerationAdvances(t *testing.T) {
	c := NewResultCache()
	g0 := c.Generation()

	c.Set(nil)
	g1 := c.Generation()
	if g1 <= g0 {
		t.Errorf("generation after Set = %d, want > %d", g1, g0)
	}

	c.Invalidate()
	if g2 := c.Generation(); g2 <= g1 {
		t.Errorf("generation after Invalidate = %d, want > %d", g2, g1)
	}
}

func TestResultCache_ConcurrentAccess(t *testing.T) {
	c := NewResultCache()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set([]model.ScoredVideo{{VideoID: "vid"}})
		}()
		go func() {
			defer wg.Done()
			c.Get()
			c.Generation()
		}()
	}
	wg.Wait()

	if _, ok := c.Get(); !ok {
		t.Errorf("cache should end populated")
	}
}
