package service

import (
	"sync"

	"github.com/aladinbajra/youtube-trending-ai/internal/model"
)

// ResultCache memoizes the most recent unfiltered scored-video list for the
// lifetime of the process. Filtered requests bypass it entirely. A single
// RWMutex gives the single-writer/multiple-reader discipline needed once
// requests are served concurrently.
type ResultCache struct {
	mu         sync.RWMutex
	videos     []model.ScoredVideo
	populated  bool
	generation uint64
}

func NewResultCache() *ResultCache {
	return &ResultCache{}
}

// Get returns the cached scored list and whether the cache is populated.
// Callers must treat the returned slice as immutable.
func (c *ResultCache) Get() ([]model.ScoredVideo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.videos, c.populated
}

// Set replaces the cached list and bumps the generation counter.
func (c *ResultCache) Set(videos []model.ScoredVideo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos = videos
	c.populated = true
	c.generation++
}

// Invalidate drops the cached list. The next unfiltered request recomputes.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.videos = nil
	c.populated = false
	c.generation++
}

// Generation returns the current cache generation. It changes on every Set
// and Invalidate.
func (c *ResultCache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.generation
}
