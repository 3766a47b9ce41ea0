package repository

import (
	"context"
	"time"

	"StepPull/internal/domain/models"
	pkgcache "StepPull/pkg/cache"
)

// cachedObservation is the stored form of a finalized day.
type cachedObservation struct {
	Steps     int64         `json:"steps"`
	Source    models.Source `json:"source"`
	WindowEnd time.Time     `json:"window_end"`
}

// ObservationCache backs the engine's read-through cache for finalized days
// with the shared cache service (memory, redis, or layered). Misses and cache
// errors are both treated as misses; the cache never fails a fetch.
type ObservationCache struct {
	cache pkgcache.Service
	ttl   time.Duration
}

// NewObservationCache creates a day-observation cache with the given TTL.
func NewObservationCache(cache pkgcache.Service, ttl time.Duration) *ObservationCache {
	return &ObservationCache{cache: cache, ttl: ttl}
}

// Get returns the cached observation for a start-of-day key.
func (c *ObservationCache) Get(ctx context.Context, day time.Time) (models.StepObservation, bool) {
	var stored cachedObservation
	if err := c.cache.Get(ctx, dayKey(day), &stored); err != nil {
		// a degraded cache is a miss, not a failure
		return models.StepObservation{}, false
	}
	return models.StepObservation{Steps: stored.Steps, Source: stored.Source, WindowEnd: stored.WindowEnd}, true
}

// Put stores a finalized observation. Best-effort; a failed write is dropped.
func (c *ObservationCache) Put(ctx context.Context, day time.Time, obs models.StepObservation) {
	stored := cachedObservation{Steps: obs.Steps, Source: obs.Source, WindowEnd: obs.WindowEnd}
	_ = c.cache.Set(ctx, dayKey(day), stored, c.ttl)
}

func dayKey(day time.Time) string {
	return pkgcache.GenerateKey("steps:day", day.Format("2006-01-02"))
}
