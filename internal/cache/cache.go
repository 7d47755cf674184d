// Package cache provides an in-process LRU cache with per-entry expiry.
package cache

import (
	"context"
	"log/slog"
	"time"
)

// Cache is the read/write surface shared by cache implementations.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Len() int
}

// Expirer drops expired entries and reports how many it removed.
type Expirer interface {
	Expire() int
}

// Janitor periodically expires entries of the registered caches.
type Janitor struct {
	interval time.Duration
	caches   []Expirer
}

func NewJanitor(interval time.Duration, caches ...Expirer) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{interval: interval, caches: caches}
}

// Run sweeps until ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := j.Sweep()
			if removed > 0 {
				slog.DebugContext(ctx, "Cache entries expired", "removed", removed)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Sweep expires every registered cache once.
func (j *Janitor) Sweep() int {
	total := 0
	for _, c := range j.caches {
		total += c.Expire()
	}
	return total
}
