// Package ratelimit implements a per-key sliding window limiter.
package ratelimit

import (
	"sync"
	"time"
)

type Limiter struct {
	mu      sync.Mutex
	limits  map[string][]time.Time
	window  time.Duration
	maxHits int
	now     func() time.Time
}

func NewLimiter(window time.Duration, maxHits int) *Limiter {
	return &Limiter{
		limits:  make(map[string][]time.Time),
		window:  window,
		maxHits: maxHits,
		now:     time.Now,
	}
}

// Allow records a hit for key and reports whether it fits in the window.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowStart := now.Add(-l.window)

	// Clean old entries
	hits := l.limits[key]
	valid := hits[:0]
	for _, hit := range hits {
		if hit.After(windowStart) {
			valid = append(valid, hit)
		}
	}

	if len(valid) >= l.maxHits {
		l.limits[key] = valid
		return false
	}

	l.limits[key] = append(valid, now)
	return true
}

// Prune drops keys with no hits inside the window.
func (l *Limiter) Prune() {
	l.mu.Lock()
	defer l.mu.Unlock()

	windowStart := l.now().Add(-l.window)
	for key, hits := range l.limits {
		if len(hits) == 0 || !hits[len(hits)-1].After(windowStart) {
			delete(l.limits, key)
		}
	}
}
