// Package ratelimit provides an in-memory sliding window rate limiter keyed
// by an arbitrary string. It is per-process; a multi-instance deployment
// would move this to Redis.
package ratelimit

import (
	"sync"
	"time"
)

// Result describes the outcome of a limiter check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
	Limit     int
}

// SlidingWindow tracks request timestamps per key and allows at most limit
// requests inside any window-sized interval. The sliding window avoids the
// boundary burst problem of fixed counters.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	buckets map[string][]time.Time
}

func NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		limit:   limit,
		window:  window,
		buckets: make(map[string][]time.Time),
	}
}

// Allow records one request for key and reports whether it fits the limit.
func (l *SlidingWindow) Allow(key string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	timestamps := prune(l.buckets[key], now.Add(-l.window))

	if len(timestamps) >= l.limit {
		l.buckets[key] = timestamps
		return Result{
			Allowed:   false,
			Remaining: 0,
			ResetAt:   timestamps[0].Add(l.window),
			Limit:     l.limit,
		}
	}

	timestamps = append(timestamps, now)
	l.buckets[key] = timestamps
	return Result{
		Allowed:   true,
		Remaining: l.limit - len(timestamps),
		ResetAt:   timestamps[0].Add(l.window),
		Limit:     l.limit,
	}
}

// Reset clears the counter for a key.
func (l *SlidingWindow) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// prune drops timestamps at or before the cutoff.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for ; i < len(timestamps); i++ {
		if timestamps[i].After(cutoff) {
			break
		}
	}
	return timestamps[i:]
}
