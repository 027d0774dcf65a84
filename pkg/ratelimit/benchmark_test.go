package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

// BenchmarkAllow measures single-threaded throughput on one hot key.
func BenchmarkAllow(b *testing.B) {
	limiter := NewSlidingWindow(1_000_000, time.Minute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = limiter.Allow("bench-key")
	}
}

// BenchmarkAllow_Parallel measures contention on one hot key.
func BenchmarkAllow_Parallel(b *testing.B) {
	limiter := NewSlidingWindow(1_000_000, time.Minute)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = limiter.Allow("bench-key")
		}
	})
}

// BenchmarkAllow_HighCardinality measures performance with many unique keys.
func BenchmarkAllow_HighCardinality(b *testing.B) {
	limiter := NewSlidingWindow(100, time.Minute)

	for i := 0; b.Loop(); i++ {
		key := fmt.Sprintf("user:%d", i%10000)
		_ = limiter.Allow(key)
	}
}
