package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimitInfo captures limiter response metadata.
type RateLimitInfo struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter defines common interface.
type Limiter interface {
	Allow(ctx context.Context, key string) (RateLimitInfo, error)
}

// MemoryLimiter implements a leaky bucket per key.
type MemoryLimiter struct {
	limit int
	burst int
	store map[string]*bucket
	mu    sync.Mutex
	now   func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// NewMemoryLimiter builds RAM limiter allowing limit requests per minute
// plus burst.
func NewMemoryLimiter(limit, burst int) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	if burst < 0 {
		burst = 0
	}
	return &MemoryLimiter{
		limit: limit,
		burst: burst,
		store: make(map[string]*bucket),
		now:   time.Now,
	}
}

// Allow implements limiter.
func (m *MemoryLimiter) Allow(ctx context.Context, key string) (RateLimitInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	capacity := float64(m.limit + m.burst)
	b, ok := m.store[key]
	if !ok {
		b = &bucket{tokens: capacity, last: now}
		m.store[key] = b
	}
	delta := now.Sub(b.last).Minutes()
	b.tokens = min(capacity, b.tokens+delta*float64(m.limit))
	b.last = now
	if b.tokens >= 1 {
		b.tokens--
		return RateLimitInfo{Allowed: true, Limit: m.limit, Remaining: int(b.tokens), Reset: now.Add(time.Minute)}, nil
	}
	return RateLimitInfo{Allowed: false, Limit: m.limit, Remaining: 0, Reset: now.Add(time.Minute)}, nil
}
