// Package ratelimit provides a simple in-memory token-bucket rate limiter.
// It is used by the upstream fetcher to stay within the public API's fair-use
// policy, and by the HTTP service as a per-client-IP middleware.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter is a single token-bucket rate limiter.
type Limiter struct {
	mu         sync.Mutex
	rate       float64 // tokens added per second
	burst      float64 // maximum token capacity
	tokens     float64 // current token count
	lastRefill time.Time
}

// New creates a Limiter allowing ratePerSecond requests/s with a burst capacity.
// If burst <= 0, it defaults to ratePerSecond (no extra burst).
func New(ratePerSecond, burst float64) *Limiter {
	if burst <= 0 {
		burst = ratePerSecond
	}
	return &Limiter{
		rate:       ratePerSecond,
		burst:      burst,
		tokens:     burst,
		lastRefill: time.Now(),
	}
}

func (l *Limiter) refill(now time.Time) {
	elapsed := now.Sub(l.lastRefill).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > l.burst {
		l.tokens = l.burst
	}
	l.lastRefill = now
}

// Allow consumes one token and returns true if the request is permitted.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	if l.tokens >= 1.0 {
		l.tokens--
		return true
	}
	return false
}

// reserve takes one token, possibly driving the bucket negative, and returns
// how long the caller must wait before the token is really available.
func (l *Limiter) reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill(time.Now())
	l.tokens--
	if l.tokens >= 0 {
		return 0
	}
	return time.Duration(-l.tokens / l.rate * float64(time.Second))
}

// Wait blocks until a token is available or ctx is done. A token reserved
// by a cancelled wait is not returned to the bucket.
func (l *Limiter) Wait(ctx context.Context) error {
	if l.rate <= 0 {
		return nil
	}
	d := l.reserve()
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Store maintains per-key Limiter instances.
type Store struct {
	mu       sync.RWMutex
	limiters map[string]*Limiter
	rate     float64
	burst    float64
}

// NewStore creates a Store whose per-key limiters share the same rate/burst.
func NewStore(ratePerSecond, burst float64) *Store {
	return &Store{
		limiters: make(map[string]*Limiter),
		rate:     ratePerSecond,
		burst:    burst,
	}
}

// Allow checks (and creates if needed) the limiter for key.
func (s *Store) Allow(key string) bool {
	s.mu.RLock()
	l, ok := s.limiters[key]
	s.mu.RUnlock()
	if ok {
		return l.Allow()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok = s.limiters[key]; ok {
		return l.Allow()
	}
	l = New(s.rate, s.burst)
	s.limiters[key] = l
	return l.Allow()
}

// Len returns the number of keys with a limiter.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.limiters)
}
