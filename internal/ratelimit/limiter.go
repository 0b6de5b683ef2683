// Package ratelimit bounds how often a key (an email address, a client IP) may hit the
// OTP and login endpoints within a fixed window.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter admits or rejects one attempt for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// Policy is a fixed-window budget: at most Limit attempts per Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

// minSweepSize is the key count below which MemoryLimiter never sweeps.
const minSweepSize = 1024

// MemoryLimiter is a process-local fixed-window Limiter for single-instance deployments and tests.
// Expired windows are dropped whenever the key count doubles since the last sweep, so memory
// follows the number of keys seen within one window.
type MemoryLimiter struct {
	policy  Policy
	mu      sync.Mutex
	counts  map[string]*window
	sweepAt int
	nowF    func() time.Time
}

type window struct {
	count   int
	resetAt time.Time
}

// NewMemoryLimiter returns an in-memory limiter enforcing p.
func NewMemoryLimiter(p Policy) *MemoryLimiter {
	return &MemoryLimiter{policy: p, counts: make(map[string]*window), sweepAt: minSweepSize, nowF: time.Now}
}

// Allow counts an attempt for key.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.nowF()
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.counts[key]
	if !ok && len(l.counts) >= l.sweepAt {
		l.sweep(now)
	}
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(l.policy.Window)}
		l.counts[key] = w
	}
	w.count++
	if w.count > l.policy.Limit {
		return Decision{Allowed: false, RetryAfter: w.resetAt.Sub(now)}, nil
	}
	return Decision{Allowed: true, Remaining: l.policy.Limit - w.count}, nil
}

// sweep drops expired windows. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.counts {
		if !now.Before(w.resetAt) {
			delete(l.counts, k)
		}
	}
	l.sweepAt = max(minSweepSize, 2*len(l.counts))
}

// Noop admits everything. Used when rate limiting is disabled.
type Noop struct{}

func (Noop) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
