package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter     *rate.Limiter
	windowStart time.Time
	lastSeen    time.Time
}

// IPRateLimiter keeps a fixed request budget per key and window in process memory.
// Each window starts with a full bucket of limit tokens; the bucket is replaced when the window ends.
type IPRateLimiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       int
	window      time.Duration
	idleAfter   time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// NewIPRateLimiter allows limit requests per key per window.
func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		visitors:  make(map[string]*visitor),
		limit:     limit,
		window:    window,
		idleAfter: 5 * window,
		now:       time.Now,
	}
}

// Allow takes one token from the key's bucket for the current window.
func (l *IPRateLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	v, ok := l.visitors[key]
	if !ok || now.Sub(v.windowStart) >= l.window {
		v = &visitor{limiter: l.newBucket(), windowStart: now}
		l.visitors[key] = v
	}
	v.lastSeen = now

	return v.limiter.AllowN(now, 1), nil
}

// newBucket refills one token per window, and the bucket never outlives its window,
// so only the initial limit tokens are spendable.
func (l *IPRateLimiter) newBucket() *rate.Limiter {
	return rate.NewLimiter(rate.Every(l.window), l.limit)
}

// cleanup drops idle buckets; the caller holds the lock.
func (l *IPRateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < l.idleAfter {
		return
	}
	l.lastCleanup = now

	cutoff := now.Add(-l.idleAfter)
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
		}
	}
}
