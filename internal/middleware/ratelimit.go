package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter provides basic per-client rate limiting over a sliding window
type RateLimiter struct {
	requests  map[string][]time.Time // IP -> request times
	lastSweep time.Time
	mu        sync.Mutex
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		now:      time.Now,
	}
}

// Limit allows at most maxRequests per client IP within window. A
// non-positive maxRequests disables limiting.
func (l *RateLimiter) Limit(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxRequests <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(getClientIP(r), maxRequests, window) {
				w.Header().Set("Retry-After", formatSeconds(window))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *RateLimiter) allow(client string, maxRequests int, window time.Duration) bool {
	now := l.now()
	windowStart := now.Add(-window)

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= window {
		l.sweep(windowStart)
		l.lastSweep = now
	}

	recent := l.requests[client][:0]
	for _, ts := range l.requests[client] {
		if ts.After(windowStart) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= maxRequests {
		l.requests[client] = recent
		return false
	}
	l.requests[client] = append(recent, now)
	return true
}

// sweep drops clients with no request after windowStart. Request times are
// appended in order, so the last one decides. Callers hold l.mu.
func (l *RateLimiter) sweep(windowStart time.Time) {
	for client, times := range l.requests {
		if len(times) == 0 || !times[len(times)-1].After(windowStart) {
			delete(l.requests, client)
		}
	}
}

func formatSeconds(d time.Duration) string {
	secs := int(d / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
