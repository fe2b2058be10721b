package nlp

import (
	"sync"
	"time"
)

const (
	// DefaultRateLimit is the maximum number of translation calls allowed
	// per sender per minute when no explicit limit is configured.
	DefaultRateLimit = 20

	defaultRateLimitWindow = time.Minute
)

// RateLimiter enforces a per-sender sliding-window limit on translation
// calls, bounding token spend on the upstream LLM API.
//
// It keeps the call timestamps for each sender within the current window
// and prunes stale entries on every Allow call, so memory stays bounded to
// O(limit) entries per active sender.
//
// RateLimiter is safe for concurrent use from multiple goroutines.
type RateLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string][]time.Time // senderID → call timestamps in window
}

// NewRateLimiter returns a RateLimiter that allows at most limit calls per
// sender within window. Non-positive arguments fall back to the defaults.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = defaultRateLimitWindow
	}
	return &RateLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string][]time.Time),
	}
}

// Allow reports whether the sender may make another translation call and,
// when permitted, records the current timestamp against their quota.
func (r *RateLimiter) Allow(senderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.prune(now.Add(-r.window))

	recent := r.counters[senderID]
	if len(recent) >= r.limit {
		return false
	}

	r.counters[senderID] = append(recent, now)
	return true
}

// prune drops timestamps older than cutoff and forgets senders with none
// left, keeping the map bounded by senders active within the window.
func (r *RateLimiter) prune(cutoff time.Time) {
	for sender, stamps := range r.counters {
		recent := stamps[:0]
		for _, ts := range stamps {
			if ts.After(cutoff) {
				recent = append(recent, ts)
			}
		}
		if len(recent) == 0 {
			delete(r.counters, sender)
		} else {
			r.counters[sender] = recent
		}
	}
}
