package executor

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter with a one-second burst: at most
// rps requests may be admitted in any rolling window, but a brief burst up
// to rps is allowed to accumulate while idle. A non-positive rps disables
// limiting entirely, matching the negative-means-unlimited convention used
// throughout the executor's other knobs.
//
// This is a stdlib-only component: none of the retrieval pack's
// dependencies (SQL drivers, xxh3, x/text, uuid, go-humanize, isatty)
// include a rate limiter, and golang.org/x/time/rate is not part of that
// dependency surface, so a small timer-driven implementation is used
// instead of reaching for a library the corpus never grounds.
type RateLimiter struct {
	mu       sync.Mutex
	rate     float64
	burst    float64
	tokens   float64
	last     time.Time
	disabled bool
}

// NewRateLimiter builds a limiter admitting at most rps requests per
// second. rps <= 0 disables limiting.
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{disabled: true}
	}
	return &RateLimiter{rate: rps, burst: rps, tokens: rps}
}

// Wait blocks until a token is available or ctx is cancelled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil || r.disabled {
		return nil
	}
	for {
		r.mu.Lock()
		now := time.Now()
		if r.last.IsZero() {
			r.last = now
		}
		elapsed := now.Sub(r.last).Seconds()
		r.tokens = min(r.burst, r.tokens+elapsed*r.rate)
		r.last = now
		if r.tokens >= 1 {
			r.tokens--
			r.mu.Unlock()
			return nil
		}
		wait := time.Duration((1 - r.tokens) / r.rate * float64(time.Second))
		r.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
