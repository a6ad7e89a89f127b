package brreg

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter enforces a minimum interval between the starts of consecutive
// outgoing calls. One limiter is shared by all operations on a client, so
// batch fan-out and retries queue behind the same interval budget. Waiters
// are granted in arrival order; a canceled waiter releases its slot.
type RateLimiter struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewRateLimiter creates a limiter with the given minimum inter-request
// interval. A non-positive interval disables limiting.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	if interval <= 0 {
		return nil
	}
	return &RateLimiter{
		interval: interval,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Acquire blocks until the minimum interval since the previous granted
// acquisition has elapsed, or until ctx is done. It never returns a domain
// error: the only failure mode is the caller's context.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	if rl == nil {
		return nil
	}
	return rl.limiter.Wait(ctx)
}

// Interval returns the configured minimum spacing.
func (rl *RateLimiter) Interval() time.Duration {
	if rl == nil {
		return 0
	}
	return rl.interval
}
