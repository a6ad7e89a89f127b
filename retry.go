package brreg

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	internalbackoff "github.com/sondreal/brreg-wrapper/internal/backoff"
)

// BackoffStrategy selects the jitter algorithm used between retries.
type BackoffStrategy int

const (
	// ExponentialJitter applies uniform jitter on top of exponential backoff.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter applies AWS-style decorrelated jitter.
	DecorrelatedJitter
)

func (s BackoffStrategy) calculator() *internalbackoff.Calculator {
	switch s {
	case DecorrelatedJitter:
		return internalbackoff.GetDecorrelatedJitterCalculator()
	default:
		return internalbackoff.GetExponentialJitterCalculator()
	}
}

// doWithRetry runs one attempt function under the retry policy: transient
// failures (connection errors, 429, 5xx) are retried up to maxRetries times
// with capped jittered backoff, permanent failures abort immediately, and
// exhaustion surfaces the last transient error tagged RetryExhausted. A
// Retry-After hint from the registry overrides the computed delay.
func (c *Client) doWithRetry(ctx context.Context, op string, attempt func(context.Context) ([]byte, error)) ([]byte, error) {
	var lastErr error

	for try := 0; try <= c.maxRetries; try++ {
		if try > 0 {
			delay := c.backoff.Calculate(try-1, c.initialBackoff, c.maxBackoff, c.backoffMultiplier, c.jitter)
			var ce *ClientError
			if errors.As(lastErr, &ce) && ce.RetryAfter > 0 && ce.RetryAfter < c.maxBackoff {
				delay = ce.RetryAfter
			}

			if c.debug != nil && c.debug.Enabled && c.debug.LogRetries && c.logger != nil {
				c.logger.Info("scheduling retry", "operation", op, "attempt", try, "maxRetries", c.maxRetries, "backoff", delay)
			}
			if c.metrics != nil {
				c.metrics.RecordRetry(op, try)
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		body, err := attempt(ctx)
		if err == nil {
			return body, nil
		}
		// A canceled call must not burn retries on its own cancellation.
		if ctx.Err() != nil {
			return nil, err
		}
		if !IsTransient(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, retryExhausted(op, c.maxRetries+1, c.maxRetries, lastErr)
}

// parseRetryAfter parses a Retry-After header in either delay-seconds or
// HTTP-date form. The result is capped at one hour.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}
