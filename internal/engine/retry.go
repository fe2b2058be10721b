package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryConfig controls the bounded exponential backoff applied to
// retryable cluster failures.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts (including the first).
	// Zero or negative values are treated as 1 (no retries).
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	// Subsequent delays are doubled up to MaxDelay.
	InitialDelay time.Duration
	// MaxDelay caps the per-attempt wait.
	MaxDelay time.Duration
	// ShouldRetry classifies errors as retryable. When nil, all non-nil
	// errors are retried.
	ShouldRetry func(err error) bool
}

// DefaultRetryConfig provides sensible defaults for admin calls.
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:  3,
	InitialDelay: 500 * time.Millisecond,
	MaxDelay:     5 * time.Second,
}

// retryDo calls fn up to cfg.MaxAttempts times, backing off exponentially
// between attempts. It stops early when ctx is cancelled, fn succeeds, or
// fn returns a non-retryable error. It returns the error of the last
// attempt and the number of attempts made.
func retryDo(ctx context.Context, cfg RetryConfig, fn func() error) (int, error) {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = DefaultRetryConfig.InitialDelay
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultRetryConfig.MaxDelay
	}
	shouldRetry := cfg.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = func(err error) bool { return true }
	}

	delay := cfg.InitialDelay
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempts, errors.Join(lastErr, err)
		}

		attempts = attempt
		lastErr = fn()
		if lastErr == nil {
			return attempts, nil
		}

		if !shouldRetry(lastErr) {
			return attempts, lastErr
		}

		if attempt < cfg.MaxAttempts {
			slog.Debug("Retryable cluster failure, backing off",
				"attempt", attempt, "max", cfg.MaxAttempts,
				"err", lastErr, "delay", delay)

			select {
			case <-ctx.Done():
				return attempts, errors.Join(lastErr, ctx.Err())
			case <-time.After(delay):
			}

			delay *= 2
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return attempts, lastErr
}
