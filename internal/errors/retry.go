package errors

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts (not including initial attempt).
	MaxRetries int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// MaxDelay is the maximum delay between retries.
	MaxDelay time.Duration

	// Multiplier is the factor by which delay increases after each retry.
	Multiplier float64

	// Jitter adds randomness to delay to prevent thundering herd.
	Jitter bool

	// ShouldRetry decides whether an error is worth another attempt.
	// Nil retries every error.
	ShouldRetry func(error) bool
}

// DefaultRetryConfig returns the retry policy used for catalog reads.
// Only lock contention is retried; a missing table or bad query fails fast.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   2,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   2.0,
		ShouldRetry:  IsRetryable,
	}
}

// Retry executes fn with exponential backoff.
// If the context is cancelled, it returns the context error immediately.
func Retry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := RetryWithResult(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// RetryWithResult executes a function that returns a value with retry logic.
func RetryWithResult[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		default:
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if cfg.ShouldRetry != nil && !cfg.ShouldRetry(err) {
			return zero, err
		}
		if attempt >= cfg.MaxRetries {
			break
		}

		waitDelay := delay
		if cfg.Jitter {
			// delay * [0.5, 1.0)
			waitDelay = time.Duration(float64(delay) * (0.5 + rand.Float64()*0.5))
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(waitDelay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return zero, fmt.Errorf("failed after %d retries: %w", cfg.MaxRetries, lastErr)
}
