package errors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxRetries:   2,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestRetry_SucceedsAfterTransientError(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetry(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_FailsAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), fastRetry(), func() error {
		attempts++
		return errors.New("persistent error")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 retries")
	assert.Equal(t, 3, attempts) // initial + 2 retries
}

func TestRetry_ShouldRetryStopsOnPermanentError(t *testing.T) {
	cfg := fastRetry()
	cfg.ShouldRetry = IsRetryable

	attempts := 0
	permanent := New(ErrCodeCatalogFetch, "no such table", nil)
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		return permanent
	})

	assert.Equal(t, 1, attempts)
	assert.Same(t, permanent, err)
}

func TestRetry_DefaultConfigRetriesBusyCatalog(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.InitialDelay = time.Millisecond

	attempts := 0
	err := Retry(context.Background(), cfg, func() error {
		attempts++
		if attempts == 1 {
			return CatalogError("lookup", errors.New("database is locked"))
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetry_RespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := Retry(ctx, fastRetry(), func() error {
		attempts++
		return errors.New("never called")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, attempts)
}

func TestRetry_RespectsContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	cfg := RetryConfig{
		MaxRetries:   10,
		InitialDelay: 20 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	err := Retry(ctx, cfg, func() error { return errors.New("error") })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetryWithResult_ReturnsValue(t *testing.T) {
	attempts := 0
	result, err := RetryWithResult(context.Background(), fastRetry(), func() (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("error")
		}
		return 42, nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, result)
}

func TestRetryWithResult_ReturnsZeroOnFailure(t *testing.T) {
	result, err := RetryWithResult(context.Background(), fastRetry(), func() (string, error) {
		return "partial", errors.New("error")
	})

	assert.Error(t, err)
	assert.Empty(t, result)
}
