package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryDo_SucceedsFirstAttempt(t *testing.T) {
	attempts, err := retryDo(context.Background(), fastRetry(3), func() error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	attempts, err := retryDo(context.Background(), fastRetry(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestRetryDo_StopsAtAttemptCap(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	attempts, err := retryDo(context.Background(), fastRetry(3), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestRetryDo_NonRetryableStopsImmediately(t *testing.T) {
	fatal := errors.New("fatal")
	cfg := fastRetry(5)
	cfg.ShouldRetry = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	attempts, err := retryDo(context.Background(), cfg, func() error {
		calls++
		return fatal
	})
	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetryDo_ContextCancelStopsBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := RetryConfig{MaxAttempts: 5, InitialDelay: time.Minute, MaxDelay: time.Minute}
	calls := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		attempts, err := retryDo(ctx, cfg, func() error {
			calls++
			return errors.New("transient")
		})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, attempts)
	}()

	// Give the first attempt time to fail and enter the backoff wait.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retryDo did not return after cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestRetryDo_ZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	attempts, err := retryDo(context.Background(), RetryConfig{}, func() error {
		calls++
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}
