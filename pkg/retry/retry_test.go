package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fast(opts ...Option) *Retrier {
	return New(append([]Option{WithInitialDelay(time.Millisecond), WithJitter(0)}, opts...)...)
}

func TestDo_RetriesRetryableErrors(t *testing.T) {
	attempts := 0
	err := fast().Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return Retryable(errTransient)
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestDo_ReturnsUnmarkedErrorAfterLastAttempt(t *testing.T) {
	attempts := 0
	err := fast(WithMaxAttempts(2)).Do(context.Background(), func(context.Context) error {
		attempts++
		return Retryable(errTransient)
	})

	assert.Equal(t, errTransient, err)
	assert.False(t, IsRetryable(err))
	assert.Equal(t, 2, attempts)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	attempts := 0
	err := fast(WithRetryIf(func(error) bool { return true })).Do(context.Background(), func(context.Context) error {
		attempts++
		return Permanent(errTransient)
	})

	assert.Equal(t, errTransient, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_PlainErrorsAreNotRetried(t *testing.T) {
	attempts := 0
	err := fast().Do(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	assert.Equal(t, errTransient, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetryIfAndOnRetry(t *testing.T) {
	var delays []time.Duration
	attempts := 0
	err := fast(
		WithMaxAttempts(3),
		WithRetryIf(func(err error) bool { return errors.Is(err, errTransient) }),
		WithOnRetry(func(_ int, err error, d time.Duration) {
			assert.Equal(t, errTransient, err)
			delays = append(delays, d)
		}),
	).Do(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().Do(ctx, func(context.Context) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDo_CancelledDuringWaitReturnsLastError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := New(WithInitialDelay(time.Hour), WithJitter(0), WithOnRetry(func(int, error, time.Duration) { cancel() }))

	err := r.Do(ctx, func(context.Context) error { return Retryable(errTransient) })

	assert.Equal(t, errTransient, err)
}

func TestDelayDoublesUpToCap(t *testing.T) {
	r := DatabaseRetrier(WithJitter(0))

	assert.Equal(t, 50*time.Millisecond, r.delay(1))
	assert.Equal(t, 100*time.Millisecond, r.delay(2))
	assert.Equal(t, 800*time.Millisecond, r.delay(5))
	assert.Equal(t, time.Second, r.delay(6))
	assert.Equal(t, time.Second, r.delay(64))
}

func TestPaiementRetrierDefaults(t *testing.T) {
	r := PaiementRetrier()

	assert.Equal(t, 3, r.config.maxAttempts)
	assert.Equal(t, 5*time.Second, r.config.maxDelay)
	d := r.delay(1)
	assert.GreaterOrEqual(t, d, 160*time.Millisecond)
	assert.LessOrEqual(t, d, 240*time.Millisecond)
}
