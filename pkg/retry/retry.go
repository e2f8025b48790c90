// Package retry retries calls to the payment provider and saves that lost an
// optimistic-lock race, with exponential backoff and jitter.
//
// Operations mark their errors: Retryable errors are tried again, Permanent
// errors stop at once. The markers are removed from the error Do returns.
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as worth another attempt.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err carries the Retryable marker.
func IsRetryable(err error) bool {
	var r *retryableError
	return errors.As(err, &r)
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as final: it is returned without further attempts,
// whatever the retry predicate says.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// unmark strips an outer Retryable or Permanent marker.
func unmark(err error) error {
	switch e := err.(type) {
	case *retryableError:
		return e.err
	case *permanentError:
		return e.err
	default:
		return err
	}
}

type config struct {
	maxAttempts  int
	initialDelay time.Duration
	maxDelay     time.Duration
	jitter       float64
	retryIf      func(error) bool
	onRetry      func(attempt int, err error, delay time.Duration)
}

// Option configures a Retrier.
type Option func(*config)

// WithMaxAttempts sets the number of attempts, the first one included.
func WithMaxAttempts(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithInitialDelay sets the wait before the second attempt. Each later wait
// doubles, up to the retrier's cap.
func WithInitialDelay(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.initialDelay = d
		}
	}
}

// WithJitter sets the random spread applied to each wait, as a fraction
// between 0 and 1.
func WithJitter(j float64) Option {
	return func(c *config) {
		if j >= 0 && j <= 1 {
			c.jitter = j
		}
	}
}

// WithRetryIf sets which errors are retried. The default is IsRetryable.
func WithRetryIf(fn func(error) bool) Option {
	return func(c *config) {
		if fn != nil {
			c.retryIf = fn
		}
	}
}

// WithOnRetry sets a callback run before each wait.
func WithOnRetry(fn func(attempt int, err error, delay time.Duration)) Option {
	return func(c *config) {
		c.onRetry = fn
	}
}

// Retrier runs an operation until it succeeds, fails for good, or runs out
// of attempts.
type Retrier struct {
	config config
}

// New creates a Retrier. Defaults: 3 attempts, 100ms initial delay, 30s
// cap, 10% jitter, retry on Retryable errors only.
func New(opts ...Option) *Retrier {
	cfg := config{
		maxAttempts:  3,
		initialDelay: 100 * time.Millisecond,
		maxDelay:     30 * time.Second,
		jitter:       0.1,
		retryIf:      IsRetryable,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Retrier{config: cfg}
}

// PaiementRetrier returns the Retrier used for payment provider calls.
func PaiementRetrier(opts ...Option) *Retrier {
	r := New(append([]Option{
		WithInitialDelay(200 * time.Millisecond),
		WithJitter(0.2),
	}, opts...)...)
	r.config.maxDelay = 5 * time.Second
	return r
}

// DatabaseRetrier returns the Retrier used when a save hits a concurrent
// modification.
func DatabaseRetrier(opts ...Option) *Retrier {
	r := New(append([]Option{
		WithInitialDelay(50 * time.Millisecond),
		WithJitter(0.05),
	}, opts...)...)
	r.config.maxDelay = time.Second
	return r
}

// Do runs operation until it succeeds or must stop. A cancelled context
// stops the loop and returns the last operation error, or the context
// error when nothing ran.
func (r *Retrier) Do(ctx context.Context, operation func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.config.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}

		err := operation(ctx)
		if err == nil {
			return nil
		}
		lastErr = unmark(err)

		var permanent *permanentError
		if errors.As(err, &permanent) || !r.config.retryIf(err) || attempt == r.config.maxAttempts {
			return lastErr
		}

		delay := r.delay(attempt)
		if r.config.onRetry != nil {
			r.config.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}

// delay returns the wait after the given attempt: initialDelay doubled per
// attempt, capped, then spread by the jitter fraction.
func (r *Retrier) delay(attempt int) time.Duration {
	d := r.config.maxDelay
	if shift := attempt - 1; shift < 32 {
		if base := r.config.initialDelay << shift; base > 0 && base < d {
			d = base
		}
	}
	if r.config.jitter > 0 {
		d += time.Duration(float64(d) * r.config.jitter * (rand.Float64()*2 - 1))
	}
	if d < 0 {
		return 0
	}
	return d
}
