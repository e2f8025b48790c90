// Package circuitbreaker stops calling the payment provider while it keeps
// failing, then lets a single trial call through to test recovery.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State represents the current state of the circuit breaker.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota
	// StateOpen rejects requests until the timeout has elapsed.
	StateOpen
	// StateHalfOpen lets one trial call through at a time.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	// ErrCircuitOpen is returned while the circuit is open.
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrTooManyRequests is returned while a half-open trial call is in flight.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

type config struct {
	failureThreshold int
	successThreshold int
	timeout          time.Duration
	onStateChange    func(name string, from, to State)

	// isFailure decides which errors count against the circuit. Errors it
	// rejects are recorded as successes.
	isFailure func(error) bool
}

// Option configures a CircuitBreaker.
type Option func(*config)

// WithFailureThreshold sets the consecutive failures that open the circuit.
func WithFailureThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.failureThreshold = n
		}
	}
}

// WithSuccessThreshold sets the consecutive trial successes that close it.
func WithSuccessThreshold(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.successThreshold = n
		}
	}
}

// WithTimeout sets how long the circuit stays open before allowing a trial call.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithOnStateChange sets the state change callback. It runs under the
// breaker lock and must not call back into the breaker.
func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(c *config) {
		c.onStateChange = fn
	}
}

// WithIsFailure sets the failure classifier.
func WithIsFailure(fn func(error) bool) Option {
	return func(c *config) {
		c.isFailure = fn
	}
}

// CircuitBreaker guards calls to one remote dependency.
type CircuitBreaker struct {
	name   string
	config config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	probing   bool
}

// New creates a closed CircuitBreaker. Defaults: 5 failures to open,
// 2 trial successes to close, 30s open timeout.
func New(name string, opts ...Option) *CircuitBreaker {
	cfg := config{
		failureThreshold: 5,
		successThreshold: 2,
		timeout:          30 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &CircuitBreaker{name: name, config: cfg}
}

// PaiementBreaker returns the breaker guarding the payment provider.
func PaiementBreaker(onStateChange func(name string, from, to State), opts ...Option) *CircuitBreaker {
	return New("paiement", append([]Option{
		WithFailureThreshold(3),
		WithSuccessThreshold(2),
		WithTimeout(time.Minute),
		WithOnStateChange(onStateChange),
	}, opts...)...)
}

// Execute runs fn if the circuit allows it and records the outcome.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.allow(time.Now()); err != nil {
		return err
	}
	err := fn(ctx)
	cb.record(err, time.Now())
	return err
}

func (cb *CircuitBreaker) allow(now time.Time) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if now.Sub(cb.openedAt) < cb.config.timeout {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
		cb.probing = true
		return nil
	case StateHalfOpen:
		if cb.probing {
			return ErrTooManyRequests
		}
		cb.probing = true
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) record(err error, now time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.probing = false
	}

	failed := err != nil
	if failed && cb.config.isFailure != nil {
		failed = cb.config.isFailure(err)
	}

	if !failed {
		cb.failures = 0
		cb.successes++
		if cb.state == StateHalfOpen && cb.successes >= cb.config.successThreshold {
			cb.setState(StateClosed)
		}
		return
	}

	cb.successes = 0
	cb.failures++
	if cb.state == StateHalfOpen || cb.failures >= cb.config.failureThreshold {
		cb.openedAt = now
		cb.setState(StateOpen)
	}
}

// setState resets the counters on every transition.
func (cb *CircuitBreaker) setState(to State) {
	if cb.state == to {
		return
	}
	from := cb.state
	cb.state = to
	cb.failures = 0
	cb.successes = 0
	cb.probing = false

	if cb.config.onStateChange != nil {
		cb.config.onStateChange(cb.name, from, to)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen reports whether requests are currently rejected outright.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}
