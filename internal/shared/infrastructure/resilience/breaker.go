// Package resilience guards store adapters with a circuit breaker so a
// failing database is reported quickly instead of being hammered.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("store unavailable")

// Config configures a breaker.
type Config struct {
	// Enabled turns the breaker on. A disabled breaker calls straight through.
	Enabled bool

	// FailureThreshold is the number of consecutive failures that opens it.
	FailureThreshold uint32

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32

	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration
}

// DefaultConfig returns the store breaker defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:          true,
		FailureThreshold: 5,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
	}
}

// Breaker wraps one gobreaker instance.
type Breaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[any]
}

// New creates a breaker named after the store it protects. Errors matching
// expected, such as not-found sentinels, do not count as failures.
func New(name string, cfg Config, logger *slog.Logger, expected ...error) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Enabled {
		return &Breaker{name: name}
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = DefaultConfig().FailureThreshold
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller cancellation says nothing about store health.
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return true
			}
			for _, e := range expected {
				if errors.Is(err, e) {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &Breaker{name: name, cb: gobreaker.NewCircuitBreaker[any](settings)}
}

// Name returns the protected store's name.
func (b *Breaker) Name() string { return b.name }

// State returns the breaker state, "disabled" when off.
func (b *Breaker) State() string {
	if b == nil || b.cb == nil {
		return "disabled"
	}
	return b.cb.State().String()
}

// Do runs fn through the breaker.
func Do[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil || b.cb == nil {
		return fn()
	}
	out, err := b.cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnavailable, b.name)
	}
	v, _ := out.(T)
	return v, err
}

// Run is Do for operations without a result.
func Run(b *Breaker, fn func() error) error {
	_, err := Do(b, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}
