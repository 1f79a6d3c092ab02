package reliability

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Policy decides whether a failed attempt should be retried and after
// what delay.
type Policy interface {
	// ShouldRetry reports whether attempt (0-based) should be retried
	// after err, and the delay before the next attempt.
	ShouldRetry(attempt int, err error) (bool, time.Duration)
}

// ExponentialBackoff retries with exponentially growing delays, capped
// at MaxInterval, with optional jitter.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxAttempts     int
	Jitter          bool
}

// NewExponentialBackoff creates an exponential backoff policy with
// jitter enabled.
func NewExponentialBackoff(initial, max time.Duration, multiplier float64, maxAttempts int) *ExponentialBackoff {
	return &ExponentialBackoff{
		InitialInterval: initial,
		MaxInterval:     max,
		Multiplier:      multiplier,
		MaxAttempts:     maxAttempts,
		Jitter:          true,
	}
}

// ShouldRetry implements Policy.
func (e *ExponentialBackoff) ShouldRetry(attempt int, err error) (bool, time.Duration) {
	if attempt >= e.MaxAttempts || !isRetryable(err) {
		return false, 0
	}

	delay := float64(e.InitialInterval) * math.Pow(e.Multiplier, float64(attempt))
	if delay > float64(e.MaxInterval) {
		delay = float64(e.MaxInterval)
	}
	if e.Jitter {
		// ±15% around the computed delay.
		delay = delay + (rand.Float64()-0.5)*0.3*delay
	}
	return true, time.Duration(delay)
}

// FixedDelay retries with a constant delay.
type FixedDelay struct {
	Delay       time.Duration
	MaxAttempts int
}

// NewFixedDelay creates a fixed delay policy.
func NewFixedDelay(delay time.Duration, maxAttempts int) *FixedDelay {
	return &FixedDelay{Delay: delay, MaxAttempts: maxAttempts}
}

// ShouldRetry implements Policy.
func (f *FixedDelay) ShouldRetry(attempt int, err error) (bool, time.Duration) {
	if attempt >= f.MaxAttempts || !isRetryable(err) {
		return false, 0
	}
	return true, f.Delay
}

// Do executes fn, retrying per policy until it succeeds, the policy
// declines, or ctx is done.
func Do(ctx context.Context, policy Policy, fn func() error) error {
	for attempt := 0; ; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}

		retry, delay := policy.ShouldRetry(attempt, err)
		if !retry {
			return err
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// isRetryable honors an error's own classification when it provides one;
// unclassified errors default to retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	type retryable interface {
		IsRetryable() bool
	}
	if r, ok := err.(retryable); ok {
		return r.IsRetryable()
	}
	return true
}

// PermanentError marks an error as not retryable.
type PermanentError struct {
	Err error
}

// Error implements error.
func (p PermanentError) Error() string { return p.Err.Error() }

// IsRetryable implements the retryable classification.
func (p PermanentError) IsRetryable() bool { return false }

// Unwrap returns the wrapped error.
func (p PermanentError) Unwrap() error { return p.Err }
