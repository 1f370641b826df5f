// Package retry provides a reusable retry policy for transient failures.
// The policy is pure configuration (predicate + delay schedule + attempt cap)
// so it can be unit-tested without any network code.
package retry

import (
	"context"
	"time"
)

// Policy describes when and how to retry an operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delays holds the wait before each retry. If there are more retries
	// than delays, the last delay is reused.
	Delays []time.Duration
	// Retryable reports whether an error is worth retrying. A nil
	// predicate retries nothing.
	Retryable func(error) bool
}

// DefaultPolicy returns the fixed escalating schedule used for upstream
// model calls: three attempts with 1s, 2s delays between them.
func DefaultPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		Retryable:   retryable,
	}
}

// delayFor returns the wait before retry number n (1-based).
func (p Policy) delayFor(n int) time.Duration {
	if len(p.Delays) == 0 {
		return 0
	}
	if n > len(p.Delays) {
		return p.Delays[len(p.Delays)-1]
	}
	return p.Delays[n-1]
}

// Do runs fn up to p.MaxAttempts times, sleeping per the delay schedule
// between attempts. It returns nil on the first success, the last error
// once attempts are exhausted, or immediately when the error is not
// retryable or the context is cancelled.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if p.Retryable == nil || !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == attempts {
			break
		}

		timer := time.NewTimer(p.delayFor(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return lastErr
}
