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

func fastPolicy(retryable func(error) bool) Policy {
	return Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{time.Millisecond, 2 * time.Millisecond},
		Retryable:   retryable,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(func(error) bool { return true }), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(func(error) bool { return true }), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(func(error) bool { return true }), func(ctx context.Context) error {
		calls++
		return errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_NonRetryableStopsImmediately(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastPolicy(func(error) bool { return false }), func(ctx context.Context) error {
		calls++
		return errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_NilPredicateNeverRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 5}, func(ctx context.Context) error {
		calls++
		return errTransient
	})
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{
		MaxAttempts: 3,
		Delays:      []time.Duration{time.Hour},
		Retryable:   func(error) bool { return true },
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, p, func(ctx context.Context) error { return errTransient })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelayFor_ReusesLastDelay(t *testing.T) {
	p := Policy{Delays: []time.Duration{time.Second, 2 * time.Second}}
	assert.Equal(t, time.Second, p.delayFor(1))
	assert.Equal(t, 2*time.Second, p.delayFor(2))
	assert.Equal(t, 2*time.Second, p.delayFor(5))
}

func TestDelayFor_Empty(t *testing.T) {
	assert.Equal(t, time.Duration(0), Policy{}.delayFor(1))
}
