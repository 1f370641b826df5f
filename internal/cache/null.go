package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNoBackend marks operations on the null backend that cannot be
// served at all, such as counters.
var ErrNoBackend = errors.New("cache: no backing store configured")

// NullBackend is the no-op backend used when no store is configured:
// every read misses and every write silently succeeds-by-discarding.
type NullBackend struct{}

func (NullBackend) Get(ctx context.Context, key string) (string, bool, error) {
	return "", false, nil
}

func (NullBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}

func (NullBackend) Del(ctx context.Context, key string) error {
	return nil
}

func (NullBackend) Exists(ctx context.Context, key string) (bool, error) {
	return false, nil
}

func (NullBackend) Incr(ctx context.Context, key string) (int64, error) {
	return 0, ErrNoBackend
}

func (NullBackend) Close() error {
	return nil
}
