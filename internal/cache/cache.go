// Package cache implements a cache-aside layer over a pluggable backend.
//
// Every operation degrades gracefully: read failures behave as misses and
// write failures are reported but never propagated as hard errors, so the
// system works correctly (just slower and more expensive) when the backing
// store is down or unconfigured.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Backend is the capability interface a cache store must provide.
type Backend interface {
	// Get returns the raw value and whether the key was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores a value with an expiry. A zero ttl means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Del removes a key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
	// Exists reports whether a key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Incr atomically increments a counter key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Close releases backend resources.
	Close() error
}

// keySeparator joins the prefix and parameters of a cache key. Chosen to
// match redis keyspace conventions.
const keySeparator = ":"

// Key builds a deterministic cache key from a prefix and ordered
// parameters. The same logical request always yields the same key;
// reordering parameters yields a different key.
func Key(prefix string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, prefix)
	parts = append(parts, params...)
	return strings.Join(parts, keySeparator)
}

// Cache wraps a backend with JSON serialization and degrade-to-miss
// semantics. A nil backend behaves as a correct no-op cache.
type Cache struct {
	backend Backend
}

// New creates a cache over the given backend. Passing nil yields a cache
// that always misses and silently drops writes.
func New(backend Backend) *Cache {
	if backend == nil {
		backend = NullBackend{}
	}
	return &Cache{backend: backend}
}

// GetString returns the raw cached string, or "" and false on miss or on
// any backend error.
func (c *Cache) GetString(ctx context.Context, key string) (string, bool) {
	value, ok, err := c.backend.Get(ctx, key)
	if err != nil || !ok {
		return "", false
	}
	return value, true
}

// SetString stores a raw string. Returns false when the write did not
// take effect, which callers may log but must not treat as fatal.
func (c *Cache) SetString(ctx context.Context, key, value string, ttl time.Duration) bool {
	return c.backend.Set(ctx, key, value, ttl) == nil
}

// Del removes a key. Failures are swallowed.
func (c *Cache) Del(ctx context.Context, key string) {
	_ = c.backend.Del(ctx, key)
}

// Incr increments a counter key, returning 0 when the backend cannot
// serve it.
func (c *Cache) Incr(ctx context.Context, key string) int64 {
	n, err := c.backend.Incr(ctx, key)
	if err != nil {
		return 0
	}
	return n
}

// Close releases the backend.
func (c *Cache) Close() error {
	return c.backend.Close()
}

// GetJSON returns the cached value unmarshaled into T. A miss, a backend
// error, or a corrupt entry all report false.
func GetJSON[T any](ctx context.Context, c *Cache, key string) (T, bool) {
	var zero T
	raw, ok := c.GetString(ctx, key)
	if !ok {
		return zero, false
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		// Corrupt entry: drop it so the next write replaces it.
		c.Del(ctx, key)
		return zero, false
	}
	return value, true
}

// SetJSON marshals and stores a value. Returns false when the value could
// not be stored.
func SetJSON[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	return c.SetString(ctx, key, string(raw), ttl)
}

// GetOrSet returns the cached value for key, or invokes fetch exactly
// once, stores its result, and returns it. Concurrent callers with the
// same key may each fetch; the cached result is idempotent so the extra
// fetches are wasted cost, not incorrectness.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if value, ok := GetJSON[T](ctx, c, key); ok {
		return value, nil
	}
	value, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	SetJSON(ctx, c, key, value, ttl)
	return value, nil
}
