package cache

import (
	"context"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// MemoryBackend is an in-process backend for single-node deployments and
// tests. Values live in a ristretto cache; counters live in a plain map
// because counters must never be evicted under memory pressure.
type MemoryBackend struct {
	store *ristretto.Cache

	mu       sync.Mutex
	counters map[string]int64
}

// NewMemoryBackend creates an in-process backend bounded to roughly
// maxBytes of cached values.
func NewMemoryBackend(maxBytes int64) (*MemoryBackend, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 20
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 100_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryBackend{
		store:    store,
		counters: make(map[string]int64),
	}, nil
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok := m.store.Get(key)
	if !ok {
		return "", false, nil
	}
	s, ok := value.(string)
	if !ok {
		return "", false, nil
	}
	return s, true, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl > 0 {
		m.store.SetWithTTL(key, value, int64(len(value)), ttl)
	} else {
		m.store.Set(key, value, int64(len(value)))
	}
	// Ristretto admits writes asynchronously; wait so a Set followed by
	// a Get on the same key observes the write.
	m.store.Wait()
	return nil
}

func (m *MemoryBackend) Del(ctx context.Context, key string) error {
	m.store.Del(key)
	return nil
}

func (m *MemoryBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.store.Get(key)
	return ok, nil
}

func (m *MemoryBackend) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[key]++
	return m.counters[key], nil
}

func (m *MemoryBackend) Close() error {
	m.store.Close()
	return nil
}
