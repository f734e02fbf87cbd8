package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skf-site/simgrid-proxy/internal/platform/resilience"
)

const DefaultTTL = 60 * time.Second

// Record is one cached value together with the time it was stored. FetchedAt
// keeps the monotonic clock reading so freshness survives wall clock jumps.
type Record[V any] struct {
	Value     V
	FetchedAt time.Time
}

// Store keeps a single slot per key and treats it as fresh for ttl. There is
// no capacity bound; stale slots are replaced on the next load.
type Store[K comparable, V any] struct {
	mu      sync.RWMutex
	records map[K]Record[V]
	ttl     time.Duration
	flight  resilience.SingleFlight[K, V]
	now     func() time.Time
}

func NewStore[K comparable, V any](ttl time.Duration) *Store[K, V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store[K, V]{
		records: make(map[K]Record[V]),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *Store[K, V]) TTL() time.Duration {
	return s.ttl
}

// Get returns the value for key when it is still fresh.
func (s *Store[K, V]) Get(_ context.Context, key K) (V, bool) {
	s.mu.RLock()
	rec, ok := s.records[key]
	s.mu.RUnlock()

	if !ok || !s.fresh(rec) {
		var zero V
		return zero, false
	}
	return rec.Value, true
}

// Lookup returns the stored record regardless of freshness.
func (s *Store[K, V]) Lookup(_ context.Context, key K) (Record[V], bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[key]
	return rec, ok
}

func (s *Store[K, V]) Set(_ context.Context, key K, value V) {
	s.mu.Lock()
	s.records[key] = Record[V]{Value: value, FetchedAt: s.now()}
	s.mu.Unlock()
}

func (s *Store[K, V]) Invalidate(_ context.Context, key K) {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
}

// GetOrLoad serves a fresh value from the store or runs loader and stores its
// result. force skips the freshness check. Concurrent loads for the same key
// share one loader call; loader errors are returned and nothing is stored.
func (s *Store[K, V]) GetOrLoad(ctx context.Context, key K, force bool, loader func(context.Context) (V, error)) (V, error) {
	if loader == nil {
		var zero V
		return zero, fmt.Errorf("loader is required")
	}

	if !force {
		if value, ok := s.Get(ctx, key); ok {
			return value, nil
		}
	}

	value, err, _ := s.flight.Do(key, func() (V, error) {
		if !force {
			if cached, ok := s.Get(ctx, key); ok {
				return cached, nil
			}
		}

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return loaded, loadErr
		}
		s.Set(ctx, key, loaded)
		return loaded, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return value, nil
}

func (s *Store[K, V]) fresh(rec Record[V]) bool {
	return s.now().Sub(rec.FetchedAt) < s.ttl
}
