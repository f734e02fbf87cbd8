package memory

import (
	"context"
	"sync"
	"time"

	"github.com/skf-site/simgrid-proxy/internal/domain/rawdata"
)

// RawDataRepository keeps the latest archived payload per cache key.
type RawDataRepository struct {
	mu    sync.RWMutex
	items map[string]rawdata.Payload
	now   func() time.Time
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{
		items: make(map[string]rawdata.Payload),
		now:   time.Now,
	}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if item.CacheKey == "" {
			continue
		}
		if item.FetchedAt.IsZero() {
			item.FetchedAt = r.now().UTC()
		}
		r.items[item.CacheKey] = item
	}
	return nil
}

func (r *RawDataRepository) GetByKey(_ context.Context, cacheKey string) (rawdata.Payload, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[cacheKey]
	return item, ok, nil
}
