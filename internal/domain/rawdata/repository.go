package rawdata

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
	GetByKey(ctx context.Context, cacheKey string) (Payload, bool, error)
}
