package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/skf-site/simgrid-proxy/internal/domain/rawdata"
)

const upsertRawPayloadQuery = `INSERT INTO simgrid_cache (cache_key, source, data, payload_hash, fetched_at)
VALUES (:cache_key, :source, CAST(:data AS JSONB), :payload_hash, :fetched_at)
ON CONFLICT (cache_key)
DO UPDATE SET
    source = EXCLUDED.source,
    data = EXCLUDED.data,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at`

const selectRawPayloadQuery = `SELECT cache_key, source, data::text AS data, payload_hash, fetched_at
FROM simgrid_cache
WHERE cache_key = $1`

// RawDataRepository archives upstream payloads in the simgrid_cache table.
type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		if item.CacheKey == "" {
			continue
		}
		model := toRawPayloadModel(item)
		if _, err := tx.NamedExecContext(ctx, upsertRawPayloadQuery, model); err != nil {
			return fmt.Errorf("upsert raw payload key=%s: %w", item.CacheKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}
	return nil
}

func (r *RawDataRepository) GetByKey(ctx context.Context, cacheKey string) (rawdata.Payload, bool, error) {
	var model rawPayloadModel
	if err := r.db.GetContext(ctx, &model, selectRawPayloadQuery, cacheKey); err != nil {
		if isNotFound(err) {
			return rawdata.Payload{}, false, nil
		}
		return rawdata.Payload{}, false, fmt.Errorf("get raw payload key=%s: %w", cacheKey, err)
	}
	return model.toDomain(), true, nil
}

type rawPayloadModel struct {
	CacheKey    string    `db:"cache_key"`
	Source      string    `db:"source"`
	Data        string    `db:"data"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

func toRawPayloadModel(item rawdata.Payload) rawPayloadModel {
	fetchedAt := item.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	source := item.Source
	if source == "" {
		source = rawdata.SourceSimGrid
	}
	data := item.PayloadJSON
	if data == "" {
		data = "null"
	}
	return rawPayloadModel{
		CacheKey:    item.CacheKey,
		Source:      source,
		Data:        data,
		PayloadHash: item.PayloadHash,
		FetchedAt:   fetchedAt,
	}
}

func (m rawPayloadModel) toDomain() rawdata.Payload {
	return rawdata.Payload{
		CacheKey:    m.CacheKey,
		Source:      m.Source,
		PayloadJSON: m.Data,
		PayloadHash: m.PayloadHash,
		FetchedAt:   m.FetchedAt,
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
