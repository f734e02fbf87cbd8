package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/bytebufferpool"

	"github.com/skf-site/simgrid-proxy/internal/domain/championship"
	"github.com/skf-site/simgrid-proxy/internal/domain/rawdata"
	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
	"github.com/skf-site/simgrid-proxy/internal/platform/cache"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
)

const championshipListCacheKey = "championships"

// SimGridProvider is the JSON API of The SimGrid. Every call returns the raw
// response as a payload for archiving.
type SimGridProvider interface {
	FetchChampionships(ctx context.Context) ([]championship.ListItem, rawdata.Payload, error)
	FetchChampionship(ctx context.Context, championshipID int64) (championship.Details, rawdata.Payload, error)
	FetchStandings(ctx context.Context, championshipID int64) (any, rawdata.Payload, error)
}

// StandingsPageFetcher downloads the public HTML standings page.
type StandingsPageFetcher interface {
	FetchStandingsPage(ctx context.Context, championshipID int64) (string, error)
}

type ChampionshipServiceConfig struct {
	CacheTTL time.Duration
}

type ChampionshipService struct {
	provider SimGridProvider
	pages    StandingsPageFetcher
	archive  rawdata.Repository
	logger   *logging.Logger

	standings *cache.Store[int64, standings.Snapshot]
	details   *cache.Store[int64, championship.Details]
	lists     *cache.Store[string, []championship.ListItem]
	now       func() time.Time
}

func NewChampionshipService(
	provider SimGridProvider,
	pages StandingsPageFetcher,
	archive rawdata.Repository,
	cfg ChampionshipServiceConfig,
	logger *logging.Logger,
) *ChampionshipService {
	if logger == nil {
		logger = logging.Default()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	return &ChampionshipService{
		provider:  provider,
		pages:     pages,
		archive:   archive,
		logger:    logger,
		standings: cache.NewStore[int64, standings.Snapshot](ttl),
		details:   cache.NewStore[int64, championship.Details](ttl),
		lists:     cache.NewStore[string, []championship.ListItem](ttl),
		now:       time.Now,
	}
}

func (s *ChampionshipService) ListChampionships(ctx context.Context, force bool) ([]championship.ListItem, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.ListChampionships")
	defer span.End()

	items, err := s.lists.GetOrLoad(ctx, championshipListCacheKey, force, func(ctx context.Context) ([]championship.ListItem, error) {
		items, payload, err := s.provider.FetchChampionships(ctx)
		if err != nil {
			return nil, upstreamError("fetch championships", err)
		}
		s.archivePayloads(ctx, payload)
		return items, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]championship.ListItem, len(items))
	copy(out, items)
	return out, nil
}

func (s *ChampionshipService) GetChampionship(ctx context.Context, championshipID int64, force bool) (championship.Details, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.GetChampionship", championshipAttr(championshipID))
	defer span.End()

	if err := validateChampionshipID(championshipID); err != nil {
		return championship.Details{}, err
	}

	return s.details.GetOrLoad(ctx, championshipID, force, func(ctx context.Context) (championship.Details, error) {
		item, payload, err := s.provider.FetchChampionship(ctx, championshipID)
		if err != nil {
			return championship.Details{}, upstreamError(fmt.Sprintf("fetch championship=%d", championshipID), err)
		}
		s.archivePayloads(ctx, payload)
		return item, nil
	})
}

// GetStandings returns the standings of a championship. A fresh cached
// snapshot is served as is; otherwise the API is fetched and, when it has no
// race positions, the public standings page is scraped and merged in. Only a
// failed API fetch is reported as an error.
func (s *ChampionshipService) GetStandings(ctx context.Context, championshipID int64, force bool) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.GetStandings", championshipAttr(championshipID))
	defer span.End()

	if err := validateChampionshipID(championshipID); err != nil {
		return standings.Snapshot{}, err
	}

	snapshot, err := s.standings.GetOrLoad(ctx, championshipID, force, func(ctx context.Context) (standings.Snapshot, error) {
		return s.loadStandings(ctx, championshipID)
	})
	if err != nil {
		return standings.Snapshot{}, err
	}
	return snapshot.Clone(), nil
}

func (s *ChampionshipService) InvalidateCache(ctx context.Context, championshipID int64) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.InvalidateCache", championshipAttr(championshipID))
	defer span.End()

	if err := validateChampionshipID(championshipID); err != nil {
		return err
	}

	s.standings.Invalidate(ctx, championshipID)
	s.details.Invalidate(ctx, championshipID)
	s.logger.InfoContext(ctx, "championship cache invalidated", "championship_id", championshipID)
	return nil
}

// StandingsFetchedAt reports when the cached standings were stored.
func (s *ChampionshipService) StandingsFetchedAt(ctx context.Context, championshipID int64) (time.Time, bool) {
	rec, ok := s.standings.Lookup(ctx, championshipID)
	if !ok {
		return time.Time{}, false
	}
	return rec.FetchedAt, true
}

func (s *ChampionshipService) loadStandings(ctx context.Context, championshipID int64) (standings.Snapshot, error) {
	raw, payload, err := s.provider.FetchStandings(ctx, championshipID)
	if err != nil {
		return standings.Snapshot{}, upstreamError(fmt.Sprintf("fetch standings championship=%d", championshipID), err)
	}
	s.archivePayloads(ctx, payload)

	snapshot := standings.ParsePayload(raw)
	if !standings.NeedsScrape(snapshot) {
		return snapshot, nil
	}
	return s.mergeScrapedPositions(ctx, championshipID, snapshot), nil
}

func (s *ChampionshipService) mergeScrapedPositions(ctx context.Context, championshipID int64, snapshot standings.Snapshot) standings.Snapshot {
	if s.pages == nil {
		return snapshot
	}

	ctx, span := startUsecaseSpan(ctx, "usecase.ChampionshipService.mergeScrapedPositions", championshipAttr(championshipID))
	defer span.End()

	document, err := s.pages.FetchStandingsPage(ctx, championshipID)
	if err != nil {
		s.logger.WarnContext(ctx, "standings page unavailable, serving api data",
			"championship_id", championshipID,
			"error", err,
		)
		return snapshot
	}

	scraped, ok := standings.ExtractHTML(document)
	if !ok {
		s.logger.WarnContext(ctx, "standings page has no results table, serving api data",
			"championship_id", championshipID,
			"document_bytes", len(document),
		)
		return snapshot
	}

	merged, report := standings.Reconcile(snapshot, scraped)
	s.logger.InfoContext(ctx, "standings page merged",
		"championship_id", championshipID,
		"rows", len(scraped.Rows),
		"race_columns", len(scraped.RaceColumns),
		"matched_by_name", report.ByName,
		"matched_by_position", report.ByPosition,
		"matched_by_order", report.ByOrder,
		"unmatched", report.Unmatched,
		"added_races", report.AddedRaces,
	)
	for _, item := range report.LowConfidence {
		s.logger.WarnContext(ctx, "standings row matched with low name similarity",
			"championship_id", championshipID,
			"entry_id", item.EntryID,
			"entry_name", item.EntryName,
			"row_name", item.RowName,
			"method", string(item.Method),
			"similarity", item.Similarity,
		)
	}
	return merged
}

// archivePayloads stores raw responses on a best-effort basis.
func (s *ChampionshipService) archivePayloads(ctx context.Context, items ...rawdata.Payload) {
	if s.archive == nil || len(items) == 0 {
		return
	}

	cleaned := make([]rawdata.Payload, 0, len(items))
	for _, item := range items {
		item.CacheKey = strings.TrimSpace(item.CacheKey)
		item.PayloadJSON = strings.TrimSpace(item.PayloadJSON)
		if item.CacheKey == "" || item.PayloadJSON == "" {
			continue
		}
		if item.Source == "" {
			item.Source = rawdata.SourceSimGrid
		}
		if item.FetchedAt.IsZero() {
			item.FetchedAt = s.now().UTC()
		}
		item.PayloadHash = payloadHash(item.Source, item.PayloadJSON)
		cleaned = append(cleaned, item)
	}
	if len(cleaned) == 0 {
		return
	}

	if err := s.archive.UpsertMany(ctx, cleaned); err != nil {
		s.logger.WarnContext(ctx, "archive simgrid payloads failed", "count", len(cleaned), "error", err)
	}
}

func payloadHash(source, payload string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(source)
	_ = buf.WriteByte('\n')
	_, _ = buf.WriteString(payload)

	sum := sha256.Sum256(buf.B)
	return hex.EncodeToString(sum[:])
}

func validateChampionshipID(championshipID int64) error {
	if championshipID <= 0 {
		return fmt.Errorf("%w: championship id must be positive, got %d", ErrInvalidInput, championshipID)
	}
	return nil
}

func upstreamError(op string, err error) error {
	if errors.Is(err, ErrUpstreamUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}
