package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/skf-site/simgrid-proxy/internal/domain/standings"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
)

const defaultWarmupWorkers = 4

type standingsRefresher interface {
	GetStandings(ctx context.Context, championshipID int64, force bool) (standings.Snapshot, error)
}

type WarmupTaskResult struct {
	ChampionshipID int64
	Entries        int
	Races          int
	DurationMs     int64
	Error          string
}

type WarmupResult struct {
	RefreshedCount int
	FailedCount    int
	Tasks          []WarmupTaskResult
}

// WarmupService keeps the standings of selected championships hot by
// refreshing them with force on a fixed interval.
type WarmupService struct {
	refresher       standingsRefresher
	championshipIDs []int64
	workers         int
	logger          *logging.Logger
}

func NewWarmupService(refresher standingsRefresher, championshipIDs []int64, workers int, logger *logging.Logger) *WarmupService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultWarmupWorkers
	}

	ids := make([]int64, 0, len(championshipIDs))
	seen := make(map[int64]struct{}, len(championshipIDs))
	for _, id := range championshipIDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return &WarmupService{
		refresher:       refresher,
		championshipIDs: ids,
		workers:         workers,
		logger:          logger,
	}
}

func (s *WarmupService) Enabled() bool {
	return len(s.championshipIDs) > 0
}

// RunOnce refreshes every configured championship through a worker pool.
func (s *WarmupService) RunOnce(ctx context.Context) (WarmupResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WarmupService.RunOnce")
	defer span.End()

	var result WarmupResult
	if len(s.championshipIDs) == 0 {
		return result, nil
	}

	workerCount := s.workers
	if workerCount > len(s.championshipIDs) {
		workerCount = len(s.championshipIDs)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return WarmupResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan WarmupTaskResult, len(s.championshipIDs))
	var refreshed atomic.Int32
	var failed atomic.Int32

	var workers sync.WaitGroup
	for _, championshipID := range s.championshipIDs {
		championshipID := championshipID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := WarmupTaskResult{ChampionshipID: championshipID}
			snapshot, err := s.refresher.GetStandings(ctx, championshipID, true)
			if err != nil {
				row.Error = err.Error()
				failed.Add(1)
				s.logger.WarnContext(ctx, "standings warmup failed", "championship_id", championshipID, "error", err)
			} else {
				row.Entries = len(snapshot.Entries)
				row.Races = len(snapshot.Races)
				refreshed.Add(1)
			}
			row.DurationMs = time.Since(start).Milliseconds()
			results <- row
		}); err != nil {
			workers.Done()
			return WarmupResult{}, fmt.Errorf("submit warmup task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].ChampionshipID < result.Tasks[j].ChampionshipID
	})
	result.RefreshedCount = int(refreshed.Load())
	result.FailedCount = int(failed.Load())

	s.logger.InfoContext(ctx, "standings warmup finished",
		"refreshed", result.RefreshedCount,
		"failed", result.FailedCount,
	)
	return result, nil
}

// Run calls RunOnce immediately and then on every tick until ctx is done.
func (s *WarmupService) Run(ctx context.Context, interval time.Duration) {
	if !s.Enabled() || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.ErrorContext(ctx, "standings warmup aborted", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
