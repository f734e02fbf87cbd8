package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/skf-site/simgrid-proxy/external/simgrid"
	"github.com/skf-site/simgrid-proxy/internal/config"
	"github.com/skf-site/simgrid-proxy/internal/domain/rawdata"
	"github.com/skf-site/simgrid-proxy/internal/infrastructure/repository/memory"
	"github.com/skf-site/simgrid-proxy/internal/infrastructure/repository/postgres"
	"github.com/skf-site/simgrid-proxy/internal/interfaces/httpapi"
	"github.com/skf-site/simgrid-proxy/internal/platform/logging"
	"github.com/skf-site/simgrid-proxy/internal/platform/resilience"
	"github.com/skf-site/simgrid-proxy/internal/usecase"
)

// App holds the wired HTTP server and its background jobs.
type App struct {
	Server         *http.Server
	Warmup         *usecase.WarmupService
	WarmupInterval time.Duration

	closers []func() error
}

// Services are the usecases shared by the API and the CLI.
type Services struct {
	Championships *usecase.ChampionshipService
	Archive       rawdata.Repository

	closers []func() error
}

func (s *Services) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

func NewServices(cfg config.Config, logger *logging.Logger) (*Services, error) {
	if logger == nil {
		logger = logging.Default()
	}

	svc := &Services{}
	archive, closeArchive, err := newArchive(cfg, logger)
	if err != nil {
		return nil, err
	}
	if closeArchive != nil {
		svc.closers = append(svc.closers, closeArchive)
	}
	svc.Archive = archive

	client := simgrid.NewClient(simgrid.ClientConfig{
		BaseURL:   cfg.SimGridBaseURL,
		APIKey:    cfg.SimGridAPIKey,
		Timeout:   cfg.SimGridTimeout,
		ListLimit: cfg.SimGridListLimit,
		Logger:    logger.Named("simgrid"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SimGridCircuitEnabled,
			FailureThreshold: cfg.SimGridCircuitFailureCount,
			OpenTimeout:      cfg.SimGridCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SimGridCircuitHalfOpenMaxReq,
		},
	})
	pages := simgrid.NewPageFetcher(simgrid.PageFetcherConfig{
		BaseURL:    cfg.SimGridBaseURL,
		Timeout:    cfg.SimGridTimeout,
		RatePerSec: cfg.SimGridScrapeRate,
		Burst:      cfg.SimGridScrapeBurst,
		Logger:     logger.Named("simgrid_page"),
	})

	svc.Championships = usecase.NewChampionshipService(
		client,
		pages,
		archive,
		usecase.ChampionshipServiceConfig{CacheTTL: cfg.StandingsCacheTTL},
		logger,
	)
	return svc, nil
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	services, err := NewServices(cfg, logger)
	if err != nil {
		return nil, err
	}

	handler := httpapi.NewHandler(services.Championships, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		ServiceName:        cfg.ServiceName,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &App{
		Server: &http.Server{
			Addr:         cfg.HTTPAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		Warmup:         usecase.NewWarmupService(services.Championships, cfg.WarmupChampionshipIDs, cfg.WarmupWorkers, logger.Named("warmup")),
		WarmupInterval: cfg.WarmupInterval,
		closers:        []func() error{services.Close},
	}, nil
}

func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}

func newArchive(cfg config.Config, logger *logging.Logger) (rawdata.Repository, func() error, error) {
	if !cfg.ArchiveEnabled {
		logger.Info("payload archive in memory", "reason", "ARCHIVE_ENABLED=false")
		return memory.NewRawDataRepository(), nil, nil
	}

	db, err := OpenDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("payload archive in postgres", "db_name", dbNameFromURL(cfg.DBURL))
	return postgres.NewRawDataRepository(db), db.Close, nil
}

// OpenDB opens the archive database with query tracing.
func OpenDB(cfg config.Config) (*sqlx.DB, error) {
	dsn := NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)
	opts := []otelsql.Option{
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Open("postgres", dsn, opts...)
	if err != nil {
		return nil, fmt.Errorf("open archive db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}
