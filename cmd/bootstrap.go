package cmd

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"example.com/millops/config"
	"example.com/millops/internal/metrics"
	"example.com/millops/internal/notify"
	"example.com/millops/internal/repository"
	"example.com/millops/internal/search"
	"example.com/millops/internal/service"
	"example.com/millops/internal/store"
	"example.com/millops/internal/tracing"
)

// application bundles everything a command needs after bootstrap
type application struct {
	cfg     config.Config
	origin  string
	bus     notify.Bus
	store   store.Store
	repo    *repository.Document
	service *service.Service
	metrics *metrics.Metrics
	tracer  tracing.Tracer
}

// bootstrap builds the store stack, change bus and service from
// configuration. Every process gets a unique origin so it can ignore
// its own change events on the bus.
func bootstrap(cfg config.Config) (*application, error) {
	origin := uuid.New().String()

	// Change bus: Redis fans events out across instances; without it
	// events stay in-process
	var bus notify.Bus
	if cfg.Redis.Enabled {
		redisBus, err := notify.NewRedisBus(cfg.Redis, origin)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to Redis")
		}
		bus = redisBus
	} else {
		bus = notify.NewLocalBus()
	}

	backend, err := buildBackend(cfg)
	if err != nil {
		return nil, err
	}

	// Quota recovery sits inside the notifier so a save that only
	// succeeded after cleanup still publishes exactly one event
	blobStore := store.NewNotifyingStore(store.NewQuotaStore(backend, cfg.Store.BackupDir), bus, origin)

	metricsCollector := metrics.NewMetrics()

	repo := repository.NewDocument(blobStore)
	repo.Instrument(metricsCollector)

	// Tracing and search are best-effort: a failed initialization falls
	// back to the disabled no-op instance, never to nil
	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize tracer, continuing without tracing")
		tracer = tracing.NewDisabledTracer()
	}

	elasticClient, err := search.NewElasticClient(cfg.Elastic)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Elasticsearch client, continuing without search functionality")
		elasticClient = search.NewDisabledClient()
	}

	svc := service.NewService(repo, metricsCollector, elasticClient, tracer)

	return &application{
		cfg:     cfg,
		origin:  origin,
		bus:     bus,
		store:   blobStore,
		repo:    repo,
		service: svc,
		metrics: metricsCollector,
		tracer:  tracer,
	}, nil
}

// buildBackend creates the configured blob store backend
func buildBackend(cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return store.NewMemoryStore(), nil
	case "file":
		fileStore, err := store.NewFileStore(cfg.Store.Dir)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize file store")
		}
		return fileStore, nil
	case "database":
		db, err := gorm.Open(postgres.Open(cfg.DB.DSN), &gorm.Config{})
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to database")
		}

		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get underlying DB connection")
		}
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

		return store.NewDatabaseStore(db)
	default:
		return nil, errors.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// close releases bootstrap resources
func (a *application) close() {
	if err := a.store.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}
	if a.tracer != nil {
		a.tracer.Close()
	}
}

// debounce returns the configured change debounce window
func (a *application) debounce() time.Duration {
	if a.cfg.Worker.Debounce > 0 {
		return a.cfg.Worker.Debounce
	}
	return notify.DefaultDebounce
}
