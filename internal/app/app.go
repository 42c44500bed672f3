// Package app assembles a running lorelink instance from configuration.
package app

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/koustreak/lorelink/internal/cache"
	"github.com/koustreak/lorelink/internal/catalog"
	"github.com/koustreak/lorelink/internal/config"
	"github.com/koustreak/lorelink/internal/database"
	"github.com/koustreak/lorelink/internal/database/mysql"
	"github.com/koustreak/lorelink/internal/database/postgres"
	"github.com/koustreak/lorelink/internal/enablement"
	"github.com/koustreak/lorelink/internal/errs"
	"github.com/koustreak/lorelink/internal/filestore"
	"github.com/koustreak/lorelink/internal/filestore/memstore"
	"github.com/koustreak/lorelink/internal/filestore/minio"
	"github.com/koustreak/lorelink/internal/filestore/s3"
	"github.com/koustreak/lorelink/internal/links"
	"github.com/koustreak/lorelink/internal/logger"
	"github.com/koustreak/lorelink/internal/metrics"
)

// App holds every wired component. Close releases the store and database.
type App struct {
	Config    *config.Config
	Log       *logger.Logger
	Store     filestore.Store
	Cache     *cache.LRU
	Metrics   *metrics.Collector
	Providers []*catalog.Provider
	Registry  *links.Registry
	Links     *links.Service

	db database.DB
}

// New connects the configured store and enablement database and builds one
// catalog provider per configured entry.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.New(&cfg.Log)
	}
	a := &App{Config: cfg, Log: log, Metrics: metrics.NewCollector()}

	store, err := openStore(ctx, &cfg.Store)
	if err != nil {
		return nil, err
	}
	a.Store = store

	if a.Cache, err = cache.NewLRU(cfg.Cache.MaxEntries); err != nil {
		a.Close()
		return nil, err
	}

	providers := make([]links.Provider, 0, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		p, err := catalog.New(store, a.Cache, pc.Options(),
			catalog.WithLogger(log),
			catalog.WithMetrics(a.Metrics),
		)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Providers = append(a.Providers, p)
		providers = append(providers, p)
	}
	if a.Registry, err = links.NewRegistry(providers...); err != nil {
		a.Close()
		return nil, err
	}

	source, err := a.openEnablement(ctx, &cfg.Enablement)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Links = links.NewService(a.Registry, source, a.Cache, log)

	log.InfoWith("lorelink ready", map[string]interface{}{
		"store":      string(cfg.Store.Driver),
		"providers":  len(a.Providers),
		"enablement": string(cfg.Enablement.Driver),
	})
	return a, nil
}

// Provider returns the catalog provider registered under key.
func (a *App) Provider(key string) (*catalog.Provider, error) {
	for _, p := range a.Providers {
		if strings.EqualFold(p.Key(), strings.TrimSpace(key)) {
			return p, nil
		}
	}
	return nil, errs.New(errs.ErrKindNotFound, "unknown provider "+key)
}

// Ping checks the store and, when wired, the enablement database.
func (a *App) Ping(ctx context.Context) error {
	if err := a.Store.Ping(ctx); err != nil {
		return err
	}
	if a.db != nil {
		return a.db.Ping(ctx)
	}
	return nil
}

func (a *App) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.WarnWith("store close failed", err, nil)
		}
	}
}

func openStore(ctx context.Context, cfg *filestore.Config) (filestore.Store, error) {
	switch cfg.Driver {
	case filestore.DriverMinIO:
		return minio.New(ctx, cfg)
	case filestore.DriverS3:
		return s3.New(ctx, cfg)
	case filestore.DriverMemory:
		store := memstore.New()
		if cfg.FixturesDir != "" {
			if err := store.LoadDir(cfg.FixturesDir); err != nil {
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, "unknown store driver "+string(cfg.Driver))
	}
}

func (a *App) openEnablement(ctx context.Context, cfg *config.EnablementConfig) (enablement.Source, error) {
	switch cfg.Driver {
	case config.EnablementNone, "":
		return nil, nil
	case config.EnablementStatic:
		return staticSource(cfg)
	case config.EnablementPostgres, config.EnablementMySQL:
		dbCfg := cfg.Database
		dbCfg.Driver = database.Driver(cfg.Driver)
		db, err := openDB(ctx, &dbCfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		repo := enablement.NewRepository(db, dbCfg.QueryTimeout, a.Log)
		if err := repo.Verify(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, errs.New(errs.ErrKindInvalidInput, "unknown enablement driver "+string(cfg.Driver))
	}
}

func openDB(ctx context.Context, cfg *database.Config) (database.DB, error) {
	if cfg.Driver == database.DriverMySQL {
		return mysql.New(ctx, cfg)
	}
	return postgres.New(ctx, cfg)
}

func staticSource(cfg *config.EnablementConfig) (*enablement.Static, error) {
	s := &enablement.Static{Worlds: make(map[uuid.UUID][]string, len(cfg.Worlds))}
	for _, p := range cfg.Providers {
		s.Providers = append(s.Providers, enablement.WorldProvider{
			Code:      p.Code,
			Name:      p.Name,
			LookupKey: p.LookupKey,
		})
	}
	for raw, codes := range cfg.Worlds {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid world id "+raw, err)
		}
		s.Worlds[id] = codes
	}
	return s, nil
}
