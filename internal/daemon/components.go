package daemon

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/OpticaApp/OpticaApp/internal/cache"
	_ "github.com/OpticaApp/OpticaApp/internal/cache/lru"    // register the lru driver
	_ "github.com/OpticaApp/OpticaApp/internal/cache/memory" // register the memory driver
	_ "github.com/OpticaApp/OpticaApp/internal/cache/redis"  // register the redis driver
	"github.com/OpticaApp/OpticaApp/internal/cache/storage"
	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/db"
	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/db/dsn"
	"github.com/OpticaApp/OpticaApp/internal/integration"
	"github.com/OpticaApp/OpticaApp/internal/secret"
	"github.com/OpticaApp/OpticaApp/internal/settings"
	"github.com/OpticaApp/OpticaApp/internal/web/handler"
)

// ErrNilConfig is returned when the components are opened without a config.
var ErrNilConfig = errors.New("config is nil")

// Components are the services shared by the daemon and the cli commands.
type Components struct {
	DB           *gorm.DB
	Cache        cache.Cache
	Settings     *setting.Repository
	Resolver     *settings.Resolver
	Integrations *integration.Service
}

// Open connects the database, migrates it and wires the settings cache,
// the resolver and the integration service.
func Open(ctx context.Context, cfg *config.Config) (*Components, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	var box *secret.Box

	if cfg.Security.CredentialsKey != "" {
		var err error
		if box, err = secret.New(cfg.Security.CredentialsKey); err != nil {
			return nil, errors.Wrap(err, "failed to load credentials key")
		}
	} else {
		log.Warn().Msg("no credentials key configured, integration credentials can't be stored")
	}

	c, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := db.Open(cfg)
	if err == nil {
		err = db.Migrate(gdb)
	}

	if err != nil {
		closeCache(c)

		return nil, err //nolint:wrapcheck
	}

	repo := setting.New(gdb, c)

	return &Components{
		DB:           gdb,
		Cache:        c,
		Settings:     repo,
		Resolver:     settings.New(repo, c, settings.WithTTL(cfg.Cache.TTL)),
		Integrations: integration.New(gdb, box),
	}, nil
}

// Deps returns the dependencies of the web handlers.
func (c *Components) Deps() handler.Deps {
	return handler.Deps{
		Resolver:     c.Resolver,
		Repository:   c.Settings,
		Integrations: c.Integrations,
	}
}

// Close releases the cache and the database connections. A failure to close
// the cache is logged, the database error is returned.
func (c *Components) Close() error {
	closeCache(c.Cache)

	sqlDB, err := c.DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get database handle")
	}

	return errors.Wrap(sqlDB.Close(), "failed to close database")
}

func closeCache(c cache.Cache) {
	closer, ok := c.(io.Closer)
	if !ok {
		return
	}

	if err := closer.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close settings cache")
	}
}

func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	opts := cache.Options{
		TTL:    cfg.Cache.TTL,
		Size:   cfg.Cache.Size,
		Prefix: cfg.Cache.Prefix,
		Codec:  settings.Codec{},
		Redis: cache.RedisOptions{
			Addr:     cfg.Cache.Redis.Addr,
			Username: cfg.Cache.Redis.Username,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		},
	}

	if cfg.Cache.Driver == storage.Driver {
		store, err := storage.Open(cfg.DB.GormEngine, dsn.Create(cfg), cfg.Cache.StorageTable)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open cache storage")
		}

		opts.Storage = store
	}

	c, err := newCache(ctx, cfg.Cache.Driver, opts)
	if err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Cache.Driver).Dur("ttl", cfg.Cache.TTL).Msg("settings cache ready")

	return c, nil
}

// newCache builds the driver. opts.Storage is closed when the driver fails.
func newCache(ctx context.Context, driver string, opts cache.Options) (cache.Cache, error) {
	c, err := cache.New(ctx, driver, opts)
	if err != nil {
		if opts.Storage != nil {
			if cerr := opts.Storage.Close(); cerr != nil {
				log.Warn().Err(cerr).Msg("failed to close cache storage")
			}
		}

		return nil, errors.Wrapf(err, "cache driver %q", driver)
	}

	return c, nil
}
