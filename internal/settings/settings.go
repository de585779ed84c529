// Package settings resolves typed application settings for a tenant.
//
// A lookup tries the tenant's own setting first and then the global one.
// Resolved values are cached for TTL; writes go through the setting
// repository, which evicts the affected cache entries after commit.
package settings

import (
	"context"
	"time"

	"github.com/OpticaApp/OpticaApp/internal/cache"
	"github.com/OpticaApp/OpticaApp/internal/db/controller/setting"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
)

// DefaultTTL bounds how long a resolved value is served from cache.
const DefaultTTL = time.Hour

// Store is the persistence the resolver needs.
// It is implemented by *setting.Repository.
type Store interface {
	Find(ctx context.Context, key, tenant string) (*models.Setting, error)
	ListByModule(ctx context.Context, module, tenant string) ([]models.Setting, error)
	ListByTenant(ctx context.Context, tenant string) ([]models.Setting, error)
	Upsert(ctx context.Context, key, tenant string, apply func(s *models.Setting) error) (*models.Setting, error)
	Delete(ctx context.Context, key, tenant string) (int64, error)
}

var _ Store = (*setting.Repository)(nil)

// Resolver reads and writes settings.
type Resolver struct {
	store Store
	cache cache.Cache
	ttl   time.Duration
}

// Option configures a Resolver.
type Option func(r *Resolver)

// WithTTL overrides DefaultTTL. Values <= 0 are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(r *Resolver) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// New returns a resolver on top of store. c must be the cache the store
// evicts from; a nil cache disables caching.
func New(store Store, c cache.Cache, opts ...Option) *Resolver {
	if c == nil {
		c = cache.Noop{}
	}

	r := &Resolver{
		store: store,
		cache: c,
		ttl:   DefaultTTL,
	}

	for _, opt := range opts {
		opt(r)
	}

	initMetrics()

	return r
}

// TTL returns the lifetime of cached values.
func (r *Resolver) TTL() time.Duration {
	return r.ttl
}
