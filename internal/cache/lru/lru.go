// Package lru implements a bounded process local cache backend using an
// expirable LRU policy.
package lru

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

// Driver is the registry name of the backend.
const Driver = "lru"

const (
	// DefaultSize is used when no positive size is configured.
	DefaultSize = 4096

	// DefaultTTL is used when no positive ttl is configured. The
	// expirable LRU never expires entries given a ttl of zero.
	DefaultTTL = time.Hour
)

func init() { //nolint:gochecknoinits
	cache.Register(Driver, func(_ context.Context, opts cache.Options) (cache.Cache, error) {
		return New(opts.Size, opts.TTL), nil
	})
}

// Cache is a memory cache with a LRU eviction policy.
// All entries share the lifetime given to New; the ttl passed to Set is ignored.
type Cache struct {
	cache *expirable.LRU[string, any]
	ttl   time.Duration
}

var _ cache.Cache = (*Cache)(nil)

// New returns a LRU cache holding at most size entries for ttl each.
func New(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultSize
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Cache{cache: expirable.NewLRU[string, any](size, nil, ttl), ttl: ttl}
}

// TTL returns the lifetime of every entry.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	return c.cache.Get(key)
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, value any, _ time.Duration) {
	c.cache.Add(key, value)
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.cache.Remove(key)
}

// Clear implements cache.Cache.
func (c *Cache) Clear(_ context.Context) {
	c.cache.Purge()
}

// Len returns the number of entries.
func (c *Cache) Len() int {
	return c.cache.Len()
}
