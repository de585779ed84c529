// Package memory implements a process local cache backend on top of
// jellydator/ttlcache with per entry expiry.
package memory

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

// Driver is the registry name of the backend.
const Driver = "memory"

func init() { //nolint:gochecknoinits
	cache.Register(Driver, func(_ context.Context, opts cache.Options) (cache.Cache, error) {
		return New(opts.TTL, opts.Size), nil
	})
}

// Cache is an in-memory cache with per entry TTL.
type Cache struct {
	items *ttlcache.Cache[string, any]
}

var _ cache.Cache = (*Cache)(nil)

// New creates a cache whose entries live for ttl unless Set passes another
// lifetime. A size above zero bounds the number of entries.
// The expiry janitor runs until Close is called.
func New(ttl time.Duration, size int) *Cache {
	opts := []ttlcache.Option[string, any]{
		ttlcache.WithTTL[string, any](ttl),
		ttlcache.WithDisableTouchOnHit[string, any](),
	}

	if size > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, any](uint64(size)))
	}

	items := ttlcache.New(opts...)
	go items.Start()

	return &Cache{items: items}
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	item := c.items.Get(key)
	if item == nil {
		return nil, false
	}

	return item.Value(), true
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}

	c.items.Set(key, value, ttl)
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	c.items.Delete(key)
}

// Clear implements cache.Cache.
func (c *Cache) Clear(_ context.Context) {
	c.items.DeleteAll()
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.items.Len()
}

// Close stops the expiry janitor.
func (c *Cache) Close() error {
	c.items.Stop()
	return nil
}
