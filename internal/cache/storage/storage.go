// Package storage implements a shared cache backend on a fiber storage
// table, so several instances can share a cache through the application
// database without running redis.
package storage

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

// Driver is the registry name of the backend.
const Driver = "storage"

func init() { //nolint:gochecknoinits
	cache.Register(Driver, func(_ context.Context, opts cache.Options) (cache.Cache, error) {
		return New(opts.Storage, opts.Codec)
	})
}

// Cache stores encoded values in a fiber.Storage.
type Cache struct {
	store fiber.Storage
	codec cache.Codec
}

var _ cache.Cache = (*Cache)(nil)

// New returns a cache writing to store.
func New(store fiber.Storage, codec cache.Codec) (*Cache, error) {
	if store == nil {
		return nil, ErrStorageNil
	}

	if codec == nil {
		return nil, cache.ErrCodecRequired
	}

	return &Cache{store: store, codec: codec}, nil
}

// Get implements cache.Cache.
func (c *Cache) Get(_ context.Context, key string) (any, bool) {
	data, err := c.store.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage cache get failed")
		return nil, false
	}

	if len(data) == 0 {
		return nil, false
	}

	value, err := c.codec.Unmarshal(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage cache entry can not be decoded")
		return nil, false
	}

	return value, true
}

// Set implements cache.Cache.
func (c *Cache) Set(_ context.Context, key string, value any, ttl time.Duration) {
	data, err := c.codec.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage cache entry can not be encoded")
		return
	}

	if err = c.store.Set(key, data, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage cache set failed")
	}
}

// Delete implements cache.Cache.
func (c *Cache) Delete(_ context.Context, key string) {
	if err := c.store.Delete(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("storage cache delete failed")
	}
}

// Clear implements cache.Cache. The storage table must be dedicated to the cache.
func (c *Cache) Clear(_ context.Context) {
	if err := c.store.Reset(); err != nil {
		log.Warn().Err(err).Msg("storage cache reset failed")
	}
}

// Close closes the underlying storage.
func (c *Cache) Close() error {
	return c.store.Close() //nolint:wrapcheck
}
