// Package redis implements a shared cache backend on redis.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

const (
	// Driver is the registry name of the backend.
	Driver = "redis"

	// DefaultPrefix namespaces keys when no prefix is configured.
	DefaultPrefix = "opticaapp:"

	scanCount = 500
)

func init() { //nolint:gochecknoinits
	cache.Register(Driver, func(ctx context.Context, opts cache.Options) (cache.Cache, error) {
		client := redis.NewClient(&redis.Options{
			Addr:     opts.Redis.Addr,
			Username: opts.Redis.Username,
			Password: opts.Redis.Password,
			DB:       opts.Redis.DB,
		})

		return open(ctx, client, opts)
	})
}

// open wraps client and checks the server answers. The client is closed
// when the cache can not be used.
func open(ctx context.Context, client redis.UniversalClient, opts cache.Options) (*Cache, error) {
	c, err := New(client, opts.Prefix, opts.Codec)
	if err == nil {
		err = client.Ping(ctx).Err()
	}

	if err != nil {
		_ = client.Close()

		return nil, err
	}

	return c, nil
}

// Cache is a redis cache. Values pass through the codec; keys live below prefix.
type Cache struct {
	client redis.UniversalClient
	prefix string
	codec  cache.Codec
}

var _ cache.Cache = (*Cache)(nil)

// New returns a redis cache using client.
func New(client redis.UniversalClient, prefix string, codec cache.Codec) (*Cache, error) {
	if codec == nil {
		return nil, cache.ErrCodecRequired
	}

	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Cache{client: client, prefix: prefix, codec: codec}, nil
}

// Get implements cache.Cache.
func (r *Cache) Get(ctx context.Context, key string) (any, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("key", key).Msg("redis cache get failed")
		}

		return nil, false
	}

	value, err := r.codec.Unmarshal(data)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache entry can not be decoded")
		return nil, false
	}

	return value, true
}

// Set implements cache.Cache.
func (r *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := r.codec.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache entry can not be encoded")
		return
	}

	if err = r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache set failed")
	}
}

// Delete implements cache.Cache.
func (r *Cache) Delete(ctx context.Context, key string) {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("redis cache delete failed")
	}
}

// Clear removes every key below the prefix. Other data in the redis database is kept.
func (r *Cache) Clear(ctx context.Context) {
	var cursor uint64

	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanCount).Result()
		if err != nil {
			log.Warn().Err(err).Msg("redis cache scan failed")
			return
		}

		if len(keys) > 0 {
			if err = r.client.Del(ctx, keys...).Err(); err != nil {
				log.Warn().Err(err).Msg("redis cache clear failed")
				return
			}
		}

		if next == 0 {
			return
		}

		cursor = next
	}
}

// Close closes the redis client.
func (r *Cache) Close() error {
	return r.client.Close() //nolint:wrapcheck
}
