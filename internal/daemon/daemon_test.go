package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/cache"
	"github.com/OpticaApp/OpticaApp/internal/cache/storage"
	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/secret"
	"github.com/OpticaApp/OpticaApp/internal/settings"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Title: "test",
		DB:    config.DB{GormEngine: config.EngineSQLite, Path: ":memory:"},
		Webserver: config.Webserver{
			Port: 8080,
			URL:  "http://localhost:8080",
		},
		Cache: config.Cache{Driver: driver, TTL: time.Hour, Size: 100},
	}
}

func TestOpen(t *testing.T) {
	testCases := []struct {
		name          string
		driver        string
		expectedError error
	}{
		{name: "none", driver: config.CacheNone},
		{name: "memory", driver: config.CacheMemory},
		{name: "lru", driver: config.CacheLRU},
		{name: "unknown driver", driver: "memcached", expectedError: cache.ErrCacheNotFound},
		{name: "storage on sqlite", driver: config.CacheStorage, expectedError: storage.ErrUnsupportedEngine},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Open(context.Background(), testConfig(tc.driver))
			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			t.Cleanup(func() { _ = c.Close() })

			ctx := context.Background()

			_, err = c.Resolver.Set(ctx, settings.SetParams{Key: "store.name", Value: "Centro", Tenant: "tenant-a"})
			require.NoError(t, err)

			got, err := c.Resolver.String(ctx, "store.name", "tenant-a", "")
			require.NoError(t, err)
			assert.Equal(t, "Centro", got)

			deps := c.Deps()
			assert.Same(t, c.Resolver, deps.Resolver)
			assert.Same(t, c.Settings, deps.Repository)
			assert.Same(t, c.Integrations, deps.Integrations)
		})
	}
}

// closeRecorder is a fiber.Storage that only records Close.
type closeRecorder struct {
	closed bool
}

func (*closeRecorder) Get(string) ([]byte, error) { return nil, nil }

func (*closeRecorder) Set(string, []byte, time.Duration) error { return nil }

func (*closeRecorder) Delete(string) error { return nil }

func (*closeRecorder) Reset() error { return nil }

func (s *closeRecorder) Close() error {
	s.closed = true

	return nil
}

func TestNewCache_ClosesStorageOnFailure(t *testing.T) {
	ctx := context.Background()

	store := &closeRecorder{}
	_, err := newCache(ctx, storage.Driver, cache.Options{Storage: store})
	require.ErrorIs(t, err, cache.ErrCodecRequired)
	assert.True(t, store.closed)

	store = &closeRecorder{}
	_, err = newCache(ctx, "memcached", cache.Options{Storage: store, Codec: settings.Codec{}})
	require.ErrorIs(t, err, cache.ErrCacheNotFound)
	assert.True(t, store.closed)

	store = &closeRecorder{}
	c, err := newCache(ctx, storage.Driver, cache.Options{Storage: store, Codec: settings.Codec{}})
	require.NoError(t, err)
	assert.IsType(t, &storage.Cache{}, c)
	assert.False(t, store.closed)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	cfg := testConfig(config.CacheRedis)
	cfg.Cache.Redis.Addr = "127.0.0.1:1"

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
}

func TestOpen_NilConfig(t *testing.T) {
	_, err := Open(context.Background(), nil)
	require.ErrorIs(t, err, ErrNilConfig)
}

func TestOpen_CredentialsKey(t *testing.T) {
	cfg := testConfig(config.CacheMemory)
	cfg.Security.CredentialsKey = "not a key"

	_, err := Open(context.Background(), cfg)
	require.ErrorIs(t, err, secret.ErrInvalidKey)

	cfg.Security.CredentialsKey, err = secret.GenerateKey()
	require.NoError(t, err)

	c, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.NoError(t, c.Close())
}

func TestNew_SeedsDefaults(t *testing.T) {
	d, err := New(context.Background(), testConfig(config.CacheMemory))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	got, err := d.Resolver.String(context.Background(), "email.from_name", "tenant-a", "")
	require.NoError(t, err)
	assert.Equal(t, "OpticaApp", got)

	minutes, err := d.Resolver.Int(context.Background(), "appointments.duration_default", "", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(30), minutes)
	assert.True(t, d.webService.Alive())
}
