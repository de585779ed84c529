package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

// memStorage is a fiber.Storage kept in a map.
type memStorage struct {
	mu     sync.Mutex
	data   map[string][]byte
	ttl    map[string]time.Duration
	failed bool
}

func newMemStorage() *memStorage {
	return &memStorage{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *memStorage) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failed {
		return nil, errors.New("connection refused") //nolint:goerr113
	}

	return m.data[key], nil
}

func (m *memStorage) Set(key string, val []byte, exp time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = val
	m.ttl[key] = exp

	return nil
}

func (m *memStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)

	return nil
}

func (m *memStorage) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = map[string][]byte{}

	return nil
}

func (m *memStorage) Close() error { return nil }

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte) (any, error) {
	var v any
	err := json.Unmarshal(data, &v)

	return v, err
}

func TestNew(t *testing.T) {
	_, err := New(nil, jsonCodec{})
	require.ErrorIs(t, err, ErrStorageNil)

	_, err = New(newMemStorage(), nil)
	require.ErrorIs(t, err, cache.ErrCodecRequired)
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	store := newMemStorage()

	c, err := New(store, jsonCodec{})
	require.NoError(t, err)

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "k", "v", time.Minute)
	assert.Equal(t, time.Minute, store.ttl["k"])

	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", v)

	c.Delete(ctx, "k")
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)

	c.Set(ctx, "a", 1, 0)
	c.Clear(ctx)
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestCache_FailureIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemStorage()

	c, err := New(store, jsonCodec{})
	require.NoError(t, err)

	c.Set(ctx, "k", "v", 0)
	store.failed = true

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCache_CorruptEntryIsAMiss(t *testing.T) {
	ctx := context.Background()
	store := newMemStorage()
	require.NoError(t, store.Set("k", []byte("{"), 0))

	c, err := New(store, jsonCodec{})
	require.NoError(t, err)

	_, ok := c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestOpen_UnsupportedEngine(t *testing.T) {
	_, err := Open("sqlite", "file::memory:", "")
	require.ErrorIs(t, err, ErrUnsupportedEngine)
}

func TestRegistered(t *testing.T) {
	c, err := cache.New(context.Background(), Driver, cache.Options{Storage: newMemStorage(), Codec: jsonCodec{}})
	require.NoError(t, err)
	assert.IsType(t, &Cache{}, c)
}
