package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpticaApp/OpticaApp/internal/cache"
)

func TestCache(t *testing.T) {
	ctx := context.Background()

	c := New(time.Hour, 0)
	t.Cleanup(func() { _ = c.Close() })

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", "two", time.Minute)

	v, ok := c.Get(ctx, "a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete(ctx, "a")
	_, ok = c.Get(ctx, "a")
	assert.False(t, ok)

	c.Clear(ctx)
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestCache_Expiry(t *testing.T) {
	ctx := context.Background()

	c := New(time.Hour, 0)
	t.Cleanup(func() { _ = c.Close() })

	c.Set(ctx, "short", true, 20*time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "short")
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestCache_Capacity(t *testing.T) {
	ctx := context.Background()

	c := New(time.Hour, 2)
	t.Cleanup(func() { _ = c.Close() })

	c.Set(ctx, "a", 1, 0)
	c.Set(ctx, "b", 2, 0)
	c.Set(ctx, "c", 3, 0)

	assert.Equal(t, 2, c.Len())
}

func TestRegistered(t *testing.T) {
	c, err := cache.New(context.Background(), Driver, cache.Options{TTL: time.Minute})
	require.NoError(t, err)
	require.IsType(t, &Cache{}, c)
	t.Cleanup(func() { _ = c.(*Cache).Close() })
}
