package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	c, err := New(ctx, NoneDriver, Options{})
	require.NoError(t, err)

	c.Set(ctx, "k", 1, time.Hour)
	_, ok := c.Get(ctx, "k")
	assert.False(t, ok, "none driver must not store entries")

	_, err = New(ctx, "memcached", Options{})
	require.ErrorIs(t, err, ErrCacheNotFound)
}

func TestRegister(t *testing.T) {
	Register("test-registry", func(context.Context, Options) (Cache, error) {
		return Noop{}, nil
	})

	assert.Contains(t, Drivers(), "test-registry")
	assert.Contains(t, Drivers(), NoneDriver)
}
