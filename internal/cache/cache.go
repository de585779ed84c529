// Package cache defines the cache port used by the settings resolver and a
// registry of backends. Backends live in sub packages and register
// themselves on import.
package cache

import (
	"context"
	"time"
)

// Cache is a key value cache.
//
// Get reports a miss with ok=false; implementations never return errors to
// the caller because a failing cache must degrade to storage lookups, not
// break resolution.
type Cache interface {
	Get(ctx context.Context, key string) (value any, ok bool)
	Set(ctx context.Context, key string, value any, ttl time.Duration)
	Delete(ctx context.Context, key string)
	Clear(ctx context.Context)
}

// Codec converts cached values to bytes for backends that leave the process.
type Codec interface {
	Marshal(value any) ([]byte, error)
	Unmarshal(data []byte) (any, error)
}

// Noop is a Cache that never stores anything.
type Noop struct{}

var _ Cache = Noop{}

// Get implements Cache.
func (Noop) Get(context.Context, string) (any, bool) { return nil, false }

// Set implements Cache.
func (Noop) Set(context.Context, string, any, time.Duration) {}

// Delete implements Cache.
func (Noop) Delete(context.Context, string) {}

// Clear implements Cache.
func (Noop) Clear(context.Context) {}
