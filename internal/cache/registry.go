package cache

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Constructor returns a new cache.
type Constructor func(ctx context.Context, opts Options) (Cache, error)

// Options configure a cache backend. Backends ignore fields they do not use.
type Options struct {
	// TTL is the default entry lifetime.
	TTL time.Duration
	// Size bounds the number of entries of bounded backends.
	Size int
	// Prefix namespaces keys of shared backends.
	Prefix string
	// Codec encodes values for shared backends.
	Codec Codec
	// Redis holds the redis connection settings.
	Redis RedisOptions
	// Storage is the fiber storage used by the storage backend.
	Storage fiber.Storage
}

// RedisOptions configure the redis backend.
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// NoneDriver is the name of the disabled cache.
const NoneDriver = "none"

var (
	registry = map[string]Constructor{} //nolint:gochecknoglobals
	mtx      sync.RWMutex               //nolint:gochecknoglobals

	// ErrCacheNotFound is returned when no backend is registered under a name.
	ErrCacheNotFound = errors.New("cache driver not found")

	// ErrCodecRequired is returned by shared backends created without a codec.
	ErrCodecRequired = errors.New("cache driver requires a codec")
)

func init() { //nolint:gochecknoinits
	Register(NoneDriver, func(context.Context, Options) (Cache, error) {
		return Noop{}, nil
	})
}

// Register registers a cache backend under name.
func Register(name string, fn Constructor) {
	mtx.Lock()
	defer mtx.Unlock()

	registry[name] = fn
}

// New returns a new cache of the backend registered under name.
func New(ctx context.Context, name string, opts Options) (Cache, error) {
	mtx.RLock()
	fn, ok := registry[name]
	mtx.RUnlock()

	if !ok {
		return nil, ErrCacheNotFound
	}

	return fn(ctx, opts)
}

// Drivers returns the sorted names of all registered backends.
func Drivers() []string {
	mtx.RLock()
	defer mtx.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
