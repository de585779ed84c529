package config

import (
	"time"

	"github.com/OpticaApp/OpticaApp/internal/logger"
)

// Cache drivers known to the configuration.
const (
	CacheNone    = "none"
	CacheMemory  = "memory"
	CacheLRU     = "lru"
	CacheRedis   = "redis"
	CacheStorage = "storage"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Cache     Cache
	Security  Security
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown in seconds
	URL            string // base url for the webserver
	AdminTokenHash string // argon2id hash of the admin api bearer token, empty disables the api
}

// Cache implements the settings cache settings.
type Cache struct {
	Driver       string        // none, memory, lru, redis or storage
	TTL          time.Duration // lifetime of resolved settings
	Size         int           // max entries of the lru driver
	Prefix       string        // key namespace of the redis driver
	Redis        Redis
	StorageTable string // table of the storage driver
}

// Redis connection settings.
type Redis struct {
	Addr     string
	Username string
	Password string
	DB       int
}

// Security settings.
type Security struct {
	// CredentialsKey seals integration credentials. Base64 encoded, 32 bytes.
	CredentialsKey string
}
