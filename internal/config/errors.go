package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownEngine error if config db.gormEngine is not supported.
	ErrUnknownEngine = errors.New("toml config db.gormEngine must be one of mysql, postgres, sqlite")

	// ErrUnknownCacheDriver error if config cache.driver is not supported.
	ErrUnknownCacheDriver = errors.New("toml config cache.driver is not supported")

	// ErrCacheTTL error if config cache.ttl is negative.
	ErrCacheTTL = errors.New("toml config cache.ttl must not be negative")

	// ErrStorageCacheEngine error if the storage cache is used with an engine it can not share.
	ErrStorageCacheEngine = errors.New("toml config cache.driver storage requires db.gormEngine mysql or postgres")

	// ErrInvalidCredentialsKey error if config security.credentialsKey is malformed.
	ErrInvalidCredentialsKey = errors.New("toml config security.credentialsKey is not a base64 encoded 32 byte key")
)
