package storage

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	mysqlstorage "github.com/gofiber/storage/mysql/v2"
	postgresstorage "github.com/gofiber/storage/postgres/v3"
)

// DefaultTable is the table used when none is configured.
const DefaultTable = "settings_cache"

var (
	// ErrStorageNil is returned when the backend is created without a storage.
	ErrStorageNil = errors.New("cache storage is nil")

	// ErrUnsupportedEngine is returned for database engines without a fiber storage driver.
	ErrUnsupportedEngine = errors.New("no cache storage driver for database engine")
)

// Open connects a fiber storage table for the given database engine.
func Open(engine, connectionURI, table string) (fiber.Storage, error) {
	if table == "" {
		table = DefaultTable
	}

	switch engine {
	case "mysql":
		return mysqlstorage.New(mysqlstorage.Config{
			ConnectionURI: connectionURI,
			Table:         table,
		}), nil
	case "postgres":
		return postgresstorage.New(postgresstorage.Config{
			ConnectionURI: connectionURI,
			Table:         table,
		}), nil
	default:
		return nil, ErrUnsupportedEngine
	}
}
