// Package db opens the configured gorm database and migrates its schema.
package db

import (
	stdlog "log"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/OpticaApp/OpticaApp/internal/config"
	"github.com/OpticaApp/OpticaApp/internal/db/dsn"
	"github.com/OpticaApp/OpticaApp/internal/db/models"
)

const slowThreshold = 200 * time.Millisecond

// Dialector returns the gorm dialector of the configured engine.
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	source := dsn.Create(cfg)

	switch cfg.DB.GormEngine {
	case config.EngineMySQL:
		return gormmysql.Open(source), nil
	case config.EnginePostgres:
		return gormpostgres.Open(source), nil
	case config.EngineSQLite:
		return sqlite.Open(source), nil
	default:
		return nil, config.ErrUnknownEngine
	}
}

// Open connects the configured database. Driver errors for unique
// violations are translated to gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Warn
	if cfg.DevMode {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(stdlog.New(log.Logger, "", 0), logger.Config{
			SlowThreshold:             slowThreshold,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.DB.GormEngine)
	}

	// sqlite allows a single writer
	if cfg.DB.GormEngine == config.EngineSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get sql db")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// Migrate creates or updates the tables of all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}

	return nil
}
