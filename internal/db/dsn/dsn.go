// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/OpticaApp/OpticaApp/internal/config"
)

const (
	defaultMySQLPort    = 3306
	defaultPostgresPort = 5432
)

// Create builds the Data Source Name of the configured engine.
// The result is accepted by the gorm driver and by the fiber storage driver
// of the same engine.
func Create(dbCfg *config.Config) string {
	switch dbCfg.DB.GormEngine {
	case config.EnginePostgres:
		return postgres(dbCfg.DB)
	case config.EngineSQLite:
		return sqlite(dbCfg.DB)
	default:
		return mysql(dbCfg.DB)
	}
}

func mysql(db config.DB) string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?%s",
		db.User,
		db.Password,
		hostPort(db.Host, db.Port, defaultMySQLPort),
		db.Name,
		db.Extras,
	)
}

func postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     hostPort(db.Host, db.Port, defaultPostgresPort),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	if db.User != "" {
		u.User = url.UserPassword(db.User, db.Password)
	}

	return u.String()
}

func sqlite(db config.DB) string {
	if db.Extras == "" {
		return db.Path
	}

	return db.Path + "?" + db.Extras
}

func hostPort(host string, port, defaultPort int) string {
	if port == 0 {
		port = defaultPort
	}

	return net.JoinHostPort(host, strconv.Itoa(port))
}
