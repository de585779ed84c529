package config

// Supported database engines.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // mysql, postgres or sqlite
	Extras     string // appended to the dsn, e.g. parseTime=true or sslmode=disable
	Host       string
	Port       int // 0 uses the engine default
	User       string
	Password   string
	Name       string
	Path       string // sqlite database file
}
