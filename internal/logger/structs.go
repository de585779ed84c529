package logger

// Console implements a console based logger.
type Console struct {
	Enabled          bool `mapstructure:"enabled" toml:"enabled"`
	UseConsoleWriter bool `mapstructure:"useConsoleWriter" toml:"useConsoleWriter"` // human readable output instead of json
}

// RollingFile configures one lumberjack rotated log file.
type RollingFile struct {
	Name       string `mapstructure:"name" toml:"name"`
	MaxSize    int    `mapstructure:"maxSize" toml:"maxSize"` // megabytes
	MaxBackups int    `mapstructure:"maxBackups" toml:"maxBackups"`
	MaxAge     int    `mapstructure:"maxAge" toml:"maxAge"` // days
}

// LogFile implements a file based logger split by level.
type LogFile struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled"`
	Path    string `mapstructure:"path" toml:"path"`

	Access RollingFile `mapstructure:"access" toml:"access"`
	Error  RollingFile `mapstructure:"error" toml:"error"`
	Info   RollingFile `mapstructure:"info" toml:"info"`
	Trace  RollingFile `mapstructure:"trace" toml:"trace"`
	Warn   RollingFile `mapstructure:"warn" toml:"warn"`
}

// Log implements the logger config.
type Log struct {
	LogLevel string // trace, debug, info, warn, error.
	LogEnv   string

	// EnableAccessLogToConsole writes the web access log to the console.
	// Does not overrule Console.Enabled.
	EnableAccessLogToConsole bool
	ReportCaller             bool
	DisableCheckAlive        bool // do not log /checkalive calls

	AppName     string
	ServiceName string

	// Console used mainly for docker and dev.
	Console Console

	// File logging with rotation.
	File LogFile `mapstructure:"file" toml:"file"`
}
