// Package config handles input from etc/main.toml, the environment and
// an optional JSON override document.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/OpticaApp/OpticaApp/internal/secret"
)

const (
	// EnvPrefix prefixes every environment override, e.g. OPTICAAPP_WEBSERVER_PORT.
	EnvPrefix = "OPTICAAPP"

	// JSONEnv holds a JSON document merged over main.toml.
	JSONEnv = EnvPrefix + "_CONFIG_JSON"

	// DefaultPath is the directory searched for main.toml.
	DefaultPath = "./etc/"

	defaultShutDownTime = 5
	defaultCacheTTL     = time.Hour
)

// ReadConfig reads main.toml from path, applies environment overrides and
// the JSON override and validates the result. A missing main.toml is not an
// error, defaults and the environment are used instead.
func ReadConfig(path string) (Config, error) {
	var c Config

	if path == "" {
		path = DefaultPath
	}

	v := viper.New()
	setupViper(v, path)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, errors.Wrap(err, "failed to read main config file")
		}
	}

	// override it from env
	if configAsJSON := os.Getenv(JSONEnv); configAsJSON != "" {
		if err := mergeJSONConfig(v, configAsJSON); err != nil {
			return Config{}, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	return c, validate(&c)
}

func setupViper(v *viper.Viper, path string) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.AddConfigPath(filepath.Clean(path))
	v.SetConfigName("main")
	v.SetConfigType("toml")

	setDefaults(v)
}

// setDefaults registers every key, AutomaticEnv only resolves known keys.
func setDefaults(v *viper.Viper) {
	v.SetDefault("DevMode", false)
	v.SetDefault("Title", "OpticaApp settings")

	v.SetDefault("DB.GormEngine", EngineSQLite)
	v.SetDefault("DB.Extras", "")
	v.SetDefault("DB.Host", "localhost")
	v.SetDefault("DB.Port", 0)
	v.SetDefault("DB.User", "")
	v.SetDefault("DB.Password", "")
	v.SetDefault("DB.Name", "opticaapp")
	v.SetDefault("DB.Path", "./opticaapp.db")

	v.SetDefault("Log.LogLevel", "info")
	v.SetDefault("Log.LogEnv", "")
	v.SetDefault("Log.EnableAccessLogToConsole", false)
	v.SetDefault("Log.ReportCaller", false)
	v.SetDefault("Log.DisableCheckAlive", true)
	v.SetDefault("Log.AppName", "opticaapp")
	v.SetDefault("Log.ServiceName", "settings")
	v.SetDefault("Log.Console.Enabled", true)
	v.SetDefault("Log.Console.UseConsoleWriter", false)
	v.SetDefault("Log.File.Enabled", false)
	v.SetDefault("Log.File.Path", "./log")

	for level, name := range map[string]string{
		"Access": "access.log",
		"Error":  "error.log",
		"Info":   "info.log",
		"Trace":  "trace.log",
		"Warn":   "warn.log",
	} {
		v.SetDefault("Log.File."+level+".Name", name)
		v.SetDefault("Log.File."+level+".MaxSize", 100)  //nolint:mnd
		v.SetDefault("Log.File."+level+".MaxBackups", 3) //nolint:mnd
		v.SetDefault("Log.File."+level+".MaxAge", 28)    //nolint:mnd
	}

	v.SetDefault("Webserver.DisableRecover", false)
	v.SetDefault("Webserver.Port", 8080) //nolint:mnd
	v.SetDefault("Webserver.ShutDownTime", defaultShutDownTime)
	v.SetDefault("Webserver.URL", "http://localhost:8080")
	v.SetDefault("Webserver.AdminTokenHash", "")

	v.SetDefault("Cache.Driver", CacheMemory)
	v.SetDefault("Cache.TTL", defaultCacheTTL)
	v.SetDefault("Cache.Size", 10000) //nolint:mnd
	v.SetDefault("Cache.Prefix", "opticaapp:")
	v.SetDefault("Cache.Redis.Addr", "localhost:6379")
	v.SetDefault("Cache.Redis.Username", "")
	v.SetDefault("Cache.Redis.Password", "")
	v.SetDefault("Cache.Redis.DB", 0)
	v.SetDefault("Cache.StorageTable", "settings_cache")

	v.SetDefault("Security.CredentialsKey", "")
}

func mergeJSONConfig(v *viper.Viper, configAsJSON string) error {
	j := viper.New()
	j.SetConfigType("json")

	if err := j.ReadConfig(strings.NewReader(configAsJSON)); err != nil {
		return errors.Wrap(err, "failed to read "+JSONEnv)
	}

	if err := v.MergeConfigMap(j.AllSettings()); err != nil {
		return errors.Wrap(err, "failed to merge "+JSONEnv)
	}

	return nil
}

// DumpConfig config as TOML String.
func DumpConfig(c *Config) (string, error) {
	var buffer bytes.Buffer

	t := toml.NewEncoder(&buffer)
	t.SetIndentTables(true)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c *Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate the settings the daemon can not start without.
func validate(c *Config) error {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port == 0 {
		return errors.Wrap(ErrWebServerPortCanNotBeZero, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	if c.Webserver.ShutDownTime == 0 {
		c.Webserver.ShutDownTime = defaultShutDownTime
	}

	switch c.DB.GormEngine {
	case EngineMySQL, EnginePostgres, EngineSQLite:
	default:
		return errors.Wrap(ErrUnknownEngine, invalidErrMessage)
	}

	switch c.Cache.Driver {
	case "":
		c.Cache.Driver = CacheNone
	case CacheNone, CacheMemory, CacheLRU, CacheRedis:
	case CacheStorage:
		if c.DB.GormEngine == EngineSQLite {
			return errors.Wrap(ErrStorageCacheEngine, invalidErrMessage)
		}
	default:
		return errors.Wrap(ErrUnknownCacheDriver, invalidErrMessage)
	}

	switch {
	case c.Cache.TTL < 0:
		return errors.Wrap(ErrCacheTTL, invalidErrMessage)
	case c.Cache.TTL == 0:
		c.Cache.TTL = defaultCacheTTL
	}

	if c.Security.CredentialsKey != "" {
		if _, err := secret.New(c.Security.CredentialsKey); err != nil {
			return errors.Wrap(ErrInvalidCredentialsKey, invalidErrMessage)
		}
	}

	return nil
}
