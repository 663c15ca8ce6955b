/*
config.go - Runtime configuration and logger construction

PURPOSE:
  Reads server settings from the environment (optionally seeded from a
  .env file) and builds the process logger. Command-line flags in
  cmd/server override whatever is loaded here.

ENVIRONMENT:
  PL_PORT          HTTP port (default 8080)
  PL_DB_PATH       SQLite database path (default pl.db, ":memory:" allowed,
                   "memory" selects the map-backed store)
  PL_LOG_LEVEL     logrus level name (default info)
  PL_LOG_FORMAT    "text" or "json" (default text)
  PL_CORS_ORIGINS  comma-separated allowed origins (default localhost dev servers)
*/
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port        int
	DBPath      string
	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

var defaultOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// Load reads .env files (when present) into the environment and returns the
// resulting configuration. A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv() *Config {
	return &Config{
		Port:        getEnvAsInt("PL_PORT", 8080),
		DBPath:      getEnv("PL_DB_PATH", "pl.db"),
		LogLevel:    getEnv("PL_LOG_LEVEL", "info"),
		LogFormat:   getEnv("PL_LOG_FORMAT", "text"),
		CORSOrigins: getEnvAsList("PL_CORS_ORIGINS", defaultOrigins),
	}
}

// NewLogger builds a logger writing to stdout. An unknown level falls back
// to info.
func NewLogger(level, format string) *logrus.Logger {
	logg := logrus.New()
	logg.SetOutput(os.Stdout)
	if strings.EqualFold(format, "json") {
		logg.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logg.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		logg.WithField("level", level).Warn("unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	logg.SetLevel(lvl)
	return logg
}

// Logger is NewLogger applied to the config's settings.
func (c *Config) Logger() *logrus.Logger {
	return NewLogger(c.LogLevel, c.LogFormat)
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(name string, defaultVal int) int {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsList(name string, defaultVal []string) []string {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, v := range strings.Split(valStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
