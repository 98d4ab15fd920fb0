// Package config loads runtime configuration from the environment.
//
// Values come from real environment variables first. A .env file in the working
// directory, if present, fills in anything that is not already set, which keeps
// local development to a single `go run ./cmd/server`.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults.
const (
	DefaultPort     = 3000
	DefaultDBPath   = "data/recipes.db"
	DefaultLogLevel = slog.LevelInfo
)

// Config holds everything cmd/server needs to build the server.
type Config struct {
	Port int
	// DBPath is the SQLite file. ":memory:" works for throwaway runs.
	DBPath string
	// ResetOnStart drops and reseeds the recipes table at startup. When false the
	// table is only created if missing and existing rows survive restarts.
	ResetOnStart bool
	LogLevel     slog.Level
}

// Load reads configuration from envFiles (default ".env") and the environment.
// Missing env files are ignored; malformed values are errors.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}

	cfg := Config{
		Port:         DefaultPort,
		DBPath:       DefaultDBPath,
		ResetOnStart: true,
		LogLevel:     DefaultLogLevel,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("config: invalid PORT %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	if v := os.Getenv("DB_RESET_ON_START"); v != "" {
		reset, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid DB_RESET_ON_START %q: %w", v, err)
		}
		cfg.ResetOnStart = reset
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		// slog.Level understands "debug", "info", "warn", "error" (any case).
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
			return Config{}, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", v, err)
		}
	}

	return cfg, nil
}
