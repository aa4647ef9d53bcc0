package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store names a snapshot backend
type Store string

const (
	StoreMemory Store = "memory"
	StoreRedis  Store = "redis"
	StoreSQLite Store = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Store  Store        `env:"WIZARD_STORE" envDefault:"sqlite"`
	Redis  RedisConfig  `envPrefix:"REDIS_"`
	SQLite SQLiteConfig `envPrefix:"WIZARD_SQLITE_"`
	Sheet  SheetConfig  `envPrefix:"WIZARD_SHEET_"`
	// SnapshotTTL expires idle Redis sessions; zero keeps them
	SnapshotTTL time.Duration `env:"WIZARD_SNAPSHOT_TTL" envDefault:"720h"`
}

// RedisConfig holds Redis-specific configuration. URL, when set, takes
// precedence over the individual fields.
type RedisConfig struct {
	URL      string `env:"URL"`
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// SQLiteConfig holds the SQLite database location
type SQLiteConfig struct {
	Path string `env:"PATH" envDefault:"wizard.db"`
}

// SheetConfig holds character sheet export settings
type SheetConfig struct {
	Variant string `env:"VARIANT" envDefault:"werewolf"`
	Font    string `env:"FONT"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StoreMemory, StoreRedis, StoreSQLite:
	default:
		return nil, fmt.Errorf("WIZARD_STORE must be one of memory, redis, sqlite; got %q", cfg.Store)
	}
	if cfg.SnapshotTTL < 0 {
		return nil, fmt.Errorf("WIZARD_SNAPSHOT_TTL cannot be negative")
	}
	if cfg.Store == StoreSQLite && cfg.SQLite.Path == "" {
		return nil, fmt.Errorf("WIZARD_SQLITE_PATH is required for the sqlite store")
	}

	return cfg, nil
}
