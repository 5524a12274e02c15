package database

import (
	"time"

	"github.com/lawnchairsociety/dungeongen/internal/config"
)

// Config holds database connection configuration.
type Config struct {
	// Driver specifies which database to use: "sqlite" or "postgres"
	Driver string

	// DSN is the SQLite file path or a PostgreSQL connection string
	DSN string

	// ConnectAttempts bounds how often Open pings before giving up
	ConnectAttempts int

	// Connection pool settings, PostgreSQL only
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config for a SQLite file at path.
func DefaultConfig(path string) Config {
	return Config{
		Driver:          string(DialectSQLite),
		DSN:             path,
		ConnectAttempts: 1,
	}
}

// FromStoreConfig converts the store section of the application config.
func FromStoreConfig(sc config.StoreConfig) Config {
	cfg := Config{
		Driver:          sc.Driver,
		DSN:             sc.DSN,
		ConnectAttempts: sc.ConnectAttempts,
	}
	if DialectType(sc.Driver) == DialectPostgres {
		cfg.MaxOpenConns = 10
		cfg.MaxIdleConns = 2
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	return cfg
}
