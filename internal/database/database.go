// Package database stores generated levels in SQLite or PostgreSQL.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

var ErrUnknownDriver = errors.New("database: unknown driver")

// Database wraps the connection pool and provides level persistence.
type Database struct {
	db      *sql.DB
	dialect Dialect
	qb      *QueryBuilder
}

// Open connects using cfg, retrying the first ping with exponential backoff
// so that a database still starting up is waited for.
func Open(ctx context.Context, cfg Config) (*Database, error) {
	dt := DialectType(cfg.Driver)
	switch dt {
	case DialectSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.DSN), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case DialectPostgres:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	dialect := NewDialect(dt)
	db, err := sql.Open(dialect.DriverName(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	attempts := max(cfg.ConnectAttempts, 1)
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		if err := db.PingContext(ctx); err != nil {
			logger.Debug("Database not ready", "driver", cfg.Driver, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(uint(attempts)))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	d := &Database{db: db, dialect: dialect, qb: NewQueryBuilder(dialect)}
	for _, stmt := range dialect.InitStatements() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Debug("Database opened", "driver", cfg.Driver)
	return d, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Dialect returns the SQL dialect in use.
func (d *Database) Dialect() Dialect {
	return d.dialect
}

// migrate creates the schema if it doesn't exist.
func (d *Database) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS levels (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE NOT NULL,
			algorithm TEXT NOT NULL DEFAULT '',
			depth INTEGER NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			checksum TEXT NOT NULL,
			data ` + d.dialect.BlobType() + ` NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_depth ON levels(depth)`,
		`CREATE INDEX IF NOT EXISTS idx_levels_created_at ON levels(created_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}
