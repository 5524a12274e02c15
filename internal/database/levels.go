package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

var (
	ErrLevelNotFound = errors.New("database: level not found")
	ErrDuplicateName = errors.New("database: level name already taken")
)

// LevelInfo describes a stored level without its tiles.
type LevelInfo struct {
	ID        string
	Name      string
	Algorithm string
	Depth     int
	Width     int
	Height    int
	Checksum  string
	CreatedAt time.Time
}

// SaveLevel stores a level under a unique name and returns its id.
func (d *Database) SaveLevel(ctx context.Context, name, algorithm string, g *dungeon.Grid) (string, error) {
	data, err := dungeon.Marshal(g)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	_, err = d.db.ExecContext(ctx, d.qb.Build(
		`INSERT INTO levels (id, name, algorithm, depth, width, height, checksum, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id, name, algorithm, g.Depth, g.Width, g.Height, dungeon.Checksum(g), data, time.Now().UTC())
	if err != nil {
		if d.dialect.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		return "", fmt.Errorf("failed to save level: %w", err)
	}

	logger.Debug("Level saved", "id", id, "name", name, "depth", g.Depth)
	return id, nil
}

// LoadLevel reads a level by id and checks it against the stored checksum.
func (d *Database) LoadLevel(ctx context.Context, id string) (*dungeon.Grid, LevelInfo, error) {
	return d.loadWhere(ctx, "id", id)
}

// LoadLevelByName reads a level by its name.
func (d *Database) LoadLevelByName(ctx context.Context, name string) (*dungeon.Grid, LevelInfo, error) {
	return d.loadWhere(ctx, "name", name)
}

func (d *Database) loadWhere(ctx context.Context, column, value string) (*dungeon.Grid, LevelInfo, error) {
	var info LevelInfo
	var data []byte
	err := d.db.QueryRowContext(ctx, d.qb.Build(
		`SELECT id, name, algorithm, depth, width, height, checksum, created_at, data
		 FROM levels WHERE `+column+` = ?`), value).
		Scan(&info.ID, &info.Name, &info.Algorithm, &info.Depth, &info.Width, &info.Height, &info.Checksum, &info.CreatedAt, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, LevelInfo{}, fmt.Errorf("%w: %s %q", ErrLevelNotFound, column, value)
	}
	if err != nil {
		return nil, LevelInfo{}, fmt.Errorf("failed to load level: %w", err)
	}

	g, err := dungeon.Unmarshal(data)
	if err != nil {
		return nil, LevelInfo{}, err
	}
	if sum := dungeon.Checksum(g); sum != info.Checksum {
		return nil, LevelInfo{}, fmt.Errorf("%w: level %s", dungeon.ErrChecksumMismatch, info.ID)
	}
	return g, info, nil
}

// ListLevels returns up to limit levels, newest first. A limit of 0 returns all of them.
func (d *Database) ListLevels(ctx context.Context, limit int) ([]LevelInfo, error) {
	query := `SELECT id, name, algorithm, depth, width, height, checksum, created_at
		FROM levels ORDER BY created_at DESC, name`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.QueryContext(ctx, d.qb.Build(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	defer rows.Close()

	var levels []LevelInfo
	for rows.Next() {
		var info LevelInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.Algorithm, &info.Depth, &info.Width, &info.Height, &info.Checksum, &info.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan level: %w", err)
		}
		levels = append(levels, info)
	}
	return levels, rows.Err()
}

// DeleteLevel removes a level by id.
func (d *Database) DeleteLevel(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, d.qb.Build(`DELETE FROM levels WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: id %q", ErrLevelNotFound, id)
	}
	return nil
}
