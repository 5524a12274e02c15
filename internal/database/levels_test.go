package database

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/builder"
	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := Open(context.Background(), DefaultConfig(filepath.Join(t.TempDir(), "nested", "levels.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func buildLevel(t *testing.T, kind builder.Kind, seed int64) *dungeon.Grid {
	t.Helper()
	b, err := builder.New(kind, 2, dungeon.DefaultOptions())
	require.NoError(t, err)
	g, err := b.Build(rand.New(rand.NewSource(seed)))
	require.NoError(t, err)
	return g
}

func TestSaveAndLoadLevel(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	g := buildLevel(t, builder.KindBSPDungeon, 1)

	id, err := db.SaveLevel(ctx, "first", "bsp_dungeon", g)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	loaded, info, err := db.LoadLevel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, "first", info.Name)
	assert.Equal(t, "bsp_dungeon", info.Algorithm)
	assert.Equal(t, 2, info.Depth)
	assert.Equal(t, g.Width, info.Width)
	assert.Equal(t, g.Height, info.Height)
	assert.False(t, info.CreatedAt.IsZero())

	assert.Equal(t, g.Tiles, loaded.Tiles)
	assert.Equal(t, g.Upstairs, loaded.Upstairs)
	assert.Equal(t, dungeon.Checksum(g), dungeon.Checksum(loaded))

	byName, _, err := db.LoadLevelByName(ctx, "first")
	require.NoError(t, err)
	assert.Equal(t, g.Tiles, byName.Tiles)
}

func TestSaveLevelDuplicateName(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.SaveLevel(ctx, "dup", "maze", buildLevel(t, builder.KindMaze, 1))
	require.NoError(t, err)
	_, err = db.SaveLevel(ctx, "dup", "maze", buildLevel(t, builder.KindMaze, 2))
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestLoadLevelNotFound(t *testing.T) {
	db := openTestDB(t)
	_, _, err := db.LoadLevel(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrLevelNotFound)
}

func TestLoadLevelChecksumMismatch(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	id, err := db.SaveLevel(ctx, "tampered", "voronoi", buildLevel(t, builder.KindVoronoi, 3))
	require.NoError(t, err)

	_, err = db.db.ExecContext(ctx, `UPDATE levels SET checksum = 'deadbeef' WHERE id = ?`, id)
	require.NoError(t, err)

	_, _, err = db.LoadLevel(ctx, id)
	assert.ErrorIs(t, err, dungeon.ErrChecksumMismatch)
}

func TestListAndDeleteLevels(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	var ids []string
	for i, name := range []string{"a", "b", "c"} {
		id, err := db.SaveLevel(ctx, name, "cellular_automata", buildLevel(t, builder.KindCellularAutomata, int64(i+1)))
		require.NoError(t, err)
		ids = append(ids, id)
	}

	all, err := db.ListLevels(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name, "newest first")

	some, err := db.ListLevels(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, some, 2)

	require.NoError(t, db.DeleteLevel(ctx, ids[1]))
	assert.ErrorIs(t, db.DeleteLevel(ctx, ids[1]), ErrLevelNotFound)

	all, err = db.ListLevels(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql", DSN: "x"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestOpenReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "levels.db")
	ctx := context.Background()

	db, err := Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	_, err = db.SaveLevel(ctx, "kept", "dla_insectoid", buildLevel(t, builder.KindDLA, 5))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, DefaultConfig(path))
	require.NoError(t, err)
	defer db.Close()

	levels, err := db.ListLevels(ctx, 0)
	require.NoError(t, err)
	require.Len(t, levels, 1)
	assert.Equal(t, "kept", levels[0].Name)
}

func TestFromStoreConfig(t *testing.T) {
	cfg := FromStoreConfig(config.StoreConfig{Driver: "postgres", DSN: "postgres://localhost/levels", ConnectAttempts: 7})
	assert.Equal(t, "postgres", cfg.Driver)
	assert.Equal(t, 7, cfg.ConnectAttempts)
	assert.Positive(t, cfg.MaxOpenConns)

	cfg = FromStoreConfig(config.DefaultConfig().Store)
	assert.Equal(t, "sqlite", cfg.Driver)
	assert.Zero(t, cfg.MaxOpenConns)
}
