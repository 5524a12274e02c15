package mapgen

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/builder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()
	entries := table.Entries()

	require.Len(t, entries, len(builder.Presets()))
	assert.Equal(t, 39, table.TotalWeight())

	for _, e := range entries {
		assert.Positive(t, e.Weight, e.Preset.Name)
		switch e.Preset.Name {
		case "simple_map", "maze":
			assert.False(t, e.WFC, e.Preset.Name)
		default:
			assert.True(t, e.WFC, e.Preset.Name)
		}
	}

	e, err := table.Lookup("bsp_dungeon")
	require.NoError(t, err)
	assert.Equal(t, 4, e.Weight)
}

func TestLookupUnknownPreset(t *testing.T) {
	_, err := DefaultTable().Lookup("prefab_vaults")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestRollFollowsWeights(t *testing.T) {
	table := DefaultTable()
	rng := rand.New(rand.NewSource(7))

	const rolls = 39000
	counts := make(map[string]int)
	for i := 0; i < rolls; i++ {
		e, err := table.Roll(rng)
		require.NoError(t, err)
		counts[e.Preset.Name]++
	}

	for _, e := range table.Entries() {
		want := float64(rolls) * float64(e.Weight) / float64(table.TotalWeight())
		assert.InDelta(t, want, float64(counts[e.Preset.Name]), want*0.15, e.Preset.Name)
	}
}

func TestRollSkipsZeroWeights(t *testing.T) {
	only := make(map[string]int)
	for _, e := range DefaultTable().Entries() {
		only[e.Preset.Name] = 0
	}
	only["voronoi"] = 1
	table, err := DefaultTable().WithWeights(only)
	require.NoError(t, err)
	assert.Equal(t, 1, table.TotalWeight())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		e, err := table.Roll(rng)
		require.NoError(t, err)
		assert.Equal(t, "voronoi", e.Preset.Name)
	}

	// Zero weight entries can still be looked up
	_, err = table.Lookup("maze")
	assert.NoError(t, err)
}

func TestRollEmptyTable(t *testing.T) {
	_, err := NewTable().Roll(rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestWithWeights(t *testing.T) {
	base := DefaultTable()
	table, err := base.WithWeights(map[string]int{"maze": 10, "voronoi": 0})
	require.NoError(t, err)

	assert.Equal(t, 39-2+10-1, table.TotalWeight())
	assert.Equal(t, 39, base.TotalWeight(), "original table changed")

	e, err := table.Lookup("maze")
	require.NoError(t, err)
	assert.Equal(t, 10, e.Weight)
	assert.False(t, e.WFC)

	_, err = base.WithWeights(map[string]int{"nope": 1})
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestAddClampsNegativeWeight(t *testing.T) {
	p, err := builder.LookupPreset("voronoi")
	require.NoError(t, err)

	table := NewTable().Add(p, -5, true)
	assert.Equal(t, 0, table.TotalWeight())
	assert.Equal(t, 0, table.Entries()[0].Weight)
}
