package connectivity

import (
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon/dungeontest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carve(g *dungeon.Grid, x1, y1, x2, y2 int) {
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			g.Set(x, y, dungeon.Floor)
		}
	}
}

func TestBuildCosts(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 11, Height: 11})
	carve(g, 1, 1, 9, 9)

	start := g.Idx(5, 5)
	m, err := Build(g, []int{start}, DefaultMaxDepth)
	require.NoError(t, err)

	assert.Equal(t, 0.0, m.Distances[start])
	assert.InDelta(t, CardinalCost, m.Distances[g.Idx(6, 5)], 1e-9)
	assert.InDelta(t, DiagonalCost, m.Distances[g.Idx(6, 6)], 1e-9)
	assert.InDelta(t, 2*DiagonalCost, m.Distances[g.Idx(7, 7)], 1e-9)
	assert.InDelta(t, DiagonalCost+CardinalCost, m.Distances[g.Idx(7, 6)], 1e-9)
	assert.False(t, m.Reached(g.Idx(0, 0)), "ring wall should not be reached")
}

func TestBuildMultipleStarts(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 20, Height: 3})
	carve(g, 1, 1, 18, 1)

	m, err := Build(g, []int{g.Idx(1, 1), g.Idx(18, 1)}, DefaultMaxDepth)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, m.Distances[g.Idx(9, 1)], 1e-9)
	assert.InDelta(t, 8.0, m.Distances[g.Idx(10, 1)], 1e-9)
}

func TestBuildRespectsMaxDepth(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 30, Height: 3})
	carve(g, 1, 1, 28, 1)

	m, err := Build(g, []int{g.Idx(1, 1)}, 5)
	require.NoError(t, err)
	assert.True(t, m.Reached(g.Idx(6, 1)))
	assert.False(t, m.Reached(g.Idx(7, 1)))
}

func TestBuildRejectsBadStart(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 5, Height: 5})
	_, err := Build(g, []int{99}, DefaultMaxDepth)
	assert.ErrorIs(t, err, ErrStartOutOfRange)
}

func TestIsExitValid(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 6, Height: 6})
	carve(g, 1, 1, 4, 4)

	tests := []struct {
		x, y int
		want bool
	}{
		{2, 2, true},
		{0, 2, false},
		{2, 0, false},
		{5, 2, false},
		{-1, 3, false},
		{3, 9, false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, IsExitValid(g, tc.x, tc.y), "IsExitValid(%d,%d)", tc.x, tc.y)
	}
}

func TestExitsIgnoreCorners(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 5, Height: 5})
	g.Set(1, 1, dungeon.Floor)
	g.Set(2, 2, dungeon.Floor)

	exits := Exits(g, g.Idx(1, 1))
	require.Len(t, exits, 1)
	assert.Equal(t, g.Idx(2, 2), exits[0].Idx)
	assert.Equal(t, DiagonalCost, exits[0].Cost)
}

func TestPruneUnreachable(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 30, Height: 10})
	carve(g, 1, 1, 8, 8)   // main cave
	carve(g, 20, 1, 28, 8) // detached cave
	carve(g, 9, 4, 14, 4)  // dead end hanging off the main cave

	exit, err := PruneUnreachable(g, g.Idx(2, 2))
	require.NoError(t, err)

	for x := 20; x <= 28; x++ {
		for y := 1; y <= 8; y++ {
			require.Equal(t, dungeon.Wall, g.Classify(x, y), "detached cell %d,%d survived", x, y)
		}
	}
	assert.Equal(t, dungeon.Floor, g.Classify(9, 4))
	assert.True(t, g.IsBlocked(22, 5), "blocked table not refreshed")

	ex, ey := g.Coords(exit)
	assert.Equal(t, 14, ex, "exit should be the end of the dead end, got %d,%d", ex, ey)
	assert.Equal(t, 4, ey)
}

func TestPruneTieBreaksOnScanOrder(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 11, Height: 3})
	carve(g, 1, 1, 9, 1)

	exit, err := PruneUnreachable(g, g.Idx(5, 1))
	require.NoError(t, err)
	assert.Equal(t, g.Idx(1, 1), exit)
}

func TestPruneHonoursRadius(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 40, Height: 3})
	carve(g, 1, 1, 38, 1)

	exit, err := PruneUnreachableWithin(g, g.Idx(1, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, g.Idx(11, 1), exit)
	assert.Equal(t, dungeon.Wall, g.Classify(12, 1))
}

func TestPruneNoExit(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 5, Height: 5})
	g.Set(2, 2, dungeon.Floor)

	exit, err := PruneUnreachable(g, g.Idx(2, 2))
	assert.ErrorIs(t, err, ErrNoExit)
	assert.Equal(t, g.Idx(2, 2), exit)
}

func TestFindEntry(t *testing.T) {
	t.Run("centre", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		carve(g, 1, 1, 18, 8)
		idx, err := FindEntry(g)
		require.NoError(t, err)
		assert.Equal(t, g.Idx(10, 5), idx)
	})

	t.Run("walks left", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		carve(g, 2, 5, 4, 5)
		idx, err := FindEntry(g)
		require.NoError(t, err)
		assert.Equal(t, g.Idx(4, 5), idx)
	})

	t.Run("falls back to nearest floor", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		g.Set(15, 1, dungeon.Floor)
		g.Set(11, 6, dungeon.Floor)
		idx, err := FindEntry(g)
		require.NoError(t, err)
		assert.Equal(t, g.Idx(11, 6), idx)
	})

	t.Run("no floor", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		_, err := FindEntry(g)
		assert.ErrorIs(t, err, ErrNoEntry)
	})
}

func TestReachableMatchesFloodFill(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		g := dungeon.New(1, dungeon.Options{Width: 40, Height: 20})
		for y := 1; y < g.Height-1; y++ {
			for x := 1; x < g.Width-1; x++ {
				if rng.Intn(100) < 55 {
					g.Set(x, y, dungeon.Floor)
				}
			}
		}
		start, err := FindEntry(g)
		require.NoError(t, err)

		got, err := Reachable(g, start)
		require.NoError(t, err)
		want := dungeontest.Flood(g, start)

		for i := range g.Tiles {
			require.Equal(t, want[i], got.Has(i), "trial %d cell %d", trial, i)
		}
	}
}

func TestFindMainEntry(t *testing.T) {
	t.Run("skips the pocket beside the centre", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		carve(g, 9, 5, 10, 5)
		carve(g, 13, 1, 18, 8)
		idx, err := FindMainEntry(g)
		require.NoError(t, err)
		assert.Equal(t, g.Idx(13, 5), idx)

		_, err = PruneUnreachable(g, idx)
		require.NoError(t, err)
		assert.Equal(t, 6*8, g.Count(dungeon.Floor))
	})

	t.Run("no floor", func(t *testing.T) {
		g := dungeon.New(1, dungeon.Options{Width: 20, Height: 10})
		_, err := FindMainEntry(g)
		assert.ErrorIs(t, err, ErrNoEntry)
	})
}
