// Package dungeontest provides invariant checks for generated levels.
//
// The reachability check is a plain breadth-first flood fill and shares no
// code with the connectivity package, so it can be used to verify it.
package dungeontest

import (
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var conn8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Flood returns a visited table of every non-wall cell reachable from start
func Flood(g *dungeon.Grid, start int) []bool {
	seen := make([]bool, len(g.Tiles))
	if g.Tiles[start] == dungeon.Wall {
		return seen
	}
	queue := []int{start}
	seen[start] = true
	for qi := 0; qi < len(queue); qi++ {
		ux, uy := g.Coords(queue[qi])
		for _, d := range conn8 {
			vx, vy := ux+d[0], uy+d[1]
			if !g.InBounds(vx, vy) || g.Classify(vx, vy) == dungeon.Wall {
				continue
			}
			vi := g.Idx(vx, vy)
			if !seen[vi] {
				seen[vi] = true
				queue = append(queue, vi)
			}
		}
	}
	return seen
}

// Unreachable lists walkable cells that cannot be reached from the up stairs
func Unreachable(g *dungeon.Grid) []int {
	seen := Flood(g, g.Idx(g.Upstairs.X, g.Upstairs.Y))
	var lost []int
	for i, t := range g.Tiles {
		if t != dungeon.Wall && !seen[i] {
			lost = append(lost, i)
		}
	}
	return lost
}

// RequireStairs checks for exactly one up and one down staircase,
// with the up staircase where Upstairs says it is.
func RequireStairs(t testing.TB, g *dungeon.Grid) {
	t.Helper()
	require.Equal(t, 1, g.Count(dungeon.UpStairs), "up stairs count")
	require.Equal(t, 1, g.Count(dungeon.DownStairs), "down stairs count")
	require.Equal(t, dungeon.UpStairs, g.Classify(g.Upstairs.X, g.Upstairs.Y), "Upstairs points at %+v", g.Upstairs)
}

// AssertBoundary checks that the outer ring is wall
func AssertBoundary(t testing.TB, g *dungeon.Grid) {
	t.Helper()
	for x := 0; x < g.Width; x++ {
		assert.Equal(t, dungeon.Wall, g.Classify(x, 0), "top ring at x=%d", x)
		assert.Equal(t, dungeon.Wall, g.Classify(x, g.Height-1), "bottom ring at x=%d", x)
	}
	for y := 0; y < g.Height; y++ {
		assert.Equal(t, dungeon.Wall, g.Classify(0, y), "left ring at y=%d", y)
		assert.Equal(t, dungeon.Wall, g.Classify(g.Width-1, y), "right ring at y=%d", y)
	}
}

// AssertRegions checks that regions only hold floor cells and never share one
func AssertRegions(t testing.TB, g *dungeon.Grid) {
	t.Helper()
	owner := make(map[int]int)
	g.EachRegion(func(id int, cells []int) {
		for _, idx := range cells {
			require.True(t, idx >= 0 && idx < len(g.Tiles), "region %d index %d out of range", id, idx)
			assert.Equal(t, dungeon.Floor, g.Tiles[idx], "region %d holds non-floor cell %d", id, idx)
			if prev, dup := owner[idx]; dup {
				t.Errorf("cell %d is in regions %d and %d", idx, prev, id)
			}
			owner[idx] = id
		}
	})
}

// RequireLevel runs every post-generation check
func RequireLevel(t testing.TB, g *dungeon.Grid) {
	t.Helper()
	require.NotNil(t, g)
	RequireStairs(t, g)
	AssertBoundary(t, g)
	assert.Empty(t, Unreachable(g), "cells unreachable from the up stairs")
	AssertRegions(t, g)
	assert.NotEmpty(t, g.Regions, "level has no spawn regions")
}
