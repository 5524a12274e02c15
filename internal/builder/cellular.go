package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/connectivity"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

const (
	CellularFloorChance = 45 // percent of interior cells seeded as floor
	CellularPasses      = 15
)

// CellularAutomata grows caverns from noise by repeatedly smoothing it
type CellularAutomata struct {
	base
}

// NewCellularAutomata creates a cavern builder
func NewCellularAutomata(depth int, opts dungeon.Options) CellularAutomata {
	return CellularAutomata{base: base{depth: depth, opts: opts}}
}

// Name implements Builder
func (b CellularAutomata) Name() string { return KindCellularAutomata.String() }

// Configure implements Builder. Cellular automata take no settings.
func (b CellularAutomata) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b CellularAutomata) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()

	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			if roll(rng, 100) > 100-CellularFloorChance {
				g.Set(x, y, dungeon.Floor)
			}
		}
	}
	g.TakeSnapshot("noise")

	for i := 0; i < CellularPasses; i++ {
		g.Tiles = smooth(g)
		g.TakeSnapshot("smooth")
	}

	start, err := connectivity.FindEntry(g)
	if err != nil {
		return nil, fmt.Errorf("cellular automata: %w", err)
	}
	if err := finishOrganic(g, start, rng); err != nil {
		return nil, fmt.Errorf("cellular automata: %w", err)
	}

	logger.Debug("Cellular automata cave built", "floor", g.Count(dungeon.Floor), "regions", len(g.Regions))
	return g, nil
}

// smooth runs one automaton pass over the interior. A cell becomes wall when
// more than four of its eight neighbours are walls, or none are.
func smooth(g *dungeon.Grid) []dungeon.TileType {
	next := make([]dungeon.TileType, len(g.Tiles))
	copy(next, g.Tiles)
	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			walls := wallNeighbors(g, x, y)
			if walls > 4 || walls == 0 {
				next[g.Idx(x, y)] = dungeon.Wall
			} else {
				next[g.Idx(x, y)] = dungeon.Floor
			}
		}
	}
	return next
}

func wallNeighbors(g *dungeon.Grid, x, y int) int {
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if (dx != 0 || dy != 0) && g.Classify(x+dx, y+dy) == dungeon.Wall {
				n++
			}
		}
	}
	return n
}
