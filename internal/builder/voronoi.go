package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/connectivity"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/zyedidia/generic/mapset"
)

// VoronoiSeeds is the number of cells the Voronoi builder scatters
const VoronoiSeeds = 64

// Voronoi divides the map into cells around random seeds. Cell interiors
// open up and the junctions where cells meet stay solid, giving a lattice
// of chambers.
type Voronoi struct {
	base
	seeds int
}

// NewVoronoi creates a Voronoi builder
func NewVoronoi(depth int, opts dungeon.Options) Voronoi {
	return Voronoi{base: base{depth: depth, opts: opts}, seeds: VoronoiSeeds}
}

// Name implements Builder
func (b Voronoi) Name() string { return KindVoronoi.String() }

// Configure implements Builder. The Voronoi builder takes no settings.
func (b Voronoi) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b Voronoi) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()

	seeds := make([]dungeon.Point, 0, b.seeds)
	used := mapset.New[int]()
	for len(seeds) < b.seeds && used.Size() < len(g.Tiles) {
		p := dungeon.Point{X: roll(rng, g.Width-1), Y: roll(rng, g.Height-1)}
		if idx := g.Idx(p.X, p.Y); !used.Has(idx) {
			used.Put(idx)
			seeds = append(seeds, p)
		}
	}

	membership := make([]int, len(g.Tiles))
	for i := range membership {
		x, y := g.Coords(i)
		best, bestDist := 0, -1
		for s, p := range seeds {
			d := (x-p.X)*(x-p.X) + (y-p.Y)*(y-p.Y)
			if bestDist < 0 || d < bestDist {
				best, bestDist = s, d
			}
		}
		membership[i] = best
	}

	for y := 1; y < g.Height-1; y++ {
		for x := 1; x < g.Width-1; x++ {
			idx := g.Idx(x, y)
			own := membership[idx]
			differ := 0
			for _, n := range []int{idx - 1, idx + 1, idx - g.Width, idx + g.Width} {
				if membership[n] != own {
					differ++
				}
			}
			// Floor unless two or more neighbours belong to another seed
			if differ < 2 {
				g.Tiles[idx] = dungeon.Floor
			}
		}
		g.TakeSnapshot("row")
	}

	start, err := connectivity.FindEntry(g)
	if err != nil {
		return nil, fmt.Errorf("voronoi: %w", err)
	}
	if err := finishOrganic(g, start, rng); err != nil {
		return nil, fmt.Errorf("voronoi: %w", err)
	}

	logger.Debug("Voronoi lattice built", "seeds", len(seeds), "floor", g.Count(dungeon.Floor))
	return g, nil
}
