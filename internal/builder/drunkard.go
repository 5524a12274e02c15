package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// DrunkardsWalk releases random walkers that dig floor wherever they stagger
// until enough of the map is open
type DrunkardsWalk struct {
	base
	painter
	spawn        SpawnMode
	lifetime     int
	floorPercent float64
	maxDiggers   int
}

// NewDrunkardsWalk creates a drunkard's walk builder with the open area
// defaults: diggers start at the centre, live 400 steps and open half the map
func NewDrunkardsWalk(depth int, opts dungeon.Options) DrunkardsWalk {
	return DrunkardsWalk{
		base:         base{depth: depth, opts: opts},
		painter:      painter{symmetry: SymmetryNone, brushSize: 1},
		spawn:        SpawnStartingPoint,
		lifetime:     400,
		floorPercent: 0.5,
		maxDiggers:   DefaultMaxDiggers,
	}
}

// Name implements Builder
func (b DrunkardsWalk) Name() string { return KindDrunkardsWalk.String() }

// Configure implements Builder. Spawn mode, lifetime and floor percent are required.
func (b DrunkardsWalk) Configure(s Settings) (Builder, error) {
	name := b.Name()
	switch {
	case s.SpawnMode == nil:
		return nil, missing(name, "spawn mode")
	case s.Lifetime == nil:
		return nil, missing(name, "lifetime")
	case s.FloorPercent == nil:
		return nil, missing(name, "floor percent")
	}
	if *s.SpawnMode != SpawnStartingPoint && *s.SpawnMode != SpawnRandom {
		return nil, invalid(name, "spawn mode", *s.SpawnMode)
	}
	if *s.Lifetime < 1 {
		return nil, invalid(name, "lifetime", *s.Lifetime)
	}
	if !validFloorPercent(*s.FloorPercent) {
		return nil, invalid(name, "floor percent", *s.FloorPercent)
	}

	p, err := resolvePainter(name, s)
	if err != nil {
		return nil, err
	}
	diggers, _, err := resolveCaps(name, s)
	if err != nil {
		return nil, err
	}

	b.painter = p
	b.spawn = *s.SpawnMode
	b.lifetime = *s.Lifetime
	b.floorPercent = *s.FloorPercent
	b.maxDiggers = diggers
	return b, nil
}

// Build implements Builder
func (b DrunkardsWalk) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()

	cx, cy := g.Width/2, g.Height/2
	start := g.Idx(cx, cy)
	g.Tiles[start] = dungeon.Floor

	desired := int(b.floorPercent * float64(len(g.Tiles)))
	floor := g.Count(dungeon.Floor)
	diggers, active := 0, 0

	for floor < desired && diggers < b.maxDiggers {
		x, y := cx, cy
		if b.spawn == SpawnRandom && diggers > 0 {
			x = roll(rng, g.Width-3) + 1
			y = roll(rng, g.Height-3) + 1
		}

		dug := false
		for life := b.lifetime; life > 0; life-- {
			if g.Classify(x, y) == dungeon.Wall {
				dug = true
			}
			b.paint(g, x, y)
			x, y = stagger(rng, g, x, y)
		}

		if dug {
			active++
			g.TakeSnapshot("digger")
		}
		diggers++
		floor = g.Count(dungeon.Floor)
	}

	if floor < desired {
		logger.Warning("Drunkard's walk gave up before reaching its floor target",
			"diggers", diggers, "floor", floor, "desired", desired)
	}
	logger.Debug("Drunkard's walk finished", "diggers", diggers, "active", active)

	if err := finishOrganic(g, start, rng); err != nil {
		return nil, fmt.Errorf("drunkard's walk: %w", err)
	}
	return g, nil
}
