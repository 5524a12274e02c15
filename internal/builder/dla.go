package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// DLA grows a cave by diffusion limited aggregation: walkers wander until
// they meet the existing cave and stick to it
type DLA struct {
	base
	painter
	algorithm    DLAAlgorithm
	floorPercent float64
	maxDiggers   int
	maxSteps     int
}

// NewDLA creates a walk-inwards DLA builder that opens a quarter of the map
func NewDLA(depth int, opts dungeon.Options) DLA {
	return DLA{
		base:         base{depth: depth, opts: opts},
		painter:      painter{symmetry: SymmetryNone, brushSize: 1},
		algorithm:    WalkInwards,
		floorPercent: 0.25,
		maxDiggers:   DefaultMaxDiggers,
		maxSteps:     DefaultMaxWalkSteps,
	}
}

// Name implements Builder
func (b DLA) Name() string { return KindDLA.String() }

// Configure implements Builder. Algorithm and floor percent are required.
func (b DLA) Configure(s Settings) (Builder, error) {
	name := b.Name()
	switch {
	case s.Algorithm == nil:
		return nil, missing(name, "algorithm")
	case s.FloorPercent == nil:
		return nil, missing(name, "floor percent")
	}
	if *s.Algorithm < WalkInwards || *s.Algorithm > CentralAttractor {
		return nil, invalid(name, "algorithm", *s.Algorithm)
	}
	if !validFloorPercent(*s.FloorPercent) {
		return nil, invalid(name, "floor percent", *s.FloorPercent)
	}

	p, err := resolvePainter(name, s)
	if err != nil {
		return nil, err
	}
	diggers, steps, err := resolveCaps(name, s)
	if err != nil {
		return nil, err
	}

	b.painter = p
	b.algorithm = *s.Algorithm
	b.floorPercent = *s.FloorPercent
	b.maxDiggers = diggers
	b.maxSteps = steps
	return b, nil
}

// Build implements Builder
func (b DLA) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()
	g.TakeSnapshot("empty")

	cx, cy := g.Width/2, g.Height/2
	start := g.Idx(cx, cy)
	for _, p := range []dungeon.Point{{X: cx, Y: cy}, {X: cx - 1, Y: cy}, {X: cx + 1, Y: cy}, {X: cx, Y: cy - 1}, {X: cx, Y: cy + 1}} {
		g.Set(p.X, p.Y, dungeon.Floor)
	}

	desired := int(b.floorPercent * float64(len(g.Tiles)))
	floor := g.Count(dungeon.Floor)
	diggers, stuck := 0, 0

	for floor < desired && diggers < b.maxDiggers {
		var ok bool
		switch b.algorithm {
		case WalkOutwards:
			ok = b.walkOutwards(rng, g, cx, cy)
		case CentralAttractor:
			b.centralAttractor(rng, g, cx, cy)
			ok = true
		default:
			ok = b.walkInwards(rng, g)
		}
		if !ok {
			stuck++
		}
		diggers++
		g.TakeSnapshot("digger")
		floor = g.Count(dungeon.Floor)
	}

	if floor < desired {
		logger.Warning("DLA gave up before reaching its floor target",
			"diggers", diggers, "floor", floor, "desired", desired)
	}
	logger.Debug("DLA finished", "diggers", diggers, "stuck", stuck)

	if err := finishOrganic(g, start, rng); err != nil {
		return nil, fmt.Errorf("dla: %w", err)
	}
	return g, nil
}

// walkInwards staggers from a random cell until it touches floor and paints
// the last wall cell it stood on
func (b DLA) walkInwards(rng *rand.Rand, g *dungeon.Grid) bool {
	x := roll(rng, g.Width-3) + 1
	y := roll(rng, g.Height-3) + 1
	px, py := x, y
	for steps := 0; g.Classify(x, y) == dungeon.Wall; steps++ {
		if steps >= b.maxSteps {
			return false
		}
		px, py = x, y
		x, y = stagger(rng, g, x, y)
	}
	b.paint(g, px, py)
	return true
}

// walkOutwards staggers from the centre until it leaves the floor and paints there
func (b DLA) walkOutwards(rng *rand.Rand, g *dungeon.Grid, cx, cy int) bool {
	x, y := cx, cy
	for steps := 0; g.Classify(x, y) == dungeon.Floor; steps++ {
		if steps >= b.maxSteps {
			return false
		}
		x, y = stagger(rng, g, x, y)
	}
	b.paint(g, x, y)
	return true
}

// centralAttractor flies from a random cell straight at the centre and
// paints the last wall cell before it hits floor
func (b DLA) centralAttractor(rng *rand.Rand, g *dungeon.Grid, cx, cy int) {
	x := roll(rng, g.Width-3) + 1
	y := roll(rng, g.Height-3) + 1
	px, py := x, y
	path := line(x, y, cx, cy)
	for len(path) > 0 && g.Classify(x, y) == dungeon.Wall {
		px, py = x, y
		x, y = path[0].X, path[0].Y
		path = path[1:]
	}
	b.paint(g, px, py)
}

// line returns the Bresenham line from x0,y0 to x1,y1, excluding the first point
func line(x0, y0, x1, y1 int) []dungeon.Point {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	var pts []dungeon.Point
	e := dx + dy
	x, y := x0, y0
	for x != x1 || y != y1 {
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
		pts = append(pts, dungeon.Point{X: x, Y: y})
	}
	return pts
}
