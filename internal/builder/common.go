package builder

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/connectivity"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/regions"
)

// roll returns a number in [1,n], like a single n-sided die
func roll(rng *rand.Rand, n int) int {
	if n < 1 {
		return 1
	}
	return rng.Intn(n) + 1
}

// between returns a number in [lo,hi)
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo)
}

// applyRoom carves the interior of a room, leaving X1 and Y1 as its wall
func applyRoom(g *dungeon.Grid, room dungeon.Rect) {
	for y := room.Y1 + 1; y <= room.Y2; y++ {
		for x := room.X1 + 1; x <= room.X2; x++ {
			g.Set(x, y, dungeon.Floor)
		}
	}
}

// interiorPoint picks a random carved cell of a room made by applyRoom
func interiorPoint(rng *rand.Rand, room dungeon.Rect) dungeon.Point {
	return dungeon.Point{
		X: room.X1 + roll(rng, room.Width()),
		Y: room.Y1 + roll(rng, room.Height()),
	}
}

func horizontalTunnel(g *dungeon.Grid, x1, x2, y int) {
	for x := min(x1, x2); x <= max(x1, x2); x++ {
		if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
			g.Set(x, y, dungeon.Floor)
		}
	}
}

func verticalTunnel(g *dungeon.Grid, y1, y2, x int) {
	for y := min(y1, y2); y <= max(y1, y2); y++ {
		if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
			g.Set(x, y, dungeon.Floor)
		}
	}
}

// drawCorridor walks from one point to the other, closing the x gap first
func drawCorridor(g *dungeon.Grid, from, to dungeon.Point) {
	x, y := from.X, from.Y
	g.Set(x, y, dungeon.Floor)
	for x != to.X || y != to.Y {
		switch {
		case x < to.X:
			x++
		case x > to.X:
			x--
		case y < to.Y:
			y++
		default:
			y--
		}
		g.Set(x, y, dungeon.Floor)
	}
}

// paint carves floor at x,y with the painter's brush, mirrored about the map centre
func (p painter) paint(g *dungeon.Grid, x, y int) {
	cx, cy := g.Width/2, g.Height/2
	switch p.symmetry {
	case SymmetryHorizontal:
		if x == cx {
			p.apply(g, x, y)
			return
		}
		dx := abs(cx - x)
		p.apply(g, cx+dx, y)
		p.apply(g, cx-dx, y)
	case SymmetryVertical:
		if y == cy {
			p.apply(g, x, y)
			return
		}
		dy := abs(cy - y)
		p.apply(g, x, cy+dy)
		p.apply(g, x, cy-dy)
	case SymmetryBoth:
		if x == cx && y == cy {
			p.apply(g, x, y)
			return
		}
		dx := abs(cx - x)
		p.apply(g, cx+dx, y)
		p.apply(g, cx-dx, y)
		dy := abs(cy - y)
		p.apply(g, x, cy+dy)
		p.apply(g, x, cy-dy)
	default:
		p.apply(g, x, y)
	}
}

func (p painter) apply(g *dungeon.Grid, x, y int) {
	if p.brushSize <= 1 {
		if x > 0 && x < g.Width-1 && y > 0 && y < g.Height-1 {
			g.Set(x, y, dungeon.Floor)
		}
		return
	}
	half := p.brushSize / 2
	for by := y - half; by < y+half; by++ {
		for bx := x - half; bx < x+half; bx++ {
			if bx > 1 && bx < g.Width-1 && by > 1 && by < g.Height-1 {
				g.Set(bx, by, dungeon.Floor)
			}
		}
	}
}

// stagger moves a walker one step in a random cardinal direction,
// staying at least two cells away from the left and top edges
func stagger(rng *rand.Rand, g *dungeon.Grid, x, y int) (int, int) {
	switch roll(rng, 4) {
	case 1:
		if x > 2 {
			x--
		}
	case 2:
		if x < g.Width-2 {
			x++
		}
	case 3:
		if y > 2 {
			y--
		}
	default:
		if y < g.Height-2 {
			y++
		}
	}
	return x, y
}

// finishOrganic prunes floor unreachable from start, puts the exit at the
// most distant cell and partitions the remaining floor with cellular noise
func finishOrganic(g *dungeon.Grid, start int, rng *rand.Rand) error {
	return finishOrganicWithin(g, start, rng, connectivity.DefaultMaxDepth)
}

func finishOrganicWithin(g *dungeon.Grid, start int, rng *rand.Rand, maxDepth float64) error {
	g.Tiles[start] = dungeon.Floor
	exit, err := connectivity.PruneUnreachableWithin(g, start, maxDepth)
	if err != nil {
		return fmt.Errorf("failed to place exit: %w", err)
	}
	g.TakeSnapshot("pruned")

	g.PlaceStairs(start, exit)
	g.TakeSnapshot("stairs")

	regions.Apply(g, regions.NewNoise(rng.Int63()))
	return nil
}

// finishRooms places stairs at the first and last room and makes one
// spawn region per room. A level with a single room gets its exit at the
// cell furthest from the room centre.
func finishRooms(g *dungeon.Grid, rooms []dungeon.Rect) error {
	if len(rooms) == 0 {
		return ErrNoRooms
	}
	first, last := rooms[0].Center(), rooms[len(rooms)-1].Center()
	up, down := g.Idx(first.X, first.Y), g.Idx(last.X, last.Y)
	if up == down {
		exit, err := connectivity.PruneUnreachable(g, up)
		if err != nil {
			return fmt.Errorf("failed to place exit: %w", err)
		}
		down = exit
	}

	g.PlaceStairs(up, down)
	g.TakeSnapshot("stairs")

	regions.Apply(g, regions.Rooms(rooms))
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
