package connectivity

import (
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/zyedidia/generic/mapset"
)

// PruneUnreachable walls off every floor cell that cannot be reached from
// start within DefaultMaxDepth and returns the reachable floor cell with the
// greatest cost. Ties go to the first cell in scan order.
func PruneUnreachable(g *dungeon.Grid, start int) (int, error) {
	return PruneUnreachableWithin(g, start, DefaultMaxDepth)
}

// PruneUnreachableWithin is PruneUnreachable with an explicit search radius
func PruneUnreachableWithin(g *dungeon.Grid, start int, maxDepth float64) (int, error) {
	g.PopulateBlocked()
	m, err := Build(g, []int{start}, maxDepth)
	if err != nil {
		return 0, err
	}

	exit, exitDist := start, 0.0
	for i, t := range g.Tiles {
		if t != dungeon.Floor {
			continue
		}
		d := m.Distances[i]
		if d == Unreached {
			g.Tiles[i] = dungeon.Wall
			continue
		}
		if d > exitDist {
			exit, exitDist = i, d
		}
	}
	g.PopulateBlocked()

	if exit == start {
		return start, ErrNoExit
	}
	return exit, nil
}

// FindEntry picks a starting cell: the first floor found walking left from
// the centre, falling back to the floor cell closest to the centre.
func FindEntry(g *dungeon.Grid) (int, error) {
	cx, cy := g.Width/2, g.Height/2
	for x := cx; x > 0; x-- {
		if g.Classify(x, cy) == dungeon.Floor {
			return g.Idx(x, cy), nil
		}
	}

	best, bestDist := -1, 0
	for i, t := range g.Tiles {
		if t != dungeon.Floor {
			continue
		}
		x, y := g.Coords(i)
		d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return 0, ErrNoEntry
	}
	return best, nil
}

// FindMainEntry picks a starting cell inside the largest connected area of
// floor: the cell of that area closest to the centre, first in scan order
// on ties.
func FindMainEntry(g *dungeon.Grid) (int, error) {
	g.PopulateBlocked()
	labelled := make([]bool, len(g.Tiles))
	var largest mapset.Set[int]
	found := false
	for i, t := range g.Tiles {
		if t != dungeon.Floor || labelled[i] {
			continue
		}
		area, err := Reachable(g, i)
		if err != nil {
			return 0, err
		}
		area.Each(func(idx int) { labelled[idx] = true })
		if !found || area.Size() > largest.Size() {
			largest, found = area, true
		}
	}
	if !found {
		return 0, ErrNoEntry
	}

	cx, cy := g.Width/2, g.Height/2
	best, bestDist := -1, 0
	largest.Each(func(idx int) {
		x, y := g.Coords(idx)
		d := (x-cx)*(x-cx) + (y-cy)*(y-cy)
		if best < 0 || d < bestDist || (d == bestDist && idx < best) {
			best, bestDist = idx, d
		}
	})
	return best, nil
}
