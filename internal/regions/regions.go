// Package regions splits the floor of a level into spawn regions.
package regions

import (
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/zyedidia/generic/mapset"
)

// Partitioner groups floor cells into disjoint regions keyed by an opaque id
type Partitioner interface {
	Partition(g *dungeon.Grid) map[int][]int
}

// Rooms partitions by room: each rectangle becomes one region holding the
// floor cells inside it. A cell covered by two rooms belongs to the first.
type Rooms []dungeon.Rect

// Partition implements Partitioner
func (rooms Rooms) Partition(g *dungeon.Grid) map[int][]int {
	out := make(map[int][]int, len(rooms))
	claimed := mapset.New[int]()

	for id, room := range rooms {
		var cells []int
		for y := room.Y1; y <= room.Y2; y++ {
			for x := room.X1; x <= room.X2; x++ {
				if g.Classify(x, y) != dungeon.Floor {
					continue
				}
				idx := g.Idx(x, y)
				if claimed.Has(idx) {
					continue
				}
				claimed.Put(idx)
				cells = append(cells, idx)
			}
		}
		if len(cells) > 0 {
			out[id] = cells
		}
	}
	return out
}

// Apply partitions the grid and stores the result on it
func Apply(g *dungeon.Grid, p Partitioner) {
	g.Regions = p.Partition(g)
}
