package connectivity

import (
	"errors"
	"math"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/zyedidia/generic/heap"
	"github.com/zyedidia/generic/mapset"
)

const (
	CardinalCost    = 1.0
	DiagonalCost    = 1.45
	DefaultMaxDepth = 200.0
)

// Unreached marks cells the search never labelled
const Unreached = math.MaxFloat64

var (
	ErrStartOutOfRange = errors.New("connectivity: start index out of range")
	ErrNoExit          = errors.New("connectivity: no reachable cell other than the start")
	ErrNoEntry         = errors.New("connectivity: grid has no floor")
)

var neighborOffsets = [8]struct {
	dx, dy int
	cost   float64
}{
	{-1, 0, CardinalCost},
	{1, 0, CardinalCost},
	{0, -1, CardinalCost},
	{0, 1, CardinalCost},
	{-1, -1, DiagonalCost},
	{1, -1, DiagonalCost},
	{-1, 1, DiagonalCost},
	{1, 1, DiagonalCost},
}

// Exit is a valid step from a cell
type Exit struct {
	Idx  int
	Cost float64
}

// Map holds the cost of reaching every cell from a set of starting cells
type Map struct {
	Width     int
	Height    int
	MaxDepth  float64
	Distances []float64
}

// Reached reports whether the cell was labelled by the search
func (m *Map) Reached(idx int) bool {
	return m.Distances[idx] != Unreached
}

// IsExitValid reports whether an entity may step onto x,y
func IsExitValid(g *dungeon.Grid, x, y int) bool {
	if x < 1 || x > g.Width-1 || y < 1 || y > g.Height-1 {
		return false
	}
	return g.Classify(x, y) != dungeon.Wall
}

// Exits lists the valid steps out of a cell
func Exits(g *dungeon.Grid, idx int) []Exit {
	exits := make([]Exit, 0, len(neighborOffsets))
	x, y := g.Coords(idx)
	for _, n := range neighborOffsets {
		nx, ny := x+n.dx, y+n.dy
		if IsExitValid(g, nx, ny) {
			exits = append(exits, Exit{Idx: g.Idx(nx, ny), Cost: n.cost})
		}
	}
	return exits
}

type node struct {
	idx  int
	dist float64
}

// Build labels every cell with its cheapest cost from any of the starts.
// Cells further than maxDepth are left Unreached.
func Build(g *dungeon.Grid, starts []int, maxDepth float64) (*Map, error) {
	m := &Map{
		Width:     g.Width,
		Height:    g.Height,
		MaxDepth:  maxDepth,
		Distances: make([]float64, len(g.Tiles)),
	}
	for i := range m.Distances {
		m.Distances[i] = Unreached
	}

	pq := heap.New[node](func(a, b node) bool {
		return a.dist < b.dist
	})
	for _, s := range starts {
		if s < 0 || s >= len(g.Tiles) {
			return nil, ErrStartOutOfRange
		}
		m.Distances[s] = 0
		pq.Push(node{idx: s, dist: 0})
	}

	for pq.Size() > 0 {
		cur, _ := pq.Pop()
		// Stale entry left behind by a later, cheaper push
		if cur.dist > m.Distances[cur.idx] {
			continue
		}
		for _, exit := range Exits(g, cur.idx) {
			next := cur.dist + exit.Cost
			if next > maxDepth || next >= m.Distances[exit.Idx] {
				continue
			}
			m.Distances[exit.Idx] = next
			pq.Push(node{idx: exit.Idx, dist: next})
		}
	}

	return m, nil
}

// Reachable returns every cell that can be reached from start with no cost limit
func Reachable(g *dungeon.Grid, start int) (mapset.Set[int], error) {
	m, err := Build(g, []int{start}, math.Inf(1))
	if err != nil {
		return mapset.New[int](), err
	}
	set := mapset.New[int]()
	for i := range m.Distances {
		if m.Reached(i) {
			set.Put(i)
		}
	}
	return set, nil
}
