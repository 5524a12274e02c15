package wfc

import (
	"errors"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

var (
	ErrInvalidSize = errors.New("wfc: invalid chunk size")
	ErrNoPatterns  = errors.New("wfc: no patterns to solve with")
	ErrNoSolution  = errors.New("wfc: failed to find valid solution")
)

// Solver fills a grid of chunk cells with patterns so that every pair of
// neighbours agrees on its shared edge
type Solver struct {
	Cols, Rows int

	// Possible turns false once some cell has no candidate left. The caller
	// must then throw the solver away and start again.
	Possible bool

	chunks    []Chunk
	size      int
	cells     [][]bool // Candidate set per cell, indexed by pattern id
	remaining []int    // Candidates left per cell
	chosen    []int    // Collapsed pattern per cell, -1 while open
}

// NewSolver creates a solver covering as many whole chunks as fit in width x height
func NewSolver(chunks []Chunk, width, height int) (*Solver, error) {
	if len(chunks) == 0 {
		return nil, ErrNoPatterns
	}
	size := chunks[0].Size
	cols, rows := width/size, height/size
	if size < 1 || cols < 1 || rows < 1 {
		return nil, ErrInvalidSize
	}

	s := &Solver{
		Cols:      cols,
		Rows:      rows,
		Possible:  true,
		chunks:    chunks,
		size:      size,
		cells:     make([][]bool, cols*rows),
		remaining: make([]int, cols*rows),
		chosen:    make([]int, cols*rows),
	}
	for i := range s.cells {
		s.cells[i] = make([]bool, len(chunks))
		for p := range s.cells[i] {
			s.cells[i][p] = true
		}
		s.remaining[i] = len(chunks)
		s.chosen[i] = -1
	}
	return s, nil
}

// Entropy returns how many patterns cell i could still take
func (s *Solver) Entropy(i int) int {
	return s.remaining[i]
}

// Chosen returns the pattern a cell collapsed to, or -1
func (s *Solver) Chosen(i int) int {
	return s.chosen[i]
}

// Iteration collapses one cell and propagates the result.
// It returns true when the solve is over, either complete or impossible.
func (s *Solver) Iteration(rng *rand.Rand) bool {
	if !s.Possible {
		return true
	}

	cell := s.lowestEntropy()
	if cell < 0 {
		return true
	}

	s.collapse(cell, rng)
	if !s.propagate(cell) {
		s.Possible = false
		return true
	}
	return false
}

// Solve iterates until the solver finishes, calling step after every
// iteration that leaves work to do. It reports whether a solution was found.
func (s *Solver) Solve(rng *rand.Rand, step func()) bool {
	for !s.Iteration(rng) {
		if step != nil {
			step()
		}
	}
	return s.Possible
}

// Render draws every collapsed cell onto g at its chunk offset
func (s *Solver) Render(g *dungeon.Grid) {
	for i, p := range s.chosen {
		if p < 0 {
			continue
		}
		x, y := (i%s.Cols)*s.size, (i/s.Cols)*s.size
		s.chunks[p].renderAt(g, x, y)
	}
}

// lowestEntropy returns the open cell with the fewest candidates, first in
// scan order on ties, or -1 when every cell is collapsed
func (s *Solver) lowestEntropy() int {
	best := -1
	for i, p := range s.chosen {
		if p >= 0 {
			continue
		}
		if best < 0 || s.remaining[i] < s.remaining[best] {
			best = i
		}
	}
	return best
}

// collapse fixes a cell to one of its candidates, weighted by pattern count
func (s *Solver) collapse(cell int, rng *rand.Rand) {
	total := 0
	for p, ok := range s.cells[cell] {
		if ok {
			total += s.chunks[p].Count
		}
	}

	pick := -1
	roll := rng.Intn(max(total, 1))
	for p, ok := range s.cells[cell] {
		if !ok {
			continue
		}
		pick = p
		roll -= s.chunks[p].Count
		if roll < 0 {
			break
		}
	}

	for p := range s.cells[cell] {
		s.cells[cell][p] = p == pick
	}
	s.remaining[cell] = 1
	s.chosen[cell] = pick
}

// propagate removes candidates that no longer fit beside a changed cell,
// cascading until nothing else changes. It returns false on a contradiction.
func (s *Solver) propagate(start int) bool {
	queue := []int{start}
	allowed := make([]bool, len(s.chunks))

	for len(queue) > 0 {
		cell := queue[0]
		queue = queue[1:]

		cx, cy := cell%s.Cols, cell/s.Cols
		for _, d := range AllDirections() {
			dx, dy := d.offset()
			nx, ny := cx+dx, cy+dy
			if nx < 0 || ny < 0 || nx >= s.Cols || ny >= s.Rows {
				continue
			}
			n := ny*s.Cols + nx

			clear(allowed)
			for p, ok := range s.cells[cell] {
				if !ok {
					continue
				}
				for _, q := range s.chunks[p].Compatible[d] {
					allowed[q] = true
				}
			}

			changed := false
			for q, ok := range s.cells[n] {
				if ok && !allowed[q] {
					s.cells[n][q] = false
					s.remaining[n]--
					changed = true
				}
			}
			if !changed {
				continue
			}
			if s.remaining[n] == 0 {
				return false
			}
			queue = append(queue, n)
		}
	}
	return true
}
