package builder

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/zyedidia/generic/stack"
)

// mazeSnapshotEvery controls how often the maze is copied to the grid for playback
const mazeSnapshotEvery = 50

// Direction is a side of a maze cell
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// offset returns the column and row step for a direction
func (d Direction) offset() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	default:
		return -1, 0
	}
}

// mazeCell is one coarse cell. Walls are indexed by Direction.
type mazeCell struct {
	walls   [4]bool
	visited bool
}

// mazeGrid is the coarse maze. Cells live in a flat arena addressed by
// index, so carving between two cells never holds two references at once.
type mazeGrid struct {
	cols, rows int
	cells      []mazeCell
}

func newMazeGrid(cols, rows int) *mazeGrid {
	m := &mazeGrid{cols: cols, rows: rows, cells: make([]mazeCell, cols*rows)}
	for i := range m.cells {
		m.cells[i].walls = [4]bool{true, true, true, true}
	}
	return m
}

// neighbor returns the index of the cell beside idx, or -1 off the edge
func (m *mazeGrid) neighbor(idx int, d Direction) int {
	dc, dr := d.offset()
	col, row := idx%m.cols+dc, idx/m.cols+dr
	if col < 0 || row < 0 || col >= m.cols || row >= m.rows {
		return -1
	}
	return row*m.cols + col
}

// unvisited lists the directions leading to unvisited neighbours
func (m *mazeGrid) unvisited(idx int) []Direction {
	var dirs []Direction
	for d := North; d <= West; d++ {
		if n := m.neighbor(idx, d); n >= 0 && !m.cells[n].visited {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// removeWall knocks through the wall between idx and its neighbour
func (m *mazeGrid) removeWall(idx int, d Direction) int {
	n := m.neighbor(idx, d)
	m.cells[idx].walls[d] = false
	m.cells[n].walls[d.Opposite()] = false
	return n
}

// render draws the maze at double resolution: coarse cell c,r sits at
// fine cell 2(c+1),2(r+1) and open walls become the cells between
func (m *mazeGrid) render(g *dungeon.Grid) {
	g.FillWalls()
	for i, cell := range m.cells {
		x, y := 2*(i%m.cols+1), 2*(i/m.cols+1)
		g.Set(x, y, dungeon.Floor)
		for d := North; d <= West; d++ {
			if !cell.walls[d] {
				dx, dy := d.offset()
				g.Set(x+dx, y+dy, dungeon.Floor)
			}
		}
	}
}

// Maze carves a perfect maze with a depth-first recursive backtracker
type Maze struct {
	base
}

// NewMaze creates a maze builder
func NewMaze(depth int, opts dungeon.Options) Maze {
	return Maze{base: base{depth: depth, opts: opts}}
}

// Name implements Builder
func (b Maze) Name() string { return KindMaze.String() }

// Configure implements Builder. The maze takes no settings.
func (b Maze) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b Maze) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()
	m := newMazeGrid(g.Width/2-2, g.Height/2-2)
	if m.cols < 1 || m.rows < 1 {
		return nil, fmt.Errorf("%w: grid %dx%d is too small for a maze", ErrInvalidSetting, g.Width, g.Height)
	}

	backtrace := stack.New[int]()
	current := 0
	m.cells[current].visited = true

	for i := 0; ; i++ {
		if dirs := m.unvisited(current); len(dirs) > 0 {
			next := m.removeWall(current, dirs[rng.Intn(len(dirs))])
			m.cells[next].visited = true
			backtrace.Push(current)
			current = next
		} else if backtrace.Size() > 0 {
			current = backtrace.Pop()
		} else {
			break
		}

		if i%mazeSnapshotEvery == 0 && g.HistoryEnabled() {
			m.render(g)
			g.TakeSnapshot("maze")
		}
	}
	m.render(g)
	g.TakeSnapshot("maze")

	logger.Debug("Maze carved", "cells", len(m.cells), "depth", b.depth)

	// Corridors of a full maze run far past the default search radius
	if err := finishOrganicWithin(g, g.Idx(2, 2), rng, math.Inf(1)); err != nil {
		return nil, fmt.Errorf("maze: %w", err)
	}
	return g, nil
}
