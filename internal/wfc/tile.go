package wfc

import (
	"slices"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

// Direction represents a side of a chunk
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Opposite returns the opposite direction
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case East:
		return West
	case South:
		return North
	case West:
		return East
	default:
		return d
	}
}

// offset returns the column and row step toward a direction
func (d Direction) offset() (int, int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	}
	return 0, 0
}

// AllDirections returns all four cardinal directions
func AllDirections() []Direction {
	return []Direction{North, East, South, West}
}

// Pattern is a square block of tiles learned from a source map
type Pattern struct {
	Size  int
	Tiles []dungeon.TileType // Row major, Size*Size
	Count int                // How often the block occurred, used as its weight
}

// At returns the tile at x,y inside the pattern
func (p Pattern) At(x, y int) dungeon.TileType {
	return p.Tiles[y*p.Size+x]
}

// Edge returns the tiles along one side, left to right or top to bottom
func (p Pattern) Edge(d Direction) []dungeon.TileType {
	edge := make([]dungeon.TileType, p.Size)
	last := p.Size - 1
	for i := range edge {
		switch d {
		case North:
			edge[i] = p.At(i, 0)
		case South:
			edge[i] = p.At(i, last)
		case West:
			edge[i] = p.At(0, i)
		case East:
			edge[i] = p.At(last, i)
		}
	}
	return edge
}

// key identifies patterns with the same tiles
func (p Pattern) key() string {
	b := make([]byte, len(p.Tiles))
	for i, t := range p.Tiles {
		b[i] = byte(t)
	}
	return string(b)
}

// mirror returns a copy of the pattern flipped left to right, top to bottom, or both
func (p Pattern) mirror(flipX, flipY bool) Pattern {
	out := Pattern{Size: p.Size, Tiles: make([]dungeon.TileType, len(p.Tiles)), Count: p.Count}
	last := p.Size - 1
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			sx, sy := x, y
			if flipX {
				sx = last - x
			}
			if flipY {
				sy = last - y
			}
			out.Tiles[y*p.Size+x] = p.At(sx, sy)
		}
	}
	return out
}

// renderAt copies the pattern onto g with its top left corner at x,y
func (p Pattern) renderAt(g *dungeon.Grid, x, y int) {
	for py := 0; py < p.Size; py++ {
		for px := 0; px < p.Size; px++ {
			g.Set(x+px, y+py, p.At(px, py))
		}
	}
}

// ExtractPatterns cuts the source into non-overlapping chunkSize windows and
// returns the distinct blocks in first seen order. Stairs are read as floor.
// With mirror set, every window also contributes its three reflections.
func ExtractPatterns(g *dungeon.Grid, chunkSize int, mirror bool) ([]Pattern, error) {
	if chunkSize < 1 || chunkSize > g.Width || chunkSize > g.Height {
		return nil, ErrInvalidSize
	}

	var patterns []Pattern
	seen := make(map[string]int)
	add := func(p Pattern) {
		k := p.key()
		if i, ok := seen[k]; ok {
			patterns[i].Count++
			return
		}
		seen[k] = len(patterns)
		p.Count = 1
		patterns = append(patterns, p)
	}

	for cy := 0; cy < g.Height/chunkSize; cy++ {
		for cx := 0; cx < g.Width/chunkSize; cx++ {
			p := Pattern{Size: chunkSize, Tiles: make([]dungeon.TileType, 0, chunkSize*chunkSize)}
			for y := cy * chunkSize; y < (cy+1)*chunkSize; y++ {
				for x := cx * chunkSize; x < (cx+1)*chunkSize; x++ {
					t := g.Classify(x, y)
					if t == dungeon.UpStairs || t == dungeon.DownStairs {
						t = dungeon.Floor
					}
					p.Tiles = append(p.Tiles, t)
				}
			}

			add(p)
			if mirror {
				add(p.mirror(true, false))
				add(p.mirror(false, true))
				add(p.mirror(true, true))
			}
		}
	}
	return patterns, nil
}

func edgesMatch(a, b []dungeon.TileType) bool {
	return slices.Equal(a, b)
}
