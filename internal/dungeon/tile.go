package dungeon

// TileType represents the terrain of a single grid cell
type TileType int

const (
	Wall       TileType = iota // Solid rock, blocks movement
	Floor                      // Walkable ground
	UpStairs                   // Level entry point
	DownStairs                 // Exit to the next depth
)

// String returns the string representation of a TileType
func (t TileType) String() string {
	switch t {
	case Wall:
		return "wall"
	case Floor:
		return "floor"
	case UpStairs:
		return "up_stairs"
	case DownStairs:
		return "down_stairs"
	default:
		return "unknown"
	}
}

// Glyph returns the ASCII character used when dumping a level
func (t TileType) Glyph() rune {
	switch t {
	case Wall:
		return '#'
	case Floor:
		return '.'
	case UpStairs:
		return '<'
	case DownStairs:
		return '>'
	default:
		return '?'
	}
}

// ParseGlyph converts a dump character back into a TileType
func ParseGlyph(r rune) (TileType, bool) {
	switch r {
	case '#':
		return Wall, true
	case '.':
		return Floor, true
	case '<':
		return UpStairs, true
	case '>':
		return DownStairs, true
	default:
		return Wall, false
	}
}

// Walkable reports whether an entity may stand on the tile
func (t TileType) Walkable() bool {
	return t != Wall
}

// Point is a cell coordinate on the grid
type Point struct {
	X, Y int
}
