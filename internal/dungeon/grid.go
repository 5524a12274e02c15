package dungeon

import (
	"sort"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

const (
	DefaultWidth  = 80
	DefaultHeight = 43
)

// Options controls how a Grid is constructed
type Options struct {
	Width  int
	Height int

	// HistoryEnabled records a snapshot after every structural change
	// so that generation can be replayed by the playback tools.
	HistoryEnabled bool
}

// DefaultOptions returns the standard 80x43 layout with history disabled
func DefaultOptions() Options {
	return Options{
		Width:  DefaultWidth,
		Height: DefaultHeight,
	}
}

// Grid is a single dungeon level
type Grid struct {
	Width  int
	Height int
	Depth  int

	Tiles    []TileType
	Blocked  []bool
	Revealed []bool
	Visible  []bool

	Upstairs    Point
	Regions     map[int][]int
	BloodStains mapset.Set[int]

	History        []Snapshot
	historyEnabled bool

	// occupants is the per-cell entity index maintained by gameplay code.
	// It is rebuilt every turn and never saved.
	occupants [][]uuid.UUID
}

// New creates a grid filled with walls
func New(depth int, opts Options) *Grid {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}

	size := opts.Width * opts.Height
	return &Grid{
		Width:          opts.Width,
		Height:         opts.Height,
		Depth:          depth,
		Tiles:          make([]TileType, size),
		Blocked:        make([]bool, size),
		Revealed:       make([]bool, size),
		Visible:        make([]bool, size),
		Regions:        make(map[int][]int),
		BloodStains:    mapset.New[int](),
		historyEnabled: opts.HistoryEnabled,
		occupants:      make([][]uuid.UUID, size),
	}
}

// Options returns the construction options of the grid
func (g *Grid) Options() Options {
	return Options{Width: g.Width, Height: g.Height, HistoryEnabled: g.historyEnabled}
}

// Idx converts a coordinate into a flat tile index
func (g *Grid) Idx(x, y int) int {
	return y*g.Width + x
}

// Coords converts a flat tile index back into a coordinate
func (g *Grid) Coords(idx int) (int, int) {
	return idx % g.Width, idx / g.Width
}

// InBounds reports whether the coordinate lies on the grid
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Classify returns the tile at x,y. Out of bounds cells are walls.
func (g *Grid) Classify(x, y int) TileType {
	if !g.InBounds(x, y) {
		return Wall
	}
	return g.Tiles[g.Idx(x, y)]
}

// Set changes the tile at x,y. Out of bounds writes are ignored.
func (g *Grid) Set(x, y int, t TileType) {
	if g.InBounds(x, y) {
		g.Tiles[g.Idx(x, y)] = t
	}
}

// IsBlocked reports whether movement into x,y is blocked
func (g *Grid) IsBlocked(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	return g.Blocked[g.Idx(x, y)]
}

// PopulateBlocked recomputes the blocked table from the tiles
func (g *Grid) PopulateBlocked() {
	for i, t := range g.Tiles {
		g.Blocked[i] = t == Wall
	}
}

// EntryPoint returns the position of the up staircase
func (g *Grid) EntryPoint() Point {
	return g.Upstairs
}

// PlaceStairs puts the up staircase on one cell and the down staircase on another
func (g *Grid) PlaceStairs(up, down int) {
	ux, uy := g.Coords(up)
	g.Tiles[up] = UpStairs
	g.Upstairs = Point{X: ux, Y: uy}
	g.Tiles[down] = DownStairs
	g.PopulateBlocked()
}

// Exit returns the position of the first down staircase
func (g *Grid) Exit() (Point, bool) {
	for i, t := range g.Tiles {
		if t == DownStairs {
			x, y := g.Coords(i)
			return Point{X: x, Y: y}, true
		}
	}
	return Point{}, false
}

// Count returns how many cells hold the given tile
func (g *Grid) Count(t TileType) int {
	n := 0
	for _, tile := range g.Tiles {
		if tile == t {
			n++
		}
	}
	return n
}

// FloorFraction returns the share of cells that are plain floor
func (g *Grid) FloorFraction() float64 {
	return float64(g.Count(Floor)) / float64(len(g.Tiles))
}

// FillWalls resets every cell to wall
func (g *Grid) FillWalls() {
	for i := range g.Tiles {
		g.Tiles[i] = Wall
	}
}

// MakeBoundaryWalls seals the outer ring of the grid
func (g *Grid) MakeBoundaryWalls() {
	for x := 0; x < g.Width; x++ {
		g.Set(x, 0, Wall)
		g.Set(x, g.Height-1, Wall)
	}
	for y := 0; y < g.Height; y++ {
		g.Set(0, y, Wall)
		g.Set(g.Width-1, y, Wall)
	}
}

// EachRegion calls fn for every spawn region in ascending id order
func (g *Grid) EachRegion(fn func(id int, cells []int)) {
	ids := make([]int, 0, len(g.Regions))
	for id := range g.Regions {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fn(id, g.Regions[id])
	}
}

// AddBloodStain marks a cell as stained
func (g *Grid) AddBloodStain(idx int) {
	g.BloodStains.Put(idx)
}

// AddOccupant records an entity standing on the cell
func (g *Grid) AddOccupant(idx int, id uuid.UUID) {
	g.occupants[idx] = append(g.occupants[idx], id)
}

// Occupants returns the entities standing on the cell
func (g *Grid) Occupants(idx int) []uuid.UUID {
	return g.occupants[idx]
}

// ClearOccupants empties the occupancy index
func (g *Grid) ClearOccupants() {
	for i := range g.occupants {
		g.occupants[i] = nil
	}
}

// Clone returns a deep copy of the grid without its history or occupancy index
func (g *Grid) Clone() *Grid {
	c := New(g.Depth, g.Options())
	copy(c.Tiles, g.Tiles)
	copy(c.Blocked, g.Blocked)
	copy(c.Revealed, g.Revealed)
	copy(c.Visible, g.Visible)
	c.Upstairs = g.Upstairs
	for id, cells := range g.Regions {
		c.Regions[id] = append([]int(nil), cells...)
	}
	g.BloodStains.Each(func(idx int) {
		c.BloodStains.Put(idx)
	})
	return c
}
