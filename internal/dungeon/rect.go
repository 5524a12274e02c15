package dungeon

// Rect is an axis-aligned rectangle used by room based builders.
// X2 and Y2 are inclusive bounds of the room's wall ring.
type Rect struct {
	X1, Y1, X2, Y2 int
}

// NewRect creates a rectangle from an origin and a size
func NewRect(x, y, w, h int) Rect {
	return Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// Intersects returns true if the closed spans of both rectangles overlap on both axes
func (r Rect) Intersects(other Rect) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 && r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}

// Center returns the integer midpoint of the rectangle
func (r Rect) Center() Point {
	return Point{X: (r.X1 + r.X2) / 2, Y: (r.Y1 + r.Y2) / 2}
}

// Width returns X2 - X1
func (r Rect) Width() int {
	return r.X2 - r.X1
}

// Height returns Y2 - Y1
func (r Rect) Height() int {
	return r.Y2 - r.Y1
}

// Contains reports whether the point lies within the closed rectangle
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}
