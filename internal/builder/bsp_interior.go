package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// InteriorMinRoomSize stops the interior split once a half would be this small
const InteriorMinRoomSize = 8

// BSPInterior bisects the whole map into rooms separated by single walls,
// like the inside of a building
type BSPInterior struct {
	base
}

// NewBSPInterior creates a BSP interior builder
func NewBSPInterior(depth int, opts dungeon.Options) BSPInterior {
	return BSPInterior{base: base{depth: depth, opts: opts}}
}

// Name implements Builder
func (b BSPInterior) Name() string { return KindBSPInterior.String() }

// Configure implements Builder. The BSP interior takes no settings.
func (b BSPInterior) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b BSPInterior) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()

	rooms := bisect(rng, nil, dungeon.NewRect(1, 1, g.Width-2, g.Height-2))
	for _, room := range rooms {
		for y := room.Y1; y < room.Y2; y++ {
			for x := room.X1; x < room.X2; x++ {
				if x > 0 && y > 0 && x < g.Width-1 && y < g.Height-1 {
					g.Set(x, y, dungeon.Floor)
				}
			}
		}
		g.TakeSnapshot("room")
	}

	for i := 0; i+1 < len(rooms); i++ {
		drawCorridor(g, leafPoint(rng, rooms[i]), leafPoint(rng, rooms[i+1]))
		g.TakeSnapshot("corridor")
	}

	logger.Debug("BSP interior rooms placed", "rooms", len(rooms), "depth", b.depth)

	carved := make([]dungeon.Rect, len(rooms))
	for i, room := range rooms {
		carved[i] = carvedArea(room)
	}
	if err := finishRooms(g, carved); err != nil {
		return nil, err
	}
	return g, nil
}

// carvedArea converts a leaf, carved over [X1,X2) x [Y1,Y2), to the closed
// rectangle of the cells it actually opened
func carvedArea(room dungeon.Rect) dungeon.Rect {
	return dungeon.Rect{X1: room.X1, Y1: room.Y1, X2: room.X2 - 1, Y2: room.Y2 - 1}
}

// bisect splits rect in two along a random axis and recurses while the
// halves stay larger than InteriorMinRoomSize. Leaves are appended in order.
func bisect(rng *rand.Rand, leaves []dungeon.Rect, rect dungeon.Rect) []dungeon.Rect {
	w, h := rect.Width(), rect.Height()
	halfW, halfH := w/2, h/2

	var first, second dungeon.Rect
	var half int
	if roll(rng, 4) <= 2 {
		first = dungeon.NewRect(rect.X1, rect.Y1, halfW-1, h)
		second = dungeon.NewRect(rect.X1+halfW, rect.Y1, halfW, h)
		half = halfW
	} else {
		first = dungeon.NewRect(rect.X1, rect.Y1, w, halfH-1)
		second = dungeon.NewRect(rect.X1, rect.Y1+halfH, w, halfH)
		half = halfH
	}

	for _, child := range []dungeon.Rect{first, second} {
		if half > InteriorMinRoomSize {
			leaves = bisect(rng, leaves, child)
		} else {
			leaves = append(leaves, child)
		}
	}
	return leaves
}

// leafPoint picks a random cell of a room carved over [X1,X2) x [Y1,Y2)
func leafPoint(rng *rand.Rand, room dungeon.Rect) dungeon.Point {
	return dungeon.Point{
		X: room.X1 + roll(rng, room.Width()) - 1,
		Y: room.Y1 + roll(rng, room.Height()) - 1,
	}
}
