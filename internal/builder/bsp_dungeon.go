package builder

import (
	"math/rand"
	"sort"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

// BSPAttempts is how many candidate rooms the BSP dungeon tries to place
const BSPAttempts = 240

// BSPDungeon carves rooms into a recursively quartered space, keeping a
// two cell margin of rock between them, then joins them left to right
type BSPDungeon struct {
	base
}

// NewBSPDungeon creates a BSP dungeon builder
func NewBSPDungeon(depth int, opts dungeon.Options) BSPDungeon {
	return BSPDungeon{base: base{depth: depth, opts: opts}}
}

// Name implements Builder
func (b BSPDungeon) Name() string { return KindBSPDungeon.String() }

// Configure implements Builder. The BSP dungeon takes no settings.
func (b BSPDungeon) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b BSPDungeon) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()

	first := dungeon.NewRect(2, 2, g.Width-5, g.Height-5)
	rects := quarter([]dungeon.Rect{first}, first)
	var rooms []dungeon.Rect

	for i := 0; i < BSPAttempts; i++ {
		rect := rects[0]
		if len(rects) > 1 {
			rect = rects[rng.Intn(len(rects))]
		}
		candidate := subRect(rng, rect)
		if !roomFits(g, candidate) {
			continue
		}
		applyRoom(g, candidate)
		rooms = append(rooms, candidate)
		rects = quarter(rects, rect)
		g.TakeSnapshot("room")
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].X1 < rooms[j].X1
	})

	for i := 0; i+1 < len(rooms); i++ {
		drawCorridor(g, interiorPoint(rng, rooms[i]), interiorPoint(rng, rooms[i+1]))
		g.TakeSnapshot("corridor")
	}

	logger.Debug("BSP dungeon rooms placed", "rooms", len(rooms), "partitions", len(rects), "depth", b.depth)

	if err := finishRooms(g, rooms); err != nil {
		return nil, err
	}
	return g, nil
}

// quarter appends the four quadrants of rect
func quarter(rects []dungeon.Rect, rect dungeon.Rect) []dungeon.Rect {
	halfW := max(rect.Width()/2, 1)
	halfH := max(rect.Height()/2, 1)
	return append(rects,
		dungeon.NewRect(rect.X1, rect.Y1, halfW, halfH),
		dungeon.NewRect(rect.X1, rect.Y1+halfH, halfW, halfH),
		dungeon.NewRect(rect.X1+halfW, rect.Y1, halfW, halfH),
		dungeon.NewRect(rect.X1+halfW, rect.Y1+halfH, halfW, halfH),
	)
}

// subRect picks a room of 4 to 10 cells a side near the corner of rect
func subRect(rng *rand.Rand, rect dungeon.Rect) dungeon.Rect {
	w := max(3, roll(rng, min(rect.Width(), 10))-1) + 1
	h := max(3, roll(rng, min(rect.Height(), 10))-1) + 1
	x := rect.X1 + roll(rng, 6) - 1
	y := rect.Y1 + roll(rng, 6) - 1
	return dungeon.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}
}

// roomFits reports whether the room plus a two cell margin is solid rock
// inside the outer ring
func roomFits(g *dungeon.Grid, room dungeon.Rect) bool {
	for y := room.Y1 - 2; y <= room.Y2+2; y++ {
		for x := room.X1 - 2; x <= room.X2+2; x++ {
			if x < 1 || y < 1 || x > g.Width-2 || y > g.Height-2 {
				return false
			}
			if g.Classify(x, y) != dungeon.Wall {
				return false
			}
		}
	}
	return true
}
