package builder

import (
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
)

const (
	SimpleMaxRooms = 30
	SimpleMinSize  = 6
	SimpleMaxSize  = 10
)

// SimpleMap scatters non-overlapping rooms and joins each one to the
// previous with an L-shaped corridor
type SimpleMap struct {
	base
}

// NewSimpleMap creates a rooms and corridors builder
func NewSimpleMap(depth int, opts dungeon.Options) SimpleMap {
	return SimpleMap{base: base{depth: depth, opts: opts}}
}

// Name implements Builder
func (b SimpleMap) Name() string { return KindSimpleMap.String() }

// Configure implements Builder. The simple map takes no settings.
func (b SimpleMap) Configure(Settings) (Builder, error) { return b, nil }

// Build implements Builder
func (b SimpleMap) Build(rng *rand.Rand) (*dungeon.Grid, error) {
	g := b.newGrid()
	var rooms []dungeon.Rect

	for i := 0; i < SimpleMaxRooms; i++ {
		w := between(rng, SimpleMinSize, SimpleMaxSize)
		h := between(rng, SimpleMinSize, SimpleMaxSize)
		x := roll(rng, g.Width-w-2)
		y := roll(rng, g.Height-h-2)
		room := dungeon.NewRect(x, y, w, h)

		ok := true
		for _, other := range rooms {
			if room.Intersects(other) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}

		applyRoom(g, room)
		g.TakeSnapshot("room")

		if len(rooms) > 0 {
			next, prev := room.Center(), rooms[len(rooms)-1].Center()
			if rng.Intn(2) == 1 {
				horizontalTunnel(g, prev.X, next.X, prev.Y)
				verticalTunnel(g, prev.Y, next.Y, next.X)
			} else {
				verticalTunnel(g, prev.Y, next.Y, prev.X)
				horizontalTunnel(g, prev.X, next.X, next.Y)
			}
			g.TakeSnapshot("corridor")
		}
		rooms = append(rooms, room)
	}

	logger.Debug("Simple map rooms placed", "rooms", len(rooms), "depth", b.depth)

	if err := finishRooms(g, rooms); err != nil {
		return nil, err
	}
	return g, nil
}
