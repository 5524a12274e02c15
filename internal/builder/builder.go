// Package builder contains the level generation algorithms.
//
// Every algorithm implements Builder. A builder is a value: Configure
// returns a modified copy and Build never changes the receiver, so one
// configured builder can produce any number of levels.
package builder

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

var (
	ErrUnknownKind    = errors.New("builder: unknown algorithm")
	ErrMissingSetting = errors.New("builder: missing required setting")
	ErrInvalidSetting = errors.New("builder: invalid setting")
	ErrNoRooms        = errors.New("builder: no rooms could be placed")
)

// Builder produces a finished level.
//
// When Build returns without error the level has exactly one up and one
// down staircase, every floor cell is reachable from the up staircase and
// spawn regions are populated.
type Builder interface {
	Name() string
	Configure(settings Settings) (Builder, error)
	Build(rng *rand.Rand) (*dungeon.Grid, error)
}

// Kind identifies a generation algorithm
type Kind int

const (
	KindSimpleMap Kind = iota
	KindBSPDungeon
	KindBSPInterior
	KindCellularAutomata
	KindDrunkardsWalk
	KindDLA
	KindMaze
	KindVoronoi
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindSimpleMap:
		return "simple_map"
	case KindBSPDungeon:
		return "bsp_dungeon"
	case KindBSPInterior:
		return "bsp_interior"
	case KindCellularAutomata:
		return "cellular_automata"
	case KindDrunkardsWalk:
		return "drunkards_walk"
	case KindDLA:
		return "dla"
	case KindMaze:
		return "maze"
	case KindVoronoi:
		return "voronoi"
	default:
		return "unknown"
	}
}

// ParseKind converts a name produced by Kind.String back into a Kind
func ParseKind(name string) (Kind, error) {
	for _, k := range AllKinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// AllKinds returns every algorithm
func AllKinds() []Kind {
	return []Kind{
		KindSimpleMap,
		KindBSPDungeon,
		KindBSPInterior,
		KindCellularAutomata,
		KindDrunkardsWalk,
		KindDLA,
		KindMaze,
		KindVoronoi,
	}
}

// New creates a builder for a fresh level at the given depth
func New(kind Kind, depth int, opts dungeon.Options) (Builder, error) {
	switch kind {
	case KindSimpleMap:
		return NewSimpleMap(depth, opts), nil
	case KindBSPDungeon:
		return NewBSPDungeon(depth, opts), nil
	case KindBSPInterior:
		return NewBSPInterior(depth, opts), nil
	case KindCellularAutomata:
		return NewCellularAutomata(depth, opts), nil
	case KindDrunkardsWalk:
		return NewDrunkardsWalk(depth, opts), nil
	case KindDLA:
		return NewDLA(depth, opts), nil
	case KindMaze:
		return NewMaze(depth, opts), nil
	case KindVoronoi:
		return NewVoronoi(depth, opts), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// base carries what every builder needs to allocate its grid
type base struct {
	depth int
	opts  dungeon.Options
}

func (b base) newGrid() *dungeon.Grid {
	return dungeon.New(b.depth, b.opts)
}
