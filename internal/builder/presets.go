package builder

import (
	"fmt"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

// Preset is a named builder configuration
type Preset struct {
	Name     string
	Kind     Kind
	Settings *Settings
}

// Builder creates and configures the preset's builder
func (p Preset) Builder(depth int, opts dungeon.Options) (Builder, error) {
	b, err := New(p.Kind, depth, opts)
	if err != nil {
		return nil, err
	}
	if p.Settings == nil {
		return b, nil
	}
	b, err = b.Configure(*p.Settings)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", p.Name, err)
	}
	return b, nil
}

func drunkard(spawn SpawnMode, lifetime int, floor float64, sym Symmetry, brush int) *Settings {
	return &Settings{
		SpawnMode:    Ptr(spawn),
		Lifetime:     Ptr(lifetime),
		FloorPercent: Ptr(floor),
		Symmetry:     Ptr(sym),
		BrushSize:    Ptr(brush),
	}
}

func dla(algorithm DLAAlgorithm, sym Symmetry, brush int) *Settings {
	return &Settings{
		Algorithm:    Ptr(algorithm),
		FloorPercent: Ptr(0.25),
		Symmetry:     Ptr(sym),
		BrushSize:    Ptr(brush),
	}
}

// Presets returns every named level style
func Presets() []Preset {
	return []Preset{
		{Name: "simple_map", Kind: KindSimpleMap},
		{Name: "bsp_dungeon", Kind: KindBSPDungeon},
		{Name: "bsp_interior", Kind: KindBSPInterior},
		{Name: "cellular_automata", Kind: KindCellularAutomata},
		{Name: "drunkard_open_area", Kind: KindDrunkardsWalk},
		{Name: "drunkard_open_halls", Kind: KindDrunkardsWalk, Settings: drunkard(SpawnRandom, 400, 0.5, SymmetryNone, 1)},
		{Name: "drunkard_winding_passages", Kind: KindDrunkardsWalk, Settings: drunkard(SpawnRandom, 100, 0.4, SymmetryNone, 1)},
		{Name: "drunkard_fat_passages", Kind: KindDrunkardsWalk, Settings: drunkard(SpawnRandom, 150, 0.45, SymmetryNone, 2)},
		{Name: "drunkard_fearful_symmetry", Kind: KindDrunkardsWalk, Settings: drunkard(SpawnRandom, 100, 0.4, SymmetryBoth, 2)},
		{Name: "maze", Kind: KindMaze},
		{Name: "dla_walk_inwards", Kind: KindDLA, Settings: dla(WalkInwards, SymmetryNone, 1)},
		{Name: "dla_walk_outwards", Kind: KindDLA, Settings: dla(WalkOutwards, SymmetryNone, 2)},
		{Name: "dla_central_attractor", Kind: KindDLA, Settings: dla(CentralAttractor, SymmetryNone, 2)},
		{Name: "dla_insectoid", Kind: KindDLA, Settings: dla(CentralAttractor, SymmetryHorizontal, 2)},
		{Name: "voronoi", Kind: KindVoronoi},
	}
}

// LookupPreset finds a preset by name
func LookupPreset(name string) (Preset, error) {
	for _, p := range Presets() {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("%w: no preset named %q", ErrUnknownKind, name)
}
