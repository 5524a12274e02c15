package mapgen

import (
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/builder"
)

// Entry is one row of the algorithm table
type Entry struct {
	Preset builder.Preset
	Weight int

	// WFC reports whether the preset's output may be resynthesized
	WFC bool
}

// Table picks presets at random in proportion to their weights
type Table struct {
	entries []Entry
	total   int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{}
}

// DefaultTable returns every preset with its standard weight. The plain room
// map and the maze keep their output; their patterns resynthesize poorly.
func DefaultTable() *Table {
	weights := map[string]int{
		"bsp_dungeon":               4,
		"simple_map":                4,
		"bsp_interior":              2,
		"cellular_automata":         2,
		"drunkard_open_area":        1,
		"drunkard_open_halls":       4,
		"drunkard_winding_passages": 4,
		"drunkard_fat_passages":     4,
		"drunkard_fearful_symmetry": 4,
		"maze":                      2,
		"dla_walk_inwards":          4,
		"dla_walk_outwards":         1,
		"dla_central_attractor":     1,
		"dla_insectoid":             1,
		"voronoi":                   1,
	}

	t := NewTable()
	for _, p := range builder.Presets() {
		t.Add(p, weights[p.Name], p.Kind != builder.KindSimpleMap && p.Kind != builder.KindMaze)
	}
	return t
}

// Add appends a preset. Entries with a weight of zero can be looked up but are never rolled.
func (t *Table) Add(p builder.Preset, weight int, wfc bool) *Table {
	weight = max(weight, 0)
	t.entries = append(t.entries, Entry{Preset: p, Weight: weight, WFC: wfc})
	t.total += weight
	return t
}

// Entries returns the rows of the table in insertion order
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// TotalWeight returns the sum of all weights
func (t *Table) TotalWeight() int {
	return t.total
}

// Lookup finds an entry by preset name
func (t *Table) Lookup(name string) (Entry, error) {
	for _, e := range t.entries {
		if e.Preset.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// WithWeights returns a copy of the table with some weights replaced
func (t *Table) WithWeights(weights map[string]int) (*Table, error) {
	for name := range weights {
		if _, err := t.Lookup(name); err != nil {
			return nil, err
		}
	}

	out := NewTable()
	for _, e := range t.entries {
		w := e.Weight
		if override, ok := weights[e.Preset.Name]; ok {
			w = override
		}
		out.Add(e.Preset, w, e.WFC)
	}
	return out, nil
}

// Roll picks an entry, each with probability weight / total weight
func (t *Table) Roll(rng *rand.Rand) (Entry, error) {
	if t.total <= 0 {
		return Entry{}, ErrEmptyTable
	}
	roll := rng.Intn(t.total)
	for _, e := range t.entries {
		if roll < e.Weight {
			return e, nil
		}
		roll -= e.Weight
	}
	return Entry{}, ErrEmptyTable
}
