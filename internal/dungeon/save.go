package dungeon

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidSave      = errors.New("dungeon: invalid save data")
	ErrChecksumMismatch = errors.New("dungeon: save checksum mismatch")
)

// LevelData is the serialized form of a Grid.
// The occupancy index and generation history are not part of it.
type LevelData struct {
	Depth       int          `yaml:"depth"`
	Width       int          `yaml:"width"`
	Height      int          `yaml:"height"`
	SavedAt     time.Time    `yaml:"saved_at"`
	Upstairs    Point        `yaml:"upstairs"`
	Downstairs  *Point       `yaml:"downstairs,omitempty"`
	Rows        []string     `yaml:"rows"`
	Revealed    []int        `yaml:"revealed,omitempty"`
	Regions     []RegionData `yaml:"regions,omitempty"`
	BloodStains []int        `yaml:"blood_stains,omitempty"`
	Checksum    string       `yaml:"checksum"`
}

// RegionData is a serialized spawn region
type RegionData struct {
	ID    int   `yaml:"id"`
	Cells []int `yaml:"cells,flow"`
}

// Marshal encodes the grid as a YAML save document
func Marshal(g *Grid) ([]byte, error) {
	data := toLevelData(g)
	out, err := yaml.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal level data: %w", err)
	}
	return out, nil
}

// Unmarshal decodes a YAML save document into a grid
func Unmarshal(raw []byte) (*Grid, error) {
	var data LevelData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse level YAML: %w", err)
	}
	return fromLevelData(data)
}

// Save writes the grid to a YAML file
func Save(g *Grid, filename string) error {
	out, err := Marshal(g)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, out, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}
	return nil
}

// Load reads a grid from a YAML file
func Load(filename string) (*Grid, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}
	return Unmarshal(raw)
}

// Checksum returns a hex encoded BLAKE2b-256 digest of the level layout
func Checksum(g *Grid) string {
	h, _ := blake2b.New256(nil)
	fmt.Fprintf(h, "%d:%d:%d;", g.Width, g.Height, g.Depth)
	for _, t := range g.Tiles {
		h.Write([]byte{byte(t)})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func toLevelData(g *Grid) LevelData {
	data := LevelData{
		Depth:    g.Depth,
		Width:    g.Width,
		Height:   g.Height,
		SavedAt:  time.Now().UTC(),
		Upstairs: g.Upstairs,
		Rows:     make([]string, 0, g.Height),
		Checksum: Checksum(g),
	}

	if exit, ok := g.Exit(); ok {
		data.Downstairs = &exit
	}

	var row strings.Builder
	for y := 0; y < g.Height; y++ {
		row.Reset()
		for x := 0; x < g.Width; x++ {
			row.WriteRune(g.Tiles[g.Idx(x, y)].Glyph())
		}
		data.Rows = append(data.Rows, row.String())
	}

	for i, seen := range g.Revealed {
		if seen {
			data.Revealed = append(data.Revealed, i)
		}
	}

	g.EachRegion(func(id int, cells []int) {
		data.Regions = append(data.Regions, RegionData{ID: id, Cells: cells})
	})

	g.BloodStains.Each(func(idx int) {
		data.BloodStains = append(data.BloodStains, idx)
	})
	sort.Ints(data.BloodStains)

	return data
}

func fromLevelData(data LevelData) (*Grid, error) {
	if data.Width <= 0 || data.Height <= 0 || len(data.Rows) != data.Height {
		return nil, fmt.Errorf("%w: %dx%d with %d rows", ErrInvalidSave, data.Width, data.Height, len(data.Rows))
	}

	g := New(data.Depth, Options{Width: data.Width, Height: data.Height})
	for y, row := range data.Rows {
		runes := []rune(row)
		if len(runes) != data.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSave, y, len(runes), data.Width)
		}
		for x, r := range runes {
			t, ok := ParseGlyph(r)
			if !ok {
				return nil, fmt.Errorf("%w: unknown glyph %q at %d,%d", ErrInvalidSave, r, x, y)
			}
			g.Tiles[g.Idx(x, y)] = t
		}
	}

	if data.Checksum != Checksum(g) {
		return nil, ErrChecksumMismatch
	}

	exit, hasExit := g.Exit()
	switch {
	case data.Downstairs == nil && hasExit:
		return nil, fmt.Errorf("%w: down staircase at %d,%d is not recorded", ErrInvalidSave, exit.X, exit.Y)
	case data.Downstairs != nil && g.Classify(data.Downstairs.X, data.Downstairs.Y) != DownStairs:
		return nil, fmt.Errorf("%w: no down staircase at %d,%d", ErrInvalidSave, data.Downstairs.X, data.Downstairs.Y)
	}

	size := len(g.Tiles)
	inRange := func(idx int) bool { return idx >= 0 && idx < size }

	for _, idx := range data.Revealed {
		if !inRange(idx) {
			return nil, fmt.Errorf("%w: revealed index %d out of range", ErrInvalidSave, idx)
		}
		g.Revealed[idx] = true
	}
	for _, region := range data.Regions {
		for _, idx := range region.Cells {
			if !inRange(idx) {
				return nil, fmt.Errorf("%w: region %d index %d out of range", ErrInvalidSave, region.ID, idx)
			}
		}
		g.Regions[region.ID] = append([]int(nil), region.Cells...)
	}
	for _, idx := range data.BloodStains {
		if !inRange(idx) {
			return nil, fmt.Errorf("%w: blood stain index %d out of range", ErrInvalidSave, idx)
		}
		g.BloodStains.Put(idx)
	}

	g.Upstairs = data.Upstairs
	g.PopulateBlocked()
	return g, nil
}
