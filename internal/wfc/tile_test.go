package wfc

import (
	"errors"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
)

func TestDirectionString(t *testing.T) {
	tests := []struct {
		d    Direction
		want string
	}{
		{North, "north"},
		{East, "east"},
		{South, "south"},
		{West, "west"},
		{Direction(99), "unknown"},
	}

	for _, tc := range tests {
		if got := tc.d.String(); got != tc.want {
			t.Errorf("Direction(%d).String() = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestDirectionOpposite(t *testing.T) {
	tests := []struct {
		d    Direction
		want Direction
	}{
		{North, South},
		{South, North},
		{East, West},
		{West, East},
	}

	for _, tc := range tests {
		if got := tc.d.Opposite(); got != tc.want {
			t.Errorf("%s.Opposite() = %s, want %s", tc.d, got, tc.want)
		}
	}
}

func TestAllDirections(t *testing.T) {
	dirs := AllDirections()
	if len(dirs) != 4 {
		t.Fatalf("AllDirections() returned %d directions, want 4", len(dirs))
	}
	seen := make(map[Direction]bool)
	for _, d := range dirs {
		if seen[d] {
			t.Errorf("Duplicate direction: %s", d)
		}
		seen[d] = true
	}
}

// parsePattern builds a pattern from rows of map glyphs
func parsePattern(t *testing.T, rows ...string) Pattern {
	t.Helper()
	p := Pattern{Size: len(rows), Count: 1}
	for _, row := range rows {
		for _, r := range row {
			tile, ok := dungeon.ParseGlyph(r)
			if !ok {
				t.Fatalf("bad glyph %q", r)
			}
			p.Tiles = append(p.Tiles, tile)
		}
	}
	return p
}

func glyphs(tiles []dungeon.TileType) string {
	out := make([]rune, len(tiles))
	for i, t := range tiles {
		out[i] = t.Glyph()
	}
	return string(out)
}

func TestPatternEdges(t *testing.T) {
	p := parsePattern(t,
		"#.#",
		"..#",
		"###",
	)

	tests := []struct {
		d    Direction
		want string
	}{
		{North, "#.#"},
		{South, "###"},
		{West, "#.#"},
		{East, "###"},
	}
	for _, tc := range tests {
		if got := glyphs(p.Edge(tc.d)); got != tc.want {
			t.Errorf("Edge(%s) = %q, want %q", tc.d, got, tc.want)
		}
	}
}

func TestPatternMirror(t *testing.T) {
	p := parsePattern(t,
		"#..",
		"##.",
		"###",
	)

	if got := glyphs(p.mirror(true, false).Tiles); got != "..#.#####" {
		t.Errorf("horizontal mirror = %q", got)
	}
	if got := glyphs(p.mirror(false, true).Tiles); got != "#####.#.." {
		t.Errorf("vertical mirror = %q", got)
	}
	if got := glyphs(p.mirror(true, true).Tiles); got != "###.##..#" {
		t.Errorf("double mirror = %q", got)
	}
}

func TestExtractPatternsCountsDuplicates(t *testing.T) {
	g := dungeon.New(1, dungeon.DefaultOptions())

	patterns, err := ExtractPatterns(g, 8, false)
	if err != nil {
		t.Fatalf("ExtractPatterns() failed: %v", err)
	}
	if len(patterns) != 1 {
		t.Fatalf("solid map produced %d patterns, want 1", len(patterns))
	}
	if patterns[0].Count != 10*5 {
		t.Errorf("Count = %d, want %d", patterns[0].Count, 10*5)
	}

	patterns, err = ExtractPatterns(g, 8, true)
	if err != nil {
		t.Fatalf("ExtractPatterns() failed: %v", err)
	}
	if len(patterns) != 1 || patterns[0].Count != 10*5*4 {
		t.Errorf("mirrored solid map = %d patterns, count %d", len(patterns), patterns[0].Count)
	}
}

func TestExtractPatternsMirrorVariants(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 4, Height: 4})
	g.Set(0, 0, dungeon.Floor)

	plain, err := ExtractPatterns(g, 4, false)
	if err != nil {
		t.Fatal(err)
	}
	mirrored, err := ExtractPatterns(g, 4, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(plain) != 1 {
		t.Errorf("plain patterns = %d, want 1", len(plain))
	}
	if len(mirrored) != 4 {
		t.Errorf("mirrored patterns = %d, want 4 corners", len(mirrored))
	}
}

func TestExtractPatternsReadsStairsAsFloor(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 4, Height: 2})
	g.Set(1, 0, dungeon.Floor)
	g.Set(1, 1, dungeon.UpStairs)
	g.Set(2, 1, dungeon.Floor)
	g.Set(3, 0, dungeon.DownStairs)

	patterns, err := ExtractPatterns(g, 2, false)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range patterns {
		for _, tile := range p.Tiles {
			if tile == dungeon.UpStairs || tile == dungeon.DownStairs {
				t.Fatalf("pattern kept a staircase: %q", glyphs(p.Tiles))
			}
		}
	}
	if got := glyphs(patterns[0].Tiles); got != "#.#." {
		t.Errorf("first pattern = %q", got)
	}
}

func TestExtractPatternsInvalidSize(t *testing.T) {
	g := dungeon.New(1, dungeon.Options{Width: 10, Height: 6})
	for _, size := range []int{0, -1, 7} {
		if _, err := ExtractPatterns(g, size, true); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("ExtractPatterns(size %d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}
