package wfc

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/lawnchairsociety/dungeongen/internal/builder"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon/dungeontest"
)

// lattice returns a map of identical rooms, one per 8x8 chunk, joined by
// corridors through the middle of every chunk edge
func lattice(opts dungeon.Options) *dungeon.Grid {
	g := dungeon.New(2, opts)
	for cy := 0; cy < g.Height/8; cy++ {
		for cx := 0; cx < g.Width/8; cx++ {
			ox, oy := cx*8, cy*8
			for y := 1; y <= 6; y++ {
				for x := 1; x <= 6; x++ {
					g.Set(ox+x, oy+y, dungeon.Floor)
				}
			}
			for i := 0; i < 8; i++ {
				g.Set(ox+i, oy+3, dungeon.Floor)
				g.Set(ox+3, oy+i, dungeon.Floor)
			}
		}
	}
	g.MakeBoundaryWalls()
	return g
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if opts.ChunkSize != 8 {
		t.Errorf("ChunkSize = %d, want 8", opts.ChunkSize)
	}
	if !opts.Mirror {
		t.Error("Mirror should default to true")
	}
	if opts.MaxAttempts != 1000 {
		t.Errorf("MaxAttempts = %d, want 1000", opts.MaxAttempts)
	}
}

func TestResynthesize(t *testing.T) {
	source := lattice(dungeon.DefaultOptions())
	before := dungeon.Checksum(source)

	out, err := Resynthesize(source, rand.New(rand.NewSource(42)), DefaultOptions())
	if err != nil {
		t.Fatalf("Resynthesize() failed: %v", err)
	}

	dungeontest.RequireLevel(t, out)
	if out.Depth != source.Depth {
		t.Errorf("Depth = %d, want %d", out.Depth, source.Depth)
	}
	if dungeon.Checksum(source) != before {
		t.Error("Resynthesize() modified its source")
	}
	if out == source {
		t.Error("Resynthesize() must return a new grid")
	}
}

func TestResynthesizeOwnOutput(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	first, err := Resynthesize(lattice(dungeon.DefaultOptions()), rng, DefaultOptions())
	if err != nil {
		t.Fatalf("first pass failed: %v", err)
	}

	second, err := Resynthesize(first, rng, DefaultOptions())
	if err != nil {
		t.Fatalf("second pass failed: %v", err)
	}
	dungeontest.RequireLevel(t, second)
}

func TestResynthesizeBuilderOutput(t *testing.T) {
	for _, kind := range []builder.Kind{builder.KindBSPDungeon, builder.KindBSPInterior, builder.KindCellularAutomata, builder.KindDLA, builder.KindVoronoi} {
		t.Run(kind.String(), func(t *testing.T) {
			b, err := builder.New(kind, 1, dungeon.DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			rng := rand.New(rand.NewSource(11))
			source, err := b.Build(rng)
			if err != nil {
				t.Fatal(err)
			}

			out, err := Resynthesize(source, rng, DefaultOptions())
			if errors.Is(err, ErrNoSolution) {
				t.Skipf("no solution for this source: %v", err)
			}
			if err != nil {
				t.Fatalf("Resynthesize() failed: %v", err)
			}
			dungeontest.RequireLevel(t, out)
		})
	}
}

func TestResynthesizeSolidSource(t *testing.T) {
	source := dungeon.New(1, dungeon.DefaultOptions())
	opts := DefaultOptions()
	opts.MaxAttempts = 3

	_, err := Resynthesize(source, rand.New(rand.NewSource(1)), opts)
	if !errors.Is(err, ErrNoSolution) {
		t.Errorf("error = %v, want ErrNoSolution", err)
	}
}

func TestResynthesizeInvalidChunkSize(t *testing.T) {
	opts := DefaultOptions()
	opts.ChunkSize = 100

	_, err := Resynthesize(lattice(dungeon.DefaultOptions()), rand.New(rand.NewSource(1)), opts)
	if !errors.Is(err, ErrInvalidSize) {
		t.Errorf("error = %v, want ErrInvalidSize", err)
	}
}

func TestResynthesizeHistory(t *testing.T) {
	opts := dungeon.DefaultOptions()
	opts.HistoryEnabled = true
	source := lattice(opts)
	source.TakeSnapshot("source")

	out, err := Resynthesize(source, rand.New(rand.NewSource(3)), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if len(out.History) == 0 || out.History[0].Label != "source" {
		t.Fatal("history should start with the source's snapshots")
	}
	labels := make(map[string]int)
	for _, s := range out.History {
		labels[s.Label]++
		if len(s.Tiles) != len(out.Tiles) {
			t.Fatalf("snapshot %q has %d tiles, want %d", s.Label, len(s.Tiles), len(out.Tiles))
		}
	}
	for _, want := range []string{"patterns", "wfc", "pruned", "stairs"} {
		if labels[want] == 0 {
			t.Errorf("no %q snapshot in history", want)
		}
	}
	if last := out.History[len(out.History)-1].Label; last != "stairs" {
		t.Errorf("last snapshot = %q, want stairs", last)
	}
}

func TestResynthesizeWithoutHistory(t *testing.T) {
	out, err := Resynthesize(lattice(dungeon.DefaultOptions()), rand.New(rand.NewSource(3)), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if len(out.History) != 0 {
		t.Errorf("History has %d snapshots with history disabled", len(out.History))
	}
}

func TestResynthesizeKeepsMostOfTheFloor(t *testing.T) {
	preset, err := builder.LookupPreset("dla_insectoid")
	if err != nil {
		t.Fatal(err)
	}
	opts := DefaultOptions()
	opts.MaxAttempts = 200

	solved := 0
	for seed := int64(1); seed <= 40; seed++ {
		rng := rand.New(rand.NewSource(seed))
		b, err := preset.Builder(1, dungeon.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		source, err := b.Build(rng)
		if err != nil {
			t.Fatal(err)
		}

		out, err := Resynthesize(source, rng, opts)
		if errors.Is(err, ErrNoSolution) {
			continue
		}
		if err != nil {
			t.Fatalf("seed %d: Resynthesize() failed: %v", seed, err)
		}
		solved++

		dungeontest.RequireLevel(t, out)
		if want := int(float64(walkable(source)) * opts.MinFloorRatio); walkable(out) < want {
			t.Errorf("seed %d: %d walkable cells, want at least %d", seed, walkable(out), want)
		}
	}
	if solved == 0 {
		t.Error("no seed produced a resynthesized level")
	}
}

func TestFinishRejectsTinyPocket(t *testing.T) {
	g := dungeon.New(1, dungeon.DefaultOptions())
	g.Set(10, 10, dungeon.Floor)
	g.Set(11, 10, dungeon.Floor)

	err := finish(g, rand.New(rand.NewSource(1)), 50)
	if !errors.Is(err, errTooSmall) {
		t.Errorf("error = %v, want errTooSmall", err)
	}
}
