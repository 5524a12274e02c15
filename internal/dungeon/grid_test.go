package dungeon

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewGridDefaults(t *testing.T) {
	g := New(3, DefaultOptions())

	if g.Width != 80 {
		t.Errorf("Width = %d, want 80", g.Width)
	}
	if g.Height != 43 {
		t.Errorf("Height = %d, want 43", g.Height)
	}
	if g.Depth != 3 {
		t.Errorf("Depth = %d, want 3", g.Depth)
	}
	if len(g.Tiles) != 80*43 {
		t.Errorf("len(Tiles) = %d, want %d", len(g.Tiles), 80*43)
	}
	if g.Count(Wall) != len(g.Tiles) {
		t.Error("new grid should be solid wall")
	}
}

func TestGridZeroOptionsFallBack(t *testing.T) {
	g := New(1, Options{})
	if g.Width != DefaultWidth || g.Height != DefaultHeight {
		t.Errorf("size = %dx%d, want %dx%d", g.Width, g.Height, DefaultWidth, DefaultHeight)
	}
}

func TestIdxCoordsRoundTrip(t *testing.T) {
	g := New(1, Options{Width: 12, Height: 7})
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := g.Idx(x, y)
			if idx != y*12+x {
				t.Fatalf("Idx(%d,%d) = %d, want %d", x, y, idx, y*12+x)
			}
			cx, cy := g.Coords(idx)
			if cx != x || cy != y {
				t.Fatalf("Coords(%d) = %d,%d, want %d,%d", idx, cx, cy, x, y)
			}
		}
	}
}

func TestClassifyAndBlocked(t *testing.T) {
	g := New(1, Options{Width: 10, Height: 10})
	g.Set(4, 4, Floor)
	g.Set(5, 4, DownStairs)
	g.Set(-1, 4, Floor) // ignored
	g.PopulateBlocked()

	if g.Classify(4, 4) != Floor {
		t.Errorf("Classify(4,4) = %s, want floor", g.Classify(4, 4))
	}
	if g.Classify(-1, 4) != Wall {
		t.Error("out of bounds should classify as wall")
	}
	if g.IsBlocked(4, 4) || g.IsBlocked(5, 4) {
		t.Error("floor and stairs should not be blocked")
	}
	if !g.IsBlocked(0, 0) || !g.IsBlocked(20, 20) {
		t.Error("walls and out of bounds should be blocked")
	}

	exit, ok := g.Exit()
	if !ok || exit != (Point{5, 4}) {
		t.Errorf("Exit() = %+v, %v, want {5 4}, true", exit, ok)
	}
}

func TestMakeBoundaryWalls(t *testing.T) {
	g := New(1, Options{Width: 8, Height: 6})
	for i := range g.Tiles {
		g.Tiles[i] = Floor
	}
	g.MakeBoundaryWalls()

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			edge := x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1
			if edge && g.Classify(x, y) != Wall {
				t.Errorf("edge %d,%d = %s, want wall", x, y, g.Classify(x, y))
			}
			if !edge && g.Classify(x, y) != Floor {
				t.Errorf("interior %d,%d = %s, want floor", x, y, g.Classify(x, y))
			}
		}
	}
}

func TestEachRegionOrdered(t *testing.T) {
	g := New(1, Options{Width: 10, Height: 10})
	g.Regions[7] = []int{3}
	g.Regions[-2] = []int{1, 2}
	g.Regions[4] = []int{5}

	var ids []int
	g.EachRegion(func(id int, cells []int) {
		ids = append(ids, id)
	})
	want := []int{-2, 4, 7}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("EachRegion order = %v, want %v", ids, want)
		}
	}
}

func TestHistoryFlag(t *testing.T) {
	off := New(1, Options{Width: 5, Height: 5})
	off.TakeSnapshot("ignored")
	if len(off.History) != 0 {
		t.Errorf("len(History) = %d with history disabled, want 0", len(off.History))
	}

	on := New(1, Options{Width: 5, Height: 5, HistoryEnabled: true})
	on.TakeSnapshot("first")
	on.Set(2, 2, Floor)
	on.TakeSnapshot("second")
	if len(on.History) != 2 {
		t.Fatalf("len(History) = %d, want 2", len(on.History))
	}
	if on.History[0].Tiles[on.Idx(2, 2)] != Wall {
		t.Error("snapshot should not alias the live tiles")
	}
	if on.History[1].Label != "second" {
		t.Errorf("Label = %q, want %q", on.History[1].Label, "second")
	}
}

func TestOccupants(t *testing.T) {
	g := New(1, Options{Width: 5, Height: 5})
	id := uuid.New()
	g.AddOccupant(7, id)
	if got := g.Occupants(7); len(got) != 1 || got[0] != id {
		t.Errorf("Occupants(7) = %v, want [%v]", got, id)
	}
	g.ClearOccupants()
	if len(g.Occupants(7)) != 0 {
		t.Error("ClearOccupants left entries behind")
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := New(2, Options{Width: 6, Height: 6, HistoryEnabled: true})
	g.Set(2, 2, Floor)
	g.Regions[1] = []int{g.Idx(2, 2)}
	g.AddBloodStain(g.Idx(2, 2))
	g.TakeSnapshot("x")

	c := g.Clone()
	c.Set(3, 3, Floor)
	c.Regions[1][0] = 0
	c.AddBloodStain(5)

	if g.Classify(3, 3) != Wall {
		t.Error("clone shares tiles with the original")
	}
	if g.Regions[1][0] != g.Idx(2, 2) {
		t.Error("clone shares region slices with the original")
	}
	if g.BloodStains.Has(5) {
		t.Error("clone shares blood stains with the original")
	}
	if len(c.History) != 0 {
		t.Error("clone should not carry history")
	}
	if !c.HistoryEnabled() {
		t.Error("clone should keep the history flag")
	}
}

func TestPlaceStairs(t *testing.T) {
	g := New(1, Options{Width: 10, Height: 10})
	g.Set(2, 3, Floor)
	g.Set(7, 6, Floor)

	g.PlaceStairs(g.Idx(2, 3), g.Idx(7, 6))

	if g.Classify(2, 3) != UpStairs || g.Classify(7, 6) != DownStairs {
		t.Fatalf("stairs not placed: %v %v", g.Classify(2, 3), g.Classify(7, 6))
	}
	if g.EntryPoint() != (Point{X: 2, Y: 3}) {
		t.Errorf("EntryPoint() = %+v", g.EntryPoint())
	}
	if exit, ok := g.Exit(); !ok || exit != (Point{X: 7, Y: 6}) {
		t.Errorf("Exit() = %+v, %v", exit, ok)
	}
	if g.IsBlocked(7, 6) {
		t.Error("down stairs should not be blocked")
	}
}
