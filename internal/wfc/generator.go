package wfc

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lawnchairsociety/dungeongen/internal/connectivity"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/regions"
)

// Options contains parameters for resynthesis
type Options struct {
	ChunkSize   int  // Side of the square patterns
	Mirror      bool // Also learn the reflections of every window
	MaxAttempts int  // Restarts allowed before giving up
	Gallery     bool // Record the learned patterns in the history

	// MinFloorRatio is the share of the source's walkable cells a solution
	// must keep after pruning. Smaller solutions count as failed attempts.
	MinFloorRatio float64
}

// DefaultOptions returns 8x8 mirrored patterns, up to 1000 attempts, and
// solutions that keep at least a fifth of the source's floor
func DefaultOptions() Options {
	return Options{
		ChunkSize:     8,
		Mirror:        true,
		MaxAttempts:   1000,
		Gallery:       true,
		MinFloorRatio: 0.2,
	}
}

// Resynthesize learns the chunk patterns of source and builds a new level
// out of them. The result is pruned to what is reachable from its entry,
// gets stairs at the entry and the most distant cell, and noise regions.
// The source is not modified.
func Resynthesize(source *dungeon.Grid, rng *rand.Rand, opts Options) (*dungeon.Grid, error) {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = DefaultOptions().MaxAttempts
	}
	if opts.MinFloorRatio <= 0 || opts.MinFloorRatio > 1 {
		opts.MinFloorRatio = DefaultOptions().MinFloorRatio
	}
	minFloor := max(int(float64(walkable(source))*opts.MinFloorRatio), 2)

	patterns, err := ExtractPatterns(source, opts.ChunkSize, opts.Mirror)
	if err != nil {
		return nil, err
	}
	chunks := BuildConstraints(patterns)
	logger.Debug("WFC patterns learned", "patterns", len(chunks), "chunk_size", opts.ChunkSize)

	out := dungeon.New(source.Depth, source.Options())
	out.AppendHistory(source.History)
	if opts.Gallery && out.HistoryEnabled() {
		renderGallery(out, chunks)
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		out.FillWalls()
		solver, err := NewSolver(chunks, out.Width, out.Height)
		if err != nil {
			return nil, err
		}

		var step func()
		if out.HistoryEnabled() {
			step = func() {
				solver.Render(out)
				out.TakeSnapshot("wfc")
			}
		}
		if !solver.Solve(rng, step) {
			continue
		}
		solver.Render(out)
		out.TakeSnapshot("wfc")

		err = finish(out, rng, minFloor)
		if errors.Is(err, connectivity.ErrNoEntry) || errors.Is(err, connectivity.ErrNoExit) || errors.Is(err, errTooSmall) {
			logger.Debug("WFC solution has no usable floor, restarting", "attempt", attempt, "error", err)
			continue
		}
		if err != nil {
			return nil, err
		}

		logger.Debug("WFC resynthesis complete", "attempts", attempt, "regions", len(out.Regions))
		return out, nil
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrNoSolution, opts.MaxAttempts)
}

var errTooSmall = errors.New("wfc: solution keeps too little floor")

// finish seals the edge, picks an entry in the largest open area, prunes,
// and places stairs and regions. It fails with errTooSmall when fewer than
// minFloor walkable cells survive or no spawn region can be formed.
func finish(g *dungeon.Grid, rng *rand.Rand, minFloor int) error {
	g.MakeBoundaryWalls()

	start, err := connectivity.FindMainEntry(g)
	if err != nil {
		return err
	}
	g.TakeSnapshot("entry")

	exit, err := connectivity.PruneUnreachable(g, start)
	if err != nil {
		return err
	}
	if kept := g.Count(dungeon.Floor); kept < minFloor {
		return fmt.Errorf("%w: %d of %d cells", errTooSmall, kept, minFloor)
	}
	g.TakeSnapshot("pruned")

	g.PlaceStairs(start, exit)
	g.TakeSnapshot("stairs")

	regions.Apply(g, regions.NewNoise(rng.Int63()))
	if len(g.Regions) == 0 {
		return fmt.Errorf("%w: no spawn regions", errTooSmall)
	}
	return nil
}

// walkable counts the cells of g that are not wall
func walkable(g *dungeon.Grid) int {
	n := 0
	for _, t := range g.Tiles {
		if t != dungeon.Wall {
			n++
		}
	}
	return n
}

// renderGallery lays the patterns out side by side, one history page per full screen
func renderGallery(g *dungeon.Grid, chunks []Chunk) {
	page := dungeon.New(g.Depth, dungeon.Options{Width: g.Width, Height: g.Height})
	flush := func() {
		g.AppendHistory([]dungeon.Snapshot{{Label: "patterns", Tiles: append([]dungeon.TileType(nil), page.Tiles...)}})
		page.FillWalls()
	}

	x, y := 1, 1
	for _, c := range chunks {
		if x+c.Size >= page.Width {
			x = 1
			y += c.Size + 1
		}
		if y+c.Size >= page.Height {
			flush()
			x, y = 1, 1
		}
		c.renderAt(page, x, y)
		x += c.Size + 1
	}
	flush()
}
