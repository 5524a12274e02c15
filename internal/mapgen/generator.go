package mapgen

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/connectivity"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/telemetry"
	"github.com/lawnchairsociety/dungeongen/internal/wfc"
)

var (
	ErrUnknownPreset = errors.New("mapgen: unknown preset")
	ErrEmptyTable    = errors.New("mapgen: no preset has a positive weight")
	ErrInvalidLevel  = errors.New("mapgen: generated level is invalid")
	ErrUnknownMode   = errors.New("mapgen: unknown wfc mode")
)

// WFCMode decides whether a level is resynthesized
type WFCMode int

const (
	WFCRandom WFCMode = iota // One in Options.WFCChance
	WFCAlways                // Whenever the preset allows it
	WFCNever
)

func (m WFCMode) String() string {
	switch m {
	case WFCAlways:
		return "always"
	case WFCNever:
		return "never"
	default:
		return "random"
	}
}

// ParseWFCMode accepts "random", "always" or "never". Empty means random.
func ParseWFCMode(s string) (WFCMode, error) {
	switch strings.ToLower(s) {
	case "", "random":
		return WFCRandom, nil
	case "always":
		return WFCAlways, nil
	case "never":
		return WFCNever, nil
	}
	return WFCRandom, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// Options configures a Generator
type Options struct {
	Grid      dungeon.Options
	WFC       wfc.Options
	WFCChance int // One in WFCChance levels is resynthesized; 0 disables
	Table     *Table
	Tracer    trace.Tracer
}

// DefaultOptions returns 80x43 levels from the default table with a one in three WFC chance
func DefaultOptions() Options {
	return Options{
		Grid:      dungeon.DefaultOptions(),
		WFC:       wfc.DefaultOptions(),
		WFCChance: 3,
		Table:     DefaultTable(),
	}
}

// OptionsFromConfig builds generator options from loaded configuration
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	table, err := DefaultTable().WithWeights(cfg.Generation.Weights)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Grid:      cfg.Grid.Options(),
		WFC:       cfg.WFC.Options(),
		WFCChance: cfg.Generation.WFCChance,
		Table:     table,
	}
	if !cfg.Telemetry.Enabled {
		opts.Tracer = telemetry.NoopTracer()
	}
	return opts, nil
}

// Request describes one level to generate
type Request struct {
	Depth  int
	Preset string // Empty rolls on the table
	WFC    WFCMode
}

// Level is a generated grid plus how it was made
type Level struct {
	Grid          *dungeon.Grid
	Preset        string
	Resynthesized bool
}

// Generator produces levels. It holds a single random source and is not
// safe for concurrent use.
type Generator struct {
	opts   Options
	rng    *rand.Rand
	tracer trace.Tracer
}

// NewGenerator creates a generator. A nil rng is seeded from the clock.
func NewGenerator(opts Options, rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Table == nil {
		opts.Table = DefaultTable()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("mapgen")
	}
	return &Generator{opts: opts, rng: rng, tracer: tracer}
}

// Generate picks an algorithm from the table, builds a level for the given
// depth and sometimes resynthesizes it with WFC
func (g *Generator) Generate(ctx context.Context, depth int) (*dungeon.Grid, error) {
	lvl, err := g.Build(ctx, Request{Depth: depth})
	if err != nil {
		return nil, err
	}
	return lvl.Grid, nil
}

// Generate builds one level with default options and a fresh random source
func Generate(depth int) (*dungeon.Grid, error) {
	return NewGenerator(DefaultOptions(), nil).Generate(context.Background(), depth)
}

// Build generates a level as described by the request
func (g *Generator) Build(ctx context.Context, req Request) (*Level, error) {
	ctx, span := g.tracer.Start(ctx, "mapgen.generate", trace.WithAttributes(attribute.Int("depth", req.Depth)))
	defer span.End()

	lvl, err := g.build(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("preset", lvl.Preset),
		attribute.Bool("wfc", lvl.Resynthesized),
		attribute.Int("regions", len(lvl.Grid.Regions)),
	)
	return lvl, nil
}

func (g *Generator) build(ctx context.Context, req Request) (*Level, error) {
	entry, err := g.pick(req.Preset)
	if err != nil {
		return nil, err
	}

	grid, err := g.runBuilder(ctx, entry, req.Depth)
	if err != nil {
		return nil, err
	}
	lvl := &Level{Grid: grid, Preset: entry.Preset.Name}

	if g.wantWFC(entry, req.WFC) {
		out, err := g.resynthesize(ctx, grid)
		switch {
		case errors.Is(err, wfc.ErrNoSolution):
			logger.Warning("WFC gave up, keeping the original level", "preset", entry.Preset.Name, "error", err)
		case err != nil:
			return nil, err
		default:
			lvl.Grid = out
			lvl.Resynthesized = true
		}
	}

	logger.Info("Level generated",
		"depth", req.Depth,
		"preset", lvl.Preset,
		"wfc", lvl.Resynthesized,
		"floor", lvl.Grid.Count(dungeon.Floor),
		"regions", len(lvl.Grid.Regions))
	return lvl, nil
}

func (g *Generator) pick(name string) (Entry, error) {
	if name != "" {
		return g.opts.Table.Lookup(name)
	}
	return g.opts.Table.Roll(g.rng)
}

func (g *Generator) wantWFC(entry Entry, mode WFCMode) bool {
	switch mode {
	case WFCNever:
		return false
	case WFCAlways:
		if !entry.WFC {
			logger.Info("Preset does not support WFC", "preset", entry.Preset.Name)
		}
		return entry.WFC
	default:
		return entry.WFC && g.opts.WFCChance > 0 && g.rng.Intn(g.opts.WFCChance) == 0
	}
}

func (g *Generator) runBuilder(ctx context.Context, entry Entry, depth int) (*dungeon.Grid, error) {
	_, span := g.tracer.Start(ctx, "mapgen.build", trace.WithAttributes(attribute.String("preset", entry.Preset.Name)))
	defer span.End()

	b, err := entry.Preset.Builder(depth, g.opts.Grid)
	if err != nil {
		return nil, err
	}
	grid, err := b.Build(g.rng)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Preset.Name, err)
	}
	if err := Validate(grid); err != nil {
		return nil, fmt.Errorf("%s: %w", entry.Preset.Name, err)
	}
	return grid, nil
}

func (g *Generator) resynthesize(ctx context.Context, grid *dungeon.Grid) (*dungeon.Grid, error) {
	_, span := g.tracer.Start(ctx, "mapgen.wfc")
	defer span.End()

	out, err := wfc.Resynthesize(grid, g.rng, g.opts.WFC)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := Validate(out); err != nil {
		return nil, fmt.Errorf("wfc: %w", err)
	}
	return out, nil
}

// Validate checks the finished level: one staircase each way, the entry on
// the up staircase, a wall ring, at least one spawn region and every open
// cell reachable from the entry
func Validate(g *dungeon.Grid) error {
	if g.Count(dungeon.UpStairs) != 1 || g.Count(dungeon.DownStairs) != 1 {
		return fmt.Errorf("%w: %d up and %d down staircases", ErrInvalidLevel, g.Count(dungeon.UpStairs), g.Count(dungeon.DownStairs))
	}
	entry := g.EntryPoint()
	if g.Classify(entry.X, entry.Y) != dungeon.UpStairs {
		return fmt.Errorf("%w: entry %d,%d is not the up staircase", ErrInvalidLevel, entry.X, entry.Y)
	}
	for i, t := range g.Tiles {
		x, y := g.Coords(i)
		if (x == 0 || y == 0 || x == g.Width-1 || y == g.Height-1) && t != dungeon.Wall {
			return fmt.Errorf("%w: open edge cell at %d,%d", ErrInvalidLevel, x, y)
		}
	}
	if len(g.Regions) == 0 {
		return fmt.Errorf("%w: no spawn regions", ErrInvalidLevel)
	}

	reached, err := connectivity.Reachable(g, g.Idx(entry.X, entry.Y))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	if open := len(g.Tiles) - g.Count(dungeon.Wall); reached.Size() != open {
		return fmt.Errorf("%w: %d of %d open cells reachable", ErrInvalidLevel, reached.Size(), open)
	}
	return nil
}
