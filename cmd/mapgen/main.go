package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/database"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/mapgen"
	"github.com/lawnchairsociety/dungeongen/internal/telemetry"
)

// options holds the command line flags
type options struct {
	depth      int
	count      int
	algorithm  string
	wfcMode    string
	seed       int64
	configFile string
	outDir     string
	useDB      bool
	list       int
	load       string
	colorMode  string
	quiet      bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("mapgen", flag.ContinueOnError)
	fs.IntVar(&o.depth, "depth", 1, "Depth of the first level")
	fs.IntVar(&o.count, "count", 1, "Number of levels to generate, one per depth")
	fs.StringVar(&o.algorithm, "algorithm", "", "Preset to build (empty rolls on the weighted table)")
	fs.StringVar(&o.wfcMode, "wfc", "random", "WFC resynthesis: random, always or never")
	fs.Int64Var(&o.seed, "seed", 0, "Random seed (default: based on current time)")
	fs.StringVar(&o.configFile, "config", "data/mapgen.yaml", "Path to config YAML file")
	fs.StringVar(&o.outDir, "out", "", "Directory to write YAML saves to (empty to skip)")
	fs.BoolVar(&o.useDB, "db", false, "Store levels in the configured database")
	fs.IntVar(&o.list, "list", -1, "List the N newest stored levels and exit (0 for all)")
	fs.StringVar(&o.load, "load", "", "Print a stored level by name and exit")
	fs.StringVar(&o.colorMode, "color", "auto", "Colored output: auto, always or never")
	fs.BoolVar(&o.quiet, "quiet", false, "Don't print the levels")
	err := fs.Parse(args)
	return o, err
}

func main() {
	o, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, o, os.Stdout)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code. Every
// resource it opens is released before it returns.
func run(ctx context.Context, o options, stdout io.Writer) int {
	logConfig, err := logger.LoadConfig(o.configFile)
	if err != nil {
		log.Printf("Warning: logging config not loaded: %v", err)
	}
	closer, err := logger.Initialize(logConfig)
	if err != nil {
		log.Printf("Failed to initialize logging: %v", err)
		return 1
	}
	defer closer.Close()

	cfg, err := config.LoadConfig(o.configFile)
	if err != nil {
		logger.Error("Failed to load config", "path", o.configFile, "error", err)
		return 1
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Setup(ctx, cfg.Telemetry.Endpoint)
		if err != nil {
			logger.Warning("Telemetry setup failed, continuing without tracing", "error", err)
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warning("Error shutting down telemetry", "error", err)
				}
			}()
		}
	}

	out := newRenderer(stdout, o.colorMode)

	var db *database.Database
	if o.useDB || o.list >= 0 || o.load != "" {
		db, err = database.Open(ctx, database.FromStoreConfig(cfg.Store))
		if err != nil {
			logger.Error("Failed to open database", "driver", cfg.Store.Driver, "error", err)
			return 1
		}
		defer db.Close()
	}

	switch {
	case o.list >= 0:
		if err := listLevels(ctx, stdout, db, o.list); err != nil {
			logger.Error("Failed to list levels", "error", err)
			return 1
		}
		return 0
	case o.load != "":
		g, info, err := db.LoadLevelByName(ctx, o.load)
		if err != nil {
			logger.Error("Failed to load level", "name", o.load, "error", err)
			return 1
		}
		out.Level(g, fmt.Sprintf("%s (%s)", info.Name, info.Algorithm))
		return 0
	}

	mode, err := mapgen.ParseWFCMode(o.wfcMode)
	if err != nil {
		logger.Error("Invalid -wfc", "error", err)
		return 1
	}
	opts, err := mapgen.OptionsFromConfig(cfg)
	if err != nil {
		logger.Error("Invalid generation config", "error", err)
		return 1
	}

	runSeed := o.seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}
	logger.Info("Seed selected", "seed", runSeed, "random", o.seed == 0)
	gen := mapgen.NewGenerator(opts, rand.New(rand.NewSource(runSeed)))

	if o.outDir != "" {
		if err := os.MkdirAll(o.outDir, 0755); err != nil {
			logger.Error("Failed to create output directory", "path", o.outDir, "error", err)
			return 1
		}
	}

	start := time.Now()
	summary := runSummary{}
	for i := 0; i < o.count; i++ {
		if ctx.Err() != nil {
			break
		}
		d := o.depth + i

		lvl, err := gen.Build(ctx, mapgen.Request{Depth: d, Preset: o.algorithm, WFC: mode})
		if err != nil {
			logger.Error("Level generation failed", "depth", d, "error", err)
			summary.failed++
			continue
		}
		summary.add(lvl)

		name := fmt.Sprintf("depth%03d-%d", d, runSeed)
		if o.outDir != "" {
			path := filepath.Join(o.outDir, name+".yaml")
			if err := dungeon.Save(lvl.Grid, path); err != nil {
				logger.Error("Failed to save level", "path", path, "error", err)
			}
		}
		if db != nil {
			if _, err := db.SaveLevel(ctx, name, lvl.Preset, lvl.Grid); err != nil {
				logger.Error("Failed to store level", "name", name, "error", err)
			}
		}
		if !o.quiet {
			title := fmt.Sprintf("Depth %d: %s", d, lvl.Preset)
			if lvl.Resynthesized {
				title += " + wfc"
			}
			out.Level(lvl.Grid, title)
		}
	}

	logger.Report("Generation finished",
		"levels", summary.levels,
		"failed", summary.failed,
		"resynthesized", summary.wfc,
		"presets", summary.presets,
		"elapsed", time.Since(start).Round(time.Millisecond))
	if summary.failed > 0 {
		return 1
	}
	return 0
}

type runSummary struct {
	levels, failed, wfc int
	presets             map[string]int
}

func (s *runSummary) add(lvl *mapgen.Level) {
	if s.presets == nil {
		s.presets = make(map[string]int)
	}
	s.levels++
	s.presets[lvl.Preset]++
	if lvl.Resynthesized {
		s.wfc++
	}
}

func listLevels(ctx context.Context, w io.Writer, db *database.Database, limit int) error {
	levels, err := db.ListLevels(ctx, limit)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		fmt.Fprintln(w, "No stored levels.")
		return nil
	}
	for _, l := range levels {
		fmt.Fprintf(w, "%-24s depth %-3d %-26s %dx%d  %s  %s\n",
			l.Name, l.Depth, l.Algorithm, l.Width, l.Height,
			l.CreatedAt.Format("2006-01-02 15:04:05"), l.ID)
	}
	return nil
}
