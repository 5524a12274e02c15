package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/mapgen"
	"github.com/lawnchairsociety/dungeongen/internal/playback"
	"github.com/lawnchairsociety/dungeongen/internal/telemetry"
)

func main() {
	mode := flag.String("mode", "tui", "Viewer: tui (terminal) or ws (WebSocket server)")
	addr := flag.String("addr", "", "WebSocket listen address (default from config)")
	depth := flag.Int("depth", 1, "Depth of the level to generate")
	algorithm := flag.String("algorithm", "", "Preset to build (empty rolls on the weighted table)")
	wfcMode := flag.String("wfc", "random", "WFC resynthesis: random, always or never")
	seed := flag.Int64("seed", 0, "Random seed (default: based on current time)")
	file := flag.String("file", "", "Show a saved YAML level instead of generating one")
	delay := flag.Duration("delay", 0, "Time per frame (default from config)")
	configFile := flag.String("config", "data/mapgen.yaml", "Path to config YAML file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.Grid.History = true
	if *addr != "" {
		cfg.Playback.Addr = *addr
	}
	if *delay > 0 {
		cfg.Playback.FrameDelayMS = int(delay.Milliseconds())
	}

	logConfig, err := logger.LoadConfig(*configFile)
	if err != nil {
		log.Printf("Warning: logging config not loaded: %v", err)
	}
	if *mode == "tui" {
		// The terminal belongs to the player; only the log file stays
		logConfig.ConsoleEnabled = false
	}
	closer, err := logger.Initialize(logConfig)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, viewRequest{
		mode:      *mode,
		depth:     *depth,
		algorithm: *algorithm,
		wfc:       *wfcMode,
		seed:      *seed,
		file:      *file,
	})
	stop()
	if err != nil {
		logger.Error("mapviz failed", "error", err)
	}
	closer.Close()
	if err != nil {
		os.Exit(1)
	}
}

// viewRequest is what to show and how
type viewRequest struct {
	mode      string
	depth     int
	algorithm string
	wfc       string
	seed      int64
	file      string
}

// run serves or plays one level. Every resource it opens is released
// before it returns.
func run(ctx context.Context, cfg *config.Config, req viewRequest) error {
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

	opts, err := mapgen.OptionsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("invalid generation config: %w", err)
	}
	runSeed := req.seed
	if runSeed == 0 {
		runSeed = time.Now().UnixNano()
	}
	gen := mapgen.NewGenerator(opts, rand.New(rand.NewSource(runSeed)))

	switch req.mode {
	case "ws":
		srv := playback.NewServer(cfg.Playback, gen)
		if err := srv.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("playback server failed: %w", err)
		}
		return nil
	case "tui":
		wfc, err := mapgen.ParseWFCMode(req.wfc)
		if err != nil {
			return fmt.Errorf("invalid -wfc: %w", err)
		}

		var g *dungeon.Grid
		title := req.file
		if req.file != "" {
			g, err = dungeon.Load(req.file)
			if err != nil {
				return fmt.Errorf("failed to load level: %w", err)
			}
		} else {
			lvl, err := gen.Build(ctx, mapgen.Request{Depth: req.depth, Preset: req.algorithm, WFC: wfc})
			if err != nil {
				return fmt.Errorf("level generation failed: %w", err)
			}
			g = lvl.Grid
			title = fmt.Sprintf("depth %d %s", req.depth, lvl.Preset)
			if lvl.Resynthesized {
				title += "+wfc"
			}
		}

		if err := runTUI(ctx, g, title, time.Duration(cfg.Playback.FrameDelayMS)*time.Millisecond); err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown -mode %q (want tui or ws)", req.mode)
	}
}

func runTUI(ctx context.Context, g *dungeon.Grid, title string, delay time.Duration) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	frames := playback.Frames(g)
	logger.Info("Playing level history", "frames", len(frames), "title", title)
	return playback.NewPlayer(screen, frames, delay, title).Run(ctx)
}
