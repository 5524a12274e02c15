package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/dungeongen/internal/dungeon"
	"github.com/lawnchairsociety/dungeongen/internal/wfc"
)

var ErrInvalidConfig = errors.New("config: invalid value")

// Config holds the settings shared by the mapgen and mapviz commands.
type Config struct {
	Grid       GridConfig       `yaml:"grid"`
	Generation GenerationConfig `yaml:"generation"`
	WFC        WFCConfig        `yaml:"wfc"`
	Store      StoreConfig      `yaml:"store"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Playback   PlaybackConfig   `yaml:"playback"`
}

// GridConfig sizes every generated level.
type GridConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// History records a snapshot after every generation step, for playback.
	History bool `yaml:"history"`
}

// GenerationConfig tunes how the orchestrator picks algorithms.
type GenerationConfig struct {
	// WFCChance is the N in the one-in-N chance of a WFC pass. 0 disables it.
	WFCChance int `yaml:"wfc_chance"`

	// Weights overrides the table weight of named presets. A weight of 0
	// removes the preset from the table.
	Weights map[string]int `yaml:"weights"`
}

// WFCConfig holds the resynthesis parameters.
type WFCConfig struct {
	ChunkSize   int  `yaml:"chunk_size"`
	Mirror      bool `yaml:"mirror"`
	MaxAttempts int  `yaml:"max_attempts"`
	Gallery     bool `yaml:"gallery"`

	// MinFloorRatio is the share of the source floor a resynthesized level must keep.
	MinFloorRatio float64 `yaml:"min_floor_ratio"`
}

// StoreConfig selects where saved levels live.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	// DSN is a file path for sqlite or a connection string for postgres.
	DSN string `yaml:"dsn"`

	// ConnectAttempts bounds the retries while the database comes up.
	ConnectAttempts int `yaml:"connect_attempts"`
}

// TelemetryConfig controls OpenTelemetry tracing.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled"`

	// Endpoint overrides OTEL_EXPORTER_OTLP_ENDPOINT when set.
	Endpoint string `yaml:"endpoint"`
}

// PlaybackConfig holds settings for replaying generation history.
type PlaybackConfig struct {
	// Addr is where the WebSocket playback server listens.
	Addr string `yaml:"addr"`

	// FrameDelayMS is the pause between snapshots.
	FrameDelayMS int `yaml:"frame_delay_ms"`

	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the largest client message the server reads, in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// DefaultConfig returns the standard 80x43 setup with a one-in-three WFC chance.
func DefaultConfig() *Config {
	opts := wfc.DefaultOptions()
	return &Config{
		Grid: GridConfig{
			Width:  dungeon.DefaultWidth,
			Height: dungeon.DefaultHeight,
		},
		Generation: GenerationConfig{
			WFCChance: 3,
		},
		WFC: WFCConfig{
			ChunkSize:     opts.ChunkSize,
			Mirror:        opts.Mirror,
			MaxAttempts:   opts.MaxAttempts,
			Gallery:       opts.Gallery,
			MinFloorRatio: opts.MinFloorRatio,
		},
		Store: StoreConfig{
			Driver:          "sqlite",
			DSN:             "data/levels.db",
			ConnectAttempts: 5,
		},
		Playback: PlaybackConfig{
			Addr:           "localhost:4000",
			FrameDelayMS:   40,
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
	}
}

// LoadConfig loads configuration from a YAML file over the defaults, then
// applies MAPGEN_* environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return config, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, config); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	config.applyEnv()
	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}
	return config, nil
}

func (c *Config) applyEnv() {
	if driver := os.Getenv("MAPGEN_DB_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if dsn := os.Getenv("MAPGEN_DB_DSN"); dsn != "" {
		c.Store.DSN = dsn
	}
	if endpoint := os.Getenv("MAPGEN_OTEL_ENDPOINT"); endpoint != "" {
		c.Telemetry.Endpoint = endpoint
		c.Telemetry.Enabled = true
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case c.Grid.Width < 10 || c.Grid.Height < 10:
		return fmt.Errorf("%w: grid %dx%d is smaller than 10x10", ErrInvalidConfig, c.Grid.Width, c.Grid.Height)
	case c.Generation.WFCChance < 0:
		return fmt.Errorf("%w: wfc_chance %d", ErrInvalidConfig, c.Generation.WFCChance)
	case c.WFC.ChunkSize < 1 || c.WFC.ChunkSize > min(c.Grid.Width, c.Grid.Height):
		return fmt.Errorf("%w: chunk_size %d", ErrInvalidConfig, c.WFC.ChunkSize)
	case c.WFC.MaxAttempts < 1:
		return fmt.Errorf("%w: max_attempts %d", ErrInvalidConfig, c.WFC.MaxAttempts)
	case c.WFC.MinFloorRatio <= 0 || c.WFC.MinFloorRatio > 1:
		return fmt.Errorf("%w: min_floor_ratio %v", ErrInvalidConfig, c.WFC.MinFloorRatio)
	case c.Store.Driver != "sqlite" && c.Store.Driver != "postgres":
		return fmt.Errorf("%w: store driver %q", ErrInvalidConfig, c.Store.Driver)
	case c.Playback.FrameDelayMS < 0:
		return fmt.Errorf("%w: frame_delay_ms %d", ErrInvalidConfig, c.Playback.FrameDelayMS)
	}
	for name, weight := range c.Generation.Weights {
		if weight < 0 {
			return fmt.Errorf("%w: weight for %s is %d", ErrInvalidConfig, name, weight)
		}
	}
	return nil
}

// Options converts the grid settings for dungeon.New.
func (g GridConfig) Options() dungeon.Options {
	return dungeon.Options{Width: g.Width, Height: g.Height, HistoryEnabled: g.History}
}

// Options converts the WFC settings for wfc.Resynthesize.
func (w WFCConfig) Options() wfc.Options {
	return wfc.Options{
		ChunkSize:     w.ChunkSize,
		Mirror:        w.Mirror,
		MaxAttempts:   w.MaxAttempts,
		Gallery:       w.Gallery,
		MinFloorRatio: w.MinFloorRatio,
	}
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *PlaybackConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// isSameOrigin checks if the origin matches the request host (same-origin policy).
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means same-origin (e.g., non-browser client)
	}

	// "http://localhost:3000/" -> "localhost:3000"
	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
