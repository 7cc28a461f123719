package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	"agar-client/internal/game"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables applied by ApplyEnv
const (
	EnvServerURL = "AGAR_SERVER_URL"
	EnvTraceDir  = "AGAR_TRACE_DIR"
	EnvLogFile   = "AGAR_LOG_FILE"
)

const DefaultServerURL = "ws://localhost:6789"

type Config struct {
	ServerURL        string `yaml:"server_url"`
	PositionPeriodMs int    `yaml:"position_period_ms"`
	FireKey          string `yaml:"fire_key"`
	SendQueue        int    `yaml:"send_queue"`
	TraceDir         string `yaml:"trace_dir"`
	LogFile          string `yaml:"log_file"`

	World World `yaml:"world"`
	Bot   Bot   `yaml:"bot"`
}

type World struct {
	MapWidth      float64 `yaml:"map_width"`
	MapHeight     float64 `yaml:"map_height"`
	BucketSize    float64 `yaml:"bucket_size"`
	Speed         float64 `yaml:"speed"`
	FireMassFloor float64 `yaml:"fire_mass_floor"`
	FireMassCost  float64 `yaml:"fire_mass_cost"`
	StartX        float64 `yaml:"start_x"`
	StartY        float64 `yaml:"start_y"`
	StartMass     float64 `yaml:"start_mass"`
	GridSpacing   float64 `yaml:"grid_spacing"`
	MinimapSize   float64 `yaml:"minimap_size"`
}

// Bot tunes the headless client
type Bot struct {
	TickMs   int     `yaml:"tick_ms"`
	FireMass float64 `yaml:"fire_mass"` // fire once mass exceeds this
	ScreenW  float64 `yaml:"screen_w"`
	ScreenH  float64 `yaml:"screen_h"`
}

// Defaults returns the stock configuration
func Defaults() Config {
	t := game.DefaultTuning()
	return Config{
		ServerURL:        DefaultServerURL,
		PositionPeriodMs: 50,
		FireKey:          "w",
		SendQueue:        256,
		World: World{
			MapWidth:      t.MapWidth,
			MapHeight:     t.MapHeight,
			BucketSize:    t.BucketSize,
			Speed:         t.Speed,
			FireMassFloor: t.FireMassFloor,
			FireMassCost:  t.FireMassCost,
			StartX:        t.StartX,
			StartY:        t.StartY,
			StartMass:     t.StartMass,
			GridSpacing:   t.GridSpacing,
			MinimapSize:   t.MinimapSize,
		},
		Bot: Bot{
			TickMs:   50,
			FireMass: 60,
			ScreenW:  800,
			ScreenH:  600,
		},
	}
}

// Load reads a YAML file over Defaults. Keys missing from the file keep
// their default values.
func Load(path string) (Config, error) {
	c := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadEnv loads .env style files into the process environment. Missing
// files are skipped; variables already set are not overridden.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("env file %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from AGAR_* environment variables
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv(EnvTraceDir); v != "" {
		c.TraceDir = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.LogFile = v
	}
}

// Validate rejects configurations the client cannot run with
func (c Config) Validate() error {
	if c.ServerURL == "" {
		return errors.New("config: server_url is empty")
	}
	if c.PositionPeriodMs <= 0 {
		return fmt.Errorf("config: position_period_ms must be positive, got %d", c.PositionPeriodMs)
	}
	if utf8.RuneCountInString(c.FireKey) != 1 {
		return fmt.Errorf("config: fire_key must be a single character, got %q", c.FireKey)
	}
	if c.SendQueue <= 0 {
		return fmt.Errorf("config: send_queue must be positive, got %d", c.SendQueue)
	}
	w := c.World
	for name, v := range map[string]float64{
		"map_width":    w.MapWidth,
		"map_height":   w.MapHeight,
		"bucket_size":  w.BucketSize,
		"speed":        w.Speed,
		"start_mass":   w.StartMass,
		"grid_spacing": w.GridSpacing,
		"minimap_size": w.MinimapSize,
	} {
		if v <= 0 {
			return fmt.Errorf("config: world.%s must be positive, got %v", name, v)
		}
	}
	if w.FireMassFloor < 0 || w.FireMassCost < 0 {
		return errors.New("config: fire mass settings must not be negative")
	}
	if c.Bot.TickMs <= 0 {
		return fmt.Errorf("config: bot.tick_ms must be positive, got %d", c.Bot.TickMs)
	}
	return nil
}

// Tuning converts the world section for the game package
func (c Config) Tuning() game.Tuning {
	w := c.World
	return game.Tuning{
		MapWidth:      w.MapWidth,
		MapHeight:     w.MapHeight,
		BucketSize:    w.BucketSize,
		Speed:         w.Speed,
		FireMassFloor: w.FireMassFloor,
		FireMassCost:  w.FireMassCost,
		StartX:        w.StartX,
		StartY:        w.StartY,
		StartMass:     w.StartMass,
		GridSpacing:   w.GridSpacing,
		MinimapSize:   w.MinimapSize,
	}
}

func (c Config) PositionPeriod() time.Duration {
	return time.Duration(c.PositionPeriodMs) * time.Millisecond
}

func (c Config) BotTick() time.Duration {
	return time.Duration(c.Bot.TickMs) * time.Millisecond
}

// FireRune returns the fire key; call Validate first
func (c Config) FireRune() rune {
	r, _ := utf8.DecodeRuneInString(c.FireKey)
	return r
}

// Resolve builds the runtime configuration: .env files, then the YAML file
// at path (skipped when path is empty), then AGAR_* variables. Flags are
// applied by the caller afterwards.
func Resolve(path string, envFiles ...string) (Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return Config{}, err
	}
	c := Defaults()
	if path != "" {
		var err error
		if c, err = Load(path); err != nil {
			return c, err
		}
	}
	c.ApplyEnv()
	return c, nil
}
