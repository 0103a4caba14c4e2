package config

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/caarlos0/env/v11"

	"ebiten-survivor/coords"
)

// Simulation holds the tunables of one simulation instance.
// Every field can be overridden through a SURVIVOR_* environment variable.
type Simulation struct {
	// World rectangle entities are kept inside
	WorldMinX float64 `env:"SURVIVOR_WORLD_MIN_X" envDefault:"-2000"`
	WorldMinY float64 `env:"SURVIVOR_WORLD_MIN_Y" envDefault:"-2000"`
	WorldMaxX float64 `env:"SURVIVOR_WORLD_MAX_X" envDefault:"2000"`
	WorldMaxY float64 `env:"SURVIVOR_WORLD_MAX_Y" envDefault:"2000"`

	// Camera
	ViewportWidth  float64 `env:"SURVIVOR_VIEWPORT_WIDTH"  envDefault:"960"`
	ViewportHeight float64 `env:"SURVIVOR_VIEWPORT_HEIGHT" envDefault:"640"`
	DeadZone       float64 `env:"SURVIVOR_CAMERA_DEAD_ZONE" envDefault:"0.05"`
	CachedCamera   bool    `env:"SURVIVOR_CAMERA_CACHED"    envDefault:"true"`

	// Event tunnel capacity per event type; 0 is unbounded
	QueueCapacity int `env:"SURVIVOR_QUEUE_CAPACITY" envDefault:"4096"`

	// Frame timing: one Advance never simulates more than MaxFrameTime seconds of real time
	MaxFrameTime float64 `env:"SURVIVOR_MAX_FRAME_TIME" envDefault:"0.05"`
	TimeScale    float64 `env:"SURVIVOR_TIME_SCALE"     envDefault:"1"`

	// Scheduler diagnostics
	SlowSystemThreshold time.Duration `env:"SURVIVOR_SLOW_SYSTEM" envDefault:"4ms"`

	// Spawning
	SpawnInterval    float64 `env:"SURVIVOR_SPAWN_INTERVAL"     envDefault:"1.2"`
	SpawnMinInterval float64 `env:"SURVIVOR_SPAWN_MIN_INTERVAL" envDefault:"0.25"`
	SpawnRamp        float64 `env:"SURVIVOR_SPAWN_RAMP"         envDefault:"0.01"` // Interval reduction per second survived
	SpawnMargin      float64 `env:"SURVIVOR_SPAWN_MARGIN"       envDefault:"48"`
	SpawnPattern     string  `env:"SURVIVOR_SPAWN_PATTERN"      envDefault:"ring"`
	MaxEnemies       int     `env:"SURVIVOR_MAX_ENEMIES"        envDefault:"300"`
	HealthRamp       float64 `env:"SURVIVOR_HEALTH_RAMP"        envDefault:"0.5"` // Extra enemy health fraction per minute

	// Player
	PlayerSpeed   float64  `env:"SURVIVOR_PLAYER_SPEED"   envDefault:"140"`
	PlayerHealth  int      `env:"SURVIVOR_PLAYER_HEALTH"  envDefault:"100"`
	PlayerWeapons []string `env:"SURVIVOR_PLAYER_WEAPONS" envDefault:"wand" envSeparator:","`

	// Balance data directory layered over the embedded defaults; empty uses defaults only
	TemplateDir string `env:"SURVIVOR_TEMPLATE_DIR"`

	Seed int64 `env:"SURVIVOR_SEED" envDefault:"0"` // 0 picks a time based seed
}

// Load parses the environment into a validated Simulation config
func Load() (Simulation, error) {
	var cfg Simulation
	if err := env.Parse(&cfg); err != nil {
		return Simulation{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Simulation{}, err
	}
	return cfg, nil
}

// Default returns the config with every default applied and no environment lookups
func Default() Simulation {
	var cfg Simulation
	// Parsing against an empty environment only applies envDefault tags
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}); err != nil {
		panic(fmt.Sprintf("config defaults do not parse: %v", err))
	}
	return cfg
}

// Validate reports configuration errors before any simulation is built
func (c Simulation) Validate() error {
	var errs []error
	if c.WorldMinX > c.WorldMaxX || c.WorldMinY > c.WorldMaxY {
		errs = append(errs, fmt.Errorf("world bounds inverted: (%g,%g)-(%g,%g)", c.WorldMinX, c.WorldMinY, c.WorldMaxX, c.WorldMaxY))
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		errs = append(errs, fmt.Errorf("viewport must be positive: %gx%g", c.ViewportWidth, c.ViewportHeight))
	}
	if c.WorldMaxX-c.WorldMinX < c.ViewportWidth || c.WorldMaxY-c.WorldMinY < c.ViewportHeight {
		errs = append(errs, errors.New("world is smaller than the viewport"))
	}
	if c.DeadZone < 0 {
		errs = append(errs, fmt.Errorf("dead zone must not be negative: %g", c.DeadZone))
	}
	if !(c.MaxFrameTime > 0) || math.IsInf(c.MaxFrameTime, 0) {
		errs = append(errs, fmt.Errorf("max frame time must be positive and finite: %g", c.MaxFrameTime))
	}
	if !(c.TimeScale > 0) || math.IsInf(c.TimeScale, 0) {
		errs = append(errs, fmt.Errorf("time scale must be positive and finite: %g", c.TimeScale))
	}
	if c.QueueCapacity < 0 {
		errs = append(errs, fmt.Errorf("queue capacity must not be negative: %d", c.QueueCapacity))
	}
	if c.SpawnInterval <= 0 || c.SpawnMinInterval <= 0 || c.SpawnMinInterval > c.SpawnInterval {
		errs = append(errs, fmt.Errorf("spawn intervals invalid: base %g min %g", c.SpawnInterval, c.SpawnMinInterval))
	}
	if c.SpawnPattern != "ring" && c.SpawnPattern != "edge" {
		errs = append(errs, fmt.Errorf("unknown spawn pattern %q", c.SpawnPattern))
	}
	if c.PlayerHealth <= 0 || c.PlayerSpeed <= 0 {
		errs = append(errs, errors.New("player health and speed must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// WorldBounds returns the world rectangle entities are kept inside
func (c Simulation) WorldBounds() coords.Bounds {
	return coords.Bounds{
		Min: coords.V(c.WorldMinX, c.WorldMinY),
		Max: coords.V(c.WorldMaxX, c.WorldMaxY),
	}
}
