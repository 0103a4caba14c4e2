package config

import (
	"math"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.SlowSystemThreshold != 4*time.Millisecond {
		t.Errorf("SlowSystemThreshold = %v", cfg.SlowSystemThreshold)
	}
	if len(cfg.PlayerWeapons) != 1 || cfg.PlayerWeapons[0] != "wand" {
		t.Errorf("PlayerWeapons = %v", cfg.PlayerWeapons)
	}
	if cfg.MaxFrameTime != 0.05 || cfg.TimeScale != 1 {
		t.Errorf("frame timing defaults: max %g scale %g", cfg.MaxFrameTime, cfg.TimeScale)
	}
	if !cfg.CachedCamera {
		t.Error("cached camera should be the default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SURVIVOR_QUEUE_CAPACITY", "16")
	t.Setenv("SURVIVOR_PLAYER_WEAPONS", "wand,knife")
	t.Setenv("SURVIVOR_SPAWN_PATTERN", "edge")
	t.Setenv("SURVIVOR_MAX_FRAME_TIME", "0.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.QueueCapacity != 16 || cfg.SpawnPattern != "edge" || len(cfg.PlayerWeapons) != 2 || cfg.MaxFrameTime != 0.1 {
		t.Errorf("environment not applied: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("SURVIVOR_QUEUE_CAPACITY", "lots")
	if _, err := Load(); err == nil {
		t.Error("unparsable value should fail")
	}
}

func TestValidateReportsDegenerateWorld(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Simulation)
	}{
		{"inverted world", func(c *Simulation) { c.WorldMinX, c.WorldMaxX = 10, -10 }},
		{"tiny world", func(c *Simulation) { c.WorldMaxX = c.WorldMinX + 1 }},
		{"negative dead zone", func(c *Simulation) { c.DeadZone = -1 }},
		{"min interval above base", func(c *Simulation) { c.SpawnMinInterval = c.SpawnInterval * 2 }},
		{"unknown pattern", func(c *Simulation) { c.SpawnPattern = "spiral" }},
		{"no health", func(c *Simulation) { c.PlayerHealth = 0 }},
		{"zero max frame time", func(c *Simulation) { c.MaxFrameTime = 0 }},
		{"infinite max frame time", func(c *Simulation) { c.MaxFrameTime = math.Inf(1) }},
		{"NaN time scale", func(c *Simulation) { c.TimeScale = math.NaN() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}
