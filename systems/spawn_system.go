package systems

import (
	"fmt"
	"log"
	"math"
	"math/rand"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// SpawnPattern selects where new enemies appear around the visible area
type SpawnPattern int

const (
	SpawnRing SpawnPattern = iota // On a circle around the viewport
	SpawnEdge                     // Along a random side of the viewport
)

// ParseSpawnPattern maps a config name to a SpawnPattern
func ParseSpawnPattern(name string) (SpawnPattern, error) {
	switch name {
	case "ring":
		return SpawnRing, nil
	case "edge":
		return SpawnEdge, nil
	}
	return SpawnRing, fmt.Errorf("unknown spawn pattern %q", name)
}

// EnemySpawner creates enemies for the spawn system
type EnemySpawner interface {
	PickEnemy(rng *rand.Rand) (string, error)
	SpawnEnemy(templateID string, pos coords.Vec2, target ecs.EntityID, healthScale float64) (ecs.EntityID, error)
}

// SpawnSettings controls spawn pacing and difficulty
type SpawnSettings struct {
	Interval    float64 // Seconds between spawns at the start
	MinInterval float64 // Fastest spawn rate reached by the ramp
	Ramp        float64 // Interval reduction per second survived
	Margin      float64 // Distance outside the visible rect
	Pattern     SpawnPattern
	MaxEnemies  int     // Live enemy cap; 0 is unlimited
	HealthRamp  float64 // Extra health fraction per minute survived
}

// SpawnSystem creates enemies just outside the camera view at a rate that grows over time
type SpawnSystem struct {
	spawner  EnemySpawner
	coords   *coords.Manager
	world    coords.Bounds
	clock    *Clock
	rng      *rand.Rand
	settings SpawnSettings
	producer *ecs.Producer
	logger   *log.Logger
	timer    float64
}

// NewSpawnSystem creates a new spawn system
func NewSpawnSystem(spawner EnemySpawner, manager *coords.Manager, world coords.Bounds, tunnel *ecs.TunnelManager,
	clock *Clock, rng *rand.Rand, settings SpawnSettings, logger *log.Logger) *SpawnSystem {
	return &SpawnSystem{
		spawner:  spawner,
		coords:   manager,
		world:    world,
		clock:    clock,
		rng:      rng,
		settings: settings,
		producer: tunnel.Producer(EventEnemySpawned),
		logger:   logger,
		timer:    settings.Interval,
	}
}

// CurrentInterval returns the spawn interval after difficulty scaling
func (s *SpawnSystem) CurrentInterval() float64 {
	return math.Max(s.settings.MinInterval, s.settings.Interval-s.settings.Ramp*s.clock.Elapsed)
}

// HealthScale returns the enemy health multiplier after difficulty scaling
func (s *SpawnSystem) HealthScale() float64 {
	return 1 + s.settings.HealthRamp*s.clock.Elapsed/60
}

// Update counts down the spawn timer and spawns every enemy that came due this frame
func (s *SpawnSystem) Update(world *ecs.World, dt float64) error {
	playerID, ok := findPlayer(world)
	if !ok {
		return nil
	}

	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return fmt.Errorf("spawn: frame duration %g is not finite", dt)
	}
	s.timer -= dt
	enemies := len(world.EntitiesWithTag(components.TagEnemy))
	for s.timer <= 0 {
		s.timer += s.CurrentInterval()
		if s.settings.MaxEnemies > 0 && enemies >= s.settings.MaxEnemies {
			continue
		}

		templateID, err := s.spawner.PickEnemy(s.rng)
		if err != nil {
			return err
		}
		pos := s.spawnPoint()
		id, err := s.spawner.SpawnEnemy(templateID, pos, playerID, s.HealthScale())
		if err != nil {
			return fmt.Errorf("spawn %s: %w", templateID, err)
		}
		enemies++

		if !s.producer.Produce(EnemySpawnedEvent{EntityID: id, Template: templateID, At: s.clock.Elapsed}) {
			s.logger.Printf("dropped %s event for entity %d", EventEnemySpawned, id)
		}
	}
	return nil
}

// spawnPoint picks a position outside the visible rect expanded by the margin
func (s *SpawnSystem) spawnPoint() coords.Vec2 {
	rect := s.coords.VisibleWorldRect().Expand(s.settings.Margin)

	var p coords.Vec2
	switch s.settings.Pattern {
	case SpawnEdge:
		t := s.rng.Float64()
		switch s.rng.Intn(4) {
		case 0: // top
			p = coords.V(rect.Min.X+t*(rect.Max.X-rect.Min.X), rect.Min.Y)
		case 1: // bottom
			p = coords.V(rect.Min.X+t*(rect.Max.X-rect.Min.X), rect.Max.Y)
		case 2: // left
			p = coords.V(rect.Min.X, rect.Min.Y+t*(rect.Max.Y-rect.Min.Y))
		default: // right
			p = coords.V(rect.Max.X, rect.Min.Y+t*(rect.Max.Y-rect.Min.Y))
		}
	default:
		center := rect.Min.Add(rect.Max).Scale(0.5)
		radius := rect.Max.Sub(center).Len()
		angle := s.rng.Float64() * 2 * math.Pi
		p = center.Add(coords.V(math.Cos(angle), math.Sin(angle)).Scale(radius))
	}
	return s.world.Clamp(p)
}
