// Package sim wires the world, event tunnel, camera and systems into one frame-driven simulation.
package sim

import (
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"ebiten-survivor/components"
	"ebiten-survivor/config"
	"ebiten-survivor/coords"
	"ebiten-survivor/data"
	"ebiten-survivor/ecs"
	"ebiten-survivor/spawners"
	"ebiten-survivor/systems"
)

var (
	// ErrNegativeStep is returned by Advance for a negative frame duration
	ErrNegativeStep = errors.New("frame duration must not be negative")
	// ErrNonFiniteStep is returned by Advance for an infinite or NaN frame duration
	ErrNonFiniteStep = errors.New("frame duration must be finite")
	// ErrBadTimeScale is returned by SetTimeScale for a scale that is not positive and finite
	ErrBadTimeScale = errors.New("time scale must be positive and finite")
)

// System names as registered with the scheduler
const (
	SystemStatus        = "status"
	SystemPlayerControl = "player_control"
	SystemEnemyAI       = "enemy_ai"
	SystemMovement      = "movement"
	SystemCamera        = "camera"
	SystemSpawn         = "spawn"
	SystemAttack        = "attack"
	SystemProjectile    = "projectile"
	SystemCollision     = "collision"
	SystemExperience    = "experience"
	SystemLoot          = "loot"
	SystemTally         = "tally"
	SystemCleanup       = "cleanup"
)

// stoppedOnGameOver are paused once the player dies so the final frame stays on screen
var stoppedOnGameOver = []string{
	SystemPlayerControl, SystemEnemyAI, SystemMovement, SystemSpawn, SystemAttack, SystemCollision,
}

// Sprite is what a renderer needs to draw one entity
type Sprite struct {
	ID     ecs.EntityID
	World  coords.Vec2
	Screen coords.Vec2
	Glyph  rune
	Radius float64
	Color  color.RGBA
}

// Simulation owns one world and everything that advances it
type Simulation struct {
	cfg       config.Simulation
	logger    *log.Logger
	world     *ecs.World
	tunnel    *ecs.TunnelManager
	coords    *coords.Manager
	scheduler *ecs.Scheduler
	clock     *systems.Clock
	messages  *systems.MessageLog
	templates *data.TemplateManager
	spawner   *spawners.EntitySpawner
	tally     *systems.TallySystem
	rng       *rand.Rand
	player    ecs.EntityID
	over      bool
}

// New builds a simulation from a validated config. A nil logger writes to stderr.
func New(cfg config.Simulation, logger *log.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[sim] ", log.LstdFlags)
	}

	templates := data.NewTemplateManager()
	if err := templates.LoadDefaults(); err != nil {
		return nil, fmt.Errorf("load default templates: %w", err)
	}
	if cfg.TemplateDir != "" {
		if err := templates.LoadTemplatesFromDirectory(cfg.TemplateDir); err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s := &Simulation{
		cfg:       cfg,
		logger:    logger,
		world:     ecs.NewWorld(),
		tunnel:    ecs.NewTunnelManager(cfg.QueueCapacity),
		scheduler: ecs.NewScheduler(logger),
		clock:     &systems.Clock{MaxStep: cfg.MaxFrameTime},
		messages:  systems.NewMessageLog(),
		templates: templates,
		rng:       rand.New(rand.NewSource(seed)),
	}
	s.clock.SetScale(cfg.TimeScale)
	s.scheduler.SetSlowThreshold(cfg.SlowSystemThreshold)
	s.spawner = spawners.NewEntitySpawner(s.world, templates, logger)

	worldBounds := cfg.WorldBounds()
	viewport := coords.V(cfg.ViewportWidth, cfg.ViewportHeight)
	// The offset is the top-left corner of the view, so it stops a viewport short of the far edge
	offsetBounds := coords.Bounds{Min: worldBounds.Min, Max: worldBounds.Max.Sub(viewport)}
	camera, err := coords.NewCamera(offsetBounds, viewport, cfg.DeadZone)
	if err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}
	s.coords, err = coords.NewManager(camera, transformerFor(cfg.CachedCamera))
	if err != nil {
		return nil, err
	}

	start := worldBounds.Min.Add(worldBounds.Max).Scale(0.5)
	s.player, err = s.spawner.CreatePlayer(start, cfg.PlayerSpeed, cfg.PlayerHealth, cfg.PlayerWeapons)
	if err != nil {
		return nil, fmt.Errorf("create player: %w", err)
	}

	cameraSystem := systems.NewCameraSystem(s.coords, s.tunnel, s.clock)
	camera.SetTarget(s.player)
	cameraSystem.CenterOn(start)

	if err := s.registerSystems(cameraSystem); err != nil {
		return nil, err
	}
	s.messages.Add("Survive!")
	return s, nil
}

func transformerFor(cached bool) coords.Transformer {
	if cached {
		return coords.NewCachedTransformer()
	}
	return coords.NewNaiveTransformer()
}

// registerSystems adds every system with its priority and the systems it must run after
func (s *Simulation) registerSystems(camera *systems.CameraSystem) error {
	pattern, err := systems.ParseSpawnPattern(s.cfg.SpawnPattern)
	if err != nil {
		return err
	}
	s.tally = systems.NewTallySystem(s.tunnel, s.clock, s.messages)

	registrations := []struct {
		system       ecs.System
		name         string
		priority     int
		predecessors []string
	}{
		{systems.NewStatusEffectSystem(), SystemStatus, 0, nil},
		{systems.NewPlayerControlSystem(), SystemPlayerControl, 10, nil},
		{systems.NewEnemyAISystem(), SystemEnemyAI, 20, nil},
		{systems.NewMovementSystem(s.cfg.WorldBounds()), SystemMovement, 30,
			[]string{SystemStatus, SystemPlayerControl, SystemEnemyAI}},
		{camera, SystemCamera, 40, []string{SystemMovement}},
		{systems.NewSpawnSystem(s.spawner, s.coords, s.cfg.WorldBounds(), s.tunnel, s.clock, s.rng, systems.SpawnSettings{
			Interval:    s.cfg.SpawnInterval,
			MinInterval: s.cfg.SpawnMinInterval,
			Ramp:        s.cfg.SpawnRamp,
			Margin:      s.cfg.SpawnMargin,
			Pattern:     pattern,
			MaxEnemies:  s.cfg.MaxEnemies,
			HealthRamp:  s.cfg.HealthRamp,
		}, s.logger), SystemSpawn, 50, []string{SystemCamera}},
		{systems.NewAttackSystem(s.spawner, s.tunnel, s.clock, s.logger), SystemAttack, 60, []string{SystemMovement}},
		{systems.NewProjectileSystem(), SystemProjectile, 70, []string{SystemMovement}},
		{systems.NewCollisionSystem(s.tunnel, s.clock, s.logger), SystemCollision, 80,
			[]string{SystemAttack, SystemProjectile}},
		{systems.NewExperienceSystem(s.tunnel, s.clock, s.messages), SystemExperience, 90, []string{SystemCollision}},
		{systems.NewLootSystem(s.spawner, s.tunnel, s.rng), SystemLoot, 90, []string{SystemCollision}},
		{s.tally, SystemTally, 95, []string{SystemExperience}},
		// Cleanup consumes the deaths the three readers above only peek at
		{systems.NewCleanupSystem(s.tunnel, s.messages, s.logger), SystemCleanup, 100,
			[]string{SystemExperience, SystemLoot, SystemTally}},
	}

	for _, r := range registrations {
		if err := s.scheduler.Register(r.system, r.name, r.priority, r.predecessors...); err != nil {
			return fmt.Errorf("register %s: %w", r.name, err)
		}
	}
	return nil
}

// Advance runs one frame covering dt seconds of real time. The step is capped at the
// configured max frame time and scaled by the time scale; a paused simulation does nothing.
// A non-nil error reports systems that failed this frame; the other systems still ran and
// the simulation can keep advancing.
func (s *Simulation) Advance(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) {
		return ErrNonFiniteStep
	}
	if dt < 0 {
		return ErrNegativeStep
	}
	if s.clock.Paused() {
		return nil
	}
	dt = s.clock.Step(dt)
	s.clock.Advance(dt)
	err := s.scheduler.Update(s.world, dt)

	if !s.over && s.tally.GameOver() {
		s.over = true
		for _, name := range stoppedOnGameOver {
			if serr := s.scheduler.SetActive(name, false); serr != nil {
				return errors.Join(err, serr)
			}
		}
		s.logger.Printf("game over after %.1fs", s.clock.Elapsed)
	}
	return err
}

// Pause freezes the simulation until Resume
func (s *Simulation) Pause() {
	if !s.clock.Paused() {
		s.clock.Pause()
		s.messages.AddAlert("Paused")
	}
}

// Resume continues a paused simulation
func (s *Simulation) Resume() {
	if s.clock.Paused() {
		s.clock.Resume()
		s.messages.Add("Resumed")
	}
}

// TogglePause pauses a running simulation and resumes a paused one
func (s *Simulation) TogglePause() {
	if s.clock.Paused() {
		s.Resume()
		return
	}
	s.Pause()
}

// Paused reports whether the simulation is paused
func (s *Simulation) Paused() bool { return s.clock.Paused() }

// SetTimeScale changes how many simulated seconds pass per real second
func (s *Simulation) SetTimeScale(scale float64) error {
	if !s.clock.SetScale(scale) {
		return fmt.Errorf("%w: %g", ErrBadTimeScale, scale)
	}
	return nil
}

// TimeScale returns the current time scale
func (s *Simulation) TimeScale() float64 { return s.clock.Scale() }

// SetInput sets the direction the player wants to move in
func (s *Simulation) SetInput(x, y float64) {
	if input, ok := s.world.GetComponent(s.player, components.PlayerInput); ok {
		in := input.(*components.PlayerInputComponent)
		in.X, in.Y = x, y
	}
}

// SetCachedCamera hot swaps the transformer used by the coordinate manager
func (s *Simulation) SetCachedCamera(cached bool) {
	s.coords.SetTransformer(transformerFor(cached))
}

// Sprites returns every drawable entity inside the view plus margin, with screen positions
// from one batch transform, in ascending ID order
func (s *Simulation) Sprites(margin float64) []Sprite {
	ids := s.world.Query(components.Position, components.Renderable)
	sprites := make([]Sprite, 0, len(ids))
	points := make([]coords.Vec2, 0, len(ids))
	for _, id := range ids {
		pos, _ := ecs.First[*components.PositionComponent](s.componentsOf(id, components.Position))
		r, _ := ecs.First[*components.RenderableComponent](s.componentsOf(id, components.Renderable))
		if pos == nil || r == nil || !s.coords.IsVisible(pos.Vec(), margin+r.Radius) {
			continue
		}
		sprites = append(sprites, Sprite{
			ID:     id,
			World:  pos.Vec(),
			Glyph:  r.Glyph,
			Radius: r.Radius,
			Color:  r.Color,
		})
		points = append(points, pos.Vec())
	}

	for i, p := range s.coords.BatchWorldToScreen(points) {
		sprites[i].Screen = p
	}
	return sprites
}

func (s *Simulation) componentsOf(id ecs.EntityID, cid ecs.ComponentID) []ecs.Component {
	records, _ := s.world.GetComponents(id, cid)
	return records
}

// PlayerHealth returns the player's current and maximum health
func (s *Simulation) PlayerHealth() (int, int) {
	if c, ok := s.world.GetComponent(s.player, components.Health); ok {
		h := c.(*components.HealthComponent)
		return h.Current, h.Max
	}
	return 0, 0
}

// PlayerExperience returns the player's level and progress towards the next one
func (s *Simulation) PlayerExperience() (level, xp, toNext int) {
	if c, ok := s.world.GetComponent(s.player, components.Experience); ok {
		e := c.(*components.ExperienceComponent)
		return e.Level, e.XP, e.ToNext
	}
	return 0, 0, 0
}

// GameOver reports whether the player has died
func (s *Simulation) GameOver() bool { return s.over }

// Close stops the event tunnel from accepting new events
func (s *Simulation) Close() { s.tunnel.Close() }

// World returns the entity store
func (s *Simulation) World() *ecs.World { return s.world }

// Tunnel returns the event tunnel
func (s *Simulation) Tunnel() *ecs.TunnelManager { return s.tunnel }

// Coords returns the coordinate manager used for rendering
func (s *Simulation) Coords() *coords.Manager { return s.coords }

// Scheduler returns the system scheduler
func (s *Simulation) Scheduler() *ecs.Scheduler { return s.scheduler }

// Messages returns the player-facing message log
func (s *Simulation) Messages() *systems.MessageLog { return s.messages }

// Spawner returns the entity factory
func (s *Simulation) Spawner() *spawners.EntitySpawner { return s.spawner }

// Tally returns the running score
func (s *Simulation) Tally() systems.Tally { return s.tally.Tally() }

// Player returns the player entity
func (s *Simulation) Player() ecs.EntityID { return s.player }

// Elapsed returns simulated seconds
func (s *Simulation) Elapsed() float64 { return s.clock.Elapsed }

// Config returns the config the simulation was built from
func (s *Simulation) Config() config.Simulation { return s.cfg }
