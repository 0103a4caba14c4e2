package systems

import (
	"log"
	"math"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// MaxHaste caps the cooldown reduction from stacked haste effects
const MaxHaste = 0.8

// ProjectileSpawner launches projectiles for the attack system
type ProjectileSpawner interface {
	SpawnProjectile(owner ecs.EntityID, weapon *components.WeaponComponent, from, dir coords.Vec2) (ecs.EntityID, error)
}

// AttackSystem fires every ready weapon according to its attack kind
type AttackSystem struct {
	spawner  ProjectileSpawner
	clock    *Clock
	producer *ecs.Producer
	logger   *log.Logger
}

// NewAttackSystem creates a new attack system
func NewAttackSystem(spawner ProjectileSpawner, tunnel *ecs.TunnelManager, clock *Clock, logger *log.Logger) *AttackSystem {
	return &AttackSystem{
		spawner:  spawner,
		clock:    clock,
		producer: tunnel.Producer(EventWeaponFired),
		logger:   logger,
	}
}

// Update advances weapon cooldowns and fires the weapons that are ready and have a direction
func (s *AttackSystem) Update(world *ecs.World, dt float64) error {
	for _, owner := range world.Query(components.Weapon, components.Position) {
		if health, ok := component[*components.HealthComponent](world, owner, components.Health); ok && health.Dead {
			continue
		}
		position, _ := component[*components.PositionComponent](world, owner, components.Position)
		records, err := world.GetComponents(owner, components.Weapon)
		if err != nil {
			continue
		}

		haste := hasteOf(world, owner)
		for _, weapon := range ecs.All[*components.WeaponComponent](records) {
			weapon.Timer -= dt
			if weapon.Timer > 0 {
				continue
			}

			dir, ok := s.aim(world, owner, position.Vec(), weapon)
			if !ok {
				// Stay ready until something comes into range
				weapon.Timer = 0
				continue
			}

			projectile, err := s.spawner.SpawnProjectile(owner, weapon, position.Vec(), dir)
			if err != nil {
				return err
			}
			weapon.Timer = weapon.Cooldown * (1 - haste)

			if !s.producer.Produce(WeaponFiredEvent{OwnerID: owner, ProjectileID: projectile, Weapon: weapon.Name, At: s.clock.Elapsed}) {
				s.logger.Printf("dropped %s event for entity %d", EventWeaponFired, owner)
			}
		}
	}
	return nil
}

// aim returns the firing direction for a weapon, or false when it has nothing to shoot at
func (s *AttackSystem) aim(world *ecs.World, owner ecs.EntityID, from coords.Vec2, weapon *components.WeaponComponent) (coords.Vec2, bool) {
	switch weapon.Attack {
	case components.AttackDirection:
		return facing(world, owner), true

	case components.AttackNearest:
		target, ok := nearestOpponent(world, owner, from, weapon.Range)
		if !ok {
			return coords.Vec2{}, false
		}
		return directionTo(from, target)

	case components.AttackTarget:
		if weapon.Target == 0 || !world.IsAlive(weapon.Target) {
			return coords.Vec2{}, false
		}
		target, ok := component[*components.PositionComponent](world, weapon.Target, components.Position)
		if !ok {
			return coords.Vec2{}, false
		}
		return directionTo(from, target.Vec())
	}
	return coords.Vec2{}, false
}

func directionTo(from, to coords.Vec2) (coords.Vec2, bool) {
	dir := to.Sub(from).Normalized()
	return dir, !dir.IsZero()
}

// facing is the player's facing angle, then the direction of travel, then +X
func facing(world *ecs.World, id ecs.EntityID) coords.Vec2 {
	if input, ok := component[*components.PlayerInputComponent](world, id, components.PlayerInput); ok {
		return coords.V(math.Cos(input.Facing), math.Sin(input.Facing))
	}
	if velocity, ok := component[*components.VelocityComponent](world, id, components.Velocity); ok {
		if dir := velocity.Vec().Normalized(); !dir.IsZero() {
			return dir
		}
	}
	return coords.V(1, 0)
}

// nearestOpponent finds the closest living opponent of owner within rng; rng <= 0 is unlimited.
// Players target enemies and everything else targets players. Ties go to the lowest ID.
func nearestOpponent(world *ecs.World, owner ecs.EntityID, from coords.Vec2, rng float64) (coords.Vec2, bool) {
	tag := components.TagPlayer
	if isPlayer(world, owner) {
		tag = components.TagEnemy
	}

	best := math.Inf(1)
	var found coords.Vec2
	ok := false
	for _, id := range world.EntitiesWithTag(tag) {
		if health, has := component[*components.HealthComponent](world, id, components.Health); has && health.Dead {
			continue
		}
		position, has := component[*components.PositionComponent](world, id, components.Position)
		if !has {
			continue
		}
		d := position.Vec().Sub(from).Len()
		if rng > 0 && d > rng {
			continue
		}
		if d < best {
			best, found, ok = d, position.Vec(), true
		}
	}
	return found, ok
}

// hasteOf sums the haste effects on an entity, capped at MaxHaste
func hasteOf(world *ecs.World, id ecs.EntityID) float64 {
	records, err := world.GetComponents(id, components.StatusEffect)
	if err != nil {
		return 0
	}
	haste := 0.0
	for _, effect := range ecs.All[*components.StatusEffectComponent](records) {
		if effect.Kind == components.EffectHaste && effect.Magnitude > 0 {
			haste += effect.Magnitude
		}
	}
	return math.Min(haste, MaxHaste)
}
