package systems

import (
	"math"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// MovementSystem integrates velocity into position and keeps entities inside the world
type MovementSystem struct {
	world coords.Bounds
}

// NewMovementSystem creates a new movement system bounded by world
func NewMovementSystem(world coords.Bounds) *MovementSystem {
	return &MovementSystem{world: world}
}

// Update moves every entity with a position and a velocity and records its motion
func (s *MovementSystem) Update(world *ecs.World, dt float64) error {
	for _, id := range world.Query(components.Position, components.Velocity) {
		position, _ := component[*components.PositionComponent](world, id, components.Position)
		velocity, _ := component[*components.VelocityComponent](world, id, components.Velocity)
		if position == nil || velocity == nil {
			continue
		}

		step := velocity.Vec().Scale(dt * speedFactor(world, id))
		from := position.Vec()
		to := from.Add(step)
		// Projectiles are allowed to leave the world and expire on their own
		if !world.HasComponent(id, components.Projectile) {
			to = s.world.Clamp(to)
		}
		position.Set(to)

		moved := to.Sub(from)
		if err := setMotion(world, id, moved.X, moved.Y); err != nil {
			return err
		}
	}
	return nil
}

// speedFactor combines every slow effect on an entity; stacked slows multiply
func speedFactor(world *ecs.World, id ecs.EntityID) float64 {
	records, err := world.GetComponents(id, components.StatusEffect)
	if err != nil {
		return 1
	}
	factor := 1.0
	for _, effect := range ecs.All[*components.StatusEffectComponent](records) {
		if effect.Kind == components.EffectSlow {
			factor *= 1 - math.Min(math.Max(effect.Magnitude, 0), 1)
		}
	}
	return factor
}
