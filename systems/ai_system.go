package systems

import (
	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// EnemyAISystem steers AI entities according to their movement kind
type EnemyAISystem struct{}

// NewEnemyAISystem creates a new AI system
func NewEnemyAISystem() *EnemyAISystem {
	return &EnemyAISystem{}
}

// Update sets the velocity of every AI entity
func (s *EnemyAISystem) Update(world *ecs.World, dt float64) error {
	for _, id := range world.Query(components.AI, components.Position, components.Velocity) {
		ai, _ := component[*components.AIComponent](world, id, components.AI)
		position, _ := component[*components.PositionComponent](world, id, components.Position)
		velocity, _ := component[*components.VelocityComponent](world, id, components.Velocity)
		if ai == nil || position == nil || velocity == nil {
			continue
		}

		switch ai.Movement {
		case components.MoveStatic:
			velocity.Set(coords.Vec2{})
		case components.MoveLinear:
			// Keeps whatever velocity it was given at creation
		case components.MoveChase:
			velocity.Set(chaseVelocity(world, ai, position.Vec()))
		}
	}
	return nil
}

// chaseVelocity heads for the AI's target, or stops when the target is gone
func chaseVelocity(world *ecs.World, ai *components.AIComponent, from coords.Vec2) coords.Vec2 {
	if ai.Target == 0 || !world.IsAlive(ai.Target) {
		return coords.Vec2{}
	}
	target, ok := component[*components.PositionComponent](world, ai.Target, components.Position)
	if !ok {
		return coords.Vec2{}
	}
	return target.Vec().Sub(from).Normalized().Scale(ai.Speed)
}
