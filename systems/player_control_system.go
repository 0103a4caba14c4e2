package systems

import (
	"math"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// PlayerControlSystem turns the input collaborator's requested direction into velocity
type PlayerControlSystem struct{}

// NewPlayerControlSystem creates a new player control system
func NewPlayerControlSystem() *PlayerControlSystem {
	return &PlayerControlSystem{}
}

// Update sets player velocity from PlayerInput
func (s *PlayerControlSystem) Update(world *ecs.World, dt float64) error {
	for _, id := range world.Query(components.Player, components.PlayerInput, components.Velocity) {
		player, _ := component[*components.PlayerComponent](world, id, components.Player)
		input, _ := component[*components.PlayerInputComponent](world, id, components.PlayerInput)
		velocity, _ := component[*components.VelocityComponent](world, id, components.Velocity)
		if player == nil || input == nil || velocity == nil {
			continue
		}

		dir := coords.V(input.X, input.Y).Normalized()
		velocity.Set(dir.Scale(player.Speed))
		if !dir.IsZero() {
			input.Facing = math.Atan2(dir.Y, dir.X)
		}
	}
	return nil
}
