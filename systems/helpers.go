package systems

import (
	"ebiten-survivor/components"
	"ebiten-survivor/ecs"
)

// component returns the first record of componentID asserted to T
func component[T ecs.Component](world *ecs.World, entityID ecs.EntityID, componentID ecs.ComponentID) (T, bool) {
	comp, exists := world.GetComponent(entityID, componentID)
	if !exists {
		var zero T
		return zero, false
	}
	typed, ok := comp.(T)
	return typed, ok
}

// findPlayer returns the first live player entity
func findPlayer(world *ecs.World) (ecs.EntityID, bool) {
	players := world.EntitiesWithTag(components.TagPlayer)
	if len(players) == 0 {
		return 0, false
	}
	return players[0], true
}

// getEntityName returns a display name for messages
func getEntityName(world *ecs.World, entityID ecs.EntityID) string {
	if name, ok := component[*components.NameComponent](world, entityID, components.Name); ok {
		return name.Name
	}
	return "something"
}

// isPlayer checks if an entity is the player
func isPlayer(world *ecs.World, entityID ecs.EntityID) bool {
	return world.HasComponent(entityID, components.Player)
}

// setMotion records the displacement of the last movement step, adding the component if needed
func setMotion(world *ecs.World, entityID ecs.EntityID, dx, dy float64) error {
	if motion, ok := component[*components.MotionComponent](world, entityID, components.Motion); ok {
		motion.DX, motion.DY = dx, dy
		return nil
	}
	return world.AddComponent(entityID, components.Motion, &components.MotionComponent{DX: dx, DY: dy})
}
