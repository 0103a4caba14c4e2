package components

import (
	"ebiten-survivor/ecs"
)

// Define component IDs for our game
const (
	Position ecs.ComponentID = iota
	Velocity
	Motion // Displacement applied during the last movement step
	Renderable
	Player
	PlayerInput
	Health
	Collision
	Enemy
	AI
	Weapon
	Projectile
	Experience
	Pickup
	StatusEffect // May hold several records per entity
	Name
)

// Entity tags set by the spawners
const (
	TagPlayer     = "player"
	TagEnemy      = "enemy"
	TagProjectile = "projectile"
	TagPickup     = "pickup"
)
