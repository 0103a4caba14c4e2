package systems

import (
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// Event type constants
const (
	EventEnemyDeath          ecs.EventType = "enemy_death"
	EventEnemySpawned        ecs.EventType = "enemy_spawned"
	EventWeaponFired         ecs.EventType = "weapon_fired"
	EventProjectileHit       ecs.EventType = "projectile_hit"
	EventPlayerDamaged       ecs.EventType = "player_damaged"
	EventPlayerDied          ecs.EventType = "player_died"
	EventPickupCollected     ecs.EventType = "pickup_collected"
	EventExperienceGain      ecs.EventType = "experience_gain"
	EventLevelUp             ecs.EventType = "level_up"
	EventCameraOffsetChanged ecs.EventType = "camera_offset_changed"
)

// Events are values carrying entity IDs and the simulation time they were produced at.
// To change one, consume it and produce the result of a With method.

// EnemyDeathEvent is produced once when an enemy's health first reaches zero
type EnemyDeathEvent struct {
	EntityID ecs.EntityID // Enemy that died
	KillerID ecs.EntityID // Entity credited with the kill (may be 0)
	Damage   int          // Damage of the killing blow
	At       float64      // Simulation seconds
}

// Type returns the event type
func (e EnemyDeathEvent) Type() ecs.EventType {
	return EventEnemyDeath
}

// WithDamage returns a copy with a different killing blow damage
func (e EnemyDeathEvent) WithDamage(damage int) EnemyDeathEvent {
	e.Damage = damage
	return e
}

// WithKiller returns a copy credited to another entity
func (e EnemyDeathEvent) WithKiller(killer ecs.EntityID) EnemyDeathEvent {
	e.KillerID = killer
	return e
}

// EnemySpawnedEvent is produced when the spawner creates an enemy
type EnemySpawnedEvent struct {
	EntityID ecs.EntityID
	Template string
	At       float64
}

// Type returns the event type
func (e EnemySpawnedEvent) Type() ecs.EventType {
	return EventEnemySpawned
}

// WeaponFiredEvent is produced for every projectile a weapon launches
type WeaponFiredEvent struct {
	OwnerID      ecs.EntityID
	ProjectileID ecs.EntityID
	Weapon       string
	At           float64
}

// Type returns the event type
func (e WeaponFiredEvent) Type() ecs.EventType {
	return EventWeaponFired
}

// ProjectileHitEvent is produced when a projectile damages an enemy
type ProjectileHitEvent struct {
	ProjectileID ecs.EntityID
	TargetID     ecs.EntityID
	Damage       int
	At           float64
}

// Type returns the event type
func (e ProjectileHitEvent) Type() ecs.EventType {
	return EventProjectileHit
}

// PlayerDamagedEvent is produced when an enemy touches a vulnerable player
type PlayerDamagedEvent struct {
	PlayerID ecs.EntityID
	SourceID ecs.EntityID
	Damage   int
	At       float64
}

// Type returns the event type
func (e PlayerDamagedEvent) Type() ecs.EventType {
	return EventPlayerDamaged
}

// PlayerDiedEvent is produced once when the player's health reaches zero
type PlayerDiedEvent struct {
	PlayerID ecs.EntityID
	KillerID ecs.EntityID
	At       float64
}

// Type returns the event type
func (e PlayerDiedEvent) Type() ecs.EventType {
	return EventPlayerDied
}

// PickupCollectedEvent is produced when the player touches a pickup
type PickupCollectedEvent struct {
	PickupID    ecs.EntityID
	CollectorID ecs.EntityID
	XP          int
	At          float64
}

// Type returns the event type
func (e PickupCollectedEvent) Type() ecs.EventType {
	return EventPickupCollected
}

// ExperienceGainEvent is produced whenever experience is granted
type ExperienceGainEvent struct {
	EntityID ecs.EntityID
	Amount   int
	SourceID ecs.EntityID // Dead enemy or collected pickup
	At       float64
}

// Type returns the event type
func (e ExperienceGainEvent) Type() ecs.EventType {
	return EventExperienceGain
}

// LevelUpEvent is produced for every level gained
type LevelUpEvent struct {
	EntityID ecs.EntityID
	Level    int
	At       float64
}

// Type returns the event type
func (e LevelUpEvent) Type() ecs.EventType {
	return EventLevelUp
}

// CameraOffsetChangedEvent is produced when the camera follow step moves the offset
type CameraOffsetChangedEvent struct {
	TargetID ecs.EntityID
	Previous coords.Vec2
	Offset   coords.Vec2
	At       float64
}

// Type returns the event type
func (e CameraOffsetChangedEvent) Type() ecs.EventType {
	return EventCameraOffsetChanged
}
