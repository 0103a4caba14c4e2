package ecs

import "sync/atomic"

// EntityID is a unique identifier for an entity
type EntityID uint64

// nextEntityID is process wide so identifiers stay unique across worlds and are never reused
var nextEntityID uint64 = 0

// NewEntityID generates a new unique entity ID
func NewEntityID() EntityID {
	return EntityID(atomic.AddUint64(&nextEntityID, 1))
}

// Entity represents a game object in the ECS architecture
type Entity struct {
	ID    EntityID
	alive bool
}

// NewEntity creates a new live entity
func NewEntity() *Entity {
	return &Entity{
		ID:    NewEntityID(),
		alive: true,
	}
}

// Alive reports whether the entity has not been destroyed
func (e *Entity) Alive() bool {
	return e.alive
}
