package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
)

var (
	// ErrUnknownEntity is returned for identifiers this world never issued
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrDeadEntity is returned when a destroyed entity is used as if it were alive
	ErrDeadEntity = errors.New("entity is dead")
	// ErrNoSuchRecord is returned for a record index outside the component bucket
	ErrNoSuchRecord = errors.New("no such component record")
)

// World manages all entities and components
type World struct {
	entities map[EntityID]*Entity
	// Store components as map[EntityID]map[ComponentID][]Component
	components map[EntityID]ComponentMap
	// Every ID this world issued, so stale references can be told apart from unknown ones
	issued idRanges
	// Tag-based entity lookup for quick access
	entityTags map[string]map[EntityID]bool
}

// NewWorld creates a new ECS world
func NewWorld() *World {
	return &World{
		entities:   make(map[EntityID]*Entity),
		components: make(map[EntityID]ComponentMap),
		entityTags: make(map[string]map[EntityID]bool),
	}
}

// CreateEntity creates a new entity and adds it to the world
func (w *World) CreateEntity() *Entity {
	entity := NewEntity()
	w.entities[entity.ID] = entity
	w.components[entity.ID] = make(ComponentMap)
	w.issued.add(entity.ID)
	return entity
}

// lookup resolves a live entity or reports why it cannot
func (w *World) lookup(entityID EntityID) (*Entity, error) {
	if entity, exists := w.entities[entityID]; exists {
		return entity, nil
	}
	if w.issued.contains(entityID) {
		return nil, fmt.Errorf("entity %d: %w", entityID, ErrDeadEntity)
	}
	return nil, fmt.Errorf("entity %d: %w", entityID, ErrUnknownEntity)
}

// DestroyEntity marks an entity dead and removes all of its components and tags.
// Destroying an already dead entity is a no-op.
func (w *World) DestroyEntity(entityID EntityID) error {
	entity, exists := w.entities[entityID]
	if !exists {
		if w.issued.contains(entityID) {
			return nil
		}
		return fmt.Errorf("destroy entity %d: %w", entityID, ErrUnknownEntity)
	}

	// Remove entity from tag lookups
	for tag, tagged := range w.entityTags {
		delete(tagged, entityID)
		if len(tagged) == 0 {
			delete(w.entityTags, tag)
		}
	}

	entity.alive = false
	delete(w.components, entityID)
	delete(w.entities, entityID)
	return nil
}

// IsAlive reports whether the entity exists and has not been destroyed
func (w *World) IsAlive(entityID EntityID) bool {
	_, exists := w.entities[entityID]
	return exists
}

// Entity returns a live entity by its ID
func (w *World) Entity(entityID EntityID) (*Entity, error) {
	return w.lookup(entityID)
}

// EntityCount returns the number of live entities
func (w *World) EntityCount() int {
	return len(w.entities)
}

// AddComponent appends a component record to the entity's bucket for componentID
func (w *World) AddComponent(entityID EntityID, componentID ComponentID, component Component) error {
	if _, err := w.lookup(entityID); err != nil {
		return fmt.Errorf("add component %d: %w", componentID, err)
	}

	componentMap := w.components[entityID]
	componentMap[componentID] = append(componentMap[componentID], component)
	return nil
}

// GetComponents returns every record of componentID held by the entity.
// The slice is a copy; the records themselves are shared.
func (w *World) GetComponents(entityID EntityID, componentID ComponentID) ([]Component, error) {
	if _, err := w.lookup(entityID); err != nil {
		return nil, err
	}

	bucket := w.components[entityID][componentID]
	out := make([]Component, len(bucket))
	copy(out, bucket)
	return out, nil
}

// GetComponent retrieves the first record of componentID from an entity
func (w *World) GetComponent(entityID EntityID, componentID ComponentID) (Component, bool) {
	if componentMap, exists := w.components[entityID]; exists {
		if bucket := componentMap[componentID]; len(bucket) > 0 {
			return bucket[0], true
		}
	}
	return nil, false
}

// HasComponent checks if an entity has at least one record of componentID
func (w *World) HasComponent(entityID EntityID, componentID ComponentID) bool {
	if componentMap, exists := w.components[entityID]; exists {
		return len(componentMap[componentID]) > 0
	}
	return false
}

// RemoveComponent removes a single record, matched by identity, from the entity's bucket.
// Records of a type that cannot be compared with == never match; use RemoveComponentAt for those.
func (w *World) RemoveComponent(entityID EntityID, componentID ComponentID, component Component) error {
	if _, err := w.lookup(entityID); err != nil {
		return err
	}

	for i, c := range w.components[entityID][componentID] {
		if sameRecord(c, component) {
			w.removeAt(entityID, componentID, i)
			break
		}
	}
	return nil
}

// RemoveComponentAt removes the record at index i of the entity's bucket, in the order
// GetComponents returns them
func (w *World) RemoveComponentAt(entityID EntityID, componentID ComponentID, i int) error {
	if _, err := w.lookup(entityID); err != nil {
		return err
	}
	if n := len(w.components[entityID][componentID]); i < 0 || i >= n {
		return fmt.Errorf("remove component %d record %d of %d: %w", componentID, i, n, ErrNoSuchRecord)
	}
	w.removeAt(entityID, componentID, i)
	return nil
}

func (w *World) removeAt(entityID EntityID, componentID ComponentID, i int) {
	componentMap := w.components[entityID]
	bucket := componentMap[componentID]
	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(componentMap, componentID)
	} else {
		componentMap[componentID] = bucket
	}
}

// sameRecord compares two records with == only when their dynamic type allows it
func sameRecord(a, b Component) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil {
		return ta == nil && tb == nil
	}
	return ta.Comparable() && a == b
}

// RemoveComponents drops the whole bucket of componentID from an entity
func (w *World) RemoveComponents(entityID EntityID, componentID ComponentID) error {
	if _, err := w.lookup(entityID); err != nil {
		return err
	}
	delete(w.components[entityID], componentID)
	return nil
}

// Query returns all live entities holding at least one record of every listed type,
// in ascending ID order. An empty query matches every live entity.
func (w *World) Query(componentIDs ...ComponentID) []EntityID {
	result := make([]EntityID, 0)

	for id, componentMap := range w.components {
		if entity, ok := w.entities[id]; !ok || !entity.alive {
			continue
		}
		matches := true
		for _, componentID := range componentIDs {
			if len(componentMap[componentID]) == 0 {
				matches = false
				break
			}
		}
		if matches {
			result = append(result, id)
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

// TagEntity adds a tag to an entity and updates the tag lookup
func (w *World) TagEntity(entityID EntityID, tag string) error {
	if _, err := w.lookup(entityID); err != nil {
		return err
	}

	// Update tag lookup
	if _, exists := w.entityTags[tag]; !exists {
		w.entityTags[tag] = make(map[EntityID]bool)
	}

	w.entityTags[tag][entityID] = true
	return nil
}

// EntitiesWithTag returns the IDs of all live entities with a specific tag, ascending
func (w *World) EntitiesWithTag(tag string) []EntityID {
	entities := make([]EntityID, 0)

	if taggedEntities, exists := w.entityTags[tag]; exists {
		for entityID := range taggedEntities {
			if w.IsAlive(entityID) {
				entities = append(entities, entityID)
			}
		}
	}

	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })
	return entities
}

// idRanges is an ascending list of closed ID intervals. IDs come from a process wide
// counter, so a world that allocates without interleaving holds a single interval.
type idRanges []idRange

type idRange struct{ lo, hi EntityID }

func (r *idRanges) add(id EntityID) {
	if n := len(*r); n > 0 && (*r)[n-1].hi+1 == id {
		(*r)[n-1].hi = id
		return
	}
	*r = append(*r, idRange{lo: id, hi: id})
}

func (r idRanges) contains(id EntityID) bool {
	i := sort.Search(len(r), func(i int) bool { return r[i].hi >= id })
	return i < len(r) && r[i].lo <= id
}

// HasTag reports whether a live entity carries tag
func (w *World) HasTag(entityID EntityID, tag string) bool {
	return w.entityTags[tag][entityID] && w.IsAlive(entityID)
}
