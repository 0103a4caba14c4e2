package systems

import (
	"ebiten-survivor/components"
	"ebiten-survivor/ecs"
)

// StatusEffectSystem ticks timed status effects and removes the expired records
type StatusEffectSystem struct{}

// NewStatusEffectSystem creates a new status effect system
func NewStatusEffectSystem() *StatusEffectSystem {
	return &StatusEffectSystem{}
}

// Update ticks every status effect record
func (s *StatusEffectSystem) Update(world *ecs.World, dt float64) error {
	for _, id := range world.Query(components.StatusEffect) {
		records, err := world.GetComponents(id, components.StatusEffect)
		if err != nil {
			continue
		}
		for _, record := range records {
			effect, ok := record.(*components.StatusEffectComponent)
			if !ok || effect.Remaining < 0 {
				continue
			}
			effect.Remaining -= dt
			if effect.Remaining <= 0 {
				if err := world.RemoveComponent(id, components.StatusEffect, record); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
