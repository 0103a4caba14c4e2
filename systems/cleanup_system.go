package systems

import (
	"fmt"
	"log"

	"ebiten-survivor/components"
	"ebiten-survivor/ecs"
)

// CleanupSystem removes dead enemies once every reader of their death has run
type CleanupSystem struct {
	deaths   *ecs.Consumer
	messages *MessageLog
	logger   *log.Logger
}

// NewCleanupSystem creates a new cleanup system
func NewCleanupSystem(tunnel *ecs.TunnelManager, messages *MessageLog, logger *log.Logger) *CleanupSystem {
	return &CleanupSystem{
		deaths:   tunnel.Consumer(EventEnemyDeath),
		messages: messages,
		logger:   logger,
	}
}

// Update drains the death queue and destroys each dead enemy
func (s *CleanupSystem) Update(world *ecs.World, dt float64) error {
	for _, event := range s.deaths.ConsumeAll() {
		death, ok := event.(EnemyDeathEvent)
		if !ok {
			continue
		}
		if isPlayer(world, death.KillerID) {
			s.messages.AddCombat("You killed the %s!", getEntityName(world, death.EntityID))
		}
		if err := world.DestroyEntity(death.EntityID); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
	}

	// Deaths whose event was dropped by a full queue still get removed
	for _, id := range world.EntitiesWithTag(components.TagEnemy) {
		if health, ok := component[*components.HealthComponent](world, id, components.Health); ok && health.Dead {
			s.logger.Printf("removing enemy %d with no death event", id)
			if err := world.DestroyEntity(id); err != nil {
				return fmt.Errorf("cleanup: %w", err)
			}
		}
	}
	return nil
}
