package systems

import (
	"math/rand"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// LootSpawner rolls loot tables and drops pickups
type LootSpawner interface {
	RollLoot(table string, rng *rand.Rand) int
	SpawnPickup(pos coords.Vec2, xp int) (ecs.EntityID, error)
}

// LootSystem drops XP gems where enemies die
type LootSystem struct {
	spawner LootSpawner
	rng     *rand.Rand
	deaths  *ecs.Subscriber
}

// NewLootSystem creates a new loot system
func NewLootSystem(spawner LootSpawner, tunnel *ecs.TunnelManager, rng *rand.Rand) *LootSystem {
	return &LootSystem{
		spawner: spawner,
		rng:     rng,
		deaths:  tunnel.Subscriber(EventEnemyDeath),
	}
}

// Update rolls the loot table of every enemy that died since the last frame
func (s *LootSystem) Update(world *ecs.World, dt float64) error {
	for _, event := range s.deaths.PeekNew() {
		death, ok := event.(EnemyDeathEvent)
		if !ok {
			continue
		}
		enemy, ok := component[*components.EnemyComponent](world, death.EntityID, components.Enemy)
		if !ok || enemy.LootTable == "" {
			continue
		}
		position, ok := component[*components.PositionComponent](world, death.EntityID, components.Position)
		if !ok {
			continue
		}

		xp := s.spawner.RollLoot(enemy.LootTable, s.rng)
		if xp <= 0 {
			continue
		}
		if _, err := s.spawner.SpawnPickup(position.Vec(), xp); err != nil {
			return err
		}
	}
	return nil
}
