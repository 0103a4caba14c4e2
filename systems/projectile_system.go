package systems

import (
	"ebiten-survivor/components"
	"ebiten-survivor/ecs"
)

// ProjectileSystem expires projectiles whose lifetime ran out
type ProjectileSystem struct{}

// NewProjectileSystem creates a new projectile system
func NewProjectileSystem() *ProjectileSystem {
	return &ProjectileSystem{}
}

// Update ticks projectile lifetimes and destroys the expired ones
func (s *ProjectileSystem) Update(world *ecs.World, dt float64) error {
	for _, id := range world.Query(components.Projectile) {
		projectile, ok := component[*components.ProjectileComponent](world, id, components.Projectile)
		if !ok {
			continue
		}
		projectile.Lifetime -= dt
		if projectile.Lifetime <= 0 {
			if err := world.DestroyEntity(id); err != nil {
				return err
			}
		}
	}
	return nil
}
