package systems

import (
	"log"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/ecs"
)

// InvulnerabilityTime is how long the player is immune after taking contact damage
const InvulnerabilityTime = 0.5

// CollisionSystem resolves circle overlaps between projectiles, enemies, the player and pickups
type CollisionSystem struct {
	clock     *Clock
	logger    *log.Logger
	hits      *ecs.Producer
	deaths    *ecs.Producer
	damaged   *ecs.Producer
	died      *ecs.Producer
	collected *ecs.Producer
}

// NewCollisionSystem creates a new collision system
func NewCollisionSystem(tunnel *ecs.TunnelManager, clock *Clock, logger *log.Logger) *CollisionSystem {
	return &CollisionSystem{
		clock:     clock,
		logger:    logger,
		hits:      tunnel.Producer(EventProjectileHit),
		deaths:    tunnel.Producer(EventEnemyDeath),
		damaged:   tunnel.Producer(EventPlayerDamaged),
		died:      tunnel.Producer(EventPlayerDied),
		collected: tunnel.Producer(EventPickupCollected),
	}
}

// body is a collidable entity resolved for one frame
type body struct {
	id     ecs.EntityID
	pos    coords.Vec2
	radius float64
}

func (b body) overlaps(o body) bool {
	return b.pos.Sub(o.pos).Len() <= b.radius+o.radius
}

// Update runs the three collision passes
func (s *CollisionSystem) Update(world *ecs.World, dt float64) error {
	enemies := s.livingEnemies(world)
	if err := s.projectilesVsEnemies(world, enemies); err != nil {
		return err
	}

	playerID, ok := findPlayer(world)
	if !ok {
		return nil
	}
	player, ok := bodyOf(world, playerID)
	if !ok {
		return nil
	}
	s.enemiesVsPlayer(world, player, dt)
	return s.pickupsVsPlayer(world, player)
}

func (s *CollisionSystem) livingEnemies(world *ecs.World) []body {
	var enemies []body
	for _, id := range world.EntitiesWithTag(components.TagEnemy) {
		if health, ok := component[*components.HealthComponent](world, id, components.Health); ok && health.Dead {
			continue
		}
		if b, ok := bodyOf(world, id); ok {
			enemies = append(enemies, b)
		}
	}
	return enemies
}

func bodyOf(world *ecs.World, id ecs.EntityID) (body, bool) {
	position, ok := component[*components.PositionComponent](world, id, components.Position)
	if !ok {
		return body{}, false
	}
	collision, ok := component[*components.CollisionComponent](world, id, components.Collision)
	if !ok {
		return body{}, false
	}
	return body{id: id, pos: position.Vec(), radius: collision.Radius}, true
}

// projectilesVsEnemies damages each enemy a projectile touches at most once.
// A projectile is destroyed on the hit after its pierce count runs out.
func (s *CollisionSystem) projectilesVsEnemies(world *ecs.World, enemies []body) error {
	for _, id := range world.Query(components.Projectile, components.Position, components.Collision) {
		projectile, _ := component[*components.ProjectileComponent](world, id, components.Projectile)
		shot, ok := bodyOf(world, id)
		if projectile == nil || !ok {
			continue
		}

		for _, enemy := range enemies {
			if alreadyHit(projectile, enemy.id) || !shot.overlaps(enemy) {
				continue
			}
			health, ok := component[*components.HealthComponent](world, enemy.id, components.Health)
			if !ok || health.Dead {
				continue
			}

			killed := health.Damage(projectile.Damage)
			projectile.HitIDs = append(projectile.HitIDs, enemy.id)
			s.produce(s.hits, ProjectileHitEvent{ProjectileID: id, TargetID: enemy.id, Damage: projectile.Damage, At: s.clock.Elapsed})
			if killed {
				s.produce(s.deaths, EnemyDeathEvent{EntityID: enemy.id, KillerID: projectile.Owner, Damage: projectile.Damage, At: s.clock.Elapsed})
			}

			if projectile.Pierce <= 0 {
				if err := world.DestroyEntity(id); err != nil {
					return err
				}
				break
			}
			projectile.Pierce--
		}
	}
	return nil
}

func alreadyHit(projectile *components.ProjectileComponent, id ecs.EntityID) bool {
	for _, hit := range projectile.HitIDs {
		if hit == id {
			return true
		}
	}
	return false
}

// enemiesVsPlayer applies contact damage from the first touching enemy, then grants invulnerability
func (s *CollisionSystem) enemiesVsPlayer(world *ecs.World, player body, dt float64) {
	health, ok := component[*components.HealthComponent](world, player.id, components.Health)
	if !ok || health.Dead {
		return
	}
	if health.Invulnerable > 0 {
		health.Invulnerable -= dt
		if health.Invulnerable > 0 {
			return
		}
		health.Invulnerable = 0
	}

	// Re-read enemies so ones killed by projectiles this frame can't hurt the player
	for _, enemy := range s.livingEnemies(world) {
		if !player.overlaps(enemy) {
			continue
		}
		stats, ok := component[*components.EnemyComponent](world, enemy.id, components.Enemy)
		if !ok || stats.ContactDamage <= 0 {
			continue
		}

		killed := health.Damage(stats.ContactDamage)
		health.Invulnerable = InvulnerabilityTime
		s.produce(s.damaged, PlayerDamagedEvent{PlayerID: player.id, SourceID: enemy.id, Damage: stats.ContactDamage, At: s.clock.Elapsed})
		if killed {
			s.produce(s.died, PlayerDiedEvent{PlayerID: player.id, KillerID: enemy.id, At: s.clock.Elapsed})
		}
		return
	}
}

// pickupsVsPlayer collects every pickup the player touches
func (s *CollisionSystem) pickupsVsPlayer(world *ecs.World, player body) error {
	if health, ok := component[*components.HealthComponent](world, player.id, components.Health); ok && health.Dead {
		return nil
	}
	for _, id := range world.EntitiesWithTag(components.TagPickup) {
		item, ok := bodyOf(world, id)
		if !ok || !player.overlaps(item) {
			continue
		}
		pickup, ok := component[*components.PickupComponent](world, id, components.Pickup)
		if !ok {
			continue
		}
		s.produce(s.collected, PickupCollectedEvent{PickupID: id, CollectorID: player.id, XP: pickup.XP, At: s.clock.Elapsed})
		if err := world.DestroyEntity(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *CollisionSystem) produce(p *ecs.Producer, event ecs.Event) {
	if !p.Produce(event) {
		s.logger.Printf("dropped %s event", event.Type())
	}
}
