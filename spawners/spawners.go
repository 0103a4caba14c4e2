package spawners

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"unicode/utf8"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/data"
	"ebiten-survivor/ecs"
)

// PickupRadius is the collision radius of XP gems
const PickupRadius = 6

// EntitySpawner manages the creation of game entities
type EntitySpawner struct {
	world           *ecs.World
	templateManager *data.TemplateManager
	lootTables      map[string]*LootTable
	logger          *log.Logger
}

// NewEntitySpawner creates a new entity spawner
func NewEntitySpawner(world *ecs.World, templateManager *data.TemplateManager, logger *log.Logger) *EntitySpawner {
	lootTables := make(map[string]*LootTable, len(templateManager.LootTables))
	for id, t := range templateManager.LootTables {
		lootTables[id] = NewLootTableFromTemplate(t)
	}
	return &EntitySpawner{
		world:           world,
		templateManager: templateManager,
		lootTables:      lootTables,
		logger:          logger,
	}
}

// CreatePlayer creates a player entity at the given position armed with the named weapons
func (s *EntitySpawner) CreatePlayer(pos coords.Vec2, speed float64, health int, weapons []string) (ecs.EntityID, error) {
	playerEntity := s.world.CreateEntity()
	id := playerEntity.ID
	if err := s.world.TagEntity(id, components.TagPlayer); err != nil {
		return 0, err
	}

	comps := []struct {
		id   ecs.ComponentID
		comp ecs.Component
	}{
		{components.Position, &components.PositionComponent{X: pos.X, Y: pos.Y}},
		{components.Velocity, &components.VelocityComponent{}},
		{components.Motion, &components.MotionComponent{}},
		{components.Renderable, components.NewRenderableComponent('@', color.RGBA{255, 255, 255, 255}, 10)},
		{components.Player, &components.PlayerComponent{Speed: speed}},
		{components.PlayerInput, &components.PlayerInputComponent{}},
		{components.Health, components.NewHealthComponent(health)},
		{components.Collision, &components.CollisionComponent{Radius: 10, Layer: components.LayerPlayer}},
		{components.Experience, components.NewExperienceComponent()},
		{components.Name, &components.NameComponent{Name: "Player"}},
	}
	for _, c := range comps {
		if err := s.world.AddComponent(id, c.id, c.comp); err != nil {
			return 0, err
		}
	}

	for _, weaponID := range weapons {
		if err := s.AddWeapon(id, weaponID); err != nil {
			return 0, err
		}
	}

	s.logf("Player created at %.0f,%.0f", pos.X, pos.Y)
	return id, nil
}

// AddWeapon equips an entity with another weapon from the templates
func (s *EntitySpawner) AddWeapon(owner ecs.EntityID, weaponID string) error {
	t, ok := s.templateManager.GetWeapon(weaponID)
	if !ok {
		return fmt.Errorf("weapon template not found: %s", weaponID)
	}
	attack, err := components.ParseAttackKind(t.Attack)
	if err != nil {
		return fmt.Errorf("weapon %s: %w", weaponID, err)
	}
	return s.world.AddComponent(owner, components.Weapon, &components.WeaponComponent{
		Name:               t.Name,
		Attack:             attack,
		Damage:             t.Damage,
		Cooldown:           t.Cooldown,
		Timer:              t.Cooldown,
		Range:              t.Range,
		ProjectileSpeed:    t.ProjectileSpeed,
		ProjectileLifetime: t.ProjectileLifetime,
		ProjectileRadius:   t.ProjectileRadius,
		Pierce:             t.Pierce,
	})
}

// SpawnEnemy creates an enemy from a template. healthScale multiplies the template health.
func (s *EntitySpawner) SpawnEnemy(templateID string, pos coords.Vec2, target ecs.EntityID, healthScale float64) (ecs.EntityID, error) {
	t, ok := s.templateManager.GetEnemy(templateID)
	if !ok {
		return 0, fmt.Errorf("enemy template not found: %s", templateID)
	}
	movement, err := components.ParseMovementKind(t.Movement)
	if err != nil {
		return 0, fmt.Errorf("enemy %s: %w", templateID, err)
	}
	if healthScale < 1 {
		healthScale = 1
	}

	glyph, _ := utf8.DecodeRuneInString(t.Glyph)
	if glyph == utf8.RuneError {
		glyph = 'e'
	}

	enemy := s.world.CreateEntity()
	id := enemy.ID
	if err := s.world.TagEntity(id, components.TagEnemy); err != nil {
		return 0, err
	}

	comps := map[ecs.ComponentID]ecs.Component{
		components.Position:   &components.PositionComponent{X: pos.X, Y: pos.Y},
		components.Velocity:   &components.VelocityComponent{},
		components.Renderable: components.NewRenderableComponent(glyph, data.ParseHexColor(t.Color), t.Radius),
		components.Health:     components.NewHealthComponent(int(math.Ceil(float64(t.Health) * healthScale))),
		components.Collision:  &components.CollisionComponent{Radius: t.Radius, Layer: components.LayerEnemy},
		components.AI:         &components.AIComponent{Movement: movement, Speed: t.Speed, Target: target},
		components.Name:       &components.NameComponent{Name: t.Name},
		components.Enemy: &components.EnemyComponent{
			Kind:          t.ID,
			XPReward:      t.XP,
			ContactDamage: t.ContactDamage,
			LootTable:     t.LootTable,
		},
	}
	for cid, comp := range comps {
		if err := s.world.AddComponent(id, cid, comp); err != nil {
			return 0, err
		}
	}

	if err := s.applyOverrides(id, t); err != nil {
		return 0, fmt.Errorf("enemy %s: %w", templateID, err)
	}
	return id, nil
}

// applyOverrides sets component fields named by the template after the entity is built
func (s *EntitySpawner) applyOverrides(id ecs.EntityID, t *data.EnemyTemplate) error {
	for compName, props := range t.Overrides {
		cid, ok := components.GetComponentIDByName(compName)
		if !ok {
			return fmt.Errorf("unknown component in overrides: %s", compName)
		}
		comp, ok := s.world.GetComponent(id, cid)
		if !ok {
			return fmt.Errorf("override for missing component: %s", compName)
		}
		for prop, value := range props {
			if err := components.SetComponentProperty(comp, prop, value); err != nil {
				return err
			}
		}
	}
	return nil
}

// SpawnProjectile launches a projectile from a weapon in direction dir
func (s *EntitySpawner) SpawnProjectile(owner ecs.EntityID, weapon *components.WeaponComponent, from, dir coords.Vec2) (ecs.EntityID, error) {
	dir = dir.Normalized()
	if dir.IsZero() {
		return 0, fmt.Errorf("projectile needs a direction")
	}
	velocity := dir.Scale(weapon.ProjectileSpeed)

	projectile := s.world.CreateEntity()
	id := projectile.ID
	if err := s.world.TagEntity(id, components.TagProjectile); err != nil {
		return 0, err
	}

	comps := map[ecs.ComponentID]ecs.Component{
		components.Position:   &components.PositionComponent{X: from.X, Y: from.Y},
		components.Velocity:   &components.VelocityComponent{X: velocity.X, Y: velocity.Y},
		components.Renderable: components.NewRenderableComponent('*', color.RGBA{255, 220, 80, 255}, weapon.ProjectileRadius),
		components.Collision:  &components.CollisionComponent{Radius: weapon.ProjectileRadius, Layer: components.LayerProjectile},
		components.Projectile: &components.ProjectileComponent{
			Owner:    owner,
			Damage:   weapon.Damage,
			Lifetime: weapon.ProjectileLifetime,
			Pierce:   weapon.Pierce,
		},
	}
	for cid, comp := range comps {
		if err := s.world.AddComponent(id, cid, comp); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// SpawnPickup drops an XP gem at pos
func (s *EntitySpawner) SpawnPickup(pos coords.Vec2, xp int) (ecs.EntityID, error) {
	pickup := s.world.CreateEntity()
	id := pickup.ID
	if err := s.world.TagEntity(id, components.TagPickup); err != nil {
		return 0, err
	}

	comps := map[ecs.ComponentID]ecs.Component{
		components.Position:   &components.PositionComponent{X: pos.X, Y: pos.Y},
		components.Renderable: components.NewRenderableComponent('+', color.RGBA{80, 160, 255, 255}, PickupRadius),
		components.Collision:  &components.CollisionComponent{Radius: PickupRadius, Layer: components.LayerPickup},
		components.Pickup:     &components.PickupComponent{XP: xp},
	}
	for cid, comp := range comps {
		if err := s.world.AddComponent(id, cid, comp); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// PickEnemy chooses an enemy template by spawn weight
func (s *EntitySpawner) PickEnemy(rng *rand.Rand) (string, error) {
	ids := s.templateManager.EnemyIDs()
	total := 0
	for _, id := range ids {
		t, _ := s.templateManager.GetEnemy(id)
		if t.SpawnWeight > 0 {
			total += t.SpawnWeight
		}
	}
	if total == 0 {
		return "", fmt.Errorf("no spawnable enemy templates")
	}

	roll := rng.Intn(total)
	for _, id := range ids {
		t, _ := s.templateManager.GetEnemy(id)
		if t.SpawnWeight <= 0 {
			continue
		}
		if roll < t.SpawnWeight {
			return id, nil
		}
		roll -= t.SpawnWeight
	}
	return ids[len(ids)-1], nil
}

// RollLoot rolls the named loot table; unknown tables drop nothing
func (s *EntitySpawner) RollLoot(table string, rng *rand.Rand) int {
	lt, ok := s.lootTables[table]
	if !ok {
		return 0
	}
	return lt.Roll(rng)
}

func (s *EntitySpawner) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
