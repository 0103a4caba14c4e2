package spawners

import (
	"io"
	"log"
	"math/rand"
	"testing"

	"ebiten-survivor/components"
	"ebiten-survivor/coords"
	"ebiten-survivor/data"
	"ebiten-survivor/ecs"
)

func newTestSpawner(t *testing.T) (*EntitySpawner, *ecs.World) {
	t.Helper()
	templates := data.NewTemplateManager()
	if err := templates.LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}
	world := ecs.NewWorld()
	return NewEntitySpawner(world, templates, log.New(io.Discard, "", 0)), world
}

func TestCreatePlayer(t *testing.T) {
	s, world := newTestSpawner(t)
	id, err := s.CreatePlayer(coords.V(5, 6), 120, 80, []string{"wand", "knife"})
	if err != nil {
		t.Fatalf("CreatePlayer: %v", err)
	}

	if players := world.EntitiesWithTag(components.TagPlayer); len(players) != 1 || players[0] != id {
		t.Errorf("player not tagged: %v", players)
	}
	weapons, _ := world.GetComponents(id, components.Weapon)
	if len(weapons) != 2 {
		t.Fatalf("expected two weapon records, got %d", len(weapons))
	}
	knife := weapons[1].(*components.WeaponComponent)
	if knife.Attack != components.AttackDirection || knife.Pierce != 1 {
		t.Errorf("knife not built from its template: %+v", knife)
	}
	h, _ := ecs.First[*components.HealthComponent](mustRecords(t, world, id, components.Health))
	if h.Current != 80 || h.Max != 80 {
		t.Errorf("health %+v", h)
	}

	if _, err := s.CreatePlayer(coords.V(0, 0), 1, 1, []string{"bazooka"}); err == nil {
		t.Error("unknown weapon should fail")
	}
}

func mustRecords(t *testing.T, world *ecs.World, id ecs.EntityID, cid ecs.ComponentID) []ecs.Component {
	t.Helper()
	records, err := world.GetComponents(id, cid)
	if err != nil {
		t.Fatalf("GetComponents: %v", err)
	}
	return records
}

func TestSpawnEnemyAppliesTemplate(t *testing.T) {
	s, world := newTestSpawner(t)
	id, err := s.SpawnEnemy("golem", coords.V(1, 2), 99, 1.5)
	if err != nil {
		t.Fatalf("SpawnEnemy: %v", err)
	}

	collision, _ := ecs.First[*components.CollisionComponent](mustRecords(t, world, id, components.Collision))
	if collision.Radius != 18 {
		t.Errorf("override should set the collision radius to 18, got %v", collision.Radius)
	}
	health, _ := ecs.First[*components.HealthComponent](mustRecords(t, world, id, components.Health))
	if health.Max != 90 {
		t.Errorf("60 health scaled by 1.5 should be 90, got %d", health.Max)
	}
	ai, _ := ecs.First[*components.AIComponent](mustRecords(t, world, id, components.AI))
	if ai.Movement != components.MoveChase || ai.Target != 99 {
		t.Errorf("ai %+v", ai)
	}
	enemy, _ := ecs.First[*components.EnemyComponent](mustRecords(t, world, id, components.Enemy))
	if enemy.LootTable != "rich" || enemy.XPReward != 5 {
		t.Errorf("enemy %+v", enemy)
	}

	if _, err := s.SpawnEnemy("dragon", coords.V(0, 0), 0, 1); err == nil {
		t.Error("unknown template should fail")
	}
}

func TestSpawnProjectileNeedsDirection(t *testing.T) {
	s, world := newTestSpawner(t)
	weapon := &components.WeaponComponent{Damage: 3, ProjectileSpeed: 10, ProjectileLifetime: 1, Pierce: 2}

	if _, err := s.SpawnProjectile(1, weapon, coords.V(0, 0), coords.V(0, 0)); err == nil {
		t.Error("zero direction should fail")
	}
	id, err := s.SpawnProjectile(1, weapon, coords.V(0, 0), coords.V(0, -3))
	if err != nil {
		t.Fatalf("SpawnProjectile: %v", err)
	}
	v, _ := ecs.First[*components.VelocityComponent](mustRecords(t, world, id, components.Velocity))
	if v.Vec() != coords.V(0, -10) {
		t.Errorf("velocity %v, want (0,-10)", v.Vec())
	}
	p, _ := ecs.First[*components.ProjectileComponent](mustRecords(t, world, id, components.Projectile))
	if p.Owner != 1 || p.Damage != 3 || p.Pierce != 2 {
		t.Errorf("projectile %+v", p)
	}
}

func TestLootTableRoll(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	if got := NewLootTable(nil).Roll(rng); got != 0 {
		t.Errorf("empty table dropped %d", got)
	}
	if got := NewLootTable([]LootTableEntry{{XP: 9, Weight: 0}}).Roll(rng); got != 0 {
		t.Errorf("zero weight entries never drop, got %d", got)
	}

	table := NewLootTable([]LootTableEntry{{XP: 1, Weight: 3}, {XP: 10, Weight: 1}})
	counts := map[int]int{}
	for i := 0; i < 4000; i++ {
		counts[table.Roll(rng)]++
	}
	if len(counts) != 2 || counts[1] < 2700 || counts[1] > 3300 {
		t.Errorf("rolls not weighted 3:1: %v", counts)
	}
}

func TestPickEnemyAndRollLoot(t *testing.T) {
	s, _ := newTestSpawner(t)
	rng := rand.New(rand.NewSource(1))
	seen := map[string]bool{}
	for i := 0; i < 500; i++ {
		id, err := s.PickEnemy(rng)
		if err != nil {
			t.Fatal(err)
		}
		seen[id] = true
	}
	for _, id := range []string{"slime", "bat", "golem"} {
		if !seen[id] {
			t.Errorf("%s never picked in 500 rolls", id)
		}
	}

	if got := s.RollLoot("rich", rng); got != 5 {
		t.Errorf("rich table always drops 5, got %d", got)
	}
	if got := s.RollLoot("missing", rng); got != 0 {
		t.Errorf("unknown table dropped %d", got)
	}
}
