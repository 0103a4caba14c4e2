package data

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	m := NewTemplateManager()
	if err := m.LoadDefaults(); err != nil {
		t.Fatalf("LoadDefaults: %v", err)
	}

	if _, ok := m.GetEnemy("slime"); !ok {
		t.Error("default enemies should include slime")
	}
	if w, ok := m.GetWeapon("wand"); !ok || w.Attack != "nearest" {
		t.Errorf("default wand missing or wrong: %+v", w)
	}
	if _, ok := m.LootTables["common"]; !ok {
		t.Error("default loot tables should include common")
	}
	ids := m.EnemyIDs()
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("EnemyIDs not sorted: %v", ids)
		}
	}
	golem, _ := m.GetEnemy("golem")
	if golem.Overrides["Collision"]["Radius"] != float64(18) {
		t.Errorf("overrides not decoded: %v", golem.Overrides)
	}
}

func TestLoadDirectoryPartialOverride(t *testing.T) {
	dir := t.TempDir()
	raw := []byte(`[{"id":"slime","name":"Big Slime","health":99,"movement":"chase"}]`)
	if err := os.WriteFile(filepath.Join(dir, "enemies.json"), raw, 0o644); err != nil {
		t.Fatal(err)
	}

	m := NewTemplateManager()
	if err := m.LoadDefaults(); err != nil {
		t.Fatal(err)
	}
	if err := m.LoadTemplatesFromDirectory(dir); err != nil {
		t.Fatalf("LoadTemplatesFromDirectory: %v", err)
	}
	slime, _ := m.GetEnemy("slime")
	if slime.Health != 99 || slime.Name != "Big Slime" {
		t.Errorf("directory template should replace default, got %+v", slime)
	}
	if _, ok := m.GetWeapon("wand"); !ok {
		t.Error("weapons not present in the directory keep their defaults")
	}

	if err := m.LoadTemplatesFromDirectory(filepath.Join(dir, "missing")); err == nil {
		t.Error("missing directory should be an error")
	}
}

func TestRejectInvalidTemplates(t *testing.T) {
	m := NewTemplateManager()
	cases := map[string]func([]byte) error{
		`[{"name":"nameless","health":1}]`: m.LoadEnemiesJSON,
		`[{"id":"ghost","health":0}]`:      m.LoadEnemiesJSON,
		`[{"id":"stick","cooldown":0}]`:    m.LoadWeaponsJSON,
		`[{"entries":[]}]`:                 m.LoadLootJSON,
		`not json`:                         m.LoadWeaponsJSON,
	}
	for raw, load := range cases {
		if err := load([]byte(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestParseHexColor(t *testing.T) {
	if got := ParseHexColor("#3cb44b"); got != (color.RGBA{0x3c, 0xb4, 0x4b, 0xff}) {
		t.Errorf("ParseHexColor = %v", got)
	}
	if got := ParseHexColor("bad"); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("invalid colours default to white, got %v", got)
	}
}
