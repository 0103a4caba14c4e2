package data

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"os"
	"path"
	"sort"
)

//go:embed defaults/*.json
var defaultFS embed.FS

// EnemyTemplate represents a template for creating enemies
type EnemyTemplate struct {
	// Basic info
	ID   string `json:"id"`   // Unique identifier
	Name string `json:"name"` // Display name

	// Visual appearance
	Glyph string `json:"glyph"` // Character used by the terminal renderer
	Color string `json:"color"` // Color in hex format (e.g. "#00FF00")

	// Stats
	Health        int     `json:"health"`
	Speed         float64 `json:"speed"`
	Radius        float64 `json:"radius"`
	XP            int     `json:"xp"` // XP awarded when killed
	ContactDamage int     `json:"contactDamage"`

	// Behavior
	Movement    string `json:"movement"`    // "static", "linear" or "chase"
	LootTable   string `json:"lootTable"`   // Loot table rolled on death
	SpawnWeight int    `json:"spawnWeight"` // Relative chance of spawning (higher = more common)

	// Overrides sets component fields by name after creation: {"Collision": {"Radius": 18}}
	Overrides map[string]map[string]interface{} `json:"overrides"`
}

// WeaponTemplate represents a template for creating weapons
type WeaponTemplate struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	Attack             string  `json:"attack"` // "direction", "nearest" or "target"
	Damage             int     `json:"damage"`
	Cooldown           float64 `json:"cooldown"`
	Range              float64 `json:"range"`
	ProjectileSpeed    float64 `json:"projectileSpeed"`
	ProjectileLifetime float64 `json:"projectileLifetime"`
	ProjectileRadius   float64 `json:"projectileRadius"`
	Pierce             int     `json:"pierce"`
}

// LootEntry is one weighted outcome of a loot table; XP 0 means no drop
type LootEntry struct {
	XP     int `json:"xp"`
	Weight int `json:"weight"`
}

// LootTableTemplate lists the weighted outcomes of a loot roll
type LootTableTemplate struct {
	ID      string      `json:"id"`
	Entries []LootEntry `json:"entries"`
}

// TemplateManager manages all balance templates
type TemplateManager struct {
	Enemies    map[string]*EnemyTemplate
	Weapons    map[string]*WeaponTemplate
	LootTables map[string]*LootTableTemplate
}

// NewTemplateManager creates an empty template manager
func NewTemplateManager() *TemplateManager {
	return &TemplateManager{
		Enemies:    make(map[string]*EnemyTemplate),
		Weapons:    make(map[string]*WeaponTemplate),
		LootTables: make(map[string]*LootTableTemplate),
	}
}

// LoadDefaults loads the templates embedded in the binary
func (m *TemplateManager) LoadDefaults() error {
	return m.loadFS(defaultFS, "defaults")
}

// LoadTemplatesFromDirectory loads enemies.json, weapons.json and loot.json from a directory.
// Missing files are skipped so a directory can override only part of the defaults.
func (m *TemplateManager) LoadTemplatesFromDirectory(dirPath string) error {
	if _, err := os.Stat(dirPath); err != nil {
		return fmt.Errorf("failed to read template directory: %w", err)
	}
	return m.loadFS(os.DirFS(dirPath), ".")
}

func (m *TemplateManager) loadFS(fsys fs.FS, dir string) error {
	loaders := map[string]func([]byte) error{
		"enemies.json": m.LoadEnemiesJSON,
		"weapons.json": m.LoadWeaponsJSON,
		"loot.json":    m.LoadLootJSON,
	}
	for name, load := range loaders {
		raw, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
		if err := load(raw); err != nil {
			return fmt.Errorf("failed to load %s: %w", name, err)
		}
	}
	return nil
}

// LoadEnemiesJSON parses a JSON array of enemy templates
func (m *TemplateManager) LoadEnemiesJSON(raw []byte) error {
	var templates []*EnemyTemplate
	if err := json.Unmarshal(raw, &templates); err != nil {
		return err
	}
	for _, t := range templates {
		if t.ID == "" {
			return fmt.Errorf("enemy template ID cannot be empty")
		}
		if t.Health <= 0 {
			return fmt.Errorf("enemy template '%s' needs positive health", t.ID)
		}
		m.Enemies[t.ID] = t
	}
	return nil
}

// LoadWeaponsJSON parses a JSON array of weapon templates
func (m *TemplateManager) LoadWeaponsJSON(raw []byte) error {
	var templates []*WeaponTemplate
	if err := json.Unmarshal(raw, &templates); err != nil {
		return err
	}
	for _, t := range templates {
		if t.ID == "" {
			return fmt.Errorf("weapon template ID cannot be empty")
		}
		if t.Cooldown <= 0 {
			return fmt.Errorf("weapon template '%s' needs a positive cooldown", t.ID)
		}
		m.Weapons[t.ID] = t
	}
	return nil
}

// LoadLootJSON parses a JSON array of loot tables
func (m *TemplateManager) LoadLootJSON(raw []byte) error {
	var tables []*LootTableTemplate
	if err := json.Unmarshal(raw, &tables); err != nil {
		return err
	}
	for _, t := range tables {
		if t.ID == "" {
			return fmt.Errorf("loot table ID cannot be empty")
		}
		m.LootTables[t.ID] = t
	}
	return nil
}

// GetEnemy returns an enemy template by ID
func (m *TemplateManager) GetEnemy(id string) (*EnemyTemplate, bool) {
	t, ok := m.Enemies[id]
	return t, ok
}

// GetWeapon returns a weapon template by ID
func (m *TemplateManager) GetWeapon(id string) (*WeaponTemplate, bool) {
	t, ok := m.Weapons[id]
	return t, ok
}

// EnemyIDs returns every enemy template ID in sorted order
func (m *TemplateManager) EnemyIDs() []string {
	ids := make([]string, 0, len(m.Enemies))
	for id := range m.Enemies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ParseHexColor converts a hex string to a color.RGBA
func ParseHexColor(hex string) (c color.RGBA) {
	c.A = 0xff

	if len(hex) < 7 {
		return color.RGBA{255, 255, 255, 255}
	}

	format := "#%02x%02x%02x"
	_, err := fmt.Sscanf(hex, format, &c.R, &c.G, &c.B)
	if err != nil {
		return color.RGBA{255, 255, 255, 255} // Default white on error
	}

	return
}
