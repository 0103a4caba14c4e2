package spawners

import (
	"math/rand"

	"ebiten-survivor/data"
)

// LootTable defines the weighted XP drops of an enemy
type LootTable struct {
	Entries []LootTableEntry
}

// LootTableEntry represents a single entry in a loot table. XP 0 drops nothing.
type LootTableEntry struct {
	XP     int
	Weight int
}

// NewLootTable creates a new loot table
func NewLootTable(entries []LootTableEntry) *LootTable {
	return &LootTable{
		Entries: entries,
	}
}

// NewLootTableFromTemplate converts balance data into a loot table
func NewLootTableFromTemplate(t *data.LootTableTemplate) *LootTable {
	entries := make([]LootTableEntry, 0, len(t.Entries))
	for _, e := range t.Entries {
		entries = append(entries, LootTableEntry{XP: e.XP, Weight: e.Weight})
	}
	return NewLootTable(entries)
}

// Roll picks one entry by weight and returns its XP value
func (lt *LootTable) Roll(rng *rand.Rand) int {
	// Calculate total weight
	totalWeight := 0
	for _, entry := range lt.Entries {
		if entry.Weight > 0 {
			totalWeight += entry.Weight
		}
	}
	if totalWeight == 0 {
		return 0
	}

	roll := rng.Intn(totalWeight)
	for _, entry := range lt.Entries {
		if entry.Weight <= 0 {
			continue
		}
		if roll < entry.Weight {
			return entry.XP
		}
		roll -= entry.Weight
	}
	return 0
}
