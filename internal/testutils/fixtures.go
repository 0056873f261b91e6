package testutils

import (
	"time"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
)

// FixedTime is the instant used by fixed test clocks
var FixedTime = time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)

// TestPlayerName is the default player name for fixtures
const TestPlayerName = "Ayla"

// CreateTestPlayer returns a level 1 player with a healing potion
func CreateTestPlayer() entities.Player {
	return entities.Player{
		Name:          TestPlayerName,
		Level:         1,
		XPToNextLevel: 3,
		Attributes: entities.Attributes{
			FUE: 2,
			AGI: 1,
			SAB: 0,
			SUE: 1,
		},
		Wounds:         3,
		MaxWounds:      3,
		Fatigue:        3,
		MaxFatigue:     3,
		Inventory:      []string{"pocion_curacion", "antorcha"},
		InventorySlots: 8,
	}
}

// CreateTestWolf returns a weak enemy that dies to one hit
func CreateTestWolf(id string) entities.Enemy {
	return entities.Enemy{
		ID:    id,
		Name:  "Lobo",
		Level: 1,
		Stats: entities.EnemyStats{FUE: 0, AGI: 1, DEF: 6, Heridas: 1},
		LootTable: entities.LootTable{
			Common: []string{"piel_de_lobo"},
		},
	}
}

// CreateTestBandit returns a tougher enemy
func CreateTestBandit(id string) entities.Enemy {
	return entities.Enemy{
		ID:    id,
		Name:  "Bandido",
		Level: 2,
		Stats: entities.EnemyStats{FUE: 1, AGI: 1, DEF: 7, Heridas: 2},
		LootTable: entities.LootTable{
			Common:   []string{"daga"},
			Uncommon: []string{"mapa_robado"},
		},
	}
}
