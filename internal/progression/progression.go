// Package progression computes experience, level-ups and their rewards.
// Every function works on a player record the caller owns.
package progression

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
)

// Progression constants
const (
	XPPerLevel = 3
	MaxLevel   = 10
)

// LevelRewards is what reaching a level grants
type LevelRewards struct {
	AttributePoints int    `json:"attributePoints"`
	FullHeal        bool   `json:"fullHeal"`
	Gold            int    `json:"gold,omitempty"`
	InventorySlots  int    `json:"inventorySlots,omitempty"`
	UnlockedItem    string `json:"unlockedItem,omitempty"`
}

// LevelUp records one level gained
type LevelUp struct {
	Level   int          `json:"level"`
	Rewards LevelRewards `json:"rewards"`
}

// Result reports an attribute point spend
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

var goldMilestones = map[int]int{3: 5, 5: 10, 10: 50}

var slotMilestones = map[int]int{3: 2, 5: 2, 7: 2, 10: 5}

var itemUnlocks = map[int]string{
	3:  "mochila_reforzada",
	7:  "amuleto_del_viajero",
	10: "reliquia_ancestral",
}

// CalculateRewards returns the rewards for reaching level
func CalculateRewards(level int) LevelRewards {
	points := 1
	switch level {
	case 5:
		points = 2
	case MaxLevel:
		points = 3
	}

	return LevelRewards{
		AttributePoints: points,
		FullHeal:        true,
		Gold:            goldMilestones[level],
		InventorySlots:  slotMilestones[level],
		UnlockedItem:    itemUnlocks[level],
	}
}

// AddXP grants amount experience and applies every level-up it causes.
// Healing, gold and slots are applied immediately; attribute points are
// banked on the player for ApplyAttributePoint. Non-positive amounts are
// ignored.
func AddXP(p *entities.Player, amount int) []LevelUp {
	if p == nil || amount <= 0 {
		return nil
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.XPToNextLevel <= 0 {
		p.XPToNextLevel = XPPerLevel
	}

	p.XP += amount

	var ups []LevelUp
	for p.XP >= p.XPToNextLevel && p.Level < MaxLevel {
		p.XP -= p.XPToNextLevel
		p.Level++
		p.XPToNextLevel = XPPerLevel

		rewards := CalculateRewards(p.Level)
		apply(p, rewards)
		ups = append(ups, LevelUp{Level: p.Level, Rewards: rewards})

		slog.Info("Level up",
			"player", p.Name,
			"level", p.Level,
			"attribute_points", rewards.AttributePoints,
		)
	}

	return ups
}

func apply(p *entities.Player, r LevelRewards) {
	p.AttributePoints += r.AttributePoints
	if r.FullHeal {
		p.Wounds = p.MaxWounds
		p.Fatigue = p.MaxFatigue
	}
	p.Gold += r.Gold
	p.InventorySlots += r.InventorySlots
	if r.UnlockedItem != "" {
		p.Inventory = append(p.Inventory, r.UnlockedItem)
	}
}

// ApplyAttributePoint spends one banked point to raise attr by one. It
// fails without changing the player when attr is unknown, no points are
// left or attr is already at the cap.
func ApplyAttributePoint(p *entities.Player, attr entities.Attribute) Result {
	current, ok := p.Attributes.Get(attr)
	if !ok {
		return Result{Message: fmt.Sprintf("unknown attribute %s", attr)}
	}
	if p.AttributePoints <= 0 {
		return Result{Message: "no attribute points to spend"}
	}
	if current >= entities.AttributeCap {
		return Result{Message: fmt.Sprintf("%s is already at its maximum of %d", attr, entities.AttributeCap)}
	}

	p.Attributes.Set(attr, current+1)
	p.AttributePoints--
	return Result{
		Success: true,
		Message: fmt.Sprintf("%s raised to %d", attr, current+1),
	}
}

// XPProgress returns the percentage towards the next level. A player at
// the level cap reports 100.
func XPProgress(p *entities.Player) int {
	if p.Level >= MaxLevel {
		return 100
	}
	next := p.XPToNextLevel
	if next <= 0 {
		next = XPPerLevel
	}
	return min(100, int(math.Floor(100*float64(p.XP)/float64(next))))
}

// Rest restores fatigue to its maximum. It does not heal wounds.
func Rest(p *entities.Player) {
	p.Fatigue = p.MaxFatigue
}
