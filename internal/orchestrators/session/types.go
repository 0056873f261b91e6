package session

import (
	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/quest"
	"github.com/KirkDiggler/rpg-engine/internal/progression"
)

// CheckInput defines an attribute check
type CheckInput struct {
	Action     string
	Attribute  entities.Attribute
	Difficulty dice.Difficulty
	Advantage  dice.AdvantageMode
}

// CheckOutput is the resolved check with its narration
type CheckOutput struct {
	Result dice.Result
	Text   string
}

// QuestOffer is a newly activated quest with its introduction
type QuestOffer struct {
	Quest *entities.Quest
	Intro string
}

// CombatSummary is what an ended encounter changed
type CombatSummary struct {
	Phase    combat.Phase
	Escaped  bool
	Turns    int
	Rewards  entities.Rewards
	LevelUps []progression.LevelUp
}

// ObjectiveOutcome is a completion attempt and the level-ups its rewards caused
type ObjectiveOutcome struct {
	quest.ObjectiveResult
	LevelUps []progression.LevelUp
}
