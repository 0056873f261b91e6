package dice

import (
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// Outcome is the tier a resolved roll falls into
type Outcome string

// Outcome tiers
const (
	OutcomeCriticalFailure Outcome = "critical_failure"
	OutcomePartialSuccess  Outcome = "partial_success"
	OutcomeSuccess         Outcome = "success"
	OutcomeCriticalSuccess Outcome = "critical_success"
)

// IsSuccess reports whether the outcome counts as a success
func (o Outcome) IsSuccess() bool {
	switch o {
	case OutcomePartialSuccess, OutcomeSuccess, OutcomeCriticalSuccess:
		return true
	}
	return false
}

// AdvantageMode selects how the two kept dice are acquired
type AdvantageMode string

// Advantage modes
const (
	AdvantageNone         AdvantageMode = "none"
	AdvantageAdvantage    AdvantageMode = "advantage"
	AdvantageDisadvantage AdvantageMode = "disadvantage"
)

// ParseAdvantage maps a mode name to an AdvantageMode. Empty means none.
func ParseAdvantage(s string) (AdvantageMode, error) {
	switch AdvantageMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AdvantageNone:
		return AdvantageNone, nil
	case AdvantageAdvantage:
		return AdvantageAdvantage, nil
	case AdvantageDisadvantage:
		return AdvantageDisadvantage, nil
	default:
		return AdvantageNone, errors.InvalidArgumentf("unknown advantage mode: %s", s)
	}
}

// Difficulty is the target a roll total must reach
type Difficulty int

// Named difficulty tiers
const (
	DifficultyEasy      Difficulty = 6
	DifficultyNormal    Difficulty = 7
	DifficultyDifficult Difficulty = 9
	DifficultyEpic      Difficulty = 11
)

var namedDifficulties = map[string]Difficulty{
	"easy":      DifficultyEasy,
	"normal":    DifficultyNormal,
	"difficult": DifficultyDifficult,
	"epic":      DifficultyEpic,
}

// ParseDifficulty accepts a tier name or a raw integer
func ParseDifficulty(s string) (Difficulty, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if d, ok := namedDifficulties[key]; ok {
		return d, nil
	}
	n, err := strconv.Atoi(key)
	if err != nil {
		return 0, errors.InvalidArgumentf("invalid difficulty: %s (expected easy, normal, difficult, epic or an integer)", s)
	}
	return Difficulty(n), nil
}

// Result is the full record of one resolved roll
type Result struct {
	Dice        [2]int        `json:"dice"`
	Dropped     []int         `json:"dropped,omitempty"`
	DiceTotal   int           `json:"diceTotal"`
	Modifier    int           `json:"modifier"`
	Total       int           `json:"total"`
	Difficulty  int           `json:"difficulty"`
	Outcome     Outcome       `json:"outcome"`
	Success     bool          `json:"success"`
	Advantage   AdvantageMode `json:"advantage"`
	Consequence string        `json:"consequence,omitempty"`
	Bonus       string        `json:"bonus,omitempty"`
}

// CombatResult is a roll with the damage it deals
type CombatResult struct {
	Result
	Damage int `json:"damage"`
}
