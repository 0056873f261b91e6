// Package dice implements the 2d6 resolution mechanic: two six-sided dice
// plus modifiers against a difficulty, banded into four outcome tiers.
package dice

import (
	"log/slog"
	"sort"

	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
)

// Resolver resolves rolls against the session RNG
type Resolver struct {
	rng *rng.RNG
}

// NewResolver creates a resolver drawing from r
func NewResolver(r *rng.RNG) *Resolver {
	return &Resolver{rng: r}
}

// RNG returns the generator the resolver draws from
func (r *Resolver) RNG() *rng.RNG {
	return r.rng
}

// Roll resolves attrMod + extra + 2d6 against difficulty.
//
// The difficulty gate is checked before banding: any total below the
// difficulty is a critical failure, even one that would otherwise band as
// a success. Totals that pass the gate are banded by absolute value.
func (r *Resolver) Roll(attrMod int, difficulty Difficulty, adv AdvantageMode, extra int) Result {
	kept, dropped := r.acquire(adv)
	diceTotal := kept[0] + kept[1]
	modifier := attrMod + extra
	total := diceTotal + modifier
	outcome := band(total, int(difficulty))

	res := Result{
		Dice:       kept,
		Dropped:    dropped,
		DiceTotal:  diceTotal,
		Modifier:   modifier,
		Total:      total,
		Difficulty: int(difficulty),
		Outcome:    outcome,
		Success:    outcome.IsSuccess(),
		Advantage:  normalizeAdvantage(adv),
	}

	switch outcome {
	case OutcomePartialSuccess:
		res.Consequence = rng.MustPick(r.rng, consequencePool)
	case OutcomeCriticalSuccess:
		res.Bonus = rng.MustPick(r.rng, bonusPool)
	}

	slog.Debug("Dice resolved",
		"dice", res.Dice,
		"modifier", res.Modifier,
		"total", res.Total,
		"difficulty", res.Difficulty,
		"outcome", res.Outcome,
	)

	return res
}

// CombatRoll resolves an attack and derives its damage: none on a critical
// failure, one on a partial or full success, two on a critical success.
func (r *Resolver) CombatRoll(attackMod, defense int, adv AdvantageMode, weaponBonus int) CombatResult {
	res := r.Roll(attackMod, Difficulty(defense), adv, weaponBonus)
	return CombatResult{Result: res, Damage: DamageFor(res.Outcome)}
}

// QuickCheck resolves a plain roll and reports only whether it succeeded
func (r *Resolver) QuickCheck(attr int, difficulty Difficulty) bool {
	return r.Roll(attr, difficulty, AdvantageNone, 0).Success
}

// DamageFor maps an outcome to attack damage
func DamageFor(o Outcome) int {
	switch o {
	case OutcomeCriticalSuccess:
		return 2
	case OutcomePartialSuccess, OutcomeSuccess:
		return 1
	default:
		return 0
	}
}

// Band applies the outcome banding to a total, exported for callers that
// resolve externally supplied dice (replays, tests, odds tables).
func Band(total, difficulty int) Outcome {
	return band(total, difficulty)
}

func band(total, difficulty int) Outcome {
	if total < difficulty {
		return OutcomeCriticalFailure
	}
	switch {
	case total >= 12:
		return OutcomeCriticalSuccess
	case total >= 10:
		return OutcomeSuccess
	case total >= 7:
		return OutcomePartialSuccess
	default:
		return OutcomeCriticalFailure
	}
}

func (r *Resolver) acquire(adv AdvantageMode) ([2]int, []int) {
	switch adv {
	case AdvantageAdvantage, AdvantageDisadvantage:
		rolls := []int{r.rng.NextInt(1, 6), r.rng.NextInt(1, 6), r.rng.NextInt(1, 6)}
		if adv == AdvantageAdvantage {
			sort.Sort(sort.Reverse(sort.IntSlice(rolls)))
		} else {
			sort.Ints(rolls)
		}
		return [2]int{rolls[0], rolls[1]}, []int{rolls[2]}
	default:
		roll := r.rng.Roll2d6()
		return [2]int{roll.Die1, roll.Die2}, nil
	}
}

func normalizeAdvantage(adv AdvantageMode) AdvantageMode {
	switch adv {
	case AdvantageAdvantage, AdvantageDisadvantage:
		return adv
	default:
		return AdvantageNone
	}
}
