// Package combat implements the turn-based combat state machine.
//
// An Engine runs one encounter. It starts in the player phase, alternates
// between player and enemy phases, and ends in victory or defeat. All
// randomness comes from the dice resolver it is built with.
package combat

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/core"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
)

// HealingPotionID is the only usable item
const HealingPotionID = "pocion_curacion"

const (
	potionHealing    = 2
	enemyAttackDC    = 7
	systemActor      = "system"
	playerTargetCode = -1
)

// Event types published on the configured bus
const (
	EventAttack  = "combat.attack"
	EventFlee    = "combat.flee"
	EventVictory = "combat.victory"
	EventDefeat  = "combat.defeat"
)

// Config holds the inputs for a new encounter
type Config struct {
	Player   entities.Player
	Enemies  []entities.Enemy
	Resolver *dice.Resolver
	Clock    clock.Clock
	EventBus events.EventBus
}

// Validate ensures all required inputs are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if len(c.Enemies) == 0 {
		vb.Field("Enemies", "at least one enemy is required")
	}
	for i, e := range c.Enemies {
		if e.Stats.Heridas <= 0 {
			vb.Fieldf(fmt.Sprintf("Enemies[%d].Stats.Heridas", i), "must be positive, got %d", e.Stats.Heridas)
		}
	}
	if c.Player.Wounds < 0 {
		vb.Field("Player.Wounds", "must not be negative")
	}

	return vb.Build()
}

// Engine is a single encounter. It is not safe for concurrent use.
type Engine struct {
	state    *State
	resolver *dice.Resolver
	clock    clock.Clock
	bus      events.EventBus
}

// NewEngine starts an encounter in the player phase
func NewEngine(cfg *Config) (*Engine, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.New()
	}

	enemies := make([]*CombatEnemy, len(cfg.Enemies))
	for i, e := range cfg.Enemies {
		enemy := e
		enemy.LootTable = entities.LootTable{
			Common:     append([]string(nil), e.LootTable.Common...),
			Uncommon:   append([]string(nil), e.LootTable.Uncommon...),
			Rare:       append([]string(nil), e.LootTable.Rare...),
			Guaranteed: append([]string(nil), e.LootTable.Guaranteed...),
		}
		enemies[i] = &CombatEnemy{
			Enemy:         enemy,
			CurrentWounds: e.Stats.Heridas,
			index:         i,
		}
	}

	eng := &Engine{
		state: &State{
			Player:  PlayerCombatant{Player: cfg.Player.Clone()},
			Enemies: enemies,
			Turn:    1,
			Phase:   PhasePlayer,
		},
		resolver: cfg.Resolver,
		clock:    clk,
		bus:      cfg.EventBus,
	}

	eng.appendLog(systemActor, "start", "", fmt.Sprintf("Combat begins against %d enemies", len(enemies)), nil)

	slog.Info("Combat started",
		"player", eng.state.Player.GetID(),
		"enemy_count", len(enemies),
	)

	return eng, nil
}

// ProcessPlayerAction resolves one player action. It is legal only in the
// player phase.
func (e *Engine) ProcessPlayerAction(ctx context.Context, action Action) (*ActionResult, error) {
	if e.state.Phase != PhasePlayer {
		return nil, errors.IllegalPhasef("player action not allowed in phase %s", e.state.Phase)
	}
	if action == nil {
		return nil, errors.UnknownActionTypef("action is required")
	}

	var (
		result *ActionResult
		err    error
	)

	switch a := action.(type) {
	case Attack:
		result, err = e.attack(ctx, a)
	case Defend:
		result = e.defend()
	case UseItem:
		result = e.useItem(a)
	case Flee:
		result = e.flee(ctx)
	default:
		return nil, errors.UnknownActionTypef("unknown action type: %s", action.Type())
	}
	if err != nil {
		return nil, err
	}

	if !e.state.Phase.IsTerminal() {
		if e.allEnemiesDead() {
			e.transition(ctx, PhaseVictory)
		} else {
			e.state.Phase = PhaseEnemy
		}
	}

	result.Phase = e.state.Phase
	return result, nil
}

func (e *Engine) attack(ctx context.Context, a Attack) (*ActionResult, error) {
	if a.TargetIndex < 0 || a.TargetIndex >= len(e.state.Enemies) {
		return nil, errors.InvalidArgumentf("target index %d out of range", a.TargetIndex)
	}
	target := e.state.Enemies[a.TargetIndex]
	if target.IsDead {
		return nil, errors.InvalidArgumentf("target %s is already dead", target.Name)
	}
	if a.Attribute != entities.AttributeFUE && a.Attribute != entities.AttributeAGI {
		return nil, errors.InvalidArgumentf("attack attribute must be FUE or AGI, got %s", a.Attribute)
	}

	attrValue, _ := e.state.Player.Attributes.Get(a.Attribute)
	roll := e.resolver.CombatRoll(attrValue, target.Stats.DEF, dice.AdvantageNone, effectModifier(e.state.Player.StatusEffects))

	result := &ActionResult{
		Action: ActionAttack,
		Roll:   &roll,
		Target: target.Name,
	}

	if roll.Success {
		target.CurrentWounds = max(0, target.CurrentWounds-roll.Damage)
		result.Success = true
		result.Damage = roll.Damage
		result.Message = fmt.Sprintf("Hit %s for %d", target.Name, roll.Damage)
		if target.CurrentWounds == 0 {
			target.IsDead = true
			result.Message = fmt.Sprintf("%s falls", target.Name)
		}
		e.appendLog(e.state.Player.GetID(), string(ActionAttack), target.Name, result.Message, entities.IntPtr(roll.Damage))
	} else {
		taken := 1
		if roll.Outcome == dice.OutcomeCriticalFailure {
			taken = 2
		}
		e.state.Player.Wounds = max(0, e.state.Player.Wounds-taken)
		result.Taken = taken
		result.Message = fmt.Sprintf("Missed %s and took %d wounds", target.Name, taken)
		e.appendLog(e.state.Player.GetID(), string(ActionAttack), target.Name, result.Message, entities.IntPtr(taken))
	}

	e.publish(ctx, EventAttack, &e.state.Player, target, map[string]any{
		"outcome": string(roll.Outcome),
		"damage":  roll.Damage,
		"hit":     roll.Success,
	})

	return result, nil
}

func (e *Engine) defend() *ActionResult {
	e.appendLog(e.state.Player.GetID(), string(ActionDefend), "", "Takes a defensive stance", nil)
	return &ActionResult{
		Action:  ActionDefend,
		Success: true,
		Message: "Takes a defensive stance",
	}
}

func (e *Engine) useItem(a UseItem) *ActionResult {
	result := &ActionResult{Action: ActionUseItem}
	player := &e.state.Player

	switch {
	case a.ItemID != HealingPotionID:
		result.Message = fmt.Sprintf("Item %s cannot be used in combat", a.ItemID)
	case !player.HasItem(HealingPotionID):
		result.Message = "No healing potion in inventory"
	default:
		player.RemoveItem(HealingPotionID)
		healed := min(potionHealing, max(0, player.MaxWounds-player.Wounds))
		player.Wounds += healed
		result.Success = true
		result.Healed = healed
		result.Message = fmt.Sprintf("Recovered %d wounds", healed)
	}

	e.appendLog(player.GetID(), string(ActionUseItem), a.ItemID, result.Message, nil)
	return result
}

func (e *Engine) flee(ctx context.Context) *ActionResult {
	check := e.resolver.Roll(e.state.Player.Attributes.AGI, dice.DifficultyNormal, dice.AdvantageNone, 0)
	result := &ActionResult{
		Action:  ActionFlee,
		Check:   &check,
		Success: check.Success,
	}

	if check.Success {
		result.Message = "Escaped from combat"
		e.appendLog(e.state.Player.GetID(), string(ActionFlee), "", result.Message, nil)
		e.state.Escaped = true
		e.publish(ctx, EventFlee, &e.state.Player, nil, map[string]any{"escaped": true})
		e.transition(ctx, PhaseVictory)
		return result
	}

	result.Message = "Failed to escape"
	e.appendLog(e.state.Player.GetID(), string(ActionFlee), "", result.Message, nil)
	e.publish(ctx, EventFlee, &e.state.Player, nil, map[string]any{"escaped": false})
	return result
}

// ProcessEnemyTurn lets every living enemy attack in order. It is legal
// only in the enemy phase. Defeat happens only here: when a hit leaves the
// player at zero wounds the turn stops and combat ends.
func (e *Engine) ProcessEnemyTurn(ctx context.Context) (*EnemyTurnResult, error) {
	if e.state.Phase != PhaseEnemy {
		return nil, errors.IllegalPhasef("enemy turn not allowed in phase %s", e.state.Phase)
	}

	result := &EnemyTurnResult{}
	player := &e.state.Player

	for _, enemy := range e.state.Enemies {
		if enemy.IsDead {
			continue
		}

		roll := e.resolver.CombatRoll(enemy.Stats.FUE, enemyAttackDC, dice.AdvantageNone, effectModifier(enemy.StatusEffects))
		attack := EnemyAttack{Enemy: enemy.Name, Roll: roll}

		hit := roll.Success
		if hit {
			player.Wounds = max(0, player.Wounds-roll.Damage)
			attack.Damage = roll.Damage
			e.appendLog(enemy.Name, string(ActionAttack), player.GetID(), fmt.Sprintf("Hits for %d", roll.Damage), entities.IntPtr(roll.Damage))
		} else {
			e.appendLog(enemy.Name, string(ActionAttack), player.GetID(), "Misses", nil)
		}
		result.Attacks = append(result.Attacks, attack)

		e.publish(ctx, EventAttack, enemy, player, map[string]any{
			"outcome": string(roll.Outcome),
			"damage":  roll.Damage,
			"hit":     roll.Success,
		})

		if hit && player.Wounds == 0 {
			e.transition(ctx, PhaseDefeat)
			result.Phase = e.state.Phase
			result.Turn = e.state.Turn
			return result, nil
		}
	}

	e.state.Turn++
	e.state.Phase = PhasePlayer
	e.tickStatusEffects()

	result.Phase = e.state.Phase
	result.Turn = e.state.Turn
	return result, nil
}

// ApplyStatusEffect attaches a timed effect to the player (target -1) or
// to the enemy at the target index.
//
// While an effect is active its Modifier is added to every attack roll
// the affected combatant makes, in the slot of the weapon bonus, which is
// otherwise always 0. Effects therefore change the attack formula for
// their duration.
func (e *Engine) ApplyStatusEffect(target int, effect entities.StatusEffect) error {
	if e.state.Phase.IsTerminal() {
		return errors.IllegalPhasef("cannot apply status effects in phase %s", e.state.Phase)
	}
	if effect.Name == "" {
		return errors.InvalidArgument("status effect name is required")
	}
	if effect.Duration <= 0 {
		return errors.InvalidArgumentf("status effect duration must be positive, got %d", effect.Duration)
	}

	if target == playerTargetCode {
		e.state.Player.StatusEffects = append(e.state.Player.StatusEffects, effect)
		e.appendLog(systemActor, "status", e.state.Player.GetID(), fmt.Sprintf("%s applied for %d rounds", effect.Name, effect.Duration), nil)
		return nil
	}

	if target < 0 || target >= len(e.state.Enemies) {
		return errors.InvalidArgumentf("target index %d out of range", target)
	}
	enemy := e.state.Enemies[target]
	enemy.StatusEffects = append(enemy.StatusEffects, effect)
	e.appendLog(systemActor, "status", enemy.Name, fmt.Sprintf("%s applied for %d rounds", effect.Name, effect.Duration), nil)
	return nil
}

// Rewards sums the rewards of the dead enemies. XP is the level of each
// dead enemy and items come from the common loot tier only. Gold is not
// awarded here.
func (e *Engine) Rewards() entities.Rewards {
	var rewards entities.Rewards
	for _, enemy := range e.state.Enemies {
		if !enemy.IsDead {
			continue
		}
		rewards.XP += enemy.EffectiveLevel()
		rewards.Items = append(rewards.Items, enemy.LootTable.Common...)
	}
	return rewards
}

// State returns a deep copy of the encounter state
func (e *Engine) State() *State {
	return e.state.clone()
}

// Phase returns the current phase
func (e *Engine) Phase() Phase {
	return e.state.Phase
}

// IsOver reports whether the encounter reached a terminal phase
func (e *Engine) IsOver() bool {
	return e.state.Phase.IsTerminal()
}

func (e *Engine) transition(ctx context.Context, phase Phase) {
	e.state.Phase = phase

	switch phase {
	case PhaseVictory:
		msg := "All enemies defeated"
		if e.state.Escaped {
			msg = "Escaped"
		}
		e.appendLog(systemActor, "end", "", msg, nil)
		e.publish(ctx, EventVictory, &e.state.Player, nil, map[string]any{
			"escaped": e.state.Escaped,
			"turn":    e.state.Turn,
		})
	case PhaseDefeat:
		e.appendLog(systemActor, "end", "", "The player has fallen", nil)
		e.publish(ctx, EventDefeat, &e.state.Player, nil, map[string]any{
			"turn": e.state.Turn,
		})
	}

	slog.Info("Combat ended",
		"phase", phase,
		"turn", e.state.Turn,
		"escaped", e.state.Escaped,
	)
}

func (e *Engine) allEnemiesDead() bool {
	for _, enemy := range e.state.Enemies {
		if !enemy.IsDead {
			return false
		}
	}
	return true
}

// tickStatusEffects runs after each full round
func (e *Engine) tickStatusEffects() {
	e.state.Player.StatusEffects = tick(e.state.Player.StatusEffects)
	for _, enemy := range e.state.Enemies {
		enemy.StatusEffects = tick(enemy.StatusEffects)
	}
}

func tick(effects []entities.StatusEffect) []entities.StatusEffect {
	var kept []entities.StatusEffect
	for _, eff := range effects {
		eff.Duration--
		if eff.Duration > 0 {
			kept = append(kept, eff)
		}
	}
	return kept
}

func effectModifier(effects []entities.StatusEffect) int {
	total := 0
	for _, eff := range effects {
		total += eff.Modifier
	}
	return total
}

func (e *Engine) appendLog(actor, action, target, result string, damage *int) {
	e.state.Log = append(e.state.Log, LogEntry{
		Turn:      e.state.Turn,
		Actor:     actor,
		Action:    action,
		Target:    target,
		Result:    result,
		Damage:    damage,
		Timestamp: e.clock.Now(),
	})
}

func (e *Engine) publish(ctx context.Context, eventType string, source, target core.Entity, data map[string]any) {
	if e.bus == nil {
		return
	}

	event := events.NewGameEvent(eventType, source, target)
	for k, v := range data {
		event.Context().Set(k, v)
	}

	if err := e.bus.Publish(ctx, event); err != nil {
		slog.Warn("Failed to publish combat event",
			"event", eventType,
			"error", err,
		)
	}
}
