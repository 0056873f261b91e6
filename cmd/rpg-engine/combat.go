package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/combat"
)

const maxSimulatedTurns = 100

var (
	combatPlayerFile string
	combatEnemyFile  string
	combatWolves     int
	combatAttribute  string
)

var combatCmd = &cobra.Command{
	Use:   "combat",
	Short: "Combat commands",
}

var combatSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play out an encounter with a simple attack policy",
	Long: `Simulate an encounter. The player attacks the first living enemy and drinks
a healing potion when down to one wound.

  rpg-engine combat simulate --seed 7 --wolves 3
  rpg-engine combat simulate --player player.json --enemies bandits.json`,
	Args: cobra.NoArgs,
	RunE: runCombatSimulate,
}

func init() {
	combatSimulateCmd.Flags().StringVar(&combatPlayerFile, "player", "", "player JSON file (default: a level 1 adventurer)")
	combatSimulateCmd.Flags().StringVar(&combatEnemyFile, "enemies", "", "JSON file with an array of enemies")
	combatSimulateCmd.Flags().IntVar(&combatWolves, "wolves", 2, "number of wolves when no enemy file is given")
	combatSimulateCmd.Flags().StringVar(&combatAttribute, "attribute", string(entities.AttributeFUE), "attribute used to attack")
	combatCmd.AddCommand(combatSimulateCmd)
}

func defaultPlayer() entities.Player {
	return entities.Player{
		Name:           "Aventurera",
		Level:          1,
		XPToNextLevel:  3,
		Attributes:     entities.Attributes{FUE: 2, AGI: 1, SAB: 1, SUE: 0},
		Wounds:         3,
		MaxWounds:      3,
		Fatigue:        3,
		MaxFatigue:     3,
		Inventory:      []string{combat.HealingPotionID},
		InventorySlots: 8,
	}
}

func wolves(n int) []entities.Enemy {
	out := make([]entities.Enemy, n)
	for i := range out {
		out[i] = entities.Enemy{
			ID:    fmt.Sprintf("lobo_%d", i+1),
			Name:  "Lobo",
			Level: 1,
			Stats: entities.EnemyStats{FUE: 1, AGI: 2, DEF: 6, Heridas: 1},
			LootTable: entities.LootTable{
				Common: []string{"piel_de_lobo"},
			},
		}
	}
	return out
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func loadPlayer(path string) (entities.Player, error) {
	if path == "" {
		return defaultPlayer(), nil
	}
	var p entities.Player
	if err := readJSON(path, &p); err != nil {
		return entities.Player{}, err
	}
	return p, nil
}

func runCombatSimulate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	player, err := loadPlayer(combatPlayerFile)
	if err != nil {
		return err
	}

	enemies := wolves(combatWolves)
	if combatEnemyFile != "" {
		enemies = nil
		if err := readJSON(combatEnemyFile, &enemies); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	bus := events.NewBus()
	for _, eventType := range []string{combat.EventVictory, combat.EventDefeat} {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("== %s ==", e.Type())))
			return nil
		})
	}

	eng, err := combat.NewEngine(&combat.Config{
		Player:   player,
		Enemies:  enemies,
		Resolver: dice.NewResolver(newRNG()),
		EventBus: bus,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Seed %s: %s against %d enemies", cfg.Seed, player.Name, len(enemies))))

	if err := simulate(ctx, out, eng, entities.Attribute(combatAttribute)); err != nil {
		return err
	}

	state := eng.State()
	renderLog(out, state.Log)

	if state.Phase == combat.PhaseVictory && !state.Escaped {
		return printYAML(out, map[string]any{
			"turns":   state.Turn,
			"wounds":  state.Player.Wounds,
			"rewards": eng.Rewards(),
		})
	}
	return nil
}

// simulate drives the engine until the encounter ends
func simulate(ctx context.Context, out io.Writer, eng *combat.Engine, attr entities.Attribute) error {
	for turns := 0; !eng.IsOver(); turns++ {
		if turns >= maxSimulatedTurns {
			return fmt.Errorf("encounter did not end after %d turns", maxSimulatedTurns)
		}

		switch eng.Phase() {
		case combat.PhasePlayer:
			res, err := eng.ProcessPlayerAction(ctx, choose(eng.State(), attr))
			if err != nil {
				return err
			}
			if res.Roll != nil {
				fmt.Fprintln(out, renderResult(res.Roll.Result))
			}
		case combat.PhaseEnemy:
			if _, err := eng.ProcessEnemyTurn(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// choose is the simulation policy
func choose(state *combat.State, attr entities.Attribute) combat.Action {
	p := state.Player
	if p.Wounds <= 1 && p.MaxWounds > 1 && p.HasItem(combat.HealingPotionID) {
		return combat.UseItem{ItemID: combat.HealingPotionID}
	}
	for i, e := range state.Enemies {
		if !e.IsDead {
			return combat.Attack{TargetIndex: i, Attribute: attr}
		}
	}
	return combat.Defend{}
}
