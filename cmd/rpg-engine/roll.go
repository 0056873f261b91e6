package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/narrative"
)

var (
	rollModifier   int
	rollDifficulty string
	rollAdvantage  string
	rollExtra      int
	rollCount      int
	rollYAML       bool
)

var rollCmd = &cobra.Command{
	Use:   "roll",
	Short: "Resolve 2d6 checks",
	Long: `Roll 2d6, add the attribute modifier and band the total against a difficulty.
Examples:

  rpg-engine roll --mod 2 --difficulty difficult
  rpg-engine roll --seed 1550 --advantage advantage --count 5`,
	Args: cobra.NoArgs,
	RunE: runRoll,
}

var (
	oddsAdvantage string
)

var oddsCmd = &cobra.Command{
	Use:   "odds",
	Short: "Print success chances for every modifier and difficulty",
	Args:  cobra.NoArgs,
	RunE:  runOdds,
}

func init() {
	rollCmd.Flags().IntVar(&rollModifier, "mod", 0, "attribute modifier (0-3)")
	rollCmd.Flags().StringVar(&rollDifficulty, "difficulty", "normal", "easy, normal, difficult, epic or a number")
	rollCmd.Flags().StringVar(&rollAdvantage, "advantage", "none", "none, advantage or disadvantage")
	rollCmd.Flags().IntVar(&rollExtra, "extra", 0, "situational modifier")
	rollCmd.Flags().IntVar(&rollCount, "count", 1, "number of rolls")
	rollCmd.Flags().BoolVar(&rollYAML, "yaml", false, "print results as YAML")

	oddsCmd.Flags().StringVar(&oddsAdvantage, "advantage", "none", "none, advantage or disadvantage")
}

func runRoll(cmd *cobra.Command, _ []string) error {
	difficulty, err := dice.ParseDifficulty(rollDifficulty)
	if err != nil {
		return err
	}
	adv, err := dice.ParseAdvantage(rollAdvantage)
	if err != nil {
		return err
	}
	if rollCount < 1 {
		return fmt.Errorf("count must be positive, got %d", rollCount)
	}

	resolver := dice.NewResolver(newRNG())
	results := make([]dice.Result, 0, rollCount)
	for i := 0; i < rollCount; i++ {
		results = append(results, resolver.Roll(rollModifier, difficulty, adv, rollExtra))
	}

	out := cmd.OutOrStdout()
	if rollYAML {
		return printYAML(out, results)
	}

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Seed %s", cfg.Seed)))
	for _, res := range results {
		fmt.Fprintln(out, renderResult(res))
		fmt.Fprintln(out, dimStyle.Render("  "+narrative.FallbackOutcome(res)))
	}
	return nil
}

func runOdds(cmd *cobra.Command, _ []string) error {
	adv, err := dice.ParseAdvantage(oddsAdvantage)
	if err != nil {
		return err
	}

	difficulties := []struct {
		name  string
		value dice.Difficulty
	}{
		{"easy", dice.DifficultyEasy},
		{"normal", dice.DifficultyNormal},
		{"difficult", dice.DifficultyDifficult},
		{"epic", dice.DifficultyEpic},
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Success chance (%s)", adv)))
	fmt.Fprintf(out, "%-4s", "mod")
	for _, d := range difficulties {
		fmt.Fprintf(out, " %10s", fmt.Sprintf("%s %d", d.name, d.value))
	}
	fmt.Fprintln(out)

	for mod := 0; mod <= 3; mod++ {
		fmt.Fprintf(out, "%+-4d", mod)
		for _, d := range difficulties {
			fmt.Fprintf(out, " %9.1f%%", 100*dice.Probability(mod, d.value, adv))
		}
		fmt.Fprintln(out)
	}
	return nil
}
