// Package main is the entry point for the rpg-engine command line
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

var (
	configPath string
	logLevel   string
	seedFlag   string
	storeFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "rpg-engine",
	Short: "Deterministic 2d6 game resolution engine",
	Long: `rpg-engine resolves dice checks, combat and quests for a 2d6 narrative RPG.
Every command draws from one seeded random stream, so the same seed and the
same inputs always produce the same results.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func main() {
	os.Exit(run())
}

// run executes the root command and returns the exit status for its error
func run() int {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", errors.Status(err).Message())
	}
	return errors.ExitCode(err)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&seedFlag, "seed", "", "random seed (integer or any string)")
	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "session store (none, redis, sqlite)")

	rootCmd.AddCommand(rollCmd)
	rootCmd.AddCommand(oddsCmd)
	rootCmd.AddCommand(questCmd)
	rootCmd.AddCommand(campaignCmd)
	rootCmd.AddCommand(combatCmd)
	rootCmd.AddCommand(sessionCmd)
}
