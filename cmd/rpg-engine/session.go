package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/session"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	sessionrepo "github.com/KirkDiggler/rpg-engine/internal/repositories/session"
)

var (
	sessionTimeout    time.Duration
	sessionPlayerFile string
	sessionName       string

	checkAttribute  string
	checkDifficulty string
	checkAdvantage  string
	checkAction     string

	sessionQuestType string
	repairDryRun     bool
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Create, inspect and continue saved sessions",
	Long: `Session commands need a store: --store redis or --store sqlite (or
RPG_ENGINE_STORE). Every command that advances a session saves it again, so
the next command continues the same random stream.`,
}

var sessionNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start and save a new session",
	Args:  cobra.NoArgs,
	RunE:  runSessionNew,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessionList,
}

var sessionDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionDelete,
}

var sessionCheckCmd = &cobra.Command{
	Use:   "check [id]",
	Short: "Resolve an attribute check in a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionCheck,
}

var sessionQuestCmd = &cobra.Command{
	Use:   "quest [id]",
	Short: "Generate a quest in a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionQuest,
}

var sessionRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find and delete saved sessions that no longer load",
	Args:  cobra.NoArgs,
	RunE:  runSessionRepair,
}

func init() {
	sessionCmd.PersistentFlags().DurationVar(&sessionTimeout, "timeout", 10*time.Second, "store timeout")

	sessionNewCmd.Flags().StringVar(&sessionPlayerFile, "player", "", "player JSON file (default: a level 1 adventurer)")
	sessionNewCmd.Flags().StringVar(&sessionName, "name", "", "player name override")

	sessionCheckCmd.Flags().StringVar(&checkAttribute, "attribute", string(entities.AttributeFUE), "FUE, AGI, SAB or SUE")
	sessionCheckCmd.Flags().StringVar(&checkDifficulty, "difficulty", "normal", "easy, normal, difficult, epic or a number")
	sessionCheckCmd.Flags().StringVar(&checkAdvantage, "advantage", "none", "none, advantage or disadvantage")
	sessionCheckCmd.Flags().StringVar(&checkAction, "action", "", "what the player attempts, used for narration")

	sessionQuestCmd.Flags().StringVar(&sessionQuestType, "type", string(entities.QuestTypeSide), "main_quest, side_quest or random_event")

	sessionCmd.AddCommand(sessionNewCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionDeleteCmd)
	sessionCmd.AddCommand(sessionCheckCmd)
	sessionRepairCmd.Flags().BoolVar(&repairDryRun, "dry-run", false, "report without deleting")

	sessionCmd.AddCommand(sessionQuestCmd)
	sessionCmd.AddCommand(sessionRepairCmd)
}

// withStore runs fn with a connected repository and a bounded context
func withStore(cmd *cobra.Command, fn func(ctx context.Context, repo sessionrepo.Repository) error) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, sessionTimeout)
	defer cancel()

	repo, closeRepo, err := openRepository(ctx)
	if err != nil {
		return err
	}
	defer closeRepo()

	return fn(ctx, repo)
}

// withSession loads a session, runs fn and saves the result
func withSession(cmd *cobra.Command, id string, fn func(ctx context.Context, sess *session.Session) error) error {
	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		gen, closeGen := newNarrative(ctx)
		defer closeGen()

		sess, err := session.Load(ctx, &session.LoadConfig{
			ID:         id,
			Repository: repo,
			Clock:      clock.New(),
			Narrative:  gen,
		})
		if err != nil {
			return err
		}

		if err := fn(ctx, sess); err != nil {
			return err
		}

		_, err = sess.Save(ctx)
		return err
	})
}

func runSessionNew(cmd *cobra.Command, _ []string) error {
	player, err := loadPlayer(sessionPlayerFile)
	if err != nil {
		return err
	}
	if sessionName != "" {
		player.Name = sessionName
	}

	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		sess, err := session.New(&session.Config{
			Seed:       seed(),
			Player:     player,
			Repository: repo,
		})
		if err != nil {
			return err
		}

		snap, err := sess.Save(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", titleStyle.Render(snap.ID), dimStyle.Render("seed "+snap.Seed))
		return nil
	})
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		out, err := repo.Get(ctx, sessionrepo.GetInput{ID: args[0]})
		if err != nil {
			return err
		}
		return printYAML(cmd.OutOrStdout(), out.Snapshot)
	})
}

func runSessionList(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		out, err := repo.List(ctx, sessionrepo.ListInput{})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, s := range out.Sessions {
			fmt.Fprintf(w, "%s  %s L%d  %s\n",
				titleStyle.Render(s.ID),
				s.Player,
				s.Level,
				dimStyle.Render(s.SavedAt.Format(time.RFC3339)),
			)
		}
		return nil
	})
}

func runSessionDelete(cmd *cobra.Command, args []string) error {
	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		_, err := repo.Delete(ctx, sessionrepo.DeleteInput{ID: args[0]})
		return err
	})
}

func runSessionCheck(cmd *cobra.Command, args []string) error {
	difficulty, err := dice.ParseDifficulty(checkDifficulty)
	if err != nil {
		return err
	}
	adv, err := dice.ParseAdvantage(checkAdvantage)
	if err != nil {
		return err
	}

	return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
		out, err := sess.Check(ctx, session.CheckInput{
			Action:     checkAction,
			Attribute:  entities.Attribute(checkAttribute),
			Difficulty: difficulty,
			Advantage:  adv,
		})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, renderResult(out.Result))
		fmt.Fprintln(w, out.Text)
		return nil
	})
}

func runSessionQuest(cmd *cobra.Command, args []string) error {
	return withSession(cmd, args[0], func(ctx context.Context, sess *session.Session) error {
		offer, err := sess.GenerateQuest(ctx, entities.QuestType(sessionQuestType))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintln(w, titleStyle.Render(offer.Quest.Title))
		fmt.Fprintln(w, offer.Intro)
		return printYAML(w, offer.Quest.Objectives)
	})
}

func runSessionRepair(cmd *cobra.Command, _ []string) error {
	return withStore(cmd, func(ctx context.Context, repo sessionrepo.Repository) error {
		repairer, ok := repo.(sessionrepo.Repairer)
		if !ok {
			return fmt.Errorf("store %s does not support repair", cfg.Store)
		}

		out, err := repairer.Repair(ctx, sessionrepo.RepairInput{DryRun: repairDryRun})
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Checked %d sessions, found %d corrupt\n", out.Checked, len(out.Corrupt))
		for _, id := range out.Corrupt {
			fmt.Fprintf(w, "  - %s\n", id)
		}
		if repairDryRun {
			fmt.Fprintln(w, dimStyle.Render("dry run: nothing deleted"))
		} else {
			fmt.Fprintf(w, "Deleted %d sessions\n", len(out.Deleted))
		}
		return nil
	})
}
