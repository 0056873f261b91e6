package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/combat"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	outcomeStyles = map[dice.Outcome]lipgloss.Style{
		dice.OutcomeCriticalFailure: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F")).Bold(true),
		dice.OutcomePartialSuccess:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD75F")),
		dice.OutcomeSuccess:         lipgloss.NewStyle().Foreground(lipgloss.Color("#87D787")),
		dice.OutcomeCriticalSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF5F")).Bold(true),
	}

	phaseStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(1)
)

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

func renderOutcome(o dice.Outcome) string {
	style, ok := outcomeStyles[o]
	if !ok {
		return string(o)
	}
	return style.Render(strings.ReplaceAll(string(o), "_", " "))
}

func renderResult(res dice.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%d %d]", res.Dice[0], res.Dice[1])
	if len(res.Dropped) > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf(" dropped %v", res.Dropped)))
	}
	fmt.Fprintf(&b, " %+d = %d vs %d  %s", res.Modifier, res.Total, res.Difficulty, renderOutcome(res.Outcome))

	return b.String()
}

func renderLog(w io.Writer, entries []combat.LogEntry) {
	for _, e := range entries {
		line := fmt.Sprintf("T%-2d %-10s %-8s %s", e.Turn, e.Actor, e.Action, e.Result)
		if e.Damage != nil {
			line += dimStyle.Render(fmt.Sprintf(" (%d)", *e.Damage))
		}
		fmt.Fprintln(w, phaseStyle.Render(line))
	}
}
