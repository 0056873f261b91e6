// Package narrative produces cosmetic text for game events. Text comes
// from an optional Generator; every call has a procedural fallback, and
// nothing here ever affects a mechanical outcome.
package narrative

//go:generate mockgen -destination=mock/mock_generator.go -package=narrativemock github.com/KirkDiggler/rpg-engine/internal/narrative Generator

import (
	"bytes"
	"context"
	_ "embed"
	"log/slog"
	"strings"
	"text/template"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
)

//go:embed prompts/quest_intro.txt
var questIntroPrompt string

//go:embed prompts/roll_outcome.txt
var rollOutcomePrompt string

var (
	questIntroTmpl  = template.Must(template.New("quest_intro").Parse(questIntroPrompt))
	rollOutcomeTmpl = template.Must(template.New("roll_outcome").Parse(rollOutcomePrompt))
)

// Generator turns a prompt into text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Decorator wraps an optional Generator and always yields text
type Decorator struct {
	gen Generator
}

// NewDecorator creates a decorator. gen may be nil, in which case every
// call returns its fallback.
func NewDecorator(gen Generator) *Decorator {
	return &Decorator{gen: gen}
}

// Enabled reports whether a generator is configured
func (d *Decorator) Enabled() bool {
	return d.gen != nil
}

// Describe returns generated text for prompt, or fallback when there is
// no generator, the generator fails, or it returns nothing.
func (d *Decorator) Describe(ctx context.Context, prompt, fallback string) string {
	if d.gen == nil {
		return fallback
	}

	text, err := d.gen.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Narrative generation failed, using fallback",
			"error", err,
		)
		return fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}

// QuestIntro narrates a quest offer, falling back to its description
func (d *Decorator) QuestIntro(ctx context.Context, q *entities.Quest) string {
	if q == nil {
		return ""
	}
	if d.gen == nil {
		return q.Description
	}

	var buf bytes.Buffer
	if err := questIntroTmpl.Execute(&buf, q); err != nil {
		slog.Warn("Failed to render quest prompt", "quest_id", q.ID, "error", err)
		return q.Description
	}
	return d.Describe(ctx, buf.String(), q.Description)
}

// RollOutcome narrates a resolved roll for the named action
func (d *Decorator) RollOutcome(ctx context.Context, action string, res dice.Result) string {
	fallback := FallbackOutcome(res)
	if d.gen == nil {
		return fallback
	}

	detail := res.Consequence
	if detail == "" {
		detail = res.Bonus
	}

	var buf bytes.Buffer
	data := struct {
		Action  string
		Outcome dice.Outcome
		Detail  string
	}{Action: action, Outcome: res.Outcome, Detail: detail}
	if err := rollOutcomeTmpl.Execute(&buf, data); err != nil {
		slog.Warn("Failed to render roll prompt", "action", action, "error", err)
		return fallback
	}
	return d.Describe(ctx, buf.String(), fallback)
}

var outcomeText = map[dice.Outcome]string{
	dice.OutcomeCriticalFailure: "Todo sale mal.",
	dice.OutcomePartialSuccess:  "Lo consigues, pero a un precio.",
	dice.OutcomeSuccess:         "Lo consigues.",
	dice.OutcomeCriticalSuccess: "Un éxito rotundo.",
}

// FallbackOutcome is the procedural text for a roll
func FallbackOutcome(res dice.Result) string {
	text := outcomeText[res.Outcome]
	switch {
	case res.Consequence != "":
		return text + " " + res.Consequence
	case res.Bonus != "":
		return text + " " + res.Bonus
	default:
		return text
	}
}
