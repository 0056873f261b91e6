package narrative_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/narrative"
	narrativemock "github.com/KirkDiggler/rpg-engine/internal/narrative/mock"
)

type DecoratorTestSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	mockGen   *narrativemock.MockGenerator
	decorator *narrative.Decorator
	ctx       context.Context
}

func TestDecoratorSuite(t *testing.T) {
	suite.Run(t, new(DecoratorTestSuite))
}

func (s *DecoratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockGen = narrativemock.NewMockGenerator(s.ctrl)
	s.decorator = narrative.NewDecorator(s.mockGen)
	s.ctx = context.Background()
}

func (s *DecoratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *DecoratorTestSuite) TestDescribeReturnsGeneratedText() {
	s.mockGen.EXPECT().
		Generate(s.ctx, "prompt").
		Return("  La niebla se abre.  ", nil)

	s.Equal("La niebla se abre.", s.decorator.Describe(s.ctx, "prompt", "fallback"))
}

func (s *DecoratorTestSuite) TestDescribeFallsBackOnError() {
	s.mockGen.EXPECT().
		Generate(s.ctx, "prompt").
		Return("", errors.New(errors.CodeUnavailable, "quota exceeded"))

	s.Equal("fallback", s.decorator.Describe(s.ctx, "prompt", "fallback"))
}

func (s *DecoratorTestSuite) TestDescribeFallsBackOnEmptyText() {
	s.mockGen.EXPECT().
		Generate(s.ctx, gomock.Any()).
		Return("   ", nil)

	s.Equal("fallback", s.decorator.Describe(s.ctx, "prompt", "fallback"))
}

func (s *DecoratorTestSuite) TestQuestIntroBuildsPromptFromQuest() {
	q := &entities.Quest{
		ID:          "q1",
		Title:       "La luz del faro",
		Giver:       "Capitana Iria",
		Location:    "Puerto Gris",
		Description: "El faro está apagado.",
		Objectives:  []*entities.Objective{{ID: "o1", Description: "Sube al faro"}},
	}

	s.mockGen.EXPECT().
		Generate(s.ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			s.Contains(prompt, "Title: La luz del faro")
			s.Contains(prompt, "- Sube al faro")
			return "Necesito tu ayuda con el faro.", nil
		})

	s.Equal("Necesito tu ayuda con el faro.", s.decorator.QuestIntro(s.ctx, q))
}

func (s *DecoratorTestSuite) TestRollOutcomeFallsBackOnError() {
	res := dice.Result{Outcome: dice.OutcomePartialSuccess, Consequence: "Pierdes el equilibrio."}

	s.mockGen.EXPECT().
		Generate(s.ctx, gomock.Any()).
		Return("", errors.New(errors.CodeUnavailable, "timeout"))

	s.Equal("Lo consigues, pero a un precio. Pierdes el equilibrio.", s.decorator.RollOutcome(s.ctx, "attack", res))
}

func (s *DecoratorTestSuite) TestWithoutGenerator() {
	d := narrative.NewDecorator(nil)

	s.False(d.Enabled())
	s.Equal("fallback", d.Describe(s.ctx, "prompt", "fallback"))
	s.Equal("desc", d.QuestIntro(s.ctx, &entities.Quest{Description: "desc"}))
	s.Equal("Lo consigues.", d.RollOutcome(s.ctx, "flee", dice.Result{Outcome: dice.OutcomeSuccess}))
}

func (s *DecoratorTestSuite) TestGeminiConfigRequiresKey() {
	_, err := narrative.NewGemini(s.ctx, &narrative.GeminiConfig{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}
