package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
)

// Seeds whose first Roll2d6 draws a known pair
const (
	seedFourSix    = 690  // 4 + 6
	seedSixSix     = 1550 // 6 + 6
	seedFourFour   = 686  // 4 + 4
	seedTwoFourSix = 3    // three draws: 2, 4, 6
)

type ResolverTestSuite struct {
	suite.Suite
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) resolver(seed uint32) *dice.Resolver {
	return dice.NewResolver(rng.New(seed))
}

func (s *ResolverTestSuite) TestDifficultyGateBeatsBanding() {
	res := s.resolver(seedFourSix).Roll(0, dice.DifficultyEpic, dice.AdvantageNone, 0)

	s.Equal([2]int{4, 6}, res.Dice)
	s.Equal(10, res.Total)
	s.Equal(dice.OutcomeCriticalFailure, res.Outcome)
	s.False(res.Success)
	s.Empty(res.Consequence)
	s.Empty(res.Bonus)
}

func (s *ResolverTestSuite) TestCriticalSuccessCarriesBonus() {
	res := s.resolver(seedSixSix).Roll(5, dice.DifficultyNormal, dice.AdvantageNone, 0)

	s.Equal(12, res.DiceTotal)
	s.Equal(5, res.Modifier)
	s.Equal(17, res.Total)
	s.Equal(dice.OutcomeCriticalSuccess, res.Outcome)
	s.True(res.Success)
	s.NotEmpty(res.Bonus)
	s.Empty(res.Consequence)
}

func (s *ResolverTestSuite) TestPartialSuccessCarriesConsequence() {
	res := s.resolver(seedFourFour).Roll(0, dice.DifficultyNormal, dice.AdvantageNone, 0)

	s.Equal(8, res.Total)
	s.Equal(dice.OutcomePartialSuccess, res.Outcome)
	s.True(res.Success)
	s.NotEmpty(res.Consequence)
}

func (s *ResolverTestSuite) TestExtraBonusAddsToModifier() {
	res := s.resolver(seedFourFour).Roll(1, dice.DifficultyNormal, dice.AdvantageNone, 1)

	s.Equal(2, res.Modifier)
	s.Equal(10, res.Total)
	s.Equal(dice.OutcomeSuccess, res.Outcome)
}

func (s *ResolverTestSuite) TestAdvantageKeepsHighestTwo() {
	res := s.resolver(seedTwoFourSix).Roll(0, dice.DifficultyNormal, dice.AdvantageAdvantage, 0)

	s.Equal([2]int{6, 4}, res.Dice)
	s.Equal([]int{2}, res.Dropped)
	s.Equal(10, res.Total)
	s.Equal(dice.AdvantageAdvantage, res.Advantage)
}

func (s *ResolverTestSuite) TestDisadvantageKeepsLowestTwo() {
	res := s.resolver(seedTwoFourSix).Roll(0, dice.DifficultyNormal, dice.AdvantageDisadvantage, 0)

	s.Equal([2]int{2, 4}, res.Dice)
	s.Equal([]int{6}, res.Dropped)
	s.Equal(6, res.Total)
	s.Equal(dice.OutcomeCriticalFailure, res.Outcome)
}

func (s *ResolverTestSuite) TestUnknownAdvantageFallsBackToNone() {
	a := s.resolver(seedFourSix).Roll(0, dice.DifficultyNormal, dice.AdvantageMode("sideways"), 0)
	b := s.resolver(seedFourSix).Roll(0, dice.DifficultyNormal, dice.AdvantageNone, 0)

	s.Equal(b, a)
	s.Equal(dice.AdvantageNone, a.Advantage)
}

func (s *ResolverTestSuite) TestSameSeedSameSequence() {
	a := s.resolver(12345)
	b := s.resolver(12345)

	for i := 0; i < 50; i++ {
		s.Equal(
			a.Roll(i%4, dice.DifficultyNormal, dice.AdvantageAdvantage, 0),
			b.Roll(i%4, dice.DifficultyNormal, dice.AdvantageAdvantage, 0),
		)
	}
}

func (s *ResolverTestSuite) TestCombatRollDamage() {
	testCases := []struct {
		name   string
		seed   uint32
		mod    int
		def    int
		damage int
	}{
		{name: "below defense", seed: seedFourSix, mod: 0, def: 11, damage: 0},
		{name: "partial", seed: seedFourFour, mod: 0, def: 7, damage: 1},
		{name: "success", seed: seedFourSix, mod: 0, def: 7, damage: 1},
		{name: "critical", seed: seedSixSix, mod: 0, def: 7, damage: 2},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			res := s.resolver(tc.seed).CombatRoll(tc.mod, tc.def, dice.AdvantageNone, 0)
			s.Equal(tc.damage, res.Damage)
			s.Equal(tc.def, res.Difficulty)
		})
	}
}

func (s *ResolverTestSuite) TestQuickCheck() {
	s.True(s.resolver(seedFourSix).QuickCheck(0, dice.DifficultyNormal))
	s.False(s.resolver(seedFourSix).QuickCheck(0, dice.DifficultyEpic))
}

func TestBand(t *testing.T) {
	testCases := []struct {
		total, difficulty int
		want              dice.Outcome
	}{
		{total: 5, difficulty: 2, want: dice.OutcomeCriticalFailure},
		{total: 6, difficulty: 6, want: dice.OutcomeCriticalFailure},
		{total: 7, difficulty: 7, want: dice.OutcomePartialSuccess},
		{total: 9, difficulty: 7, want: dice.OutcomePartialSuccess},
		{total: 10, difficulty: 7, want: dice.OutcomeSuccess},
		{total: 11, difficulty: 12, want: dice.OutcomeCriticalFailure},
		{total: 12, difficulty: 11, want: dice.OutcomeCriticalSuccess},
		{total: 20, difficulty: 7, want: dice.OutcomeCriticalSuccess},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, dice.Band(tc.total, tc.difficulty), "total=%d difficulty=%d", tc.total, tc.difficulty)
	}
}

func TestDamageFor(t *testing.T) {
	assert.Equal(t, 0, dice.DamageFor(dice.OutcomeCriticalFailure))
	assert.Equal(t, 1, dice.DamageFor(dice.OutcomePartialSuccess))
	assert.Equal(t, 1, dice.DamageFor(dice.OutcomeSuccess))
	assert.Equal(t, 2, dice.DamageFor(dice.OutcomeCriticalSuccess))
}

func TestParseDifficulty(t *testing.T) {
	testCases := []struct {
		in      string
		want    dice.Difficulty
		wantErr bool
	}{
		{in: "easy", want: dice.DifficultyEasy},
		{in: "Normal", want: dice.DifficultyNormal},
		{in: " difficult ", want: dice.DifficultyDifficult},
		{in: "epic", want: dice.DifficultyEpic},
		{in: "8", want: 8},
		{in: "heroic", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := dice.ParseDifficulty(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsInvalidArgument(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseAdvantage(t *testing.T) {
	got, err := dice.ParseAdvantage("")
	require.NoError(t, err)
	assert.Equal(t, dice.AdvantageNone, got)

	got, err = dice.ParseAdvantage("ADVANTAGE")
	require.NoError(t, err)
	assert.Equal(t, dice.AdvantageAdvantage, got)

	_, err = dice.ParseAdvantage("double")
	assert.True(t, errors.IsInvalidArgument(err))
}

func TestProbability(t *testing.T) {
	assert.InDelta(t, 21.0/36, dice.Probability(0, dice.DifficultyNormal, dice.AdvantageNone), 1e-9)
	assert.InDelta(t, 3.0/36, dice.Probability(0, dice.DifficultyEpic, dice.AdvantageNone), 1e-9)
	assert.InDelta(t, 1.0, dice.Probability(5, dice.DifficultyNormal, dice.AdvantageNone), 1e-9)
	// totals below 7 band as critical failure regardless of difficulty
	assert.InDelta(t, 21.0/36, dice.Probability(0, 2, dice.AdvantageNone), 1e-9)

	plain := dice.Probability(0, dice.DifficultyDifficult, dice.AdvantageNone)
	assert.Greater(t, dice.Probability(0, dice.DifficultyDifficult, dice.AdvantageAdvantage), plain)
	assert.Less(t, dice.Probability(0, dice.DifficultyDifficult, dice.AdvantageDisadvantage), plain)
}
