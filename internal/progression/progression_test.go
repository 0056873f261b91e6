package progression_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/progression"
)

type ProgressionTestSuite struct {
	suite.Suite
	player *entities.Player
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionTestSuite))
}

func (s *ProgressionTestSuite) SetupTest() {
	s.player = &entities.Player{
		Name:           "Aldo",
		Level:          1,
		XP:             2,
		XPToNextLevel:  3,
		Attributes:     entities.Attributes{FUE: 3, AGI: 1},
		Wounds:         1,
		MaxWounds:      5,
		Fatigue:        0,
		MaxFatigue:     4,
		InventorySlots: 8,
	}
}

func (s *ProgressionTestSuite) TestChainedLevelUps() {
	ups := progression.AddXP(s.player, 5)

	s.Require().Len(ups, 2)
	s.Equal(2, ups[0].Level)
	s.Equal(3, ups[1].Level)
	s.Equal(3, s.player.Level)
	s.Equal(1, s.player.XP)
	s.Equal(progression.XPPerLevel, s.player.XPToNextLevel)

	// level 3 milestone
	s.Equal(5, s.player.Gold)
	s.Equal(10, s.player.InventorySlots)
	s.Equal([]string{"mochila_reforzada"}, s.player.Inventory)
	s.Equal(5, s.player.Wounds)
	s.Equal(4, s.player.Fatigue)

	// attribute points are banked, not spent
	s.Equal(entities.Attributes{FUE: 3, AGI: 1}, s.player.Attributes)
	s.Equal(2, s.player.AttributePoints)
}

func (s *ProgressionTestSuite) TestNonPositiveXPIsIgnored() {
	s.Nil(progression.AddXP(s.player, 0))
	s.Nil(progression.AddXP(s.player, -10))
	s.Equal(2, s.player.XP)
	s.Equal(1, s.player.Level)
}

func (s *ProgressionTestSuite) TestLevelStopsAtMax() {
	ups := progression.AddXP(s.player, 100)

	s.Len(ups, progression.MaxLevel-1)
	s.Equal(progression.MaxLevel, s.player.Level)
	s.GreaterOrEqual(s.player.XP, 0)
	s.Equal(5+10+50, s.player.Gold)
	s.Equal(8+2+2+2+5, s.player.InventorySlots)
	s.Equal([]string{"mochila_reforzada", "amuleto_del_viajero", "reliquia_ancestral"}, s.player.Inventory)
	s.Equal(100, progression.XPProgress(s.player))
	s.Equal(7+2+3, s.player.AttributePoints)
}

func (s *ProgressionTestSuite) TestCalculateRewards() {
	testCases := []struct {
		level int
		want  progression.LevelRewards
	}{
		{level: 2, want: progression.LevelRewards{AttributePoints: 1, FullHeal: true}},
		{level: 3, want: progression.LevelRewards{AttributePoints: 1, FullHeal: true, Gold: 5, InventorySlots: 2, UnlockedItem: "mochila_reforzada"}},
		{level: 5, want: progression.LevelRewards{AttributePoints: 2, FullHeal: true, Gold: 10, InventorySlots: 2}},
		{level: 7, want: progression.LevelRewards{AttributePoints: 1, FullHeal: true, InventorySlots: 2, UnlockedItem: "amuleto_del_viajero"}},
		{level: 10, want: progression.LevelRewards{AttributePoints: 3, FullHeal: true, Gold: 50, InventorySlots: 5, UnlockedItem: "reliquia_ancestral"}},
	}

	for _, tc := range testCases {
		s.Equal(tc.want, progression.CalculateRewards(tc.level), "level %d", tc.level)
	}
}

func (s *ProgressionTestSuite) TestApplyAttributePoint() {
	s.player.AttributePoints = 2

	res := progression.ApplyAttributePoint(s.player, entities.AttributeAGI)
	s.True(res.Success)
	s.Equal(2, s.player.Attributes.AGI)
	s.Equal(1, s.player.AttributePoints)

	res = progression.ApplyAttributePoint(s.player, entities.AttributeFUE)
	s.False(res.Success)
	s.NotEmpty(res.Message)
	s.Equal(3, s.player.Attributes.FUE)
	s.Equal(1, s.player.AttributePoints)

	res = progression.ApplyAttributePoint(s.player, entities.Attribute("CAR"))
	s.False(res.Success)
	s.Equal(1, s.player.AttributePoints)
}

func (s *ProgressionTestSuite) TestApplyAttributePointNeedsBankedPoints() {
	res := progression.ApplyAttributePoint(s.player, entities.AttributeSAB)
	s.False(res.Success)
	s.Equal("no attribute points to spend", res.Message)
	s.Equal(0, s.player.Attributes.SAB)

	progression.AddXP(s.player, 1)
	s.Equal(2, s.player.Level)
	s.Equal(1, s.player.AttributePoints)

	s.True(progression.ApplyAttributePoint(s.player, entities.AttributeSAB).Success)
	s.False(progression.ApplyAttributePoint(s.player, entities.AttributeSAB).Success)
	s.Equal(1, s.player.Attributes.SAB)
	s.Equal(0, s.player.AttributePoints)
}

func (s *ProgressionTestSuite) TestXPProgress() {
	s.Equal(66, progression.XPProgress(s.player))

	s.player.XP = 0
	s.Equal(0, progression.XPProgress(s.player))
}

func (s *ProgressionTestSuite) TestRest() {
	s.player.Fatigue = 1
	progression.Rest(s.player)
	s.Equal(4, s.player.Fatigue)
	s.Equal(1, s.player.Wounds)
}
