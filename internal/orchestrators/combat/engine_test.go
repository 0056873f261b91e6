package combat_test

import (
	"context"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/combat"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-engine/internal/pkg/rng"
)

type EngineTestSuite struct {
	suite.Suite
	ctx context.Context
	now time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *EngineTestSuite) player(wounds int) entities.Player {
	return entities.Player{
		Name:       "Aldo",
		Level:      1,
		Attributes: entities.Attributes{FUE: 3, AGI: 2},
		Wounds:     wounds,
		MaxWounds:  wounds,
		Inventory:  []string{combat.HealingPotionID, "cuerda"},
	}
}

// weakEnemy can never hit: its best total is 2 against difficulty 7
func (s *EngineTestSuite) weakEnemy(name string, heridas int) entities.Enemy {
	return entities.Enemy{
		Name:  name,
		Level: 2,
		Stats: entities.EnemyStats{FUE: -10, AGI: 0, DEF: 0, Heridas: heridas},
		LootTable: entities.LootTable{
			Common:   []string{"hueso"},
			Uncommon: []string{"colmillo"},
			Rare:     []string{"gema"},
		},
	}
}

// brute always lands a critical hit
func (s *EngineTestSuite) brute(name string) entities.Enemy {
	return entities.Enemy{
		Name:  name,
		Stats: entities.EnemyStats{FUE: 10, DEF: 7, Heridas: 3},
	}
}

func (s *EngineTestSuite) newEngine(p entities.Player, enemies []entities.Enemy, bus events.EventBus) *combat.Engine {
	eng, err := combat.NewEngine(&combat.Config{
		Player:   p,
		Enemies:  enemies,
		Resolver: dice.NewResolver(rng.New(42)),
		Clock:    clock.NewFixed(s.now),
		EventBus: bus,
	})
	s.Require().NoError(err)
	return eng
}

func (s *EngineTestSuite) TestNewEngineInitialState() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	state := eng.State()
	s.Equal(combat.PhasePlayer, state.Phase)
	s.Equal(1, state.Turn)
	s.Require().Len(state.Enemies, 1)
	s.Equal(3, state.Enemies[0].CurrentWounds)
	s.False(state.Enemies[0].IsDead)
	s.Require().Len(state.Log, 1)
	s.Equal("system", state.Log[0].Actor)
	s.Equal(s.now, state.Log[0].Timestamp)
}

func (s *EngineTestSuite) TestNewEngineValidation() {
	_, err := combat.NewEngine(&combat.Config{Player: s.player(5)})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Contains(err.Error(), "Resolver")
	s.Contains(err.Error(), "Enemies")
}

func (s *EngineTestSuite) TestAttacksUntilVictory() {
	eng := s.newEngine(s.player(99), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	for i := 0; i < 100 && !eng.IsOver(); i++ {
		switch eng.Phase() {
		case combat.PhasePlayer:
			_, err := eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 0, Attribute: entities.AttributeFUE})
			s.Require().NoError(err)
		case combat.PhaseEnemy:
			res, err := eng.ProcessEnemyTurn(s.ctx)
			s.Require().NoError(err)
			s.Equal(0, res.Attacks[0].Damage)
		}
	}

	state := eng.State()
	s.Equal(combat.PhaseVictory, state.Phase)
	s.False(state.Escaped)
	s.True(state.Enemies[0].IsDead)
	s.Equal(0, state.Enemies[0].CurrentWounds)
}

func (s *EngineTestSuite) TestPlayerActionInEnemyPhaseIsIllegal() {
	eng := s.newEngine(s.player(99), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Defend{})
	s.Require().NoError(err)
	s.Equal(combat.PhaseEnemy, eng.Phase())

	before := eng.State()
	_, err = eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 0, Attribute: entities.AttributeFUE})
	s.Require().Error(err)
	s.True(errors.IsIllegalPhase(err))
	s.Equal(before, eng.State())
}

func (s *EngineTestSuite) TestEnemyTurnInPlayerPhaseIsIllegal() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	_, err := eng.ProcessEnemyTurn(s.ctx)
	s.True(errors.IsIllegalPhase(err))
}

func (s *EngineTestSuite) TestInvalidAttackLeavesStateUnchanged() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)
	before := eng.State()

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 3, Attribute: entities.AttributeFUE})
	s.True(errors.IsInvalidArgument(err))

	_, err = eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 0, Attribute: entities.AttributeSAB})
	s.True(errors.IsInvalidArgument(err))

	s.Equal(before, eng.State())
}

func (s *EngineTestSuite) TestNilActionIsUnknown() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	_, err := eng.ProcessPlayerAction(s.ctx, nil)
	s.True(errors.IsUnknownActionType(err))
	s.Equal(combat.PhasePlayer, eng.Phase())
}

func (s *EngineTestSuite) TestFailedAttackAtLastWoundPassesToEnemy() {
	p := s.player(1)
	p.Attributes.FUE = -10
	eng := s.newEngine(p, []entities.Enemy{s.brute("Ogro")}, nil)

	res, err := eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 0, Attribute: entities.AttributeFUE})
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal(2, res.Taken)
	s.Equal(combat.PhaseEnemy, res.Phase)
	s.Equal(0, eng.State().Player.Wounds)
	s.False(eng.IsOver())

	turn, err := eng.ProcessEnemyTurn(s.ctx)
	s.Require().NoError(err)
	s.Len(turn.Attacks, 1)
	s.Equal(combat.PhaseDefeat, turn.Phase)
}

func (s *EngineTestSuite) TestEnemyMissesDoNotDefeatPlayerAtZero() {
	p := s.player(1)
	p.Attributes.FUE = -10
	enemy := s.weakEnemy("Lobo", 3)
	enemy.Stats.DEF = 99
	eng := s.newEngine(p, []entities.Enemy{enemy}, nil)

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: 0, Attribute: entities.AttributeFUE})
	s.Require().NoError(err)
	s.Equal(0, eng.State().Player.Wounds)

	turn, err := eng.ProcessEnemyTurn(s.ctx)
	s.Require().NoError(err)
	s.False(turn.Attacks[0].Roll.Success)
	s.Equal(combat.PhasePlayer, turn.Phase)
	s.Equal(2, turn.Turn)
}

func (s *EngineTestSuite) TestDefeatStopsRemainingEnemies() {
	eng := s.newEngine(s.player(2), []entities.Enemy{s.brute("Ogro"), s.brute("Troll")}, nil)

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Defend{})
	s.Require().NoError(err)

	res, err := eng.ProcessEnemyTurn(s.ctx)
	s.Require().NoError(err)
	s.Len(res.Attacks, 1)
	s.Equal(2, res.Attacks[0].Damage)
	s.Equal(combat.PhaseDefeat, res.Phase)
	s.Equal(1, res.Turn)
	s.True(eng.IsOver())
}

func (s *EngineTestSuite) TestEnemyTurnReturnsToPlayer() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3), s.weakEnemy("Rata", 1)}, nil)

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Defend{})
	s.Require().NoError(err)

	res, err := eng.ProcessEnemyTurn(s.ctx)
	s.Require().NoError(err)
	s.Len(res.Attacks, 2)
	s.Equal(combat.PhasePlayer, res.Phase)
	s.Equal(2, res.Turn)
	s.Equal(5, eng.State().Player.Wounds)
}

func (s *EngineTestSuite) TestFlee() {
	s.Run("success escapes", func() {
		p := s.player(5)
		p.Attributes.AGI = 10
		eng := s.newEngine(p, []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

		res, err := eng.ProcessPlayerAction(s.ctx, combat.Flee{})
		s.Require().NoError(err)
		s.True(res.Success)
		s.Equal(combat.PhaseVictory, res.Phase)
		s.True(eng.State().Escaped)
		s.True(eng.Rewards().IsZero())
	})

	s.Run("failure hands over to enemies", func() {
		p := s.player(5)
		p.Attributes.AGI = -10
		eng := s.newEngine(p, []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

		res, err := eng.ProcessPlayerAction(s.ctx, combat.Flee{})
		s.Require().NoError(err)
		s.False(res.Success)
		s.Equal(combat.PhaseEnemy, res.Phase)
		s.False(eng.State().Escaped)
	})
}

func (s *EngineTestSuite) TestUseHealingPotion() {
	p := s.player(5)
	p.Wounds = 2
	eng := s.newEngine(p, []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	res, err := eng.ProcessPlayerAction(s.ctx, combat.UseItem{ItemID: combat.HealingPotionID})
	s.Require().NoError(err)
	s.True(res.Success)
	s.Equal(2, res.Healed)

	state := eng.State()
	s.Equal(4, state.Player.Wounds)
	s.Equal([]string{"cuerda"}, state.Player.Inventory)
	s.Equal(combat.PhaseEnemy, state.Phase)
}

func (s *EngineTestSuite) TestPotionHealingIsCapped() {
	p := s.player(5)
	p.Wounds = 4
	eng := s.newEngine(p, []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	res, err := eng.ProcessPlayerAction(s.ctx, combat.UseItem{ItemID: combat.HealingPotionID})
	s.Require().NoError(err)
	s.Equal(1, res.Healed)
	s.Equal(5, eng.State().Player.Wounds)
}

func (s *EngineTestSuite) TestUseUnsupportedItemFails() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	res, err := eng.ProcessPlayerAction(s.ctx, combat.UseItem{ItemID: "cuerda"})
	s.Require().NoError(err)
	s.False(res.Success)
	s.Equal(combat.PhaseEnemy, res.Phase)
	s.Len(eng.State().Player.Inventory, 2)
}

func (s *EngineTestSuite) TestRewardsUseCommonLootOnly() {
	eng := s.newEngine(s.player(99), []entities.Enemy{s.weakEnemy("Lobo", 1), s.weakEnemy("Rata", 1)}, nil)

	for i := 0; i < 100 && !eng.IsOver(); i++ {
		if eng.Phase() == combat.PhasePlayer {
			target := 0
			if eng.State().Enemies[0].IsDead {
				target = 1
			}
			_, err := eng.ProcessPlayerAction(s.ctx, combat.Attack{TargetIndex: target, Attribute: entities.AttributeFUE})
			s.Require().NoError(err)
			continue
		}
		_, err := eng.ProcessEnemyTurn(s.ctx)
		s.Require().NoError(err)
	}

	rewards := eng.Rewards()
	s.Equal(4, rewards.XP)
	s.Equal(0, rewards.Gold)
	s.Equal([]string{"hueso", "hueso"}, rewards.Items)
	s.Equal(rewards, eng.Rewards())
}

func (s *EngineTestSuite) TestStatusEffectsModifyAndExpire() {
	eng := s.newEngine(s.player(10), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	s.Require().NoError(eng.ApplyStatusEffect(0, entities.StatusEffect{Name: "furia", Duration: 1, Modifier: 30}))
	s.Require().NoError(eng.ApplyStatusEffect(-1, entities.StatusEffect{Name: "bendicion", Duration: 2}))

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Defend{})
	s.Require().NoError(err)

	res, err := eng.ProcessEnemyTurn(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, res.Attacks[0].Damage)

	state := eng.State()
	s.Empty(state.Enemies[0].StatusEffects)
	s.Require().Len(state.Player.StatusEffects, 1)
	s.Equal(1, state.Player.StatusEffects[0].Duration)
}

func (s *EngineTestSuite) TestApplyStatusEffectValidation() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	s.True(errors.IsInvalidArgument(eng.ApplyStatusEffect(4, entities.StatusEffect{Name: "x", Duration: 1})))
	s.True(errors.IsInvalidArgument(eng.ApplyStatusEffect(0, entities.StatusEffect{Name: "x"})))
	s.True(errors.IsInvalidArgument(eng.ApplyStatusEffect(0, entities.StatusEffect{Duration: 1})))
}

func (s *EngineTestSuite) TestStateIsACopy() {
	eng := s.newEngine(s.player(5), []entities.Enemy{s.weakEnemy("Lobo", 3)}, nil)

	state := eng.State()
	state.Enemies[0].CurrentWounds = 0
	state.Player.Inventory[0] = "changed"

	fresh := eng.State()
	s.Equal(3, fresh.Enemies[0].CurrentWounds)
	s.Equal(combat.HealingPotionID, fresh.Player.Inventory[0])
}

func (s *EngineTestSuite) TestPublishesCombatEvents() {
	bus := events.NewBus()
	var seen []string
	for _, eventType := range []string{combat.EventAttack, combat.EventFlee, combat.EventVictory} {
		bus.SubscribeFunc(eventType, 0, func(_ context.Context, e events.Event) error {
			seen = append(seen, e.Type())
			return nil
		})
	}

	p := s.player(5)
	p.Attributes.AGI = 10
	eng := s.newEngine(p, []entities.Enemy{s.weakEnemy("Lobo", 3)}, bus)

	_, err := eng.ProcessPlayerAction(s.ctx, combat.Flee{})
	s.Require().NoError(err)

	s.Equal([]string{combat.EventFlee, combat.EventVictory}, seen)
}

func TestParseAction(t *testing.T) {
	action, err := combat.ParseAction("attack", combat.ActionArgs{TargetIndex: 1, Attribute: "agi"})
	require.NoError(t, err)
	assert.Equal(t, combat.Attack{TargetIndex: 1, Attribute: entities.AttributeAGI}, action)

	action, err = combat.ParseAction("use_item", combat.ActionArgs{ItemID: combat.HealingPotionID})
	require.NoError(t, err)
	assert.Equal(t, combat.ActionUseItem, action.Type())

	_, err = combat.ParseAction("dance", combat.ActionArgs{})
	require.Error(t, err)
	assert.True(t, errors.IsUnknownActionType(err))
}
