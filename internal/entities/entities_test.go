package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
)

func TestAttributesGetSet(t *testing.T) {
	var attrs entities.Attributes
	for i, attr := range entities.AllAttributes {
		attrs.Set(attr, i)
	}

	for i, attr := range entities.AllAttributes {
		v, ok := attrs.Get(attr)
		assert.True(t, ok)
		assert.Equal(t, i, v)
	}

	_, ok := attrs.Get("CHA")
	assert.False(t, ok)
}

func TestPlayerInventory(t *testing.T) {
	p := entities.Player{Inventory: []string{"pocion_curacion", "antorcha", "pocion_curacion"}}
	clone := p.Clone()

	assert.True(t, p.RemoveItem("pocion_curacion"))
	assert.Equal(t, []string{"antorcha", "pocion_curacion"}, p.Inventory)
	assert.False(t, p.RemoveItem("espada"))
	assert.Equal(t, 2, entities.CountItem(clone.Inventory, "pocion_curacion"))
	assert.True(t, clone.HasItem("antorcha"))
}

func TestEnemyEffectiveLevel(t *testing.T) {
	assert.Equal(t, 1, entities.Enemy{}.EffectiveLevel())
	assert.Equal(t, 4, entities.Enemy{Level: 4}.EffectiveLevel())
}

func TestRewardsAdd(t *testing.T) {
	total := entities.Rewards{XP: 1, Items: []string{"a"}}.Add(entities.Rewards{XP: 2, Gold: 3, Items: []string{"b"}})
	assert.Equal(t, entities.Rewards{XP: 3, Gold: 3, Items: []string{"a", "b"}}, total)
	assert.True(t, entities.Rewards{}.Add(entities.Rewards{}).IsZero())
}

func TestQuestProgressAndClone(t *testing.T) {
	q := &entities.Quest{
		ID: "q1",
		Objectives: []*entities.Objective{
			{ID: "a", Required: true, Completed: true},
			{ID: "b", Required: true, Count: entities.IntPtr(3), CurrentCount: entities.IntPtr(1)},
			{ID: "c", Required: false, Completed: true},
		},
	}

	done, total := q.RequiredProgress()
	assert.Equal(t, 1, done)
	assert.Equal(t, 2, total)

	clone := q.Clone()
	*clone.Objective("b").CurrentCount = 3
	assert.Equal(t, 1, *q.Objective("b").CurrentCount)
	assert.True(t, clone.Objective("b").CountReached())
	assert.False(t, q.Objective("b").CountReached())
	assert.True(t, q.Objective("a").CountReached())
	assert.Nil(t, q.Objective("missing"))
}
