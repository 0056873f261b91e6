package entities

// EnemyStats are the combat statistics of an enemy
type EnemyStats struct {
	FUE     int `json:"FUE"`
	AGI     int `json:"AGI"`
	DEF     int `json:"DEF"`
	Heridas int `json:"Heridas"`
}

// LootTable groups an enemy's drops by rarity
type LootTable struct {
	Common     []string `json:"common,omitempty"`
	Uncommon   []string `json:"uncommon,omitempty"`
	Rare       []string `json:"rare,omitempty"`
	Guaranteed []string `json:"guaranteed,omitempty"`
}

// Enemy is an enemy definition as handed over by the catalog layer
type Enemy struct {
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name"`
	Level     int        `json:"level,omitempty"`
	Stats     EnemyStats `json:"stats"`
	LootTable LootTable  `json:"loot_table"`
}

// EffectiveLevel returns the enemy level, defaulting to 1 when unset
func (e Enemy) EffectiveLevel() int {
	if e.Level <= 0 {
		return 1
	}
	return e.Level
}

// StatusEffect is a timed effect on a combatant. Duration counts the
// remaining full rounds.
type StatusEffect struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Modifier int    `json:"modifier,omitempty"`
}
