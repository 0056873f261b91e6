package combat

import (
	"fmt"
	"time"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/mechanics/dice"
)

// Phase is the state of the combat state machine
type Phase string

// Combat phases. Victory and defeat are terminal.
const (
	PhasePlayer  Phase = "player"
	PhaseEnemy   Phase = "enemy"
	PhaseVictory Phase = "victory"
	PhaseDefeat  Phase = "defeat"
)

// IsTerminal reports whether no further actions are accepted
func (p Phase) IsTerminal() bool {
	return p == PhaseVictory || p == PhaseDefeat
}

// Entity types reported through core.Entity
const (
	EntityTypePlayer = "player"
	EntityTypeEnemy  = "enemy"
)

// PlayerCombatant is the player's side of an encounter
type PlayerCombatant struct {
	entities.Player
	StatusEffects []entities.StatusEffect `json:"statusEffects,omitempty"`
}

// GetID implements core.Entity
func (p *PlayerCombatant) GetID() string {
	if p.Name == "" {
		return EntityTypePlayer
	}
	return p.Name
}

// GetType implements core.Entity
func (p *PlayerCombatant) GetType() string {
	return EntityTypePlayer
}

// CombatEnemy is one enemy with its live combat state
type CombatEnemy struct {
	entities.Enemy
	CurrentWounds int                     `json:"currentWounds"`
	StatusEffects []entities.StatusEffect `json:"statusEffects,omitempty"`
	IsDead        bool                    `json:"isDead"`

	index int
}

// GetID implements core.Entity
func (e *CombatEnemy) GetID() string {
	if e.ID != "" {
		return e.ID
	}
	return fmt.Sprintf("enemy_%d", e.index+1)
}

// GetType implements core.Entity
func (e *CombatEnemy) GetType() string {
	return EntityTypeEnemy
}

// LogEntry is one line of the append-only combat log
type LogEntry struct {
	Turn      int       `json:"turn"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	Result    string    `json:"result"`
	Damage    *int      `json:"damage,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// State is a full snapshot of an encounter
type State struct {
	Player  PlayerCombatant `json:"player"`
	Enemies []*CombatEnemy  `json:"enemies"`
	Turn    int             `json:"turn"`
	Phase   Phase           `json:"phase"`
	Log     []LogEntry      `json:"log"`
	Escaped bool            `json:"escaped,omitempty"`
}

func (s *State) clone() *State {
	out := *s
	out.Player.Player = s.Player.Clone()
	out.Player.StatusEffects = append([]entities.StatusEffect(nil), s.Player.StatusEffects...)
	out.Enemies = make([]*CombatEnemy, len(s.Enemies))
	for i, e := range s.Enemies {
		c := *e
		c.StatusEffects = append([]entities.StatusEffect(nil), e.StatusEffects...)
		out.Enemies[i] = &c
	}
	out.Log = make([]LogEntry, len(s.Log))
	for i, entry := range s.Log {
		out.Log[i] = entry
		if entry.Damage != nil {
			out.Log[i].Damage = entities.IntPtr(*entry.Damage)
		}
	}
	return &out
}

// ActionResult reports what a player action did
type ActionResult struct {
	Action  ActionType         `json:"action"`
	Success bool               `json:"success"`
	Message string             `json:"message"`
	Roll    *dice.CombatResult `json:"roll,omitempty"`
	Check   *dice.Result       `json:"check,omitempty"`
	Target  string             `json:"target,omitempty"`
	Damage  int                `json:"damage,omitempty"`
	Taken   int                `json:"taken,omitempty"`
	Healed  int                `json:"healed,omitempty"`
	Phase   Phase              `json:"phase"`
}

// EnemyAttack is one enemy's attack during the enemy turn
type EnemyAttack struct {
	Enemy  string            `json:"enemy"`
	Roll   dice.CombatResult `json:"roll"`
	Damage int               `json:"damage"`
}

// EnemyTurnResult reports a full enemy turn
type EnemyTurnResult struct {
	Attacks []EnemyAttack `json:"attacks"`
	Phase   Phase         `json:"phase"`
	Turn    int           `json:"turn"`
}
