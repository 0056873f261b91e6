package combat

import (
	"strings"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// ActionType tags a player action
type ActionType string

// Player action tags
const (
	ActionAttack  ActionType = "attack"
	ActionDefend  ActionType = "defend"
	ActionUseItem ActionType = "use_item"
	ActionFlee    ActionType = "flee"
)

// Action is a player action. The set of implementations is closed.
type Action interface {
	Type() ActionType
	isAction()
}

// Attack strikes the enemy at TargetIndex using FUE or AGI
type Attack struct {
	TargetIndex int
	Attribute   entities.Attribute
}

// Defend takes no mechanical effect beyond logging
type Defend struct{}

// UseItem consumes an inventory item
type UseItem struct {
	ItemID string
}

// Flee attempts to escape the encounter
type Flee struct{}

// Type implements Action
func (Attack) Type() ActionType { return ActionAttack }

// Type implements Action
func (Defend) Type() ActionType { return ActionDefend }

// Type implements Action
func (UseItem) Type() ActionType { return ActionUseItem }

// Type implements Action
func (Flee) Type() ActionType { return ActionFlee }

func (Attack) isAction()  {}
func (Defend) isAction()  {}
func (UseItem) isAction() {}
func (Flee) isAction()    {}

// ActionArgs carries the optional fields of an action in tag form
type ActionArgs struct {
	TargetIndex int
	Attribute   string
	ItemID      string
}

// ParseAction builds an Action from its tag
func ParseAction(kind string, args ActionArgs) (Action, error) {
	switch ActionType(strings.ToLower(strings.TrimSpace(kind))) {
	case ActionAttack:
		attr := entities.Attribute(strings.ToUpper(args.Attribute))
		if attr == "" {
			attr = entities.AttributeFUE
		}
		return Attack{TargetIndex: args.TargetIndex, Attribute: attr}, nil
	case ActionDefend:
		return Defend{}, nil
	case ActionUseItem:
		return UseItem{ItemID: args.ItemID}, nil
	case ActionFlee:
		return Flee{}, nil
	default:
		return nil, errors.UnknownActionTypef("unknown action type: %s", kind)
	}
}
