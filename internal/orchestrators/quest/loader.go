package quest

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// Consequence tags on the campaign wire format
const (
	ConsequenceRelationship   = "relationship"
	ConsequenceReward         = "reward"
	ConsequenceUnlockQuest    = "unlock_quest"
	ConsequenceUnlockLocation = "unlock_location"
)

// Failure condition tags on the campaign wire format
const (
	FailureNPCDies   = "npc_dies"
	FailureTimeLimit = "time_limit"
	FailureItemLost  = "item_lost"
)

// CampaignFile is the root of a campaign quest document
type CampaignFile struct {
	Quest QuestDefinition `json:"quest"`
}

// QuestDefinition is an authored campaign quest
type QuestDefinition struct {
	ID                string                `json:"id"`
	Title             string                `json:"title"`
	Type              string                `json:"type"`
	LevelRange        [2]int                `json:"level_range"`
	Giver             string                `json:"giver"`
	StartingLocation  string                `json:"starting_location"`
	Description       string                `json:"description"`
	Objectives        []ObjectiveDefinition `json:"objectives"`
	Rewards           RewardsDefinition     `json:"rewards"`
	Branches          []BranchDefinition    `json:"branches,omitempty"`
	FailureConditions []FailureCondition    `json:"failure_conditions,omitempty"`
}

// ObjectiveDefinition is an authored objective. Boss and Item are
// shorthands for single-element Enemies and Items.
type ObjectiveDefinition struct {
	ID          string        `json:"id"`
	Type        string        `json:"type"`
	Description string        `json:"description"`
	Required    bool          `json:"required"`
	Location    string        `json:"location,omitempty"`
	TargetNPC   string        `json:"target_npc,omitempty"`
	Enemies     []string      `json:"enemies,omitempty"`
	Boss        string        `json:"boss,omitempty"`
	Item        string        `json:"item,omitempty"`
	Items       []string      `json:"items,omitempty"`
	Count       *int          `json:"count,omitempty"`
	Rewards     *RewardBundle `json:"rewards,omitempty"`
}

// RewardBundle is a reward on the wire
type RewardBundle struct {
	XP    int      `json:"xp"`
	Gold  int      `json:"gold"`
	Items []string `json:"items,omitempty"`
}

// ToRewards converts the bundle to the internal shape
func (b *RewardBundle) ToRewards() entities.Rewards {
	if b == nil {
		return entities.Rewards{}
	}
	return entities.Rewards{XP: b.XP, Gold: b.Gold, Items: slices.Clone(b.Items)}
}

// RewardsDefinition holds the base reward and the bonus for finishing
// every optional objective
type RewardsDefinition struct {
	Base          RewardBundle  `json:"base"`
	OptionalBonus *RewardBundle `json:"optional_bonus,omitempty"`
}

// BranchDefinition is a named decision with its consequences
type BranchDefinition struct {
	ID           string                  `json:"id"`
	Description  string                  `json:"description"`
	Consequences []ConsequenceDefinition `json:"consequences"`
}

// ConsequenceDefinition is a tagged consequence on the wire
type ConsequenceDefinition struct {
	Type     string        `json:"type"`
	NPC      string        `json:"npc,omitempty"`
	Change   int           `json:"change,omitempty"`
	Rewards  *RewardBundle `json:"rewards,omitempty"`
	QuestID  string        `json:"quest_id,omitempty"`
	Location string        `json:"location,omitempty"`
}

// FailureCondition is a rule that fails the quest when it trips
type FailureCondition struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	NPC         string `json:"npc,omitempty"`
	Turns       int    `json:"turns,omitempty"`
	Item        string `json:"item,omitempty"`
}

// Check is the result of a precondition check
type Check struct {
	CanComplete bool   `json:"canComplete"`
	Reason      string `json:"reason,omitempty"`
}

var objectiveTypes = []string{
	string(entities.ObjectiveDelivery),
	string(entities.ObjectiveCombat),
	string(entities.ObjectiveExplore),
	string(entities.ObjectiveTalk),
	string(entities.ObjectiveCollect),
	string(entities.ObjectiveEscort),
	string(entities.ObjectiveInvestigate),
}

var questTypes = []string{
	string(entities.QuestTypeMain),
	string(entities.QuestTypeSide),
	string(entities.QuestTypeRandomEvent),
}

// Loader maps campaign documents onto quests
type Loader struct{}

// NewLoader creates a loader
func NewLoader() *Loader {
	return &Loader{}
}

// Parse decodes and validates a campaign document
func (l *Loader) Parse(data []byte) (*CampaignFile, error) {
	var file CampaignFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to decode campaign quest")
	}
	if err := l.Validate(&file.Quest); err != nil {
		return nil, err
	}
	return &file, nil
}

// Marshal encodes a definition back to the wire format
func (l *Loader) Marshal(def *QuestDefinition) ([]byte, error) {
	if def == nil {
		return nil, errors.InvalidArgument("definition is required")
	}
	data, err := json.Marshal(CampaignFile{Quest: *def})
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode campaign quest")
	}
	return data, nil
}

// Validate checks a definition for structural errors
func (l *Loader) Validate(def *QuestDefinition) error {
	vb := errors.NewValidationBuilder()

	if def.ID == "" {
		vb.RequiredField("quest.id")
	}
	if def.Title == "" {
		vb.RequiredField("quest.title")
	}
	errors.ValidateEnum("quest.type", def.Type, questTypes, vb)
	if def.LevelRange[0] > def.LevelRange[1] {
		vb.Fieldf("quest.level_range", "min %d is above max %d", def.LevelRange[0], def.LevelRange[1])
	}
	if len(def.Objectives) == 0 {
		vb.Field("quest.objectives", "at least one objective is required")
	}

	seen := make(map[string]bool, len(def.Objectives))
	for i, o := range def.Objectives {
		field := fmt.Sprintf("quest.objectives[%d]", i)
		if o.ID == "" {
			vb.RequiredField(field + ".id")
		} else if seen[o.ID] {
			vb.Fieldf(field+".id", "duplicate objective id %s", o.ID)
		}
		seen[o.ID] = true
		errors.ValidateEnum(field+".type", o.Type, objectiveTypes, vb)
		if o.Count != nil && *o.Count <= 0 {
			vb.Field(field+".count", "must be positive")
		}
	}

	for i, b := range def.Branches {
		field := fmt.Sprintf("quest.branches[%d]", i)
		if b.ID == "" {
			vb.RequiredField(field + ".id")
		}
		for j, c := range b.Consequences {
			if _, err := toConsequence(c); err != nil {
				vb.Field(fmt.Sprintf("%s.consequences[%d]", field, j), errors.GetMessage(err))
			}
		}
	}

	for i, fc := range def.FailureConditions {
		errors.ValidateEnum(fmt.Sprintf("quest.failure_conditions[%d].type", i), fc.Type,
			[]string{FailureNPCDies, FailureTimeLimit, FailureItemLost}, vb)
	}

	return vb.Build()
}

// ToQuest builds an inactive quest from a definition
func (l *Loader) ToQuest(def *QuestDefinition) *entities.Quest {
	q := &entities.Quest{
		ID:          def.ID,
		Title:       def.Title,
		Type:        entities.QuestType(def.Type),
		LevelRange:  def.LevelRange,
		Giver:       def.Giver,
		Location:    def.StartingLocation,
		Description: def.Description,
		Rewards:     def.Rewards.Base.ToRewards(),
		Objectives:  make([]*entities.Objective, len(def.Objectives)),
	}

	for i, o := range def.Objectives {
		obj := &entities.Objective{
			ID:          o.ID,
			Type:        entities.ObjectiveType(o.Type),
			Description: o.Description,
			Required:    o.Required,
			Location:    o.Location,
			TargetNPC:   o.TargetNPC,
			Enemies:     slices.Clone(o.Enemies),
			Items:       slices.Clone(o.Items),
			Rewards:     o.Rewards.ToRewards(),
		}
		if o.Boss != "" {
			obj.Enemies = append(obj.Enemies, o.Boss)
		}
		if o.Item != "" {
			obj.Items = append(obj.Items, o.Item)
		}
		if o.Count != nil {
			obj.Count = entities.IntPtr(*o.Count)
			obj.CurrentCount = entities.IntPtr(0)
		}
		q.Objectives[i] = obj
	}

	return q
}

// Consequences converts a branch's wire consequences. Definitions that
// passed Validate always convert.
func (l *Loader) Consequences(b BranchDefinition) ([]entities.Consequence, error) {
	out := make([]entities.Consequence, 0, len(b.Consequences))
	for _, c := range b.Consequences {
		cons, err := toConsequence(c)
		if err != nil {
			return nil, err
		}
		out = append(out, cons)
	}
	return out, nil
}

func toConsequence(c ConsequenceDefinition) (entities.Consequence, error) {
	switch c.Type {
	case ConsequenceRelationship:
		if c.NPC == "" {
			return nil, errors.InvalidArgument("relationship consequence requires npc")
		}
		return entities.Relationship{NPC: c.NPC, Change: c.Change}, nil
	case ConsequenceReward:
		return entities.RewardGrant{Rewards: c.Rewards.ToRewards()}, nil
	case ConsequenceUnlockQuest:
		if c.QuestID == "" {
			return nil, errors.InvalidArgument("unlock_quest consequence requires quest_id")
		}
		return entities.UnlockQuest{QuestID: c.QuestID}, nil
	case ConsequenceUnlockLocation:
		if c.Location == "" {
			return nil, errors.InvalidArgument("unlock_location consequence requires location")
		}
		return entities.UnlockLocation{Location: c.Location}, nil
	default:
		return nil, errors.InvalidArgumentf("unknown consequence type: %s", c.Type)
	}
}

// CanCompleteObjective checks an objective's preconditions against the
// player's inventory and location without changing anything.
func (l *Loader) CanCompleteObjective(obj *entities.Objective, inventory []string, location string) Check {
	switch {
	case obj == nil:
		return Check{Reason: ReasonObjectiveNotFound}
	case obj.RewardPaid:
		return Check{Reason: ReasonObjectiveCompleted}
	case obj.Location != "" && obj.Location != location:
		return Check{Reason: fmt.Sprintf("must be at %s", obj.Location)}
	case !obj.CountReached():
		current := 0
		if obj.CurrentCount != nil {
			current = *obj.CurrentCount
		}
		return Check{Reason: fmt.Sprintf("progress %d/%d", current, *obj.Count)}
	}

	if obj.Type == entities.ObjectiveDelivery || (obj.Type == entities.ObjectiveCollect && !obj.IsCounter()) {
		for _, item := range obj.Items {
			if !slices.Contains(inventory, item) {
				return Check{Reason: fmt.Sprintf("missing item %s", item)}
			}
		}
	}

	return Check{CanComplete: true}
}
