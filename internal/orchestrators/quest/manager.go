// Package quest generates, loads and tracks quests.
//
// Procedural quests come from a Generator and campaign quests from JSON
// documents read by a Loader. A Manager registers both kinds in a single
// registry and delegates every state change to one System, so an active
// quest lives in exactly one place.
package quest

import (
	"log/slog"
	"slices"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// Origin records where a quest came from
type Origin string

// Quest origins
const (
	OriginCampaign   Origin = "campaign"
	OriginProcedural Origin = "procedural"
)

// Entry is a registry record. Implementations are CampaignEntry and
// ProceduralEntry.
type Entry interface {
	Origin() Origin
	quest() *entities.Quest
}

// CampaignEntry is a quest loaded from a campaign document
type CampaignEntry struct {
	Quest             *entities.Quest
	Definition        *QuestDefinition
	Branches          []BranchDefinition
	FailureConditions []FailureCondition
}

// Origin implements Entry
func (CampaignEntry) Origin() Origin { return OriginCampaign }

func (e CampaignEntry) quest() *entities.Quest { return e.Quest }

// ProceduralEntry is a generated quest
type ProceduralEntry struct {
	Quest *entities.Quest
}

// Origin implements Entry
func (ProceduralEntry) Origin() Origin { return OriginProcedural }

func (e ProceduralEntry) quest() *entities.Quest { return e.Quest }

// FailureContext is the world state failure conditions are checked against
type FailureContext struct {
	DeadNPCs     []string
	ElapsedTurns int
	Inventory    []string
}

// FailureCheck reports a CheckFailureConditions call
type FailureCheck struct {
	Failed    bool              `json:"failed"`
	Condition *FailureCondition `json:"condition,omitempty"`
}

// ManagerConfig holds the dependencies for a quest manager
type ManagerConfig struct {
	Generator *Generator
	Loader    *Loader
}

// Validate ensures all required dependencies are provided
func (c *ManagerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Generator == nil {
		vb.RequiredField("Generator")
	}

	return vb.Build()
}

// Manager unifies campaign and procedural quests
type Manager struct {
	generator *Generator
	loader    *Loader
	system    *System
	registry  map[string]Entry
}

// NewManager creates a manager with an empty registry
func NewManager(cfg *ManagerConfig) (*Manager, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	loader := cfg.Loader
	if loader == nil {
		loader = NewLoader()
	}

	return &Manager{
		generator: cfg.Generator,
		loader:    loader,
		system:    NewSystem(),
		registry:  make(map[string]Entry),
	}, nil
}

// LoadCampaign parses a campaign document and registers its quest
// without activating it
func (m *Manager) LoadCampaign(data []byte) (*entities.Quest, error) {
	file, err := m.loader.Parse(data)
	if err != nil {
		return nil, err
	}
	def := file.Quest
	if _, exists := m.registry[def.ID]; exists {
		return nil, errors.AlreadyExistsf("quest %s already registered", def.ID)
	}

	q := m.loader.ToQuest(&def)
	m.registry[def.ID] = CampaignEntry{
		Quest:             q,
		Definition:        &def,
		Branches:          def.Branches,
		FailureConditions: def.FailureConditions,
	}

	slog.Info("Campaign quest loaded",
		"quest_id", def.ID,
		"objective_count", len(q.Objectives),
		"branch_count", len(def.Branches),
	)
	return q.Clone(), nil
}

// ActivateCampaignQuest starts a loaded campaign quest
func (m *Manager) ActivateCampaignQuest(questID string) OperationResult {
	entry, ok := m.registry[questID].(CampaignEntry)
	if !ok {
		return fail(ReasonQuestNotFound)
	}
	return m.system.Activate(entry.Quest)
}

// GenerateQuest creates, registers and activates a procedural quest
func (m *Manager) GenerateQuest(playerLevel int, questType entities.QuestType) (*entities.Quest, error) {
	q, err := m.generator.Generate(playerLevel, questType)
	if err != nil {
		return nil, err
	}
	if _, exists := m.registry[q.ID]; exists {
		return nil, errors.AlreadyExistsf("quest %s already registered", q.ID)
	}

	m.registry[q.ID] = ProceduralEntry{Quest: q}
	if res := m.system.Activate(q); !res.Success {
		delete(m.registry, q.ID)
		return nil, errors.FailedPreconditionf("failed to activate generated quest: %s", res.Reason)
	}
	return q.Clone(), nil
}

// CompleteObjective completes an objective. When a campaign quest
// completes with all of its optional objectives done, its optional bonus
// is paid too. Completed quests of either origin stay registered.
func (m *Manager) CompleteObjective(questID, objectiveID string) ObjectiveResult {
	result := m.system.CompleteObjective(questID, objectiveID)
	if !result.Success || !result.QuestCompleted {
		return result
	}

	if entry, ok := m.registry[questID].(CampaignEntry); ok {
		if bonus := entry.Definition.Rewards.OptionalBonus; bonus != nil && optionalsDone(entry.Quest) {
			result.Rewards = result.Rewards.Add(bonus.ToRewards())
		}
	}
	return result
}

// ProgressObjective advances a counter objective
func (m *Manager) ProgressObjective(questID, objectiveID string, amount int) ProgressResult {
	return m.system.ProgressObjective(questID, objectiveID, amount)
}

// AbandonQuest drops an active quest. Procedural quests are discarded
// since no id list refers to them any more; campaign quests are reset so
// they can be taken again.
func (m *Manager) AbandonQuest(questID string) OperationResult {
	res := m.system.Abandon(questID)
	if !res.Success {
		return res
	}

	switch entry := m.registry[questID].(type) {
	case CampaignEntry:
		entry.Quest = m.loader.ToQuest(entry.Definition)
		m.registry[questID] = entry
	case ProceduralEntry:
		delete(m.registry, questID)
	}
	return res
}

// FailQuest marks an active quest failed. The quest stays registered with
// its origin.
func (m *Manager) FailQuest(questID, reason string) OperationResult {
	return m.system.Fail(questID, reason)
}

// ExecuteBranch hands the consequences of a campaign branch to apply in
// order. The manager does not interpret consequences itself.
func (m *Manager) ExecuteBranch(questID, branchID string, apply func(entities.Consequence) error) error {
	if apply == nil {
		return errors.InvalidArgument("apply is required")
	}
	entry, ok := m.registry[questID].(CampaignEntry)
	if !ok {
		return errors.NotFoundf("campaign quest %s not found", questID)
	}

	idx := slices.IndexFunc(entry.Branches, func(b BranchDefinition) bool {
		return b.ID == branchID
	})
	if idx < 0 {
		return errors.NotFoundf("branch %s not found in quest %s", branchID, questID)
	}

	consequences, err := m.loader.Consequences(entry.Branches[idx])
	if err != nil {
		return errors.Wrapf(err, "invalid branch %s", branchID)
	}

	for i, c := range consequences {
		if err := apply(c); err != nil {
			return errors.Wrapf(err, "failed to apply consequence %d of branch %s", i, branchID)
		}
	}

	slog.Info("Branch executed",
		"quest_id", questID,
		"branch_id", branchID,
		"consequence_count", len(consequences),
	)
	return nil
}

// CheckFailureConditions evaluates a campaign quest's failure conditions
// and fails the quest on the first one that trips
func (m *Manager) CheckFailureConditions(questID string, fctx FailureContext) FailureCheck {
	entry, ok := m.registry[questID].(CampaignEntry)
	if !ok || !m.system.IsActive(questID) {
		return FailureCheck{}
	}

	for i := range entry.FailureConditions {
		fc := entry.FailureConditions[i]
		if !tripped(fc, fctx) {
			continue
		}
		reason := fc.Description
		if reason == "" {
			reason = fc.Type
		}
		m.system.Fail(questID, reason)
		return FailureCheck{Failed: true, Condition: &fc}
	}
	return FailureCheck{}
}

func tripped(fc FailureCondition, fctx FailureContext) bool {
	switch fc.Type {
	case FailureNPCDies:
		return slices.Contains(fctx.DeadNPCs, fc.NPC)
	case FailureTimeLimit:
		return fc.Turns > 0 && fctx.ElapsedTurns > fc.Turns
	case FailureItemLost:
		return fc.Item != "" && !slices.Contains(fctx.Inventory, fc.Item)
	default:
		return false
	}
}

// Origin returns where questID came from
func (m *Manager) Origin(questID string) (Origin, bool) {
	entry, ok := m.registry[questID]
	if !ok {
		return "", false
	}
	return entry.Origin(), true
}

// Entry returns the registry record for questID
func (m *Manager) Entry(questID string) (Entry, bool) {
	entry, ok := m.registry[questID]
	return entry, ok
}

// Get returns a copy of a registered quest, or nil
func (m *Manager) Get(questID string) *entities.Quest {
	entry, ok := m.registry[questID]
	if !ok {
		return nil
	}
	return entry.quest().Clone()
}

// Active returns copies of the active quests
func (m *Manager) Active() []*entities.Quest {
	return m.system.Active()
}

// Progress returns a quest's completion percentage
func (m *Manager) Progress(questID string) int {
	return m.system.Progress(questID)
}

// CompletedIDs returns the ids of completed quests
func (m *Manager) CompletedIDs() []string {
	return m.system.CompletedIDs()
}

// CanCompleteObjective checks an active objective's preconditions
func (m *Manager) CanCompleteObjective(questID, objectiveID string, inventory []string, location string) Check {
	q := m.system.find(questID)
	if q == nil {
		return Check{Reason: ReasonQuestNotFound}
	}
	return m.loader.CanCompleteObjective(q.Objective(objectiveID), inventory, location)
}

// optionalsDone reports whether q has optional objectives and all of
// them are completed
func optionalsDone(q *entities.Quest) bool {
	optional := 0
	for _, o := range q.Objectives {
		if o.Required {
			continue
		}
		if !o.Completed {
			return false
		}
		optional++
	}
	return optional > 0
}
