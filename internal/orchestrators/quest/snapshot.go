package quest

import (
	"sort"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/errors"
)

// Snapshot is the serializable state of a Manager
type Snapshot struct {
	Entries      []EntrySnapshot `json:"entries"`
	ActiveIDs    []string        `json:"activeIds"`
	CompletedIDs []string        `json:"completedIds"`
}

// EntrySnapshot is one serialized registry record
type EntrySnapshot struct {
	Origin     Origin           `json:"origin"`
	Quest      *entities.Quest  `json:"quest"`
	Definition *QuestDefinition `json:"definition,omitempty"`
}

// Serialize captures the registry, the active list and the completed ids.
// Entries are ordered by quest id.
func (m *Manager) Serialize() Snapshot {
	ids := make([]string, 0, len(m.registry))
	for id := range m.registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	snap := Snapshot{
		Entries:      make([]EntrySnapshot, 0, len(ids)),
		ActiveIDs:    make([]string, 0, len(m.system.active)),
		CompletedIDs: m.system.CompletedIDs(),
	}

	for _, id := range ids {
		switch entry := m.registry[id].(type) {
		case CampaignEntry:
			def := *entry.Definition
			snap.Entries = append(snap.Entries, EntrySnapshot{
				Origin:     OriginCampaign,
				Quest:      entry.Quest.Clone(),
				Definition: &def,
			})
		case ProceduralEntry:
			snap.Entries = append(snap.Entries, EntrySnapshot{
				Origin: OriginProcedural,
				Quest:  entry.Quest.Clone(),
			})
		}
	}

	for _, q := range m.system.active {
		snap.ActiveIDs = append(snap.ActiveIDs, q.ID)
	}

	return snap
}

// Deserialize replaces the manager state with snap
func (m *Manager) Deserialize(snap Snapshot) error {
	registry := make(map[string]Entry, len(snap.Entries))

	for i, es := range snap.Entries {
		if es.Quest == nil || es.Quest.ID == "" {
			return errors.InvalidArgumentf("snapshot entry %d has no quest", i)
		}
		q := es.Quest.Clone()
		if _, dup := registry[q.ID]; dup {
			return errors.InvalidArgumentf("snapshot has duplicate quest %s", q.ID)
		}

		switch es.Origin {
		case OriginCampaign:
			if es.Definition == nil {
				return errors.InvalidArgumentf("campaign quest %s has no definition", q.ID)
			}
			def := *es.Definition
			registry[q.ID] = CampaignEntry{
				Quest:             q,
				Definition:        &def,
				Branches:          def.Branches,
				FailureConditions: def.FailureConditions,
			}
		case OriginProcedural:
			registry[q.ID] = ProceduralEntry{Quest: q}
		default:
			return errors.InvalidArgumentf("quest %s has unknown origin %q", q.ID, es.Origin)
		}
	}

	active := make([]*entities.Quest, 0, len(snap.ActiveIDs))
	for _, id := range snap.ActiveIDs {
		entry, ok := registry[id]
		if !ok {
			return errors.InvalidArgumentf("active quest %s is not in the registry", id)
		}
		active = append(active, entry.quest())
	}

	m.registry = registry
	m.system.restore(active, snap.CompletedIDs)
	return nil
}
