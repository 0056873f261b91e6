// Package session persists game session snapshots
package session

import (
	"context"
	"time"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
	"github.com/KirkDiggler/rpg-engine/internal/orchestrators/quest"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=sessionmock github.com/KirkDiggler/rpg-engine/internal/repositories/session Repository

// SnapshotVersion is the current snapshot layout
const SnapshotVersion = 1

// SupportedVersion reports whether a stored version can be loaded. Zero
// predates versioning and reads as the current layout.
func SupportedVersion(v int) bool {
	if v == 0 {
		v = SnapshotVersion
	}
	return v == SnapshotVersion
}

// Snapshot is everything needed to resume a session. RNGState restores
// the random stream exactly, so a restored session replays the same
// outcomes as the original would have.
type Snapshot struct {
	ID       string          `json:"id"`
	Version  int             `json:"version"`
	Seed     string          `json:"seed"`
	RNGState uint32          `json:"rngState"`
	Player   entities.Player `json:"player"`
	Quests   quest.Snapshot  `json:"quests"`
	World    World           `json:"world"`
	SavedAt  time.Time       `json:"savedAt"`
}

// World is the state branch consequences and failure checks act on
type World struct {
	Location          string         `json:"location,omitempty"`
	ElapsedTurns      int            `json:"elapsedTurns"`
	DeadNPCs          []string       `json:"deadNpcs,omitempty"`
	Relationships     map[string]int `json:"relationships,omitempty"`
	UnlockedQuests    []string       `json:"unlockedQuests,omitempty"`
	UnlockedLocations []string       `json:"unlockedLocations,omitempty"`
}

// Summary describes a stored snapshot without loading it
type Summary struct {
	ID      string
	Player  string
	Level   int
	SavedAt time.Time
}

// SaveInput contains the snapshot to store
type SaveInput struct {
	Snapshot *Snapshot
}

// SaveOutput contains the stored snapshot with SavedAt set
type SaveOutput struct {
	Snapshot *Snapshot
}

// GetInput identifies a snapshot
type GetInput struct {
	ID string
}

// GetOutput contains the loaded snapshot
type GetOutput struct {
	Snapshot *Snapshot
}

// DeleteInput identifies a snapshot to remove
type DeleteInput struct {
	ID string
}

// DeleteOutput is empty
type DeleteOutput struct{}

// ListInput has no filters yet
type ListInput struct{}

// ListOutput contains summaries ordered by id
type ListOutput struct {
	Sessions []Summary
}

// Repository stores session snapshots. Save overwrites any snapshot with
// the same id.
type Repository interface {
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
	Get(ctx context.Context, input GetInput) (*GetOutput, error)
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
	List(ctx context.Context, input ListInput) (*ListOutput, error)
}

const (
	errSnapshotNil = "snapshot cannot be nil"
	errIDEmpty     = "session ID cannot be empty"
)

func summarize(s *Snapshot) Summary {
	return Summary{
		ID:      s.ID,
		Player:  s.Player.Name,
		Level:   s.Player.Level,
		SavedAt: s.SavedAt,
	}
}
