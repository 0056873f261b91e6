package quest

import (
	"log/slog"
	"math"
	"slices"

	"github.com/KirkDiggler/rpg-engine/internal/entities"
)

// Failure reasons reported in OperationResult.Reason
const (
	ReasonQuestNotFound        = "quest not found"
	ReasonObjectiveNotFound    = "objective not found"
	ReasonAlreadyActive        = "quest already active"
	ReasonAlreadyCompleted     = "quest already completed"
	ReasonObjectiveCompleted   = "objective already completed"
	ReasonRewardAlreadyPaid    = "objective reward already paid"
	ReasonNotCounter           = "objective has no counter"
	ReasonInsufficientProgress = "objective count not reached"
	ReasonInvalidAmount        = "amount must be positive"
	ReasonQuestNotActivatable  = "quest is failed"
)

// OperationResult reports the outcome of a tracker operation. A result
// with Success false never changed any state.
type OperationResult struct {
	Success bool   `json:"success"`
	Reason  string `json:"reason,omitempty"`
}

func ok() OperationResult {
	return OperationResult{Success: true}
}

func fail(reason string) OperationResult {
	return OperationResult{Reason: reason}
}

// ObjectiveResult reports a CompleteObjective call
type ObjectiveResult struct {
	OperationResult
	Rewards        entities.Rewards `json:"rewards"`
	QuestCompleted bool             `json:"questCompleted"`
}

// ProgressResult reports a ProgressObjective call
type ProgressResult struct {
	OperationResult
	CurrentCount       int  `json:"currentCount"`
	Count              int  `json:"count"`
	ObjectiveCompleted bool `json:"objectiveCompleted"`
}

// System tracks active quests and the ids of completed ones
type System struct {
	active    []*entities.Quest
	completed []string
}

// NewSystem creates an empty tracker
func NewSystem() *System {
	return &System{}
}

// Activate starts tracking q. The tracker keeps the pointer.
func (s *System) Activate(q *entities.Quest) OperationResult {
	switch {
	case q == nil:
		return fail(ReasonQuestNotFound)
	case s.find(q.ID) != nil:
		return fail(ReasonAlreadyActive)
	case s.IsCompleted(q.ID) || q.Completed:
		return fail(ReasonAlreadyCompleted)
	case q.Failed:
		return fail(ReasonQuestNotActivatable)
	}

	q.Active = true
	s.active = append(s.active, q)

	slog.Info("Quest activated",
		"quest_id", q.ID,
		"title", q.Title,
	)
	return ok()
}

// CompleteObjective marks an objective done and pays its reward. Counter
// objectives must have reached their count first. When every required
// objective is done the quest completes, its reward is added, and it
// leaves the active list.
func (s *System) CompleteObjective(questID, objectiveID string) ObjectiveResult {
	q := s.find(questID)
	if q == nil {
		return ObjectiveResult{OperationResult: fail(ReasonQuestNotFound)}
	}
	obj := q.Objective(objectiveID)
	switch {
	case obj == nil:
		return ObjectiveResult{OperationResult: fail(ReasonObjectiveNotFound)}
	case obj.RewardPaid:
		return ObjectiveResult{OperationResult: fail(ReasonRewardAlreadyPaid)}
	case !obj.CountReached():
		return ObjectiveResult{OperationResult: fail(ReasonInsufficientProgress)}
	}

	obj.Completed = true
	obj.RewardPaid = true
	result := ObjectiveResult{
		OperationResult: ok(),
		Rewards:         obj.Rewards,
	}

	done, total := q.RequiredProgress()
	if done == total {
		s.complete(q)
		result.QuestCompleted = true
		result.Rewards = result.Rewards.Add(q.Rewards)
	}

	slog.Debug("Objective completed",
		"quest_id", questID,
		"objective_id", objectiveID,
		"quest_completed", result.QuestCompleted,
	)
	return result
}

// ProgressObjective advances a counter objective by amount, marking it
// completed once the count is reached. Quest completion still requires a
// CompleteObjective call.
func (s *System) ProgressObjective(questID, objectiveID string, amount int) ProgressResult {
	q := s.find(questID)
	if q == nil {
		return ProgressResult{OperationResult: fail(ReasonQuestNotFound)}
	}
	obj := q.Objective(objectiveID)
	switch {
	case obj == nil:
		return ProgressResult{OperationResult: fail(ReasonObjectiveNotFound)}
	case !obj.IsCounter():
		return ProgressResult{OperationResult: fail(ReasonNotCounter)}
	case obj.Completed:
		return ProgressResult{OperationResult: fail(ReasonObjectiveCompleted)}
	case amount <= 0:
		return ProgressResult{OperationResult: fail(ReasonInvalidAmount)}
	}

	current := 0
	if obj.CurrentCount != nil {
		current = *obj.CurrentCount
	}
	current = min(current+amount, *obj.Count)
	obj.CurrentCount = entities.IntPtr(current)
	if current >= *obj.Count {
		obj.Completed = true
	}

	return ProgressResult{
		OperationResult:    ok(),
		CurrentCount:       current,
		Count:              *obj.Count,
		ObjectiveCompleted: obj.Completed,
	}
}

// Abandon stops tracking an active quest
func (s *System) Abandon(questID string) OperationResult {
	q := s.find(questID)
	if q == nil {
		return fail(ReasonQuestNotFound)
	}
	q.Active = false
	s.remove(questID)

	slog.Info("Quest abandoned", "quest_id", questID)
	return ok()
}

// Fail marks an active quest failed and stops tracking it
func (s *System) Fail(questID, reason string) OperationResult {
	q := s.find(questID)
	if q == nil {
		return fail(ReasonQuestNotFound)
	}
	q.Active = false
	q.Failed = true
	s.remove(questID)

	slog.Info("Quest failed",
		"quest_id", questID,
		"reason", reason,
	)
	return ok()
}

// Progress returns the share of required objectives completed, 0 to 100.
// Completed quests report 100 and unknown quests 0.
func (s *System) Progress(questID string) int {
	if s.IsCompleted(questID) {
		return 100
	}
	q := s.find(questID)
	if q == nil {
		return 0
	}
	done, total := q.RequiredProgress()
	if total == 0 {
		return 100
	}
	return int(math.Floor(100 * float64(done) / float64(total)))
}

// Active returns copies of the active quests in activation order
func (s *System) Active() []*entities.Quest {
	out := make([]*entities.Quest, len(s.active))
	for i, q := range s.active {
		out[i] = q.Clone()
	}
	return out
}

// Get returns a copy of an active quest, or nil
func (s *System) Get(questID string) *entities.Quest {
	q := s.find(questID)
	if q == nil {
		return nil
	}
	return q.Clone()
}

// CompletedIDs returns completed quest ids in completion order
func (s *System) CompletedIDs() []string {
	return slices.Clone(s.completed)
}

// IsCompleted reports whether questID has been completed
func (s *System) IsCompleted(questID string) bool {
	return slices.Contains(s.completed, questID)
}

// IsActive reports whether questID is being tracked
func (s *System) IsActive(questID string) bool {
	return s.find(questID) != nil
}

func (s *System) complete(q *entities.Quest) {
	q.Completed = true
	q.Active = false
	s.remove(q.ID)
	s.completed = append(s.completed, q.ID)

	slog.Info("Quest completed",
		"quest_id", q.ID,
		"xp", q.Rewards.XP,
		"gold", q.Rewards.Gold,
	)
}

func (s *System) find(questID string) *entities.Quest {
	for _, q := range s.active {
		if q.ID == questID {
			return q
		}
	}
	return nil
}

func (s *System) remove(questID string) {
	s.active = slices.DeleteFunc(s.active, func(q *entities.Quest) bool {
		return q.ID == questID
	})
}

func (s *System) restore(active []*entities.Quest, completed []string) {
	s.active = active
	s.completed = slices.Clone(completed)
}
