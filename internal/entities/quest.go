package entities

// QuestType classifies a quest
type QuestType string

// Quest types
const (
	QuestTypeMain        QuestType = "main_quest"
	QuestTypeSide        QuestType = "side_quest"
	QuestTypeRandomEvent QuestType = "random_event"
)

// Valid reports whether t is a known quest type
func (t QuestType) Valid() bool {
	switch t {
	case QuestTypeMain, QuestTypeSide, QuestTypeRandomEvent:
		return true
	}
	return false
}

// ObjectiveType classifies a quest objective
type ObjectiveType string

// Objective types
const (
	ObjectiveDelivery    ObjectiveType = "delivery"
	ObjectiveCombat      ObjectiveType = "combat"
	ObjectiveExplore     ObjectiveType = "explore"
	ObjectiveTalk        ObjectiveType = "talk"
	ObjectiveCollect     ObjectiveType = "collect"
	ObjectiveEscort      ObjectiveType = "escort"
	ObjectiveInvestigate ObjectiveType = "investigate"
)

// Objective is one step of a quest. Count and CurrentCount are set only
// for counter objectives.
type Objective struct {
	ID           string        `json:"id"`
	Type         ObjectiveType `json:"type"`
	Description  string        `json:"description"`
	Required     bool          `json:"required"`
	Completed    bool          `json:"completed"`
	Location     string        `json:"location,omitempty"`
	TargetNPC    string        `json:"targetNpc,omitempty"`
	Enemies      []string      `json:"enemies,omitempty"`
	Items        []string      `json:"items,omitempty"`
	Count        *int          `json:"count,omitempty"`
	CurrentCount *int          `json:"currentCount,omitempty"`
	Rewards      Rewards       `json:"rewards"`
	RewardPaid   bool          `json:"rewardPaid,omitempty"`
}

// IsCounter reports whether the objective tracks progress by count
func (o *Objective) IsCounter() bool {
	return o.Count != nil
}

// CountReached reports whether a counter objective has met its target.
// Non-counter objectives always report true.
func (o *Objective) CountReached() bool {
	if o.Count == nil {
		return true
	}
	return o.CurrentCount != nil && *o.CurrentCount >= *o.Count
}

// Quest is a quest instance, campaign or procedural
type Quest struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Type        QuestType    `json:"type"`
	LevelRange  [2]int       `json:"levelRange"`
	Giver       string       `json:"giver"`
	Location    string       `json:"location"`
	Description string       `json:"description"`
	Objectives  []*Objective `json:"objectives"`
	Rewards     Rewards      `json:"rewards"`
	Active      bool         `json:"active"`
	Completed   bool         `json:"completed"`
	Failed      bool         `json:"failed"`
}

// Objective returns the objective with the given id, or nil
func (q *Quest) Objective(id string) *Objective {
	for _, o := range q.Objectives {
		if o.ID == id {
			return o
		}
	}
	return nil
}

// RequiredProgress returns completed and total counts of required objectives
func (q *Quest) RequiredProgress() (completed, total int) {
	for _, o := range q.Objectives {
		if !o.Required {
			continue
		}
		total++
		if o.Completed {
			completed++
		}
	}
	return completed, total
}

// Clone returns a deep copy of the quest
func (q *Quest) Clone() *Quest {
	out := *q
	out.Rewards.Items = append([]string(nil), q.Rewards.Items...)
	out.Objectives = make([]*Objective, len(q.Objectives))
	for i, o := range q.Objectives {
		c := *o
		c.Enemies = append([]string(nil), o.Enemies...)
		c.Items = append([]string(nil), o.Items...)
		c.Rewards.Items = append([]string(nil), o.Rewards.Items...)
		if o.Count != nil {
			v := *o.Count
			c.Count = &v
		}
		if o.CurrentCount != nil {
			v := *o.CurrentCount
			c.CurrentCount = &v
		}
		out.Objectives[i] = &c
	}
	return &out
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}
