package entities

// Consequence is an effect of choosing a campaign branch. The set of
// implementations is closed: Relationship, RewardGrant, UnlockQuest and
// UnlockLocation. Callers switch on the concrete type.
type Consequence interface {
	consequence()
}

// Relationship changes the player's standing with an NPC
type Relationship struct {
	NPC    string
	Change int
}

// RewardGrant awards a reward bundle
type RewardGrant struct {
	Rewards Rewards
}

// UnlockQuest makes another quest available
type UnlockQuest struct {
	QuestID string
}

// UnlockLocation makes a location reachable
type UnlockLocation struct {
	Location string
}

func (Relationship) consequence()   {}
func (RewardGrant) consequence()    {}
func (UnlockQuest) consequence()    {}
func (UnlockLocation) consequence() {}
