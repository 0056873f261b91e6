package entities

// Rewards is a bundle of experience, gold and items
type Rewards struct {
	XP    int      `json:"xp"`
	Gold  int      `json:"gold"`
	Items []string `json:"items,omitempty"`
}

// Add returns the sum of r and other
func (r Rewards) Add(other Rewards) Rewards {
	items := make([]string, 0, len(r.Items)+len(other.Items))
	items = append(items, r.Items...)
	items = append(items, other.Items...)
	if len(items) == 0 {
		items = nil
	}
	return Rewards{
		XP:    r.XP + other.XP,
		Gold:  r.Gold + other.Gold,
		Items: items,
	}
}

// IsZero reports whether the bundle grants nothing
func (r Rewards) IsZero() bool {
	return r.XP == 0 && r.Gold == 0 && len(r.Items) == 0
}
