// Package entities holds the plain data records shared by the resolution
// engine: players, enemies, quests and rewards.
package entities

// Attribute identifies one of the four player attributes
type Attribute string

// Player attributes
const (
	AttributeFUE Attribute = "FUE" // strength
	AttributeAGI Attribute = "AGI" // agility
	AttributeSAB Attribute = "SAB" // wisdom
	AttributeSUE Attribute = "SUE" // luck
)

// AttributeCap is the highest value any attribute can reach
const AttributeCap = 3

// AllAttributes lists attributes in their canonical order
var AllAttributes = []Attribute{AttributeFUE, AttributeAGI, AttributeSAB, AttributeSUE}

// Attributes holds the four attribute values
type Attributes struct {
	FUE int `json:"FUE"`
	AGI int `json:"AGI"`
	SAB int `json:"SAB"`
	SUE int `json:"SUE"`
}

// Get returns the value of attr and whether attr is known
func (a Attributes) Get(attr Attribute) (int, bool) {
	switch attr {
	case AttributeFUE:
		return a.FUE, true
	case AttributeAGI:
		return a.AGI, true
	case AttributeSAB:
		return a.SAB, true
	case AttributeSUE:
		return a.SUE, true
	default:
		return 0, false
	}
}

// Set stores value for attr. Unknown attributes are ignored.
func (a *Attributes) Set(attr Attribute, value int) {
	switch attr {
	case AttributeFUE:
		a.FUE = value
	case AttributeAGI:
		a.AGI = value
	case AttributeSAB:
		a.SAB = value
	case AttributeSUE:
		a.SUE = value
	}
}

// Player is the player record consumed by combat and progression.
// Wounds counts remaining health: reaching zero means defeat.
type Player struct {
	Name            string     `json:"name"`
	Level           int        `json:"level"`
	XP              int        `json:"xp"`
	XPToNextLevel   int        `json:"xpToNextLevel"`
	Attributes      Attributes `json:"attributes"`
	AttributePoints int        `json:"attributePoints,omitempty"` // unspent
	Wounds          int        `json:"wounds"`
	MaxWounds       int        `json:"maxWounds"`
	Fatigue         int        `json:"fatigue"`
	MaxFatigue      int        `json:"maxFatigue"`
	Gold            int        `json:"gold"`
	Inventory       []string   `json:"inventory"`
	InventorySlots  int        `json:"inventorySlots"`
}

// Clone returns a deep copy of the player
func (p Player) Clone() Player {
	out := p
	out.Inventory = append([]string(nil), p.Inventory...)
	return out
}

// HasItem reports whether the inventory holds at least one itemID
func (p Player) HasItem(itemID string) bool {
	return CountItem(p.Inventory, itemID) > 0
}

// RemoveItem removes one itemID from the inventory
func (p *Player) RemoveItem(itemID string) bool {
	for i, it := range p.Inventory {
		if it == itemID {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return true
		}
	}
	return false
}

// CountItem counts occurrences of itemID in an inventory
func CountItem(inventory []string, itemID string) int {
	n := 0
	for _, it := range inventory {
		if it == itemID {
			n++
		}
	}
	return n
}
