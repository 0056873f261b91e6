package dice

// Flavor text only; none of these strings affect mechanics.

var consequencePool = []string{
	"You lose your footing and end up exposed.",
	"Your gear takes a knock; something will need mending.",
	"It works, but the noise draws unwanted attention.",
	"You pay for it with a moment of hesitation.",
	"Someone nearby saw more than you would like.",
	"The effort leaves you winded.",
	"You get what you wanted, minus a little gold.",
	"It holds, for now.",
}

var bonusPool = []string{
	"Flawless. Everyone present takes note.",
	"You spot an opening nobody else noticed.",
	"Luck smiles on you: a small find rolls to your feet.",
	"Your confidence steadies your companions.",
	"You recover your breath in the same motion.",
	"The move will be told in taverns for weeks.",
}
