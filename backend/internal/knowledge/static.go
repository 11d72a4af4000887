// Package knowledge holds the compiled-in pung.io facts and renders them,
// together with learned facts, as chat replies and prompt context.
package knowledge

// GameInfo describes the game itself
type GameInfo struct {
	Name     string
	Type     string
	Release  string
	Platform string
	Gameplay string
}

// Stat is one of the six character stats
type Stat struct {
	Code        string
	Description string
}

// Avatar is a purchasable skin
type Avatar struct {
	Name        string
	Cost        string
	Description string
}

// Ability is a spell or special move
type Ability struct {
	Name   string
	Effect string
}

// Mechanics lists the core progression rules
type Mechanics struct {
	StartingPoints string
	KillReward     string
	LevelUpReward  string
	Criticals      string
	Boss           string
}

// Base is the static knowledge base
type Base struct {
	Game      GameInfo
	Stats     []Stat
	Mechanics Mechanics
	Avatars   []Avatar
	Abilities []Ability
	Tips      []string
}

// Pung is the built-in pung.io knowledge
var Pung = Base{
	Game: GameInfo{
		Name:     "pung.io",
		Type:     "Multiplayer punch .io fighting game / 2D Battle Royale",
		Release:  "2021",
		Platform: "Browser-based, Mobile (Android/iOS)",
		Gameplay: "Use your fists to punch opponents in a massive multiplayer arena. Last player standing wins!",
	},
	Stats: []Stat{
		{"ATK", "Attack damage - determines how much damage your punches deal"},
		{"HLT", "Health - your total health points"},
		{"STA", "Stamina - how quickly you regenerate stamina for actions"},
		{"CRI", "Critical damage and chance - each point is roughly 0.089% crit chance. 1000 CRI = guaranteed crits!"},
		{"AGI", "Attack speed - how fast you can throw punches"},
		{"DEF", "Defense - how many punches you can block and damage reduction"},
	},
	Mechanics: Mechanics{
		StartingPoints: "20 stat points to distribute at spawn",
		KillReward:     "1 coin + 1 stat point per kill",
		LevelUpReward:  "3 stat points per level up",
		Criticals:      "Yellow punches = critical hits dealing full damage",
		Boss:           "Extremely powerful boss that can instant-kill anyone but has focused punches",
	},
	Avatars: []Avatar{
		{"Default", "Free", "Brown hat and gloves"},
		{"Marshal", "Free", "Blue hat and gloves with balanced stats"},
		{"Detective", "Free", "Brownish-grey hat with extra health"},
		{"Rabbit", "100 Gold", "Rabbit hat, high crit and agility"},
		{"Miner", "100 Gold", "Yellow miner's hat"},
		{"Pig", "500 Gold", "Pink pig hat"},
		{"Viking", "500 Gold", "Viking helmet"},
		{"Spec Ops", "1000 Gold", "Tactical goggles and earmuffs"},
		{"Cooking Pot Head", "1000 Gold", "Red cooking pot on head"},
		{"Uncle Sam", "2000 Gold", "Star-spangled patriotic hat"},
		{"Knight", "2500 Gold", "Knight's helmet and lances"},
		{"Thanos", "5000 Gold", "Purple skin, golden helmet, infinity gauntlets - OP avatar!"},
		{"VIP Skins", "150,000,000 coins", "Most powerful skins in the game, VIP exclusive"},
	},
	Abilities: []Ability{
		{"Thanos Black Hole", "Creates huge black hole that pulls in players, disables their abilities, gives 2000+ DEF"},
		{"Ability Stopping Bomb", "Stops all players' abilities in the area"},
		{"Various Spells", "Available in shop, purchased with coins"},
	},
	Tips: []string{
		"Distribute stats wisely - balanced builds are often better than one-stat builds",
		"Use WASD to move, mouse to punch and use abilities",
		"Collect power-ups by punching crates",
		"Punch or be punched - stay aggressive!",
		"Block with DEF stat to reduce incoming damage",
		"Save up for Thanos avatar - it's worth it!",
		"Watch out for the boss - it can one-shot you",
		"Critical hits turn yellow and deal max damage",
	},
}
