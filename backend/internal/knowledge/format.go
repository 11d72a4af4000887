package knowledge

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/store"
)

// Info renders the game overview
func (b Base) Info() string {
	var s strings.Builder
	s.WriteString("**🥊 Pung.io - The Ultimate Punch Battle Royale!**\n\n")
	s.WriteString(b.Game.Gameplay + "\n\n")
	fmt.Fprintf(&s, "**Type:** %s\n", b.Game.Type)
	fmt.Fprintf(&s, "**Released:** %s\n", b.Game.Release)
	fmt.Fprintf(&s, "**Platform:** %s\n\n", b.Game.Platform)
	s.WriteString("**How it works:**\n")
	fmt.Fprintf(&s, "• Start with %s\n", b.Mechanics.StartingPoints)
	fmt.Fprintf(&s, "• Each kill = %s\n", b.Mechanics.KillReward)
	fmt.Fprintf(&s, "• Each level = %s\n", b.Mechanics.LevelUpReward)
	fmt.Fprintf(&s, "• %s\n\n", b.Mechanics.Criticals)
	s.WriteString("Use `/stats` `/skins` `/abilities` for more info!")
	return s.String()
}

// StatsText renders the stat breakdown
func (b Base) StatsText() string {
	lines := make([]string, len(b.Stats))
	for i, st := range b.Stats {
		lines[i] = fmt.Sprintf("**%s:** %s", st.Code, st.Description)
	}
	return "**📊 Pung.io Stats Breakdown:**\n\n" + strings.Join(lines, "\n") +
		"\n\nPro tip: 1000 CRI gives guaranteed crits every punch! 🎯"
}

// SkinsText renders the avatar list
func (b Base) SkinsText() string {
	lines := make([]string, len(b.Avatars))
	for i, a := range b.Avatars {
		lines[i] = fmt.Sprintf("**%s** (%s) - %s", a.Name, a.Cost, a.Description)
	}
	return "**🎨 Pung.io Skins/Avatars:**\n\n" + strings.Join(lines, "\n") +
		"\n\nThe Thanos skin is OP fr 💜"
}

// AbilitiesText renders the ability list
func (b Base) AbilitiesText() string {
	lines := make([]string, len(b.Abilities))
	for i, a := range b.Abilities {
		lines[i] = fmt.Sprintf("**%s:** %s", a.Name, a.Effect)
	}
	return "**⚡ Pung.io Abilities:**\n\n" + strings.Join(lines, "\n\n") +
		"\n\nBuy spells with coins in the shop!"
}

// TipsText renders five tips in random order
func (b Base) TipsText(rng *rand.Rand) string {
	tips := append([]string(nil), b.Tips...)
	rng.Shuffle(len(tips), func(i, j int) { tips[i], tips[j] = tips[j], tips[i] })
	if len(tips) > 5 {
		tips = tips[:5]
	}

	lines := make([]string, len(tips))
	for i, tip := range tips {
		lines[i] = fmt.Sprintf("%d. %s", i+1, tip)
	}
	return "**💡 Pung.io Pro Tips:**\n\n" + strings.Join(lines, "\n")
}

const unknownAnswer = `"I don't have enough data about that at the moment. Please tell me about it so I can give a better answer for future users!"`

// LearnedContext renders learned facts as a prompt block followed by the
// instruction for questions the bot cannot answer
func LearnedContext(k store.Knowledge) string {
	var lines []string

	if skins := factLines(k.Skins, func(f store.Fact) string { return f.Price + " " + f.Description }); len(skins) > 0 {
		lines = append(lines, "Skins: "+strings.Join(skins, ", "))
	}
	if abilities := factLines(k.Abilities, func(f store.Fact) string { return f.Description }); len(abilities) > 0 {
		lines = append(lines, "Abilities: "+strings.Join(abilities, ", "))
	}
	if stats := factLines(k.Stats, func(f store.Fact) string { return f.Description }); len(stats) > 0 {
		lines = append(lines, "Stats: "+strings.Join(stats, ", "))
	}

	tips := k.Tips
	if len(tips) > constants.RecentTipsInContext {
		tips = tips[len(tips)-constants.RecentTipsInContext:]
	}
	if len(tips) > 0 {
		texts := make([]string, len(tips))
		for i, t := range tips {
			texts[i] = t.Text
		}
		lines = append(lines, "Tips: "+strings.Join(texts, "; "))
	}
	if general := factLines(k.General, func(f store.Fact) string { return f.Info }); len(general) > 0 {
		lines = append(lines, "General: "+strings.Join(general, ", "))
	}

	if len(lines) == 0 {
		return "\n⚠️ If asked about pung.io details you don't know, say: " + unknownAnswer + " Then ask them to teach you.\n"
	}
	return "\n📚 LEARNED PUNG.IO KNOWLEDGE:\n" + strings.Join(lines, "\n") + "\n" +
		"\nIMPORTANT: Use this learned knowledge to answer pung.io questions. If asked about something not in your knowledge, say: " +
		unknownAnswer + " 🤔\n"
}

func factLines(facts map[string]store.Fact, detail func(store.Fact) string) []string {
	keys := make([]string, 0, len(facts))
	for k := range facts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, strings.TrimSpace(k+": "+strings.TrimSpace(detail(facts[k]))))
	}
	return lines
}
