package dispatch

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/intent"

	"go.uber.org/zap"
)

// literalRule routes an addressed message by keyword when no classifier
// command matched
type literalRule struct {
	match func(lower string) bool
	run   handler
}

func (d *Dispatcher) literalTable() []literalRule {
	cmd := func(c intent.Command) handler { return d.commands[c] }
	return []literalRule{
		{anyOf(equalsAny("help", "commands"), containsAny("what can you do", "what do you do", "your functions",
			"your features", "what are you capable", "list your")), cmd(intent.CommandHelp)},
		{equalsAny("pung", "punginfo", "pung.io"), cmd(intent.CommandPung)},
		{equalsAny("stats"), cmd(intent.CommandStats)},
		{equalsAny("skins", "avatars"), cmd(intent.CommandSkins)},
		{equalsAny("abilities", "spells"), cmd(intent.CommandAbilities)},
		{equalsAny("tips", "protips"), cmd(intent.CommandTips)},
		{anyOf(equalsAny("update", "nextupdate"), containsAny("next update")), cmd(intent.CommandUpdate)},
		{hasPrefixAny("8ball"), cmd(intent.Command8Ball)},
		{equalsAny("joke"), cmd(intent.CommandJoke)},
		{hasPrefixAny("roast"), cmd(intent.CommandRoast)},
		{equalsAny("vibe", "vibecheck", "vibe check"), cmd(intent.CommandVibe)},
		{equalsAny("wisdom"), cmd(intent.CommandWisdom)},
		{equalsAny("story"), cmd(intent.CommandStory)},
		{hasPrefixAny("rate "), cmd(intent.CommandRate)},
		{anyOf(equalsAny("flip", "coinflip", "flip coin"), containsAny("flip a coin")), cmd(intent.CommandCoinflip)},
		{anyOf(equalsAny("roll", "dice"), containsAny("roll dice", "roll a dice")), cmd(intent.CommandDice)},
		{anyOf(hasPrefixAny("announce ", "announcement "), containsAny("make an announcement", "post an announcement")),
			cmd(intent.CommandAnnounce)},
		{hasPrefixAny("calculate ", "calc "), d.calc},
		{anyOf(hasPrefixAny("countdown "), containsAny("count down from")), d.countdown},
		{anyOf(equalsAny("serverinfo", "server info"), containsAny("about this server")), cmd(intent.CommandServerInfo)},
		{anyOf(hasPrefixAny("poll ", "create poll", "make poll")), cmd(intent.CommandPoll)},
		{equalsAny("lock", "lock channel", "lock this channel"), cmd(intent.CommandLock)},
		{equalsAny("unlock", "unlock channel", "unlock this channel"), cmd(intent.CommandUnlock)},
		{hasPrefixAny("userinfo", "who is "), d.userInfoLiteral},
		{anyOf(equalsAny("pick", "pick someone"), containsAny("random person", "random member")), cmd(intent.CommandPick)},
		{d.isSmallTalk, d.smallTalk},
		{hasPrefixAny("imagine "), d.imagine},
		{equalsAny("summary", "convo summary", "conversation summary"), cmd(intent.CommandSummary)},
		{equalsAny("report", "server report", "activity report"), cmd(intent.CommandReport)},
		{hasPrefixAny("search "), cmd(intent.CommandSearch)},
		{hasPrefixAny("messages from "), d.messagesFrom},
	}
}

// literal runs the first matching keyword rule. Custom commands take
// precedence over built-in keywords.
func (d *Dispatcher) literal(ctx context.Context, r request) bool {
	if response, ok := d.db.CustomCommand(r.lower); ok {
		d.reply(ctx, r.ev, response)
		return true
	}
	for _, rule := range d.literals {
		if rule.match(r.lower) {
			rule.run(ctx, r)
			return true
		}
	}
	return false
}

func (d *Dispatcher) isSmallTalk(lower string) bool {
	for _, st := range smallTalk {
		if st.match(lower) {
			return true
		}
	}
	return false
}

func (d *Dispatcher) smallTalk(ctx context.Context, r request) {
	for _, st := range smallTalk {
		if st.match(r.lower) {
			d.reply(ctx, r.ev, d.pick(st.replies))
			return
		}
	}
}

var calcPrefix = regexp.MustCompile(`(?i)calculate|calc`)

func (d *Dispatcher) calc(ctx context.Context, r request) {
	expr := strings.TrimSpace(replaceFirst(calcPrefix, r.text, ""))
	v, err := Evaluate(expr)
	if err != nil {
		d.reply(ctx, r.ev, "Invalid math expression! Try something like: calc 5 + 3 * 2")
		return
	}
	d.reply(ctx, r.ev, fmt.Sprintf("🧮 **%s** = **%s**", expr, formatNumber(v)))
}

var firstNumber = regexp.MustCompile(`\d+`)

// countdown posts N and edits it down once per interval, ending with GO
func (d *Dispatcher) countdown(ctx context.Context, r request) {
	digits := firstNumber.FindString(r.text)
	if digits == "" {
		d.reply(ctx, r.ev, `Give me a number to count down from! Example: "countdown 5"`)
		return
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n > constants.MaxCountdown {
		n = constants.MaxCountdown
	}
	if n < 1 {
		d.reply(ctx, r.ev, "Number must be at least 1!")
		return
	}

	id := d.reply(ctx, r.ev, fmt.Sprintf("**%d**", n))
	if id == "" {
		return
	}
	channelID := r.ev.ChannelID
	d.goBackground(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(d.countdownTick)
		defer ticker.Stop()
		for count := n - 1; ; count-- {
			<-ticker.C
			text := "🎉 **GO!** 🎉"
			if count > 0 {
				text = fmt.Sprintf("**%d**", count)
			}
			if err := d.platform.Edit(ctx, channelID, id, text); err != nil {
				d.logger.Debug("Countdown edit failed", zap.Error(err))
				return
			}
			if count <= 0 {
				return
			}
		}
	})
}

var userInfoPrefix = regexp.MustCompile(`(?i)^(who is|userinfo)\s*`)

// userInfoLiteral resolves "who is <name>" before falling back to mentions
func (d *Dispatcher) userInfoLiteral(ctx context.Context, r request) {
	name := replaceFirst(userInfoPrefix, r.text, "")
	name = strings.TrimSpace(anyMention.ReplaceAllString(name, ""))
	if name != "" {
		r.params = map[string]string{"userName": name}
	}
	d.userInfo(ctx, r)
}

func (d *Dispatcher) imagine(ctx context.Context, r request) {
	prompt := strings.TrimSpace(r.text[len("imagine "):])
	if prompt == "" {
		d.reply(ctx, r.ev, "imagine what? give me something to work with")
		return
	}
	desc := d.complete(ctx, imaginePrompt, "Describe an image of: "+prompt, imagineFallback)
	d.reply(ctx, r.ev, "🎨 cant generate images yet but here's how i imagine it:\n"+desc)
}

func (d *Dispatcher) messagesFrom(ctx context.Context, r request) {
	u, ok := d.firstMention(r.ev)
	if !ok {
		d.reply(ctx, r.ev, "mention someone to see their messages")
		return
	}
	results := d.log.Search(r.ev.GuildID, LogFilter{UserID: u.ID, Limit: 10})
	if len(results) == 0 {
		d.reply(ctx, r.ev, "no recent messages from "+u.Username)
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📝 Last %d messages from **%s**:\n\n", len(results), u.Username)
	for _, e := range firstN(results, 5) {
		fmt.Fprintf(&b, "In #%s: \"%s\"\n", e.Channel, truncateRunes(e.Content, 100))
	}
	d.reply(ctx, r.ev, b.String())
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

func equalsAny(values ...string) func(string) bool {
	return func(s string) bool {
		for _, v := range values {
			if s == v {
				return true
			}
		}
		return false
	}
}

func hasPrefixAny(prefixes ...string) func(string) bool {
	return func(s string) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(s, p) {
				return true
			}
		}
		return false
	}
}

func anyOf(matchers ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, m := range matchers {
			if m(s) {
				return true
			}
		}
		return false
	}
}

func replaceFirst(re *regexp.Regexp, s, repl string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + repl + s[loc[1]:]
}

// dateString renders a day like "Fri Mar 14 2025"
func dateString(t time.Time) string {
	if t.IsZero() {
		return "Unknown"
	}
	return t.Format("Mon Jan 02 2006")
}
