package dispatch

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/knowledge"

	"go.uber.org/zap"
)

func (d *Dispatcher) commandTable() map[intent.Command]handler {
	return map[intent.Command]handler{
		intent.CommandPung:       d.staticReply(knowledge.Pung.Info),
		intent.CommandStats:      d.staticReply(knowledge.Pung.StatsText),
		intent.CommandSkins:      d.staticReply(knowledge.Pung.SkinsText),
		intent.CommandAbilities:  d.staticReply(knowledge.Pung.AbilitiesText),
		intent.CommandTips:       d.tips,
		intent.CommandUpdate:     d.randomReply(updateReplies),
		intent.CommandJoke:       d.joke,
		intent.CommandRoast:      d.roast,
		intent.Command8Ball:      d.randomReply(eightBallReplies),
		intent.CommandVibe:       d.vibe,
		intent.CommandWisdom:     d.wisdom,
		intent.CommandStory:      d.story,
		intent.CommandRate:       d.rate,
		intent.CommandSummary:    d.summary,
		intent.CommandReport:     d.report,
		intent.CommandSearch:     d.search,
		intent.CommandPoll:       d.poll,
		intent.CommandAnnounce:   d.announce,
		intent.CommandUserInfo:   d.userInfo,
		intent.CommandPick:       d.pickMember,
		intent.CommandLock:       d.lockChannel(true),
		intent.CommandUnlock:     d.lockChannel(false),
		intent.CommandHelp:       d.staticReply(func() string { return helpText }),
		intent.CommandCoinflip:   d.coinflip,
		intent.CommandDice:       d.dice,
		intent.CommandServerInfo: d.serverInfo,
	}
}

func (d *Dispatcher) staticReply(text func() string) handler {
	return func(ctx context.Context, r request) {
		d.reply(ctx, r.ev, text())
	}
}

func (d *Dispatcher) randomReply(replies []string) handler {
	return func(ctx context.Context, r request) {
		d.reply(ctx, r.ev, d.pick(replies))
	}
}

func (d *Dispatcher) tips(ctx context.Context, r request) {
	var text string
	d.withRand(func(rng *rand.Rand) { text = knowledge.Pung.TipsText(rng) })
	d.reply(ctx, r.ev, text)
}

func (d *Dispatcher) joke(ctx context.Context, r request) {
	d.reply(ctx, r.ev, d.complete(ctx, jokePrompt, "tell me a joke bro", jokeFallback))
}

func (d *Dispatcher) roast(ctx context.Context, r request) {
	target := r.ev.Author.Username
	if u, ok := d.firstMention(r.ev); ok {
		target = u.Username
	} else if name := r.param("target"); name != "" {
		target = name
	}
	d.reply(ctx, r.ev, d.complete(ctx, roastPrompt, "roast "+target, roastFallback))
}

func (d *Dispatcher) vibe(ctx context.Context, r request) {
	d.reply(ctx, r.ev, fmt.Sprintf("Current vibe: **%s**", d.pick(vibes)))
}

func (d *Dispatcher) wisdom(ctx context.Context, r request) {
	d.reply(ctx, r.ev, "💭 "+d.complete(ctx, wisdomPrompt, "drop some wisdom", wisdomFallback))
}

func (d *Dispatcher) story(ctx context.Context, r request) {
	d.reply(ctx, r.ev, d.complete(ctx, storyPrompt, "tell me a quick story", storyFallback))
}

var ratePrefix = regexp.MustCompile(`(?i)^rate\s*`)

func (d *Dispatcher) rate(ctx context.Context, r request) {
	thing := r.param("thing")
	if thing == "" {
		thing = strings.TrimSpace(ratePrefix.ReplaceAllString(r.text, ""))
	}
	if thing == "" {
		d.reply(ctx, r.ev, "rate what bruh")
		return
	}
	rating := d.intn(11)
	why := d.complete(ctx, fmt.Sprintf(ratePrompt, thing, rating), fmt.Sprintf("why %d/10?", rating), rateFallback)
	d.reply(ctx, r.ev, fmt.Sprintf("**%d/10** - %s", rating, why))
}

func (d *Dispatcher) coinflip(ctx context.Context, r request) {
	side := "Heads"
	if d.intn(2) == 1 {
		side = "Tails"
	}
	d.reply(ctx, r.ev, fmt.Sprintf("🪙 **%s**!", side))
}

func (d *Dispatcher) dice(ctx context.Context, r request) {
	d.reply(ctx, r.ev, fmt.Sprintf("🎲 You rolled a **%d**!", d.intn(6)+1))
}

func (d *Dispatcher) summary(ctx context.Context, r request) {
	logs := d.log.Recent(r.ev.GuildID)
	if len(logs) == 0 {
		d.reply(ctx, r.ev, "No recent activity in the last hour.")
		return
	}

	type activity struct {
		count int
		users map[string]bool
	}
	var order []string
	channels := make(map[string]*activity)
	authors := make(map[string]bool)
	for _, e := range logs {
		a, ok := channels[e.Channel]
		if !ok {
			a = &activity{users: make(map[string]bool)}
			channels[e.Channel] = a
			order = append(order, e.Channel)
		}
		a.count++
		a.users[e.Author] = true
		authors[e.Author] = true
	}

	var b strings.Builder
	b.WriteString("📊 **Last Hour Summary:**\n")
	fmt.Fprintf(&b, "Total Messages: %d\n", len(logs))
	fmt.Fprintf(&b, "Active Users: %d\n\n", len(authors))
	b.WriteString("**Channel Activity:**\n")
	for _, ch := range order {
		a := channels[ch]
		fmt.Fprintf(&b, "• #%s: %d messages (%d users)\n", ch, a.count, len(a.users))
	}
	d.reply(ctx, r.ev, b.String())
}

func (d *Dispatcher) report(ctx context.Context, r request) {
	logs := d.log.Recent(r.ev.GuildID)
	counts := make(map[string]int)
	for _, e := range logs {
		counts[e.Author]++
	}
	type userCount struct {
		user  string
		count int
	}
	top := make([]userCount, 0, len(counts))
	for u, c := range counts {
		top = append(top, userCount{u, c})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].count != top[j].count {
			return top[i].count > top[j].count
		}
		return top[i].user < top[j].user
	})
	if len(top) > 5 {
		top = top[:5]
	}

	guild, err := d.platform.Guild(ctx, r.ev.GuildID)
	if err != nil {
		d.logger.Warn("Failed to fetch guild for report", zap.Error(err))
	}

	var b strings.Builder
	b.WriteString("📈 **Server Activity Report (Last Hour)**\n\n")
	b.WriteString("**Overview:**\n")
	fmt.Fprintf(&b, "• Total Messages: %d\n", len(logs))
	fmt.Fprintf(&b, "• Active Users: %d\n", len(counts))
	fmt.Fprintf(&b, "• Server Name: %s\n", guild.Name)
	fmt.Fprintf(&b, "• Total Members: %d\n\n", guild.MemberCount)
	if len(top) > 0 {
		b.WriteString("**Most Active Users:**\n")
		for i, u := range top {
			fmt.Fprintf(&b, "%d. %s - %d messages\n", i+1, u.user, u.count)
		}
	}
	d.reply(ctx, r.ev, b.String())
}

var searchPrefix = regexp.MustCompile(`(?i)^search\s*(for\s+)?`)

func (d *Dispatcher) search(ctx context.Context, r request) {
	keyword := r.param("keyword")
	if keyword == "" {
		keyword = strings.TrimSpace(searchPrefix.ReplaceAllString(r.text, ""))
	}
	if keyword == "" {
		d.reply(ctx, r.ev, "search for what? give me a keyword")
		return
	}
	results := d.log.Search(r.ev.GuildID, LogFilter{Keyword: keyword, Limit: 10})
	if len(results) == 0 {
		d.reply(ctx, r.ev, fmt.Sprintf("couldnt find any messages with \"%s\"", keyword))
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Found %d messages with \"%s\":\n\n", len(results), keyword)
	for _, e := range firstN(results, 5) {
		fmt.Fprintf(&b, "**%s** in #%s: \"%s...\"\n", e.Author, e.Channel, truncateRunes(e.Content, 100))
	}
	d.reply(ctx, r.ev, b.String())
}

var pollNoise = regexp.MustCompile(`(?i)\b(create|make|poll|a)\b`)

func (d *Dispatcher) poll(ctx context.Context, r request) {
	question := r.param("question")
	if question == "" {
		question = strings.Trim(pollNoise.ReplaceAllString(r.text, ""), " :")
	}
	if len([]rune(question)) < 5 {
		d.reply(ctx, r.ev, `Give me a question for the poll! Example: "create poll: favorite color?"`)
		return
	}
	id := d.reply(ctx, r.ev, fmt.Sprintf("📊 **POLL**\n\n%s\n\nReact with emojis to vote!", question))
	if id == "" {
		return
	}
	for _, emoji := range []string{"✅", "❌", "🤷"} {
		d.react(ctx, r.ev.ChannelID, id, emoji)
	}
	d.logger.Info("Poll created", zap.String("author", r.ev.Author.Tag), zap.String("question", question))
}

var (
	announcePrefix  = regexp.MustCompile(`(?i)announce(ment)?\s*`)
	announceMake    = regexp.MustCompile(`(?i)(make|post) an announcement (about |that )?`)
	announceChannel = regexp.MustCompile(`(?i)in (#?[\w-]+)\s*channel`)
)

func (d *Dispatcher) announce(ctx context.Context, r request) {
	if !d.canModerate(r.ev.Author) {
		d.reply(ctx, r.ev, "❌ Only moderators can make announcements!")
		return
	}

	text := r.param("message")
	channelName := strings.TrimPrefix(r.param("channel"), "#")
	if text == "" {
		text = strings.TrimSpace(replaceFirst(announcePrefix, r.text, ""))
		text = strings.TrimSpace(replaceFirst(announceMake, text, ""))
	}
	if channelName == "" {
		if m := announceChannel.FindStringSubmatch(text); m != nil {
			channelName = strings.TrimPrefix(m[1], "#")
		}
	}
	if channelName != "" {
		text = strings.TrimSpace(replaceFirst(announceChannel, text, ""))
	}
	if text == "" {
		d.reply(ctx, r.ev, `Give me something to announce! Example: "announce that pung.io is getting an update"`)
		return
	}

	targetID := r.ev.ChannelID
	if channelName != "" {
		if ch, ok := d.findTextChannel(ctx, r.ev.GuildID, channelName); ok {
			targetID = ch.ID
		} else {
			d.reply(ctx, r.ev, fmt.Sprintf("❌ Couldn't find channel \"%s\". I'll post in this channel instead.", channelName))
		}
	}

	d.reply(ctx, r.ev, "✍️ Creating a professional announcement...")
	body := d.complete(ctx, announceSystem, fmt.Sprintf(announcePrompt, text), text)
	formatted := fmt.Sprintf("📢 **ANNOUNCEMENT** 📢\n\n%s\n\n*- %s*", body, r.ev.Author.Username)
	if _, err := d.platform.Send(ctx, targetID, formatted); err != nil {
		d.logger.Error("Failed to post announcement", zap.String("channel_id", targetID), zap.Error(err))
		d.reply(ctx, r.ev, "❌ Failed to announce: "+errorSnippet(err))
		return
	}
	if targetID != r.ev.ChannelID {
		d.reply(ctx, r.ev, fmt.Sprintf("✅ Announcement posted in <#%s>!", targetID))
	}
	if err := d.platform.Delete(ctx, r.ev.ChannelID, r.ev.MessageID); err != nil {
		d.logger.Debug("Failed to delete announce trigger", zap.Error(err))
	}
	d.logger.Info("Announcement posted",
		zap.String("author", r.ev.Author.Tag),
		zap.String("channel_id", targetID),
		zap.String("text", text),
	)
}

func (d *Dispatcher) findTextChannel(ctx context.Context, guildID, name string) (Channel, bool) {
	channels, err := d.platform.Channels(ctx, guildID)
	if err != nil {
		d.logger.Warn("Failed to list channels", zap.Error(err))
		return Channel{}, false
	}
	for _, ch := range channels {
		if ch.Text && strings.EqualFold(ch.Name, name) {
			return ch, true
		}
	}
	return Channel{}, false
}

func (d *Dispatcher) userInfo(ctx context.Context, r request) {
	var target *Member
	if name := strings.TrimPrefix(r.param("userName"), "@"); name != "" {
		ids := d.db.FindUsersByName(r.ev.GuildID, name)
		switch {
		case len(ids) > 1:
			d.reply(ctx, r.ev, fmt.Sprintf("Found multiple users named \"%s\". Please be more specific or @ mention them!", name))
			return
		case len(ids) == 1:
			if m, err := d.platform.Member(ctx, r.ev.GuildID, ids[0]); err == nil {
				target = &m
			}
		}
	}
	if target == nil {
		if u, ok := d.firstMention(r.ev); ok {
			if m, err := d.platform.Member(ctx, r.ev.GuildID, u.ID); err == nil {
				target = &m
			}
		}
	}
	if target == nil {
		d.reply(ctx, r.ev, `Mention a user or use their name! Example: "who is alex" or "userinfo @user"`)
		return
	}

	roles := "None"
	if names := d.roleNames(ctx, r.ev.GuildID, target.RoleIDs); len(names) > 0 {
		roles = strings.Join(names, ", ")
	}
	joined := "Unknown"
	if !target.JoinedAt.IsZero() {
		joined = dateString(target.JoinedAt)
	}
	isBot := "No"
	if target.User.Bot {
		isBot = "Yes"
	}
	d.reply(ctx, r.ev, fmt.Sprintf("**👤 User Info: %s**\n\n"+
		"**Display Name:** %s\n"+
		"**User ID:** %s\n"+
		"**Roles:** %s\n"+
		"**Joined Server:** %s\n"+
		"**Account Created:** %s\n"+
		"**Is Bot:** %s",
		target.User.Tag, target.DisplayName, target.User.ID, roles, joined, dateString(target.User.CreatedAt), isBot))
}

// roleNames resolves role ids to names, skipping the @everyone role
func (d *Dispatcher) roleNames(ctx context.Context, guildID string, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	roles, err := d.platform.Roles(ctx, guildID)
	if err != nil {
		return nil
	}
	byID := make(map[string]string, len(roles))
	for _, role := range roles {
		byID[role.ID] = role.Name
	}
	var names []string
	for _, id := range ids {
		if name, ok := byID[id]; ok && id != guildID {
			names = append(names, name)
		}
	}
	return names
}

func (d *Dispatcher) pickMember(ctx context.Context, r request) {
	members, err := d.platform.Members(ctx, r.ev.GuildID)
	if err != nil {
		d.logger.Warn("Failed to list members", zap.Error(err))
	}
	humans := members[:0:0]
	for _, m := range members {
		if !m.User.Bot {
			humans = append(humans, m)
		}
	}
	if len(humans) == 0 {
		d.reply(ctx, r.ev, "no one to pick rn")
		return
	}
	m := humans[d.intn(len(humans))]
	d.reply(ctx, r.ev, fmt.Sprintf("🎲 Random pick: **%s** (%s)", m.DisplayName, m.User.Tag))
	d.logger.Info("Random member picked", zap.String("author", r.ev.Author.Tag), zap.String("picked", m.User.Tag))
}

func (d *Dispatcher) lockChannel(lock bool) handler {
	verb, emoji, done := "unlock", "🔓", "Channel unlocked! Everyone can send messages again."
	if lock {
		verb, emoji, done = "lock", "🔒", "Channel locked! Only moderators can send messages now."
	}
	return func(ctx context.Context, r request) {
		if !d.canModerate(r.ev.Author) {
			d.reply(ctx, r.ev, fmt.Sprintf("❌ Only moderators can %s channels!", verb))
			return
		}
		perms, err := d.platform.BotPermissions(ctx, r.ev.GuildID)
		if err != nil || !hasPermission(perms, PermissionManageChannels) {
			d.reply(ctx, r.ev, fmt.Sprintf("❌ I need \"Manage Channels\" permission to %s channels!", verb))
			return
		}
		if err := d.platform.SetChannelLocked(ctx, r.ev.GuildID, r.ev.ChannelID, lock); err != nil {
			d.logger.Error("Failed to change channel lock", zap.String("verb", verb), zap.Error(err))
			d.reply(ctx, r.ev, fmt.Sprintf("❌ Failed to %s: %s", verb, errorSnippet(err)))
			return
		}
		d.reply(ctx, r.ev, emoji+" "+done)
		d.logger.Info("Channel lock changed",
			zap.String("verb", verb),
			zap.String("author", r.ev.Author.Tag),
			zap.String("channel", r.ev.ChannelName),
		)
	}
}

func (d *Dispatcher) serverInfo(ctx context.Context, r request) {
	guild, err := d.platform.Guild(ctx, r.ev.GuildID)
	if err != nil {
		d.logger.Error("Failed to fetch guild", zap.Error(err))
		d.reply(ctx, r.ev, "❌ Failed to fetch server info: "+errorSnippet(err))
		return
	}
	owner := guild.OwnerID
	if m, err := d.platform.Member(ctx, guild.ID, guild.OwnerID); err == nil {
		owner = m.User.Tag
	}
	channels, _ := d.platform.Channels(ctx, guild.ID)
	roles, _ := d.platform.Roles(ctx, guild.ID)

	d.reply(ctx, r.ev, fmt.Sprintf("**🏰 Server Info: %s**\n\n"+
		"**Owner:** %s\n"+
		"**Members:** %d\n"+
		"**Channels:** %d\n"+
		"**Roles:** %d\n"+
		"**Created:** %s\n"+
		"**Boost Level:** %d\n"+
		"**Boosts:** %d",
		guild.Name, owner, guild.MemberCount, len(channels), len(roles), dateString(guild.CreatedAt), guild.PremiumTier, guild.Boosts))
}

func firstN(entries []LogEntry, n int) []LogEntry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
