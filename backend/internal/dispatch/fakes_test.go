package dispatch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/store"

	"github.com/stretchr/testify/require"
)

const (
	testGuild   = "guild-1"
	testChannel = "chan-1"
	botID       = "999"
	ownerID     = "100"
	modRoleID   = "role-mod"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

type timeoutCall struct {
	UserID string
	Until  *time.Time
	Reason string
}

type fakePlatform struct {
	mu sync.Mutex

	guild    Guild
	members  map[string]Member
	roles    []Role
	channels []Channel
	perms    int64
	highest  int
	actErr   error

	nextID    int
	replies   []string
	sent      map[string][]string
	edits     []string
	deleted   []string
	reactions []string
	dms       map[string][]string
	kicks     []string
	bans      []string
	unbans    []string
	timeouts  []timeoutCall
	roleAdds  []string
	roleDrops []string
	locks     []bool
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		guild: Guild{
			ID: testGuild, Name: "Pung Fans", OwnerID: ownerID,
			MemberCount: 42, PremiumTier: 1, Boosts: 3, CreatedAt: testNow.AddDate(-2, 0, 0),
		},
		members:  map[string]Member{},
		channels: []Channel{{ID: testChannel, Name: "general", Text: true}, {ID: "chan-ann", Name: "announcements", Text: true}},
		perms:    PermissionAdministrator,
		highest:  10,
		sent:     map[string][]string{},
		dms:      map[string][]string{},
	}
}

func (f *fakePlatform) addMember(id, username, display string, roleIDs ...string) Member {
	m := Member{
		User:        User{ID: id, Username: username, Tag: username + "#0001", CreatedAt: testNow.AddDate(-1, 0, 0)},
		DisplayName: display,
		RoleIDs:     roleIDs,
		JoinedAt:    testNow.AddDate(0, -1, 0),
	}
	f.mu.Lock()
	f.members[id] = m
	f.mu.Unlock()
	return m
}

func (f *fakePlatform) id() string {
	f.nextID++
	return fmt.Sprintf("msg-%d", f.nextID)
}

func (f *fakePlatform) BotUserID() string { return botID }

func (f *fakePlatform) Reply(ctx context.Context, channelID, messageID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, content)
	return f.id(), nil
}

func (f *fakePlatform) Send(ctx context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[channelID] = append(f.sent[channelID], content)
	return f.id(), nil
}

func (f *fakePlatform) Edit(ctx context.Context, channelID, messageID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edits = append(f.edits, content)
	return nil
}

func (f *fakePlatform) Delete(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakePlatform) React(ctx context.Context, channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactions = append(f.reactions, emoji)
	return nil
}

func (f *fakePlatform) DirectMessage(ctx context.Context, userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms[userID] = append(f.dms[userID], content)
	return nil
}

func (f *fakePlatform) Guild(ctx context.Context, guildID string) (Guild, error) {
	return f.guild, nil
}

func (f *fakePlatform) Member(ctx context.Context, guildID, userID string) (Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[userID]
	if !ok {
		return Member{}, errors.New("unknown member")
	}
	return m, nil
}

func (f *fakePlatform) Members(ctx context.Context, guildID string) ([]Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Member, 0, len(f.members))
	for _, m := range f.members {
		out = append(out, m)
	}
	return out, nil
}

func (f *fakePlatform) Roles(ctx context.Context, guildID string) ([]Role, error) {
	return f.roles, nil
}

func (f *fakePlatform) Channels(ctx context.Context, guildID string) ([]Channel, error) {
	return f.channels, nil
}

func (f *fakePlatform) BotPermissions(ctx context.Context, guildID string) (int64, error) {
	return f.perms, nil
}

func (f *fakePlatform) BotHighestRolePosition(ctx context.Context, guildID string) (int, error) {
	return f.highest, nil
}

func (f *fakePlatform) Kick(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actErr != nil {
		return f.actErr
	}
	f.kicks = append(f.kicks, userID)
	return nil
}

func (f *fakePlatform) Ban(ctx context.Context, guildID, userID, reason string, deleteMessageDays int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actErr != nil {
		return f.actErr
	}
	f.bans = append(f.bans, userID)
	return nil
}

func (f *fakePlatform) Unban(ctx context.Context, guildID, userID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actErr != nil {
		return f.actErr
	}
	f.unbans = append(f.unbans, userID)
	return nil
}

func (f *fakePlatform) Timeout(ctx context.Context, guildID, userID string, until *time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.actErr != nil {
		return f.actErr
	}
	f.timeouts = append(f.timeouts, timeoutCall{UserID: userID, Until: until, Reason: reason})
	return nil
}

func (f *fakePlatform) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleAdds = append(f.roleAdds, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) RemoveRole(ctx context.Context, guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleDrops = append(f.roleDrops, userID+":"+roleID)
	return nil
}

func (f *fakePlatform) SetChannelLocked(ctx context.Context, guildID, channelID string, locked bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locks = append(f.locks, locked)
	return nil
}

func (f *fakePlatform) allReplies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.replies...)
}

func (f *fakePlatform) lastReply() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.replies) == 0 {
		return ""
	}
	return f.replies[len(f.replies)-1]
}

// fakeClassifier returns canned intents and records what it was asked
type fakeClassifier struct {
	mu         sync.Mutex
	moderation intent.ModerationIntent
	role       intent.RoleIntent
	general    intent.GeneralIntent
	teach      intent.TeachIntent
	fact       string
	asked      map[string][]string
}

func newFakeClassifier() *fakeClassifier {
	return &fakeClassifier{
		moderation: intent.DefaultModerationIntent(),
		role:       intent.RoleIntent{Action: intent.RoleNone},
		general:    intent.GeneralIntent{Command: intent.CommandNone},
		asked:      map[string][]string{},
	}
}

func (c *fakeClassifier) record(name, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.asked[name] = append(c.asked[name], text)
}

func (c *fakeClassifier) calls(name string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.asked[name]...)
}

func (c *fakeClassifier) Moderation(ctx context.Context, text string) intent.ModerationIntent {
	c.record("moderation", text)
	return c.moderation
}

func (c *fakeClassifier) Role(ctx context.Context, text string) intent.RoleIntent {
	c.record("role", text)
	return c.role
}

func (c *fakeClassifier) General(ctx context.Context, text string) intent.GeneralIntent {
	c.record("general", text)
	return c.general
}

func (c *fakeClassifier) Teach(ctx context.Context, text string) intent.TeachIntent {
	c.record("teach", text)
	return c.teach
}

func (c *fakeClassifier) ExtractFact(ctx context.Context, text string) (string, bool) {
	c.record("fact", text)
	return c.fact, c.fact != ""
}

// fakeCompleter answers every completion with a fixed reply
type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	history [][]adapter.Message
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []adapter.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, append([]adapter.Message(nil), messages...))
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) last() []adapter.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.history) == 0 {
		return nil
	}
	return f.history[len(f.history)-1]
}

type harness struct {
	d   *Dispatcher
	p   *fakePlatform
	c   *fakeClassifier
	llm *fakeCompleter
	db  *store.Database
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	fs, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	db := store.NewDatabase(ctx, fs)
	t.Cleanup(func() { _ = db.Close(ctx) })

	h := &harness{
		p:   newFakePlatform(),
		c:   newFakeClassifier(),
		llm: &fakeCompleter{reply: "sure thing"},
		db:  db,
	}
	h.d = New(h.p, db, h.c, h.llm,
		WithOwner(ownerID),
		WithModeratorRole(modRoleID),
		WithPrefix("/"),
		WithRand(rand.New(rand.NewSource(7))),
		WithCountdownInterval(time.Millisecond),
		WithClock(func() time.Time { return testNow }),
	)
	t.Cleanup(h.d.Wait)

	h.p.addMember(ownerID, "owner", "Owner")
	h.p.addMember("200", "mod", "Mod", modRoleID)
	h.p.addMember("300", "alice", "Alice")
	return h
}

func botMention() User { return User{ID: botID, Username: "pungbot", Bot: true} }

// fromMod builds a message by the moderator that mentions the bot and any extra users
func fromMod(content string, mentions ...User) *Event {
	return &Event{
		MessageID:   "trigger",
		GuildID:     testGuild,
		ChannelID:   testChannel,
		ChannelName: "general",
		Author:      Author{ID: "200", Username: "mod", Tag: "mod#0001", DisplayName: "Mod", RoleIDs: []string{modRoleID}},
		Mentions:    append([]User{botMention()}, mentions...),
		Content:     "<@" + botID + "> " + content,
	}
}

// fromUser builds a message by a regular member that mentions the bot
func fromUser(content string, mentions ...User) *Event {
	ev := fromMod(content, mentions...)
	ev.Author = Author{ID: "300", Username: "alice", Tag: "alice#0001", DisplayName: "Alice"}
	return ev
}

func alice() User { return User{ID: "300", Username: "alice", Tag: "alice#0001"} }
