// Package dispatch routes incoming chat messages through moderation, role
// management, commands and free chat.
package dispatch

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"sync"
	"time"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/constants"
	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/metrics"
	"pung-bot/backend/internal/session"
	"pung-bot/backend/internal/store"
	"pung-bot/backend/pkg/config"
	"pung-bot/backend/pkg/logger"

	"go.uber.org/zap"
)

// Classifier is the set of intent classifiers the dispatcher consults
type Classifier interface {
	Moderation(ctx context.Context, text string) intent.ModerationIntent
	Role(ctx context.Context, text string) intent.RoleIntent
	General(ctx context.Context, text string) intent.GeneralIntent
	Teach(ctx context.Context, text string) intent.TeachIntent
	ExtractFact(ctx context.Context, text string) (string, bool)
}

// Store is the persisted state the dispatcher reads and writes
type Store interface {
	UpdateUserName(guildID, userID, username, displayName string) bool
	TrackMessage(guildID, userID, channelID string)
	FindUsersByName(guildID, name string) []string
	UserMemory(userID string) []string
	AddUserMemory(userID, fact string)
	ServerMemory(guildID string) []string
	AddKnowledge(category, key string, entry store.Entry, addedBy string) error
	AllKnowledge() store.Knowledge
	CustomCommand(name string) (string, bool)
	MatchAutoResponse(text string) (string, bool)
}

// Dispatch paths reported to metrics
const (
	pathModeration   = "moderation"
	pathRole         = "role"
	pathCommand      = "command"
	pathLiteral      = "literal"
	pathChat         = "chat"
	pathAutoResponse = "auto_response"
)

var anyMention = regexp.MustCompile(`<@!?\d+>`)

type handler func(ctx context.Context, r request)

// request is an addressed message with its routing text
type request struct {
	ev     *Event
	text   string
	lower  string
	params map[string]string
}

func (r request) param(key string) string {
	return strings.TrimSpace(r.params[key])
}

// Dispatcher runs the per-message state machine. Handle is safe for
// concurrent use; each message may run on its own goroutine.
type Dispatcher struct {
	platform   Platform
	db         Store
	classifier Classifier
	llm        adapter.Completer
	logger     *zap.Logger

	ownerID         string
	moderatorRoleID string
	prefix          string
	countdownTick   time.Duration
	now             func() time.Time

	history  *session.History
	warnings *Warnings
	log      *MessageLog
	commands map[intent.Command]handler
	literals []literalRule

	rngMu sync.Mutex
	rng   *rand.Rand

	background sync.WaitGroup
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithOwner sets the account that may always moderate
func WithOwner(userID string) Option {
	return func(d *Dispatcher) { d.ownerID = userID }
}

// WithModeratorRole sets the role allowed to moderate
func WithModeratorRole(roleID string) Option {
	return func(d *Dispatcher) { d.moderatorRoleID = roleID }
}

// WithPrefix sets the command prefix
func WithPrefix(prefix string) Option {
	return func(d *Dispatcher) { d.prefix = prefix }
}

// WithRand replaces the random source
func WithRand(rng *rand.Rand) Option {
	return func(d *Dispatcher) { d.rng = rng }
}

// WithCountdownInterval sets the delay between countdown edits
func WithCountdownInterval(interval time.Duration) Option {
	return func(d *Dispatcher) { d.countdownTick = interval }
}

// WithClock replaces the wall clock
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New creates a dispatcher
func New(platform Platform, db Store, classifier Classifier, llm adapter.Completer, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		platform:        platform,
		db:              db,
		classifier:      classifier,
		llm:             llm,
		logger:          logger.Named("dispatch"),
		moderatorRoleID: config.DefaultModeratorRoleID,
		prefix:          "/",
		countdownTick:   time.Second,
		now:             time.Now,
		history:         session.NewHistory(constants.MaxHistory),
		warnings:        NewWarnings(),
		log:             NewMessageLog(constants.MessageLogRetention),
		rng:             rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log.now = d.now
	d.commands = d.commandTable()
	d.literals = d.literalTable()
	return d
}

// MessageLog exposes the recent-message log
func (d *Dispatcher) MessageLog() *MessageLog {
	return d.log
}

// Wait blocks until background work started by Handle has finished
func (d *Dispatcher) Wait() {
	d.background.Wait()
}

// Handle processes one incoming message
func (d *Dispatcher) Handle(ctx context.Context, ev *Event) {
	if ev.GuildID == "" || ev.Author.Bot || ev.Author.ID == d.platform.BotUserID() {
		return
	}
	d.observe(ev)

	mentioned := d.mentionsBot(ev)
	if mentioned && d.canModerate(ev.Author) {
		text := strings.TrimSpace(anyMention.ReplaceAllString(ev.Content, ""))
		if d.moderate(ctx, ev, text) {
			metrics.Messages.WithLabelValues(pathModeration).Inc()
			return
		}
		if d.manageRole(ctx, ev, text) {
			metrics.Messages.WithLabelValues(pathRole).Inc()
			return
		}
	}

	text, addressed := d.addressedText(ev, mentioned)
	if !addressed {
		if reply, ok := d.db.MatchAutoResponse(ev.Content); ok {
			d.reply(ctx, ev, reply)
			metrics.Messages.WithLabelValues(pathAutoResponse).Inc()
		}
		return
	}
	if text == "" {
		return
	}

	d.logger.Debug("Processing addressed message",
		zap.String("user_id", ev.Author.ID),
		zap.String("channel_id", ev.ChannelID),
		zap.Bool("mentioned", mentioned),
	)

	r := request{ev: ev, text: text, lower: strings.ToLower(text)}
	general := d.classifier.General(ctx, text)
	if h, ok := d.commands[general.Command]; ok {
		r.params = general.Params
		h(ctx, r)
		metrics.Messages.WithLabelValues(pathCommand).Inc()
		return
	}
	if d.literal(ctx, r) {
		metrics.Messages.WithLabelValues(pathLiteral).Inc()
		return
	}
	d.chat(ctx, r)
	metrics.Messages.WithLabelValues(pathChat).Inc()
}

// observe records every guild message for name lookup, summaries and analytics
func (d *Dispatcher) observe(ev *Event) {
	d.db.UpdateUserName(ev.GuildID, ev.Author.ID, ev.Author.Username, ev.Author.DisplayName)
	d.log.Add(LogEntry{
		GuildID:   ev.GuildID,
		AuthorID:  ev.Author.ID,
		Author:    ev.Author.Tag,
		Content:   ev.Content,
		Channel:   ev.ChannelName,
		ChannelID: ev.ChannelID,
	})
	d.db.TrackMessage(ev.GuildID, ev.Author.ID, ev.ChannelID)
}

func (d *Dispatcher) mentionsBot(ev *Event) bool {
	botID := d.platform.BotUserID()
	for _, u := range ev.Mentions {
		if u.ID == botID {
			return true
		}
	}
	return false
}

func (d *Dispatcher) canModerate(a Author) bool {
	if d.ownerID != "" && a.ID == d.ownerID {
		return true
	}
	for _, id := range a.RoleIDs {
		if id == d.moderatorRoleID {
			return true
		}
	}
	return false
}

// addressedText strips the bot mention and prefix. The message is addressed
// when it mentions the bot or starts with the prefix.
func (d *Dispatcher) addressedText(ev *Event, mentioned bool) (string, bool) {
	text := strings.TrimSpace(ev.Content)
	prefixed := d.prefix != "" && strings.HasPrefix(text, d.prefix)
	if !mentioned && !prefixed {
		return "", false
	}
	if mentioned {
		botID := d.platform.BotUserID()
		text = strings.NewReplacer("<@"+botID+">", "", "<@!"+botID+">", "").Replace(text)
		text = strings.TrimSpace(text)
	}
	if d.prefix != "" && strings.HasPrefix(text, d.prefix) {
		text = strings.TrimSpace(strings.TrimPrefix(text, d.prefix))
	}
	return text, true
}

// firstMention returns the first mentioned account other than the bot
func (d *Dispatcher) firstMention(ev *Event) (User, bool) {
	botID := d.platform.BotUserID()
	for _, u := range ev.Mentions {
		if u.ID != botID {
			return u, true
		}
	}
	return User{}, false
}

func (d *Dispatcher) reply(ctx context.Context, ev *Event, content string) string {
	id, err := d.platform.Reply(ctx, ev.ChannelID, ev.MessageID, content)
	if err != nil {
		d.logger.Warn("Failed to send reply",
			zap.String("channel_id", ev.ChannelID),
			zap.Error(err),
		)
	}
	return id
}

func (d *Dispatcher) react(ctx context.Context, channelID, messageID, emoji string) {
	if err := d.platform.React(ctx, channelID, messageID, emoji); err != nil {
		d.logger.Debug("Failed to add reaction", zap.String("emoji", emoji), zap.Error(err))
	}
}

// complete asks for a single system+user completion and substitutes fallback on failure
func (d *Dispatcher) complete(ctx context.Context, system, user, fallback string) string {
	out, err := d.llm.Complete(ctx, []adapter.Message{
		{Role: adapter.RoleSystem, Content: system},
		{Role: adapter.RoleUser, Content: user},
	})
	if err != nil {
		d.logger.Warn("Completion failed, using fallback", zap.Error(err))
		return fallback
	}
	return out
}

// goBackground runs fn with a context detached from the message
func (d *Dispatcher) goBackground(ctx context.Context, fn func(ctx context.Context)) {
	d.background.Add(1)
	go func() {
		defer d.background.Done()
		fn(context.WithoutCancel(ctx))
	}()
}

func (d *Dispatcher) intn(n int) int {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.Intn(n)
}

func (d *Dispatcher) float() float64 {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	return d.rng.Float64()
}

func (d *Dispatcher) pick(list []string) string {
	return list[d.intn(len(list))]
}

func (d *Dispatcher) withRand(fn func(rng *rand.Rand)) {
	d.rngMu.Lock()
	defer d.rngMu.Unlock()
	fn(d.rng)
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
