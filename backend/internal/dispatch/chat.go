package dispatch

import (
	"context"
	"fmt"
	"strings"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/intent"
	"pung-bot/backend/internal/knowledge"
	"pung-bot/backend/internal/metrics"
	"pung-bot/backend/internal/session"
	"pung-bot/backend/internal/store"

	"go.uber.org/zap"
)

// teachCategories maps teach labels to knowledge tables
var teachCategories = map[string]string{
	intent.TeachSkin:    store.CategorySkins,
	intent.TeachAbility: store.CategoryAbilities,
	intent.TeachStat:    store.CategoryStats,
	intent.TeachTip:     store.CategoryTips,
	intent.TeachGeneral: store.CategoryGeneral,
}

// chat is the free conversation path: learn what the user teaches, then
// answer in a randomly chosen mood with memory context
func (d *Dispatcher) chat(ctx context.Context, r request) {
	ev := r.ev
	if intent.MightBeTeaching(r.text) {
		d.learn(ctx, ev, d.classifier.Teach(ctx, r.text))
	}

	userID := ev.Author.ID
	d.history.Append(userID, adapter.Message{Role: adapter.RoleUser, Content: r.text})

	memory := session.MemoryContext(
		d.db.UserMemory(userID),
		d.db.ServerMemory(ev.GuildID),
		knowledge.LearnedContext(d.db.AllKnowledge()),
	)
	mood := session.PickPersonality(d.float())
	messages := append([]adapter.Message{{Role: adapter.RoleSystem, Content: mood.System(memory)}},
		d.history.Messages(userID)...)

	answer, err := d.llm.Complete(ctx, messages)
	if err != nil {
		d.logger.Warn("Chat completion failed",
			zap.String("user_id", userID),
			zap.String("personality", mood.Name),
			zap.Error(err),
		)
		answer = chatFallback
	}
	d.history.Append(userID, adapter.Message{Role: adapter.RoleAssistant, Content: answer})

	if intent.HasSelfDisclosure(r.text) {
		text, tag := r.text, ev.Author.Tag
		d.goBackground(ctx, func(ctx context.Context) {
			if fact, ok := d.classifier.ExtractFact(ctx, text); ok {
				d.db.AddUserMemory(userID, fact)
				d.logger.Info("Learned about user", zap.String("user", tag), zap.String("fact", fact))
			}
		})
	}

	d.reply(ctx, ev, answer)
}

// learn stores a taught fact and acknowledges it. The chat reply still follows.
func (d *Dispatcher) learn(ctx context.Context, ev *Event, ti intent.TeachIntent) {
	if !ti.IsTeaching {
		return
	}
	category, ok := teachCategories[ti.Category]
	if !ok {
		return
	}
	entry := store.Entry{
		Price:       ti.Data.Price,
		Cost:        ti.Data.Cost,
		Description: ti.Data.Description,
		Info:        ti.Data.Info,
	}
	if err := d.db.AddKnowledge(category, ti.Name, entry, ev.Author.Tag); err != nil {
		d.logger.Warn("Failed to store taught knowledge",
			zap.String("category", category),
			zap.String("name", ti.Name),
			zap.Error(err),
		)
		return
	}
	metrics.KnowledgeLearned.WithLabelValues(category).Inc()

	d.react(ctx, ev.ChannelID, ev.MessageID, "📚")
	ack := d.pick(thankYouReplies)
	if strings.Contains(ack, "%s") {
		ack = fmt.Sprintf(ack, ti.Label())
	}
	d.reply(ctx, ev, ack)
}
