package discord

import (
	"context"
	"time"

	"pung-bot/backend/internal/dispatch"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// handleTimeout bounds one message's processing, completions included
const handleTimeout = 2 * time.Minute

// Dispatcher consumes converted events
type Dispatcher interface {
	Handle(ctx context.Context, ev *dispatch.Event)
}

// Handler feeds gateway message events to the dispatcher
type Handler struct {
	ctx        context.Context
	dispatcher Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a message handler. Cancelling ctx cancels in-flight work.
func NewHandler(ctx context.Context, dispatcher Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{ctx: ctx, dispatcher: dispatcher, logger: logger}
}

// HandleMessage is registered with discordgo, which calls it on its own goroutine
func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil || m.Message == nil || m.Author == nil {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	ctx, cancel := context.WithTimeout(h.ctx, handleTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("Panic while handling message",
				zap.Any("panic", r),
				zap.String("message_id", m.ID),
				zap.String("channel_id", m.ChannelID),
			)
		}
	}()

	h.dispatcher.Handle(ctx, toEvent(m.Message, channelName(s, m.ChannelID)))
}

func channelName(s *discordgo.Session, channelID string) string {
	if s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil {
			return ch.Name
		}
	}
	return ""
}
