package session

import (
	"sync"

	"pung-bot/backend/internal/adapter"
)

// History keeps the most recent chat turns per user, in memory only
type History struct {
	mu    sync.Mutex
	limit int
	turns map[string][]adapter.Message
}

// NewHistory creates a history capped at limit turns per user
func NewHistory(limit int) *History {
	return &History{
		limit: limit,
		turns: make(map[string][]adapter.Message),
	}
}

// Append adds a turn, evicting the oldest past the cap
func (h *History) Append(userID string, msg adapter.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	turns := append(h.turns[userID], msg)
	if len(turns) > h.limit {
		turns = append([]adapter.Message(nil), turns[len(turns)-h.limit:]...)
	}
	h.turns[userID] = turns
}

// Messages returns a copy of a user's turns, oldest first
func (h *History) Messages(userID string) []adapter.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]adapter.Message(nil), h.turns[userID]...)
}

// Len returns the number of turns kept for a user
func (h *History) Len(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns[userID])
}
