package dispatch

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Warning is one moderator-issued warning
type Warning struct {
	ID        string
	Reason    string
	By        string
	Timestamp time.Time
}

// Warnings holds per-guild, per-user warning lists. It is process-local and
// starts empty on every restart.
type Warnings struct {
	mu    sync.Mutex
	lists map[string]map[string][]Warning
}

func NewWarnings() *Warnings {
	return &Warnings{lists: make(map[string]map[string][]Warning)}
}

// Add records a warning and returns the user's new total
func (w *Warnings) Add(guildID, userID, reason, by string, at time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	guild, ok := w.lists[guildID]
	if !ok {
		guild = make(map[string][]Warning)
		w.lists[guildID] = guild
	}
	guild[userID] = append(guild[userID], Warning{
		ID:        uuid.NewString(),
		Reason:    reason,
		By:        by,
		Timestamp: at,
	})
	return len(guild[userID])
}

// Clear removes every warning of the user and reports whether there were any
func (w *Warnings) Clear(guildID, userID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	guild, ok := w.lists[guildID]
	if !ok {
		return false
	}
	_, had := guild[userID]
	delete(guild, userID)
	return had
}
