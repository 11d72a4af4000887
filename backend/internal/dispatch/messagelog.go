package dispatch

import (
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// LogEntry is one observed guild message
type LogEntry struct {
	GuildID   string
	AuthorID  string
	Author    string // tag
	Content   string
	Channel   string
	ChannelID string
	Timestamp time.Time

	seq uint64
}

// LogFilter narrows a message log query. Zero fields match everything.
type LogFilter struct {
	UserID    string
	ChannelID string
	Keyword   string
	Limit     int
}

// MessageLog keeps recent guild messages for summaries and search. Entries
// expire after the retention window.
type MessageLog struct {
	entries *cache.Cache
	now     func() time.Time
	seq     atomic.Uint64
}

func NewMessageLog(retention time.Duration) *MessageLog {
	return &MessageLog{
		entries: cache.New(retention, 10*time.Minute),
		now:     time.Now,
	}
}

// Add records an entry under a fresh key
func (l *MessageLog) Add(entry LogEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	entry.seq = l.seq.Add(1)
	l.entries.SetDefault(uuid.NewString(), entry)
}

// Recent returns the guild's live entries oldest first
func (l *MessageLog) Recent(guildID string) []LogEntry {
	items := l.entries.Items()
	out := make([]LogEntry, 0, len(items))
	for _, item := range items {
		entry, ok := item.Object.(LogEntry)
		if ok && entry.GuildID == guildID {
			out = append(out, entry)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].seq < out[j].seq
	})
	return out
}

// Search returns the newest matching entries, oldest first, capped at Limit
func (l *MessageLog) Search(guildID string, f LogFilter) []LogEntry {
	keyword := strings.ToLower(f.Keyword)
	var out []LogEntry
	for _, e := range l.Recent(guildID) {
		if f.UserID != "" && e.AuthorID != f.UserID {
			continue
		}
		if f.ChannelID != "" && e.ChannelID != f.ChannelID {
			continue
		}
		if keyword != "" && !strings.Contains(strings.ToLower(e.Content), keyword) {
			continue
		}
		out = append(out, e)
	}
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[len(out)-f.Limit:]
	}
	return out
}
