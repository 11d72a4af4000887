package dispatch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageLog_RecentAndSearch(t *testing.T) {
	l := NewMessageLog(time.Hour)
	base := time.Now()
	l.Add(LogEntry{GuildID: "g1", AuthorID: "a", Content: "GG all", ChannelID: "c1", Timestamp: base})
	l.Add(LogEntry{GuildID: "g1", AuthorID: "b", Content: "hello", ChannelID: "c2", Timestamp: base.Add(time.Second)})
	l.Add(LogEntry{GuildID: "g1", AuthorID: "a", Content: "gg again", ChannelID: "c1", Timestamp: base.Add(2 * time.Second)})
	l.Add(LogEntry{GuildID: "g2", AuthorID: "a", Content: "gg elsewhere", Timestamp: base})

	recent := l.Recent("g1")
	require.Len(t, recent, 3)
	assert.Equal(t, "GG all", recent[0].Content)
	assert.Equal(t, "gg again", recent[2].Content)

	hits := l.Search("g1", LogFilter{Keyword: "gg"})
	assert.Len(t, hits, 2)

	last := l.Search("g1", LogFilter{UserID: "a", Limit: 1})
	require.Len(t, last, 1)
	assert.Equal(t, "gg again", last[0].Content)

	assert.Len(t, l.Search("g1", LogFilter{ChannelID: "c2"}), 1)
}

func TestMessageLog_SameInstantKeepsInsertionOrder(t *testing.T) {
	l := NewMessageLog(time.Hour)
	at := time.Now()
	for _, c := range []string{"one", "two", "three", "four"} {
		l.Add(LogEntry{GuildID: "g", Content: c, Timestamp: at})
	}
	var got []string
	for _, e := range l.Recent("g") {
		got = append(got, e.Content)
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, got)
}

func TestMessageLog_Expiry(t *testing.T) {
	l := NewMessageLog(20 * time.Millisecond)
	l.Add(LogEntry{GuildID: "g", Content: "soon gone"})
	assert.Len(t, l.Recent("g"), 1)
	time.Sleep(40 * time.Millisecond)
	assert.Empty(t, l.Recent("g"))
}

func TestWarnings(t *testing.T) {
	w := NewWarnings()
	at := time.Now()

	assert.Equal(t, 1, w.Add("g", "u", "spam", "mod#0001", at))
	assert.Equal(t, 2, w.Add("g", "u", "caps", "mod#0001", at))
	assert.Equal(t, 1, w.Add("other", "u", "spam", "mod#0001", at))

	assert.True(t, w.Clear("g", "u"))
	assert.False(t, w.Clear("g", "u"))
	assert.Equal(t, 1, w.Add("g", "u", "spam", "mod#0001", at), "cleared lists start over")
	assert.Equal(t, 2, w.Add("other", "u", "spam", "mod#0001", at), "other guilds are untouched")
}
