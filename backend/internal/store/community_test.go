package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommunity(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.AddGame("friday-brawl", Game{Name: "Friday Brawl", Host: "mod"})
	ev := db.AddEvent(Event{Title: "Titan cup"})
	db.AddCustomCommand(" Rules ", "no teaming")
	db.AddAutoResponse("Server IP", "play at pung.io")
	db.Wait()

	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())

	c := db.Community()
	assert.Equal(t, "Friday Brawl", c.Games["friday-brawl"].Name)
	require.Len(t, c.Events, 1)
	assert.Equal(t, ev.ID, c.Events[0].ID)

	resp, ok := db.CustomCommand("RULES")
	require.True(t, ok)
	assert.Equal(t, "no teaming", resp)

	resp, ok = db.MatchAutoResponse("what's the server ip?")
	require.True(t, ok)
	assert.Equal(t, "play at pung.io", resp)
	_, ok = db.MatchAutoResponse("hello")
	assert.False(t, ok)
}

func TestAnalytics(t *testing.T) {
	db, _ := newTestDatabase(t)

	db.TrackMessage("g1", "u1", "c1")
	db.TrackMessage("g1", "u1", "c1")
	db.TrackMessage("g1", "u2", "c2")

	stats, ok := db.DailyStats("2025-03-14")
	require.True(t, ok)
	assert.Equal(t, 3, stats.Messages)
	assert.ElementsMatch(t, []string{"u1", "u2"}, []string(stats.Users))

	a := db.Analytics()
	assert.Equal(t, 2, a.UserActivity["u1"].Total)
	assert.Equal(t, 2, a.ChannelStats["c1"])
	assert.Equal(t, 3, a.GuildStats["g1"])

	assert.Empty(t, db.InactiveUsers(time.Hour))
	db.now = func() time.Time { return time.Date(2025, 3, 30, 0, 0, 0, 0, time.UTC) }
	assert.Equal(t, []string{"u1", "u2"}, db.InactiveUsers(7*24*time.Hour))
}
