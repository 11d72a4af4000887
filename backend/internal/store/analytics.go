package store

import (
	"sort"
	"time"
)

// TrackMessage counts a guild message. It is not saved immediately; the
// periodic flush persists analytics.
func (d *Database) TrackMessage(guildID, userID, channelID string) {
	now := d.now().UTC()
	day := now.Format("2006-01-02")

	d.mu.Lock()
	defer d.mu.Unlock()

	a := &d.analytics
	stats := a.DailyStats[day]
	stats.Messages++
	if !containsString(stats.Users, userID) {
		stats.Users = append(stats.Users, userID)
	}
	a.DailyStats[day] = stats

	activity := a.UserActivity[userID]
	activity.Total++
	activity.LastSeen = now
	a.UserActivity[userID] = activity

	a.ChannelStats[channelID]++
	if guildID != "" {
		a.GuildStats[guildID]++
	}
}

// InactiveUsers lists users last seen more than `after` ago, sorted by id
func (d *Database) InactiveUsers(after time.Duration) []string {
	cutoff := d.now().Add(-after)

	d.mu.RLock()
	defer d.mu.RUnlock()

	var ids []string
	for id, activity := range d.analytics.UserActivity {
		if !activity.LastSeen.IsZero() && activity.LastSeen.Before(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// DailyStats returns the counters for a YYYY-MM-DD day
func (d *Database) DailyStats(day string) (DayStats, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	stats, ok := d.analytics.DailyStats[day]
	if !ok {
		return DayStats{}, false
	}
	stats.Users = append(userSet{}, stats.Users...)
	return stats, true
}

// Analytics returns a copy of the analytics document
func (d *Database) Analytics() Analytics {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := defaultAnalytics()
	for k, v := range d.analytics.DailyStats {
		v.Users = append(userSet{}, v.Users...)
		out.DailyStats[k] = v
	}
	for k, v := range d.analytics.UserActivity {
		out.UserActivity[k] = v
	}
	for k, v := range d.analytics.ChannelStats {
		out.ChannelStats[k] = v
	}
	for k, v := range d.analytics.GuildStats {
		out.GuildStats[k] = v
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
