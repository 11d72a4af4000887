package store

import (
	"sort"
	"strings"

	"pung-bot/backend/internal/constants"
)

// UserMemory returns a copy of the facts remembered about a user
func (d *Database) UserMemory(userID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.memories.UserMemories[userID]...)
}

// AddUserMemory appends a fact, evicting the oldest past the bound
func (d *Database) AddUserMemory(userID, fact string) {
	d.mu.Lock()
	d.memories.UserMemories[userID] = appendBounded(d.memories.UserMemories[userID], fact, constants.MaxUserMemories)
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentMemories)
}

// ServerMemory returns a copy of the facts remembered about a guild
func (d *Database) ServerMemory(guildID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string{}, d.memories.ServerMemories[guildID]...)
}

// AddServerMemory appends a guild fact, evicting the oldest past the bound
func (d *Database) AddServerMemory(guildID, fact string) {
	d.mu.Lock()
	d.memories.ServerMemories[guildID] = appendBounded(d.memories.ServerMemories[guildID], fact, constants.MaxServerMemories)
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentMemories)
}

func appendBounded(list []string, item string, bound int) []string {
	list = append(list, item)
	if len(list) > bound {
		list = append([]string{}, list[len(list)-bound:]...)
	}
	return list
}

// UpdateUserName records the username and, when different, the display name
// under which a user was seen. The index only grows. It reports whether
// anything changed; only changes are saved.
func (d *Database) UpdateUserName(guildID, userID, username, displayName string) bool {
	if guildID == "" || userID == "" || username == "" {
		return false
	}

	d.mu.Lock()
	names := d.memories.UserNames[guildID]
	if names == nil {
		names = map[string][]string{}
		d.memories.UserNames[guildID] = names
	}
	changed := indexName(names, username, userID)
	if displayName != "" && displayName != username {
		changed = indexName(names, displayName, userID) || changed
	}
	d.mu.Unlock()

	if changed {
		d.scheduleSave(constants.DocumentMemories)
	}
	return changed
}

func indexName(names map[string][]string, name, userID string) bool {
	key := strings.ToLower(name)
	for _, id := range names[key] {
		if id == userID {
			return false
		}
	}
	names[key] = append(names[key], userID)
	return true
}

// FindUsersByName resolves a name to user ids. An exact lowercase hit wins;
// otherwise every stored name containing the query, or contained in it,
// contributes its ids, deduplicated in first-seen order.
func (d *Database) FindUsersByName(guildID, name string) []string {
	query := strings.ToLower(strings.TrimSpace(name))
	if query == "" {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	names := d.memories.UserNames[guildID]
	if len(names) == 0 {
		return nil
	}
	if ids, ok := names[query]; ok {
		return append([]string{}, ids...)
	}

	stored := make([]string, 0, len(names))
	for n := range names {
		stored = append(stored, n)
	}
	sort.Strings(stored)

	seen := make(map[string]bool)
	var matches []string
	for _, n := range stored {
		if !strings.Contains(n, query) && !strings.Contains(query, n) {
			continue
		}
		for _, id := range names[n] {
			if !seen[id] {
				seen[id] = true
				matches = append(matches, id)
			}
		}
	}
	return matches
}
