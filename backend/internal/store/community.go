package store

import (
	"strings"

	"pung-bot/backend/internal/constants"

	"github.com/google/uuid"
)

// AddGame stores a game under id, replacing any previous one
func (d *Database) AddGame(id string, game Game) {
	if game.CreatedAt.IsZero() {
		game.CreatedAt = d.now().UTC()
	}
	d.mu.Lock()
	d.community.Games[id] = game
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentCommunity)
}

// AddEvent appends an event and returns it with its assigned id
func (d *Database) AddEvent(event Event) Event {
	event.ID = uuid.New().String()
	event.CreatedAt = d.now().UTC()

	d.mu.Lock()
	d.community.Events = append(d.community.Events, event)
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentCommunity)
	return event
}

// AddCustomCommand registers a canned response for a command name
func (d *Database) AddCustomCommand(name, response string) {
	d.mu.Lock()
	d.community.CustomCommands[strings.ToLower(strings.TrimSpace(name))] = response
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentCommunity)
}

// CustomCommand looks up a custom command response
func (d *Database) CustomCommand(name string) (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	response, ok := d.community.CustomCommands[strings.ToLower(strings.TrimSpace(name))]
	return response, ok
}

// AddAutoResponse registers a phrase the bot answers wherever it appears
func (d *Database) AddAutoResponse(trigger, response string) {
	d.mu.Lock()
	d.community.AutoResponses = append(d.community.AutoResponses, AutoResponse{
		Trigger:  strings.ToLower(strings.TrimSpace(trigger)),
		Response: response,
	})
	d.mu.Unlock()
	d.scheduleSave(constants.DocumentCommunity)
}

// MatchAutoResponse returns the first auto response whose trigger occurs in text
func (d *Database) MatchAutoResponse(text string) (string, bool) {
	lower := strings.ToLower(text)

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, ar := range d.community.AutoResponses {
		if ar.Trigger != "" && strings.Contains(lower, ar.Trigger) {
			return ar.Response, true
		}
	}
	return "", false
}

// Community returns a copy of the community document
func (d *Database) Community() Community {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := defaultCommunity()
	for k, v := range d.community.Games {
		out.Games[k] = v
	}
	out.Events = append(out.Events, d.community.Events...)
	for k, v := range d.community.CustomCommands {
		out.CustomCommands[k] = v
	}
	out.AutoResponses = append(out.AutoResponses, d.community.AutoResponses...)
	return out
}
