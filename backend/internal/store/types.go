package store

import (
	"encoding/json"
	"time"
)

// Knowledge categories
const (
	CategorySkins     = "skins"
	CategoryAbilities = "abilities"
	CategoryStats     = "stats"
	CategoryTips      = "tips"
	CategoryGeneral   = "general"
)

// Memories is the "memories" document
type Memories struct {
	UserMemories   map[string][]string            `json:"userMemories"`
	ServerMemories map[string][]string            `json:"serverMemories"`
	UserNames      map[string]map[string][]string `json:"userNames"` // guild -> lowercased name -> user ids
	PungKnowledge  Knowledge                      `json:"pungKnowledge"`
}

// Knowledge holds everything users taught the bot
type Knowledge struct {
	Skins     map[string]Fact `json:"skins"`
	Abilities map[string]Fact `json:"abilities"`
	Stats     map[string]Fact `json:"stats"`
	Tips      []Tip           `json:"tips"`
	General   map[string]Fact `json:"general"`
}

// Fact is a learned skin, ability, stat or general topic
type Fact struct {
	Name        string    `json:"name,omitempty"`
	Price       string    `json:"price,omitempty"`
	Cost        string    `json:"cost,omitempty"`
	Description string    `json:"description,omitempty"`
	Info        string    `json:"info,omitempty"`
	AddedBy     string    `json:"addedBy"`
	Timestamp   time.Time `json:"timestamp"`
}

// Tip is a learned gameplay tip
type Tip struct {
	Text      string    `json:"tip"`
	AddedBy   string    `json:"addedBy"`
	Timestamp time.Time `json:"timestamp"`
}

// Entry is the payload passed to AddKnowledge. Tips only read Text.
type Entry struct {
	Price       string `json:"price,omitempty"`
	Cost        string `json:"cost,omitempty"`
	Description string `json:"description,omitempty"`
	Info        string `json:"info,omitempty"`
	Text        string `json:"text,omitempty"`
}

// Analytics is the "analytics" document
type Analytics struct {
	DailyStats   map[string]DayStats     `json:"dailyStats"`
	UserActivity map[string]UserActivity `json:"userActivity"`
	ChannelStats map[string]int          `json:"channelStats"`
	GuildStats   map[string]int          `json:"guildStats,omitempty"`
}

// DayStats counts one UTC day
type DayStats struct {
	Messages int     `json:"messages"`
	Users    userSet `json:"users"`
}

// UserActivity tracks a single user across days
type UserActivity struct {
	Total    int       `json:"total"`
	LastSeen time.Time `json:"lastSeen"`
}

// userSet is a list of distinct ids. Older documents stored it as an empty
// object, which decodes to an empty set.
type userSet []string

func (u *userSet) UnmarshalJSON(data []byte) error {
	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		*u = ids
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*u = userSet{}
	return nil
}

// Community is the "community" document
type Community struct {
	Games          map[string]Game   `json:"games"`
	Events         []Event           `json:"events"`
	CustomCommands map[string]string `json:"customCommands"`
	AutoResponses  []AutoResponse    `json:"autoResponses"`
}

// Game is a community game night or lobby
type Game struct {
	Name        string    `json:"name" binding:"required"`
	Description string    `json:"description,omitempty"`
	Host        string    `json:"host,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is a scheduled community event
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AutoResponse replies with Response when a message contains Trigger
type AutoResponse struct {
	Trigger  string `json:"trigger"`
	Response string `json:"response"`
}

// SearchResult is one SearchKnowledge hit
type SearchResult struct {
	Category string `json:"category"`
	Name     string `json:"name,omitempty"`
	Detail   string `json:"detail"`
	AddedBy  string `json:"addedBy"`
}

func defaultMemories() Memories {
	m := Memories{}
	m.normalize()
	return m
}

func (m *Memories) normalize() {
	if m.UserMemories == nil {
		m.UserMemories = map[string][]string{}
	}
	if m.ServerMemories == nil {
		m.ServerMemories = map[string][]string{}
	}
	if m.UserNames == nil {
		m.UserNames = map[string]map[string][]string{}
	}
	k := &m.PungKnowledge
	if k.Skins == nil {
		k.Skins = map[string]Fact{}
	}
	if k.Abilities == nil {
		k.Abilities = map[string]Fact{}
	}
	if k.Stats == nil {
		k.Stats = map[string]Fact{}
	}
	if k.General == nil {
		k.General = map[string]Fact{}
	}
	if k.Tips == nil {
		k.Tips = []Tip{}
	}
}

func defaultAnalytics() Analytics {
	a := Analytics{}
	a.normalize()
	return a
}

func (a *Analytics) normalize() {
	if a.DailyStats == nil {
		a.DailyStats = map[string]DayStats{}
	}
	if a.UserActivity == nil {
		a.UserActivity = map[string]UserActivity{}
	}
	if a.ChannelStats == nil {
		a.ChannelStats = map[string]int{}
	}
	if a.GuildStats == nil {
		a.GuildStats = map[string]int{}
	}
}

func defaultCommunity() Community {
	c := Community{}
	c.normalize()
	return c
}

func (c *Community) normalize() {
	if c.Games == nil {
		c.Games = map[string]Game{}
	}
	if c.Events == nil {
		c.Events = []Event{}
	}
	if c.CustomCommands == nil {
		c.CustomCommands = map[string]string{}
	}
	if c.AutoResponses == nil {
		c.AutoResponses = []AutoResponse{}
	}
}

func cloneFacts(src map[string]Fact) map[string]Fact {
	dst := make(map[string]Fact, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (k Knowledge) clone() Knowledge {
	return Knowledge{
		Skins:     cloneFacts(k.Skins),
		Abilities: cloneFacts(k.Abilities),
		Stats:     cloneFacts(k.Stats),
		Tips:      append(make([]Tip, 0, len(k.Tips)), k.Tips...),
		General:   cloneFacts(k.General),
	}
}
