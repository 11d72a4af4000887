package store

import (
	"errors"
	"sort"
	"strings"

	"pung-bot/backend/internal/constants"

	"go.uber.org/zap"
)

var (
	// ErrUnknownCategory is returned for categories outside skins, abilities, stats, tips and general
	ErrUnknownCategory = errors.New("unknown knowledge category")
	// ErrKnowledgeKeyRequired is returned when a keyed category is given an empty key
	ErrKnowledgeKeyRequired = errors.New("knowledge key required")
)

func (k *Knowledge) table(category string) map[string]Fact {
	switch category {
	case CategorySkins:
		return k.Skins
	case CategoryAbilities:
		return k.Abilities
	case CategoryStats:
		return k.Stats
	case CategoryGeneral:
		return k.General
	}
	return nil
}

// AddKnowledge records a learned fact. Tips ignore key and are appended; the
// other categories are keyed by the lowercased key and the last write wins.
func (d *Database) AddKnowledge(category, key string, entry Entry, addedBy string) error {
	now := d.now().UTC()

	d.mu.Lock()
	knowledge := &d.memories.PungKnowledge

	if category == CategoryTips {
		text := firstNonEmpty(entry.Text, entry.Info, entry.Description)
		if text == "" {
			d.mu.Unlock()
			return ErrKnowledgeKeyRequired
		}
		knowledge.Tips = append(knowledge.Tips, Tip{Text: text, AddedBy: addedBy, Timestamp: now})
		d.mu.Unlock()

		d.logger.Info("Learned knowledge",
			zap.String("category", category),
			zap.String("tip", text),
			zap.String("added_by", addedBy),
		)
		d.scheduleSave(constants.DocumentMemories)
		return nil
	}

	table := knowledge.table(category)
	if table == nil {
		d.mu.Unlock()
		return ErrUnknownCategory
	}
	name := strings.TrimSpace(key)
	if name == "" {
		d.mu.Unlock()
		return ErrKnowledgeKeyRequired
	}
	table[strings.ToLower(name)] = Fact{
		Name:        name,
		Price:       entry.Price,
		Cost:        entry.Cost,
		Description: entry.Description,
		Info:        entry.Info,
		AddedBy:     addedBy,
		Timestamp:   now,
	}
	d.mu.Unlock()

	d.logger.Info("Learned knowledge",
		zap.String("category", category),
		zap.String("key", name),
		zap.String("added_by", addedBy),
	)
	d.scheduleSave(constants.DocumentMemories)
	return nil
}

// GetKnowledge looks up a keyed fact case-insensitively
func (d *Database) GetKnowledge(category, key string) (Fact, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	table := d.memories.PungKnowledge.table(category)
	if table == nil {
		return Fact{}, false
	}
	fact, ok := table[strings.ToLower(strings.TrimSpace(key))]
	return fact, ok
}

// AllKnowledge returns a copy of everything learned
func (d *Database) AllKnowledge() Knowledge {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.memories.PungKnowledge.clone()
}

// SearchKnowledge returns learned facts whose key, description, info or tip text
// contains query, case-insensitively
func (d *Database) SearchKnowledge(query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var results []SearchResult
	k := d.memories.PungKnowledge
	for _, category := range []string{CategorySkins, CategoryAbilities, CategoryStats, CategoryGeneral} {
		table := k.table(category)
		keys := make([]string, 0, len(table))
		for key := range table {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			fact := table[key]
			if strings.Contains(key, q) ||
				strings.Contains(strings.ToLower(fact.Description), q) ||
				strings.Contains(strings.ToLower(fact.Info), q) {
				results = append(results, SearchResult{
					Category: category,
					Name:     key,
					Detail:   firstNonEmpty(fact.Description, fact.Info, fact.Price, fact.Cost),
					AddedBy:  fact.AddedBy,
				})
			}
		}
	}
	for _, tip := range k.Tips {
		if strings.Contains(strings.ToLower(tip.Text), q) {
			results = append(results, SearchResult{Category: CategoryTips, Detail: tip.Text, AddedBy: tip.AddedBy})
		}
	}
	return results
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
