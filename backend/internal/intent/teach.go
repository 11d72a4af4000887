package intent

import (
	"context"
	"fmt"
	"strings"
)

// Teach categories
const (
	TeachSkin    = "skin"
	TeachAbility = "ability"
	TeachStat    = "stat"
	TeachTip     = "tip"
	TeachGeneral = "general"
)

var teachKeywords = []string{"pung", "skin", "ability", "stat", "price", "cost", "gold", "tip"}

// TeachData carries the fields a user taught
type TeachData struct {
	Price       string
	Cost        string
	Description string
	Info        string
}

// TeachIntent is a sanitized knowledge-teaching result
type TeachIntent struct {
	IsTeaching bool
	Category   string
	Name       string
	Data       TeachData
}

// Label names what was learned for acknowledgements
func (t TeachIntent) Label() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Category
}

// MightBeTeaching is the cheap keyword check run before the Teach classifier
func MightBeTeaching(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range teachKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const teachPrompt = `You are a knowledge extractor for pung.io game information.
Extract information from user messages and return JSON.

Return format:
{
  "isTeaching": true/false,
  "category": "skin"|"ability"|"stat"|"tip"|"general"|null,
  "name": "item name" (for skins/abilities/stats),
  "data": {
    "price": "price if mentioned",
    "cost": "cost if mentioned",
    "description": "description",
    "info": "any other info"
  }
}

Examples:
- "the thanos skin costs 5000 gold" -> {"isTeaching":true,"category":"skin","name":"thanos","data":{"price":"5000 gold","description":"thanos skin"}}
- "shadow punch ability lets you teleport" -> {"isTeaching":true,"category":"ability","name":"shadow punch","data":{"description":"lets you teleport"}}
- "AGI stat increases movement speed" -> {"isTeaching":true,"category":"stat","name":"AGI","data":{"description":"increases movement speed"}}
- "pro tip: always upgrade CRI first" -> {"isTeaching":true,"category":"tip","name":null,"data":{"info":"always upgrade CRI first"}}
- "what does STR do?" -> {"isTeaching":false,"category":null,"name":null,"data":{}}
- "nice game" -> {"isTeaching":false,"category":null,"name":null,"data":{}}

If NOT teaching about pung.io, return {"isTeaching":false,"category":null,"name":null,"data":{}}.`

// Teach detects whether a message teaches a pung.io fact
func (c *Classifier) Teach(ctx context.Context, text string) TeachIntent {
	fields, ok := c.decode(ctx, "teach", teachPrompt, fmt.Sprintf("Message: %q", text))
	if !ok {
		return TeachIntent{}
	}
	intent := sanitizeTeach(fields)
	c.record("teach", intent.IsTeaching)
	return intent
}

func sanitizeTeach(fields map[string]any) TeachIntent {
	teaching, _ := fields["isTeaching"].(bool)
	if !teaching {
		return TeachIntent{}
	}

	intent := TeachIntent{
		IsTeaching: true,
		Category:   strings.ToLower(asString(fields["category"])),
		Name:       truncate(asString(fields["name"]), maxNameLength),
	}
	data, _ := fields["data"].(map[string]any)
	intent.Data = TeachData{
		Price:       truncate(asString(data["price"]), maxParamLength),
		Cost:        truncate(asString(data["cost"]), maxParamLength),
		Description: truncate(asString(data["description"]), maxParamLength),
		Info:        truncate(asString(data["info"]), maxParamLength),
	}

	switch intent.Category {
	case TeachTip:
		if intent.Data.Info == "" && intent.Data.Description == "" {
			return TeachIntent{}
		}
	case TeachSkin, TeachAbility, TeachStat, TeachGeneral:
		if intent.Name == "" {
			return TeachIntent{}
		}
	default:
		return TeachIntent{}
	}
	return intent
}
