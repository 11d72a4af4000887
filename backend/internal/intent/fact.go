package intent

import (
	"context"
	"strings"
	"unicode/utf8"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/constants"

	"go.uber.org/zap"
)

var selfDisclosureKeywords = []string{"my name is", "im ", "i'm ", "i like", "i love", "i hate"}

// HasSelfDisclosure reports whether a message likely shares a personal fact
func HasSelfDisclosure(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range selfDisclosureKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

const factPrompt = `Extract a short fact about the user from this message. Reply with ONLY the fact, or "none" if no fact. Example: "likes pizza", "name is John", "hates mondays"`

// ExtractFact asks for one short personal fact in text. It reports false when
// the backend fails, answers "none", or answers with something too long to be
// a fact.
func (c *Classifier) ExtractFact(ctx context.Context, text string) (string, bool) {
	raw, err := c.llm.Complete(ctx, []adapter.Message{
		{Role: adapter.RoleSystem, Content: factPrompt},
		{Role: adapter.RoleUser, Content: text},
	})
	if err != nil {
		c.logger.Debug("Fact extraction failed", zap.Error(err))
		return "", false
	}

	fact := strings.Trim(strings.TrimSpace(raw), `"'`)
	fact = strings.TrimSpace(fact)
	switch {
	case fact == "":
		return "", false
	case strings.EqualFold(strings.TrimRight(fact, "."), "none"):
		return "", false
	case utf8.RuneCountInString(fact) >= constants.MaxExtractedFactChars:
		return "", false
	}
	return fact, true
}
