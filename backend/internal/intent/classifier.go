package intent

import (
	"context"
	"encoding/json"
	"fmt"

	"pung-bot/backend/internal/adapter"
	"pung-bot/backend/internal/metrics"
	apperrors "pung-bot/backend/pkg/errors"
	"pung-bot/backend/pkg/logger"

	"go.uber.org/zap"
)

// Classifier outcomes reported to metrics
const (
	outcomeMatch        = "match"
	outcomeNone         = "none"
	outcomeBackendError = "backend_error"
	outcomeInvalid      = "invalid"
)

// Classifier maps free text to intents through the completion backend. Every
// method is total: backend failures and unusable output yield the intent's
// default value.
type Classifier struct {
	llm    adapter.Completer
	logger *zap.Logger
}

// NewClassifier creates a new classifier
func NewClassifier(llm adapter.Completer) *Classifier {
	return &Classifier{
		llm:    llm,
		logger: logger.Named("intent"),
	}
}

// decode asks the backend and decodes the first JSON object of its answer
func (c *Classifier) decode(ctx context.Context, name, system, user string) (map[string]any, bool) {
	raw, err := c.llm.Complete(ctx, []adapter.Message{
		{Role: adapter.RoleSystem, Content: system},
		{Role: adapter.RoleUser, Content: user},
	})
	if err != nil {
		c.logger.Debug("Classifier backend call failed", zap.String("classifier", name), zap.Error(err))
		metrics.ClassifierOutcomes.WithLabelValues(name, outcomeBackendError).Inc()
		return nil, false
	}

	object, ok := ExtractJSONObject(raw)
	if !ok {
		c.reject(name, "no JSON object in response", nil)
		return nil, false
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(object), &fields); err != nil {
		c.reject(name, "malformed JSON", err)
		return nil, false
	}
	return fields, true
}

func (c *Classifier) reject(name, reason string, err error) {
	c.logger.Debug("Classifier output rejected",
		zap.Error(apperrors.NewClassificationError(name, reason, err)))
	metrics.ClassifierOutcomes.WithLabelValues(name, outcomeInvalid).Inc()
}

func (c *Classifier) record(name string, matched bool) {
	outcome := outcomeNone
	if matched {
		outcome = outcomeMatch
	}
	metrics.ClassifierOutcomes.WithLabelValues(name, outcome).Inc()
}

func quoted(text string) string {
	return fmt.Sprintf(`Text: """%s"""`, text)
}
