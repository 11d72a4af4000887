package adapter

import (
	"context"
	"strings"

	apperrors "pung-bot/backend/pkg/errors"
	"pung-bot/backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Message roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn sent to the completion backend
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer turns a message sequence into a text completion
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Backend generates text for a single flattened prompt
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// FlattenPrompt conflates messages into a single prompt. System content is
// copied verbatim followed by a blank line; user and assistant turns are
// prefixed and kept in order.
func FlattenPrompt(messages []Message) string {
	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			b.WriteString(msg.Content)
			b.WriteString("\n\n")
		case RoleUser:
			b.WriteString("User: ")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		case RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(msg.Content)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Client is the Completer used by classifiers and chat. It performs no retries;
// callers substitute their own fallback text on error.
type Client struct {
	backend Backend
	limiter *rate.Limiter
	logger  *zap.Logger
	observe func(backend, outcome string)
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithRateLimit paces backend calls to rps requests per second. Zero disables pacing.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithObserver registers a callback invoked once per call with its outcome
// ("ok" or "error").
func WithObserver(fn func(backend, outcome string)) ClientOption {
	return func(c *Client) {
		c.observe = fn
	}
}

// NewClient creates a new completion client around a backend
func NewClient(backend Backend, opts ...ClientOption) *Client {
	c := &Client{
		backend: backend,
		logger:  logger.Named("completion"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete flattens messages and sends them to the backend
func (c *Client) Complete(ctx context.Context, messages []Message) (string, error) {
	text, err := c.complete(ctx, messages)
	if c.observe != nil {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		c.observe(c.backend.Name(), outcome)
	}
	return text, err
}

func (c *Client) complete(ctx context.Context, messages []Message) (string, error) {
	prompt := FlattenPrompt(messages)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", apperrors.NewContextCancelled("completion rate limit wait", err)
		}
	}

	text, err := c.backend.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("Completion request failed",
			zap.String("backend", c.backend.Name()),
			zap.Int("prompt_chars", len(prompt)),
			zap.Error(err),
		)
		if apperrors.IsErrorType(err, apperrors.ErrorTypeBackend) {
			return "", err
		}
		return "", apperrors.NewBackendError(c.backend.Name(), 0, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", apperrors.NewBackendUnexpectedResponse(c.backend.Name(), "empty text")
	}
	return text, nil
}
