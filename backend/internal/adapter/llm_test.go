package adapter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	apperrors "pung-bot/backend/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestFlattenPrompt(t *testing.T) {
	prompt := FlattenPrompt([]Message{
		{Role: RoleSystem, Content: "You are pung bot."},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "yo"},
		{Role: RoleUser, Content: "best skin?"},
	})

	assert.Equal(t, "You are pung bot.\n\nUser: hi\nAssistant: yo\nUser: best skin?\n", prompt)
}

func TestFlattenPrompt_SkipsUnknownRoles(t *testing.T) {
	prompt := FlattenPrompt([]Message{{Role: "tool", Content: "x"}, {Role: RoleUser, Content: "a"}})
	assert.Equal(t, "User: a\n", prompt)
}

func TestClient_Complete(t *testing.T) {
	backend := &fakeBackend{reply: "  hello there \n"}
	var outcomes []string
	client := NewClient(backend, WithObserver(func(name, outcome string) {
		outcomes = append(outcomes, name+":"+outcome)
	}))

	text, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hello there", text)
	assert.Equal(t, []string{"User: hi\n"}, backend.prompts)
	assert.Equal(t, []string{"fake:ok"}, outcomes)
}

func TestClient_Complete_WrapsBackendFailure(t *testing.T) {
	client := NewClient(&fakeBackend{err: errors.New("connection refused")})

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeBackend))
}

func TestClient_Complete_EmptyText(t *testing.T) {
	client := NewClient(&fakeBackend{reply: "   "})

	_, err := client.Complete(context.Background(), []Message{{Role: RoleUser, Content: "hi"}})
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeBackend))
}

func TestClient_Complete_RateLimitCancelled(t *testing.T) {
	backend := &fakeBackend{reply: "ok"}
	client := NewClient(backend, WithRateLimit(0.001))
	ctx := context.Background()

	_, err := client.Complete(ctx, []Message{{Role: RoleUser, Content: "first"}})
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = client.Complete(cancelled, []Message{{Role: RoleUser, Content: "second"}})
	require.Error(t, err)
	assert.Len(t, backend.prompts, 1)
}

func TestOpenAIBackend_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"gg"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	backend := NewOpenAIBackend(srv.URL, "", "test-model")
	text, err := backend.Generate(context.Background(), "User: hi\n")
	require.NoError(t, err)
	assert.Equal(t, "gg", text)
}

func TestOpenAIBackend_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIBackend(srv.URL, "", "test-model").Generate(context.Background(), "x")
	require.Error(t, err)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeBackend))
}

func TestOpenAIBackend_StatusSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	_, err := NewOpenAIBackend(srv.URL, "", "test-model").Generate(context.Background(), "x")
	require.Error(t, err)

	var backendErr *apperrors.ErrBackend
	require.True(t, errors.As(err, &backendErr))
	assert.Equal(t, http.StatusTooManyRequests, backendErr.StatusCode)
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeBackend))
}

// TestGeminiBackend_Generate requires a real API key
func TestGeminiBackend_Generate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx := context.Background()
	backend, err := NewGeminiBackend(ctx, apiKey, "")
	require.NoError(t, err)

	text, err := NewClient(backend).Complete(ctx, []Message{
		{Role: RoleSystem, Content: "Reply with one word."},
		{Role: RoleUser, Content: "Say hello."},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, text)
}
