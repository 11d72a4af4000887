package adapter

import (
	"context"
	"errors"
	"fmt"

	apperrors "pung-bot/backend/pkg/errors"

	"google.golang.org/genai"
)

const geminiBackendName = "gemini"

// GeminiBackend generates text through the Gemini API
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a new Gemini backend
func NewGeminiBackend(ctx context.Context, apiKey, model string) (*GeminiBackend, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Name returns the backend name
func (g *GeminiBackend) Name() string {
	return geminiBackendName
}

// Generate sends the prompt as a single user content
func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", apperrors.NewBackendError(geminiBackendName, geminiStatus(err), err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", apperrors.NewBackendUnexpectedResponse(geminiBackendName, "no candidates")
	}
	return resp.Text(), nil
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code
	}
	return 0
}
