package adapter

import (
	"context"
	"errors"

	apperrors "pung-bot/backend/pkg/errors"

	"github.com/sashabaranov/go-openai"
)

const openAIBackendName = "openai"

// OpenAIBackend handles communication with an OpenAI-compatible endpoint such as LiteLLM
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend creates a new OpenAI-compatible backend
func NewOpenAIBackend(baseURL, apiKey, modelID string) *OpenAIBackend {
	// LiteLLM accepts any key when none is configured
	if apiKey == "" {
		apiKey = "dummy-key"
	}

	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL + "/v1"

	return &OpenAIBackend{
		client: openai.NewClientWithConfig(config),
		model:  modelID,
	}
}

// Name returns the backend name
func (a *OpenAIBackend) Name() string {
	return openAIBackendName
}

// Generate sends the flattened prompt as a single user message
func (a *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		status := 0
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			status = reqErr.HTTPStatusCode
		}
		return "", apperrors.NewBackendError(openAIBackendName, status, err)
	}

	if len(resp.Choices) == 0 {
		return "", apperrors.NewBackendUnexpectedResponse(openAIBackendName, "no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
