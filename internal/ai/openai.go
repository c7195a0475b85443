// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI completes prompts with the OpenAI chat API or any compatible
// server reachable at a custom base URL.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates an OpenAI completer. An empty model selects DefaultOpenAIModel.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	if model == "" {
		model = DefaultOpenAIModel
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{client: openai.NewClientWithConfig(config), model: model}
}

func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", &ServiceError{Provider: "openai", Op: "chat completion", Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: "openai", Op: "chat completion", Err: ErrEmptyResponse}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		return "", &ServiceError{Provider: "openai", Op: "chat completion", Err: ErrContentBlocked}
	}
	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return "", &ServiceError{Provider: "openai", Op: "chat completion", Err: ErrEmptyResponse}
	}
	return text, nil
}
