// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// claudeMaxTokens caps the answer length; card content is short.
const claudeMaxTokens = 512

// Claude completes prompts with Anthropic's Messages API.
type Claude struct {
	client *anthropic.Client
	model  string
}

// NewClaude creates a Claude completer. An empty model selects DefaultClaudeModel.
func NewClaude(apiKey, model, baseURL string) *Claude {
	if model == "" {
		model = DefaultClaudeModel
	}
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Claude{client: anthropic.NewClient(apiKey, opts...), model: model}
}

func (c *Claude) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(prompt)},
			},
		},
		MaxTokens: claudeMaxTokens,
	})
	if err != nil {
		return "", &ServiceError{Provider: "claude", Op: "messages", Err: err}
	}

	var sb strings.Builder
	for _, part := range resp.Content {
		if part.Text != nil {
			sb.WriteString(*part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &ServiceError{Provider: "claude", Op: "messages", Err: ErrEmptyResponse}
	}
	return text, nil
}
