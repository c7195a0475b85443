// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini completes prompts with Google's Gemini API.
type Gemini struct {
	client   *genai.Client
	model    string
	generate func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error)
}

// NewGemini creates a Gemini completer. An empty model selects DefaultGeminiModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: creating Gemini client: %v", ErrInvalidConfig, err)
	}
	return &Gemini{
		client: client,
		model:  model,
		generate: func(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
			return client.GenerativeModel(model).GenerateContent(ctx, genai.Text(prompt))
		},
	}, nil
}

// Complete sends prompt as a single user turn and concatenates the text
// parts of the first candidate.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generate(ctx, prompt)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", geminiError(fmt.Errorf("%w: %v", ErrContentBlocked, blocked))
		}
		return "", geminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
			return "", geminiError(fmt.Errorf("%w: %v", ErrContentBlocked, resp.PromptFeedback.BlockReason))
		}
		return "", geminiError(ErrEmptyResponse)
	}

	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonSafety {
		return "", geminiError(ErrContentBlocked)
	}
	if cand.Content == nil {
		return "", geminiError(ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", geminiError(ErrEmptyResponse)
	}
	return text, nil
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func geminiError(err error) *ServiceError {
	return &ServiceError{Provider: "gemini", Op: "generate", Err: err}
}
