// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ai sends prompts to a generative-text service and turns the
// answers into card content: short word descriptions and rephrased
// prompts. Providers sit behind the Completer interface so generators and
// the transformer can be tested with a fake.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pdiddy/ankitools/pkg/types"
)

// Completer sends one prompt and returns the generated text. Failures are
// reported as *ServiceError.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-1.5-flash-latest"
	DefaultOpenAIModel = "gpt-4o-mini"
	DefaultClaudeModel = "claude-3-5-haiku-latest"
)

// placeholderKey is the value shipped in the sample .env file.
const placeholderKey = "YOUR_GOOGLE_API_KEY_HERE"

// ValidateKey rejects a missing or placeholder API key.
func ValidateKey(cfg types.AIConfig) error {
	key := strings.TrimSpace(cfg.APIKey)
	if key == "" {
		return fmt.Errorf("%w: no API key for provider %q (set %s or ai.api_key)", ErrInvalidConfig, cfg.Provider, KeyEnvVar(cfg.Provider))
	}
	if key == placeholderKey {
		return fmt.Errorf("%w: API key is still the placeholder value", ErrInvalidConfig)
	}
	return nil
}

// KeyEnvVar names the environment variable holding the provider's API key.
func KeyEnvVar(p types.AIProvider) string {
	switch p {
	case types.ProviderOpenAI:
		return "OPENAI_API_KEY"
	case types.ProviderClaude:
		return "ANTHROPIC_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// NewCompleter builds the configured provider, wrapped with timeout and
// retry handling.
func NewCompleter(ctx context.Context, logger *slog.Logger, cfg types.AIConfig) (Completer, error) {
	if err := ValidateKey(cfg); err != nil {
		return nil, err
	}

	var (
		base Completer
		err  error
	)
	switch types.AIProvider(strings.ToLower(string(cfg.Provider))) {
	case types.ProviderGemini, "":
		base, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case types.ProviderOpenAI:
		base = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case types.ProviderClaude:
		base = NewClaude(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("%w: unsupported provider %q", ErrInvalidConfig, cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("text service ready", "provider", cfg.Provider, "model", cfg.Model)
	return &Retrying{
		Next:       base,
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryDelay,
		Timeout:    cfg.Timeout,
		Logger:     logger,
	}, nil
}
