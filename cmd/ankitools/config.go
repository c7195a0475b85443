// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/ankitools/internal/ai"
	"github.com/pdiddy/ankitools/internal/secrets"
	"github.com/pdiddy/ankitools/pkg/types"
)

const (
	defaultAnkiURL      = "http://127.0.0.1:8765"
	defaultAnkiTimeout  = 30 * time.Second
	defaultAITimeout    = 60 * time.Second
	defaultAIRetries    = 2
	defaultAIRetryDelay = 2 * time.Second
)

// setDefaults registers every configuration key so environment variables
// can override keys absent from the config file.
func setDefaults(v *viper.Viper) {
	v.SetDefault("anki.url", defaultAnkiURL)
	v.SetDefault("anki.timeout", defaultAnkiTimeout)
	v.SetDefault("anki.allow_duplicates", true)

	v.SetDefault("ai.provider", string(types.ProviderGemini))
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.api_key", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", defaultAITimeout)
	v.SetDefault("ai.max_retries", defaultAIRetries)
	v.SetDefault("ai.retry_delay", defaultAIRetryDelay)

	v.SetDefault("spelling.patterns_file", "")
	v.SetDefault("log.level", "info")
}

var configValidator = validator.New(validator.WithRequiredStructEnabled())

// decodeConfig unmarshals v into a Config and validates it.
func decodeConfig(v *viper.Viper) (types.Config, error) {
	var c types.Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decoding configuration: %w", err)
	}
	c.AI.Provider = types.AIProvider(strings.ToLower(string(c.AI.Provider)))

	if err := configValidator.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return c, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// aiConfig returns the AI settings with the API key resolved and checked.
// Only commands that call the text service use it.
func aiConfig() (types.AIConfig, error) {
	c := cfg.AI
	c.APIKey = secrets.APIKey(c.Provider, c.APIKey, ai.KeyEnvVar(c.Provider), loadedSecrets)
	if err := ai.ValidateKey(c); err != nil {
		return c, err
	}
	return c, nil
}
