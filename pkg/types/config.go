package types

import "time"

// AnkiConfig holds settings for the AnkiConnect note-store client.
type AnkiConfig struct {
	// URL is the AnkiConnect endpoint (default http://127.0.0.1:8765).
	URL string `json:"url" yaml:"url" mapstructure:"url" validate:"required,url"`

	// Timeout bounds each AnkiConnect request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// AllowDuplicates lets addNote create a note whose first field already
	// exists in the deck. Re-running a generation then creates duplicates.
	AllowDuplicates bool `json:"allow_duplicates" yaml:"allow_duplicates" mapstructure:"allow_duplicates"`
}

// AIProvider identifies the generative-text backend.
type AIProvider string

const (
	ProviderGemini AIProvider = "gemini"
	ProviderOpenAI AIProvider = "openai"
	ProviderClaude AIProvider = "claude"
)

// AIConfig holds settings for the generative-text enrichment client.
type AIConfig struct {
	// Provider selects the backend: gemini, openai, or claude.
	Provider AIProvider `json:"provider" yaml:"provider" mapstructure:"provider" validate:"required,oneof=gemini openai claude"`

	// Model is the provider's model identifier. Empty selects the provider default.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider. Resolved at startup from
	// config, the provider's environment variable, or .secrets/.
	APIKey string `json:"-" yaml:"-" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (openai and claude only).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`

	// Timeout bounds a single completion call.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxRetries is the number of retries for transient failures (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RetryDelay is the base backoff delay, doubled on each retry.
	RetryDelay time.Duration `json:"retry_delay" yaml:"retry_delay" mapstructure:"retry_delay" validate:"gte=0"`
}

// SpellingConfig holds settings for the spelling generator.
type SpellingConfig struct {
	// PatternsFile is a TeX hyphenation pattern file (e.g. hyph-de-1996.pat.txt).
	// Empty selects the built-in US English patterns.
	PatternsFile string `json:"patterns_file" yaml:"patterns_file" mapstructure:"patterns_file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Config groups all settings resolved once at startup.
type Config struct {
	Anki     AnkiConfig     `json:"anki" yaml:"anki" mapstructure:"anki"`
	AI       AIConfig       `json:"ai" yaml:"ai" mapstructure:"ai"`
	Spelling SpellingConfig `json:"spelling" yaml:"spelling" mapstructure:"spelling"`
	Log      LogConfig      `json:"log" yaml:"log" mapstructure:"log"`
}
