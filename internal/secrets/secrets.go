// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: google-api-key, openai-api-key, anthropic-api-key.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/ankitools/pkg/types"
)

// DefaultDir is the secrets directory looked up relative to the working directory.
const DefaultDir = ".secrets"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string, logger *slog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// KeyFile names the secret file holding the API key for provider.
func KeyFile(provider types.AIProvider) string {
	switch provider {
	case types.ProviderOpenAI:
		return "openai-api-key"
	case types.ProviderClaude:
		return "anthropic-api-key"
	default:
		return "google-api-key"
	}
}

// APIKey picks the first non-blank key from the configured value, the
// provider's environment variable and the provider's secret file.
func APIKey(provider types.AIProvider, configured, envVar string, secrets map[string]string) string {
	if k := strings.TrimSpace(configured); k != "" {
		return k
	}
	if k := strings.TrimSpace(os.Getenv(envVar)); k != "" {
		return k
	}
	return secrets[KeyFile(provider)]
}
