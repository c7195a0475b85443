// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinVariants is the smallest rephrasing request the enricher accepts.
const MinVariants = 2

// variantSeparator joins variants inside a RandomBasic field, so a variant
// may not contain it.
const variantSeparator = "|"

// listMarker matches bullets and numbering a model may put in front of a line.
var listMarker = regexp.MustCompile(`^\s*(?:[-*•]+|\d+[.)]|\(\d+\))\s*`)

// Enricher turns completions into card content.
type Enricher struct {
	Completer Completer
}

// NewEnricher returns an Enricher backed by c.
func NewEnricher(c Completer) *Enricher {
	return &Enricher{Completer: c}
}

// Describe returns a short hint for word with the trailing period removed
// and the first letter capitalised.
func (e *Enricher) Describe(ctx context.Context, word string) (string, error) {
	prompt, err := render(describePromptTmpl, struct{ Word string }{word})
	if err != nil {
		return "", err
	}
	text, err := e.Completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	desc := cleanDescription(text)
	if desc == "" {
		return "", &ServiceError{Provider: "ai", Op: "describe", Err: ErrEmptyResponse}
	}
	return desc, nil
}

// Rephrase asks for n alternative phrasings of text. The result holds
// exactly n distinct variants, none equal to text.
func (e *Enricher) Rephrase(ctx context.Context, text string, n int) ([]string, error) {
	if n < MinVariants {
		n = MinVariants
	}
	prompt, err := render(rephrasePromptTmpl, struct {
		Text  string
		Count int
	}{text, n})
	if err != nil {
		return nil, err
	}
	out, err := e.Completer.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	variants := ParseVariants(out, text)
	if len(variants) < n {
		return nil, &ServiceError{
			Provider: "ai",
			Op:       "rephrase",
			Err:      fmt.Errorf("%w: got %d, want %d", ErrTooFewVariants, len(variants), n),
		}
	}
	return variants[:n], nil
}

// ParseVariants splits a completion into one variant per line. Blank lines,
// list markers, surrounding quotes, copies of original, repeats
// (case-insensitive) and lines containing the "|" separator are removed.
func ParseVariants(completion, original string) []string {
	seen := map[string]bool{normalize(original): true}
	var variants []string
	for _, line := range strings.Split(completion, "\n") {
		v := listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		v = strings.Trim(v, `"'`)
		v = strings.TrimSpace(v)
		if v == "" || strings.Contains(v, variantSeparator) {
			continue
		}
		key := normalize(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		variants = append(variants, v)
	}
	return variants
}

func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func cleanDescription(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
