// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pdiddy/ankitools/internal/textutil"
	"github.com/pdiddy/ankitools/pkg/types"
)

// DescriptionUnavailable replaces the hint when the text service fails.
const DescriptionUnavailable = "Description unavailable"

// Describer produces a short hint for a word.
type Describer interface {
	Describe(ctx context.Context, word string) (string, error)
}

// SpellingOptions configures spelling note generation. A nil Describer
// leaves the hint out without a warning.
type SpellingOptions struct {
	Deck       string
	Hyphenator textutil.Hyphenator
	Describer  Describer
	Logger     *slog.Logger
}

// ReadWords reads one word per line, trimming whitespace and skipping blank lines.
func ReadWords(r io.Reader) ([]string, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading word list: %w", err)
	}
	return words, nil
}

// ClozeText renders one cloze deletion per syllable: {{c1::beau}}{{c2::ti}}{{c3::ful}}.
func ClozeText(syllables []string) string {
	var sb strings.Builder
	for i, s := range syllables {
		fmt.Fprintf(&sb, "{{c%d::%s}}", i+1, s)
	}
	return sb.String()
}

// Spelling builds one Cloze note per word. A failed description degrades
// to DescriptionUnavailable with a warning on the draft.
func Spelling(ctx context.Context, words []string, opts SpellingOptions) []Draft {
	hyph := opts.Hyphenator
	if hyph == nil {
		hyph = textutil.English()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	drafts := make([]Draft, 0, len(words))
	for _, word := range words {
		drafts = append(drafts, spellingDraft(ctx, word, hyph, opts.Describer, opts.Deck, logger))
	}
	return drafts
}

func spellingDraft(ctx context.Context, word string, hyph textutil.Hyphenator, desc Describer, deck string, logger *slog.Logger) Draft {
	d := Draft{Label: word}

	syllables := hyph.Syllables(word)
	if len(syllables) == 0 || syllables[0] == "" {
		d.Err = fmt.Errorf("syllabification produced no syllables for %q", word)
		return d
	}

	var extra []string
	if desc != nil {
		hint, err := desc.Describe(ctx, word)
		if err != nil {
			logger.Warn("word description failed", "word", word, "error", err)
			d.Warning = fmt.Sprintf("description unavailable: %v", err)
			hint = DescriptionUnavailable
		}
		extra = append(extra, hint)
	}
	extra = append(extra, "Original word: "+word)

	logger.Debug("spelling note built", "word", word, "syllables", len(syllables))
	d.Note = types.Note{
		Deck:  deck,
		Model: types.ModelCloze,
		Fields: map[string]string{
			"Text":  ClozeText(syllables),
			"Extra": strings.Join(extra, "<br>"),
		},
		Tags: []string{types.TagGenerated, TagSpelling},
	}
	return d
}
