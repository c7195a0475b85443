// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ankitools/pkg/types"
)

// CardKind selects one family of sequence cards.
type CardKind string

const (
	CardRecallAll   CardKind = "recall-all"
	CardClozeAll    CardKind = "cloze-all"
	CardForward     CardKind = "forward"
	CardBackward    CardKind = "backward"
	CardSuccessor   CardKind = "successor"
	CardPredecessor CardKind = "predecessor"
)

// AllCardKinds lists every card kind in generation order.
var AllCardKinds = []CardKind{CardRecallAll, CardClozeAll, CardForward, CardBackward, CardSuccessor, CardPredecessor}

// ParseCardKinds parses a comma-separated selection. Empty selects forward
// cards only; "all" selects every kind.
func ParseCardKinds(s string) ([]CardKind, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []CardKind{CardForward}, nil
	}
	if strings.EqualFold(s, "all") {
		return AllCardKinds, nil
	}
	want := make(map[CardKind]bool)
	for _, part := range strings.Split(s, ",") {
		k := CardKind(strings.ToLower(strings.TrimSpace(part)))
		if !k.valid() {
			return nil, fmt.Errorf("unknown card kind %q", part)
		}
		want[k] = true
	}
	var kinds []CardKind
	for _, k := range AllCardKinds {
		if want[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func (k CardKind) valid() bool {
	for _, known := range AllCardKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Sequence is a titled, ordered list of elements.
type Sequence struct {
	Title    string   `yaml:"title"`
	Elements []string `yaml:"elements"`
}

// ParseSequence reads a title line followed by one element per line.
// Blank element lines are dropped.
func ParseSequence(text string) (Sequence, error) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return Sequence{}, fmt.Errorf("%w: expected title and at least one sequence element", ErrInvalidInput)
	}
	s := Sequence{Title: strings.TrimSpace(lines[0]), Elements: nonBlank(lines[1:])}
	return s, s.validate()
}

// ParseSequenceYAML reads a sequence from a YAML document with title and elements keys.
func ParseSequenceYAML(r io.Reader) (Sequence, error) {
	var s Sequence
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Sequence{}, fmt.Errorf("%w: decoding sequence YAML: %v", ErrInvalidInput, err)
	}
	s.Title = strings.TrimSpace(s.Title)
	s.Elements = nonBlank(s.Elements)
	return s, s.validate()
}

func (s Sequence) validate() error {
	if s.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if len(s.Elements) == 0 {
		return fmt.Errorf("%w: sequence must have at least one element", ErrInvalidInput)
	}
	return nil
}

// SequenceOptions configures sequence note generation.
type SequenceOptions struct {
	Deck  string
	Kinds []CardKind

	// Context adds the neighbouring elements to forward card fronts.
	Context bool
}

// SequenceCards builds notes for the selected card kinds. With only forward
// cards selected, N elements yield N notes.
func SequenceCards(s Sequence, opts SequenceOptions) []Draft {
	kinds := opts.Kinds
	if len(kinds) == 0 {
		kinds = []CardKind{CardForward}
	}
	selected := make(map[CardKind]bool, len(kinds))
	for _, k := range kinds {
		selected[k] = true
	}

	var drafts []Draft
	add := func(kind CardKind, label string, note types.Note) {
		drafts = append(drafts, Draft{Label: string(kind) + ": " + label, Note: note})
	}
	basic := func(kind CardKind, label, front, back string) {
		add(kind, label, basicNote(opts.Deck, front, back, TagSequence, string(kind)))
	}

	if selected[CardRecallAll] {
		basic(CardRecallAll, s.Title,
			s.Title+": Recall all elements of the sequence.",
			strings.Join(s.Elements, ", ")+".")
	}
	if selected[CardClozeAll] {
		parts := make([]string, len(s.Elements))
		for i, e := range s.Elements {
			parts[i] = fmt.Sprintf("{{c%d::%s}}", i+1, e)
		}
		add(CardClozeAll, s.Title, types.Note{
			Deck:  opts.Deck,
			Model: types.ModelCloze,
			Fields: map[string]string{
				"Text":  fmt.Sprintf("%s: Elements: %s.", s.Title, strings.Join(parts, " ")),
				"Extra": "Sequence: " + s.Title,
			},
			Tags: []string{types.TagGenerated, TagSequence, string(CardClozeAll)},
		})
	}

	last := len(s.Elements) - 1
	for i, e := range s.Elements {
		pos := i + 1
		if selected[CardForward] {
			front := fmt.Sprintf("%s: What is element #%d?", s.Title, pos)
			if opts.Context {
				front += "<br>" + neighbours(s.Elements, i)
			}
			basic(CardForward, "#"+strconv.Itoa(pos), front, e)
		}
		if selected[CardBackward] {
			basic(CardBackward, e,
				fmt.Sprintf("%s: What is the position of '%s'?", s.Title, e),
				strconv.Itoa(pos))
		}
		if selected[CardSuccessor] && i < last {
			basic(CardSuccessor, "after "+e,
				fmt.Sprintf("%s: What comes after '%s'?", s.Title, e),
				s.Elements[i+1])
		}
		if selected[CardPredecessor] && i > 0 {
			basic(CardPredecessor, "before "+e,
				fmt.Sprintf("%s: What comes before '%s'?", s.Title, e),
				s.Elements[i-1])
		}
	}
	return drafts
}

// neighbours renders "prev, ?, next" around position i.
func neighbours(elements []string, i int) string {
	var parts []string
	if i > 0 {
		parts = append(parts, elements[i-1])
	}
	parts = append(parts, "?")
	if i < len(elements)-1 {
		parts = append(parts, elements[i+1])
	}
	return strings.Join(parts, ", ")
}
