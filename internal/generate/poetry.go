// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.yaml.in/yaml/v3"
)

// ErrInvalidInput is wrapped by parse errors for poem and sequence input.
var ErrInvalidInput = errors.New("invalid input")

// beginningCue is the front of the first line's card.
const beginningCue = "<i>Beginning</i>"

// Poem is a titled, attributed list of lines.
type Poem struct {
	Title  string   `yaml:"title"`
	Author string   `yaml:"author"`
	Lines  []string `yaml:"lines"`
}

// ParsePoem reads a title line, an author line, then the poem. Blank poem
// lines are dropped and the rest trimmed.
func ParsePoem(text string) (Poem, error) {
	lines := splitLines(text)
	if len(lines) < 3 {
		return Poem{}, fmt.Errorf("%w: expected title, author, and at least one line of the poem", ErrInvalidInput)
	}
	p := Poem{
		Title:  strings.TrimSpace(lines[0]),
		Author: strings.TrimSpace(lines[1]),
		Lines:  nonBlank(lines[2:]),
	}
	return p, p.validate()
}

// ParsePoemYAML reads a poem from a YAML document with title, author and lines keys.
func ParsePoemYAML(r io.Reader) (Poem, error) {
	var p Poem
	if err := yaml.NewDecoder(r).Decode(&p); err != nil {
		return Poem{}, fmt.Errorf("%w: decoding poem YAML: %v", ErrInvalidInput, err)
	}
	p.Title = strings.TrimSpace(p.Title)
	p.Author = strings.TrimSpace(p.Author)
	p.Lines = nonBlank(p.Lines)
	return p, p.validate()
}

func (p Poem) validate() error {
	switch {
	case p.Title == "":
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	case p.Author == "":
		return fmt.Errorf("%w: author cannot be empty", ErrInvalidInput)
	case len(p.Lines) == 0:
		return fmt.Errorf("%w: poem must have at least one line", ErrInvalidInput)
	}
	return nil
}

// PoemCue returns the front for line i: a beginning marker for the first
// two lines, otherwise the previous two lines, followed by an ellipsis.
func PoemCue(lines []string, i int) string {
	switch i {
	case 0:
		return beginningCue + "<br>..."
	case 1:
		return beginningCue + "<br>" + lines[0] + "<br>..."
	default:
		return lines[i-2] + "<br>" + lines[i-1] + "<br>..."
	}
}

// Poetry builds one Basic note per poem line, in order.
func Poetry(deck string, p Poem) []Draft {
	drafts := make([]Draft, 0, len(p.Lines))
	for i, line := range p.Lines {
		drafts = append(drafts, Draft{
			Label: fmt.Sprintf("%s line %d", p.Title, i+1),
			Note:  basicNote(deck, PoemCue(p.Lines, i), line, TagPoetry),
		})
	}
	return drafts
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(strings.TrimRight(text, "\n"), "\n")
}

func nonBlank(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
