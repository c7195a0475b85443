// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textutil splits words into syllables and formats numbers for
// card text.
package textutil

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/speedata/hyphenation"
)

//go:embed patterns/hyph-en-us.pat.txt
var enUSPatterns []byte

// Hyphenator splits a word into syllables. Joining the result yields the
// word unchanged.
type Hyphenator interface {
	Syllables(word string) []string
}

// Patterns hyphenates with TeX hyphenation patterns. Every syllable keeps
// at least two letters at the start and end of a word.
type Patterns struct {
	lang *hyphenation.Lang
}

// ParsePatterns reads TeX patterns in the hyph-utf8 .pat.txt format.
func ParsePatterns(r io.Reader) (*Patterns, error) {
	lang, err := hyphenation.New(r)
	if err != nil {
		return nil, err
	}
	// Lang.Leftmin keeps one rune more than its value.
	lang.Leftmin, lang.Rightmin = 1, 2
	return &Patterns{lang: lang}, nil
}

// LoadPatterns reads a pattern file such as hyph-de-1996.pat.txt.
func LoadPatterns(path string) (*Patterns, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ParsePatterns(f)
	if err != nil {
		return nil, fmt.Errorf("parsing hyphenation patterns %s: %w", path, err)
	}
	return p, nil
}

var english = sync.OnceValue(func() *Patterns {
	p, err := ParsePatterns(bytes.NewReader(enUSPatterns))
	if err != nil {
		panic(fmt.Sprintf("textutil: built-in en-US patterns: %v", err))
	}
	return p
})

// English returns the built-in US English patterns.
func English() *Patterns {
	return english()
}

// Syllables splits word at the pattern break points.
func (p *Patterns) Syllables(word string) []string {
	if strings.TrimSpace(word) == "" {
		return nil
	}
	return splitAt([]rune(word), p.lang.Hyphenate(word))
}

// LoadHyphenator returns the patterns in path, or the built-in English
// patterns when path is empty.
func LoadHyphenator(path string) (Hyphenator, error) {
	if path == "" {
		return English(), nil
	}
	p, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// splitAt cuts runes before each break position. Positions outside the word
// or out of order are ignored.
func splitAt(runes []rune, breaks []int) []string {
	var out []string
	start := 0
	for _, b := range breaks {
		if b <= start || b >= len(runes) {
			continue
		}
		out = append(out, string(runes[start:b]))
		start = b
	}
	return append(out, string(runes[start:]))
}
