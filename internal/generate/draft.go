// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package generate turns structured input (operand lists, word lists,
// poems, sequences) into note payloads and submits them to the note store.
package generate

import (
	"github.com/pdiddy/ankitools/pkg/types"
)

// Kind tags attached to generated notes.
const (
	TagArithmetic     = "mental-arithmetic"
	TagAddition       = "addition"
	TagMultiplication = "multiplication"
	TagSpelling       = "spelling-cloze"
	TagPoetry         = "poetry"
	TagSequence       = "sequence"
)

// Draft is one note ready for submission, or the reason it could not be
// built. Warning records a soft failure that still produced a note.
type Draft struct {
	Label   string
	Note    types.Note
	Err     error
	Warning string
}

func basicNote(deck, front, back string, tags ...string) types.Note {
	return types.Note{
		Deck:   deck,
		Model:  types.ModelBasic,
		Fields: map[string]string{"Front": front, "Back": back},
		Tags:   append([]string{types.TagGenerated}, tags...),
	}
}
