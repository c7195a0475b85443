// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Note models known to exist in a stock Anki collection, plus the
// multi-variant model used by the RandomBasic transformer.
const (
	ModelBasic       = "Basic"
	ModelCloze       = "Cloze"
	ModelRandomBasic = "RandomBasic"
)

// TagGenerated marks every note this tool creates.
const TagGenerated = "ankitools-generated"

// ErrInvalidNote is returned when a note payload fails boundary validation.
var ErrInvalidNote = errors.New("invalid note payload")

var noteValidator = validator.New(validator.WithRequiredStructEnabled())

// Note is a note payload ready for submission to the note store. A Note is
// built once per card and not modified after it has been sent.
type Note struct {
	// Deck is the target deck name.
	Deck string `json:"deck" yaml:"deck" validate:"required"`

	// Model is the note-type name (e.g. "Basic", "Cloze").
	Model string `json:"model" yaml:"model" validate:"required"`

	// Fields maps field name to field content. Names must match the
	// note type's schema in Anki; the schema is not checked locally.
	Fields map[string]string `json:"fields" yaml:"fields" validate:"required,min=1,dive,keys,required,endkeys"`

	// Tags are attached to the created note.
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// Validate checks the payload before it reaches the network. It catches
// missing deck/model names, empty field maps, blank field names, and notes
// where every field is blank.
func (n Note) Validate() error {
	if err := noteValidator.Struct(n); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidNote, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidNote, err)
	}
	names := n.FieldNames()
	for _, name := range names {
		if strings.TrimSpace(name) != name {
			return fmt.Errorf("%w: field name %q has surrounding whitespace", ErrInvalidNote, name)
		}
	}
	for _, name := range names {
		if strings.TrimSpace(n.Fields[name]) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: all fields are empty", ErrInvalidNote)
}

// FieldNames returns the field names in sorted order.
func (n Note) FieldNames() []string {
	names := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// FieldValue is one field of an existing note as reported by the note store.
type FieldValue struct {
	Value string `json:"value" yaml:"value"`
	Order int    `json:"order" yaml:"order"`
}

// NoteInfo is the read-only view of an existing note.
type NoteInfo struct {
	NoteID    int64                 `json:"noteId" yaml:"note_id"`
	ModelName string                `json:"modelName" yaml:"model_name"`
	Tags      []string              `json:"tags" yaml:"tags"`
	Fields    map[string]FieldValue `json:"fields" yaml:"fields"`
}

// FieldMap flattens Fields into name → value.
func (n NoteInfo) FieldMap() map[string]string {
	out := make(map[string]string, len(n.Fields))
	for k, v := range n.Fields {
		out[k] = v.Value
	}
	return out
}

// Field returns the value of the named field and whether the note has it.
func (n NoteInfo) Field(name string) (string, bool) {
	f, ok := n.Fields[name]
	return f.Value, ok
}
