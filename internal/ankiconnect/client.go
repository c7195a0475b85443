// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ankiconnect is a client for the AnkiConnect add-on's local HTTP
// API. Every operation is a single POST of {action, version, params}
// answered by a {result, error} envelope. Calls are never retried.
package ankiconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pdiddy/ankitools/internal/httputil"
	"github.com/pdiddy/ankitools/pkg/types"
)

// APIVersion is the AnkiConnect protocol version this client speaks.
const APIVersion = 6

// DefaultURL is where AnkiConnect listens unless configured otherwise.
const DefaultURL = "http://127.0.0.1:8765"

// StoreError is returned for any failed note-store call. Message carries
// the error string reported by AnkiConnect when there is one.
type StoreError struct {
	Action  string
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("anki %s: %s: %v", e.Action, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("anki %s: %s", e.Action, e.Message)
	default:
		return fmt.Sprintf("anki %s: %v", e.Action, e.Err)
	}
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrMalformedResponse is wrapped when the envelope lacks result or error.
var ErrMalformedResponse = errors.New("malformed AnkiConnect response")

// Client talks to one AnkiConnect endpoint.
type Client struct {
	URL             string
	HTTP            *http.Client
	AllowDuplicates bool
}

// New returns a client for cfg. A zero URL selects DefaultURL.
func New(cfg types.AnkiConfig) *Client {
	url := cfg.URL
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		URL:             url,
		HTTP:            &http.Client{Timeout: cfg.Timeout},
		AllowDuplicates: cfg.AllowDuplicates,
	}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// invoke runs one action and decodes the result into out (which may be nil).
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	var env map[string]json.RawMessage
	err := httputil.PostJSON(ctx, c.HTTP, c.URL, request{Action: action, Version: APIVersion, Params: params}, &env)
	if err != nil {
		return &StoreError{Action: action, Err: err}
	}

	rawResult, hasResult := env["result"]
	rawErr, hasErr := env["error"]
	if !hasResult || !hasErr {
		return &StoreError{Action: action, Err: ErrMalformedResponse}
	}

	if string(rawErr) != "null" {
		var msg string
		if err := json.Unmarshal(rawErr, &msg); err != nil {
			msg = string(rawErr)
		}
		return &StoreError{Action: action, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(rawResult, out); err != nil {
		return &StoreError{Action: action, Err: fmt.Errorf("decoding result: %w", err)}
	}
	return nil
}

// Version returns the AnkiConnect API version; used as a reachability probe.
func (c *Client) Version(ctx context.Context) (int, error) {
	var v int
	if err := c.invoke(ctx, "version", nil, &v); err != nil {
		return 0, err
	}
	return v, nil
}

// DeckNames lists all deck names in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.invoke(ctx, "deckNames", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// CreateDeck creates the deck if it does not exist and returns its id.
func (c *Client) CreateDeck(ctx context.Context, deck string) (int64, error) {
	var id int64
	if err := c.invoke(ctx, "createDeck", map[string]string{"deck": deck}, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// FindNotes returns the ids of notes matching an Anki search query.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	var ids []int64
	if err := c.invoke(ctx, "findNotes", map[string]string{"query": query}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// NotesInfo returns details for the given note ids in request order.
func (c *Client) NotesInfo(ctx context.Context, ids []int64) ([]types.NoteInfo, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var infos []types.NoteInfo
	if err := c.invoke(ctx, "notesInfo", map[string][]int64{"notes": ids}, &infos); err != nil {
		return nil, err
	}
	return infos, nil
}

// NoteFields returns the current field mapping of one note.
func (c *Client) NoteFields(ctx context.Context, id int64) (map[string]string, error) {
	infos, err := c.NotesInfo(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	// notesInfo answers an unknown id with an empty object.
	if len(infos) == 0 || infos[0].NoteID == 0 {
		return nil, &StoreError{Action: "notesInfo", Message: fmt.Sprintf("note %d not found", id)}
	}
	return infos[0].FieldMap(), nil
}

type addNoteParams struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags,omitempty"`
	Options   addNoteOptions    `json:"options"`
}

type addNoteOptions struct {
	AllowDuplicate bool   `json:"allowDuplicate"`
	DuplicateScope string `json:"duplicateScope"`
}

// AddNote validates the payload and creates the note, returning its id.
func (c *Client) AddNote(ctx context.Context, note types.Note) (int64, error) {
	if err := note.Validate(); err != nil {
		return 0, &StoreError{Action: "addNote", Err: err}
	}
	params := map[string]addNoteParams{
		"note": {
			DeckName:  note.Deck,
			ModelName: note.Model,
			Fields:    note.Fields,
			Tags:      note.Tags,
			Options: addNoteOptions{
				AllowDuplicate: c.AllowDuplicates,
				DuplicateScope: "deck",
			},
		},
	}
	var id *int64
	if err := c.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	if id == nil || *id == 0 {
		return 0, &StoreError{Action: "addNote", Message: "no note id returned"}
	}
	return *id, nil
}

// NoteUpdate describes an in-place change to an existing note. An empty
// Model keeps the note type and only replaces the given fields; a non-empty
// Model switches the note type, in which case Fields must cover the new
// type's fields. Nil Tags leave tags unchanged.
type NoteUpdate struct {
	ID     int64
	Model  string
	Fields map[string]string
	Tags   []string
}

type updateNoteParams struct {
	ID        int64             `json:"id"`
	ModelName string            `json:"modelName,omitempty"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags,omitempty"`
}

// UpdateNote applies u to the note with the same id. It never creates a note.
func (c *Client) UpdateNote(ctx context.Context, u NoteUpdate) error {
	if u.ID == 0 {
		return &StoreError{Action: "updateNote", Err: fmt.Errorf("%w: note id is required", types.ErrInvalidNote)}
	}
	if len(u.Fields) == 0 {
		return &StoreError{Action: "updateNote", Err: fmt.Errorf("%w: no fields to update", types.ErrInvalidNote)}
	}

	p := updateNoteParams{ID: u.ID, Fields: u.Fields}
	action := "updateNoteFields"
	if u.Model != "" {
		action = "updateNoteModel"
		p.ModelName = u.Model
		p.Tags = u.Tags
	}
	return c.invoke(ctx, action, map[string]updateNoteParams{"note": p}, nil)
}
