// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ankiconnect

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ankitools/pkg/types"
)

// --- fake AnkiConnect ---

type recordedCall struct {
	Action  string          `json:"action"`
	Version int             `json:"version"`
	Params  json.RawMessage `json:"params"`
}

// fakeAnki answers each action with a canned {result, error} envelope and
// records every request it receives.
type fakeAnki struct {
	t         *testing.T
	responses map[string]string
	calls     []recordedCall
}

func (f *fakeAnki) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var call recordedCall
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&call))
	f.calls = append(f.calls, call)

	body, ok := f.responses[call.Action]
	if !ok {
		body = `{"result": null, "error": "unsupported action"}`
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func newFake(t *testing.T, responses map[string]string) (*fakeAnki, *Client) {
	t.Helper()
	f := &fakeAnki{t: t, responses: responses}
	ts := httptest.NewServer(f)
	t.Cleanup(ts.Close)

	c := New(types.AnkiConfig{URL: ts.URL})
	c.HTTP = ts.Client()
	return f, c
}

func (f *fakeAnki) params(t *testing.T, i int, v any) {
	t.Helper()
	require.Greater(t, len(f.calls), i)
	require.NoError(t, json.Unmarshal(f.calls[i].Params, v))
}

// --- tests ---

func TestVersion_SendsEnvelope(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"version": `{"result": 6, "error": null}`,
	})

	v, err := c.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, v)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "version", f.calls[0].Action)
	assert.Equal(t, APIVersion, f.calls[0].Version)
}

func TestDeckNames(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"deckNames": `{"result": ["Default", "Spelling::Grade 3"], "error": null}`,
	})

	decks, err := c.DeckNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Default", "Spelling::Grade 3"}, decks)
}

func TestFindNotes_PassesQuery(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"findNotes": `{"result": [1496198395707, 1496198395708], "error": null}`,
	})

	ids, err := c.FindNotes(context.Background(), "deck:Geography tag:capitals")
	require.NoError(t, err)
	assert.Equal(t, []int64{1496198395707, 1496198395708}, ids)

	var p map[string]string
	f.params(t, 0, &p)
	assert.Equal(t, "deck:Geography tag:capitals", p["query"])
}

func TestFindNotes_APIError(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"findNotes": `{"result": null, "error": "invalid search: unknown keyword"}`,
	})

	_, err := c.FindNotes(context.Background(), "foo:bar")
	require.Error(t, err)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "findNotes", se.Action)
	assert.Equal(t, "invalid search: unknown keyword", se.Message)
}

func TestNotesInfo_DecodesFields(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"notesInfo": `{"result": [{
			"noteId": 42,
			"modelName": "Basic",
			"tags": ["geo"],
			"fields": {
				"Front": {"value": "Capital of France?", "order": 0},
				"Back": {"value": "Paris", "order": 1}
			}
		}], "error": null}`,
	})

	infos, err := c.NotesInfo(context.Background(), []int64{42})
	require.NoError(t, err)
	require.Len(t, infos, 1)

	n := infos[0]
	assert.Equal(t, int64(42), n.NoteID)
	assert.Equal(t, "Basic", n.ModelName)
	assert.Equal(t, []string{"geo"}, n.Tags)
	front, ok := n.Field("Front")
	assert.True(t, ok)
	assert.Equal(t, "Capital of France?", front)
	assert.Equal(t, 1, n.Fields["Back"].Order)
}

func TestNotesInfo_EmptyIDsSkipsRequest(t *testing.T) {
	f, c := newFake(t, nil)

	infos, err := c.NotesInfo(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.Empty(t, f.calls)
}

func TestNoteFields(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"notesInfo": `{"result": [{"noteId": 7, "modelName": "Basic", "tags": [],
			"fields": {"Front": {"value": "a", "order": 0}, "Back": {"value": "b", "order": 1}}}], "error": null}`,
	})

	fields, err := c.NoteFields(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Front": "a", "Back": "b"}, fields)
}

func TestNoteFields_UnknownNote(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"notesInfo": `{"result": [{}], "error": null}`,
	})

	_, err := c.NoteFields(context.Background(), 99)
	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Contains(t, se.Message, "not found")
}

func TestAddNote_Params(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"addNote": `{"result": 1659012345678, "error": null}`,
	})
	c.AllowDuplicates = true

	id, err := c.AddNote(context.Background(), types.Note{
		Deck:   "Math",
		Model:  types.ModelBasic,
		Fields: map[string]string{"Front": "7 × 8", "Back": "56"},
		Tags:   []string{types.TagGenerated, "multiplication"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1659012345678), id)

	var p struct {
		Note addNoteParams `json:"note"`
	}
	f.params(t, 0, &p)
	assert.Equal(t, "Math", p.Note.DeckName)
	assert.Equal(t, "Basic", p.Note.ModelName)
	assert.Equal(t, "56", p.Note.Fields["Back"])
	assert.Equal(t, []string{types.TagGenerated, "multiplication"}, p.Note.Tags)
	assert.True(t, p.Note.Options.AllowDuplicate)
	assert.Equal(t, "deck", p.Note.Options.DuplicateScope)
}

func TestAddNote_InvalidPayloadNeverSent(t *testing.T) {
	f, c := newFake(t, nil)

	tests := []struct {
		name string
		note types.Note
	}{
		{"missing deck", types.Note{Model: "Basic", Fields: map[string]string{"Front": "x"}}},
		{"missing model", types.Note{Deck: "D", Fields: map[string]string{"Front": "x"}}},
		{"no fields", types.Note{Deck: "D", Model: "Basic"}},
		{"empty field name", types.Note{Deck: "D", Model: "Basic", Fields: map[string]string{"": "x"}}},
		{"all fields blank", types.Note{Deck: "D", Model: "Basic", Fields: map[string]string{"Front": " ", "Back": ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.AddNote(context.Background(), tt.note)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrInvalidNote)
		})
	}
	assert.Empty(t, f.calls)
}

func TestAddNote_DuplicateRejected(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"addNote": `{"result": null, "error": "cannot create note because it is a duplicate"}`,
	})

	_, err := c.AddNote(context.Background(), types.Note{
		Deck: "D", Model: "Basic", Fields: map[string]string{"Front": "1 + 1", "Back": "2"},
	})
	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "addNote", se.Action)
	assert.Contains(t, se.Error(), "duplicate")
}

func TestUpdateNote_FieldsOnly(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"updateNoteFields": `{"result": null, "error": null}`,
	})

	err := c.UpdateNote(context.Background(), NoteUpdate{ID: 5, Fields: map[string]string{"Back": "new"}})
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "updateNoteFields", f.calls[0].Action)

	var p struct {
		Note updateNoteParams `json:"note"`
	}
	f.params(t, 0, &p)
	assert.Equal(t, int64(5), p.Note.ID)
	assert.Empty(t, p.Note.ModelName)
	assert.Equal(t, "new", p.Note.Fields["Back"])
}

func TestUpdateNote_ChangesModel(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"updateNoteModel": `{"result": null, "error": null}`,
	})

	err := c.UpdateNote(context.Background(), NoteUpdate{
		ID:     5,
		Model:  types.ModelRandomBasic,
		Fields: map[string]string{"Front": "a | b | c", "Back": "d"},
		Tags:   []string{"keep"},
	})
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	assert.Equal(t, "updateNoteModel", f.calls[0].Action)

	var p struct {
		Note updateNoteParams `json:"note"`
	}
	f.params(t, 0, &p)
	assert.Equal(t, "RandomBasic", p.Note.ModelName)
	assert.Equal(t, []string{"keep"}, p.Note.Tags)
}

func TestUpdateNote_RejectsEmptyUpdate(t *testing.T) {
	f, c := newFake(t, nil)

	assert.Error(t, c.UpdateNote(context.Background(), NoteUpdate{Fields: map[string]string{"a": "b"}}))
	assert.Error(t, c.UpdateNote(context.Background(), NoteUpdate{ID: 1}))
	assert.Empty(t, f.calls)
}

func TestInvoke_MalformedEnvelope(t *testing.T) {
	_, c := newFake(t, map[string]string{
		"deckNames": `{"decks": []}`,
	})

	_, err := c.DeckNames(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestInvoke_HTTPFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	c := New(types.AnkiConfig{URL: ts.URL})
	_, err := c.DeckNames(context.Background())

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "deckNames", se.Action)
	assert.Contains(t, se.Error(), "HTTP 500")
}

func TestInvoke_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c := New(types.AnkiConfig{URL: url})
	_, err := c.Version(context.Background())

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "version", se.Action)
}

func TestCreateDeck(t *testing.T) {
	f, c := newFake(t, map[string]string{
		"createDeck": `{"result": 1519323742721, "error": null}`,
	})

	id, err := c.CreateDeck(context.Background(), "Poetry")
	require.NoError(t, err)
	assert.Equal(t, int64(1519323742721), id)

	var p map[string]string
	f.params(t, 0, &p)
	assert.Equal(t, "Poetry", p["deck"])
}
