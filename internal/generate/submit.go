// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pdiddy/ankitools/pkg/types"
)

// NoteStore is the part of the note-store client generation needs.
type NoteStore interface {
	AddNote(ctx context.Context, note types.Note) (int64, error)
	CreateDeck(ctx context.Context, deck string) (int64, error)
}

// SubmitOptions controls one batch submission.
type SubmitOptions struct {
	Command string
	Deck    string
	DryRun  bool

	// RunTag is appended to every note's tags when set.
	RunTag string

	// CreateDeck ensures Deck exists before the first note is added.
	CreateDeck bool

	Logger *slog.Logger
}

// NewRunTag returns a fresh tag identifying one generation run.
func NewRunTag() string {
	return uuid.NewString()
}

// Submit sends drafts to the store one at a time. Drafts that failed to
// build and notes the store rejects are recorded as failures and the batch
// continues. In dry-run mode the store is never called. The error is
// non-nil only when the batch could not run at all.
func Submit(ctx context.Context, store NoteStore, drafts []Draft, opts SubmitOptions) (types.Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := types.Report{
		Command: opts.Command,
		Deck:    opts.Deck,
		RunTag:  opts.RunTag,
		DryRun:  opts.DryRun,
		Items:   make([]types.ItemResult, 0, len(drafts)),
	}

	if opts.CreateDeck && !opts.DryRun && opts.Deck != "" {
		if _, err := store.CreateDeck(ctx, opts.Deck); err != nil {
			return report, fmt.Errorf("creating deck %q: %w", opts.Deck, err)
		}
		logger.Info("deck ready", "deck", opts.Deck)
	}

	for _, d := range drafts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		item := types.ItemResult{Item: d.Label, Warning: d.Warning}

		if d.Err != nil {
			item.Status = types.StatusFailed
			item.Reason = d.Err.Error()
			logger.Warn("note not built", "item", d.Label, "error", d.Err)
			report.Add(item)
			continue
		}

		note := withTag(d.Note, opts.RunTag)
		if err := note.Validate(); err != nil {
			item.Status = types.StatusFailed
			item.Reason = err.Error()
			logger.Warn("invalid note", "item", d.Label, "error", err)
			report.Add(item)
			continue
		}

		if opts.DryRun {
			item.Status = types.StatusPlanned
			logger.Info("would add note", "item", d.Label, "model", note.Model, "fields", note.Fields, "tags", note.Tags)
			report.Add(item)
			continue
		}

		id, err := store.AddNote(ctx, note)
		if err != nil {
			item.Status = types.StatusFailed
			item.Reason = err.Error()
			logger.Warn("add note failed", "item", d.Label, "error", err)
		} else {
			item.Status = types.StatusCreated
			item.NoteID = id
			logger.Info("note added", "item", d.Label, "note_id", id)
		}
		report.Add(item)
	}
	return report, nil
}

// withTag returns n with tag appended, leaving n's tag slice untouched.
func withTag(n types.Note, tag string) types.Note {
	if tag == "" {
		return n
	}
	tags := make([]string, 0, len(n.Tags)+1)
	tags = append(tags, n.Tags...)
	n.Tags = append(tags, tag)
	return n
}
