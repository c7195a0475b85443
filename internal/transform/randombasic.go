// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package transform rewrites existing notes in place. RandomBasic turns a
// Basic note into a RandomBasic note whose prompt field holds the original
// prompt plus AI-generated rephrasings, separated by " | ".
package transform

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pdiddy/ankitools/internal/ankiconnect"
	"github.com/pdiddy/ankitools/pkg/types"
)

// Separator joins prompt variants in the rewritten field.
const Separator = " | "

// DefaultVariations is the number of rephrasings requested per note.
const DefaultVariations = 2

// Store is the part of the note-store client the transformer needs.
type Store interface {
	FindNotes(ctx context.Context, query string) ([]int64, error)
	NotesInfo(ctx context.Context, ids []int64) ([]types.NoteInfo, error)
	UpdateNote(ctx context.Context, u ankiconnect.NoteUpdate) error
}

// Rephraser returns n distinct rephrasings of text.
type Rephraser interface {
	Rephrase(ctx context.Context, text string, n int) ([]string, error)
}

// Options configures a RandomBasic run.
type Options struct {
	PromptField string
	Variations  int

	// MaxNotes keeps only the first N matching notes. Zero means no limit.
	MaxNotes int

	SourceModel string
	TargetModel string
	DryRun      bool
}

// RandomBasic rewrites matching notes one at a time.
type RandomBasic struct {
	Store     Store
	Rephraser Rephraser
	Options   Options
	Logger    *slog.Logger
}

// Run transforms every note matched by query. A failed search fails the
// run; any other problem is recorded on that note's item and the run
// continues.
func (t *RandomBasic) Run(ctx context.Context, query string) (types.Report, error) {
	opts := t.normalized()
	logger := t.Logger
	if logger == nil {
		logger = slog.Default()
	}
	report := types.Report{Command: "random-basic", Query: query, DryRun: opts.DryRun}

	ids, err := t.Store.FindNotes(ctx, query)
	if err != nil {
		return report, fmt.Errorf("finding notes for %q: %w", query, err)
	}
	report.Found = len(ids)
	logger.Info("notes found", "query", query, "count", len(ids))
	if opts.MaxNotes > 0 && len(ids) > opts.MaxNotes {
		logger.Info("limiting notes", "max_notes", opts.MaxNotes)
		ids = ids[:opts.MaxNotes]
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		item := t.transformOne(ctx, id, opts, logger)
		logger.Info("note processed",
			"n", i+1, "of", len(ids), "note_id", id, "status", item.Status, "reason", item.Reason)
		report.Add(item)
	}
	return report, nil
}

func (t *RandomBasic) transformOne(ctx context.Context, id int64, opts Options, logger *slog.Logger) types.ItemResult {
	item := types.ItemResult{Item: "note " + strconv.FormatInt(id, 10), NoteID: id}
	fail := func(format string, args ...any) types.ItemResult {
		item.Status = types.StatusFailed
		item.Reason = fmt.Sprintf(format, args...)
		return item
	}
	skip := func(reason string) types.ItemResult {
		item.Status = types.StatusSkipped
		item.Reason = reason
		return item
	}

	infos, err := t.Store.NotesInfo(ctx, []int64{id})
	if err != nil {
		return fail("fetching note: %v", err)
	}
	if len(infos) == 0 || infos[0].NoteID == 0 {
		return fail("note not found")
	}
	info := infos[0]

	if info.ModelName != opts.SourceModel {
		return skip(fmt.Sprintf("model is %q, not %q", info.ModelName, opts.SourceModel))
	}
	prompt, ok := info.Field(opts.PromptField)
	if !ok {
		return fail("field %q not found", opts.PromptField)
	}
	if strings.Contains(prompt, strings.TrimSpace(Separator)) {
		return skip("already transformed")
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fail("field %q is empty", opts.PromptField)
	}

	variants, err := t.Rephraser.Rephrase(ctx, prompt, opts.Variations)
	if err != nil {
		return fail("rephrasing: %v", err)
	}
	if len(variants) < opts.Variations {
		return fail("got %d variants, want %d", len(variants), opts.Variations)
	}
	variants = variants[:opts.Variations]
	for _, v := range variants {
		if strings.Contains(v, strings.TrimSpace(Separator)) {
			return fail("variant %q contains the separator", v)
		}
	}

	fields := info.FieldMap()
	fields[opts.PromptField] = strings.Join(append([]string{prompt}, variants...), Separator)

	if opts.DryRun {
		logger.Debug("would update note", "note_id", id, "model", opts.TargetModel, "prompt", fields[opts.PromptField])
		item.Status = types.StatusPlanned
		return item
	}

	err = t.Store.UpdateNote(ctx, ankiconnect.NoteUpdate{
		ID:     id,
		Model:  opts.TargetModel,
		Fields: fields,
		Tags:   info.Tags,
	})
	if err != nil {
		return fail("updating note: %v", err)
	}
	item.Status = types.StatusUpdated
	return item
}

func (t *RandomBasic) normalized() Options {
	opts := t.Options
	if opts.Variations < DefaultVariations {
		opts.Variations = DefaultVariations
	}
	if opts.SourceModel == "" {
		opts.SourceModel = types.ModelBasic
	}
	if opts.TargetModel == "" {
		opts.TargetModel = types.ModelRandomBasic
	}
	if opts.PromptField == "" {
		opts.PromptField = "Front"
	}
	return opts
}
