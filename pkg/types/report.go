// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ItemStatus is the outcome of one item in a batch run.
type ItemStatus string

const (
	StatusCreated ItemStatus = "created"
	StatusUpdated ItemStatus = "updated"
	StatusPlanned ItemStatus = "planned"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// ItemResult records what happened to one input item (a word, a poem line,
// an existing note).
type ItemResult struct {
	// Item is a short human-readable label for the input.
	Item string `json:"item" yaml:"item"`

	Status ItemStatus `json:"status" yaml:"status"`

	// NoteID is the created or updated note, zero when none.
	NoteID int64 `json:"note_id,omitempty" yaml:"note_id,omitempty"`

	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Warning records a soft failure that did not stop the item, such as a
	// missing AI description.
	Warning string `json:"warning,omitempty" yaml:"warning,omitempty"`
}

// Report aggregates the per-item results of one command invocation.
type Report struct {
	Command string       `json:"command" yaml:"command"`
	Deck    string       `json:"deck,omitempty" yaml:"deck,omitempty"`
	Query   string       `json:"query,omitempty" yaml:"query,omitempty"`
	RunTag  string       `json:"run_tag,omitempty" yaml:"run_tag,omitempty"`
	DryRun  bool         `json:"dry_run" yaml:"dry_run"`
	Found   int          `json:"found,omitempty" yaml:"found,omitempty"`
	Items   []ItemResult `json:"items" yaml:"items"`
}

// Add appends an item result.
func (r *Report) Add(item ItemResult) {
	r.Items = append(r.Items, item)
}

// Count returns the number of items with the given status.
func (r Report) Count(status ItemStatus) int {
	n := 0
	for _, it := range r.Items {
		if it.Status == status {
			n++
		}
	}
	return n
}

// Warnings returns the number of items that completed with a warning.
func (r Report) Warnings() int {
	n := 0
	for _, it := range r.Items {
		if it.Warning != "" {
			n++
		}
	}
	return n
}

// Failures returns the failed items in input order.
func (r Report) Failures() []ItemResult {
	var out []ItemResult
	for _, it := range r.Items {
		if it.Status == StatusFailed {
			out = append(out, it)
		}
	}
	return out
}

// HasFailures reports whether any item failed.
func (r Report) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}
