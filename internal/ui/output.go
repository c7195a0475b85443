// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui renders command results for the console: styled tables on a
// terminal, plain lines when piped, or JSON and YAML on request.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ankitools/pkg/types"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json or yaml (any case). Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Printer writes results in one format. Styled enables lipgloss rendering
// for text output.
type Printer struct {
	W      io.Writer
	Format Format
	Styled bool
}

// Value writes v as JSON or YAML. In text mode it falls back to fmt's %v.
func (p *Printer) Value(v any) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.W)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.W)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	_, err := fmt.Fprintf(p.W, "%v\n", v)
	return err
}

// List writes names one per line, or as a JSON/YAML array.
func (p *Printer) List(names []string) error {
	if p.Format != FormatText {
		if names == nil {
			names = []string{}
		}
		return p.Value(names)
	}
	for _, n := range names {
		if p.Styled {
			n = Accent.Render(n)
		}
		if _, err := fmt.Fprintln(p.W, n); err != nil {
			return err
		}
	}
	return nil
}

// Report writes a batch report: per-item rows followed by a summary line.
func (p *Printer) Report(r types.Report) error {
	if p.Format != FormatText {
		return p.Value(r)
	}
	var err error
	if p.Styled {
		_, err = io.WriteString(p.W, styledReport(r))
	} else {
		_, err = io.WriteString(p.W, plainReport(r))
	}
	return err
}

// Summary renders the counters of r on one line.
func Summary(r types.Report) string {
	parts := []string{}
	for _, s := range []types.ItemStatus{
		types.StatusCreated, types.StatusUpdated, types.StatusPlanned, types.StatusSkipped, types.StatusFailed,
	} {
		if n := r.Count(s); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if n := r.Warnings(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d with warnings", n))
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}
	head := r.Command
	if r.DryRun {
		head += " (dry run)"
	}
	return head + ": " + strings.Join(parts, ", ")
}

func plainReport(r types.Report) string {
	var sb strings.Builder
	if r.RunTag != "" {
		fmt.Fprintf(&sb, "run tag: %s\n", r.RunTag)
	}
	for _, it := range r.Items {
		fmt.Fprintf(&sb, "%s\t%s", it.Status, it.Item)
		if it.NoteID != 0 {
			fmt.Fprintf(&sb, "\t%d", it.NoteID)
		}
		if note := detail(it); note != "" {
			fmt.Fprintf(&sb, "\t%s", note)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(Summary(r))
	sb.WriteString("\n")
	return sb.String()
}

func styledReport(r types.Report) string {
	var sb strings.Builder
	if r.RunTag != "" {
		sb.WriteString(Muted.Render("run tag "+r.RunTag) + "\n")
	}
	if len(r.Items) > 0 {
		rows := make([][]string, 0, len(r.Items))
		for _, it := range r.Items {
			id := ""
			if it.NoteID != 0 {
				id = strconv.FormatInt(it.NoteID, 10)
			}
			rows = append(rows, []string{symbol(it), it.Item, string(it.Status), id, detail(it)})
		}
		tbl := table.New().
			Border(lipgloss.HiddenBorder()).
			BorderHeader(false).
			Headers("", "ITEM", "STATUS", "NOTE", "DETAIL").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				style := lipgloss.NewStyle().PaddingRight(1)
				switch {
				case row == table.HeaderRow:
					return style.Inherit(Bold)
				case col == 1:
					return style.Inherit(Accent)
				case col >= 3:
					return style.Inherit(Muted)
				}
				return style
			})
		sb.WriteString(tbl.Render())
		sb.WriteString("\n")
	}
	sb.WriteString(Bold.Render(Summary(r)))
	sb.WriteString("\n")
	return sb.String()
}

func detail(it types.ItemResult) string {
	switch {
	case it.Reason != "" && it.Warning != "":
		return it.Reason + "; " + it.Warning
	case it.Reason != "":
		return it.Reason
	}
	return it.Warning
}

func symbol(it types.ItemResult) string {
	switch it.Status {
	case types.StatusCreated, types.StatusUpdated:
		if it.Warning != "" {
			return SymbolWarning
		}
		return SymbolSuccess
	case types.StatusFailed:
		return SymbolError
	case types.StatusPlanned:
		return SymbolPlanned
	}
	return SymbolSkipped
}
