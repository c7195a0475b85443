// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent highlights item labels and deck names.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted is for secondary info such as note ids and reasons.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	Bold = lipgloss.NewStyle().Bold(true)
)

// Status symbols.
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolPlanned = "○"
	SymbolSkipped = "–"
)
