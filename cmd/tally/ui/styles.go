// Package ui provides the visual styling for the tally CLI output.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Semantic colors
var (
	ColorPrimary = lipgloss.Color("#101F38") // Dark Blue
	ColorAccent  = lipgloss.Color("#8BC34A") // Lime Green
	ColorMuted   = lipgloss.Color("#7f8c99")
	ColorError   = lipgloss.Color("#e53935") // Red
	ColorWarning = lipgloss.Color("#FFC107") // Yellow
)

// Styles holds the style set used by command output.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Result  lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
}

// DefaultStyles returns the standard tally style set.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Bold:    lipgloss.NewStyle().Bold(true),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
		Result:  lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(ColorError),
		Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	}
}
