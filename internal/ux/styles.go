package ux

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the console styles for one output stream. Colours are only
// emitted when the stream is a terminal that supports them.
type Styles struct {
	Title     lipgloss.Style
	Key       lipgloss.Style
	Value     lipgloss.Style
	Highlight lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Muted     lipgloss.Style
}

// NewStyles builds styles bound to w. With noColor set every style renders
// plain text.
func NewStyles(w io.Writer, noColor bool) *Styles {
	r := lipgloss.NewRenderer(w)
	if noColor {
		return &Styles{
			Title:     r.NewStyle(),
			Key:       r.NewStyle(),
			Value:     r.NewStyle(),
			Highlight: r.NewStyle(),
			Success:   r.NewStyle(),
			Warning:   r.NewStyle(),
			Error:     r.NewStyle(),
			Muted:     r.NewStyle(),
		}
	}
	return &Styles{
		Title:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Key:       r.NewStyle().Foreground(lipgloss.Color("99")),
		Value:     r.NewStyle(),
		Highlight: r.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
		Success:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Warning:   r.NewStyle().Foreground(lipgloss.Color("3")),
		Error:     r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Muted:     r.NewStyle().Foreground(lipgloss.Color("241")),
	}
}
