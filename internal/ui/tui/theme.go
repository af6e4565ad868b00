package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	base     = lipgloss.Color("#1a1a1a")
	text     = lipgloss.Color("#ffffff")
	subtext  = lipgloss.Color("#adadad")
	surface  = lipgloss.Color("#363636")
	lavender = lipgloss.Color("#b4befe")
	peach    = lipgloss.Color("#fab387")
	red      = lipgloss.Color("#f38ba8")

	appStyle = lipgloss.NewStyle().
		Background(base).
		Foreground(text).
		Padding(1, 2)

	titleStyle = lipgloss.NewStyle().Foreground(text).Bold(true).MarginBottom(1)
	mutedStyle = lipgloss.NewStyle().Foreground(subtext)
	errorStyle = lipgloss.NewStyle().Foreground(red)
	cardStyle  = lipgloss.NewStyle().Foreground(peach).Bold(true)

	areaStyle = lipgloss.NewStyle().
		Foreground(subtext).
		Padding(0, 1).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(surface)

	areaActiveStyle = areaStyle.Foreground(text).BorderForeground(lavender)
)

// RenderMarkdown renders a reading for the terminal. Rendering problems fall
// back to the raw text.
func RenderMarkdown(md string, width int) string {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}
