package tui

import (
	"strings"

	"tagdo/tagdo/models"

	"github.com/charmbracelet/lipgloss"
)

const (
	iconMarker     = "■"
	fallbackMarker = "?"
	doneMarker     = "✔"
	openMarker     = "?"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	bodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A1A1AA"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#71717A"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF3B30"))
	headStyle  = lipgloss.NewStyle().Bold(true).Underline(true).MarginBottom(1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3F3F46")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.BorderForeground(lipgloss.Color("#007AFF"))
)

// TagChip renders a tag name on its palette color.
func TagChip(tag models.Tag) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(tag.Color.Hex())).
		Padding(0, 1).
		Render(tag.Name)
}

func markerFor(task models.Task) string {
	if task.Icon().Valid {
		return iconMarker
	}
	return fallbackMarker
}

func doneFor(task models.Task) string {
	if task.IsDone {
		return doneMarker
	}
	return openMarker
}

// RenderCard draws a task the way the list view shows it: icon marker and
// tag chips, bold title, body, then the done marker.
func RenderCard(task models.Task, width int, selected bool) string {
	chips := make([]string, 0, len(task.Tags)+1)
	chips = append(chips, markerFor(task))
	for _, tag := range task.Tags {
		chips = append(chips, TagChip(tag))
	}

	lines := []string{
		strings.Join(chips, " "),
		titleStyle.Render(task.Title),
	}
	if task.Content != "" {
		lines = append(lines, bodyStyle.Render(task.Content))
	}
	lines = append(lines, doneFor(task))

	style := cardStyle
	if selected {
		style = selectedCardStyle
	}
	if width > 4 {
		style = style.Width(width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}
