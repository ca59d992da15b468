package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for terminal output
var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

type summaryRow struct {
	Label string
	Value string
}

// renderSummary draws a bordered panel with a title and aligned rows.
func renderSummary(title string, rows []summaryRow) string {
	width := 0
	for _, r := range rows {
		if len(r.Label) > width {
			width = len(r.Label)
		}
	}

	var b strings.Builder
	b.WriteString(progressStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, r.Label)))
		b.WriteString("  ")
		b.WriteString(r.Value)
	}
	return panelStyle.Render(b.String())
}
