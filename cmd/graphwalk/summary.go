package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	keyStyle   = lipgloss.NewStyle().Faint(true)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// renderSummary draws a titled box of aligned key/value rows.
func renderSummary(title string, rows [][2]string) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r[0]))
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		key := keyStyle.Render(fmt.Sprintf("%-*s", width, r[0]))
		lines = append(lines, key+"  "+r[1])
	}

	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		strings.Join(lines, "\n"),
	))
}
