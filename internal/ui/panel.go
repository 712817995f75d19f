package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Panel frames lines in a box using the current theme.
func Panel(lines []string) string {
	t := Current()
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
