package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error lipgloss.Style
	Selected                             lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	SymItem, SymOK, SymFail, SymEdit string
}

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var asciiBorder = lipgloss.Border{
	Top: "-", Bottom: "-", Left: "|", Right: "|",
	TopLeft: "+", TopRight: "+", BottomLeft: "+", BottomRight: "+",
}

var current = classic()

func classic() Theme {
	return Theme{
		Name:        "classic",
		Title:       lipgloss.NewStyle().Bold(true),
		Muted:       lipgloss.NewStyle().Faint(true),
		Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Selected:    lipgloss.NewStyle().Bold(true).Reverse(true),
		Border:      lipgloss.NormalBorder(),
		BorderColor: lipgloss.Color("8"),
		SymItem:     "✅", SymOK: "✔", SymFail: "✖", SymEdit: "✎",
	}
}

// SetTheme switches the current theme by name.
func SetTheme(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		current = classic()
	case "neon":
		current = Theme{
			Name:        "neon",
			Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Accent:      lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Selected:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")),
			Border:      lipgloss.RoundedBorder(),
			BorderColor: lipgloss.Color("13"),
			SymItem:     "◆", SymOK: "✔", SymFail: "✖", SymEdit: "✎",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		current = Theme{
			Name:  "mono",
			Title: plain, Muted: plain, Accent: plain, Success: plain, Error: plain,
			Selected:    lipgloss.NewStyle().Reverse(true),
			Border:      asciiBorder,
			BorderColor: lipgloss.NoColor{},
			SymItem:     "-", SymOK: "ok", SymFail: "error:", SymEdit: "*",
		}
	default:
		return fmt.Errorf("unknown theme %q (want %s)", name, strings.Join(Themes, "|"))
	}
	return nil
}

// Expose what renderers need
func Current() Theme { return current }
