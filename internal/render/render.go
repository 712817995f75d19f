// Package render formats the todo list for non-interactive output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Formats lists the names Write accepts.
var Formats = []string{"plain", "json", "yaml", "markdown"}

const (
	maxTitleWidth = 80
	placeholder   = "Add Todo Here..."
)

// Options tune rendering.
type Options struct {
	Format string
	// MarkdownStyle is a glamour standard style ("dark", "light", "notty",
	// "ascii"); empty picks one from the terminal.
	MarkdownStyle string
	Width         int
}

// entry is the scripted view of a record: 1-based index plus its fields.
type entry struct {
	Index       int    `json:"index" yaml:"index"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

func entries(records []model.Record) []entry {
	out := make([]entry, 0, len(records))
	for i, r := range records {
		out = append(out, entry{Index: i + 1, Title: r.Title, Description: r.Description})
	}
	return out
}

// Write renders records to w in the requested format.
func Write(w io.Writer, records []model.Record, opts Options) error {
	switch strings.ToLower(opts.Format) {
	case "", "plain":
		_, err := fmt.Fprintln(w, Plain(records))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries(records))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries(records)); err != nil {
			return err
		}
		return enc.Close()
	case "markdown", "md":
		out, err := Markdown(records, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want %s)", opts.Format, strings.Join(Formats, "|"))
	}
}

// Plain draws the list inside a themed panel, like the TUI's list pane.
func Plain(records []model.Record) string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s  %s %d", t.Title.Render("Todo List"), t.Accent.Render("Total"), len(records)),
		"",
	}
	if len(records) == 0 {
		lines = append(lines, t.Muted.Render(placeholder))
	}
	for i, r := range records {
		idx := t.Muted.Render(fmt.Sprintf("%2d.", i+1))
		lines = append(lines, fmt.Sprintf("%s %s %s", idx, t.SymItem, ui.Truncate(r.Title, maxTitleWidth)))
		if r.Description != "" {
			for _, dl := range strings.Split(r.Description, "\n") {
				lines = append(lines, "    "+t.Muted.Render(ui.Truncate(dl, maxTitleWidth)))
			}
		}
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `todo add \"Buy milk\" -d 2%`"))
	return ui.Panel(lines)
}

// MarkdownSource builds the markdown document before styling.
func MarkdownSource(records []model.Record) string {
	var b strings.Builder
	b.WriteString("# Todo List\n\n")
	if len(records) == 0 {
		b.WriteString("_" + placeholder + "_\n")
		return b.String()
	}
	for i, r := range records {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, escapeInline(r.Title))
		if r.Description != "" {
			for _, dl := range strings.Split(r.Description, "\n") {
				fmt.Fprintf(&b, "   %s\n", dl)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Markdown renders the list as styled markdown via glamour. Descriptions
// are passed through, so markdown typed into them is honoured.
func Markdown(records []model.Record, opts Options) (string, error) {
	ropts := []glamour.TermRendererOption{}
	if opts.MarkdownStyle != "" {
		ropts = append(ropts, glamour.WithStandardStyle(opts.MarkdownStyle))
	} else {
		ropts = append(ropts, glamour.WithAutoStyle())
	}
	if opts.Width > 0 {
		ropts = append(ropts, glamour.WithWordWrap(opts.Width))
	}
	r, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(MarkdownSource(records))
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

var inlineEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`")

func escapeInline(s string) string { return inlineEscaper.Replace(s) }
