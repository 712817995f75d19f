package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

// listItem adapts a view.Row to bubbles/list.Item
type listItem struct {
	row view.Row
}

func (i listItem) Title() string       { return i.row.Title }
func (i listItem) Description() string { return i.row.Description }
func (i listItem) FilterValue() string { return i.row.Title }

func toItems(rows []view.Row) []list.Item {
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, listItem{row: r})
	}
	return items
}

// Two lines per record: title, then the first line of the description.
type itemDelegate struct {
	focused *bool
}

func (d itemDelegate) Height() int                             { return 2 }
func (d itemDelegate) Spacing() int                            { return 1 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := ui.Current()
	width := m.Width() - 4
	if width < 8 {
		width = 8
	}

	prefix := "  "
	selected := index == m.Index() && d.focused != nil && *d.focused
	if selected {
		prefix = t.Selected.Render(">") + " "
	}
	mark := t.SymItem
	if it.row.Editing {
		mark = t.Accent.Render(t.SymEdit)
	}
	title := ui.Truncate(it.row.Title, width)
	if selected {
		title = t.Title.Render(title)
	}

	desc := it.row.Description
	if first, _, multi := strings.Cut(desc, "\n"); multi {
		desc = first + " …"
	}
	desc = t.Muted.Render(ui.Truncate(desc, width))

	fmt.Fprintf(w, "%s%s %s\n     %s", prefix, mark, title, desc)
}
