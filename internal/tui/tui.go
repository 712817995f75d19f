// Package tui is the interactive todo view: an add/edit form beside the
// list, driven by Bubble Tea. All state changes go through view.Editor.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

const (
	placeholderText = "Add Todo Here..."
	alertEmptyTitle = "Add Todo: the title cannot be empty."

	// side-by-side layout from this width on
	wideLayout = 90
)

type focus int

const (
	focusTitle focus = iota
	focusDescription
	focusList
)

// Model implements tea.Model on top of a view.Editor.
type Model struct {
	ctx    context.Context
	editor *view.Editor
	logger *log.Logger
	keys   keyMap

	list        list.Model
	listFocused *bool
	title       textinput.Model
	desc        textinput.Model
	help        help.Model

	focus  focus
	alert  string // blocking; swallows input until dismissed
	status string
	failed bool

	width, height int
}

// New builds the model. The form starts focused in add mode.
func New(ctx context.Context, editor *view.Editor, logger *log.Logger) Model {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	listFocused := new(bool)

	l := list.New(toItems(editor.Rows()), itemDelegate{focused: listFocused}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)
	l.DisableQuitKeybindings()
	l.Styles.PaginationStyle = ui.Current().Muted

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "📝 Enter Todo Title"
	ti.CharLimit = 200

	di := textinput.New()
	di.Prompt = "> "
	di.Placeholder = "✍️ Enter Todo Description"
	di.CharLimit = 1000

	m := Model{
		ctx:         ctx,
		editor:      editor,
		logger:      logger,
		keys:        defaultKeyMap(),
		list:        l,
		listFocused: listFocused,
		title:       ti,
		desc:        di,
		help:        help.New(),
		width:       80,
		height:      24,
	}
	m.setFocus(focusTitle)
	m.layout()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, editor *view.Editor, logger *log.Logger) error {
	p := tea.NewProgram(New(ctx, editor, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.alert != "" {
			if key.Matches(msg, m.keys.Dismiss) {
				m.alert = ""
			}
			return m, nil
		}
		if m.focus == focusList {
			return m.updateList(msg)
		}
		return m.updateForm(msg)
	}

	var cmd tea.Cmd
	if m.focus == focusList {
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m.forwardToInput(msg)
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus(m.focus.next())
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(m.focus.prev())
		return m, cmd
	case key.Matches(msg, m.keys.Cancel):
		if _, editing := m.editor.Editing(); editing {
			m.editor.Cancel()
			m.syncInputs()
			m.refresh()
			m.setStatus("edit cancelled", false)
		}
		cmd := m.setFocus(focusList)
		return m, cmd
	}
	return m.forwardToInput(msg)
}

// forwardToInput feeds msg to the focused field and mirrors its value into
// the editor.
func (m Model) forwardToInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusTitle:
		m.title, cmd = m.title.Update(msg)
		m.editor.SetTitle(m.title.Value())
	case focusDescription:
		m.desc, cmd = m.desc.Update(msg)
		m.editor.SetDescription(m.desc.Value())
	}
	return m, cmd
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus(focusTitle)
		return m, cmd
	case key.Matches(msg, m.keys.New):
		if _, editing := m.editor.Editing(); editing {
			m.editor.Cancel()
			m.syncInputs()
			m.refresh()
		}
		cmd := m.setFocus(focusTitle)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := m.editor.BeginEdit(row.ID); err != nil {
			m.logger.Warn("edit target missing", "id", row.ID)
			m.refresh()
			return m, nil
		}
		m.syncInputs()
		m.refresh()
		cmd := m.setFocus(focusTitle)
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if err := m.editor.Delete(m.ctx, row.ID); err != nil {
			if !errors.Is(err, store.ErrNoRecord) {
				m.setStatus("delete: "+err.Error(), true)
			}
		} else {
			m.setStatus("deleted", false)
		}
		m.syncInputs()
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	mode := m.editor.Mode()
	r, err := m.editor.Submit(m.ctx)
	switch {
	case errors.Is(err, store.ErrEmptyTitle):
		m.alert = alertEmptyTitle
		return m, nil
	case errors.Is(err, store.ErrNoRecord):
		// edited record is gone; the editor already reset itself
	case err != nil:
		m.setStatus("save: "+err.Error(), true)
		return m, nil
	case mode == view.ModeEdit:
		m.setStatus("saved", false)
	default:
		m.setStatus("added", false)
	}
	m.syncInputs()
	m.refresh()
	if r.ID != "" {
		m.selectID(r.ID)
	}
	cmd := m.setFocus(focusTitle)
	return m, cmd
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	*m.listFocused = f == focusList
	m.title.Blur()
	m.desc.Blur()
	switch f {
	case focusTitle:
		return m.title.Focus()
	case focusDescription:
		return m.desc.Focus()
	}
	return nil
}

func (f focus) next() focus { return (f + 1) % 3 }
func (f focus) prev() focus { return (f + 2) % 3 }

func (m *Model) setStatus(s string, failed bool) {
	m.status, m.failed = s, failed
	if failed {
		m.logger.Error(s)
	}
}

// syncInputs copies the editor's fields into the inputs.
func (m *Model) syncInputs() {
	m.title.SetValue(m.editor.Title())
	m.title.CursorEnd()
	m.desc.SetValue(m.editor.Description())
	m.desc.CursorEnd()
}

// refresh rebuilds list items from freshly computed rows.
func (m *Model) refresh() {
	m.list.SetItems(toItems(m.editor.Rows()))
	if n := len(m.list.Items()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) selectID(id string) {
	for i, it := range m.list.Items() {
		if li, ok := it.(listItem); ok && li.row.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selectedRow() (view.Row, bool) {
	li, ok := m.list.SelectedItem().(listItem)
	if !ok {
		return view.Row{}, false
	}
	return li.row, true
}

func (m Model) wide() bool { return m.width >= wideLayout }

// layout sizes the inputs and list for the current window.
func (m *Model) layout() {
	formW, listW := m.width, m.width
	listH := m.height - 18
	if m.wide() {
		formW = m.width / 3
		listW = m.width - formW
		listH = m.height - 10
	}
	if listH < 3 {
		listH = 3
	}
	m.title.Width = max(formW-8, 10)
	m.desc.Width = max(formW-8, 10)
	m.list.SetSize(max(listW-4, 10), listH)
	m.help.Width = m.width
}

func (m Model) View() string {
	t := ui.Current()
	header := lipgloss.JoinVertical(lipgloss.Center,
		t.Title.Render("📝 TODO LIST"),
		t.Muted.Render("Stay organized and productive"),
	)
	header = lipgloss.PlaceHorizontal(m.width, lipgloss.Center, header)

	var body string
	if m.alert != "" {
		body = m.alertView()
	} else if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.formView(m.width/3), m.listView(m.width-m.width/3))
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, m.formView(m.width), m.listView(m.width))
	}

	footer := m.help.View(m.keys.helpFor(m.focus, m.alert != ""))
	if m.status != "" {
		st := t.Success
		if m.failed {
			st = t.Error
		}
		footer = st.Render(m.status) + "  " + footer
	}
	return strings.Join([]string{header, "", body, footer}, "\n")
}

func (m Model) box(width int, focused bool) lipgloss.Style {
	t := ui.Current()
	color := t.BorderColor
	if focused {
		color = t.Accent.GetForeground()
	}
	return lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(color).
		Padding(0, 1).
		Width(max(width-2, 10))
}

func (m Model) formView(width int) string {
	t := ui.Current()
	heading, action := "Add New Task", "enter: Add Todo"
	if m.editor.Mode() == view.ModeEdit {
		heading, action = "Edit Task", "enter: Save · esc: cancel"
	}
	lines := []string{
		t.Accent.Render(heading),
		"",
		m.title.View(),
		m.desc.View(),
		"",
		t.Muted.Render(action),
	}
	return m.box(width, m.focus != focusList).Render(strings.Join(lines, "\n"))
}

func (m Model) listView(width int) string {
	t := ui.Current()
	content := t.Muted.Render(placeholderText)
	if !m.editor.Empty() {
		content = m.list.View()
	}
	heading := fmt.Sprintf("📋 Todo List  %s", t.Muted.Render(fmt.Sprintf("(%d)", len(m.list.Items()))))
	return m.box(width, m.focus == focusList).Render(t.Title.Render(heading) + "\n\n" + content)
}

func (m Model) alertView() string {
	t := ui.Current()
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Error.GetForeground()).
		Padding(1, 3).
		Render(t.Error.Render(t.SymFail+" "+m.alert) + "\n\n" + t.Muted.Render("press enter to continue"))
	return lipgloss.Place(m.width, max(m.height-6, lipgloss.Height(box)), lipgloss.Center, lipgloss.Center, box)
}
