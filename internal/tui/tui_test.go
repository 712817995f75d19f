package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/view"
)

func newModel(t *testing.T, titles ...string) (Model, *store.Store) {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, memstore.New())
	require.NoError(t, err)
	for _, title := range titles {
		_, err := s.Add(ctx, title, "")
		require.NoError(t, err)
	}
	return New(ctx, view.NewEditor(s), nil), s
}

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typed(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enter    = tea.KeyMsg{Type: tea.KeyEnter}
	tab      = tea.KeyMsg{Type: tea.KeyTab}
	shiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	esc      = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlC    = tea.KeyMsg{Type: tea.KeyCtrlC}
)

func titles(s *store.Store) []string {
	out := []string{}
	for _, r := range s.Records() {
		out = append(out, r.Title)
	}
	return out
}

func TestAddFromForm(t *testing.T) {
	m, s := newModel(t)
	m, _ = press(t, m, typed("Buy milk"), tab, typed("2%"), enter)

	require.Equal(t, []string{"Buy milk"}, titles(s))
	assert.Equal(t, "2%", s.Records()[0].Description)
	assert.Empty(t, m.title.Value())
	assert.Empty(t, m.desc.Value())
	assert.Equal(t, focusTitle, m.focus)
	assert.Len(t, m.list.Items(), 1)
	assert.Equal(t, "added", m.status)
}

func TestEmptyTitleRaisesAlert(t *testing.T) {
	m, s := newModel(t)
	m, _ = press(t, m, typed("   "), enter)

	assert.Equal(t, alertEmptyTitle, m.alert)
	assert.Empty(t, titles(s))
	assert.Contains(t, m.View(), alertEmptyTitle)

	// swallowed while the alert is up
	m, _ = press(t, m, typed("x"))
	assert.Equal(t, "   ", m.title.Value())

	m, _ = press(t, m, enter)
	assert.Empty(t, m.alert)
	assert.Empty(t, titles(s))
}

func TestFocusCycles(t *testing.T) {
	m, _ := newModel(t)
	require.Equal(t, focusTitle, m.focus)

	m, _ = press(t, m, tab)
	assert.Equal(t, focusDescription, m.focus)
	m, _ = press(t, m, tab)
	assert.Equal(t, focusList, m.focus)
	assert.True(t, *m.listFocused)
	m, _ = press(t, m, tab)
	assert.Equal(t, focusTitle, m.focus)
	m, _ = press(t, m, shiftTab)
	assert.Equal(t, focusList, m.focus)
}

func TestEditSelected(t *testing.T) {
	m, s := newModel(t, "Buy milk", "Walk dog")
	m, _ = press(t, m, esc) // to the list
	require.Equal(t, focusList, m.focus)

	m, _ = press(t, m, typed("j"), typed("e"))
	require.Equal(t, view.ModeEdit, m.editor.Mode())
	assert.Equal(t, "Walk dog", m.title.Value())
	assert.Equal(t, focusTitle, m.focus)
	assert.Contains(t, m.View(), "Edit Task")

	m, _ = press(t, m, typed(" twice"), enter)
	assert.Equal(t, []string{"Buy milk", "Walk dog twice"}, titles(s))
	assert.Equal(t, view.ModeAdd, m.editor.Mode())
	assert.Equal(t, "saved", m.status)
}

func TestCancelEdit(t *testing.T) {
	m, s := newModel(t, "Buy milk")
	m, _ = press(t, m, esc, typed("e"), typed(" changed"), esc)

	assert.Equal(t, view.ModeAdd, m.editor.Mode())
	assert.Empty(t, m.title.Value())
	assert.Equal(t, focusList, m.focus)
	assert.Equal(t, []string{"Buy milk"}, titles(s))
}

func TestDeleteSelected(t *testing.T) {
	m, s := newModel(t, "a", "b", "c")
	m, _ = press(t, m, esc, typed("j"), typed("d"))

	assert.Equal(t, []string{"a", "c"}, titles(s))
	assert.Len(t, m.list.Items(), 2)
	assert.Equal(t, "deleted", m.status)
}

func TestDeleteEditedRecordClearsForm(t *testing.T) {
	m, s := newModel(t, "a", "b")
	m, _ = press(t, m, esc, typed("e"), esc)
	require.Equal(t, focusList, m.focus)

	// esc cancelled; start again and delete while editing
	m, _ = press(t, m, typed("e"), shiftTab)
	require.Equal(t, focusList, m.focus)
	require.Equal(t, view.ModeEdit, m.editor.Mode())

	m, _ = press(t, m, typed("d"))
	assert.Equal(t, []string{"b"}, titles(s))
	assert.Equal(t, view.ModeAdd, m.editor.Mode())
	assert.Empty(t, m.title.Value())
}

func TestDeleteOnEmptyListIsNoop(t *testing.T) {
	m, s := newModel(t)
	m, _ = press(t, m, esc, typed("d"), typed("e"))
	assert.Empty(t, titles(s))
	assert.Equal(t, view.ModeAdd, m.editor.Mode())
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t)

	// q types into the form
	m, _ = press(t, m, typed("q"))
	assert.Equal(t, "q", m.title.Value())

	_, cmd := press(t, m, esc, typed("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = press(t, m, ctrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewPlaceholderAndLayout(t *testing.T) {
	m, _ := newModel(t)
	out := m.View()
	assert.Contains(t, out, "TODO LIST")
	assert.Contains(t, out, placeholderText)
	assert.Contains(t, out, "Add New Task")

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.True(t, m.wide())
	m, _ = press(t, m, typed("Buy milk"), enter)
	out = m.View()
	assert.Contains(t, out, "Buy milk")
	assert.NotContains(t, out, placeholderText)

	m, _ = press(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	assert.False(t, m.wide())
	assert.Contains(t, m.View(), "Buy milk")
}
