package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Submit    key.Binding
	Cancel    key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Up        key.Binding
	Down      key.Binding
	Dismiss   key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Next:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		New:       key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:      key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("d", "x", "delete"), key.WithHelp("d", "delete")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Dismiss:   key.NewBinding(key.WithKeys("enter", "esc", " "), key.WithHelp("enter", "dismiss")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// bindings adapts a slice of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k keyMap) helpFor(f focus, alert bool) bindings {
	switch {
	case alert:
		return bindings{k.Dismiss}
	case f == focusList:
		return bindings{k.Up, k.Down, k.Edit, k.Delete, k.New, k.Next, k.Quit}
	default:
		return bindings{k.Submit, k.Next, k.Prev, k.Cancel, k.ForceQuit}
	}
}
