package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Record key.Binding
	Add    key.Binding
	Save   key.Binding
	Reload key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Record: key.NewBinding(
			key.WithKeys(" ", "enter", "r"),
			key.WithHelp("space", "record event"),
		),
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a", "create goal"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Reload: key.NewBinding(
			key.WithKeys("L", "R"),
			key.WithHelp("L", "load from disk"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns the footer help text.
func (k KeyMap) ShortHelp() string {
	return "↑↓ nav  space record  a create  s save  L load  ? help  q quit"
}

// FullHelp returns all key bindings for the help modal.
func (k KeyMap) FullHelp() [][]string {
	return [][]string{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"space/enter/r", "Record an event for the selected goal"},
		{"a", "Create a goal (simple, eternal, checklist)"},
		{"s", "Save goals"},
		{"L", "Load goals from disk, discarding unsaved changes"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
}
