package tui

import "github.com/charmbracelet/bubbles/key"

// formKeys holds key bindings for the main form.
type formKeys struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Add      key.Binding
	Search   key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Deselect key.Binding
	Quit     key.Binding
}

// ShortHelp returns the form bindings for the help bar.
func (k formKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Tab, k.Add, k.Search, k.Edit, k.Delete, k.Quit}
}

// FullHelp returns the form bindings grouped for expanded help.
func (k formKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Deselect},
		{k.Tab, k.ShiftTab},
		{k.Add, k.Search, k.Edit, k.Delete},
		{k.Quit},
	}
}

// dialogKeys holds key bindings while a dialog is open.
type dialogKeys struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns the dialog bindings for the help bar.
func (k dialogKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns the dialog bindings grouped for expanded help.
func (k dialogKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// FormKeyMap returns the key bindings for the main form.
func FormKeyMap() formKeys {
	return formKeys{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select row"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Add: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "add"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("ctrl+f", "search"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete"),
		),
		Deselect: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear selection"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// DialogKeyMap returns the key bindings for open dialogs.
func DialogKeyMap() dialogKeys {
	return dialogKeys{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ok"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
