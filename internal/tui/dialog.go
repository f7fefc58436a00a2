package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/smileynet/contactbook/internal/form"
)

// dialogKind identifies which modal, if any, is open.
type dialogKind int

const (
	dialogNone    dialogKind = iota
	dialogMessage            // Notification; any confirm or cancel key closes it.
	dialogSearch             // Prompt for a name to search.
)

// dialogResult is what closing a dialog asks the model to do.
type dialogResult int

const (
	dialogOpen      dialogResult = iota // Still open.
	dialogDismissed                     // Closed with no further action.
	dialogSubmitted                     // Search prompt confirmed.
)

// dialogState holds the open modal.
type dialogState struct {
	kind    dialogKind
	message string
	prompt  textinput.Model
}

// newMessageDialog returns a notification dialog showing msg.
func newMessageDialog(msg string) dialogState {
	return dialogState{kind: dialogMessage, message: msg}
}

// newSearchDialog returns a focused search prompt.
func newSearchDialog() (dialogState, tea.Cmd) {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "name"
	cmd := ti.Focus()
	return dialogState{kind: dialogSearch, message: form.MsgSearchPrompt, prompt: ti}, cmd
}

// open reports whether a dialog is showing.
func (ds dialogState) open() bool {
	return ds.kind != dialogNone
}

// query returns the search prompt's text.
func (ds dialogState) query() string {
	return ds.prompt.Value()
}

// Update routes a key press to the open dialog.
func (ds dialogState) Update(msg tea.KeyMsg) (dialogState, dialogResult, tea.Cmd) {
	switch ds.kind {
	case dialogMessage:
		switch msg.String() {
		case "enter", "esc", " ":
			return ds, dialogDismissed, nil
		}
		return ds, dialogOpen, nil

	case dialogSearch:
		switch msg.String() {
		case "enter":
			return ds, dialogSubmitted, nil
		case "esc":
			return ds, dialogDismissed, nil
		}
		var cmd tea.Cmd
		ds.prompt, cmd = ds.prompt.Update(msg)
		return ds, dialogOpen, cmd
	}
	return ds, dialogDismissed, nil
}

// forward passes a non-key message, such as a cursor blink or clipboard
// paste, to the search prompt.
func (ds dialogState) forward(msg tea.Msg) (dialogState, tea.Cmd) {
	if ds.kind != dialogSearch {
		return ds, nil
	}
	var cmd tea.Cmd
	ds.prompt, cmd = ds.prompt.Update(msg)
	return ds, cmd
}

// View renders the dialog box.
func (ds dialogState) View() string {
	var b strings.Builder
	b.WriteString(ds.message)
	switch ds.kind {
	case dialogSearch:
		b.WriteString("\n\n")
		b.WriteString(ds.prompt.View())
		b.WriteString("\n\n  [Enter] Search   [Esc] Cancel")
	case dialogMessage:
		b.WriteString("\n\n  [Enter] OK")
	}
	return dialogStyle.Render(b.String())
}
