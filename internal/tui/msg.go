// Package tui implements the contact form as a Bubble Tea program: a
// contacts table, Name and Phone inputs, a details pane and modal dialogs.
// All contact logic lives behind form.Controller; this package only turns
// key presses into field edits and commands.
package tui

// Focus identifies the widget receiving key presses.
type Focus int

const (
	FocusTable Focus = iota // Contacts table; up/down move, enter selects.
	FocusName               // Name input.
	FocusPhone              // Phone input.
	focusCount
)

// String returns the focus target's name.
func (f Focus) String() string {
	switch f {
	case FocusTable:
		return "table"
	case FocusName:
		return "name"
	case FocusPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// next returns the focus target after f, wrapping around.
func (f Focus) next() Focus {
	return (f + 1) % focusCount
}

// prev returns the focus target before f, wrapping around.
func (f Focus) prev() Focus {
	return (f + focusCount - 1) % focusCount
}
