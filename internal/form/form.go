// Package form is the contract between a presentation layer and the
// contact core. A presentation layer forwards field edits to OnFieldEdit and
// button intents to OnCommand, then renders the returned Outcome.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/field"
)

// FieldID names one of the form's text inputs.
type FieldID int

const (
	NameField  FieldID = iota // Letters only.
	PhoneField                // Digits only, at most ten.
)

// String returns the field's label.
func (f FieldID) String() string {
	switch f {
	case NameField:
		return "name"
	case PhoneField:
		return "phone"
	default:
		return fmt.Sprintf("FieldID(%d)", int(f))
	}
}

// CommandKind identifies a button intent.
type CommandKind int

const (
	Add CommandKind = iota
	Search
	Edit
	Delete
)

// String returns the command's lowercase name.
func (k CommandKind) String() string {
	switch k {
	case Add:
		return "add"
	case Search:
		return "search"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("CommandKind(%d)", int(k))
	}
}

// Command is a button intent. Query is used by Search. Edit and Delete act
// on the selected row, set through EditCommand or DeleteCommand; a Command
// built as a literal has no row selected.
type Command struct {
	Kind  CommandKind
	Query string

	row int // selected index + 1; zero means no selection
}

// SearchCommand returns a Search for query.
func SearchCommand(query string) Command {
	return Command{Kind: Search, Query: query}
}

// EditCommand returns an Edit of the contact at selection.
// Pass contact.NoSelection when no row is selected.
func EditCommand(selection int) Command {
	return ForSelection(Edit, selection)
}

// DeleteCommand returns a Delete of the contact at selection.
// Pass contact.NoSelection when no row is selected.
func DeleteCommand(selection int) Command {
	return ForSelection(Delete, selection)
}

// ForSelection returns a Command of kind k targeting selection.
func ForSelection(k CommandKind, selection int) Command {
	c := Command{Kind: k}
	if selection >= 0 {
		c.row = selection + 1
	}
	return c
}

// Selection returns the targeted row, or contact.NoSelection.
func (c Command) Selection() int {
	if c.row <= 0 {
		return contact.NoSelection
	}
	return c.row - 1
}

// Reason classifies a command's outcome.
type Reason int

const (
	OK              Reason = iota // Command succeeded.
	ValidationError               // Empty name, empty phone, or phone not ten digits.
	NoSelection                   // Edit or Delete without a selected row.
	NotFound                      // Search ran and matched nothing.
	NotPerformed                  // Search was dismissed or given an empty query.
)

// String returns the reason's name.
func (r Reason) String() string {
	switch r {
	case OK:
		return "ok"
	case ValidationError:
		return "validation_error"
	case NoSelection:
		return "no_selection"
	case NotFound:
		return "not_found"
	case NotPerformed:
		return "not_performed"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// User-facing messages.
const (
	MsgInvalid          = "Please enter both name and a valid 10-digit phone number."
	MsgSelectToEdit     = "Please select a contact to edit."
	MsgSelectToDelete   = "Please select a contact to delete."
	MsgNotFound         = "Contact not found."
	MsgDeleted          = "Contact deleted."
	MsgSearchPrompt     = "Enter name to search:"
	detailsFoundHeading = "Contacts found:"
)

// Outcome is what a presentation layer renders after a command.
//
// Message is non-empty when the user should see a notification. ClearFields
// and ClearDetails tell the presentation layer to reset its inputs and the
// detail pane; the controller has already cleared its own field buffers.
// Details carries the detail pane text after a successful search.
type Outcome struct {
	Command      CommandKind
	Reason       Reason
	Message      string
	ClearFields  bool
	ClearDetails bool
	Details      string
	Matches      []contact.Contact
	Contacts     []contact.Contact
}

// Succeeded reports whether the command took effect.
func (o Outcome) Succeeded() bool {
	return o.Reason == OK
}

// Controller owns the form's field buffers and the contact store.
// Not safe for concurrent use; events are processed one at a time.
type Controller struct {
	store  *contact.Store
	fields map[FieldID]*field.Buffer
	log    zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. Defaults to a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithStore sets the backing store. Defaults to an empty store.
func WithStore(s *contact.Store) Option {
	return func(c *Controller) {
		c.store = s
	}
}

// New returns a Controller with empty Name and Phone fields.
func New(opts ...Option) *Controller {
	c := &Controller{
		store: contact.NewStore(),
		fields: map[FieldID]*field.Buffer{
			NameField:  field.NewBuffer(field.Name),
			PhoneField: field.NewBuffer(field.Phone),
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seed adds contacts through the same validation as Add.
// It stops at the first invalid contact.
func (c *Controller) Seed(contacts []contact.Contact) error {
	for i, ct := range contacts {
		if err := c.store.Add(ct.Name, ct.Phone); err != nil {
			return fmt.Errorf("form: seed contact %d: %w", i, err)
		}
	}
	c.log.Debug().Int("count", len(contacts)).Msg("seeded contacts")
	return nil
}

// OnFieldEdit proposes e against field f and reports whether it was admitted.
// Rejected edits are dropped without a user-facing message.
func (c *Controller) OnFieldEdit(f FieldID, e field.Edit) bool {
	buf, ok := c.fields[f]
	if !ok {
		return false
	}
	if err := buf.Propose(e); err != nil {
		c.log.Debug().
			Stringer("field", f).
			Stringer("kind", e.Kind).
			Str("text", e.Text).
			Err(err).
			Msg("edit dropped")
		return false
	}
	return true
}

// Text returns the committed text of field f.
func (c *Controller) Text(f FieldID) string {
	if buf, ok := c.fields[f]; ok {
		return buf.Text()
	}
	return ""
}

// Name returns the committed Name field text.
func (c *Controller) Name() string { return c.Text(NameField) }

// Phone returns the committed Phone field text.
func (c *Controller) Phone() string { return c.Text(PhoneField) }

// Contacts returns the stored contacts in display order.
func (c *Controller) Contacts() []contact.Contact {
	return c.store.Contacts()
}

// OnCommand runs cmd against the store using the current field text.
func (c *Controller) OnCommand(cmd Command) Outcome {
	var out Outcome
	switch cmd.Kind {
	case Add:
		out = c.add()
	case Search:
		out = c.search(cmd.Query)
	case Edit:
		out = c.edit(cmd.Selection())
	case Delete:
		out = c.delete(cmd.Selection())
	default:
		c.log.Warn().Stringer("command", cmd.Kind).Msg("unknown command")
		return Outcome{Command: cmd.Kind, Reason: NotPerformed, Contacts: c.store.Contacts()}
	}
	out.Command = cmd.Kind
	out.Contacts = c.store.Contacts()

	c.log.Info().
		Stringer("command", cmd.Kind).
		Stringer("reason", out.Reason).
		Int("selection", cmd.Selection()).
		Int("contacts", len(out.Contacts)).
		Msg("command handled")
	return out
}

func (c *Controller) add() Outcome {
	if err := c.store.Add(c.Name(), c.Phone()); err != nil {
		return c.failure(err, MsgInvalid)
	}
	c.clearFields()
	return Outcome{Reason: OK, ClearFields: true, ClearDetails: true}
}

func (c *Controller) search(query string) Outcome {
	result := c.store.FindByName(query)
	if !result.Performed {
		return Outcome{Reason: NotPerformed}
	}
	if result.NotFound() {
		return Outcome{Reason: NotFound, Message: MsgNotFound, ClearDetails: true}
	}
	return Outcome{Reason: OK, Matches: result.Matches, Details: FormatMatches(result.Matches)}
}

func (c *Controller) edit(selection int) Outcome {
	if err := c.store.Edit(selection, c.Name(), c.Phone()); err != nil {
		return c.failure(err, MsgSelectToEdit)
	}
	c.clearFields()
	return Outcome{Reason: OK, ClearFields: true, ClearDetails: true}
}

func (c *Controller) delete(selection int) Outcome {
	if err := c.store.Delete(selection); err != nil {
		return c.failure(err, MsgSelectToDelete)
	}
	c.clearFields()
	// Delete is the only mutation that confirms success to the user.
	return Outcome{Reason: OK, Message: MsgDeleted, ClearFields: true, ClearDetails: true}
}

// failure maps a store error to an outcome. noSelectionMsg is shown for
// ErrNoSelection; validation errors always show MsgInvalid.
func (c *Controller) failure(err error, noSelectionMsg string) Outcome {
	switch {
	case errors.Is(err, contact.ErrNoSelection):
		return Outcome{Reason: NoSelection, Message: noSelectionMsg}
	case errors.Is(err, contact.ErrValidation):
		return Outcome{Reason: ValidationError, Message: MsgInvalid}
	default:
		c.log.Error().Err(err).Msg("unexpected store error")
		return Outcome{Reason: ValidationError, Message: MsgInvalid}
	}
}

func (c *Controller) clearFields() {
	for _, buf := range c.fields {
		buf.Clear()
	}
}

// FormatMatches renders search matches for the detail pane.
func FormatMatches(matches []contact.Contact) string {
	var b strings.Builder
	b.WriteString(detailsFoundHeading)
	b.WriteByte('\n')
	for _, m := range matches {
		fmt.Fprintf(&b, "Name: %s, Phone: %s\n", m.Name, m.Phone)
	}
	return b.String()
}
