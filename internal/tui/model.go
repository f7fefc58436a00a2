package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/field"
	"github.com/smileynet/contactbook/internal/form"
)

// borderChrome is the number of lines consumed by top + bottom borders.
const borderChrome = 2

// formChrome is the number of lines below the panes: inputs, buttons, help.
const formChrome = 5

// Column widths for the contacts table.
const (
	markerColumnWidth = 1
	phoneColumnWidth  = field.PhoneMaxLength + 2
)

// Model is the root Bubble Tea model for the contact form.
type Model struct {
	ctrl  *form.Controller
	title string

	table    table.Model
	inputs   [2]textinput.Model // indexed by form.FieldID
	focus    Focus
	selected int
	details  string
	dialog   dialogState

	keys   formKeys
	help   help.Model
	width  int
	height int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTitle sets the header shown above the table.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.title = title
	}
}

// NewModel creates a form Model over ctrl with the table focused and no row
// selected. Existing contacts in ctrl are shown immediately.
func NewModel(ctrl *form.Controller, opts ...ModelOption) Model {
	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = "letters only"
	name.Width = 15

	phone := textinput.New()
	phone.Prompt = ""
	phone.Placeholder = "10 digits"
	phone.Width = field.PhoneMaxLength + 1

	tbl := table.New(
		table.WithColumns(columns(20)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true)
	tbl.SetStyles(styles)

	m := Model{
		ctrl:     ctrl,
		title:    "Contact Management System",
		table:    tbl,
		inputs:   [2]textinput.Model{form.NameField: name, form.PhoneField: phone},
		focus:    FocusTable,
		selected: contact.NoSelection,
		keys:     FormKeyMap(),
		help:     help.New(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.setRows(ctrl.Contacts())
	return m
}

// columns returns the table columns for a given name column width.
func columns(nameWidth int) []table.Column {
	return []table.Column{
		{Title: "", Width: markerColumnWidth},
		{Title: "Name", Width: nameWidth},
		{Title: "Phone", Width: phoneColumnWidth},
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the selected row index, or contact.NoSelection.
func (m Model) Selected() int {
	return m.selected
}

// Details returns the detail pane text.
func (m Model) Details() string {
	return m.details
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case tea.KeyMsg:
		if m.dialog.open() {
			return m.handleDialogKey(msg)
		}
		return m.handleKey(msg)
	}

	// Clipboard pastes and cursor blinks arrive as non-key messages for the
	// focused input.
	if m.dialog.open() {
		var cmd tea.Cmd
		m.dialog, cmd = m.dialog.forward(msg)
		return m, cmd
	}
	switch m.focus {
	case FocusName:
		return m.editField(form.NameField, msg)
	case FocusPhone:
		return m.editField(form.PhoneField, msg)
	}
	return m, nil
}

// handleDialogKey routes keys to the open dialog and acts on its result.
func (m Model) handleDialogKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	ds, result, cmd := m.dialog.Update(msg)
	switch result {
	case dialogOpen:
		m.dialog = ds
		return m, cmd
	case dialogSubmitted:
		query := ds.query()
		m.dialog = dialogState{}
		return m.runCommand(form.SearchCommand(query))
	default:
		m.dialog = dialogState{}
		return m, nil
	}
}

// handleKey processes key messages with global and focus-specific routing.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Tab):
		return m.setFocus(m.focus.next())
	case key.Matches(msg, m.keys.ShiftTab):
		return m.setFocus(m.focus.prev())
	case key.Matches(msg, m.keys.Add):
		return m.runCommand(form.Command{Kind: form.Add})
	case key.Matches(msg, m.keys.Search):
		ds, cmd := newSearchDialog()
		m.dialog = ds
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		return m.runCommand(form.EditCommand(m.selected))
	case key.Matches(msg, m.keys.Delete):
		return m.runCommand(form.DeleteCommand(m.selected))
	case key.Matches(msg, m.keys.Deselect):
		m.selected = contact.NoSelection
		m.refreshMarker()
		return m, nil
	}

	switch m.focus {
	case FocusName:
		return m.editField(form.NameField, msg)
	case FocusPhone:
		return m.editField(form.PhoneField, msg)
	default:
		return m.handleTableKey(msg)
	}
}

// handleTableKey moves the table cursor and selects rows.
func (m Model) handleTableKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Select) {
		rows := m.table.Rows()
		if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(rows) {
			m.selected = cursor
			m.refreshMarker()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// editField lets the input compute its proposed value, then forwards the
// difference to the controller. A rejected edit leaves the input as it was,
// cursor included. A bracketed paste arrives as one key message and is
// judged as a single insertion.
func (m Model) editField(id form.FieldID, msg tea.Msg) (tea.Model, tea.Cmd) {
	current := m.inputs[id]
	before := current.Value()
	next, cmd := current.Update(msg)

	e, changed := field.Diff(before, next.Value())
	if changed && !m.ctrl.OnFieldEdit(id, e) {
		return m, nil
	}
	m.inputs[id] = next
	return m, cmd
}

// setFocus moves keyboard focus to f.
func (m Model) setFocus(f Focus) (tea.Model, tea.Cmd) {
	m.focus = f
	var cmd tea.Cmd
	for id := range m.inputs {
		if focusFor(form.FieldID(id)) == f {
			cmd = m.inputs[id].Focus()
		} else {
			m.inputs[id].Blur()
		}
	}
	if f == FocusTable {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	return m, cmd
}

// focusFor maps a form field to its focus target.
func focusFor(id form.FieldID) Focus {
	if id == form.PhoneField {
		return FocusPhone
	}
	return FocusName
}

// runCommand sends cmd to the controller and renders the outcome.
func (m Model) runCommand(cmd form.Command) (tea.Model, tea.Cmd) {
	out := m.ctrl.OnCommand(cmd)
	m.apply(out)
	return m, nil
}

// apply renders a command outcome: table rows, inputs, details and dialog.
func (m *Model) apply(out form.Outcome) {
	if out.Command == form.Delete && out.Succeeded() {
		m.selected = contact.NoSelection
	}
	m.setRows(out.Contacts)

	if out.ClearFields {
		for id := range m.inputs {
			m.inputs[id].SetValue("")
		}
	}
	if out.ClearDetails {
		m.details = ""
	}
	if out.Details != "" {
		m.details = out.Details
	}
	if out.Message != "" {
		m.dialog = newMessageDialog(out.Message)
	}
}

// setRows rebuilds the table from contacts and keeps the cursor in range.
func (m *Model) setRows(contacts []contact.Contact) {
	if m.selected >= len(contacts) {
		m.selected = contact.NoSelection
	}
	rows := lo.Map(contacts, func(c contact.Contact, i int) table.Row {
		marker := ""
		if i == m.selected {
			marker = SelectedMarker
		}
		return table.Row{marker, c.Name, c.Phone}
	})
	m.table.SetRows(rows)
	if len(rows) > 0 && m.table.Cursor() >= len(rows) {
		m.table.SetCursor(len(rows) - 1)
	}
}

// refreshMarker redraws the selection marker column.
func (m *Model) refreshMarker() {
	m.setRows(m.ctrl.Contacts())
}

// resize fits the table to the current window.
func (m *Model) resize() {
	tableWidth, _ := PaneWidths(m.width)
	nameWidth := tableWidth - borderChrome - markerColumnWidth - phoneColumnWidth - 6
	if nameWidth < 8 {
		nameWidth = 8
	}
	m.table.SetColumns(columns(nameWidth))
	m.table.SetWidth(tableWidth - borderChrome)
	m.table.SetHeight(m.contentHeight())
}

// contentHeight returns the usable height for pane content,
// accounting for the header, border chrome and the form rows.
func (m Model) contentHeight() int {
	h := m.height - 1 - borderChrome - formChrome
	if h < 3 {
		return 3
	}
	return h
}

// View renders the header, panes, inputs, buttons and help bar, or the
// open dialog.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	if m.dialog.open() {
		box := m.dialog.View()
		helpView := m.help.View(DialogKeyMap())
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box),
			helpView,
		)
	}

	tableWidth, detailsWidth := PaneWidths(m.width)
	contentHeight := m.contentHeight()

	header := lipgloss.PlaceHorizontal(m.width, lipgloss.Center, headerStyle.Render(m.title))

	tableStyle := UnfocusedBorder()
	if m.focus == FocusTable {
		tableStyle = FocusedBorder()
	}
	tablePane := tableStyle.
		Width(tableWidth - borderChrome).
		Height(contentHeight).
		Render(m.table.View())
	detailsPane := UnfocusedBorder().
		Width(max(detailsWidth-borderChrome, 0)).
		Height(contentHeight).
		Render(m.viewDetails())
	panes := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, detailsPane)

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		panes,
		m.viewInputs(),
		"",
		m.viewButtons(),
		m.help.View(m.keys),
	)
}

// viewDetails renders the detail pane content.
func (m Model) viewDetails() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Details"))
	b.WriteString("\n\n")
	if m.details == "" {
		b.WriteString(mutedText.Render("Search to show contact details"))
	} else {
		b.WriteString(m.details)
	}
	return b.String()
}

// viewInputs renders the Name and Phone inputs on one line.
func (m Model) viewInputs() string {
	name := m.inputs[form.NameField]
	phone := m.inputs[form.PhoneField]
	return "  " + labelStyle.Render("Name:") + " " + name.View() +
		"   " + labelStyle.Render("Phone:") + " " + phone.View()
}

// viewButtons renders the command buttons.
func (m Model) viewButtons() string {
	buttons := lo.Map([]form.CommandKind{form.Add, form.Search, form.Edit, form.Delete},
		func(k form.CommandKind, _ int) string { return Button(k) })
	return "  " + strings.Join(buttons, "  ")
}
