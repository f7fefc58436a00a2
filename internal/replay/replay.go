// Package replay runs a scripted sequence of field edits and commands
// through a form.Controller and reports each outcome. It drives the same
// controller the terminal UI uses, without a terminal.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/smileynet/contactbook/internal/contact"
	"github.com/smileynet/contactbook/internal/field"
	"github.com/smileynet/contactbook/internal/form"
)

// ErrScript is returned for scripts that cannot be parsed or run.
var ErrScript = errors.New("replay: invalid script")

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one event. Exactly one of Type, Paste, Clear, Remove, Select or
// Command is set.
//
// Type sends Text one rune at a time at the end of Field, the way a user
// types. Paste sends Text as a single insertion. Clear removes the whole
// field. Remove deletes Length runes at Offset. Select sets the selected
// row; -1 clears it.
type Step struct {
	Field   string `yaml:"field,omitempty"`
	Type    string `yaml:"type,omitempty"`
	Paste   string `yaml:"paste,omitempty"`
	Clear   bool   `yaml:"clear,omitempty"`
	Remove  *Span  `yaml:"remove,omitempty"`
	Select  *int   `yaml:"select,omitempty"`
	Command string `yaml:"command,omitempty"`
	Query   string `yaml:"query,omitempty"`

	// ExpectText is the field text expected after a field step.
	ExpectText *string `yaml:"expect_text,omitempty"`
	// Expect is the outcome reason expected after a command, e.g. "ok".
	Expect string `yaml:"expect,omitempty"`
}

// Span addresses a run of runes within a field.
type Span struct {
	Offset int `yaml:"offset"`
	Length int `yaml:"length"`
}

// Report summarizes a run.
type Report struct {
	Steps    int
	Failures []string
}

// Failed reports whether any expectation did not hold.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Parse decodes a YAML script. Unknown keys are rejected.
func Parse(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty script", ErrScript)
		}
		return nil, fmt.Errorf("%w: %v", ErrScript, err)
	}
	for i, st := range s.Steps {
		if err := st.check(); err != nil {
			return nil, fmt.Errorf("%w: step %d: %v", ErrScript, i+1, err)
		}
	}
	return &s, nil
}

// Load reads and parses the script called name from fsys.
func Load(fsys fs.FS, name string) (*Script, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("replay: reading %s: %w", name, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

func (st Step) check() error {
	set := lo.Count([]bool{
		st.Type != "",
		st.Paste != "",
		st.Clear,
		st.Remove != nil,
		st.Select != nil,
		st.Command != "",
	}, true)
	if set != 1 {
		return fmt.Errorf("want exactly one action, got %d", set)
	}
	if st.isFieldStep() {
		if _, err := parseField(st.Field); err != nil {
			return err
		}
	}
	if st.Command != "" {
		if _, err := parseCommand(st.Command); err != nil {
			return err
		}
	}
	return nil
}

func (st Step) isFieldStep() bool {
	return st.Type != "" || st.Paste != "" || st.Clear || st.Remove != nil
}

func parseField(name string) (form.FieldID, error) {
	switch name {
	case "name":
		return form.NameField, nil
	case "phone":
		return form.PhoneField, nil
	default:
		return 0, fmt.Errorf("unknown field %q", name)
	}
}

func parseCommand(name string) (form.CommandKind, error) {
	for _, k := range []form.CommandKind{form.Add, form.Search, form.Edit, form.Delete} {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", name)
}

// Option configures a Runner.
type Option func(*Runner)

// WithTable controls whether Run ends with a table of stored contacts.
func WithTable(on bool) Option {
	return func(r *Runner) {
		r.table = on
	}
}

// Runner plays scripts against a controller, writing one line per step.
type Runner struct {
	ctrl      *form.Controller
	out       io.Writer
	table     bool
	selection int
}

// NewRunner creates a Runner over ctrl that writes to out.
func NewRunner(ctrl *form.Controller, out io.Writer, opts ...Option) *Runner {
	r := &Runner{
		ctrl:      ctrl,
		out:       out,
		table:     true,
		selection: contact.NoSelection,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays every step of s. Unmet expectations are collected in the
// report; an error is returned only when output cannot be written.
func (r *Runner) Run(s *Script) (Report, error) {
	var rep Report
	if s.Name != "" {
		if _, err := fmt.Fprintf(r.out, "# %s\n", s.Name); err != nil {
			return rep, fmt.Errorf("replay: writing output: %w", err)
		}
	}
	for i, st := range s.Steps {
		line, failure := r.step(st)
		rep.Steps++
		if failure != "" {
			rep.Failures = append(rep.Failures, fmt.Sprintf("step %d: %s", i+1, failure))
			line += "  FAIL: " + failure
		}
		if _, err := fmt.Fprintf(r.out, "%3d  %s\n", i+1, line); err != nil {
			return rep, fmt.Errorf("replay: writing output: %w", err)
		}
	}
	if r.table {
		if _, err := io.WriteString(r.out, "\n"); err != nil {
			return rep, fmt.Errorf("replay: writing output: %w", err)
		}
		WriteTable(r.out, r.ctrl.Contacts())
	}
	return rep, nil
}

// Selection returns the row the script has selected, or contact.NoSelection.
func (r *Runner) Selection() int {
	return r.selection
}

// step plays one step and returns its output line and any unmet expectation.
func (r *Runner) step(st Step) (line, failure string) {
	switch {
	case st.Select != nil:
		r.selection = *st.Select
		return fmt.Sprintf("select   %d", r.selection), ""
	case st.Command != "":
		return r.command(st)
	default:
		return r.fieldStep(st)
	}
}

func (r *Runner) fieldStep(st Step) (line, failure string) {
	id, _ := parseField(st.Field)
	end := func() int { return utf8.RuneCountInString(r.ctrl.Text(id)) }

	var action string
	rejected := 0
	propose := func(e field.Edit) {
		if !r.ctrl.OnFieldEdit(id, e) {
			rejected++
		}
	}
	switch {
	case st.Type != "":
		action = "type " + strconv.Quote(st.Type)
		for _, ch := range st.Type {
			propose(field.InsertAt(end(), string(ch)))
		}
	case st.Paste != "":
		action = "paste " + strconv.Quote(st.Paste)
		propose(field.InsertAt(end(), st.Paste))
	case st.Clear:
		action = "clear"
		propose(field.RemoveAt(0, end()))
	case st.Remove != nil:
		action = fmt.Sprintf("remove %d+%d", st.Remove.Offset, st.Remove.Length)
		propose(field.RemoveAt(st.Remove.Offset, st.Remove.Length))
	}

	text := r.ctrl.Text(id)
	line = fmt.Sprintf("%-8s %s -> %s", id, action, strconv.Quote(text))
	if rejected > 0 {
		line += fmt.Sprintf(" (%d rejected)", rejected)
	}
	if st.ExpectText != nil && *st.ExpectText != text {
		failure = fmt.Sprintf("%s = %q, want %q", id, text, *st.ExpectText)
	}
	return line, failure
}

func (r *Runner) command(st Step) (line, failure string) {
	kind, _ := parseCommand(st.Command)
	cmd := form.ForSelection(kind, r.selection)
	cmd.Query = st.Query
	out := r.ctrl.OnCommand(cmd)
	if kind == form.Delete && out.Succeeded() {
		r.selection = contact.NoSelection
	}

	line = fmt.Sprintf("%-8s %s", kind, out.Reason)
	if kind == form.Search && st.Query != "" {
		line = fmt.Sprintf("%-8s %s %s", kind, strconv.Quote(st.Query), out.Reason)
	}
	if len(out.Matches) > 0 {
		line += fmt.Sprintf(" (%d found)", len(out.Matches))
	}
	if out.Message != "" {
		line += "  " + strconv.Quote(out.Message)
	}
	if st.Expect != "" && st.Expect != out.Reason.String() {
		failure = fmt.Sprintf("%s = %s, want %s", kind, out.Reason, st.Expect)
	}
	return line, failure
}

// WriteTable renders contacts as a borderless table.
func WriteTable(w io.Writer, contacts []contact.Contact) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Name", "Phone"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	for i, c := range contacts {
		table.Append([]string{strconv.Itoa(i), c.Name, c.Phone})
	}
	table.Render()
}

// MismatchError reports the expectations a run did not meet.
type MismatchError struct {
	Failures []string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("replay: %d expectation(s) failed, first: %s", len(e.Failures), e.Failures[0])
}

// Err returns a *MismatchError if the run failed, nil otherwise.
func (r Report) Err() error {
	if !r.Failed() {
		return nil
	}
	return &MismatchError{Failures: r.Failures}
}
