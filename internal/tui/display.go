package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ProgramOptions configures program creation.
type ProgramOptions struct {
	Input     io.Reader // Key input source (default: os.Stdin).
	Output    io.Writer // Render destination (default: os.Stdout).
	AltScreen bool      // Render in the terminal's alternate screen.
}

// NewProgram wraps m in a Bubble Tea program.
func NewProgram(m Model, opts ProgramOptions) *tea.Program {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	teaOpts := []tea.ProgramOption{tea.WithOutput(opts.Output)}
	if opts.Input != nil {
		teaOpts = append(teaOpts, tea.WithInput(opts.Input))
	}
	if opts.AltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	return tea.NewProgram(m, teaOpts...)
}

// IsTTY reports whether w is connected to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
