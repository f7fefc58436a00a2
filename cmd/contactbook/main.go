package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/smileynet/contactbook"
	"github.com/smileynet/contactbook/internal/config"
	"github.com/smileynet/contactbook/internal/form"
	"github.com/smileynet/contactbook/internal/logging"
	"github.com/smileynet/contactbook/internal/replay"
	"github.com/smileynet/contactbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Config string `help:"Extra config file, applied after the user and project configs." type:"existingfile" placeholder:"FILE"`
}

// CLI is the top-level command structure for contactbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	UI      UICmd            `cmd:"" default:"withargs" help:"Open the contact form."`
	Replay  ReplayCmd        `cmd:"" help:"Replay a scripted session and print each outcome."`
}

// UICmd opens the interactive contact form.
type UICmd struct{}

// ReplayCmd plays a script through the form without a terminal.
type ReplayCmd struct {
	Script  string `arg:"" optional:"" default:"demo.yaml" help:"Script file. Names not found on disk fall back to the built-in scripts."`
	NoTable bool   `help:"Skip the final contacts table." default:"false"`
}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// errNoTTY is returned when the form is opened without a terminal.
var errNoTTY = errors.New("ui: requires a terminal (TTY)")

// app is the wiring shared by both commands.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	ctrl  *form.Controller
	close func() error
}

// loadConfig loads layered config from user and project paths, then the
// optional extra file, then env overrides.
func loadConfig(extra string) (*config.Config, error) {
	paths := []string{
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		".contactbook.yaml",
	}
	if extra != "" {
		paths = append(paths, extra)
	}
	cfg, err := config.LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setup loads config, opens the log and builds a seeded controller.
func setup(g *Globals) (*app, error) {
	cfg, err := loadConfig(g.Config)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.Open(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	ctrl := form.New(form.WithLogger(logging.Component(log, "form")))
	if err := ctrl.Seed(cfg.Contacts); err != nil {
		_ = closeLog()
		return nil, err
	}
	return &app{cfg: cfg, log: log, ctrl: ctrl, close: closeLog}, nil
}

// Run builds real dependencies and launches the form.
func (u *UICmd) Run(g *Globals) error {
	if !tui.IsTTY(os.Stdout) {
		return errNoTTY
	}

	a, err := setup(g)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	defer func() { _ = a.close() }()

	a.log.Info().Int("contacts", len(a.cfg.Contacts)).Msg("starting form")
	m := tui.NewModel(a.ctrl, tui.WithTitle(a.cfg.UI.Title))
	prog := tui.NewProgram(m, tui.ProgramOptions{AltScreen: a.cfg.UI.AltScreen})
	return u.run(true, prog)
}

// run executes the tea program, enabling testable wiring.
func (u *UICmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return errNoTTY
	}
	_, err := prog.Run()
	return err
}

// Run loads the script and replays it to stdout.
func (r *ReplayCmd) Run(g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	defer func() { _ = a.close() }()

	s, err := loadScript(r.Script)
	if err != nil {
		return err
	}
	a.log.Info().Str("script", r.Script).Int("steps", len(s.Steps)).Msg("replaying")
	return r.run(os.Stdout, a.ctrl, s)
}

// run replays s against ctrl, writing to w.
func (r *ReplayCmd) run(w io.Writer, ctrl *form.Controller, s *replay.Script) error {
	rep, err := replay.NewRunner(ctrl, w, replay.WithTable(!r.NoTable)).Run(s)
	if err != nil {
		return err
	}
	return rep.Err()
}

// loadScript reads path from disk, falling back to the built-in scripts
// when no such file exists.
func loadScript(path string) (*replay.Script, error) {
	fsys := contactbook.OverlayFS(filepath.Dir(path), contactbook.Scripts)
	return replay.Load(fsys, filepath.Base(path))
}

const (
	exitSuccess = 0
	exitReplay  = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var me *replay.MismatchError
	if errors.As(err, &me) {
		return exitReplay
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("A small in-memory contact form with masked name and phone inputs."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
