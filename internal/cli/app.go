// Package cli implements the sllm command tree: runtime management commands
// and the review, translate and code frontends.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"

	"sllm/internal/chat"
	"sllm/internal/config"
	"sllm/internal/execx"
	"sllm/internal/manager"
	"sllm/internal/metrics"
)

// Lifecycle is the part of *manager.Manager the commands use.
type Lifecycle interface {
	EnsureRuntimeDownloaded(ctx context.Context) error
	Ensure(ctx context.Context) error
	Stop(ctx context.Context)
	Status(ctx context.Context) manager.StatusReport
	SanityCheck() manager.SanityReport
}

// Sender is the part of *chat.Client the frontends use.
type Sender interface {
	Send(ctx context.Context, req chat.Request) (chat.Response, error)
}

// App carries the process environment and the resolved collaborators of one
// sllm invocation. Lifecycle and Chat are built from the configuration unless
// set beforehand.
type App struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	StdinTTY  bool
	StdoutTTY bool
	StderrTTY bool
	Width     int
	Getenv    config.Getenv
	Runner    execx.Runner
	Edit      func(ctx context.Context, editor, path string) error
	// UserFiles enables the env file and default config file lookup in the
	// user's configuration directory.
	UserFiles bool

	Runtime   config.Runtime
	Log       zerolog.Logger
	Lifecycle Lifecycle
	Chat      Sender

	debug      bool
	configPath string
}

// NewApp returns an App bound to the process's stdio and environment.
func NewApp() *App {
	a := &App{
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		StdinTTY:  IsTerminal(os.Stdin),
		StdoutTTY: IsTerminal(os.Stdout),
		StderrTTY: IsTerminal(os.Stderr),
		Width:     TerminalWidth(os.Stdout),
		Getenv:    os.Getenv,
		Runner:    execx.OS{},
		Edit:      runEditor,
		UserFiles: true,
	}
	a.Log = NewLogger(a.Stderr, false, !UseColor(a.StderrTTY, a.Getenv))
	return a
}

// Debug reports whether --debug was given.
func (a *App) Debug() bool { return a.debug }

func (a *App) printer() Printer {
	return Printer{Out: a.Stdout, TTY: a.StdoutTTY, Color: UseColor(a.StdoutTTY, a.Getenv), Width: a.Width}
}

// setup resolves configuration and builds the collaborators. It runs once the
// persistent flags are parsed.
func (a *App) setup() error {
	a.Log = NewLogger(a.Stderr, a.debug, !UseColor(a.StderrTTY, a.Getenv))
	if a.Getenv == nil {
		a.Getenv = os.Getenv
	}
	path := a.configPath
	if path == "" {
		path = a.Getenv(config.EnvConfig)
	}
	if a.UserFiles {
		if err := config.LoadEnvFile(""); err != nil {
			a.Log.Warn().Err(err).Msg("event=env_file_failed")
		}
		if path == "" {
			path = config.DefaultFile()
		}
	}
	rt, err := config.New(path, a.Getenv)
	if err != nil {
		return err
	}
	a.Runtime = rt
	a.Log.Debug().Str("config", path).Str("tool", rt.Tool).Str("model", rt.Model).Str("url", rt.BaseURL()).Msg("event=config")

	if a.Chat == nil || a.Lifecycle == nil {
		client := chat.NewFromRuntime(rt, a.Log)
		if a.Chat == nil {
			a.Chat = client
		}
		if a.Lifecycle == nil {
			m := manager.New(rt, a.Log)
			m.SetInspector(client)
			a.Lifecycle = m
		}
	}
	return nil
}

// flushMetrics writes the metrics textfile when one is configured.
func (a *App) flushMetrics() {
	if err := metrics.WriteTextfile(a.Runtime.MetricsFile); err != nil {
		a.Log.Warn().Err(err).Str("path", a.Runtime.MetricsFile).Msg("event=metrics_write_failed")
	}
}

// Run executes the command line args (without the program name).
func (a *App) Run(ctx context.Context, args []string) error {
	root := buildRootCmdWith(a)
	root.SetArgs(args)
	root.SetIn(a.Stdin)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)
	defer a.flushMetrics()
	return root.ExecuteContext(ctx)
}
