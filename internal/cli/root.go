// Package cli wires the todo command tree: the interactive TUI at the root
// plus scriptable subcommands that address records by 1-based index.
package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

// App is the state shared by every command of one invocation.
type App struct {
	cfg    *config.Config
	logger *log.Logger

	store   *store.Store
	closers []io.Closer
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &App{}
	defer app.close()

	cmd := NewRootCmd(app)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		ui.Fail(stderr, ee.msg)
		if ee.hint != "" {
			ui.Hint(stderr, ee.hint)
		}
	} else {
		ui.Fail(stderr, err.Error())
		ui.Hint(stderr, "Run `todo --help` for usage.")
	}
	return codeOf(err)
}

func NewRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A small todo list: interactive TUI plus scriptable subcommands",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  todo

  # Scriptable commands
  todo add "Buy milk" -d "2%, not the oat one"
  todo ls
  todo edit 2 --title "Walk the dog"
  todo rm 3
  todo export backup.json
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}

	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newRemoveCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup resolves config and builds the logger. The TUI owns the terminal,
// so it only logs when a log file is configured.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return usageError("config: %v", err)
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return usageError("config: %v", err)
	}
	if err := ui.SetColor(cfg.Color); err != nil {
		return usageError("config: %v", err)
	}

	logOut := cmd.ErrOrStderr()
	if !cmd.HasParent() {
		logOut = io.Discard
	}
	logger, closer, err := logging.New(logOut, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
		Prefix: "todo",
	})
	if err != nil {
		return usageError("config: %v", err)
	}
	app.cfg = cfg
	app.logger = logger
	app.closers = append(app.closers, closer)
	logger.Debug("config resolved", "source", cfg.Source, "backend", cfg.Backend, "data_dir", cfg.DataDir)
	return nil
}

// openStore opens the configured backend and loads the list.
func (app *App) openStore(ctx context.Context) (*store.Store, error) {
	if app.store != nil {
		return app.store, nil
	}
	slot, err := store.OpenSlot(ctx, store.SlotOptions{
		Backend: app.cfg.Backend,
		Dir:     app.cfg.DataDir,
		DSN:     app.cfg.DSN,
	})
	if err != nil {
		return nil, runtimeError("open", err)
	}
	st, err := store.Open(ctx, slot, store.WithLogger(app.logger))
	if err != nil {
		_ = slot.Close()
		return nil, runtimeError("load", err)
	}
	app.store = st
	app.closers = append(app.closers, st)
	return st, nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil && app.logger != nil {
			app.logger.Warn("close", "err", err)
		}
	}
	app.closers = nil
}

func runTUI(ctx context.Context, app *App) error {
	st, err := app.openStore(ctx)
	if err != nil {
		return err
	}
	if err := tui.Run(ctx, view.NewEditor(st), app.logger); err != nil {
		return runtimeError("tui", err)
	}
	return nil
}
