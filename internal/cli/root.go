// Package cli is the phaseline command tree.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/phaseline/internal/config"
	"github.com/Makepad-fr/phaseline/internal/lanes"
	"github.com/Makepad-fr/phaseline/internal/logging"
	"github.com/Makepad-fr/phaseline/internal/model"
	"github.com/Makepad-fr/phaseline/internal/store/filestore"
	"github.com/Makepad-fr/phaseline/internal/ui"
)

// usageError marks bad arguments or flags; they exit with 2.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// app carries root flags and the loaded config to subcommands.
type app struct {
	configPath string
	theme      string
	noColor    bool
	debug      bool
	buffer     int
	strict     bool

	cfg       *config.Config
	logCloser io.Closer
}

// NewRootCmd builds the command tree. With a file argument and no
// subcommand it opens the interactive timeline.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "phaseline [file]",
		Short: "Lay out dated phases on timeline lanes",
		Long: `phaseline packs dated phases onto as few horizontal lanes as possible,
so that no two phases on a lane overlap or touch within a one day buffer.

Phase files are JSON or YAML lists of {id, name, startDate, endDate}
with dates in YYYY-MM-DD form.

With a file and no subcommand, opens the interactive timeline.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usagef("usage: %s", cmd.UseLine())
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return a.runTUI(cmd, args[0], tuiFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default: user and project config)")
	pf.StringVar(&a.theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored output")
	pf.BoolVar(&a.debug, "debug", false, "log at debug level")
	pf.IntVar(&a.buffer, "buffer", lanes.DefaultBufferDays, "days a lane stays blocked after a phase ends")
	pf.BoolVar(&a.strict, "strict", false, "reject duplicate phase ids")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	root.AddCommand(
		newLsCmd(a),
		newLanesCmd(a),
		newCheckCmd(a),
		newSVGCmd(a),
		newReportCmd(a),
		newTUICmd(a),
	)
	return root
}

// Execute runs the command tree and returns the process exit code:
// 0 ok, 1 error, 2 usage or invalid phases.
func Execute(args []string) int {
	return run(NewRootCmd(), args)
}

func run(root *cobra.Command, args []string) int {
	root.SetArgs(args)
	err := root.Execute()
	if err == nil {
		return 0
	}
	w := root.ErrOrStderr()
	ui.Fail(w, err.Error())
	code := exitCode(err)
	var ie *lanes.ItemError
	if errors.As(err, &ie) && ie.Field != "id" {
		ui.Hint(w, "dates are YYYY-MM-DD and a phase cannot end before it starts")
	}
	return code
}

func exitCode(err error) int {
	var ue usageError
	var ie *lanes.ItemError
	switch {
	case errors.As(err, &ue), errors.As(err, &ie),
		errors.Is(err, lanes.ErrInvalidBuffer), errors.Is(err, config.ErrInvalid):
		return 2
	}
	return 1
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.theme != "" {
		cfg.TUI.Theme = a.theme
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	ui.SetTheme(cfg.TUI.Theme)
	ui.SetColorForcing(false, a.noColor)

	level := cfg.Log.Level
	if a.debug {
		level = "debug"
	}
	if _, err := logging.ParseLevel(level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if closer, err := logging.Init(cfg.Log.Path, level); err == nil {
		a.logCloser = closer
	}
	logging.Logger.Debug("command started", "cmd", cmd.CommandPath(), "args", args)
	return nil
}

func (a *app) teardown() {
	if a.logCloser != nil {
		_ = a.logCloser.Close()
		a.logCloser = nil
	}
}

// laneOptions layers --buffer and --strict over the config. Later options
// win, so an explicit flag overrides the file.
func (a *app) laneOptions(cmd *cobra.Command) []lanes.Option {
	opts := a.cfg.LaneOptions()
	if cmd.Flags().Changed("buffer") {
		opts = append(opts, lanes.WithBuffer(a.buffer))
	}
	if a.strict {
		opts = append(opts, lanes.WithStrictIDs())
	}
	return opts
}

// load reads a phase file and lays it out.
func (a *app) load(cmd *cobra.Command, path string, extra ...lanes.Option) ([]model.Item, *lanes.Layout, error) {
	items, err := filestore.Load(path)
	if err != nil {
		return nil, nil, err
	}
	layout, err := lanes.Assign(items, append(a.laneOptions(cmd), extra...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	logging.Logger.Info("laid out phases", "path", path, "items", len(items), "lanes", layout.Lanes)
	return items, layout, nil
}

// exactFile requires a single phase file argument.
func exactFile(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return usagef("usage: %s", cmd.UseLine())
	}
	return nil
}
