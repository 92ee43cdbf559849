package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/scribe/internal/app"
	"github.com/dshills/scribe/internal/config"
	"github.com/dshills/scribe/internal/config/loader"
	"github.com/dshills/scribe/internal/config/watcher"
	"github.com/dshills/scribe/internal/event/trace"
	"github.com/dshills/scribe/internal/frontend"
	"github.com/dshills/scribe/internal/renderer/backend"
)

var errNoTerminal = errors.New("no terminal attached; use --replay or --headless")

// options holds the command line flags.
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	record     string
	replay     string
	headless   bool
	noWatch    bool
	scripts    []string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "scribe",
		Short: "A small event-driven text editor",
		Long: `scribe turns terminal input into typed events and dispatches them to
registered handlers: the built-in text sink, the quit keys and any Lua
scripts. Sessions can be recorded and replayed without a terminal.`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default is "+config.DefaultPath()+")")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console, json")

	cmd.Flags().StringVar(&opts.record, "record", "", "record every dispatched event to `FILE`")
	cmd.Flags().StringVar(&opts.replay, "replay", "", "replay events from a recording `FILE` instead of the terminal")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "run without a terminal, reading a recording from stdin unless --replay is set")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the config file when it changes")
	cmd.Flags().StringArrayVar(&opts.scripts, "script", nil, "load a Lua script (repeatable)")

	cmd.SetVersionTemplate(fmt.Sprintf("scribe {{.Version}} (commit %s, built %s)\n", commit, date))
	cmd.AddCommand(newConfigCommand(opts))
	return cmd
}

func newConfigCommand(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			data, err := cfg.Encode(loader.FormatOf("config." + format))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "toml", "output format: toml, yaml")
	return cmd
}

// loadConfig resolves the configuration and applies the flag layer.
func loadConfig(opts *options) (*config.Config, config.LoadOptions, error) {
	loadOpts := config.LoadOptions{Path: opts.configPath, Required: true}
	if loadOpts.Path == "" {
		loadOpts = config.LoadOptions{Path: config.DefaultPath()}
	}

	cfg, err := config.Load(loadOpts)
	if err != nil {
		return nil, loadOpts, err
	}

	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if opts.record != "" {
		cfg.Trace.Record = opts.record
	}
	cfg.Scripts.Paths = append(cfg.Scripts.Paths, opts.scripts...)

	if err := cfg.Validate(); err != nil {
		return nil, loadOpts, err
	}
	return cfg, loadOpts, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func run(ctx context.Context, opts *options, stdout io.Writer) error {
	cfg, loadOpts, err := loadConfig(opts)
	if err != nil {
		return err
	}

	interactive := !opts.headless && opts.replay == ""
	if interactive && !isTerminal() {
		return errNoTerminal
	}

	logCfg := app.LoggerConfigFrom(cfg.Log)
	if interactive && cfg.Log.Output == "" {
		logCfg.Output = app.DefaultLogFile()
	}
	logger, logCloser, err := app.NewLogger(logCfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logCloser.Close()

	var (
		source   frontend.Source
		editOpts = []app.Option{app.WithLogger(logger)}
	)

	if interactive {
		tb, err := backend.NewTerminal()
		if err != nil {
			return &app.InitError{Component: "terminal", Err: err}
		}
		if err := tb.Init(); err != nil {
			return &app.InitError{Component: "terminal", Err: err}
		}
		defer tb.Shutdown()

		fe := frontend.New(tb, frontend.WithLogger(app.WithComponent(logger, "frontend")))
		source = fe
		editOpts = append(editOpts, app.WithRenderer(fe))
	} else {
		replay, err := openReplay(opts.replay)
		if err != nil {
			return err
		}
		logger.Info().Int("events", replay.Len()).Msg("replaying recording")
		source = replay
	}

	if cfg.Trace.Record != "" {
		f, err := os.Create(cfg.Trace.Record)
		if err != nil {
			return fmt.Errorf("open recording: %w", err)
		}
		defer f.Close()
		rec := trace.NewRecorder(f)
		logger.Info().Str("path", cfg.Trace.Record).Stringer("session", rec.Session()).Msg("recording events")
		editOpts = append(editOpts, app.WithRecorder(rec))
	}

	editor, err := app.New(cfg, source, editOpts...)
	if err != nil {
		return err
	}
	defer editor.Close()

	if err := editor.LoadScripts(cfg.Scripts.Paths); err != nil {
		return err
	}

	if !opts.noWatch {
		stop, err := watchConfig(editor, loadOpts, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("config reload disabled")
		}
		defer stop()
	}

	if err := editor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if !interactive {
		_, err := fmt.Fprintln(stdout, editor.State().Text())
		return err
	}
	return nil
}

func openReplay(path string) (*trace.Replayer, error) {
	if path == "" {
		return trace.Load(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay: %w", err)
	}
	defer f.Close()
	return trace.Load(f)
}

// watchConfig reloads the editor when the config file changes. It does
// nothing when the file does not exist.
func watchConfig(editor *app.Editor, loadOpts config.LoadOptions, logger zerolog.Logger) (func(), error) {
	nop := func() {}
	if _, err := os.Stat(loadOpts.Path); err != nil {
		return nop, nil
	}

	w, err := watcher.New(watcher.WithLogger(app.WithComponent(logger, "watcher")))
	if err != nil {
		return nop, err
	}
	if err := editor.WatchConfig(w, loadOpts); err != nil {
		w.Close()
		return nop, err
	}
	return func() { w.Close() }, nil
}
