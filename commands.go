package main

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bond-kaneko/go-calculator/calc"
	"github.com/bond-kaneko/go-calculator/config"
	"github.com/bond-kaneko/go-calculator/render"
	"github.com/bond-kaneko/go-calculator/repl"
	"github.com/bond-kaneko/go-calculator/tape"
	"github.com/bond-kaneko/go-calculator/watcher"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

const keyHint = "n +/-  s x²  q √  r 1/x  % pct  Ctrl+A/S/R/Q memory  Esc CE  c AC  Ctrl+C quit"

type options struct {
	configPath string
	precision  int
	maxDigits  int
	debounce   time.Duration
	plain      bool
	noColor    bool
	verbose    bool
	trace      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "calc",
		Short:         "Keyboard driven desk calculator",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, opts)
		},
	}

	// Configure command line arguments
	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML config file")
	flags.IntVarP(&opts.precision, "precision", "p", calc.DefaultPrecision, "Fraction digits kept in results")
	flags.IntVar(&opts.maxDigits, "max-digits", calc.DefaultMaxDigits, "Digits a typed operand may hold")
	flags.DurationVarP(&opts.debounce, "debounce", "d", 500*time.Millisecond, "Delay before replaying a changed tape")
	flags.BoolVar(&opts.plain, "plain", false, "Print one line per input instead of redrawing the display")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug messages to stderr")

	root.AddCommand(newRunCmd(opts), newWatchCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tape>...",
		Short: "Replay tape files and print the final display of each",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			// a tape run always prints plain lines
			out := cmd.OutOrStdout()
			r := render.NewPlain(out, cfg.Color)
			for _, path := range args {
				t, err := tape.ReadFile(path)
				if err != nil {
					return err
				}
				var stepRenderer render.Renderer
				if opts.trace {
					stepRenderer = r
				}
				s, err := t.Replay(calc.New(cfg.EngineOptions(logger)...), stepRenderer)
				if err != nil {
					return err
				}
				if !opts.trace {
					if err := r.Render(s); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Print the display after every token")
	return cmd
}

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <tape>",
		Short: "Replay a tape file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			tapeWatcher, err := watcher.NewTapeWatcher(args[0])
			if err != nil {
				return err
			}
			tapeWatcher.SetDebounceDelay(cfg.Debounce)
			tapeWatcher.SetEngineOptions(cfg.EngineOptions(logger)...)
			r := newRenderer(cfg, out)
			if live, ok := r.(*render.Live); ok {
				out = live.Writer()
			}
			tapeWatcher.SetRenderer(r)
			tapeWatcher.SetOutput(out)
			tapeWatcher.SetLogger(logger)
			return tapeWatcher.Watch(cmd.Context())
		},
	}
}

func runInteractive(cmd *cobra.Command, opts *options) error {
	cfg, logger, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	e := calc.New(cfg.EngineOptions(logger)...)
	out := cmd.OutOrStdout()

	in, ok := cmd.InOrStdin().(*os.File)
	if !ok || !repl.IsTerminal(in) {
		session := repl.NewSession(e, render.NewPlain(out, cfg.Color), out, logger)
		return session.RunLines(cmd.Context(), cmd.InOrStdin())
	}

	restore, err := repl.MakeRaw(in)
	if err != nil {
		return err
	}
	defer func() {
		if err := restore(); err != nil {
			logger.Warn("restoring terminal", "err", err)
		}
	}()

	out = repl.NewCRLFWriter(out)
	r := newRenderer(cfg, out)
	if live, ok := r.(*render.Live); ok {
		live.SetFooter(keyHint)
	}
	return repl.NewSession(e, r, out, logger).RunKeys(cmd.Context(), in)
}

// loadConfig merges the config file, the flags set on the command line and
// what the output supports.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, *slog.Logger, error) {
	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)

	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return cfg, logger, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("precision") {
		cfg.Precision = opts.precision
	}
	if flags.Changed("max-digits") {
		cfg.MaxDigits = opts.maxDigits
	}
	if flags.Changed("debounce") {
		cfg.Debounce = opts.debounce
	}
	if opts.plain {
		cfg.Live = false
	}
	if opts.noColor {
		cfg.Color = false
	}
	if f, ok := cmd.OutOrStdout().(*os.File); !ok || !repl.IsTerminal(f) {
		cfg.Live = false
		cfg.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return cfg, logger, errors.Wrap(err, "invalid settings")
	}
	logger.Debug("configuration loaded",
		"precision", cfg.Precision, "max_digits", cfg.MaxDigits, "live", cfg.Live)
	return cfg, logger, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRenderer(cfg config.Config, out io.Writer) render.Renderer {
	if cfg.Live {
		return render.NewLive(out, cfg.Color)
	}
	return render.NewPlain(out, cfg.Color)
}
