package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/shapecheck"
	"github.com/reoring/shapecheck/codec"
	"github.com/reoring/shapecheck/i18n"
	"github.com/reoring/shapecheck/load"
)

// cli holds the persistent flags and the settings resolved from them and the
// config file.
type cli struct {
	configPath      string
	jsonOutput      bool
	verbose         bool
	maxDepth        int
	parallel        bool
	workers         int
	lang            string
	numberMode      string
	allowDuplicates bool

	cfg  Config
	mode load.NumberMode
	log  *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "shapecheck <command>",
		Short:         "Check schema definitions and validate documents against them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/shapecheck/config.toml)")
	pf.BoolVar(&c.jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log debug records to stderr")
	pf.IntVar(&c.maxDepth, "max-depth", 0, "maximum object nesting (0 = default, negative = unbounded)")
	pf.BoolVar(&c.parallel, "parallel", false, "check fields concurrently")
	pf.IntVar(&c.workers, "workers", 0, "goroutine limit for --parallel (0 = unlimited)")
	pf.StringVar(&c.lang, "lang", "en", "message language (en or ja)")
	pf.StringVar(&c.numberMode, "number-mode", "float64", "JSON number decoding (float64 or json-number)")
	pf.BoolVar(&c.allowDuplicates, "allow-duplicates", false, "keep the last value of repeated keys")

	root.AddCommand(c.lintCmd())
	root.AddCommand(c.validateCmd())
	root.AddCommand(c.exportCmd())
	return root
}

// setup merges the config file with explicitly set flags. Flags win.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("max-depth") {
		cfg.MaxDepth = c.maxDepth
	}
	if flags.Changed("parallel") {
		cfg.Parallel = c.parallel
	}
	if flags.Changed("workers") {
		cfg.Workers = c.workers
	}
	if flags.Changed("lang") {
		cfg.Lang = c.lang
	}
	if flags.Changed("number-mode") {
		cfg.NumberMode = c.numberMode
	}
	if flags.Changed("allow-duplicates") {
		cfg.AllowDuplicates = c.allowDuplicates
	}

	switch cfg.NumberMode {
	case "", "float64":
		c.mode = load.NumberFloat64
	case "json-number":
		c.mode = load.NumberJSONNumber
	default:
		return fmt.Errorf("unknown number mode %q (must be float64 or json-number)", cfg.NumberMode)
	}
	switch cfg.Lang {
	case "", "en", "ja":
		i18n.SetLanguage(cfg.Lang)
	default:
		return fmt.Errorf("unknown language %q (must be en or ja)", cfg.Lang)
	}

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	c.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	c.cfg = cfg
	return nil
}

func (c *cli) validator() *shapecheck.Validator {
	return shapecheck.New(shapecheck.Options{
		MaxDepth: c.cfg.MaxDepth,
		Parallel: c.cfg.Parallel,
		Workers:  c.cfg.Workers,
		Logger:   c.log,
	})
}

func (c *cli) loadOptions() load.Options {
	return load.Options{
		NumberMode:      c.mode,
		AllowDuplicates: c.cfg.AllowDuplicates,
		Matchers:        codec.Builtins(),
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
