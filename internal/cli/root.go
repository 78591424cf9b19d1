// Package cli provides the command-line interface for squall.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/squall/internal/cli/config"
	squallcfg "github.com/leapstack-labs/squall/pkg/config"
	"github.com/leapstack-labs/squall/pkg/report"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// ErrIssuesFound is returned when linting produced at least one issue. The
// issues have already been reported, so it is not printed.
var ErrIssuesFound = errors.New("lint issues found")

// Options holds the command-line flags.
type Options struct {
	ConfigFile  string
	Preset      string
	ListPresets bool
	ShowRule    string
	ListRules   bool
	Verbose     bool
	Reporter    string
	Jobs        int
	Timeout     time.Duration
	Watch       bool
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &Options{}
	rootCmd := &cobra.Command{
		Use:   "squall [flags] [PATHS...]",
		Short: "squall - a linter for PostgreSQL migrations",
		Long: `squall checks SQL files for statements that are unsafe to run against a
live PostgreSQL database, such as blocking index builds or column type
changes that rewrite a table.

Directories are searched recursively for files ending in .sql.`,
		Example: `  # Lint a directory with the recommended rules
  squall -p postgres migrations/

  # Use an explicit configuration file and JSON output
  squall -c ci/squall.yaml --reporter json migrations/

  # Describe a rule
  squall -r require-concurrent-index`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			settings, err := config.LoadSettings("", cmd.Root().Flags())
			if err != nil {
				return err
			}
			cmd.SetContext(config.WithLogger(cmd.Context(), newLogger(cmd, settings.Verbose)))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "path to configuration file (default: discovered .squallrc, .squallrc.yaml or squall.yaml)")
	flags.StringVarP(&opts.Preset, "preset", "p", "", "start with a base preset rule configuration")
	flags.BoolVarP(&opts.ListPresets, "list-presets", "P", false, "list the available preset configurations")
	flags.StringVarP(&opts.ShowRule, "show-rule", "r", "", "show detailed information about RULE")
	flags.BoolVarP(&opts.ListRules, "list-rules", "R", false, "print out information about all available rules")
	flags.BoolVarP(&opts.Verbose, "verbose", "V", false, "turn on debug level logging")
	flags.StringVar(&opts.Reporter, "reporter", "", "output format: "+strings.Join(report.Names(), ", "))
	flags.IntVarP(&opts.Jobs, "jobs", "j", 0, "number of files linted in parallel (default: number of CPUs)")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "maximum rule execution time per file (0 for none)")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "re-lint when SQL files change")

	_ = rootCmd.RegisterFlagCompletionFunc("reporter", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return report.Names(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("preset", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return squallcfg.PresetNames(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, ErrIssuesFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// newLogger builds the stderr logger: Info by default, Debug when verbose.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
