// Package cli implements the blockweek command-line interface.
//
// # Commands
//
//   - layout: lay out a schedule file and write SVG, JSON, DOT or text
//   - conflicts: print each day's conflict graph as a table or DOT
//   - view: browse a laid-out week in the terminal
//   - serve: run the HTTP layout API
//   - completion: generate shell completion scripts
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockweek/pkg/buildinfo"
	"github.com/matzehuels/blockweek/pkg/cache"
	"github.com/matzehuels/blockweek/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "blockweek"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Blockweek lays out weekly schedules with overlapping blocks",
		Long: `Blockweek places overlapping time blocks (course sections, meetings, shifts)
side by side in a weekly calendar. Each block gets the fewest columns its
conflicts allow and is then widened into any free horizontal space.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.conflictsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Solves are memoized for
// the life of the process only.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	var store cache.Cache = cache.NewMemoryCache(0)
	if noCache {
		store = cache.NewNullCache()
	}
	return pipeline.NewRunner(store, nil, c.Logger)
}

// =============================================================================
// Options Helpers
// =============================================================================

// layoutFlags are the flags shared by every command that lays out a week.
type layoutFlags struct {
	config  string
	days    string
	noCache bool
	opts    pipeline.Options
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML options file; flags override it")
	cmd.Flags().StringVarP(&f.opts.Strategy, "strategy", "s", "", "column strategy: exact (default), greedy, heap")
	cmd.Flags().StringVar(&f.opts.Solver, "solver", "", "width solver: simplex (default), none")
	cmd.Flags().DurationVar(&f.opts.ExactTimeout, "exact-timeout", 0, "time limit for the exact column search per day")
	cmd.Flags().DurationVar(&f.opts.SolveTimeout, "solve-timeout", 0, "time limit per width solve before keeping the initial layout")
	cmd.Flags().IntVar(&f.opts.Concurrency, "concurrency", 0, "parallel component solves per day (default GOMAXPROCS)")
	cmd.Flags().StringVarP(&f.days, "days", "d", "", "comma-separated days to lay out (default Mon-Fri)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable solve memoization")
}

// options merges flags over the config file, if any.
func (f *layoutFlags) options(logger *log.Logger) (pipeline.Options, error) {
	opts := f.opts
	opts.Days = splitList(f.days)
	opts.NoCache = f.noCache
	opts.Logger = logger
	if f.config != "" {
		base, err := pipeline.LoadOptionsFile(f.config)
		if err != nil {
			return pipeline.Options{}, err
		}
		opts = opts.Merge(base)
	}
	return opts, nil
}

// splitList parses a comma-separated flag value.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
