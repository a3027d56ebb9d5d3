package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/pipeline"
)

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags   layoutFlags
		output  string
		formats string
		hours   string
	)

	cmd := &cobra.Command{
		Use:   "layout [schedule.toml|schedule.json]",
		Short: "Lay out a weekly schedule and render it",
		Long: `Lay out a weekly schedule and render it.

Each day's blocks get columns from the chosen strategy, then every block that
is not already fixed by its chain of conflicts is widened into free space.

Outputs are written next to the input as <input>.<format> unless -o is given.
With a single format, -o names the file directly and "-o -" writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			if formats != "" {
				opts.Formats = splitList(formats)
			}
			if hours != "" {
				if opts.StartHour, opts.EndHour, err = parseHours(hours); err != nil {
					return err
				}
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: <input>.<format>)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "comma-separated output formats: svg (default), json, dot, txt")
	cmd.Flags().Float64Var(&flags.opts.Width, "width", 0, "SVG width in pixels")
	cmd.Flags().Float64Var(&flags.opts.Height, "height", 0, "SVG height in pixels")
	cmd.Flags().StringVar(&hours, "hours", "", "visible hour range, e.g. 8-18 (default: fit blocks)")
	cmd.Flags().StringVar(&flags.opts.Title, "title", "", "SVG title")
	cmd.Flags().BoolVar(&flags.opts.Detailed, "detailed", false, "add times and depths to DOT labels")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	runner := c.newRunner(noCache)
	defer runner.Close()

	week, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}

	watch := startStopwatch(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Laying out week...")
	spinner.Start()
	result, err := runner.Execute(ctx, week, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	watch.lap("laid out week", "days", result.Stats.Days, "blocks", result.Stats.Blocks)

	formats := sortedFormats(result.Artifacts)
	if output == "-" {
		if len(formats) != 1 {
			return bwerrors.New(bwerrors.ErrCodeInvalidInput, "-o - needs exactly one format, got %d", len(formats))
		}
		_, err := os.Stdout.Write(result.Artifacts[formats[0]])
		return err
	}

	paths := outputPaths(input, output, formats)
	for _, f := range formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	maxCols, cached := 0, 0
	for _, d := range result.Days {
		maxCols = max(maxCols, d.Columns)
		cached += d.Cached
	}

	printSuccess("Layout complete")
	for _, f := range formats {
		printFile(paths[f])
	}
	fmt.Fprintln(uiOut, statsLine(result.Stats.Blocks, result.Stats.Days, maxCols, cached))
	if result.Stats.Fallbacks > 0 {
		printWarning("%d components kept their initial widths", result.Stats.Fallbacks)
	}
	printNextStep("Browse", appName+" view "+input)
	return nil
}

// outputPaths maps each format to its output file.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

func sortedFormats(artifacts map[string][]byte) []string {
	out := make([]string, 0, len(artifacts))
	for f := range artifacts {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}

// parseHours parses "8-18" into its bounds.
func parseHours(s string) (int, int, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, bwerrors.New(bwerrors.ErrCodeInvalidInput, "hours %q: want START-END", s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(lo))
	if err != nil {
		return 0, 0, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "hours %q", s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(hi))
	if err != nil {
		return 0, 0, bwerrors.Wrap(bwerrors.ErrCodeInvalidInput, err, "hours %q", s)
	}
	if start < 0 || end > 24 || start >= end {
		return 0, 0, bwerrors.New(bwerrors.ErrCodeInvalidInput, "hours %q out of range", s)
	}
	return start, end, nil
}
