package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/conflict"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/render/conflictdot"
)

// conflictsCommand creates the conflicts command.
func (c *CLI) conflictsCommand() *cobra.Command {
	var (
		flags    layoutFlags
		dot      bool
		pairs    bool
		svgPath  string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "conflicts [schedule.toml|schedule.json]",
		Short: "Show each day's conflict graph",
		Long: `Show each day's conflict graph.

By default prints one table per day listing every block's column, path depth,
final position and the blocks it overlaps. --pairs lists each conflicting
pair with the time they share, --dot prints Graphviz DOT instead and --svg
renders the graph with Graphviz.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(c.Logger)
			if err != nil {
				return err
			}
			runner := c.newRunner(flags.noCache)
			defer runner.Close()

			ctx := cmd.Context()
			week, err := runner.Load(ctx, args[0])
			if err != nil {
				return err
			}
			laid, _, err := runner.Layout(ctx, week, opts)
			if err != nil {
				return err
			}

			switch {
			case svgPath != "":
				return writeConflictSVG(ctx, laid, svgPath, detailed)
			case dot:
				for _, d := range laid.Days() {
					fmt.Fprint(cmd.OutOrStdout(), conflictdot.ToDOT(laid[d], conflictdot.Options{Detailed: detailed, Title: d.String()}))
				}
				return nil
			case pairs:
				printConflictPairs(cmd.OutOrStdout(), laid)
				return nil
			}
			return printConflictTables(cmd.OutOrStdout(), laid)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&dot, "dot", false, "print Graphviz DOT")
	cmd.Flags().BoolVar(&pairs, "pairs", false, "list conflicting pairs and their shared time")
	cmd.Flags().StringVar(&svgPath, "svg", "", "render the graph to this SVG file (one file per day when several)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add times and depths to node labels")

	return cmd
}

func writeConflictSVG(ctx context.Context, week block.Week, path string, detailed bool) error {
	days := week.Days()
	if len(days) == 0 {
		return bwerrors.New(bwerrors.ErrCodeInvalidInput, "no blocks to render")
	}
	for _, d := range days {
		out := path
		if len(days) > 1 {
			ext := filepath.Ext(path)
			out = strings.TrimSuffix(path, ext) + "-" + d.Short() + ext
		}
		svg, err := conflictdot.RenderSVG(ctx, conflictdot.ToDOT(week[d], conflictdot.Options{Detailed: detailed, Title: d.String()}))
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}
	return nil
}

// printConflictTables writes one table per laid-out day.
func printConflictTables(w io.Writer, week block.Week) error {
	for i, d := range week.Days() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		blocks := week[d]
		fmt.Fprintln(w, StyleTitle.Render(d.String())+" "+
			StyleDim.Render(fmt.Sprintf("%d blocks · %d columns", len(blocks), block.Columns(blocks))))
		fmt.Fprintln(w, conflictTable(blocks))
	}
	return nil
}

// printConflictPairs writes every conflicting pair of each day with the
// span both blocks occupy.
func printConflictPairs(w io.Writer, week block.Week) {
	for _, d := range week.Days() {
		blocks := week[d]
		pairs := conflict.Pairs(blocks)
		fmt.Fprintln(w, StyleTitle.Render(d.String())+" "+
			StyleDim.Render(fmt.Sprintf("%d conflicts", len(pairs))))
		for _, p := range pairs {
			a, b := blocks[p[0]], blocks[p[1]]
			from, to := max(a.Start, b.Start), min(a.End, b.End)
			fmt.Fprintf(w, "  %s %s %s  %s\n", a.ID, StyleDim.Render("×"), b.ID,
				StyleDim.Render(bwerrors.FormatClock(from)+"-"+bwerrors.FormatClock(to)))
		}
	}
}

// conflictTable renders a day's blocks with their layout and neighbors.
func conflictTable(blocks []block.Block) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, len(blocks))
	for i, b := range blocks {
		ids := make([]string, len(b.Neighbors))
		for j, n := range b.Neighbors {
			ids[j] = blocks[n].ID
		}
		fixed := ""
		if b.Fixed {
			fixed = iconSuccess
		}
		rows[i] = []string{
			b.ID,
			bwerrors.FormatClock(b.Start) + "-" + bwerrors.FormatClock(b.End),
			strconv.Itoa(b.Depth),
			strconv.Itoa(b.PathDepth),
			strconv.FormatFloat(b.Left, 'f', 3, 64),
			strconv.FormatFloat(b.Width, 'f', 3, 64),
			fixed,
			strings.Join(ids, ", "),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Block", "Time", "Col", "Path", "Left", "Width", "Fixed", "Conflicts").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(blocks) {
				return lipgloss.NewStyle()
			}
			if blocks[row].Fixed {
				return styleFixed
			}
			return styleFlexible
		})
	return t.Render()
}
