// Package text renders day layouts as plain-text strips.
//
// Each block is one line: its clock range, a bar showing where the block
// sits across the day width, and its ID with depth and path depth:
//
//	Mon  2 columns
//	  09:00-10:00 |##########          | cs2150   0/2 fixed
//	  09:30-10:30 |          ##########| math3100 1/2
package text

import (
	"fmt"
	"io"
	"math"
	"slices"
	"strings"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

// DefaultWidth is the bar width in characters.
const DefaultWidth = 20

// Options configures text rendering.
type Options struct {
	Width int  // Bar width; <= 0 uses DefaultWidth
	Fill  rune // Bar character; 0 uses '#'
}

// Bar returns the strip for a block: Fill from Left to Left+Width, spaces
// elsewhere. Unplaced blocks get an all-blank bar.
func Bar(b block.Block, opts Options) string {
	width, fill := opts.Width, opts.Fill
	if width <= 0 {
		width = DefaultWidth
	}
	if fill == 0 {
		fill = '#'
	}
	cells := []rune(strings.Repeat(" ", width))
	if !b.LaidOut() {
		return string(cells)
	}
	from := int(math.Round(b.Left * float64(width)))
	to := int(math.Round(b.Right() * float64(width)))
	from, to = max(from, 0), min(to, width)
	for i := from; i < to; i++ {
		cells[i] = fill
	}
	return string(cells)
}

// RenderDay writes one day's strips, ordered by start time then depth.
func RenderDay(w io.Writer, day block.Day, blocks []block.Block, opts Options) error {
	if _, err := fmt.Fprintf(w, "%s  %d columns\n", day.Short(), block.Columns(blocks)); err != nil {
		return err
	}

	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if blocks[a].Start != blocks[b].Start {
			return blocks[a].Start - blocks[b].Start
		}
		return blocks[a].Depth - blocks[b].Depth
	})

	idWidth := 0
	for _, b := range blocks {
		idWidth = max(idWidth, len(b.ID))
	}
	for _, i := range order {
		b := blocks[i]
		line := fmt.Sprintf("  %s-%s |%s| %-*s %d/%d",
			bwerrors.FormatClock(b.Start), bwerrors.FormatClock(b.End),
			Bar(b, opts), idWidth, b.ID, b.Depth, b.PathDepth)
		if b.Fixed {
			line += " fixed"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderWeek writes every day of week, separated by blank lines.
func RenderWeek(w io.Writer, week block.Week, opts Options) error {
	for i, d := range week.Days() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := RenderDay(w, d, week[d], opts); err != nil {
			return err
		}
	}
	return nil
}
