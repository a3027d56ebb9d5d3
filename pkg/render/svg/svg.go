// Package svg renders a laid-out week as an SVG calendar.
package svg

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	"github.com/matzehuels/blockweek/pkg/render"
)

const (
	headerHeight = 28.0
	gutterWidth  = 48.0
	blockGap     = 2.0
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	days      []block.Day
	width     float64
	height    float64
	startHour int
	endHour   int
	title     string
}

// WithDays sets the day columns. The default is Monday through Friday.
func WithDays(days []block.Day) Option { return func(r *renderer) { r.days = days } }

// WithSize sets the canvas size in pixels.
func WithSize(w, h float64) Option { return func(r *renderer) { r.width, r.height = w, h } }

// WithHours limits the grid to [start, end) hours. Zero values fit the
// blocks.
func WithHours(start, end int) Option {
	return func(r *renderer) { r.startHour, r.endHour = start, end }
}

// WithTitle adds a title element.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// RenderSVG draws every day of week in its own column.
func RenderSVG(week block.Week, opts ...Option) []byte {
	r := &renderer{days: block.Weekdays, width: 1000, height: 720}
	for _, opt := range opts {
		opt(r)
	}
	if r.startHour == 0 && r.endHour == 0 {
		r.startHour, r.endHour = hourRange(week)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f" font-family="sans-serif">`+"\n",
		r.width, r.height, r.width, r.height)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	buf.WriteString(`  <rect width="100%" height="100%" fill="white"/>` + "\n")

	r.grid(&buf)
	colWidth := r.columnWidth()
	for i, d := range r.days {
		x := gutterWidth + float64(i)*colWidth
		fmt.Fprintf(&buf, `  <text x="%.1f" y="18" text-anchor="middle" font-size="13" font-weight="bold">%s</text>`+"\n",
			x+colWidth/2, d.Short())
		for _, b := range week[d] {
			r.block(&buf, b, x, colWidth)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) columnWidth() float64 {
	if len(r.days) == 0 {
		return r.width - gutterWidth
	}
	return (r.width - gutterWidth) / float64(len(r.days))
}

// y maps minutes since midnight to a vertical pixel position.
func (r *renderer) y(minute int) float64 {
	span := float64((r.endHour - r.startHour) * 60)
	return headerHeight + (float64(minute-r.startHour*60)/span)*(r.height-headerHeight)
}

func (r *renderer) grid(buf *bytes.Buffer) {
	for h := r.startHour; h <= r.endHour; h++ {
		y := r.y(h * 60)
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#e5e5e5"/>`+"\n",
			gutterWidth, y, r.width, y)
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" text-anchor="end" font-size="10" fill="#666">%s</text>`+"\n",
			gutterWidth-4, y+3, bwerrors.FormatClock(h*60))
	}
	colWidth := r.columnWidth()
	for i := range r.days {
		x := gutterWidth + float64(i)*colWidth
		fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ccc"/>`+"\n",
			x, headerHeight, x, r.height)
	}
}

func (r *renderer) block(buf *bytes.Buffer, b block.Block, x, colWidth float64) {
	if !b.LaidOut() {
		return
	}
	bx := x + b.Left*colWidth + blockGap/2
	bw := b.Width*colWidth - blockGap
	by := r.y(b.Start)
	bh := r.y(b.End) - by
	label := b.Title
	if label == "" {
		label = b.ID
	}

	fmt.Fprintf(buf, `  <g class="block" data-id="%s" data-depth="%d">`+"\n", html.EscapeString(b.ID), b.Depth)
	fmt.Fprintf(buf, `    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill="%s" stroke="#333" stroke-width="0.5"/>`+"\n",
		bx, by, max(bw, 1), max(bh, 1), render.Color(b.ID))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="10">%s</text>`+"\n",
		bx+3, by+12, html.EscapeString(label))
	fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" font-size="9" fill="#444">%s-%s</text>`+"\n",
		bx+3, by+24, bwerrors.FormatClock(b.Start), bwerrors.FormatClock(b.End))
	buf.WriteString("  </g>\n")
}

// hourRange returns whole hours covering every block, defaulting to 8-18.
func hourRange(week block.Week) (int, int) {
	lo, hi := 8*60, 18*60
	for _, blocks := range week {
		for _, b := range blocks {
			lo = min(lo, b.Start)
			hi = max(hi, b.End)
		}
	}
	return lo / 60, (hi + 59) / 60
}
