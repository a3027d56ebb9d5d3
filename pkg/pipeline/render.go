package pipeline

import (
	"bytes"
	"context"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	bwio "github.com/matzehuels/blockweek/pkg/io"
	"github.com/matzehuels/blockweek/pkg/render/conflictdot"
	"github.com/matzehuels/blockweek/pkg/render/svg"
	"github.com/matzehuels/blockweek/pkg/render/text"
)

// Render produces one artifact per requested format from a laid-out week.
func Render(ctx context.Context, week block.Week, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()
	days, err := opts.DayList()
	if err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := renderFormat(week, days, format, opts)
		if err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(week block.Week, days []block.Day, format string, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		if err := bwio.WriteLayoutJSON(week, &buf); err != nil {
			return nil, err
		}
	case FormatSVG:
		svgOpts := []svg.Option{
			svg.WithDays(days),
			svg.WithSize(opts.Width, opts.Height),
		}
		if opts.EndHour > 0 {
			svgOpts = append(svgOpts, svg.WithHours(opts.StartHour, opts.EndHour))
		}
		if opts.Title != "" {
			svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
		}
		return svg.RenderSVG(week, svgOpts...), nil
	case FormatDOT:
		for _, d := range week.Days() {
			buf.WriteString(conflictdot.ToDOT(week[d], conflictdot.Options{
				Detailed: opts.Detailed,
				Title:    d.String(),
			}))
		}
	case FormatText:
		if err := text.RenderWeek(&buf, week, text.Options{}); err != nil {
			return nil, err
		}
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}
