package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

// Layout is the JSON form of a laid-out week.
type Layout struct {
	Days []DayLayout `json:"days"`
}

// DayLayout holds one day's placed blocks.
type DayLayout struct {
	Day     string        `json:"day"`
	Columns int           `json:"columns"`
	Blocks  []BlockLayout `json:"blocks"`
}

// BlockLayout is one placed block.
type BlockLayout struct {
	ID        string  `json:"id"`
	Title     string  `json:"title,omitempty"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	Depth     int     `json:"depth"`
	PathDepth int     `json:"path_depth"`
	Left      float64 `json:"left"`
	Width     float64 `json:"width"`
	Fixed     bool    `json:"fixed"`
}

// NewLayout converts a laid-out week into its JSON form.
func NewLayout(week block.Week) Layout {
	var out Layout
	for _, d := range week.Days() {
		blocks := week[d]
		dl := DayLayout{
			Day:     d.Short(),
			Columns: block.Columns(blocks),
			Blocks:  make([]BlockLayout, len(blocks)),
		}
		for i, b := range blocks {
			dl.Blocks[i] = BlockLayout{
				ID:        b.ID,
				Title:     b.Title,
				Start:     bwerrors.FormatClock(b.Start),
				End:       bwerrors.FormatClock(b.End),
				Depth:     b.Depth,
				PathDepth: b.PathDepth,
				Left:      b.Left,
				Width:     b.Width,
				Fixed:     b.Fixed,
			}
		}
		out.Days = append(out.Days, dl)
	}
	return out
}

// WriteLayoutJSON encodes a laid-out week as indented JSON.
func WriteLayoutJSON(week block.Week, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewLayout(week)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportLayoutJSON writes a laid-out week to a JSON file at path.
func ExportLayoutJSON(week block.Week, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLayoutJSON(week, f)
}

// NewSchedule converts a week back into schedule entries, one per block and
// day. Layout fields are dropped.
func NewSchedule(week block.Week) Schedule {
	var s Schedule
	for _, d := range week.Days() {
		for _, b := range week[d] {
			s.Blocks = append(s.Blocks, Entry{
				ID:      b.ID,
				Title:   b.Title,
				Day:     d.Short(),
				Start:   bwerrors.FormatClock(b.Start),
				End:     bwerrors.FormatClock(b.End),
				Payload: b.Payload,
			})
		}
	}
	return s
}

// WriteScheduleTOML encodes week as a TOML schedule readable by
// [ReadSchedule].
func WriteScheduleTOML(week block.Week, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(NewSchedule(week)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
