package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

// Schedule formats.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Schedule is the decoded file before expansion into a week.
type Schedule struct {
	Blocks []Entry `toml:"block" json:"blocks"`
}

// Entry is one scheduled block, possibly meeting on several days.
type Entry struct {
	ID      string         `toml:"id" json:"id"`
	Title   string         `toml:"title,omitempty" json:"title,omitempty"`
	Day     string         `toml:"day,omitempty" json:"day,omitempty"`
	Days    string         `toml:"days,omitempty" json:"days,omitempty"`
	Start   string         `toml:"start" json:"start"`
	End     string         `toml:"end" json:"end"`
	Payload map[string]any `toml:"payload,omitempty" json:"payload,omitempty"`
}

// FormatFromPath infers the schedule format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", bwerrors.New(bwerrors.ErrCodeInvalidFormat, "unknown schedule format %q (want .toml or .json)", filepath.Ext(path))
}

// ReadSchedule decodes a schedule in the given format from r and expands it
// into a validated week.
func ReadSchedule(r io.Reader, format string) (block.Week, error) {
	var s Schedule
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&s); err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&s); err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidFormat, err, "decode json")
		}
	default:
		return nil, bwerrors.New(bwerrors.ErrCodeInvalidFormat, "unknown schedule format %q", format)
	}
	return s.Week()
}

// ImportSchedule reads the schedule file at path.
func ImportSchedule(path string) (block.Week, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, bwerrors.Wrap(bwerrors.ErrCodeFileNotFound, err, "schedule %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	week, err := ReadSchedule(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return week, nil
}

// Week expands every entry into blocks on each of its days.
func (s Schedule) Week() (block.Week, error) {
	week := block.Week{}
	for i, e := range s.Blocks {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("block-%d", i+1)
		}
		days, err := e.days()
		if err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidDay, err, "block %q", id)
		}
		start, err := bwerrors.ParseClock(e.Start)
		if err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidClock, err, "block %q start", id)
		}
		end, err := bwerrors.ParseClock(e.End)
		if err != nil {
			return nil, bwerrors.Wrap(bwerrors.ErrCodeInvalidClock, err, "block %q end", id)
		}

		b := block.New(id, start, end)
		b.Title = e.Title
		b.Payload = e.Payload
		if err := b.Validate(); err != nil {
			return nil, err
		}
		for _, d := range days {
			week.Add(d, b)
		}
	}
	return week, nil
}

// days resolves Day and Days into a duplicate-free list.
func (e Entry) days() ([]block.Day, error) {
	var tokens []string
	if e.Day != "" {
		tokens = append(tokens, e.Day)
	}
	if v := strings.TrimSpace(e.Days); v != "" {
		if strings.ContainsAny(v, ", ") {
			tokens = append(tokens, strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })...)
		} else if _, err := block.ParseDay(v); err == nil {
			tokens = append(tokens, v)
		} else {
			for _, r := range v {
				tokens = append(tokens, string(r))
			}
		}
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("no day given")
	}

	seen := map[block.Day]bool{}
	var out []block.Day
	for _, t := range tokens {
		d, err := block.ParseDay(t)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}
