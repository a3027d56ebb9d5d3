package io

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
)

const scheduleTOML = `
[[block]]
id = "cs2150-lec"
title = "CS 2150 Lecture"
days = "MWF"
start = "09:00"
end = "09:50"

[[block]]
id = "cs2150-lab"
day = "Thursday"
start = "14:00"
end = "15:15"
[block.payload]
room = "Rice 130"

[[block]]
id = "math3100"
days = "TR"
start = "9:30"
end = "10:45"
`

func TestReadScheduleTOML(t *testing.T) {
	week, err := ReadSchedule(strings.NewReader(scheduleTOML), FormatTOML)
	if err != nil {
		t.Fatalf("ReadSchedule() error = %v", err)
	}

	counts := map[block.Day]int{
		block.Monday:    1,
		block.Tuesday:   1,
		block.Wednesday: 1,
		block.Thursday:  2,
		block.Friday:    1,
	}
	for d, want := range counts {
		if got := len(week[d]); got != want {
			t.Errorf("%s has %d blocks, want %d", d, got, want)
		}
	}

	lab := week[block.Thursday][0]
	if lab.ID != "cs2150-lab" || lab.Start != 840 || lab.End != 915 {
		t.Errorf("lab = %+v", lab)
	}
	if lab.Payload["room"] != "Rice 130" {
		t.Errorf("lab payload = %v", lab.Payload)
	}
	if lab.Left != block.Unset {
		t.Error("read blocks should not be laid out")
	}
	if week[block.Tuesday][0].Start != 570 {
		t.Errorf("math3100 start = %d, want 570", week[block.Tuesday][0].Start)
	}
}

func TestReadScheduleJSON(t *testing.T) {
	in := `{"blocks": [{"id": "a", "days": "Mon, Wed", "start": "08:00", "end": "09:15"}]}`
	week, err := ReadSchedule(strings.NewReader(in), FormatJSON)
	if err != nil {
		t.Fatalf("ReadSchedule() error = %v", err)
	}
	if week.Len() != 2 || len(week[block.Monday]) != 1 || len(week[block.Wednesday]) != 1 {
		t.Errorf("week = %v", week)
	}
}

func TestReadScheduleErrors(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format string
		code   bwerrors.Code
	}{
		{"bad format", `x`, "yaml", bwerrors.ErrCodeInvalidFormat},
		{"bad toml", `[[block`, FormatTOML, bwerrors.ErrCodeInvalidFormat},
		{"ends before start", `{"blocks":[{"day":"Mon","start":"10:00","end":"09:00"}]}`, FormatJSON, bwerrors.ErrCodeInvalidInterval},
		{"bad clock", `{"blocks":[{"day":"Mon","start":"9am","end":"10:00"}]}`, FormatJSON, bwerrors.ErrCodeInvalidClock},
		{"bad day", `{"blocks":[{"days":"MXF","start":"09:00","end":"10:00"}]}`, FormatJSON, bwerrors.ErrCodeInvalidDay},
		{"no day", `{"blocks":[{"start":"09:00","end":"10:00"}]}`, FormatJSON, bwerrors.ErrCodeInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSchedule(strings.NewReader(tt.in), tt.format)
			if !bwerrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestImportSchedule(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "week.toml")
	if err := os.WriteFile(path, []byte(scheduleTOML), 0o644); err != nil {
		t.Fatal(err)
	}

	week, err := ImportSchedule(path)
	if err != nil {
		t.Fatalf("ImportSchedule() error = %v", err)
	}
	if week.Len() != 7 {
		t.Errorf("Len() = %d, want 7", week.Len())
	}

	_, err = ImportSchedule(filepath.Join(dir, "missing.toml"))
	if !bwerrors.Is(err, bwerrors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
	if _, err := ImportSchedule(filepath.Join(dir, "week.yaml")); !bwerrors.Is(err, bwerrors.ErrCodeInvalidFormat) {
		t.Errorf("yaml error = %v, want INVALID_FORMAT", err)
	}
}

func TestScheduleTOMLRoundTrip(t *testing.T) {
	week, err := ReadSchedule(strings.NewReader(scheduleTOML), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteScheduleTOML(week, &buf); err != nil {
		t.Fatalf("WriteScheduleTOML() error = %v", err)
	}
	again, err := ReadSchedule(&buf, FormatTOML)
	if err != nil {
		t.Fatalf("re-read error = %v\n%s", err, buf.String())
	}
	for _, d := range week.Days() {
		if len(again[d]) != len(week[d]) {
			t.Fatalf("%s: %d blocks after round trip, want %d", d, len(again[d]), len(week[d]))
		}
		for i := range week[d] {
			a, b := week[d][i], again[d][i]
			if a.ID != b.ID || a.Start != b.Start || a.End != b.End {
				t.Errorf("%s[%d] = %+v, want %+v", d, i, b, a)
			}
		}
	}
}

func TestWriteLayoutJSON(t *testing.T) {
	a := block.New("a", 540, 600)
	a.Left, a.Width, a.PathDepth, a.Fixed = 0, 0.5, 2, true
	b := block.New("b", 570, 630)
	b.Depth, b.Left, b.Width, b.PathDepth = 1, 0.5, 0.5, 2
	week := block.Week{block.Monday: {a, b}}

	var buf bytes.Buffer
	if err := WriteLayoutJSON(week, &buf); err != nil {
		t.Fatalf("WriteLayoutJSON() error = %v", err)
	}

	var got Layout
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(got.Days) != 1 || got.Days[0].Day != "Mon" || got.Days[0].Columns != 2 {
		t.Fatalf("Days = %+v", got.Days)
	}
	if blk := got.Days[0].Blocks[1]; blk.Start != "09:30" || blk.Left != 0.5 || blk.Depth != 1 {
		t.Errorf("block = %+v", blk)
	}
}
