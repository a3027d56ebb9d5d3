package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
)

func laidOut(id string, start, end int, left, width float64) block.Block {
	b := block.New(id, start, end)
	b.Left, b.Width = left, width
	return b
}

func TestRenderSVG(t *testing.T) {
	week := block.Week{
		block.Monday: {laidOut("cs2150", 540, 600, 0, 0.5), laidOut("math3100", 570, 630, 0.5, 0.5)},
		block.Friday: {laidOut("a&b", 600, 660, 0, 1)},
	}

	out := string(RenderSVG(week, WithTitle("Fall"), WithSize(800, 600)))

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600"`,
		`<title>Fall</title>`,
		`data-id="cs2150"`,
		`data-id="math3100"`,
		`a&amp;b`,
		`>Mon<`,
		`>Fri<`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, `class="block"`); got != 3 {
		t.Errorf("rendered %d blocks, want 3", got)
	}
}

func TestRenderSVGSkipsUnplacedBlocks(t *testing.T) {
	week := block.Week{block.Monday: {block.New("pending", 540, 600)}}
	out := string(RenderSVG(week))
	if strings.Contains(out, `data-id="pending"`) {
		t.Error("unplaced block should not be drawn")
	}
}

func TestHourRange(t *testing.T) {
	tests := []struct {
		name     string
		week     block.Week
		from, to int
	}{
		{"empty", block.Week{}, 8, 18},
		{"early and late", block.Week{block.Monday: {block.New("a", 7*60+30, 8*60), block.New("b", 19*60, 20*60+15)}}, 7, 21},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := hourRange(tt.week)
			if from != tt.from || to != tt.to {
				t.Errorf("hourRange() = %d, %d; want %d, %d", from, to, tt.from, tt.to)
			}
		})
	}
}
