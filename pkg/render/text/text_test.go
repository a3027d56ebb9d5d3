package text

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
)

func TestBar(t *testing.T) {
	tests := []struct {
		name        string
		left, width float64
		want        string
	}{
		{"full", 0, 1, "##########"},
		{"left half", 0, 0.5, "#####     "},
		{"right half", 0.5, 0.5, "     #####"},
		{"middle third", 1.0 / 3, 1.0 / 3, "   ####   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := block.New("x", 0, 10)
			b.Left, b.Width = tt.left, tt.width
			if got := Bar(b, Options{Width: 10}); got != tt.want {
				t.Errorf("Bar() = %q, want %q", got, tt.want)
			}
		})
	}

	if got := Bar(block.New("x", 0, 10), Options{Width: 4}); got != "    " {
		t.Errorf("unplaced Bar() = %q, want blanks", got)
	}
}

func TestRenderDay(t *testing.T) {
	a := block.New("cs2150", 540, 600)
	a.Left, a.Width, a.PathDepth, a.Fixed = 0, 0.5, 2, true
	b := block.New("math3100", 570, 630)
	b.Depth, b.Left, b.Width, b.PathDepth = 1, 0.5, 0.5, 2

	var buf bytes.Buffer
	if err := RenderDay(&buf, block.Monday, []block.Block{b, a}, Options{}); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"Mon  2 columns",
		"  09:00-10:00 |##########          | cs2150   0/2 fixed",
		"  09:30-10:30 |          ##########| math3100 1/2",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("RenderDay() =\n%s\nwant\n%s", got, want)
	}
}
