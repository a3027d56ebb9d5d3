package pathdepth

import (
	"math"
	"math/rand"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/columns"
	"github.com/matzehuels/blockweek/pkg/conflict"
)

const eps = 1e-9

// prepare builds the conflict graph and assigns greedy depths.
func prepare(spans ...[2]int) []block.Block {
	blocks := make([]block.Block, len(spans))
	for i, s := range spans {
		blocks[i] = block.New(string(rune('A'+i)), s[0], s[1])
	}
	block.Reset(blocks)
	conflict.Build(blocks)
	columns.Apply(blocks, columns.Greedy{}.Assign(blocks))
	return blocks
}

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name      string
		spans     [][2]int
		pathDepth []int
		fixed     []bool
		width     []float64
	}{
		{
			name:      "single",
			spans:     [][2]int{{540, 600}},
			pathDepth: []int{1},
			fixed:     []bool{true},
			width:     []float64{1},
		},
		{
			name:      "touching",
			spans:     [][2]int{{540, 600}, {600, 660}},
			pathDepth: []int{1, 1},
			fixed:     []bool{true, true},
			width:     []float64{1, 1},
		},
		{
			name:      "overlapping pair",
			spans:     [][2]int{{540, 600}, {570, 630}},
			pathDepth: []int{2, 2},
			fixed:     []bool{true, true},
			width:     []float64{0.5, 0.5},
		},
		{
			name:      "identical triple",
			spans:     [][2]int{{540, 660}, {540, 660}, {540, 660}},
			pathDepth: []int{3, 3, 3},
			fixed:     []bool{true, true, true},
			width:     []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		},
		{
			name:      "short chain beside a deep one",
			spans:     [][2]int{{0, 100}, {10, 20}, {15, 18}, {50, 60}},
			pathDepth: []int{3, 3, 3, 2},
			fixed:     []bool{true, true, true, false},
			width:     []float64{1.0 / 3, 1.0 / 3, 1.0 / 3, 0.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := prepare(tt.spans...)
			Analyze(blocks)
			for i, b := range blocks {
				if b.PathDepth != tt.pathDepth[i] {
					t.Errorf("%s.PathDepth = %d, want %d", b.ID, b.PathDepth, tt.pathDepth[i])
				}
				if b.Fixed != tt.fixed[i] {
					t.Errorf("%s.Fixed = %v, want %v", b.ID, b.Fixed, tt.fixed[i])
				}
				if math.Abs(b.Width-tt.width[i]) > eps {
					t.Errorf("%s.Width = %v, want %v", b.ID, b.Width, tt.width[i])
				}
				if b.Visited {
					t.Errorf("%s.Visited left set", b.ID)
				}
			}
			if err := block.CheckLayout(blocks, eps); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestAnalyzeStats(t *testing.T) {
	blocks := prepare([2]int{0, 100}, [2]int{10, 20}, [2]int{15, 18}, [2]int{50, 60})
	st := Analyze(blocks)
	want := Stats{Chains: 2, MaxDepth: 3, Fixed: 3}
	if st != want {
		t.Errorf("Analyze() = %+v, want %+v", st, want)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	if st := Analyze(nil); st != (Stats{}) {
		t.Errorf("Analyze(nil) = %+v, want zero", st)
	}
}

func TestInitialLayoutIsConflictFree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(25) + 1
		spans := make([][2]int, n)
		for i := range spans {
			start := 480 + 5*rng.Intn(100)
			spans[i] = [2]int{start, start + 20 + 5*rng.Intn(24)}
		}
		blocks := prepare(spans...)
		Analyze(blocks)
		for _, b := range blocks {
			if b.PathDepth < b.Depth+1 {
				t.Fatalf("trial %d: %s PathDepth %d below Depth+1 (%d)", trial, b.ID, b.PathDepth, b.Depth+1)
			}
		}
		if err := block.CheckLayout(blocks, eps); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
	}
}
