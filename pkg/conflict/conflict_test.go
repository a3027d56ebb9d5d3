package conflict

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
)

func blocksOf(spans ...[2]int) []block.Block {
	out := make([]block.Block, len(spans))
	for i, s := range spans {
		out[i] = block.New("", s[0], s[1])
		out[i].Idx = i
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		spans [][2]int
		want  [][]int
	}{
		{
			name:  "single",
			spans: [][2]int{{540, 600}},
			want:  [][]int{{}},
		},
		{
			name:  "touching endpoints do not conflict",
			spans: [][2]int{{540, 600}, {600, 660}},
			want:  [][]int{{}, {}},
		},
		{
			name:  "overlapping pair",
			spans: [][2]int{{540, 600}, {570, 630}},
			want:  [][]int{{1}, {0}},
		},
		{
			name:  "three identical",
			spans: [][2]int{{540, 660}, {540, 660}, {540, 660}},
			want:  [][]int{{1, 2}, {0, 2}, {0, 1}},
		},
		{
			name:  "chain",
			spans: [][2]int{{0, 20}, {10, 30}, {25, 40}},
			want:  [][]int{{1}, {0, 2}, {1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, build := range []func([]block.Block){Build, BuildSweep} {
				blocks := blocksOf(tt.spans...)
				build(blocks)
				for i, b := range blocks {
					if len(b.Neighbors) == 0 && len(tt.want[i]) == 0 {
						continue
					}
					if !slices.Equal(b.Neighbors, tt.want[i]) {
						t.Errorf("blocks[%d].Neighbors = %v, want %v", i, b.Neighbors, tt.want[i])
					}
				}
			}
		})
	}
}

func TestBuildIsRebuildable(t *testing.T) {
	blocks := blocksOf([2]int{540, 600}, [2]int{570, 630})
	Build(blocks)
	Build(blocks)
	if len(blocks[0].Neighbors) != 1 {
		t.Errorf("rebuilding duplicated neighbors: %v", blocks[0].Neighbors)
	}
}

func TestSweepMatchesPairwise(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := rng.Intn(40) + 1
		spans := make([][2]int, n)
		for i := range spans {
			start := rng.Intn(600) + 480
			spans[i] = [2]int{start, start + 15 + rng.Intn(120)}
		}

		a := blocksOf(spans...)
		b := blocksOf(spans...)
		Build(a)
		BuildSweep(b)
		for i := range a {
			if !slices.Equal(a[i].Neighbors, b[i].Neighbors) {
				t.Fatalf("trial %d block %d: pairwise %v, sweep %v", trial, i, a[i].Neighbors, b[i].Neighbors)
			}
		}
		if Edges(a) != len(Pairs(a)) {
			t.Fatalf("Edges() = %d, Pairs() = %d", Edges(a), len(Pairs(a)))
		}
	}
}

func TestMaxOverlap(t *testing.T) {
	tests := []struct {
		name  string
		spans [][2]int
		want  int
	}{
		{"empty", nil, 0},
		{"single", [][2]int{{540, 600}}, 1},
		{"touching", [][2]int{{540, 600}, {600, 660}}, 1},
		{"pair", [][2]int{{540, 600}, {570, 630}}, 2},
		{"identical triple", [][2]int{{540, 660}, {540, 660}, {540, 660}}, 3},
		{"chain of two", [][2]int{{0, 20}, {10, 30}, {25, 40}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaxOverlap(blocksOf(tt.spans...)); got != tt.want {
				t.Errorf("MaxOverlap() = %d, want %d", got, tt.want)
			}
		})
	}
}
