package columns

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/conflict"
)

func blocksOf(spans ...[2]int) []block.Block {
	out := make([]block.Block, len(spans))
	for i, s := range spans {
		out[i] = block.New("", s[0], s[1])
		out[i].Idx = i
	}
	return out
}

func randomDay(rng *rand.Rand, n int) []block.Block {
	spans := make([][2]int, n)
	for i := range spans {
		start := 480 + 5*rng.Intn(120)
		spans[i] = [2]int{start, start + 30 + 5*rng.Intn(30)}
	}
	return blocksOf(spans...)
}

func assigners() map[string]Assigner {
	return map[string]Assigner{
		StrategyGreedy: Greedy{},
		StrategyHeap:   Heap{},
		StrategyExact:  Exact{},
	}
}

func TestAssigners(t *testing.T) {
	tests := []struct {
		name    string
		spans   [][2]int
		columns int
		depths  []int
	}{
		{name: "empty", columns: 0, depths: []int{}},
		{name: "single", spans: [][2]int{{540, 600}}, columns: 1, depths: []int{0}},
		{name: "touching", spans: [][2]int{{540, 600}, {600, 660}}, columns: 1, depths: []int{0, 0}},
		{name: "overlapping pair", spans: [][2]int{{540, 600}, {570, 630}}, columns: 2, depths: []int{0, 1}},
		{name: "identical triple", spans: [][2]int{{540, 660}, {540, 660}, {540, 660}}, columns: 3, depths: []int{0, 1, 2}},
		{name: "shorter first at same start", spans: [][2]int{{540, 660}, {540, 600}}, columns: 2, depths: []int{1, 0}},
	}

	for _, tt := range tests {
		for name, a := range assigners() {
			t.Run(tt.name+"/"+name, func(t *testing.T) {
				blocks := blocksOf(tt.spans...)
				depths := a.Assign(blocks)
				if got := Count(depths); got != tt.columns {
					t.Errorf("Count() = %d, want %d", got, tt.columns)
				}
				if !slices.Equal(depths, tt.depths) {
					t.Errorf("depths = %v, want %v", depths, tt.depths)
				}
			})
		}
	}
}

func TestAssignersAreMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		blocks := randomDay(rng, rng.Intn(30)+1)
		want := conflict.MaxOverlap(blocks)
		for name, a := range assigners() {
			depths := a.Assign(blocks)
			if !Valid(blocks, depths) {
				t.Fatalf("trial %d: %s produced conflicting columns %v", trial, name, depths)
			}
			if got := Count(depths); got != want {
				t.Fatalf("trial %d: %s used %d columns, max overlap is %d", trial, name, got, want)
			}
		}
	}
}

func TestExactImprovesPoorIncumbent(t *testing.T) {
	blocks := blocksOf([2]int{0, 30}, [2]int{20, 50}, [2]int{40, 70}, [2]int{60, 90})
	poor := []int{0, 1, 2, 3}

	var improvements []int
	e := Exact{Progress: func(n int) { improvements = append(improvements, n) }}
	depths, err := e.improve(context.Background(), blocks, poor, conflict.MaxOverlap(blocks))
	if err != nil {
		t.Fatalf("improve() error = %v", err)
	}
	if got := Count(depths); got != 2 {
		t.Errorf("Count() = %d, want 2", got)
	}
	if !Valid(blocks, depths) {
		t.Errorf("improve() returned conflicting columns %v", depths)
	}
	if len(improvements) == 0 || improvements[len(improvements)-1] != 2 {
		t.Errorf("Progress calls = %v, want last 2", improvements)
	}
}

func TestExactStepBudgetKeepsIncumbent(t *testing.T) {
	blocks := blocksOf([2]int{0, 30}, [2]int{20, 50}, [2]int{40, 70})
	poor := []int{0, 1, 2}

	depths, err := Exact{MaxSteps: 1}.improve(context.Background(), blocks, poor, 2)
	if err != nil {
		t.Fatalf("improve() error = %v", err)
	}
	if !slices.Equal(depths, poor) {
		t.Errorf("depths = %v, want incumbent %v", depths, poor)
	}
}

func TestAssignContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := AssignContext(ctx, Greedy{}, blocksOf([2]int{0, 10}))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("AssignContext() error = %v, want context.Canceled", err)
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name    string
		want    Assigner
		wantErr bool
	}{
		{"", Exact{}, false},
		{"exact", Exact{}, false},
		{"greedy", Greedy{}, false},
		{"heap", Heap{}, false},
		{"dsatur", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ByName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownStrategy) {
					t.Errorf("ByName(%q) error = %v, want ErrUnknownStrategy", tt.name, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ByName(%q) error = %v", tt.name, err)
			}
			if _, ok := got.(Exact); ok != isExact(tt.want) {
				t.Errorf("ByName(%q) = %T, want %T", tt.name, got, tt.want)
			}
		})
	}
}

func isExact(a Assigner) bool {
	_, ok := a.(Exact)
	return ok
}

func TestApply(t *testing.T) {
	blocks := blocksOf([2]int{540, 600}, [2]int{570, 630})
	if n := Apply(blocks, []int{0, 1}); n != 2 {
		t.Errorf("Apply() = %d, want 2", n)
	}
	if blocks[1].Depth != 1 {
		t.Errorf("blocks[1].Depth = %d, want 1", blocks[1].Depth)
	}
}
