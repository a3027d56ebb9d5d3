package columns

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/matzehuels/blockweek/pkg/block"
)

// Strategy names accepted by [ByName].
const (
	StrategyGreedy = "greedy"
	StrategyHeap   = "heap"
	StrategyExact  = "exact"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategyExact

// ErrUnknownStrategy is returned by [ByName] for an unrecognized name.
var ErrUnknownStrategy = errors.New("columns: unknown strategy")

// Assigner computes a column for every block.
type Assigner interface {
	Assign(blocks []block.Block) []int
}

// ContextAssigner is an Assigner that supports cancellation and timeouts
// via a context.
type ContextAssigner interface {
	Assigner
	AssignContext(ctx context.Context, blocks []block.Block) ([]int, error)
}

// Strategies lists the accepted strategy names in sorted order.
func Strategies() []string {
	return []string{StrategyExact, StrategyGreedy, StrategyHeap}
}

// ByName returns the assigner for a strategy name. An empty name selects
// [DefaultStrategy].
func ByName(name string) (Assigner, error) {
	switch name {
	case "", StrategyExact:
		return Exact{}, nil
	case StrategyGreedy:
		return Greedy{}, nil
	case StrategyHeap:
		return Heap{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// AssignContext runs a with ctx when it supports one.
func AssignContext(ctx context.Context, a Assigner, blocks []block.Block) ([]int, error) {
	if ca, ok := a.(ContextAssigner); ok {
		return ca.AssignContext(ctx, blocks)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return a.Assign(blocks), nil
}

// Apply writes depths onto blocks and returns the number of columns used.
func Apply(blocks []block.Block, depths []int) int {
	n := 0
	for i, d := range depths {
		blocks[i].Depth = d
		n = max(n, d+1)
	}
	return n
}

// Count returns the number of columns in a depth assignment.
func Count(depths []int) int {
	n := 0
	for _, d := range depths {
		n = max(n, d+1)
	}
	return n
}

// Valid reports whether no two overlapping blocks share a depth.
func Valid(blocks []block.Block, depths []int) bool {
	order := sweepOrder(blocks)
	for x, i := range order {
		for _, j := range order[x+1:] {
			if blocks[j].Start >= blocks[i].End {
				break
			}
			if depths[i] == depths[j] && blocks[i].Overlaps(blocks[j]) {
				return false
			}
		}
	}
	return true
}

// sweepOrder returns block positions ordered by (Start, duration, Idx).
func sweepOrder(blocks []block.Block) []int {
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return less(blocks[order[a]], blocks[order[b]])
	})
	return order
}

func less(a, b block.Block) bool {
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	if a.Duration() != b.Duration() {
		return a.Duration() < b.Duration()
	}
	return a.Idx < b.Idx
}

// Greedy reuses the lowest-depth column whose last block ended at or before
// the next block starts.
type Greedy struct{}

// Assign implements [Assigner].
func (Greedy) Assign(blocks []block.Block) []int {
	depths := make([]int, len(blocks))
	var ends []int // last End per column
	for _, i := range sweepOrder(blocks) {
		b := blocks[i]
		col := slices.IndexFunc(ends, func(end int) bool { return end <= b.Start })
		if col < 0 {
			col = len(ends)
			ends = append(ends, 0)
		}
		ends[col] = b.End
		depths[i] = col
	}
	return depths
}
