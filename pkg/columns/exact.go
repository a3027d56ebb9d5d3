package columns

import (
	"context"
	"time"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/conflict"
)

// DefaultMaxSteps bounds the number of search nodes [Exact] expands.
const DefaultMaxSteps = 1 << 20

// checkEvery is how many steps pass between deadline and context checks.
const checkEvery = 4096

// Exact finds a minimum column assignment by branch-and-bound.
//
// The search starts from the [Greedy] assignment as incumbent and the
// maximum overlap as lower bound, and stops as soon as the two meet. Blocks
// are branched in (Start, duration, Idx) order, trying the lowest column
// first. When the deadline or step budget runs out, the best complete
// assignment found so far is returned.
type Exact struct {
	// Timeout bounds the search. Zero means no deadline.
	Timeout time.Duration
	// MaxSteps bounds the number of expanded search nodes.
	// Zero means DefaultMaxSteps.
	MaxSteps int
	// Progress, when set, is called with the column count of each improved
	// incumbent.
	Progress func(columns int)
}

// Assign implements [Assigner].
func (e Exact) Assign(blocks []block.Block) []int {
	depths, _ := e.AssignContext(context.Background(), blocks)
	return depths
}

// AssignContext implements [ContextAssigner]. Cancellation of ctx ends the
// search early; the incumbent is returned together with ctx.Err().
func (e Exact) AssignContext(ctx context.Context, blocks []block.Block) ([]int, error) {
	best := Greedy{}.Assign(blocks)
	if len(blocks) < 2 {
		return best, nil
	}
	return e.improve(ctx, blocks, best, conflict.MaxOverlap(blocks))
}

// improve searches for an assignment with fewer columns than best, stopping
// once lower is reached.
func (e Exact) improve(ctx context.Context, blocks []block.Block, best []int, lower int) ([]int, error) {
	bestCount := Count(best)
	if bestCount <= lower {
		return best, nil
	}

	s := newSearch(blocks)
	maxSteps := e.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	var deadline time.Time
	if e.Timeout > 0 {
		deadline = time.Now().Add(e.Timeout)
	}

	n := len(s.order)
	tried := make([]int, n+1) // last column tried at each position
	used := make([]int, n+1)  // columns in use before each position
	tried[0] = -1

	pos, steps := 0, 0
	for pos >= 0 {
		steps++
		if steps >= maxSteps {
			break
		}
		if steps%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return best, err
			}
			if !deadline.IsZero() && time.Now().After(deadline) {
				break
			}
		}

		if pos == n {
			best = s.snapshot()
			bestCount = used[n]
			if e.Progress != nil {
				e.Progress(bestCount)
			}
			if bestCount <= lower {
				break
			}
			pos--
			continue
		}

		i := s.order[pos]
		s.color[i] = -1
		limit := min(used[pos], bestCount-2)
		c := tried[pos] + 1
		for ; c <= limit; c++ {
			if s.free(i, c) {
				break
			}
		}
		if c > limit {
			tried[pos] = -1
			pos--
			continue
		}

		tried[pos] = c
		s.color[i] = c
		used[pos+1] = max(used[pos], c+1)
		tried[pos+1] = -1
		pos++
	}
	return best, nil
}

type search struct {
	order     []int
	color     []int
	neighbors [][]int
}

func newSearch(blocks []block.Block) *search {
	work := block.Clone(blocks)
	for i := range work {
		work[i].Idx = i
	}
	conflict.Auto(work)

	s := &search{
		order:     sweepOrder(blocks),
		color:     make([]int, len(blocks)),
		neighbors: make([][]int, len(blocks)),
	}
	for i := range work {
		s.neighbors[i] = work[i].Neighbors
		s.color[i] = -1
	}
	return s
}

// free reports whether no colored neighbor of i uses column c.
func (s *search) free(i, c int) bool {
	for _, j := range s.neighbors[i] {
		if s.color[j] == c {
			return false
		}
	}
	return true
}

func (s *search) snapshot() []int {
	out := make([]int, len(s.color))
	copy(out, s.color)
	return out
}
