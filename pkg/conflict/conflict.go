package conflict

import (
	"cmp"
	"slices"

	"github.com/matzehuels/blockweek/pkg/block"
)

// SweepThreshold is the block count above which [Auto] switches to the
// sweep-line builder.
const SweepThreshold = 64

// Build clears and rebuilds Neighbors for every block by testing each
// unordered pair. Neighbor lists come out in ascending index order.
func Build(blocks []block.Block) {
	resetNeighbors(blocks)
	for i := range blocks {
		for j := i + 1; j < len(blocks); j++ {
			if blocks[i].Overlaps(blocks[j]) {
				link(blocks, i, j)
			}
		}
	}
}

// BuildSweep rebuilds Neighbors with a sweep over blocks sorted by Start.
// Every block entering the sweep conflicts with exactly the active blocks
// whose End is after its Start. Neighbor lists are sorted so the result is
// identical to [Build].
func BuildSweep(blocks []block.Block) {
	resetNeighbors(blocks)
	order := byStart(blocks)

	active := make([]int, 0, len(blocks))
	for _, i := range order {
		start := blocks[i].Start
		kept := active[:0]
		for _, a := range active {
			if blocks[a].End > start {
				kept = append(kept, a)
			}
		}
		active = kept
		for _, a := range active {
			link(blocks, a, i)
		}
		active = append(active, i)
	}

	for i := range blocks {
		slices.Sort(blocks[i].Neighbors)
	}
}

// Auto picks [Build] for small weekdays and [BuildSweep] for large ones.
func Auto(blocks []block.Block) {
	if len(blocks) > SweepThreshold {
		BuildSweep(blocks)
		return
	}
	Build(blocks)
}

// Edges returns the number of undirected conflict edges.
func Edges(blocks []block.Block) int {
	n := 0
	for _, b := range blocks {
		n += len(b.Neighbors)
	}
	return n / 2
}

// Pairs lists every conflicting pair (i < j) in ascending order.
func Pairs(blocks []block.Block) [][2]int {
	var out [][2]int
	for i, b := range blocks {
		for _, j := range b.Neighbors {
			if i < j {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// MaxOverlap returns the maximum number of blocks simultaneously active.
// Ends are processed before starts at the same minute so touching blocks
// are never counted together.
func MaxOverlap(blocks []block.Block) int {
	type event struct {
		at    int
		delta int
	}
	events := make([]event, 0, 2*len(blocks))
	for _, b := range blocks {
		events = append(events, event{b.Start, +1}, event{b.End, -1})
	}
	slices.SortFunc(events, func(a, b event) int {
		if c := cmp.Compare(a.at, b.at); c != 0 {
			return c
		}
		return cmp.Compare(a.delta, b.delta)
	})

	cur, best := 0, 0
	for _, e := range events {
		cur += e.delta
		best = max(best, cur)
	}
	return best
}

// byStart returns block indices ordered by (Start, End, index).
func byStart(blocks []block.Block) []int {
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(blocks[a].Start, blocks[b].Start); c != 0 {
			return c
		}
		if c := cmp.Compare(blocks[a].End, blocks[b].End); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return order
}

func resetNeighbors(blocks []block.Block) {
	for i := range blocks {
		blocks[i].Neighbors = blocks[i].Neighbors[:0]
	}
}

func link(blocks []block.Block, i, j int) {
	blocks[i].Neighbors = append(blocks[i].Neighbors, j)
	blocks[j].Neighbors = append(blocks[j].Neighbors, i)
}
