package pathdepth

import (
	"cmp"
	"slices"

	"github.com/matzehuels/blockweek/pkg/block"
)

// Stats summarizes one analysis pass.
type Stats struct {
	Chains   int // Number of descending chains started
	MaxDepth int // Largest PathDepth assigned
	Fixed    int // Number of blocks marked Fixed
}

// Analyze assigns PathDepth, Fixed, Left and Width for blocks whose Depth and
// Neighbors are already set. Visited is cleared before returning.
func Analyze(blocks []block.Block) Stats {
	var st Stats
	if len(blocks) == 0 {
		return st
	}

	st.Chains, st.MaxDepth = assignPathDepths(blocks)
	st.Fixed = markFixed(blocks)

	for i := range blocks {
		b := &blocks[i]
		pd := float64(b.PathDepth)
		b.Left = float64(b.Depth) / pd
		b.Width = 1 / pd
	}
	return st
}

// assignPathDepths processes blocks by descending Depth. Each unvisited block
// starts a walk that spreads Depth+1 to every unvisited block reachable
// through strictly decreasing depths.
func assignPathDepths(blocks []block.Block) (chains, maxDepth int) {
	block.ClearVisited(blocks)
	defer block.ClearVisited(blocks)

	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(blocks[b].Depth, blocks[a].Depth)
	})

	var stack []int
	for _, start := range order {
		if blocks[start].Visited {
			continue
		}
		chains++
		pd := blocks[start].Depth + 1
		maxDepth = max(maxDepth, pd)

		blocks[start].Visited = true
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			blocks[i].PathDepth = pd
			for _, j := range blocks[i].Neighbors {
				if !blocks[j].Visited && blocks[j].Depth < blocks[i].Depth {
					blocks[j].Visited = true
					stack = append(stack, j)
				}
			}
		}
	}
	return chains, maxDepth
}

// markFixed anchors depth-0 blocks and propagates upward one depth at a time.
func markFixed(blocks []block.Block) int {
	var stack []int
	for i := range blocks {
		blocks[i].Fixed = blocks[i].Depth == 0
		if blocks[i].Fixed {
			stack = append(stack, i)
		}
	}

	n := len(stack)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, j := range blocks[i].Neighbors {
			if blocks[j].Fixed || blocks[j].Depth != blocks[i].Depth+1 {
				continue
			}
			if anchored(blocks, j) {
				blocks[j].Fixed = true
				stack = append(stack, j)
				n++
			}
		}
	}
	return n
}

// anchored reports whether every neighbor one column below j is fixed and
// shares j's PathDepth.
func anchored(blocks []block.Block, j int) bool {
	b := &blocks[j]
	below := 0
	for _, k := range b.Neighbors {
		nb := &blocks[k]
		if nb.Depth != b.Depth-1 {
			continue
		}
		if !nb.Fixed || nb.PathDepth != b.PathDepth {
			return false
		}
		below++
	}
	return below > 0
}
