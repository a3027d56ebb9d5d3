// Package component splits the non-fixed blocks of a weekday into connected
// components of the conflict graph. Components share no blocks, so each can
// be optimized independently.
package component

import (
	"slices"

	"github.com/matzehuels/blockweek/pkg/block"
)

// Partition returns every maximal connected set of non-fixed blocks, found
// by breadth-first search over Neighbors. Fixed blocks neither join a
// component nor connect two of them.
//
// Components are ordered by their lowest index and each lists its members
// in ascending order. Visited is cleared before returning.
func Partition(blocks []block.Block) [][]int {
	block.ClearVisited(blocks)
	defer block.ClearVisited(blocks)

	var out [][]int
	var queue []int
	for start := range blocks {
		if blocks[start].Fixed || blocks[start].Visited {
			continue
		}

		blocks[start].Visited = true
		queue = append(queue[:0], start)
		members := []int{}
		for len(queue) > 0 {
			i := queue[0]
			queue = queue[1:]
			members = append(members, i)
			for _, j := range blocks[i].Neighbors {
				if blocks[j].Fixed || blocks[j].Visited {
					continue
				}
				blocks[j].Visited = true
				queue = append(queue, j)
			}
		}
		slices.Sort(members)
		out = append(out, members)
	}
	return out
}

// Sizes returns the member count of each component.
func Sizes(components [][]int) []int {
	out := make([]int, len(components))
	for i, c := range components {
		out[i] = len(c)
	}
	return out
}

// Solvable filters out components too small to benefit from optimization.
func Solvable(components [][]int, minSize int) [][]int {
	var out [][]int
	for _, c := range components {
		if len(c) >= minSize {
			out = append(out, c)
		}
	}
	return out
}
