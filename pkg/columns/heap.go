package columns

import (
	"container/heap"

	"github.com/matzehuels/blockweek/pkg/block"
)

// Heap keeps occupied columns in a min-heap keyed by (End, Depth). A block
// reuses the top column when it has already ended.
type Heap struct{}

// Assign implements [Assigner].
func (Heap) Assign(blocks []block.Block) []int {
	depths := make([]int, len(blocks))
	h := &columnHeap{}
	next := 0
	for _, i := range sweepOrder(blocks) {
		b := blocks[i]
		if h.Len() > 0 && (*h)[0].end <= b.Start {
			top := heap.Pop(h).(column)
			depths[i] = top.depth
			heap.Push(h, column{end: b.End, depth: top.depth})
			continue
		}
		depths[i] = next
		heap.Push(h, column{end: b.End, depth: next})
		next++
	}
	return depths
}

type column struct {
	end   int
	depth int
}

type columnHeap []column

func (h columnHeap) Len() int { return len(h) }

func (h columnHeap) Less(i, j int) bool {
	if h[i].end != h[j].end {
		return h[i].end < h[j].end
	}
	return h[i].depth < h[j].depth
}

func (h columnHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *columnHeap) Push(x any) { *h = append(*h, x.(column)) }

func (h *columnHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
