// Package columns assigns each block of a weekday a display column (its
// Depth) so that no two conflicting blocks share a column.
//
// Three strategies are provided:
//
//   - [Greedy]: sort by start time and reuse the lowest free column. O(n²).
//   - [Heap]: the same sweep with a min-heap of columns keyed by end time.
//     O(n log n).
//   - [Exact]: branch-and-bound search for a minimum coloring, bounded below
//     by the maximum overlap and seeded with the greedy result.
//
// For interval conflict graphs all three produce the minimum number of
// columns. [Exact] is the default; select a strategy by name with [ByName].
//
// Assigners return depths indexed by slice position; [Apply] writes them
// onto the blocks.
package columns
