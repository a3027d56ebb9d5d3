// Package conflict builds the conflict graph of one weekday.
//
// Two blocks conflict when their half-open intervals [Start, End) overlap;
// a block ending at 10:00 does not conflict with one starting at 10:00. The
// graph is undirected and stored implicitly in each block's Neighbors slice
// as indices into the weekday slice.
//
// [Build] tests every pair and is the reference implementation. [BuildSweep]
// produces the identical relation in O(n log n + E) by sweeping interval
// endpoints; the engine uses it when a weekday has more than
// [SweepThreshold] blocks. [MaxOverlap] returns the largest number of blocks
// active at any instant, which for interval graphs is both the clique number
// and the chromatic number.
package conflict
