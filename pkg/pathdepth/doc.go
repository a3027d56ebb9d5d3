// Package pathdepth sizes columns after depths are assigned.
//
// Column count alone overstates how narrow a block must be: a block at depth
// 0 that only ever conflicts with one other block needs half the day width,
// even if some unrelated run of conflicts elsewhere uses four columns.
// [Analyze] walks descending-depth chains of conflicts and gives each chain
// a shared PathDepth, the number of columns that run actually needs. Every
// block then starts at Left = Depth/PathDepth with Width = 1/PathDepth,
// which is conflict-free by construction.
//
// Analyze also marks blocks whose placement cannot improve as Fixed. Depth-0
// blocks are anchored at the left edge; a block at depth d is fixed when all
// of its depth d-1 neighbors are fixed and share its PathDepth. Only
// non-fixed blocks go on to width optimization.
package pathdepth
