// Package engine lays out the blocks of a week.
//
// A weekday pass runs these steps in order on a private copy of the blocks:
//
//  1. Reset layout fields and build the conflict graph ([conflict]).
//  2. Assign columns ([columns]).
//  3. Compute path depths, fixed flags and the initial layout ([pathdepth]).
//  4. Partition non-fixed blocks into components ([component]).
//  5. Widen each component, concurrently ([widthopt]).
//  6. Commit the result onto the caller's blocks.
//
// Every pass takes a generation number from a per-day counter. A pass that
// finishes after a newer pass for the same day has started is discarded
// instead of committed, so late results never overwrite newer ones.
//
// Days are independent; [Engine.LayoutWeek] runs them in parallel.
package engine
