// Package render turns laid-out weeks into visual output.
//
// # Overview
//
// Rendering only reads Start, End, Left, Width and Depth; it never changes
// a layout. Three renderers are provided:
//
//   - [svg]: a week calendar with one column per day, an hour grid, and
//     each block drawn at its Left/Width inside the day column.
//   - [text]: terminal day strips, one row per block, for quick inspection.
//   - [conflictdot]: the conflict graph of one day as Graphviz DOT, rendered
//     to SVG with go-graphviz.
//
// Palette picks a stable fill color per block ID so a course keeps its
// color across days and renderers.
//
// [svg]: github.com/matzehuels/blockweek/pkg/render/svg
// [text]: github.com/matzehuels/blockweek/pkg/render/text
// [conflictdot]: github.com/matzehuels/blockweek/pkg/render/conflictdot
package render
