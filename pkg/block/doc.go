// Package block defines the time interval entity the layout engine places.
//
// A [Block] is one displayable interval on one weekday: a class section, a
// lab, an event. Its Start and End are minutes since midnight and its layout
// fields (Depth, PathDepth, Left, Width, Fixed) are written by the engine
// packages during a layout pass:
//
//	conflict   fills Neighbors
//	columns    assigns Depth
//	pathdepth  computes PathDepth, Fixed and the initial Left/Width
//	widthopt   refines Left/Width of non-fixed blocks
//
// Blocks of one weekday live in a plain slice that acts as an arena.
// Neighbors holds indices into that same slice, never pointers, so the
// conflict graph carries no ownership cycles and a slice can be copied with
// [Clone] to give a layout pass private working state.
//
// Only Left, Width and Depth are part of the rendering contract. Everything
// else is scratch or diagnostic.
package block
