// Package io reads schedules and writes laid-out weeks.
//
// # Schedule Format
//
// A schedule lists blocks with their meeting days and clock times. TOML:
//
//	[[block]]
//	id    = "cs2150-lec"
//	title = "CS 2150 Lecture"
//	days  = "MWF"
//	start = "09:00"
//	end   = "09:50"
//
//	[[block]]
//	id    = "cs2150-lab"
//	title = "CS 2150 Lab"
//	day   = "Thursday"
//	start = "14:00"
//	end   = "15:15"
//	[block.payload]
//	room = "Rice 130"
//
// JSON uses the same fields under a top-level "blocks" array.
//
// days accepts registrar letter codes ("MWF", "TR", with R for Thursday and
// U for Sunday) or a comma separated list of names ("Mon, Wed"). day names a
// single day. A block meeting on several days becomes one [block.Block] per
// day, sharing its id.
//
// Every interval is validated while reading; a schedule with a block that
// ends before it starts is rejected as a whole.
//
// # Layout Format
//
// [WriteLayoutJSON] writes one object per day with the computed depth,
// path depth, left, width and fixed flag of each block.
package io
