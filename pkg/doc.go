// Package pkg provides the libraries behind blockweek, a layout engine for
// weekly calendars with overlapping blocks.
//
// # Overview
//
// A block is a half-open interval [Start, End) on one weekday: a course
// section, a meeting, a shift. Blocks that overlap cannot share horizontal
// space, so each weekday is laid out in stages:
//
//	schedule file (TOML/JSON)
//	         ↓
//	    [io] decode and validate intervals
//	         ↓
//	    [conflict] build the overlap graph
//	         ↓
//	    [columns] assign each block a column (room index)
//	         ↓
//	    [pathdepth] fix the blocks whose chain of conflicts decides their width
//	         ↓
//	    [component] group the remaining blocks
//	         ↓
//	    [widthopt] widen each group into free space (linear program)
//	         ↓
//	    [render] SVG, text strips, conflict DOT
//
// [engine] runs the layout stages for one day or a whole week and discards
// passes that were superseded by a newer one. [pipeline] adds loading,
// rendering and solve memoization on top, and is what the CLI and HTTP
// server call.
//
// # Quick Start
//
//	week, _ := io.ImportSchedule("fall.toml")
//	runner := pipeline.NewRunner(cache.NewMemoryCache(0), nil, nil)
//	res, _ := runner.Execute(ctx, week, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("fall.svg", res.Artifacts["svg"], 0o644)
//
// Or lay out a single day directly:
//
//	blocks := []block.Block{block.New("A", 540, 600), block.New("B", 570, 630)}
//	res, err := engine.LayoutWeekday(blocks)
//	// blocks[0].Left, blocks[0].Width, ...
//
// # Supporting Packages
//
// [block] - the Block and Week types and layout validation.
//
// [errors] - coded errors shared by every package, plus clock parsing.
//
// [cache] - in-process memoization of width solves.
//
// [observability] - hook interfaces for metrics and tracing.
//
// [buildinfo] - version information stamped at link time.
//
// [io]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/io
// [conflict]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/conflict
// [columns]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/columns
// [pathdepth]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/pathdepth
// [component]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/component
// [widthopt]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/widthopt
// [render]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/render
// [engine]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/engine
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/pipeline
// [block]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/block
// [errors]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/errors
// [cache]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/blockweek/pkg/buildinfo
package pkg
