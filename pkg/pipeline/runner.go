package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/cache"
	"github.com/matzehuels/blockweek/pkg/engine"
	bwerrors "github.com/matzehuels/blockweek/pkg/errors"
	bwio "github.com/matzehuels/blockweek/pkg/io"
	"github.com/matzehuels/blockweek/pkg/observability"
)

// Runner executes pipelines against a shared solve cache.
//
// The Runner holds no per-run state. Each Execute builds its own engine, so
// concurrent runs never mark each other's passes stale while still sharing
// memoized solves.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the layout → render pipeline on week. The week is cloned;
// the caller's blocks are not modified.
func (r *Runner) Execute(ctx context.Context, week block.Week, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	layoutStart := time.Now()
	laid, days, err := r.Layout(ctx, week, opts)
	if err != nil {
		return nil, err
	}
	result.Week = laid
	result.Days = days
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Blocks = laid.Len()
	result.Stats.Days = len(days)
	for _, d := range days {
		result.Stats.Fallbacks += d.Fallbacks
	}

	r.Logger.Info("laid out week",
		"days", result.Stats.Days,
		"blocks", result.Stats.Blocks,
		"fallbacks", result.Stats.Fallbacks,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, laid, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered", "formats", opts.Formats, "duration", result.Stats.RenderTime)
	return result, nil
}

// ExecuteFile loads a schedule file and runs Execute on it.
func (r *Runner) ExecuteFile(ctx context.Context, path string, opts Options) (*Result, error) {
	week, err := r.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, week, opts)
}

// Load reads a schedule file.
func (r *Runner) Load(ctx context.Context, path string) (block.Week, error) {
	start := time.Now()
	week, err := bwio.ImportSchedule(path)
	n := 0
	if err == nil {
		n = week.Len()
	}
	observability.Pipeline().OnLoadComplete(ctx, path, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded schedule", "path", path, "blocks", n, "days", len(week))
	return week, nil
}

// Layout lays out the days selected by opts on a clone of week. Days with no
// blocks are skipped.
func (r *Runner) Layout(ctx context.Context, week block.Week, opts Options) (block.Week, map[block.Day]*DayStats, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, nil, err
	}
	if err := validDays(week); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	eng, err := r.engine(opts)
	if err != nil {
		return nil, nil, err
	}
	selected, err := opts.DayList()
	if err != nil {
		return nil, nil, err
	}

	out := make(block.Week, len(selected))
	for _, d := range selected {
		if blocks := week[d]; len(blocks) > 0 {
			out[d] = block.Clone(blocks)
		}
	}

	results, err := eng.LayoutWeek(ctx, out)
	if err != nil {
		return nil, nil, err
	}
	stats := make(map[block.Day]*DayStats, len(results))
	for d, res := range results {
		stats[d] = dayStats(res)
	}
	return out, stats, nil
}

// Render produces artifacts for an already laid-out week.
func (r *Runner) Render(ctx context.Context, week block.Week, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := Render(ctx, week, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) engine(opts Options) (*engine.Engine, error) {
	eopts := engine.Options{
		NoRefine:     opts.Solver == "none",
		Concurrency:  opts.Concurrency,
		SolveTimeout: opts.SolveTimeout,
		Keyer:        r.Keyer,
		Logger:       opts.Logger,
	}
	if !opts.NoCache {
		eopts.Cache = r.Cache
	}
	a, err := opts.Assigner()
	if err != nil {
		return nil, err
	}
	eopts.Assigner = a
	if !eopts.NoRefine {
		s, err := opts.WidthSolver()
		if err != nil {
			return nil, err
		}
		eopts.Solver = s
	}
	return engine.New(eopts), nil
}

// applyLogger uses the runner's logger unless opts carries its own.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func dayStats(res *engine.Result) *DayStats {
	return &DayStats{
		PassID:     res.PassID,
		Blocks:     res.Blocks,
		Columns:    res.Columns,
		MaxOverlap: res.MaxOverlap,
		Fixed:      res.Fixed,
		Components: res.Components,
		Solved:     res.Solved,
		Cached:     res.Cached,
		Fallbacks:  res.Fallbacks,
	}
}

// validDays rejects weeks holding days outside Monday..Sunday.
func validDays(week block.Week) error {
	for d := range week {
		if !d.Valid() {
			return bwerrors.New(bwerrors.ErrCodeInvalidDay, "invalid day %d", int(d))
		}
	}
	return nil
}
