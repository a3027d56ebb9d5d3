package engine

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/cache"
	"github.com/matzehuels/blockweek/pkg/columns"
	"github.com/matzehuels/blockweek/pkg/component"
	"github.com/matzehuels/blockweek/pkg/conflict"
	"github.com/matzehuels/blockweek/pkg/observability"
	"github.com/matzehuels/blockweek/pkg/pathdepth"
	"github.com/matzehuels/blockweek/pkg/widthopt"
)

// Options configures an Engine. The zero value uses the exact colorer and
// the simplex solver without memoization.
type Options struct {
	Assigner     columns.Assigner // Column strategy; nil uses columns.Exact
	Solver       widthopt.Solver  // Width solver; nil uses widthopt.Simplex
	NoRefine     bool             // Skip width optimization entirely
	Concurrency  int              // Parallel component solves per day; <= 0 uses GOMAXPROCS
	SolveTimeout time.Duration    // Limit per component solve; <= 0 only honors ctx
	Cache        cache.Cache      // Solve memoization; nil disables
	Keyer        cache.Keyer      // Cache key derivation; nil uses the default
	Logger       *log.Logger      // Nil discards
}

// Result describes one weekday pass.
type Result struct {
	PassID     string        `json:"pass_id"`
	Day        string        `json:"day"`
	Generation uint64        `json:"generation"`
	Blocks     int           `json:"blocks"`
	Edges      int           `json:"edges"`
	Columns    int           `json:"columns"`
	MaxOverlap int           `json:"max_overlap"`
	Chains     int           `json:"chains"`
	Fixed      int           `json:"fixed"`
	Components int           `json:"components"`
	Widened    int           `json:"widened"`
	Solved     int           `json:"solved"`
	Cached     int           `json:"cached"`
	Fallbacks  int           `json:"fallbacks"`
	Stale      bool          `json:"stale"`
	Duration   time.Duration `json:"duration_ns"`
}

// Engine runs layout passes. It is safe for concurrent use.
type Engine struct {
	assigner  columns.Assigner
	optimizer *widthopt.Optimizer
	refine    bool
	logger    *log.Logger

	mu   sync.Mutex
	days map[block.Day]*dayState
}

// dayState orders passes for one day.
type dayState struct {
	gen       atomic.Uint64
	mu        sync.Mutex // held while reading or committing caller blocks
	committed uint64     // generation of the last committed pass, guarded by mu
}

// New creates an Engine.
func New(opts Options) *Engine {
	if opts.Assigner == nil {
		opts.Assigner = columns.Exact{}
	}
	if opts.Solver == nil {
		opts.Solver = widthopt.Simplex{}
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{
		assigner: opts.Assigner,
		optimizer: &widthopt.Optimizer{
			Solver:      opts.Solver,
			Cache:       opts.Cache,
			Keyer:       opts.Keyer,
			Concurrency: opts.Concurrency,
			Timeout:     opts.SolveTimeout,
			Logger:      opts.Logger,
		},
		refine: !opts.NoRefine,
		logger: opts.Logger,
		days:   make(map[block.Day]*dayState),
	}
}

// Generation returns the number of passes started for day.
func (e *Engine) Generation(day block.Day) uint64 {
	return e.state(day).gen.Load()
}

func (e *Engine) state(day block.Day) *dayState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.days[day]
	if !ok {
		st = &dayState{}
		e.days[day] = st
	}
	return st
}

// LayoutWeekday lays out one day's blocks in place, writing Depth,
// PathDepth, Left, Width, Fixed and Neighbors. Blocks must not be shared
// with another day.
//
// Passes commit in generation order: if a newer pass for the same day has
// already committed, blocks are left untouched and Result.Stale is set. A
// newer pass that fails commits nothing and does not stale older ones.
//
// An error is returned only for invalid blocks or when ctx ends before
// columns are assigned. Width solves that fail or run out of time keep
// their initial layout and are counted in Result.Fallbacks.
func (e *Engine) LayoutWeekday(ctx context.Context, day block.Day, blocks []block.Block) (*Result, error) {
	return e.run(ctx, day.Short(), e.state(day), blocks)
}

func (e *Engine) run(ctx context.Context, label string, st *dayState, blocks []block.Block) (*Result, error) {
	start := time.Now()
	gen := st.gen.Add(1)
	res := &Result{
		PassID:     uuid.New().String(),
		Day:        label,
		Generation: gen,
		Blocks:     len(blocks),
	}
	observability.Layout().OnLayoutStart(ctx, label, len(blocks))

	st.mu.Lock()
	work := block.Clone(blocks)
	st.mu.Unlock()

	err := e.compute(ctx, label, work, res)
	res.Duration = time.Since(start)
	if err != nil {
		observability.Layout().OnLayoutComplete(ctx, label, res.Columns, res.Duration, err)
		return nil, err
	}

	st.mu.Lock()
	if gen < st.committed {
		st.mu.Unlock()
		res.Stale = true
		e.logger.Debug("discarded stale pass", "day", label, "generation", gen)
		observability.Layout().OnStale(ctx, label, gen)
		return res, nil
	}
	commit(blocks, work)
	st.committed = gen
	st.mu.Unlock()

	e.logger.Debug("laid out weekday", "day", label,
		"blocks", res.Blocks, "columns", res.Columns,
		"fixed", res.Fixed, "components", res.Components,
		"elapsed", res.Duration.Round(time.Microsecond))
	observability.Layout().OnLayoutComplete(ctx, label, res.Columns, res.Duration, nil)
	return res, nil
}

// compute runs every layout step on work.
func (e *Engine) compute(ctx context.Context, label string, work []block.Block, res *Result) error {
	if err := block.ValidateAll(work); err != nil {
		return err
	}

	block.Reset(work)
	conflict.Auto(work)
	res.Edges = conflict.Edges(work)
	res.MaxOverlap = conflict.MaxOverlap(work)

	depths, err := columns.AssignContext(ctx, e.assigner, work)
	if err != nil {
		return fmt.Errorf("assign columns: %w", err)
	}
	res.Columns = columns.Apply(work, depths)

	st := pathdepth.Analyze(work)
	res.Chains = st.Chains
	res.Fixed = st.Fixed

	if !e.refine {
		return nil
	}
	comps := component.Partition(work)
	res.Components = len(comps)
	e.logger.Debug("partitioned components", "day", label, "sizes", component.Sizes(comps))
	rep := e.optimizer.Optimize(ctx, label, work, comps)
	res.Widened = rep.Widened
	res.Solved = rep.Solved
	res.Cached = rep.Cached
	res.Fallbacks = rep.Fallbacks
	return nil
}

// commit copies layout fields from work onto blocks.
func commit(blocks, work []block.Block) {
	for i := range blocks {
		b, w := &blocks[i], &work[i]
		b.Idx = w.Idx
		b.Depth = w.Depth
		b.PathDepth = w.PathDepth
		b.Left = w.Left
		b.Width = w.Width
		b.Fixed = w.Fixed
		b.Visited = false
		b.Neighbors = append(b.Neighbors[:0], w.Neighbors...)
	}
}

// LayoutWeek lays out every day of week in parallel. Results are keyed by
// day; the first error cancels the remaining days.
func (e *Engine) LayoutWeek(ctx context.Context, week block.Week) (map[block.Day]*Result, error) {
	var mu sync.Mutex
	results := make(map[block.Day]*Result, len(week))

	g, ctx := errgroup.WithContext(ctx)
	for _, day := range week.Days() {
		blocks := week[day]
		g.Go(func() error {
			res, err := e.LayoutWeekday(ctx, day, blocks)
			if err != nil {
				return fmt.Errorf("%s: %w", day, err)
			}
			mu.Lock()
			results[day] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

var defaultEngine = sync.OnceValue(func() *Engine { return New(Options{}) })

// LayoutWeekday lays out one weekday with the default engine: exact columns
// and simplex refinement. Each call is an independent pass.
func LayoutWeekday(blocks []block.Block) (*Result, error) {
	return defaultEngine().run(context.Background(), "", &dayState{}, blocks)
}
