package widthopt

import (
	"context"
	"encoding/json"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/cache"
	"github.com/matzehuels/blockweek/pkg/component"
	"github.com/matzehuels/blockweek/pkg/observability"
)

// MinComponentSize is the smallest component submitted to the solver.
const MinComponentSize = 2

// Optimizer solves the components of one weekday concurrently.
type Optimizer struct {
	Solver      Solver        // Nil reports ErrSolverUnavailable for every component
	Cache       cache.Cache   // Memoized solutions; nil disables memoization
	Keyer       cache.Keyer   // Nil uses cache.DefaultKeyer
	Concurrency int           // Maximum parallel solves; <= 0 uses GOMAXPROCS
	Timeout     time.Duration // Limit per component solve; <= 0 only honors ctx
	Logger      *log.Logger   // Nil discards
}

// Report summarizes one Optimize call.
type Report struct {
	Components int           // Components submitted to the solver
	Widened    int           // Single blocks widened without the solver
	Solved     int           // Components whose solution was applied
	Cached     int           // Solutions served from the cache
	Fallbacks  int           // Components that kept their initial layout
	Errors     []error       // One per fallback
	Elapsed    time.Duration // Wall time of the call
}

type outcome struct {
	problem *Problem
	sol     *Solution
	cached  bool
	err     error
}

// Optimize builds and solves one problem per component, waits for all of
// them, and then writes the solutions onto blocks. A single free block is
// widened directly to fill the gap between its fixed neighbors.
//
// Optimize never fails as a whole. A component whose solve errors, times
// out or is cancelled through ctx keeps its initial layout and is counted
// in Report.Fallbacks.
func (o *Optimizer) Optimize(ctx context.Context, day string, blocks []block.Block, components [][]int) Report {
	start := time.Now()
	logger := o.logger()

	var rep Report
	for _, members := range components {
		if len(members) != 1 {
			continue
		}
		p := Build(blocks, members)
		if sol := p.Single(); p.Check(sol, Tolerance) == nil {
			p.Apply(blocks, sol)
			rep.Widened++
		}
	}

	solvable := component.Solvable(components, MinComponentSize)
	outcomes := make([]*outcome, len(solvable))
	for i, members := range solvable {
		outcomes[i] = &outcome{problem: Build(blocks, members)}
	}
	rep.Components = len(outcomes)

	var g errgroup.Group
	g.SetLimit(o.concurrency())
	for _, oc := range outcomes {
		g.Go(func() error {
			oc.sol, oc.cached, oc.err = o.solve(ctx, day, oc.problem)
			return nil
		})
	}
	_ = g.Wait()

	for _, oc := range outcomes {
		if oc.err != nil {
			rep.Fallbacks++
			rep.Errors = append(rep.Errors, oc.err)
			logger.Warn("kept initial layout", "day", day, "size", oc.problem.Size(), "err", oc.err)
			observability.Layout().OnFallback(ctx, day, oc.problem.Size(), oc.err)
			continue
		}
		oc.problem.Apply(blocks, oc.sol)
		rep.Solved++
		if oc.cached {
			rep.Cached++
		}
	}
	rep.Elapsed = time.Since(start)
	logger.Debug("optimized widths", "day", day,
		"components", rep.Components, "widened", rep.Widened, "solved", rep.Solved,
		"cached", rep.Cached, "fallbacks", rep.Fallbacks,
		"elapsed", rep.Elapsed.Round(time.Microsecond))
	return rep
}

// solve returns a checked solution for p, consulting the cache first.
func (o *Optimizer) solve(ctx context.Context, day string, p *Problem) (*Solution, bool, error) {
	if o.Solver == nil {
		return nil, false, ErrSolverUnavailable
	}

	key := o.keyer().SolveKey(SolverName(o.Solver), p)
	if sol, ok := o.lookup(ctx, key, p); ok {
		return sol, true, nil
	}

	if o.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
		defer cancel()
	}
	start := time.Now()
	sol, err := Solve(ctx, o.Solver, p)
	observability.Layout().OnSolve(ctx, day, p.Size(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	o.store(ctx, key, sol)
	return sol, false, nil
}

func (o *Optimizer) lookup(ctx context.Context, key string, p *Problem) (*Solution, bool) {
	if o.Cache == nil {
		return nil, false
	}
	data, ok, err := o.Cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "solve")
		return nil, false
	}
	var sol Solution
	if err := json.Unmarshal(data, &sol); err != nil || p.Check(&sol, Tolerance) != nil {
		_ = o.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, "solve")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "solve")
	return &sol, true
}

func (o *Optimizer) store(ctx context.Context, key string, sol *Solution) {
	if o.Cache == nil {
		return
	}
	data, err := json.Marshal(sol)
	if err != nil {
		return
	}
	if err := o.Cache.Set(ctx, key, data, cache.TTLSolve); err != nil {
		o.logger().Debug("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "solve", len(data))
}

func (o *Optimizer) logger() *log.Logger {
	if o.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return o.Logger
}

func (o *Optimizer) keyer() cache.Keyer {
	if o.Keyer == nil {
		return cache.NewDefaultKeyer()
	}
	return o.Keyer
}

func (o *Optimizer) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// Solve runs solver on p and checks the result against p.
func Solve(ctx context.Context, solver Solver, p *Problem) (*Solution, error) {
	if solver == nil {
		return nil, ErrSolverUnavailable
	}
	sol, err := solver.Solve(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := p.Check(sol, Tolerance); err != nil {
		return nil, err
	}
	return sol, nil
}
