package widthopt

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/matzehuels/blockweek/pkg/block"
	"github.com/matzehuels/blockweek/pkg/cache"
	"github.com/matzehuels/blockweek/pkg/columns"
	"github.com/matzehuels/blockweek/pkg/component"
	"github.com/matzehuels/blockweek/pkg/conflict"
	"github.com/matzehuels/blockweek/pkg/pathdepth"
)

const eps = 1e-6

// analyzed returns blocks laid out up to the optimization step.
func analyzed(spans ...[2]int) ([]block.Block, [][]int) {
	blocks := make([]block.Block, len(spans))
	for i, s := range spans {
		blocks[i] = block.New(string(rune('A'+i)), s[0], s[1])
	}
	block.Reset(blocks)
	conflict.Build(blocks)
	columns.Apply(blocks, columns.Greedy{}.Assign(blocks))
	pathdepth.Analyze(blocks)
	return blocks, component.Partition(blocks)
}

// wideChain has a four-deep run on the left (A, B, C, D) and a two-block
// component (E, F) that only needs three columns.
var wideChain = [][2]int{{0, 100}, {10, 30}, {12, 28}, {14, 26}, {50, 70}, {55, 65}}

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func TestBuild(t *testing.T) {
	blocks, comps := analyzed(wideChain...)
	if len(comps) != 1 || len(comps[0]) != 2 {
		t.Fatalf("components = %v, want one pair", comps)
	}

	p := Build(blocks, comps[0])
	if p.Size() != 2 {
		t.Fatalf("Size() = %d, want 2", p.Size())
	}
	if len(p.Orders) != 1 || p.Orders[0] != (Order{Before: 0, After: 1}) {
		t.Errorf("Orders = %v, want [{0 1}]", p.Orders)
	}
	for k, v := range p.Vars {
		if !near(v.MinLeft, 0.25) {
			t.Errorf("Vars[%d].MinLeft = %v, want 0.25", k, v.MinLeft)
		}
		if v.MaxRight != 1 {
			t.Errorf("Vars[%d].MaxRight = %v, want 1", k, v.MaxRight)
		}
	}
	if err := p.Check(p.Initial(), Tolerance); err != nil {
		t.Errorf("initial layout violates problem: %v", err)
	}
}

func TestSimplexWidensComponent(t *testing.T) {
	blocks, comps := analyzed(wideChain...)
	p := Build(blocks, comps[0])

	sol, err := Solve(context.Background(), Simplex{}, p)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}

	want := []struct{ left, width float64 }{
		{0.25, 1.0 / 3},
		{0.25 + 1.0/3, 1 - 0.25 - 1.0/3},
	}
	for k, w := range want {
		if !near(sol.Left[k], w.left) || !near(sol.Width[k], w.width) {
			t.Errorf("var %d = (%.4f, %.4f), want (%.4f, %.4f)", k, sol.Left[k], sol.Width[k], w.left, w.width)
		}
	}
	if !near(sol.Objective, 0.75) {
		t.Errorf("Objective = %v, want 0.75", sol.Objective)
	}
}

func TestOptimize(t *testing.T) {
	blocks, comps := analyzed(wideChain...)
	before := block.Clone(blocks)

	opt := &Optimizer{Solver: Simplex{}}
	rep := opt.Optimize(context.Background(), "Mon", blocks, comps)
	if rep.Components != 1 || rep.Solved != 1 || rep.Fallbacks != 0 {
		t.Errorf("Report = %+v", rep)
	}

	for i := range blocks {
		if before[i].Fixed && (blocks[i].Left != before[i].Left || blocks[i].Width != before[i].Width) {
			t.Errorf("fixed block %s moved", blocks[i].ID)
		}
	}
	if !near(blocks[5].Width, 1-0.25-1.0/3) {
		t.Errorf("F.Width = %v, want %v", blocks[5].Width, 1-0.25-1.0/3)
	}
	if err := block.CheckLayout(blocks, eps); err != nil {
		t.Error(err)
	}
}

func TestOptimizeWidensSingleBlock(t *testing.T) {
	blocks, comps := analyzed([2]int{0, 100}, [2]int{10, 20}, [2]int{15, 18}, [2]int{50, 60})

	opt := &Optimizer{Solver: Simplex{}}
	rep := opt.Optimize(context.Background(), "Tue", blocks, comps)
	if rep.Widened != 1 || rep.Components != 0 {
		t.Errorf("Report = %+v, want one widened block", rep)
	}
	d := blocks[3]
	if !near(d.Left, 1.0/3) || !near(d.Width, 2.0/3) {
		t.Errorf("D = (%.4f, %.4f), want (0.3333, 0.6667)", d.Left, d.Width)
	}
}

type failingSolver struct{ err error }

func (f failingSolver) Solve(context.Context, *Problem) (*Solution, error) { return nil, f.err }

type overlappingSolver struct{}

func (overlappingSolver) Solve(_ context.Context, p *Problem) (*Solution, error) {
	s := p.Initial()
	for k := range s.Width {
		s.Left[k], s.Width[k] = 0, 1
	}
	return s, nil
}

func TestOptimizeFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		solver Solver
		want   error
	}{
		{"infeasible", failingSolver{ErrInfeasible}, ErrInfeasible},
		{"unavailable", nil, ErrSolverUnavailable},
		{"invalid solution", overlappingSolver{}, ErrInvalidSolution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, comps := analyzed(wideChain...)
			before := block.Clone(blocks)

			opt := &Optimizer{Solver: tt.solver}
			rep := opt.Optimize(context.Background(), "Wed", blocks, comps)
			if rep.Fallbacks != 1 || len(rep.Errors) != 1 {
				t.Fatalf("Report = %+v, want one fallback", rep)
			}
			if !errors.Is(rep.Errors[0], tt.want) {
				t.Errorf("error = %v, want %v", rep.Errors[0], tt.want)
			}
			for i := range blocks {
				if blocks[i].Left != before[i].Left || blocks[i].Width != before[i].Width {
					t.Errorf("block %s changed on fallback", blocks[i].ID)
				}
			}
		})
	}
}

type countingSolver struct {
	Simplex
	calls int
}

func (c *countingSolver) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	c.calls++
	return c.Simplex.Solve(ctx, p)
}

func TestOptimizeUsesCache(t *testing.T) {
	solver := &countingSolver{}
	opt := &Optimizer{Solver: solver, Cache: cache.NewMemoryCache(0), Concurrency: 1}

	for _, day := range []string{"Mon", "Wed", "Fri"} {
		blocks, comps := analyzed(wideChain...)
		if rep := opt.Optimize(context.Background(), day, blocks, comps); rep.Solved != 1 {
			t.Fatalf("Optimize(%s) = %+v, want one solved component", day, rep)
		}
	}
	if solver.calls != 1 {
		t.Errorf("solver called %d times, want 1", solver.calls)
	}
}

// stalledSolver never finishes on its own.
type stalledSolver struct{}

func (stalledSolver) Solve(ctx context.Context, _ *Problem) (*Solution, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestOptimizeKeepsLayoutWhenSolveEnds(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		opt  *Optimizer
		want error
	}{
		{"solve timeout", context.Background(), &Optimizer{Solver: stalledSolver{}, Timeout: 20 * time.Millisecond}, context.DeadlineExceeded},
		{"cancelled context", cancelled, &Optimizer{Solver: Simplex{}}, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, comps := analyzed(wideChain...)
			before := block.Clone(blocks)

			start := time.Now()
			rep := tt.opt.Optimize(tt.ctx, "Thu", blocks, comps)
			if elapsed := time.Since(start); elapsed > 2*time.Second {
				t.Errorf("Optimize took %v after its deadline", elapsed)
			}
			if rep.Fallbacks != 1 || rep.Solved != 0 {
				t.Fatalf("Report = %+v, want one fallback", rep)
			}
			if !errors.Is(rep.Errors[0], tt.want) {
				t.Errorf("error = %v, want %v", rep.Errors[0], tt.want)
			}
			for i := range blocks {
				if blocks[i].Left != before[i].Left || blocks[i].Width != before[i].Width {
					t.Errorf("block %s changed after %s", blocks[i].ID, tt.name)
				}
			}
			if err := block.CheckLayout(blocks, eps); err != nil {
				t.Error(err)
			}
		})
	}
}

// crowded returns a weekday of n random 30 to 175 minute blocks between
// 8:00 and 18:00, analyzed up to the optimization step.
func crowded(seed int64, n int) ([]block.Block, [][]int) {
	rng := rand.New(rand.NewSource(seed))
	spans := make([][2]int, n)
	for i := range spans {
		start := 480 + 5*rng.Intn(120)
		spans[i] = [2]int{start, start + 30 + 5*rng.Intn(30)}
	}
	blocks := make([]block.Block, n)
	for i, s := range spans {
		blocks[i] = block.New(fmt.Sprintf("b%d", i), s[0], s[1])
	}
	block.Reset(blocks)
	conflict.Build(blocks)
	columns.Apply(blocks, columns.Heap{}.Assign(blocks))
	pathdepth.Analyze(blocks)
	return blocks, component.Partition(blocks)
}

func TestSimplexHonorsDeadline(t *testing.T) {
	blocks, comps := crowded(7, 80)
	if len(comps) == 0 {
		t.Fatal("no free components")
	}
	largest := comps[0]
	for _, c := range comps {
		if len(c) > len(largest) {
			largest = c
		}
	}
	p := Build(blocks, largest)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	sol, err := Solve(ctx, Simplex{}, p)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Solve(%d blocks) returned after %v", p.Size(), elapsed)
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
	case err != nil:
		t.Fatalf("Solve() error = %v", err)
	case sol.Objective < p.Initial().Objective-eps:
		t.Errorf("Objective = %v, below initial %v", sol.Objective, p.Initial().Objective)
	}
}

func TestSimplexCancelled(t *testing.T) {
	blocks, comps := analyzed(wideChain...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Simplex{}).Solve(ctx, Build(blocks, comps[0])); !errors.Is(err, context.Canceled) {
		t.Errorf("Solve() error = %v, want context.Canceled", err)
	}
}

func TestSolverByName(t *testing.T) {
	if s, err := SolverByName("simplex"); err != nil || SolverName(s) != "simplex" {
		t.Errorf("SolverByName(simplex) = %v, %v", s, err)
	}
	if s, err := SolverByName("none"); err != nil || SolverName(s) != "initial" {
		t.Errorf("SolverByName(none) = %v, %v", s, err)
	}
	if _, err := SolverByName("cplex"); !errors.Is(err, ErrSolverUnavailable) {
		t.Errorf("SolverByName(cplex) error = %v", err)
	}
}
