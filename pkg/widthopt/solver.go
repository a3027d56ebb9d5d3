package widthopt

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	// ErrInfeasible is returned when a solver finds no feasible layout.
	ErrInfeasible = errors.New("widthopt: infeasible")

	// ErrSolverUnavailable is returned when no solver is configured.
	ErrSolverUnavailable = errors.New("widthopt: solver unavailable")

	// ErrInvalidSolution is returned when a solution violates the problem.
	ErrInvalidSolution = errors.New("widthopt: invalid solution")
)

// Solver solves one width problem.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// Named is implemented by solvers that report a stable name, used to scope
// memoized solutions.
type Named interface {
	Name() string
}

// SolverName returns s's name, or its type when it has none.
func SolverName(s Solver) string {
	if n, ok := s.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", s)
}

// Simplex solves problems with gonum's simplex method.
type Simplex struct {
	// Tol is the pivot tolerance. Zero uses 1e-10.
	Tol float64
}

// Name implements [Named].
func (Simplex) Name() string { return "simplex" }

// Solve implements [Solver]. The solve runs on its own goroutine so that a
// cancelled ctx returns at once; the abandoned goroutine finishes in the
// background and its result is dropped.
func (s Simplex) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(p.Vars) == 0 {
		return &Solution{}, nil
	}

	type result struct {
		sol *Solution
		err error
	}
	done := make(chan result, 1)
	go func() {
		sol, err := s.solve(p)
		done <- result{sol, err}
	}()

	select {
	case r := <-done:
		return r.sol, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("widthopt: simplex abandoned: %w", ctx.Err())
	}
}

// solve puts p in standard form, min cᵀx subject to Ax = b and x >= 0,
// measured from the initial layout:
//
//	left  = Left  + up - down
//	width = Width + grow
//
// so x = [up..., down..., grow..., slack...] with one slack per row. Every
// row is a <= row whose right side is the initial layout's own slack, so
// when that layout is feasible the all-slack basis is a feasible start and
// the costly phase I search is skipped.
func (s Simplex) solve(p *Problem) (*Solution, error) {
	n := len(p.Vars)
	up := func(k int) int { return k }
	down := func(k int) int { return n + k }
	grow := func(k int) int { return 2*n + k }

	type row struct {
		coef map[int]float64
		rhs  float64
	}
	var rows []row
	for k, v := range p.Vars {
		rows = append(rows,
			// left + width <= MaxRight
			row{map[int]float64{up(k): 1, down(k): -1, grow(k): 1}, v.MaxRight - v.Left - v.Width},
			// left >= MinLeft
			row{map[int]float64{up(k): -1, down(k): 1}, v.Left - math.Max(v.MinLeft, 0)},
		)
	}
	for _, o := range p.Orders {
		before, after := p.Vars[o.Before], p.Vars[o.After]
		// right(Before) <= left(After)
		rows = append(rows, row{map[int]float64{
			up(o.Before):   1,
			down(o.Before): -1,
			grow(o.Before): 1,
			up(o.After):    -1,
			down(o.After):  1,
		}, after.Left - before.Left - before.Width})
	}

	tol := s.Tol
	if tol == 0 {
		tol = 1e-10
	}

	m := len(rows)
	cols := 3*n + m
	A := mat.NewDense(m, cols, nil)
	b := make([]float64, m)
	basis := make([]int, m)
	feasible := true
	for r, rw := range rows {
		for col, v := range rw.coef {
			A.Set(r, col, v)
		}
		A.Set(r, 3*n+r, 1)
		basis[r] = 3*n + r
		b[r] = rw.rhs
		switch {
		case b[r] >= 0:
		case b[r] > -Tolerance:
			b[r] = 0
		default:
			feasible = false
		}
	}
	if !feasible {
		// The initial layout violates p; let gonum search for a start.
		basis = nil
	}

	c := make([]float64, cols)
	for k := range p.Vars {
		c[up(k)] = p.Epsilon
		c[down(k)] = -p.Epsilon
		c[grow(k)] = -1
	}

	_, x, err := lp.Simplex(c, A, b, tol, basis)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, fmt.Errorf("%w: %v", ErrInfeasible, err)
		}
		return nil, fmt.Errorf("widthopt: simplex: %w", err)
	}

	sol := &Solution{
		Left:  make([]float64, n),
		Width: make([]float64, n),
	}
	for k, v := range p.Vars {
		sol.Left[k] = v.Left + x[up(k)] - x[down(k)]
		sol.Width[k] = v.Width + x[grow(k)]
		sol.Objective += sol.Width[k]
	}
	return sol, nil
}

// Initial is a Solver that keeps the starting layout. It disables
// refinement without changing the pipeline.
type Initial struct{}

// Name implements [Named].
func (Initial) Name() string { return "initial" }

// Solve implements [Solver].
func (Initial) Solve(ctx context.Context, p *Problem) (*Solution, error) {
	return p.Initial(), nil
}

// SolverByName returns the solver registered under name.
func SolverByName(name string) (Solver, error) {
	switch name {
	case "", "simplex":
		return Simplex{}, nil
	case "initial", "none":
		return Initial{}, nil
	}
	return nil, fmt.Errorf("%w: unknown solver %q", ErrSolverUnavailable, name)
}
