package widthopt

import (
	"fmt"
	"math"

	"github.com/matzehuels/blockweek/pkg/block"
)

// DefaultEpsilon weights the left-offset term of the objective.
const DefaultEpsilon = 1e-4

// Tolerance is the slack allowed when checking a solution.
const Tolerance = 1e-7

// Var describes one block of a component.
type Var struct {
	Block    int     `json:"-"`         // Index in the weekday
	Left     float64 `json:"left"`      // Initial left
	Width    float64 `json:"width"`     // Initial width, also the lower bound
	MinLeft  float64 `json:"min_left"`  // Right edge of the nearest fixed block below
	MaxRight float64 `json:"max_right"` // Left edge of the nearest fixed block above, or 1
}

// Order requires Vars[Before] to end at or before Vars[After] begins.
type Order struct {
	Before int `json:"before"`
	After  int `json:"after"`
}

// Problem is the linear program for one component.
type Problem struct {
	Vars    []Var   `json:"vars"`
	Orders  []Order `json:"orders"`
	Epsilon float64 `json:"epsilon"`
}

// Solution holds optimized positions in Problem.Vars order.
type Solution struct {
	Left      []float64 `json:"left"`
	Width     []float64 `json:"width"`
	Objective float64   `json:"objective"` // Total width
}

// Build formulates the problem for the given component members. Neighbors
// outside members are treated as immovable at their current position.
func Build(blocks []block.Block, members []int) *Problem {
	local := make(map[int]int, len(members))
	p := &Problem{
		Vars:    make([]Var, len(members)),
		Epsilon: DefaultEpsilon,
	}
	for k, i := range members {
		local[i] = k
		b := &blocks[i]
		p.Vars[k] = Var{Block: i, Left: b.Left, Width: b.Width, MaxRight: 1}
	}

	for k, i := range members {
		b := &blocks[i]
		v := &p.Vars[k]
		for _, j := range b.Neighbors {
			nb := &blocks[j]
			if l, ok := local[j]; ok {
				if b.Depth < nb.Depth {
					p.Orders = append(p.Orders, Order{Before: k, After: l})
				}
				continue
			}
			left, right := edges(nb)
			if nb.Depth < b.Depth {
				v.MinLeft = math.Max(v.MinLeft, right)
			} else {
				v.MaxRight = math.Min(v.MaxRight, left)
			}
		}
	}
	return p
}

// edges returns a block's horizontal extent. Fixed blocks still hold their
// initial layout, so their edges are recomputed from depths to avoid the
// rounding of Left+Width.
func edges(b *block.Block) (left, right float64) {
	if b.Fixed && b.PathDepth > 0 {
		pd := float64(b.PathDepth)
		return float64(b.Depth) / pd, float64(b.Depth+1) / pd
	}
	return b.Left, b.Right()
}

// Size returns the number of blocks in the problem.
func (p *Problem) Size() int { return len(p.Vars) }

// Initial returns the starting layout as a solution.
func (p *Problem) Initial() *Solution {
	s := &Solution{
		Left:  make([]float64, len(p.Vars)),
		Width: make([]float64, len(p.Vars)),
	}
	for k, v := range p.Vars {
		s.Left[k] = v.Left
		s.Width[k] = v.Width
		s.Objective += v.Width
	}
	return s
}

// Single solves a one-block problem in closed form: the block spans from
// MinLeft to MaxRight.
func (p *Problem) Single() *Solution {
	if len(p.Vars) != 1 {
		return p.Initial()
	}
	v := p.Vars[0]
	left := math.Max(v.MinLeft, 0)
	width := v.MaxRight - left
	if width < v.Width {
		return p.Initial()
	}
	return &Solution{Left: []float64{left}, Width: []float64{width}, Objective: width}
}

// Check verifies s against every constraint of p within tol.
func (p *Problem) Check(s *Solution, tol float64) error {
	if s == nil || len(s.Left) != len(p.Vars) || len(s.Width) != len(p.Vars) {
		return fmt.Errorf("%w: solution size mismatch", ErrInvalidSolution)
	}
	for k, v := range p.Vars {
		l, w := s.Left[k], s.Width[k]
		switch {
		case l < v.MinLeft-tol || l < -tol:
			return fmt.Errorf("%w: var %d left %.6f below %.6f", ErrInvalidSolution, k, l, v.MinLeft)
		case w < v.Width-tol:
			return fmt.Errorf("%w: var %d width %.6f below %.6f", ErrInvalidSolution, k, w, v.Width)
		case l+w > v.MaxRight+tol:
			return fmt.Errorf("%w: var %d right %.6f beyond %.6f", ErrInvalidSolution, k, l+w, v.MaxRight)
		}
	}
	for _, o := range p.Orders {
		if s.Left[o.Before]+s.Width[o.Before] > s.Left[o.After]+tol {
			return fmt.Errorf("%w: var %d overlaps var %d", ErrInvalidSolution, o.Before, o.After)
		}
	}
	return nil
}

// Apply writes s onto the blocks named by p.
func (p *Problem) Apply(blocks []block.Block, s *Solution) {
	for k, v := range p.Vars {
		b := &blocks[v.Block]
		b.Left = math.Max(s.Left[k], 0)
		b.Width = math.Min(s.Width[k], 1-b.Left)
	}
}
