// Package widthopt widens non-fixed blocks with a linear program.
//
// Each connected component of non-fixed blocks becomes one [Problem]. For
// block i the variables are left_i and width_i, both non-negative, with
//
//	left_i + width_i <= MaxRight_i     (day edge or a fixed block above)
//	left_i           >= MinLeft_i      (a fixed block below)
//	width_i          >= Width_i        (never narrower than the initial layout)
//	left_i + width_i <= left_j         (for conflicting i, j with depth_i < depth_j)
//
// and the objective maximizes the total width minus a small multiple of the
// total left offset, which pulls blocks against their lower neighbors so no
// gap remains between them.
//
// The initial layout always satisfies these constraints, so every problem
// is feasible. If a [Solver] still fails, runs past [Optimizer].Timeout or
// is cancelled, the component keeps its initial layout and the failure is
// reported in the [Report].
package widthopt
