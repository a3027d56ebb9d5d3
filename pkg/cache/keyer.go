package cache

// Keyer derives cache keys.
type Keyer interface {
	// SolveKey identifies the solution of one linear program. problem is
	// any JSON-encodable description that fully determines the solve.
	SolveKey(solver string, problem any) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements [Keyer].
func (DefaultKeyer) SolveKey(solver string, problem any) string {
	return hashKey("solve:"+solver, problem)
}
