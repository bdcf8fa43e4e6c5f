package environment

import "gonum.org/v1/gonum/mat"

// FixedStarter always returns the same starting state
type FixedStarter struct {
	start []float64
}

// NewFixedStarter returns a new FixedStarter which starts every
// episode in state
func NewFixedStarter(state []float64) FixedStarter {
	start := make([]float64, len(state))
	copy(start, state)
	return FixedStarter{start}
}

// Start returns a starting state vector
func (f FixedStarter) Start() *mat.VecDense {
	start := make([]float64, len(f.start))
	copy(start, f.start)
	return mat.NewVecDense(len(start), start)
}
