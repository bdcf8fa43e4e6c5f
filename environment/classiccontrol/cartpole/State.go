package cartpole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// StateDim is the number of features in a Cartpole state
const StateDim = 4

// State is the continuous state of the cart and pole
type State struct {
	X        float64 // cart position
	XDot     float64 // cart velocity
	Theta    float64 // pole angle from vertical, in radians
	ThetaDot float64 // pole angular velocity
}

// StateFromSlice returns the State with features s, which must be
// ordered as (x, xDot, theta, thetaDot)
func StateFromSlice(s []float64) State {
	if len(s) != StateDim {
		panic(fmt.Sprintf("stateFromSlice: state must have %v features, "+
			"got %v", StateDim, len(s)))
	}
	return State{X: s[0], XDot: s[1], Theta: s[2], ThetaDot: s[3]}
}

// StateFromVec returns the State with features v
func StateFromVec(v mat.Vector) State {
	if v.Len() != StateDim {
		panic(fmt.Sprintf("stateFromVec: state must have %v features, "+
			"got %v", StateDim, v.Len()))
	}
	return State{X: v.AtVec(0), XDot: v.AtVec(1), Theta: v.AtVec(2),
		ThetaDot: v.AtVec(3)}
}

// Slice returns the features of the state as (x, xDot, theta,
// thetaDot)
func (s State) Slice() []float64 {
	return []float64{s.X, s.XDot, s.Theta, s.ThetaDot}
}

// Vec returns the features of the state as a new vector
func (s State) Vec() *mat.VecDense {
	return mat.NewVecDense(StateDim, s.Slice())
}

// IsValid returns whether all features of the state are finite
func (s State) IsValid() bool {
	for _, f := range s.Slice() {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (s State) String() string {
	return fmt.Sprintf("Position: %.4f  |  Speed: %.4f  |  Angle: %.4f  "+
		"|  Angular Velocity: %.4f", s.X, s.XDot, s.Theta, s.ThetaDot)
}
