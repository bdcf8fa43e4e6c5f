// Package environment outlines the interfaces and structs needed to
// implement concrete episodic environments
package environment

import (
	"fmt"

	"github.com/samuelfneumann/rlcourse/spaces"
	"github.com/samuelfneumann/rlcourse/timestep"
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode should end. If End returns true,
// it must have set the TimeStep's StepType to timestep.Last and its
// EndType to the reason the episode ended.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Environment implements a simulated episodic environment with a
// discrete action space, seen through TimeSteps
type Environment interface {
	fmt.Stringer
	Reset() timestep.TimeStep // Resets between episodes
	Step(action int) (timestep.TimeStep, bool)
	ActionSpace() spaces.Discrete
	ObservationSpace() spaces.Box
}

// Info holds auxiliary diagnostic information returned with each
// environmental step
type Info map[string]interface{}

// EndAny calls End on each Ender in order and returns true as soon as
// one of them ends the episode. Later Enders are not consulted, so
// earlier Enders take precedence in deciding the EndType.
func EndAny(t *timestep.TimeStep, enders ...Ender) bool {
	for _, e := range enders {
		if e.End(t) {
			return true
		}
	}
	return false
}
