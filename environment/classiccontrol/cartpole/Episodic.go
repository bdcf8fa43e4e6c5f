package cartpole

import (
	env "github.com/samuelfneumann/rlcourse/environment"
	ts "github.com/samuelfneumann/rlcourse/timestep"
)

// Episodic wraps an Env so that it implements environment.Environment,
// reporting each step as a timestep.TimeStep
type Episodic struct {
	*Env
}

// NewEpisodic returns a new Episodic view of e
func NewEpisodic(e *Env) env.Environment {
	return Episodic{e}
}

// Reset resets the environment and returns the first timestep of the
// new episode
func (e Episodic) Reset() ts.TimeStep {
	e.Env.Reset()
	return e.LastTimeStep()
}

// Step takes one environmental step given action and returns the
// resulting timestep and whether the episode has ended
func (e Episodic) Step(action int) (ts.TimeStep, bool) {
	e.Env.Step(action)
	t := e.LastTimeStep()
	return t, t.Last()
}
