// Package agent defines an agent interface and simple agents for
// discrete-action environments
package agent

import (
	"github.com/samuelfneumann/rlcourse/environment"
	"github.com/samuelfneumann/rlcourse/timestep"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// Step performs a single update to the learner
	Step() error

	// Observe records that an action lead to some timestep
	Observe(action int, nextObs timestep.TimeStep) error

	// ObserveFirst records the first timestep in an episode
	ObserveFirst(timestep.TimeStep) error
}

// Policy represents a policy that an agent can have. Policies
// determine how agents select actions.
type Policy interface {
	SelectAction(t timestep.TimeStep) int
}

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, seed uint64) (Agent, error)

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error
}

// nonLearner implements the Learner interface for agents that do not
// learn
type nonLearner struct{}

func (nonLearner) Step() error                          { return nil }
func (nonLearner) Observe(int, timestep.TimeStep) error { return nil }
func (nonLearner) ObserveFirst(timestep.TimeStep) error { return nil }
