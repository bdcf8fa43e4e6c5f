package agent

import (
	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/rlcourse/environment"
	"github.com/samuelfneumann/rlcourse/spaces"
	"github.com/samuelfneumann/rlcourse/timestep"
)

// Random selects actions uniformly at random from an action space and
// never learns
type Random struct {
	nonLearner
	actions spaces.Discrete
	src     rand.Source
}

// NewRandom returns a new Random agent which samples actions from
// actions
func NewRandom(actions spaces.Discrete, seed uint64) *Random {
	return &Random{actions: actions, src: rand.NewSource(seed)}
}

// SelectAction returns a uniformly random action
func (r *Random) SelectAction(timestep.TimeStep) int {
	return r.actions.Sample(r.src)
}

// RandomConfig configures a Random agent
type RandomConfig struct{}

// CreateAgent creates a Random agent for env
func (RandomConfig) CreateAgent(env environment.Environment,
	seed uint64) (Agent, error) {
	return NewRandom(env.ActionSpace(), seed), nil
}

// Validate ensures that the Config is valid
func (RandomConfig) Validate() error {
	return nil
}
