package agent

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/environment"
	"github.com/samuelfneumann/rlcourse/timestep"
)

// Heuristic is a fixed Cartpole controller. It pushes the cart towards
// the side the pole is falling to, judged by a weighted sum of the
// pole angle and angular velocity. Heuristic never learns.
type Heuristic struct {
	nonLearner
	angleGain    float64
	velocityGain float64
}

// NewHeuristic returns a new Heuristic agent with the given gains on
// the pole angle and angular velocity
func NewHeuristic(angleGain, velocityGain float64) *Heuristic {
	return &Heuristic{angleGain: angleGain, velocityGain: velocityGain}
}

// SelectAction returns 1 (push right) if the pole is falling to the
// right and 0 (push left) otherwise
func (h *Heuristic) SelectAction(t timestep.TimeStep) int {
	theta := t.Observation.AtVec(2)
	thetaDot := t.Observation.AtVec(3)

	if h.angleGain*theta+h.velocityGain*thetaDot > 0 {
		return 1
	}
	return 0
}

// HeuristicConfig configures a Heuristic agent
type HeuristicConfig struct {
	AngleGain    float64 `yaml:"angle_gain" json:"angle_gain"`
	VelocityGain float64 `yaml:"velocity_gain" json:"velocity_gain"`
}

// DefaultHeuristicConfig returns a HeuristicConfig weighting the pole
// angle and angular velocity equally
func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{AngleGain: 1.0, VelocityGain: 1.0}
}

// CreateAgent creates a Heuristic agent for env
func (c HeuristicConfig) CreateAgent(env environment.Environment,
	seed uint64) (Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if n := env.ObservationSpace().Len(); n < 4 {
		return nil, errors.Errorf("heuristic agent needs at least 4 "+
			"observation features, got %v", n)
	}
	return NewHeuristic(c.AngleGain, c.VelocityGain), nil
}

// Validate ensures that the Config is valid
func (c HeuristicConfig) Validate() error {
	if c.AngleGain == 0 && c.VelocityGain == 0 {
		return errors.New("heuristic gains cannot both be zero")
	}
	return nil
}
