package actorcritic

import (
	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/agent"
	"github.com/samuelfneumann/rlcourse/agent/pg"
	"github.com/samuelfneumann/rlcourse/environment"
)

// Config represents a configuration for a Softmax Actor Critic agent
type Config struct {
	ActorLearningRate  float64      `yaml:"actor_learning_rate" json:"actor_learning_rate"`
	CriticLearningRate float64      `yaml:"critic_learning_rate" json:"critic_learning_rate"`
	Gamma              float64      `yaml:"gamma" json:"gamma"`
	Tau                float64      `yaml:"tau" json:"tau"`
	Algorithm          pg.Algorithm `yaml:"algorithm" json:"algorithm"`

	// RolloutSteps is the maximum number of transitions between
	// updates. Rollouts are also cut at the end of each episode.
	RolloutSteps int `yaml:"rollout_steps" json:"rollout_steps"`
}

// DefaultConfig returns a Config that learns to balance Cartpole
func DefaultConfig() Config {
	return Config{
		ActorLearningRate:  0.01,
		CriticLearningRate: 0.01,
		Gamma:              0.99,
		Tau:                0.95,
		Algorithm:          pg.GAE,
		RolloutSteps:       32,
	}
}

// CreateAgent creates the agent from the Config. Agent weights are
// always initialized to zero.
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return NewSoftmax(env, c, seed)
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.ActorLearningRate <= 0 || c.CriticLearningRate <= 0 {
		return errors.Errorf("learning rates must be positive, got actor "+
			"%v critic %v", c.ActorLearningRate, c.CriticLearningRate)
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return errors.Errorf("gamma must be in [0, 1], got %v", c.Gamma)
	}
	if c.Tau < 0 || c.Tau > 1 {
		return errors.Errorf("tau must be in [0, 1], got %v", c.Tau)
	}
	if c.RolloutSteps <= 0 {
		return errors.Errorf("rollout steps must be positive, got %v",
			c.RolloutSteps)
	}
	if _, err := pg.ParseAlgorithm(string(c.Algorithm)); err != nil {
		return err
	}
	return nil
}
