// Package actorcritic implements a linear softmax Actor-Critic
// algorithm for discrete-action environments
package actorcritic

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/agent/pg"
	"github.com/samuelfneumann/rlcourse/environment"
	ts "github.com/samuelfneumann/rlcourse/timestep"
	"github.com/samuelfneumann/rlcourse/utils/floatutils"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Softmax implements a linear Actor-Critic algorithm with a softmax
// policy over discrete actions and a linear state value critic. Both
// use the environment observation with a bias unit as features.
//
// Transitions are collected into rollouts which end either at the end
// of an episode or after a fixed number of steps. At the end of each
// rollout the actor is updated along the policy gradient weighted by
// the configured pg.Algorithm and the critic is updated towards the
// discounted returns.
type Softmax struct {
	config   Config
	actions  int
	features int
	src      rand.Source

	actor  *mat.Dense    // actions x features
	critic *mat.VecDense // features

	// Current rollout
	last      *mat.VecDense
	states    []*mat.VecDense
	taken     []int
	rewards   []float64
	masks     []float64
	bootstrap float64
	ready     bool

	policyLoss, valueLoss float64
}

// NewSoftmax returns a new Softmax Actor-Critic agent for env with all
// weights initialized to zero
func NewSoftmax(env environment.Environment, c Config,
	seed uint64) (*Softmax, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "newSoftmax")
	}
	algorithm, err := pg.ParseAlgorithm(string(c.Algorithm))
	if err != nil {
		return nil, errors.Wrap(err, "newSoftmax")
	}
	c.Algorithm = algorithm

	actions := env.ActionSpace().N
	features := env.ObservationSpace().Len() + 1

	return &Softmax{
		config:   c,
		actions:  actions,
		features: features,
		src:      rand.NewSource(seed),
		actor:    mat.NewDense(actions, features, nil),
		critic:   mat.NewVecDense(features, nil),
	}, nil
}

// featurize returns the observation obs with a leading bias unit
func (s *Softmax) featurize(obs mat.Vector) *mat.VecDense {
	if obs.Len()+1 != s.features {
		panic(fmt.Sprintf("featurize: expected %v observation features, "+
			"got %v", s.features-1, obs.Len()))
	}
	phi := mat.NewVecDense(s.features, nil)
	phi.SetVec(0, 1.0)
	for i := 0; i < obs.Len(); i++ {
		phi.SetVec(i+1, obs.AtVec(i))
	}
	return phi
}

// logProbabilities returns the log-probability of each action given
// features phi
func (s *Softmax) logProbabilities(phi mat.Vector) []float64 {
	logits := mat.NewVecDense(s.actions, nil)
	logits.MulVec(s.actor, phi)

	logProbs := make([]float64, s.actions)
	copy(logProbs, logits.RawVector().Data)
	floats.AddConst(-floats.LogSumExp(logProbs), logProbs)
	return logProbs
}

// Probabilities returns the probability of each action in the state
// with observation obs
func (s *Softmax) Probabilities(obs mat.Vector) []float64 {
	probs := s.logProbabilities(s.featurize(obs))
	for i := range probs {
		probs[i] = math.Exp(probs[i])
	}
	return probs
}

// Value returns the critic's estimate of the value of the state with
// observation obs
func (s *Softmax) Value(obs mat.Vector) float64 {
	return mat.Dot(s.critic, s.featurize(obs))
}

// SelectAction samples an action from the softmax policy
func (s *Softmax) SelectAction(t ts.TimeStep) int {
	probs := s.Probabilities(t.Observation)
	return int(distuv.NewCategorical(probs, s.src).Rand())
}

// Greedy returns the action of highest probability in the state with
// observation obs, breaking ties by lowest action index
func (s *Softmax) Greedy(obs mat.Vector) int {
	_, indices := floatutils.MaxSlice(s.logProbabilities(s.featurize(obs)))
	return indices[0]
}

// ObserveFirst records the first timestep in an episode, discarding
// any unfinished rollout
func (s *Softmax) ObserveFirst(t ts.TimeStep) error {
	if !t.First() {
		return errors.Errorf("observeFirst: timestep %v is not first",
			t.Number)
	}
	s.clear()
	s.last = s.featurize(t.Observation)
	return nil
}

// Observe records that action lead to timestep next
func (s *Softmax) Observe(action int, next ts.TimeStep) error {
	if s.last == nil {
		return errors.New("observe: ObserveFirst must be called first")
	}
	if action < 0 || action >= s.actions {
		return errors.Errorf("observe: illegal action %v", action)
	}

	s.states = append(s.states, s.last)
	s.taken = append(s.taken, action)
	s.rewards = append(s.rewards, next.Reward)

	mask := 1.0
	if next.EndType() == ts.TerminalStateReached {
		mask = 0.0
	}
	s.masks = append(s.masks, mask)

	s.last = s.featurize(next.Observation)
	if next.Last() || len(s.rewards) >= s.config.RolloutSteps {
		s.bootstrap = mat.Dot(s.critic, s.last)
		s.ready = true
	}
	return nil
}

// Step updates the actor and critic if a rollout has been completed
func (s *Softmax) Step() error {
	if !s.ready {
		return nil
	}
	defer s.clear()

	values := make([]float64, len(s.states))
	logProbs := make([]float64, len(s.states))
	probs := make([][]float64, len(s.states))
	for i, phi := range s.states {
		values[i] = mat.Dot(s.critic, phi)
		probs[i] = s.logProbabilities(phi)
		logProbs[i] = probs[i][s.taken[i]]
	}

	c := s.config
	adv, err := pg.Advantages(s.bootstrap, s.rewards, values, s.masks,
		c.Gamma, c.Tau, c.Algorithm)
	if err != nil {
		return errors.Wrap(err, "step")
	}
	s.policyLoss, s.valueLoss, err = pg.ComputeLosses(s.bootstrap,
		s.rewards, values, logProbs, s.masks, c.Gamma, c.Tau, c.Algorithm)
	if err != nil {
		return errors.Wrap(err, "step")
	}
	returns := pg.Returns(s.bootstrap, s.rewards, s.masks, c.Gamma)

	for i, phi := range s.states {
		// Gradient of the log-probability of the taken action with
		// respect to row b of the actor is (1{b == a} - pi(b)) * phi
		for b := 0; b < s.actions; b++ {
			indicator := 0.0
			if b == s.taken[i] {
				indicator = 1.0
			}
			scale := c.ActorLearningRate * adv[i] *
				(indicator - math.Exp(probs[i][b]))

			row := s.actor.RawRowView(b)
			floats.AddScaled(row, scale, phi.RawVector().Data)
		}

		s.critic.AddScaledVec(s.critic,
			c.CriticLearningRate*(returns[i]-values[i]), phi)
	}

	return nil
}

// Losses returns the policy and value losses of the most recent update
func (s *Softmax) Losses() (policyLoss, valueLoss float64) {
	return s.policyLoss, s.valueLoss
}

// Weights returns copies of the actor and critic weights
func (s *Softmax) Weights() (actor *mat.Dense, critic *mat.VecDense) {
	return mat.DenseCopyOf(s.actor), mat.VecDenseCopyOf(s.critic)
}

// clear discards the current rollout
func (s *Softmax) clear() {
	s.states = s.states[:0]
	s.taken = s.taken[:0]
	s.rewards = s.rewards[:0]
	s.masks = s.masks[:0]
	s.ready = false
}
