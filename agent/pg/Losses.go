// Package pg implements the return, advantage, and loss computations
// used by policy gradient algorithms
package pg

import (
	"strings"

	"github.com/pkg/errors"
)

// Algorithm determines how the policy gradient weights each
// log-probability of a rollout
type Algorithm string

const (
	// Reinforce weights log-probabilities by the discounted return
	Reinforce Algorithm = "reinforce"

	// A2C weights log-probabilities by the advantage of the discounted
	// return over the value estimate
	A2C Algorithm = "a2c"

	// GAE weights log-probabilities by the generalized advantage
	// estimate
	GAE Algorithm = "gae"
)

// ParseAlgorithm returns the Algorithm named s
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(s)); a {
	case Reinforce, A2C, GAE:
		return a, nil
	}
	return "", errors.Errorf("unknown policy gradient algorithm %q", s)
}

// DiscountCumSum returns the discounted cumulative sums of x:
//
//	y[i] = x[i] + discount * x[i+1] + discount^2 * x[i+2] + ...
func DiscountCumSum(x []float64, discount float64) []float64 {
	y := make([]float64, len(x))
	sum := 0.0
	for i := len(x) - 1; i >= 0; i-- {
		sum = x[i] + discount*sum
		y[i] = sum
	}
	return y
}

// Returns computes the discounted return at each step of a rollout,
// bootstrapping from R after the final step. A mask of 0 at step i
// marks step i as the last of its episode, so that no return flows
// backwards across the episode boundary.
func Returns(R float64, rewards, masks []float64, gamma float64) []float64 {
	if len(rewards) != len(masks) {
		panic("returns: rewards and masks must have the same length")
	}

	returns := make([]float64, len(rewards))
	for i := len(rewards) - 1; i >= 0; i-- {
		R = rewards[i] + gamma*R*masks[i]
		returns[i] = R
	}
	return returns
}

// Advantages returns the weight algo assigns to the log-probability of
// each action in a rollout. R is the value of the state following the
// final step, which should be zero if that state is terminal. The
// parameter tau is the GAE decay and is only used by GAE.
func Advantages(R float64, rewards, values, masks []float64, gamma,
	tau float64, algo Algorithm) ([]float64, error) {
	if err := validate(rewards, values, masks); err != nil {
		return nil, err
	}

	returns := Returns(R, rewards, masks, gamma)
	adv := make([]float64, len(rewards))

	switch algo {
	case Reinforce:
		copy(adv, returns)

	case A2C:
		for i := range adv {
			adv[i] = returns[i] - values[i]
		}

	case GAE:
		gae := 0.0
		nextValue := R
		for i := len(rewards) - 1; i >= 0; i-- {
			delta := rewards[i] + gamma*nextValue*masks[i] - values[i]
			gae = delta + gamma*tau*masks[i]*gae
			adv[i] = gae
			nextValue = values[i]
		}

	default:
		return nil, errors.Errorf("unknown policy gradient algorithm %q",
			algo)
	}

	return adv, nil
}

// ComputeLosses computes the policy and value function losses of a
// rollout given the bootstrap value R, the rollout rewards, value
// estimates, and action log-probabilities, and the episode masks. The
// value loss is half the summed squared error of the value estimates
// to the discounted returns. The policy loss is the negative sum of
// the log-probabilities weighted according to algo.
func ComputeLosses(R float64, rewards, values, logProbs, masks []float64,
	gamma, tau float64, algo Algorithm) (policyLoss, valueLoss float64,
	err error) {
	if len(logProbs) != len(rewards) {
		return 0, 0, errors.Errorf("computeLosses: %v log-probabilities "+
			"for %v rewards", len(logProbs), len(rewards))
	}

	adv, err := Advantages(R, rewards, values, masks, gamma, tau, algo)
	if err != nil {
		return 0, 0, errors.Wrap(err, "computeLosses")
	}

	returns := Returns(R, rewards, masks, gamma)
	for i := range rewards {
		diff := returns[i] - values[i]
		valueLoss += 0.5 * diff * diff
		policyLoss -= logProbs[i] * adv[i]
	}

	return policyLoss, valueLoss, nil
}

func validate(rewards, values, masks []float64) error {
	if len(values) != len(rewards) {
		return errors.Errorf("%v values for %v rewards", len(values),
			len(rewards))
	}
	if len(masks) != len(rewards) {
		return errors.Errorf("%v masks for %v rewards", len(masks),
			len(rewards))
	}
	return nil
}
