// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	env "github.com/samuelfneumann/rlcourse/environment"
	"github.com/samuelfneumann/rlcourse/spaces"
	ts "github.com/samuelfneumann/rlcourse/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

const (
	// Episode termination
	PositionThreshold     float64 = 2.4
	AngleThresholdDegrees float64 = 36.0
	MaxSteps              int     = 200

	// Starting states are drawn uniformly from (-StartBound, StartBound)
	// in each dimension
	StartBound float64 = 0.05

	// Discrete Actions
	PushLeft  int = 0
	PushRight int = 1
)

// Config configures a Cartpole environment
type Config struct {
	Physics               Params  `yaml:"physics" json:"physics"`
	PositionThreshold     float64 `yaml:"position_threshold" json:"position_threshold"`
	AngleThresholdDegrees float64 `yaml:"angle_threshold_degrees" json:"angle_threshold_degrees"`
	MaxSteps              int     `yaml:"max_steps" json:"max_steps"`
	StartBound            float64 `yaml:"start_bound" json:"start_bound"`
}

// DefaultConfig returns the standard Cartpole configuration
func DefaultConfig() Config {
	return Config{
		Physics:               DefaultParams(),
		PositionThreshold:     PositionThreshold,
		AngleThresholdDegrees: AngleThresholdDegrees,
		MaxSteps:              MaxSteps,
		StartBound:            StartBound,
	}
}

// AngleThreshold returns the angle threshold in radians
func (c Config) AngleThreshold() float64 {
	return c.AngleThresholdDegrees * math.Pi / 180
}

// Validate returns an error if the configuration cannot describe a
// Cartpole environment
func (c Config) Validate() error {
	p := c.Physics
	switch {
	case p.CartMass <= 0 || p.PoleMass <= 0:
		return errors.Errorf("masses must be positive, got cart %v pole %v",
			p.CartMass, p.PoleMass)
	case p.HalfPoleLength <= 0:
		return errors.Errorf("half pole length must be positive, got %v",
			p.HalfPoleLength)
	case p.Tau <= 0:
		return errors.Errorf("tau must be positive, got %v", p.Tau)
	case c.PositionThreshold <= 0 || c.AngleThresholdDegrees <= 0:
		return errors.Errorf("thresholds must be positive, got position "+
			"%v angle %v", c.PositionThreshold, c.AngleThresholdDegrees)
	case c.MaxSteps <= 0:
		return errors.Errorf("max steps must be positive, got %v",
			c.MaxSteps)
	case c.StartBound < 0:
		return errors.Errorf("start bound must be non-negative, got %v",
			c.StartBound)
	}
	return nil
}

// Env implements the classic control environment Cartpole. In this
// environment, a pole is attached by an unactuated joint to a cart,
// which moves along a frictionless track. The agent must keep the pole
// upright by pushing the cart left or right.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity.
//
// Actions are discrete and consist of the force applied to the cart:
//
//	Action	Meaning
//	  0		Push left
//	  1		Push right
//
// A reward of +1 is given for every step, including a step that only
// reaches the step limit, except for a step on which the cart leaves
// the track or the pole falls, which is rewarded 0.
//
// An Env must be Reset before its first Step. Stepping after the
// episode has ended is not guarded against.
type Env struct {
	physics Physics
	config  Config
	starter env.Starter

	positionLimit *env.IntervalLimit
	angleLimit    *env.IntervalLimit
	stepLimit     env.StepLimit

	actionSpace      spaces.Discrete
	observationSpace spaces.Box

	state    State
	started  bool
	steps    int
	done     bool
	lastStep ts.TimeStep
}

// New constructs a new Cartpole environment whose starting states are
// drawn uniformly from (-c.StartBound, c.StartBound) in each dimension
// using seed
func New(c Config, seed uint64) *Env {
	bounds := make([]r1.Interval, StateDim)
	for i := range bounds {
		bounds[i] = r1.Interval{Min: -c.StartBound, Max: c.StartBound}
	}
	return NewWithStarter(c, env.NewUniformStarter(bounds, seed))
}

// NewWithStarter constructs a new Cartpole environment whose starting
// states are drawn from s
func NewWithStarter(c Config, s env.Starter) *Env {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf("newWithStarter: %v", err))
	}

	angle := c.AngleThreshold()
	positionLimit := env.NewIntervalLimit(
		[]r1.Interval{{Min: -c.PositionThreshold, Max: c.PositionThreshold}},
		[]int{0},
		ts.TerminalStateReached,
	)
	angleLimit := env.NewIntervalLimit(
		[]r1.Interval{{Min: -angle, Max: angle}},
		[]int{2},
		ts.TerminalStateReached,
	)

	high := []float64{
		c.PositionThreshold * 2,
		math.MaxFloat32,
		angle * 2,
		math.MaxFloat32,
	}
	low := make([]float64, len(high))
	for i := range high {
		low[i] = -high[i]
	}
	observationSpace, err := spaces.NewBox(low, high)
	if err != nil {
		panic(fmt.Sprintf("newWithStarter: %v", err))
	}

	return &Env{
		physics:          NewPhysics(c.Physics),
		config:           c,
		starter:          s,
		positionLimit:    positionLimit,
		angleLimit:       angleLimit,
		stepLimit:        env.NewStepLimit(c.MaxSteps),
		actionSpace:      spaces.NewDiscrete(2),
		observationSpace: observationSpace,
	}
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (e *Env) Reset() State {
	e.state = StateFromVec(e.starter.Start())
	e.started = true
	e.steps = 0
	e.done = false
	e.lastStep = ts.New(ts.First, 0.0, e.state.Vec(), 0)

	return e.state
}

// Step takes one environmental step given action and returns the next
// state, the reward for the transition, whether the episode has ended,
// and an empty Info map. Step panics if action is not in the action
// space or if the environment has never been Reset.
func (e *Env) Step(action int) (State, float64, bool, env.Info) {
	if !e.started {
		panic("step: environment must be reset before stepping")
	}
	if !e.actionSpace.Contains(action) {
		panic(fmt.Sprintf("step: illegal action %v ∉ %v", action,
			e.actionSpace))
	}

	e.state = e.physics.Advance(e.state, action)
	e.steps++

	nextStep := ts.New(ts.Mid, 1.0, e.state.Vec(), e.steps)

	// Physical failure takes precedence over the step limit
	if env.EndAny(&nextStep, e.positionLimit, e.angleLimit) {
		nextStep.Reward = 0.0
	} else {
		e.stepLimit.End(&nextStep)
	}

	e.done = nextStep.Last()
	e.lastStep = nextStep

	return e.state, nextStep.Reward, e.done, env.Info{}
}

// Failed returns whether state s is outside the position or angle
// thresholds of the environment
func (e *Env) Failed(s State) bool {
	obs := s.Slice()
	return e.positionLimit.Exceeded(obs) || e.angleLimit.Exceeded(obs)
}

// ActionSpace returns the action space of the environment
func (e *Env) ActionSpace() spaces.Discrete {
	return e.actionSpace
}

// ObservationSpace returns the observation space of the environment
func (e *Env) ObservationSpace() spaces.Box {
	return e.observationSpace
}

// LastTimeStep returns the most recent timestep of the environment
func (e *Env) LastTimeStep() ts.TimeStep {
	return e.lastStep
}

// State returns the current state of the environment
func (e *Env) State() State {
	return e.state
}

// Steps returns the number of steps taken in the current episode
func (e *Env) Steps() int {
	return e.steps
}

// Done returns whether the current episode has ended
func (e *Env) Done() bool {
	return e.done
}

// Physics returns the physics model driving the environment
func (e *Env) Physics() Physics {
	return e.physics
}

// Config returns the configuration of the environment
func (e *Env) Config() Config {
	return e.config
}

func (e *Env) String() string {
	if !e.started {
		return "Cartpole  |  Not Started"
	}
	return fmt.Sprintf("Cartpole  |  %v  |  Step: %v", e.state, e.steps)
}
