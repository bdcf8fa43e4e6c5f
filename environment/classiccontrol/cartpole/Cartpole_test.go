package cartpole

import (
	"math"
	"testing"

	env "github.com/samuelfneumann/rlcourse/environment"
	ts "github.com/samuelfneumann/rlcourse/timestep"
)

// unbounded returns a configuration whose thresholds are never reached
// within MaxSteps steps
func unbounded() Config {
	c := DefaultConfig()
	c.PositionThreshold = 1e9
	c.AngleThresholdDegrees = 1e12
	return c
}

func TestAdvanceDeterministic(t *testing.T) {
	p := NewPhysics(DefaultParams())
	s := State{X: 0.01, XDot: -0.2, Theta: 0.03, ThetaDot: 0.4}

	for _, action := range []int{PushLeft, PushRight} {
		first := p.Advance(s, action)
		second := p.Advance(s, action)
		if first != second {
			t.Errorf("advance not deterministic for action %v: %v != %v",
				action, first, second)
		}
	}
}

func TestAdvanceFromZeroState(t *testing.T) {
	p := NewPhysics(DefaultParams())

	temp := 10.0 / 1.1
	wantThetaAcc := -temp / (0.5 * (4.0/3.0 - 0.1/1.1))
	wantXAcc := temp - 0.05*wantThetaAcc/1.1

	xAcc, thetaAcc := p.Accelerations(State{}, PushRight)
	if math.Abs(xAcc-wantXAcc) > 1e-9 {
		t.Errorf("xAcc: want %v, got %v", wantXAcc, xAcc)
	}
	if math.Abs(thetaAcc-wantThetaAcc) > 1e-9 {
		t.Errorf("thetaAcc: want %v, got %v", wantThetaAcc, thetaAcc)
	}

	// The cart accelerates with the force and the pole tips away from it
	if xAcc <= 0 {
		t.Errorf("xAcc should be positive when pushing right, got %v", xAcc)
	}
	if thetaAcc >= 0 {
		t.Errorf("thetaAcc should be negative when pushing right, got %v",
			thetaAcc)
	}

	next := p.Advance(State{}, PushRight)
	want := State{X: 0, XDot: 0.02 * wantXAcc, Theta: 0,
		ThetaDot: 0.02 * wantThetaAcc}
	for i, got := range next.Slice() {
		if math.Abs(got-want.Slice()[i]) > 1e-9 {
			t.Errorf("feature %v: want %v, got %v", i, want.Slice()[i], got)
		}
	}

	left := p.Advance(State{}, PushLeft)
	if math.Abs(left.XDot+next.XDot) > 1e-12 ||
		math.Abs(left.ThetaDot+next.ThetaDot) > 1e-12 {
		t.Errorf("pushing left from rest should mirror pushing right: "+
			"%v vs %v", left, next)
	}
}

func TestResetBounds(t *testing.T) {
	e := New(DefaultConfig(), 1)

	for i := 0; i < 1000; i++ {
		s := e.Reset()
		for j, f := range s.Slice() {
			if f < -StartBound || f > StartBound {
				t.Fatalf("reset %v: feature %v = %v outside [%v, %v]", i,
					j, f, -StartBound, StartBound)
			}
		}
		if e.Steps() != 0 || e.Done() {
			t.Fatalf("reset %v: steps %v done %v", i, e.Steps(), e.Done())
		}
		if !e.ObservationSpace().Contains(s) {
			t.Fatalf("reset %v: state %v not in observation space", i, s)
		}
	}
}

func TestStepLimit(t *testing.T) {
	e := New(unbounded(), 2)
	e.Reset()

	for i := 1; i <= MaxSteps; i++ {
		_, reward, done, info := e.Step(i % 2)
		if reward != 1.0 {
			t.Fatalf("step %v: want reward 1.0, got %v", i, reward)
		}
		if len(info) != 0 {
			t.Fatalf("step %v: want empty info, got %v", i, info)
		}
		if i < MaxSteps && done {
			t.Fatalf("episode ended early at step %v", i)
		}
		if i == MaxSteps && !done {
			t.Fatalf("episode did not end at step %v", i)
		}
	}

	last := e.LastTimeStep()
	if !last.Last() || last.EndType() != ts.Timeout {
		t.Errorf("want last timestep with end %v, got %v", ts.Timeout, last)
	}
	if last.Number != MaxSteps {
		t.Errorf("want step number %v, got %v", MaxSteps, last.Number)
	}
}

func TestPhysicalFailure(t *testing.T) {
	tests := []struct {
		name  string
		start State
	}{
		{"angle", State{X: 0, XDot: 0, Theta: 0.62, ThetaDot: 2.0}},
		{"negative angle", State{X: 0, XDot: 0, Theta: -0.62,
			ThetaDot: -2.0}},
		{"position", State{X: 2.39, XDot: 1.0, Theta: 0, ThetaDot: 0}},
		{"negative position", State{X: -2.39, XDot: -1.0, Theta: 0,
			ThetaDot: 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			starter := env.NewFixedStarter(test.start.Slice())
			e := NewWithStarter(DefaultConfig(), starter)
			e.Reset()

			s, reward, done, _ := e.Step(PushRight)
			if !done {
				t.Errorf("episode should end after crossing into %v", s)
			}
			if reward != 0.0 {
				t.Errorf("want reward 0.0 on failure, got %v", reward)
			}
			if end := e.LastTimeStep().EndType(); end != ts.TerminalStateReached {
				t.Errorf("want end type %v, got %v", ts.TerminalStateReached,
					end)
			}
			if !e.Failed(s) {
				t.Errorf("state %v should be a failure", s)
			}
		})
	}
}

func TestThresholdIsInclusive(t *testing.T) {
	starter := env.NewFixedStarter([]float64{PositionThreshold, 0, 0, 0})
	e := NewWithStarter(DefaultConfig(), starter)
	s := e.Reset()

	if e.Failed(s) {
		t.Errorf("state exactly at threshold should not fail")
	}
}

func TestStepAfterDoneIsNotGuarded(t *testing.T) {
	starter := env.NewFixedStarter([]float64{2.39, 1.0, 0, 0})
	e := NewWithStarter(DefaultConfig(), starter)
	e.Reset()

	if _, _, done, _ := e.Step(PushRight); !done {
		t.Fatalf("episode should have ended")
	}
	e.Step(PushRight)
	if e.Steps() != 2 {
		t.Errorf("want 2 steps, got %v", e.Steps())
	}

	e.Reset()
	if e.Done() || e.Steps() != 0 {
		t.Errorf("reset should clear termination")
	}
}

func TestIllegalActionPanics(t *testing.T) {
	for _, action := range []int{-1, 2, 10} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("action %v should panic", action)
				}
			}()
			e := New(DefaultConfig(), 3)
			e.Reset()
			e.Step(action)
		}()
	}
}

func TestStepBeforeResetPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("step before reset should panic")
		}
	}()
	e := New(DefaultConfig(), 4)
	e.Step(PushLeft)
}

func TestObservationSpace(t *testing.T) {
	e := New(DefaultConfig(), 5)
	high := e.ObservationSpace().High()
	angle := 36 * math.Pi / 180
	want := []float64{4.8, math.MaxFloat32, 2 * angle, math.MaxFloat32}

	for i := range want {
		if math.Abs(high[i]-want[i]) > 1e-9 {
			t.Errorf("high[%v]: want %v, got %v", i, want[i], high[i])
		}
	}
	if e.ActionSpace().N != 2 {
		t.Errorf("want 2 actions, got %v", e.ActionSpace().N)
	}
}

func TestEpisodic(t *testing.T) {
	e := NewEpisodic(New(unbounded(), 6))

	first := e.Reset()
	if !first.First() || first.Number != 0 {
		t.Fatalf("want first timestep, got %v", first)
	}

	steps := 0
	for {
		step, last := e.Step(PushLeft)
		steps++
		if step.Number != steps {
			t.Fatalf("want step number %v, got %v", steps, step.Number)
		}
		if last {
			break
		}
	}
	if steps != MaxSteps {
		t.Errorf("want %v steps, got %v", MaxSteps, steps)
	}
}

func TestStateConversions(t *testing.T) {
	s := State{X: 1, XDot: 2, Theta: 3, ThetaDot: 4}
	if got := StateFromVec(s.Vec()); got != s {
		t.Errorf("stateFromVec: want %v, got %v", s, got)
	}
	if got := StateFromSlice(s.Slice()); got != s {
		t.Errorf("stateFromSlice: want %v, got %v", s, got)
	}
	if !s.IsValid() {
		t.Errorf("state %v should be valid", s)
	}
	if (State{Theta: math.NaN()}).IsValid() {
		t.Errorf("state with NaN should be invalid")
	}
	if (State{XDot: math.Inf(1)}).IsValid() {
		t.Errorf("state with Inf should be invalid")
	}
}
