package cartpole

import "math"

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnitude of force applied
	Tau            float64 = 0.02 // seconds between state updates
)

// Params holds the physical parameters of a cart-pole system
type Params struct {
	Gravity        float64 `yaml:"gravity" json:"gravity"`
	CartMass       float64 `yaml:"cart_mass" json:"cart_mass"`
	PoleMass       float64 `yaml:"pole_mass" json:"pole_mass"`
	HalfPoleLength float64 `yaml:"half_pole_length" json:"half_pole_length"`
	ForceMag       float64 `yaml:"force_mag" json:"force_mag"`
	Tau            float64 `yaml:"tau" json:"tau"`
}

// DefaultParams returns the standard cart-pole parameters
func DefaultParams() Params {
	return Params{
		Gravity:        Gravity,
		CartMass:       CartMass,
		PoleMass:       PoleMass,
		HalfPoleLength: HalfPoleLength,
		ForceMag:       ForceMag,
		Tau:            Tau,
	}
}

// Physics advances cart-pole states using explicit Euler integration.
// Physics is an immutable value; it holds no state between calls.
type Physics struct {
	params Params
}

// NewPhysics returns a new Physics model with parameters p
func NewPhysics(p Params) Physics {
	return Physics{p}
}

// Params returns the physical parameters of the model
func (p Physics) Params() Params {
	return p.params
}

// TotalMass returns the combined mass of the cart and pole
func (p Physics) TotalMass() float64 {
	return p.params.CartMass + p.params.PoleMass
}

// PoleMassLength returns the pole mass times half the pole length
func (p Physics) PoleMassLength() float64 {
	return p.params.PoleMass * p.params.HalfPoleLength
}

// Force returns the horizontal force applied to the cart by action.
// Action 1 pushes right, any other action pushes left.
func (p Physics) Force(action int) float64 {
	if action == 1 {
		return p.params.ForceMag
	}
	return -p.params.ForceMag
}

// Accelerations returns the linear acceleration of the cart and the
// angular acceleration of the pole when action is taken in state s
func (p Physics) Accelerations(s State, action int) (xAcc, thetaAcc float64) {
	force := p.Force(action)
	totalMass := p.TotalMass()
	poleMassLength := p.PoleMassLength()

	cosTheta := math.Cos(s.Theta)
	sinTheta := math.Sin(s.Theta)

	temp := (force + poleMassLength*s.ThetaDot*s.ThetaDot*sinTheta) /
		totalMass
	thetaAcc = (p.params.Gravity*sinTheta - cosTheta*temp) /
		(p.params.HalfPoleLength *
			(4.0/3.0 - p.params.PoleMass*cosTheta*cosTheta/totalMass))
	xAcc = temp - poleMassLength*thetaAcc*cosTheta/totalMass

	return xAcc, thetaAcc
}

// Advance returns the state reached by taking action in state s for
// a single timestep. Positions are updated with the velocities of s,
// not the updated velocities.
func (p Physics) Advance(s State, action int) State {
	xAcc, thetaAcc := p.Accelerations(s, action)
	tau := p.params.Tau

	return State{
		X:        s.X + tau*s.XDot,
		XDot:     s.XDot + tau*xAcc,
		Theta:    s.Theta + tau*s.ThetaDot,
		ThetaDot: s.ThetaDot + tau*thetaAcc,
	}
}
