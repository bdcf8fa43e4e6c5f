package environment

import (
	"github.com/samuelfneumann/rlcourse/timestep"
	"gonum.org/v1/gonum/spatial/r1"
)

// IntervalLimit implements the Ender interface to end episodes
// whenever a single feature in a feature vector leaves some interval.
// Interval bounds are inclusive: a feature exactly on a bound does
// not end the episode.
type IntervalLimit struct {
	intervals []r1.Interval
	indices   []int
	endType   timestep.EndType
}

// NewIntervalLimit creates and returns a new interval limit. The
// endType argument determines what the episode end should be
// considered as.
func NewIntervalLimit(limits []r1.Interval, obsIndices []int,
	endType timestep.EndType) *IntervalLimit {
	if len(limits) != len(obsIndices) {
		panic("newIntervalLimit: limits should have same length as " +
			"observation indices")
	}

	l := make([]r1.Interval, len(limits))
	copy(l, limits)
	ind := make([]int, len(obsIndices))
	copy(ind, obsIndices)

	return &IntervalLimit{l, ind, endType}
}

// Exceeded returns whether any tracked feature of obs lies outside its
// interval
func (i *IntervalLimit) Exceeded(obs []float64) bool {
	for index, featureIndex := range i.indices {
		interval := i.intervals[index]

		if obs[featureIndex] > interval.Max ||
			obs[featureIndex] < interval.Min {
			return true
		}
	}
	return false
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type.
func (i *IntervalLimit) End(t *timestep.TimeStep) bool {
	if i.Exceeded(t.Observation.RawVector().Data) {
		t.StepType = timestep.Last
		t.SetEnd(i.endType)
		return true
	}
	return false
}
