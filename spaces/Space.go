// Package spaces implements descriptions of the sets of legal actions
// and observations of an environment.
//
// Two kinds of space are provided: Discrete, the integers {0, 1, ...,
// n-1}, and Box, a vector space where every coordinate is bounded by
// an interval. Spaces are values: they hold only their bounds. Any
// randomness needed to sample from a space is supplied by the caller
// as a rand.Source so that many independent samplers may share the
// same space.
package spaces

// Space describes a set of legal values, such as the legal actions or
// observations of an environment
type Space interface {
	// Contains returns whether x is an element of the space
	Contains(x interface{}) bool

	// Shape returns the shape of a single element of the space
	Shape() []int

	// Equal returns whether two spaces describe the same set
	Equal(Space) bool

	String() string
}

// slicer is implemented by structured values, such as environment
// states, which can be flattened into a slice of features
type slicer interface {
	Slice() []float64
}
