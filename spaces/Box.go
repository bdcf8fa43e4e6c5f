package spaces

import (
	"fmt"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
)

// equalTol is the tolerance used when comparing the bounds of two Boxes
const equalTol = 1e-8

// Box is a bounded subset of R^n. Each coordinate i of an element of
// the Box lies in the closed interval [Low[i], High[i]].
type Box struct {
	low  []float64
	high []float64
}

// NewBox returns a new Box with element-wise bounds low and high. An
// error is returned if the bounds differ in length, are empty, or if
// any lower bound exceeds its upper bound.
func NewBox(low, high []float64) (Box, error) {
	if len(low) != len(high) {
		return Box{}, errors.Errorf("newBox: bounds must have the same "+
			"shape \n\twant(%v)\n\thave(%v)", len(low), len(high))
	}
	if len(low) == 0 {
		return Box{}, errors.New("newBox: bounds must be non-empty")
	}
	for i := range low {
		if low[i] > high[i] {
			return Box{}, errors.Errorf("newBox: lower bound %v exceeds "+
				"upper bound %v at index %v", low[i], high[i], i)
		}
	}

	l := make([]float64, len(low))
	h := make([]float64, len(high))
	copy(l, low)
	copy(h, high)
	return Box{low: l, high: h}, nil
}

// NewUniformBox returns a Box of n coordinates which all share the
// same bounds [low, high]
func NewUniformBox(low, high float64, n int) (Box, error) {
	if n <= 0 {
		return Box{}, errors.Errorf("newUniformBox: n must be positive, "+
			"have(%v)", n)
	}
	l := make([]float64, n)
	h := make([]float64, n)
	for i := 0; i < n; i++ {
		l[i] = low
		h[i] = high
	}
	return NewBox(l, h)
}

// Low returns a copy of the lower bounds of the Box
func (b Box) Low() []float64 {
	l := make([]float64, len(b.low))
	copy(l, b.low)
	return l
}

// High returns a copy of the upper bounds of the Box
func (b Box) High() []float64 {
	h := make([]float64, len(b.high))
	copy(h, b.high)
	return h
}

// Len returns the number of coordinates in an element of the Box
func (b Box) Len() int {
	return len(b.low)
}

// Intervals returns the bounds of the Box as intervals, one per
// coordinate
func (b Box) Intervals() []r1.Interval {
	bounds := make([]r1.Interval, len(b.low))
	for i := range b.low {
		bounds[i] = r1.Interval{Min: b.low[i], Max: b.high[i]}
	}
	return bounds
}

// Sample draws each coordinate uniformly from its bounds
func (b Box) Sample(src rand.Source) *mat.VecDense {
	dist := distmv.NewUniform(b.Intervals(), src)
	return mat.NewVecDense(b.Len(), dist.Rand(nil))
}

// Contains returns whether x is an element of the Box. The value x may
// be a []float64, a mat.Vector, or any value with a Slice() []float64
// method. Values of any other type are never contained.
func (b Box) Contains(x interface{}) bool {
	var values []float64
	switch v := x.(type) {
	case []float64:
		values = v
	case mat.Vector:
		values = make([]float64, v.Len())
		for i := range values {
			values[i] = v.AtVec(i)
		}
	case slicer:
		values = v.Slice()
	default:
		return false
	}

	if len(values) != len(b.low) {
		return false
	}
	for i, value := range values {
		if !(value >= b.low[i] && value <= b.high[i]) {
			return false
		}
	}
	return true
}

// Shape returns the shape of the space, which is (n,) for a Box with
// n coordinates
func (b Box) Shape() []int {
	return []int{len(b.low)}
}

// Equal returns whether s is a Box with the same bounds, up to a small
// tolerance
func (b Box) Equal(s Space) bool {
	other, ok := s.(Box)
	if !ok || other.Len() != b.Len() {
		return false
	}
	return floats.EqualApprox(b.low, other.low, equalTol) &&
		floats.EqualApprox(b.high, other.high, equalTol)
}

func (b Box) String() string {
	return fmt.Sprintf("Box(%d)", len(b.low))
}
