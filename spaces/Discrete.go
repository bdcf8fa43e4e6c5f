package spaces

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// Discrete is the space of integers {0, 1, ..., N-1}
//
// Only Go integer types are elements of a Discrete space. Floating
// point values are never contained, even when they hold an integral
// value such as 1.0.
type Discrete struct {
	N int
}

// NewDiscrete returns the Discrete space {0, 1, ..., n-1}. NewDiscrete
// panics if n is not positive.
func NewDiscrete(n int) Discrete {
	if n <= 0 {
		panic(fmt.Sprintf("newDiscrete: n must be positive, have(%v)", n))
	}
	return Discrete{N: n}
}

// Sample returns an integer drawn uniformly from {0, 1, ..., N-1}
func (d Discrete) Sample(src rand.Source) int {
	return rand.New(src).Intn(d.N)
}

// Contains returns whether x is an integer in {0, 1, ..., N-1}
func (d Discrete) Contains(x interface{}) bool {
	var v int64
	switch i := x.(type) {
	case int:
		v = int64(i)
	case int8:
		v = int64(i)
	case int16:
		v = int64(i)
	case int32:
		v = int64(i)
	case int64:
		v = i
	case uint:
		if uint64(i) >= uint64(d.N) {
			return false
		}
		v = int64(i)
	case uint8:
		v = int64(i)
	case uint16:
		v = int64(i)
	case uint32:
		v = int64(i)
	case uint64:
		if i >= uint64(d.N) {
			return false
		}
		v = int64(i)
	default:
		return false
	}
	return v >= 0 && v < int64(d.N)
}

// Shape returns the shape of the space, which is (N,)
func (d Discrete) Shape() []int {
	return []int{d.N}
}

// Equal returns whether s is a Discrete space with the same number of
// elements
func (d Discrete) Equal(s Space) bool {
	other, ok := s.(Discrete)
	return ok && other.N == d.N
}

func (d Discrete) String() string {
	return fmt.Sprintf("Discrete(%d)", d.N)
}
