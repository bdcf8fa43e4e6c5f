package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{3, 0, 1, 1},
		{1, 0, 1, 1},
	}
	for _, test := range tests {
		if have := Clip(test.value, test.min, test.max); have != test.want {
			t.Errorf("clip(%v, %v, %v): want(%v) have(%v)", test.value,
				test.min, test.max, test.want, have)
		}
		interval := r1.Interval{Min: test.min, Max: test.max}
		if have := ClipInterval(test.value, interval); have != test.want {
			t.Errorf("clipInterval(%v, %v): want(%v) have(%v)", test.value,
				interval, test.want, have)
		}
	}
}

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, -1, 3})
	if max != 3 {
		t.Errorf("max: want(3) have(%v)", max)
	}
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Errorf("indices: want([1 3]) have(%v)", indices)
	}

	max, indices = MaxSlice([]float64{2, 2})
	if max != 2 || len(indices) != 2 || indices[0] != 0 || indices[1] != 1 {
		t.Errorf("ties: have(%v, %v)", max, indices)
	}
}

func TestMean(t *testing.T) {
	if m := Mean(1, 2, 3, 6); m != 3 {
		t.Errorf("mean: want(3) have(%v)", m)
	}
	if !math.IsNaN(Mean()) {
		t.Error("mean of nothing should be NaN")
	}
}
