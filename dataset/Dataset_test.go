package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
)

const data = `x1, x2, y
1, 2, 3
4, 5, 9
7, 8, 15
10, 11, 21
`

func load(t *testing.T) *Dataset {
	d, err := ReadCSV(strings.NewReader(data), 1, true)
	if err != nil {
		t.Fatalf("could not read dataset: %v", err)
	}
	return d
}

func TestReadCSV(t *testing.T) {
	d := load(t)
	if d.Len() != 4 || d.Features() != 2 || d.Outputs() != 1 {
		t.Fatalf("dims: want(4, 2, 1) have(%v, %v, %v)", d.Len(),
			d.Features(), d.Outputs())
	}

	x, y := d.Row(1)
	if !floats.Equal(x, []float64{4, 5}) || !floats.Equal(y, []float64{9}) {
		t.Errorf("row 1: have(%v, %v)", x, y)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := map[string]struct {
		data      string
		labelCols int
		header    bool
	}{
		"empty":          {"", 1, false},
		"header only":    {"a,b\n", 1, true},
		"no inputs":      {"1,2\n", 2, false},
		"bad label cols": {"1,2\n", 0, false},
		"not a number":   {"1,x\n", 1, false},
		"ragged":         {"1,2\n1,2,3\n", 1, false},
	}
	for name, test := range tests {
		_, err := ReadCSV(strings.NewReader(test.data), test.labelCols,
			test.header)
		if err == nil {
			t.Errorf("%v: expected error", name)
		}
	}
}

func TestLoadCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	d, err := LoadCSV(path, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if d.Len() != 4 {
		t.Errorf("len: want(4) have(%v)", d.Len())
	}

	if _, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"), 1,
		true); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestBatch(t *testing.T) {
	d := load(t)
	x, y := d.Batch(1, 2)
	if !floats.Equal(x, []float64{4, 5, 7, 8}) {
		t.Errorf("batch inputs: have(%v)", x)
	}
	if !floats.Equal(y, []float64{9, 15}) {
		t.Errorf("batch labels: have(%v)", y)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out of range batch")
		}
	}()
	d.Batch(3, 2)
}

func TestShuffleKeepsPairs(t *testing.T) {
	d := load(t)
	d.Shuffle(rand.NewSource(3))

	seen := map[float64]bool{}
	for i := 0; i < d.Len(); i++ {
		x, y := d.Row(i)
		if x[0]+x[1] != y[0] {
			t.Errorf("row %v: inputs %v separated from label %v", i, x, y)
		}
		seen[y[0]] = true
	}
	if len(seen) != 4 {
		t.Errorf("shuffle lost samples: %v", seen)
	}

	// Same seed, same order
	a, b := load(t), load(t)
	a.Shuffle(rand.NewSource(11))
	b.Shuffle(rand.NewSource(11))
	for i := 0; i < a.Len(); i++ {
		xa, _ := a.Row(i)
		xb, _ := b.Row(i)
		if !floats.Equal(xa, xb) {
			t.Fatalf("shuffle is not deterministic at row %v", i)
		}
	}
}

func TestSplit(t *testing.T) {
	d := load(t)
	train, test, err := d.Split(0.75)
	if err != nil {
		t.Fatal(err)
	}
	if train.Len() != 3 || test.Len() != 1 {
		t.Fatalf("split: want(3, 1) have(%v, %v)", train.Len(), test.Len())
	}
	x, _ := test.Row(0)
	if !floats.Equal(x, []float64{10, 11}) {
		t.Errorf("test row: have(%v)", x)
	}

	if _, _, err := d.Split(1); err == nil {
		t.Error("expected error for fraction 1")
	}
	if _, _, err := d.Split(0.1); err == nil {
		t.Error("expected error for an empty split")
	}
}
