package trackers

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/rlcourse/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// episode returns the timesteps of an episode of length n with the
// given reward on every step after the first
func episode(n int, reward float64) []ts.TimeStep {
	obs := mat.NewVecDense(1, nil)
	steps := []ts.TimeStep{ts.New(ts.First, 0, obs, 0)}
	for i := 1; i <= n; i++ {
		stepType := ts.Mid
		if i == n {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, reward, obs, i))
	}
	return steps
}

func TestReturnAndEpisodeLength(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "return.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "length.bin"))

	for _, ep := range [][]ts.TimeStep{episode(3, 1), episode(5, 0.5)} {
		for _, step := range ep {
			ret.Track(step)
			length.Track(step)
		}
	}

	// An unfinished episode is not recorded
	for _, step := range episode(4, 1)[:3] {
		ret.Track(step)
		length.Track(step)
	}

	wantReturns := []float64{3, 2.5}
	wantLengths := []float64{3, 5}
	if !floats.Equal(ret.Data(), wantReturns) {
		t.Errorf("returns: want %v, got %v", wantReturns, ret.Data())
	}
	if !floats.Equal(length.Data(), wantLengths) {
		t.Errorf("lengths: want %v, got %v", wantLengths, length.Data())
	}

	for _, tracker := range []Tracker{ret, length} {
		if err := tracker.Save(); err != nil {
			t.Fatalf("could not save: %v", err)
		}
	}

	returns, err := LoadData(filepath.Join(dir, "return.bin"))
	if err != nil {
		t.Fatalf("could not load returns: %v", err)
	}
	if !floats.Equal(returns, wantReturns) {
		t.Errorf("loaded returns: want %v, got %v", wantReturns, returns)
	}

	lengths, err := LoadData(filepath.Join(dir, "length.bin"))
	if err != nil {
		t.Fatalf("could not load lengths: %v", err)
	}
	if !floats.Equal(lengths, wantLengths) {
		t.Errorf("loaded lengths: want %v, got %v", wantLengths, lengths)
	}
}

func TestReturnRejectsNonSequential(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("non-sequential timesteps should panic")
		}
	}()

	ret := NewReturn("unused")
	steps := episode(5, 1)
	ret.Track(steps[0])
	ret.Track(steps[2])
}

func TestLoadDataMissingFile(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("loading a missing file should fail")
	}
}

func TestEmptyFilenameSkipsSave(t *testing.T) {
	ret := NewReturn("")
	for _, step := range episode(3, 1.0) {
		ret.Track(step)
	}
	if err := ret.Save(); err != nil {
		t.Errorf("save with no filename: unexpected error %v", err)
	}
	if len(ret.Data()) != 1 {
		t.Errorf("episodes: want(1) have(%v)", len(ret.Data()))
	}
}
