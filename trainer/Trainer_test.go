package trainer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samuelfneumann/rlcourse/dataset"
	"github.com/samuelfneumann/rlcourse/experiment/checkpointer"
	"github.com/samuelfneumann/rlcourse/network"
	"github.com/samuelfneumann/rlcourse/solver"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// linearData returns samples of y = 2*x1 - x2 + 0.5
func linearData(t *testing.T, n int) *dataset.Dataset {
	rng := rand.New(rand.NewSource(7))
	inputs := mat.NewDense(n, 2, nil)
	labels := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		x1, x2 := rng.Float64()*2-1, rng.Float64()*2-1
		inputs.Set(i, 0, x1)
		inputs.Set(i, 1, x2)
		labels.Set(i, 0, 2*x1-x2+0.5)
	}
	d, err := dataset.New(inputs, labels)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func linearConfig() network.Config {
	return network.Config{
		Inputs: 2,
		Layers: []network.LayerConfig{{Units: 1, Activation: "identity"}},
		Init:   network.InitConfig{Type: network.Zeroes},
	}
}

func newTrainer(t *testing.T, batch int) *Trainer {
	s, err := solver.NewVanilla(0.1, batch, -1)
	if err != nil {
		t.Fatal(err)
	}
	tr, err := New(linearConfig(), s, 1)
	if err != nil {
		t.Fatalf("could not create trainer: %v", err)
	}
	return tr
}

func TestFitLinear(t *testing.T) {
	tr := newTrainer(t, 4)
	defer tr.Close()
	d := linearData(t, 64)

	before, err := tr.Evaluate(d)
	if err != nil {
		t.Fatal(err)
	}

	losses, err := tr.Fit(d, 100)
	if err != nil {
		t.Fatal(err)
	}
	if len(losses) != 100 {
		t.Fatalf("losses: want(100) have(%v)", len(losses))
	}
	if losses[99] >= losses[0] {
		t.Errorf("loss did not decrease: first %v last %v", losses[0],
			losses[99])
	}

	after, err := tr.Evaluate(d)
	if err != nil {
		t.Fatal(err)
	}
	if after > before/100 {
		t.Errorf("evaluation error: before %v after %v", before, after)
	}

	net, err := tr.Network()
	if err != nil {
		t.Fatal(err)
	}
	defer net.Close()
	pred, err := net.Predict([]float64{0.5, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if diff := pred[0] - 1.0; diff > 0.05 || diff < -0.05 {
		t.Errorf("predict: want(1.0) have(%v)", pred[0])
	}
}

func TestFitCheckpoints(t *testing.T) {
	tr := newTrainer(t, 1)
	defer tr.Close()
	d := linearData(t, 8)

	dir := t.TempDir()
	base := filepath.Join(dir, "net")
	c := checkpointer.NewNStep(2, tr.Model(),
		checkpointer.FilenameEnumerator(0, base, ".bin"))

	if _, err := tr.Fit(d, 5, c); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"net1.bin", "net2.bin"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing checkpoint %v: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "net3.bin")); err == nil {
		t.Error("unexpected third checkpoint after 5 epochs")
	}

	loaded, err := network.Load(filepath.Join(dir, "net2.bin"), 1, false)
	if err != nil {
		t.Fatal(err)
	}
	defer loaded.Close()
	if loaded.Features() != 2 || loaded.Outputs() != 1 {
		t.Errorf("loaded checkpoint has dims (%v, %v)", loaded.Features(),
			loaded.Outputs())
	}
}

func TestFitVerbose(t *testing.T) {
	tr := newTrainer(t, 2)
	defer tr.Close()

	var out bytes.Buffer
	tr.SetVerbose(&out)
	if _, err := tr.Fit(linearData(t, 6), 2); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"epoch 1, loss:", "epoch 2, loss:",
		"100.00%"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%v", want, out.String())
		}
	}
}

func TestFitErrors(t *testing.T) {
	tr := newTrainer(t, 4)
	defer tr.Close()

	if _, err := tr.Fit(linearData(t, 3), 1); err == nil {
		t.Error("expected error when no batch can be filled")
	}
	if _, err := tr.Fit(linearData(t, 8), 0); err == nil {
		t.Error("expected error for zero epochs")
	}

	wide, err := dataset.New(mat.NewDense(4, 3, nil), mat.NewDense(4, 1, nil))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.Fit(wide, 1); err == nil {
		t.Error("expected error for mismatched features")
	}
	if _, err := tr.Evaluate(wide); err == nil {
		t.Error("expected error evaluating mismatched features")
	}

	if _, err := New(linearConfig(), nil, 1); err == nil {
		t.Error("expected error without a solver")
	}
}
