// Package trainer implements supervised training of fully connected
// networks against a mean squared error loss
package trainer

import (
	"io"
	"log"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/dataset"
	"github.com/samuelfneumann/rlcourse/experiment/checkpointer"
	"github.com/samuelfneumann/rlcourse/network"
	"github.com/samuelfneumann/rlcourse/solver"
	"github.com/samuelfneumann/rlcourse/utils/progressbar"
	"golang.org/x/exp/rand"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// progressWidth is the width in characters of the progress bar shown
// by verbose Trainers
const progressWidth = 40

// Trainer trains an MLP on datasets in mini-batches. Each gradient
// step uses as many samples as the batch size of the Trainer's solver.
// Samples that do not fill a whole batch at the end of an epoch are
// skipped for that epoch.
type Trainer struct {
	net    *network.MLP
	solver *solver.Solver
	src    rand.Source

	target  *G.Node
	loss    *G.Node
	lossVal G.Value
	vm      G.VM

	shuffle bool
	out     io.Writer
	logger  *log.Logger
}

// New returns a new Trainer for a network described by c, updated with
// solver s. The seed determines the order in which samples are
// visited.
func New(c network.Config, s *solver.Solver, seed uint64) (*Trainer, error) {
	if s == nil || s.Config == nil {
		return nil, errors.New("new: no solver")
	}
	batch := s.Config.BatchSize()

	net, err := network.NewMLP(c, batch, true)
	if err != nil {
		return nil, errors.Wrap(err, "new")
	}

	target := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithShape(net.Prediction().Shape()...),
		G.WithName("target"),
		G.WithInit(G.Zeroes()),
	)

	// Summed over the batch and averaged over outputs. The solver
	// averages gradients over the batch.
	loss, err := G.Sub(net.Prediction(), target)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not compute error")
	}
	loss = G.Must(G.Square(loss))
	loss = G.Must(G.Sum(loss))
	outputs := G.NewConstant(float64(net.Outputs()))
	loss = G.Must(G.Div(loss, outputs))

	trainer := &Trainer{
		net:     net,
		solver:  s,
		src:     rand.NewSource(seed),
		target:  target,
		loss:    loss,
		shuffle: true,
	}
	G.Read(trainer.loss, &trainer.lossVal)

	if _, err := G.Grad(loss, net.Learnables()...); err != nil {
		return nil, errors.Wrap(err, "new: could not compute gradient")
	}
	trainer.vm = G.NewTapeMachine(net.Graph(),
		G.BindDualValues(net.Learnables()...))

	return trainer, nil
}

// SetVerbose makes the Trainer log the loss of each epoch and display
// a progress bar on out. A nil out silences the Trainer.
func (t *Trainer) SetVerbose(out io.Writer) {
	t.out = out
	if out == nil {
		t.logger = nil
		return
	}
	t.logger = log.New(out, "", log.LstdFlags)
}

// SetShuffle sets whether the dataset is shuffled before each epoch
func (t *Trainer) SetShuffle(shuffle bool) {
	t.shuffle = shuffle
}

// BatchSize returns the number of samples in each gradient step
func (t *Trainer) BatchSize() int {
	return t.net.BatchSize()
}

// Model returns the MLP being trained. It may be checkpointed but not
// used for Predict.
func (t *Trainer) Model() *network.MLP {
	return t.net
}

// Network returns an inference copy of the trained network which
// predicts for a single sample at a time
func (t *Trainer) Network() (*network.MLP, error) {
	return t.net.CloneWithBatch(1, false)
}

// Fit trains the network on d for the given number of epochs and
// returns the mean per-sample loss of each epoch. After each epoch,
// numbered from 1, each checkpointer is given the chance to
// checkpoint.
func (t *Trainer) Fit(d *dataset.Dataset, epochs int,
	checkpointers ...checkpointer.Checkpointer) ([]float64, error) {
	if err := t.compatible(d); err != nil {
		return nil, errors.Wrap(err, "fit")
	}
	if epochs <= 0 {
		return nil, errors.Errorf("fit: epochs must be positive, got %v",
			epochs)
	}

	batch := t.BatchSize()
	batches := d.Len() / batch
	if batches == 0 {
		return nil, errors.Errorf("fit: %v samples cannot fill a batch "+
			"of %v", d.Len(), batch)
	}

	var bar *progressbar.ProgressBar
	if t.out != nil {
		bar = progressbar.New(t.out, progressWidth, epochs*batches)
	}

	losses := make([]float64, epochs)
	for epoch := 1; epoch <= epochs; epoch++ {
		if t.shuffle {
			d.Shuffle(t.src)
		}

		epochLoss := 0.0
		for b := 0; b < batches; b++ {
			loss, err := t.step(d.Batch(b*batch, batch))
			if err != nil {
				return losses[:epoch-1], errors.Wrapf(err,
					"fit: epoch %v batch %v", epoch, b)
			}
			epochLoss += loss

			if bar != nil {
				bar.Increment()
				bar.Display()
			}
		}
		losses[epoch-1] = epochLoss / float64(batches*batch)

		if bar != nil {
			bar.Finish()
		}
		if t.logger != nil {
			t.logger.Printf("epoch %d, loss: %.4f", epoch, losses[epoch-1])
		}

		for _, c := range checkpointers {
			if err := c.Checkpoint(epoch); err != nil {
				return losses[:epoch], errors.Wrap(err, "fit")
			}
		}
	}

	return losses, nil
}

// step performs a single gradient step on a batch of inputs x and
// targets y and returns the summed loss over the batch
func (t *Trainer) step(x, y []float64) (float64, error) {
	defer t.vm.Reset()

	if err := t.net.SetInput(x); err != nil {
		return 0, err
	}
	targets := tensor.New(
		tensor.WithBacking(y),
		tensor.WithShape(t.target.Shape()...),
	)
	if err := G.Let(t.target, targets); err != nil {
		return 0, errors.Wrap(err, "could not set targets")
	}

	if err := t.vm.RunAll(); err != nil {
		return 0, errors.Wrap(err, "could not run forward pass")
	}
	if err := t.solver.Step(t.net.Model()); err != nil {
		return 0, errors.Wrap(err, "could not step solver")
	}

	return t.lossVal.Data().(float64), nil
}

// Evaluate returns the mean squared error of the trained network over
// all samples and outputs of d, without dropout
func (t *Trainer) Evaluate(d *dataset.Dataset) (float64, error) {
	if err := t.compatible(d); err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}

	net, err := t.Network()
	if err != nil {
		return 0, errors.Wrap(err, "evaluate")
	}
	defer net.Close()

	sse := 0.0
	for i := 0; i < d.Len(); i++ {
		x, y := d.Row(i)
		pred, err := net.Predict(x)
		if err != nil {
			return 0, errors.Wrapf(err, "evaluate: sample %v", i)
		}
		for j := range pred {
			diff := pred[j] - y[j]
			sse += diff * diff
		}
	}
	return sse / float64(d.Len()*d.Outputs()), nil
}

// Close releases the resources held by the Trainer
func (t *Trainer) Close() error {
	return t.vm.Close()
}

// compatible returns an error if the network cannot be trained on d
func (t *Trainer) compatible(d *dataset.Dataset) error {
	if d.Features() != t.net.Features() {
		return errors.Errorf("dataset has %v features but network has %v "+
			"inputs", d.Features(), t.net.Features())
	}
	if d.Outputs() != t.net.Outputs() {
		return errors.Errorf("dataset has %v labels but network has %v "+
			"outputs", d.Outputs(), t.net.Outputs())
	}
	return nil
}
