package network

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// MLP implements a fully connected multi-layered perceptron on its own
// computational graph. An MLP built for training applies dropout after
// each layer that configures it. An MLP built for inference never
// applies dropout and can compute predictions with Predict.
type MLP struct {
	config    Config
	g         *G.ExprGraph
	layers    []*fcLayer
	input     *G.Node
	batchSize int
	train     bool

	learnables G.Nodes
	prediction *G.Node
	predVal    G.Value

	vm G.VM // lazily constructed by Predict
}

// NewMLP creates and returns a new MLP described by c which takes
// inputs in batches of batchSize. If train is true, the MLP applies
// dropout and cannot be used for Predict.
func NewMLP(c Config, batchSize int, train bool) (*MLP, error) {
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "newMLP")
	}
	if batchSize <= 0 {
		return nil, errors.Errorf("newMLP: batch size must be positive, "+
			"got %v", batchSize)
	}

	init, err := c.Init.Create()
	if err != nil {
		return nil, errors.Wrap(err, "newMLP")
	}

	g := G.NewGraph()
	input := G.NewMatrix(g, tensor.Float64, G.WithShape(batchSize, c.Inputs),
		G.WithName("input"), G.WithInit(G.Zeroes()))

	layers := make([]*fcLayer, len(c.Layers))
	inputs := c.Inputs
	for i, lc := range c.Layers {
		if layers[i], err = newFCLayer(g, i, inputs, lc, init); err != nil {
			return nil, errors.Wrapf(err, "newMLP: layer %v", i)
		}
		inputs = lc.Units
	}

	net := &MLP{
		config:    c,
		g:         g,
		layers:    layers,
		input:     input,
		batchSize: batchSize,
		train:     train,
	}
	if _, err := net.fwd(input); err != nil {
		return nil, errors.Wrap(err, "newMLP: could not compute forward pass")
	}

	return net, nil
}

// fwd performs the forward pass of the MLP on the input node
func (m *MLP) fwd(input *G.Node) (*G.Node, error) {
	pred := input
	var err error
	for i, l := range m.layers {
		if pred, err = l.fwd(pred, m.train); err != nil {
			return nil, errors.Wrapf(err, "fwd: layer %v", i)
		}
	}

	m.prediction = pred
	G.Read(m.prediction, &m.predVal)

	return pred, nil
}

// Config returns the configuration of the MLP
func (m *MLP) Config() Config {
	return m.config
}

// Graph returns the computational graph of the MLP
func (m *MLP) Graph() *G.ExprGraph {
	return m.g
}

// BatchSize returns the batch size of inputs to the MLP
func (m *MLP) BatchSize() int {
	return m.batchSize
}

// Features returns the number of features in a single input
func (m *MLP) Features() int {
	return m.config.Inputs
}

// Outputs returns the number of outputs predicted for a single input
func (m *MLP) Outputs() int {
	return m.config.Outputs()
}

// Training returns whether the MLP applies dropout
func (m *MLP) Training() bool {
	return m.train
}

// CloneWithBatch returns a copy of the MLP on a new computational
// graph with the given batch size. The clone applies dropout only if
// train is true.
func (m *MLP) CloneWithBatch(batchSize int, train bool) (*MLP, error) {
	net, err := NewMLP(m.config, batchSize, train)
	if err != nil {
		return nil, errors.Wrap(err, "cloneWithBatch")
	}
	if err := net.Set(m); err != nil {
		return nil, errors.Wrap(err, "cloneWithBatch")
	}
	return net, nil
}

// SetInput sets the value of the input node before running the forward
// pass. Inputs are in row major order, one row per sample.
func (m *MLP) SetInput(input []float64) error {
	if len(input) != m.Features()*m.batchSize {
		return errors.Errorf("setInput: invalid number of inputs "+
			"\n\twant(%v)\n\thave(%v)", m.Features()*m.batchSize, len(input))
	}
	inputTensor := tensor.New(
		tensor.WithBacking(input),
		tensor.WithShape(m.input.Shape()...),
	)
	return G.Let(m.input, inputTensor)
}

// Set sets the weights of the MLP to be equal to the weights of
// another MLP with the same layer sizes
func (m *MLP) Set(source *MLP) error {
	sourceNodes := source.Learnables()
	nodes := m.Learnables()
	if len(sourceNodes) != len(nodes) {
		return errors.Errorf("set: source has %v learnables, want %v",
			len(sourceNodes), len(nodes))
	}

	for i, destLearnable := range nodes {
		if !destLearnable.Shape().Eq(sourceNodes[i].Shape()) {
			return errors.Errorf("set: learnable %v has shape %v, want %v",
				i, sourceNodes[i].Shape(), destLearnable.Shape())
		}
		weights := sourceNodes[i].Value().(*tensor.Dense).Clone()
		if err := G.Let(destLearnable, weights.(*tensor.Dense)); err != nil {
			return errors.Wrapf(err, "set: learnable %v", i)
		}
	}
	return nil
}

// Learnables returns the learnable nodes of the MLP, the weights then
// bias of each layer in order
func (m *MLP) Learnables() G.Nodes {
	// Lazy instantiation
	if m.learnables == nil {
		learnables := make([]*G.Node, 0, 2*len(m.layers))
		for _, l := range m.layers {
			learnables = append(learnables, l.Weights(), l.Bias())
		}
		m.learnables = G.Nodes(learnables)
	}
	return m.learnables
}

// Model returns the learnable nodes with their gradients
func (m *MLP) Model() []G.ValueGrad {
	return G.NodesToValueGrads(m.Learnables())
}

// Prediction returns the node of the computational graph that stores
// the output of the MLP
func (m *MLP) Prediction() *G.Node {
	return m.prediction
}

// Output returns the output of the MLP from the last run of the
// computational graph
func (m *MLP) Output() G.Value {
	return m.predVal
}

// Predict returns the outputs of the MLP for input, which holds
// BatchSize() samples in row major order. Predict may only be used on
// inference MLPs whose graph is not being run by another VM.
func (m *MLP) Predict(input []float64) ([]float64, error) {
	if m.train {
		return nil, errors.New("predict: cannot predict with a training MLP")
	}
	if m.vm == nil {
		m.vm = G.NewTapeMachine(m.g)
	}
	defer m.vm.Reset()

	if err := m.SetInput(input); err != nil {
		return nil, errors.Wrap(err, "predict")
	}
	if err := m.vm.RunAll(); err != nil {
		return nil, errors.Wrap(err, "predict")
	}

	out := m.predVal.Data().([]float64)
	pred := make([]float64, len(out))
	copy(pred, out)
	return pred, nil
}

// Close releases the resources held by the MLP
func (m *MLP) Close() error {
	if m.vm == nil {
		return nil
	}
	err := m.vm.Close()
	m.vm = nil
	return err
}

// Weights returns copies of the values of each learnable node, in the
// order of Learnables()
func (m *MLP) Weights() [][]float64 {
	nodes := m.Learnables()
	weights := make([][]float64, len(nodes))
	for i, node := range nodes {
		data := node.Value().Data().([]float64)
		weights[i] = make([]float64, len(data))
		copy(weights[i], data)
	}
	return weights
}

// SetWeights sets the values of each learnable node, in the order of
// Learnables()
func (m *MLP) SetWeights(weights [][]float64) error {
	nodes := m.Learnables()
	if len(weights) != len(nodes) {
		return errors.Errorf("setWeights: got %v weight slices, want %v",
			len(weights), len(nodes))
	}

	for i, node := range nodes {
		if len(weights[i]) != node.Shape().TotalSize() {
			return errors.Errorf("setWeights: learnable %v has %v weights, "+
				"want %v", i, len(weights[i]), node.Shape().TotalSize())
		}
		backing := make([]float64, len(weights[i]))
		copy(backing, weights[i])

		t := tensor.New(tensor.WithBacking(backing),
			tensor.WithShape(node.Shape()...))
		if err := G.Let(node, t); err != nil {
			return errors.Wrapf(err, "setWeights: learnable %v", i)
		}
	}
	return nil
}

func (m *MLP) String() string {
	return fmt.Sprintf("MLP(inputs: %v, layers: %v, batch: %v)",
		m.config.Inputs, m.config.Layers, m.batchSize)
}

// savedMLP is the serialized form of an MLP
type savedMLP struct {
	Config  Config
	Weights [][]float64
}

// Save gob-encodes the configuration and weights of the MLP to
// filename
func (m *MLP) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "save: could not create file")
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	if err := enc.Encode(savedMLP{m.config, m.Weights()}); err != nil {
		return errors.Wrapf(err, "save: could not encode %v", filename)
	}
	return nil
}

// Load loads an MLP saved with Save, constructing it with the given
// batch size and dropout mode
func Load(filename string, batchSize int, train bool) (*MLP, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "load: could not open file")
	}
	defer file.Close()

	var saved savedMLP
	if err := gob.NewDecoder(file).Decode(&saved); err != nil {
		return nil, errors.Wrapf(err, "load: could not decode %v", filename)
	}

	net, err := NewMLP(saved.Config, batchSize, train)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	if err := net.SetWeights(saved.Weights); err != nil {
		return nil, errors.Wrap(err, "load")
	}
	return net, nil
}
