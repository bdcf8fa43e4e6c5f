package network

import (
	"fmt"

	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feed forward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     *Activation
	dropout float64
}

// newFCLayer adds a new fully connected layer with the given number of
// inputs and the configured number of units to graph g. The layer is
// named by its index i.
func newFCLayer(g *G.ExprGraph, i, inputs int, c LayerConfig,
	init G.InitWFn) (*fcLayer, error) {
	act, err := ParseActivation(c.Activation)
	if err != nil {
		return nil, err
	}

	weights := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(inputs, c.Units),
		G.WithName(fmt.Sprintf("L%dW", i)),
		G.WithInit(init),
	)
	bias := G.NewMatrix(
		g,
		tensor.Float64,
		G.WithShape(1, c.Units),
		G.WithName(fmt.Sprintf("L%dB", i)),
		G.WithInit(G.Zeroes()),
	)

	return &fcLayer{weights, bias, act, c.Dropout}, nil
}

// fwd adds the forward pass of the fcLayer to the computational graph.
// Dropout is only added if train is true.
func (f *fcLayer) fwd(x *G.Node, train bool) (*G.Node, error) {
	x, err := G.Mul(x, f.weights)
	if err != nil {
		return nil, errors.Wrap(err, "fwd: could not multiply weights")
	}

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x, err = G.BroadcastAdd(x, f.bias, nil, []byte{0})
	if err != nil {
		return nil, errors.Wrap(err, "fwd: could not add bias")
	}

	if x, err = f.act.fwd(x); err != nil {
		return nil, errors.Wrapf(err, "fwd: could not apply %v", f.act)
	}

	if train && f.dropout > 0 {
		if x, err = G.Dropout(x, f.dropout); err != nil {
			return nil, errors.Wrap(err, "fwd: could not apply dropout")
		}
	}
	return x, nil
}

// Activation returns the activation of the layer
func (f *fcLayer) Activation() *Activation {
	return f.act
}

// Bias returns the bias node of the layer
func (f *fcLayer) Bias() *G.Node {
	return f.bias
}

// Weights returns the weight node of the layer
func (f *fcLayer) Weights() *G.Node {
	return f.weights
}
