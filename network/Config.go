// Package network implements fully connected feed forward neural
// networks built on Gorgonia computational graphs
package network

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
)

// LayerConfig describes a single fully connected layer. Every layer
// has a bias unit.
type LayerConfig struct {
	Units      int     `yaml:"units" json:"units"`
	Activation string  `yaml:"activation" json:"activation"`
	Dropout    float64 `yaml:"dropout,omitempty" json:"dropout,omitempty"`
}

// Config describes a fully connected network. The number of outputs
// of the network is the number of units in its last layer.
type Config struct {
	Inputs int           `yaml:"inputs" json:"inputs"`
	Layers []LayerConfig `yaml:"layers" json:"layers"`
	Init   InitConfig    `yaml:"init" json:"init"`
}

// Outputs returns the number of outputs of the network
func (c Config) Outputs() int {
	if len(c.Layers) == 0 {
		return 0
	}
	return c.Layers[len(c.Layers)-1].Units
}

// Validate returns an error if the Config does not describe a valid
// network
func (c Config) Validate() error {
	if c.Inputs <= 0 {
		return errors.Errorf("inputs must be positive, got %v", c.Inputs)
	}
	if len(c.Layers) == 0 {
		return errors.New("network must have at least one layer")
	}
	for i, l := range c.Layers {
		if l.Units <= 0 {
			return errors.Errorf("layer %v: units must be positive, got %v",
				i, l.Units)
		}
		if l.Dropout < 0 || l.Dropout >= 1 {
			return errors.Errorf("layer %v: dropout must be in [0, 1), "+
				"got %v", i, l.Dropout)
		}
		if _, err := ParseActivation(l.Activation); err != nil {
			return errors.Wrapf(err, "layer %v", i)
		}
	}
	if _, err := c.Init.Create(); err != nil {
		return err
	}
	return nil
}

// InitType names a weight initialization scheme
type InitType string

// Available weight initialization schemes
const (
	GlorotU InitType = "GlorotU"
	GlorotN InitType = "GlorotN"
	HeU     InitType = "HeU"
	HeN     InitType = "HeN"
	Zeroes  InitType = "Zeroes"
)

// InitConfig describes how the weights of a network are initialized.
// Biases are always initialized to zero.
type InitConfig struct {
	Type InitType `yaml:"type" json:"type"`
	Gain float64  `yaml:"gain,omitempty" json:"gain,omitempty"`
}

// Create returns the Gorgonia InitWFn that the InitConfig describes.
// The default is GlorotU with unit gain.
func (i InitConfig) Create() (G.InitWFn, error) {
	gain := i.Gain
	if gain == 0 {
		gain = 1.0
	}

	switch i.Type {
	case GlorotU, "":
		return G.GlorotU(gain), nil
	case GlorotN:
		return G.GlorotN(gain), nil
	case HeU:
		return G.HeU(gain), nil
	case HeN:
		return G.HeN(gain), nil
	case Zeroes:
		return G.Zeroes(), nil
	}
	return nil, errors.Errorf("unknown weight initialization %q", i.Type)
}
