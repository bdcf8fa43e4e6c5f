package config

import (
	"sort"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/network"
	"github.com/samuelfneumann/rlcourse/solver"
)

// presets creates each named network preset. Presets are created on
// each use so that callers may modify them.
var presets = map[string]func() (NetworkConfig, error){
	// Collision avoidance from six range sensor readings
	"collision": func() (NetworkConfig, error) {
		s, err := solver.NewVanilla(1e-5, 1, -1)
		if err != nil {
			return NetworkConfig{}, err
		}
		return NetworkConfig{
			Config: network.Config{
				Inputs: 6,
				Layers: []network.LayerConfig{
					{Units: 10, Activation: "relu"},
					{Units: 1, Activation: "identity"},
				},
			},
			Solver:          s,
			Epochs:          25,
			Dataset:         "collision.csv",
			LabelColumns:    1,
			Checkpoint:      "collision.bin",
			CheckpointEvery: 1,
		}, nil
	},

	// Regression of a planar two-joint arm, with dropout after every
	// tanh layer including the last
	"regression": func() (NetworkConfig, error) {
		s, err := solver.NewDefaultAdam(1e-3, 32)
		if err != nil {
			return NetworkConfig{}, err
		}
		layers := make([]network.LayerConfig, 5)
		for i := range layers {
			layers[i] = network.LayerConfig{
				Units:      100,
				Activation: "tanh",
				Dropout:    0.1,
			}
		}
		layers[len(layers)-1].Units = 2

		return NetworkConfig{
			Config: network.Config{
				Inputs: 2,
				Layers: layers,
			},
			Solver:          s,
			Epochs:          100,
			Dataset:         "regression.csv",
			LabelColumns:    2,
			Checkpoint:      "regression.bin",
			CheckpointEvery: 10,
		}, nil
	},
}

// Preset returns the network preset with the given name
func Preset(name string) (NetworkConfig, error) {
	create, ok := presets[name]
	if !ok {
		return NetworkConfig{}, errors.Errorf("preset: unknown preset %q",
			name)
	}
	return create()
}

// PresetNames returns the names of all network presets in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
