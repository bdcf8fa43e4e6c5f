// Package solver implements functionality to wrap Gorgonia Solvers
// so that they can be JSON or YAML serialized into configuration files.
package solver

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// configTypes maps each solver Type to the concrete type of its Config
var configTypes = map[string]reflect.Type{
	string(Vanilla): reflect.TypeOf(VanillaConfig{}),
	string(Adam):    reflect.TypeOf(AdamConfig{}),
	string(RMSProp): reflect.TypeOf(RMSPropConfig{}),
}

// Solver wraps Gorgonia Solvers so that they can be JSON and YAML
// marshalled and unmarshalled.
type Solver struct {
	G.Solver `json:"-" yaml:"-"`
	Type     `json:"Type" yaml:"type"`
	Config   `json:"Config" yaml:"config"`
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, errors.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "newSolver")
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// UnmarshalJSON implements the json.Unmarshaler interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	return s.fromMap(m, "Type", "Config")
}

// UnmarshalYAML implements the yaml.Unmarshaler interface
func (s *Solver) UnmarshalYAML(value *yaml.Node) error {
	m := map[string]interface{}{}
	if err := value.Decode(&m); err != nil {
		return err
	}
	return s.fromMap(m, "type", "config")
}

// fromMap sets the Solver to the Type and Config stored in m
func (s *Solver) fromMap(m map[string]interface{}, typeField,
	valueField string) error {
	config, typeName, err := unmarshalConfig(m, typeField, valueField,
		configTypes)
	if err != nil {
		return err
	}
	if !config.ValidType(typeName) {
		return errors.Errorf("invalid solver type %v for configuration %T",
			typeName, config)
	}
	if err := config.Validate(); err != nil {
		return err
	}

	s.Type = typeName
	s.Config = config
	s.Solver = s.Config.Create()

	return nil
}

// unmarshalConfig uses reflection to unmarshal a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(m map[string]interface{}, typeField, valueField string,
	customTypes map[string]reflect.Type) (Config, Type, error) {
	typeName, ok := m[typeField].(string)
	if !ok {
		return nil, "", errors.Errorf("solver type field %q missing",
			typeField)
	}

	ty, found := customTypes[typeName]
	if !found {
		return nil, "", errors.Errorf("unknown solver type %q", typeName)
	}
	ptr := reflect.New(ty)

	valueBytes, err := json.Marshal(m[valueField])
	if err != nil {
		return nil, "", err
	}
	if err = json.Unmarshal(valueBytes, ptr.Interface()); err != nil {
		return nil, "", err
	}

	return ptr.Elem().Interface().(Config), Type(typeName), nil
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool

	// Validate returns an error if the configuration is invalid
	Validate() error

	// BatchSize returns the number of samples that each gradient step
	// is averaged over
	BatchSize() int
}

// validate checks the hyperparameters shared by all solvers
func validate(stepSize float64, batch int) error {
	if stepSize <= 0 {
		return errors.Errorf("step size must be positive, got %v", stepSize)
	}
	if batch <= 0 {
		return errors.Errorf("batch size must be positive, got %v", batch)
	}
	return nil
}
