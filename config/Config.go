// Package config implements YAML configuration of CartPole experiments
// and network training
package config

import (
	"os"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/agent"
	"github.com/samuelfneumann/rlcourse/agent/actorcritic"
	"github.com/samuelfneumann/rlcourse/environment"
	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/rlcourse/experiment/checkpointer"
	"github.com/samuelfneumann/rlcourse/network"
	"github.com/samuelfneumann/rlcourse/solver"
	"gopkg.in/yaml.v3"
)

// Agent types that can be configured
const (
	Random      = "random"
	Heuristic   = "heuristic"
	ActorCritic = "actor_critic"
)

// Defaults of the experiment section
const (
	DefaultSteps      = 10_000
	DefaultFrames     = 200
	DefaultFrameEvery = 1
)

// Config configures the environment, the agent experiment run on it,
// and the network trained by the train command
type Config struct {
	Seed        uint64           `yaml:"seed"`
	Environment cartpole.Config  `yaml:"environment"`
	Experiment  ExperimentConfig `yaml:"experiment"`
	Network     NetworkConfig    `yaml:"network"`
}

// ExperimentConfig configures an online experiment of an agent on
// Cartpole
type ExperimentConfig struct {
	Agent        string                `yaml:"agent"`
	Heuristic    agent.HeuristicConfig `yaml:"heuristic"`
	ActorCritic  actorcritic.Config    `yaml:"actor_critic"`
	Steps        uint                  `yaml:"steps"`
	Replications int                   `yaml:"replications"`
	ReturnsFile  string                `yaml:"returns_file,omitempty"`
	LengthsFile  string                `yaml:"lengths_file,omitempty"`
	GIF          string                `yaml:"gif,omitempty"`
	Frames       int                   `yaml:"frames"`
	FrameEvery   int                   `yaml:"frame_every"`
}

// NetworkConfig configures a network and how it is trained
type NetworkConfig struct {
	network.Config `yaml:",inline"`
	Solver         *solver.Solver `yaml:"solver"`
	Epochs         int            `yaml:"epochs"`

	// Dataset is the path of a CSV file whose last LabelColumns
	// columns are labels
	Dataset      string `yaml:"dataset"`
	LabelColumns int    `yaml:"label_columns"`
	Header       bool   `yaml:"header"`

	// Checkpoint is the path the trained network is saved to. Periodic
	// checkpoints are named from it by CheckpointNaming, one of the
	// checkpointer naming schemes.
	Checkpoint       string `yaml:"checkpoint"`
	CheckpointEvery  int    `yaml:"checkpoint_every"`
	CheckpointNaming string `yaml:"checkpoint_naming,omitempty"`
}

// DefaultConfig returns a Config running the heuristic agent on the
// standard Cartpole environment, with the collision network
func DefaultConfig() *Config {
	net, err := Preset("collision")
	if err != nil {
		panic(err)
	}

	return &Config{
		Seed:        1,
		Environment: cartpole.DefaultConfig(),
		Experiment: ExperimentConfig{
			Agent:        Heuristic,
			Heuristic:    agent.DefaultHeuristicConfig(),
			ActorCritic:  actorcritic.DefaultConfig(),
			Steps:        DefaultSteps,
			Replications: 1,
			ReturnsFile:  "returns.bin",
			LengthsFile:  "lengths.bin",
			Frames:       DefaultFrames,
			FrameEvery:   DefaultFrameEvery,
		},
		Network: net,
	}
}

// Load reads the Config at path. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "load")
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load: %v", path)
	}
	return cfg, nil
}

// Parse parses a YAML Config. Fields absent from data keep their
// default values.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML
func Save(path string, cfg *Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return errors.Wrap(err, "save")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "save")
	}
	return nil
}

// Marshal returns the YAML encoding of the Config
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate returns an error if any section of the Config is invalid
func (c *Config) Validate() error {
	if err := c.Environment.Validate(); err != nil {
		return errors.Wrap(err, "environment")
	}
	if err := c.Experiment.Validate(); err != nil {
		return errors.Wrap(err, "experiment")
	}
	if err := c.Network.Validate(); err != nil {
		return errors.Wrap(err, "network")
	}
	return nil
}

// Validate returns an error if the ExperimentConfig is invalid
func (e ExperimentConfig) Validate() error {
	if _, err := e.AgentConfig(); err != nil {
		return err
	}
	if e.Steps == 0 {
		return errors.New("steps must be positive")
	}
	if e.Replications <= 0 {
		return errors.Errorf("replications must be positive, got %v",
			e.Replications)
	}
	if e.GIF != "" && (e.Frames <= 0 || e.FrameEvery <= 0) {
		return errors.Errorf("frames and frame_every must be positive to "+
			"record a gif, got %v and %v", e.Frames, e.FrameEvery)
	}
	return nil
}

// AgentConfig returns the configuration of the selected agent
func (e ExperimentConfig) AgentConfig() (agent.Config, error) {
	var c agent.Config
	switch e.Agent {
	case Random:
		c = agent.RandomConfig{}
	case Heuristic:
		c = e.Heuristic
	case ActorCritic:
		c = e.ActorCritic
	default:
		return nil, errors.Errorf("unknown agent %q", e.Agent)
	}

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, e.Agent)
	}
	return c, nil
}

// CreateAgent creates the selected agent for env
func (e ExperimentConfig) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	c, err := e.AgentConfig()
	if err != nil {
		return nil, err
	}
	return c.CreateAgent(env, seed)
}

// Validate returns an error if the NetworkConfig is invalid
func (n NetworkConfig) Validate() error {
	if err := n.Config.Validate(); err != nil {
		return err
	}
	if n.Solver == nil {
		return errors.New("no solver")
	}
	if err := n.Solver.Config.Validate(); err != nil {
		return errors.Wrap(err, "solver")
	}
	if n.Epochs <= 0 {
		return errors.Errorf("epochs must be positive, got %v", n.Epochs)
	}
	if n.LabelColumns != n.Outputs() {
		return errors.Errorf("label_columns (%v) must equal the number of "+
			"network outputs (%v)", n.LabelColumns, n.Outputs())
	}
	if n.CheckpointEvery < 0 {
		return errors.Errorf("checkpoint_every must be non-negative, got %v",
			n.CheckpointEvery)
	}
	if _, err := checkpointer.Namer(n.CheckpointNaming, n.Checkpoint); err != nil {
		return err
	}
	return nil
}
