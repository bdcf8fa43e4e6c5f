package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/rlcourse/agent"
	"github.com/samuelfneumann/rlcourse/agent/actorcritic"
	"github.com/samuelfneumann/rlcourse/agent/pg"
	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/rlcourse/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config is invalid: %v", err)
	}
	if cfg.Environment.MaxSteps != cartpole.MaxSteps {
		t.Errorf("max steps: want(%v) have(%v)", cartpole.MaxSteps,
			cfg.Environment.MaxSteps)
	}
	if cfg.Experiment.Agent != Heuristic {
		t.Errorf("agent: want(%v) have(%v)", Heuristic, cfg.Experiment.Agent)
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.Environment.MaxSteps = 500
	cfg.Experiment.Agent = ActorCritic
	cfg.Experiment.ActorCritic.Algorithm = pg.A2C
	cfg.Experiment.GIF = "episode.gif"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Seed != 42 || got.Environment.MaxSteps != 500 {
		t.Errorf("seed and max steps: have(%v, %v)", got.Seed,
			got.Environment.MaxSteps)
	}
	if got.Environment != cfg.Environment {
		t.Errorf("environment: want(%+v) have(%+v)", cfg.Environment,
			got.Environment)
	}
	if got.Experiment != cfg.Experiment {
		t.Errorf("experiment: want(%+v) have(%+v)", cfg.Experiment,
			got.Experiment)
	}

	if got.Network.Inputs != cfg.Network.Inputs ||
		len(got.Network.Layers) != len(cfg.Network.Layers) {
		t.Fatalf("network: want(%+v) have(%+v)", cfg.Network.Config,
			got.Network.Config)
	}
	for i := range cfg.Network.Layers {
		if got.Network.Layers[i] != cfg.Network.Layers[i] {
			t.Errorf("layer %v: want(%+v) have(%+v)", i,
				cfg.Network.Layers[i], got.Network.Layers[i])
		}
	}
	if got.Network.Solver.Type != solver.Vanilla ||
		got.Network.Solver.Config != cfg.Network.Solver.Config {
		t.Errorf("solver: want(%v %v) have(%v %v)", cfg.Network.Solver.Type,
			cfg.Network.Solver.Config, got.Network.Solver.Type,
			got.Network.Solver.Config)
	}
}

func TestParsePartial(t *testing.T) {
	cfg, err := Parse([]byte("seed: 7\nexperiment:\n  agent: random\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 7 || cfg.Experiment.Agent != Random {
		t.Errorf("parsed fields: have(%v, %v)", cfg.Seed,
			cfg.Experiment.Agent)
	}
	if cfg.Experiment.Steps != DefaultSteps {
		t.Errorf("steps should keep default: have(%v)", cfg.Experiment.Steps)
	}
	if cfg.Environment.PositionThreshold != cartpole.PositionThreshold {
		t.Errorf("environment should keep default: have(%v)",
			cfg.Environment.PositionThreshold)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown agent": "experiment:\n  agent: dqn\n",
		"no steps":      "experiment:\n  steps: 0\n",
		"bad heuristic": "experiment:\n  heuristic:\n    angle_gain: 0\n" +
			"    velocity_gain: 0\n",
		"bad env":    "environment:\n  max_steps: -1\n",
		"bad labels": "network:\n  label_columns: 3\n",
		"bad yaml":   "seed: [",
		"bad naming": "network:\n  checkpoint_naming: random\n",
		"bad solver": "network:\n  solver:\n    type: Nesterov\n" +
			"    config: {}\n",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("%v: expected error", name)
		}
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error loading a missing file")
	}
}

func TestAgentConfig(t *testing.T) {
	e := DefaultConfig().Experiment

	tests := map[string]interface{}{
		Random:      agent.RandomConfig{},
		Heuristic:   agent.DefaultHeuristicConfig(),
		ActorCritic: actorcritic.DefaultConfig(),
	}
	for name, want := range tests {
		e.Agent = name
		c, err := e.AgentConfig()
		if err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		if c != want {
			t.Errorf("%v: want(%+v) have(%+v)", name, want, c)
		}
	}
}

func TestCreateAgent(t *testing.T) {
	cfg := DefaultConfig()
	env := cartpole.NewEpisodic(cartpole.New(cfg.Environment, cfg.Seed))
	for _, name := range []string{Random, Heuristic, ActorCritic} {
		cfg.Experiment.Agent = name
		a, err := cfg.Experiment.CreateAgent(env, cfg.Seed)
		if err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		step := env.Reset()
		if action := a.SelectAction(step); action != 0 && action != 1 {
			t.Errorf("%v: illegal action %v", name, action)
		}
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	if len(names) != 2 || names[0] != "collision" ||
		names[1] != "regression" {
		t.Fatalf("preset names: have(%v)", names)
	}

	for _, name := range names {
		p, err := Preset(name)
		if err != nil {
			t.Fatalf("%v: %v", name, err)
		}
		if err := p.Validate(); err != nil {
			t.Errorf("%v: invalid preset: %v", name, err)
		}
	}

	collision, _ := Preset("collision")
	if collision.Inputs != 6 || collision.Outputs() != 1 ||
		collision.Epochs != 25 || collision.Solver.Config.BatchSize() != 1 {
		t.Errorf("collision preset: have(%+v)", collision)
	}

	regression, _ := Preset("regression")
	if len(regression.Layers) != 5 {
		t.Errorf("regression layers: want(5) have(%v)",
			len(regression.Layers))
	}
	for i, l := range regression.Layers {
		if l.Activation != "tanh" || l.Dropout <= 0 {
			t.Errorf("regression layer %v: have(%+v)", i, l)
		}
	}

	// Presets are independent copies
	collision.Layers[0].Units = 99
	again, _ := Preset("collision")
	if again.Layers[0].Units != 10 {
		t.Error("modifying a preset changed later presets")
	}

	if _, err := Preset("mnist"); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestSaveUnwritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "dir")
	if err := Save(filepath.Join(dir, "c.yaml"), DefaultConfig()); err == nil {
		t.Error("expected error saving to a missing directory")
	}
	if _, err := os.Stat(dir); err == nil {
		t.Error("save should not create directories")
	}
}
