package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/rlcourse/config"
	"github.com/samuelfneumann/rlcourse/environment/classiccontrol/cartpole"
	"github.com/samuelfneumann/rlcourse/experiment"
	"github.com/samuelfneumann/rlcourse/experiment/plotting"
	"github.com/samuelfneumann/rlcourse/experiment/trackers"
	"github.com/samuelfneumann/rlcourse/render"
	"github.com/samuelfneumann/rlcourse/utils/floatutils"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		agentName    string
		steps        uint
		seed         uint64
		replications int
		gifFile      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "run cartpole episodes with an agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("agent") {
				cfg.Experiment.Agent = agentName
			}
			if flags.Changed("steps") {
				cfg.Experiment.Steps = steps
			}
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("replications") {
				cfg.Experiment.Replications = replications
			}
			if flags.Changed("gif") {
				cfg.Experiment.GIF = gifFile
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return runExperiment(cfg.Experiment, cfg.Environment, cfg.Seed)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&agentName, "agent", "heuristic",
		"agent (random, heuristic, actor_critic)")
	flags.UintVar(&steps, "steps", 10_000, "environment steps per replication")
	flags.Uint64Var(&seed, "seed", 1, "random seed")
	flags.IntVar(&replications, "replications", 1,
		"independent replications run in parallel")
	flags.StringVar(&gifFile, "gif", "", "record the first replication to a gif")

	return cmd
}

// runExperiment runs the configured replications of the online
// experiment and prints a summary of the first
func runExperiment(e config.ExperimentConfig, envConfig cartpole.Config,
	seed uint64) error {
	n := e.Replications
	returns := make([]*trackers.Return, n)
	lengths := make([]*trackers.EpisodeLength, n)
	var recorder *render.Recorder

	create := func(i int, seed uint64) (experiment.Experiment, error) {
		env := cartpole.NewEpisodic(cartpole.New(envConfig, seed))
		a, err := e.CreateAgent(env, seed)
		if err != nil {
			return nil, err
		}

		returns[i] = trackers.NewReturn(replicaFile(e.ReturnsFile, i, n))
		lengths[i] = trackers.NewEpisodeLength(replicaFile(e.LengthsFile,
			i, n))
		exp := experiment.NewOnline(env, a, e.Steps, returns[i], lengths[i])

		if i == 0 && e.GIF != "" {
			recorder = render.NewRecorder(
				render.NewRenderer(envConfig.PositionThreshold), e.GIF,
				e.FrameEvery, e.Frames,
			)
			exp.Register(recorder)
		}
		return exp, nil
	}

	log.Printf("running %v replication(s) of %v for %v steps", n, e.Agent,
		e.Steps)
	if _, err := experiment.Parallel(n, seed, create); err != nil {
		return err
	}

	rets := returns[0].Data()
	rows := [][2]string{
		row("agent", "%v", e.Agent),
		row("episodes", "%v", len(rets)),
		row("mean return", "%.2f", floatutils.Mean(rets...)),
		row("mean length", "%.2f", floatutils.Mean(lengths[0].Data()...)),
	}
	if len(rets) > 0 {
		best, _ := floatutils.MaxSlice(rets)
		rows = append(rows, row("best return", "%.0f", best))
	}
	if e.ReturnsFile != "" {
		rows = append(rows, row("returns", "%v",
			replicaFile(e.ReturnsFile, 0, n)))
	}
	if recorder != nil {
		rows = append(rows, row("gif", "%v (%v frames)", e.GIF,
			recorder.Frames()))
	}
	fmt.Print(summary("cartpole", rows...))

	if len(rets) > 1 {
		fmt.Println(graphStyle.Render(plotting.Terminal(rets,
			"episode return", 10, 60)))
	}
	return nil
}

// replicaFile returns the file that replication i of n saves data to.
// With a single replication the file is used unchanged.
func replicaFile(name string, i, n int) string {
	if name == "" || n == 1 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%v_%d%v", strings.TrimSuffix(name, ext), i, ext)
}
