package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/rlcourse/config"
	"github.com/samuelfneumann/rlcourse/dataset"
	"github.com/samuelfneumann/rlcourse/experiment/checkpointer"
	"github.com/samuelfneumann/rlcourse/experiment/plotting"
	"github.com/samuelfneumann/rlcourse/network"
	"github.com/samuelfneumann/rlcourse/trainer"
	"github.com/spf13/cobra"
)

func newTrainCmd() *cobra.Command {
	var (
		preset     string
		datasetCSV string
		epochs     int
		checkpoint string
		naming     string
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "train a network on a csv dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			net := cfg.Network
			if preset != "" {
				if net, err = config.Preset(preset); err != nil {
					return err
				}
			}

			flags := cmd.Flags()
			if flags.Changed("dataset") {
				net.Dataset = datasetCSV
			}
			if flags.Changed("epochs") {
				net.Epochs = epochs
			}
			if flags.Changed("checkpoint") {
				net.Checkpoint = checkpoint
			}
			if flags.Changed("checkpoint-naming") {
				net.CheckpointNaming = naming
			}
			if err := net.Validate(); err != nil {
				return err
			}

			return train(net, cfg.Seed, quiet)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&preset, "preset", "", "network preset (see presets)")
	flags.StringVar(&datasetCSV, "dataset", "", "csv dataset path")
	flags.IntVar(&epochs, "epochs", 0, "training epochs")
	flags.StringVar(&checkpoint, "checkpoint", "", "checkpoint file path")
	flags.StringVar(&naming, "checkpoint-naming", "overwrite",
		"periodic checkpoint names (overwrite, enumerate, timestamp)")
	flags.BoolVar(&quiet, "quiet", false, "hide per-epoch progress")

	return cmd
}

// train fits the configured network to its dataset, checkpointing as
// configured, and saves the final weights to the checkpoint file
func train(c config.NetworkConfig, seed uint64, quiet bool) error {
	d, err := dataset.LoadCSV(c.Dataset, c.LabelColumns, c.Header)
	if err != nil {
		return err
	}

	t, err := trainer.New(c.Config, c.Solver, seed)
	if err != nil {
		return err
	}
	defer t.Close()
	if !quiet {
		t.SetVerbose(os.Stderr)
	}

	var checkpointers []checkpointer.Checkpointer
	if c.Checkpoint != "" && c.CheckpointEvery > 0 {
		namer, err := checkpointer.Namer(c.CheckpointNaming, c.Checkpoint)
		if err != nil {
			return err
		}
		checkpointers = append(checkpointers, checkpointer.NewNStep(
			c.CheckpointEvery, t.Model(), namer,
		))
	}

	log.Printf("training on %v samples for %v epochs", d.Len(), c.Epochs)
	losses, err := t.Fit(d, c.Epochs, checkpointers...)
	if err != nil {
		return err
	}

	mse, err := t.Evaluate(d)
	if err != nil {
		return err
	}

	rows := [][2]string{
		row("samples", "%v", d.Len()),
		row("epochs", "%v", len(losses)),
		row("final loss", "%.4f", losses[len(losses)-1]),
		row("mse", "%.4f", mse),
	}
	if c.Checkpoint != "" {
		if err := t.Model().Save(c.Checkpoint); err != nil {
			return err
		}
		rows = append(rows, row("saved", "%v", c.Checkpoint))
	}
	fmt.Print(summary("training", rows...))

	if len(losses) > 1 {
		fmt.Println(graphStyle.Render(plotting.Terminal(losses, "loss", 10,
			60)))
	}
	return nil
}

func newPredictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predict <checkpoint> <input>...",
		Short: "predict the outputs of a saved network for one input row",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := network.Load(args[0], 1, false)
			if err != nil {
				return err
			}
			defer net.Close()

			input := make([]float64, len(args)-1)
			for i, arg := range args[1:] {
				if input[i], err = strconv.ParseFloat(arg, 64); err != nil {
					return errors.Wrapf(err, "input %v", i)
				}
			}

			pred, err := net.Predict(input)
			if err != nil {
				return err
			}
			for _, p := range pred {
				fmt.Println(strconv.FormatFloat(p, 'g', -1, 64))
			}
			return nil
		},
	}
}
