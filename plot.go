package main

import (
	"fmt"
	"path/filepath"

	"github.com/samuelfneumann/rlcourse/config"
	"github.com/samuelfneumann/rlcourse/experiment/plotting"
	"github.com/samuelfneumann/rlcourse/experiment/trackers"
	"github.com/spf13/cobra"
)

func newPlotCmd() *cobra.Command {
	var (
		window int
		png    string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "plot <data file>...",
		Short: "plot data saved by the run command",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			series := make([]plotting.Series, len(args))
			for i, file := range args {
				data, err := trackers.LoadData(file)
				if err != nil {
					return err
				}
				series[i] = plotting.Series{
					Name: filepath.Base(file),
					Data: plotting.MovingAverage(data, window),
				}
				fmt.Println(graphStyle.Render(plotting.Terminal(
					series[i].Data, series[i].Name, 12, 70)))
			}

			if png == "" {
				return nil
			}
			if err := plotting.SavePNG(png, title, "episode", "value",
				series...); err != nil {
				return err
			}
			fmt.Print(summary("plot", row("saved", "%v", png)))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&window, "window", 1, "moving average window")
	flags.StringVar(&png, "png", "", "also save the plot to this image file")
	flags.StringVar(&title, "title", "cartpole", "title of the saved plot")

	return cmd
}

func newConfigCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the configuration in use as yaml",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if out != "" {
				return config.Save(out, cfg)
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write to this file instead")

	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list network presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.PresetNames() {
				p, err := config.Preset(name)
				if err != nil {
					return err
				}

				units := make([]int, len(p.Layers))
				for i, l := range p.Layers {
					units[i] = l.Units
				}
				fmt.Print(summary(name,
					row("inputs", "%v", p.Inputs),
					row("layers", "%v", units),
					row("activation", "%v", p.Layers[0].Activation),
					row("solver", "%v", p.Solver.Type),
					row("batch", "%v", p.Solver.Config.BatchSize()),
					row("epochs", "%v", p.Epochs),
				))
			}
			return nil
		},
	}
}
