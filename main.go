// Command rlcourse runs CartPole experiments and trains the course
// networks
package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samuelfneumann/rlcourse/config"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(18)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

var configFile string

func main() {
	log.SetFlags(0)

	rootCmd := &cobra.Command{
		Use:          "rlcourse",
		Short:        "cartpole reinforcement learning and network coursework",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"config file path (yaml)")

	rootCmd.AddCommand(
		newRunCmd(),
		newTrainCmd(),
		newPredictCmd(),
		newPlotCmd(),
		newConfigCmd(),
		newPresetsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

// loadConfig loads the config file given by the --config flag, or the
// default config if there is none
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(configFile)
}

// summary renders a titled list of label-value rows
func summary(title string, rows ...[2]string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
		b.WriteString("\n")
	}
	return b.String()
}

// row returns a summary row with a formatted value
func row(label, format string, a ...interface{}) [2]string {
	return [2]string{label, fmt.Sprintf(format, a...)}
}
