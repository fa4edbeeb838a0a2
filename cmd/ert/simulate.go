package main

import (
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/report"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/scheduler"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

var (
	flagTimesteps int
	flagState     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the agent step by step, re-planning every timestep",
	Example: `  ert simulate -r 500 -n 10 -t 20
  ert simulate --care '{"self":1,"kin":0.5}' --state data/simulation.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("timesteps") {
			cfg.Agent.Timesteps = flagTimesteps
		}
		if cmd.Flags().Changed("state") {
			cfg.Agent.StateFile = flagState
		}
		if err := applyRunFlags(cmd, cfg); err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}
		src, err := environment.NewSource(cfg.Environment)
		if err != nil {
			return err
		}

		rec := openRecorder(cfg)
		defer rec.Close()

		runner := &scheduler.Runner{Engine: strategy.NewEngine(&cfg.Search), Recorder: rec}
		snap, err := runner.Simulate(cmd.Context(), "", src,
			cfg.Agent.StartingResources, cfg.Agent.Timesteps, cfg.Agent.StateFile)
		if err != nil {
			return err
		}
		return report.WriteSimulation(cmd.OutOrStdout(), format, snap)
	},
}

func init() {
	addRunFlags(simulateCmd)
	simulateCmd.Flags().IntVarP(&flagTimesteps, "timesteps", "t", 0, "Number of timesteps to simulate")
	simulateCmd.Flags().StringVar(&flagState, "state", "", "Write the simulation snapshot to this JSON file after every step")
	rootCmd.AddCommand(simulateCmd)
}
