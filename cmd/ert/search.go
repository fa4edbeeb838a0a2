package main

import (
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/report"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/scheduler"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find the best trajectory over the lookahead horizon",
	Example: `  ert search -r 500 -n 10 -l 3
  ert search --file investments.yaml --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
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
		res, err := runner.Search(cmd.Context(), "", src, cfg.Agent.StartingResources)
		if err != nil {
			return err
		}
		return report.WriteSearch(cmd.OutOrStdout(), format, res)
	},
}

func init() {
	addRunFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
