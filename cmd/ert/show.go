package main

import (
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/agent"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/report"
)

var showCmd = &cobra.Command{
	Use:   "show <snapshot.json>",
	Short: "Render a saved simulation snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		snap, err := agent.LoadSnapshot(args[0])
		if err != nil {
			return err
		}
		return report.WriteSimulation(cmd.OutOrStdout(), format, *snap)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
