package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/recorder"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/report"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		format, err := outputFormat()
		if err != nil {
			return err
		}
		rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			return err
		}
		defer rec.Close()

		runs, err := rec.Recent(flagLimit)
		if err != nil {
			return err
		}
		if format == report.FormatJSON {
			return report.WriteJSON(cmd.OutOrStdout(), runs)
		}

		var b strings.Builder
		b.WriteString("When            Kind      Experiment  Outcome         Reward  Resources  Steps\n")
		for _, r := range runs {
			b.WriteString(fmt.Sprintf("%-15s %-9s %-11s %-15s %6d  %9d  %s\n",
				humanize.Time(r.Timestamp), r.Kind, r.Experiment, r.Outcome,
				r.Reward, r.Resources, strings.Join(r.Steps, ",")))
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
		return err
	},
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}
