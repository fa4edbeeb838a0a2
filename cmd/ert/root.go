package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/config"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/recorder"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/report"
)

var (
	// Global flags
	cfgFile  string
	verbose  bool
	output   string
	noRecord bool
)

var rootCmd = &cobra.Command{
	Use:   "ert",
	Short: "Bounded-lookahead resource allocation under embodied constraints",
	Long: `ert searches for the best way to allocate an agent's resources across
investments that pay out reward and resources once enough has been put in.

Commands:
  search    Find the best trajectory over the lookahead horizon
  simulate  Run the agent step by step, re-planning every timestep
  schedule  Run configured experiments on cron schedules
  history   List recorded runs
  show      Render a saved simulation snapshot`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: $CONFIG_PATH or configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pruning decisions")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "Output format (table, json); default table on a terminal, json otherwise")
	rootCmd.PersistentFlags().BoolVar(&noRecord, "no-record", false, "Do not record runs to SQLite")
}

func loadConfig() (*config.Config, error) {
	path := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	if cfgFile != "" {
		path = cfgFile
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Search.Debug = true
	}
	return cfg, nil
}

func outputFormat() (report.Format, error) {
	if output != "" {
		return report.ParseFormat(output)
	}
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return report.FormatTable, nil
	}
	return report.FormatJSON, nil
}

// openRecorder falls back to a no-op recorder when SQLite is disabled or unavailable.
func openRecorder(cfg *config.Config) recorder.Recorder {
	if noRecord || cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0755); err != nil {
		log.Printf("[WARN] create data dir failed, using noop recorder: %v", err)
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
