package main

import (
	"github.com/spf13/cobra"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/config"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
)

// Flags shared by search and simulate; they override the config file when set.
var (
	flagResources   int
	flagLookahead   int
	flagWorkers     int
	flagInvestments int
	flagSeed        string
	flagCare        string
	flagFile        string
	flagRNGSeed     uint64
)

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVarP(&flagResources, "resources", "r", 0, "Agent's starting resources")
	f.IntVarP(&flagLookahead, "lookahead", "l", 0, "Lookahead steps")
	f.IntVar(&flagWorkers, "workers", 0, "Paths expanded in parallel")
	f.IntVarP(&flagInvestments, "investments", "n", 0, "Number of generated investments")
	f.StringVarP(&flagSeed, "seed", "s", "", `JSON environment seed, e.g. {"resource_abundance":"high"}`)
	f.StringVar(&flagCare, "care", "", `JSON care hierarchy, e.g. {"self":1,"kin":0.5}`)
	f.StringVarP(&flagFile, "file", "f", "", "YAML investments file (overrides generation)")
	f.Uint64Var(&flagRNGSeed, "rng-seed", 0, "Random seed for generation (0 = time based)")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("resources") {
		cfg.Agent.StartingResources = flagResources
	}
	if f.Changed("lookahead") {
		cfg.Search.LookaheadSteps = flagLookahead
	}
	if f.Changed("workers") {
		cfg.Search.Workers = flagWorkers
	}
	if f.Changed("investments") {
		cfg.Environment.NumInvestments = flagInvestments
	}
	if f.Changed("seed") {
		seed, err := environment.ParseSeed([]byte(flagSeed))
		if err != nil {
			return err
		}
		cfg.Environment.Seed = seed
	}
	if f.Changed("care") {
		care, err := environment.ParseCareHierarchy([]byte(flagCare))
		if err != nil {
			return err
		}
		cfg.Environment.CareHierarchy = care
	}
	if f.Changed("file") {
		cfg.Environment.InvestmentsFile = flagFile
	}
	if f.Changed("rng-seed") {
		cfg.Environment.RNGSeed = flagRNGSeed
	}
	return cfg.Validate()
}
