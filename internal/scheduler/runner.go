package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/agent"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/metrics"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/recorder"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

// Runner executes searches and simulations and records their outcome.
type Runner struct {
	Engine   *strategy.Engine
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics // optional
}

// Search draws an environment from src and runs one search on it.
func (r *Runner) Search(ctx context.Context, experiment string, src environment.Source, resources int) (*strategy.Result, error) {
	invs, err := environment.Build(src)
	if err != nil {
		return nil, err
	}

	res, err := r.Engine.Search(ctx, invs, resources)
	r.observe(res, err)

	run := recorder.NewRun(recorder.KindSearch, experiment, params{
		Source:    src.Name(),
		Resources: resources,
		Search:    r.Engine.Config(),
	}).SetSearch(res, err)
	r.record(run)

	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// Simulate draws an environment from src and runs the agent for timesteps steps.
func (r *Runner) Simulate(ctx context.Context, experiment string, src environment.Source, resources, timesteps int, statePath string) (agent.Snapshot, error) {
	invs, err := environment.Build(src)
	if err != nil {
		return agent.Snapshot{}, err
	}

	a, err := agent.New(r.Engine, invs, resources, agent.Options{StatePath: statePath, OnSearch: r.observe})
	if err != nil {
		return agent.Snapshot{}, err
	}
	start := time.Now()
	snap, err := a.Run(ctx, timesteps)

	run := recorder.NewRun(recorder.KindSimulate, experiment, params{
		Source:    src.Name(),
		Resources: resources,
		Timesteps: timesteps,
		Search:    r.Engine.Config(),
	}).SetSimulation(snap, time.Since(start))
	r.record(run)

	if err != nil {
		return snap, fmt.Errorf("simulate: %w", err)
	}
	return snap, nil
}

type params struct {
	Source    string          `json:"source"`
	Resources int             `json:"resources"`
	Timesteps int             `json:"timesteps,omitempty"`
	Search    strategy.Config `json:"search"`
}

func (r *Runner) observe(res *strategy.Result, err error) {
	if r.Metrics != nil {
		r.Metrics.ObserveSearch(res, err)
	}
}

func (r *Runner) record(run *recorder.Run) {
	if r.Recorder == nil {
		return
	}
	if err := r.Recorder.RecordRun(run); err != nil {
		log.Printf("[ERROR] record %s run: %v", run.Kind, err)
	}
}
