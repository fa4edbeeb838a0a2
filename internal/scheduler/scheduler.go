package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/config"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/metrics"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/recorder"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

// Scheduler runs the configured experiments on their cron schedules.
type Scheduler struct {
	Cron     *cron.Cron
	Config   *config.Config
	Recorder recorder.Recorder
	Metrics  *metrics.Metrics
	Ctx      context.Context

	// startup runs launched by RunAllNow
	wg sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, rec recorder.Recorder, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Config:   cfg,
		Recorder: rec,
		Metrics:  m,
		Ctx:      ctx,
	}
}

// RegisterAll registers one cron job per experiment.
func (s *Scheduler) RegisterAll() error {
	if len(s.Config.Schedule.Experiments) == 0 {
		return fmt.Errorf("no experiments configured")
	}
	for _, exp := range s.Config.Schedule.Experiments {
		if _, err := s.Cron.AddFunc(exp.Cron, func() { s.run(exp) }); err != nil {
			return fmt.Errorf("register experiment %s: %w", exp.Name, err)
		}
		log.Printf("[INFO] experiment %s (%s) scheduled: %s", exp.Name, exp.Kind, exp.Cron)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running experiments, including
// those started by RunAllNow.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Println("[INFO] scheduler stopped")
}

// RunAllNow starts every experiment once in the background.
func (s *Scheduler) RunAllNow() {
	for _, exp := range s.Config.Schedule.Experiments {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			log.Printf("[INFO] running experiment %s on start", exp.Name)
			if err := s.Run(exp); err != nil && s.Ctx.Err() == nil {
				log.Printf("[ERROR] %v", err)
			}
		}()
	}
}

// RunNow executes the named experiment immediately.
func (s *Scheduler) RunNow(name string) error {
	for _, exp := range s.Config.Schedule.Experiments {
		if exp.Name == name {
			return s.Run(exp)
		}
	}
	return fmt.Errorf("unknown experiment %q", name)
}

// Run executes one experiment against a freshly drawn environment.
func (s *Scheduler) Run(exp config.Experiment) error {
	search := s.Config.Search
	if exp.LookaheadSteps > 0 {
		search.LookaheadSteps = exp.LookaheadSteps
	}
	opts := s.Config.Environment
	if exp.Seed != nil {
		opts.Seed = *exp.Seed
	}
	resources := s.Config.Agent.StartingResources
	if exp.StartingResources > 0 {
		resources = exp.StartingResources
	}

	src, err := environment.NewSource(opts)
	if err != nil {
		return fmt.Errorf("experiment %s: %w", exp.Name, err)
	}
	runner := &Runner{Engine: strategy.NewEngine(&search), Recorder: s.Recorder, Metrics: s.Metrics}

	switch exp.Kind {
	case config.KindSimulate:
		snap, err := runner.Simulate(s.Ctx, exp.Name, src, resources, s.Config.Agent.Timesteps, "")
		if err != nil {
			return fmt.Errorf("experiment %s: %w", exp.Name, err)
		}
		log.Printf("[INFO] experiment %s: %d steps, reward %d, resources %d (%s)",
			exp.Name, len(snap.Steps), snap.Reward, snap.Resources, snap.StopReason)
	default:
		res, err := runner.Search(s.Ctx, exp.Name, src, resources)
		if err != nil {
			return fmt.Errorf("experiment %s: %w", exp.Name, err)
		}
		log.Printf("[INFO] experiment %s: reward %d, resources %d, %d paths explored",
			exp.Name, res.Best.RewardToDate, res.Best.ResourcesToSpend, res.Stats.Explored())
	}
	return nil
}

func (s *Scheduler) run(exp config.Experiment) {
	log.Printf("[INFO] running experiment %s", exp.Name)
	if err := s.Run(exp); err != nil {
		log.Printf("[ERROR] %v", err)
	}
}
