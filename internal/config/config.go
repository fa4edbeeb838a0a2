package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

const (
	KindSearch   = "search"
	KindSimulate = "simulate"
)

// Config holds all application configuration.
type Config struct {
	Search strategy.Config `yaml:"search"`
	Agent  struct {
		StartingResources int    `yaml:"starting_resources"`
		Timesteps         int    `yaml:"timesteps"`
		StateFile         string `yaml:"state_file"`
	} `yaml:"agent"`
	Environment environment.Options `yaml:"environment"`
	Schedule    struct {
		Experiments []Experiment `yaml:"experiments"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
}

// Experiment is a search or simulation run on a cron schedule. Zero fields
// fall back to the top-level settings.
type Experiment struct {
	Name              string                 `yaml:"name"`
	Cron              string                 `yaml:"cron"`
	Kind              string                 `yaml:"kind"`
	Seed              *model.EnvironmentSeed `yaml:"seed,omitempty"`
	StartingResources int                    `yaml:"starting_resources,omitempty"`
	LookaheadSteps    int                    `yaml:"lookahead_steps,omitempty"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	envInt("ERT_LOOKAHEAD", &cfg.Search.LookaheadSteps)
	envInt("ERT_WORKERS", &cfg.Search.Workers)
	envInt("ERT_STARTING_RESOURCES", &cfg.Agent.StartingResources)
	envInt("ERT_TIMESTEPS", &cfg.Agent.Timesteps)
	envInt("ERT_NUM_INVESTMENTS", &cfg.Environment.NumInvestments)
	if v := os.Getenv("ERT_RNG_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Environment.RNGSeed = n
		} else {
			log.Printf("[WARN] ignoring ERT_RNG_SEED=%q: %v", v, err)
		}
	}
	if v := os.Getenv("ERT_INVESTMENTS_FILE"); v != "" {
		cfg.Environment.InvestmentsFile = v
	}
	if v := os.Getenv("ERT_SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ERT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}

	// Defaults
	if cfg.Search.LookaheadSteps == 0 {
		cfg.Search.LookaheadSteps = 3
	}
	if cfg.Search.Workers == 0 {
		cfg.Search.Workers = 1
	}
	if cfg.Agent.StartingResources == 0 {
		cfg.Agent.StartingResources = 500
	}
	if cfg.Agent.Timesteps == 0 {
		cfg.Agent.Timesteps = 10
	}
	if cfg.Environment.NumInvestments == 0 {
		cfg.Environment.NumInvestments = 10
	}
	defaultSeed(&cfg.Environment.Seed)
	for i := range cfg.Schedule.Experiments {
		exp := &cfg.Schedule.Experiments[i]
		if exp.Kind == "" {
			exp.Kind = KindSearch
		}
		if exp.Seed != nil {
			defaultSeed(exp.Seed)
		}
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/ert.db"
	}

	return cfg, nil
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Search.LookaheadSteps < 1 {
		return fmt.Errorf("search.lookahead_steps must be positive")
	}
	if c.Search.Workers < 1 {
		return fmt.Errorf("search.workers must be positive")
	}
	if c.Agent.StartingResources < 0 {
		return fmt.Errorf("agent.starting_resources must not be negative")
	}
	if c.Agent.Timesteps < 1 {
		return fmt.Errorf("agent.timesteps must be positive")
	}
	if c.Environment.InvestmentsFile == "" && c.Environment.NumInvestments < 0 {
		return fmt.Errorf("environment.num_investments must not be negative")
	}
	if err := environment.ValidateSeed(c.Environment.Seed); err != nil {
		return fmt.Errorf("environment.seed: %w", err)
	}
	for id, w := range c.Environment.CareHierarchy {
		if w < 0 {
			return fmt.Errorf("environment.care_hierarchy: negative weight for %s", id)
		}
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	seen := map[string]bool{}
	for i, exp := range c.Schedule.Experiments {
		if exp.Name == "" {
			return fmt.Errorf("schedule.experiments[%d].name is required", i)
		}
		if seen[exp.Name] {
			return fmt.Errorf("schedule.experiments: duplicate name %q", exp.Name)
		}
		seen[exp.Name] = true
		if exp.Kind != KindSearch && exp.Kind != KindSimulate {
			return fmt.Errorf("experiment %s: kind must be %s or %s", exp.Name, KindSearch, KindSimulate)
		}
		if _, err := parser.Parse(exp.Cron); err != nil {
			return fmt.Errorf("experiment %s: invalid cron %q: %w", exp.Name, exp.Cron, err)
		}
		if exp.Seed != nil {
			if err := environment.ValidateSeed(*exp.Seed); err != nil {
				return fmt.Errorf("experiment %s: %w", exp.Name, err)
			}
		}
		if exp.StartingResources < 0 || exp.LookaheadSteps < 0 {
			return fmt.Errorf("experiment %s: resources and lookahead must not be negative", exp.Name)
		}
	}
	return nil
}

func envInt(key string, dst *int) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] ignoring %s=%q: %v", key, v, err)
		return
	}
	*dst = n
}

func defaultSeed(s *model.EnvironmentSeed) {
	d := model.DefaultSeed()
	if s.ResourceAbundance == "" {
		s.ResourceAbundance = d.ResourceAbundance
	}
	if s.ResourceVariance == "" {
		s.ResourceVariance = d.ResourceVariance
	}
	if s.RewardAbundance == "" {
		s.RewardAbundance = d.RewardAbundance
	}
	if s.RewardVariance == "" {
		s.RewardVariance = d.RewardVariance
	}
}
