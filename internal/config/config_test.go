package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Search.LookaheadSteps)
	assert.Equal(t, 1, cfg.Search.Workers)
	assert.Equal(t, 500, cfg.Agent.StartingResources)
	assert.Equal(t, 10, cfg.Agent.Timesteps)
	assert.Equal(t, 10, cfg.Environment.NumInvestments)
	assert.Equal(t, model.DefaultSeed(), cfg.Environment.Seed)
	assert.Equal(t, "data/ert.db", cfg.Database.SQLitePath)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
search:
  lookahead_steps: 4
  workers: 2
environment:
  num_investments: 6
  seed:
    resource_abundance: high
  care_hierarchy:
    self: 1
    kin: 0.5
schedule:
  experiments:
    - name: nightly
      cron: "0 0 2 * * *"
      seed:
        reward_variance: low
`)
	t.Setenv("ERT_LOOKAHEAD", "5")
	t.Setenv("ERT_RNG_SEED", "42")
	t.Setenv("ERT_TIMESTEPS", "not-a-number")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 5, cfg.Search.LookaheadSteps)
	assert.Equal(t, 2, cfg.Search.Workers)
	assert.Equal(t, 10, cfg.Agent.Timesteps)
	assert.Equal(t, uint64(42), cfg.Environment.RNGSeed)
	assert.Equal(t, model.LevelHigh, cfg.Environment.Seed.ResourceAbundance)
	assert.Equal(t, model.LevelMedium, cfg.Environment.Seed.RewardAbundance)
	assert.Equal(t, 0.5, cfg.Environment.CareHierarchy["kin"])

	require.Len(t, cfg.Schedule.Experiments, 1)
	exp := cfg.Schedule.Experiments[0]
	assert.Equal(t, KindSearch, exp.Kind)
	require.NotNil(t, exp.Seed)
	assert.Equal(t, model.LevelLow, exp.Seed.RewardVariance)
	assert.Equal(t, model.LevelMedium, exp.Seed.ResourceAbundance)
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "search: [1, 2"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Config)
	}{
		{"lookahead", func(c *Config) { c.Search.LookaheadSteps = -1 }},
		{"workers", func(c *Config) { c.Search.Workers = -2 }},
		{"resources", func(c *Config) { c.Agent.StartingResources = -1 }},
		{"timesteps", func(c *Config) { c.Agent.Timesteps = -1 }},
		{"level", func(c *Config) { c.Environment.Seed.RewardAbundance = "lots" }},
		{"care weight", func(c *Config) { c.Environment.CareHierarchy = map[string]float64{"kin": -1} }},
		{"experiment name", func(c *Config) {
			c.Schedule.Experiments = []Experiment{{Cron: "@hourly", Kind: KindSearch}}
		}},
		{"experiment cron", func(c *Config) {
			c.Schedule.Experiments = []Experiment{{Name: "x", Cron: "every tuesday", Kind: KindSearch}}
		}},
		{"experiment kind", func(c *Config) {
			c.Schedule.Experiments = []Experiment{{Name: "x", Cron: "@hourly", Kind: "replay"}}
		}},
		{"duplicate experiment", func(c *Config) {
			c.Schedule.Experiments = []Experiment{
				{Name: "x", Cron: "@hourly", Kind: KindSearch},
				{Name: "x", Cron: "@daily", Kind: KindSimulate},
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			require.NoError(t, err)
			tt.edit(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
