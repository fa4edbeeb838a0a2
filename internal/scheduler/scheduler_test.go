package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/config"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/environment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/metrics"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/recorder"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

const farmYAML = `investments:
  - id: farm
    discharge_threshold: 50
    reward_discharge_amount: 10
    resource_discharge_amount: 60
    capacity_recovery_rate: 50
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	file := filepath.Join(dir, "investments.yaml")
	require.NoError(t, os.WriteFile(file, []byte(farmYAML), 0644))

	cfg, err := config.Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	cfg.Environment.InvestmentsFile = file
	cfg.Agent.StartingResources = 50
	cfg.Agent.Timesteps = 2
	cfg.Search.LookaheadSteps = 2
	cfg.Schedule.Experiments = []config.Experiment{
		{Name: "search", Cron: "@every 1h", Kind: config.KindSearch},
		{Name: "simulate", Cron: "0 0 3 * * *", Kind: config.KindSimulate},
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestScheduler_RunNowRecords(t *testing.T) {
	cfg := testConfig(t)
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "ert.db"))
	require.NoError(t, err)
	defer rec.Close()

	s := NewScheduler(context.Background(), cfg, rec, metrics.New())
	require.NoError(t, s.RunNow("search"))
	require.NoError(t, s.RunNow("simulate"))

	runs, err := rec.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	kinds := map[string]recorder.RunSummary{}
	for _, r := range runs {
		kinds[r.Kind] = r
	}
	assert.Equal(t, "search", kinds[recorder.KindSearch].Experiment)
	assert.Equal(t, 20, kinds[recorder.KindSearch].Reward)
	assert.Equal(t, []string{"farm", "farm"}, kinds[recorder.KindSimulate].Steps)
	assert.Equal(t, 70, kinds[recorder.KindSimulate].Resources)
}

func TestScheduler_RunNowUnknown(t *testing.T) {
	s := NewScheduler(context.Background(), testConfig(t), recorder.NewNoopRecorder(), nil)
	assert.Error(t, s.RunNow("missing"))
}

func TestScheduler_RegisterAll(t *testing.T) {
	s := NewScheduler(context.Background(), testConfig(t), recorder.NewNoopRecorder(), nil)
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), 2)

	s.Start()
	s.Stop()

	s.Config.Schedule.Experiments = nil
	assert.Error(t, NewScheduler(context.Background(), s.Config, nil, nil).RegisterAll())
}

func TestScheduler_ExperimentOverrides(t *testing.T) {
	cfg := testConfig(t)
	cfg.Schedule.Experiments = []config.Experiment{
		{Name: "rich", Cron: "@daily", Kind: config.KindSearch, StartingResources: 100, LookaheadSteps: 1},
	}
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "ert.db"))
	require.NoError(t, err)
	defer rec.Close()

	require.NoError(t, NewScheduler(context.Background(), cfg, rec, nil).RunNow("rich"))
	runs, err := rec.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 110, runs[0].Resources)
	assert.Len(t, runs[0].Steps, 1)
}

func TestRunner_SearchFailureIsRecorded(t *testing.T) {
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "ert.db"))
	require.NoError(t, err)
	defer rec.Close()

	r := &Runner{Engine: strategy.NewEngine(nil), Recorder: rec}
	src := &environment.StaticSource{List: []model.InvestmentSpec{{ID: "a", DischargeThreshold: 10}}}
	_, err = r.Search(context.Background(), "", src, 0)
	assert.ErrorIs(t, err, strategy.ErrNoViablePath)

	runs, err := rec.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "no_viable_path", runs[0].Outcome)
}

func TestScheduler_StopWaitsForStartupRuns(t *testing.T) {
	cfg := testConfig(t)
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "ert.db"))
	require.NoError(t, err)
	defer rec.Close()

	s := NewScheduler(context.Background(), cfg, rec, metrics.New())
	require.NoError(t, s.RegisterAll())
	s.Start()
	s.RunAllNow()
	s.Stop()

	runs, err := rec.Recent(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2, "both startup runs are recorded before Stop returns")
}
