package agent

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

func farm(t *testing.T) []investment.Investment {
	t.Helper()
	invs, err := investment.NewAll([]model.InvestmentSpec{{
		ID:                      "farm",
		DischargeThreshold:      50,
		RewardDischargeAmount:   10,
		ResourceDischargeAmount: 60,
		CapacityRecoveryRate:    50,
	}})
	require.NoError(t, err)
	return invs
}

func engine(lookahead int) *strategy.Engine {
	return strategy.NewEngine(&strategy.Config{LookaheadSteps: lookahead, Workers: 1})
}

func TestRun_CommitsFirstStepEachTimestep(t *testing.T) {
	a, err := New(engine(2), farm(t), 50, Options{})
	require.NoError(t, err)

	snap, err := a.Run(context.Background(), 3)
	require.NoError(t, err)

	assert.Equal(t, StopCompleted, snap.StopReason)
	assert.False(t, snap.Dead)
	require.Len(t, snap.Steps, 3)
	assert.Equal(t, []int{50, 60, 70, 80}, snap.ResourceLevels())
	assert.Equal(t, []int{0, 10, 20, 30}, snap.RewardLevels())
	for i, st := range snap.Steps {
		assert.Equal(t, i, st.Timestep)
		assert.Equal(t, "farm", st.InvestmentID)
		assert.Equal(t, 50, st.Choice.ResourcesSpent)
	}
	assert.Equal(t, model.State{ResourceCapacity: 50}, snap.Investments["farm"])
}

func TestRun_DeadAgentStopsImmediately(t *testing.T) {
	a, err := New(engine(2), farm(t), 0, Options{})
	require.NoError(t, err)

	snap, err := a.Run(context.Background(), 5)
	require.NoError(t, err)
	assert.True(t, snap.Dead)
	assert.Equal(t, StopDead, snap.StopReason)
	assert.Empty(t, snap.Steps)
}

func TestRun_NoViablePathStops(t *testing.T) {
	invs, err := investment.NewAll([]model.InvestmentSpec{{
		ID: "far", DischargeThreshold: 100, RewardDischargeAmount: 10,
		ResourceDischargeAmount: 50, CapacityRecoveryRate: 10,
	}})
	require.NoError(t, err)

	var searches int
	a, err := New(engine(2), invs, 30, Options{OnSearch: func(_ *strategy.Result, err error) {
		searches++
		assert.ErrorIs(t, err, strategy.ErrNoViablePath)
	}})
	require.NoError(t, err)

	snap, err := a.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, StopNoViablePath, snap.StopReason)
	assert.False(t, snap.Dead)
	assert.Equal(t, 30, snap.Resources)
	assert.Equal(t, 1, searches)
}

func TestRun_SavesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulation.json")
	a, err := New(engine(1), farm(t), 50, Options{StatePath: path})
	require.NoError(t, err)

	snap, err := a.Run(context.Background(), 2)
	require.NoError(t, err)

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Steps, loaded.Steps)
	assert.Equal(t, snap.Resources, loaded.Resources)
	assert.Equal(t, StopCompleted, loaded.StopReason)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a, err := New(engine(2), farm(t), 50, Options{})
	require.NoError(t, err)
	snap, err := a.Run(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StopCancelled, snap.StopReason)
}

func TestSnapshot_IsACopy(t *testing.T) {
	a, err := New(engine(1), farm(t), 50, Options{})
	require.NoError(t, err)
	_, err = a.Run(context.Background(), 1)
	require.NoError(t, err)

	snap := a.Snapshot()
	snap.Steps[0].InvestmentID = "changed"
	assert.Equal(t, "farm", a.Snapshot().Steps[0].InvestmentID)
}

func TestNew_RejectsNegativeResources(t *testing.T) {
	_, err := New(engine(1), farm(t), -1, Options{})
	assert.ErrorIs(t, err, strategy.ErrInvalidInput)
}
