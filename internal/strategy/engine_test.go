package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/world"
)

func spec(id string, threshold, reward, resources, recovery int) model.InvestmentSpec {
	return model.InvestmentSpec{
		ID:                      id,
		DischargeThreshold:      threshold,
		RewardDischargeAmount:   reward,
		ResourceDischargeAmount: resources,
		CapacityRecoveryRate:    recovery,
	}
}

func build(t *testing.T, specs ...model.InvestmentSpec) []investment.Investment {
	t.Helper()
	invs, err := investment.NewAll(specs)
	require.NoError(t, err)
	return invs
}

func mixedEnvironment(t *testing.T) []investment.Investment {
	return build(t,
		spec("1", 50, 10, 60, 50),
		spec("2", 60, 20, 70, 30),
		spec("3", 80, 40, 90, 20),
		spec("4", 30, 5, 45, 30),
	)
}

func TestSearch_SingleInvestmentOneStep(t *testing.T) {
	e := NewEngine(&Config{LookaheadSteps: 1})
	res, err := e.Search(context.Background(), build(t, spec("1", 50, 10, 60, 50)), 50)
	require.NoError(t, err)

	best := res.Best
	assert.Equal(t, []string{"1"}, best.InvestmentsChosen)
	assert.Equal(t, 50, best.ResourcesSpent)
	assert.Equal(t, 10, best.RewardToDate)
	assert.Equal(t, 60, best.ResourcesToSpend)
	assert.Equal(t, []int{60}, best.ResourceLevelAtEachStep)
	assert.Equal(t, []int{10}, best.RewardLevelAtEachStep)
}

func TestSearch_DominatedInvestmentNeverChosen(t *testing.T) {
	invs := build(t,
		spec("weak", 50, 10, 60, 50),
		spec("strong", 50, 20, 80, 50),
	)
	res, err := NewEngine(&Config{LookaheadSteps: 2}).Search(context.Background(), invs, 100)
	require.NoError(t, err)

	assert.NotContains(t, res.Best.InvestmentsChosen, "weak")
	assert.Equal(t, []string{"strong", "strong"}, res.Best.InvestmentsChosen)
	assert.Equal(t, 40, res.Best.RewardToDate)
	assert.Equal(t, 160, res.Best.ResourcesToSpend)
}

func TestSearch_ZeroResourcesIsNoViablePath(t *testing.T) {
	_, err := NewEngine(nil).Search(context.Background(), mixedEnvironment(t), 0)
	assert.ErrorIs(t, err, ErrNoViablePath)
}

func TestSearch_NoInvestmentsIsNoViablePath(t *testing.T) {
	_, err := NewEngine(nil).Search(context.Background(), nil, 100)
	assert.ErrorIs(t, err, ErrNoViablePath)
}

func TestSearch_InvalidInput(t *testing.T) {
	_, err := NewEngine(&Config{LookaheadSteps: 0}).Search(context.Background(), mixedEnvironment(t), 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewEngine(nil).Search(context.Background(), mixedEnvironment(t), -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearch_EverythingPrunedIsNoViablePath(t *testing.T) {
	// the threshold can never be met, so after the first step every
	// surviving path only has unreachable investments left
	_, err := NewEngine(&Config{LookaheadSteps: 2}).Search(context.Background(),
		build(t, spec("far", 100, 10, 50, 10)), 30)
	assert.ErrorIs(t, err, ErrNoViablePath)
}

func TestSearch_BalanceInvariant(t *testing.T) {
	const start = 100
	res, err := NewEngine(&Config{LookaheadSteps: 3}).Search(context.Background(), mixedEnvironment(t), start)
	require.NoError(t, err)

	best := res.Best
	require.Len(t, best.InvestmentsChosen, 3)
	require.Len(t, best.Choices, 3)

	balance, reward, spent := start, 0, 0
	for i, c := range best.Choices {
		balance += c.ResourceProfit
		reward += c.Reward
		spent += c.ResourcesSpent
		assert.Equal(t, balance, best.ResourceLevelAtEachStep[i], "step %d", i)
		assert.Equal(t, reward, best.RewardLevelAtEachStep[i], "step %d", i)
	}
	assert.Equal(t, balance, best.ResourcesToSpend)
	assert.Equal(t, reward, best.RewardToDate)
	assert.Equal(t, spent, best.ResourcesSpent)
}

func TestSearch_WorkersDoNotChangeResult(t *testing.T) {
	seq, err := NewEngine(&Config{LookaheadSteps: 3, Workers: 1}).Search(context.Background(), mixedEnvironment(t), 100)
	require.NoError(t, err)
	par, err := NewEngine(&Config{LookaheadSteps: 3, Workers: 4}).Search(context.Background(), mixedEnvironment(t), 100)
	require.NoError(t, err)

	assert.Equal(t, seq.Best.InvestmentsChosen, par.Best.InvestmentsChosen)
	assert.Equal(t, seq.Best.Choices, par.Best.Choices)
	assert.Equal(t, seq.Stats, par.Stats)
}

func TestSearch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(&Config{LookaheadSteps: 3}).Search(ctx, mixedEnvironment(t), 100)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_StatsCountEverySimulatedStep(t *testing.T) {
	res, err := NewEngine(&Config{LookaheadSteps: 3}).Search(context.Background(), mixedEnvironment(t), 100)
	require.NoError(t, err)
	require.Len(t, res.Stats.PathsPerStep, 3)
	assert.Positive(t, res.Stats.PathsPerStep[0])
	assert.Equal(t, res.Stats.Explored(), res.Stats.PathsPerStep[0]+res.Stats.PathsPerStep[1]+res.Stats.PathsPerStep[2])
}

func TestFork_DoesNotShareHistory(t *testing.T) {
	res, err := NewEngine(&Config{LookaheadSteps: 1}).Search(context.Background(), mixedEnvironment(t), 100)
	require.NoError(t, err)
	parent := res.Best

	a := parent.Fork(0, model.Payout{ResourcesSpent: 1, ResourceProfit: -1})
	b := parent.Fork(1, model.Payout{ResourcesSpent: 2, ResourceProfit: -2})

	assert.Len(t, parent.InvestmentsChosen, 1)
	assert.Equal(t, "1", a.InvestmentsChosen[1])
	assert.Equal(t, "2", b.InvestmentsChosen[1])
	assert.Equal(t, parent.ResourcesToSpend-1, a.ResourceLevelAtEachStep[1])
	assert.Equal(t, parent.ResourcesToSpend-2, b.ResourceLevelAtEachStep[1])
}

func TestFork_AttributesRewardToBeneficiary(t *testing.T) {
	invs := build(t, model.InvestmentSpec{
		ID: "child", Kind: model.KindWeighted, BeneficiaryID: "kin", Weight: 1,
		DischargeThreshold: 50, RewardDischargeAmount: 10, ResourceDischargeAmount: 60, CapacityRecoveryRate: 50,
	})
	res, err := NewEngine(&Config{LookaheadSteps: 2}).Search(context.Background(), invs, 50)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"kin": 20}, res.Best.RewardByBeneficiary)
	assert.Equal(t, 20, res.Best.RewardToDate)
}

func TestSelectBest_TieBreaks(t *testing.T) {
	a := &ResourcePath{RewardToDate: 10, ResourcesToSpend: 5}
	b := &ResourcePath{RewardToDate: 10, ResourcesToSpend: 7}
	c := &ResourcePath{RewardToDate: 10, ResourcesToSpend: 7}
	d := &ResourcePath{RewardToDate: 9, ResourcesToSpend: 100}

	assert.Same(t, b, SelectBest([]*ResourcePath{a, b, c, d}))
	assert.Nil(t, SelectBest(nil))
}

func TestSearch_ZeroBalancePathIsNotExpanded(t *testing.T) {
	invs := build(t, spec("drain", 50, 10, 0, 50))

	res, err := NewEngine(&Config{LookaheadSteps: 2}).Search(context.Background(), invs, 50)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.DeadPaths)
	assert.Equal(t, 51, res.Stats.PathsPerStep[0])

	arena, err := world.NewArena(invs)
	require.NoError(t, err)
	e := NewEngine(&Config{LookaheadSteps: 2})
	roots := e.expandRoot(NewResourcePath(arena.World(), 50))

	var dead int
	for _, p := range roots {
		if p.Dead() {
			dead++
			assert.Equal(t, 10, p.RewardToDate)
		}
	}
	require.Equal(t, 1, dead, "spending the whole balance on the first step")

	stats := newStats()
	next, err := e.expandAll(context.Background(), roots, 1, 2, &stats)
	require.NoError(t, err)
	require.NotEmpty(t, next)
	assert.Equal(t, 1, stats.DeadPaths)
	for _, p := range next {
		require.Len(t, p.ResourceLevelAtEachStep, 2)
		assert.Positive(t, p.ResourceLevelAtEachStep[0], "no child extends a zero-balance path")
	}
}
