package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/agent"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

func sampleResult() *strategy.Result {
	return &strategy.Result{
		Best: &strategy.ResourcePath{
			ResourcesSpent:          100,
			ResourcesToSpend:        1500,
			RewardToDate:            30,
			RewardByBeneficiary:     map[string]int{"kin": 20},
			InvestmentsChosen:       []string{"1", "2"},
			Choices:                 []model.Payout{{DischargeReached: true, Reward: 10, ResourceProfit: 10, ResourcesSpent: 50}, {DischargeReached: true, Reward: 20, ResourceProfit: 20, ResourcesSpent: 50}},
			ResourceLevelAtEachStep: []int{1010, 1030},
			RewardLevelAtEachStep:   []int{10, 30},
		},
		Stats: strategy.Stats{
			PathsPerStep: []int{4, 1200},
			Pruned:       map[strategy.PruneReason]int{strategy.PruneUnreachable: 3, strategy.PruneDominated: 2},
		},
		LookaheadSteps:    2,
		StartingResources: 1000,
		Elapsed:           1500 * time.Microsecond,
	}
}

func TestFormatSearch(t *testing.T) {
	out := FormatSearch(sampleResult())
	assert.Contains(t, out, "starting resources 1,000")
	assert.Contains(t, out, "Final resources: 1,500")
	assert.Contains(t, out, "Steps:           2\n")
	assert.Contains(t, out, "   1  1              50      60      10     +10       1010\n")
	assert.Contains(t, out, "Explored 1,204 paths, pruned 5 investments")
	assert.Contains(t, out, "unreachable")
	assert.NotContains(t, out, "reward_bound")
	assert.Contains(t, out, "kin")
}

func TestWriteSearch_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSearch(&buf, FormatJSON, sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	best := decoded["best"].(map[string]any)
	assert.Equal(t, float64(30), best["reward_to_date"])
	assert.NotContains(t, best, "World")
}

func TestFormatSimulation(t *testing.T) {
	snap := agent.Snapshot{
		StartingResources: 50,
		Timesteps:         3,
		Lookahead:         2,
		Resources:         0,
		Reward:            10,
		Steps: []agent.Step{
			{Timestep: 0, InvestmentID: "farm", Resources: 60, Reward: 10},
			{Timestep: 1, InvestmentID: "pit", Resources: 0, Reward: 10},
		},
		Dead:       true,
		StopReason: agent.StopDead,
	}
	out := FormatSimulation(snap)
	assert.Contains(t, out, "2/3 steps")
	assert.Contains(t, out, "The agent is dead.")
	assert.Contains(t, out, "farm")
	assert.Contains(t, out, "##############################")
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.Error(t, err)
}
