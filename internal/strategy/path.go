package strategy

import (
	"maps"
	"slices"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/world"
)

// ResourcePath is one candidate trajectory. A path is never modified after it
// is created; Fork returns a child with its own world and history.
type ResourcePath struct {
	ResourcesSpent      int            `json:"resources_spent"`
	ResourcesToSpend    int            `json:"resources_to_spend"`
	RewardToDate        int            `json:"reward_to_date"`
	RewardByBeneficiary map[string]int `json:"reward_by_beneficiary,omitempty"`

	InvestmentsChosen []string       `json:"investments_chosen"`
	Choices           []model.Payout `json:"choices"`

	// per-step logs, one entry per step taken
	ResourceLevelAtEachStep []int `json:"resource_level_at_each_step"`
	RewardLevelAtEachStep   []int `json:"reward_level_at_each_step"`

	World *world.World `json:"-"`
}

// NewResourcePath starts a path at depth 0.
func NewResourcePath(w *world.World, resources int) *ResourcePath {
	return &ResourcePath{ResourcesToSpend: resources, World: w}
}

// Dead reports whether the agent has nothing left to spend.
func (p *ResourcePath) Dead() bool {
	return p.ResourcesToSpend <= 0
}

// Steps is the number of steps taken so far.
func (p *ResourcePath) Steps() int {
	return len(p.InvestmentsChosen)
}

// Fork returns the child reached by committing choice on the investment at arena position index.
func (p *ResourcePath) Fork(index int, choice model.Payout) *ResourcePath {
	id := p.World.Arena().Investment(index).ID()
	child := &ResourcePath{
		ResourcesSpent:   p.ResourcesSpent + choice.ResourcesSpent,
		ResourcesToSpend: p.ResourcesToSpend + choice.ResourceProfit,
		RewardToDate:     p.RewardToDate + choice.Reward,

		InvestmentsChosen: append(slices.Clip(p.InvestmentsChosen), id),
		Choices:           append(slices.Clip(p.Choices), choice),
		World:             p.World.Commit(index, choice),
	}
	child.ResourceLevelAtEachStep = append(slices.Clip(p.ResourceLevelAtEachStep), child.ResourcesToSpend)
	child.RewardLevelAtEachStep = append(slices.Clip(p.RewardLevelAtEachStep), child.RewardToDate)

	child.RewardByBeneficiary = p.RewardByBeneficiary
	if choice.Beneficiary != "" && choice.Reward != 0 {
		child.RewardByBeneficiary = maps.Clone(p.RewardByBeneficiary)
		if child.RewardByBeneficiary == nil {
			child.RewardByBeneficiary = map[string]int{}
		}
		child.RewardByBeneficiary[choice.Beneficiary] += choice.Reward
	}
	return child
}

// beats orders terminal paths by (reward to date, resources to spend).
func (p *ResourcePath) beats(q *ResourcePath) bool {
	if p.RewardToDate != q.RewardToDate {
		return p.RewardToDate > q.RewardToDate
	}
	return p.ResourcesToSpend > q.ResourcesToSpend
}

// SelectBest returns the path maximising (reward to date, resources to spend);
// the earliest path wins ties. It returns nil for an empty set.
func SelectBest(paths []*ResourcePath) *ResourcePath {
	var best *ResourcePath
	for _, p := range paths {
		if best == nil || p.beats(best) {
			best = p
		}
	}
	return best
}
