package calculator

import (
	"errors"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
)

// Bound is a (reward, resource profit) pair achievable this timestep.
type Bound struct {
	Reward         int
	ResourceProfit int
}

var errNoInvestments = errors.New("no investments provided")

// MinRewardBoundByResourceMaxing returns the payout of the investment with the
// highest resource profit for the given resources. Any investment that can
// neither reach its reward nor beat its resource profit is dominated.
func MinRewardBoundByResourceMaxing(snaps []investment.Snapshot, resources int) (Bound, error) {
	if len(snaps) == 0 {
		return Bound{}, errNoInvestments
	}
	best := snaps[0].Payout(resources)
	for _, s := range snaps[1:] {
		if p := s.Payout(resources); p.ResourceProfit > best.ResourceProfit {
			best = p
		}
	}
	return Bound{Reward: best.Reward, ResourceProfit: best.ResourceProfit}, nil
}

// MinResourceBoundByRewardMaxing returns the payout of the investment with the
// highest reward discharge amount for the given resources.
func MinResourceBoundByRewardMaxing(snaps []investment.Snapshot, resources int) (Bound, error) {
	if len(snaps) == 0 {
		return Bound{}, errNoInvestments
	}
	best := snaps[0]
	for _, s := range snaps[1:] {
		if s.RewardDischargeAmount() > best.RewardDischargeAmount() {
			best = s
		}
	}
	p := best.Payout(resources)
	return Bound{Reward: p.Reward, ResourceProfit: p.ResourceProfit}, nil
}

// FailsRewardBound reports whether s can neither beat the bound's reward nor its resource profit.
func FailsRewardBound(s investment.Snapshot, b Bound) bool {
	return s.RewardDischargeAmount() < b.Reward && s.ResourceDischargeAmount() <= b.ResourceProfit
}

// FailsResourceBound reports whether s can neither beat the bound's resource profit nor its reward.
func FailsResourceBound(s investment.Snapshot, b Bound) bool {
	return s.ResourceDischargeAmount() < b.ResourceProfit && s.RewardDischargeAmount() <= b.Reward
}
