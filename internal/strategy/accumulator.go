package strategy

import (
	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// accumulator is the best result seen so far while scanning the investments of
// one path at one timestep. It is a value; update returns the next one.
type accumulator struct {
	hasDischarge bool
	discharge    struct{ reward, resourceProfit int }

	hasLatent bool
	latent    struct{ reward, resources, untilAfter int }
}

// update folds in the best choice of one investment. It returns false when an
// earlier investment dominates this one. On the last timestep leftover
// resources have no value, so only reward is compared.
func (a accumulator) update(best model.Payout, s investment.Snapshot, isLast bool) (accumulator, bool) {
	if best.DischargeReached {
		if !a.hasDischarge {
			a.hasDischarge = true
			a.discharge.reward, a.discharge.resourceProfit = best.Reward, best.ResourceProfit
			return a, true
		}
		if best.Reward < a.discharge.reward && (best.ResourceProfit < a.discharge.resourceProfit || isLast) {
			return a, false
		}
		if best.Reward >= a.discharge.reward && (best.ResourceProfit >= a.discharge.resourceProfit || isLast) {
			a.discharge.reward, a.discharge.resourceProfit = best.Reward, best.ResourceProfit
		}
		return a, true
	}

	reward, resources := s.RewardDischargeAmount(), s.ResourceDischargeAmount()
	if a.hasDischarge && reward < a.discharge.reward && (resources < a.discharge.resourceProfit || isLast) {
		return a, false
	}

	untilAfter := s.Until() - best.ResourcesSpent
	if !a.hasLatent {
		a.hasLatent = true
		a.latent.reward, a.latent.resources, a.latent.untilAfter = reward, resources, untilAfter
		return a, true
	}
	if reward < a.latent.reward &&
		((resources < a.latent.resources && untilAfter > a.latent.untilAfter) || isLast) {
		return a, false
	}
	if reward >= a.latent.reward &&
		((resources >= a.latent.resources && untilAfter <= a.latent.untilAfter) || isLast) {
		a.latent.reward, a.latent.resources, a.latent.untilAfter = reward, resources, untilAfter
	}
	return a, true
}
