package investment

import "github.com/ThomasAitken/embodied-rationality-theory/internal/model"

// NondominatedChoices lists the expenditure options worth branching on for one
// investment given the resources available.
//
// When the investment pays only at discharge, returns more resources than it
// consumes and discharge is reachable this step, spending exactly the remaining
// amount dominates every smaller spend (which yields no reward and a worse
// resource profit), so it is the only choice. Otherwise every spend from 0 to
// the maximum is kept: partial spends on a continuous curve can beat discharge.
func NondominatedChoices(s Snapshot, available int) []model.Payout {
	until := s.Until()
	maxSpend := max(min(until, s.State.ResourceCapacity, available), 0)

	if s.PaysOnlyAtDischarge() && s.IsNetResourcePositive() && maxSpend >= until {
		return []model.Payout{s.Payout(until)}
	}
	choices := make([]model.Payout, 0, maxSpend+1)
	for r := 0; r <= maxSpend; r++ {
		choices = append(choices, s.Payout(r))
	}
	return choices
}

// BestChoice returns the choice maximising (reward, resource profit); the first wins ties.
func BestChoice(choices []model.Payout) (model.Payout, bool) {
	if len(choices) == 0 {
		return model.Payout{}, false
	}
	best := choices[0]
	for _, c := range choices[1:] {
		if c.Better(best) {
			best = c
		}
	}
	return best, true
}
