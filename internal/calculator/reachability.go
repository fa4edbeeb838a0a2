package calculator

import (
	"sort"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
)

// IsResourceLevelUnreachable reports whether resourcesNow provably cannot grow
// to target within the given number of timesteps. A false result does not prove
// the level reachable; a true result is always correct.
func IsResourceLevelUnreachable(snaps []investment.Snapshot, resourcesNow, target, timesteps int) bool {
	if target <= resourcesNow {
		return false
	}
	if timesteps < 0 {
		timesteps = 0
	}

	// only investments whose capacity recharges in time
	available := make([]investment.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		if s.State.ResourceCapacity+s.CapacityRecoveryRate()*timesteps >= s.DischargeThreshold() {
			available = append(available, s)
		}
	}
	if len(available) < timesteps {
		return true
	}

	byProfit := make([]investment.Snapshot, len(available))
	copy(byProfit, available)
	sort.SliceStable(byProfit, func(i, j int) bool {
		return netGain(byProfit[i]) > netGain(byProfit[j])
	})
	if MaxPossibleResourceSum(byProfit[:timesteps], resourcesNow) < target {
		return true
	}

	byCheapness := make([]investment.Snapshot, len(available))
	copy(byCheapness, available)
	sort.SliceStable(byCheapness, func(i, j int) bool {
		return byCheapness[i].DischargeThreshold() < byCheapness[j].DischargeThreshold()
	})
	for start := 0; start+timesteps <= len(byCheapness); start++ {
		window := byCheapness[start : start+timesteps]
		if MaxPossibleResourceSum(window, resourcesNow) < target {
			continue
		}
		// can't even afford the cheapest investment of the set in one step
		return len(window) > 0 && window[0].Until() > resourcesNow
	}
	return true
}

// MaxPossibleResourceSum is resourcesNow plus the net gain of discharging every given investment.
func MaxPossibleResourceSum(snaps []investment.Snapshot, resourcesNow int) int {
	sum := resourcesNow
	for _, s := range snaps {
		sum += netGain(s)
	}
	return sum
}

func netGain(s investment.Snapshot) int {
	return s.ResourceDischargeAmount() - s.Until()
}
