package investment

import "github.com/ThomasAitken/embodied-rationality-theory/internal/model"

// Snapshot pairs an investment with one state of it.
type Snapshot struct {
	Investment
	State model.State
}

// Of returns the investment in its initial state.
func Of(inv Investment) Snapshot {
	return Snapshot{Investment: inv, State: inv.InitialState()}
}

// Payout evaluates offering resources without changing the snapshot.
func (s Snapshot) Payout(offered int) model.Payout {
	return s.ComputePayout(s.State, offered)
}

// Until is the input still required before the next discharge.
func (s Snapshot) Until() int {
	return s.ResourcesUntilPayout(s.State)
}

// Apply returns the snapshot after committing p.
func (s Snapshot) Apply(p model.Payout) Snapshot {
	s.State = s.UpdatePostInvestment(s.State, p)
	return s
}

// Recovered returns the snapshot after one timestep of capacity recovery.
func (s Snapshot) Recovered() Snapshot {
	s.State = Recover(s.Investment, s.State)
	return s
}
