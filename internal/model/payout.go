package model

// Payout describes the outcome of offering resources to one investment in its current state.
type Payout struct {
	DischargeReached bool   `json:"discharge_reached"`
	Reward           int    `json:"reward"`
	ResourceProfit   int    `json:"resource_profit"` // resource payout minus resources spent, may be negative
	ResourcesSpent   int    `json:"resources_spent"`
	Beneficiary      string `json:"beneficiary,omitempty"` // empty means the acting agent
}

// ResourcePayout returns the gross resource payout (profit plus what was spent).
func (p Payout) ResourcePayout() int {
	return p.ResourceProfit + p.ResourcesSpent
}

// Better reports whether p beats q lexicographically on (reward, resource profit).
func (p Payout) Better(q Payout) bool {
	if p.Reward != q.Reward {
		return p.Reward > q.Reward
	}
	return p.ResourceProfit > q.ResourceProfit
}
