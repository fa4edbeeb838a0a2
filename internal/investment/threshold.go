package investment

import "github.com/ThomasAitken/embodied-rationality-theory/internal/model"

// Threshold pays fixed reward and resource amounts, together, once accumulated
// input reaches the discharge threshold.
type Threshold struct {
	spec model.InvestmentSpec
}

func newThreshold(spec model.InvestmentSpec) (*Threshold, error) {
	spec.Kind = model.KindThreshold
	return &Threshold{spec: spec}, nil
}

func (t *Threshold) ID() string                   { return t.spec.ID }
func (t *Threshold) Kind() model.Kind             { return model.KindThreshold }
func (t *Threshold) Spec() model.InvestmentSpec   { return t.spec }
func (t *Threshold) DischargeThreshold() int      { return t.spec.DischargeThreshold }
func (t *Threshold) RewardDischargeAmount() int   { return t.spec.RewardDischargeAmount }
func (t *Threshold) ResourceDischargeAmount() int { return t.spec.ResourceDischargeAmount }
func (t *Threshold) CapacityRecoveryRate() int    { return t.spec.CapacityRecoveryRate }
func (t *Threshold) InitialState() model.State    { return initialState(t.spec) }

func (t *Threshold) ResourcesUntilPayout(s model.State) int {
	return t.spec.DischargeThreshold - s.CurrentResourcesInvested
}

func (t *Threshold) PaysOnlyAtDischarge() bool { return true }

func (t *Threshold) IsNetResourcePositive() bool {
	return t.spec.ResourceDischargeAmount > t.spec.DischargeThreshold
}

// ComputePayout never spends more than offered, than the remaining capacity,
// or than what is still needed to discharge.
func (t *Threshold) ComputePayout(s model.State, offered int) model.Payout {
	spent := max(min(offered, t.ResourcesUntilPayout(s), s.ResourceCapacity), 0)
	p := model.Payout{
		DischargeReached: s.CurrentResourcesInvested+spent >= t.spec.DischargeThreshold,
		ResourcesSpent:   spent,
	}
	resourcePayout := 0
	if p.DischargeReached {
		p.Reward = t.spec.RewardDischargeAmount
		resourcePayout = t.spec.ResourceDischargeAmount
	}
	p.ResourceProfit = resourcePayout - spent
	return p
}

func (t *Threshold) UpdatePostInvestment(s model.State, p model.Payout) model.State {
	checkSpend(t.spec.ID, s, p)
	if p.DischargeReached {
		s.CurrentResourcesInvested = 0
	} else {
		s.CurrentResourcesInvested += p.ResourcesSpent
	}
	s.ResourceCapacity -= p.ResourcesSpent
	return s
}
