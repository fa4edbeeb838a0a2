package investment

import "github.com/ThomasAitken/embodied-rationality-theory/internal/model"

// Continuous pays the marginal value of its reward and resource curves on every
// injection. The discharge threshold acts as a saturation cap: once cumulative
// input reaches it, the cycle restarts from zero.
type Continuous struct {
	spec     model.InvestmentSpec
	reward   curve
	resource curve
}

func newContinuous(spec model.InvestmentSpec) (*Continuous, error) {
	spec.Kind = model.KindContinuous
	reward, err := newCurve(spec.RewardCurve)
	if err != nil {
		return nil, err
	}
	resource, err := newCurve(spec.ResourceCurve)
	if err != nil {
		return nil, err
	}
	return &Continuous{spec: spec, reward: reward, resource: resource}, nil
}

func (c *Continuous) ID() string                 { return c.spec.ID }
func (c *Continuous) Kind() model.Kind           { return model.KindContinuous }
func (c *Continuous) Spec() model.InvestmentSpec { return c.spec }
func (c *Continuous) DischargeThreshold() int    { return c.spec.DischargeThreshold }
func (c *Continuous) CapacityRecoveryRate() int  { return c.spec.CapacityRecoveryRate }
func (c *Continuous) InitialState() model.State  { return initialState(c.spec) }

// RewardDischargeAmount is the reward of one full cycle.
func (c *Continuous) RewardDischargeAmount() int {
	return c.reward.value(c.spec.DischargeThreshold)
}

// ResourceDischargeAmount is the resource payout of one full cycle.
func (c *Continuous) ResourceDischargeAmount() int {
	return c.resource.value(c.spec.DischargeThreshold)
}

func (c *Continuous) ResourcesUntilPayout(s model.State) int {
	return c.spec.DischargeThreshold - s.CurrentResourcesInvested
}

func (c *Continuous) IsNetResourcePositive() bool {
	return c.ResourceDischargeAmount() > c.spec.DischargeThreshold
}

// PaysOnlyAtDischarge is false: every injection pays its marginal curve value.
func (c *Continuous) PaysOnlyAtDischarge() bool { return false }

func (c *Continuous) ComputePayout(s model.State, offered int) model.Payout {
	spent := max(min(offered, c.ResourcesUntilPayout(s), s.ResourceCapacity), 0)
	from, to := s.CurrentResourcesInvested, s.CurrentResourcesInvested+spent
	reward := c.reward.value(to) - c.reward.value(from)
	resourcePayout := c.resource.value(to) - c.resource.value(from)
	return model.Payout{
		DischargeReached: reward != 0 || resourcePayout != 0,
		Reward:           reward,
		ResourceProfit:   resourcePayout - spent,
		ResourcesSpent:   spent,
	}
}

func (c *Continuous) UpdatePostInvestment(s model.State, p model.Payout) model.State {
	checkSpend(c.spec.ID, s, p)
	s.CurrentResourcesInvested += p.ResourcesSpent
	if s.CurrentResourcesInvested >= c.spec.DischargeThreshold {
		s.CurrentResourcesInvested = 0
	}
	s.ResourceCapacity -= p.ResourcesSpent
	return s
}
