package investment

import (
	"fmt"
	"math"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// Weighted is a threshold investment whose payouts benefit someone the agent
// cares about. Discharge amounts are scaled by the care weight and every payout
// is attributed to the beneficiary.
type Weighted struct {
	*Threshold
	spec model.InvestmentSpec
}

func newWeighted(spec model.InvestmentSpec) (*Weighted, error) {
	if spec.BeneficiaryID == "" {
		return nil, fmt.Errorf("investment %s: beneficiary_id is required", spec.ID)
	}
	if spec.Weight < 0 || math.IsNaN(spec.Weight) {
		return nil, fmt.Errorf("investment %s: weight must not be negative", spec.ID)
	}
	spec.Kind = model.KindWeighted

	scaled := spec
	scaled.RewardDischargeAmount = int(float64(spec.RewardDischargeAmount) * spec.Weight)
	scaled.ResourceDischargeAmount = int(float64(spec.ResourceDischargeAmount) * spec.Weight)
	return &Weighted{Threshold: &Threshold{spec: scaled}, spec: spec}, nil
}

func (w *Weighted) Kind() model.Kind           { return model.KindWeighted }
func (w *Weighted) Spec() model.InvestmentSpec { return w.spec }

func (w *Weighted) ComputePayout(s model.State, offered int) model.Payout {
	p := w.Threshold.ComputePayout(s, offered)
	p.Beneficiary = w.spec.BeneficiaryID
	return p
}
