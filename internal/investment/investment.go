package investment

import (
	"errors"
	"fmt"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// ErrUnknownKind is returned by New for a kind outside the closed variant set.
var ErrUnknownKind = errors.New("unknown investment kind")

// Investment is the contract shared by all variants. Implementations hold only
// immutable parameters; mutable state is passed in and returned by value.
type Investment interface {
	ID() string
	Kind() model.Kind
	Spec() model.InvestmentSpec

	DischargeThreshold() int
	RewardDischargeAmount() int
	ResourceDischargeAmount() int
	CapacityRecoveryRate() int

	// InitialState is the state the investment starts a run in.
	InitialState() model.State

	// ComputePayout is pure: it never changes s.
	ComputePayout(s model.State, offered int) model.Payout

	// UpdatePostInvestment returns the state after p has been committed.
	UpdatePostInvestment(s model.State, p model.Payout) model.State

	ResourcesUntilPayout(s model.State) int
	IsNetResourcePositive() bool

	// PaysOnlyAtDischarge reports whether every spend short of the remaining
	// amount pays nothing.
	PaysOnlyAtDischarge() bool
}

// New builds the variant selected by spec.Kind. An empty kind means threshold.
func New(spec model.InvestmentSpec) (Investment, error) {
	if spec.ID == "" {
		return nil, errors.New("investment id is required")
	}
	if spec.DischargeThreshold <= 0 {
		return nil, fmt.Errorf("investment %s: discharge_threshold must be positive", spec.ID)
	}
	if spec.CapacityRecoveryRate < 0 {
		return nil, fmt.Errorf("investment %s: capacity_recovery_rate must not be negative", spec.ID)
	}
	if spec.Initial != nil {
		if spec.Initial.ResourceCapacity < 0 || spec.Initial.ResourceCapacity > spec.DischargeThreshold {
			return nil, fmt.Errorf("investment %s: initial capacity %d outside [0, %d]",
				spec.ID, spec.Initial.ResourceCapacity, spec.DischargeThreshold)
		}
		if spec.Initial.CurrentResourcesInvested < 0 || spec.Initial.CurrentResourcesInvested >= spec.DischargeThreshold {
			return nil, fmt.Errorf("investment %s: initial invested %d outside [0, %d)",
				spec.ID, spec.Initial.CurrentResourcesInvested, spec.DischargeThreshold)
		}
	}

	switch spec.Kind {
	case "", model.KindThreshold:
		return newThreshold(spec)
	case model.KindWeighted:
		return newWeighted(spec)
	case model.KindContinuous:
		return newContinuous(spec)
	default:
		return nil, fmt.Errorf("investment %s: %w: %q", spec.ID, ErrUnknownKind, spec.Kind)
	}
}

// NewAll builds every spec, failing on the first invalid one or a duplicate id.
func NewAll(specs []model.InvestmentSpec) ([]Investment, error) {
	seen := make(map[string]bool, len(specs))
	out := make([]Investment, 0, len(specs))
	for _, spec := range specs {
		if seen[spec.ID] {
			return nil, fmt.Errorf("duplicate investment id %q", spec.ID)
		}
		seen[spec.ID] = true
		inv, err := New(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, nil
}

// Recover returns s after one timestep of capacity recovery, capped at the discharge threshold.
func Recover(inv Investment, s model.State) model.State {
	s.ResourceCapacity += inv.CapacityRecoveryRate()
	if s.ResourceCapacity > inv.DischargeThreshold() {
		s.ResourceCapacity = inv.DischargeThreshold()
	}
	return s
}

func initialState(spec model.InvestmentSpec) model.State {
	if spec.Initial != nil {
		return *spec.Initial
	}
	return model.State{ResourceCapacity: spec.DischargeThreshold}
}

// checkSpend panics when a payout could not have come from ComputePayout on s.
func checkSpend(id string, s model.State, p model.Payout) {
	if p.ResourcesSpent < 0 {
		panic(fmt.Sprintf("investment %s: negative spend %d", id, p.ResourcesSpent))
	}
	if p.ResourcesSpent > s.ResourceCapacity {
		panic(fmt.Sprintf("investment %s: spend %d exceeds capacity %d", id, p.ResourcesSpent, s.ResourceCapacity))
	}
}
