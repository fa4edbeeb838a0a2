package model

// Kind selects the investment variant at construction time.
type Kind string

const (
	KindThreshold  Kind = "threshold"
	KindWeighted   Kind = "weighted"
	KindContinuous Kind = "continuous"
)

// CurveClass names a monotone payout function used by continuous investments.
type CurveClass string

const (
	CurveConstant    CurveClass = "constant"
	CurveLinear      CurveClass = "linear"
	CurveExponential CurveClass = "exponential"
	CurveLogarithmic CurveClass = "logarithmic"
	CurveLogistic    CurveClass = "logistic"
)

// Curve maps cumulative input to cumulative payout.
type Curve struct {
	Class CurveClass `yaml:"class" json:"class"`
	Scale float64    `yaml:"scale" json:"scale"`
	Rate  float64    `yaml:"rate" json:"rate"`
}

// InvestmentSpec is the immutable parameter set of one investment, as generated or loaded from a file.
type InvestmentSpec struct {
	ID                      string `yaml:"id" json:"id"`
	Name                    string `yaml:"name,omitempty" json:"name,omitempty"`
	Kind                    Kind   `yaml:"kind,omitempty" json:"kind,omitempty"`
	DischargeThreshold      int    `yaml:"discharge_threshold" json:"discharge_threshold"`
	RewardDischargeAmount   int    `yaml:"reward_discharge_amount" json:"reward_discharge_amount"`
	ResourceDischargeAmount int    `yaml:"resource_discharge_amount" json:"resource_discharge_amount"`
	CapacityRecoveryRate    int    `yaml:"capacity_recovery_rate" json:"capacity_recovery_rate"`

	// Weighted only.
	BeneficiaryID string  `yaml:"beneficiary_id,omitempty" json:"beneficiary_id,omitempty"`
	Weight        float64 `yaml:"weight,omitempty" json:"weight,omitempty"`

	// Continuous only.
	RewardCurve   *Curve `yaml:"reward_curve,omitempty" json:"reward_curve,omitempty"`
	ResourceCurve *Curve `yaml:"resource_curve,omitempty" json:"resource_curve,omitempty"`

	// Optional starting state; nil means full capacity and nothing invested.
	Initial *State `yaml:"initial,omitempty" json:"initial,omitempty"`
}

// State is the mutable part of an investment.
type State struct {
	ResourceCapacity         int `yaml:"resource_capacity" json:"resource_capacity"`
	CurrentResourcesInvested int `yaml:"current_resources_invested" json:"current_resources_invested"`
}
