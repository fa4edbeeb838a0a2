package environment

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

const (
	minThreshold    = 50
	minRecoveryRate = 10
	maxRecoveryRate = 100
)

// PresetSource draws investments from the abundance and variance presets.
// With a care hierarchy every investment benefits one of its members, assigned
// round-robin in beneficiary id order.
type PresetSource struct {
	seed  model.EnvironmentSeed
	count int
	care  map[string]float64
	rng   *rand.Rand
}

// NewPresetSource creates a generator for count investments. An rngSeed of 0
// seeds from the clock.
func NewPresetSource(seed model.EnvironmentSeed, count int, rngSeed uint64, care map[string]float64) (*PresetSource, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("investment count must not be negative, got %d", count)
	}
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}
	return &PresetSource{
		seed:  seed,
		count: count,
		care:  care,
		rng:   rand.New(rand.NewPCG(rngSeed, rngSeed^0x9e3779b97f4a7c15)),
	}, nil
}

func (p *PresetSource) Name() string {
	if len(p.care) > 0 {
		return "preset-unselfish"
	}
	return "preset"
}

// Specs draws a fresh set of investments; successive calls continue the random stream.
func (p *PresetSource) Specs() ([]model.InvestmentSpec, error) {
	beneficiaries := make([]string, 0, len(p.care))
	for id := range p.care {
		beneficiaries = append(beneficiaries, id)
	}
	slices.Sort(beneficiaries)

	specs := make([]model.InvestmentSpec, p.count)
	for i := range specs {
		s := model.InvestmentSpec{
			ID:                      strconv.Itoa(i + 1),
			Kind:                    model.KindThreshold,
			DischargeThreshold:      p.uniform(minThreshold, model.MeanPayoff[p.seed.ResourceAbundance]),
			RewardDischargeAmount:   p.normal(p.seed.RewardAbundance, p.seed.RewardVariance),
			ResourceDischargeAmount: p.normal(p.seed.ResourceAbundance, p.seed.ResourceVariance),
			CapacityRecoveryRate:    p.uniform(minRecoveryRate, maxRecoveryRate),
		}
		if len(beneficiaries) > 0 {
			b := beneficiaries[i%len(beneficiaries)]
			s.Kind = model.KindWeighted
			s.BeneficiaryID = b
			s.Weight = p.care[b]
		}
		specs[i] = s
	}
	return specs, nil
}

// uniform returns an integer in [lo, hi].
func (p *PresetSource) uniform(lo, hi int) int {
	return lo + p.rng.IntN(hi-lo+1)
}

// normal samples a discharge amount, truncated toward zero and clamped at 0.
func (p *PresetSource) normal(mean, variance model.Level) int {
	v := float64(model.MeanPayoff[mean]) + p.rng.NormFloat64()*model.StdDev[variance]
	return max(int(v), 0)
}
