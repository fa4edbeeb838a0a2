// Package environment produces the investments an agent acts on.
package environment

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// ErrUnknownLevel is returned for a preset name outside low, medium and high.
var ErrUnknownLevel = errors.New("unknown preset level")

// Source defines where the investment parameters of a run come from.
type Source interface {
	Specs() ([]model.InvestmentSpec, error)
	Name() string
}

// Build loads specs from src and constructs the investments.
func Build(src Source) ([]investment.Investment, error) {
	specs, err := src.Specs()
	if err != nil {
		return nil, fmt.Errorf("load %s environment: %w", src.Name(), err)
	}
	invs, err := investment.NewAll(specs)
	if err != nil {
		return nil, fmt.Errorf("build %s environment: %w", src.Name(), err)
	}
	log.Printf("[INFO] Environment %s: %d investments", src.Name(), len(invs))
	return invs, nil
}

// StaticSource returns fixed specs, for tests and embedding.
type StaticSource struct {
	List []model.InvestmentSpec
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Specs() ([]model.InvestmentSpec, error) {
	out := make([]model.InvestmentSpec, len(s.List))
	copy(out, s.List)
	return out, nil
}

// ParseSeed decodes a JSON seed such as {"resource_abundance":"high"}.
// Omitted fields keep their medium default.
func ParseSeed(data []byte) (model.EnvironmentSeed, error) {
	seed := model.DefaultSeed()
	if len(data) == 0 {
		return seed, nil
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("parse seed: %w", err)
	}
	return seed, ValidateSeed(seed)
}

// ValidateSeed checks that every preset in seed is known.
func ValidateSeed(seed model.EnvironmentSeed) error {
	for name, l := range map[string]model.Level{
		"resource_abundance": seed.ResourceAbundance,
		"resource_variance":  seed.ResourceVariance,
		"reward_abundance":   seed.RewardAbundance,
		"reward_variance":    seed.RewardVariance,
	} {
		if !l.Valid() {
			return fmt.Errorf("%s %q: %w", name, l, ErrUnknownLevel)
		}
	}
	return nil
}

// ParseCareHierarchy decodes a JSON object of beneficiary id to weight.
func ParseCareHierarchy(data []byte) (map[string]float64, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var care map[string]float64
	if err := json.Unmarshal(data, &care); err != nil {
		return nil, fmt.Errorf("parse care hierarchy: %w", err)
	}
	for id, w := range care {
		if w < 0 {
			return nil, fmt.Errorf("care hierarchy: negative weight %v for %s", w, id)
		}
	}
	return care, nil
}

// Options select and parameterise a source.
type Options struct {
	NumInvestments  int                   `yaml:"num_investments" json:"num_investments"`
	Seed            model.EnvironmentSeed `yaml:"seed" json:"seed"`
	CareHierarchy   map[string]float64    `yaml:"care_hierarchy,omitempty" json:"care_hierarchy,omitempty"`
	RNGSeed         uint64                `yaml:"rng_seed" json:"rng_seed"`
	InvestmentsFile string                `yaml:"investments_file,omitempty" json:"investments_file,omitempty"`
}

// NewSource returns a FileSource when a file is configured, a PresetSource otherwise.
func NewSource(o Options) (Source, error) {
	if o.InvestmentsFile != "" {
		return &FileSource{Path: o.InvestmentsFile}, nil
	}
	return NewPresetSource(o.Seed, o.NumInvestments, o.RNGSeed, o.CareHierarchy)
}
