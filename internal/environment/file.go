package environment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// FileSource reads investments from a YAML file:
//
//	investments:
//	  - id: "1"
//	    discharge_threshold: 50
//	    reward_discharge_amount: 10
//	    resource_discharge_amount: 60
//	    capacity_recovery_rate: 50
type FileSource struct {
	Path string
}

type investmentsFile struct {
	Investments []model.InvestmentSpec `yaml:"investments"`
}

func (f *FileSource) Name() string { return "file:" + f.Path }

func (f *FileSource) Specs() ([]model.InvestmentSpec, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read investments file: %w", err)
	}
	var doc investmentsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse investments file: %w", err)
	}
	return doc.Investments, nil
}
