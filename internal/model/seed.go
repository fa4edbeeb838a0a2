package model

// Level is a named abundance/variance preset.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// MeanPayoff maps an abundance level to the mean discharge amount.
var MeanPayoff = map[Level]int{
	LevelLow:    100,
	LevelMedium: 200,
	LevelHigh:   400,
}

// StdDev maps a variance level to the standard deviation of discharge amounts.
var StdDev = map[Level]float64{
	LevelLow:    1,
	LevelMedium: 20,
	LevelHigh:   50,
}

// EnvironmentSeed selects the presets used to generate investments.
type EnvironmentSeed struct {
	ResourceAbundance Level `yaml:"resource_abundance" json:"resource_abundance"`
	ResourceVariance  Level `yaml:"resource_variance" json:"resource_variance"`
	RewardAbundance   Level `yaml:"reward_abundance" json:"reward_abundance"`
	RewardVariance    Level `yaml:"reward_variance" json:"reward_variance"`
}

// DefaultSeed returns the all-medium seed.
func DefaultSeed() EnvironmentSeed {
	return EnvironmentSeed{
		ResourceAbundance: LevelMedium,
		ResourceVariance:  LevelMedium,
		RewardAbundance:   LevelMedium,
		RewardVariance:    LevelMedium,
	}
}

// Valid reports whether l is a known preset.
func (l Level) Valid() bool {
	_, ok := MeanPayoff[l]
	return ok
}
