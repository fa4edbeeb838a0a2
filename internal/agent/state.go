package agent

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// Step is one committed decision of the agent.
type Step struct {
	Timestep      int          `json:"timestep"`
	InvestmentID  string       `json:"investment_id"`
	Choice        model.Payout `json:"choice"`
	Resources     int          `json:"resources"`
	Reward        int          `json:"reward"`
	PathsExplored int          `json:"paths_explored"`
	PathsPruned   int          `json:"paths_pruned"`
}

// Snapshot is the exported history of a simulation, suitable for plotting.
type Snapshot struct {
	StartingResources   int                    `json:"starting_resources"`
	Timesteps           int                    `json:"timesteps"`
	Lookahead           int                    `json:"lookahead"`
	Resources           int                    `json:"resources"`
	Reward              int                    `json:"reward"`
	RewardByBeneficiary map[string]int         `json:"reward_by_beneficiary,omitempty"`
	Steps               []Step                 `json:"steps"`
	Investments         map[string]model.State `json:"investments,omitempty"`
	Dead                bool                   `json:"dead"`
	StopReason          string                 `json:"stop_reason,omitempty"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// ResourceLevels returns the starting resources followed by the level after each step.
func (s Snapshot) ResourceLevels() []int {
	out := make([]int, 0, len(s.Steps)+1)
	out = append(out, s.StartingResources)
	for _, st := range s.Steps {
		out = append(out, st.Resources)
	}
	return out
}

// RewardLevels returns 0 followed by the cumulative reward after each step.
func (s Snapshot) RewardLevels() []int {
	out := make([]int, 0, len(s.Steps)+1)
	out = append(out, 0)
	for _, st := range s.Steps {
		out = append(out, st.Reward)
	}
	return out
}

// LoadSnapshot reads a snapshot from a JSON file.
func LoadSnapshot(filePath string) (*Snapshot, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// SaveSnapshot writes the snapshot to a JSON file.
func SaveSnapshot(filePath string, snap *Snapshot) error {
	snap.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}
