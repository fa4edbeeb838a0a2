package recorder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/agent"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

const (
	KindSearch   = "search"
	KindSimulate = "simulate"
)

// Run is one search or simulation, with the steps it took.
type Run struct {
	ID            string
	Kind          string
	Experiment    string
	Timestamp     time.Time
	Parameters    any // stored as JSON
	Outcome       string
	Reward        int
	Resources     int
	PathsExplored int
	PathsPruned   int
	DeadPaths     int
	Elapsed       time.Duration
	Steps         []StepRecord
}

// StepRecord is one step of a run's trajectory.
type StepRecord struct {
	Step          int
	InvestmentID  string
	Spend         int
	ResourceLevel int
	RewardLevel   int
}

// Recorder persists run history for analysis.
type Recorder interface {
	RecordRun(run *Run) error
	Close() error
}

// NewRun fills the id and timestamp of a run.
func NewRun(kind, experiment string, params any) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Kind:       kind,
		Experiment: experiment,
		Timestamp:  time.Now(),
		Parameters: params,
	}
}

// SetSearch copies the outcome of a search into the run.
func (r *Run) SetSearch(res *strategy.Result, err error) *Run {
	if err != nil {
		r.Outcome = outcome(err)
		return r
	}
	best := res.Best
	r.Outcome = "ok"
	r.Reward = best.RewardToDate
	r.Resources = best.ResourcesToSpend
	r.PathsExplored = res.Stats.Explored()
	r.PathsPruned = res.Stats.TotalPruned()
	r.DeadPaths = res.Stats.DeadPaths
	r.Elapsed = res.Elapsed
	r.Steps = make([]StepRecord, len(best.Choices))
	for i, c := range best.Choices {
		r.Steps[i] = StepRecord{
			Step:          i,
			InvestmentID:  best.InvestmentsChosen[i],
			Spend:         c.ResourcesSpent,
			ResourceLevel: best.ResourceLevelAtEachStep[i],
			RewardLevel:   best.RewardLevelAtEachStep[i],
		}
	}
	return r
}

// SetSimulation copies a simulation history into the run.
func (r *Run) SetSimulation(snap agent.Snapshot, elapsed time.Duration) *Run {
	r.Outcome = snap.StopReason
	r.Reward = snap.Reward
	r.Resources = snap.Resources
	r.Elapsed = elapsed
	r.Steps = make([]StepRecord, len(snap.Steps))
	for i, st := range snap.Steps {
		r.PathsExplored += st.PathsExplored
		r.PathsPruned += st.PathsPruned
		r.Steps[i] = StepRecord{
			Step:          st.Timestep,
			InvestmentID:  st.InvestmentID,
			Spend:         st.Choice.ResourcesSpent,
			ResourceLevel: st.Resources,
			RewardLevel:   st.Reward,
		}
	}
	return r
}

func outcome(err error) string {
	if errors.Is(err, strategy.ErrNoViablePath) {
		return "no_viable_path"
	}
	return "error: " + err.Error()
}
