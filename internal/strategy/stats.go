package strategy

// PruneReason says why an investment was not branched on.
type PruneReason string

const (
	PruneUnreachable   PruneReason = "unreachable"
	PruneRewardBound   PruneReason = "reward_bound"
	PruneResourceBound PruneReason = "resource_bound"
	PruneDominated     PruneReason = "dominated"
)

// Stats summarises one search.
type Stats struct {
	PathsPerStep []int               `json:"paths_per_step"`
	Pruned       map[PruneReason]int `json:"pruned"`
	DeadPaths    int                 `json:"dead_paths"`
}

func newStats() Stats {
	return Stats{Pruned: map[PruneReason]int{}}
}

// Explored is the total number of paths created.
func (s Stats) Explored() int {
	n := 0
	for _, c := range s.PathsPerStep {
		n += c
	}
	return n
}

// TotalPruned is the number of investment skips across all paths and timesteps.
func (s Stats) TotalPruned() int {
	n := 0
	for _, c := range s.Pruned {
		n += c
	}
	return n
}

// expansionStats is collected by one path expansion and merged afterwards.
type expansionStats struct {
	pruned map[PruneReason]int
	dead   bool
}

func (e *expansionStats) add(r PruneReason) {
	if e.pruned == nil {
		e.pruned = map[PruneReason]int{}
	}
	e.pruned[r]++
}

func (s *Stats) merge(e expansionStats) {
	for r, n := range e.pruned {
		s.Pruned[r] += n
	}
	if e.dead {
		s.DeadPaths++
	}
}
