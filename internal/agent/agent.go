// Package agent runs receding-horizon simulations: at every timestep the agent
// searches a bounded lookahead from the real world, commits only the first step
// of the best trajectory, and moves on.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"maps"
	"sync"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/world"
)

// Stop reasons recorded in the snapshot.
const (
	StopCompleted    = "completed"
	StopDead         = "agent is dead"
	StopNoViablePath = "no viable path"
	StopCancelled    = "cancelled"
)

// Options are optional hooks of an Agent.
type Options struct {
	// StatePath, when set, receives the snapshot as JSON after every step.
	StatePath string
	// OnSearch is called after every search, successful or not.
	OnSearch func(*strategy.Result, error)
}

// Agent owns the real world and the agent's resources.
type Agent struct {
	mu     sync.Mutex
	engine *strategy.Engine
	world  *world.World
	snap   Snapshot
	opts   Options
}

// New creates an agent acting on invs with the given starting resources.
func New(engine *strategy.Engine, invs []investment.Investment, resources int, opts Options) (*Agent, error) {
	if resources < 0 {
		return nil, fmt.Errorf("%w: negative starting resources %d", strategy.ErrInvalidInput, resources)
	}
	arena, err := world.NewArena(invs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", strategy.ErrInvalidInput, err)
	}
	return &Agent{
		engine: engine,
		world:  arena.World(),
		opts:   opts,
		snap: Snapshot{
			StartingResources: resources,
			Resources:         resources,
			Lookahead:         engine.Config().LookaheadSteps,
		},
	}, nil
}

// Snapshot returns a copy of the agent's history so far.
func (a *Agent) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.clone()
}

// Run advances the agent for up to timesteps steps. It stops early when the
// agent runs out of resources or no trajectory survives the search.
func (a *Agent) Run(ctx context.Context, timesteps int) (Snapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.snap.Timesteps = timesteps
	for t := 0; t < timesteps; t++ {
		if a.snap.Resources <= 0 {
			a.stop(StopDead)
			break
		}
		if err := ctx.Err(); err != nil {
			a.stop(StopCancelled)
			return a.snap.clone(), err
		}

		lookahead := min(a.snap.Lookahead, timesteps-t)
		res, err := a.engine.SearchWorld(ctx, a.world, a.snap.Resources, lookahead)
		if a.opts.OnSearch != nil {
			a.opts.OnSearch(res, err)
		}
		if errors.Is(err, strategy.ErrNoViablePath) {
			log.Printf("[WARN] t=%d: no viable path with %d resources", t, a.snap.Resources)
			a.stop(StopNoViablePath)
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				a.stop(StopCancelled)
			}
			return a.snap.clone(), fmt.Errorf("search at timestep %d: %w", t, err)
		}

		a.commit(t, res)
	}
	if a.snap.StopReason == "" {
		a.stop(StopCompleted)
	}
	return a.snap.clone(), nil
}

// commit applies the first step of the best path to the real world.
func (a *Agent) commit(t int, res *strategy.Result) {
	id := res.Best.InvestmentsChosen[0]
	choice := res.Best.Choices[0]
	i, ok := a.world.Arena().Index(id)
	if !ok {
		panic(fmt.Sprintf("search chose unknown investment %s", id))
	}

	a.world = a.world.Commit(i, choice)
	a.snap.Resources += choice.ResourceProfit
	a.snap.Reward += choice.Reward
	if choice.Beneficiary != "" && choice.Reward != 0 {
		if a.snap.RewardByBeneficiary == nil {
			a.snap.RewardByBeneficiary = map[string]int{}
		}
		a.snap.RewardByBeneficiary[choice.Beneficiary] += choice.Reward
	}
	a.snap.Steps = append(a.snap.Steps, Step{
		Timestep:      t,
		InvestmentID:  id,
		Choice:        choice,
		Resources:     a.snap.Resources,
		Reward:        a.snap.Reward,
		PathsExplored: res.Stats.Explored(),
		PathsPruned:   res.Stats.TotalPruned(),
	})
	a.snap.Investments = a.investmentStates()

	log.Printf("[INFO] t=%d: invest %d in %s (reward %+d, resources %+d) -> resources %d, reward %d",
		t, choice.ResourcesSpent, id, choice.Reward, choice.ResourceProfit, a.snap.Resources, a.snap.Reward)
	a.save()
}

func (a *Agent) stop(reason string) {
	a.snap.StopReason = reason
	a.snap.Dead = a.snap.Resources <= 0
	if reason != StopCompleted {
		log.Printf("[INFO] simulation stopped after %d steps: %s", len(a.snap.Steps), reason)
	}
	a.save()
}

func (a *Agent) investmentStates() map[string]model.State {
	out := make(map[string]model.State, a.world.Len())
	for i := range a.world.Len() {
		out[a.world.Arena().Investment(i).ID()] = a.world.State(i)
	}
	return out
}

func (a *Agent) save() {
	if a.opts.StatePath == "" {
		return
	}
	if err := SaveSnapshot(a.opts.StatePath, &a.snap); err != nil {
		log.Printf("[ERROR] failed to save simulation snapshot: %v", err)
	}
}

func (s Snapshot) clone() Snapshot {
	s.RewardByBeneficiary = maps.Clone(s.RewardByBeneficiary)
	s.Investments = maps.Clone(s.Investments)
	s.Steps = append([]Step(nil), s.Steps...)
	return s
}
