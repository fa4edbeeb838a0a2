package strategy

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/calculator"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/world"
)

var (
	// ErrNoViablePath is returned when no trajectory survives to the horizon.
	ErrNoViablePath = errors.New("no viable path")
	// ErrInvalidInput is returned for malformed search parameters.
	ErrInvalidInput = errors.New("invalid search input")
)

// Config controls one engine.
type Config struct {
	LookaheadSteps int  `yaml:"lookahead_steps" json:"lookahead_steps"`
	Workers        int  `yaml:"workers" json:"workers"`
	Debug          bool `yaml:"debug" json:"debug"`
}

// DefaultConfig returns a sequential three-step search.
func DefaultConfig() Config {
	return Config{LookaheadSteps: 3, Workers: 1}
}

// Result is the outcome of one search.
type Result struct {
	Best              *ResourcePath `json:"best"`
	Stats             Stats         `json:"stats"`
	LookaheadSteps    int           `json:"lookahead_steps"`
	StartingResources int           `json:"starting_resources"`
	Elapsed           time.Duration `json:"elapsed_ns"`
}

// Engine runs bounded-lookahead branch-and-bound searches. An Engine holds no
// per-search state and may be shared.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine; a nil config uses DefaultConfig.
func NewEngine(cfg *Config) *Engine {
	c := DefaultConfig()
	if cfg != nil {
		c = *cfg
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return &Engine{cfg: c}
}

func (e *Engine) Config() Config { return e.cfg }

// Search explores every trajectory of LookaheadSteps steps over invs, starting
// from their initial states with the given resources.
func (e *Engine) Search(ctx context.Context, invs []investment.Investment, resources int) (*Result, error) {
	arena, err := world.NewArena(invs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return e.SearchWorld(ctx, arena.World(), resources, e.cfg.LookaheadSteps)
}

// SearchWorld searches from an arbitrary world state for the given number of steps.
func (e *Engine) SearchWorld(ctx context.Context, w *world.World, resources, lookahead int) (*Result, error) {
	if lookahead < 1 {
		return nil, fmt.Errorf("%w: lookahead must be at least 1, got %d", ErrInvalidInput, lookahead)
	}
	if resources < 0 {
		return nil, fmt.Errorf("%w: negative starting resources %d", ErrInvalidInput, resources)
	}
	if resources == 0 || w.Len() == 0 {
		return nil, ErrNoViablePath
	}

	start := time.Now()
	stats := newStats()
	paths := e.expandRoot(NewResourcePath(w, resources))
	stats.PathsPerStep = append(stats.PathsPerStep, len(paths))

	for t := 1; t < lookahead && len(paths) > 0; t++ {
		next, err := e.expandAll(ctx, paths, t, lookahead, &stats)
		if err != nil {
			return nil, err
		}
		paths = next
		stats.PathsPerStep = append(stats.PathsPerStep, len(paths))
	}

	best := SelectBest(paths)
	if best == nil {
		return nil, ErrNoViablePath
	}
	res := &Result{
		Best:              best,
		Stats:             stats,
		LookaheadSteps:    lookahead,
		StartingResources: resources,
		Elapsed:           time.Since(start),
	}
	if e.cfg.Debug {
		log.Printf("[DEBUG] search done: %d paths explored, %d pruned, best reward %d, balance %d",
			stats.Explored(), stats.TotalPruned(), best.RewardToDate, best.ResourcesToSpend)
	}
	return res, nil
}

// expandRoot branches on every choice of every investment with no pruning.
func (e *Engine) expandRoot(root *ResourcePath) []*ResourcePath {
	var children []*ResourcePath
	for i, s := range root.World.Snapshots() {
		for _, c := range investment.NondominatedChoices(s, root.ResourcesToSpend) {
			children = append(children, root.Fork(i, c))
		}
	}
	return children
}

// expandAll expands every path for timestep t. Children keep the order of
// their parents regardless of the worker count.
func (e *Engine) expandAll(ctx context.Context, paths []*ResourcePath, t, lookahead int, stats *Stats) ([]*ResourcePath, error) {
	children := make([][]*ResourcePath, len(paths))
	pathStats := make([]expansionStats, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			children[i], pathStats[i] = e.expand(p, t, lookahead)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("expand timestep %d: %w", t, err)
	}

	var out []*ResourcePath
	for i := range paths {
		stats.merge(pathStats[i])
		out = append(out, children[i]...)
	}
	return out, nil
}

// expand produces the surviving children of one path at timestep t.
func (e *Engine) expand(p *ResourcePath, t, lookahead int) ([]*ResourcePath, expansionStats) {
	var es expansionStats
	if p.Dead() {
		es.dead = true
		return nil, es
	}

	remaining := lookahead - t
	isLast := t == lookahead-1
	balance := p.ResourcesToSpend
	snaps := p.World.Snapshots()

	rewardBound, err := calculator.MinRewardBoundByResourceMaxing(snaps, balance)
	if err != nil {
		panic(err)
	}
	resourceBound, err := calculator.MinResourceBoundByRewardMaxing(snaps, balance)
	if err != nil {
		panic(err)
	}

	order := make([]int, len(snaps))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		if c := cmp.Compare(snaps[a].RewardDischargeAmount(), snaps[b].RewardDischargeAmount()); c != 0 {
			return c
		}
		return cmp.Compare(snaps[a].ResourceDischargeAmount(), snaps[b].ResourceDischargeAmount())
	})

	var (
		acc      accumulator
		children []*ResourcePath
	)
	for _, i := range order {
		s := snaps[i]
		if reason, pruned := prune(snaps, s, balance, remaining, rewardBound, resourceBound); pruned {
			es.add(reason)
			e.debugf(t, s, reason)
			continue
		}

		choices := investment.NondominatedChoices(s, balance)
		best, _ := investment.BestChoice(choices)
		var ok bool
		if acc, ok = acc.update(best, s, isLast); !ok {
			es.add(PruneDominated)
			e.debugf(t, s, PruneDominated)
			continue
		}
		for _, c := range choices {
			children = append(children, p.Fork(i, c))
		}
	}
	return children, es
}

// prune returns the first test s fails, if any.
func prune(snaps []investment.Snapshot, s investment.Snapshot, balance, remaining int, rewardBound, resourceBound calculator.Bound) (PruneReason, bool) {
	switch {
	// target is what s still needs before it discharges
	case calculator.IsResourceLevelUnreachable(snaps, balance, s.Until(), remaining-1):
		return PruneUnreachable, true
	case calculator.FailsRewardBound(s, rewardBound):
		return PruneRewardBound, true
	case calculator.FailsResourceBound(s, resourceBound):
		return PruneResourceBound, true
	}
	return "", false
}

func (e *Engine) debugf(t int, s investment.Snapshot, reason PruneReason) {
	if e.cfg.Debug {
		log.Printf("[DEBUG] t=%d pruned investment %s: %s", t, s.ID(), reason)
	}
}
