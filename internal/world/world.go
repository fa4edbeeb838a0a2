// Package world keeps the investment states of one trajectory.
//
// An Arena holds the investments of a run once, indexed by position. Each World
// stores only the states that differ from the arena's initial states, so forking
// a trajectory copies the changed entries instead of the whole investment set.
package world

import (
	"fmt"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/investment"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/model"
)

// Arena is the immutable investment set of a run.
type Arena struct {
	investments []investment.Investment
	initial     []model.State
	index       map[string]int
}

// NewArena indexes investments by id. Ids must be unique.
func NewArena(investments []investment.Investment) (*Arena, error) {
	a := &Arena{
		investments: make([]investment.Investment, len(investments)),
		initial:     make([]model.State, len(investments)),
		index:       make(map[string]int, len(investments)),
	}
	for i, inv := range investments {
		if _, dup := a.index[inv.ID()]; dup {
			return nil, fmt.Errorf("duplicate investment id %q", inv.ID())
		}
		a.investments[i] = inv
		a.initial[i] = inv.InitialState()
		a.index[inv.ID()] = i
	}
	return a, nil
}

func (a *Arena) Len() int { return len(a.investments) }

func (a *Arena) Investment(i int) investment.Investment { return a.investments[i] }

// Index returns the arena position of id.
func (a *Arena) Index(id string) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

// World returns a world with every investment in its initial state.
func (a *Arena) World() *World {
	return &World{arena: a, overlay: map[int]model.State{}}
}

// World is one trajectory's view of the arena. A World is never mutated once
// handed out; Commit returns a new one.
type World struct {
	arena   *Arena
	overlay map[int]model.State
}

func (w *World) Arena() *Arena { return w.arena }

func (w *World) Len() int { return w.arena.Len() }

// State returns the current state of the investment at position i.
func (w *World) State(i int) model.State {
	if s, ok := w.overlay[i]; ok {
		return s
	}
	return w.arena.initial[i]
}

// Snapshot returns the investment at position i with its current state.
func (w *World) Snapshot(i int) investment.Snapshot {
	return investment.Snapshot{Investment: w.arena.investments[i], State: w.State(i)}
}

// Snapshots returns every investment with its current state, in arena order.
func (w *World) Snapshots() []investment.Snapshot {
	out := make([]investment.Snapshot, w.Len())
	for i := range out {
		out[i] = w.Snapshot(i)
	}
	return out
}

// Changed is the number of investments whose state differs from the initial one.
func (w *World) Changed() int { return len(w.overlay) }

// Commit returns the world after applying p to the investment at position i
// and advancing capacity recovery for every investment by one timestep.
func (w *World) Commit(i int, p model.Payout) *World {
	next := w.fork()
	next.set(i, next.Snapshot(i).Apply(p).State)
	next.recover()
	return next
}

func (w *World) fork() *World {
	overlay := make(map[int]model.State, len(w.overlay))
	for k, v := range w.overlay {
		overlay[k] = v
	}
	return &World{arena: w.arena, overlay: overlay}
}

func (w *World) set(i int, s model.State) {
	if s == w.arena.initial[i] {
		delete(w.overlay, i)
		return
	}
	w.overlay[i] = s
}

func (w *World) recover() {
	for i, inv := range w.arena.investments {
		s := w.State(i)
		if r := investment.Recover(inv, s); r != s {
			w.set(i, r)
		}
	}
}
