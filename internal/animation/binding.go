// Package animation specifies the contract exposed to the (external,
// out-of-scope) animation/rendering engine: on StateChanged, a
// consumer maps PetState to an AnimationHandle; one-shot animations
// report completion back through AnimationFinished so the core can
// re-dispatch the live background state (spec.md §4.8).
package animation

import (
	"fmt"

	"github.com/deskpet/core/internal/petstate"
)

// AnimationHandle is an opaque reference to a playable animation. The
// core never interprets its contents; it only ever hands one back to
// whatever AnimationBinder produced it.
type AnimationHandle struct {
	Name    string
	Looping bool
}

// Binder maps a PetState to the animation that should play for it.
// AnimationFor returns (handle, false) when no animation is bound for
// state. AnimationFinished is called by the consumer when a one-shot
// (non-looping) animation completes; the core re-evaluates and
// re-dispatches the still-current background state so the UI falls
// back from a transient state (e.g. Clicked) to whatever category
// state remains live.
type Binder interface {
	AnimationFor(state petstate.PetState) (AnimationHandle, bool)
	AnimationFinished(state petstate.PetState)
}

// ReDispatcher is the minimal surface of petstate.Machine that
// PlaceholderFactory needs to re-announce the current state — a
// reference back to the event-dispatch path, not to the machine's
// full mutation API (spec.md §9: "adapters hold a reference to the
// machine; the machine holds none to the adapters" — the same
// one-directional discipline applies here, inverted).
type ReDispatcher interface {
	Current() petstate.PetState
	RedispatchCurrent()
}

// PlaceholderFactory is the default Binder: one placeholder
// AnimationHandle per registered PetState, with no real artwork
// behind it. It exists so the daemon and CLI have something concrete
// to drive without depending on the external rendering engine
// (spec.md §1 scope, §4.8).
type PlaceholderFactory struct {
	handles  map[petstate.PetState]AnimationHandle
	redispatch ReDispatcher
}

// NewPlaceholderFactory builds a PlaceholderFactory covering every
// state in states, wired to redispatch for AnimationFinished handling.
func NewPlaceholderFactory(states []petstate.PetState, redispatch ReDispatcher) *PlaceholderFactory {
	handles := make(map[petstate.PetState]AnimationHandle, len(states))
	for _, s := range states {
		handles[s] = AnimationHandle{
			Name:    fmt.Sprintf("placeholder:%s", s),
			Looping: s != petstate.StateClicked && s != petstate.StatePetted,
		}
	}
	return &PlaceholderFactory{handles: handles, redispatch: redispatch}
}

// AnimationFor implements Binder.
func (f *PlaceholderFactory) AnimationFor(state petstate.PetState) (AnimationHandle, bool) {
	h, ok := f.handles[state]
	return h, ok
}

// AnimationFinished implements Binder: when a one-shot animation ends,
// if it's still the live current state, ask the machine to
// re-dispatch so downstream consumers re-evaluate against whatever
// category state is now live underneath it.
func (f *PlaceholderFactory) AnimationFinished(state petstate.PetState) {
	if f.redispatch == nil {
		return
	}
	if f.redispatch.Current() == state {
		f.redispatch.RedispatchCurrent()
	}
}
