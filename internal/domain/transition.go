package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned by a TransitionGraph when the requested
// status change is not an allowed edge.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionGraph is an opt-in strict validator over a status vocabulary.
// The default pipeline behavior stays lenient: any registered status can be
// written over any other, which operators use as a manual override. A
// service configured with a graph rejects everything that is not an
// explicit edge.
type TransitionGraph[S ~string] struct {
	registry *Registry[S]
	edges    map[S]map[S]bool
}

// NewTransitionGraph builds a strict validator from an adjacency list.
func NewTransitionGraph[S ~string](registry *Registry[S], edges map[S][]S) *TransitionGraph[S] {
	g := &TransitionGraph[S]{
		registry: registry,
		edges:    make(map[S]map[S]bool, len(edges)),
	}
	for from, targets := range edges {
		set := make(map[S]bool, len(targets))
		for _, to := range targets {
			set[to] = true
		}
		g.edges[from] = set
	}
	return g
}

// DefaultDealTransitionGraph allows movement within a phase in any order
// plus the first status of the next phase, mirroring what the transition
// presenter offers in the UI.
func DefaultDealTransitionGraph() *TransitionGraph[DealStatus] {
	return phaseLocalGraph(DealStatuses)
}

// DefaultContractTransitionGraph is the contract-vocabulary counterpart of
// DefaultDealTransitionGraph.
func DefaultContractTransitionGraph() *TransitionGraph[ContractStatus] {
	return phaseLocalGraph(ContractStatuses)
}

func phaseLocalGraph[S ~string](registry *Registry[S]) *TransitionGraph[S] {
	edges := make(map[S][]S)
	for _, status := range registry.All() {
		options, err := registry.SamePhaseOptions(status)
		if err != nil {
			continue
		}
		var targets []S
		for _, option := range options {
			if option != status {
				targets = append(targets, option)
			}
		}
		if shortcut, ok, err := registry.NextPhaseShortcut(status); err == nil && ok {
			targets = append(targets, shortcut)
		}
		edges[status] = targets
	}
	return NewTransitionGraph(registry, edges)
}

// Allow reports whether the edge from -> to exists. A status never needs an
// edge to itself.
func (g *TransitionGraph[S]) Allow(from, to S) bool {
	if from == to {
		return true
	}
	return g.edges[from][to]
}

// Validate returns ErrInvalidTransition when the edge is missing and
// ErrUnknownStatus when either endpoint is not registered.
func (g *TransitionGraph[S]) Validate(from, to S) error {
	if !g.registry.Contains(from) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(from))
	}
	if !g.registry.Contains(to) {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, string(to))
	}
	if !g.Allow(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, string(from), string(to))
	}
	return nil
}
