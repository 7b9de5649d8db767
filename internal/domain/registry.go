package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownStatus is returned when a status value is absent from the
// registry it is looked up in.
var ErrUnknownStatus = errors.New("unknown status")

// Registry maps one status vocabulary onto the pipeline phases. It is
// static data built once at package init; Validate is exercised by tests
// rather than on every lookup.
type Registry[S ~string] struct {
	byPhase map[Phase][]S
	phaseOf map[S]Phase
	all     []S
}

// NewRegistry builds a registry from the per-phase status lists. The lists
// are taken in PhaseOrder, so the first status of a phase is the target of
// the next-phase shortcut.
func NewRegistry[S ~string](byPhase map[Phase][]S) *Registry[S] {
	r := &Registry[S]{
		byPhase: byPhase,
		phaseOf: make(map[S]Phase),
	}
	for _, phase := range PhaseOrder {
		for _, status := range byPhase[phase] {
			r.phaseOf[status] = phase
			r.all = append(r.all, status)
		}
	}
	return r
}

// PhaseOf returns the phase the status belongs to.
func (r *Registry[S]) PhaseOf(status S) (Phase, error) {
	phase, ok := r.phaseOf[status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, string(status))
	}
	return phase, nil
}

// StatusesOf returns the ordered member statuses of the phase. The slice is
// a copy; callers may reorder it freely.
func (r *Registry[S]) StatusesOf(phase Phase) []S {
	members := r.byPhase[phase]
	out := make([]S, len(members))
	copy(out, members)
	return out
}

// All returns every registered status in phase order.
func (r *Registry[S]) All() []S {
	out := make([]S, len(r.all))
	copy(out, r.all)
	return out
}

// Contains reports whether the status is registered.
func (r *Registry[S]) Contains(status S) bool {
	_, ok := r.phaseOf[status]
	return ok
}

// SamePhaseOptions returns the selectable statuses sharing the current
// status's phase, in registry order. The current status is included; the
// caller renders it disabled.
func (r *Registry[S]) SamePhaseOptions(current S) ([]S, error) {
	phase, err := r.PhaseOf(current)
	if err != nil {
		return nil, err
	}
	return r.StatusesOf(phase), nil
}

// NextPhaseShortcut returns the first status of the phase following the
// current status's phase. The second return is false when the current
// status already sits in the last phase.
func (r *Registry[S]) NextPhaseShortcut(current S) (S, bool, error) {
	phase, err := r.PhaseOf(current)
	if err != nil {
		var zero S
		return zero, false, err
	}
	next, ok := phase.Next()
	if !ok {
		var zero S
		return zero, false, nil
	}
	members := r.byPhase[next]
	if len(members) == 0 {
		var zero S
		return zero, false, nil
	}
	return members[0], true, nil
}

// Validate checks the bijection invariant: every status maps back to the
// phase that lists it, every phase is one of the four pipeline phases, and
// no status appears twice. A failure here is a configuration defect.
func (r *Registry[S]) Validate() error {
	seen := make(map[S]bool)
	total := 0
	for phase, members := range r.byPhase {
		if !phase.IsValid() {
			return fmt.Errorf("registry lists unknown phase %q", string(phase))
		}
		for _, status := range members {
			if seen[status] {
				return fmt.Errorf("status %q registered twice", string(status))
			}
			seen[status] = true
			total++
			mapped, err := r.PhaseOf(status)
			if err != nil {
				return err
			}
			if mapped != phase {
				return fmt.Errorf("status %q listed under %q but maps to %q", string(status), string(phase), string(mapped))
			}
		}
	}
	if total != len(r.phaseOf) {
		return fmt.Errorf("registry holds %d statuses but phase lists cover %d", len(r.phaseOf), total)
	}
	return nil
}
