package domain

import (
	"errors"
	"time"
)

// ErrEditWindowExpired is surfaced when an activity mutation arrives after
// the edit window has elapsed.
var ErrEditWindowExpired = errors.New("edit window expired")

// DefaultEditWindow is how long a note stays mutable after creation.
const DefaultEditWindow = time.Hour

// EditWindowPolicy decides whether a note is still mutable. The clock is
// injected so both the rendering path and the authoritative write-path
// check share the same testable notion of now.
type EditWindowPolicy struct {
	Window time.Duration
	Now    func() time.Time
}

// NewEditWindowPolicy returns a policy over the given window, defaulting
// to DefaultEditWindow and wall-clock time.
func NewEditWindowPolicy(window time.Duration, now func() time.Time) EditWindowPolicy {
	if window <= 0 {
		window = DefaultEditWindow
	}
	if now == nil {
		now = time.Now
	}
	return EditWindowPolicy{Window: window, Now: now}
}

// IsEditable reports whether a note created at createdAt is still inside
// the edit window. Exactly at the boundary the window is closed: a note
// created precisely Window ago is no longer editable.
func (p EditWindowPolicy) IsEditable(createdAt time.Time) bool {
	return p.Now().Sub(createdAt) < p.Window
}

// RemainingEditMinutes returns the whole minutes left in the edit window,
// rounded up, floored at zero once the window has closed.
func (p EditWindowPolicy) RemainingEditMinutes(createdAt time.Time) int {
	remaining := p.Window - p.Now().Sub(createdAt)
	if remaining <= 0 {
		return 0
	}
	minutes := int((remaining + time.Minute - 1) / time.Minute)
	return minutes
}
