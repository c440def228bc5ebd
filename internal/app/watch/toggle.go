// internal/app/watch/toggle.go
package watch

import (
	"context"
	"errors"

	"github.com/dalemusser/sceneit/internal/app/system/auth"
)

// State is the membership state a toggle control is displaying for one
// (user, movie, collection) triple.
type State int

const (
	// StateUnknown means membership has not been determined yet.
	StateUnknown State = iota
	// StateAbsent means the item is not in the collection.
	StateAbsent
	// StatePresent means the item is in the collection.
	StatePresent
	// StatePending means an add or remove is in flight; further toggles
	// are refused until it resolves.
	StatePending
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}

// ParseState maps the wire form carried in toggle forms back to a State.
// Anything unrecognized reads as unknown, which forces a fresh check.
func ParseState(s string) State {
	switch s {
	case "absent":
		return StateAbsent
	case "present":
		return StatePresent
	case "pending":
		return StatePending
	default:
		return StateUnknown
	}
}

// ErrToggleInFlight is returned when a toggle is requested while a
// previous add/remove for the same control has not resolved yet.
var ErrToggleInFlight = errors.New("a change to this item is already in flight")

// ToggleService is the slice of Service a Toggle drives.
type ToggleService interface {
	Add(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) (AddResult, error)
	Remove(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) error
	Contains(ctx context.Context, user *auth.SessionUser, movieID int, mediaType string) bool
}

// Outcome describes where a toggle attempt landed.
type Outcome struct {
	// State the control should display now.
	State State
	// Added / Removed report which mutation ran. AlreadyExisted refines
	// Added: the item was present before this attempt (a lost race or a
	// repeated click), which callers may phrase differently.
	Added          bool
	Removed        bool
	AlreadyExisted bool
}

// Toggle is the optimistic state machine behind a watchlist/watched
// button. One Toggle belongs to one rendered control: it flips state
// before the backend answers, and rolls back if the call fails.
//
// State machine:
//
//	Unknown  ──resolve──▶ Absent | Present
//	Absent   ──toggle───▶ Pending ──add ok──▶ Present
//	Present  ──toggle───▶ Pending ──remove ok──▶ Absent
//	Pending  ──failure──▶ previous state (rollback)
//
// There is no terminal state; the machine lives as long as the control
// does and can transition indefinitely.
type Toggle struct {
	svc       ToggleService
	user      *auth.SessionUser
	movieID   int
	mediaType string
	state     State
}

// NewToggle builds a Toggle in StateUnknown for the given control.
// user may be nil for signed-out visitors; toggling then short-circuits
// with ErrSignInRequired without ever calling the service.
func NewToggle(svc ToggleService, user *auth.SessionUser, movieID int, mediaType string) *Toggle {
	return &Toggle{
		svc:       svc,
		user:      user,
		movieID:   movieID,
		mediaType: mediaType,
		state:     StateUnknown,
	}
}

// State returns the state the control is currently displaying.
func (t *Toggle) State() State { return t.state }

// Resolve settles StateUnknown from a server-provided initial value.
// It has no effect once the state is determined.
func (t *Toggle) Resolve(present bool) {
	if t.state != StateUnknown {
		return
	}
	if present {
		t.state = StatePresent
	} else {
		t.state = StateAbsent
	}
}

// ResolveFromService settles StateUnknown with an explicit membership
// check. Signed-out visitors resolve to Absent (Contains answers false).
func (t *Toggle) ResolveFromService(ctx context.Context) {
	t.Resolve(t.svc.Contains(ctx, t.user, t.movieID, t.mediaType))
}

// Do runs one toggle attempt: optimistic flip to Pending, the add or
// remove call, then the commit or rollback. The returned Outcome always
// carries the state the control should display; err is non-nil for the
// sign-in short-circuit, an in-flight rejection, or a failed backend
// call (after rollback).
func (t *Toggle) Do(ctx context.Context) (Outcome, error) {
	if t.user == nil || t.user.ID == "" {
		// Never reaches the service; state is left untouched.
		return Outcome{State: t.state}, ErrSignInRequired
	}
	if t.state == StatePending {
		return Outcome{State: t.state}, ErrToggleInFlight
	}
	if t.state == StateUnknown {
		t.ResolveFromService(ctx)
	}

	prev := t.state
	t.state = StatePending

	if prev == StateAbsent {
		res, err := t.svc.Add(ctx, t.user, t.movieID, t.mediaType)
		if err != nil {
			t.state = prev
			return Outcome{State: prev}, err
		}
		t.state = StatePresent
		return Outcome{State: StatePresent, Added: true, AlreadyExisted: res.AlreadyExisted}, nil
	}

	if err := t.svc.Remove(ctx, t.user, t.movieID, t.mediaType); err != nil {
		t.state = prev
		return Outcome{State: prev}, err
	}
	t.state = StateAbsent
	return Outcome{State: StateAbsent, Removed: true}, nil
}
