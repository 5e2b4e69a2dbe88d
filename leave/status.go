/*
status.go - Leave request status state machine

PURPOSE:
  Statuses are a closed enumeration with an explicit transition table.
  The state machine answers two questions:
  1. Which status does an event move a request to, and is that allowed?
  2. Does a status change touch the balance ledger, and in which direction?

BALANCE-AFFECTING SET:
  {approved, active, completed} count against used hours. All other
  statuses do not. A status change produces a ledger effect only when it
  crosses the boundary of that set:

    non-affecting -> affecting : debit requested hours
    affecting -> non-affecting : credit requested hours
    otherwise                  : no effect

EVENTS:
  submit   planned -> pending only; rejected from anything else
  approve  any -> approved (no prior-state guard)
  cancel   any -> canceled

  Generic field updates can also change status directly; callers use
  ChangeEffect to derive the ledger effect of the old->new diff.
*/
package leave

// =============================================================================
// STATUS - Closed enumeration
// =============================================================================

type Status string

const (
	StatusPlanned   Status = "planned"   // initial; does not affect balance
	StatusPending   Status = "pending"   // submitted, awaiting approval
	StatusApproved  Status = "approved"  // approved, counts against balance
	StatusActive    Status = "active"    // currently on leave
	StatusCompleted Status = "completed" // leave period has passed
	StatusCanceled  Status = "canceled"  // withdrawn
)

// DefaultStatus is assigned at creation when no status is supplied.
const DefaultStatus = StatusPlanned

// ResetStatus is what balance-affecting requests are forced back to when
// their balance is reset.
const ResetStatus = StatusPending

func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusPending, StatusApproved, StatusActive, StatusCompleted, StatusCanceled:
		return true
	default:
		return false
	}
}

// AffectsBalance reports whether requests in this status count against
// used hours.
func (s Status) AffectsBalance() bool {
	switch s {
	case StatusApproved, StatusActive, StatusCompleted:
		return true
	default:
		return false
	}
}

// =============================================================================
// LEDGER EFFECT - What a status change does to the balance
// =============================================================================

type Effect int

const (
	EffectNone   Effect = iota
	EffectDebit         // add requested hours to used
	EffectCredit        // restore requested hours to the balance
)

// ChangeEffect derives the ledger effect of an old->new status change.
// The effect fires exactly once, only when the change crosses the
// balance-affecting boundary.
func ChangeEffect(old, new Status) Effect {
	switch {
	case !old.AffectsBalance() && new.AffectsBalance():
		return EffectDebit
	case old.AffectsBalance() && !new.AffectsBalance():
		return EffectCredit
	default:
		return EffectNone
	}
}

// =============================================================================
// EVENTS - Named transitions with guards
// =============================================================================

type Event string

const (
	EventSubmit  Event = "submit"
	EventApprove Event = "approve"
	EventCancel  Event = "cancel"
)

// transition is one row of the state machine table: which statuses the
// event is allowed from (nil = any) and where it lands.
type transition struct {
	from map[Status]bool
	to   Status
}

var transitions = map[Event]transition{
	EventSubmit:  {from: map[Status]bool{StatusPlanned: true}, to: StatusPending},
	EventApprove: {to: StatusApproved},
	EventCancel:  {to: StatusCanceled},
}

// Apply runs an event against the current status. It returns the new
// status and the ledger effect of the change, or ErrInvalidTransition if
// the event is not allowed from the current status.
func Apply(current Status, ev Event) (Status, Effect, error) {
	tr, ok := transitions[ev]
	if !ok {
		return current, EffectNone, &TransitionError{From: current, Event: ev}
	}
	if tr.from != nil && !tr.from[current] {
		return current, EffectNone, &TransitionError{From: current, Event: ev}
	}
	return tr.to, ChangeEffect(current, tr.to), nil
}
