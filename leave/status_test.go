package leave_test

import (
	"errors"
	"testing"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// EVENTS
// =============================================================================

func TestApply_SubmitFromPlanned(t *testing.T) {
	// GIVEN: A planned request
	// WHEN: Submitting it
	// THEN: It becomes pending with no ledger effect

	status, effect, err := leave.Apply(leave.StatusPlanned, leave.EventSubmit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != leave.StatusPending {
		t.Errorf("expected pending, got %s", status)
	}
	if effect != leave.EffectNone {
		t.Errorf("expected no effect, got %v", effect)
	}
}

func TestApply_SubmitFromAnythingElse_IsRejected(t *testing.T) {
	// GIVEN: Requests in every non-planned status
	// WHEN: Submitting them
	// THEN: Each attempt fails with a transition error naming the origin

	for _, from := range []leave.Status{
		leave.StatusPending, leave.StatusApproved, leave.StatusActive,
		leave.StatusCompleted, leave.StatusCanceled,
	} {
		_, _, err := leave.Apply(from, leave.EventSubmit)
		if !errors.Is(err, leave.ErrInvalidTransition) {
			t.Errorf("submit from %s: expected ErrInvalidTransition, got %v", from, err)
			continue
		}
		var te *leave.TransitionError
		if !errors.As(err, &te) || te.From != from {
			t.Errorf("submit from %s: transition error did not carry the origin: %v", from, err)
		}
	}
}

func TestApply_ApproveFromAnywhere(t *testing.T) {
	// GIVEN: Approve has no prior-state guard
	// WHEN: Approving a planned request and a completed one
	// THEN: Both land on approved; only the boundary crossing debits

	status, effect, err := leave.Apply(leave.StatusPlanned, leave.EventApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != leave.StatusApproved || effect != leave.EffectDebit {
		t.Errorf("planned -> approve: got (%s, %v)", status, effect)
	}

	status, effect, err = leave.Apply(leave.StatusCompleted, leave.EventApprove)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != leave.StatusApproved || effect != leave.EffectNone {
		t.Errorf("completed -> approve: got (%s, %v), want no effect inside the affecting set", status, effect)
	}
}

func TestApply_CancelCreditsOnlyFromAffectingStatuses(t *testing.T) {
	// GIVEN: Cancel has no prior-state guard
	// WHEN: Canceling an approved request and a planned one
	// THEN: The approved one credits its hours back; the planned one does not

	status, effect, err := leave.Apply(leave.StatusApproved, leave.EventCancel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != leave.StatusCanceled || effect != leave.EffectCredit {
		t.Errorf("approved -> cancel: got (%s, %v)", status, effect)
	}

	status, effect, err = leave.Apply(leave.StatusPlanned, leave.EventCancel)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != leave.StatusCanceled || effect != leave.EffectNone {
		t.Errorf("planned -> cancel: got (%s, %v)", status, effect)
	}
}

// =============================================================================
// LEDGER EFFECT OF DIRECT STATUS EDITS
// =============================================================================

func TestChangeEffect_FiresOnlyOnBoundaryCrossings(t *testing.T) {
	// GIVEN: Old/new status pairs on both sides of the affecting set
	// WHEN: Deriving the ledger effect of each change
	// THEN: Only crossings of the {approved, active, completed} boundary fire

	cases := []struct {
		old, new leave.Status
		want     leave.Effect
	}{
		{leave.StatusPlanned, leave.StatusApproved, leave.EffectDebit},
		{leave.StatusPending, leave.StatusActive, leave.EffectDebit},
		{leave.StatusApproved, leave.StatusCanceled, leave.EffectCredit},
		{leave.StatusCompleted, leave.StatusPending, leave.EffectCredit},
		{leave.StatusApproved, leave.StatusCompleted, leave.EffectNone},
		{leave.StatusPlanned, leave.StatusPending, leave.EffectNone},
		{leave.StatusApproved, leave.StatusApproved, leave.EffectNone},
	}
	for _, tc := range cases {
		if got := leave.ChangeEffect(tc.old, tc.new); got != tc.want {
			t.Errorf("ChangeEffect(%s, %s) = %v, want %v", tc.old, tc.new, got, tc.want)
		}
	}
}

func TestStatus_ValidAndAffecting(t *testing.T) {
	// GIVEN: The closed status enumeration
	// WHEN: Checking validity and the balance-affecting set
	// THEN: All six named statuses are valid; exactly three affect the balance

	affecting := map[leave.Status]bool{
		leave.StatusApproved:  true,
		leave.StatusActive:    true,
		leave.StatusCompleted: true,
	}
	for _, s := range []leave.Status{
		leave.StatusPlanned, leave.StatusPending, leave.StatusApproved,
		leave.StatusActive, leave.StatusCompleted, leave.StatusCanceled,
	} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
		if s.AffectsBalance() != affecting[s] {
			t.Errorf("%s: AffectsBalance() = %v, want %v", s, s.AffectsBalance(), affecting[s])
		}
	}
	if leave.Status("on_hold").Valid() {
		t.Error("unknown status should not be valid")
	}
}
