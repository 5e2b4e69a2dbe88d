package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

func newRequestService(st *store.TxMemory) *leave.RequestService {
	return leave.NewRequestService(st, testLogger())
}

func usedHours(t *testing.T, st *store.TxMemory, userID leave.UserID, typeID leave.LeaveTypeID) float64 {
	t.Helper()
	bal, err := st.FindBalance(context.Background(), userID, typeID)
	require.NoError(t, err)
	return bal.UsedHours.InexactFloat64()
}

// =============================================================================
// CREATE
// =============================================================================

func TestRequestService_Create_ComputesHoursAndDefaultsToPlanned(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)

	// Monday through Wednesday, no times.
	req, err := svc.Create(context.Background(), leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 9),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, req.ID)
	assert.Equal(t, leave.StatusPlanned, req.Status)
	assert.True(t, req.RequestedHours.Equal(dec(24)), "expected 24 computed hours, got %v", req.RequestedHours)
}

func TestRequestService_Create_ExplicitHoursOverrideTheCalculator(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)

	hours := dec(5.5)
	req, err := svc.Create(context.Background(), leave.CreateRequestInput{
		UserID:         user.ID,
		LeaveTypeID:    lt.ID,
		StartDate:      date(2025, time.July, 7),
		EndDate:        date(2025, time.July, 7),
		RequestedHours: &hours,
	})
	require.NoError(t, err)
	assert.True(t, req.RequestedHours.Equal(dec(5.5)))
}

func TestRequestService_Create_AffectingStatusDoesNotDebit(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)

	// Created directly in an affecting status; the ledger only moves on
	// transitions, never at creation.
	_, err := svc.Create(context.Background(), leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
		Status:      leave.StatusApproved,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID))
}

func TestRequestService_Create_RejectsInvalidInput(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	// End before start.
	_, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 9),
		EndDate:     date(2025, time.July, 7),
	})
	assert.ErrorIs(t, err, leave.ErrValidationFailed)

	// Unknown user.
	_, err = svc.Create(ctx, leave.CreateRequestInput{
		UserID:      "ghost",
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	assert.True(t, leave.IsNotFound(err))
}

// =============================================================================
// LIFECYCLE EVENTS
// =============================================================================

func TestRequestService_SubmitApproveCancel_MovesTheLedgerOnce(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	req, err = svc.Submit(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, req.Status)
	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID), "submit never touches the ledger")

	req, err = svc.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, req.Status)
	assert.Equal(t, 8.0, usedHours(t, st, user.ID, lt.ID), "approve debits the requested hours")

	// Approving again crosses no boundary.
	_, err = svc.Approve(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, 8.0, usedHours(t, st, user.ID, lt.ID))

	req, err = svc.Cancel(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCanceled, req.Status)
	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID), "cancel credits the hours back")
}

func TestRequestService_Submit_OnlyFromPlanned(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, req.ID)
	require.NoError(t, err)

	_, err = svc.Submit(ctx, req.ID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	stored, err := svc.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status, "a rejected event must not change the stored status")
}

// =============================================================================
// EDITS
// =============================================================================

func TestRequestService_Update_ScheduleEditRecomputesAndForcesPending(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	newEnd := date(2025, time.July, 9)
	req, err = svc.Update(ctx, req.ID, leave.UpdateRequestInput{EndDate: &newEnd})
	require.NoError(t, err)

	assert.True(t, req.RequestedHours.Equal(dec(24)), "stretching to three weekdays recomputes to 24, got %v", req.RequestedHours)
	assert.Equal(t, leave.StatusPending, req.Status, "a substantive edit without a status forces pending")
}

func TestRequestService_Update_ExplicitStatusDrivesTheLedger(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	approved := leave.StatusApproved
	req, err = svc.Update(ctx, req.ID, leave.UpdateRequestInput{Status: &approved})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, req.Status)
	assert.Equal(t, 8.0, usedHours(t, st, user.ID, lt.ID), "the planned -> approved diff debits")

	pending := leave.StatusPending
	_, err = svc.Update(ctx, req.ID, leave.UpdateRequestInput{Status: &pending})
	require.NoError(t, err)
	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID), "leaving the affecting set credits back")
}

func TestRequestService_Update_NonScheduleEditKeepsExplicitStatus(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	// Edit and status in the same call: the supplied status wins over the
	// forced-pending rule.
	hours := dec(4)
	approved := leave.StatusApproved
	req, err = svc.Update(ctx, req.ID, leave.UpdateRequestInput{RequestedHours: &hours, Status: &approved})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, req.Status)
	assert.True(t, req.RequestedHours.Equal(dec(4)))
	assert.Equal(t, 4.0, usedHours(t, st, user.ID, lt.ID))
}

// =============================================================================
// DELETE
// =============================================================================

func TestRequestService_Delete_CreditsAffectingRequests(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, req.ID)
	require.NoError(t, err)
	require.Equal(t, 8.0, usedHours(t, st, user.ID, lt.ID))

	require.NoError(t, svc.Delete(ctx, req.ID))

	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID), "deleting an approved request restores its hours")
	_, err = svc.Get(ctx, req.ID)
	assert.True(t, leave.IsNotFound(err))
}

func TestRequestService_Delete_PlannedRequestLeavesLedgerAlone(t *testing.T) {
	st := newTestStore()
	svc := newRequestService(st)
	user, lt, _ := seedUser(t, st)
	ctx := context.Background()

	req, err := svc.Create(ctx, leave.CreateRequestInput{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   date(2025, time.July, 7),
		EndDate:     date(2025, time.July, 7),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, req.ID))
	assert.Equal(t, 0.0, usedHours(t, st, user.ID, lt.ID))
}
