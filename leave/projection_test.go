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

func seedRequest(t *testing.T, st *store.TxMemory, userID leave.UserID, typeID leave.LeaveTypeID, start leave.Date, hours float64, status leave.Status) {
	t.Helper()
	req := &leave.LeaveRequest{
		UserID:         userID,
		LeaveTypeID:    typeID,
		StartDate:      start,
		EndDate:        start,
		RequestedHours: dec(hours),
		Status:         status,
	}
	require.NoError(t, st.CreateRequest(context.Background(), req))
}

func TestProjector_RejectsNonFutureDates(t *testing.T) {
	st := newTestStore()
	projector := leave.NewProjector(st)
	user, lt, _ := seedUser(t, st)
	today := date(2025, time.January, 29)

	for _, asOf := range []leave.Date{today, today.AddDays(-1)} {
		_, err := projector.Project(context.Background(), user.ID, lt.ID, asOf, today)
		assert.ErrorIs(t, err, leave.ErrInvalidDateRange, "as-of %s must be rejected", asOf)
	}
}

func TestProjector_SplitsUsageAroundTodayAndAccruesForward(t *testing.T) {
	st := newTestStore()
	projector := leave.NewProjector(st)
	ctx := context.Background()
	user, lt, bal := seedUser(t, st)

	today := date(2025, time.January, 29)
	asOf := date(2025, time.March, 1) // 31 days out, 2 biweekly periods

	bal.AccruedHours = dec(8)
	require.NoError(t, st.UpdateBalance(ctx, bal))

	// One approved day already taken, one approved day inside the window,
	// one approved day beyond it, and one planned day that never counts.
	seedRequest(t, st, user.ID, lt.ID, date(2025, time.January, 20), 8, leave.StatusApproved)
	seedRequest(t, st, user.ID, lt.ID, date(2025, time.February, 10), 8, leave.StatusApproved)
	seedRequest(t, st, user.ID, lt.ID, date(2025, time.April, 7), 8, leave.StatusApproved)
	seedRequest(t, st, user.ID, lt.ID, date(2025, time.February, 3), 8, leave.StatusPlanned)

	proj, err := projector.Project(ctx, user.ID, lt.ID, asOf, today)
	require.NoError(t, err)

	assert.True(t, proj.AsOf.Equal(asOf))
	assert.Equal(t, "Annual", proj.LeaveType.Name)

	assert.Equal(t, 8.0, proj.FutureAccrual.InexactFloat64())
	assert.Equal(t, 8.0, proj.FutureUsed.InexactFloat64(), "only the in-window approved request counts as future use")

	assert.Equal(t, 8.0, proj.Current.AccruedHours.InexactFloat64())
	assert.Equal(t, 0.0, proj.Current.AvailableHours.InexactFloat64(), "8 accrued minus the 8 already taken")

	assert.Equal(t, 16.0, proj.Projected.AccruedHours.InexactFloat64())
	assert.Equal(t, 8.0, proj.Projected.UsedHours.InexactFloat64())
	assert.Equal(t, 0.0, proj.Projected.AvailableHours.InexactFloat64())
}

func TestProjector_IgnoresOtherLeaveTypes(t *testing.T) {
	st := newTestStore()
	projector := leave.NewProjector(st)
	ctx := context.Background()
	user, lt, _ := seedUser(t, st)

	sick := &leave.LeaveType{UserID: user.ID, Name: "Sick", AccrualRate: dec(4), AccrualPeriod: leave.Biweekly}
	require.NoError(t, st.CreateLeaveType(ctx, sick))
	require.NoError(t, st.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: sick.ID}))

	today := date(2025, time.January, 29)
	seedRequest(t, st, user.ID, sick.ID, date(2025, time.February, 10), 8, leave.StatusApproved)

	proj, err := projector.Project(ctx, user.ID, lt.ID, date(2025, time.March, 1), today)
	require.NoError(t, err)

	assert.Equal(t, 0.0, proj.FutureUsed.InexactFloat64(), "the sick-leave request belongs to another ledger")
}

func TestProjector_OneTimeType_ProjectsNoFutureAccrual(t *testing.T) {
	st := newTestStore()
	projector := leave.NewProjector(st)
	ctx := context.Background()

	user := &leave.User{Name: "Ira", Email: "ira@example.com", StartDate: date(2025, time.January, 1)}
	require.NoError(t, st.CreateUser(ctx, user))
	lt := &leave.LeaveType{UserID: user.ID, Name: "Comp Time", AccrualRate: dec(24), OneTimeAccrual: true}
	require.NoError(t, st.CreateLeaveType(ctx, lt))
	require.NoError(t, st.CreateBalance(ctx, &leave.LeaveBalance{
		UserID: user.ID, LeaveTypeID: lt.ID, AccruedHours: dec(24),
	}))

	today := date(2025, time.January, 29)
	proj, err := projector.Project(ctx, user.ID, lt.ID, date(2025, time.December, 31), today)
	require.NoError(t, err)

	assert.Equal(t, 0.0, proj.FutureAccrual.InexactFloat64())
	assert.Equal(t, 24.0, proj.Projected.AccruedHours.InexactFloat64())
}

func TestProjector_MissingBalance_IsNotFound(t *testing.T) {
	st := newTestStore()
	projector := leave.NewProjector(st)
	ctx := context.Background()

	user := &leave.User{Name: "Jo", Email: "jo@example.com"}
	require.NoError(t, st.CreateUser(ctx, user))
	lt := &leave.LeaveType{UserID: user.ID, Name: "Annual", AccrualRate: dec(4), AccrualPeriod: leave.Biweekly}
	require.NoError(t, st.CreateLeaveType(ctx, lt))

	today := date(2025, time.January, 29)
	_, err := projector.Project(ctx, user.ID, lt.ID, date(2025, time.March, 1), today)
	assert.True(t, leave.IsNotFound(err))
}
