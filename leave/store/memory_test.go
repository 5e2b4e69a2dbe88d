package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/leave-engine/leave"
	"github.com/warp/leave-engine/leave/store"
)

func seedPair(t *testing.T, st *store.TxMemory) (*leave.User, *leave.LeaveType) {
	t.Helper()
	ctx := context.Background()

	user := &leave.User{Name: "Ada", Email: "ada@example.com", StartDate: leave.NewDate(2025, time.January, 1)}
	require.NoError(t, st.CreateUser(ctx, user))

	lt := &leave.LeaveType{
		UserID:        user.ID,
		Name:          "Annual",
		AccrualRate:   decimal.NewFromInt(4),
		AccrualPeriod: leave.Biweekly,
	}
	require.NoError(t, st.CreateLeaveType(ctx, lt))
	return user, lt
}

func TestMemory_GeneratesIDsAndRoundtrips(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	assert.NotEmpty(t, user.ID)
	assert.NotEmpty(t, lt.ID)

	got, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.Name)
	assert.True(t, got.StartDate.Equal(leave.NewDate(2025, time.January, 1)))

	got.Name = "Ada L."
	require.NoError(t, st.UpdateUser(ctx, got))

	// The store hands out copies; mutating a returned record must not leak.
	fresh, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	fresh.Email = "scribbled@example.com"
	again, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", again.Email)
	assert.Equal(t, "Ada L.", again.Name)
}

func TestMemory_MissingRecords_AreNotFound(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()

	_, err := st.GetUser(ctx, "nope")
	assert.True(t, leave.IsNotFound(err))
	_, err = st.GetLeaveType(ctx, "nope")
	assert.True(t, leave.IsNotFound(err))
	_, err = st.GetBalance(ctx, "nope")
	assert.True(t, leave.IsNotFound(err))
	_, err = st.GetRequest(ctx, "nope")
	assert.True(t, leave.IsNotFound(err))
	_, err = st.FindBalance(ctx, "nope", "nada")
	assert.True(t, leave.IsNotFound(err))

	assert.True(t, leave.IsNotFound(st.UpdateUser(ctx, &leave.User{ID: "nope", Name: "x", Email: "x@example.com"})))
	assert.True(t, leave.IsNotFound(st.DeleteRequest(ctx, "nope")))
}

func TestMemory_SecondBalanceForPair_IsDuplicate(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	require.NoError(t, st.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID}))

	err := st.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID})
	assert.True(t, errors.Is(err, leave.ErrDuplicate))
}

func TestMemory_DeleteLeaveType_CascadesBalancesAndRequests(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	require.NoError(t, st.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID}))
	require.NoError(t, st.CreateRequest(ctx, &leave.LeaveRequest{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   leave.NewDate(2025, time.March, 3),
		EndDate:     leave.NewDate(2025, time.March, 3),
		Status:      leave.StatusPlanned,
	}))

	require.NoError(t, st.DeleteLeaveType(ctx, lt.ID))

	_, err := st.FindBalance(ctx, user.ID, lt.ID)
	assert.True(t, leave.IsNotFound(err))

	requests, err := st.ListRequestsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)

	// The owner survives.
	_, err = st.GetUser(ctx, user.ID)
	assert.NoError(t, err)
}

func TestMemory_DeleteUser_CascadesTheWholeTree(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	require.NoError(t, st.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID}))
	require.NoError(t, st.CreateRequest(ctx, &leave.LeaveRequest{
		UserID:      user.ID,
		LeaveTypeID: lt.ID,
		StartDate:   leave.NewDate(2025, time.March, 3),
		EndDate:     leave.NewDate(2025, time.March, 3),
		Status:      leave.StatusPlanned,
	}))

	require.NoError(t, st.DeleteUser(ctx, user.ID))

	types, err := st.ListLeaveTypesByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, types)
	balances, err := st.ListBalancesByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, balances)
	requests, err := st.ListRequestsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestMemory_ListRequests_FiltersAndSorts(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	other := &leave.LeaveType{UserID: user.ID, Name: "Sick", AccrualRate: decimal.NewFromInt(4), AccrualPeriod: leave.Biweekly}
	require.NoError(t, st.CreateLeaveType(ctx, other))

	for _, day := range []int{20, 5, 12} {
		require.NoError(t, st.CreateRequest(ctx, &leave.LeaveRequest{
			UserID:      user.ID,
			LeaveTypeID: lt.ID,
			StartDate:   leave.NewDate(2025, time.March, day),
			EndDate:     leave.NewDate(2025, time.March, day),
			Status:      leave.StatusPlanned,
		}))
	}
	require.NoError(t, st.CreateRequest(ctx, &leave.LeaveRequest{
		UserID:      user.ID,
		LeaveTypeID: other.ID,
		StartDate:   leave.NewDate(2025, time.March, 1),
		EndDate:     leave.NewDate(2025, time.March, 1),
		Status:      leave.StatusPlanned,
	}))

	requests, err := st.ListRequests(ctx, user.ID, lt.ID)
	require.NoError(t, err)
	require.Len(t, requests, 3)
	assert.True(t, requests[0].StartDate.Before(requests[1].StartDate))
	assert.True(t, requests[1].StartDate.Before(requests[2].StartDate))

	all, err := st.ListRequestsByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTxMemory_WithTx_RollsBackOnError(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	boom := errors.New("boom")
	err := st.WithTx(ctx, func(s leave.Store) error {
		if err := s.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID}); err != nil {
			return err
		}
		u, err := s.GetUser(ctx, user.ID)
		if err != nil {
			return err
		}
		u.Name = "changed"
		if err := s.UpdateUser(ctx, u); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.FindBalance(ctx, user.ID, lt.ID)
	assert.True(t, leave.IsNotFound(err), "the balance created inside the failed transaction must be gone")

	u, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name, "the update inside the failed transaction must be undone")
}

func TestTxMemory_WithTx_CommitsOnSuccess(t *testing.T) {
	st := store.NewTxMemory()
	ctx := context.Background()
	user, lt := seedPair(t, st)

	err := st.WithTx(ctx, func(s leave.Store) error {
		return s.CreateBalance(ctx, &leave.LeaveBalance{UserID: user.ID, LeaveTypeID: lt.ID})
	})
	require.NoError(t, err)

	_, err = st.FindBalance(ctx, user.ID, lt.ID)
	assert.NoError(t, err)
}
