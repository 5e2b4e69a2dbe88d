/*
recompute.go - Bulk accrual recompute

PURPOSE:
  When an accrual rule changes (leave type rate/period edited) or a user's
  start date moves, every affected balance's accrued hours are stale.
  The Recomputer re-runs the accrual calculator over the affected
  population and overwrites accrued hours only - used hours are never
  touched by this path.

FAILURE POLICY:
  One bad row must not block the rest of the batch. Per-balance failures
  are logged at Warn and skipped; the batch reports success as long as it
  could iterate.

  Rows are independent (each balance is its own ledger row), so the
  per-row writes need no cross-row transaction.
*/
package leave

import (
	"context"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// RECOMPUTER
// =============================================================================

type Recomputer struct {
	store TxStore
	log   logrus.FieldLogger
}

func NewRecomputer(store TxStore, log logrus.FieldLogger) *Recomputer {
	return &Recomputer{store: store, log: log}
}

// ForLeaveType recomputes accrued hours for every balance referencing the
// leave type, as of today.
func (rc *Recomputer) ForLeaveType(ctx context.Context, typeID LeaveTypeID, today Date) error {
	lt, err := rc.store.GetLeaveType(ctx, typeID)
	if err != nil {
		return err
	}
	balances, err := rc.store.ListBalancesByLeaveType(ctx, typeID)
	if err != nil {
		return err
	}

	for i := range balances {
		if err := rc.recomputeOne(ctx, &balances[i], lt, today); err != nil {
			rc.log.WithFields(logrus.Fields{
				"balance_id":    balances[i].ID,
				"leave_type_id": typeID,
			}).WithError(err).Warn("skipping balance in bulk recompute")
		}
	}
	return nil
}

// ForUser recomputes accrued hours for every balance the user owns, as of
// today. Called after a start-date change.
func (rc *Recomputer) ForUser(ctx context.Context, userID UserID, today Date) error {
	balances, err := rc.store.ListBalancesByUser(ctx, userID)
	if err != nil {
		return err
	}

	for i := range balances {
		lt, err := rc.store.GetLeaveType(ctx, balances[i].LeaveTypeID)
		if err == nil {
			err = rc.recomputeOne(ctx, &balances[i], lt, today)
		}
		if err != nil {
			rc.log.WithFields(logrus.Fields{
				"balance_id": balances[i].ID,
				"user_id":    userID,
			}).WithError(err).Warn("skipping balance in bulk recompute")
		}
	}
	return nil
}

// recomputeOne overwrites one balance's accrued hours inside its own
// transaction. Used hours pass through untouched.
func (rc *Recomputer) recomputeOne(ctx context.Context, bal *LeaveBalance, lt *LeaveType, today Date) error {
	return rc.store.WithTx(ctx, func(s Store) error {
		fresh, err := s.GetBalance(ctx, bal.ID)
		if err != nil {
			return err
		}
		user, err := s.GetUser(ctx, fresh.UserID)
		if err != nil {
			return err
		}

		existing := fresh.AccruedHours
		fresh.AccruedHours = AccruedHours(today, user.StartDate, *lt, &existing)
		return s.UpdateBalance(ctx, fresh)
	})
}
