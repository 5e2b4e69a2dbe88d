/*
ledger.go - The balance ledger

PURPOSE:
  Owns mutation of the per (user, leave type) ledger row: debit and credit
  of used hours, explicit balance updates, the find-or-update creation path
  that keeps the natural key unique, and the coupled reset operation.

INVARIANTS:
  1. At most one balance per (user, leave type) - Upsert never inserts a
     second row for an existing key
  2. Every mutation is an atomic read-modify-write inside one transaction
  3. used_hours is only changed by status-transition deltas, explicit
     updates, or reset; bulk accrual recompute never touches it
  4. available = accrued - used may go negative; insufficiency is logged,
     never enforced

RESET:
  Reset is one named operation with one transactional boundary: recompute
  accrued hours from the accrual rule as of the given date, zero used
  hours, and force every balance-affecting request for the pair back to
  pending. Either all of it happens or none of it does.

SEE ALSO:
  - accrual.go: the recompute used by Reset and Upsert
  - service.go: status transitions that drive debits and credits
*/
package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	store TxStore
	log   logrus.FieldLogger
}

func NewLedger(store TxStore, log logrus.FieldLogger) *Ledger {
	return &Ledger{store: store, log: log}
}

// Balance returns the ledger row for a (user, leave type) pair.
func (l *Ledger) Balance(ctx context.Context, userID UserID, typeID LeaveTypeID) (*LeaveBalance, error) {
	return l.store.FindBalance(ctx, userID, typeID)
}

// Get returns a ledger row by ID.
func (l *Ledger) Get(ctx context.Context, id BalanceID) (*LeaveBalance, error) {
	return l.store.GetBalance(ctx, id)
}

// List returns all of a user's ledger rows.
func (l *Ledger) List(ctx context.Context, userID UserID) ([]LeaveBalance, error) {
	return l.store.ListBalancesByUser(ctx, userID)
}

// Delete removes a ledger row. Requests referencing the pair are left
// alone; they simply stop counting against anything.
func (l *Ledger) Delete(ctx context.Context, id BalanceID) error {
	return l.store.DeleteBalance(ctx, id)
}

// Debit counts hours against the balance (used += hours).
func (l *Ledger) Debit(ctx context.Context, userID UserID, typeID LeaveTypeID, hours decimal.Decimal) error {
	return l.store.WithTx(ctx, func(s Store) error {
		return applyUsedDelta(ctx, s, l.log, userID, typeID, hours)
	})
}

// Credit restores hours to the balance (used -= hours).
func (l *Ledger) Credit(ctx context.Context, userID UserID, typeID LeaveTypeID, hours decimal.Decimal) error {
	return l.store.WithTx(ctx, func(s Store) error {
		return applyUsedDelta(ctx, s, l.log, userID, typeID, hours.Neg())
	})
}

// applyUsedDelta is the shared read-modify-write for used hours. A missing
// balance row is logged and skipped rather than treated as an error: the
// request the delta came from stays valid either way.
func applyUsedDelta(ctx context.Context, s Store, log logrus.FieldLogger, userID UserID, typeID LeaveTypeID, delta decimal.Decimal) error {
	bal, err := s.FindBalance(ctx, userID, typeID)
	if IsNotFound(err) {
		log.WithFields(logrus.Fields{
			"user_id":       userID,
			"leave_type_id": typeID,
		}).Warn("no balance row for ledger delta, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	bal.UsedHours = bal.UsedHours.Add(delta)
	return s.UpdateBalance(ctx, bal)
}

// =============================================================================
// UPSERT - Find-or-update creation
// =============================================================================

// BalancePatch carries the explicitly supplied fields of a balance write.
// Nil means "leave as is" (or recompute, for Upsert's accrued hours).
type BalancePatch struct {
	AccruedHours *decimal.Decimal
	UsedHours    *decimal.Decimal
}

// Upsert creates the balance for (user, leave type) or updates the
// existing row - never a duplicate. When accrued hours are not supplied
// for a new row they are computed from the accrual rule as of today.
func (l *Ledger) Upsert(ctx context.Context, userID UserID, typeID LeaveTypeID, patch BalancePatch, today Date) (*LeaveBalance, error) {
	var out *LeaveBalance
	err := l.store.WithTx(ctx, func(s Store) error {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		lt, err := s.GetLeaveType(ctx, typeID)
		if err != nil {
			return err
		}

		bal, err := s.FindBalance(ctx, userID, typeID)
		switch {
		case IsNotFound(err):
			bal = &LeaveBalance{UserID: userID, LeaveTypeID: typeID}
			if patch.AccruedHours != nil {
				bal.AccruedHours = *patch.AccruedHours
			} else {
				bal.AccruedHours = AccruedHours(today, user.StartDate, *lt, nil)
			}
			if patch.UsedHours != nil {
				bal.UsedHours = *patch.UsedHours
			}
			if err := s.CreateBalance(ctx, bal); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if patch.AccruedHours != nil {
				bal.AccruedHours = *patch.AccruedHours
			}
			if patch.UsedHours != nil {
				bal.UsedHours = *patch.UsedHours
			}
			if err := s.UpdateBalance(ctx, bal); err != nil {
				return err
			}
		}

		out = bal
		return nil
	})
	return out, err
}

// Update applies an explicit balance edit by ID. When the caller changed
// hours but did not supply accrued hours, accrued is refreshed from the
// accrual rule so manual used-hours edits stay consistent with the rule.
func (l *Ledger) Update(ctx context.Context, id BalanceID, patch BalancePatch, today Date) (*LeaveBalance, error) {
	var out *LeaveBalance
	err := l.store.WithTx(ctx, func(s Store) error {
		bal, err := s.GetBalance(ctx, id)
		if err != nil {
			return err
		}

		if patch.AccruedHours != nil {
			bal.AccruedHours = *patch.AccruedHours
		}
		if patch.UsedHours != nil {
			bal.UsedHours = *patch.UsedHours
		}

		if patch.UsedHours != nil && patch.AccruedHours == nil {
			user, err := s.GetUser(ctx, bal.UserID)
			if err != nil {
				return err
			}
			lt, err := s.GetLeaveType(ctx, bal.LeaveTypeID)
			if err != nil {
				return err
			}
			existing := bal.AccruedHours
			bal.AccruedHours = AccruedHours(today, user.StartDate, *lt, &existing)
		}

		if err := s.UpdateBalance(ctx, bal); err != nil {
			return err
		}
		out = bal
		return nil
	})
	return out, err
}

// =============================================================================
// RESET - Recompute accrued, zero used, force requests back to pending
// =============================================================================

// ResetResult reports the before/after of a reset so callers can audit it.
// New used hours are always 0.
type ResetResult struct {
	Balance       *LeaveBalance
	OldAccrued    decimal.Decimal
	NewAccrued    decimal.Decimal
	OldUsed       decimal.Decimal
	RequestsReset int
}

// Reset wipes the balance back to its computed default as of today. Every
// request for the pair currently in a balance-affecting status goes back
// to pending in the same transaction, so the ledger and the request set
// cannot diverge on partial failure.
func (l *Ledger) Reset(ctx context.Context, id BalanceID, today Date) (*ResetResult, error) {
	var result *ResetResult
	err := l.store.WithTx(ctx, func(s Store) error {
		bal, err := s.GetBalance(ctx, id)
		if err != nil {
			return err
		}
		user, err := s.GetUser(ctx, bal.UserID)
		if err != nil {
			return err
		}
		lt, err := s.GetLeaveType(ctx, bal.LeaveTypeID)
		if err != nil {
			return err
		}

		oldAccrued := bal.AccruedHours
		oldUsed := bal.UsedHours

		existing := bal.AccruedHours
		bal.AccruedHours = AccruedHours(today, user.StartDate, *lt, &existing)
		bal.UsedHours = decimal.Zero
		if err := s.UpdateBalance(ctx, bal); err != nil {
			return err
		}

		requests, err := s.ListRequests(ctx, bal.UserID, bal.LeaveTypeID)
		if err != nil {
			return err
		}
		reset := 0
		for i := range requests {
			if !requests[i].Status.AffectsBalance() {
				continue
			}
			requests[i].Status = ResetStatus
			if err := s.UpdateRequest(ctx, &requests[i]); err != nil {
				return fmt.Errorf("resetting request %s: %w", requests[i].ID, err)
			}
			reset++
		}

		result = &ResetResult{
			Balance:       bal,
			OldAccrued:    oldAccrued,
			NewAccrued:    bal.AccruedHours,
			OldUsed:       oldUsed,
			RequestsReset: reset,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.log.WithFields(logrus.Fields{
		"balance_id":     id,
		"old_accrued":    result.OldAccrued,
		"new_accrued":    result.NewAccrued,
		"old_used":       result.OldUsed,
		"requests_reset": result.RequestsReset,
	}).Info("balance reset to computed default")
	return result, nil
}

// =============================================================================
// SUMMARY - Per-user roll-up
// =============================================================================

// TypeBalance is one leave type's slice of a user's summary.
type TypeBalance struct {
	BalanceID     BalanceID
	LeaveTypeID   LeaveTypeID
	LeaveTypeName string
	AccrualRate   decimal.Decimal
	AccrualPeriod AccrualPeriod

	AccruedHours   decimal.Decimal
	UsedHours      decimal.Decimal
	AvailableHours decimal.Decimal
}

// BalanceSummary rolls a user's balances up across all leave types.
type BalanceSummary struct {
	TotalAccrued   decimal.Decimal
	TotalUsed      decimal.Decimal
	TotalAvailable decimal.Decimal
	ByType         []TypeBalance
}

// Summary returns totals plus a per-type breakdown for one user.
func (l *Ledger) Summary(ctx context.Context, userID UserID) (*BalanceSummary, error) {
	balances, err := l.store.ListBalancesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &BalanceSummary{}
	for _, bal := range balances {
		lt, err := l.store.GetLeaveType(ctx, bal.LeaveTypeID)
		if err != nil {
			return nil, err
		}

		summary.TotalAccrued = summary.TotalAccrued.Add(bal.AccruedHours)
		summary.TotalUsed = summary.TotalUsed.Add(bal.UsedHours)
		summary.ByType = append(summary.ByType, TypeBalance{
			BalanceID:      bal.ID,
			LeaveTypeID:    lt.ID,
			LeaveTypeName:  lt.Name,
			AccrualRate:    lt.AccrualRate,
			AccrualPeriod:  lt.AccrualPeriod,
			AccruedHours:   bal.AccruedHours,
			UsedHours:      bal.UsedHours,
			AvailableHours: bal.AvailableHours(),
		})
	}
	summary.TotalAvailable = summary.TotalAccrued.Sub(summary.TotalUsed)
	return summary, nil
}
