/*
projection.go - Forward balance projection

PURPOSE:
  Answers "how many hours will I have on date X?" for one (user, leave
  type) pair. The projection combines three forward-looking quantities
  with the current ledger row:

    futureAccrual = hours the accrual rule grants between today and asOf
    pastUsed      = approved/active/completed hours already started
    futureUsed    = approved/active/completed hours starting in (today, asOf]

    currentAvailable   = accrued - pastUsed
    projectedAvailable = currentAvailable + futureAccrual - futureUsed

  Only requests in a balance-affecting status count, and only requests
  for the projected leave type. asOf must be strictly in the future.

SEE ALSO:
  - accrual.go: FutureAccrual, the forward half of the formula
  - status.go: AffectsBalance, which requests count
*/
package leave

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECTOR
// =============================================================================

// Projector computes forward balance projections. Read-only: projection
// never writes to the ledger.
type Projector struct {
	store Store
}

func NewProjector(store Store) *Projector {
	return &Projector{store: store}
}

// BalanceTriple is one accrued/used/available view of a balance.
type BalanceTriple struct {
	AccruedHours   decimal.Decimal
	UsedHours      decimal.Decimal
	AvailableHours decimal.Decimal
}

// Projection is the result of projecting one balance to a future date.
// Current reflects the stored ledger row with already-started usage
// netted out; Projected adds future accrual and subtracts usage that
// starts before asOf.
type Projection struct {
	AsOf      Date
	LeaveType LeaveType

	Current   BalanceTriple
	Projected BalanceTriple

	FutureAccrual decimal.Decimal
	FutureUsed    decimal.Decimal
}

// Project computes the balance for (user, leave type) as it will stand on
// asOf. asOf must be after today.
func (p *Projector) Project(ctx context.Context, userID UserID, typeID LeaveTypeID, asOf, today Date) (*Projection, error) {
	if !asOf.After(today) {
		return nil, fmt.Errorf("%w: projection date %s is not in the future", ErrInvalidDateRange, asOf)
	}

	bal, err := p.store.FindBalance(ctx, userID, typeID)
	if err != nil {
		return nil, err
	}
	lt, err := p.store.GetLeaveType(ctx, typeID)
	if err != nil {
		return nil, err
	}
	user, err := p.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	requests, err := p.store.ListRequests(ctx, userID, typeID)
	if err != nil {
		return nil, err
	}

	var pastUsed, futureUsed decimal.Decimal
	for _, req := range requests {
		if !req.Status.AffectsBalance() {
			continue
		}
		switch {
		case req.StartDate.BeforeOrEqual(today):
			pastUsed = pastUsed.Add(req.RequestedHours)
		case req.StartDate.BeforeOrEqual(asOf):
			futureUsed = futureUsed.Add(req.RequestedHours)
		}
	}

	futureAccrual := FutureAccrual(today, asOf, user.StartDate, *lt)

	currentAvailable := bal.AccruedHours.Sub(pastUsed)
	projectedAccrued := bal.AccruedHours.Add(futureAccrual)
	projectedAvailable := currentAvailable.Add(futureAccrual).Sub(futureUsed)

	return &Projection{
		AsOf:      asOf,
		LeaveType: *lt,
		Current: BalanceTriple{
			AccruedHours:   bal.AccruedHours,
			UsedHours:      bal.UsedHours,
			AvailableHours: currentAvailable,
		},
		Projected: BalanceTriple{
			AccruedHours:   projectedAccrued,
			UsedHours:      futureUsed,
			AvailableHours: projectedAvailable,
		},
		FutureAccrual: futureAccrual,
		FutureUsed:    futureUsed,
	}, nil
}
