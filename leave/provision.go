/*
provision.go - User and leave-type lifecycle

PURPOSE:
  Record lifecycles with their engine side effects:
  - Creating a user seeds the default leave types (Annual and Sick,
    biweekly 4.0 h/period, plus one-time Comp Time) and one balance per
    type with accrued hours computed from the start date.
  - Creating a leave type creates its owner's balance.
  - Editing a leave type's accrual rate or period triggers bulk recompute
    of accrued hours across its balances.
  - Editing a user's start date triggers bulk recompute across the user's
    balances.
  - Deleting a leave type cascades to its balances and requests.

SEE ALSO:
  - recompute.go: the bulk recompute both services trigger
  - accrual.go: initial accrued-hours computation for seeded balances
*/
package leave

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// DEFAULT LEAVE TYPES - Seeded at signup
// =============================================================================

var defaultAccrualRate = decimal.NewFromFloat(4.0)

func defaultLeaveTypes(userID UserID) []LeaveType {
	return []LeaveType{
		{UserID: userID, Name: "Annual", AccrualRate: defaultAccrualRate, AccrualPeriod: Biweekly},
		{UserID: userID, Name: "Sick", AccrualRate: defaultAccrualRate, AccrualPeriod: Biweekly},
		{UserID: userID, Name: "Comp Time", OneTimeAccrual: true},
	}
}

// =============================================================================
// USER SERVICE
// =============================================================================

type UserService struct {
	store      TxStore
	recomputer *Recomputer
	log        logrus.FieldLogger
}

func NewUserService(store TxStore, log logrus.FieldLogger) *UserService {
	return &UserService{store: store, recomputer: NewRecomputer(store, log), log: log}
}

// Create persists the user and seeds default leave types and balances in
// one transaction. Accrued hours on the seeded balances reflect the start
// date as of today.
func (us *UserService) Create(ctx context.Context, u *User, today Date) (*User, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.ID == "" {
		u.ID = UserID(uuid.NewString())
	}

	err := us.store.WithTx(ctx, func(s Store) error {
		if err := s.CreateUser(ctx, u); err != nil {
			return err
		}
		for _, lt := range defaultLeaveTypes(u.ID) {
			lt.ID = LeaveTypeID(uuid.NewString())
			if err := s.CreateLeaveType(ctx, &lt); err != nil {
				return err
			}
			bal := &LeaveBalance{
				ID:           BalanceID(uuid.NewString()),
				UserID:       u.ID,
				LeaveTypeID:  lt.ID,
				AccruedHours: AccruedHours(today, u.StartDate, lt, nil),
			}
			if err := s.CreateBalance(ctx, bal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	us.log.WithField("user_id", u.ID).Info("user created with default leave types")
	return u, nil
}

// UpdateUserInput is a partial user edit.
type UpdateUserInput struct {
	Name      *string
	Email     *string
	StartDate *Date
}

// Update merges the edit. A start-date change recomputes accrued hours on
// every balance the user owns, as of today.
func (us *UserService) Update(ctx context.Context, id UserID, input UpdateUserInput, today Date) (*User, error) {
	u, err := us.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	startDateChanged := false
	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Email != nil {
		u.Email = *input.Email
	}
	if input.StartDate != nil && !input.StartDate.Equal(u.StartDate) {
		u.StartDate = *input.StartDate
		startDateChanged = true
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := us.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}

	if startDateChanged {
		if err := us.recomputer.ForUser(ctx, id, today); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// Get returns a single user.
func (us *UserService) Get(ctx context.Context, id UserID) (*User, error) {
	return us.store.GetUser(ctx, id)
}

// Delete removes the user and, via store cascade, every leave type,
// balance and request the user owns.
func (us *UserService) Delete(ctx context.Context, id UserID) error {
	if _, err := us.store.GetUser(ctx, id); err != nil {
		return err
	}
	return us.store.DeleteUser(ctx, id)
}

// =============================================================================
// LEAVE TYPE SERVICE
// =============================================================================

type LeaveTypeService struct {
	store      TxStore
	recomputer *Recomputer
	log        logrus.FieldLogger
}

func NewLeaveTypeService(store TxStore, log logrus.FieldLogger) *LeaveTypeService {
	return &LeaveTypeService{store: store, recomputer: NewRecomputer(store, log), log: log}
}

// Create persists the leave type and its owner's balance in one
// transaction, with accrued hours computed as of today.
func (ts *LeaveTypeService) Create(ctx context.Context, lt *LeaveType, today Date) (*LeaveType, error) {
	if err := lt.Validate(); err != nil {
		return nil, err
	}
	if lt.ID == "" {
		lt.ID = LeaveTypeID(uuid.NewString())
	}

	err := ts.store.WithTx(ctx, func(s Store) error {
		user, err := s.GetUser(ctx, lt.UserID)
		if err != nil {
			return err
		}
		if err := s.CreateLeaveType(ctx, lt); err != nil {
			return err
		}
		bal := &LeaveBalance{
			ID:           BalanceID(uuid.NewString()),
			UserID:       lt.UserID,
			LeaveTypeID:  lt.ID,
			AccruedHours: AccruedHours(today, user.StartDate, *lt, nil),
		}
		return s.CreateBalance(ctx, bal)
	})
	if err != nil {
		return nil, err
	}
	return lt, nil
}

// UpdateLeaveTypeInput is a partial leave-type edit.
type UpdateLeaveTypeInput struct {
	Name           *string
	AccrualRate    *decimal.Decimal
	AccrualPeriod  *AccrualPeriod
	OneTimeAccrual *bool
}

// Update merges the edit. Changing the accrual rate or period recomputes
// accrued hours on every balance referencing the type, as of today.
func (ts *LeaveTypeService) Update(ctx context.Context, id LeaveTypeID, input UpdateLeaveTypeInput, today Date) (*LeaveType, error) {
	lt, err := ts.store.GetLeaveType(ctx, id)
	if err != nil {
		return nil, err
	}

	ruleChanged := false
	if input.Name != nil {
		lt.Name = *input.Name
	}
	if input.AccrualRate != nil && !input.AccrualRate.Equal(lt.AccrualRate) {
		lt.AccrualRate = *input.AccrualRate
		ruleChanged = true
	}
	if input.AccrualPeriod != nil && *input.AccrualPeriod != lt.AccrualPeriod {
		lt.AccrualPeriod = *input.AccrualPeriod
		ruleChanged = true
	}
	if input.OneTimeAccrual != nil {
		lt.OneTimeAccrual = *input.OneTimeAccrual
	}

	if err := lt.Validate(); err != nil {
		return nil, err
	}
	if err := ts.store.UpdateLeaveType(ctx, lt); err != nil {
		return nil, err
	}

	if ruleChanged {
		if err := ts.recomputer.ForLeaveType(ctx, id, today); err != nil {
			return nil, err
		}
	}
	return lt, nil
}

// Delete removes the type. Balances and requests referencing it go with
// it (store cascade); consumed hours die with their balance rows.
func (ts *LeaveTypeService) Delete(ctx context.Context, id LeaveTypeID) error {
	if _, err := ts.store.GetLeaveType(ctx, id); err != nil {
		return err
	}
	return ts.store.DeleteLeaveType(ctx, id)
}

// Get returns a single leave type.
func (ts *LeaveTypeService) Get(ctx context.Context, id LeaveTypeID) (*LeaveType, error) {
	return ts.store.GetLeaveType(ctx, id)
}

// List returns a user's leave types.
func (ts *LeaveTypeService) List(ctx context.Context, userID UserID) ([]LeaveType, error) {
	return ts.store.ListLeaveTypesByUser(ctx, userID)
}
