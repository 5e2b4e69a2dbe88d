/*
Package leave implements a leave accrual and balance engine.

PURPOSE:
  Tracks employee leave (vacation, sick, comp time) entitlement and
  consumption. The engine computes how many hours a user has earned as of
  any date, how many hours a request consumes under a fixed workday policy,
  maintains a per (user, leave type) ledger of accrued vs. used hours that
  is mutated only by well-defined status transitions, and projects future
  balances.

KEY CONCEPTS IN THIS FILE (types.go):
  - User: identity plus the hire start date that drives accrual
  - LeaveType: an accrual rule (rate per fixed-length period, or one-time)
  - LeaveBalance: the ledger row - accrued and used hours, never absent
  - LeaveRequest: a dated request whose status drives ledger deltas

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere, no float arithmetic in the ledger
  2. Determinism: calculators take an explicit reference date, never a clock
  3. Normalized numerics: hour fields are plain decimals whose zero value is
     0, so "absent" quantities cannot exist past the construction boundary

SEE ALSO:
  - accrual.go: accrued-hours calculation
  - duration.go: requested-hours calculation
  - status.go: the request status state machine
  - ledger.go: balance mutation and reset
*/
package leave

import (
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type LeaveTypeID string
type BalanceID string
type RequestID string

// =============================================================================
// ACCRUAL PERIOD - Fixed-length cadence at which hours are earned
// =============================================================================

// AccrualPeriod is the cadence at which a leave type earns hours. Periods
// are fixed-length approximations, not calendar-aware: a "month" is always
// 30 days.
type AccrualPeriod string

const (
	Biweekly AccrualPeriod = "biweekly"
	Monthly  AccrualPeriod = "monthly"
	Yearly   AccrualPeriod = "yearly"
)

// ParseAccrualPeriod normalizes a period string. Matching is
// case-insensitive; unknown or blank input yields the empty period, which
// accrues nothing.
func ParseAccrualPeriod(s string) AccrualPeriod {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "biweekly":
		return Biweekly
	case "monthly":
		return Monthly
	case "yearly":
		return Yearly
	default:
		return ""
	}
}

// Days returns the fixed period length in days, or 0 for an unknown period.
func (p AccrualPeriod) Days() int {
	switch p {
	case Biweekly:
		return 14
	case Monthly:
		return 30
	case Yearly:
		return 365
	default:
		return 0
	}
}

// =============================================================================
// USER
// =============================================================================

// User is the owner of leave types, balances and requests. StartDate is the
// hire date; it is zero only transiently and a zero start date accrues
// nothing.
type User struct {
	ID        UserID
	Name      string
	Email     string
	StartDate Date
}

func (u User) Validate() error {
	if u.Name == "" {
		return &FieldError{Field: "name", Message: "is required"}
	}
	if u.Email == "" {
		return &FieldError{Field: "email", Message: "is required"}
	}
	return nil
}

// =============================================================================
// LEAVE TYPE
// =============================================================================

// LeaveType defines how a kind of leave accrues. A one-time type is never
// date-driven: its accrued hours are set manually and stick.
type LeaveType struct {
	ID             LeaveTypeID
	UserID         UserID
	Name           string
	AccrualRate    decimal.Decimal // hours earned per completed period
	AccrualPeriod  AccrualPeriod
	OneTimeAccrual bool
}

func (t LeaveType) Validate() error {
	if t.Name == "" {
		return &FieldError{Field: "name", Message: "is required"}
	}
	if t.AccrualRate.IsNegative() {
		return &FieldError{Field: "accrual_rate", Message: "must not be negative"}
	}
	if !t.OneTimeAccrual && t.AccrualPeriod == "" {
		return &FieldError{Field: "accrual_period", Message: "is required unless accrual is one-time"}
	}
	return nil
}

// =============================================================================
// LEAVE BALANCE - The ledger row
// =============================================================================

// LeaveBalance holds accrued and used hours for one (user, leave type)
// pair. At most one balance exists per pair. The hour fields are plain
// decimals: a missing value is 0 by construction, so ledger arithmetic
// never has to nil-check.
type LeaveBalance struct {
	ID          BalanceID
	UserID      UserID
	LeaveTypeID LeaveTypeID

	AccruedHours decimal.Decimal
	UsedHours    decimal.Decimal
}

// AvailableHours is accrued minus used. It may be negative: balance
// sufficiency is intentionally not enforced anywhere in the engine.
func (b LeaveBalance) AvailableHours() decimal.Decimal {
	return b.AccruedHours.Sub(b.UsedHours)
}

// =============================================================================
// LEAVE REQUEST
// =============================================================================

// LeaveRequest is a dated request against one leave type. StartTime and
// EndTime are optional wall-clock strings ("08:00"); empty means the full
// workday. RequestedHours is computed by the duration calculator unless
// explicitly supplied.
type LeaveRequest struct {
	ID          RequestID
	UserID      UserID
	LeaveTypeID LeaveTypeID

	StartDate Date
	EndDate   Date
	StartTime string
	EndTime   string

	RequestedHours decimal.Decimal
	Status         Status
}

func (r LeaveRequest) Validate() error {
	if r.StartDate.IsZero() {
		return &FieldError{Field: "start_date", Message: "is required"}
	}
	if r.EndDate.IsZero() {
		return &FieldError{Field: "end_date", Message: "is required"}
	}
	if r.EndDate.Before(r.StartDate) {
		return &FieldError{Field: "end_date", Message: "must not be before start_date"}
	}
	if !r.Status.Valid() {
		return &FieldError{Field: "status", Message: "is not a valid status"}
	}
	return nil
}
