/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

CONVENTIONS:
  - Dates travel as "YYYY-MM-DD" strings
  - Hour quantities travel as float64; the engine holds them as decimals
  - Request bodies carry validator tags; handlers run the validator
    before touching the engine

SEE ALSO:
  - handlers.go: Uses these types
  - leave/types.go: The domain records these mirror
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// USERS
// =============================================================================

// UserDTO represents a user in API responses.
type UserDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	StartDate string `json:"start_date,omitempty"`
}

// CreateUserRequest is the request to create a user. Creation seeds the
// default leave types and their balances.
type CreateUserRequest struct {
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	StartDate string `json:"start_date"`
}

// UpdateUserRequest is a partial user edit.
type UpdateUserRequest struct {
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	StartDate *string `json:"start_date,omitempty"`
}

func toUserDTO(u *leave.User) UserDTO {
	dto := UserDTO{
		ID:    string(u.ID),
		Name:  u.Name,
		Email: u.Email,
	}
	if !u.StartDate.IsZero() {
		dto.StartDate = u.StartDate.String()
	}
	return dto
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

// LeaveTypeDTO represents a leave type in API responses.
type LeaveTypeDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	AccrualRate    float64 `json:"accrual_rate"`
	AccrualPeriod  string  `json:"accrual_period,omitempty"`
	OneTimeAccrual bool    `json:"one_time_accrual"`
}

// CreateLeaveTypeRequest is the request to create a leave type.
type CreateLeaveTypeRequest struct {
	UserID         string  `json:"user_id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	AccrualRate    float64 `json:"accrual_rate" validate:"gte=0"`
	AccrualPeriod  string  `json:"accrual_period"`
	OneTimeAccrual bool    `json:"one_time_accrual"`
}

// UpdateLeaveTypeRequest is a partial leave-type edit.
type UpdateLeaveTypeRequest struct {
	Name           *string  `json:"name,omitempty"`
	AccrualRate    *float64 `json:"accrual_rate,omitempty" validate:"omitempty,gte=0"`
	AccrualPeriod  *string  `json:"accrual_period,omitempty"`
	OneTimeAccrual *bool    `json:"one_time_accrual,omitempty"`
}

func toLeaveTypeDTO(t *leave.LeaveType) LeaveTypeDTO {
	return LeaveTypeDTO{
		ID:             string(t.ID),
		UserID:         string(t.UserID),
		Name:           t.Name,
		AccrualRate:    t.AccrualRate.InexactFloat64(),
		AccrualPeriod:  string(t.AccrualPeriod),
		OneTimeAccrual: t.OneTimeAccrual,
	}
}

// =============================================================================
// BALANCES
// =============================================================================

// BalanceDTO represents a ledger row in API responses.
type BalanceDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	AccruedHours   float64 `json:"accrued_hours"`
	UsedHours      float64 `json:"used_hours"`
	AvailableHours float64 `json:"available_hours"`
}

// UpsertBalanceRequest creates or updates the balance for a (user, leave
// type) pair. Omitted hour fields are computed (accrued) or kept (used).
type UpsertBalanceRequest struct {
	UserID       string   `json:"user_id" validate:"required"`
	LeaveTypeID  string   `json:"leave_type_id" validate:"required"`
	AccruedHours *float64 `json:"accrued_hours,omitempty"`
	UsedHours    *float64 `json:"used_hours,omitempty"`
}

// UpdateBalanceRequest is a partial balance edit by ID.
type UpdateBalanceRequest struct {
	AccruedHours *float64 `json:"accrued_hours,omitempty"`
	UsedHours    *float64 `json:"used_hours,omitempty"`
}

// ResetBalanceResponse reports the before/after of a reset.
type ResetBalanceResponse struct {
	Balance       BalanceDTO `json:"balance"`
	OldAccrued    float64    `json:"old_accrued_hours"`
	OldUsed       float64    `json:"old_used_hours"`
	RequestsReset int        `json:"requests_reset"`
}

// TypeBalanceDTO is one leave type's slice of a summary.
type TypeBalanceDTO struct {
	BalanceID      string  `json:"balance_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	LeaveTypeName  string  `json:"leave_type_name"`
	AccrualRate    float64 `json:"accrual_rate"`
	AccrualPeriod  string  `json:"accrual_period,omitempty"`
	AccruedHours   float64 `json:"accrued_hours"`
	UsedHours      float64 `json:"used_hours"`
	AvailableHours float64 `json:"available_hours"`
}

// BalanceSummaryDTO rolls a user's balances up across leave types.
type BalanceSummaryDTO struct {
	UserID         string           `json:"user_id"`
	TotalAccrued   float64          `json:"total_accrued_hours"`
	TotalUsed      float64          `json:"total_used_hours"`
	TotalAvailable float64          `json:"total_available_hours"`
	Balances       []TypeBalanceDTO `json:"balances"`
}

func toBalanceDTO(b *leave.LeaveBalance) BalanceDTO {
	return BalanceDTO{
		ID:             string(b.ID),
		UserID:         string(b.UserID),
		LeaveTypeID:    string(b.LeaveTypeID),
		AccruedHours:   b.AccruedHours.InexactFloat64(),
		UsedHours:      b.UsedHours.InexactFloat64(),
		AvailableHours: b.AvailableHours().InexactFloat64(),
	}
}

// =============================================================================
// REQUESTS
// =============================================================================

// LeaveRequestDTO represents a request in API responses.
type LeaveRequestDTO struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	LeaveTypeID    string  `json:"leave_type_id"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	StartTime      string  `json:"start_time,omitempty"`
	EndTime        string  `json:"end_time,omitempty"`
	RequestedHours float64 `json:"requested_hours"`
	Status         string  `json:"status"`
}

// CreateLeaveRequestRequest is the request to create a leave request.
type CreateLeaveRequestRequest struct {
	UserID         string   `json:"user_id" validate:"required"`
	LeaveTypeID    string   `json:"leave_type_id" validate:"required"`
	StartDate      string   `json:"start_date" validate:"required"`
	EndDate        string   `json:"end_date" validate:"required"`
	StartTime      string   `json:"start_time"`
	EndTime        string   `json:"end_time"`
	RequestedHours *float64 `json:"requested_hours,omitempty"`
	Status         string   `json:"status"`
}

// UpdateLeaveRequestRequest is a partial request edit.
type UpdateLeaveRequestRequest struct {
	LeaveTypeID    *string  `json:"leave_type_id,omitempty"`
	StartDate      *string  `json:"start_date,omitempty"`
	EndDate        *string  `json:"end_date,omitempty"`
	StartTime      *string  `json:"start_time,omitempty"`
	EndTime        *string  `json:"end_time,omitempty"`
	RequestedHours *float64 `json:"requested_hours,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// CalculateHoursRequest previews the duration calculator without
// persisting anything.
type CalculateHoursRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// CalculateHoursResponse is the preview result.
type CalculateHoursResponse struct {
	Hours float64 `json:"hours"`
}

func toLeaveRequestDTO(r *leave.LeaveRequest) LeaveRequestDTO {
	return LeaveRequestDTO{
		ID:             string(r.ID),
		UserID:         string(r.UserID),
		LeaveTypeID:    string(r.LeaveTypeID),
		StartDate:      r.StartDate.String(),
		EndDate:        r.EndDate.String(),
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		RequestedHours: r.RequestedHours.InexactFloat64(),
		Status:         string(r.Status),
	}
}

// =============================================================================
// PROJECTIONS
// =============================================================================

// BalanceTripleDTO is one accrued/used/available view.
type BalanceTripleDTO struct {
	AccruedHours   float64 `json:"accrued_hours"`
	UsedHours      float64 `json:"used_hours"`
	AvailableHours float64 `json:"available_hours"`
}

// ProjectionDTO is a forward balance projection.
type ProjectionDTO struct {
	AsOf          string           `json:"as_of"`
	LeaveType     LeaveTypeDTO     `json:"leave_type"`
	Current       BalanceTripleDTO `json:"current"`
	Projected     BalanceTripleDTO `json:"projected"`
	FutureAccrual float64          `json:"future_accrual_hours"`
	FutureUsed    float64          `json:"future_used_hours"`
}

func toProjectionDTO(p *leave.Projection) ProjectionDTO {
	return ProjectionDTO{
		AsOf:          p.AsOf.String(),
		LeaveType:     toLeaveTypeDTO(&p.LeaveType),
		Current:       toBalanceTripleDTO(p.Current),
		Projected:     toBalanceTripleDTO(p.Projected),
		FutureAccrual: p.FutureAccrual.InexactFloat64(),
		FutureUsed:    p.FutureUsed.InexactFloat64(),
	}
}

func toBalanceTripleDTO(t leave.BalanceTriple) BalanceTripleDTO {
	return BalanceTripleDTO{
		AccruedHours:   t.AccruedHours.InexactFloat64(),
		UsedHours:      t.UsedHours.InexactFloat64(),
		AvailableHours: t.AvailableHours.InexactFloat64(),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func decimalPtr(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}
