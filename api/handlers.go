/*
handlers.go - HTTP API handlers for the leave engine

PURPOSE:
  Exposes the leave engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the domain services.

ENDPOINTS:
  Users:
    POST   /api/users                   Create user (seeds default leave types)
    GET    /api/users/{id}              Get user
    PUT    /api/users/{id}              Update user (start-date change recomputes)
    DELETE /api/users/{id}              Delete user and everything owned

  Leave types:
    GET    /api/leave_types?user_id=    List a user's leave types
    POST   /api/leave_types             Create leave type (+owner balance)
    GET    /api/leave_types/{id}        Get leave type
    PUT    /api/leave_types/{id}        Update (rule change recomputes)
    DELETE /api/leave_types/{id}        Delete (cascades)

  Balances:
    GET    /api/leave_balances?user_id= List a user's balances
    GET    /api/leave_balances/summary  Per-user roll-up
    POST   /api/leave_balances          Find-or-update for (user, type)
    GET    /api/leave_balances/{id}     Get balance
    PUT    /api/leave_balances/{id}     Update balance
    DELETE /api/leave_balances/{id}     Delete balance
    POST   /api/leave_balances/{id}/reset  Reset to computed default

  Requests:
    POST   /api/leave_requests                    Create
    GET    /api/leave_requests?user_id=           List
    GET    /api/leave_requests/{id}               Get
    PUT    /api/leave_requests/{id}               Update
    DELETE /api/leave_requests/{id}               Delete (credits if affecting)
    POST   /api/leave_requests/{id}/submit        planned -> pending
    POST   /api/leave_requests/{id}/approve       Approve (debits)
    POST   /api/leave_requests/{id}/cancel        Cancel (credits)
    POST   /api/leave_requests/calculate_hours    Duration preview
    GET    /api/leave_requests/{id}/projected_balance?as_of=  Projection

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 404: Record not found
  - 409: Duplicate (balance natural key)
  - 422: Validation, date, or transition errors
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator"
	"github.com/sirupsen/logrus"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Users     *leave.UserService
	Types     *leave.LeaveTypeService
	Requests  *leave.RequestService
	Ledger    *leave.Ledger
	Projector *leave.Projector

	validate *validator.Validate
	log      logrus.FieldLogger
}

// NewHandler wires the domain services onto one store.
func NewHandler(store leave.TxStore, log logrus.FieldLogger) *Handler {
	return &Handler{
		Users:     leave.NewUserService(store, log),
		Types:     leave.NewLeaveTypeService(store, log),
		Requests:  leave.NewRequestService(store, log),
		Ledger:    leave.NewLedger(store, log),
		Projector: leave.NewProjector(store),
		validate:  validator.New(),
		log:       log,
	}
}

// =============================================================================
// USER HANDLERS
// =============================================================================

// CreateUser creates a user and seeds the default leave types.
// POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		h.respondError(w, err)
		return
	}

	user, err := h.Users.Create(r.Context(), &leave.User{
		Name:      req.Name,
		Email:     req.Email,
		StartDate: startDate,
	}, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserDTO(user))
}

// GetUser returns a single user.
// GET /api/users/{id}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Get(r.Context(), leave.UserID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// UpdateUser applies a partial edit. A start-date change recomputes every
// balance the user owns.
// PUT /api/users/{id}
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := leave.UpdateUserInput{Name: req.Name, Email: req.Email}
	if req.StartDate != nil {
		d, err := parseOptionalDate(*req.StartDate)
		if err != nil {
			h.respondError(w, err)
			return
		}
		input.StartDate = &d
	}

	user, err := h.Users.Update(r.Context(), leave.UserID(chi.URLParam(r, "id")), input, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(user))
}

// DeleteUser removes a user and everything the user owns.
// DELETE /api/users/{id}
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), leave.UserID(chi.URLParam(r, "id"))); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LEAVE TYPE HANDLERS
// =============================================================================

// ListLeaveTypes returns a user's leave types.
// GET /api/leave_types?user_id=
func (h *Handler) ListLeaveTypes(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id query parameter is required", nil)
		return
	}

	types, err := h.Types.List(r.Context(), leave.UserID(userID))
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]LeaveTypeDTO, len(types))
	for i := range types {
		dtos[i] = toLeaveTypeDTO(&types[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateLeaveType creates a leave type and its owner's balance.
// POST /api/leave_types
func (h *Handler) CreateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	lt, err := h.Types.Create(r.Context(), &leave.LeaveType{
		UserID:         leave.UserID(req.UserID),
		Name:           req.Name,
		AccrualRate:    toDecimal(req.AccrualRate),
		AccrualPeriod:  leave.ParseAccrualPeriod(req.AccrualPeriod),
		OneTimeAccrual: req.OneTimeAccrual,
	}, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveTypeDTO(lt))
}

// GetLeaveType returns a single leave type.
// GET /api/leave_types/{id}
func (h *Handler) GetLeaveType(w http.ResponseWriter, r *http.Request) {
	lt, err := h.Types.Get(r.Context(), leave.LeaveTypeID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveTypeDTO(lt))
}

// UpdateLeaveType applies a partial edit. Rate or period changes recompute
// every balance referencing the type.
// PUT /api/leave_types/{id}
func (h *Handler) UpdateLeaveType(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeaveTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := leave.UpdateLeaveTypeInput{
		Name:           req.Name,
		AccrualRate:    decimalPtr(req.AccrualRate),
		OneTimeAccrual: req.OneTimeAccrual,
	}
	if req.AccrualPeriod != nil {
		p := leave.ParseAccrualPeriod(*req.AccrualPeriod)
		input.AccrualPeriod = &p
	}

	lt, err := h.Types.Update(r.Context(), leave.LeaveTypeID(chi.URLParam(r, "id")), input, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveTypeDTO(lt))
}

// DeleteLeaveType removes a leave type, its balances and its requests.
// DELETE /api/leave_types/{id}
func (h *Handler) DeleteLeaveType(w http.ResponseWriter, r *http.Request) {
	if err := h.Types.Delete(r.Context(), leave.LeaveTypeID(chi.URLParam(r, "id"))); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BALANCE HANDLERS
// =============================================================================

// ListBalances returns a user's ledger rows.
// GET /api/leave_balances?user_id=
func (h *Handler) ListBalances(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id query parameter is required", nil)
		return
	}

	balances, err := h.Ledger.List(r.Context(), leave.UserID(userID))
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]BalanceDTO, len(balances))
	for i := range balances {
		dtos[i] = toBalanceDTO(&balances[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalanceSummary returns totals plus a per-type breakdown.
// GET /api/leave_balances/summary?user_id=
func (h *Handler) GetBalanceSummary(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id query parameter is required", nil)
		return
	}

	summary, err := h.Ledger.Summary(r.Context(), leave.UserID(userID))
	if err != nil {
		h.respondError(w, err)
		return
	}

	dto := BalanceSummaryDTO{
		UserID:         userID,
		TotalAccrued:   summary.TotalAccrued.InexactFloat64(),
		TotalUsed:      summary.TotalUsed.InexactFloat64(),
		TotalAvailable: summary.TotalAvailable.InexactFloat64(),
		Balances:       make([]TypeBalanceDTO, len(summary.ByType)),
	}
	for i, tb := range summary.ByType {
		dto.Balances[i] = TypeBalanceDTO{
			BalanceID:      string(tb.BalanceID),
			LeaveTypeID:    string(tb.LeaveTypeID),
			LeaveTypeName:  tb.LeaveTypeName,
			AccrualRate:    tb.AccrualRate.InexactFloat64(),
			AccrualPeriod:  string(tb.AccrualPeriod),
			AccruedHours:   tb.AccruedHours.InexactFloat64(),
			UsedHours:      tb.UsedHours.InexactFloat64(),
			AvailableHours: tb.AvailableHours.InexactFloat64(),
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpsertBalance creates or updates the balance for a (user, leave type)
// pair. Never a duplicate.
// POST /api/leave_balances
func (h *Handler) UpsertBalance(w http.ResponseWriter, r *http.Request) {
	var req UpsertBalanceRequest
	if !h.decode(w, r, &req) {
		return
	}

	bal, err := h.Ledger.Upsert(r.Context(),
		leave.UserID(req.UserID), leave.LeaveTypeID(req.LeaveTypeID),
		leave.BalancePatch{
			AccruedHours: decimalPtr(req.AccruedHours),
			UsedHours:    decimalPtr(req.UsedHours),
		}, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBalanceDTO(bal))
}

// GetBalance returns a single ledger row.
// GET /api/leave_balances/{id}
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	bal, err := h.Ledger.Get(r.Context(), leave.BalanceID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(bal))
}

// UpdateBalance applies an explicit balance edit.
// PUT /api/leave_balances/{id}
func (h *Handler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	var req UpdateBalanceRequest
	if !h.decode(w, r, &req) {
		return
	}

	bal, err := h.Ledger.Update(r.Context(), leave.BalanceID(chi.URLParam(r, "id")),
		leave.BalancePatch{
			AccruedHours: decimalPtr(req.AccruedHours),
			UsedHours:    decimalPtr(req.UsedHours),
		}, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(bal))
}

// DeleteBalance removes a ledger row.
// DELETE /api/leave_balances/{id}
func (h *Handler) DeleteBalance(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.Delete(r.Context(), leave.BalanceID(chi.URLParam(r, "id"))); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetBalance recomputes accrued hours, zeroes used hours and forces
// affecting requests back to pending, atomically.
// POST /api/leave_balances/{id}/reset
func (h *Handler) ResetBalance(w http.ResponseWriter, r *http.Request) {
	result, err := h.Ledger.Reset(r.Context(), leave.BalanceID(chi.URLParam(r, "id")), leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ResetBalanceResponse{
		Balance:       toBalanceDTO(result.Balance),
		OldAccrued:    result.OldAccrued.InexactFloat64(),
		OldUsed:       result.OldUsed.InexactFloat64(),
		RequestsReset: result.RequestsReset,
	})
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// CreateLeaveRequest creates a request. No ledger delta is applied at
// creation, whatever the initial status.
// POST /api/leave_requests
func (h *Handler) CreateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequestRequest
	if !h.decode(w, r, &req) {
		return
	}

	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	endDate, err := leave.ParseDate(req.EndDate)
	if err != nil {
		h.respondError(w, err)
		return
	}

	created, err := h.Requests.Create(r.Context(), leave.CreateRequestInput{
		UserID:         leave.UserID(req.UserID),
		LeaveTypeID:    leave.LeaveTypeID(req.LeaveTypeID),
		StartDate:      startDate,
		EndDate:        endDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RequestedHours: decimalPtr(req.RequestedHours),
		Status:         leave.Status(req.Status),
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveRequestDTO(created))
}

// ListLeaveRequests returns a user's requests, optionally filtered to one
// leave type.
// GET /api/leave_requests?user_id=&leave_type_id=
func (h *Handler) ListLeaveRequests(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeError(w, http.StatusUnprocessableEntity, "user_id query parameter is required", nil)
		return
	}

	var requests []leave.LeaveRequest
	var err error
	if typeID := r.URL.Query().Get("leave_type_id"); typeID != "" {
		requests, err = h.Requests.ListForType(r.Context(), leave.UserID(userID), leave.LeaveTypeID(typeID))
	} else {
		requests, err = h.Requests.List(r.Context(), leave.UserID(userID))
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	dtos := make([]LeaveRequestDTO, len(requests))
	for i := range requests {
		dtos[i] = toLeaveRequestDTO(&requests[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetLeaveRequest returns a single request.
// GET /api/leave_requests/{id}
func (h *Handler) GetLeaveRequest(w http.ResponseWriter, r *http.Request) {
	req, err := h.Requests.Get(r.Context(), leave.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// UpdateLeaveRequest applies a partial edit and any ledger delta the
// status diff calls for.
// PUT /api/leave_requests/{id}
func (h *Handler) UpdateLeaveRequest(w http.ResponseWriter, r *http.Request) {
	var req UpdateLeaveRequestRequest
	if !h.decode(w, r, &req) {
		return
	}

	input := leave.UpdateRequestInput{
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RequestedHours: decimalPtr(req.RequestedHours),
	}
	if req.LeaveTypeID != nil {
		id := leave.LeaveTypeID(*req.LeaveTypeID)
		input.LeaveTypeID = &id
	}
	if req.StartDate != nil {
		d, err := leave.ParseDate(*req.StartDate)
		if err != nil {
			h.respondError(w, err)
			return
		}
		input.StartDate = &d
	}
	if req.EndDate != nil {
		d, err := leave.ParseDate(*req.EndDate)
		if err != nil {
			h.respondError(w, err)
			return
		}
		input.EndDate = &d
	}
	if req.Status != nil {
		s := leave.Status(*req.Status)
		input.Status = &s
	}

	updated, err := h.Requests.Update(r.Context(), leave.RequestID(chi.URLParam(r, "id")), input)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(updated))
}

// DeleteLeaveRequest removes a request, crediting its hours back first
// when it counts against the balance.
// DELETE /api/leave_requests/{id}
func (h *Handler) DeleteLeaveRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.Requests.Delete(r.Context(), leave.RequestID(chi.URLParam(r, "id"))); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitLeaveRequest moves a planned request to pending.
// POST /api/leave_requests/{id}/submit
func (h *Handler) SubmitLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.fireEvent(w, r, h.Requests.Submit)
}

// ApproveLeaveRequest approves a request, debiting the ledger.
// POST /api/leave_requests/{id}/approve
func (h *Handler) ApproveLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.fireEvent(w, r, h.Requests.Approve)
}

// CancelLeaveRequest cancels a request, crediting hours back.
// POST /api/leave_requests/{id}/cancel
func (h *Handler) CancelLeaveRequest(w http.ResponseWriter, r *http.Request) {
	h.fireEvent(w, r, h.Requests.Cancel)
}

func (h *Handler) fireEvent(w http.ResponseWriter, r *http.Request,
	fire func(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error)) {
	req, err := fire(r.Context(), leave.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLeaveRequestDTO(req))
}

// CalculateHours previews the duration calculator.
// POST /api/leave_requests/calculate_hours
func (h *Handler) CalculateHours(w http.ResponseWriter, r *http.Request) {
	var req CalculateHoursRequest
	if !h.decode(w, r, &req) {
		return
	}

	startDate, err := leave.ParseDate(req.StartDate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	endDate, err := leave.ParseDate(req.EndDate)
	if err != nil {
		h.respondError(w, err)
		return
	}
	if endDate.Before(startDate) {
		h.respondError(w, &leave.FieldError{Field: "end_date", Message: "must not be before start_date"})
		return
	}

	hours := leave.RequestedHours(startDate, endDate, req.StartTime, req.EndTime)
	writeJSON(w, http.StatusOK, CalculateHoursResponse{Hours: hours.InexactFloat64()})
}

// ProjectedBalance projects the request's balance to a future date.
// GET /api/leave_requests/{id}/projected_balance?as_of=YYYY-MM-DD
func (h *Handler) ProjectedBalance(w http.ResponseWriter, r *http.Request) {
	req, err := h.Requests.Get(r.Context(), leave.RequestID(chi.URLParam(r, "id")))
	if err != nil {
		h.respondError(w, err)
		return
	}

	asOf, err := leave.ParseDate(r.URL.Query().Get("as_of"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	projection, err := h.Projector.Project(r.Context(), req.UserID, req.LeaveTypeID, asOf, leave.Today())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(projection))
}

// =============================================================================
// HELPERS
// =============================================================================

// decode unmarshals and validates a request body, writing the error
// response itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Validation failed", err)
		return false
	}
	return true
}

// respondError maps engine errors onto HTTP statuses.
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case leave.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Record not found", err)
	case errors.Is(err, leave.ErrDuplicate):
		writeError(w, http.StatusConflict, "Duplicate record", err)
	case leave.IsClientError(err):
		writeError(w, http.StatusUnprocessableEntity, "Invalid request", err)
	default:
		h.log.WithError(err).Error("internal error")
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func parseOptionalDate(s string) (leave.Date, error) {
	if s == "" {
		return leave.Date{}, nil
	}
	return leave.ParseDate(s)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
