/*
service.go - Leave request lifecycle

PURPOSE:
  Orchestrates the request lifecycle: creation, edits, the named status
  events, and deletion. The service is where the duration calculator, the
  state machine and the ledger meet:

    mutation -> size with RequestedHours -> state machine decides the
    ledger effect -> debit/credit applied in the SAME transaction

CONCURRENCY:
  Status transitions re-read the request inside the transaction so the
  old->new diff is computed against the status actually stored, not a
  stale copy. Two concurrent transitions on one request serialize.

EDIT SEMANTICS:
  Changing any date/time/hours field recomputes requested hours from the
  merged values and, unless the caller supplies a status in the same
  request, forces the status back to pending - a substantive edit requires
  re-review.

BALANCE SUFFICIENCY:
  Never enforced. The service logs the requested hours against the
  available balance and proceeds; a request may drive the balance
  negative.

SEE ALSO:
  - status.go: transition table and ledger effects
  - ledger.go: the used-hours delta applied here
*/
package leave

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// REQUEST SERVICE
// =============================================================================

type RequestService struct {
	store TxStore
	log   logrus.FieldLogger
}

func NewRequestService(store TxStore, log logrus.FieldLogger) *RequestService {
	return &RequestService{store: store, log: log}
}

// CreateRequestInput carries a new request. RequestedHours overrides the
// duration calculator when supplied; Status overrides the planned default.
type CreateRequestInput struct {
	UserID      UserID
	LeaveTypeID LeaveTypeID
	StartDate   Date
	EndDate     Date
	StartTime   string
	EndTime     string

	RequestedHours *decimal.Decimal
	Status         Status
}

// Create validates and persists a new request. The request starts planned
// unless a status is supplied; no ledger delta is applied at creation.
func (rs *RequestService) Create(ctx context.Context, input CreateRequestInput) (*LeaveRequest, error) {
	if _, err := rs.store.GetUser(ctx, input.UserID); err != nil {
		return nil, err
	}
	if _, err := rs.store.GetLeaveType(ctx, input.LeaveTypeID); err != nil {
		return nil, err
	}

	req := &LeaveRequest{
		ID:          RequestID(uuid.NewString()),
		UserID:      input.UserID,
		LeaveTypeID: input.LeaveTypeID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Status:      input.Status,
	}
	if req.Status == "" {
		req.Status = DefaultStatus
	}

	if input.RequestedHours != nil {
		req.RequestedHours = *input.RequestedHours
	} else {
		req.RequestedHours = RequestedHours(req.StartDate, req.EndDate, req.StartTime, req.EndTime)
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	rs.logAvailability(ctx, req)

	if err := rs.store.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// UpdateRequestInput is a partial edit. Nil fields keep their stored
// values.
type UpdateRequestInput struct {
	LeaveTypeID *LeaveTypeID
	StartDate   *Date
	EndDate     *Date
	StartTime   *string
	EndTime     *string

	RequestedHours *decimal.Decimal
	Status         *Status
}

func (in UpdateRequestInput) editsFields() bool {
	return in.LeaveTypeID != nil || in.StartDate != nil || in.EndDate != nil ||
		in.StartTime != nil || in.EndTime != nil || in.RequestedHours != nil
}

func (in UpdateRequestInput) changesSchedule() bool {
	return in.StartDate != nil || in.EndDate != nil || in.StartTime != nil || in.EndTime != nil
}

// Update merges the edit into the stored request, recomputes hours when
// the schedule changed, and applies the debit or credit the status diff
// calls for - exactly once, in the same transaction as the write.
func (rs *RequestService) Update(ctx context.Context, id RequestID, input UpdateRequestInput) (*LeaveRequest, error) {
	var out *LeaveRequest
	err := rs.store.WithTx(ctx, func(s Store) error {
		req, err := s.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		oldStatus := req.Status

		if input.LeaveTypeID != nil {
			if _, err := s.GetLeaveType(ctx, *input.LeaveTypeID); err != nil {
				return err
			}
			req.LeaveTypeID = *input.LeaveTypeID
		}
		if input.StartDate != nil {
			req.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			req.EndDate = *input.EndDate
		}
		if input.StartTime != nil {
			req.StartTime = *input.StartTime
		}
		if input.EndTime != nil {
			req.EndTime = *input.EndTime
		}

		switch {
		case input.changesSchedule():
			req.RequestedHours = RequestedHours(req.StartDate, req.EndDate, req.StartTime, req.EndTime)
		case input.RequestedHours != nil:
			req.RequestedHours = *input.RequestedHours
		}

		switch {
		case input.Status != nil:
			req.Status = *input.Status
		case input.editsFields():
			// A substantive edit without an explicit status forces
			// re-review.
			req.Status = StatusPending
		}

		if err := req.Validate(); err != nil {
			return err
		}

		if err := s.UpdateRequest(ctx, req); err != nil {
			return err
		}
		if err := rs.applyEffect(ctx, s, req, ChangeEffect(oldStatus, req.Status)); err != nil {
			return err
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.logAvailability(ctx, out)
	return out, nil
}

// Submit moves a planned request to pending. Any other starting status is
// an invalid transition.
func (rs *RequestService) Submit(ctx context.Context, id RequestID) (*LeaveRequest, error) {
	return rs.fire(ctx, id, EventSubmit)
}

// Approve sets the request approved and debits the ledger if the request
// was not already counting against it.
func (rs *RequestService) Approve(ctx context.Context, id RequestID) (*LeaveRequest, error) {
	return rs.fire(ctx, id, EventApprove)
}

// Cancel sets the request canceled and credits the hours back if the
// request was counting against the ledger.
func (rs *RequestService) Cancel(ctx context.Context, id RequestID) (*LeaveRequest, error) {
	return rs.fire(ctx, id, EventCancel)
}

// fire runs one state-machine event. The request is re-read inside the
// transaction so the effect is derived from the stored status.
func (rs *RequestService) fire(ctx context.Context, id RequestID, ev Event) (*LeaveRequest, error) {
	var out *LeaveRequest
	err := rs.store.WithTx(ctx, func(s Store) error {
		req, err := s.GetRequest(ctx, id)
		if err != nil {
			return err
		}

		next, effect, err := Apply(req.Status, ev)
		if err != nil {
			return err
		}

		req.Status = next
		if err := s.UpdateRequest(ctx, req); err != nil {
			return err
		}
		if err := rs.applyEffect(ctx, s, req, effect); err != nil {
			return err
		}

		out = req
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a request, crediting its hours back first when it is in
// a balance-affecting status.
func (rs *RequestService) Delete(ctx context.Context, id RequestID) error {
	return rs.store.WithTx(ctx, func(s Store) error {
		req, err := s.GetRequest(ctx, id)
		if err != nil {
			return err
		}
		if req.Status.AffectsBalance() {
			if err := rs.applyEffect(ctx, s, req, EffectCredit); err != nil {
				return err
			}
		}
		return s.DeleteRequest(ctx, id)
	})
}

// Get returns a single request.
func (rs *RequestService) Get(ctx context.Context, id RequestID) (*LeaveRequest, error) {
	return rs.store.GetRequest(ctx, id)
}

// List returns all of a user's requests.
func (rs *RequestService) List(ctx context.Context, userID UserID) ([]LeaveRequest, error) {
	return rs.store.ListRequestsByUser(ctx, userID)
}

// ListForType returns a user's requests for one leave type.
func (rs *RequestService) ListForType(ctx context.Context, userID UserID, typeID LeaveTypeID) ([]LeaveRequest, error) {
	return rs.store.ListRequests(ctx, userID, typeID)
}

// =============================================================================
// HELPERS
// =============================================================================

func (rs *RequestService) applyEffect(ctx context.Context, s Store, req *LeaveRequest, effect Effect) error {
	switch effect {
	case EffectDebit:
		return applyUsedDelta(ctx, s, rs.log, req.UserID, req.LeaveTypeID, req.RequestedHours)
	case EffectCredit:
		return applyUsedDelta(ctx, s, rs.log, req.UserID, req.LeaveTypeID, req.RequestedHours.Neg())
	default:
		return nil
	}
}

// logAvailability records the requested hours against the available
// balance. Informational only: requests exceeding the balance proceed.
func (rs *RequestService) logAvailability(ctx context.Context, req *LeaveRequest) {
	bal, err := rs.store.FindBalance(ctx, req.UserID, req.LeaveTypeID)
	if err != nil {
		rs.log.WithFields(logrus.Fields{
			"request_id":      req.ID,
			"requested_hours": req.RequestedHours,
		}).Info("leave request without balance record")
		return
	}
	rs.log.WithFields(logrus.Fields{
		"request_id":      req.ID,
		"requested_hours": req.RequestedHours,
		"available_hours": bal.AvailableHours(),
	}).Info("leave request sized against balance")
}
