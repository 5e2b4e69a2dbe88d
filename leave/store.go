/*
store.go - Persistence interfaces

PURPOSE:
  Defines the interface between the engine and the database. The engine
  never sees SQL; it sees records keyed by IDs plus the one natural key
  that matters: (user, leave type) for balances.

IMPLEMENTATIONS:
  - leave/store:   in-memory (tests, dev)
  - store/sqlite:  production SQLite

TRANSACTIONS:
  Every ledger mutation is a read-modify-write that must not interleave
  with another writer on the same row, and every status transition needs a
  consistent read of the prior status immediately before the write. TxStore
  provides the boundary: WithTx runs a function against a transactional
  view and commits only if it returns nil.

CASCADES:
  Deleting a leave type removes its balances and requests. Deleting a user
  removes everything the user owns. The store owns cascade mechanics; the
  engine owns every other side effect.
*/
package leave

import "context"

// =============================================================================
// STORE - Record persistence
// =============================================================================

// Store persists the four record kinds. Get and Find methods return
// ErrNotFound (wrapped) for missing records.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id UserID) (*User, error)
	UpdateUser(ctx context.Context, u *User) error
	DeleteUser(ctx context.Context, id UserID) error

	// Leave types
	CreateLeaveType(ctx context.Context, t *LeaveType) error
	GetLeaveType(ctx context.Context, id LeaveTypeID) (*LeaveType, error)
	UpdateLeaveType(ctx context.Context, t *LeaveType) error
	DeleteLeaveType(ctx context.Context, id LeaveTypeID) error
	ListLeaveTypesByUser(ctx context.Context, userID UserID) ([]LeaveType, error)

	// Balances. At most one balance exists per (user, leave type);
	// FindBalance is the natural-key lookup.
	CreateBalance(ctx context.Context, b *LeaveBalance) error
	GetBalance(ctx context.Context, id BalanceID) (*LeaveBalance, error)
	FindBalance(ctx context.Context, userID UserID, typeID LeaveTypeID) (*LeaveBalance, error)
	UpdateBalance(ctx context.Context, b *LeaveBalance) error
	DeleteBalance(ctx context.Context, id BalanceID) error
	ListBalancesByUser(ctx context.Context, userID UserID) ([]LeaveBalance, error)
	ListBalancesByLeaveType(ctx context.Context, typeID LeaveTypeID) ([]LeaveBalance, error)

	// Requests
	CreateRequest(ctx context.Context, r *LeaveRequest) error
	GetRequest(ctx context.Context, id RequestID) (*LeaveRequest, error)
	UpdateRequest(ctx context.Context, r *LeaveRequest) error
	DeleteRequest(ctx context.Context, id RequestID) error
	ListRequestsByUser(ctx context.Context, userID UserID) ([]LeaveRequest, error)
	ListRequests(ctx context.Context, userID UserID, typeID LeaveTypeID) ([]LeaveRequest, error)
}

// =============================================================================
// TRANSACTIONAL STORE
// =============================================================================

// TxStore wraps Store with a transaction boundary.
type TxStore interface {
	Store

	// WithTx executes fn against a transactional view of the store.
	// If fn returns an error the transaction is rolled back.
	WithTx(ctx context.Context, fn func(Store) error) error
}
