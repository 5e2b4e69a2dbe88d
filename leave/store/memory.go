// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	users    map[leave.UserID]leave.User
	types    map[leave.LeaveTypeID]leave.LeaveType
	balances map[leave.BalanceID]leave.LeaveBalance
	requests map[leave.RequestID]leave.LeaveRequest
}

func NewMemory() *Memory {
	return &Memory{
		users:    make(map[leave.UserID]leave.User),
		types:    make(map[leave.LeaveTypeID]leave.LeaveType),
		balances: make(map[leave.BalanceID]leave.LeaveBalance),
		requests: make(map[leave.RequestID]leave.LeaveRequest),
	}
}

// -----------------------------------------------------------------------------
// Users
// -----------------------------------------------------------------------------

func (m *Memory) CreateUser(_ context.Context, u *leave.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createUserLocked(u)
}

func (m *Memory) createUserLocked(u *leave.User) error {
	if u.ID == "" {
		u.ID = leave.UserID(uuid.NewString())
	}
	if _, ok := m.users[u.ID]; ok {
		return fmt.Errorf("%w: user %s", leave.ErrDuplicate, u.ID)
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) GetUser(_ context.Context, id leave.UserID) (*leave.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getUserLocked(id)
}

func (m *Memory) getUserLocked(id leave.UserID) (*leave.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", leave.ErrNotFound, id)
	}
	return &u, nil
}

func (m *Memory) UpdateUser(_ context.Context, u *leave.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateUserLocked(u)
}

func (m *Memory) updateUserLocked(u *leave.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return fmt.Errorf("%w: user %s", leave.ErrNotFound, u.ID)
	}
	m.users[u.ID] = *u
	return nil
}

func (m *Memory) DeleteUser(_ context.Context, id leave.UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteUserLocked(id)
}

// deleteUserLocked cascades to everything the user owns.
func (m *Memory) deleteUserLocked(id leave.UserID) error {
	if _, ok := m.users[id]; !ok {
		return fmt.Errorf("%w: user %s", leave.ErrNotFound, id)
	}
	delete(m.users, id)
	for tid, lt := range m.types {
		if lt.UserID == id {
			delete(m.types, tid)
		}
	}
	for bid, b := range m.balances {
		if b.UserID == id {
			delete(m.balances, bid)
		}
	}
	for rid, r := range m.requests {
		if r.UserID == id {
			delete(m.requests, rid)
		}
	}
	return nil
}

// -----------------------------------------------------------------------------
// Leave types
// -----------------------------------------------------------------------------

func (m *Memory) CreateLeaveType(_ context.Context, t *leave.LeaveType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createLeaveTypeLocked(t)
}

func (m *Memory) createLeaveTypeLocked(t *leave.LeaveType) error {
	if t.ID == "" {
		t.ID = leave.LeaveTypeID(uuid.NewString())
	}
	if _, ok := m.types[t.ID]; ok {
		return fmt.Errorf("%w: leave type %s", leave.ErrDuplicate, t.ID)
	}
	m.types[t.ID] = *t
	return nil
}

func (m *Memory) GetLeaveType(_ context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLeaveTypeLocked(id)
}

func (m *Memory) getLeaveTypeLocked(id leave.LeaveTypeID) (*leave.LeaveType, error) {
	t, ok := m.types[id]
	if !ok {
		return nil, fmt.Errorf("%w: leave type %s", leave.ErrNotFound, id)
	}
	return &t, nil
}

func (m *Memory) UpdateLeaveType(_ context.Context, t *leave.LeaveType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateLeaveTypeLocked(t)
}

func (m *Memory) updateLeaveTypeLocked(t *leave.LeaveType) error {
	if _, ok := m.types[t.ID]; !ok {
		return fmt.Errorf("%w: leave type %s", leave.ErrNotFound, t.ID)
	}
	m.types[t.ID] = *t
	return nil
}

func (m *Memory) DeleteLeaveType(_ context.Context, id leave.LeaveTypeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLeaveTypeLocked(id)
}

// deleteLeaveTypeLocked cascades to the type's balances and requests.
func (m *Memory) deleteLeaveTypeLocked(id leave.LeaveTypeID) error {
	if _, ok := m.types[id]; !ok {
		return fmt.Errorf("%w: leave type %s", leave.ErrNotFound, id)
	}
	delete(m.types, id)
	for bid, b := range m.balances {
		if b.LeaveTypeID == id {
			delete(m.balances, bid)
		}
	}
	for rid, r := range m.requests {
		if r.LeaveTypeID == id {
			delete(m.requests, rid)
		}
	}
	return nil
}

func (m *Memory) ListLeaveTypesByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listLeaveTypesByUserLocked(userID)
}

func (m *Memory) listLeaveTypesByUserLocked(userID leave.UserID) ([]leave.LeaveType, error) {
	var result []leave.LeaveType
	for _, t := range m.types {
		if t.UserID == userID {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// -----------------------------------------------------------------------------
// Balances
// -----------------------------------------------------------------------------

func (m *Memory) CreateBalance(_ context.Context, b *leave.LeaveBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createBalanceLocked(b)
}

func (m *Memory) createBalanceLocked(b *leave.LeaveBalance) error {
	if b.ID == "" {
		b.ID = leave.BalanceID(uuid.NewString())
	}
	if _, ok := m.balances[b.ID]; ok {
		return fmt.Errorf("%w: balance %s", leave.ErrDuplicate, b.ID)
	}
	// Enforce the (user, leave type) natural key.
	for _, existing := range m.balances {
		if existing.UserID == b.UserID && existing.LeaveTypeID == b.LeaveTypeID {
			return fmt.Errorf("%w: balance for user %s leave type %s", leave.ErrDuplicate, b.UserID, b.LeaveTypeID)
		}
	}
	m.balances[b.ID] = *b
	return nil
}

func (m *Memory) GetBalance(_ context.Context, id leave.BalanceID) (*leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getBalanceLocked(id)
}

func (m *Memory) getBalanceLocked(id leave.BalanceID) (*leave.LeaveBalance, error) {
	b, ok := m.balances[id]
	if !ok {
		return nil, fmt.Errorf("%w: balance %s", leave.ErrNotFound, id)
	}
	return &b, nil
}

func (m *Memory) FindBalance(_ context.Context, userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.findBalanceLocked(userID, typeID)
}

func (m *Memory) findBalanceLocked(userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	for _, b := range m.balances {
		if b.UserID == userID && b.LeaveTypeID == typeID {
			bc := b
			return &bc, nil
		}
	}
	return nil, fmt.Errorf("%w: balance for user %s leave type %s", leave.ErrNotFound, userID, typeID)
}

func (m *Memory) UpdateBalance(_ context.Context, b *leave.LeaveBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateBalanceLocked(b)
}

func (m *Memory) updateBalanceLocked(b *leave.LeaveBalance) error {
	if _, ok := m.balances[b.ID]; !ok {
		return fmt.Errorf("%w: balance %s", leave.ErrNotFound, b.ID)
	}
	m.balances[b.ID] = *b
	return nil
}

func (m *Memory) DeleteBalance(_ context.Context, id leave.BalanceID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteBalanceLocked(id)
}

func (m *Memory) deleteBalanceLocked(id leave.BalanceID) error {
	if _, ok := m.balances[id]; !ok {
		return fmt.Errorf("%w: balance %s", leave.ErrNotFound, id)
	}
	delete(m.balances, id)
	return nil
}

func (m *Memory) ListBalancesByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listBalancesByUserLocked(userID)
}

func (m *Memory) listBalancesByUserLocked(userID leave.UserID) ([]leave.LeaveBalance, error) {
	var result []leave.LeaveBalance
	for _, b := range m.balances {
		if b.UserID == userID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) ListBalancesByLeaveType(_ context.Context, typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listBalancesByLeaveTypeLocked(typeID)
}

func (m *Memory) listBalancesByLeaveTypeLocked(typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	var result []leave.LeaveBalance
	for _, b := range m.balances {
		if b.LeaveTypeID == typeID {
			result = append(result, b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// -----------------------------------------------------------------------------
// Requests
// -----------------------------------------------------------------------------

func (m *Memory) CreateRequest(_ context.Context, r *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createRequestLocked(r)
}

func (m *Memory) createRequestLocked(r *leave.LeaveRequest) error {
	if r.ID == "" {
		r.ID = leave.RequestID(uuid.NewString())
	}
	if _, ok := m.requests[r.ID]; ok {
		return fmt.Errorf("%w: request %s", leave.ErrDuplicate, r.ID)
	}
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) GetRequest(_ context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getRequestLocked(id)
}

func (m *Memory) getRequestLocked(id leave.RequestID) (*leave.LeaveRequest, error) {
	r, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("%w: request %s", leave.ErrNotFound, id)
	}
	return &r, nil
}

func (m *Memory) UpdateRequest(_ context.Context, r *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateRequestLocked(r)
}

func (m *Memory) updateRequestLocked(r *leave.LeaveRequest) error {
	if _, ok := m.requests[r.ID]; !ok {
		return fmt.Errorf("%w: request %s", leave.ErrNotFound, r.ID)
	}
	m.requests[r.ID] = *r
	return nil
}

func (m *Memory) DeleteRequest(_ context.Context, id leave.RequestID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteRequestLocked(id)
}

func (m *Memory) deleteRequestLocked(id leave.RequestID) error {
	if _, ok := m.requests[id]; !ok {
		return fmt.Errorf("%w: request %s", leave.ErrNotFound, id)
	}
	delete(m.requests, id)
	return nil
}

func (m *Memory) ListRequestsByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRequestsByUserLocked(userID)
}

func (m *Memory) listRequestsByUserLocked(userID leave.UserID) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sortRequests(result)
	return result, nil
}

func (m *Memory) ListRequests(_ context.Context, userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRequestsLocked(userID, typeID)
}

func (m *Memory) listRequestsLocked(userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	var result []leave.LeaveRequest
	for _, r := range m.requests {
		if r.UserID == userID && r.LeaveTypeID == typeID {
			result = append(result, r)
		}
	}
	sortRequests(result)
	return result, nil
}

func sortRequests(requests []leave.LeaveRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].StartDate.Equal(requests[j].StartDate) {
			return requests[i].StartDate.Before(requests[j].StartDate)
		}
		return requests[i].ID < requests[j].ID
	})
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	txStore := &txMemoryView{parent: tm}
	if err := fn(txStore); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

type memorySnapshot struct {
	users    map[leave.UserID]leave.User
	types    map[leave.LeaveTypeID]leave.LeaveType
	balances map[leave.BalanceID]leave.LeaveBalance
	requests map[leave.RequestID]leave.LeaveRequest
}

func (tm *TxMemory) snapshot() memorySnapshot {
	s := memorySnapshot{
		users:    make(map[leave.UserID]leave.User, len(tm.users)),
		types:    make(map[leave.LeaveTypeID]leave.LeaveType, len(tm.types)),
		balances: make(map[leave.BalanceID]leave.LeaveBalance, len(tm.balances)),
		requests: make(map[leave.RequestID]leave.LeaveRequest, len(tm.requests)),
	}
	for k, v := range tm.users {
		s.users[k] = v
	}
	for k, v := range tm.types {
		s.types[k] = v
	}
	for k, v := range tm.balances {
		s.balances[k] = v
	}
	for k, v := range tm.requests {
		s.requests[k] = v
	}
	return s
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.users = s.users
	tm.types = s.types
	tm.balances = s.balances
	tm.requests = s.requests
}

// txMemoryView exposes the parent's locked methods to the function running
// inside WithTx, which already holds the write lock.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) CreateUser(_ context.Context, u *leave.User) error {
	return tv.parent.createUserLocked(u)
}

func (tv *txMemoryView) GetUser(_ context.Context, id leave.UserID) (*leave.User, error) {
	return tv.parent.getUserLocked(id)
}

func (tv *txMemoryView) UpdateUser(_ context.Context, u *leave.User) error {
	return tv.parent.updateUserLocked(u)
}

func (tv *txMemoryView) DeleteUser(_ context.Context, id leave.UserID) error {
	return tv.parent.deleteUserLocked(id)
}

func (tv *txMemoryView) CreateLeaveType(_ context.Context, t *leave.LeaveType) error {
	return tv.parent.createLeaveTypeLocked(t)
}

func (tv *txMemoryView) GetLeaveType(_ context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	return tv.parent.getLeaveTypeLocked(id)
}

func (tv *txMemoryView) UpdateLeaveType(_ context.Context, t *leave.LeaveType) error {
	return tv.parent.updateLeaveTypeLocked(t)
}

func (tv *txMemoryView) DeleteLeaveType(_ context.Context, id leave.LeaveTypeID) error {
	return tv.parent.deleteLeaveTypeLocked(id)
}

func (tv *txMemoryView) ListLeaveTypesByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveType, error) {
	return tv.parent.listLeaveTypesByUserLocked(userID)
}

func (tv *txMemoryView) CreateBalance(_ context.Context, b *leave.LeaveBalance) error {
	return tv.parent.createBalanceLocked(b)
}

func (tv *txMemoryView) GetBalance(_ context.Context, id leave.BalanceID) (*leave.LeaveBalance, error) {
	return tv.parent.getBalanceLocked(id)
}

func (tv *txMemoryView) FindBalance(_ context.Context, userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	return tv.parent.findBalanceLocked(userID, typeID)
}

func (tv *txMemoryView) UpdateBalance(_ context.Context, b *leave.LeaveBalance) error {
	return tv.parent.updateBalanceLocked(b)
}

func (tv *txMemoryView) DeleteBalance(_ context.Context, id leave.BalanceID) error {
	return tv.parent.deleteBalanceLocked(id)
}

func (tv *txMemoryView) ListBalancesByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveBalance, error) {
	return tv.parent.listBalancesByUserLocked(userID)
}

func (tv *txMemoryView) ListBalancesByLeaveType(_ context.Context, typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	return tv.parent.listBalancesByLeaveTypeLocked(typeID)
}

func (tv *txMemoryView) CreateRequest(_ context.Context, r *leave.LeaveRequest) error {
	return tv.parent.createRequestLocked(r)
}

func (tv *txMemoryView) GetRequest(_ context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	return tv.parent.getRequestLocked(id)
}

func (tv *txMemoryView) UpdateRequest(_ context.Context, r *leave.LeaveRequest) error {
	return tv.parent.updateRequestLocked(r)
}

func (tv *txMemoryView) DeleteRequest(_ context.Context, id leave.RequestID) error {
	return tv.parent.deleteRequestLocked(id)
}

func (tv *txMemoryView) ListRequestsByUser(_ context.Context, userID leave.UserID) ([]leave.LeaveRequest, error) {
	return tv.parent.listRequestsByUserLocked(userID)
}

func (tv *txMemoryView) ListRequests(_ context.Context, userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	return tv.parent.listRequestsLocked(userID, typeID)
}
