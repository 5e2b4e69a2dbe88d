/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements leave.Store and leave.TxStore using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  users:          Employee records with start dates
  leave_types:    Per-user accrual rules
  leave_balances: One ledger row per (user, leave type)
  leave_requests: Requests with status and requested hours

CONSTRAINTS:
  - UNIQUE(user_id, leave_type_id) on leave_balances enforces the natural
    key at the database level; violations surface as leave.ErrDuplicate
  - Foreign keys with ON DELETE CASCADE implement the record cascades:
    deleting a leave type takes its balances and requests with it,
    deleting a user takes everything the user owns

ENCODING:
  Dates are stored as "YYYY-MM-DD" text; hour quantities are stored as
  decimal text so no precision is lost round-tripping through REAL.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/store.go: Interface definitions
  - leave/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// Store implements leave.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		start_date TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		accrual_rate TEXT NOT NULL,
		accrual_period TEXT NOT NULL DEFAULT '',
		one_time_accrual BOOLEAN NOT NULL DEFAULT FALSE
	);

	CREATE INDEX IF NOT EXISTS idx_leave_types_user
		ON leave_types(user_id);

	CREATE TABLE IF NOT EXISTS leave_balances (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		leave_type_id TEXT NOT NULL REFERENCES leave_types(id) ON DELETE CASCADE,
		accrued_hours TEXT NOT NULL,
		used_hours TEXT NOT NULL,
		UNIQUE(user_id, leave_type_id)
	);

	CREATE INDEX IF NOT EXISTS idx_leave_balances_user
		ON leave_balances(user_id);
	CREATE INDEX IF NOT EXISTS idx_leave_balances_type
		ON leave_balances(leave_type_id);

	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		leave_type_id TEXT NOT NULL REFERENCES leave_types(id) ON DELETE CASCADE,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		requested_hours TEXT NOT NULL,
		status TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_user
		ON leave_requests(user_id);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_user_type
		ON leave_requests(user_id, leave_type_id);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_status
		ON leave_requests(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so every operation can run
// standalone or inside WithTx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// USERS
// =============================================================================

func (s *Store) CreateUser(ctx context.Context, u *leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createUser(ctx, s.db, u)
}

func createUser(ctx context.Context, db dbtx, u *leave.User) error {
	if u.ID == "" {
		u.ID = leave.UserID(uuid.NewString())
	}
	_, err := db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, start_date) VALUES (?, ?, ?, ?)",
		u.ID, u.Name, u.Email, encodeDate(u.StartDate),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: user %s", leave.ErrDuplicate, u.ID)
	}
	return err
}

func (s *Store) GetUser(ctx context.Context, id leave.UserID) (*leave.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getUser(ctx, s.db, id)
}

func getUser(ctx context.Context, db dbtx, id leave.UserID) (*leave.User, error) {
	var u leave.User
	var startDate string
	err := db.QueryRowContext(ctx,
		"SELECT id, name, email, start_date FROM users WHERE id = ?", id,
	).Scan(&u.ID, &u.Name, &u.Email, &startDate)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: user %s", leave.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	u.StartDate = decodeDate(startDate)
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, u *leave.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateUser(ctx, s.db, u)
}

func updateUser(ctx context.Context, db dbtx, u *leave.User) error {
	res, err := db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, start_date = ? WHERE id = ?",
		u.Name, u.Email, encodeDate(u.StartDate), u.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("user %s", u.ID))
}

func (s *Store) DeleteUser(ctx context.Context, id leave.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteUser(ctx, s.db, id)
}

func deleteUser(ctx context.Context, db dbtx, id leave.UserID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("user %s", id))
}

// =============================================================================
// LEAVE TYPES
// =============================================================================

func (s *Store) CreateLeaveType(ctx context.Context, t *leave.LeaveType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createLeaveType(ctx, s.db, t)
}

func createLeaveType(ctx context.Context, db dbtx, t *leave.LeaveType) error {
	if t.ID == "" {
		t.ID = leave.LeaveTypeID(uuid.NewString())
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO leave_types (id, user_id, name, accrual_rate, accrual_period, one_time_accrual)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Name, t.AccrualRate.String(), string(t.AccrualPeriod), t.OneTimeAccrual,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: leave type %s", leave.ErrDuplicate, t.ID)
	}
	return err
}

func (s *Store) GetLeaveType(ctx context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getLeaveType(ctx, s.db, id)
}

func getLeaveType(ctx context.Context, db dbtx, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, user_id, name, accrual_rate, accrual_period, one_time_accrual
		 FROM leave_types WHERE id = ?`, id)
	t, err := scanLeaveType(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: leave type %s", leave.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) UpdateLeaveType(ctx context.Context, t *leave.LeaveType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateLeaveType(ctx, s.db, t)
}

func updateLeaveType(ctx context.Context, db dbtx, t *leave.LeaveType) error {
	res, err := db.ExecContext(ctx,
		`UPDATE leave_types
		 SET name = ?, accrual_rate = ?, accrual_period = ?, one_time_accrual = ?
		 WHERE id = ?`,
		t.Name, t.AccrualRate.String(), string(t.AccrualPeriod), t.OneTimeAccrual, t.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("leave type %s", t.ID))
}

func (s *Store) DeleteLeaveType(ctx context.Context, id leave.LeaveTypeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteLeaveType(ctx, s.db, id)
}

func deleteLeaveType(ctx context.Context, db dbtx, id leave.LeaveTypeID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM leave_types WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("leave type %s", id))
}

func (s *Store) ListLeaveTypesByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listLeaveTypesByUser(ctx, s.db, userID)
}

func listLeaveTypesByUser(ctx context.Context, db dbtx, userID leave.UserID) ([]leave.LeaveType, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, user_id, name, accrual_rate, accrual_period, one_time_accrual
		 FROM leave_types WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		t, err := scanLeaveType(rows.Scan)
		if err != nil {
			return nil, err
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

func scanLeaveType(scan func(...any) error) (*leave.LeaveType, error) {
	var t leave.LeaveType
	var rate, period string
	if err := scan(&t.ID, &t.UserID, &t.Name, &rate, &period, &t.OneTimeAccrual); err != nil {
		return nil, err
	}
	t.AccrualRate = mustDecimal(rate)
	t.AccrualPeriod = leave.AccrualPeriod(period)
	return &t, nil
}

// =============================================================================
// BALANCES
// =============================================================================

func (s *Store) CreateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createBalance(ctx, s.db, b)
}

func createBalance(ctx context.Context, db dbtx, b *leave.LeaveBalance) error {
	if b.ID == "" {
		b.ID = leave.BalanceID(uuid.NewString())
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO leave_balances (id, user_id, leave_type_id, accrued_hours, used_hours)
		 VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.LeaveTypeID, b.AccruedHours.String(), b.UsedHours.String(),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: balance for user %s leave type %s", leave.ErrDuplicate, b.UserID, b.LeaveTypeID)
	}
	return err
}

func (s *Store) GetBalance(ctx context.Context, id leave.BalanceID) (*leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getBalance(ctx, s.db, id)
}

func getBalance(ctx context.Context, db dbtx, id leave.BalanceID) (*leave.LeaveBalance, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, user_id, leave_type_id, accrued_hours, used_hours
		 FROM leave_balances WHERE id = ?`, id)
	b, err := scanBalance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: balance %s", leave.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) FindBalance(ctx context.Context, userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findBalance(ctx, s.db, userID, typeID)
}

func findBalance(ctx context.Context, db dbtx, userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, user_id, leave_type_id, accrued_hours, used_hours
		 FROM leave_balances WHERE user_id = ? AND leave_type_id = ?`, userID, typeID)
	b, err := scanBalance(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: balance for user %s leave type %s", leave.ErrNotFound, userID, typeID)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) UpdateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateBalance(ctx, s.db, b)
}

func updateBalance(ctx context.Context, db dbtx, b *leave.LeaveBalance) error {
	res, err := db.ExecContext(ctx,
		"UPDATE leave_balances SET accrued_hours = ?, used_hours = ? WHERE id = ?",
		b.AccruedHours.String(), b.UsedHours.String(), b.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("balance %s", b.ID))
}

func (s *Store) DeleteBalance(ctx context.Context, id leave.BalanceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteBalance(ctx, s.db, id)
}

func deleteBalance(ctx context.Context, db dbtx, id leave.BalanceID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM leave_balances WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("balance %s", id))
}

func (s *Store) ListBalancesByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listBalancesByUser(ctx, s.db, userID)
}

func listBalancesByUser(ctx context.Context, db dbtx, userID leave.UserID) ([]leave.LeaveBalance, error) {
	return queryBalances(ctx, db,
		`SELECT id, user_id, leave_type_id, accrued_hours, used_hours
		 FROM leave_balances WHERE user_id = ? ORDER BY id`, userID)
}

func (s *Store) ListBalancesByLeaveType(ctx context.Context, typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listBalancesByLeaveType(ctx, s.db, typeID)
}

func listBalancesByLeaveType(ctx context.Context, db dbtx, typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	return queryBalances(ctx, db,
		`SELECT id, user_id, leave_type_id, accrued_hours, used_hours
		 FROM leave_balances WHERE leave_type_id = ? ORDER BY id`, typeID)
}

func queryBalances(ctx context.Context, db dbtx, query string, args ...any) ([]leave.LeaveBalance, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanBalance(rows.Scan)
		if err != nil {
			return nil, err
		}
		balances = append(balances, *b)
	}
	return balances, rows.Err()
}

func scanBalance(scan func(...any) error) (*leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	var accrued, used string
	if err := scan(&b.ID, &b.UserID, &b.LeaveTypeID, &accrued, &used); err != nil {
		return nil, err
	}
	b.AccruedHours = mustDecimal(accrued)
	b.UsedHours = mustDecimal(used)
	return &b, nil
}

// =============================================================================
// REQUESTS
// =============================================================================

func (s *Store) CreateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createRequest(ctx, s.db, r)
}

func createRequest(ctx context.Context, db dbtx, r *leave.LeaveRequest) error {
	if r.ID == "" {
		r.ID = leave.RequestID(uuid.NewString())
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO leave_requests
		 (id, user_id, leave_type_id, start_date, end_date, start_time, end_time, requested_hours, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.LeaveTypeID,
		encodeDate(r.StartDate), encodeDate(r.EndDate),
		r.StartTime, r.EndTime,
		r.RequestedHours.String(), string(r.Status),
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("%w: request %s", leave.ErrDuplicate, r.ID)
	}
	return err
}

func (s *Store) GetRequest(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getRequest(ctx, s.db, id)
}

func getRequest(ctx context.Context, db dbtx, id leave.RequestID) (*leave.LeaveRequest, error) {
	row := db.QueryRowContext(ctx,
		`SELECT id, user_id, leave_type_id, start_date, end_date, start_time, end_time, requested_hours, status
		 FROM leave_requests WHERE id = ?`, id)
	r, err := scanRequest(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: request %s", leave.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) UpdateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateRequest(ctx, s.db, r)
}

func updateRequest(ctx context.Context, db dbtx, r *leave.LeaveRequest) error {
	res, err := db.ExecContext(ctx,
		`UPDATE leave_requests
		 SET leave_type_id = ?, start_date = ?, end_date = ?, start_time = ?, end_time = ?,
		     requested_hours = ?, status = ?
		 WHERE id = ?`,
		r.LeaveTypeID,
		encodeDate(r.StartDate), encodeDate(r.EndDate),
		r.StartTime, r.EndTime,
		r.RequestedHours.String(), string(r.Status),
		r.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("request %s", r.ID))
}

func (s *Store) DeleteRequest(ctx context.Context, id leave.RequestID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteRequest(ctx, s.db, id)
}

func deleteRequest(ctx context.Context, db dbtx, id leave.RequestID) error {
	res, err := db.ExecContext(ctx, "DELETE FROM leave_requests WHERE id = ?", id)
	if err != nil {
		return err
	}
	return requireRow(res, fmt.Sprintf("request %s", id))
}

func (s *Store) ListRequestsByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRequestsByUser(ctx, s.db, userID)
}

func listRequestsByUser(ctx context.Context, db dbtx, userID leave.UserID) ([]leave.LeaveRequest, error) {
	return queryRequests(ctx, db,
		`SELECT id, user_id, leave_type_id, start_date, end_date, start_time, end_time, requested_hours, status
		 FROM leave_requests WHERE user_id = ? ORDER BY start_date, id`, userID)
}

func (s *Store) ListRequests(ctx context.Context, userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listRequests(ctx, s.db, userID, typeID)
}

func listRequests(ctx context.Context, db dbtx, userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	return queryRequests(ctx, db,
		`SELECT id, user_id, leave_type_id, start_date, end_date, start_time, end_time, requested_hours, status
		 FROM leave_requests WHERE user_id = ? AND leave_type_id = ? ORDER BY start_date, id`,
		userID, typeID)
}

func queryRequests(ctx context.Context, db dbtx, query string, args ...any) ([]leave.LeaveRequest, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, *r)
	}
	return requests, rows.Err()
}

func scanRequest(scan func(...any) error) (*leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	var startDate, endDate, hours, status string
	if err := scan(&r.ID, &r.UserID, &r.LeaveTypeID, &startDate, &endDate,
		&r.StartTime, &r.EndTime, &hours, &status); err != nil {
		return nil, err
	}
	r.StartDate = decodeDate(startDate)
	r.EndDate = decodeDate(endDate)
	r.RequestedHours = mustDecimal(hours)
	r.Status = leave.Status(status)
	return &r, nil
}

// =============================================================================
// TRANSACTIONAL STORE (leave.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store leave.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore runs every Store operation against one *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) CreateUser(ctx context.Context, u *leave.User) error {
	return createUser(ctx, ts.tx, u)
}

func (ts *txStore) GetUser(ctx context.Context, id leave.UserID) (*leave.User, error) {
	return getUser(ctx, ts.tx, id)
}

func (ts *txStore) UpdateUser(ctx context.Context, u *leave.User) error {
	return updateUser(ctx, ts.tx, u)
}

func (ts *txStore) DeleteUser(ctx context.Context, id leave.UserID) error {
	return deleteUser(ctx, ts.tx, id)
}

func (ts *txStore) CreateLeaveType(ctx context.Context, t *leave.LeaveType) error {
	return createLeaveType(ctx, ts.tx, t)
}

func (ts *txStore) GetLeaveType(ctx context.Context, id leave.LeaveTypeID) (*leave.LeaveType, error) {
	return getLeaveType(ctx, ts.tx, id)
}

func (ts *txStore) UpdateLeaveType(ctx context.Context, t *leave.LeaveType) error {
	return updateLeaveType(ctx, ts.tx, t)
}

func (ts *txStore) DeleteLeaveType(ctx context.Context, id leave.LeaveTypeID) error {
	return deleteLeaveType(ctx, ts.tx, id)
}

func (ts *txStore) ListLeaveTypesByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveType, error) {
	return listLeaveTypesByUser(ctx, ts.tx, userID)
}

func (ts *txStore) CreateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	return createBalance(ctx, ts.tx, b)
}

func (ts *txStore) GetBalance(ctx context.Context, id leave.BalanceID) (*leave.LeaveBalance, error) {
	return getBalance(ctx, ts.tx, id)
}

func (ts *txStore) FindBalance(ctx context.Context, userID leave.UserID, typeID leave.LeaveTypeID) (*leave.LeaveBalance, error) {
	return findBalance(ctx, ts.tx, userID, typeID)
}

func (ts *txStore) UpdateBalance(ctx context.Context, b *leave.LeaveBalance) error {
	return updateBalance(ctx, ts.tx, b)
}

func (ts *txStore) DeleteBalance(ctx context.Context, id leave.BalanceID) error {
	return deleteBalance(ctx, ts.tx, id)
}

func (ts *txStore) ListBalancesByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveBalance, error) {
	return listBalancesByUser(ctx, ts.tx, userID)
}

func (ts *txStore) ListBalancesByLeaveType(ctx context.Context, typeID leave.LeaveTypeID) ([]leave.LeaveBalance, error) {
	return listBalancesByLeaveType(ctx, ts.tx, typeID)
}

func (ts *txStore) CreateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	return createRequest(ctx, ts.tx, r)
}

func (ts *txStore) GetRequest(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	return getRequest(ctx, ts.tx, id)
}

func (ts *txStore) UpdateRequest(ctx context.Context, r *leave.LeaveRequest) error {
	return updateRequest(ctx, ts.tx, r)
}

func (ts *txStore) DeleteRequest(ctx context.Context, id leave.RequestID) error {
	return deleteRequest(ctx, ts.tx, id)
}

func (ts *txStore) ListRequestsByUser(ctx context.Context, userID leave.UserID) ([]leave.LeaveRequest, error) {
	return listRequestsByUser(ctx, ts.tx, userID)
}

func (ts *txStore) ListRequests(ctx context.Context, userID leave.UserID, typeID leave.LeaveTypeID) ([]leave.LeaveRequest, error) {
	return listRequests(ctx, ts.tx, userID, typeID)
}

// =============================================================================
// HELPERS
// =============================================================================

// encodeDate stores zero dates as the empty string.
func encodeDate(d leave.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func decodeDate(s string) leave.Date {
	if s == "" {
		return leave.Date{}
	}
	d, _ := leave.ParseDate(s)
	return d
}

// mustDecimal trusts stored values: they were all encoded via String().
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func requireRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", leave.ErrNotFound, what)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
