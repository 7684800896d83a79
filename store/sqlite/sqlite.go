/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements timesheet.Store, timesheet.EmployeeDirectory, review.AuditLog
  and auth.SessionStore on one database. In production the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

SCHEMA:
  employees      account records (argon2id password hash, role)
  timesheets     one header row per (email, week_start): status, rejection
                 reason, monotonic version for optimistic locking
  time_entries   ordered entry rows belonging to a header
  approvals      audit trail of admin approvals
  denials        audit trail of admin rejections
  sessions       issued login tokens

NORMALIZATION:
  Status and rejection reason live on the header only. The legacy interface
  that duplicated them onto every entry row is reproduced at the API layer,
  not here.

OPTIMISTIC LOCKING:
  SaveTimesheet compares the caller's version against the stored one inside
  a transaction. A mismatch writes nothing and returns
  timesheet.ErrConcurrentModification. On success the entry list is replaced
  wholesale and the version is bumped.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/timesheets.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timesheet/store.go: Interface definitions and locking contract
  - timesheet/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/auth"
	"github.com/warp/timesheet-engine/review"
	"github.com/warp/timesheet-engine/timesheet"
)

// Store implements all storage interfaces using SQLite.
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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		employee_id TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS timesheets (
		email TEXT NOT NULL,
		week_start TEXT NOT NULL,
		status TEXT NOT NULL,
		rejection_reason TEXT NOT NULL DEFAULT '',
		version INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (email, week_start)
	);

	CREATE TABLE IF NOT EXISTS time_entries (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		week_start TEXT NOT NULL,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		hours TEXT NOT NULL,
		task_description TEXT NOT NULL,
		work_type TEXT NOT NULL,
		FOREIGN KEY (email, week_start) REFERENCES timesheets(email, week_start) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_entries_sheet ON time_entries(email, week_start, position);
	CREATE INDEX IF NOT EXISTS idx_timesheets_status ON timesheets(status);
	CREATE INDEX IF NOT EXISTS idx_timesheets_week ON timesheets(week_start);

	CREATE TABLE IF NOT EXISTS approvals (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		week_start TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		approved_by TEXT NOT NULL,
		approved_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS denials (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		week_start TEXT NOT NULL,
		reason TEXT NOT NULL,
		denied_by TEXT NOT NULL,
		denied_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TIMESHEETS
// =============================================================================

// GetTimesheet loads one employee-week with its ordered entries.
func (s *Store) GetTimesheet(ctx context.Context, email string, week timesheet.Week) (*timesheet.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.getTimesheetLocked(ctx, email, week)
}

func (s *Store) getTimesheetLocked(ctx context.Context, email string, week timesheet.Week) (*timesheet.Timesheet, error) {
	ts := &timesheet.Timesheet{Email: email, Week: week}

	var status, reason, updatedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT status, rejection_reason, version, updated_at
		FROM timesheets WHERE email = ? AND week_start = ?`,
		email, week.Start.ISO(),
	).Scan(&status, &reason, &ts.Version, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, timesheet.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load timesheet header: %w", err)
	}

	ts.Status, err = timesheet.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	ts.RejectionReason = reason
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		ts.UpdatedAt = t
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, hours, task_description, work_type
		FROM time_entries WHERE email = ? AND week_start = ?
		ORDER BY position`,
		email, week.Start.ISO(),
	)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e timesheet.Entry
		var date, hours, workType string
		if err := rows.Scan(&e.ID, &date, &hours, &e.TaskDescription, &workType); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		if e.Date, err = timesheet.ParseISO(date); err != nil {
			return nil, err
		}
		if e.Hours, err = decimal.NewFromString(hours); err != nil {
			return nil, fmt.Errorf("bad hours %q: %w", hours, err)
		}
		e.WorkType = timesheet.WorkType(workType)
		ts.Entries = append(ts.Entries, e)
	}
	return ts, rows.Err()
}

// SaveTimesheet upserts the header and replaces the entry list atomically,
// guarded by the optimistic version check.
func (s *Store) SaveTimesheet(ctx context.Context, ts *timesheet.Timesheet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	weekStart := ts.Week.Start.ISO()

	var stored int64
	err = tx.QueryRowContext(ctx,
		`SELECT version FROM timesheets WHERE email = ? AND week_start = ?`,
		ts.Email, weekStart,
	).Scan(&stored)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if ts.Version != 0 {
			return timesheet.ErrConcurrentModification
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO timesheets (email, week_start, status, rejection_reason, version, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			ts.Email, weekStart, string(ts.Status), ts.RejectionReason,
			ts.Version+1, now.Format(time.RFC3339), now.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("insert header: %w", err)
		}
	case err != nil:
		return fmt.Errorf("version check: %w", err)
	default:
		if stored != ts.Version {
			return timesheet.ErrConcurrentModification
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE timesheets
			SET status = ?, rejection_reason = ?, version = ?, updated_at = ?
			WHERE email = ? AND week_start = ?`,
			string(ts.Status), ts.RejectionReason, ts.Version+1,
			now.Format(time.RFC3339), ts.Email, weekStart,
		); err != nil {
			return fmt.Errorf("update header: %w", err)
		}
	}

	// Replace the entry list wholesale; position preserves row order.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM time_entries WHERE email = ? AND week_start = ?`,
		ts.Email, weekStart,
	); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}
	for i, e := range ts.Entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO time_entries (id, email, week_start, position, date, hours, task_description, work_type)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, ts.Email, weekStart, i, e.Date.ISO(), e.Hours.String(),
			e.TaskDescription, string(e.WorkType),
		); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	ts.Version++
	ts.UpdatedAt = now
	return nil
}

// ListByStatus returns all timesheets in one status, with entries.
func (s *Store) ListByStatus(ctx context.Context, status timesheet.Status) ([]*timesheet.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.listLocked(ctx,
		`SELECT email, week_start FROM timesheets WHERE status = ? ORDER BY email, week_start`,
		string(status))
}

// ListInRange returns all timesheets whose week start falls in [from, to].
// Zero bounds are open.
func (s *Store) ListInRange(ctx context.Context, from, to timesheet.Date) ([]*timesheet.Timesheet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT email, week_start FROM timesheets`
	var args []any
	switch {
	case !from.IsZero() && !to.IsZero():
		query += ` WHERE week_start >= ? AND week_start <= ?`
		args = append(args, from.ISO(), to.ISO())
	case !from.IsZero():
		query += ` WHERE week_start >= ?`
		args = append(args, from.ISO())
	case !to.IsZero():
		query += ` WHERE week_start <= ?`
		args = append(args, to.ISO())
	}
	query += ` ORDER BY email, week_start`

	return s.listLocked(ctx, query, args...)
}

func (s *Store) listLocked(ctx context.Context, query string, args ...any) ([]*timesheet.Timesheet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}

	type ident struct {
		email string
		week  timesheet.Week
	}
	var idents []ident
	for rows.Next() {
		var email, weekStart string
		if err := rows.Scan(&email, &weekStart); err != nil {
			rows.Close()
			return nil, err
		}
		start, err := timesheet.ParseISO(weekStart)
		if err != nil {
			rows.Close()
			return nil, err
		}
		idents = append(idents, ident{email: email, week: timesheet.Week{Start: start}})
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sheets := make([]*timesheet.Timesheet, 0, len(idents))
	for _, id := range idents {
		ts, err := s.getTimesheetLocked(ctx, id.email, id.week)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, ts)
	}
	return sheets, nil
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func (s *Store) GetEmployee(ctx context.Context, email string) (*timesheet.Employee, error) {
	return s.employee(ctx, `SELECT name, employee_id, email, password_hash, role FROM employees WHERE email = ?`, email)
}

func (s *Store) GetEmployeeByID(ctx context.Context, employeeID string) (*timesheet.Employee, error) {
	return s.employee(ctx, `SELECT name, employee_id, email, password_hash, role FROM employees WHERE employee_id = ?`, employeeID)
}

func (s *Store) employee(ctx context.Context, query, arg string) (*timesheet.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e timesheet.Employee
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&e.Name, &e.EmployeeID, &e.Email, &e.PasswordHash, &e.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, timesheet.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load employee: %w", err)
	}
	return &e, nil
}

func (s *Store) SaveEmployee(ctx context.Context, e timesheet.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Upsert by email, matching the in-memory directory.
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (email, name, employee_id, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			employee_id = excluded.employee_id,
			password_hash = excluded.password_hash,
			role = excluded.role`,
		e.Email, e.Name, e.EmployeeID, e.PasswordHash, e.Role,
	)
	if err != nil {
		return fmt.Errorf("save employee: %w", err)
	}
	return nil
}

// =============================================================================
// AUDIT LOG
// =============================================================================

func (s *Store) RecordApproval(ctx context.Context, rec review.ApprovalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO approvals (id, email, week_start, total_hours, approved_by, approved_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Email, rec.WeekStart.ISO(), rec.TotalHours.String(),
		rec.ApprovedBy, rec.ApprovedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record approval: %w", err)
	}
	return nil
}

func (s *Store) RecordDenial(ctx context.Context, rec review.DenialRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO denials (id, email, week_start, reason, denied_by, denied_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Email, rec.WeekStart.ISO(), rec.Reason,
		rec.DeniedBy, rec.DeniedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record denial: %w", err)
	}
	return nil
}

// =============================================================================
// SESSIONS
// =============================================================================

func (s *Store) CreateSession(ctx context.Context, session auth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, email, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		session.Token, session.Email,
		session.CreatedAt.UTC().Format(time.RFC3339),
		session.ExpiresAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *Store) GetSession(ctx context.Context, token string) (*auth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var session auth.Session
	var createdAt, expiresAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, email, created_at, expires_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&session.Token, &session.Email, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, timesheet.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	session.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	session.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt)
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	return err
}
