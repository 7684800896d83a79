/*
store.go - Persistence interfaces for timesheets and employees

PURPOSE:
  Defines the interface between the domain logic and the database. Different
  implementations can use SQLite or in-memory storage.

OPTIMISTIC LOCKING CONTRACT:
  SaveTimesheet compares the record's Version against the persisted one.
  A stale version fails with ErrConcurrentModification and writes nothing.
  On success the store bumps Version and UpdatedAt on the passed record.

IMPLEMENTATIONS:
  - store/sqlite: production store
  - timesheet/store: in-memory store for tests and dev
*/
package timesheet

import "context"

// =============================================================================
// STORE - Timesheet persistence
// =============================================================================

// Store persists timesheets keyed by (email, week start).
type Store interface {
	// GetTimesheet loads one employee-week. Returns ErrNotFound when the
	// week has never been saved.
	GetTimesheet(ctx context.Context, email string, week Week) (*Timesheet, error)

	// SaveTimesheet persists the header and replaces the entry list
	// atomically, subject to the optimistic locking contract above.
	SaveTimesheet(ctx context.Context, ts *Timesheet) error

	// ListByStatus returns all timesheets currently in the given status.
	ListByStatus(ctx context.Context, status Status) ([]*Timesheet, error)

	// ListInRange returns all timesheets whose week start falls in
	// [from, to], regardless of status. Zero bounds are open.
	ListInRange(ctx context.Context, from, to Date) ([]*Timesheet, error)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// Employee is an account that owns timesheets or reviews them.
type Employee struct {
	Name         string
	EmployeeID   string
	Email        string
	PasswordHash string
	Role         string // "Employee" or "Admin"
}

const (
	RoleEmployee = "Employee"
	RoleAdmin    = "Admin"
)

// EmployeeDirectory resolves employee identities.
type EmployeeDirectory interface {
	// GetEmployee looks up by email. Returns ErrNotFound when absent.
	GetEmployee(ctx context.Context, email string) (*Employee, error)

	// GetEmployeeByID looks up by the human-assigned employee id.
	GetEmployeeByID(ctx context.Context, employeeID string) (*Employee, error)

	// SaveEmployee creates an employee record.
	SaveEmployee(ctx context.Context, e Employee) error
}
