// Package store provides an in-memory Store implementation (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu         sync.RWMutex
	timesheets map[key]*timesheet.Timesheet
	employees  map[string]timesheet.Employee
}

type key struct {
	Email     string
	WeekStart timesheet.Date
}

func NewMemory() *Memory {
	return &Memory{
		timesheets: make(map[key]*timesheet.Timesheet),
		employees:  make(map[string]timesheet.Employee),
	}
}

// GetTimesheet returns a copy of the stored record, so callers can mutate
// freely before saving back.
func (m *Memory) GetTimesheet(_ context.Context, email string, week timesheet.Week) (*timesheet.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ts, ok := m.timesheets[key{Email: email, WeekStart: week.Start}]
	if !ok {
		return nil, timesheet.ErrNotFound
	}
	return clone(ts), nil
}

// SaveTimesheet stores a copy of the record. A stale Version fails with
// ErrConcurrentModification; on success the caller's Version is bumped.
func (m *Memory) SaveTimesheet(_ context.Context, ts *timesheet.Timesheet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{Email: ts.Email, WeekStart: ts.Week.Start}
	if existing, ok := m.timesheets[k]; ok && existing.Version != ts.Version {
		return timesheet.ErrConcurrentModification
	}

	ts.Version++
	ts.UpdatedAt = time.Now()
	m.timesheets[k] = clone(ts)
	return nil
}

func (m *Memory) ListByStatus(_ context.Context, status timesheet.Status) ([]*timesheet.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*timesheet.Timesheet
	for _, ts := range m.timesheets {
		if ts.Status == status {
			out = append(out, clone(ts))
		}
	}
	sortByIdentity(out)
	return out, nil
}

func (m *Memory) ListInRange(_ context.Context, from, to timesheet.Date) ([]*timesheet.Timesheet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*timesheet.Timesheet
	for _, ts := range m.timesheets {
		if !from.IsZero() && ts.Week.Start.Before(from) {
			continue
		}
		if !to.IsZero() && ts.Week.Start.After(to) {
			continue
		}
		out = append(out, clone(ts))
	}
	sortByIdentity(out)
	return out, nil
}

// -----------------------------------------------------------------------------
// Employee directory
// -----------------------------------------------------------------------------

func (m *Memory) GetEmployee(_ context.Context, email string) (*timesheet.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[email]
	if !ok {
		return nil, timesheet.ErrNotFound
	}
	return &e, nil
}

func (m *Memory) GetEmployeeByID(_ context.Context, employeeID string) (*timesheet.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.employees {
		if e.EmployeeID == employeeID {
			e := e
			return &e, nil
		}
	}
	return nil, timesheet.ErrNotFound
}

func (m *Memory) SaveEmployee(_ context.Context, e timesheet.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.employees[e.Email] = e
	return nil
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func clone(ts *timesheet.Timesheet) *timesheet.Timesheet {
	cp := *ts
	cp.Entries = make([]timesheet.Entry, len(ts.Entries))
	copy(cp.Entries, ts.Entries)
	return &cp
}

func sortByIdentity(list []*timesheet.Timesheet) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Email != list[j].Email {
			return list[i].Email < list[j].Email
		}
		return list[i].Week.Start.Before(list[j].Week.Start)
	})
}
