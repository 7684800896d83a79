package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/review"
	"github.com/warp/timesheet-engine/timesheet"
	memstore "github.com/warp/timesheet-engine/timesheet/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*review.Service, *memstore.Memory) {
	t.Helper()
	mem := memstore.NewMemory()
	svc := review.NewService(mem, mem, nil)
	return svc, mem
}

func week(day int) timesheet.Week {
	return timesheet.Week{Start: timesheet.NewDate(2026, time.January, day)}
}

func seedEmployee(t *testing.T, mem *memstore.Memory, name, id, email string) {
	t.Helper()
	require.NoError(t, mem.SaveEmployee(context.Background(), timesheet.Employee{
		Name:       name,
		EmployeeID: id,
		Email:      email,
		Role:       timesheet.RoleEmployee,
	}))
}

func seedSheet(t *testing.T, mem *memstore.Memory, email string, wk timesheet.Week, status timesheet.Status) *timesheet.Timesheet {
	t.Helper()
	ts := &timesheet.Timesheet{
		Email:  email,
		Week:   wk,
		Status: status,
	}
	for _, day := range wk.WorkingDays() {
		ts.Entries = append(ts.Entries, timesheet.Entry{
			ID:              uuid.NewString(),
			Date:            day,
			Hours:           timesheet.MaxDailyHours,
			TaskDescription: "project work",
			WorkType:        timesheet.WorkBillable,
		})
	}
	require.NoError(t, mem.SaveTimesheet(context.Background(), ts))
	return ts
}

// =============================================================================
// PENDING LIST
// =============================================================================

func TestListPending_ProjectsIdentityAndTotals(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	seedEmployee(t, mem, "Jordan Rivera", "EMP-0002", "jordan@example.com")
	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusSubmitted)
	seedSheet(t, mem, "jordan@example.com", week(11), timesheet.StatusApproved) // not pending

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	got := pending[0]
	assert.Equal(t, "Jordan Rivera", got.EmployeeName)
	assert.Equal(t, "EMP-0002", got.EmployeeID)
	assert.Equal(t, "jordan@example.com", got.Email)
	assert.Equal(t, week(4).Start, got.WeekStart)
	assert.True(t, got.TotalHours.Equal(decimal.NewFromInt(40)), "total should be 40, got %v", got.TotalHours)
	assert.Equal(t, timesheet.StatusSubmitted, got.Status)
}

func TestListPending_SurvivesMissingDirectoryEntry(t *testing.T) {
	svc, mem := newTestService(t)

	// Submission without a directory record must still appear for review.
	seedSheet(t, mem, "ghost@example.com", week(4), timesheet.StatusSubmitted)

	pending, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Empty(t, pending[0].EmployeeName)
}

// =============================================================================
// DECISIONS
// =============================================================================

func TestApprove_TransitionsAndPersists(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusSubmitted)

	require.NoError(t, svc.Approve(ctx, "jordan@example.com", week(4), "admin@example.com"))

	stored, err := mem.GetTimesheet(ctx, "jordan@example.com", week(4))
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusApproved, stored.Status)
}

func TestApprove_AlreadyApprovedIsCallerError(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusApproved)

	err := svc.Approve(ctx, "jordan@example.com", week(4), "admin@example.com")
	assert.ErrorIs(t, err, timesheet.ErrInvalidTransition)
}

func TestApprove_UnknownWeek(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Approve(context.Background(), "nobody@example.com", week(4), "admin@example.com")
	assert.ErrorIs(t, err, timesheet.ErrNotFound)
}

func TestReject_StoresReason(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusSubmitted)

	err := svc.Reject(ctx, "jordan@example.com", week(4), "", "admin@example.com")
	assert.ErrorIs(t, err, timesheet.ErrEmptyRejectionReason, "empty reason must be refused")

	require.NoError(t, svc.Reject(ctx, "jordan@example.com", week(4), "incomplete entries", "admin@example.com"))

	stored, err := mem.GetTimesheet(ctx, "jordan@example.com", week(4))
	require.NoError(t, err)
	assert.Equal(t, timesheet.StatusDenied, stored.Status)
	assert.Equal(t, "incomplete entries", stored.RejectionReason)
}

type captureAudit struct {
	approvals []review.ApprovalRecord
	denials   []review.DenialRecord
}

func (c *captureAudit) RecordApproval(_ context.Context, rec review.ApprovalRecord) error {
	c.approvals = append(c.approvals, rec)
	return nil
}

func (c *captureAudit) RecordDenial(_ context.Context, rec review.DenialRecord) error {
	c.denials = append(c.denials, rec)
	return nil
}

func TestDecisions_WriteAuditRecords(t *testing.T) {
	mem := memstore.NewMemory()
	audit := &captureAudit{}
	svc := review.NewService(mem, mem, audit)
	ctx := context.Background()

	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusSubmitted)
	seedSheet(t, mem, "sam@example.com", week(4), timesheet.StatusSubmitted)

	require.NoError(t, svc.Approve(ctx, "jordan@example.com", week(4), "admin@example.com"))
	require.NoError(t, svc.Reject(ctx, "sam@example.com", week(4), "hours mismatch", "admin@example.com"))

	require.Len(t, audit.approvals, 1)
	assert.Equal(t, "admin@example.com", audit.approvals[0].ApprovedBy)
	assert.True(t, audit.approvals[0].TotalHours.Equal(decimal.NewFromInt(40)))

	require.Len(t, audit.denials, 1)
	assert.Equal(t, "hours mismatch", audit.denials[0].Reason)
}

// =============================================================================
// STATS AND REPORTS
// =============================================================================

func TestStats_CountsPendingAndTotal(t *testing.T) {
	svc, mem := newTestService(t)

	seedSheet(t, mem, "a@example.com", week(4), timesheet.StatusSubmitted)
	seedSheet(t, mem, "b@example.com", week(4), timesheet.StatusApproved)
	seedSheet(t, mem, "c@example.com", week(4), timesheet.StatusDenied)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 3, stats.Total)
}

func TestFilteredReport_AppliesRangeAndStatus(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()

	seedEmployee(t, mem, "Jordan Rivera", "EMP-0002", "jordan@example.com")
	seedSheet(t, mem, "jordan@example.com", week(4), timesheet.StatusApproved)
	seedSheet(t, mem, "jordan@example.com", week(11), timesheet.StatusSubmitted)
	seedSheet(t, mem, "jordan@example.com", week(18), timesheet.StatusApproved) // outside range

	from := timesheet.NewDate(2026, time.January, 1)
	to := timesheet.NewDate(2026, time.January, 15)

	rows, err := svc.FilteredReport(ctx, from, to, timesheet.StatusApproved)
	require.NoError(t, err)
	require.Len(t, rows, 1, "range AND status must both apply")
	assert.Equal(t, week(4).Start, rows[0].WeekStart)
}

func TestReportStats_IgnoresStatusFilter(t *testing.T) {
	// GIVEN: Approved, Submitted and Denied weeks in range
	// WHEN: Computing report stats for the range
	// THEN: All statuses are aggregated, whatever the row listing filters by

	svc, mem := newTestService(t)
	ctx := context.Background()

	seedSheet(t, mem, "a@example.com", week(4), timesheet.StatusApproved)
	seedSheet(t, mem, "b@example.com", week(4), timesheet.StatusSubmitted)
	seedSheet(t, mem, "c@example.com", week(11), timesheet.StatusDenied)

	from := timesheet.NewDate(2026, time.January, 1)
	to := timesheet.NewDate(2026, time.January, 31)

	stats, err := svc.ReportStats(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Rejected)
	assert.True(t, stats.TotalHours.Equal(decimal.NewFromInt(120)), "3 full weeks, got %v", stats.TotalHours)
}
