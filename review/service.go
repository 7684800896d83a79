/*
Package review provides the administrator-facing orchestration over many
timesheets: listing pending submissions, approve/reject decisions, and
filtered reporting.

QUERY PARAMETERIZATION:
  The filtered report takes (date range, status). The report stats take only
  the date range and are computed across ALL statuses. The two queries are
  deliberately parameterized independently; the stats query never sees the
  status filter.

AUDIT TRAIL:
  Every admin decision writes an audit record (who acted, when, the week's
  total hours or the denial reason) alongside the status transition.
*/
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// PROJECTIONS
// =============================================================================

// SubmissionSummary is the read-only admin view of one submitted week.
type SubmissionSummary struct {
	EmployeeName string
	EmployeeID   string
	Email        string
	WeekStart    timesheet.Date
	TotalHours   decimal.Decimal
	Status       timesheet.Status
}

// ReportRow is one line of the filtered report.
type ReportRow struct {
	EmployeeName string
	EmployeeID   string
	Email        string
	WeekStart    timesheet.Date
	TotalHours   decimal.Decimal
	Status       timesheet.Status
}

// ReportStats aggregates a date range across all statuses.
type ReportStats struct {
	TotalHours decimal.Decimal
	Approved   int
	Pending    int
	Rejected   int
}

// DashboardStats is the admin landing-page counters.
type DashboardStats struct {
	Pending int
	Total   int
}

// =============================================================================
// AUDIT RECORDS
// =============================================================================

// ApprovalRecord captures one approval decision.
type ApprovalRecord struct {
	ID         string
	Email      string
	WeekStart  timesheet.Date
	TotalHours decimal.Decimal
	ApprovedBy string
	ApprovedAt time.Time
}

// DenialRecord captures one rejection decision.
type DenialRecord struct {
	ID        string
	Email     string
	WeekStart timesheet.Date
	Reason    string
	DeniedBy  string
	DeniedAt  time.Time
}

// AuditLog records admin decisions. Implemented by store/sqlite.
type AuditLog interface {
	RecordApproval(ctx context.Context, rec ApprovalRecord) error
	RecordDenial(ctx context.Context, rec DenialRecord) error
}

// NopAuditLog discards audit records (tests, dev without persistence).
type NopAuditLog struct{}

func (NopAuditLog) RecordApproval(context.Context, ApprovalRecord) error { return nil }
func (NopAuditLog) RecordDenial(context.Context, DenialRecord) error    { return nil }

// =============================================================================
// SERVICE
// =============================================================================

// Service orchestrates admin review over the timesheet store.
type Service struct {
	Store     timesheet.Store
	Directory timesheet.EmployeeDirectory
	Audit     AuditLog
}

func NewService(store timesheet.Store, dir timesheet.EmployeeDirectory, audit AuditLog) *Service {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &Service{Store: store, Directory: dir, Audit: audit}
}

// ListPending returns all Submitted timesheets as summaries.
func (s *Service) ListPending(ctx context.Context) ([]SubmissionSummary, error) {
	sheets, err := s.Store.ListByStatus(ctx, timesheet.StatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}

	summaries := make([]SubmissionSummary, 0, len(sheets))
	for _, ts := range sheets {
		name, empID := s.identity(ctx, ts.Email)
		summaries = append(summaries, SubmissionSummary{
			EmployeeName: name,
			EmployeeID:   empID,
			Email:        ts.Email,
			WeekStart:    ts.Week.Start,
			TotalHours:   ts.TotalHours(),
			Status:       ts.Status,
		})
	}
	return summaries, nil
}

// Approve transitions one Submitted week to Approved and records the
// decision. Approving a week in any other status is a caller error.
func (s *Service) Approve(ctx context.Context, email string, week timesheet.Week, adminEmail string) error {
	ts, err := s.Store.GetTimesheet(ctx, email, week)
	if err != nil {
		return err
	}
	if err := ts.Approve(); err != nil {
		return err
	}
	if err := s.Store.SaveTimesheet(ctx, ts); err != nil {
		return err
	}

	return s.Audit.RecordApproval(ctx, ApprovalRecord{
		ID:         uuid.NewString(),
		Email:      email,
		WeekStart:  week.Start,
		TotalHours: ts.TotalHours(),
		ApprovedBy: adminEmail,
		ApprovedAt: time.Now(),
	})
}

// Reject transitions one Submitted week to Denied with a mandatory reason.
func (s *Service) Reject(ctx context.Context, email string, week timesheet.Week, reason, adminEmail string) error {
	ts, err := s.Store.GetTimesheet(ctx, email, week)
	if err != nil {
		return err
	}
	if err := ts.Reject(reason); err != nil {
		return err
	}
	if err := s.Store.SaveTimesheet(ctx, ts); err != nil {
		return err
	}

	return s.Audit.RecordDenial(ctx, DenialRecord{
		ID:        uuid.NewString(),
		Email:     email,
		WeekStart: week.Start,
		Reason:    reason,
		DeniedBy:  adminEmail,
		DeniedAt:  time.Now(),
	})
}

// Stats returns the dashboard counters: pending submissions and total
// timesheets on record.
func (s *Service) Stats(ctx context.Context) (DashboardStats, error) {
	all, err := s.Store.ListInRange(ctx, timesheet.Date{}, timesheet.Date{})
	if err != nil {
		return DashboardStats{}, err
	}

	stats := DashboardStats{Total: len(all)}
	for _, ts := range all {
		if ts.Status.Pending() {
			stats.Pending++
		}
	}
	return stats, nil
}

// FilteredReport returns the rows matching the date range AND the status.
func (s *Service) FilteredReport(ctx context.Context, from, to timesheet.Date, status timesheet.Status) ([]ReportRow, error) {
	sheets, err := s.Store.ListInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("filtered report: %w", err)
	}

	rows := make([]ReportRow, 0, len(sheets))
	for _, ts := range sheets {
		if ts.Status != status {
			continue
		}
		name, empID := s.identity(ctx, ts.Email)
		rows = append(rows, ReportRow{
			EmployeeName: name,
			EmployeeID:   empID,
			Email:        ts.Email,
			WeekStart:    ts.Week.Start,
			TotalHours:   ts.TotalHours(),
			Status:       ts.Status,
		})
	}
	return rows, nil
}

// ReportStats aggregates the full date range across all statuses. It takes
// no status parameter: the stats always reflect everything in range,
// whatever rows the filtered listing shows.
func (s *Service) ReportStats(ctx context.Context, from, to timesheet.Date) (ReportStats, error) {
	sheets, err := s.Store.ListInRange(ctx, from, to)
	if err != nil {
		return ReportStats{}, fmt.Errorf("report stats: %w", err)
	}

	stats := ReportStats{TotalHours: decimal.Zero}
	for _, ts := range sheets {
		stats.TotalHours = stats.TotalHours.Add(ts.TotalHours())
		switch ts.Status {
		case timesheet.StatusApproved:
			stats.Approved++
		case timesheet.StatusSubmitted:
			stats.Pending++
		case timesheet.StatusDenied:
			stats.Rejected++
		}
	}
	return stats, nil
}

// identity resolves a display name and employee id, tolerating directory
// gaps so a missing account never hides a submitted week from review.
func (s *Service) identity(ctx context.Context, email string) (name, employeeID string) {
	if s.Directory == nil {
		return "", ""
	}
	emp, err := s.Directory.GetEmployee(ctx, email)
	if err != nil {
		return "", ""
	}
	return emp.Name, emp.EmployeeID
}
