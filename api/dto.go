/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

WIRE COMPATIBILITY:
  The legacy collaborator interface denormalizes the week's status and
  rejection reason onto every entry row of GET /timesheets/week. Internally
  the timesheet is one header + entry list; EntryRowDTO reproduces the
  denormalized shape at this boundary only.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain engine, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/review"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// TIMESHEET TYPES
// =============================================================================

// EntryRowDTO is one entry row of GET /timesheets/week. Status and
// rejection_reason are the week's header fields, duplicated per row for
// compatibility with the legacy interface.
type EntryRowDTO struct {
	EntryID         string  `json:"entry_id"`
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	TaskDescription string  `json:"task_description"`
	WorkType        string  `json:"work_type"`
	Status          string  `json:"status"`
	RejectionReason string  `json:"rejection_reason,omitempty"`
}

// SaveEntryRequest is one entry row of POST /timesheets/save.
type SaveEntryRequest struct {
	Date            string  `json:"date"`
	Hours           float64 `json:"hours"`
	TaskDescription string  `json:"task_description"`
	WorkType        string  `json:"work_type"`
}

// SaveTimesheetRequest is the body of POST /timesheets/save.
type SaveTimesheetRequest struct {
	WeekStartDate string             `json:"week_start_date"`
	Entries       []SaveEntryRequest `json:"entries"`
}

// =============================================================================
// ADMIN TYPES
// =============================================================================

// SubmissionSummaryDTO is one pending week in GET /admin/submitted-weeks.
type SubmissionSummaryDTO struct {
	Name          string  `json:"name"`
	EmployeeID    string  `json:"employee_id"`
	Email         string  `json:"email"`
	WeekStartDate string  `json:"week_start_date"`
	Hours         float64 `json:"hours"`
	Status        string  `json:"status"`
}

// AdminActionRequest is the body of POST /admin/approve and /admin/reject.
type AdminActionRequest struct {
	Email         string `json:"email"`
	WeekStartDate string `json:"week_start_date"`
	Reason        string `json:"reason,omitempty"`
}

// DashboardStatsDTO is GET /admin/stats.
type DashboardStatsDTO struct {
	Pending int `json:"pending"`
	Total   int `json:"total"`
}

// ReportRowDTO is one line of GET /admin/reports/filtered.
type ReportRowDTO struct {
	Name          string `json:"name"`
	EmployeeID    string `json:"employee_id"`
	Email         string `json:"email"`
	WeekStartDate string `json:"week_start_date"`
	Hours         string `json:"hours"` // rendered as "40h"
	Status        string `json:"status"`
}

// ReportStatsDTO is GET /admin/reports/stats.
type ReportStatsDTO struct {
	TotalHours float64 `json:"total_hours"`
	Approved   int     `json:"approved"`
	Pending    int     `json:"pending"`
	Rejected   int     `json:"rejected"`
}

// =============================================================================
// AUTH TYPES
// =============================================================================

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// IdentityDTO is the authenticated actor returned by login/signup.
type IdentityDTO struct {
	Name       string `json:"name"`
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Token      string `json:"token,omitempty"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func entryRows(ts *timesheet.Timesheet) []EntryRowDTO {
	rows := make([]EntryRowDTO, len(ts.Entries))
	for i, e := range ts.Entries {
		rows[i] = EntryRowDTO{
			EntryID:         e.ID,
			Date:            e.Date.ISO(),
			Hours:           e.Hours.InexactFloat64(),
			TaskDescription: e.TaskDescription,
			WorkType:        string(e.WorkType),
			Status:          string(ts.Status),
			RejectionReason: ts.RejectionReason,
		}
	}
	return rows
}

func summaryDTO(s review.SubmissionSummary) SubmissionSummaryDTO {
	return SubmissionSummaryDTO{
		Name:          s.EmployeeName,
		EmployeeID:    s.EmployeeID,
		Email:         s.Email,
		WeekStartDate: s.WeekStart.ISO(),
		Hours:         s.TotalHours.InexactFloat64(),
		Status:        string(s.Status),
	}
}

func reportRowDTO(r review.ReportRow) ReportRowDTO {
	return ReportRowDTO{
		Name:          r.EmployeeName,
		EmployeeID:    r.EmployeeID,
		Email:         r.Email,
		WeekStartDate: r.WeekStart.ISO(),
		Hours:         r.TotalHours.Round(1).String() + "h",
		Status:        string(r.Status),
	}
}

func hoursFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
