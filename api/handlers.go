/*
handlers.go - HTTP API handlers for the timesheet engine

PURPOSE:
  Exposes the timesheet engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Auth:
    POST   /api/auth/signup             Create an account
    POST   /api/auth/login              Verify credentials, issue a session

  Timesheets (employee):
    GET    /api/timesheets/periods      Selectable past weeks
    GET    /api/timesheets/week         Entry rows for one employee-week
    POST   /api/timesheets/save         Save draft / submit (status param)

  Admin:
    GET    /api/admin/submitted-weeks   Pending submissions
    GET    /api/admin/stats             Dashboard counters
    POST   /api/admin/approve           Submitted -> Approved
    POST   /api/admin/reject            Submitted -> Denied (reason required)
    GET    /api/admin/reports/filtered  Rows for range AND status
    GET    /api/admin/reports/stats     Aggregate for range (all statuses)
    GET    /api/admin/reports/download  Filtered detail rows as CSV

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed input
  - 401: Bad credentials
  - 404: Record not found
  - 409: Read-only mutation, illegal transition, lost update
  - 500: Internal errors

REQUEST FLOW:
  1. Parse HTTP request
  2. Delegate to domain logic (timesheet, review, auth)
  3. Serialize response
  4. Map errors to status codes

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/auth"
	"github.com/warp/timesheet-engine/review"
	"github.com/warp/timesheet-engine/timesheet"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     timesheet.Store
	Directory timesheet.EmployeeDirectory
	Review    *review.Service
	Auth      *auth.Service

	// Now supplies the reference date for the selectable-weeks window.
	// Overridable in tests.
	Now func() time.Time
}

// NewHandler creates a new handler over the given store and services.
func NewHandler(store timesheet.Store, dir timesheet.EmployeeDirectory, rev *review.Service, au *auth.Service) *Handler {
	return &Handler{
		Store:     store,
		Directory: dir,
		Review:    rev,
		Auth:      au,
		Now:       time.Now,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Signup creates an account.
// POST /api/auth/signup
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Auth.Signup(r.Context(), auth.SignupInput{
		Name:       req.Name,
		EmployeeID: req.EmployeeID,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
	})
	if err != nil {
		writeError(w, statusFor(err), "Signup failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, IdentityDTO{
		Name:       emp.Name,
		EmployeeID: emp.EmployeeID,
		Email:      emp.Email,
		Role:       emp.Role,
	})
}

// Login verifies credentials and issues a session token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	id, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, statusFor(err), "Login failed", err)
		return
	}

	writeJSON(w, http.StatusOK, IdentityDTO{
		Name:       id.Name,
		EmployeeID: id.EmployeeID,
		Email:      id.Email,
		Role:       id.Role,
		Token:      id.Token,
	})
}

// =============================================================================
// TIMESHEET HANDLERS
// =============================================================================

// ListPeriods returns the selectable past weeks, most recent first.
// GET /api/timesheets/periods
func (h *Handler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	type periodDTO struct {
		WeekStartDate string   `json:"week_start_date"`
		Label         string   `json:"label"`
		WorkingDays   []string `json:"working_days"`
	}

	weeks := timesheet.PastWeeks(timesheet.DateOf(h.Now()))
	dtos := make([]periodDTO, len(weeks))
	for i, wk := range weeks {
		dtos[i] = periodDTO{
			WeekStartDate: wk.Start.ISO(),
			Label:         wk.RangeLabel(),
			WorkingDays:   wk.WorkingDayLabels(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWeek returns the entry rows for one employee-week, or an empty array
// when the week has never been saved.
// GET /api/timesheets/week?email&week_start_date
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	week, err := weekParam(r.URL.Query().Get("week_start_date"))
	if email == "" || err != nil {
		writeError(w, http.StatusBadRequest, "email and week_start_date are required", err)
		return
	}

	ts, err := h.Store.GetTimesheet(r.Context(), email, week)
	if errors.Is(err, timesheet.ErrNotFound) {
		writeJSON(w, http.StatusOK, []EntryRowDTO{})
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load timesheet", err)
		return
	}

	writeJSON(w, http.StatusOK, entryRows(ts))
}

// SaveWeek persists a week's entries. With status=Submitted the save is a
// submission and the weekly-total gate applies.
// POST /api/timesheets/save?email[&status=Submitted]
func (h *Handler) SaveWeek(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeError(w, http.StatusBadRequest, "email is required", nil)
		return
	}
	submit := r.URL.Query().Get("status") == string(timesheet.StatusSubmitted)

	var req SaveTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	week, err := weekParam(req.WeekStartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_start_date", err)
		return
	}

	ts, err := h.Store.GetTimesheet(r.Context(), email, week)
	if errors.Is(err, timesheet.ErrNotFound) {
		ts = &timesheet.Timesheet{
			Email:  email,
			Week:   week,
			Status: timesheet.StatusNew,
		}
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load timesheet", err)
		return
	}

	if !ts.Status.Editable() {
		writeError(w, http.StatusConflict, "Timesheet is read-only", timesheet.ErrReadOnly)
		return
	}

	entries, err := buildEntries(week, req.Entries)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entries", err)
		return
	}
	ts.Entries = entries

	if submit {
		err = ts.Submit()
	} else {
		err = ts.PrepareSave()
	}
	if err != nil {
		writeError(w, statusFor(err), "Validation failed", err)
		return
	}

	if err := h.Store.SaveTimesheet(r.Context(), ts); err != nil {
		writeError(w, statusFor(err), "Failed to save timesheet", err)
		return
	}

	writeJSON(w, http.StatusOK, entryRows(ts))
}

// buildEntries converts wire rows into domain entries. Hours are sanitized
// and the Holiday coupling is enforced here, mirroring the field-change
// behavior of the editing surface.
func buildEntries(week timesheet.Week, rows []SaveEntryRequest) ([]timesheet.Entry, error) {
	entries := make([]timesheet.Entry, 0, len(rows))
	for i, row := range rows {
		date, err := timesheet.ParseISO(row.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i+1, err)
		}
		if !week.IsWorkingDay(date) {
			return nil, fmt.Errorf("entry %d: %w", i+1, timesheet.ErrOutsideWeek)
		}

		wt := timesheet.WorkType(row.WorkType)
		if !wt.Valid() {
			return nil, fmt.Errorf("entry %d: unknown work type %q", i+1, row.WorkType)
		}

		hours := timesheet.SanitizeHours(hoursFromFloat(row.Hours))
		if wt == timesheet.WorkHoliday {
			hours = timesheet.MaxDailyHours
		}

		entries = append(entries, timesheet.Entry{
			ID:              uuid.NewString(),
			Date:            date,
			Hours:           hours,
			TaskDescription: row.TaskDescription,
			WorkType:        wt,
		})
	}
	return entries, nil
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ListSubmittedWeeks returns all pending submissions.
// GET /api/admin/submitted-weeks
func (h *Handler) ListSubmittedWeeks(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Review.ListPending(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list submitted weeks", err)
		return
	}

	dtos := make([]SubmissionSummaryDTO, len(summaries))
	for i, s := range summaries {
		dtos[i] = summaryDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetStats returns the dashboard counters.
// GET /api/admin/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Review.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute stats", err)
		return
	}
	writeJSON(w, http.StatusOK, DashboardStatsDTO{Pending: stats.Pending, Total: stats.Total})
}

// ApproveWeek transitions one submitted week to Approved.
// POST /api/admin/approve?admin_email
func (h *Handler) ApproveWeek(w http.ResponseWriter, r *http.Request) {
	email, week, _, ok := h.adminAction(w, r)
	if !ok {
		return
	}

	if err := h.Review.Approve(r.Context(), email, week, adminEmail(r)); err != nil {
		writeError(w, statusFor(err), "Approval failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Timesheet approved successfully"})
}

// RejectWeek transitions one submitted week to Denied with a reason.
// POST /api/admin/reject?admin_email
func (h *Handler) RejectWeek(w http.ResponseWriter, r *http.Request) {
	email, week, reason, ok := h.adminAction(w, r)
	if !ok {
		return
	}

	if err := h.Review.Reject(r.Context(), email, week, reason, adminEmail(r)); err != nil {
		writeError(w, statusFor(err), "Rejection failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Timesheet rejected successfully"})
}

func (h *Handler) adminAction(w http.ResponseWriter, r *http.Request) (email string, week timesheet.Week, reason string, ok bool) {
	var req AdminActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return "", timesheet.Week{}, "", false
	}

	week, err := weekParam(req.WeekStartDate)
	if req.Email == "" || err != nil {
		writeError(w, http.StatusBadRequest, "email and week_start_date are required", err)
		return "", timesheet.Week{}, "", false
	}
	return req.Email, week, req.Reason, true
}

// adminEmail resolves the acting admin from the request context parameter.
func adminEmail(r *http.Request) string {
	if email := r.URL.Query().Get("admin_email"); email != "" {
		return email
	}
	return "admin@system.com"
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetFilteredReport returns rows matching the date range AND the status.
// GET /api/admin/reports/filtered?from_date&to_date&status
func (h *Handler) GetFilteredReport(w http.ResponseWriter, r *http.Request) {
	from, to, status, err := reportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	rows, err := h.Review.FilteredReport(r.Context(), from, to, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}

	dtos := make([]ReportRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = reportRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReportStats aggregates the date range across ALL statuses. The status
// filter of the row listing never applies here.
// GET /api/admin/reports/stats?from_date&to_date
func (h *Handler) GetReportStats(w http.ResponseWriter, r *http.Request) {
	from, err := dateParam(r.URL.Query().Get("from_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from_date", err)
		return
	}
	to, err := dateParam(r.URL.Query().Get("to_date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to_date", err)
		return
	}

	stats, err := h.Review.ReportStats(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute report stats", err)
		return
	}

	writeJSON(w, http.StatusOK, ReportStatsDTO{
		TotalHours: stats.TotalHours.InexactFloat64(),
		Approved:   stats.Approved,
		Pending:    stats.Pending,
		Rejected:   stats.Rejected,
	})
}

// DownloadReport streams the filtered detail rows as CSV.
// GET /api/admin/reports/download?from_date&to_date&status
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	from, to, status, err := reportParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid report parameters", err)
		return
	}

	rows, err := h.Review.FilteredReport(r.Context(), from, to, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build report", err)
		return
	}
	if len(rows) == 0 {
		writeError(w, http.StatusNotFound, "No data available for the selected period", nil)
		return
	}

	filename := fmt.Sprintf("timesheet_report_%s_%s.csv", status, from.ISO())
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"name", "employee_id", "email", "week_start_date", "hours", "status"})
	for _, row := range rows {
		_ = cw.Write([]string{
			row.EmployeeName,
			row.EmployeeID,
			row.Email,
			row.WeekStart.ISO(),
			row.TotalHours.Round(1).String(),
			string(row.Status),
		})
	}
	cw.Flush()
}

func reportParams(r *http.Request) (from, to timesheet.Date, status timesheet.Status, err error) {
	if from, err = dateParam(r.URL.Query().Get("from_date")); err != nil {
		return
	}
	if to, err = dateParam(r.URL.Query().Get("to_date")); err != nil {
		return
	}

	status = timesheet.StatusApproved
	if s := r.URL.Query().Get("status"); s != "" {
		status, err = timesheet.ParseStatus(s)
	}
	return
}

// =============================================================================
// HELPERS
// =============================================================================

func weekParam(iso string) (timesheet.Week, error) {
	start, err := timesheet.ParseISO(iso)
	if err != nil {
		return timesheet.Week{}, err
	}
	if start.Weekday() != time.Sunday {
		return timesheet.Week{}, fmt.Errorf("week_start_date %s is not a Sunday", iso)
	}
	return timesheet.Week{Start: start}, nil
}

func dateParam(iso string) (timesheet.Date, error) {
	if iso == "" {
		return timesheet.Date{}, nil
	}
	return timesheet.ParseISO(iso)
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, timesheet.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, timesheet.ErrReadOnly),
		errors.Is(err, timesheet.ErrInvalidTransition),
		errors.Is(err, timesheet.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, auth.ErrBadCredentials),
		errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrEmployeeIDTaken),
		errors.Is(err, timesheet.ErrMalformedDate),
		errors.Is(err, timesheet.ErrMissingDescription),
		errors.Is(err, timesheet.ErrDayCapExceeded),
		errors.Is(err, timesheet.ErrWeeklyTotal),
		errors.Is(err, timesheet.ErrEmptyRejectionReason),
		errors.Is(err, timesheet.ErrOutsideWeek):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
