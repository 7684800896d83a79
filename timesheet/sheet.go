/*
sheet.go - The weekly timesheet aggregate

PURPOSE:
  Timesheet is the unit of ownership: one employee, one week, an ordered
  entry list, and a lifecycle status. All content mutations go through
  methods here so the read-only gate and the input-sanitization rules
  (hour clamping, Holiday coupling, append guard) cannot be bypassed.

OWNERSHIP:
  Content edits belong to the employee while status is New or Denied.
  Status transitions out of Submitted belong to administrators. Nothing is
  shared-mutable across the two actors; the status alone decides who may
  act.

CONCURRENCY:
  Version is a monotonic counter bumped by the store on every successful
  save. A save/approve/reject carrying a stale version fails with
  ErrConcurrentModification instead of silently losing an update.
*/
package timesheet

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// TIMESHEET - One employee-week
// =============================================================================

// Timesheet is one employee's hour allocation for one week.
// Identity is (Email, Week.Start).
type Timesheet struct {
	Email   string
	Week    Week
	Entries []Entry
	Status  Status

	// RejectionReason is set when an admin denies the week. It survives a
	// resubmission until overwritten by a future denial.
	RejectionReason string

	// Version supports optimistic locking at the store. Zero means the
	// record has never been persisted.
	Version   int64
	UpdatedAt time.Time
}

// NewDraft creates an in-memory timesheet for a week with no persisted
// record yet: status New, one default row on the first working day.
func NewDraft(email string, week Week) *Timesheet {
	ts := &Timesheet{
		Email:  email,
		Week:   week,
		Status: StatusNew,
	}
	ts.Entries = append(ts.Entries, Entry{
		ID:       uuid.NewString(),
		Date:     week.WorkingDays()[0],
		Hours:    MaxDailyHours,
		WorkType: WorkBillable,
	})
	return ts
}

// TotalHours sums all entries.
func (ts *Timesheet) TotalHours() decimal.Decimal { return TotalHours(ts.Entries) }

// ensureEditable gates every employee-side content mutation.
func (ts *Timesheet) ensureEditable() error {
	if !ts.Status.Editable() {
		return ErrReadOnly
	}
	return nil
}

// =============================================================================
// CONTENT MUTATIONS (employee, New/Denied only)
// =============================================================================

// AppendEntry adds a new row and returns it. The append is refused when the
// current last row has no description; nothing is mutated in that case.
//
// The new row defaults to the last row's day while that day still has room
// under the daily cap, otherwise the next working day (never past Friday);
// 8 hours, Billable, empty description.
func (ts *Timesheet) AppendEntry() (*Entry, error) {
	if err := ts.ensureEditable(); err != nil {
		return nil, err
	}
	if len(ts.Entries) == 0 {
		return nil, ErrLastRowIncomplete
	}

	last := ts.Entries[len(ts.Entries)-1]
	if strings.TrimSpace(last.TaskDescription) == "" {
		return nil, ErrLastRowIncomplete
	}

	day := last.Date
	if !DayTotal(ts.Entries, day).LessThan(MaxDailyHours) {
		day = ts.nextWorkingDay(day)
	}

	ts.Entries = append(ts.Entries, Entry{
		ID:       uuid.NewString(),
		Date:     day,
		Hours:    MaxDailyHours,
		WorkType: WorkBillable,
	})
	return &ts.Entries[len(ts.Entries)-1], nil
}

// nextWorkingDay steps one working day forward, capped at Friday.
func (ts *Timesheet) nextWorkingDay(day Date) Date {
	days := ts.Week.WorkingDays()
	for i, d := range days {
		if d == day && i+1 < len(days) {
			return days[i+1]
		}
	}
	return days[len(days)-1]
}

// SetHours updates one row's hours. Input is clamped to [0, 8] and
// quantized to half-hour steps; this is sanitization, not validation.
func (ts *Timesheet) SetHours(row int, hours decimal.Decimal) error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	e, err := ts.entry(row)
	if err != nil {
		return err
	}
	e.Hours = SanitizeHours(hours)
	return nil
}

// SetDescription updates one row's task description.
func (ts *Timesheet) SetDescription(row int, desc string) error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	e, err := ts.entry(row)
	if err != nil {
		return err
	}
	e.TaskDescription = desc
	return nil
}

// SetDate moves one row to another working day of the week.
func (ts *Timesheet) SetDate(row int, day Date) error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	e, err := ts.entry(row)
	if err != nil {
		return err
	}
	if !ts.isWorkingDay(day) {
		return ErrOutsideWeek
	}
	e.Date = day
	return nil
}

// SetWorkType updates one row's work type. Switching to Holiday forces the
// row to 8 hours immediately, overriding any prior value.
func (ts *Timesheet) SetWorkType(row int, wt WorkType) error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	e, err := ts.entry(row)
	if err != nil {
		return err
	}
	e.WorkType = wt
	if wt == WorkHoliday {
		e.Hours = MaxDailyHours
	}
	return nil
}

func (ts *Timesheet) entry(row int) (*Entry, error) {
	if row < 0 || row >= len(ts.Entries) {
		return nil, ErrNotFound
	}
	return &ts.Entries[row], nil
}

func (ts *Timesheet) isWorkingDay(day Date) bool {
	return ts.Week.IsWorkingDay(day)
}

// =============================================================================
// LIFECYCLE TRANSITIONS
// =============================================================================

// PrepareSave validates the entries for a draft save. Status is unchanged;
// New stays New, Denied stays Denied.
func (ts *Timesheet) PrepareSave() error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	return Validate(ts.Entries, ActionSave)
}

// Submit validates the entries for submission and moves the timesheet to
// Submitted. A prior rejection reason is retained for the admin's context.
func (ts *Timesheet) Submit() error {
	if err := ts.ensureEditable(); err != nil {
		return err
	}
	if err := Validate(ts.Entries, ActionSubmit); err != nil {
		return err
	}
	ts.Status = StatusSubmitted
	return nil
}

// Approve moves a Submitted timesheet to the terminal Approved status.
// Approving anything else is a caller error.
func (ts *Timesheet) Approve() error {
	if ts.Status != StatusSubmitted {
		return &TransitionError{From: ts.Status, Event: "approve"}
	}
	ts.Status = StatusApproved
	return nil
}

// Reject moves a Submitted timesheet to Denied with a mandatory reason.
func (ts *Timesheet) Reject(reason string) error {
	if ts.Status != StatusSubmitted {
		return &TransitionError{From: ts.Status, Event: "reject"}
	}
	if strings.TrimSpace(reason) == "" {
		return ErrEmptyRejectionReason
	}
	ts.Status = StatusDenied
	ts.RejectionReason = reason
	return nil
}
