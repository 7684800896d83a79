/*
errors.go - Centralized error types for the timesheet engine

PURPOSE:
  All error types in one place. Sentinels support errors.Is checks at the
  API boundary; structured errors carry the row/day/total context the user
  needs to fix a rejected action.

ERROR CATEGORIES:
  1. Parse errors        - Malformed date input
  2. Validation errors   - Business rule violations (recoverable, no state change)
  3. Transition errors   - Illegal lifecycle moves (caller bugs, guarded upstream)
  4. Store errors        - Persistence failures

SEE ALSO:
  - validate.go: Produces the validation errors
  - sheet.go: Produces the transition errors
*/
package timesheet

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMalformedDate is returned when a date string cannot be parsed.
	ErrMalformedDate = errors.New("malformed date")

	// ErrMissingDescription is returned when an entry's task description is
	// empty or whitespace at save/submit time.
	ErrMissingDescription = errors.New("missing task description")

	// ErrDayCapExceeded is returned when one day's entries sum past the
	// daily hour cap.
	ErrDayCapExceeded = errors.New("daily hour cap exceeded")

	// ErrWeeklyTotal is returned on submit when the week does not total
	// exactly the weekly target.
	ErrWeeklyTotal = errors.New("weekly total must equal target")

	// ErrLastRowIncomplete is returned when appending a row while the
	// current last row has no description. No mutation occurs.
	ErrLastRowIncomplete = errors.New("last row needs a description")

	// ErrReadOnly is returned on any employee-side mutation while the
	// timesheet is Submitted or Approved. This is a precondition violation,
	// not a user-recoverable validation failure.
	ErrReadOnly = errors.New("timesheet is read-only in its current status")

	// ErrInvalidTransition is returned for illegal lifecycle moves, such as
	// approving a timesheet that is not Submitted.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrEmptyRejectionReason is returned when an admin rejects without a reason.
	ErrEmptyRejectionReason = errors.New("rejection reason required")

	// ErrOutsideWeek is returned when an entry date is not a working day of
	// the timesheet's week.
	ErrOutsideWeek = errors.New("date outside the week's working days")

	// ErrNotFound is returned by stores when no matching record exists.
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification is returned when an optimistic version check
	// detects a lost update.
	ErrConcurrentModification = errors.New("concurrent modification detected")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ParseError reports a malformed date string.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrMalformedDate }

// MissingDescriptionError identifies the first offending row, 1-based.
type MissingDescriptionError struct {
	Row int
}

func (e *MissingDescriptionError) Error() string {
	return fmt.Sprintf("row %d is missing a description", e.Row)
}

func (e *MissingDescriptionError) Unwrap() error { return ErrMissingDescription }

// DayCapError reports the day whose entries exceed the daily cap and the
// running total at the point the cap was crossed.
type DayCapError struct {
	Day   Date
	Total decimal.Decimal
}

func (e *DayCapError) Error() string {
	return fmt.Sprintf("total hours for %s cannot exceed %sh (current: %sh)",
		e.Day.Display(), MaxDailyHours, e.Total)
}

func (e *DayCapError) Unwrap() error { return ErrDayCapExceeded }

// WeeklyTotalError reports the current total blocking a submission.
type WeeklyTotalError struct {
	Total decimal.Decimal
}

func (e *WeeklyTotalError) Error() string {
	return fmt.Sprintf("cannot submit: weekly total must be exactly %sh (current: %sh)",
		WeeklyTargetHours, e.Total)
}

func (e *WeeklyTotalError) Unwrap() error { return ErrWeeklyTotal }

// TransitionError reports an illegal lifecycle move.
type TransitionError struct {
	From  Status
	Event string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s a timesheet in status %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
