/*
entry.go - Time entries and hour arithmetic

PURPOSE:
  Defines Entry (one row of a weekly timesheet) and the hour constants and
  sanitization every caller shares.

DESIGN PRINCIPLES:
  1. Precision: hours are decimal.Decimal so 0.5-step quantization and the
     exact == 40.0 submission check never hit float drift.
  2. Sanitization over rejection: out-of-range hour input is clamped, not
     refused. Validation rules in validate.go only ever see in-range values.
*/
package timesheet

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// WORK TYPE
// =============================================================================

type WorkType string

const (
	WorkBillable WorkType = "Billable"
	WorkHoliday  WorkType = "Holiday"
)

// Valid reports whether the work type is one of the known values.
func (w WorkType) Valid() bool {
	return w == WorkBillable || w == WorkHoliday
}

// =============================================================================
// HOUR BUDGETS
// =============================================================================

var (
	// MaxDailyHours caps a single entry and a single day's total.
	MaxDailyHours = decimal.NewFromInt(8)

	// WeeklyTargetHours is the exact total required for submission.
	WeeklyTargetHours = decimal.NewFromInt(40)

	two = decimal.NewFromInt(2)
)

// SanitizeHours clamps an hour value into [0, MaxDailyHours] and quantizes
// it to 0.5-hour steps. This happens on input, before any validation runs.
func SanitizeHours(h decimal.Decimal) decimal.Decimal {
	if h.GreaterThan(MaxDailyHours) {
		return MaxDailyHours
	}
	if h.IsNegative() {
		return decimal.Zero
	}
	// Round to the nearest half hour.
	return h.Mul(two).Round(0).Div(two)
}

// =============================================================================
// ENTRY - One row of a weekly timesheet
// =============================================================================

// Entry is one row of (date, hours, description, work type) within a
// timesheet. Row order is meaningful for append defaults, not validation.
type Entry struct {
	ID              string // stable row identity, assigned on creation
	Date            Date
	Hours           decimal.Decimal
	TaskDescription string
	WorkType        WorkType
}
