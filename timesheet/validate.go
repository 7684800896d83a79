/*
validate.go - Entry validation engine

PURPOSE:
  Validates the full entry list of one timesheet at the moment of a save or
  submit. Pure function of (entries, action); never mutates anything.

VALIDATION ORDER (fail fast, first violation wins):
  1. Completeness: every description, trimmed, non-empty. First offender by
     row order is reported with its 1-based index.
  2. Per-day cap: entries sharing a day may not sum past MaxDailyHours. The
     error carries the day and the running total at the point the cap broke.
  3. Weekly total: submit only. The week must total exactly WeeklyTargetHours.

  Hour clamping and the Holiday coupling are NOT here: they are input
  sanitization applied at field-change time (see SanitizeHours and
  Timesheet.SetWorkType), so validation only ever sees in-range values.

Errors are local and recoverable: they block the requested action and
nothing else.
*/
package timesheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Action distinguishes a draft save from a submission. The weekly-total rule
// only applies to ActionSubmit.
type Action int

const (
	ActionSave Action = iota
	ActionSubmit
)

// Validate checks an entry list against the save/submit rules. The first
// violation is returned; later rules are not evaluated.
func Validate(entries []Entry, action Action) error {
	// 1. Completeness
	for i, e := range entries {
		if strings.TrimSpace(e.TaskDescription) == "" {
			return &MissingDescriptionError{Row: i + 1}
		}
	}

	// 2. Per-day cap, accumulated in row order so the reported total is the
	// one at which the cap was crossed.
	dayTotals := make(map[Date]decimal.Decimal)
	for _, e := range entries {
		total := dayTotals[e.Date].Add(e.Hours)
		dayTotals[e.Date] = total
		if total.GreaterThan(MaxDailyHours) {
			return &DayCapError{Day: e.Date, Total: total}
		}
	}

	// 3. Weekly total, submission only
	if action == ActionSubmit {
		total := TotalHours(entries)
		if !total.Equal(WeeklyTargetHours) {
			return &WeeklyTotalError{Total: total}
		}
	}

	return nil
}

// TotalHours sums the hours of all entries.
func TotalHours(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Hours)
	}
	return total
}

// DayTotal sums the hours of entries on one day.
func DayTotal(entries []Entry, day Date) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Date == day {
			total = total.Add(e.Hours)
		}
	}
	return total
}
