/*
calendar.go - Calendar dates, week periods and the selectable history window

PURPOSE:
  All date handling for the timesheet engine lives here. The rest of the
  system never touches time.Time directly for business logic; it works with
  Date (a civil calendar day) and Week (a Sunday-anchored 7-day period).

KEY CONCEPTS:
  - Date: year/month/day with no time-of-day and no timezone. Built from the
    LOCAL calendar fields of a time.Time, so a timestamp near midnight can
    never shift the rendered day.
  - Week: a Sunday-to-Saturday span. Only the 5 weekdays inside it are
    schedulable (WorkingDays).
  - Past weeks window: the 4 completed weeks strictly before the reference
    date's week. The current in-progress week is never selectable.

FORMATS:
  ISO:        "2026-01-26"            (wire format, round-trip stable)
  Display:    "Monday, 26 Jan"        (working-day labels, day before month)
  Long:       "26 Jan 2026"           (period range endpoints)

PARSING:
  Parsing is STRICT. Malformed input yields a *ParseError; there is no
  silent "fall back to today" behavior.

SEE ALSO:
  - validate.go: consumes Date for per-day aggregation
  - sheet.go: consumes Week for append-row defaults
*/
package timesheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - A civil calendar day
// =============================================================================

// Date is a calendar day without time-of-day or timezone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date from calendar fields.
func NewDate(year int, month time.Month, day int) Date {
	// Normalize through time.Date so Feb 30 becomes Mar 2 consistently
	// with Go's date arithmetic.
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// DateOf extracts the LOCAL calendar day of a timestamp. The time-of-day
// component is discarded, never rounded.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Comparison
func (d Date) Before(other Date) bool { return d.time().Before(other.time()) }
func (d Date) After(other Date) bool  { return d.time().After(other.time()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) IsZero() bool           { return d == Date{} }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.time().AddDate(0, 0, n)) }

func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// ISO renders the date as YYYY-MM-DD.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Display renders the date as a working-day label, e.g. "Monday, 26 Jan".
func (d Date) Display() string {
	return fmt.Sprintf("%s, %02d %s", d.Weekday(), d.Day, d.Month.String()[:3])
}

// DisplayLong renders the date with full year precision, e.g. "26 Jan 2026".
// This is the format used for period range endpoints, and the format
// ParsePeriodStart reads back.
func (d Date) DisplayLong() string {
	return fmt.Sprintf("%02d %s %d", d.Day, d.Month.String()[:3], d.Year)
}

func (d Date) String() string { return d.ISO() }

// =============================================================================
// PARSING - Strict, no fallback
// =============================================================================

// ParseISO parses a YYYY-MM-DD string into a Date.
func ParseISO(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, &ParseError{Input: s, Reason: "want YYYY-MM-DD"}
	}
	return DateOf(t), nil
}

var shortMonths = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParsePeriodStart parses a "DD Mon YYYY" token sequence, the leading
// endpoint of a period range label. Malformed input is an error; the old
// behavior of silently substituting the current date is gone.
func ParsePeriodStart(s string) (Date, error) {
	parts := strings.Fields(s)
	if len(parts) < 3 {
		return Date{}, &ParseError{Input: s, Reason: "want DD Mon YYYY"}
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 || day > 31 {
		return Date{}, &ParseError{Input: s, Reason: "invalid day"}
	}

	month, ok := shortMonths[parts[1]]
	if !ok {
		return Date{}, &ParseError{Input: s, Reason: "unknown month " + parts[1]}
	}

	year, err := strconv.Atoi(parts[2])
	if err != nil || year < 1 {
		return Date{}, &ParseError{Input: s, Reason: "invalid year"}
	}

	// NewDate normalizes overflow (30 Feb -> 2 Mar); a label naming a day
	// the month doesn't have is malformed, not a different day.
	d := NewDate(year, month, day)
	if d.Day != day || d.Month != month {
		return Date{}, &ParseError{Input: s, Reason: "no such day in " + parts[1]}
	}
	return d, nil
}

// =============================================================================
// WEEK - Sunday-anchored 7-day period
// =============================================================================

// Week is a Sunday-to-Saturday span identified by its start date.
type Week struct {
	Start Date // always a Sunday
}

// WeekOf returns the week containing d, anchored to the most recent Sunday
// at or before d.
func WeekOf(d Date) Week {
	return Week{Start: d.AddDays(-int(d.Weekday()))}
}

// End returns the Saturday closing the week.
func (w Week) End() Date { return w.Start.AddDays(6) }

// Contains reports whether d falls inside the week.
func (w Week) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End())
}

// IsWorkingDay reports whether d is one of the week's five working days.
// The week's Sunday and Saturday are not schedulable.
func (w Week) IsWorkingDay(d Date) bool {
	wd := d.Weekday()
	return w.Contains(d) && wd != time.Sunday && wd != time.Saturday
}

// WorkingDays returns the 5 schedulable weekdays of the week, Monday through
// Friday, in order.
func (w Week) WorkingDays() []Date {
	days := make([]Date, 0, 5)
	for i := 1; i <= 5; i++ {
		days = append(days, w.Start.AddDays(i))
	}
	return days
}

// WorkingDayLabels returns the display labels for the working days,
// e.g. "Monday, 26 Jan".
func (w Week) WorkingDayLabels() []string {
	days := w.WorkingDays()
	labels := make([]string, len(days))
	for i, d := range days {
		labels[i] = d.Display()
	}
	return labels
}

// RangeLabel renders the week as "26 Jan 2026 - 01 Feb 2026".
func (w Week) RangeLabel() string {
	return w.Start.DisplayLong() + " - " + w.End().DisplayLong()
}

func (w Week) String() string { return w.RangeLabel() }

// =============================================================================
// HISTORY WINDOW - Which weeks can a timesheet be filed for
// =============================================================================

// PastWeeksCount is the size of the submission window.
const PastWeeksCount = 4

// PastWeeks returns the completed weeks an employee may file a timesheet
// for, most recent first. The window is the PastWeeksCount full weeks
// strictly before the week containing today; the current week is excluded.
//
// The reference date is explicit so callers own the clock.
func PastWeeks(today Date) []Week {
	current := WeekOf(today)
	weeks := make([]Week, 0, PastWeeksCount)
	for i := 1; i <= PastWeeksCount; i++ {
		weeks = append(weeks, Week{Start: current.Start.AddDays(-7 * i)})
	}
	return weeks
}
