/*
scenarios.go - Demo data seeding for development and demos

PURPOSE:
  Populates an empty database with realistic accounts and timesheets in
  every lifecycle state, so the review and reporting surfaces have
  something to show immediately.

WHAT GETS CREATED:
  - One admin account and two employee accounts (password "demo1234")
  - A submitted week awaiting review
  - An approved week and a denied week (with rejection reason)
  - A draft week in progress

NOTE:
  Seeding is idempotent per run only in the sense that it refuses to touch
  a database that already has the demo admin. Only use in dev/demo
  environments.

SEE ALSO:
  - cmd/server/main.go: -seed flag
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/auth"
	"github.com/warp/timesheet-engine/timesheet"
)

const demoPassword = "demo1234"

// Seed loads the demo dataset. Returns an error if the demo admin already
// exists, so a production database is never touched twice.
func Seed(ctx context.Context, h *Handler) error {
	if _, err := h.Directory.GetEmployee(ctx, "admin@example.com"); err == nil {
		return errors.New("demo data already present")
	} else if !errors.Is(err, timesheet.ErrNotFound) {
		return err
	}

	accounts := []auth.SignupInput{
		{Name: "Avery Admin", EmployeeID: "EMP-0001", Email: "admin@example.com", Password: demoPassword, Role: timesheet.RoleAdmin},
		{Name: "Jordan Rivera", EmployeeID: "EMP-0002", Email: "jordan@example.com", Password: demoPassword},
		{Name: "Sam Okafor", EmployeeID: "EMP-0003", Email: "sam@example.com", Password: demoPassword},
	}
	for _, acct := range accounts {
		if _, err := h.Auth.Signup(ctx, acct); err != nil {
			return fmt.Errorf("seed account %s: %w", acct.Email, err)
		}
	}

	weeks := timesheet.PastWeeks(timesheet.DateOf(h.Now()))

	// Jordan: a full submitted week awaiting review.
	if err := seedWeek(ctx, h, "jordan@example.com", weeks[0], true); err != nil {
		return err
	}

	// Jordan: an approved week further back.
	if err := seedWeek(ctx, h, "jordan@example.com", weeks[2], true); err != nil {
		return err
	}
	if err := h.Review.Approve(ctx, "jordan@example.com", weeks[2], "admin@example.com"); err != nil {
		return fmt.Errorf("seed approval: %w", err)
	}

	// Sam: a denied week the employee still needs to fix.
	if err := seedWeek(ctx, h, "sam@example.com", weeks[1], true); err != nil {
		return err
	}
	if err := h.Review.Reject(ctx, "sam@example.com", weeks[1], "Thursday entries look incomplete", "admin@example.com"); err != nil {
		return fmt.Errorf("seed denial: %w", err)
	}

	// Sam: a draft in progress.
	if err := seedWeek(ctx, h, "sam@example.com", weeks[0], false); err != nil {
		return err
	}

	return nil
}

// seedWeek fills one week with 8h billable entries per working day (plus a
// Friday holiday for variety) and saves or submits it.
func seedWeek(ctx context.Context, h *Handler, email string, week timesheet.Week, submit bool) error {
	days := week.WorkingDays()

	ts := &timesheet.Timesheet{
		Email:  email,
		Week:   week,
		Status: timesheet.StatusNew,
	}
	for i, day := range days {
		wt := timesheet.WorkBillable
		desc := fmt.Sprintf("Sprint work, day %d", i+1)
		if i == len(days)-1 {
			wt = timesheet.WorkHoliday
			desc = "Public holiday"
		}
		ts.Entries = append(ts.Entries, timesheet.Entry{
			ID:              uuid.NewString(),
			Date:            day,
			Hours:           timesheet.MaxDailyHours,
			TaskDescription: desc,
			WorkType:        wt,
		})
	}

	var err error
	if submit {
		err = ts.Submit()
	} else {
		// Drafts stay partial: drop Friday so the week is visibly unfinished.
		ts.Entries = ts.Entries[:len(ts.Entries)-1]
		err = ts.PrepareSave()
	}
	if err != nil {
		return fmt.Errorf("seed %s week of %s: %w", strings.Split(email, "@")[0], week.Start.ISO(), err)
	}

	return h.Store.SaveTimesheet(ctx, ts)
}
