package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/warp/timesheet-engine/timesheet"
)

func sheet(email string, weekStart timesheet.Date) *timesheet.Timesheet {
	week := timesheet.Week{Start: weekStart}
	ts := &timesheet.Timesheet{Email: email, Week: week, Status: timesheet.StatusNew}
	for _, day := range week.WorkingDays() {
		ts.Entries = append(ts.Entries, timesheet.Entry{
			ID:              uuid.NewString(),
			Date:            day,
			Hours:           timesheet.MaxDailyHours,
			TaskDescription: "project work",
			WorkType:        timesheet.WorkBillable,
		})
	}
	return ts
}

func TestMemory_GetReturnsIsolatedCopy(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	start := timesheet.NewDate(2026, time.January, 25)

	if err := mem.SaveTimesheet(ctx, sheet("jordan@example.com", start)); err != nil {
		t.Fatal(err)
	}

	first, err := mem.GetTimesheet(ctx, "jordan@example.com", timesheet.Week{Start: start})
	if err != nil {
		t.Fatal(err)
	}
	first.Entries[0].TaskDescription = "mutated by caller"
	first.Status = timesheet.StatusApproved

	second, err := mem.GetTimesheet(ctx, "jordan@example.com", timesheet.Week{Start: start})
	if err != nil {
		t.Fatal(err)
	}
	if second.Entries[0].TaskDescription == "mutated by caller" {
		t.Error("stored entries leaked through the returned copy")
	}
	if second.Status != timesheet.StatusNew {
		t.Errorf("stored status = %s, want %s", second.Status, timesheet.StatusNew)
	}
}

func TestMemory_StaleVersionRejected(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	start := timesheet.NewDate(2026, time.January, 25)

	if err := mem.SaveTimesheet(ctx, sheet("jordan@example.com", start)); err != nil {
		t.Fatal(err)
	}

	stale := sheet("jordan@example.com", start) // Version 0, store holds 1
	if err := mem.SaveTimesheet(ctx, stale); err != timesheet.ErrConcurrentModification {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}
}

func TestMemory_ListInRangeOrdersByIdentity(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	jan4 := timesheet.NewDate(2026, time.January, 4)
	jan11 := timesheet.NewDate(2026, time.January, 11)
	for _, ts := range []*timesheet.Timesheet{
		sheet("zoe@example.com", jan4),
		sheet("amir@example.com", jan11),
		sheet("amir@example.com", jan4),
	} {
		if err := mem.SaveTimesheet(ctx, ts); err != nil {
			t.Fatal(err)
		}
	}

	got, err := mem.ListInRange(ctx, timesheet.Date{}, timesheet.Date{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 sheets, got %d", len(got))
	}
	if got[0].Email != "amir@example.com" || !got[0].Week.Start.Equal(jan4) {
		t.Errorf("first = %s %s", got[0].Email, got[0].Week.Start.ISO())
	}
	if got[2].Email != "zoe@example.com" {
		t.Errorf("last = %s", got[2].Email)
	}
}
