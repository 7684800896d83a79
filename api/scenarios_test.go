/*
scenarios_test.go - Tests for demo data seeding

Verifies that Seed populates every lifecycle state and refuses to run
twice against the same database.
*/
package api

import (
	"context"
	"testing"
	"time"

	"github.com/warp/timesheet-engine/auth"
	"github.com/warp/timesheet-engine/review"
	"github.com/warp/timesheet-engine/timesheet"
	memstore "github.com/warp/timesheet-engine/timesheet/store"
)

func setupSeedHandler(t *testing.T) (*Handler, *memstore.Memory) {
	t.Helper()
	mem := memstore.NewMemory()
	h := NewHandler(mem, mem, review.NewService(mem, mem, nil), auth.NewService(mem, nil))
	h.Now = func() time.Time { return time.Date(2026, time.January, 28, 10, 0, 0, 0, time.UTC) }
	return h, mem
}

func TestSeed_CreatesAccountsAndWeeks(t *testing.T) {
	// GIVEN: An empty store
	// WHEN: Loading the demo dataset
	// THEN: Accounts exist and every lifecycle state is represented

	h, mem := setupSeedHandler(t)
	ctx := context.Background()

	if err := Seed(ctx, h); err != nil {
		t.Fatalf("seed: %v", err)
	}

	admin, err := mem.GetEmployee(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("demo admin missing: %v", err)
	}
	if admin.Role != timesheet.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}
	if err := auth.VerifyPassword(admin.PasswordHash, demoPassword); err != nil {
		t.Errorf("demo password does not verify: %v", err)
	}

	for _, status := range []timesheet.Status{
		timesheet.StatusNew,
		timesheet.StatusSubmitted,
		timesheet.StatusApproved,
		timesheet.StatusDenied,
	} {
		sheets, err := mem.ListByStatus(ctx, status)
		if err != nil {
			t.Fatalf("list %s: %v", status, err)
		}
		if len(sheets) == 0 {
			t.Errorf("no seeded week in status %s", status)
		}
	}

	denied, err := mem.ListByStatus(ctx, timesheet.StatusDenied)
	if err != nil {
		t.Fatal(err)
	}
	if denied[0].RejectionReason == "" {
		t.Error("seeded denied week has no rejection reason")
	}
}

func TestSeed_RefusesToRunTwice(t *testing.T) {
	h, _ := setupSeedHandler(t)
	ctx := context.Background()

	if err := Seed(ctx, h); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if err := Seed(ctx, h); err == nil {
		t.Fatal("second seed should be refused")
	}
}
