package quota

import (
	"context"
	"testing"
	"time"

	"cvtailor-backend/internal/ledger"
)

// Wednesday afternoon, mid-week and mid-day so both windows have room on
// either side.
var testNow = time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *MemoryStore, *ledger.MemoryRepo) {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := NewMemoryStoreWithClock(clock)
	ledgerRepo := ledger.NewMemoryRepo()
	svc := NewService(store, ledgerRepo)
	svc.Now = clock
	return svc, store, ledgerRepo
}

func consume(t *testing.T, repo *ledger.MemoryRepo, userID string, at time.Time) {
	t.Helper()
	if _, err := repo.Append(context.Background(), ledger.Consumption{UserID: userID, CreatedAt: at}); err != nil {
		t.Fatalf("append consumption: %v", err)
	}
}

func TestCanOperateCreatesOneSubscription(t *testing.T) {
	svc, store, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		decision, err := svc.CanOperate(context.Background(), "user-1")
		if err != nil {
			t.Fatalf("CanOperate #%d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("CanOperate #%d denied: %+v", i+1, decision)
		}
	}

	if got := len(store.byUser["user-1"]); got != 1 {
		t.Fatalf("subscriptions created = %d, want 1", got)
	}
	sub := store.byUser["user-1"][0]
	if sub.PlanName != "free" || sub.DailyRateLimit != 3 || sub.WeeklyRateLimit != 10 {
		t.Fatalf("unexpected free plan: %+v", sub)
	}
}

func TestCanOperateDailyLimit(t *testing.T) {
	svc, _, ledgerRepo := newTestService(t)

	for i := 0; i < 3; i++ {
		consume(t, ledgerRepo, "user-1", testNow.Add(-time.Duration(i+1)*time.Hour))
	}

	decision, err := svc.CanOperate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CanOperate: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected daily denial")
	}
	if decision.Reason != ReasonDailyLimit {
		t.Fatalf("reason = %q", decision.Reason)
	}
	// 15:00 to midnight.
	if want := 9 * 3600; decision.RetryAfterSeconds != want {
		t.Fatalf("retryAfterSeconds = %d, want %d", decision.RetryAfterSeconds, want)
	}
}

func TestCanOperateIgnoresYesterday(t *testing.T) {
	svc, _, ledgerRepo := newTestService(t)

	// Three consumptions just before today's midnight boundary. They fill
	// nothing of today's window.
	yesterday := time.Date(2026, time.August, 25, 23, 59, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		consume(t, ledgerRepo, "user-1", yesterday)
	}

	decision, err := svc.CanOperate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CanOperate: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("yesterday's usage should not count today: %+v", decision)
	}
}

func TestCanOperateWeeklyLimit(t *testing.T) {
	svc, _, ledgerRepo := newTestService(t)

	// Spread ten consumptions across Monday and Tuesday so no single day
	// trips the daily limit check before the weekly one.
	monday := time.Date(2026, time.August, 24, 10, 0, 0, 0, time.UTC)
	tuesday := monday.AddDate(0, 0, 1)
	for i := 0; i < 5; i++ {
		consume(t, ledgerRepo, "user-1", monday.Add(time.Duration(i)*time.Minute))
		consume(t, ledgerRepo, "user-1", tuesday.Add(time.Duration(i)*time.Minute))
	}

	decision, err := svc.CanOperate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CanOperate: %v", err)
	}
	if decision.Allowed {
		t.Fatal("expected weekly denial")
	}
	if decision.Reason != ReasonWeeklyLimit {
		t.Fatalf("reason = %q", decision.Reason)
	}
	// Wednesday 15:00 to Monday midnight.
	if want := (4*24 + 9) * 3600; decision.RetryAfterSeconds != want {
		t.Fatalf("retryAfterSeconds = %d, want %d", decision.RetryAfterSeconds, want)
	}
}

func TestCanOperateUnlimitedPlan(t *testing.T) {
	svc, store, ledgerRepo := newTestService(t)
	if _, err := store.Create(context.Background(), Subscription{
		UserID:          "user-1",
		PlanName:        "pro",
		DailyRateLimit:  Unlimited,
		WeeklyRateLimit: Unlimited,
		Status:          StatusActive,
		StartsAt:        testNow.AddDate(0, 0, -1),
		EndsAt:          testNow.AddDate(0, 1, 0),
	}); err != nil {
		t.Fatalf("create subscription: %v", err)
	}

	for i := 0; i < 50; i++ {
		consume(t, ledgerRepo, "user-1", testNow.Add(-time.Minute))
	}

	decision, err := svc.CanOperate(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CanOperate: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("unlimited plan denied: %+v", decision)
	}
}

func TestCanOperateRequiresUserID(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.CanOperate(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty user id")
	}
}

func TestGetStatus(t *testing.T) {
	svc, _, ledgerRepo := newTestService(t)

	consume(t, ledgerRepo, "user-1", testNow.Add(-time.Hour))
	consume(t, ledgerRepo, "user-1", testNow.AddDate(0, 0, -2).Add(-time.Hour))

	status, err := svc.GetStatus(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.PlanName != "free" {
		t.Fatalf("planName = %q", status.PlanName)
	}
	if status.UsedToday != 1 || status.UsedThisWeek != 2 {
		t.Fatalf("usage = today %d / week %d, want 1 / 2", status.UsedToday, status.UsedThisWeek)
	}
}
