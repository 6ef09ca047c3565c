package quota

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreCreateReturnsExistingOnConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	now := time.Now().UTC()

	// The partial unique index swallows the insert; Create falls back to the
	// winner's row.
	mock.ExpectExec("INSERT INTO subscriptions").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs("user-1", StatusActive, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "plan_name", "daily_rate_limit", "weekly_rate_limit", "status", "starts_at", "ends_at",
		}).AddRow("sub-existing", "user-1", "free", 3, 10, StatusActive, now.Add(-time.Hour), now.AddDate(1, 0, 0)))

	sub, err := store.Create(context.Background(), Subscription{
		ID:              "sub-new",
		UserID:          "user-1",
		PlanName:        "free",
		DailyRateLimit:  3,
		WeeklyRateLimit: 10,
		Status:          StatusActive,
		StartsAt:        now,
		EndsAt:          now.AddDate(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sub.ID != "sub-existing" {
		t.Fatalf("sub = %+v, want the existing row", sub)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreGetActiveNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PGStore{DB: db}
	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "plan_name", "daily_rate_limit", "weekly_rate_limit", "status", "starts_at", "ends_at",
		}))

	if _, err := store.GetActive(context.Background(), "user-1"); err != ErrNoActiveSubscription {
		t.Fatalf("err = %v, want ErrNoActiveSubscription", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
