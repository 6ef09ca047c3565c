package quota

import (
	"testing"
	"time"
)

func TestDayWindow(t *testing.T) {
	now := time.Date(2026, time.August, 26, 23, 59, 59, 0, time.UTC)
	start, end := dayWindow(now)
	if !start.Equal(time.Date(2026, time.August, 26, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", start)
	}
	if !end.Equal(time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("end = %v", end)
	}
}

func TestWeekWindowStartsMonday(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
	}{
		{"monday", time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)},
		{"wednesday", time.Date(2026, time.August, 26, 15, 0, 0, 0, time.UTC)},
		{"sunday", time.Date(2026, time.August, 30, 23, 59, 0, 0, time.UTC)},
	}
	wantStart := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := weekWindow(tc.now)
			if !start.Equal(wantStart) {
				t.Fatalf("start = %v, want %v", start, wantStart)
			}
			if !end.Equal(wantStart.AddDate(0, 0, 7)) {
				t.Fatalf("end = %v", end)
			}
		})
	}
}
