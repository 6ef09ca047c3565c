package quota

import "time"

// dayWindow returns the UTC calendar day containing now as [start, end).
func dayWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// weekWindow returns the UTC calendar week containing now as [start, end),
// with weeks starting Monday 00:00 UTC.
func weekWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	daysSinceMonday := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysSinceMonday)
	return start, start.AddDate(0, 0, 7)
}
