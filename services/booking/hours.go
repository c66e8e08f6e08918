package booking

import (
	"agendapro/models"
)

const (
	defaultOpen  = 9 * 60
	defaultClose = 18 * 60
)

// Window is a resolved open interval in minutes after midnight.
type Window struct {
	Start int
	End   int
}

// WeekdayIndex returns the Monday-first weekday index (Monday=0, Sunday=6) of an ISO date.
func WeekdayIndex(date string) (int, bool) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, false
	}
	return (int(t.Weekday()) + 6) % 7, true
}

// ResolveWorkingHours returns the open window for date. ok is false when the day
// is closed, the configuration has no entry for it, or the date cannot be parsed.
// A malformed bound falls back to 09:00 for the start and 18:00 for the end.
func ResolveWorkingHours(date string, hours models.WorkingHours) (Window, bool) {
	idx, ok := WeekdayIndex(date)
	if !ok || idx >= len(hours) {
		return Window{}, false
	}
	day := hours[idx]
	if !day.Open {
		return Window{}, false
	}

	w := Window{Start: defaultOpen, End: defaultClose}
	if m, err := ToMinutes(day.Start); err == nil {
		w.Start = m
	}
	if m, err := ToMinutes(day.End); err == nil {
		w.End = m
	}
	return w, true
}
