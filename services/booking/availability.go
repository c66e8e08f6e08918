package booking

import (
	"agendapro/models"
)

// ComputeAvailability enumerates candidate starts for date at SlotStep granularity,
// from the opening time up to close-duration inclusive, and classifies each one as
// free or occupied against the appointments booked on that date.
// Both lists are chronological. A non-positive duration, or one longer than the
// opening window, yields empty lists.
func ComputeAvailability(date string, durationMin int, hours models.WorkingHours, appointments []models.Appointment) models.Availability {
	result := models.Availability{Free: []string{}, Occupied: []string{}}

	w, ok := ResolveWorkingHours(date, hours)
	if !ok {
		result.Closed = true
		return result
	}
	if durationMin <= 0 || durationMin > w.End-w.Start {
		return result
	}

	booked := intervalsOn(date, appointments)
	for start := w.Start; start+durationMin <= w.End; start += SlotStep {
		end := start + durationMin
		if conflicts(start, end, booked) {
			result.Occupied = append(result.Occupied, ToHHMM(start))
		} else {
			result.Free = append(result.Free, ToHHMM(start))
		}
	}
	return result
}

type interval struct {
	start, end int
}

func intervalsOn(date string, appointments []models.Appointment) []interval {
	var out []interval
	for _, a := range appointments {
		if a.Date != date {
			continue
		}
		s, err := ToMinutes(a.StartTime)
		if err != nil {
			continue
		}
		out = append(out, interval{start: s, end: s + a.DurationMin})
	}
	return out
}

func conflicts(start, end int, booked []interval) bool {
	for _, b := range booked {
		if Overlaps(start, end, b.start, b.end) {
			return true
		}
	}
	return false
}
