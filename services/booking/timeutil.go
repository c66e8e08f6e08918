package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SlotStep is the granularity at which candidate start times are enumerated.
const SlotStep = 15

// MaxDurationMin is the longest accepted duration: one full day.
const MaxDurationMin = 24 * 60

const dateLayout = "2006-01-02"

// ToMinutes converts an "H:MM" or "HH:MM" wall-clock string to minutes after midnight.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 || len(parts[0]) == 0 || len(parts[0]) > 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("malformed time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("malformed hour in %q", hhmm)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("malformed minute in %q", hhmm)
	}
	return h*60 + m, nil
}

// ToHHMM formats minutes after midnight as a zero-padded "HH:MM" string.
func ToHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeHHMM re-renders a valid time as "HH:MM", so "9:05" becomes "09:05".
func NormalizeHHMM(hhmm string) (string, error) {
	m, err := ToMinutes(hhmm)
	if err != nil {
		return "", err
	}
	return ToHHMM(m), nil
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// ParseDate parses an ISO "YYYY-MM-DD" key as a calendar day.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(dateLayout, date)
}
