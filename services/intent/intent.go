// Package intent pulls booking hints out of free-form chat messages.
// It is plain pattern matching: missed intents are expected, false positives rare.
package intent

import (
	"regexp"
	"strings"

	"agendapro/services/booking"
)

// BookingIntent holds what a single message says about a booking. Empty fields were not found.
type BookingIntent struct {
	Date       string // "YYYY-MM-DD"
	Time       string // "HH:MM"
	Confirm    bool
	ClientName string
}

var (
	dateRe    = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	timeRe    = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	confirmRe = regexp.MustCompile(`(?i)(confirmar|pode marcar|agendar|marcar|confirm|book it|schedule)`)
	clientRe  = regexp.MustCompile(`(?i)\b(?:para|for)\s+([\p{L}'\- ]+)`)
)

const minClientName = 2

// Extract parses message for a date, a time, a confirmation phrase and a client name.
func Extract(message string) BookingIntent {
	var in BookingIntent

	if m := dateRe.FindStringSubmatch(message); m != nil {
		in.Date = m[1]
	}
	if m := timeRe.FindString(message); m != "" {
		if hhmm, err := booking.NormalizeHHMM(m); err == nil {
			in.Time = hhmm
		}
	}
	in.Confirm = confirmRe.MatchString(message)
	in.ClientName = clientName(message)
	return in
}

// clientName returns the first run of name characters following "para" or "for"
// that is at least two characters long once trimmed.
func clientName(message string) string {
	for _, m := range clientRe.FindAllStringSubmatch(message, -1) {
		name := strings.TrimSpace(m[1])
		if len([]rune(name)) >= minClientName {
			return name
		}
	}
	return ""
}
