package booking

import (
	"strings"

	"agendapro/models"

	"go.uber.org/zap"
)

// Book is the only way an appointment is created. It validates the request, then,
// holding the write lock for the whole check-then-insert sequence, rejects closed
// days and intervals outside working hours (OutsideHours), rejects overlaps with
// existing bookings (Conflict), resolves the service reference, inserts the
// appointment, schedules persistence and publishes the new list to the feed.
func (e *Engine) Book(req models.BookingRequest) (models.Appointment, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		e.metrics.BookingsTotal.WithLabelValues("invalid").Inc()
		return models.Appointment{}, err
	}
	start, _ := ToMinutes(req.StartTime)
	end := start + req.DurationMin

	e.mu.Lock()
	defer e.mu.Unlock()

	w, open := ResolveWorkingHours(req.Date, e.typed.Hours)
	if !open {
		e.metrics.BookingsTotal.WithLabelValues("outside_hours").Inc()
		return models.Appointment{}, outsideHoursError("closed on %s", req.Date)
	}
	if start < w.Start || end > w.End {
		e.metrics.BookingsTotal.WithLabelValues("outside_hours").Inc()
		return models.Appointment{}, outsideHoursError("%s-%s is outside %s-%s",
			req.StartTime, ToHHMM(end), ToHHMM(w.Start), ToHHMM(w.End))
	}
	if conflicts(start, end, intervalsOn(req.Date, e.appointments)) {
		e.metrics.BookingsTotal.WithLabelValues("conflict").Inc()
		return models.Appointment{}, conflictError("%s %s overlaps an existing appointment", req.Date, req.StartTime)
	}

	apt := models.Appointment{
		ID:          e.nextAppointmentID(),
		Date:        req.Date,
		StartTime:   req.StartTime,
		DurationMin: req.DurationMin,
		ClientName:  req.ClientName,
		ServiceID:   req.ServiceID,
		ServiceName: req.ServiceName,
	}
	if svc, ok := e.resolveService(req.ServiceID, req.ServiceName); ok {
		apt.ServiceID = svc.ID
		apt.ServiceName = svc.Name
	}

	e.appointments = append(e.appointments, apt)
	e.commitAppointments()
	e.metrics.BookingsTotal.WithLabelValues("created").Inc()

	e.logger.Info("Appointment created",
		zap.String("appointmentID", apt.ID),
		zap.String("date", apt.Date),
		zap.String("startTime", apt.StartTime),
		zap.String("serviceID", apt.ServiceID))
	return apt, nil
}

// resolveService finds a service by exact id, else by case-insensitive substring
// of name. Callers hold the lock.
func (e *Engine) resolveService(id, name string) (models.Service, bool) {
	if id != "" {
		for _, s := range e.services {
			if s.ID == id {
				return s, true
			}
		}
	}
	if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
		for _, s := range e.services {
			if strings.Contains(strings.ToLower(s.Name), name) {
				return s, true
			}
		}
	}
	return models.Service{}, false
}

func normalizeRequest(req models.BookingRequest) (models.BookingRequest, error) {
	req.Date = strings.TrimSpace(req.Date)
	req.ClientName = strings.TrimSpace(req.ClientName)
	req.ServiceID = strings.TrimSpace(req.ServiceID)
	req.ServiceName = strings.TrimSpace(req.ServiceName)

	switch {
	case req.Date == "":
		return req, validationError("date is required")
	case req.StartTime == "":
		return req, validationError("startTime is required")
	case req.DurationMin <= 0:
		return req, validationError("durationMin must be positive")
	case req.DurationMin > MaxDurationMin:
		return req, validationError("durationMin must not exceed %d", MaxDurationMin)
	case req.ClientName == "":
		return req, validationError("clientName is required")
	case req.ServiceID == "" && req.ServiceName == "":
		return req, validationError("serviceId or serviceName is required")
	}
	if _, err := ParseDate(req.Date); err != nil {
		return req, validationError("date %q is not YYYY-MM-DD", req.Date)
	}
	hhmm, err := NormalizeHHMM(req.StartTime)
	if err != nil {
		return req, validationError("startTime %q is not HH:MM", req.StartTime)
	}
	req.StartTime = hhmm
	return req, nil
}
