package booking

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"agendapro/metrics"
	"agendapro/models"
	"agendapro/services/settings"
	"agendapro/utils"

	"go.uber.org/zap"
)

// Persister receives the full collection after every successful mutation.
// Implementations must not block; writes happen in the background.
type Persister interface {
	SaveServices(services []models.Service)
	SaveAppointments(appointments []models.Appointment)
	SaveSettings(doc map[string]any)
}

// Publisher pushes the current appointment list to observers.
// It is invoked while the engine holds its write lock, so calls are ordered.
type Publisher interface {
	Publish(appointments []models.Appointment)
}

// State is what the engine is loaded with at startup.
type State struct {
	Services     []models.Service
	Appointments []models.Appointment
	Settings     map[string]any
}

// Engine owns the scheduling state: the service catalog, the appointment list and
// the settings document. Every mutation goes through its write lock.
type Engine struct {
	mu           sync.RWMutex
	services     []models.Service
	appointments []models.Appointment
	settingsDoc  settings.Document
	typed        models.Settings

	persist Persister
	feed    Publisher
	now     func() time.Time
	lastID  int64
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now as the source of creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine builds an engine over state. An empty catalog is seeded with the
// default services and missing settings with the defaults; seeded collections
// are handed to persist straight away.
func NewEngine(state State, persist Persister, feed Publisher, opts ...Option) *Engine {
	e := &Engine{
		services:     append([]models.Service(nil), state.Services...),
		appointments: append([]models.Appointment(nil), state.Appointments...),
		settingsDoc:  settings.Clone(state.Settings),
		persist:      persist,
		feed:         feed,
		now:          time.Now,
		logger:       utils.GetLogger(),
		metrics:      metrics.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.persist == nil {
		e.persist = noopPersister{}
	}
	if e.feed == nil {
		e.feed = noopPublisher{}
	}

	if len(e.services) == 0 {
		e.services = models.DefaultServices()
		e.persist.SaveServices(e.servicesCopy())
	}
	if e.settingsDoc == nil {
		e.settingsDoc = settings.Defaults()
		e.persist.SaveSettings(settings.Clone(e.settingsDoc))
	}
	typed, err := settings.Decode(e.settingsDoc)
	if err != nil {
		e.logger.Warn("Stored settings do not decode, working hours treated as closed", zap.Error(err))
	}
	e.typed = typed

	for _, a := range e.appointments {
		if n, ok := parseAppointmentID(a.ID); ok && n > e.lastID {
			e.lastID = n
		}
	}

	// the feed starts from the loaded list
	e.feed.Publish(e.appointmentsCopy())
	return e
}

// Services returns a copy of the catalog.
func (e *Engine) Services() []models.Service {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.servicesCopy()
}

// Appointments returns a copy of every appointment.
func (e *Engine) Appointments() []models.Appointment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.appointmentsCopy()
}

// AppointmentsOn returns the appointments booked on date.
func (e *Engine) AppointmentsOn(date string) []models.Appointment {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []models.Appointment{}
	for _, a := range e.appointments {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out
}

// Snapshot returns catalog and appointments read under a single lock.
func (e *Engine) Snapshot() ([]models.Service, []models.Appointment) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.servicesCopy(), e.appointmentsCopy()
}

// Availability classifies the slots of date for a service lasting durationMin.
func (e *Engine) Availability(date string, durationMin int) (models.Availability, error) {
	if strings.TrimSpace(date) == "" {
		return models.Availability{}, validationError("date is required")
	}
	if durationMin <= 0 {
		return models.Availability{}, validationError("durationMin must be positive")
	}
	if durationMin > MaxDurationMin {
		return models.Availability{}, validationError("durationMin must not exceed %d", MaxDurationMin)
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return ComputeAvailability(date, durationMin, e.typed.Hours, e.appointments), nil
}

// MarkPaid flips the paid flag of appointment id.
func (e *Engine) MarkPaid(id string) (models.Appointment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.appointments {
		if e.appointments[i].ID != id {
			continue
		}
		e.appointments[i].Paid = true
		updated := e.appointments[i]
		e.commitAppointments()
		e.metrics.PaymentsTotal.Inc()
		e.logger.Info("Appointment marked as paid", zap.String("appointmentID", id))
		return updated, nil
	}
	return models.Appointment{}, notFoundError("appointment %s not found", id)
}

// Settings returns a copy of the settings document.
func (e *Engine) Settings() settings.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return settings.Clone(e.settingsDoc)
}

// TypedSettings returns the decoded view of the settings document.
func (e *Engine) TypedSettings() models.Settings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s := e.typed
	s.Hours = append(models.WorkingHours(nil), e.typed.Hours...)
	return s
}

// UpdateSettings deep-merges patch into the settings document. A merge result
// whose typed fields do not decode is rejected and nothing changes.
func (e *Engine) UpdateSettings(patch settings.Document) (settings.Document, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	merged := settings.Merge(e.settingsDoc, patch)
	typed, err := settings.Decode(merged)
	if err != nil {
		return nil, utils.NewAppError(utils.KindValidation, "settings patch has invalid field types", err)
	}
	e.settingsDoc = merged
	e.typed = typed
	e.persist.SaveSettings(settings.Clone(merged))
	return settings.Clone(merged), nil
}

// commitAppointments schedules persistence of the appointment list and publishes it.
// Callers hold the write lock.
func (e *Engine) commitAppointments() {
	snapshot := e.appointmentsCopy()
	e.persist.SaveAppointments(snapshot)
	e.feed.Publish(e.appointmentsCopy())
}

// nextAppointmentID returns "apt-<unix millis>", bumped past the last issued id so
// ids keep increasing when two bookings land in the same millisecond.
func (e *Engine) nextAppointmentID() string {
	n := e.now().UnixMilli()
	if n <= e.lastID {
		n = e.lastID + 1
	}
	e.lastID = n
	return "apt-" + strconv.FormatInt(n, 10)
}

func (e *Engine) servicesCopy() []models.Service {
	return append([]models.Service{}, e.services...)
}

func (e *Engine) appointmentsCopy() []models.Appointment {
	return append([]models.Appointment{}, e.appointments...)
}

func parseAppointmentID(id string) (int64, bool) {
	raw, ok := strings.CutPrefix(id, "apt-")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	return n, err == nil
}

type noopPersister struct{}

func (noopPersister) SaveServices([]models.Service)         {}
func (noopPersister) SaveAppointments([]models.Appointment) {}
func (noopPersister) SaveSettings(map[string]any)           {}

type noopPublisher struct{}

func (noopPublisher) Publish([]models.Appointment) {}
