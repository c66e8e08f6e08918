package recordsRepo

import (
	"context"

	"agendapro/models"
)

// Collection names, shared by every backend.
const (
	ServicesCollection     = "services"
	AppointmentsCollection = "appointments"
	SettingsCollection     = "settings"
)

// RecordStore persists the three collections of the scheduling engine. Each Save
// rewrites its whole collection.
type RecordStore interface {
	LoadServices(ctx context.Context) ([]models.Service, error)
	LoadAppointments(ctx context.Context) ([]models.Appointment, error)
	// LoadSettings returns nil when no settings were ever saved.
	LoadSettings(ctx context.Context) (map[string]any, error)

	SaveServices(ctx context.Context, services []models.Service) error
	SaveAppointments(ctx context.Context, appointments []models.Appointment) error
	SaveSettings(ctx context.Context, settings map[string]any) error

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
