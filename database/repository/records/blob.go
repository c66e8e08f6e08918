package recordsRepo

import (
	"context"
	"encoding/json"
	"fmt"

	"agendapro/models"
)

// blobBackend stores one opaque document per collection.
type blobBackend interface {
	get(ctx context.Context, collection string) ([]byte, bool, error)
	put(ctx context.Context, collection string, data []byte) error
	ping(ctx context.Context) error
	close(ctx context.Context) error
}

// blobStore implements RecordStore by encoding each collection as a JSON document.
type blobStore struct {
	backend blobBackend
}

func loadBlob[T any](ctx context.Context, b blobBackend, collection string) (T, bool, error) {
	var out T
	raw, ok, err := b.get(ctx, collection)
	if err != nil {
		return out, false, fmt.Errorf("load %s: %w", collection, err)
	}
	if !ok || len(raw) == 0 {
		return out, false, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, false, fmt.Errorf("decode %s: %w", collection, err)
	}
	return out, true, nil
}

func saveBlob(ctx context.Context, b blobBackend, collection string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", collection, err)
	}
	if err := b.put(ctx, collection, raw); err != nil {
		return fmt.Errorf("save %s: %w", collection, err)
	}
	return nil
}

func (s *blobStore) LoadServices(ctx context.Context) ([]models.Service, error) {
	v, _, err := loadBlob[[]models.Service](ctx, s.backend, ServicesCollection)
	return v, err
}

func (s *blobStore) LoadAppointments(ctx context.Context) ([]models.Appointment, error) {
	v, _, err := loadBlob[[]models.Appointment](ctx, s.backend, AppointmentsCollection)
	return v, err
}

func (s *blobStore) LoadSettings(ctx context.Context) (map[string]any, error) {
	v, ok, err := loadBlob[map[string]any](ctx, s.backend, SettingsCollection)
	if !ok {
		return nil, err
	}
	return v, err
}

func (s *blobStore) SaveServices(ctx context.Context, services []models.Service) error {
	return saveBlob(ctx, s.backend, ServicesCollection, nonNil(services))
}

func (s *blobStore) SaveAppointments(ctx context.Context, appointments []models.Appointment) error {
	return saveBlob(ctx, s.backend, AppointmentsCollection, nonNil(appointments))
}

func (s *blobStore) SaveSettings(ctx context.Context, settings map[string]any) error {
	return saveBlob(ctx, s.backend, SettingsCollection, settings)
}

func (s *blobStore) Ping(ctx context.Context) error  { return s.backend.ping(ctx) }
func (s *blobStore) Close(ctx context.Context) error { return s.backend.close(ctx) }

// nonNil keeps empty collections encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
