package recordsRepo

import (
	"context"
	"fmt"
	"strings"

	"agendapro/config"
	"agendapro/database"
	"agendapro/services/booking"
	"agendapro/utils"
)

// Open returns the RecordStore selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg config.Config) (RecordStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StoreDriver)) {
	case "memory":
		return NewMemoryStore(), nil
	case "", "file":
		return NewFileStore(cfg.DataDir)
	case "mongo", "mongodb":
		if err := database.InitDB(); err != nil {
			return nil, err
		}
		return NewMongoRecordStore(database.MongoClient, cfg.MongoDB), nil
	case "redis":
		client, err := utils.GetCacheClient()
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client), nil
	case "postgres", "postgresql":
		pool, err := database.InitPostgres(ctx)
		if err != nil {
			return nil, err
		}
		return NewPostgresStore(ctx, pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// LoadState reads the three collections into the engine's startup state.
func LoadState(ctx context.Context, store RecordStore) (booking.State, error) {
	var state booking.State
	var err error
	if state.Services, err = store.LoadServices(ctx); err != nil {
		return state, err
	}
	if state.Appointments, err = store.LoadAppointments(ctx); err != nil {
		return state, err
	}
	if state.Settings, err = store.LoadSettings(ctx); err != nil {
		return state, err
	}
	return state, nil
}
