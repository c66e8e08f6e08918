package recordsRepo

import (
	"context"
	"sync"
	"time"

	"agendapro/metrics"
	"agendapro/models"
	"agendapro/utils"

	"go.uber.org/zap"
)

const defaultWriteTimeout = 10 * time.Second

// flushOrder fixes the order pending collections are written in.
var flushOrder = []string{ServicesCollection, AppointmentsCollection, SettingsCollection}

// Flusher writes engine snapshots to a RecordStore from a single goroutine.
// Only the latest snapshot of each collection is kept, so a slow store sees
// fewer writes rather than a growing queue.
type Flusher struct {
	store   RecordStore
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	pending map[string]func(context.Context) error
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewFlusher starts the writer goroutine. Call Close to drain and stop it.
func NewFlusher(store RecordStore) *Flusher {
	f := &Flusher{
		store:   store,
		timeout: defaultWriteTimeout,
		logger:  utils.GetLogger(),
		metrics: metrics.Default(),
		pending: make(map[string]func(context.Context) error),
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go f.run()
	return f
}

func (f *Flusher) SaveServices(services []models.Service) {
	f.enqueue(ServicesCollection, func(ctx context.Context) error {
		return f.store.SaveServices(ctx, services)
	})
}

func (f *Flusher) SaveAppointments(appointments []models.Appointment) {
	f.enqueue(AppointmentsCollection, func(ctx context.Context) error {
		return f.store.SaveAppointments(ctx, appointments)
	})
}

func (f *Flusher) SaveSettings(doc map[string]any) {
	f.enqueue(SettingsCollection, func(ctx context.Context) error {
		return f.store.SaveSettings(ctx, doc)
	})
}

func (f *Flusher) enqueue(collection string, write func(context.Context) error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.logger.Warn("Dropping write after flusher close", zap.String("collection", collection))
		return
	}
	f.pending[collection] = write
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

func (f *Flusher) run() {
	defer close(f.done)
	for {
		select {
		case <-f.wake:
			f.drain()
		case <-f.stop:
			f.drain()
			return
		}
	}
}

// drain writes whatever is pending until nothing is left.
func (f *Flusher) drain() {
	for {
		f.mu.Lock()
		batch := f.pending
		f.pending = make(map[string]func(context.Context) error)
		f.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, collection := range flushOrder {
			if write, ok := batch[collection]; ok {
				f.write(collection, write)
			}
		}
	}
}

func (f *Flusher) write(collection string, write func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	if err := write(ctx); err != nil {
		f.metrics.StoreWritesTotal.WithLabelValues(collection, "error").Inc()
		f.logger.Error("Failed to persist collection",
			zap.String("collection", collection),
			zap.Error(err))
		return
	}
	f.metrics.StoreWritesTotal.WithLabelValues(collection, "ok").Inc()
}

// Close stops accepting writes and waits for pending ones to finish, or for ctx.
func (f *Flusher) Close(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	f.mu.Unlock()

	close(f.stop)
	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
