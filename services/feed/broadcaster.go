// Package feed pushes the full appointment list to connected observers whenever it changes.
package feed

import (
	"errors"
	"fmt"
	"sync"

	"agendapro/metrics"
	"agendapro/models"
	"agendapro/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sink receives appointment snapshots. Send must not block.
type Sink interface {
	Send(snapshot []models.Appointment) error
}

// closer is implemented by sinks that want to learn they were dropped.
type closer interface {
	Close()
}

// Broadcaster keeps the latest snapshot and the set of connected observers.
// Each observer is written to independently; one that fails is removed and the
// others still receive the snapshot.
type Broadcaster struct {
	mu        sync.Mutex
	observers map[string]Sink
	snapshot  []models.Appointment
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		observers: make(map[string]Sink),
		snapshot:  []models.Appointment{},
		logger:    utils.GetLogger(),
		metrics:   metrics.Default(),
	}
}

// Subscribe sends the current snapshot to sink and, if that succeeds, registers it
// for later snapshots. Both happen under the broadcaster lock so no publish can
// slip in between.
func (b *Broadcaster) Subscribe(sink Sink) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := safeSend(sink, b.snapshot); err != nil {
		return "", fmt.Errorf("initial snapshot: %w", err)
	}
	id := uuid.NewString()
	b.observers[id] = sink
	b.metrics.FeedObservers.Set(float64(len(b.observers)))
	b.logger.Debug("Feed observer connected", zap.String("observerID", id))
	return id, nil
}

// Unsubscribe removes observer id. Unknown ids are ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.observers[id]; !ok {
		return
	}
	delete(b.observers, id)
	b.metrics.FeedObservers.Set(float64(len(b.observers)))
	b.logger.Debug("Feed observer disconnected", zap.String("observerID", id))
}

// Publish stores snapshot as the current list and sends it to every observer.
func (b *Broadcaster) Publish(snapshot []models.Appointment) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.snapshot = snapshot
	for id, sink := range b.observers {
		if err := safeSend(sink, snapshot); err != nil {
			delete(b.observers, id)
			if c, ok := sink.(closer); ok {
				c.Close()
			}
			b.metrics.FeedDroppedObservers.Inc()
			b.logger.Warn("Dropping feed observer", zap.String("observerID", id), zap.Error(err))
		}
	}
	b.metrics.FeedObservers.Set(float64(len(b.observers)))
}

// Snapshot returns the most recently published list.
func (b *Broadcaster) Snapshot() []models.Appointment {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Appointment{}, b.snapshot...)
}

// Len returns the number of connected observers.
func (b *Broadcaster) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.observers)
}

func safeSend(sink Sink, snapshot []models.Appointment) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprint("sink panicked: ", r))
		}
	}()
	return sink.Send(snapshot)
}
