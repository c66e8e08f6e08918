package feed

import (
	"errors"
	"sync"

	"agendapro/models"
)

// ErrSinkFull is returned when an observer has not drained its buffer.
var ErrSinkFull = errors.New("feed sink buffer full")

// ErrSinkClosed is returned when writing to a closed sink.
var ErrSinkClosed = errors.New("feed sink closed")

// ChannelSink buffers snapshots for a consumer goroutine, typically an SSE handler.
type ChannelSink struct {
	ch   chan []models.Appointment
	done chan struct{}
	once sync.Once
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer < 1 {
		buffer = 1
	}
	return &ChannelSink{
		ch:   make(chan []models.Appointment, buffer),
		done: make(chan struct{}),
	}
}

// Send queues snapshot without blocking.
func (s *ChannelSink) Send(snapshot []models.Appointment) error {
	select {
	case <-s.done:
		return ErrSinkClosed
	default:
	}
	select {
	case s.ch <- snapshot:
		return nil
	default:
		return ErrSinkFull
	}
}

// C delivers queued snapshots.
func (s *ChannelSink) C() <-chan []models.Appointment { return s.ch }

// Done is closed once the sink has been dropped or closed.
func (s *ChannelSink) Done() <-chan struct{} { return s.done }

// Close marks the sink as finished. Safe to call more than once.
func (s *ChannelSink) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}
