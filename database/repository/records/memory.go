package recordsRepo

import (
	"context"
	"sync"
)

type memoryBackend struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore returns a RecordStore that keeps everything in process memory.
func NewMemoryStore() RecordStore {
	return &blobStore{backend: &memoryBackend{docs: make(map[string][]byte)}}
}

func (m *memoryBackend) get(_ context.Context, collection string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.docs[collection]
	return raw, ok, nil
}

func (m *memoryBackend) put(_ context.Context, collection string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[collection] = append([]byte(nil), data...)
	return nil
}

func (m *memoryBackend) ping(context.Context) error  { return nil }
func (m *memoryBackend) close(context.Context) error { return nil }
