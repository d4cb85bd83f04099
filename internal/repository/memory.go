package repository

import (
	"context"
	"sync"
)

// MemoryStateRepository is the fallback known-id store when Redis is
// unavailable. State is lost on restart, which only means one spurious
// silent first load.
type MemoryStateRepository struct {
	mu  sync.RWMutex
	ids []string
	set bool
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{}
}

func (m *MemoryStateRepository) GetKnownIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.set {
		return nil, nil
	}
	out := make([]string, len(m.ids))
	copy(out, m.ids)
	return out, nil
}

func (m *MemoryStateRepository) SetKnownIDs(_ context.Context, ids []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = make([]string, len(ids))
	copy(m.ids, ids)
	m.set = true
	return nil
}

func (m *MemoryStateRepository) ClearKnownIDs(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = nil
	m.set = false
	return nil
}
