package incidents

import (
	"context"
	"sync"
	"time"
)

// Store persists incidents. List returns the newest insert first.
type Store interface {
	List(ctx context.Context) ([]Incident, error)
	Get(ctx context.Context, id string) (Incident, error)
	Insert(ctx context.Context, inc Incident) error
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) (Incident, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu    sync.RWMutex
	items []Incident
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) List(_ context.Context) ([]Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Incident, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (Incident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(id); i >= 0 {
		return m.items[i], nil
	}
	return Incident{}, ErrNotFound
}

func (m *MemoryStore) Insert(_ context.Context, inc Incident) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.index(inc.ID) >= 0 {
		return ErrDuplicate
	}
	m.items = append([]Incident{inc}, m.items...)
	return nil
}

func (m *MemoryStore) UpdateStatus(_ context.Context, id string, status Status, at time.Time) (Incident, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return Incident{}, ErrNotFound
	}
	m.items[i].Status = status
	m.items[i].Date = at
	return m.items[i], nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(id)
	if i < 0 {
		return ErrNotFound
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

// index must be called with mu held.
func (m *MemoryStore) index(id string) int {
	for i, inc := range m.items {
		if inc.ID == id {
			return i
		}
	}
	return -1
}
