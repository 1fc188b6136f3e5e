package repositories

import (
	"context"
	"sort"
	"sync"

	"lab-dispatch-service/internal/domain"
)

// In-memory ActionStore used by queue tests and local experiments.
// Mirrors the durable stores' semantics, including oldest-first pending
// order and the pending exemption from purges.
type MemoryActionStore struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]domain.QueuedAction
}

func NewMemoryActionStore() *MemoryActionStore {
	return &MemoryActionStore{entries: make(map[int64]domain.QueuedAction)}
}

func (m *MemoryActionStore) Append(_ context.Context, a domain.QueuedAction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	a.ID = m.nextID
	m.entries[a.ID] = a
	return a.ID, nil
}

func (m *MemoryActionStore) ListPending(_ context.Context) ([]domain.QueuedAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.QueuedAction, 0, len(m.entries))
	for _, a := range m.entries {
		if a.Status == domain.ActionPending {
			out = append(out, a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp != out[j].Timestamp {
			return out[i].Timestamp < out[j].Timestamp
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

func (m *MemoryActionStore) Update(_ context.Context, a domain.QueuedAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[a.ID] = a
	return nil
}

func (m *MemoryActionStore) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

func (m *MemoryActionStore) PurgeOlderThan(_ context.Context, cutoff int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for id, a := range m.entries {
		if a.Status == domain.ActionPending {
			continue
		}
		if a.Timestamp < cutoff {
			delete(m.entries, id)
			n++
		}
	}

	return n, nil
}

// Get returns an entry by id, for test assertions.
func (m *MemoryActionStore) Get(id int64) (domain.QueuedAction, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.entries[id]
	return a, ok
}

// Len returns the total number of stored entries, any status.
func (m *MemoryActionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.entries)
}
