package debuglog

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps debug messages in memory.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]Entry
	closed bool
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]Entry),
	}
}

// Append implements Store.
func (m *MemoryStore) Append(contextID, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	entries := m.data[contextID]
	m.data[contextID] = append(entries, Entry{
		ContextID: contextID,
		Sequence:  len(entries) + 1,
		Timestamp: time.Now().UTC(),
		Message:   msg,
		Length:    len(msg),
	})
	return nil
}

// List implements Store.
func (m *MemoryStore) List(contextID string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	entries := m.data[contextID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out, nil
}

// Contexts implements Store.
func (m *MemoryStore) Contexts() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteContext implements Store.
func (m *MemoryStore) DeleteContext(contextID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, contextID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of entries across all contexts.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, entries := range m.data {
		count += len(entries)
	}
	return count
}
