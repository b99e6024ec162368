package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/smallnest/graphwalk/store"
)

// MemoryRunStore keeps run records in process memory
type MemoryRunStore struct {
	mu      sync.RWMutex
	records map[string]*store.RunRecord
}

// NewMemoryRunStore creates an empty in-memory run store
func NewMemoryRunStore() *MemoryRunStore {
	return &MemoryRunStore{
		records: make(map[string]*store.RunRecord),
	}
}

// Save stores a copy of the record
func (m *MemoryRunStore) Save(_ context.Context, record *store.RunRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("run record must have an ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.ID] = clone(record)
	return nil
}

// Load retrieves a record by ID
func (m *MemoryRunStore) Load(_ context.Context, id string) (*store.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	return clone(rec), nil
}

// List returns all records of a session, oldest first
func (m *MemoryRunStore) List(_ context.Context, sessionID string) ([]*store.RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := []*store.RunRecord{}
	for _, rec := range m.records {
		if rec.SessionID == sessionID {
			records = append(records, clone(rec))
		}
	}
	store.SortByTimestamp(records)
	return records, nil
}

// Delete removes a record
func (m *MemoryRunStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}
	delete(m.records, id)
	return nil
}

// Clear removes all records of a session
func (m *MemoryRunStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	maps.DeleteFunc(m.records, func(_ string, rec *store.RunRecord) bool {
		return rec.SessionID == sessionID
	})
	return nil
}

func clone(rec *store.RunRecord) *store.RunRecord {
	c := *rec
	c.Metadata = maps.Clone(rec.Metadata)
	return &c
}
