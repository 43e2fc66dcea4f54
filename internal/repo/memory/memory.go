package memory

import (
	"context"
	"sync"
)

// Store is an in-process RecordStore. It never fails and forgets
// everything on restart; handy for tests and local dev.
type Store struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func New() *Store {
	return &Store{records: make(map[string][]byte)}
}

func recordKey(db, store, key string) string {
	return db + "\x00" + store + "\x00" + key
}

func (m *Store) Save(ctx context.Context, db, store, key string, value []byte) error {
	cp := append([]byte{}, value...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(db, store, key)] = cp
	return nil
}

func (m *Store) Load(ctx context.Context, db, store, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.records[recordKey(db, store, key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

// Len returns the number of records held.
func (m *Store) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
