package drafts

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps drafts in process; they are lost on restart
type MemoryStore struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store; ttl <= 0 keeps drafts until deleted
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(ctx context.Context, d *Draft) error {
	d.UpdatedAt = m.now().UTC()
	// stored encoded so callers never share wizard state
	b, err := encode(d)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var exp time.Time
	if m.ttl > 0 {
		exp = m.now().Add(m.ttl)
	}
	m.entries[d.ID] = memoryEntry{data: b, expiresAt: exp}
	m.sweepLocked()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Draft, error) {
	m.mu.RLock()
	e, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok || m.expired(e) {
		return nil, ErrNotFound
	}
	return decode(e.data)
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, id)
	return nil
}

// Len reports the number of stored drafts, expired ones included until the next sweep
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && m.now().After(e.expiresAt)
}

func (m *MemoryStore) sweepLocked() {
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
		}
	}
}
