package draft

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory.  It is used in tests and
// when Redis is unavailable; entries expire after ttl like Redis keys do.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memEntry
}

type memEntry struct {
	Entry
	expires time.Time
}

// NewMemoryStore returns an empty store.  A zero ttl keeps entries forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[string]memEntry)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.live(key)
	if !ok {
		return Entry{}, ErrNotFound
	}
	out := e.Entry
	out.Data = append([]byte(nil), e.Data...)
	return out, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, data []byte, expectedVersion int64) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var current int64
	if e, ok := m.live(key); ok {
		current = e.Version
	}
	if current != expectedVersion {
		return Entry{}, ErrVersionConflict
	}
	now := m.now().UTC()
	e := memEntry{Entry: Entry{
		Version:   current + 1,
		UpdatedAt: now,
		Data:      append([]byte(nil), data...),
	}}
	if m.ttl > 0 {
		e.expires = now.Add(m.ttl)
	}
	m.entries[key] = e
	return e.Entry, nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// live returns the entry under key unless it has expired.  m.mu must be held.
func (m *MemoryStore) live(key string) (memEntry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		delete(m.entries, key)
		return memEntry{}, false
	}
	return e, true
}
