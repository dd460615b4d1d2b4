// Package draft persists in-progress client state (checkout drafts, booking
// edit sessions) as versioned entries.  Every save names the version it was
// based on, so two browser tabs editing the same draft conflict instead of
// silently overwriting each other.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when no entry exists under the key.
	ErrNotFound = errors.New("draft not found")
	// ErrVersionConflict is returned when the stored version differs from
	// the version a save was based on.
	ErrVersionConflict = errors.New("draft version conflict")
)

// Entry is one stored draft.
type Entry struct {
	Version   int64           `json:"version"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Data      json.RawMessage `json:"data"`
}

// Store is implemented by RedisStore and MemoryStore.
type Store interface {
	// Load returns the entry under key or ErrNotFound.
	Load(ctx context.Context, key string) (Entry, error)
	// Save writes data under key if the stored version equals
	// expectedVersion (0 means the key must not exist yet) and returns
	// the new entry with the version incremented.
	Save(ctx context.Context, key string, data []byte, expectedVersion int64) (Entry, error)
	// Delete removes key.  Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Key builds a namespaced store key, e.g. Key("checkout", owner, id).
func Key(kind string, parts ...string) string {
	k := "aurora:draft:" + kind
	for _, p := range parts {
		k += ":" + p
	}
	return k
}

// LoadJSON loads key and decodes it into v, returning the entry version.
func LoadJSON(ctx context.Context, s Store, key string, v any) (Entry, error) {
	e, err := s.Load(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return Entry{}, fmt.Errorf("decode draft %s: %w", key, err)
	}
	return e, nil
}

// SaveJSON encodes v and saves it under key.
func SaveJSON(ctx context.Context, s Store, key string, v any, expectedVersion int64) (Entry, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return Entry{}, fmt.Errorf("encode draft %s: %w", key, err)
	}
	return s.Save(ctx, key, b, expectedVersion)
}
