package draft

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreCompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	key := Key("checkout", "alice", "d1")

	if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load on empty store = %v, want ErrNotFound", err)
	}
	e1, err := s.Save(ctx, key, []byte(`{"a":1}`), 0)
	if err != nil || e1.Version != 1 {
		t.Fatalf("first save = %+v, %v", e1, err)
	}
	if _, err := s.Save(ctx, key, []byte(`{"a":2}`), 0); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("create over existing = %v, want conflict", err)
	}
	e2, err := s.Save(ctx, key, []byte(`{"a":2}`), 1)
	if err != nil || e2.Version != 2 {
		t.Fatalf("second save = %+v, %v", e2, err)
	}
	// a second tab still holding version 1 must not overwrite version 2
	if _, err := s.Save(ctx, key, []byte(`{"a":3}`), 1); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("stale save = %v, want conflict", err)
	}
	got, err := s.Load(ctx, key)
	if err != nil || string(got.Data) != `{"a":2}` {
		t.Fatalf("Load = %s, %v", got.Data, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load after delete = %v", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	if _, err := s.Save(ctx, "k", []byte(`1`), 0); err != nil {
		t.Fatal(err)
	}
	now = now.Add(2 * time.Minute)
	if _, err := s.Load(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired entry still loadable: %v", err)
	}
	// an expired key can be created again from scratch
	if e, err := s.Save(ctx, "k", []byte(`2`), 0); err != nil || e.Version != 1 {
		t.Fatalf("recreate = %+v, %v", e, err)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	type doc struct{ Name string }

	e, err := SaveJSON(ctx, s, "k", doc{Name: "x"}, 0)
	if err != nil {
		t.Fatal(err)
	}
	var out doc
	got, err := LoadJSON(ctx, s, "k", &out)
	if err != nil || out.Name != "x" || got.Version != e.Version {
		t.Fatalf("LoadJSON = %+v %+v, %v", out, got, err)
	}
}
