package bookingedit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// ErrLedgerNotFound is returned by Ledger.Complete and Ledger.Fail for an
// unknown key.
var ErrLedgerNotFound = errors.New("change set not found")

// Ledger remembers every change set submitted under an idempotency key so a
// retried commit can be answered without applying it twice.
type Ledger interface {
	// Begin records rec as pending.  If the key is already known and not
	// failed, the stored record is returned with created == false.  A failed
	// record is reset to pending and counts as created.
	Begin(ctx context.Context, rec model.ChangeSetRecord) (stored model.ChangeSetRecord, created bool, err error)
	Complete(ctx context.Context, key string, result []byte) error
	Fail(ctx context.Context, key, message string) error
	// Find returns the record under key or ErrLedgerNotFound.
	Find(ctx context.Context, key string) (model.ChangeSetRecord, error)
	// ListByBooking returns up to limit records of a booking, newest first.
	ListByBooking(ctx context.Context, bookingID string, limit int) ([]model.ChangeSetRecord, error)
}

// MemoryLedger is an in-process Ledger used in tests and when no database
// is configured.
type MemoryLedger struct {
	mu   sync.Mutex
	recs map[string]model.ChangeSetRecord
	now  func() time.Time
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{recs: make(map[string]model.ChangeSetRecord), now: time.Now}
}

func (l *MemoryLedger) Begin(_ context.Context, rec model.ChangeSetRecord) (model.ChangeSetRecord, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now().UTC()
	if cur, ok := l.recs[rec.IdempotencyKey]; ok && cur.Status != model.ChangeSetFailed {
		return cur, false, nil
	} else if ok {
		rec.CreatedAt = cur.CreatedAt
	} else {
		rec.CreatedAt = now
	}
	rec.Status = model.ChangeSetPending
	rec.Result, rec.ErrorMessage = nil, ""
	rec.UpdatedAt = now
	l.recs[rec.IdempotencyKey] = rec
	return rec, true, nil
}

func (l *MemoryLedger) Complete(_ context.Context, key string, result []byte) error {
	return l.finish(key, model.ChangeSetCompleted, result, "")
}

func (l *MemoryLedger) Fail(_ context.Context, key, message string) error {
	return l.finish(key, model.ChangeSetFailed, nil, message)
}

func (l *MemoryLedger) finish(key, status string, result []byte, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.recs[key]
	if !ok {
		return ErrLedgerNotFound
	}
	rec.Status = status
	rec.Result = append([]byte(nil), result...)
	rec.ErrorMessage = message
	rec.UpdatedAt = l.now().UTC()
	l.recs[key] = rec
	return nil
}

func (l *MemoryLedger) Find(_ context.Context, key string) (model.ChangeSetRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.recs[key]
	if !ok {
		return model.ChangeSetRecord{}, ErrLedgerNotFound
	}
	return rec, nil
}

func (l *MemoryLedger) ListByBooking(_ context.Context, bookingID string, limit int) ([]model.ChangeSetRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	l.mu.Lock()
	var out []model.ChangeSetRecord
	for _, rec := range l.recs {
		if rec.BookingID == bookingID {
			out = append(out, rec)
		}
	}
	l.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
