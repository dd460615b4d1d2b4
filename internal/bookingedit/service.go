package bookingedit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/queue"
)

var (
	// ErrCommitInProgress is returned when the same change set is being
	// applied by another request.
	ErrCommitInProgress = errors.New("change set is already being applied")
	// ErrIdempotencyMismatch is returned when an idempotency key is reused
	// for a different change set.
	ErrIdempotencyMismatch = errors.New("idempotency key was used for a different change set")
)

// Backend is the part of the Aurora API booking edits need.
type Backend interface {
	GetBooking(ctx context.Context, token, id string) (model.Booking, error)
	GetService(ctx context.Context, id string) (model.Service, error)
	ApplyModifications(ctx context.Context, token, bookingID, idempotencyKey string, changeSet any) (model.Booking, error)
}

// Publisher sends booking events.  A nil Publisher disables events.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// Service manages edit sessions in the draft store and commits them.
type Service struct {
	store  draft.Store
	api    Backend
	ledger Ledger
	events Publisher
	now    func() time.Time
}

// NewService wires the edit service.  A nil ledger falls back to an
// in-memory one.
func NewService(store draft.Store, api Backend, ledger Ledger, events Publisher) *Service {
	if ledger == nil {
		ledger = NewMemoryLedger()
	}
	return &Service{store: store, api: api, ledger: ledger, events: events, now: time.Now}
}

func sessionKey(owner, id string) string { return draft.Key("edit", owner, id) }

// Open loads the booking and starts a session for it.
func (s *Service) Open(ctx context.Context, owner, token, bookingID string) (*Session, error) {
	b, err := s.api.GetBooking(ctx, token, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", bookingID, err)
	}
	if !b.Editable() {
		return nil, ErrNotEditable
	}
	sess := NewSession(b, owner, s.now())
	e, err := draft.SaveJSON(ctx, s.store, sessionKey(owner, sess.ID), sess, 0)
	if err != nil {
		return nil, fmt.Errorf("save edit session: %w", err)
	}
	sess.Version, sess.UpdatedAt = e.Version, e.UpdatedAt
	return sess, nil
}

// Get loads a session of owner.
func (s *Service) Get(ctx context.Context, owner, id string) (*Session, error) {
	var sess Session
	e, err := draft.LoadJSON(ctx, s.store, sessionKey(owner, id), &sess)
	if err != nil {
		return nil, err
	}
	sess.Version, sess.UpdatedAt = e.Version, e.UpdatedAt
	return &sess, nil
}

// Mutate applies fn to the stored session and saves it.  A non-zero
// expectedVersion must match the stored one.
func (s *Service) Mutate(ctx context.Context, owner, id string, expectedVersion int64, fn func(*Session) error) (*Session, error) {
	sess, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != 0 && expectedVersion != sess.Version {
		return nil, draft.ErrVersionConflict
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	e, err := draft.SaveJSON(ctx, s.store, sessionKey(owner, id), sess, sess.Version)
	if err != nil {
		return nil, err
	}
	sess.Version, sess.UpdatedAt = e.Version, e.UpdatedAt
	return sess, nil
}

// Discard drops a session without applying it.
func (s *Service) Discard(ctx context.Context, owner, id string) error {
	return s.store.Delete(ctx, sessionKey(owner, id))
}

// History lists the change sets submitted for a booking, newest first.
func (s *Service) History(ctx context.Context, bookingID string, limit int) ([]model.ChangeSetRecord, error) {
	return s.ledger.ListByBooking(ctx, bookingID, limit)
}

// CommitResult is what a commit returns.  Replayed is set when the change
// set had already been applied and the stored result was returned.
type CommitResult struct {
	Booking         model.Booking `json:"booking"`
	PriceDifference int64         `json:"priceDifference"`
	Replayed        bool          `json:"replayed"`
}

// Commit submits the session as one change set.  The idempotency key is
// derived from the session id and version, so retrying the same commit
// returns the first result and the backend never sees it twice.  The
// session is deleted once the backend accepted the change set; on failure
// it stays so the user can retry.
func (s *Service) Commit(ctx context.Context, owner, id string, expectedVersion int64, token string) (CommitResult, error) {
	sess, err := s.Get(ctx, owner, id)
	if errors.Is(err, draft.ErrNotFound) && expectedVersion != 0 {
		// A previous commit may have succeeded and removed the session.
		return s.replay(ctx, idempotencyKey(id, expectedVersion))
	}
	if err != nil {
		return CommitResult{}, err
	}
	if expectedVersion != 0 && expectedVersion != sess.Version {
		return CommitResult{}, draft.ErrVersionConflict
	}
	if !sess.HasChanges() {
		return CommitResult{}, ErrNoChanges
	}
	if err := s.resolvePrices(ctx, sess); err != nil {
		return CommitResult{}, err
	}

	cs := sess.ChangeSet()
	body, err := json.Marshal(cs)
	if err != nil {
		return CommitResult{}, fmt.Errorf("encode change set: %w", err)
	}
	sum := sha256.Sum256(body)
	key := idempotencyKey(sess.ID, sess.Version)
	rec, created, err := s.ledger.Begin(ctx, model.ChangeSetRecord{
		IdempotencyKey: key,
		BookingID:      sess.BookingID,
		Actor:          owner,
		RequestHash:    hex.EncodeToString(sum[:]),
	})
	if err != nil {
		return CommitResult{}, fmt.Errorf("record change set: %w", err)
	}
	if !created {
		if rec.RequestHash != hex.EncodeToString(sum[:]) {
			return CommitResult{}, ErrIdempotencyMismatch
		}
		return resultOf(rec)
	}

	booking, err := s.api.ApplyModifications(ctx, token, sess.BookingID, key, cs)
	if err != nil {
		if ferr := s.ledger.Fail(ctx, key, err.Error()); ferr != nil {
			log.Printf("bookingedit: ledger %s: mark failed: %v", key, ferr)
		}
		return CommitResult{}, fmt.Errorf("apply change set: %w", err)
	}

	res := CommitResult{Booking: booking, PriceDifference: booking.TotalPrice - sess.Original.TotalPrice}
	stored, err := json.Marshal(res)
	if err == nil {
		err = s.ledger.Complete(ctx, key, stored)
	}
	if err != nil {
		log.Printf("bookingedit: ledger %s: mark completed: %v", key, err)
	}
	if err := s.Discard(ctx, owner, id); err != nil {
		log.Printf("bookingedit: session %s: discard after commit: %v", id, err)
	}
	s.publish(ctx, sess, cs, res)
	return res, nil
}

func (s *Service) replay(ctx context.Context, key string) (CommitResult, error) {
	rec, err := s.ledger.Find(ctx, key)
	if errors.Is(err, ErrLedgerNotFound) {
		return CommitResult{}, draft.ErrNotFound
	}
	if err != nil {
		return CommitResult{}, fmt.Errorf("find change set: %w", err)
	}
	return resultOf(rec)
}

func resultOf(rec model.ChangeSetRecord) (CommitResult, error) {
	switch rec.Status {
	case model.ChangeSetCompleted:
	case model.ChangeSetFailed:
		return CommitResult{}, fmt.Errorf("change set %s failed: %s", rec.IdempotencyKey, rec.ErrorMessage)
	default:
		return CommitResult{}, ErrCommitInProgress
	}
	var res CommitResult
	if err := json.Unmarshal(rec.Result, &res); err != nil {
		return CommitResult{}, fmt.Errorf("decode stored result: %w", err)
	}
	res.Replayed = true
	return res, nil
}

func idempotencyKey(sessionID string, version int64) string {
	return sessionID + ":" + strconv.FormatInt(version, 10)
}

// resolvePrices fills in catalog prices for services added without one.
func (s *Service) resolvePrices(ctx context.Context, sess *Session) error {
	catalog := map[string]model.Service{}
	for k, c := range sess.ServiceChanges {
		add, ok := c.(ServiceAdd)
		if !ok || add.Price > 0 {
			continue
		}
		svc, seen := catalog[add.ServiceID]
		if !seen {
			var err error
			if svc, err = s.api.GetService(ctx, add.ServiceID); err != nil {
				return fmt.Errorf("load service %s: %w", add.ServiceID, err)
			}
			catalog[add.ServiceID] = svc
		}
		if add.ServiceName == "" {
			add.ServiceName = svc.Name
		}
		add.Price = svc.BasePrice
		sess.ServiceChanges[k] = add
		if i := sess.serviceIndex(add.TempID); i >= 0 {
			sess.Services[i].Price = add.Price
			sess.Services[i].ServiceName = add.ServiceName
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, sess *Session, cs ChangeSet, res CommitResult) {
	if s.events == nil {
		return
	}
	roomIDs := make([]string, 0, len(sess.Rooms))
	for _, r := range sess.Rooms {
		roomIDs = append(roomIDs, r.RoomID)
	}
	ev := queue.BookingEvent{
		Type:        queue.EventBookingModified,
		BookingID:   res.Booking.ID,
		BookingCode: res.Booking.BookingCode,
		BranchID:    sess.Original.BranchID,
		Actor:       sess.Owner,
		CheckIn:     sess.CheckIn.String(),
		CheckOut:    sess.CheckOut.String(),
		RoomIDs:     roomIDs,
		TotalPrice:  res.Booking.TotalPrice,
		PriceDelta:  res.PriceDifference,
		ChangeCount: len(cs.RoomChanges) + len(cs.ServiceChanges),
		OccurredAt:  s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		log.Printf("bookingedit: publish %s for booking %s: %v", ev.Type, res.Booking.ID, err)
	}
}
