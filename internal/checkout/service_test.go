package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/queue"
)

type fakeBackend struct {
	unavailable  map[string]bool
	availCalls   int
	createCalls  int
	createErr    error
	lastRequest  model.CreateBookingRequest
	paymentCalls int
}

func (f *fakeBackend) CheckAvailability(_ context.Context, _ string, _, _ model.Date, ids []string) ([]model.RoomAvailability, error) {
	f.availCalls++
	out := make([]model.RoomAvailability, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.RoomAvailability{RoomID: id, Available: !f.unavailable[id]})
	}
	return out, nil
}

func (f *fakeBackend) CreateBooking(_ context.Context, _ string, req model.CreateBookingRequest) (model.Booking, error) {
	f.createCalls++
	f.lastRequest = req
	if f.createErr != nil {
		return model.Booking{}, f.createErr
	}
	return model.Booking{ID: "b-1", BookingCode: "AUR-1", TotalPrice: req.PriceHint}, nil
}

func (f *fakeBackend) VNPayURL(_ context.Context, _, bookingID, returnURL string) (model.PaymentURL, error) {
	f.paymentCalls++
	return model.PaymentURL{BookingID: bookingID, PaymentURL: "https://pay.example/" + bookingID + "?return=" + returnURL}, nil
}

type recordingPublisher struct{ events []queue.BookingEvent }

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, ev queue.BookingEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newTestService(api *fakeBackend, pub Publisher) (*Service, *draft.MemoryStore) {
	store := draft.NewMemoryStore(0)
	s := NewService(store, api, pub, "https://aurora.example/return")
	s.now = func() time.Time { return time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC) }
	return s, store
}

// readyDraft walks a draft through every step up to payment.
func readyDraft(t *testing.T, s *Service, method string) *Draft {
	t.Helper()
	ctx := context.Background()
	d, err := s.Start(ctx, "alice", StartRequest{
		BranchID: "hn",
		CheckIn:  mustDate(t, "2026-11-01"),
		CheckOut: mustDate(t, "2026-11-03"),
		Guests:   2,
		Rooms:    []model.BookingRoom{room("R1", 1_000_000), room("R2", 1_500_000), room("R1", 1_000_000)},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	d, err = s.Mutate(ctx, "alice", d.ID, d.Version, func(d *Draft) error {
		if err := d.SetGuest(model.GuestInfo{FullName: "Alice", Email: "alice@example.com", Phone: "0901234567"}); err != nil {
			return err
		}
		if err := d.SetPayment(method); err != nil {
			return err
		}
		return d.Advance(StepPayment)
	})
	if err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	return d
}

func TestStartDeduplicatesSeedRooms(t *testing.T) {
	s, _ := newTestService(&fakeBackend{}, nil)
	d := readyDraft(t, s, model.PaymentCash)
	if len(d.Data.Rooms) != 2 || d.Data.Nights != 2 {
		t.Fatalf("draft = %+v", d.Data)
	}
}

func TestStartRejectsNegativeSeedPrice(t *testing.T) {
	s, _ := newTestService(&fakeBackend{}, nil)
	_, err := s.Start(context.Background(), "alice", StartRequest{
		BranchID: "hn",
		Rooms:    []model.BookingRoom{room("R1", -500_000)},
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Step != StepRooms || verr.Fields["basePrice"] == "" {
		t.Fatalf("Start = %v, want basePrice ValidationError", err)
	}
}

func TestMutateRejectsStaleVersion(t *testing.T) {
	s, _ := newTestService(&fakeBackend{}, nil)
	ctx := context.Background()
	d, err := s.Start(ctx, "alice", StartRequest{})
	if err != nil {
		t.Fatal(err)
	}
	stale := d.Version
	if _, err := s.Mutate(ctx, "alice", d.ID, stale, func(d *Draft) error { return d.AddRoom(room("R1", 1)) }); err != nil {
		t.Fatal(err)
	}
	_, err = s.Mutate(ctx, "alice", d.ID, stale, func(d *Draft) error { return d.AddRoom(room("R2", 1)) })
	if !errors.Is(err, draft.ErrVersionConflict) {
		t.Fatalf("stale mutate = %v, want conflict", err)
	}
}

func TestDraftsAreScopedToOwner(t *testing.T) {
	s, _ := newTestService(&fakeBackend{}, nil)
	ctx := context.Background()
	d, _ := s.Start(ctx, "alice", StartRequest{})
	if _, err := s.Get(ctx, "bob", d.ID); !errors.Is(err, draft.ErrNotFound) {
		t.Fatalf("other user's draft = %v, want not found", err)
	}
}

func TestSubmitAbortsWhenRoomTaken(t *testing.T) {
	api := &fakeBackend{unavailable: map[string]bool{"R2": true}}
	s, _ := newTestService(api, nil)
	d := readyDraft(t, s, model.PaymentCash)

	_, err := s.Submit(context.Background(), "alice", d.ID, d.Version, "tok")
	var ue *UnavailableError
	if !errors.As(err, &ue) || len(ue.RoomIDs) != 1 || ue.RoomIDs[0] != "R2" {
		t.Fatalf("Submit = %v, want UnavailableError for R2", err)
	}
	if api.availCalls != 1 {
		t.Fatalf("availability calls = %d, want one batched call", api.availCalls)
	}
	if api.createCalls != 0 {
		t.Fatal("booking created despite unavailable room")
	}
	back, err := s.Get(context.Background(), "alice", d.ID)
	if err != nil || back.Step != StepRooms {
		t.Fatalf("draft after abort: %+v, %v", back, err)
	}
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	api := &fakeBackend{createErr: &aurora.APIError{Status: 400, Message: "Promotion expired"}}
	s, _ := newTestService(api, nil)
	d := readyDraft(t, s, model.PaymentCash)

	_, err := s.Submit(context.Background(), "alice", d.ID, d.Version, "tok")
	if aurora.MessageOf(err) != "Promotion expired" {
		t.Fatalf("Submit error = %v", err)
	}
	if _, err := s.Get(context.Background(), "alice", d.ID); err != nil {
		t.Fatalf("draft gone after failed create: %v", err)
	}
}

func TestSubmitSuccessClearsDraftAndPublishes(t *testing.T) {
	api := &fakeBackend{}
	pub := &recordingPublisher{}
	s, _ := newTestService(api, pub)
	d := readyDraft(t, s, model.PaymentVNPay)

	res, err := s.Submit(context.Background(), "alice", d.ID, d.Version, "tok")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Booking.ID != "b-1" || res.PaymentURL == "" || api.paymentCalls != 1 {
		t.Fatalf("result = %+v", res)
	}
	if len(api.lastRequest.Rooms) != 2 || api.lastRequest.PriceHint != 5_000_000 {
		t.Fatalf("request = %+v", api.lastRequest)
	}
	if _, err := s.Get(context.Background(), "alice", d.ID); !errors.Is(err, draft.ErrNotFound) {
		t.Fatalf("draft still stored: %v", err)
	}
	if len(pub.events) != 1 || pub.events[0].Type != queue.EventBookingCreated || pub.events[0].Actor != "alice" {
		t.Fatalf("events = %+v", pub.events)
	}
}

func TestSubmitRequiresPaymentStep(t *testing.T) {
	s, _ := newTestService(&fakeBackend{}, nil)
	d, _ := s.Start(context.Background(), "alice", StartRequest{})
	if _, err := s.Submit(context.Background(), "alice", d.ID, 0, "tok"); !errors.Is(err, ErrNotReady) {
		t.Fatalf("Submit at rooms step = %v", err)
	}
}
