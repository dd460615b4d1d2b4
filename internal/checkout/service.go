package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/queue"
)

// Backend is the part of the Aurora API the checkout needs.
type Backend interface {
	CheckAvailability(ctx context.Context, token string, checkIn, checkOut model.Date, roomIDs []string) ([]model.RoomAvailability, error)
	CreateBooking(ctx context.Context, token string, req model.CreateBookingRequest) (model.Booking, error)
	VNPayURL(ctx context.Context, token, bookingID, returnURL string) (model.PaymentURL, error)
}

// Publisher sends booking events.  A nil Publisher disables events.
type Publisher interface {
	PublishBookingEvent(ctx context.Context, ev queue.BookingEvent) error
}

// Service owns checkout drafts: one persisted, versioned document per
// draft, scoped to the user that started it.
type Service struct {
	store     draft.Store
	api       Backend
	events    Publisher
	returnURL string
	now       func() time.Time
}

// NewService wires the draft store, the backend and the optional event
// publisher.  returnURL is where the payment gateway sends the guest back.
func NewService(store draft.Store, api Backend, events Publisher, returnURL string) *Service {
	return &Service{store: store, api: api, events: events, returnURL: returnURL, now: time.Now}
}

// StartRequest seeds a new draft from the room selection page.
type StartRequest struct {
	BranchID string              `json:"branchId"`
	CheckIn  model.Date          `json:"checkIn"`
	CheckOut model.Date          `json:"checkOut"`
	Guests   int                 `json:"guests"`
	Rooms    []model.BookingRoom `json:"rooms"`
}

func draftKey(owner, id string) string { return draft.Key("checkout", owner, id) }

func (s *Service) today() model.Date { return model.NewDate(s.now()) }

// Start creates a draft at the rooms step.  Rooms listed twice in the seed
// are added once.
func (s *Service) Start(ctx context.Context, owner string, req StartRequest) (*Draft, error) {
	d := &Draft{
		ID:        uuid.NewString(),
		Owner:     owner,
		Step:      StepRooms,
		CreatedAt: s.now().UTC(),
		Data: model.CheckoutData{
			BranchID:   req.BranchID,
			RoomExtras: map[string]model.RoomExtras{},
		},
	}
	if !req.CheckIn.IsZero() || !req.CheckOut.IsZero() {
		guests := req.Guests
		if guests < 1 {
			guests = 1
		}
		if err := d.SetStay(req.CheckIn, req.CheckOut, s.today(), guests); err != nil {
			return nil, err
		}
	}
	for _, r := range req.Rooms {
		if err := d.AddRoom(r); err != nil && !errors.Is(err, ErrRoomAlreadySelected) {
			return nil, err
		}
	}
	e, err := draft.SaveJSON(ctx, s.store, draftKey(owner, d.ID), d, 0)
	if err != nil {
		return nil, fmt.Errorf("save new draft: %w", err)
	}
	d.Version, d.UpdatedAt = e.Version, e.UpdatedAt
	return d, nil
}

// Get loads a draft of owner.
func (s *Service) Get(ctx context.Context, owner, id string) (*Draft, error) {
	var d Draft
	e, err := draft.LoadJSON(ctx, s.store, draftKey(owner, id), &d)
	if err != nil {
		return nil, err
	}
	d.Version, d.UpdatedAt = e.Version, e.UpdatedAt
	return &d, nil
}

// Mutate applies fn to the stored draft and saves the result.  When
// expectedVersion is not zero it must match the stored version; a draft
// changed in another tab yields draft.ErrVersionConflict.
func (s *Service) Mutate(ctx context.Context, owner, id string, expectedVersion int64, fn func(*Draft) error) (*Draft, error) {
	d, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion != 0 && expectedVersion != d.Version {
		return nil, draft.ErrVersionConflict
	}
	if err := fn(d); err != nil {
		return nil, err
	}
	return s.save(ctx, d)
}

// SetStay is a Mutate shortcut that supplies today's date.
func (s *Service) SetStay(ctx context.Context, owner, id string, expectedVersion int64, checkIn, checkOut model.Date, guests int) (*Draft, error) {
	today := s.today()
	return s.Mutate(ctx, owner, id, expectedVersion, func(d *Draft) error {
		return d.SetStay(checkIn, checkOut, today, guests)
	})
}

func (s *Service) save(ctx context.Context, d *Draft) (*Draft, error) {
	e, err := draft.SaveJSON(ctx, s.store, draftKey(d.Owner, d.ID), d, d.Version)
	if err != nil {
		return nil, err
	}
	d.Version, d.UpdatedAt = e.Version, e.UpdatedAt
	return d, nil
}

// Discard drops a draft.
func (s *Service) Discard(ctx context.Context, owner, id string) error {
	return s.store.Delete(ctx, draftKey(owner, id))
}

// SubmitResult is the outcome of a successful checkout.
type SubmitResult struct {
	Booking    model.Booking `json:"booking"`
	PaymentURL string        `json:"paymentUrl,omitempty"`
}

// Submit re-checks availability of every selected room in one call and,
// when all are still free, creates the booking in one request.  If a room
// was taken the draft returns to the rooms step and *UnavailableError is
// returned without creating anything.  A failed create leaves the draft in
// place so the guest can retry.
func (s *Service) Submit(ctx context.Context, owner, id string, expectedVersion int64, token string) (SubmitResult, error) {
	d, err := s.Get(ctx, owner, id)
	if err != nil {
		return SubmitResult{}, err
	}
	if expectedVersion != 0 && expectedVersion != d.Version {
		return SubmitResult{}, draft.ErrVersionConflict
	}
	if d.Step != StepPayment {
		return SubmitResult{}, ErrNotReady
	}
	for _, st := range stepOrder {
		if err := d.checkStep(st); err != nil {
			return SubmitResult{}, err
		}
	}

	ids := d.RoomIDs()
	answers, err := s.api.CheckAvailability(ctx, token, d.Data.CheckIn, d.Data.CheckOut, ids)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("check availability: %w", err)
	}
	if unavailable := unavailableRooms(ids, answers); unavailable != nil {
		d.Step = StepRooms
		if _, err := s.save(ctx, d); err != nil {
			log.Printf("checkout: draft %s: reset to rooms step failed: %v", d.ID, err)
		}
		return SubmitResult{}, unavailable
	}

	booking, err := s.api.CreateBooking(ctx, token, d.Request())
	if err != nil {
		return SubmitResult{}, fmt.Errorf("create booking: %w", err)
	}
	if err := s.Discard(ctx, owner, id); err != nil {
		log.Printf("checkout: draft %s: discard after booking %s failed: %v", d.ID, booking.ID, err)
	}

	res := SubmitResult{Booking: booking}
	if d.Data.PaymentMethod == model.PaymentVNPay {
		pay, err := s.api.VNPayURL(ctx, token, booking.ID, s.returnURL)
		if err != nil {
			log.Printf("checkout: booking %s: payment url failed: %v", booking.ID, err)
		} else {
			res.PaymentURL = pay.PaymentURL
		}
	}
	s.publish(ctx, d, booking)
	return res, nil
}

func (s *Service) publish(ctx context.Context, d *Draft, b model.Booking) {
	if s.events == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:          queue.EventBookingCreated,
		BookingID:     b.ID,
		BookingCode:   b.BookingCode,
		BranchID:      d.Data.BranchID,
		Actor:         d.Owner,
		CheckIn:       d.Data.CheckIn.String(),
		CheckOut:      d.Data.CheckOut.String(),
		RoomIDs:       d.RoomIDs(),
		TotalPrice:    b.TotalPrice,
		PaymentMethod: d.Data.PaymentMethod,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingEvent(ctx, ev); err != nil {
		log.Printf("checkout: publish %s for booking %s: %v", ev.Type, b.ID, err)
	}
}

// unavailableRooms returns nil when every requested room is reported
// available.  A room missing from the answer counts as unavailable.
func unavailableRooms(requested []string, answers []model.RoomAvailability) *UnavailableError {
	byID := make(map[string]model.RoomAvailability, len(answers))
	for _, a := range answers {
		byID[a.RoomID] = a
	}
	var ue *UnavailableError
	for _, id := range requested {
		a, ok := byID[id]
		if ok && a.Available {
			continue
		}
		if ue == nil {
			ue = &UnavailableError{}
		}
		ue.RoomIDs = append(ue.RoomIDs, id)
		if a.Reason != "" {
			ue.Reasons = append(ue.Reasons, a.Reason)
		}
	}
	return ue
}
