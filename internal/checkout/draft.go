package checkout

import (
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/validation"
)

// Step is a checkout wizard step.
type Step string

const (
	StepRooms   Step = "rooms"
	StepExtras  Step = "extras"
	StepGuest   Step = "guest"
	StepPayment Step = "payment"
)

var stepOrder = []Step{StepRooms, StepExtras, StepGuest, StepPayment}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Draft is a checkout in progress.  Version is the store version the draft
// was loaded at; it is not part of the stored document.
type Draft struct {
	ID        string             `json:"id"`
	Owner     string             `json:"owner"`
	Step      Step               `json:"step"`
	Data      model.CheckoutData `json:"data"`
	CreatedAt time.Time          `json:"createdAt"`
	Version   int64              `json:"-"`
	UpdatedAt time.Time          `json:"-"`
}

// AddRoom selects a room.  Selecting the same room twice is rejected and
// leaves the selection unchanged.
func (d *Draft) AddRoom(r model.BookingRoom) error {
	if err := validation.Default().Validate(r); err != nil {
		return &ValidationError{Step: StepRooms, Fields: validation.Fields(err)}
	}
	for _, existing := range d.Data.Rooms {
		if existing.RoomID == r.RoomID {
			return ErrRoomAlreadySelected
		}
	}
	d.Data.Rooms = append(d.Data.Rooms, r)
	return nil
}

// RemoveRoom deselects a room and drops the extras attached to it.
func (d *Draft) RemoveRoom(roomID string) error {
	for i, r := range d.Data.Rooms {
		if r.RoomID == roomID {
			d.Data.Rooms = append(d.Data.Rooms[:i:i], d.Data.Rooms[i+1:]...)
			delete(d.Data.RoomExtras, roomID)
			return nil
		}
	}
	return ErrRoomNotSelected
}

// HasRoom reports whether roomID is selected.
func (d *Draft) HasRoom(roomID string) bool {
	for _, r := range d.Data.Rooms {
		if r.RoomID == roomID {
			return true
		}
	}
	return false
}

// SetStay sets the date range and guest count and recomputes nights.
// today is the caller's notion of the current day.
func (d *Draft) SetStay(checkIn, checkOut, today model.Date, guests int) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn.Time) {
		return ErrInvalidStay
	}
	if checkIn.Before(today.Time) {
		return ErrStayInPast
	}
	if guests < 1 {
		return ErrInvalidGuests
	}
	d.Data.CheckIn = checkIn
	d.Data.CheckOut = checkOut
	d.Data.Guests = guests
	d.Data.Nights = model.NightsBetween(checkIn, checkOut)
	return nil
}

// SetRoomExtras replaces the services and note of one selected room.  An
// extras value without services and note clears the entry.
func (d *Draft) SetRoomExtras(roomID string, extras model.RoomExtras) error {
	if !d.HasRoom(roomID) {
		return ErrRoomNotSelected
	}
	if err := validation.Default().Validate(extras); err != nil {
		return &ValidationError{Step: StepExtras, Fields: validation.Fields(err)}
	}
	if len(extras.Services) == 0 && extras.Note == "" {
		delete(d.Data.RoomExtras, roomID)
		return nil
	}
	if d.Data.RoomExtras == nil {
		d.Data.RoomExtras = make(map[string]model.RoomExtras)
	}
	d.Data.RoomExtras[roomID] = extras
	return nil
}

// SetGuest stores the contact details after validating them.
func (d *Draft) SetGuest(g model.GuestInfo) error {
	if err := validation.Default().Validate(g); err != nil {
		return &ValidationError{Step: StepGuest, Fields: validation.Fields(err)}
	}
	d.Data.Guest = &g
	return nil
}

// SetPayment chooses the payment method.
func (d *Draft) SetPayment(method string) error {
	switch method {
	case model.PaymentCash, model.PaymentVNPay, model.PaymentCard:
		d.Data.PaymentMethod = method
		return nil
	}
	return ErrPaymentMethod
}

// SetPromotion attaches a promotion id; an empty id removes it.
func (d *Draft) SetPromotion(id string) { d.Data.PromotionID = id }

// SetSpecialRequest stores the free-text request for the whole booking.
func (d *Draft) SetSpecialRequest(s string) { d.Data.SpecialRequest = s }

// Advance moves the draft to step to.  Every step between the current one
// and the target is validated; moving backwards is always allowed.
func (d *Draft) Advance(to Step) error {
	target := to.index()
	if target < 0 {
		return ErrInvalidStep
	}
	cur := d.Step.index()
	if cur < 0 {
		cur = 0
	}
	for i := cur; i < target; i++ {
		if err := d.checkStep(stepOrder[i]); err != nil {
			return err
		}
	}
	d.Step = to
	return nil
}

// Back returns to an earlier step.
func (d *Draft) Back(to Step) error {
	if to.index() < 0 {
		return ErrInvalidStep
	}
	if to.index() < d.Step.index() {
		d.Step = to
	}
	return nil
}

// checkStep verifies what leaving step s requires.
func (d *Draft) checkStep(s Step) error {
	switch s {
	case StepRooms:
		if len(d.Data.Rooms) == 0 {
			return ErrNoRooms
		}
		if d.Data.Nights < 1 {
			return ErrInvalidStay
		}
	case StepExtras:
		for roomID := range d.Data.RoomExtras {
			if !d.HasRoom(roomID) {
				return ErrRoomNotSelected
			}
		}
	case StepGuest:
		if d.Data.Guest == nil {
			return &ValidationError{Step: StepGuest, Fields: map[string]string{"guest": "is required"}}
		}
		if err := validation.Default().Validate(*d.Data.Guest); err != nil {
			return &ValidationError{Step: StepGuest, Fields: validation.Fields(err)}
		}
	case StepPayment:
		if d.Data.PaymentMethod == "" {
			return ErrPaymentMethod
		}
	}
	return nil
}

// Totals is the price preview of a draft.
type Totals struct {
	Nights        int   `json:"nights"`
	RoomsTotal    int64 `json:"roomsTotal"`
	ServicesTotal int64 `json:"servicesTotal"`
	GrandTotal    int64 `json:"grandTotal"`
}

// Totals recomputes the preview from the current rooms and extras.  Extras
// of rooms that are no longer selected do not count.
func (d *Draft) Totals() Totals {
	t := Totals{Nights: d.Data.Nights}
	for _, r := range d.Data.Rooms {
		t.RoomsTotal += r.BasePrice * int64(d.Data.Nights)
		if ex, ok := d.Data.RoomExtras[r.RoomID]; ok {
			t.ServicesTotal += ex.Total()
		}
	}
	t.GrandTotal = t.RoomsTotal + t.ServicesTotal
	return t
}

// RoomIDs lists the selected room ids in selection order.
func (d *Draft) RoomIDs() []string {
	ids := make([]string, 0, len(d.Data.Rooms))
	for _, r := range d.Data.Rooms {
		ids = append(ids, r.RoomID)
	}
	return ids
}

// Request composes the create-booking request.
func (d *Draft) Request() model.CreateBookingRequest {
	req := model.CreateBookingRequest{
		BranchID:       d.Data.BranchID,
		CheckIn:        d.Data.CheckIn,
		CheckOut:       d.Data.CheckOut,
		Guests:         d.Data.Guests,
		Guest:          d.Data.Guest,
		PaymentMethod:  d.Data.PaymentMethod,
		PromotionID:    d.Data.PromotionID,
		SpecialRequest: d.Data.SpecialRequest,
		PriceHint:      d.Totals().GrandTotal,
	}
	for _, r := range d.Data.Rooms {
		req.Rooms = append(req.Rooms, model.CreateBookingRoom{RoomID: r.RoomID, PricePerNight: r.BasePrice})
		ex, ok := d.Data.RoomExtras[r.RoomID]
		if !ok {
			continue
		}
		for _, s := range ex.Services {
			req.Services = append(req.Services, model.CreateServiceBooking{
				ServiceID: s.ServiceID,
				RoomID:    r.RoomID,
				Quantity:  s.Quantity,
				Price:     s.Price,
			})
		}
		if ex.Note != "" {
			if req.Notes == nil {
				req.Notes = make(map[string]string)
			}
			req.Notes[r.RoomID] = ex.Note
		}
	}
	return req
}
