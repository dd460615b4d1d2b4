// Package bookingedit lets staff change the rooms and services of an
// existing booking and submit the net result as one change set.
//
// A Session tracks the edited state next to the booking as it was when the
// session opened, plus the change records that turn one into the other:
// at most one RoomChange per booking-room, and per service either a single
// add (temporary services), a single merged update, or a single delete.
package bookingedit

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

var (
	ErrBookingRoomNotFound = errors.New("booking room not found")
	ErrRoomInUse           = errors.New("room already used by this booking")
	ErrRoomNotInBooking    = errors.New("room is not part of this booking")
	ErrServiceNotFound     = errors.New("service not found in booking")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidPrice        = errors.New("price must not be negative")
	ErrInvalidDates        = errors.New("check-out must be after check-in")
	ErrNotEditable         = errors.New("booking can no longer be edited")
	ErrNoChanges           = errors.New("nothing to submit")
)

// EditRoom is a booking-room in its edited state.
type EditRoom struct {
	BookingRoomID string `json:"bookingRoomId"`
	RoomID        string `json:"roomId"`
	RoomNumber    string `json:"roomNumber"`
	RoomTypeName  string `json:"roomTypeName"`
	Price         int64  `json:"price"`
}

// EditService is a service line in its edited state.  ID is the service
// booking id, or a TempPrefix id for services added in the session.
type EditService struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	RoomID      string    `json:"roomId"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	DateTime    time.Time `json:"dateTime,omitzero"`
}

// Temporary reports whether the service was added in this session.
func (s EditService) Temporary() bool { return IsTemp(s.ID) }

// Total is unit price times quantity.
func (s EditService) Total() int64 { return s.Price * int64(s.Quantity) }

// Replacement describes the room a booking-room is swapped to.
type Replacement struct {
	RoomID       string `json:"roomId" validate:"required"`
	RoomNumber   string `json:"roomNumber"`
	RoomTypeName string `json:"roomTypeName"`
	Price        int64  `json:"price" validate:"gte=0"`
}

// NewServiceLine describes a service added in the session.
type NewServiceLine struct {
	ServiceID   string    `json:"serviceId" validate:"required"`
	ServiceName string    `json:"serviceName"`
	RoomID      string    `json:"roomId" validate:"required"`
	Quantity    int       `json:"quantity" validate:"gte=1"`
	Price       int64     `json:"price" validate:"gte=0"`
	DateTime    time.Time `json:"dateTime"`
}

// ServicePatch changes some fields of a service; nil fields are kept.
type ServicePatch struct {
	RoomID   *string    `json:"roomId"`
	Quantity *int       `json:"quantity"`
	Price    *int64     `json:"price"`
	DateTime *time.Time `json:"dateTime"`
}

// Session is a booking edit in progress.
type Session struct {
	ID             string         `json:"id"`
	BookingID      string         `json:"bookingId"`
	Owner          string         `json:"owner"`
	Original       model.Booking  `json:"original"`
	CheckIn        model.Date     `json:"checkIn"`
	CheckOut       model.Date     `json:"checkOut"`
	SpecialRequest string         `json:"specialRequest"`
	Rooms          []EditRoom     `json:"rooms"`
	Services       []EditService  `json:"services"`
	RoomChanges    []RoomChange   `json:"roomChanges"`
	ServiceChanges ServiceChanges `json:"serviceChanges"`
	CreatedAt      time.Time      `json:"createdAt"`
	Version        int64          `json:"-"`
	UpdatedAt      time.Time      `json:"-"`

	newID func() string
}

// NewSession opens an edit of b on behalf of owner.
func NewSession(b model.Booking, owner string, now time.Time) *Session {
	s := &Session{
		ID:             uuid.NewString(),
		BookingID:      b.ID,
		Owner:          owner,
		Original:       b,
		CheckIn:        b.CheckIn,
		CheckOut:       b.CheckOut,
		SpecialRequest: b.SpecialRequest,
		Rooms:          make([]EditRoom, 0, len(b.Rooms)),
		Services:       make([]EditService, 0, len(b.Services)),
		RoomChanges:    []RoomChange{},
		ServiceChanges: ServiceChanges{},
		CreatedAt:      now.UTC(),
	}
	for _, r := range b.Rooms {
		s.Rooms = append(s.Rooms, EditRoom{
			BookingRoomID: r.BookingRoomID,
			RoomID:        r.RoomID,
			RoomNumber:    r.RoomNumber,
			RoomTypeName:  r.RoomTypeName,
			Price:         r.PricePerNight,
		})
	}
	for _, sv := range b.Services {
		s.Services = append(s.Services, EditService{
			ID:          sv.ID,
			ServiceID:   sv.ServiceID,
			ServiceName: sv.ServiceName,
			RoomID:      sv.RoomID,
			Quantity:    sv.Quantity,
			Price:       sv.Price,
			DateTime:    sv.DateTime,
		})
	}
	return s
}

func (s *Session) tempID() string {
	if s.newID != nil {
		return TempPrefix + s.newID()
	}
	return TempPrefix + uuid.NewString()
}

// Nights is the length of the edited stay.
func (s *Session) Nights() int { return model.NightsBetween(s.CheckIn, s.CheckOut) }

func (s *Session) roomIndex(bookingRoomID string) int {
	for i, r := range s.Rooms {
		if r.BookingRoomID == bookingRoomID {
			return i
		}
	}
	return -1
}

func (s *Session) hasRoom(roomID string) bool {
	for _, r := range s.Rooms {
		if r.RoomID == roomID {
			return true
		}
	}
	return false
}

func (s *Session) serviceIndex(id string) int {
	for i, sv := range s.Services {
		if sv.ID == id {
			return i
		}
	}
	return -1
}

func (s *Session) changeIndex(action Action, target string) int {
	for i, c := range s.ServiceChanges {
		if c.Action() == action && c.Target() == target {
			return i
		}
	}
	return -1
}

func (s *Session) originalRoom(bookingRoomID string) (model.BookedRoom, bool) {
	for _, r := range s.Original.Rooms {
		if r.BookingRoomID == bookingRoomID {
			return r, true
		}
	}
	return model.BookedRoom{}, false
}

func (s *Session) originalService(id string) (model.ServiceBooking, bool) {
	for _, sv := range s.Original.Services {
		if sv.ID == id {
			return sv, true
		}
	}
	return model.ServiceBooking{}, false
}

// SwapRoom moves a booking-room to another room.  The room list changes at
// once and the pending RoomChange for the booking-room is created or
// overwritten; swapping back to the original room drops it.  Services of
// the old room follow to the new one and their change records are updated
// in the same step.  Service prices are left as they are.
func (s *Session) SwapRoom(bookingRoomID string, to Replacement) error {
	i := s.roomIndex(bookingRoomID)
	if i < 0 {
		return ErrBookingRoomNotFound
	}
	if to.Price < 0 {
		return ErrInvalidPrice
	}
	oldRoomID := s.Rooms[i].RoomID
	if to.RoomID == oldRoomID {
		return nil
	}
	if s.hasRoom(to.RoomID) {
		return ErrRoomInUse
	}

	s.Rooms[i].RoomID = to.RoomID
	s.Rooms[i].RoomNumber = to.RoomNumber
	s.Rooms[i].RoomTypeName = to.RoomTypeName
	s.Rooms[i].Price = to.Price
	s.recordRoomChange(bookingRoomID, to)

	for j := range s.Services {
		if s.Services[j].RoomID != oldRoomID {
			continue
		}
		s.Services[j].RoomID = to.RoomID
		roomID := to.RoomID
		s.recordServiceEdit(s.Services[j].ID, ServicePatch{RoomID: &roomID})
	}
	return nil
}

func (s *Session) recordRoomChange(bookingRoomID string, to Replacement) {
	orig, ok := s.originalRoom(bookingRoomID)
	for k, rc := range s.RoomChanges {
		if rc.BookingRoomID != bookingRoomID {
			continue
		}
		if ok && to.RoomID == orig.RoomID {
			s.RoomChanges = append(s.RoomChanges[:k:k], s.RoomChanges[k+1:]...)
			return
		}
		s.RoomChanges[k].NewRoomID = to.RoomID
		s.RoomChanges[k].NewPrice = to.Price
		return
	}
	if !ok || to.RoomID == orig.RoomID {
		return
	}
	s.RoomChanges = append(s.RoomChanges, RoomChange{
		BookingRoomID: bookingRoomID,
		OldRoomID:     orig.RoomID,
		NewRoomID:     to.RoomID,
		OldPrice:      orig.PricePerNight,
		NewPrice:      to.Price,
	})
}

// AddService attaches a new service to a room of the booking.  The service
// gets a temporary id and is represented by a single ServiceAdd.
func (s *Session) AddService(n NewServiceLine) (EditService, error) {
	if n.Quantity < 1 {
		return EditService{}, ErrInvalidQuantity
	}
	if n.Price < 0 {
		return EditService{}, ErrInvalidPrice
	}
	if !s.hasRoom(n.RoomID) {
		return EditService{}, ErrRoomNotInBooking
	}
	sv := EditService{
		ID:          s.tempID(),
		ServiceID:   n.ServiceID,
		ServiceName: n.ServiceName,
		RoomID:      n.RoomID,
		Quantity:    n.Quantity,
		Price:       n.Price,
		DateTime:    n.DateTime,
	}
	s.Services = append(s.Services, sv)
	s.ServiceChanges = append(s.ServiceChanges, ServiceAdd{
		TempID:      sv.ID,
		ServiceID:   sv.ServiceID,
		ServiceName: sv.ServiceName,
		RoomID:      sv.RoomID,
		Quantity:    sv.Quantity,
		Price:       sv.Price,
		DateTime:    sv.DateTime,
	})
	return sv, nil
}

// UpdateService changes fields of a service.  For a temporary service the
// pending add is rewritten; for a persisted one the fields are merged into
// its single pending update.
func (s *Session) UpdateService(id string, p ServicePatch) error {
	i := s.serviceIndex(id)
	if i < 0 {
		return ErrServiceNotFound
	}
	if p.Quantity != nil && *p.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.Price != nil && *p.Price < 0 {
		return ErrInvalidPrice
	}
	if p.RoomID != nil && !s.hasRoom(*p.RoomID) {
		return ErrRoomNotInBooking
	}
	sv := &s.Services[i]
	if p.RoomID != nil {
		sv.RoomID = *p.RoomID
	}
	if p.Quantity != nil {
		sv.Quantity = *p.Quantity
	}
	if p.Price != nil {
		sv.Price = *p.Price
	}
	if p.DateTime != nil {
		sv.DateTime = *p.DateTime
	}
	s.recordServiceEdit(id, p)
	return nil
}

// recordServiceEdit folds p into the change record of service id.
func (s *Session) recordServiceEdit(id string, p ServicePatch) {
	if IsTemp(id) {
		k := s.changeIndex(ActionAdd, id)
		if k < 0 {
			return
		}
		add := s.ServiceChanges[k].(ServiceAdd)
		if p.RoomID != nil {
			add.RoomID = *p.RoomID
		}
		if p.Quantity != nil {
			add.Quantity = *p.Quantity
		}
		if p.Price != nil {
			add.Price = *p.Price
		}
		if p.DateTime != nil {
			add.DateTime = *p.DateTime
		}
		s.ServiceChanges[k] = add
		return
	}

	var upd ServiceUpdate
	k := s.changeIndex(ActionUpdate, id)
	if k >= 0 {
		upd = s.ServiceChanges[k].(ServiceUpdate)
	} else {
		upd = ServiceUpdate{ServiceBookingID: id}
	}
	if p.RoomID != nil {
		v := *p.RoomID
		upd.RoomID = &v
	}
	if p.Quantity != nil {
		v := *p.Quantity
		upd.Quantity = &v
	}
	if p.Price != nil {
		v := *p.Price
		upd.Price = &v
	}
	if p.DateTime != nil {
		v := *p.DateTime
		upd.DateTime = &v
	}
	upd = s.trimUpdate(upd)

	switch {
	case upd.empty() && k >= 0:
		s.ServiceChanges = append(s.ServiceChanges[:k:k], s.ServiceChanges[k+1:]...)
	case upd.empty():
	case k >= 0:
		s.ServiceChanges[k] = upd
	default:
		s.ServiceChanges = append(s.ServiceChanges, upd)
	}
}

// trimUpdate clears fields that are back to their persisted value.
func (s *Session) trimUpdate(u ServiceUpdate) ServiceUpdate {
	orig, ok := s.originalService(u.ServiceBookingID)
	if !ok {
		return u
	}
	if u.RoomID != nil && *u.RoomID == orig.RoomID {
		u.RoomID = nil
	}
	if u.Quantity != nil && *u.Quantity == orig.Quantity {
		u.Quantity = nil
	}
	if u.Price != nil && *u.Price == orig.Price {
		u.Price = nil
	}
	if u.DateTime != nil && u.DateTime.Equal(orig.DateTime) {
		u.DateTime = nil
	}
	return u
}

// DeleteService removes a service.  A temporary service simply disappears
// together with its add; a persisted one is replaced by a single delete.
func (s *Session) DeleteService(id string) error {
	i := s.serviceIndex(id)
	if i < 0 {
		return ErrServiceNotFound
	}
	s.Services = append(s.Services[:i:i], s.Services[i+1:]...)

	if IsTemp(id) {
		if k := s.changeIndex(ActionAdd, id); k >= 0 {
			s.ServiceChanges = append(s.ServiceChanges[:k:k], s.ServiceChanges[k+1:]...)
		}
		return nil
	}
	if k := s.changeIndex(ActionUpdate, id); k >= 0 {
		s.ServiceChanges = append(s.ServiceChanges[:k:k], s.ServiceChanges[k+1:]...)
	}
	orig, ok := s.originalService(id)
	if !ok {
		return nil
	}
	s.ServiceChanges = append(s.ServiceChanges, ServiceDelete{
		ServiceBookingID: id,
		Quantity:         orig.Quantity,
		Price:            orig.Price,
	})
	return nil
}

// SetDates changes the stay.
func (s *Session) SetDates(checkIn, checkOut model.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkOut.After(checkIn.Time) {
		return ErrInvalidDates
	}
	s.CheckIn, s.CheckOut = checkIn, checkOut
	return nil
}

// SetSpecialRequest replaces the booking's special request.
func (s *Session) SetSpecialRequest(v string) { s.SpecialRequest = v }

// datesChanged reports whether the stay differs from the original.
func (s *Session) datesChanged() bool {
	return !s.CheckIn.Equal(s.Original.CheckIn.Time) || !s.CheckOut.Equal(s.Original.CheckOut.Time)
}

// HasChanges reports whether committing would change anything.
func (s *Session) HasChanges() bool {
	return len(s.RoomChanges) > 0 || len(s.ServiceChanges) > 0 ||
		s.datesChanged() || s.SpecialRequest != s.Original.SpecialRequest
}

// PriceDifference previews how much the booking total moves: room swaps
// count (new - old) per night, a changed stay length re-prices every room,
// added services count positive, deleted ones negative at their persisted
// price, updated ones as new total minus persisted total.
func (s *Session) PriceDifference() int64 {
	nights := int64(s.Nights())
	var diff int64
	for _, rc := range s.RoomChanges {
		diff += (rc.NewPrice - rc.OldPrice) * nights
	}
	if extra := nights - int64(s.Original.Nights()); extra != 0 {
		for _, r := range s.Original.Rooms {
			diff += r.PricePerNight * extra
		}
	}
	for _, c := range s.ServiceChanges {
		switch v := c.(type) {
		case ServiceAdd:
			diff += v.Price * int64(v.Quantity)
		case ServiceDelete:
			diff -= v.Price * int64(v.Quantity)
		case ServiceUpdate:
			orig, ok := s.originalService(v.ServiceBookingID)
			i := s.serviceIndex(v.ServiceBookingID)
			if !ok || i < 0 {
				continue
			}
			diff += s.Services[i].Total() - orig.Total()
		}
	}
	return diff
}

// PreviewTotal is the booking total after the edit, as previewed.
func (s *Session) PreviewTotal() int64 { return s.Original.TotalPrice + s.PriceDifference() }

// ChangeSet is the whole edit submitted in one request.  TotalPrice is a
// hint; the backend recomputes the real total.
type ChangeSet struct {
	BookingID      string         `json:"bookingId"`
	CheckIn        model.Date     `json:"checkin"`
	CheckOut       model.Date     `json:"checkout"`
	SpecialRequest string         `json:"specialRequest"`
	RoomChanges    []RoomChange   `json:"roomChanges"`
	ServiceChanges ServiceChanges `json:"serviceChanges"`
	TotalPrice     int64          `json:"totalPrice"`
}

// ChangeSet builds the submission.  Updates or deletes aimed at temporary
// ids cannot be applied by the backend and are left out.
func (s *Session) ChangeSet() ChangeSet {
	cs := ChangeSet{
		BookingID:      s.BookingID,
		CheckIn:        s.CheckIn,
		CheckOut:       s.CheckOut,
		SpecialRequest: s.SpecialRequest,
		RoomChanges:    append([]RoomChange{}, s.RoomChanges...),
		ServiceChanges: make(ServiceChanges, 0, len(s.ServiceChanges)),
		TotalPrice:     s.PreviewTotal(),
	}
	for _, c := range s.ServiceChanges {
		if c.Action() != ActionAdd && IsTemp(c.Target()) {
			continue
		}
		cs.ServiceChanges = append(cs.ServiceChanges, c)
	}
	return cs
}
