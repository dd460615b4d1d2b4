package model

import "time"

// Booking statuses reported by the backend.
const (
	BookingPending    = "PENDING"
	BookingConfirmed  = "CONFIRMED"
	BookingCheckedIn  = "CHECKED_IN"
	BookingCheckedOut = "CHECKED_OUT"
	BookingCancelled  = "CANCELLED"
)

// Booking is server-owned.  The gateway reads it, previews edits against it
// and never treats its own totals as authoritative.
type Booking struct {
	ID             string           `json:"id"`
	BookingCode    string           `json:"bookingCode"`
	BranchID       string           `json:"branchId"`
	CustomerID     string           `json:"customerId,omitempty"`
	CustomerName   string           `json:"customerName,omitempty"`
	CheckIn        Date             `json:"checkin"`
	CheckOut       Date             `json:"checkout"`
	Status         string           `json:"status"`
	PaymentStatus  string           `json:"paymentStatus,omitempty"`
	SpecialRequest string           `json:"specialRequest,omitempty"`
	TotalPrice     int64            `json:"totalPrice"`
	Rooms          []BookedRoom     `json:"rooms"`
	Services       []ServiceBooking `json:"services"`
	CreatedAt      time.Time        `json:"createdAt,omitzero"`
}

// Nights is the length of the stay.
func (b Booking) Nights() int { return NightsBetween(b.CheckIn, b.CheckOut) }

// Editable reports whether staff may still change rooms or services.
func (b Booking) Editable() bool {
	switch b.Status {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

// BookedRoom is the booking-room association with its nightly price
// snapshot.
type BookedRoom struct {
	BookingRoomID string `json:"id"`
	RoomID        string `json:"roomId"`
	RoomNumber    string `json:"roomNumber"`
	RoomTypeName  string `json:"roomTypeName"`
	PricePerNight int64  `json:"pricePerNight"`
}

// ServiceBooking is an add-on service attached to a room of a booking.
type ServiceBooking struct {
	ID          string    `json:"id"`
	ServiceID   string    `json:"serviceId"`
	ServiceName string    `json:"serviceName"`
	RoomID      string    `json:"roomId"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	DateTime    time.Time `json:"serviceDateTime,omitzero"`
}

// Total is the unit price times quantity.
func (s ServiceBooking) Total() int64 { return s.Price * int64(s.Quantity) }

// BookingFilter narrows booking list queries.
type BookingFilter struct {
	BranchID   string `query:"branchId"`
	CustomerID string `query:"customerId"`
	Status     string `query:"status"`
	PageQuery
}

// PaymentURL is the gateway redirect target for online payment.
type PaymentURL struct {
	BookingID  string `json:"bookingId"`
	PaymentURL string `json:"paymentUrl"`
}
