package model

// BookingRoom is the snapshot of a room chosen for booking.  The price is
// frozen at selection time; the backend recomputes the authoritative price
// when the booking is created.
type BookingRoom struct {
	RoomID       string `json:"roomId" validate:"required"`
	RoomNumber   string `json:"roomNumber"`
	RoomTypeID   string `json:"roomTypeId"`
	RoomTypeName string `json:"roomTypeName"`
	BasePrice    int64  `json:"basePrice" validate:"gte=0"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

// ServiceLine is an add-on service attached to one room of a draft.
type ServiceLine struct {
	ServiceID   string `json:"serviceId" validate:"required"`
	ServiceName string `json:"serviceName"`
	Price       int64  `json:"price" validate:"gte=0"`
	Quantity    int    `json:"quantity" validate:"gte=1"`
}

// Total is price times quantity.
func (l ServiceLine) Total() int64 { return l.Price * int64(l.Quantity) }

// RoomExtras groups the services and the free-text note of one room.
type RoomExtras struct {
	Services []ServiceLine `json:"services" validate:"dive"`
	Note     string        `json:"note,omitempty" validate:"max=500"`
}

// Total sums the service lines.
func (e RoomExtras) Total() int64 {
	var sum int64
	for _, s := range e.Services {
		sum += s.Total()
	}
	return sum
}

// GuestInfo is the contact person of a booking.
type GuestInfo struct {
	FullName string `json:"fullName" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,min=9,max=15"`
	Note     string `json:"note,omitempty" validate:"max=500"`
}

// Payment methods accepted at checkout.
const (
	PaymentCash  = "CASH"
	PaymentVNPay = "VNPAY"
	PaymentCard  = "CARD"
)

// CheckoutData is the whole booking draft accumulated across the checkout
// steps.
type CheckoutData struct {
	BranchID       string                `json:"branchId"`
	Rooms          []BookingRoom         `json:"rooms"`
	CheckIn        Date                  `json:"checkIn"`
	CheckOut       Date                  `json:"checkOut"`
	Guests         int                   `json:"guests"`
	Nights         int                   `json:"nights"`
	RoomExtras     map[string]RoomExtras `json:"roomExtras"`
	Guest          *GuestInfo            `json:"guest,omitempty"`
	PaymentMethod  string                `json:"paymentMethod,omitempty"`
	PromotionID    string                `json:"promotionId,omitempty"`
	SpecialRequest string                `json:"specialRequest,omitempty"`
}

// CreateBookingRequest is the composite request sent once at the end of
// checkout.
type CreateBookingRequest struct {
	BranchID       string                 `json:"branchId"`
	CheckIn        Date                   `json:"checkin"`
	CheckOut       Date                   `json:"checkout"`
	Guests         int                    `json:"guestCount"`
	Rooms          []CreateBookingRoom    `json:"rooms"`
	Services       []CreateServiceBooking `json:"services,omitempty"`
	Guest          *GuestInfo             `json:"guest,omitempty"`
	PaymentMethod  string                 `json:"paymentMethod"`
	PromotionID    string                 `json:"promotionId,omitempty"`
	SpecialRequest string                 `json:"specialRequest,omitempty"`
	Notes          map[string]string      `json:"roomNotes,omitempty"`
	PriceHint      int64                  `json:"totalPrice,omitempty"`
}

type CreateBookingRoom struct {
	RoomID        string `json:"roomId"`
	PricePerNight int64  `json:"pricePerNight"`
}

type CreateServiceBooking struct {
	ServiceID string `json:"serviceId"`
	RoomID    string `json:"roomId"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}
