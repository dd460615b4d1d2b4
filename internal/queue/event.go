// Package queue defines the booking event payloads exchanged over the
// message broker and the consumer that records them.
package queue

// BookingQueue is the durable queue every booking event goes to.
const BookingQueue = "aurora.booking.events"

// Event types.
const (
	EventBookingCreated  = "booking.created"
	EventBookingModified = "booking.modified"
)

// BookingEvent is published after the backend accepted a new booking or a
// booking change set.  It carries enough for downstream consumers to log or
// notify without calling the backend again.
type BookingEvent struct {
	Type          string   `json:"type"`
	BookingID     string   `json:"booking_id"`
	BookingCode   string   `json:"booking_code,omitempty"`
	BranchID      string   `json:"branch_id,omitempty"`
	Actor         string   `json:"actor"`
	CheckIn       string   `json:"check_in"`
	CheckOut      string   `json:"check_out"`
	RoomIDs       []string `json:"room_ids"`
	TotalPrice    int64    `json:"total_price"`
	PriceDelta    int64    `json:"price_delta,omitempty"`
	PaymentMethod string   `json:"payment_method,omitempty"`
	ChangeCount   int      `json:"change_count,omitempty"`
	OccurredAt    string   `json:"occurred_at"`
}
