package model

import "time"

// Change-set ledger statuses.
const (
	ChangeSetPending   = "PENDING"
	ChangeSetCompleted = "COMPLETED"
	ChangeSetFailed    = "FAILED"
)

// ChangeSetRecord is one row of the change-set ledger: which booking edit
// was submitted under an idempotency key, with what payload and how it
// ended.
type ChangeSetRecord struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	BookingID      string    `json:"bookingId"`
	Actor          string    `json:"actor"`
	RequestHash    string    `json:"-"`
	Status         string    `json:"status"`
	Result         []byte    `json:"-"`
	ErrorMessage   string    `json:"errorMessage,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
