package model

import "time"

// Service is an entry of the add-on service catalog.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"categoryName,omitempty"`
	BranchID    string `json:"branchId,omitempty"`
	BasePrice   int64  `json:"basePrice"`
	Unit        string `json:"unit,omitempty"`
	Description string `json:"description,omitempty"`
	Active      bool   `json:"active"`
}

// Promotion is a discount campaign.  The gateway only lists and forwards
// promotions; the backend applies them.
type Promotion struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	MinAmount     int64     `json:"minBookingAmount,omitempty"`
	StartDate     time.Time `json:"startAt"`
	EndDate       time.Time `json:"endAt"`
	Active        bool      `json:"active"`
}

// Running reports whether now falls inside the promotion window.
func (p Promotion) Running(now time.Time) bool {
	if !p.Active {
		return false
	}
	if !p.StartDate.IsZero() && now.Before(p.StartDate) {
		return false
	}
	if !p.EndDate.IsZero() && now.After(p.EndDate) {
		return false
	}
	return true
}
