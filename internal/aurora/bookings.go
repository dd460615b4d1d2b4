package aurora

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// GetBooking loads one booking with its rooms and services.
func (c *Client) GetBooking(ctx context.Context, token, id string) (model.Booking, error) {
	var b model.Booking
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/bookings/" + escape(id), token: token}, &b)
	return b, err
}

// ListBookings pages through bookings matching f.
func (c *Client) ListBookings(ctx context.Context, token string, f model.BookingFilter) (model.Page[model.Booking], error) {
	q := url.Values{}
	setIf(q, "branchId", f.BranchID)
	setIf(q, "customerId", f.CustomerID)
	setIf(q, "status", f.Status)
	var p model.Page[model.Booking]
	_, err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/bookings",
		query:  pageQuery(q, f.Page, f.Size, f.Sort),
		token:  token,
	}, &p)
	return p, err
}

// CreateBooking submits the composite checkout request.
func (c *Client) CreateBooking(ctx context.Context, token string, req model.CreateBookingRequest) (model.Booking, error) {
	var b model.Booking
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/bookings/checkout", body: req, token: token}, &b)
	return b, err
}

// CancelBooking cancels a booking with a reason.
func (c *Client) CancelBooking(ctx context.Context, token, id, reason string) (model.Booking, error) {
	var b model.Booking
	_, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/bookings/" + escape(id) + "/cancel",
		body:   map[string]string{"reason": reason},
		token:  token,
	}, &b)
	return b, err
}

// ApplyModifications sends a whole booking change set in one request.  The
// backend applies it in a single transaction; idempotencyKey lets a retried
// submission be recognised instead of applied twice.
func (c *Client) ApplyModifications(ctx context.Context, token, bookingID, idempotencyKey string, changeSet any) (model.Booking, error) {
	var b model.Booking
	h := http.Header{}
	h.Set("Idempotency-Key", idempotencyKey)
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/bookings/" + escape(bookingID) + "/modifications",
		body:   changeSet,
		token:  token,
		header: h,
	}, &b)
	return b, err
}
