package aurora

import (
	"context"
	"net/http"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

type paymentURLRequest struct {
	BookingID string `json:"bookingId"`
	ReturnURL string `json:"returnUrl"`
}

// VNPayURL asks the backend for the VNPay checkout URL of a booking.
func (c *Client) VNPayURL(ctx context.Context, token, bookingID, returnURL string) (model.PaymentURL, error) {
	var out model.PaymentURL
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/payments/vnpay/create",
		body:   paymentURLRequest{BookingID: bookingID, ReturnURL: returnURL},
		token:  token,
	}, &out)
	if out.BookingID == "" {
		out.BookingID = bookingID
	}
	return out, err
}
