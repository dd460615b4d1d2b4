package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// VNPaySuccess is the response code VNPay uses for an approved payment,
// both in vnp_ResponseCode and vnp_TransactionStatus.
const VNPaySuccess = "00"

// PaymentResult is what the payment result page renders.
type PaymentResult struct {
	Success       bool   `json:"success"`
	BookingID     string `json:"bookingId,omitempty"`
	TxnRef        string `json:"txnRef"`
	ResponseCode  string `json:"responseCode"`
	TransactionNo string `json:"transactionNo,omitempty"`
	BankCode      string `json:"bankCode,omitempty"`
	Amount        int64  `json:"amount"`
	Message       string `json:"message"`
}

// VNPayReturn handles GET /v1/payments/vnpay/return.  The signature was
// already verified by the backend that built the return URL; this only
// reads the outcome for the browser.
func VNPayReturn(c echo.Context) error {
	res := ParseVNPayReturn(c.QueryParams().Get, c.QueryParam("bookingId"))
	if res.TxnRef == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "missing vnp_TxnRef"})
	}
	return c.JSON(http.StatusOK, res)
}

// ParseVNPayReturn reads the VNPay return parameters through get.  VNPay
// sends amounts multiplied by 100.
func ParseVNPayReturn(get func(string) string, bookingID string) PaymentResult {
	res := PaymentResult{
		BookingID:     bookingID,
		TxnRef:        get("vnp_TxnRef"),
		ResponseCode:  get("vnp_ResponseCode"),
		TransactionNo: get("vnp_TransactionNo"),
		BankCode:      get("vnp_BankCode"),
	}
	if res.BookingID == "" {
		res.BookingID = res.TxnRef
	}
	if amt, err := strconv.ParseInt(get("vnp_Amount"), 10, 64); err == nil {
		res.Amount = amt / 100
	}
	res.Success = res.ResponseCode == VNPaySuccess && get("vnp_TransactionStatus") == VNPaySuccess
	switch {
	case res.Success:
		res.Message = "payment completed"
	case res.ResponseCode == "24":
		res.Message = "payment cancelled by customer"
	default:
		res.Message = "payment failed"
	}
	return res
}
