package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/checkout"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/validation"
)

func TestParseVNPayReturn(t *testing.T) {
	q := url.Values{
		"vnp_TxnRef":            {"b-42"},
		"vnp_ResponseCode":      {"00"},
		"vnp_TransactionStatus": {"00"},
		"vnp_Amount":            {"250000000"},
		"vnp_BankCode":          {"NCB"},
	}
	res := ParseVNPayReturn(q.Get, "")
	if !res.Success || res.BookingID != "b-42" || res.Amount != 2_500_000 || res.BankCode != "NCB" {
		t.Fatalf("result = %+v", res)
	}

	q.Set("vnp_ResponseCode", "24")
	res = ParseVNPayReturn(q.Get, "b-7")
	if res.Success || res.BookingID != "b-7" || res.Message != "payment cancelled by customer" {
		t.Fatalf("cancelled result = %+v", res)
	}
}

func TestVNPayReturnRequiresTxnRef(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/payments/vnpay/return?vnp_ResponseCode=00", nil)
	rec := httptest.NewRecorder()
	if err := VNPayReturn(e.NewContext(req, rec)); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestIfMatch(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		header string
		want   int64
		err    bool
	}{
		{"", 0, false},
		{"*", 0, false},
		{`"3"`, 3, false},
		{`W/"12"`, 12, false},
		{"7", 7, false},
		{"abc", 0, true},
		{"-1", 0, true},
	} {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		if tc.header != "" {
			req.Header.Set(headerIfMatch, tc.header)
		}
		got, err := ifMatch(e.NewContext(req, httptest.NewRecorder()))
		if (err != nil) != tc.err || got != tc.want {
			t.Errorf("ifMatch(%q) = %d, %v", tc.header, got, err)
		}
	}
}

func TestWriteErrorStatus(t *testing.T) {
	e := echo.New()
	for _, tc := range []struct {
		err  error
		want int
	}{
		{draft.ErrVersionConflict, http.StatusConflict},
		{fmt.Errorf("load: %w", draft.ErrNotFound), http.StatusNotFound},
		{&aurora.APIError{Status: 404, Message: "booking not found"}, http.StatusNotFound},
		{&aurora.APIError{Status: 503, Message: "down"}, http.StatusBadGateway},
		{&aurora.APIError{Status: 200, Code: 2004, Message: "room already booked"}, http.StatusUnprocessableEntity},
		{checkout.ErrNoRooms, http.StatusBadRequest},
		{checkout.ErrRoomAlreadySelected, http.StatusConflict},
		{&checkout.UnavailableError{RoomIDs: []string{"R1"}}, http.StatusConflict},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errBadBody, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	} {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := writeError(c, tc.err); err != nil {
			t.Fatal(err)
		}
		if rec.Code != tc.want {
			t.Errorf("writeError(%v) = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

type fakeRooms map[string]model.Room

func (f fakeRooms) GetRoom(_ context.Context, id string) (model.Room, error) {
	r, ok := f[id]
	if !ok {
		return model.Room{}, &aurora.APIError{Status: http.StatusNotFound, Message: "room not found"}
	}
	return r, nil
}

type unusedBackend struct{}

func (unusedBackend) CheckAvailability(context.Context, string, model.Date, model.Date, []string) ([]model.RoomAvailability, error) {
	return nil, errors.New("not used")
}

func (unusedBackend) CreateBooking(context.Context, string, model.CreateBookingRequest) (model.Booking, error) {
	return model.Booking{}, errors.New("not used")
}

func (unusedBackend) VNPayURL(context.Context, string, string, string) (model.PaymentURL, error) {
	return model.PaymentURL{}, errors.New("not used")
}

func newCheckoutServer() *echo.Echo {
	svc := checkout.NewService(draft.NewMemoryStore(0), unusedBackend{}, nil, "")
	h := NewCheckoutHandler(svc, fakeRooms{
		"R1": {ID: "R1", RoomNumber: "101", RoomTypeName: "Deluxe", BasePrice: 1_200_000, SalePrice: 1_000_000},
	})
	e := echo.New()
	e.Validator = validation.Default()
	g := e.Group("/v1/checkout/drafts", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("user_id", "alice")
			return next(c)
		}
	})
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.POST("/:id/rooms", h.AddRoom)
	return e
}

func call(e *echo.Echo, method, path, ifMatch, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if ifMatch != "" {
		req.Header.Set(headerIfMatch, ifMatch)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestCheckoutDraftVersions(t *testing.T) {
	e := newCheckoutServer()

	rec := call(e, http.MethodPost, "/v1/checkout/drafts", "", `{"branchId":"hn"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	if got := rec.Header().Get(headerETag); got != `"1"` {
		t.Fatalf("ETag = %q", got)
	}
	var created struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	base := "/v1/checkout/drafts/" + created.ID

	rec = call(e, http.MethodPost, base+"/rooms", `"1"`, `{"roomId":"R1"}`)
	if rec.Code != http.StatusOK || rec.Header().Get(headerETag) != `"2"` {
		t.Fatalf("add room = %d %s", rec.Code, rec.Body)
	}
	var added struct {
		Data struct {
			Rooms []model.BookingRoom `json:"rooms"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &added); err != nil {
		t.Fatal(err)
	}
	if len(added.Data.Rooms) != 1 || added.Data.Rooms[0].BasePrice != 1_000_000 {
		t.Fatalf("rooms = %+v", added.Data.Rooms)
	}

	// A second tab still holding version 1.
	rec = call(e, http.MethodPost, base+"/rooms", `"1"`, `{"roomId":"R1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale add = %d %s", rec.Code, rec.Body)
	}

	rec = call(e, http.MethodPost, base+"/rooms", `"2"`, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing roomId = %d %s", rec.Code, rec.Body)
	}

	rec = call(e, http.MethodGet, "/v1/checkout/drafts/missing", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get missing = %d", rec.Code)
	}
}

func TestCheckoutSeedRoomsUseBackendPrice(t *testing.T) {
	e := newCheckoutServer()

	rec := call(e, http.MethodPost, "/v1/checkout/drafts", "", `{"branchId":"hn","rooms":[{"roomId":"R1","basePrice":-1}]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body)
	}
	var created struct {
		Data struct {
			Rooms []model.BookingRoom `json:"rooms"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if len(created.Data.Rooms) != 1 || created.Data.Rooms[0].BasePrice != 1_000_000 || created.Data.Rooms[0].RoomNumber != "101" {
		t.Fatalf("rooms = %+v", created.Data.Rooms)
	}

	rec = call(e, http.MethodPost, "/v1/checkout/drafts", "", `{"rooms":[{"roomId":"R9"}]}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown seed room = %d %s", rec.Code, rec.Body)
	}
}
