package aurora

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/v1/", 2*time.Second)
}

func writeResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"code": CodeSuccess, "result": result})
}

func TestGetBookingUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bookings/b-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("authorization = %q", got)
		}
		writeResult(w, map[string]any{
			"id":         "b-1",
			"checkin":    "2026-11-01",
			"checkout":   "2026-11-03",
			"totalPrice": 2000000,
			"rooms":      []map[string]any{{"id": "br-1", "roomId": "r-1", "pricePerNight": 1000000}},
		})
	})

	b, err := c.GetBooking(context.Background(), "tok", "b-1")
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if b.Nights() != 2 || b.TotalPrice != 2000000 || len(b.Rooms) != 1 {
		t.Fatalf("unexpected booking: %+v", b)
	}
}

func TestNonSuccessCodeBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"code": 2004, "message": "Room is not available"})
	})

	_, err := c.GetRoom(context.Background(), "r-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != 2004 || apiErr.Message != "Room is not available" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestHTTPErrorCarriesExtractedMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":{"checkin":"must be in the future"}}`))
	})

	_, err := c.CreateBooking(context.Background(), "tok", model.CreateBookingRequest{})
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("status = %d (%v)", StatusOf(err), err)
	}
	if MessageOf(err) != "checkin: must be in the future" {
		t.Fatalf("message = %q", MessageOf(err))
	}
}

func TestApplyModificationsSendsIdempotencyKey(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/bookings/b-9/modifications" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "key-1" {
			t.Errorf("idempotency key = %q", got)
		}
		writeResult(w, map[string]any{"id": "b-9", "totalPrice": 10})
	})

	b, err := c.ApplyModifications(context.Background(), "tok", "b-9", "key-1", map[string]string{"x": "y"})
	if err != nil || b.ID != "b-9" {
		t.Fatalf("ApplyModifications = %+v, %v", b, err)
	}
}

func TestCheckAvailabilityBatchesRoomIDs(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var body struct {
			RoomIDs []string `json:"roomIds"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		out := make([]model.RoomAvailability, 0, len(body.RoomIDs))
		for _, id := range body.RoomIDs {
			out = append(out, model.RoomAvailability{RoomID: id, Available: id != "r-2"})
		}
		writeResult(w, out)
	})

	in, _ := model.ParseDate("2026-11-01")
	out, _ := model.ParseDate("2026-11-03")
	res, err := c.CheckAvailability(context.Background(), "tok", in, out, []string{"r-1", "r-2"})
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if calls != 1 || len(res) != 2 || res[1].Available {
		t.Fatalf("calls=%d res=%+v", calls, res)
	}
}

func TestLoginReturnsRefreshCookie(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: RefreshCookie, Value: "rt", HttpOnly: true})
		writeResult(w, model.AuthToken{Token: "at", Authenticated: true})
	})

	tok, cookies, err := c.Login(context.Background(), model.Credentials{Username: "u", Password: "p"})
	if err != nil || tok.Token != "at" {
		t.Fatalf("Login = %+v, %v", tok, err)
	}
	if len(cookies) != 1 || cookies[0].Value != "rt" {
		t.Fatalf("cookies = %+v", cookies)
	}
}
