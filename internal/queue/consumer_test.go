package queue

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatLine(t *testing.T) {
	created := FormatLine(BookingEvent{
		Type: EventBookingCreated, BookingID: "b-1", BookingCode: "AUR-1", Actor: "alice",
		CheckIn: "2026-11-01", CheckOut: "2026-11-03", RoomIDs: []string{"R1", "R2"},
		TotalPrice: 5_200_000, PaymentMethod: "CASH", OccurredAt: "2026-10-17T09:00:00Z",
	})
	want := `[2026-10-17T09:00:00Z] Booking created | booking_id=b-1 | code=AUR-1 | actor="alice" | stay=2026-11-01..2026-11-03 | rooms=[R1,R2] | total=5200000 VND | payment=CASH` + "\n"
	if created != want {
		t.Fatalf("line =\n%q\nwant\n%q", created, want)
	}
	modified := FormatLine(BookingEvent{Type: EventBookingModified, BookingID: "b-1", PriceDelta: -50_000, ChangeCount: 2})
	if !strings.Contains(modified, "Booking modified") || !strings.Contains(modified, "delta=-50000 VND | changes=2") {
		t.Fatalf("line = %q", modified)
	}
}

func TestHandleMessageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "booking.log")
	body, _ := json.Marshal(BookingEvent{Type: EventBookingCreated, BookingID: "b-1"})
	for i := 0; i < 2; i++ {
		if err := HandleMessage(body, path); err != nil {
			t.Fatalf("HandleMessage: %v", err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(data), "\n"); n != 2 {
		t.Fatalf("lines = %d, want 2", n)
	}
	if err := HandleMessage([]byte(`{"type":""}`), path); err == nil {
		t.Fatal("event without booking id accepted")
	}
	if err := HandleMessage([]byte(`not json`), path); err == nil {
		t.Fatal("malformed body accepted")
	}
}
