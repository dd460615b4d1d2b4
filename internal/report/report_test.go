package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

func date(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestDefaultRange(t *testing.T) {
	now := time.Date(2026, 10, 17, 15, 4, 0, 0, time.UTC)
	cases := []struct {
		name             string
		from, to         string
		wantFrom, wantTo string
	}{
		{"none", "", "", "2026-09-18", "2026-10-17"},
		{"only to", "", "2026-03-31", "2026-03-02", "2026-03-31"},
		{"only from", "2026-01-01", "", "2026-01-01", "2026-01-30"},
		{"both", "2026-05-01", "2026-05-01", "2026-05-01", "2026-05-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var from, to model.Date
			if tc.from != "" {
				from = date(t, tc.from)
			}
			if tc.to != "" {
				to = date(t, tc.to)
			}
			gotFrom, gotTo, err := DefaultRange(now, from, to)
			if err != nil {
				t.Fatal(err)
			}
			if gotFrom.String() != tc.wantFrom || gotTo.String() != tc.wantTo {
				t.Fatalf("range = %s..%s, want %s..%s", gotFrom, gotTo, tc.wantFrom, tc.wantTo)
			}
		})
	}
	if _, _, err := DefaultRange(now, date(t, "2026-02-02"), date(t, "2026-02-01")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted range = %v", err)
	}
}

type fakeStats struct {
	from, to model.Date
	stats    model.DashboardStats
}

func (f *fakeStats) DashboardStats(_ context.Context, _, _ string, from, to model.Date) (model.DashboardStats, error) {
	f.from, f.to = from, to
	return f.stats, nil
}

func TestDashboardDecorates(t *testing.T) {
	api := &fakeStats{stats: model.DashboardStats{
		TotalRevenue:      125_500_000,
		TotalBookings:     40,
		CancelledBookings: 4,
		OccupancyRate:     0.725,
		AverageDailyRate:  1_150_000,
		TopRoomTypes:      []model.RoomTypeStat{{RoomTypeName: "Deluxe", Share: 0.6}},
	}}
	s := NewService(api)
	s.now = func() time.Time { return time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC) }

	d, err := s.Dashboard(context.Background(), "tok", "hn", model.Date{}, model.Date{})
	if err != nil {
		t.Fatal(err)
	}
	if api.from.String() != "2026-09-18" || api.to.String() != "2026-10-17" {
		t.Fatalf("backend range = %s..%s", api.from, api.to)
	}
	if d.Revenue != "125.500.000 ₫" || d.Occupancy != "72,5%" || d.CancellationRate != "10%" {
		t.Fatalf("dashboard = %+v", d)
	}
	if d.RoomTypeShares["Deluxe"] != "60%" {
		t.Fatalf("shares = %v", d.RoomTypeShares)
	}
}
