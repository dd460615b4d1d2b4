package shift

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

func day(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCalendarGroupsByDay(t *testing.T) {
	as := []model.ShiftAssignment{
		{ID: "a1", WorkDate: day(t, "2026-10-02"), StartTime: "14:00", StaffName: "Binh"},
		{ID: "a2", WorkDate: day(t, "2026-10-02"), StartTime: "06:00", StaffName: "Chi"},
		{ID: "a3", WorkDate: day(t, "2026-10-02"), StartTime: "06:00", StaffName: "An"},
		{ID: "a4", WorkDate: day(t, "2026-10-04"), StartTime: "22:00"},
		{ID: "a5", WorkDate: day(t, "2026-09-30"), StartTime: "06:00"},
		{ID: "a6", WorkDate: day(t, "2026-10-09"), StartTime: "06:00"},
	}
	days, err := Calendar(as, day(t, "2026-10-01"), day(t, "2026-10-04"))
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 4 {
		t.Fatalf("days = %d, want 4", len(days))
	}
	var got []string
	for _, a := range days[1].Assignments {
		got = append(got, a.ID)
	}
	if fmt.Sprint(got) != "[a3 a2 a1]" {
		t.Fatalf("2026-10-02 = %v", got)
	}
	if len(days[0].Assignments) != 0 || len(days[2].Assignments) != 0 || len(days[3].Assignments) != 1 {
		t.Fatalf("calendar = %+v", days)
	}
	if days[3].Date.String() != "2026-10-04" {
		t.Fatalf("last day = %s", days[3].Date)
	}
}

func TestCalendarRejectsBadRange(t *testing.T) {
	if _, err := Calendar(nil, day(t, "2026-10-05"), day(t, "2026-10-01")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("inverted = %v", err)
	}
	if _, err := Calendar(nil, day(t, "2026-01-01"), day(t, "2026-12-31")); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("too long = %v", err)
	}
}

type fakeAssigner struct {
	mu    sync.Mutex
	calls []string
	fail  map[string]error
}

func (f *fakeAssigner) AssignShift(_ context.Context, _ string, req model.AssignmentRequest) (model.ShiftAssignment, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.StaffID)
	f.mu.Unlock()
	if err := f.fail[req.StaffID]; err != nil {
		return model.ShiftAssignment{}, err
	}
	return model.ShiftAssignment{ID: "as-" + req.StaffID, StaffID: req.StaffID, ShiftID: req.ShiftID}, nil
}

func TestAssignBatchSettlesAll(t *testing.T) {
	conflict := &aurora.APIError{Status: 409, Message: "Staff already has a shift on this day"}
	api := &fakeAssigner{fail: map[string]error{"s2": conflict, "s4": conflict, "s5": errors.New("timeout")}}
	res, err := AssignBatch(context.Background(), api, "tok", BatchRequest{
		ShiftID:  "morning",
		StaffIDs: []string{"s1", "s2", "s3", "s4", "s5", "s1"},
		WorkDate: day(t, "2026-10-20"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(api.calls) != 5 {
		t.Fatalf("calls = %v", api.calls)
	}
	if res.Succeeded != 2 || res.Failed != 3 || len(res.Assignments) != 2 {
		t.Fatalf("result = %+v", res)
	}
	if fmt.Sprint(res.Reasons) != "[Staff already has a shift on this day timeout]" {
		t.Fatalf("reasons = %q", res.Reasons)
	}
}

func TestAssignBatchNeedsStaff(t *testing.T) {
	if _, err := AssignBatch(context.Background(), &fakeAssigner{}, "tok", BatchRequest{StaffIDs: []string{""}}); !errors.Is(err, ErrNoStaff) {
		t.Fatalf("err = %v", err)
	}
}
