// Package shift builds the staff shift calendar and assigns several staff
// members to a shift in one operation.
package shift

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// MaxCalendarDays bounds the calendar range.
const MaxCalendarDays = 62

var (
	ErrInvalidRange = errors.New("invalid calendar range")
	ErrNoStaff      = errors.New("no staff selected")
	ErrNoWorkDate   = errors.New("work date is required")
)

// Day is one calendar cell.
type Day struct {
	Date        model.Date              `json:"date"`
	Assignments []model.ShiftAssignment `json:"assignments"`
}

// Calendar groups assignments by work day.  Every day of [from, to] is
// present, even when empty; assignments outside the range are dropped and
// each day is ordered by start time, then staff name.
func Calendar(assignments []model.ShiftAssignment, from, to model.Date) ([]Day, error) {
	if from.IsZero() || to.IsZero() || to.Before(from.Time) {
		return nil, ErrInvalidRange
	}
	n := dayOffset(from, to) + 1
	if n > MaxCalendarDays {
		return nil, ErrInvalidRange
	}
	days := make([]Day, n)
	for i := range days {
		days[i] = Day{Date: model.NewDate(from.AddDate(0, 0, i)), Assignments: []model.ShiftAssignment{}}
	}
	for _, a := range assignments {
		if a.WorkDate.IsZero() || a.WorkDate.Before(from.Time) {
			continue
		}
		i := dayOffset(from, a.WorkDate)
		if i >= n {
			continue
		}
		days[i].Assignments = append(days[i].Assignments, a)
	}
	for _, d := range days {
		sort.SliceStable(d.Assignments, func(i, j int) bool {
			a, b := d.Assignments[i], d.Assignments[j]
			if a.StartTime != b.StartTime {
				return a.StartTime < b.StartTime
			}
			return a.StaffName < b.StaffName
		})
	}
	return days, nil
}

func dayOffset(from, d model.Date) int {
	return int(d.Sub(from.Time).Hours() / 24)
}

// Assigner creates one assignment.
type Assigner interface {
	AssignShift(ctx context.Context, token string, req model.AssignmentRequest) (model.ShiftAssignment, error)
}

// BatchRequest assigns StaffIDs to ShiftID on WorkDate.
type BatchRequest struct {
	ShiftID  string     `json:"-"`
	StaffIDs []string   `json:"staffIds" validate:"required,min=1,dive,required"`
	WorkDate model.Date `json:"shiftDate"`
	Notes    string     `json:"notes"`
}

// BatchResult summarises a batch: how many assignments were created, how
// many failed and the distinct failure messages.
type BatchResult struct {
	Succeeded   int                     `json:"succeeded"`
	Failed      int                     `json:"failed"`
	Reasons     []string                `json:"reasons"`
	Assignments []model.ShiftAssignment `json:"assignments"`
}

// maxParallel caps concurrent backend calls of one batch.
const maxParallel = 8

// AssignBatch issues one assignment per staff member concurrently and waits
// for all of them.  Individual failures do not stop the others.
func AssignBatch(ctx context.Context, api Assigner, token string, req BatchRequest) (BatchResult, error) {
	staff := dedupe(req.StaffIDs)
	if len(staff) == 0 {
		return BatchResult{}, ErrNoStaff
	}
	if req.WorkDate.IsZero() {
		return BatchResult{}, ErrNoWorkDate
	}

	type outcome struct {
		a   model.ShiftAssignment
		err error
	}
	results := make([]outcome, len(staff))
	sem := make(chan struct{}, maxParallel)
	var wg sync.WaitGroup
	for i, id := range staff {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			a, err := api.AssignShift(ctx, token, model.AssignmentRequest{
				ShiftID:  req.ShiftID,
				StaffID:  id,
				WorkDate: req.WorkDate,
				Notes:    req.Notes,
			})
			results[i] = outcome{a, err}
		}(i, id)
	}
	wg.Wait()

	res := BatchResult{Reasons: []string{}, Assignments: []model.ShiftAssignment{}}
	var reasons []string
	for _, o := range results {
		if o.err != nil {
			res.Failed++
			reasons = append(reasons, aurora.MessageOf(o.err))
			continue
		}
		res.Succeeded++
		res.Assignments = append(res.Assignments, o.a)
	}
	res.Reasons = append(res.Reasons, aurora.Dedupe(reasons)...)
	return res, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
