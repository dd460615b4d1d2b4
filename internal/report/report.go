// Package report serves the manager dashboard: it defaults the date range,
// fetches the pre-aggregated statistics and adds display strings.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/utils"
)

// DefaultWindow is the range used when the caller gives no bounds.
const DefaultWindow = 30

// ErrInvalidRange is returned when from is after to.
var ErrInvalidRange = errors.New("from must not be after to")

// DefaultRange fills missing bounds: no bounds means the last 30 days ending
// today, a lone bound extends 30 days away from it.
func DefaultRange(now time.Time, from, to model.Date) (model.Date, model.Date, error) {
	switch {
	case from.IsZero() && to.IsZero():
		to = model.NewDate(now)
		from = model.NewDate(to.AddDate(0, 0, -(DefaultWindow - 1)))
	case from.IsZero():
		from = model.NewDate(to.AddDate(0, 0, -(DefaultWindow - 1)))
	case to.IsZero():
		to = model.NewDate(from.AddDate(0, 0, DefaultWindow-1))
	}
	if from.After(to.Time) {
		return model.Date{}, model.Date{}, ErrInvalidRange
	}
	return from, to, nil
}

// Backend fetches statistics.
type Backend interface {
	DashboardStats(ctx context.Context, token, branchID string, from, to model.Date) (model.DashboardStats, error)
}

// Dashboard is the statistics block plus the strings the dashboard shows.
type Dashboard struct {
	From  model.Date           `json:"from"`
	To    model.Date           `json:"to"`
	Stats model.DashboardStats `json:"stats"`

	Revenue          string            `json:"revenueText"`
	AverageDailyRate string            `json:"averageDailyRateText"`
	Occupancy        string            `json:"occupancyText"`
	CancellationRate string            `json:"cancellationRateText"`
	RoomTypeShares   map[string]string `json:"roomTypeShares"`
}

type Service struct {
	api Backend
	now func() time.Time
}

func NewService(api Backend) *Service { return &Service{api: api, now: time.Now} }

// Dashboard returns the statistics of branchID (all branches when empty)
// for the given range after defaulting it.
func (s *Service) Dashboard(ctx context.Context, token, branchID string, from, to model.Date) (Dashboard, error) {
	from, to, err := DefaultRange(s.now(), from, to)
	if err != nil {
		return Dashboard{}, err
	}
	stats, err := s.api.DashboardStats(ctx, token, branchID, from, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return decorate(from, to, stats), nil
}

func decorate(from, to model.Date, st model.DashboardStats) Dashboard {
	d := Dashboard{
		From:             from,
		To:               to,
		Stats:            st,
		Revenue:          utils.FormatVND(st.TotalRevenue),
		AverageDailyRate: utils.FormatVND(st.AverageDailyRate),
		Occupancy:        utils.FormatPercent(st.OccupancyRate),
		CancellationRate: utils.FormatPercent(0),
		RoomTypeShares:   make(map[string]string, len(st.TopRoomTypes)),
	}
	if st.TotalBookings > 0 {
		d.CancellationRate = utils.FormatPercent(float64(st.CancelledBookings) / float64(st.TotalBookings))
	}
	for _, rt := range st.TopRoomTypes {
		d.RoomTypeShares[rt.RoomTypeName] = utils.FormatPercent(rt.Share)
	}
	return d
}
