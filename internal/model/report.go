package model

// DashboardStats is the pre-aggregated statistics block of the manager
// dashboard.
type DashboardStats struct {
	BranchID          string         `json:"branchId,omitempty"`
	TotalRevenue      int64          `json:"totalRevenue"`
	TotalBookings     int64          `json:"totalBookings"`
	CancelledBookings int64          `json:"cancelledBookings"`
	OccupancyRate     float64        `json:"occupancyRate"`
	AverageDailyRate  int64          `json:"averageDailyRate"`
	RevenueByDay      []RevenuePoint `json:"revenueByDay"`
	TopRoomTypes      []RoomTypeStat `json:"topRoomTypes"`
}

type RevenuePoint struct {
	Date     Date  `json:"date"`
	Revenue  int64 `json:"revenue"`
	Bookings int64 `json:"bookings"`
}

type RoomTypeStat struct {
	RoomTypeName string  `json:"roomTypeName"`
	Bookings     int64   `json:"bookings"`
	Revenue      int64   `json:"revenue"`
	Share        float64 `json:"share"`
}
