package model

import "time"

// Shift is a work shift template at a branch.
type Shift struct {
	ID        string `json:"id"`
	BranchID  string `json:"branchId" validate:"required"`
	Name      string `json:"name" validate:"required"`
	StartTime string `json:"startTime" validate:"required,datetime=15:04"`
	EndTime   string `json:"endTime" validate:"required,datetime=15:04"`
	Color     string `json:"colorCode,omitempty"`
}

// Shift assignment statuses.
const (
	AssignmentScheduled = "SCHEDULED"
	AssignmentCompleted = "COMPLETED"
	AssignmentCancelled = "CANCELLED"
)

// ShiftAssignment is one staff member working one shift on one day.
type ShiftAssignment struct {
	ID        string    `json:"id"`
	ShiftID   string    `json:"shiftId"`
	ShiftName string    `json:"shiftName"`
	StaffID   string    `json:"staffId"`
	StaffName string    `json:"staffName"`
	BranchID  string    `json:"branchId"`
	WorkDate  Date      `json:"shiftDate"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// AssignmentRequest asks the backend to put one staff member on a shift.
type AssignmentRequest struct {
	ShiftID  string `json:"workShiftId"`
	StaffID  string `json:"staffId"`
	WorkDate Date   `json:"shiftDate"`
	Notes    string `json:"notes,omitempty"`
}

// ShiftFilter narrows assignment listings.
type ShiftFilter struct {
	BranchID string `query:"branchId"`
	StaffID  string `query:"staffId"`
	From     string `query:"from"`
	To       string `query:"to"`
}
