package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/shift"
)

// ShiftHandler serves shift templates, the assignment calendar and batch
// assignment.
type ShiftHandler struct {
	API *aurora.Client
}

func NewShiftHandler(api *aurora.Client) *ShiftHandler { return &ShiftHandler{API: api} }

// List handles GET /v1/shifts?branchId=.
func (h *ShiftHandler) List(c echo.Context) error {
	out, err := h.API.ListShifts(c.Request().Context(), middleware.AccessToken(c), c.QueryParam("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Calendar handles GET /v1/shifts/calendar?from=&to=&branchId=&staffId=.
// Without bounds it shows the current week.
func (h *ShiftHandler) Calendar(c echo.Context) error {
	from, err := queryDate(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	if from.IsZero() {
		from = model.NewDate(startOfWeek(time.Now()))
	}
	if to.IsZero() {
		to = model.NewDate(from.AddDate(0, 0, 6))
	}
	list, err := h.API.ListAssignments(c.Request().Context(), middleware.AccessToken(c), model.ShiftFilter{
		BranchID: c.QueryParam("branchId"),
		StaffID:  c.QueryParam("staffId"),
		From:     from.String(),
		To:       to.String(),
	})
	if err != nil {
		return writeError(c, err)
	}
	days, err := shift.Calendar(list, from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"from": from, "to": to, "days": days})
}

// Create handles POST /v1/shifts.
func (h *ShiftHandler) Create(c echo.Context) error {
	var s model.Shift
	if err := bindValid(c, &s); err != nil {
		return writeError(c, err)
	}
	out, err := h.API.CreateShift(c.Request().Context(), middleware.AccessToken(c), s)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// Assign handles POST /v1/shifts/:id/assignments.  Every staff member is
// tried; 201 when all succeeded, 207 with the summary otherwise.
func (h *ShiftHandler) Assign(c echo.Context) error {
	var req shift.BatchRequest
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	req.ShiftID = c.Param("id")
	res, err := shift.AssignBatch(c.Request().Context(), h.API, middleware.AccessToken(c), req)
	if err != nil {
		return writeError(c, err)
	}
	status := http.StatusCreated
	if res.Failed > 0 {
		status = http.StatusMultiStatus
	}
	return c.JSON(status, res)
}

// Cancel handles DELETE /v1/shifts/assignments/:id?reason=.
func (h *ShiftHandler) Cancel(c echo.Context) error {
	reason := strings.TrimSpace(c.QueryParam("reason"))
	if err := h.API.CancelAssignment(c.Request().Context(), middleware.AccessToken(c), c.Param("id"), reason); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// startOfWeek returns the Monday of now's week.
func startOfWeek(now time.Time) time.Time {
	return now.AddDate(0, 0, -((int(now.Weekday()) + 6) % 7))
}
