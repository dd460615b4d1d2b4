package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// BookingHandler lists and cancels bookings for front-desk staff.
type BookingHandler struct {
	API *aurora.Client
}

func NewBookingHandler(api *aurora.Client) *BookingHandler { return &BookingHandler{API: api} }

type cancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// List handles GET /v1/bookings?branchId=&customerId=&status=&page=&size=.
func (h *BookingHandler) List(c echo.Context) error {
	var f model.BookingFilter
	if err := c.Bind(&f); err != nil {
		return writeError(c, errBadBody)
	}
	if f.Size <= 0 || f.Size > 100 {
		f.Size = 20
	}
	page, err := h.API.ListBookings(c.Request().Context(), middleware.AccessToken(c), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	b, err := h.API.GetBooking(c.Request().Context(), middleware.AccessToken(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles POST /v1/bookings/:id/cancel.
func (h *BookingHandler) Cancel(c echo.Context) error {
	var req cancelRequest
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	b, err := h.API.CancelBooking(c.Request().Context(), middleware.AccessToken(c), c.Param("id"), req.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
