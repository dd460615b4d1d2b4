package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/bookingedit"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// ServiceLookup loads a catalog service.
type ServiceLookup interface {
	GetService(ctx context.Context, id string) (model.Service, error)
}

// EditHandler exposes booking edit sessions to staff.
type EditHandler struct {
	Edits    *bookingedit.Service
	Rooms    RoomLookup
	Services ServiceLookup
}

func NewEditHandler(edits *bookingedit.Service, rooms RoomLookup, services ServiceLookup) *EditHandler {
	return &EditHandler{Edits: edits, Rooms: rooms, Services: services}
}

type sessionResponse struct {
	*bookingedit.Session
	Version         int64 `json:"version"`
	Nights          int   `json:"nights"`
	PriceDifference int64 `json:"priceDifference"`
	PreviewTotal    int64 `json:"previewTotal"`
}

func (h *EditHandler) respond(c echo.Context, status int, s *bookingedit.Session) error {
	setETag(c, s.Version)
	return c.JSON(status, sessionResponse{
		Session:         s,
		Version:         s.Version,
		Nights:          s.Nights(),
		PriceDifference: s.PriceDifference(),
		PreviewTotal:    s.PreviewTotal(),
	})
}

func (h *EditHandler) mutate(c echo.Context, fn func(*bookingedit.Session) error) error {
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	s, err := h.Edits.Mutate(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, fn)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, s)
}

// Open handles POST /v1/bookings/:id/edits.
func (h *EditHandler) Open(c echo.Context) error {
	s, err := h.Edits.Open(c.Request().Context(), middleware.UserID(c), middleware.AccessToken(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusCreated, s)
}

// History handles GET /v1/bookings/:id/edits?limit=.
func (h *EditHandler) History(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	recs, err := h.Edits.History(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return writeError(c, err)
	}
	if recs == nil {
		recs = []model.ChangeSetRecord{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": recs})
}

// Get handles GET /v1/edits/:id.
func (h *EditHandler) Get(c echo.Context) error {
	s, err := h.Edits.Get(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, s)
}

// Discard handles DELETE /v1/edits/:id.
func (h *EditHandler) Discard(c echo.Context) error {
	if err := h.Edits.Discard(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SwapRoom handles POST /v1/edits/:id/rooms/:bookingRoomId/swap.  When the
// body only names the room, number, type and price come from the backend.
func (h *EditHandler) SwapRoom(c echo.Context) error {
	var to bookingedit.Replacement
	if err := bindValid(c, &to); err != nil {
		return writeError(c, err)
	}
	if to.Price == 0 {
		room, err := h.Rooms.GetRoom(c.Request().Context(), to.RoomID)
		if err != nil {
			return writeError(c, err)
		}
		to.Price = room.NightlyPrice()
		if to.RoomNumber == "" {
			to.RoomNumber = room.RoomNumber
		}
		if to.RoomTypeName == "" {
			to.RoomTypeName = room.RoomTypeName
		}
	}
	bookingRoomID := c.Param("bookingRoomId")
	return h.mutate(c, func(s *bookingedit.Session) error { return s.SwapRoom(bookingRoomID, to) })
}

// AddService handles POST /v1/edits/:id/services.  A missing price is
// taken from the catalog.
func (h *EditHandler) AddService(c echo.Context) error {
	var line bookingedit.NewServiceLine
	if err := bindValid(c, &line); err != nil {
		return writeError(c, err)
	}
	if line.Price == 0 || line.ServiceName == "" {
		svc, err := h.Services.GetService(c.Request().Context(), line.ServiceID)
		if err != nil {
			return writeError(c, err)
		}
		if line.Price == 0 {
			line.Price = svc.BasePrice
		}
		if line.ServiceName == "" {
			line.ServiceName = svc.Name
		}
	}
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	s, err := h.Edits.Mutate(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, func(s *bookingedit.Session) error {
		_, err := s.AddService(line)
		return err
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusCreated, s)
}

// UpdateService handles PATCH /v1/edits/:id/services/:serviceId.
func (h *EditHandler) UpdateService(c echo.Context) error {
	var p bookingedit.ServicePatch
	if err := c.Bind(&p); err != nil {
		return writeError(c, errBadBody)
	}
	id := c.Param("serviceId")
	return h.mutate(c, func(s *bookingedit.Session) error { return s.UpdateService(id, p) })
}

// DeleteService handles DELETE /v1/edits/:id/services/:serviceId.
func (h *EditHandler) DeleteService(c echo.Context) error {
	id := c.Param("serviceId")
	return h.mutate(c, func(s *bookingedit.Session) error { return s.DeleteService(id) })
}

// SetDetails handles PUT /v1/edits/:id/details: stay dates and special
// request, each optional.
func (h *EditHandler) SetDetails(c echo.Context) error {
	var body struct {
		CheckIn        *model.Date `json:"checkIn"`
		CheckOut       *model.Date `json:"checkOut"`
		SpecialRequest *string     `json:"specialRequest"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, errBadBody)
	}
	return h.mutate(c, func(s *bookingedit.Session) error {
		if body.CheckIn != nil || body.CheckOut != nil {
			in, out := s.CheckIn, s.CheckOut
			if body.CheckIn != nil {
				in = *body.CheckIn
			}
			if body.CheckOut != nil {
				out = *body.CheckOut
			}
			if err := s.SetDates(in, out); err != nil {
				return err
			}
		}
		if body.SpecialRequest != nil {
			s.SetSpecialRequest(*body.SpecialRequest)
		}
		return nil
	})
}

// Commit handles POST /v1/edits/:id/commit.  Retrying with the same
// If-Match returns the first result.
func (h *EditHandler) Commit(c echo.Context) error {
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Edits.Commit(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, middleware.AccessToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
