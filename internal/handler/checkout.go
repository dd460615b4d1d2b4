package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/checkout"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// RoomLookup loads the current data of a room when a guest selects it.
type RoomLookup interface {
	GetRoom(ctx context.Context, id string) (model.Room, error)
}

// CheckoutHandler exposes the checkout drafts of the signed-in user.
// Mutations read the version they are based on from If-Match and answer
// the new version in ETag.
type CheckoutHandler struct {
	Drafts *checkout.Service
	Rooms  RoomLookup
}

func NewCheckoutHandler(drafts *checkout.Service, rooms RoomLookup) *CheckoutHandler {
	return &CheckoutHandler{Drafts: drafts, Rooms: rooms}
}

type draftResponse struct {
	*checkout.Draft
	Version int64           `json:"version"`
	Totals  checkout.Totals `json:"totals"`
}

func (h *CheckoutHandler) respond(c echo.Context, status int, d *checkout.Draft) error {
	setETag(c, d.Version)
	return c.JSON(status, draftResponse{Draft: d, Version: d.Version, Totals: d.Totals()})
}

// mutate runs fn on the draft named in the path under If-Match.
func (h *CheckoutHandler) mutate(c echo.Context, fn func(*checkout.Draft) error) error {
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.Drafts.Mutate(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, fn)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, d)
}

// Create handles POST /v1/checkout/drafts.  Seeded rooms are replaced by
// backend snapshots; only their ids are taken from the request.
func (h *CheckoutHandler) Create(c echo.Context) error {
	var req checkout.StartRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, errBadBody)
	}
	for i, seed := range req.Rooms {
		if seed.RoomID == "" {
			continue
		}
		room, err := h.Rooms.GetRoom(c.Request().Context(), seed.RoomID)
		if err != nil {
			return writeError(c, err)
		}
		req.Rooms[i] = room.Snapshot()
	}
	d, err := h.Drafts.Start(c.Request().Context(), middleware.UserID(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusCreated, d)
}

// Get handles GET /v1/checkout/drafts/:id.
func (h *CheckoutHandler) Get(c echo.Context) error {
	d, err := h.Drafts.Get(c.Request().Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, d)
}

// Delete handles DELETE /v1/checkout/drafts/:id.
func (h *CheckoutHandler) Delete(c echo.Context) error {
	if err := h.Drafts.Discard(c.Request().Context(), middleware.UserID(c), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddRoom handles POST /v1/checkout/drafts/:id/rooms with {"roomId"}.  The
// room is snapshotted from the backend at selection time.
func (h *CheckoutHandler) AddRoom(c echo.Context) error {
	var body struct {
		RoomID string `json:"roomId" validate:"required"`
	}
	if err := bindValid(c, &body); err != nil {
		return writeError(c, err)
	}
	room, err := h.Rooms.GetRoom(c.Request().Context(), body.RoomID)
	if err != nil {
		return writeError(c, err)
	}
	return h.mutate(c, func(d *checkout.Draft) error { return d.AddRoom(room.Snapshot()) })
}

// RemoveRoom handles DELETE /v1/checkout/drafts/:id/rooms/:roomId.
func (h *CheckoutHandler) RemoveRoom(c echo.Context) error {
	roomID := c.Param("roomId")
	return h.mutate(c, func(d *checkout.Draft) error { return d.RemoveRoom(roomID) })
}

// SetStay handles PUT /v1/checkout/drafts/:id/stay.
func (h *CheckoutHandler) SetStay(c echo.Context) error {
	var body struct {
		CheckIn  model.Date `json:"checkIn"`
		CheckOut model.Date `json:"checkOut"`
		Guests   int        `json:"guests" validate:"gte=1"`
	}
	if err := bindValid(c, &body); err != nil {
		return writeError(c, err)
	}
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	d, err := h.Drafts.SetStay(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, body.CheckIn, body.CheckOut, body.Guests)
	if err != nil {
		return writeError(c, err)
	}
	return h.respond(c, http.StatusOK, d)
}

// SetExtras handles PUT /v1/checkout/drafts/:id/rooms/:roomId/extras.
func (h *CheckoutHandler) SetExtras(c echo.Context) error {
	var extras model.RoomExtras
	if err := bindValid(c, &extras); err != nil {
		return writeError(c, err)
	}
	roomID := c.Param("roomId")
	return h.mutate(c, func(d *checkout.Draft) error { return d.SetRoomExtras(roomID, extras) })
}

// SetGuest handles PUT /v1/checkout/drafts/:id/guest.
func (h *CheckoutHandler) SetGuest(c echo.Context) error {
	var g model.GuestInfo
	if err := bindValid(c, &g); err != nil {
		return writeError(c, err)
	}
	return h.mutate(c, func(d *checkout.Draft) error { return d.SetGuest(g) })
}

// SetPayment handles PUT /v1/checkout/drafts/:id/payment.
func (h *CheckoutHandler) SetPayment(c echo.Context) error {
	var body struct {
		Method string `json:"method" validate:"required"`
	}
	if err := bindValid(c, &body); err != nil {
		return writeError(c, err)
	}
	return h.mutate(c, func(d *checkout.Draft) error { return d.SetPayment(body.Method) })
}

// SetPromotion handles PUT /v1/checkout/drafts/:id/promotion.  An empty
// promotion id clears it; the special request rides along.
func (h *CheckoutHandler) SetPromotion(c echo.Context) error {
	var body struct {
		PromotionID    string  `json:"promotionId"`
		SpecialRequest *string `json:"specialRequest"`
	}
	if err := c.Bind(&body); err != nil {
		return writeError(c, errBadBody)
	}
	return h.mutate(c, func(d *checkout.Draft) error {
		d.SetPromotion(body.PromotionID)
		if body.SpecialRequest != nil {
			d.SetSpecialRequest(*body.SpecialRequest)
		}
		return nil
	})
}

type stepBody struct {
	Step checkout.Step `json:"step" validate:"required"`
}

// Advance handles POST /v1/checkout/drafts/:id/advance.
func (h *CheckoutHandler) Advance(c echo.Context) error {
	var body stepBody
	if err := bindValid(c, &body); err != nil {
		return writeError(c, err)
	}
	return h.mutate(c, func(d *checkout.Draft) error { return d.Advance(body.Step) })
}

// Back handles POST /v1/checkout/drafts/:id/back.
func (h *CheckoutHandler) Back(c echo.Context) error {
	var body stepBody
	if err := bindValid(c, &body); err != nil {
		return writeError(c, err)
	}
	return h.mutate(c, func(d *checkout.Draft) error { return d.Back(body.Step) })
}

// Submit handles POST /v1/checkout/drafts/:id/submit.
func (h *CheckoutHandler) Submit(c echo.Context) error {
	version, err := ifMatch(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.Drafts.Submit(c.Request().Context(), middleware.UserID(c), c.Param("id"), version, middleware.AccessToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
