package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// CatalogHandler serves the public browsing endpoints: room search,
// branches, services and running promotions.
type CatalogHandler struct {
	API *aurora.Client
	now func() time.Time
}

func NewCatalogHandler(api *aurora.Client) *CatalogHandler {
	return &CatalogHandler{API: api, now: time.Now}
}

// SearchRooms handles GET /v1/rooms/search.
func (h *CatalogHandler) SearchRooms(c echo.Context) error {
	var q model.RoomSearch
	if err := c.Bind(&q); err != nil {
		return writeError(c, errBadBody)
	}
	if q.CheckIn != "" {
		if _, err := model.ParseDate(q.CheckIn); err != nil {
			return writeError(c, errBadDate)
		}
	}
	if q.CheckOut != "" {
		if _, err := model.ParseDate(q.CheckOut); err != nil {
			return writeError(c, errBadDate)
		}
	}
	page, err := h.API.SearchRooms(c.Request().Context(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Branches handles GET /v1/branches.
func (h *CatalogHandler) Branches(c echo.Context) error {
	out, err := h.API.ListBranches(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Services handles GET /v1/services?branchId=.  Inactive services are
// hidden.
func (h *CatalogHandler) Services(c echo.Context) error {
	all, err := h.API.ListServices(c.Request().Context(), c.QueryParam("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]model.Service, 0, len(all))
	for _, s := range all {
		if s.Active {
			out = append(out, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Promotions handles GET /v1/promotions?branchId=&code=.  With a code it
// resolves that single promotion; otherwise it lists the running ones.
func (h *CatalogHandler) Promotions(c echo.Context) error {
	ctx := c.Request().Context()
	now := h.now()
	if code := c.QueryParam("code"); code != "" {
		p, err := h.API.GetPromotionByCode(ctx, code)
		if err != nil {
			return writeError(c, err)
		}
		if !p.Running(now) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "promotion is not running"})
		}
		return c.JSON(http.StatusOK, p)
	}
	all, err := h.API.ListActivePromotions(ctx, c.QueryParam("branchId"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]model.Promotion, 0, len(all))
	for _, p := range all {
		if p.Running(now) {
			out = append(out, p)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
