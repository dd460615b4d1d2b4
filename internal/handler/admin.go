package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// AdminHandler lists accounts and roles for the admin pages.
type AdminHandler struct {
	API *aurora.Client
}

func NewAdminHandler(api *aurora.Client) *AdminHandler { return &AdminHandler{API: api} }

// Users handles GET /v1/admin/users?page=&size=&sort=&keyword=.
func (h *AdminHandler) Users(c echo.Context) error {
	var q model.PageQuery
	if err := c.Bind(&q); err != nil {
		return writeError(c, errBadBody)
	}
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 20
	}
	page, err := h.API.ListUsers(c.Request().Context(), middleware.AccessToken(c), q, c.QueryParam("keyword"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

// Roles handles GET /v1/admin/roles.
func (h *AdminHandler) Roles(c echo.Context) error {
	out, err := h.API.ListRoles(c.Request().Context(), middleware.AccessToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
