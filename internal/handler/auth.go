package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/middleware"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/utils"
)

// AuthHandler proxies login, refresh and logout to the backend.  The
// refresh token stays an HttpOnly cookie between browser and backend; the
// gateway only relays it.
type AuthHandler struct {
	API *aurora.Client
}

func NewAuthHandler(api *aurora.Client) *AuthHandler { return &AuthHandler{API: api} }

// relayCookies copies Set-Cookie values from the backend to the browser.
func relayCookies(c echo.Context, cookies []*http.Cookie) {
	for _, ck := range cookies {
		c.SetCookie(ck)
	}
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req model.Credentials
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	tok, cookies, err := h.API.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	relayCookies(c, cookies)
	return c.JSON(http.StatusOK, tok)
}

// Refresh handles POST /v1/auth/refresh using the refresh cookie.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ck, err := c.Cookie(aurora.RefreshCookie)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing refresh token"})
	}
	tok, cookies, err := h.API.Refresh(c.Request().Context(), ck)
	if err != nil {
		return writeError(c, err)
	}
	relayCookies(c, cookies)
	return c.JSON(http.StatusOK, tok)
}

// Logout handles POST /v1/auth/logout.  It is public so an expired access
// token can still clear the refresh cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw := utils.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	ck, _ := c.Cookie(aurora.RefreshCookie)
	cookies, err := h.API.Logout(c.Request().Context(), raw, ck)
	if err != nil && aurora.StatusOf(err) != http.StatusUnauthorized {
		return writeError(c, err)
	}
	relayCookies(c, cookies)
	return c.NoContent(http.StatusNoContent)
}

// Me handles GET /v1/me.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.API.MyInfo(c.Request().Context(), middleware.AccessToken(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
