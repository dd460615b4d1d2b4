package middleware

import "github.com/labstack/echo/v4"

// Context keys set by JWTAuth.
const (
	ctxUserID = "user_id"
	ctxRoles  = "roles"
	ctxToken  = "access_token"
)

// UserID returns the authenticated subject, or "anon".
func UserID(c echo.Context) string {
	if s, ok := c.Get(ctxUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

// Roles returns the roles of the authenticated user.
func Roles(c echo.Context) []string {
	roles, _ := c.Get(ctxRoles).([]string)
	return roles
}

// AccessToken returns the raw bearer token of the request so handlers can
// forward it to the backend.
func AccessToken(c echo.Context) string {
	s, _ := c.Get(ctxToken).(string)
	return s
}
