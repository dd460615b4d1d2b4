package aurora

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// RefreshCookie is the HttpOnly cookie that carries the refresh token.
const RefreshCookie = "refresh_token"

// Login exchanges credentials for an access token.  The refresh token comes
// back as a cookie, returned so the gateway can hand it to the browser.
func (c *Client) Login(ctx context.Context, cred model.Credentials) (model.AuthToken, []*http.Cookie, error) {
	var tok model.AuthToken
	rep, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/token", body: cred}, &tok)
	return tok, rep.cookies, err
}

// Refresh obtains a new access token using the refresh cookie.
func (c *Client) Refresh(ctx context.Context, refresh *http.Cookie) (model.AuthToken, []*http.Cookie, error) {
	var tok model.AuthToken
	var cookies []*http.Cookie
	if refresh != nil {
		cookies = append(cookies, refresh)
	}
	rep, err := c.do(ctx, call{method: http.MethodPost, path: "/auth/refresh", cookies: cookies}, &tok)
	return tok, rep.cookies, err
}

// Logout invalidates the access token and the refresh cookie.
func (c *Client) Logout(ctx context.Context, token string, refresh *http.Cookie) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	if refresh != nil {
		cookies = append(cookies, refresh)
	}
	rep, err := c.do(ctx, call{
		method:  http.MethodPost,
		path:    "/auth/logout",
		body:    map[string]string{"token": token},
		cookies: cookies,
	}, nil)
	return rep.cookies, err
}

// MyInfo returns the account behind token.
func (c *Client) MyInfo(ctx context.Context, token string) (model.User, error) {
	var u model.User
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/users/myInfo", token: token}, &u)
	return u, err
}

// ListUsers pages through accounts.
func (c *Client) ListUsers(ctx context.Context, token string, q model.PageQuery, keyword string) (model.Page[model.User], error) {
	v := url.Values{}
	setIf(v, "keyword", keyword)
	var p model.Page[model.User]
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/users", query: pageQuery(v, q.Page, q.Size, q.Sort), token: token}, &p)
	return p, err
}

// ListRoles returns every role with its permissions.
func (c *Client) ListRoles(ctx context.Context, token string) ([]model.Role, error) {
	var out []model.Role
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/roles", token: token}, &out)
	return out, err
}
