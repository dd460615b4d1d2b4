package aurora

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// ListServices returns the add-on service catalog of a branch.
func (c *Client) ListServices(ctx context.Context, branchID string) ([]model.Service, error) {
	q := url.Values{}
	setIf(q, "branchId", branchID)
	var out []model.Service
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/services", query: q}, &out)
	return out, err
}

// GetService loads one catalog entry.
func (c *Client) GetService(ctx context.Context, id string) (model.Service, error) {
	var s model.Service
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/services/" + escape(id)}, &s)
	return s, err
}

// ListBranches returns every hotel branch.
func (c *Client) ListBranches(ctx context.Context) ([]model.Branch, error) {
	var out []model.Branch
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/branches"}, &out)
	return out, err
}

// ListActivePromotions returns promotions currently offered.
func (c *Client) ListActivePromotions(ctx context.Context, branchID string) ([]model.Promotion, error) {
	q := url.Values{}
	setIf(q, "branchId", branchID)
	var out []model.Promotion
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/promotions/active", query: q}, &out)
	return out, err
}

// GetPromotionByCode resolves a promotion code typed by the guest.
func (c *Client) GetPromotionByCode(ctx context.Context, code string) (model.Promotion, error) {
	var p model.Promotion
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/promotions/code/" + escape(code)}, &p)
	return p, err
}
