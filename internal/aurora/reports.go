package aurora

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// DashboardStats fetches pre-aggregated statistics for [from, to].
func (c *Client) DashboardStats(ctx context.Context, token, branchID string, from, to model.Date) (model.DashboardStats, error) {
	q := url.Values{}
	setIf(q, "branchId", branchID)
	q.Set("dateFrom", from.String())
	q.Set("dateTo", to.String())
	var out model.DashboardStats
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/dashboard/statistics", query: q, token: token}, &out)
	return out, err
}
