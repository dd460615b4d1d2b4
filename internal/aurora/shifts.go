package aurora

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// ListShifts returns the shift templates of a branch.
func (c *Client) ListShifts(ctx context.Context, token, branchID string) ([]model.Shift, error) {
	q := url.Values{}
	setIf(q, "branchId", branchID)
	var out []model.Shift
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/work-shifts", query: q, token: token}, &out)
	return out, err
}

// CreateShift adds a shift template.
func (c *Client) CreateShift(ctx context.Context, token string, s model.Shift) (model.Shift, error) {
	var out model.Shift
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/work-shifts", body: s, token: token}, &out)
	return out, err
}

// ListAssignments returns staff assignments matching f.
func (c *Client) ListAssignments(ctx context.Context, token string, f model.ShiftFilter) ([]model.ShiftAssignment, error) {
	q := url.Values{}
	setIf(q, "branchId", f.BranchID)
	setIf(q, "staffId", f.StaffID)
	setIf(q, "startDate", f.From)
	setIf(q, "endDate", f.To)
	var out []model.ShiftAssignment
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/shift-assignments", query: q, token: token}, &out)
	return out, err
}

// AssignShift puts one staff member on a shift for one day.
func (c *Client) AssignShift(ctx context.Context, token string, req model.AssignmentRequest) (model.ShiftAssignment, error) {
	var out model.ShiftAssignment
	_, err := c.do(ctx, call{method: http.MethodPost, path: "/shift-assignments", body: req, token: token}, &out)
	return out, err
}

// CancelAssignment cancels a scheduled assignment.
func (c *Client) CancelAssignment(ctx context.Context, token, id, reason string) error {
	_, err := c.do(ctx, call{
		method: http.MethodPut,
		path:   "/shift-assignments/" + escape(id) + "/cancel",
		body:   map[string]string{"reason": reason},
		token:  token,
	}, nil)
	return err
}
