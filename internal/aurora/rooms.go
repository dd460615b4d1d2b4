package aurora

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
)

// SearchRooms lists rooms free for the given filters.
func (c *Client) SearchRooms(ctx context.Context, s model.RoomSearch) (model.Page[model.Room], error) {
	q := url.Values{}
	setIf(q, "branchId", s.BranchID)
	setIf(q, "checkin", s.CheckIn)
	setIf(q, "checkout", s.CheckOut)
	setIf(q, "roomTypeId", s.RoomTypeID)
	if s.Guests > 0 {
		q.Set("guests", strconv.Itoa(s.Guests))
	}
	var p model.Page[model.Room]
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/rooms/search", query: pageQuery(q, s.Page, s.Size, s.Sort)}, &p)
	return p, err
}

// GetRoom loads one room.
func (c *Client) GetRoom(ctx context.Context, id string) (model.Room, error) {
	var r model.Room
	_, err := c.do(ctx, call{method: http.MethodGet, path: "/rooms/" + escape(id)}, &r)
	return r, err
}

type availabilityRequest struct {
	CheckIn  model.Date `json:"checkin"`
	CheckOut model.Date `json:"checkout"`
	RoomIDs  []string   `json:"roomIds"`
}

// CheckAvailability asks, in one call, whether each room is free for the
// whole stay.
func (c *Client) CheckAvailability(ctx context.Context, token string, checkIn, checkOut model.Date, roomIDs []string) ([]model.RoomAvailability, error) {
	var out []model.RoomAvailability
	_, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/rooms/availability",
		body:   availabilityRequest{CheckIn: checkIn, CheckOut: checkOut, RoomIDs: roomIDs},
		token:  token,
	}, &out)
	return out, err
}
