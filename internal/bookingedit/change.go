package bookingedit

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TempPrefix marks ids of services that exist only in the edit session.
const TempPrefix = "temp-"

// IsTemp reports whether id names a service not yet persisted.
func IsTemp(id string) bool { return strings.HasPrefix(id, TempPrefix) }

// RoomChange is the pending swap of one booking-room.  There is at most one
// per BookingRoomID; Old* always describe the room the booking had when the
// session was opened.
type RoomChange struct {
	BookingRoomID string `json:"bookingRoomId"`
	OldRoomID     string `json:"oldRoomId"`
	NewRoomID     string `json:"newRoomId"`
	OldPrice      int64  `json:"oldPrice"`
	NewPrice      int64  `json:"newPrice"`
}

// Action is the discriminant of a ServiceChange on the wire.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ServiceChange is one of ServiceAdd, ServiceUpdate or ServiceDelete.
type ServiceChange interface {
	Action() Action
	// Target is the service id the change applies to: the temporary id
	// for an add, the service booking id otherwise.
	Target() string
	isServiceChange()
}

// ServiceAdd creates a service that exists only in the session.
type ServiceAdd struct {
	TempID      string    `json:"tempId"`
	ServiceID   string    `json:"serviceId"`
	ServiceName string    `json:"serviceName,omitempty"`
	RoomID      string    `json:"roomId"`
	Quantity    int       `json:"quantity"`
	Price       int64     `json:"price"`
	DateTime    time.Time `json:"dateTime,omitzero"`
}

// ServiceUpdate changes fields of a persisted service; nil fields are left
// as they are.
type ServiceUpdate struct {
	ServiceBookingID string     `json:"serviceBookingId"`
	RoomID           *string    `json:"roomId,omitempty"`
	Quantity         *int       `json:"quantity,omitempty"`
	Price            *int64     `json:"price,omitempty"`
	DateTime         *time.Time `json:"dateTime,omitempty"`
}

// ServiceDelete removes a persisted service.  Price and Quantity are the
// persisted values, used for the price preview.
type ServiceDelete struct {
	ServiceBookingID string `json:"serviceBookingId"`
	Quantity         int    `json:"quantity"`
	Price            int64  `json:"price"`
}

func (ServiceAdd) Action() Action    { return ActionAdd }
func (ServiceUpdate) Action() Action { return ActionUpdate }
func (ServiceDelete) Action() Action { return ActionDelete }

func (a ServiceAdd) Target() string    { return a.TempID }
func (u ServiceUpdate) Target() string { return u.ServiceBookingID }
func (d ServiceDelete) Target() string { return d.ServiceBookingID }

func (ServiceAdd) isServiceChange()    {}
func (ServiceUpdate) isServiceChange() {}
func (ServiceDelete) isServiceChange() {}

// empty reports whether the update changes nothing.
func (u ServiceUpdate) empty() bool {
	return u.RoomID == nil && u.Quantity == nil && u.Price == nil && u.DateTime == nil
}

// ServiceChanges is the ordered list of pending service changes.  On the
// wire every element carries an "action" field naming its variant.
type ServiceChanges []ServiceChange

func (cs ServiceChanges) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(cs))
	for _, c := range cs {
		var (
			b   []byte
			err error
		)
		switch v := c.(type) {
		case ServiceAdd:
			b, err = json.Marshal(struct {
				Action Action `json:"action"`
				ServiceAdd
			}{ActionAdd, v})
		case ServiceUpdate:
			b, err = json.Marshal(struct {
				Action Action `json:"action"`
				ServiceUpdate
			}{ActionUpdate, v})
		case ServiceDelete:
			b, err = json.Marshal(struct {
				Action Action `json:"action"`
				ServiceDelete
			}{ActionDelete, v})
		default:
			return nil, fmt.Errorf("unknown service change %T", c)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return json.Marshal(out)
}

func (cs *ServiceChanges) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	list := make(ServiceChanges, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Action Action `json:"action"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("service change %d: %w", i, err)
		}
		var (
			c   ServiceChange
			err error
		)
		switch head.Action {
		case ActionAdd:
			var v ServiceAdd
			err = json.Unmarshal(raw, &v)
			c = v
		case ActionUpdate:
			var v ServiceUpdate
			err = json.Unmarshal(raw, &v)
			c = v
		case ActionDelete:
			var v ServiceDelete
			err = json.Unmarshal(raw, &v)
			c = v
		default:
			return fmt.Errorf("service change %d: unknown action %q", i, head.Action)
		}
		if err != nil {
			return fmt.Errorf("service change %d: %w", i, err)
		}
		list = append(list, c)
	}
	*cs = list
	return nil
}
