package checkout

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrRoomAlreadySelected = errors.New("room already selected")
	ErrRoomNotSelected     = errors.New("room not selected")
	ErrNoRooms             = errors.New("select at least one room")
	ErrInvalidStay         = errors.New("check-out must be after check-in")
	ErrStayInPast          = errors.New("check-in must not be in the past")
	ErrInvalidGuests       = errors.New("guest count must be at least 1")
	ErrInvalidStep         = errors.New("invalid checkout step")
	ErrPaymentMethod       = errors.New("unsupported payment method")
	ErrNotReady            = errors.New("draft is not at the payment step")
)

// ValidationError collects field problems of one step.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("step %s invalid: %s", e.Step, strings.Join(parts, ", "))
}

// UnavailableError is returned by Submit when rooms of the draft were taken
// since they were selected.  The draft goes back to the rooms step.
type UnavailableError struct {
	RoomIDs []string
	Reasons []string
}

func (e *UnavailableError) Error() string {
	return "rooms no longer available: " + strings.Join(e.RoomIDs, ", ")
}
