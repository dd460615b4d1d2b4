package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nvminh162/aurora-hotel-system-sub000/internal/aurora"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/bookingedit"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/checkout"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/draft"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/model"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/report"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/shift"
	"github.com/nvminh162/aurora-hotel-system-sub000/internal/validation"
)

// Conditional request headers; echo only defines constants for a subset
// of the standard headers.
const (
	headerIfMatch = "If-Match"
	headerETag    = "ETag"
)

var (
	errBadBody    = errors.New("invalid request body")
	errBadVersion = errors.New("If-Match must be a draft version")
	errBadDate    = errors.New("dates must look like 2006-01-02")
)

// bindValid binds the request into v and runs the echo validator on it.
func bindValid(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return errBadBody
	}
	return c.Validate(v)
}

// ifMatch reads the version a mutation is based on.  A missing header
// means "whatever is stored"; ETag quoting is accepted.
func ifMatch(c echo.Context) (int64, error) {
	h := strings.TrimSpace(c.Request().Header.Get(headerIfMatch))
	if h == "" || h == "*" {
		return 0, nil
	}
	h = strings.Trim(strings.TrimPrefix(h, "W/"), `"`)
	v, err := strconv.ParseInt(h, 10, 64)
	if err != nil || v < 0 {
		return 0, errBadVersion
	}
	return v, nil
}

func setETag(c echo.Context, version int64) {
	c.Response().Header().Set(headerETag, `"`+strconv.FormatInt(version, 10)+`"`)
}

// queryDate parses an optional date query parameter.
func queryDate(c echo.Context, name string) (model.Date, error) {
	s := strings.TrimSpace(c.QueryParam(name))
	if s == "" {
		return model.Date{}, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return model.Date{}, errBadDate
	}
	return d, nil
}

// writeError maps service errors to HTTP responses.  Field problems come
// back as {"error", "fields"}; backend errors keep their status and
// extracted message, except that backend failures become 502 and envelope
// rejections 422.
func writeError(c echo.Context, err error) error {
	var (
		fieldErrs   validator.ValidationErrors
		stepErr     *checkout.ValidationError
		unavailable *checkout.UnavailableError
		apiErr      *aurora.APIError
	)
	switch {
	case errors.As(err, &fieldErrs):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": validation.Fields(err)})
	case errors.As(err, &stepErr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "step": stepErr.Step, "fields": stepErr.Fields})
	case errors.As(err, &unavailable):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":   unavailable.Error(),
			"roomIds": unavailable.RoomIDs,
			"reasons": unavailable.Reasons,
			"step":    checkout.StepRooms,
		})
	case errors.Is(err, draft.ErrVersionConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "modified in another tab, reload and retry", "code": "version_conflict"})
	case errors.Is(err, draft.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, errBadBody), errors.Is(err, errBadVersion), errors.Is(err, errBadDate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		switch {
		case status >= 500:
			status = http.StatusBadGateway
		case status < 400:
			// 2xx with a failure code in the envelope: a business rejection.
			status = http.StatusUnprocessableEntity
		}
		return c.JSON(status, echo.Map{"error": apiErr.Message})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "backend timed out"})
	}
	if status, ok := statusOf(err); ok {
		return c.JSON(status, echo.Map{"error": err.Error()})
	}
	log.Printf("handler: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// statusOf classifies the sentinel errors of the domain packages.
func statusOf(err error) (int, bool) {
	for _, m := range []struct {
		status int
		errs   []error
	}{
		{http.StatusNotFound, []error{bookingedit.ErrServiceNotFound, bookingedit.ErrBookingRoomNotFound}},
		{http.StatusConflict, []error{
			checkout.ErrRoomAlreadySelected, checkout.ErrNotReady,
			bookingedit.ErrRoomInUse, bookingedit.ErrNotEditable, bookingedit.ErrCommitInProgress,
		}},
		{http.StatusUnprocessableEntity, []error{bookingedit.ErrIdempotencyMismatch}},
		{http.StatusBadRequest, []error{
			checkout.ErrRoomNotSelected, checkout.ErrNoRooms, checkout.ErrInvalidStay, checkout.ErrStayInPast,
			checkout.ErrInvalidGuests, checkout.ErrInvalidStep, checkout.ErrPaymentMethod,
			bookingedit.ErrRoomNotInBooking, bookingedit.ErrInvalidQuantity, bookingedit.ErrInvalidPrice,
			bookingedit.ErrInvalidDates, bookingedit.ErrNoChanges,
			report.ErrInvalidRange, shift.ErrInvalidRange, shift.ErrNoStaff, shift.ErrNoWorkDate,
		}},
	} {
		for _, e := range m.errs {
			if errors.Is(err, e) {
				return m.status, true
			}
		}
	}
	return 0, false
}
