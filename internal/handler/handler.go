package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/job"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/occupancy"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/pricing"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/service"
	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/labstack/echo/v4"
)

var (
	notFoundErrs = []error{
		service.ErrHotelNotFound,
		service.ErrRoomTypeNotFound,
		service.ErrGuestGroupNotFound,
		service.ErrRoomNotFound,
		service.ErrGuestNotFound,
		service.ErrOrderNotFound,
		service.ErrFoodOrderNotFound,
		service.ErrProductNotFound,
		service.ErrMenuNotFound,
		service.ErrRecipeNotFound,
	}
	conflictErrs = []error{
		service.ErrInsufficientCapacity,
		service.ErrRoomExists,
		service.ErrRoomBusy,
		service.ErrCountBelowOccupied,
		service.ErrGuestImmutable,
		service.ErrOrderCompleted,
		service.ErrLastOrderGuest,
		service.ErrMenuUnavailable,
		occupancy.ErrRoomMisconfigured,
		job.ErrSweepRunning,
	}
	badRequestErrs = []error{
		pricing.ErrStayTooLong,
		pricing.ErrGuestTypeUndetermined,
	}
)

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// serviceError maps a service failure onto an HTTP error. Validation errors
// pass through so the error handler can render their fields.
func serviceError(err error) error {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		return fields
	case isAny(err, notFoundErrs):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case isAny(err, conflictErrs):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case isAny(err, badRequestErrs):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
	}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func queryID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	v := uint(id)
	return &v, nil
}

// bind decodes the request body and runs the server's validator on it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}
