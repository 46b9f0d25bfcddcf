// Package apierr translates service failures into echo HTTP errors.
package apierr

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medapp/clinic/internal/platform/validation"
)

// FromService maps a service error to an HTTP error whose message is the
// service's own text. Storage faults are hidden behind a generic message.
func FromService(err error) *echo.HTTPError {
	switch {
	case validation.IsValidation(err):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case validation.IsInvalidArgument(err):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error").SetInternal(err)
	}
}

func NotFound(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusNotFound, msg)
}
