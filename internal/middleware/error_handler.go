package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"paycontrol/internal/apperr"
)

// CustomErrorHandler maps domain errors to JSON responses for Echo.
// Validation failures answer 400, missing references 404 and provider
// outages 502; everything else stays a 500 without leaking internals.
func CustomErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "something went wrong"

	switch {
	case errors.Is(err, apperr.ErrValidation):
		code = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		code = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperr.ErrTransient):
		code = http.StatusBadGateway
		message = "storage temporarily unavailable"
	default:
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if msg, ok := he.Message.(string); ok && msg != "" {
				message = msg
			} else {
				message = http.StatusText(code)
			}
		}
	}

	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if jsonErr := c.JSON(code, map[string]string{"error": message}); jsonErr != nil {
		c.Logger().Error(jsonErr)
	}
}
