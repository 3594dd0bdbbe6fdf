package middleware

import (
	"errors"
	"net/http"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// ErrorHandler renders every error as {"message": ...}; field validation
// failures add a "fields" map and answer 422.
func ErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		body := map[string]any{"message": err.Error()}

		var fields validation.Errors
		var he *echo.HTTPError
		switch {
		case errors.As(err, &fields):
			code = http.StatusUnprocessableEntity
			body["message"] = "validation failed"
			body["fields"] = fields
		case errors.As(err, &he):
			code = he.Code
			switch m := he.Message.(type) {
			case string:
				body["message"] = m
			case validation.Errors:
				body["message"] = "validation failed"
				body["fields"] = m
			}
		}

		if code >= http.StatusInternalServerError {
			log.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		_ = c.JSON(code, body)
	}
}
