package apperrors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler returns an Echo HTTPErrorHandler that renders every failure
// as {"error": msg}. Unexpected errors are logged with context and surfaced
// as a generic internal error so internals never leak to the caller.
func ErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		msg := "internal server error"

		var ae *Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Status()
			msg = ae.Message
			if ae.Kind == KindDependency {
				log.Error("dependency failure",
					"path", c.Path(),
					"method", c.Request().Method,
					"error", ae.Unwrap(),
				)
				msg = "internal server error"
			}
		case errors.As(err, &he):
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(he.Code)
			}
		default:
			log.Error("unhandled error",
				"path", c.Path(),
				"method", c.Request().Method,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, map[string]string{"error": msg})
	}
}
