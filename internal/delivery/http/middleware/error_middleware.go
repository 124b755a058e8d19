package middleware

import (
	"log/slog"
	"net/http"

	"enroll/internal/delivery/http/response"
	domainerrors "enroll/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware error handling middleware
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler. Every error
// funnels through here so handlers stay free of status-code mapping.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Domain errors carry their own status code and client-facing message.
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		_ = response.Fail(c, appErr.HTTPCode(), appErr.Message())

		return
	}

	// Echo's own errors (404 route misses, binding failures) keep their code.
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		_ = response.Fail(c, httpErr.Code, message)

		return
	}

	// Anything else is unexpected: log with the cause, answer opaquely.
	m.logger.Error("Unhandled error",
		slog.String("error", err.Error()),
		slog.String("path", c.Request().URL.Path),
		slog.String("method", c.Request().Method),
	)

	_ = response.Fail(c, http.StatusInternalServerError, "Internal server error")
}
