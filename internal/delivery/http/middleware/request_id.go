package middleware

import (
	"log/slog"

	deliverycontext "enroll/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDMiddleware tags every request with an ID, echoes it in the
// response header, and installs a request-scoped logger carrying it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

// NewRequestIDMiddleware creates a new Request ID middleware
func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{
		logger: logger,
	}
}

// Process resolves the request ID and threads it, together with a child
// logger, through both the echo context and the request's context.Context so
// the use case layer logs under the same ID.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := resolveRequestID(c)

		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		reqLogger := m.logger.With(slog.String("request_id", requestID))

		ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
		ctx = deliverycontext.WithLogger(ctx, reqLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// resolveRequestID reuses a caller-supplied ID so a mobile client's retries
// correlate in the logs, and mints a fresh one otherwise.
func resolveRequestID(c echo.Context) string {
	if id := c.Request().Header.Get(deliverycontext.HeaderXRequestID); id != "" {
		return id
	}

	return uuid.New().String()
}
