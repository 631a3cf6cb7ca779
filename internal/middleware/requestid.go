package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smspanel/pkg/logger"
)

// RequestIDHeader is echoed back to the client and attached to every log
// line of the request.
const RequestIDHeader = "X-Request-ID"

// RequestID assigns each request an ID and stores a request-scoped logger
// carrying it in the Echo context.
func RequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Response().Header().Set(RequestIDHeader, requestID)

		logger.SetEcho(c, logger.GetLogger().With(zap.String("request_id", requestID)))

		return next(c)
	}
}
