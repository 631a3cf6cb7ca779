package logger

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const echoLoggerKey = "logger"

// SetEcho stores a request-scoped logger in the Echo context.
func SetEcho(c echo.Context, l *zap.Logger) {
	c.Set(echoLoggerKey, l)
}

// FromEcho retrieves the request-scoped logger from the Echo context,
// falling back to the process logger.
func FromEcho(c echo.Context) *zap.Logger {
	l, ok := c.Get(echoLoggerKey).(*zap.Logger)
	if !ok {
		return GetLogger()
	}
	return l
}
