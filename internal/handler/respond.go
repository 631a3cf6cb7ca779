package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smspanel/internal/domain"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// respondError maps a domain error to its HTTP status. Unexpected errors
// are logged with the request logger and surfaced as a generic 500 so no
// internals leak to the caller.
func respondError(c echo.Context, err error) error {
	switch {
	case domain.IsValidation(err):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "record not found"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate record"})
	case errors.Is(err, domain.ErrInvalidToken), errors.Is(err, domain.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	default:
		logger.FromEcho(c).Error("Unexpected error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// unauthorized rejects a request whose auth scope never made it into the
// context, which means the route was mounted without the auth middleware.
func unauthorized(c echo.Context) error {
	logger.FromEcho(c).Error("Missing auth scope in context")
	prometheus.RecordAuthError("missing_scope")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || v == 0 {
		return 0, domain.Validationf("invalid id")
	}
	return uint(v), nil
}
