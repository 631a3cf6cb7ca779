package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smspanel/internal/repository"
	"smspanel/pkg/jwtutil"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// TokenCookie is the cookie the panel's pages carry the token in. API
// clients use the Authorization header instead.
const TokenCookie = "token"

const scopeKey = "auth_scope"

// JWTAuth is the authorization gate: it extracts the bearer token, verifies
// it, and stores the resulting tenant/user scope in the Echo context. No
// handler behind this middleware runs without a verified scope, and the
// scope is the only channel tenant identity reaches the data layer through.
func JWTAuth(jwt *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			tokenString, ok := extractToken(c)
			if !ok {
				log.Warn("Missing authorization token")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			claims, err := jwt.Validate(tokenString)
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			c.Set(scopeKey, repository.Scope{
				TenantID: claims.TenantID,
				UserID:   claims.UserID,
			})
			c.Set("username", claims.Username)

			log.Debug("Request authenticated",
				zap.Uint("user_id", claims.UserID),
				zap.Uint("tenant_id", claims.TenantID))

			return next(c)
		}
	}
}

// ScopeFrom returns the authenticated scope stored by JWTAuth.
func ScopeFrom(c echo.Context) (repository.Scope, bool) {
	scope, ok := c.Get(scopeKey).(repository.Scope)
	return scope, ok
}

func extractToken(c echo.Context) (string, bool) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && parts[1] != "" {
			return parts[1], true
		}
		return "", false
	}

	// Page rendering requests carry the token in a cookie instead.
	cookie, err := c.Cookie(TokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
