package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"smspanel/internal/auth"
	"smspanel/internal/domain"
	"smspanel/pkg/jwtutil"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// AuthHandler serves the login endpoint. It is the only handler that runs
// before a token exists, so it resolves the tenant from the Host header
// instead of from claims.
type AuthHandler struct {
	resolver *auth.TenantResolver
	verifier *auth.CredentialVerifier
	jwt      *jwtutil.JWTUtil
}

// NewAuthHandler wires the login dependencies.
func NewAuthHandler(resolver *auth.TenantResolver, verifier *auth.CredentialVerifier, jwt *jwtutil.JWTUtil) *AuthHandler {
	return &AuthHandler{resolver: resolver, verifier: verifier, jwt: jwt}
}

// Login authenticates a user of the tenant the request's Host header maps
// to and returns a signed token plus the user profile.
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Username == "" || req.Password == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username and password are required"})
	}

	host := c.Request().Host
	if host == "" {
		prometheus.RecordAuthError("missing_host")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid domain"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	tenant, err := h.resolver.ResolveByDomain(host)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			log.Warn("Login for unknown tenant domain", zap.String("host", host))
			prometheus.RecordAuthError("tenant_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		return respondError(c, err)
	}

	user, err := h.verifier.Verify(tenant.ID, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			log.Warn("Login for unknown user",
				zap.String("username", req.Username),
				zap.Uint("tenant_id", tenant.ID))
			prometheus.RecordAuthError("user_not_found")
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		case errors.Is(err, domain.ErrInvalidCredentials):
			log.Warn("Invalid password",
				zap.String("username", req.Username),
				zap.Uint("tenant_id", tenant.ID))
			prometheus.RecordAuthError("invalid_credentials")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, domain.ErrUserInactive):
			log.Warn("Login for inactive user",
				zap.String("username", req.Username),
				zap.Uint("tenant_id", tenant.ID))
			prometheus.RecordAuthError("user_inactive")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "user is not active"})
		default:
			return respondError(c, err)
		}
	}

	token, err := h.jwt.Generate(user, tenant)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}
	prometheus.IncreaseActiveTokens()

	log.Info("User logged in",
		zap.String("username", user.Username),
		zap.Uint("user_id", user.ID),
		zap.Uint("tenant_id", tenant.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":         user.ID,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"username":   user.Username,
			"email":      user.Email,
			"tenant": echo.Map{
				"id":     tenant.ID,
				"name":   tenant.Name,
				"credit": tenant.Credit,
			},
		},
	})
}
