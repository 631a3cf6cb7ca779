package jwtutil

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"smspanel/internal/domain"
	"smspanel/internal/model"
	"smspanel/pkg/config"
)

// Claims is the payload of an issued panel token. Tokens are stateless:
// there is no server-side revocation, a token stays valid until its expiry
// or until the signing key changes.
type Claims struct {
	UserID   uint   `json:"user_id"`
	TenantID uint   `json:"tenant_id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// JWTUtil issues and verifies the panel's bearer tokens.
type JWTUtil struct {
	signingKey []byte
	expiration time.Duration
}

// New creates a JWT utility from the given configuration.
func New(cfg *config.JWTConfig) *JWTUtil {
	return &JWTUtil{
		signingKey: []byte(cfg.SigningKey),
		expiration: time.Duration(cfg.ExpirationHours) * time.Hour,
	}
}

// Generate signs a token carrying the user's identity and owning tenant.
func (j *JWTUtil) Generate(user *model.User, tenant *model.Tenant) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		TenantID: tenant.ID,
		Name:     user.FullName(),
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.signingKey)
}

// Validate parses and verifies a token string. Only HMAC signatures are
// accepted; a token signed with any other method (including "none") is
// rejected outright.
func (j *JWTUtil) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.UserID == 0 || claims.TenantID == 0 {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
