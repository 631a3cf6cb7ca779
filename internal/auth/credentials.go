package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"smspanel/internal/domain"
	"smspanel/internal/model"
)

// BcryptCost matches the cost the panel has always hashed passwords with.
const BcryptCost = 10

// CredentialVerifier checks a username/password pair against the user table
// of a single tenant. A user with the same identifier under another tenant
// never matches.
type CredentialVerifier struct {
	db *gorm.DB
}

// NewCredentialVerifier creates a verifier bound to the given database handle.
func NewCredentialVerifier(db *gorm.DB) *CredentialVerifier {
	return &CredentialVerifier{db: db}
}

// Verify looks up the user within tenantID whose email or username equals
// identifier and compares the password. The returned user has its password
// hash cleared.
func (v *CredentialVerifier) Verify(tenantID uint, identifier, password string) (*model.User, error) {
	var user model.User
	err := v.db.
		Where("tenant_id = ? AND (email = ? OR username = ?)", tenantID, identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user.Password = ""
	return &user, nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
