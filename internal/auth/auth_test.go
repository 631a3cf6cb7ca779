package auth

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smspanel/internal/domain"
	"smspanel/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.User{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, tenantID uint, username, email, password string, active bool) *model.User {
	t.Helper()

	hashed, err := HashPassword(password)
	require.NoError(t, err)

	user := &model.User{
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Username:  username,
		Password:  hashed,
		TenantID:  tenantID,
		IsActive:  active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestVerifyByUsernameAndEmail(t *testing.T) {
	db := newTestDB(t)
	v := NewCredentialVerifier(db)
	created := createUser(t, db, 1, "alice", "alice@a.example", "secret1", true)

	for _, identifier := range []string{"alice", "alice@a.example"} {
		user, err := v.Verify(1, identifier, "secret1")
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, created.ID, user.ID)
		assert.Empty(t, user.Password, "hash must not leave the verifier")
	}
}

func TestVerifyWrongPassword(t *testing.T) {
	db := newTestDB(t)
	v := NewCredentialVerifier(db)
	createUser(t, db, 1, "alice", "alice@a.example", "secret1", true)

	_, err := v.Verify(1, "alice", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyUnknownUser(t *testing.T) {
	db := newTestDB(t)
	v := NewCredentialVerifier(db)

	_, err := v.Verify(1, "nobody", "secret")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestVerifyInactiveUser(t *testing.T) {
	db := newTestDB(t)
	v := NewCredentialVerifier(db)
	createUser(t, db, 1, "alice", "alice@a.example", "secret1", false)

	_, err := v.Verify(1, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

// Same username in two tenants: the lookup must stay inside the tenant the
// login was resolved to, so tenant A's alice cannot log in with tenant B's
// password.
func TestVerifyIsTenantScoped(t *testing.T) {
	db := newTestDB(t)
	v := NewCredentialVerifier(db)
	createUser(t, db, 1, "alice", "alice@a.example", "secret1", true)
	createUser(t, db, 2, "alice", "alice@b.example", "secret2", true)

	_, err := v.Verify(1, "alice", "secret2")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	user, err := v.Verify(2, "alice", "secret2")
	require.NoError(t, err)
	assert.Equal(t, uint(2), user.TenantID)

	_, err = v.Verify(3, "alice", "secret1")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestResolveByDomain(t *testing.T) {
	db := newTestDB(t)
	r := NewTenantResolver(db)

	require.NoError(t, db.Create(&model.Tenant{
		Name:       "Ana Bayi",
		Domain:     "panel.example",
		TenantType: model.TenantTypeHost,
	}).Error)

	tests := []struct {
		name    string
		host    string
		wantErr error
	}{
		{name: "plain host", host: "panel.example"},
		{name: "host with port", host: "panel.example:8080"},
		{name: "unknown domain", host: "other.example", wantErr: domain.ErrTenantNotFound},
		{name: "subdomain does not match", host: "sub.panel.example", wantErr: domain.ErrTenantNotFound},
		{name: "empty host", host: "", wantErr: domain.ErrTenantNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant, err := r.ResolveByDomain(tt.host)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "panel.example", tenant.Domain)
		})
	}
}
