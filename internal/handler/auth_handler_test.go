package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"smspanel/internal/auth"
	"smspanel/internal/middleware"
	"smspanel/internal/model"
	"smspanel/pkg/config"
	"smspanel/pkg/jwtutil"
)

// testEnv is a panel wired against an in-memory database, with the same
// routes and middleware the real server mounts.
type testEnv struct {
	e   *echo.Echo
	db  *gorm.DB
	jwt *jwtutil.JWTUtil
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.User{},
		&model.Contact{},
		&model.Group{},
		&model.ContactGroup{},
		&model.Blacklist{},
		&model.SmsTitle{},
		&model.SmsMessage{},
	))

	jwt := jwtutil.New(&config.JWTConfig{SigningKey: "test-key", ExpirationHours: 24})

	e := echo.New()
	authHandler := NewAuthHandler(auth.NewTenantResolver(db), auth.NewCredentialVerifier(db), jwt)
	e.POST("/auth/login", authHandler.Login)

	api := e.Group("/api", middleware.JWTAuth(jwt))

	titles := NewTitleHandler(db)
	api.GET("/titles", titles.List)
	api.POST("/titles", titles.Create)
	api.DELETE("/titles/:id", titles.Delete)

	sms := NewSmsHandler(db)
	api.POST("/sms", sms.Send)
	api.GET("/sms", sms.Report)

	tenants := NewTenantHandler(db)
	api.POST("/tenants", tenants.Create)
	api.GET("/tenants", tenants.List)

	return &testEnv{e: e, db: db, jwt: jwt}
}

// seedTenant creates a tenant with one active user.
func (env *testEnv) seedTenant(t *testing.T, name, domain, tenantType, username, password string) (*model.Tenant, *model.User) {
	t.Helper()

	tenant := &model.Tenant{
		Name:       name,
		Domain:     domain,
		TenantType: tenantType,
		Credit:     500,
		IsActive:   true,
	}
	require.NoError(t, env.db.Create(tenant).Error)

	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := &model.User{
		FirstName: "Test",
		LastName:  "User",
		Username:  username,
		Email:     username + "@" + domain,
		Password:  hashed,
		TenantID:  tenant.ID,
		IsActive:  true,
	}
	require.NoError(t, env.db.Create(user).Error)
	return tenant, user
}

func (env *testEnv) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) login(t *testing.T, host, username, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(string(body)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Host = host
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) tokenFor(t *testing.T, user *model.User, tenant *model.Tenant) string {
	t.Helper()
	token, err := env.jwt.Generate(user, tenant)
	require.NoError(t, err)
	return token
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t)
	tenant, user := env.seedTenant(t, "Acme", "acme.example", model.TenantTypeCustomer, "alice", "secret1")

	rec := env.login(t, "acme.example:8080", "alice", "secret1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID       uint   `json:"id"`
			Username string `json:"username"`
			Tenant   struct {
				ID     uint `json:"id"`
				Credit int  `json:"credit"`
			} `json:"tenant"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, tenant.ID, resp.User.Tenant.ID)
	assert.Equal(t, 500, resp.User.Tenant.Credit)

	claims, err := env.jwt.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, tenant.ID, claims.TenantID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLoginByEmail(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, "Acme", "acme.example", model.TenantTypeCustomer, "alice", "secret1")

	rec := env.login(t, "acme.example", "alice@acme.example", "secret1")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLoginUnknownDomain(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, "Acme", "acme.example", model.TenantTypeCustomer, "alice", "secret1")

	rec := env.login(t, "other.example", "alice", "secret1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, "Acme", "acme.example", model.TenantTypeCustomer, "alice", "secret1")

	rec := env.login(t, "acme.example", "alice", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, "Acme", "acme.example", model.TenantTypeCustomer, "alice", "secret1")

	rec := env.login(t, "acme.example", "alice", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// Logging in against one tenant's domain with a same-named user of another
// tenant must fail: credentials never cross the domain boundary.
func TestLoginIsScopedToResolvedTenant(t *testing.T) {
	env := newTestEnv(t)
	env.seedTenant(t, "Tenant A", "a.example", model.TenantTypeCustomer, "alice", "secret-a")
	env.seedTenant(t, "Tenant B", "b.example", model.TenantTypeCustomer, "bob", "secret-b")

	rec := env.login(t, "a.example", "bob", "secret-b")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
