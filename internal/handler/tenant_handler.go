package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smspanel/internal/auth"
	"smspanel/internal/middleware"
	"smspanel/internal/model"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// TenantHandler provisions and lists customer tenants. Only users of the
// HOST tenant may call these endpoints.
type TenantHandler struct {
	db *gorm.DB
}

// NewTenantHandler wires the tenant management endpoints.
func NewTenantHandler(db *gorm.DB) *TenantHandler {
	return &TenantHandler{db: db}
}

// TenantRequest carries a new tenant and its initial admin account.
type TenantRequest struct {
	Name       string `json:"name"`
	Domain     string `json:"domain"`
	Title      string `json:"title"`
	TenantType string `json:"tenant_type"`
	Credit     int    `json:"credit"`

	AdminFirstName string `json:"admin_first_name"`
	AdminLastName  string `json:"admin_last_name"`
	AdminUsername  string `json:"admin_username"`
	AdminEmail     string `json:"admin_email"`
	AdminPassword  string `json:"admin_password"`
}

// requireHost loads the caller's tenant and rejects anyone outside the
// HOST panel.
func (h *TenantHandler) requireHost(c echo.Context, tenantID uint) (bool, error) {
	var tenant model.Tenant
	if err := h.db.First(&tenant, tenantID).Error; err != nil {
		return false, err
	}
	if tenant.TenantType != model.TenantTypeHost {
		logger.FromEcho(c).Warn("Tenant management denied",
			zap.Uint("tenant_id", tenantID),
			zap.String("tenant_type", tenant.TenantType))
		prometheus.RecordAuthError("tenant_access_denied")
		return false, nil
	}
	return true, nil
}

// Create provisions a tenant together with its admin user in one
// transaction. A duplicate domain, email or username aborts the whole
// operation.
func (h *TenantHandler) Create(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordTenantOperation("create")

	isHost, err := h.requireHost(c, scope.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if !isHost {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Domain == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and domain are required"})
	}
	if req.AdminUsername == "" || req.AdminEmail == "" || req.AdminPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "admin_username, admin_email and admin_password are required"})
	}
	if req.TenantType == "" {
		req.TenantType = model.TenantTypeCustomer
	}
	if !model.ValidTenantType(req.TenantType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant_type"})
	}

	hashed, err := auth.HashPassword(req.AdminPassword)
	if err != nil {
		log.Error("Failed to hash admin password", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	tenant := model.Tenant{
		Name:       req.Name,
		Domain:     req.Domain,
		Title:      req.Title,
		TenantType: req.TenantType,
		Credit:     req.Credit,
		IsActive:   true,
	}
	admin := model.User{
		FirstName: req.AdminFirstName,
		LastName:  req.AdminLastName,
		Username:  req.AdminUsername,
		Email:     req.AdminEmail,
		Password:  hashed,
		IsActive:  true,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Tenant{}).Where("domain = ?", req.Domain).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		if err := tx.Model(&model.User{}).Where("email = ?", req.AdminEmail).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return gorm.ErrDuplicatedKey
		}
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}
		admin.TenantID = tenant.ID
		return tx.Create(&admin).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		prometheus.RecordAuthError("duplicate_tenant")
		return c.JSON(http.StatusConflict, echo.Map{"error": "domain or admin account already exists"})
	}
	if err != nil {
		log.Error("Failed to provision tenant", zap.Error(err))
		return respondError(c, err)
	}

	admin.Password = ""

	log.Info("Tenant provisioned",
		zap.Uint("id", tenant.ID),
		zap.String("name", tenant.Name),
		zap.String("domain", tenant.Domain),
		zap.Uint("admin_id", admin.ID))

	return c.JSON(http.StatusCreated, echo.Map{
		"tenant": tenant,
		"admin":  admin,
	})
}

// List returns every active tenant. Host panel only.
func (h *TenantHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordTenantOperation("list")

	isHost, err := h.requireHost(c, scope.TenantID)
	if err != nil {
		return respondError(c, err)
	}
	if !isHost {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "access denied"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	var tenants []model.Tenant
	if err := h.db.Where("is_active = ?", true).Order("created_at DESC").Find(&tenants).Error; err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, tenants)
}
