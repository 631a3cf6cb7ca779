package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smspanel/internal/domain"
	"smspanel/internal/middleware"
	"smspanel/internal/model"
	"smspanel/internal/repository"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// BlacklistHandler serves the tenant's do-not-message list.
type BlacklistHandler struct {
	blacklist *repository.Repository[model.Blacklist, *model.Blacklist]
}

// NewBlacklistHandler wires the blacklist endpoints.
func NewBlacklistHandler(db *gorm.DB) *BlacklistHandler {
	return &BlacklistHandler{
		blacklist: repository.New[model.Blacklist](db, "created_at DESC"),
	}
}

// BlacklistRequest carries one blacklist entry.
type BlacklistRequest struct {
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// List returns the tenant's active blacklist entries, newest first.
func (h *BlacklistHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("blacklist", "list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	entries, err := h.blacklist.List(scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// Create adds a number to the tenant's blacklist.
func (h *BlacklistHandler) Create(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("blacklist", "create")

	var req BlacklistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	entry := model.Blacklist{Phone: req.Phone, Description: req.Description}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.blacklist.Create(scope, &entry); err != nil {
		log.Error("Failed to create blacklist entry", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Blacklist entry created",
		zap.Uint("id", entry.ID),
		zap.Uint("tenant_id", entry.TenantID))
	return c.JSON(http.StatusCreated, entry)
}

// Delete soft-deletes a blacklist entry after the ownership check.
func (h *BlacklistHandler) Delete(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("blacklist", "delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	entry, err := h.blacklist.SoftDelete(scope, id)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Blacklist entry deleted",
		zap.Uint("id", entry.ID),
		zap.Uint("tenant_id", entry.TenantID))
	return c.JSON(http.StatusOK, entry)
}

// Import bulk-creates blacklist entries as one atomic batch.
func (h *BlacklistHandler) Import(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("blacklist", "import")

	var req struct {
		Items []BlacklistRequest `json:"items"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no entries to import"})
	}

	entries := make([]*model.Blacklist, 0, len(req.Items))
	for i, item := range req.Items {
		if item.Phone == "" {
			return respondError(c, domain.Validationf("entry %d: phone is required", i+1))
		}
		entries = append(entries, &model.Blacklist{
			Phone:       item.Phone,
			Description: item.Description,
		})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.blacklist.BulkCreate(scope, entries); err != nil {
		log.Error("Blacklist import failed", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Blacklist entries imported",
		zap.Int("count", len(entries)),
		zap.Uint("tenant_id", scope.TenantID))
	return c.JSON(http.StatusCreated, entries)
}
