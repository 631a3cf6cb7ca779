package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"smspanel/internal/middleware"
	"smspanel/internal/model"
	"smspanel/internal/repository"
	"smspanel/pkg/logger"
	"smspanel/prometheus"
)

// GroupHandler serves the tenant's contact groups.
type GroupHandler struct {
	groups *repository.GroupRepository
}

// NewGroupHandler wires the group endpoints.
func NewGroupHandler(db *gorm.DB) *GroupHandler {
	return &GroupHandler{groups: repository.NewGroups(db)}
}

// GroupRequest carries the writable group fields.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

// List returns the tenant's active groups by name, each with its active
// contact count.
func (h *GroupHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("group", "list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	groups, err := h.groups.ListWithCounts(scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}

// Create adds a group for the tenant.
func (h *GroupHandler) Create(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("group", "create")

	var req GroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	group := model.Group{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.groups.Create(scope, &group); err != nil {
		log.Error("Failed to create group", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Group created",
		zap.Uint("id", group.ID),
		zap.String("name", group.Name),
		zap.Uint("tenant_id", group.TenantID))
	return c.JSON(http.StatusCreated, group)
}

// Update patches a group after the ownership check.
func (h *GroupHandler) Update(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("group", "update")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req GroupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{
		"description": req.Description,
		"color":       req.Color,
	}
	if req.Name != "" {
		updates["name"] = req.Name
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	group, err := h.groups.Update(scope, id, updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, group)
}

// Delete soft-deletes a group after the ownership check. Contacts linked to
// the group stay untouched.
func (h *GroupHandler) Delete(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("group", "delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	group, err := h.groups.SoftDelete(scope, id)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Group deleted",
		zap.Uint("id", group.ID),
		zap.Uint("tenant_id", group.TenantID))
	return c.JSON(http.StatusOK, group)
}
