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

// TitleHandler serves the tenant's registered SMS sender titles.
type TitleHandler struct {
	titles *repository.Repository[model.SmsTitle, *model.SmsTitle]
}

// NewTitleHandler wires the sender title endpoints.
func NewTitleHandler(db *gorm.DB) *TitleHandler {
	return &TitleHandler{
		titles: repository.New[model.SmsTitle](db, "created_at DESC"),
	}
}

// List returns the tenant's active sender titles, newest first.
func (h *TitleHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("title", "list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	titles, err := h.titles.List(scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, titles)
}

// Create registers a sender title. Alphanumeric titles are limited to 11
// characters by the GSM spec.
func (h *TitleHandler) Create(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("title", "create")

	var req struct {
		Title     string `json:"title"`
		TitleType string `json:"title_type"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if len(req.Title) > model.MaxTitleLength {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title must be at most 11 characters"})
	}
	if req.TitleType == "" {
		req.TitleType = model.TitleTypeAlphanumeric
	}
	if !model.ValidTitleType(req.TitleType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title_type must be ALPHANUMERIC or NUMERIC"})
	}

	title := model.SmsTitle{Title: req.Title, TitleType: req.TitleType}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.titles.Create(scope, &title); err != nil {
		log.Error("Failed to create sender title", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Sender title created",
		zap.Uint("id", title.ID),
		zap.String("title", title.Title),
		zap.Uint("tenant_id", title.TenantID))
	return c.JSON(http.StatusCreated, title)
}

// Delete soft-deletes a sender title after the ownership check.
func (h *TitleHandler) Delete(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("title", "delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	title, err := h.titles.SoftDelete(scope, id)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Sender title deleted",
		zap.Uint("id", title.ID),
		zap.Uint("tenant_id", title.TenantID))
	return c.JSON(http.StatusOK, title)
}
