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

// ContactHandler serves the tenant's phone book.
type ContactHandler struct {
	contacts *repository.ContactRepository
}

// NewContactHandler wires the contact endpoints.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{contacts: repository.NewContacts(db)}
}

// ContactRequest carries the writable contact fields. Any tenant id in the
// payload is ignored; ownership always comes from the token.
type ContactRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Notes      string `json:"notes"`
}

// List returns the tenant's active contacts, newest first.
func (h *ContactHandler) List(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("contact", "list")
	defer prometheus.TrackDBOperation("query")(time.Now())

	contacts, err := h.contacts.List(scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Create adds a contact to the tenant's phone book.
func (h *ContactHandler) Create(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("contact", "create")

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Phone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "phone is required"})
	}

	contact := model.Contact{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Email:      req.Email,
		Department: req.Department,
		Title:      req.Title,
		Notes:      req.Notes,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.contacts.Create(scope, &contact); err != nil {
		log.Error("Failed to create contact", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Contact created",
		zap.Uint("id", contact.ID),
		zap.Uint("tenant_id", contact.TenantID))
	return c.JSON(http.StatusCreated, contact)
}

// Update patches a contact after the ownership check.
func (h *ContactHandler) Update(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("contact", "update")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"email":      req.Email,
		"department": req.Department,
		"title":      req.Title,
		"notes":      req.Notes,
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	contact, err := h.contacts.Update(scope, id, updates)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, contact)
}

// Delete soft-deletes a contact after the ownership check.
func (h *ContactHandler) Delete(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("contact", "delete")

	id, err := pathID(c)
	if err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	contact, err := h.contacts.SoftDelete(scope, id)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("Contact deleted",
		zap.Uint("id", contact.ID),
		zap.Uint("tenant_id", contact.TenantID))
	return c.JSON(http.StatusOK, contact)
}

// Import bulk-creates contacts from the spreadsheet wizard as one atomic
// batch.
func (h *ContactHandler) Import(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("contact", "import")

	var req struct {
		Contacts []repository.ContactImportItem `json:"contacts"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	created, err := h.contacts.Import(scope, req.Contacts)
	if err != nil {
		log.Warn("Contact import failed", zap.Error(err), zap.Int("items", len(req.Contacts)))
		return respondError(c, err)
	}

	log.Info("Contacts imported",
		zap.Int("count", len(created)),
		zap.Uint("tenant_id", scope.TenantID))
	return c.JSON(http.StatusCreated, created)
}
