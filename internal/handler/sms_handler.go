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

// SmsHandler queues outgoing messages and serves the delivery report. There
// is no transport behind it; messages only ever reach the PENDING state.
type SmsHandler struct {
	titles    *repository.Repository[model.SmsTitle, *model.SmsTitle]
	blacklist *repository.Repository[model.Blacklist, *model.Blacklist]
	messages  *repository.Repository[model.SmsMessage, *model.SmsMessage]
}

// NewSmsHandler wires the SMS endpoints.
func NewSmsHandler(db *gorm.DB) *SmsHandler {
	return &SmsHandler{
		titles:    repository.New[model.SmsTitle](db, "created_at DESC"),
		blacklist: repository.New[model.Blacklist](db, "created_at DESC"),
		messages:  repository.New[model.SmsMessage](db, "created_at DESC"),
	}
}

// Send queues one message per recipient under the tenant's sender title.
// Blacklisted recipients are dropped before queueing.
func (h *SmsHandler) Send(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	log := logger.FromEcho(c)
	prometheus.RecordResourceOperation("sms", "send")

	var req struct {
		TitleID    uint     `json:"title_id"`
		Recipients []string `json:"recipients"`
		Message    string   `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.TitleID == 0 || req.Message == "" || len(req.Recipients) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title_id, message and recipients are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	// Ownership check: a title of another tenant looks absent.
	title, err := h.titles.Find(scope, req.TitleID)
	if err != nil {
		return respondError(c, err)
	}
	if !title.IsActive {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "sender title is not active"})
	}

	blocked, err := h.blacklist.ListWhere(scope, "phone IN ?", req.Recipients)
	if err != nil {
		return respondError(c, err)
	}
	blockedSet := make(map[string]bool, len(blocked))
	for _, b := range blocked {
		blockedSet[b.Phone] = true
	}

	var queued []*model.SmsMessage
	skipped := 0
	for _, phone := range req.Recipients {
		if phone == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty recipient number"})
		}
		if blockedSet[phone] {
			skipped++
			continue
		}
		queued = append(queued, &model.SmsMessage{
			TitleID: title.ID,
			Phone:   phone,
			Body:    req.Message,
			Status:  model.SmsStatusPending,
			Cost:    1,
		})
	}

	if len(queued) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all recipients are blacklisted"})
	}

	if err := h.messages.BulkCreate(scope, queued); err != nil {
		log.Error("Failed to queue messages", zap.Error(err))
		return respondError(c, err)
	}
	prometheus.SmsQueuedCounter.Add(float64(len(queued)))

	log.Info("SMS queued",
		zap.Int("queued", len(queued)),
		zap.Int("skipped", skipped),
		zap.Uint("title_id", title.ID),
		zap.Uint("tenant_id", scope.TenantID))

	return c.JSON(http.StatusCreated, echo.Map{
		"queued":  len(queued),
		"skipped": skipped,
	})
}

// Report lists the tenant's queued messages, newest first.
func (h *SmsHandler) Report(c echo.Context) error {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		return unauthorized(c)
	}
	prometheus.RecordResourceOperation("sms", "report")
	defer prometheus.TrackDBOperation("query")(time.Now())

	messages, err := h.messages.List(scope)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, messages)
}
