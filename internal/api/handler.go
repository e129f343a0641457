package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"property-backoffice/config"
	"property-backoffice/internal/auth"
	"property-backoffice/internal/events"
	"property-backoffice/internal/model"
	"property-backoffice/internal/parse"
	"property-backoffice/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	events   events.Publisher
	sessions *auth.Sessions
	cfg      *config.Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, pub events.Publisher, sessions *auth.Sessions, cfg *config.Config, logger *zap.Logger) *Handler {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Handler{
		store:    s,
		events:   pub,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// fail maps store and billing errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// month reads a billing month from raw, defaulting to the current month.
func (h *Handler) month(raw string) (time.Time, error) {
	return parse.BillingMonth(raw, h.now())
}

// publish emits a billing event. Failures are logged and never reach the client.
func (h *Handler) publish(ctx context.Context, eventType string, r model.MeterReading) {
	if err := h.events.Publish(ctx, events.FromReading(eventType, r, h.now())); err != nil {
		h.logger.Warn("Failed to publish billing event",
			zap.String("type", eventType),
			zap.String("reading_id", r.ID),
			zap.Error(err),
		)
	}
}
