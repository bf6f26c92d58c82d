// api/handlers/track_handlers.go
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"klyra/api/analytics"
	"klyra/api/models"
	"klyra/api/store"
)

type TrackHandlers struct {
	Analytics *store.AnalyticsStore
	Presence  *store.PresenceTracker
}

func NewTrackHandlers(analyticsStore *store.AnalyticsStore, presence *store.PresenceTracker) *TrackHandlers {
	return &TrackHandlers{Analytics: analyticsStore, Presence: presence}
}

// respondError maps the store's failure categories onto HTTP statuses.
// Store internals never reach the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("ERROR: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// UpdatePageViewCount records one page visit. Clients fire this on unload,
// best effort; the response is a plain ack.
func (h *TrackHandlers) UpdatePageViewCount(c *gin.Context) {
	var req models.PageVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Analytics.RecordPageVisit(ctx, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Page visit recorded"})
}

func (h *TrackHandlers) UpdateButtonClickAnalytics(c *gin.Context) {
	var req models.ClickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := h.Analytics.RecordClick(ctx, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Click recorded"})
}

// UserJourneyAnalytics records one navigation journey and echoes the
// storage index it was assigned.
func (h *TrackHandlers) UserJourneyAnalytics(c *gin.Context) {
	var req models.JourneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	index, err := h.Analytics.RecordJourney(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Journey recorded", "index": index})
}

func (h *TrackHandlers) DeviceInfoAnalytics(c *gin.Context) {
	var req models.DeviceInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	index, err := h.Analytics.RecordDeviceInfo(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Device info recorded", "index": index})
}

func (h *TrackHandlers) ActiveUserIncrement(c *gin.Context) {
	h.presenceCall(c, func(ctx context.Context, req models.PresenceRequest) error {
		return h.Presence.Increment(ctx, req.APIKey, req.TabID)
	})
}

func (h *TrackHandlers) ActiveUserHeartbeat(c *gin.Context) {
	h.presenceCall(c, func(ctx context.Context, req models.PresenceRequest) error {
		return h.Presence.Heartbeat(ctx, req.APIKey, req.TabID, req.Timestamp)
	})
}

func (h *TrackHandlers) ActiveUserDecrement(c *gin.Context) {
	h.presenceCall(c, func(ctx context.Context, req models.PresenceRequest) error {
		return h.Presence.Decrement(ctx, req.APIKey, req.TabID)
	})
}

func (h *TrackHandlers) presenceCall(c *gin.Context, op func(ctx context.Context, req models.PresenceRequest) error) {
	var req models.PresenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	if err := op(ctx, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// GetRawAnalytics returns the complete stored dataset for a tenant.
func (h *TrackHandlers) GetRawAnalytics(c *gin.Context) {
	apiKey := c.Query("apikey")
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apikey query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	raw, err := h.Analytics.LoadRaw(ctx, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raw)
}

// GetAnalysisReport loads the tenant's full dataset and computes the
// derived report on demand. Analyzer sections are total over their inputs;
// a failure here means tenant resolution or the bulk read failed.
func (h *TrackHandlers) GetAnalysisReport(c *gin.Context) {
	apiKey := c.Query("apikey")
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apikey query parameter is required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	raw, err := h.Analytics.LoadRaw(ctx, apiKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analytics.BuildReport(raw, time.Now()))
}
