package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/models"
	"crowdwatch-go/internal/store"
)

// EventsHandler is thin data-access glue over the event store; the
// interesting logic lives in the estimation and alerting services.
type EventsHandler struct {
	store *store.Store
}

func NewEventsHandler(st *store.Store) *EventsHandler {
	return &EventsHandler{store: st}
}

type createEventRequest struct {
	Name             string  `json:"name" binding:"required"`
	AreaSquareMeters float64 `json:"areaSquareMeters"`
}

// Create registers a new event
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Param request body createEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} map[string]interface{}
// @Router /api/events [post]
func (h *EventsHandler) Create(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := &models.Event{
		Name:             req.Name,
		AreaSquareMeters: req.AreaSquareMeters,
	}
	if err := h.store.CreateEvent(c.Request.Context(), event); err != nil {
		log.Error().Err(err).Msg("Failed to create event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create event"})
		return
	}

	c.JSON(http.StatusCreated, event)
}

// Get loads one event
// @Summary Get event
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} models.Event
// @Failure 404 {object} map[string]interface{}
// @Router /api/events/{eventID} [get]
func (h *EventsHandler) Get(c *gin.Context) {
	event, err := h.store.GetEvent(c.Request.Context(), c.Param("eventID"))
	if errors.Is(err, store.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	c.JSON(http.StatusOK, event)
}

// Checkin confirms the caller's presence at an event
// @Summary Check in
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} models.Checkin
// @Router /api/events/{eventID}/checkin [post]
func (h *EventsHandler) Checkin(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	checkin, err := h.store.Checkin(c.Request.Context(), c.Param("eventID"), userID)
	if err != nil {
		log.Error().Err(err).Str("event_id", c.Param("eventID")).Msg("Check-in failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-in failed"})
		return
	}

	c.JSON(http.StatusOK, checkin)
}

// Checkout withdraws the caller's presence confirmation
// @Summary Check out
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/events/{eventID}/checkout [post]
func (h *EventsHandler) Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.store.Checkout(c.Request.Context(), c.Param("eventID"), userID); err != nil {
		log.Error().Err(err).Str("event_id", c.Param("eventID")).Msg("Check-out failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-out failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "checked_out"})
}
