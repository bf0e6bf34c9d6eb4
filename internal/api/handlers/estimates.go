package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/crowd"
	"crowdwatch-go/internal/models"
	"crowdwatch-go/internal/store"
)

// EstimateNotifier pushes estimate updates to live subscribers. May be
// nil when the transport is unavailable.
type EstimateNotifier interface {
	BroadcastEstimate(eventID string, estimate *models.CrowdEstimate)
}

type EstimatesHandler struct {
	store     *store.Store
	estimator *crowd.Estimator
	notifier  EstimateNotifier
}

func NewEstimatesHandler(st *store.Store, estimator *crowd.Estimator, notifier EstimateNotifier) *EstimatesHandler {
	return &EstimatesHandler{
		store:     st,
		estimator: estimator,
		notifier:  notifier,
	}
}

type calculateRequest struct {
	AreaSquareMeters float64            `json:"areaSquareMeters"`
	DensityTier      models.DensityTier `json:"densityTier"`
	CustomMultiplier int                `json:"customMultiplier"`
}

type manualEstimateRequest struct {
	EstimatedCount int    `json:"estimatedCount"`
	Notes          string `json:"notes"`
}

// Get returns the current estimate state for an event
// @Summary Get event estimates
// @Description Current cached estimate, confirmed check-ins and recent estimate history
// @Tags estimates
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/estimates/{eventID} [get]
func (h *EstimatesHandler) Get(c *gin.Context) {
	eventID := c.Param("eventID")

	event, err := h.store.GetEvent(c.Request.Context(), eventID)
	if errors.Is(err, store.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to load event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	estimates, err := h.store.ListEstimates(c.Request.Context(), eventID, 20)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to load estimates")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load estimates"})
		return
	}

	activeCheckins, err := h.store.CountActiveCheckins(c.Request.Context(), eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to count check-ins")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count check-ins"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"currentEstimate":   event.EstimatedAttendees,
		"confirmedCheckins": activeCheckins,
		"history":           estimates,
	})
}

// Calculate forces a fresh estimate for an event
// @Summary Recalculate event estimate
// @Description Recomputes the attendance estimate, optionally updating the event area first
// @Tags estimates
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param request body calculateRequest true "Calculation options"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/estimates/{eventID}/calculate [post]
func (h *EstimatesHandler) Calculate(c *gin.Context) {
	eventID := c.Param("eventID")

	var req calculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.store.GetEvent(c.Request.Context(), eventID)
	if errors.Is(err, store.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to load event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	if req.AreaSquareMeters > 0 {
		if err := h.store.UpdateEventArea(c.Request.Context(), eventID, req.AreaSquareMeters); err != nil {
			log.Error().Err(err).Str("event_id", eventID).Msg("Failed to update event area")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event area"})
			return
		}
		event.AreaSquareMeters = req.AreaSquareMeters
	}

	estimate, err := h.estimator.Estimate(c.Request.Context(), event, crowd.Options{
		Tier:             req.DensityTier,
		CustomMultiplier: req.CustomMultiplier,
	})
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Estimation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "estimation failed"})
		return
	}

	if h.notifier != nil {
		h.notifier.BroadcastEstimate(eventID, estimate)
	}

	c.JSON(http.StatusOK, gin.H{"estimate": estimate})
}

// Manual records a verifier-supplied estimate
// @Summary Record manual estimate
// @Description Stores a manually observed attendance figure for an event
// @Tags estimates
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param request body manualEstimateRequest true "Manual estimate"
// @Security BearerAuth
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/estimates/{eventID}/manual [post]
func (h *EstimatesHandler) Manual(c *gin.Context) {
	eventID := c.Param("eventID")

	var req manualEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EstimatedCount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid estimate"})
		return
	}

	event, err := h.store.GetEvent(c.Request.Context(), eventID)
	if errors.Is(err, store.ErrEventNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to load event")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	estimate := &models.CrowdEstimate{
		EventID:        event.ID,
		Method:         models.MethodManual,
		EstimatedCount: req.EstimatedCount,
		Confidence:     0.7,
		Notes:          req.Notes,
	}
	if err := h.store.CreateEstimate(c.Request.Context(), estimate); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to store manual estimate")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store estimate"})
		return
	}

	if err := h.store.UpdateEstimatedAttendees(c.Request.Context(), event.ID, req.EstimatedCount); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to update cached attendees")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
		return
	}

	if h.notifier != nil {
		h.notifier.BroadcastEstimate(eventID, estimate)
	}

	c.JSON(http.StatusCreated, gin.H{"estimate": estimate})
}

// Range runs the pure density calculation without persistence
// @Summary Compute density range
// @Description Pure area-by-density calculation, no event or persistence involved
// @Tags estimates
// @Produce json
// @Param area query number true "Area in square meters"
// @Param tier query string false "Density tier" default(medium)
// @Success 200 {object} crowd.Range
// @Failure 400 {object} map[string]interface{}
// @Router /api/estimates/range [get]
func (h *EstimatesHandler) Range(c *gin.Context) {
	area, err := strconv.ParseFloat(c.Query("area"), 64)
	if err != nil || area < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid area"})
		return
	}

	tier := models.DensityTier(c.DefaultQuery("tier", string(models.DensityMedium)))

	c.JSON(http.StatusOK, h.estimator.ComputeRange(area, tier))
}
