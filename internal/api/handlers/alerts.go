package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/models"
	"crowdwatch-go/internal/services/alerting"
)

type AlertsHandler struct {
	alerting *alerting.Service
}

func NewAlertsHandler(alertingSvc *alerting.Service) *AlertsHandler {
	return &AlertsHandler{
		alerting: alertingSvc,
	}
}

// Webhook ingests a metrics-alert batch webhook
// @Summary Ingest metrics-alert batch
// @Description Accepts a batch webhook from metrics-based monitoring and distributes the alerts
// @Tags alerts
// @Accept json
// @Produce json
// @Param payload body models.MetricsBatchPayload true "Webhook payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/alerts/webhook [post]
func (h *AlertsHandler) Webhook(c *gin.Context) {
	var payload models.MetricsBatchPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Error().Err(err).Msg("Invalid metrics webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.alerting.IngestMetricsBatch(payload)

	// Always acknowledge with 200: monitoring sources back off their
	// delivery schedule on failures, and a retry storm is worse than a
	// mis-processed alert.
	c.JSON(http.StatusOK, gin.H{
		"status":    "received",
		"processed": result.Processed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GrafanaWebhook ingests a single threshold-rule webhook
// @Summary Ingest threshold-rule alert
// @Description Accepts a single-rule threshold webhook and distributes the derived alert
// @Tags alerts
// @Accept json
// @Produce json
// @Param payload body models.ThresholdRulePayload true "Webhook payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/alerts/grafana-webhook [post]
func (h *AlertsHandler) GrafanaWebhook(c *gin.Context) {
	var payload models.ThresholdRulePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Error().Err(err).Msg("Invalid threshold webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.alerting.IngestThresholdRule(payload)

	c.JSON(http.StatusOK, gin.H{
		"status":    "received",
		"processed": result.Processed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Active lists currently firing alerts
// @Summary List active alerts
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/alerts/active [get]
func (h *AlertsHandler) Active(c *gin.Context) {
	active := h.alerting.ActiveAlerts()

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"alerts":    active,
		"count":     len(active),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// History lists the most recent processed alerts
// @Summary List alert history
// @Tags alerts
// @Produce json
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} map[string]interface{}
// @Router /api/alerts/history [get]
func (h *AlertsHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	history := h.alerting.AlertHistory(limit)

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"alerts":    history,
		"count":     len(history),
		"limit":     limit,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Stats summarizes the alert state
// @Summary Alert statistics
// @Tags alerts
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/alerts/stats [get]
func (h *AlertsHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"stats":     h.alerting.AlertStats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Clear prunes aged history entries
// @Summary Prune old alerts
// @Tags alerts
// @Produce json
// @Param hours query int false "Age threshold in hours" default(24)
// @Success 200 {object} map[string]interface{}
// @Router /api/alerts/clear [delete]
func (h *AlertsHandler) Clear(c *gin.Context) {
	hours, err := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if err != nil || hours <= 0 {
		hours = 24
	}

	removed := h.alerting.PruneOlderThan(hours)

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"removed":   removed,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
