package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-go/internal/config"
)

type HealthHandler struct {
	cfg *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{cfg: cfg}
}

type HealthResponse struct {
	Status  string `json:"status" example:"healthy"`
	Service string `json:"service" example:"crowdwatch-backend"`
}

type ServiceInfoResponse struct {
	Service      string   `json:"service" example:"crowdwatch-backend"`
	Status       string   `json:"status" example:"running"`
	Version      string   `json:"version" example:"1.0.0"`
	Capabilities []string `json:"capabilities"`
}

// @Summary Health check
// @Description Check if the backend is healthy and responsive
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.cfg.ServiceName,
	})
}

// @Summary Service information
// @Description Basic service information and capabilities
// @Tags health
// @Produce json
// @Success 200 {object} ServiceInfoResponse
// @Router / [get]
func (h *HealthHandler) ServiceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, ServiceInfoResponse{
		Service: h.cfg.ServiceName,
		Status:  "running",
		Version: h.cfg.Version,
		Capabilities: []string{
			"crowd_estimation",
			"alert_ingestion",
			"alert_distribution",
		},
	})
}
