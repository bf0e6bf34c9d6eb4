package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crowdwatch-go/internal/api/handlers"
	"crowdwatch-go/internal/api/middleware"
)

func (s *Server) setupRoutes() {
	healthHandler := handlers.NewHealthHandler(s.cfg)
	alertsHandler := handlers.NewAlertsHandler(s.container.Alerting)
	var notifier handlers.EstimateNotifier
	if s.container.Broadcast != nil {
		notifier = s.container.Broadcast
	}
	estimatesHandler := handlers.NewEstimatesHandler(s.container.Store, s.container.Estimator, notifier)
	eventsHandler := handlers.NewEventsHandler(s.container.Store)

	s.router.GET("/", healthHandler.ServiceInfo)
	s.router.GET("/health", healthHandler.HealthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := s.router.Group("/api")

	alerts := apiGroup.Group("/alerts")
	{
		alerts.POST("/webhook", alertsHandler.Webhook)
		alerts.POST("/grafana-webhook", alertsHandler.GrafanaWebhook)
		alerts.GET("/active", alertsHandler.Active)
		alerts.GET("/history", alertsHandler.History)
		alerts.GET("/stats", alertsHandler.Stats)
		alerts.DELETE("/clear", alertsHandler.Clear)
	}

	estimates := apiGroup.Group("/estimates")
	{
		estimates.GET("/range", estimatesHandler.Range)
		estimates.GET("/:eventID", estimatesHandler.Get)

		authed := estimates.Group("", middleware.Auth(s.cfg.JWTSecret))
		authed.POST("/:eventID/calculate", estimatesHandler.Calculate)
		authed.POST("/:eventID/manual", estimatesHandler.Manual)
	}

	events := apiGroup.Group("/events")
	{
		events.POST("", eventsHandler.Create)
		events.GET("/:eventID", eventsHandler.Get)
		events.POST("/:eventID/checkin", middleware.Auth(s.cfg.JWTSecret), eventsHandler.Checkin)
		events.POST("/:eventID/checkout", middleware.Auth(s.cfg.JWTSecret), eventsHandler.Checkout)
	}
}
