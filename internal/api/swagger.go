package api

import (
	"net/http"

	_ "crowdwatch-go/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (s *Server) setupSwagger() {
	s.router.GET("/api/info", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"title":       "Crowdwatch Backend API",
			"version":     s.cfg.Version,
			"description": "Crowd estimation and alert ingestion/distribution backend",
			"swagger_ui":  "/docs/index.html",
			"endpoints": gin.H{
				"health":    "/health",
				"metrics":   "/metrics",
				"alerts":    "/api/alerts",
				"estimates": "/api/estimates",
				"events":    "/api/events",
			},
			"service_name": s.cfg.ServiceName,
			"port":         s.cfg.Port,
		})
	})

	s.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	s.router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
}
