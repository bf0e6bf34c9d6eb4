package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"crowdwatch-go/internal/api/middleware"
	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/services"
)

// Server is the HTTP front of the backend: webhook ingestion, alert
// queries and the estimate surface.
type Server struct {
	cfg       *config.Config
	container *services.ServiceContainer
	router    *gin.Engine
	server    *http.Server
}

func NewServer(cfg *config.Config, container *services.ServiceContainer) (*Server, error) {
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:       cfg,
		container: container,
		router:    gin.New(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	s.setupSwagger()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.router,
	}

	return s, nil
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger())
	s.router.Use(middleware.CORS())
}

func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
