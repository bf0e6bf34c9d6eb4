package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/api"
	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/logging"
	"crowdwatch-go/internal/services"
)

func main() {
	// Setup structured logging
	zerolog.TimeFieldFormat = time.RFC3339
	console := zerolog.ConsoleWriter{Out: os.Stderr}
	log.Logger = log.Output(console)

	// Load configuration
	cfg := config.Load()

	// Optionally tee logs into the embedded Logdy web viewer
	if cfg.LogdyEnabled {
		if writer, _, err := logging.StartLogdy(cfg); err == nil {
			log.Logger = log.Output(zerolog.MultiLevelWriter(console, writer))
		} else {
			log.Warn().Err(err).Msg("Failed to start Logdy, console logging only")
		}
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("service", cfg.ServiceName).
		Str("version", cfg.Version).
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Msg("Starting crowdwatch backend")

	// Wire services
	container, err := services.NewServiceContainer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}

	// Create and start server
	server, err := api.NewServer(cfg, container)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	container.Scheduler.Start()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutdown signal received")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := container.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Service shutdown error")
	} else {
		log.Info().Msg("Shutdown complete")
	}
}
