package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Application
	Version     string
	Environment string
	ServiceName string
	Port        int
	LogLevel    string

	// Logdy (lightweight web log viewer)
	LogdyEnabled bool
	LogdyHost    string
	LogdyPort    int

	// Database (events, check-ins, crowd estimates)
	DatabaseDSN string

	// NATS (live-update transport for dashboards)
	// Default: nats://localhost:4222 (works with Docker Compose setup)
	NatsURL            string
	NatsConnectTimeout time.Duration
	NatsReconnectWait  time.Duration
	NatsMaxReconnects  int

	// Broadcast subjects
	AlertsUpdateSubject   string
	AlertCriticalSubject  string
	AlertWarningSubject   string
	EstimateUpdateSubject string

	// External communication bus (best-effort, fire-and-forget)
	BusURL            string
	BusPublishTimeout time.Duration

	// Alerting
	AlertsMaxHistory    int
	AlertRetentionHours int
	PruneSchedule       string

	// Crowd density coefficients (persons per square meter)
	DensityLow      float64
	DensityMedium   float64
	DensityHigh     float64
	DensityVeryHigh float64

	// Auth
	JWTSecret string

	// Graceful Shutdown
	ShutdownTimeout time.Duration
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file found or error loading .env file, using environment variables and defaults")
	} else {
		log.Info().Msg("Loaded configuration from .env file")
	}

	return &Config{
		// Application
		Version:     getEnv("VERSION", "1.0.0"),
		Environment: getEnv("ENVIRONMENT", "development"),
		ServiceName: getEnv("SERVICE_NAME", "crowdwatch-backend"),
		Port:        getEnvInt("PORT", 8500),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Logdy (lightweight web log viewer)
		LogdyEnabled: getEnvBool("LOGDY_ENABLED", false),
		LogdyHost:    getEnv("LOGDY_HOST", "localhost"),
		LogdyPort:    getEnvInt("LOGDY_PORT", 8080),

		// Database
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=crowdwatch password=crowdwatch dbname=crowdwatch port=5432 sslmode=disable"),

		// NATS
		NatsURL:            getNatsURL(),
		NatsConnectTimeout: getEnvDuration("NATS_CONNECT_TIMEOUT", 10*time.Second),
		NatsReconnectWait:  getEnvDuration("NATS_RECONNECT_WAIT", 2*time.Second),
		NatsMaxReconnects:  getEnvInt("NATS_MAX_RECONNECTS", -1), // -1 = unlimited

		// Broadcast subjects
		AlertsUpdateSubject:   getEnv("ALERTS_UPDATE_SUBJECT", "alerts.updated"),
		AlertCriticalSubject:  getEnv("ALERT_CRITICAL_SUBJECT", "alerts.critical"),
		AlertWarningSubject:   getEnv("ALERT_WARNING_SUBJECT", "alerts.warning"),
		EstimateUpdateSubject: getEnv("ESTIMATE_UPDATE_SUBJECT", "estimates.updated"),

		// Communication bus
		BusURL:            getEnv("AGENT_BUS_URL", ""),
		BusPublishTimeout: getEnvDuration("BUS_PUBLISH_TIMEOUT", 3*time.Second),

		// Alerting
		AlertsMaxHistory:    getEnvInt("ALERTS_MAX_HISTORY", 100),
		AlertRetentionHours: getEnvInt("ALERT_RETENTION_HOURS", 24),
		PruneSchedule:       getEnv("ALERT_PRUNE_SCHEDULE", "@hourly"),

		// Crowd density coefficients
		DensityLow:      getEnvFloat("CROWD_DENSITY_LOW", 0.5),
		DensityMedium:   getEnvFloat("CROWD_DENSITY_MEDIUM", 1.5),
		DensityHigh:     getEnvFloat("CROWD_DENSITY_HIGH", 3.0),
		DensityVeryHigh: getEnvFloat("CROWD_DENSITY_VERY_HIGH", 5.0),

		// Auth
		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		// Graceful Shutdown
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Helper functions for Docker environment detection
func isRunningInDocker() bool {
	if os.Getenv("DOCKER_CONTAINER") == "true" {
		return true
	}

	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}

	return false
}

// getNatsURL returns the appropriate NATS URL based on environment
func getNatsURL() string {
	if envURL := os.Getenv("NATS_URL"); envURL != "" {
		return envURL
	}

	// If running in Docker, use service name; otherwise use localhost
	if isRunningInDocker() {
		return "nats://nats:4222"
	}

	return "nats://localhost:4222"
}
