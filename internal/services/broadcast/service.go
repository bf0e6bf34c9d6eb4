package broadcast

import (
	"time"

	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

// Service fans canonical alerts and estimate updates out to live
// subscribers. Dashboards are not mission-critical consumers, so every
// transport failure is logged and swallowed here.
type Service struct {
	cfg       *config.Config
	publisher models.MessagePublisher
}

func NewService(cfg *config.Config, publisher models.MessagePublisher) *Service {
	return &Service{
		cfg:       cfg,
		publisher: publisher,
	}
}

// BroadcastAlerts emits one batch envelope to all subscribers, plus a
// dedicated event per critical or warning alert.
func (s *Service) BroadcastAlerts(alerts []models.Alert, batchStatus string, activeCount int) {
	update := models.AlertsUpdate{
		Status:      batchStatus,
		Alerts:      alerts,
		ActiveCount: activeCount,
		Timestamp:   time.Now().UTC(),
	}

	if err := s.publisher.Publish(s.cfg.AlertsUpdateSubject, update); err != nil {
		log.Error().Err(err).Msg("Failed to broadcast alerts update")
	}

	for _, alert := range alerts {
		var subject string
		switch alert.Severity {
		case models.SeverityCritical:
			subject = s.cfg.AlertCriticalSubject
		case models.SeverityWarning:
			subject = s.cfg.AlertWarningSubject
		default:
			continue
		}

		if err := s.publisher.Publish(subject, alert); err != nil {
			log.Error().
				Err(err).
				Str("alert", alert.Name).
				Str("severity", alert.Severity).
				Msg("Failed to broadcast severity alert")
		}
	}

	log.Debug().Int("count", len(alerts)).Msg("Alerts broadcasted to subscribers")
}

// BroadcastEstimate notifies subscribers that an event's attendance
// estimate changed.
func (s *Service) BroadcastEstimate(eventID string, estimate *models.CrowdEstimate) {
	payload := map[string]interface{}{
		"eventId":            eventID,
		"estimatedAttendees": estimate.EstimatedCount,
		"method":             estimate.Method,
		"confidence":         estimate.Confidence,
	}

	if err := s.publisher.Publish(s.cfg.EstimateUpdateSubject, payload); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to broadcast estimate update")
	}
}
