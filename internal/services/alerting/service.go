package alerting

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/metrics"
	"crowdwatch-go/internal/models"
)

// Broadcaster fans alerts out to live subscribers. Implementations are
// best-effort: failures must be handled internally, never returned.
type Broadcaster interface {
	BroadcastAlerts(alerts []models.Alert, batchStatus string, activeCount int)
}

// BusPublisher delivers alerts to the external communication bus.
// Delivery runs in the background relative to the ingest call.
type BusPublisher interface {
	PublishAlerts(alerts []models.Alert, groupLabels map[string]string)
}

// Service orchestrates the ingestion pipeline:
// normalize -> record -> broadcast -> publish (fire-and-forget).
type Service struct {
	store       *Store
	broadcaster Broadcaster
	publisher   BusPublisher
}

// NewService builds the alerting service. Broadcaster and publisher
// may be nil when their transports are unavailable; ingestion then
// degrades to record-only.
func NewService(cfg *config.Config, broadcaster Broadcaster, publisher BusPublisher) *Service {
	return &Service{
		store:       NewStore(cfg.AlertsMaxHistory),
		broadcaster: broadcaster,
		publisher:   publisher,
	}
}

// IngestMetricsBatch processes a metrics-alert batch webhook. Errors
// never escape to the transport layer; anything unexpected is reported
// in the result so webhook sources still get an acknowledgment.
func (s *Service) IngestMetricsBatch(payload models.MetricsBatchPayload) (result models.IngestResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("error", r).Msg("Metrics webhook processing failed")
			result = models.IngestResult{Error: fmt.Sprint(r)}
		}
	}()

	now := time.Now()
	log.Info().
		Int("alerts", len(payload.Alerts)).
		Str("status", payload.Status).
		Interface("group_labels", payload.GroupLabels).
		Msg("Processing metrics webhook")

	alerts := NormalizeMetricsBatch(payload, now)
	s.recordAll(alerts)
	s.distribute(alerts, payload.Status, payload.GroupLabels)

	return models.IngestResult{
		Success:   true,
		Processed: len(alerts),
		Alerts:    alerts,
	}
}

// IngestThresholdRule processes a single-rule threshold webhook
// through the same pipeline.
func (s *Service) IngestThresholdRule(payload models.ThresholdRulePayload) (result models.IngestResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("error", r).Msg("Threshold webhook processing failed")
			result = models.IngestResult{Error: fmt.Sprint(r)}
		}
	}()

	now := time.Now()
	log.Info().
		Str("rule", payload.RuleName).
		Str("title", payload.Title).
		Str("state", payload.State).
		Msg("Processing threshold webhook")

	alert := NormalizeThresholdRule(payload, now)
	alerts := []models.Alert{alert}
	s.recordAll(alerts)
	s.distribute(alerts, payload.State, nil)

	return models.IngestResult{
		Success:   true,
		Processed: 1,
		Alerts:    alerts,
	}
}

func (s *Service) recordAll(alerts []models.Alert) {
	for _, alert := range alerts {
		s.store.Record(alert)
		metrics.AlertsProcessed.WithLabelValues(string(alert.Status)).Inc()
		log.Info().
			Str("alert", alert.Name).
			Str("status", string(alert.Status)).
			Str("severity", alert.Severity).
			Msg("Alert processed")
	}
}

// distribute broadcasts to live subscribers, then hands the batch to
// the bus publisher. The publisher spawns its own goroutines; the
// ingest call does not wait for bus delivery.
func (s *Service) distribute(alerts []models.Alert, batchStatus string, groupLabels map[string]string) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastAlerts(alerts, batchStatus, s.store.ActiveCount())
	}
	if s.publisher != nil {
		s.publisher.PublishAlerts(alerts, groupLabels)
	}
}

// ActiveAlerts returns the current active-set.
func (s *Service) ActiveAlerts() []models.Alert {
	return s.store.Active()
}

// AlertHistory returns the most recent limit history entries.
func (s *Service) AlertHistory(limit int) []models.Alert {
	return s.store.History(limit)
}

// AlertStats summarizes active alerts and history size.
func (s *Service) AlertStats() models.AlertStats {
	return s.store.Stats()
}

// PruneOlderThan drops aged history entries and reports the count.
func (s *Service) PruneOlderThan(hours int) int {
	removed := s.store.PruneOlderThan(hours)
	if removed > 0 {
		log.Info().Int("removed", removed).Int("hours", hours).Msg("Old alerts pruned")
	}
	return removed
}
