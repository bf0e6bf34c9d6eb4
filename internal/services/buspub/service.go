package buspub

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/metrics"
	"crowdwatch-go/internal/models"
)

const publishPath = "/communication/publish"

// Fallback candidates after the configured endpoint: the container
// host-gateway first, then localhost.
var fallbackCandidates = []string{
	"http://172.17.0.1:8503",
	"http://127.0.0.1:8503",
}

// Service delivers alerts to the external communication bus. Delivery
// is best-effort fire-and-forget: candidates are tried in order with a
// bounded timeout each, and exhaustion only produces a warning. There
// is no dead-letter queue; alerts remain queryable from the alert
// store either way.
type Service struct {
	cfg        *config.Config
	client     *http.Client
	candidates []string
}

func NewService(cfg *config.Config) *Service {
	candidates := make([]string, 0, len(fallbackCandidates)+1)
	if configured := strings.TrimSpace(cfg.BusURL); configured != "" {
		candidates = append(candidates, configured)
	}
	candidates = append(candidates, fallbackCandidates...)

	return &Service{
		cfg:        cfg,
		client:     &http.Client{Timeout: cfg.BusPublishTimeout},
		candidates: candidates,
	}
}

// Result reports the outcome of a single alert's publish attempt.
type Result struct {
	Published bool
	Candidate string
}

// PublishAlerts spawns one background delivery per alert and returns
// immediately. Outcomes are never awaited by the caller; a failed
// publish for one alert cannot block or cancel the others.
func (s *Service) PublishAlerts(alerts []models.Alert, groupLabels map[string]string) {
	for _, alert := range alerts {
		go s.publishOne(alert, groupLabels)
	}
}

func (s *Service) publishOne(alert models.Alert, groupLabels map[string]string) Result {
	message := models.BusMessage{
		MessageType: "ALERT",
		Source:      s.cfg.ServiceName,
		Target:      "monitoring",
		Content:     fmt.Sprintf("[%s] %s", strings.ToUpper(alert.Severity), alert.Summary),
		Metadata: map[string]interface{}{
			"alert_name":   alert.Name,
			"severity":     alert.Severity,
			"instance":     alert.Instance,
			"status":       alert.Status,
			"description":  alert.Description,
			"group_labels": groupLabels,
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Str("alert", alert.Name).Msg("Failed to encode bus message")
		return Result{}
	}

	for _, candidate := range s.candidates {
		if err := s.post(candidate, body); err != nil {
			log.Debug().
				Str("candidate", candidate).
				Err(err).
				Msg("Bus publish failed, trying next candidate")
			continue
		}

		metrics.AlertsPublished.WithLabelValues(alert.Severity, candidate).Inc()
		log.Info().
			Str("alert", alert.Name).
			Str("via", candidate).
			Msg("Alert published to bus")
		return Result{Published: true, Candidate: candidate}
	}

	log.Warn().Str("alert", alert.Name).Msg("Could not publish alert to any bus candidate")
	return Result{}
}

func (s *Service) post(base string, body []byte) error {
	resp, err := s.client.Post(base+publishPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("bus returned status %d", resp.StatusCode)
	}
	return nil
}
