package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"crowdwatch-go/internal/models"
)

// NormalizeMetricsBatch maps every item of a metrics-alert batch to a
// canonical alert. Malformed items are never rejected; missing fields
// get safe defaults because dropping an alert is worse than
// mis-labeling it.
func NormalizeMetricsBatch(payload models.MetricsBatchPayload, now time.Time) []models.Alert {
	alerts := make([]models.Alert, 0, len(payload.Alerts))
	for _, item := range payload.Alerts {
		alerts = append(alerts, canonicalize(item, payload.GroupLabels, now))
	}
	return alerts
}

// NormalizeThresholdRule derives exactly one canonical alert from a
// single-rule threshold evaluation. The rule payload is reshaped into
// a batch item so both source kinds share one canonicalization path.
func NormalizeThresholdRule(payload models.ThresholdRulePayload, now time.Time) models.Alert {
	state := payload.State
	if state == "" {
		// Some senders omit state entirely; a non-empty match list is
		// the only remaining signal that the rule is firing.
		if len(payload.EvalMatches) > 0 {
			state = "alerting"
		} else {
			state = "ok"
		}
	}

	name := payload.RuleName
	if name == "" {
		name = payload.Title
	}
	if name == "" {
		name = "grafana_alert"
	}

	summary := payload.Title
	if summary == "" {
		summary = payload.RuleName
	}

	instance := "grafana"
	if len(payload.EvalMatches) > 0 {
		if v := payload.EvalMatches[0].Tags["instance"]; v != "" {
			instance = v
		}
	}

	labels := make(map[string]string, len(payload.Tags)+2)
	for k, v := range payload.Tags {
		labels[k] = v
	}
	labels["alertname"] = name
	labels["instance"] = instance

	status := string(models.AlertStatusResolved)
	if state == "alerting" {
		status = string(models.AlertStatusFiring)
	}

	item := models.MetricsBatchItem{
		Status: status,
		Labels: labels,
		Annotations: map[string]string{
			"summary":     summary,
			"description": payload.Message,
		},
		StartsAt: now.UTC().Format(time.RFC3339),
	}

	return canonicalize(item, nil, now)
}

// canonicalize shapes one alert item into the canonical record shared
// by both webhook kinds.
func canonicalize(item models.MetricsBatchItem, groupLabels map[string]string, now time.Time) models.Alert {
	name := item.Labels["alertname"]
	if name == "" {
		name = "Unknown"
	}

	severity := item.Labels["severity"]
	if severity == "" {
		severity = models.SeverityUnknown
	}

	instance := item.Labels["instance"]
	if instance == "" {
		instance = "unknown"
	}

	summary := item.Annotations["summary"]
	if summary == "" {
		summary = name
	}

	return models.Alert{
		ID:          newAlertID(name, now),
		Name:        name,
		Status:      models.AlertStatus(item.Status),
		Severity:    severity,
		Instance:    instance,
		Summary:     summary,
		Description: item.Annotations["description"],
		StartsAt:    item.StartsAt,
		EndsAt:      item.EndsAt,
		Labels:      item.Labels,
		GroupLabels: groupLabels,
		Timestamp:   now,
	}
}

// newAlertID builds a best-effort unique ID. Collision resistance only
// has to cover a bounded in-memory history.
func newAlertID(name string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%s_%s", name, now.UTC().Format(time.RFC3339), suffix)
}
