package models

import (
	"time"
)

// AlertStatus represents the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusFiring   AlertStatus = "firing"
	AlertStatusResolved AlertStatus = "resolved"
)

// Severity is a free-form string coming from the monitoring source.
// These are the values the dashboards treat specially; anything else
// passes through unchanged.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityUnknown  = "unknown"
)

// Alert is the canonical, source-agnostic alert record produced by
// normalization. The active-set is keyed by Name; ID only has to be
// unique enough for a bounded in-memory history.
type Alert struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Status      AlertStatus       `json:"status"`
	Severity    string            `json:"severity"`
	Instance    string            `json:"instance"`
	Summary     string            `json:"summary"`
	Description string            `json:"description"`
	StartsAt    string            `json:"startsAt,omitempty"`
	EndsAt      string            `json:"endsAt,omitempty"`
	Labels      map[string]string `json:"labels,omitempty"`
	GroupLabels map[string]string `json:"groupLabels,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// MetricsBatchPayload mirrors the webhook body sent by batch-style
// monitoring systems (one shared group, many alert items).
type MetricsBatchPayload struct {
	Status      string             `json:"status"`
	GroupLabels map[string]string  `json:"groupLabels"`
	Alerts      []MetricsBatchItem `json:"alerts"`
}

// MetricsBatchItem is a single alert inside a metrics batch.
type MetricsBatchItem struct {
	Status      string            `json:"status"`
	Labels      map[string]string `json:"labels"`
	Annotations map[string]string `json:"annotations"`
	StartsAt    string            `json:"startsAt"`
	EndsAt      string            `json:"endsAt"`
}

// ThresholdRulePayload mirrors the webhook body sent by single-rule
// threshold alerting (Grafana style: one rule evaluation per call).
type ThresholdRulePayload struct {
	Title       string            `json:"title"`
	RuleName    string            `json:"ruleName"`
	State       string            `json:"state"`
	Message     string            `json:"message"`
	EvalMatches []EvalMatch       `json:"evalMatches"`
	Tags        map[string]string `json:"tags"`
	RuleURL     string            `json:"ruleUrl"`
}

// EvalMatch is one metric sample that triggered a threshold rule.
type EvalMatch struct {
	Metric string            `json:"metric"`
	Value  float64           `json:"value"`
	Tags   map[string]string `json:"tags"`
	Time   string            `json:"time"`
}

// IngestResult is returned by the alerting service for every webhook
// call. Ingestion never surfaces a Go error to the transport layer;
// failures are reported in-band so webhook sources always get an
// acknowledgment and do not enter delivery-retry backoff.
type IngestResult struct {
	Success   bool    `json:"success"`
	Processed int     `json:"processed"`
	Alerts    []Alert `json:"alerts,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// AlertStats summarizes the active-set and history.
type AlertStats struct {
	TotalActive  int `json:"totalActive"`
	Critical     int `json:"critical"`
	Warning      int `json:"warning"`
	HistoryCount int `json:"historyCount"`
}

// AlertsUpdate is the envelope broadcast to live subscribers on every
// processed webhook batch.
type AlertsUpdate struct {
	Status      string    `json:"status"`
	Alerts      []Alert   `json:"alerts"`
	ActiveCount int       `json:"activeCount"`
	Timestamp   time.Time `json:"timestamp"`
}

// BusMessage is the outbound message delivered to the external
// communication bus, one per alert.
type BusMessage struct {
	MessageType string                 `json:"message_type"`
	Source      string                 `json:"source"`
	Target      string                 `json:"target"`
	Content     string                 `json:"content"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// MessagePublisher publishes JSON-serializable payloads to a subject on
// the live-update transport.
type MessagePublisher interface {
	Publish(subject string, data interface{}) error
}
