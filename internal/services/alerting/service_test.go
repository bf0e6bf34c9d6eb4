package alerting

import (
	"testing"

	"crowdwatch-go/internal/config"
	"crowdwatch-go/internal/models"
)

type fakeBroadcaster struct {
	calls       int
	lastAlerts  []models.Alert
	lastStatus  string
	lastActives int
}

func (f *fakeBroadcaster) BroadcastAlerts(alerts []models.Alert, batchStatus string, activeCount int) {
	f.calls++
	f.lastAlerts = alerts
	f.lastStatus = batchStatus
	f.lastActives = activeCount
}

type fakePublisher struct {
	calls      int
	lastAlerts []models.Alert
	lastLabels map[string]string
}

func (f *fakePublisher) PublishAlerts(alerts []models.Alert, groupLabels map[string]string) {
	f.calls++
	f.lastAlerts = alerts
	f.lastLabels = groupLabels
}

func testConfig() *config.Config {
	return &config.Config{AlertsMaxHistory: 100}
}

func TestIngestMetricsBatchPipeline(t *testing.T) {
	bc := &fakeBroadcaster{}
	pub := &fakePublisher{}
	svc := NewService(testConfig(), bc, pub)

	payload := models.MetricsBatchPayload{
		Status:      "firing",
		GroupLabels: map[string]string{"job": "node"},
		Alerts: []models.MetricsBatchItem{
			{Status: "firing", Labels: map[string]string{"alertname": "HighCPU", "severity": "critical"}},
			{Status: "firing", Labels: map[string]string{"alertname": "DiskFull", "severity": "warning"}},
		},
	}

	result := svc.IngestMetricsBatch(payload)
	if !result.Success || result.Processed != 2 {
		t.Fatalf("result = %+v, want success with 2 processed", result)
	}

	if got := len(svc.ActiveAlerts()); got != 2 {
		t.Errorf("active alerts = %d, want 2", got)
	}

	if bc.calls != 1 {
		t.Fatalf("broadcast calls = %d, want 1", bc.calls)
	}
	if bc.lastStatus != "firing" || bc.lastActives != 2 || len(bc.lastAlerts) != 2 {
		t.Errorf("broadcast args = status %q actives %d alerts %d", bc.lastStatus, bc.lastActives, len(bc.lastAlerts))
	}

	if pub.calls != 1 {
		t.Fatalf("publish calls = %d, want 1", pub.calls)
	}
	if pub.lastLabels["job"] != "node" {
		t.Errorf("publish groupLabels = %+v, want job=node", pub.lastLabels)
	}
}

func TestIngestThresholdRulePipeline(t *testing.T) {
	bc := &fakeBroadcaster{}
	pub := &fakePublisher{}
	svc := NewService(testConfig(), bc, pub)

	result := svc.IngestThresholdRule(models.ThresholdRulePayload{
		Title:    "High memory usage",
		RuleName: "HighMemoryUsage",
		State:    "alerting",
	})
	if !result.Success || result.Processed != 1 {
		t.Fatalf("result = %+v, want success with 1 processed", result)
	}
	if len(result.Alerts) != 1 || result.Alerts[0].Name != "HighMemoryUsage" {
		t.Fatalf("result alerts = %+v", result.Alerts)
	}
	if bc.calls != 1 || pub.calls != 1 {
		t.Errorf("broadcast calls = %d, publish calls = %d, want 1 each", bc.calls, pub.calls)
	}
	if got := svc.AlertStats().TotalActive; got != 1 {
		t.Errorf("totalActive = %d, want 1", got)
	}
}

func TestIngestWithNilTransports(t *testing.T) {
	svc := NewService(testConfig(), nil, nil)

	result := svc.IngestMetricsBatch(models.MetricsBatchPayload{
		Status: "firing",
		Alerts: []models.MetricsBatchItem{
			{Status: "firing", Labels: map[string]string{"alertname": "Lonely"}},
		},
	})

	// Record-only degradation, never a panic
	if !result.Success || result.Processed != 1 {
		t.Fatalf("result = %+v, want success", result)
	}
}

func TestResolveRemovesFromActiveSet(t *testing.T) {
	svc := NewService(testConfig(), nil, nil)

	svc.IngestMetricsBatch(models.MetricsBatchPayload{
		Status: "firing",
		Alerts: []models.MetricsBatchItem{
			{Status: "firing", Labels: map[string]string{"alertname": "HighCPU"}},
		},
	})
	svc.IngestMetricsBatch(models.MetricsBatchPayload{
		Status: "resolved",
		Alerts: []models.MetricsBatchItem{
			{Status: "resolved", Labels: map[string]string{"alertname": "HighCPU"}},
		},
	})

	if got := len(svc.ActiveAlerts()); got != 0 {
		t.Errorf("active alerts = %d, want 0 after resolve", got)
	}
	if got := len(svc.AlertHistory(10)); got != 2 {
		t.Errorf("history = %d, want both transitions kept", got)
	}
}
