package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AlertsProcessed counts canonical alerts that went through the
	// ingestion pipeline, by status.
	AlertsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crowdwatch_alerts_processed_total",
		Help: "Canonical alerts processed by the ingestion pipeline.",
	}, []string{"status"})

	// AlertsPublished counts successful deliveries to the external
	// communication bus, by severity and winning candidate endpoint.
	AlertsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crowdwatch_alerts_published_total",
		Help: "Alerts successfully published to the communication bus.",
	}, []string{"severity", "candidate"})

	// EstimatesComputed counts persisted crowd estimates by method.
	EstimatesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crowdwatch_estimates_computed_total",
		Help: "Crowd estimates computed and persisted, by method.",
	}, []string{"method"})
)
