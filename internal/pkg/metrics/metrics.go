package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReportsGenerated counts report builds by kind (monthly, pivot, groups).
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nippo_reports_generated_total",
		Help: "Number of report matrices generated, by report kind.",
	}, []string{"kind"})

	// ReportDuration observes how long one aggregation run takes.
	ReportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "nippo_report_duration_seconds",
		Help:    "Wall time of one report aggregation run.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	// UpstreamFailures counts failed collaborator calls by collaborator.
	UpstreamFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nippo_upstream_failures_total",
		Help: "Failed upstream fetches, by collaborator.",
	}, []string{"collaborator"})

	// EnrichedIdentities counts directory enrichment fills.
	EnrichedIdentities = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nippo_enriched_identities_total",
		Help: "Session identities enriched from the worker directory.",
	})
)
