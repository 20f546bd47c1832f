package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors of the notebook backend.
type Metrics struct {
	// HTTP surface
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Upstream model calls
	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration *prometheus.HistogramVec

	// Report pipeline
	ReportStageDuration *prometheus.HistogramVec
	ExtractionsTotal    *prometheus.CounterVec

	// Ingestion
	SourcesAddedTotal *prometheus.CounterVec

	// Chat context narrowing
	RetrievalsTotal *prometheus.CounterVec
}

// New returns the process-wide metrics, registering them on first use.
//
// Metrics:
//   - notebook_http_requests_total{method,route,status}
//   - notebook_http_request_duration_seconds{method,route}
//   - notebook_llm_requests_total{provider,outcome}
//   - notebook_llm_request_duration_seconds{provider}
//   - notebook_report_stage_duration_seconds{stage}
//   - notebook_extractions_total{kind,tier}
//   - notebook_sources_added_total{type}
//   - notebook_retrievals_total{outcome}
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notebook_http_requests_total",
					Help: "Total number of HTTP requests served",
				},
				[]string{"method", "route", "status"},
			),

			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "notebook_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),

			LLMRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notebook_llm_requests_total",
					Help: "Total number of completion requests sent upstream",
				},
				[]string{"provider", "outcome"}, // "ok" or "error"
			),

			LLMRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "notebook_llm_request_duration_seconds",
					Help:    "Duration of upstream completion requests in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~51s
				},
				[]string{"provider"},
			),

			ReportStageDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "notebook_report_stage_duration_seconds",
					Help:    "Duration of report pipeline stages in seconds",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
				},
				[]string{"stage"}, // "research", "synthesize", "edit", "direct"
			),

			ExtractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notebook_extractions_total",
					Help: "Structured payload extractions by kind and the parse tier that succeeded",
				},
				[]string{"kind", "tier"},
			),

			SourcesAddedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notebook_sources_added_total",
					Help: "Total number of sources attached to notebooks",
				},
				[]string{"type"},
			),

			RetrievalsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notebook_retrievals_total",
					Help: "Chat context narrowing attempts by outcome",
				},
				[]string{"outcome"}, // "full", "narrowed", "error"
			),
		}
	})
	return globalMetrics
}
