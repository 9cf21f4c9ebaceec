// Package metrics holds the prometheus collectors shared by the agent.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WorkflowRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_runs_total",
			Help: "Total number of workflow runs",
		},
		[]string{"route", "mode", "status"},
	)
	NodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "workflow_node_duration_seconds",
			Help: "Duration of workflow node executions",
		},
		[]string{"node", "mode"},
	)
	EnrichmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of resource enrichment requests",
		},
		[]string{"mode", "status"},
	)
	CompletionCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "completion_calls_total",
			Help: "Total number of completion service calls",
		},
		[]string{"provider", "status"},
	)
	CompletionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "completion_call_duration_seconds",
			Help: "Duration of completion service calls",
		},
		[]string{"provider"},
	)
	CacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "completion_cache_hits_total",
			Help: "Total number of completion cache hits",
		},
	)
	CacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "completion_cache_misses_total",
			Help: "Total number of completion cache misses",
		},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Duration of HTTP API requests",
		},
		[]string{"method", "endpoint"},
	)
)

func init() {
	prometheus.MustRegister(WorkflowRunsTotal)
	prometheus.MustRegister(NodeDuration)
	prometheus.MustRegister(EnrichmentsTotal)
	prometheus.MustRegister(CompletionCallsTotal)
	prometheus.MustRegister(CompletionDuration)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
}

// Mode returns the label value for a mock flag.
func Mode(mock bool) string {
	if mock {
		return "mock"
	}
	return "live"
}
